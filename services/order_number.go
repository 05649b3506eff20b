package services

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateOrderNumber produces a customer-facing order identifier: a fixed
// "NN" prefix, six time-derived digits and four random digits. Collisions are
// not checked here; the unique index on order_number surfaces them at insert.
func GenerateOrderNumber() string {
	return fmt.Sprintf("NN%06d%04d", time.Now().Unix()%1000000, rand.Intn(10000))
}
