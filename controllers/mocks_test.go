package controllers

import (
	"context"
	"sync"
	"time"

	"github.com/Vijaypastham/nutranexus-sub000/models"
	"github.com/Vijaypastham/nutranexus-sub000/repository"

	"gorm.io/gorm"
)

// fakeOrderRepo is an in-memory OrderRepository used by webhook tests.
type fakeOrderRepo struct {
	mu          sync.Mutex
	orders      map[string]*models.Order
	updateCalls int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*models.Order)}
}

func (f *fakeOrderRepo) Create(ctx context.Context, order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *order
	f.orders[order.OrderNumber] = &clone
	return nil
}

func (f *fakeOrderRepo) FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[orderNumber]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *order
	return &clone, nil
}

func (f *fakeOrderRepo) UpdateFields(ctx context.Context, orderNumber string, updates map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[orderNumber]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	f.updateCalls++
	for col, val := range updates {
		switch col {
		case "status":
			order.Status = val.(string)
		case "stripe_session_id":
			s := val.(string)
			order.StripeSessionID = &s
		case "stripe_payment_intent_id":
			s := val.(string)
			order.StripePaymentIntentID = &s
		case "receipt_url":
			s := val.(string)
			order.ReceiptURL = &s
		case "tracking_number":
			s := val.(string)
			order.TrackingNumber = &s
		}
	}
	return nil
}

func (f *fakeOrderRepo) FindAll(ctx context.Context, page, limit int, status string) ([]models.Order, int64, error) {
	return nil, 0, nil
}

func (f *fakeOrderRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return map[string]int64{}, nil
}

func (f *fakeOrderRepo) TotalsBetween(ctx context.Context, from, to time.Time) (repository.WindowTotals, error) {
	return repository.WindowTotals{}, nil
}

func (f *fakeOrderRepo) DailyRevenueBetween(ctx context.Context, from, to time.Time) ([]repository.DailyRevenue, error) {
	return nil, nil
}
