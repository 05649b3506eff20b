package services

import (
	"context"
	"sync"
	"time"

	"github.com/Vijaypastham/nutranexus-sub000/models"
	"github.com/Vijaypastham/nutranexus-sub000/repository"

	"github.com/stripe/stripe-go/v80"
	"gorm.io/gorm"
)

// fakeOrderRepo is an in-memory OrderRepository keyed by order number. It
// emulates the unique index on order_number. Aggregate calls pop canned
// results: totalsQueue feeds TotalsBetween in call order, dailySeries feeds
// DailyRevenueBetween.
type fakeOrderRepo struct {
	mu          sync.Mutex
	orders      map[string]*models.Order
	totalsQueue []repository.WindowTotals
	dailySeries []repository.DailyRevenue
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*models.Order)}
}

func (f *fakeOrderRepo) Create(ctx context.Context, order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.orders[order.OrderNumber]; exists {
		return gorm.ErrDuplicatedKey
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
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
		case "updated_at":
			order.UpdatedAt = val.(time.Time)
		}
	}
	return nil
}

func (f *fakeOrderRepo) FindAll(ctx context.Context, page, limit int, status string) ([]models.Order, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []models.Order
	for _, order := range f.orders {
		if status == "" || order.Status == status {
			matched = append(matched, *order)
		}
	}
	total := int64(len(matched))
	start := (page - 1) * limit
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (f *fakeOrderRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[string]int64)
	for _, order := range f.orders {
		counts[order.Status]++
	}
	return counts, nil
}

func (f *fakeOrderRepo) TotalsBetween(ctx context.Context, from, to time.Time) (repository.WindowTotals, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.totalsQueue) == 0 {
		return repository.WindowTotals{}, nil
	}
	totals := f.totalsQueue[0]
	f.totalsQueue = f.totalsQueue[1:]
	return totals, nil
}

func (f *fakeOrderRepo) DailyRevenueBetween(ctx context.Context, from, to time.Time) ([]repository.DailyRevenue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dailySeries, nil
}

// fakeRefundRepo is an in-memory RefundRepository.
type fakeRefundRepo struct {
	mu      sync.Mutex
	refunds []models.Refund
}

func (f *fakeRefundRepo) Create(ctx context.Context, refund *models.Refund) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refunds = append(f.refunds, *refund)
	return nil
}

func (f *fakeRefundRepo) FindByOrderNumber(ctx context.Context, orderNumber string) ([]models.Refund, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []models.Refund
	for _, r := range f.refunds {
		if r.OrderNumber == orderNumber {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

// fakeStripe records the parameters of every provider call so tests can
// assert on what would have been sent over the wire.
type fakeStripe struct {
	sessionParams  *stripe.CheckoutSessionParams
	refundParams   *stripe.RefundParams
	sessionCalls   int
	refundCalls    int
	sessionErr     error
	refundErr      error
	refundStatus   stripe.RefundStatus
	nextSessionID  string
	nextSessionURL string
}

func (f *fakeStripe) CreateCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	f.sessionCalls++
	f.sessionParams = params
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	id := f.nextSessionID
	if id == "" {
		id = "cs_test_123"
	}
	url := f.nextSessionURL
	if url == "" {
		url = "https://checkout.stripe.com/pay/" + id
	}
	return &stripe.CheckoutSession{ID: id, URL: url}, nil
}

func (f *fakeStripe) GetCheckoutSession(id string) (*stripe.CheckoutSession, error) {
	return &stripe.CheckoutSession{ID: id}, nil
}

func (f *fakeStripe) GetPaymentIntent(id string) (*stripe.PaymentIntent, error) {
	return &stripe.PaymentIntent{ID: id}, nil
}

func (f *fakeStripe) CreateRefund(params *stripe.RefundParams) (*stripe.Refund, error) {
	f.refundCalls++
	f.refundParams = params
	if f.refundErr != nil {
		return nil, f.refundErr
	}
	status := f.refundStatus
	if status == "" {
		status = stripe.RefundStatusSucceeded
	}
	return &stripe.Refund{ID: "re_test_123", Status: status}, nil
}

func (f *fakeStripe) ConstructEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	return stripe.Event{}, nil
}
