package services

import (
	"context"
	"testing"

	"github.com/Vijaypastham/nutranexus-sub000/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Walks an order through the happy path: create, open a checkout session,
// reconcile the payment, and read it back as paid.
func TestOrderLifecycle_PendingToPaid(t *testing.T) {
	repo := newFakeOrderRepo()
	stripeAPI := &fakeStripe{}
	orderSvc := NewOrderService(repo, zap.NewNop())
	checkoutSvc := NewCheckoutService(repo, stripeAPI, zap.NewNop())

	ctx := context.Background()

	req := validOrderRequest()
	req.TotalAmount = decimal.NewFromInt(1699)
	order, err := orderSvc.CreateOrder(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, order.Status)

	session, err := checkoutSvc.CreateCheckoutSession(ctx, order.OrderNumber, "https://shop.example/success", "https://shop.example/cancel")
	require.NoError(t, err)

	stored, err := repo.FindByOrderNumber(ctx, order.OrderNumber)
	require.NoError(t, err)
	require.NotNil(t, stored.StripeSessionID)
	assert.Equal(t, session.SessionID, *stored.StripeSessionID)

	piID := "pi_lifecycle_1"
	receipt := "https://pay.stripe.com/receipts/lc1"
	require.NoError(t, orderSvc.UpdatePaymentStatus(ctx, order.OrderNumber, &UpdatePaymentStatusRequest{
		Status:                models.StatusPaid,
		StripePaymentIntentID: &piID,
		ReceiptURL:            &receipt,
	}))

	final, err := orderSvc.GetOrder(ctx, order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, final.Status)
	require.NotNil(t, final.StripePaymentIntentID)
	assert.Equal(t, piID, *final.StripePaymentIntentID)

	// A second checkout attempt on a paid order is refused.
	_, err = checkoutSvc.CreateCheckoutSession(ctx, order.OrderNumber, "https://shop.example/success", "https://shop.example/cancel")
	require.Error(t, err)
}
