package services

import (
	"context"
	"errors"
	"strings"

	"github.com/Vijaypastham/nutranexus-sub000/apperrors"
	"github.com/Vijaypastham/nutranexus-sub000/models"
	"github.com/Vijaypastham/nutranexus-sub000/repository"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CheckoutSessionResult struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

type CheckoutService interface {
	CreateCheckoutSession(ctx context.Context, orderNumber, successURL, cancelURL string) (*CheckoutSessionResult, error)
	GetSession(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error)
	GetPaymentIntent(ctx context.Context, paymentIntentID string) (*stripe.PaymentIntent, error)
}

type checkoutService struct {
	orderRepo repository.OrderRepository
	stripe    StripeAPI
	logger    *zap.Logger
}

func NewCheckoutService(orderRepo repository.OrderRepository, stripeAPI StripeAPI, logger *zap.Logger) CheckoutService {
	return &checkoutService{
		orderRepo: orderRepo,
		stripe:    stripeAPI,
		logger:    logger,
	}
}

// CreateCheckoutSession builds a hosted payment session for a pending order
// and binds the returned session id back onto the order. A repeat checkout
// attempt overwrites the previous session id.
func (s *checkoutService) CreateCheckoutSession(ctx context.Context, orderNumber, successURL, cancelURL string) (*CheckoutSessionResult, error) {
	order, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Order not found")
		}
		return nil, err
	}

	if order.Status != models.StatusPending {
		return nil, apperrors.InvalidState("Order is not available for payment")
	}

	metadata := map[string]string{
		"order_number":   order.OrderNumber,
		"customer_name":  order.CustomerName,
		"customer_phone": order.CustomerPhone,
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
		LineItems:  buildLineItems(order),
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: metadata,
		},
	}
	params.Metadata = metadata

	sess, err := s.stripe.CreateCheckoutSession(params)
	if err != nil {
		s.logger.Error("Stripe checkout session creation failed",
			zap.String("order_number", orderNumber),
			zap.Error(err),
		)
		return nil, apperrors.PaymentProvider(providerMessage(err), err)
	}

	if err := s.orderRepo.UpdateFields(ctx, orderNumber, map[string]interface{}{
		"stripe_session_id": sess.ID,
	}); err != nil {
		s.logger.Error("Failed to persist checkout session id",
			zap.String("order_number", orderNumber),
			zap.String("session_id", sess.ID),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("Checkout session created",
		zap.String("order_number", orderNumber),
		zap.String("session_id", sess.ID),
	)

	return &CheckoutSessionResult{SessionID: sess.ID, URL: sess.URL}, nil
}

func (s *checkoutService) GetSession(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error) {
	sess, err := s.stripe.GetCheckoutSession(sessionID)
	if err != nil {
		return nil, apperrors.PaymentProvider(providerMessage(err), err)
	}
	return sess, nil
}

func (s *checkoutService) GetPaymentIntent(ctx context.Context, paymentIntentID string) (*stripe.PaymentIntent, error) {
	pi, err := s.stripe.GetPaymentIntent(paymentIntentID)
	if err != nil {
		return nil, apperrors.PaymentProvider(providerMessage(err), err)
	}
	return pi, nil
}

func buildLineItems(order *models.Order) []*stripe.CheckoutSessionLineItemParams {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(order.Items))
	for _, item := range order.Items {
		name := item.Name
		if item.Flavor != "" {
			name = name + " (" + item.Flavor + ")"
		}
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(strings.ToLower(order.Currency)),
				UnitAmount: stripe.Int64(toMinorUnits(item.Price)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(name),
				},
			},
			Quantity: stripe.Int64(int64(item.Quantity)),
		})
	}
	return lineItems
}

// toMinorUnits converts a rupee amount to integer paise.
func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
