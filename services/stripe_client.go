package services

import (
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"
	"github.com/stripe/stripe-go/v80/paymentintent"
	"github.com/stripe/stripe-go/v80/refund"
	"github.com/stripe/stripe-go/v80/webhook"
)

// StripeAPI is the surface of the payment provider used by this service.
// It exists so the orchestration logic can be tested without network calls.
type StripeAPI interface {
	CreateCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	GetCheckoutSession(id string) (*stripe.CheckoutSession, error)
	GetPaymentIntent(id string) (*stripe.PaymentIntent, error)
	CreateRefund(params *stripe.RefundParams) (*stripe.Refund, error)
	ConstructEvent(payload []byte, sigHeader string) (stripe.Event, error)
}

type StripeService struct {
	webhookKey string
}

func NewStripeService(secretKey, webhookKey string) *StripeService {
	stripe.Key = secretKey
	return &StripeService{webhookKey: webhookKey}
}

func (s *StripeService) CreateCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return session.New(params)
}

func (s *StripeService) GetCheckoutSession(id string) (*stripe.CheckoutSession, error) {
	return session.Get(id, nil)
}

func (s *StripeService) GetPaymentIntent(id string) (*stripe.PaymentIntent, error) {
	return paymentintent.Get(id, nil)
}

func (s *StripeService) CreateRefund(params *stripe.RefundParams) (*stripe.Refund, error) {
	return refund.New(params)
}

// ConstructEvent verifies the webhook signature against the raw payload and
// parses the event. Verification must happen on the exact bytes received;
// re-serialized JSON would not match the signature.
func (s *StripeService) ConstructEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, sigHeader, s.webhookKey)
}

// providerMessage extracts the human-readable message from a Stripe error,
// falling back to the plain error text.
func providerMessage(err error) string {
	if stripeErr, ok := err.(*stripe.Error); ok && stripeErr.Msg != "" {
		return stripeErr.Msg
	}
	return err.Error()
}
