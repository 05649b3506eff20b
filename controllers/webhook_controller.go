package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Vijaypastham/nutranexus-sub000/models"
	"github.com/Vijaypastham/nutranexus-sub000/repository"
	"github.com/Vijaypastham/nutranexus-sub000/services"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type WebhookController struct {
	Stripe    services.StripeAPI
	OrderRepo repository.OrderRepository
	Logger    *zap.Logger
}

func NewWebhookController(stripeAPI services.StripeAPI, orderRepo repository.OrderRepository, logger *zap.Logger) *WebhookController {
	return &WebhookController{
		Stripe:    stripeAPI,
		OrderRepo: orderRepo,
		Logger:    logger,
	}
}

// HandleStripeWebhook receives and dispatches Stripe webhook events. The
// signature is verified against the raw request body before anything is
// parsed; a bad signature is the only condition reported back as an error,
// so the provider does not retry poison events forever.
func (wc *WebhookController) HandleStripeWebhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to read request body"})
		return
	}

	event, err := wc.Stripe.ConstructEvent(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		wc.Logger.Warn("Stripe webhook signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook signature"})
		return
	}

	wc.Logger.Info("Processing Stripe webhook",
		zap.String("event_type", string(event.Type)),
		zap.String("event_id", event.ID),
	)

	ctx := c.Request.Context()

	switch event.Type {
	case "checkout.session.completed":
		wc.handleCheckoutCompleted(ctx, event)
	case "payment_intent.succeeded":
		wc.handlePaymentIntentSucceeded(ctx, event)
	case "payment_intent.payment_failed":
		wc.handlePaymentIntentFailed(ctx, event)
	default:
		wc.Logger.Info("Unhandled webhook event type", zap.String("event_type", string(event.Type)))
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (wc *WebhookController) handleCheckoutCompleted(ctx context.Context, event stripe.Event) {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		wc.Logger.Error("Failed to unmarshal checkout session", zap.Error(err))
		return
	}

	orderNumber := sess.Metadata["order_number"]
	if orderNumber == "" {
		wc.Logger.Warn("Missing order_number metadata in checkout session",
			zap.String("session_id", sess.ID),
		)
		return
	}

	updates := map[string]interface{}{"status": models.StatusPaid}
	if sess.PaymentIntent != nil && sess.PaymentIntent.ID != "" {
		updates["stripe_payment_intent_id"] = sess.PaymentIntent.ID
	}

	wc.applyTransition(ctx, orderNumber, models.StatusPaid, updates, event)
}

func (wc *WebhookController) handlePaymentIntentSucceeded(ctx context.Context, event stripe.Event) {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		wc.Logger.Error("Failed to unmarshal payment intent", zap.Error(err))
		return
	}

	orderNumber := pi.Metadata["order_number"]
	if orderNumber == "" {
		wc.Logger.Warn("Missing order_number metadata in payment intent",
			zap.String("payment_intent_id", pi.ID),
		)
		return
	}

	updates := map[string]interface{}{
		"status":                   models.StatusPaid,
		"stripe_payment_intent_id": pi.ID,
	}
	if pi.LatestCharge != nil && pi.LatestCharge.ReceiptURL != "" {
		updates["receipt_url"] = pi.LatestCharge.ReceiptURL
	}

	wc.applyTransition(ctx, orderNumber, models.StatusPaid, updates, event)
}

func (wc *WebhookController) handlePaymentIntentFailed(ctx context.Context, event stripe.Event) {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		wc.Logger.Error("Failed to unmarshal payment intent", zap.Error(err))
		return
	}

	orderNumber := pi.Metadata["order_number"]
	if orderNumber == "" {
		wc.Logger.Warn("Missing order_number metadata in payment intent",
			zap.String("payment_intent_id", pi.ID),
		)
		return
	}

	wc.applyTransition(ctx, orderNumber, models.StatusPaymentFailed, map[string]interface{}{
		"status":                   models.StatusPaymentFailed,
		"stripe_payment_intent_id": pi.ID,
	}, event)
}

// applyTransition moves an order into a webhook-driven state. An event is
// skipped only when every column it carries already holds the same value,
// which keeps redeliveries idempotent while still letting a later event of
// the same payment add what an earlier one lacked (checkout.session.completed
// sets the status, payment_intent.succeeded brings the receipt URL). Business
// errors are logged per-event and never surfaced to the provider.
func (wc *WebhookController) applyTransition(ctx context.Context, orderNumber, targetStatus string, updates map[string]interface{}, event stripe.Event) {
	order, err := wc.OrderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			wc.Logger.Warn("Order not found for webhook event",
				zap.String("order_number", orderNumber),
				zap.String("event_id", event.ID),
			)
			return
		}
		wc.Logger.Error("Failed to load order for webhook event",
			zap.String("order_number", orderNumber),
			zap.Error(err),
		)
		return
	}

	if !changesOrder(order, updates) {
		wc.Logger.Info("Skipping duplicate webhook delivery",
			zap.String("order_number", orderNumber),
			zap.String("status", order.Status),
			zap.String("event_id", event.ID),
		)
		return
	}

	if err := wc.OrderRepo.UpdateFields(ctx, orderNumber, updates); err != nil {
		wc.Logger.Error("Failed to update order from webhook event",
			zap.String("order_number", orderNumber),
			zap.String("event_id", event.ID),
			zap.Error(err),
		)
		return
	}

	wc.Logger.Info("Order transitioned from webhook event",
		zap.String("order_number", orderNumber),
		zap.String("status", targetStatus),
		zap.String("event_type", string(event.Type)),
	)
}

// changesOrder reports whether applying updates would alter any column on
// the loaded order.
func changesOrder(order *models.Order, updates map[string]interface{}) bool {
	for col, val := range updates {
		switch col {
		case "status":
			if order.Status != val.(string) {
				return true
			}
		case "stripe_payment_intent_id":
			if order.StripePaymentIntentID == nil || *order.StripePaymentIntentID != val.(string) {
				return true
			}
		case "receipt_url":
			if order.ReceiptURL == nil || *order.ReceiptURL != val.(string) {
				return true
			}
		default:
			return true
		}
	}
	return false
}
