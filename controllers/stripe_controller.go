package controllers

import (
	"net/http"

	"github.com/Vijaypastham/nutranexus-sub000/apperrors"
	"github.com/Vijaypastham/nutranexus-sub000/services"

	"github.com/gin-gonic/gin"
)

type StripeController struct {
	checkoutService services.CheckoutService
}

func NewStripeController(checkoutService services.CheckoutService) *StripeController {
	return &StripeController{checkoutService: checkoutService}
}

// CreateCheckoutSession builds a hosted payment session for a pending order.
func (sc *StripeController) CreateCheckoutSession(c *gin.Context) {
	var req struct {
		OrderNumber string `json:"orderNumber" binding:"required"`
		SuccessURL  string `json:"successUrl" binding:"required"`
		CancelURL   string `json:"cancelUrl" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	result, err := sc.checkoutService.CreateCheckoutSession(c.Request.Context(), req.OrderNumber, req.SuccessURL, req.CancelURL)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetSession is a read-through to the provider's checkout session.
func (sc *StripeController) GetSession(c *gin.Context) {
	sess, err := sc.checkoutService.GetSession(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":            sess.ID,
		"status":        sess.Status,
		"paymentStatus": sess.PaymentStatus,
		"amountTotal":   sess.AmountTotal,
		"currency":      sess.Currency,
		"metadata":      sess.Metadata,
	})
}

// GetPaymentIntent is a read-through to the provider's payment intent.
func (sc *StripeController) GetPaymentIntent(c *gin.Context) {
	pi, err := sc.checkoutService.GetPaymentIntent(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       pi.ID,
		"status":   pi.Status,
		"amount":   pi.Amount,
		"currency": pi.Currency,
		"metadata": pi.Metadata,
	})
}
