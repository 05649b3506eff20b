package routes

import (
	"github.com/Vijaypastham/nutranexus-sub000/controllers"
	"github.com/Vijaypastham/nutranexus-sub000/middleware"
	"github.com/Vijaypastham/nutranexus-sub000/services"

	"github.com/gin-gonic/gin"
)

type Controllers struct {
	Order    *controllers.OrderController
	Stripe   *controllers.StripeController
	Webhook  *controllers.WebhookController
	Merchant *controllers.MerchantController
}

func Register(r *gin.Engine, c Controllers, auth services.AuthService) {
	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	orders := api.Group("/orders")
	orders.POST("", c.Order.CreateOrder)
	orders.GET("/:orderNumber", c.Order.GetOrder)
	orders.PUT("/:orderNumber/status", c.Order.UpdateOrderStatus)

	stripeGroup := api.Group("/stripe")
	stripeGroup.POST("/create-checkout-session", c.Stripe.CreateCheckoutSession)
	stripeGroup.GET("/session/:sessionId", c.Stripe.GetSession)
	stripeGroup.GET("/payment-intent/:id", c.Stripe.GetPaymentIntent)

	// Stripe webhook (no auth; signature-verified against the raw body)
	api.POST("/webhooks/stripe", c.Webhook.HandleStripeWebhook)

	merchant := api.Group("/merchant")
	merchant.POST("/login", middleware.LoginRateLimit(), c.Merchant.Login)

	protected := merchant.Group("")
	protected.Use(middleware.AuthMiddleware(auth))
	protected.GET("/orders", c.Merchant.ListOrders)
	protected.GET("/orders/:orderNumber", c.Merchant.GetOrder)
	protected.PUT("/orders/:orderNumber/status", c.Merchant.UpdateOrderStatus)
	protected.POST("/orders/:orderNumber/refund", c.Merchant.RefundOrder)
	protected.GET("/orders/:orderNumber/refunds", c.Merchant.ListRefunds)
	protected.GET("/stats", c.Merchant.GetStats)
	protected.GET("/analytics", c.Merchant.GetAnalytics)
}
