package controllers

import (
	"net/http"

	"github.com/Vijaypastham/nutranexus-sub000/apperrors"
	"github.com/Vijaypastham/nutranexus-sub000/services"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	orderService services.OrderService
}

func NewOrderController(orderService services.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

// CreateOrder handles order creation requests
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	order, err := oc.orderService.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"orderNumber": order.OrderNumber,
		"status":      order.Status,
	})
}

// GetOrder returns a single order by its customer-facing order number.
func (oc *OrderController) GetOrder(c *gin.Context) {
	order, err := oc.orderService.GetOrder(c.Request.Context(), c.Param("orderNumber"))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// UpdateOrderStatus is the internal status-update endpoint used by payment
// reconciliation callers.
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	var req services.UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if err := oc.orderService.UpdatePaymentStatus(c.Request.Context(), c.Param("orderNumber"), &req); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order status updated"})
}
