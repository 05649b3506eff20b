package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Vijaypastham/nutranexus-sub000/apperrors"
	"github.com/Vijaypastham/nutranexus-sub000/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type MerchantController struct {
	merchantService services.MerchantService
	authService     services.AuthService
}

func NewMerchantController(merchantService services.MerchantService, authService services.AuthService) *MerchantController {
	return &MerchantController{
		merchantService: merchantService,
		authService:     authService,
	}
}

// Login exchanges the configured merchant credentials for a bearer token.
func (mc *MerchantController) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	result, err := mc.authService.Login(req.Username, req.Password)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListOrders returns paginated orders, newest first, optionally filtered by
// status.
func (mc *MerchantController) ListOrders(c *gin.Context) {
	page, limit := parsePaginationParams(c)
	status := c.Query("status")

	result, err := mc.merchantService.ListOrders(c.Request.Context(), page, limit, status)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetOrder returns one order for the merchant dashboard detail view.
func (mc *MerchantController) GetOrder(c *gin.Context) {
	order, err := mc.merchantService.GetOrder(c.Request.Context(), c.Param("orderNumber"))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// UpdateOrderStatus applies a manual merchant status transition.
func (mc *MerchantController) UpdateOrderStatus(c *gin.Context) {
	var req struct {
		Status         string  `json:"status" binding:"required"`
		TrackingNumber *string `json:"trackingNumber"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}

	if err := mc.merchantService.UpdateOrderStatus(c.Request.Context(), c.Param("orderNumber"), req.Status, req.TrackingNumber); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order status updated"})
}

// RefundOrder initiates a full or partial provider-side refund.
func (mc *MerchantController) RefundOrder(c *gin.Context) {
	var req struct {
		Amount *decimal.Decimal `json:"amount"`
		Reason string           `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	result, err := mc.merchantService.RefundOrder(c.Request.Context(), c.Param("orderNumber"), req.Amount, req.Reason)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListRefunds returns the persisted refunds for one order.
func (mc *MerchantController) ListRefunds(c *gin.Context) {
	refunds, err := mc.merchantService.ListRefunds(c.Request.Context(), c.Param("orderNumber"))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"refunds": refunds})
}

// GetStats returns order totals and the per-status breakdown.
func (mc *MerchantController) GetStats(c *gin.Context) {
	stats, err := mc.merchantService.GetStats(c.Request.Context())
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetAnalytics returns windowed revenue aggregates for the dashboard.
// range is "7d", "30d", "90d" or "365d".
func (mc *MerchantController) GetAnalytics(c *gin.Context) {
	rangeParam := strings.TrimSuffix(c.DefaultQuery("range", "30d"), "d")
	rangeDays, err := strconv.Atoi(rangeParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid range parameter"})
		return
	}

	analytics, svcErr := mc.merchantService.GetAnalytics(c.Request.Context(), rangeDays)
	if svcErr != nil {
		apperrors.Respond(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, analytics)
}

// parsePaginationParams extracts and validates pagination parameters
func parsePaginationParams(c *gin.Context) (int, int) {
	const MaxLimit = 100

	page := 1
	limit := 10

	if p, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(c.DefaultQuery("limit", "10")); err == nil && l > 0 {
		limit = l
		if limit > MaxLimit {
			limit = MaxLimit
		}
	}

	return page, limit
}
