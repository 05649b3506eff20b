package services

import (
	"context"
	"errors"
	"time"

	"github.com/Vijaypastham/nutranexus-sub000/apperrors"
	"github.com/Vijaypastham/nutranexus-sub000/models"
	"github.com/Vijaypastham/nutranexus-sub000/repository"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var analyticsRanges = map[int]bool{7: true, 30: true, 90: true, 365: true}

type OrderListResponse struct {
	Orders []models.Order `json:"orders"`
	Meta   MetaData       `json:"meta"`
}

type MetaData struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalOrders int64 `json:"total_orders"`
	TotalPages  int64 `json:"total_pages"`
	HasMore     bool  `json:"has_more"`
}

type RefundResult struct {
	RefundID string `json:"refundId"`
	Amount   int64  `json:"amount"`
	Status   string `json:"status"`
}

type StatsResponse struct {
	TotalOrders  int64            `json:"totalOrders"`
	TotalRevenue decimal.Decimal  `json:"totalRevenue"`
	StatusCounts map[string]int64 `json:"statusCounts"`
}

type AnalyticsWindow struct {
	Revenue           decimal.Decimal `json:"revenue"`
	OrderCount        int64           `json:"orderCount"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
}

type AnalyticsResponse struct {
	RangeDays       int                       `json:"rangeDays"`
	Current         AnalyticsWindow           `json:"current"`
	Previous        AnalyticsWindow           `json:"previous"`
	RevenueChange   decimal.Decimal           `json:"revenueChangePercent"`
	OrderChange     decimal.Decimal           `json:"orderChangePercent"`
	DailyRevenue    []repository.DailyRevenue `json:"dailyRevenue"`
	StatusBreakdown map[string]int64          `json:"statusBreakdown"`
}

type MerchantService interface {
	ListOrders(ctx context.Context, page, limit int, status string) (*OrderListResponse, error)
	GetOrder(ctx context.Context, orderNumber string) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderNumber, status string, trackingNumber *string) error
	RefundOrder(ctx context.Context, orderNumber string, amount *decimal.Decimal, reason string) (*RefundResult, error)
	ListRefunds(ctx context.Context, orderNumber string) ([]models.Refund, error)
	GetStats(ctx context.Context) (*StatsResponse, error)
	GetAnalytics(ctx context.Context, rangeDays int) (*AnalyticsResponse, error)
}

type merchantService struct {
	orderRepo  repository.OrderRepository
	refundRepo repository.RefundRepository
	stripe     StripeAPI
	logger     *zap.Logger
}

func NewMerchantService(orderRepo repository.OrderRepository, refundRepo repository.RefundRepository, stripeAPI StripeAPI, logger *zap.Logger) MerchantService {
	return &merchantService{
		orderRepo:  orderRepo,
		refundRepo: refundRepo,
		stripe:     stripeAPI,
		logger:     logger,
	}
}

func (s *merchantService) ListOrders(ctx context.Context, page, limit int, status string) (*OrderListResponse, error) {
	if status != "" && !models.ValidStatuses[status] {
		return nil, apperrors.Validation("Invalid order status filter")
	}

	orders, total, err := s.orderRepo.FindAll(ctx, page, limit, status)
	if err != nil {
		s.logger.Error("Failed to list orders", zap.Error(err))
		return nil, err
	}

	return &OrderListResponse{
		Orders: orders,
		Meta: MetaData{
			Page:        page,
			Limit:       limit,
			TotalOrders: total,
			TotalPages:  calculateTotalPages(total, limit),
			HasMore:     total > int64(page*limit),
		},
	}, nil
}

func (s *merchantService) GetOrder(ctx context.Context, orderNumber string) (*models.Order, error) {
	order, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Order not found")
		}
		return nil, err
	}
	return order, nil
}

// UpdateOrderStatus applies a merchant-driven status transition. A tracking
// number is attached only when one is supplied.
func (s *merchantService) UpdateOrderStatus(ctx context.Context, orderNumber, status string, trackingNumber *string) error {
	if !models.ValidStatuses[status] {
		return apperrors.Validation("Invalid order status")
	}

	updates := map[string]interface{}{"status": status}
	if trackingNumber != nil && *trackingNumber != "" {
		updates["tracking_number"] = *trackingNumber
	}

	if err := s.orderRepo.UpdateFields(ctx, orderNumber, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("Order not found")
		}
		s.logger.Error("Failed to update order status",
			zap.String("order_number", orderNumber),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("Order status updated",
		zap.String("order_number", orderNumber),
		zap.String("status", status),
	)
	return nil
}

// RefundOrder initiates a provider-side refund, records it and cancels the
// order. With no explicit amount the full order total is refunded.
func (s *merchantService) RefundOrder(ctx context.Context, orderNumber string, amount *decimal.Decimal, reason string) (*RefundResult, error) {
	order, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Order not found")
		}
		return nil, err
	}

	if order.StripePaymentIntentID == nil || *order.StripePaymentIntentID == "" {
		return nil, apperrors.InvalidState("No payment found for this order")
	}
	if order.Status == models.StatusCancelled {
		return nil, apperrors.InvalidState("Order is already cancelled")
	}

	refundAmount := order.TotalAmount
	if amount != nil {
		refundAmount = *amount
	}
	amountMinor := toMinorUnits(refundAmount)

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(*order.StripePaymentIntentID),
		Amount:        stripe.Int64(amountMinor),
		Metadata: map[string]string{
			"order_number": order.OrderNumber,
			"reason":       reason,
		},
	}

	ref, err := s.stripe.CreateRefund(params)
	if err != nil {
		s.logger.Error("Stripe refund failed",
			zap.String("order_number", orderNumber),
			zap.Error(err),
		)
		return nil, apperrors.PaymentProvider(providerMessage(err), err)
	}

	refundRow := &models.Refund{
		StripeRefundID:        ref.ID,
		OrderNumber:           order.OrderNumber,
		StripePaymentIntentID: *order.StripePaymentIntentID,
		Amount:                amountMinor,
		Currency:              order.Currency,
		Reason:                reason,
		Status:                string(ref.Status),
	}
	if err := s.refundRepo.Create(ctx, refundRow); err != nil {
		// The provider refund already went through; keep going so the order
		// still reaches its cancelled state.
		s.logger.Error("Failed to persist refund record",
			zap.String("order_number", orderNumber),
			zap.String("refund_id", ref.ID),
			zap.Error(err),
		)
	}

	if err := s.orderRepo.UpdateFields(ctx, orderNumber, map[string]interface{}{
		"status": models.StatusCancelled,
	}); err != nil {
		s.logger.Error("Failed to cancel order after refund",
			zap.String("order_number", orderNumber),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("Order refunded",
		zap.String("order_number", orderNumber),
		zap.String("refund_id", ref.ID),
		zap.Int64("amount", amountMinor),
	)

	return &RefundResult{
		RefundID: ref.ID,
		Amount:   amountMinor,
		Status:   string(ref.Status),
	}, nil
}

func (s *merchantService) ListRefunds(ctx context.Context, orderNumber string) ([]models.Refund, error) {
	return s.refundRepo.FindByOrderNumber(ctx, orderNumber)
}

func (s *merchantService) GetStats(ctx context.Context) (*StatsResponse, error) {
	counts, err := s.orderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	var totalOrders int64
	for _, c := range counts {
		totalOrders += c
	}

	// All-time revenue; TotalsBetween bounds are half-open so push the upper
	// bound past now.
	totals, err := s.orderRepo.TotalsBetween(ctx, time.Time{}, time.Now().Add(time.Second))
	if err != nil {
		return nil, err
	}

	return &StatsResponse{
		TotalOrders:  totalOrders,
		TotalRevenue: totals.Revenue,
		StatusCounts: counts,
	}, nil
}

func (s *merchantService) GetAnalytics(ctx context.Context, rangeDays int) (*AnalyticsResponse, error) {
	if !analyticsRanges[rangeDays] {
		return nil, apperrors.Validation("Range must be one of 7, 30, 90 or 365 days")
	}

	now := time.Now()
	currentFrom := now.AddDate(0, 0, -rangeDays)
	previousFrom := now.AddDate(0, 0, -2*rangeDays)

	current, err := s.orderRepo.TotalsBetween(ctx, currentFrom, now)
	if err != nil {
		return nil, err
	}
	previous, err := s.orderRepo.TotalsBetween(ctx, previousFrom, currentFrom)
	if err != nil {
		return nil, err
	}
	daily, err := s.orderRepo.DailyRevenueBetween(ctx, currentFrom, now)
	if err != nil {
		return nil, err
	}
	counts, err := s.orderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	return &AnalyticsResponse{
		RangeDays:       rangeDays,
		Current:         buildWindow(current),
		Previous:        buildWindow(previous),
		RevenueChange:   percentChange(previous.Revenue, current.Revenue),
		OrderChange:     percentChange(decimal.NewFromInt(previous.OrderCount), decimal.NewFromInt(current.OrderCount)),
		DailyRevenue:    daily,
		StatusBreakdown: counts,
	}, nil
}

func buildWindow(totals repository.WindowTotals) AnalyticsWindow {
	aov := decimal.Zero
	if totals.OrderCount > 0 {
		aov = totals.Revenue.DivRound(decimal.NewFromInt(totals.OrderCount), 2)
	}
	return AnalyticsWindow{
		Revenue:           totals.Revenue,
		OrderCount:        totals.OrderCount,
		AverageOrderValue: aov,
	}
}

// percentChange returns the change from previous to current as a percentage
// rounded to two decimal places. A zero previous window reports 0 or 100.
func percentChange(previous, current decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		if current.IsZero() {
			return decimal.Zero
		}
		return decimal.NewFromInt(100)
	}
	return current.Sub(previous).DivRound(previous, 4).Mul(decimal.NewFromInt(100)).Round(2)
}

func calculateTotalPages(total int64, limit int) int64 {
	if limit == 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}
