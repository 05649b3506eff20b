package services

import (
	"context"
	"errors"
	"net/mail"

	"github.com/Vijaypastham/nutranexus-sub000/apperrors"
	"github.com/Vijaypastham/nutranexus-sub000/models"
	"github.com/Vijaypastham/nutranexus-sub000/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type OrderItemRequest struct {
	ID       string          `json:"id" binding:"required"`
	Name     string          `json:"name" binding:"required"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Flavor   string          `json:"flavor"`
}

type CreateOrderRequest struct {
	CustomerName  string             `json:"customerName" binding:"required"`
	CustomerEmail string             `json:"customerEmail" binding:"required"`
	CustomerPhone string             `json:"customerPhone" binding:"required"`
	Items         []OrderItemRequest `json:"items"`
	TotalAmount   decimal.Decimal    `json:"totalAmount"`
	Currency      string             `json:"currency"`
}

// UpdatePaymentStatusRequest is the internal status-update payload used by
// payment reconciliation callers.
type UpdatePaymentStatusRequest struct {
	Status                string  `json:"status" binding:"required"`
	StripePaymentIntentID *string `json:"stripePaymentIntentId"`
	ReceiptURL            *string `json:"receiptUrl"`
}

type OrderService interface {
	CreateOrder(ctx context.Context, req *CreateOrderRequest) (*models.Order, error)
	GetOrder(ctx context.Context, orderNumber string) (*models.Order, error)
	UpdatePaymentStatus(ctx context.Context, orderNumber string, req *UpdatePaymentStatusRequest) error
}

type orderService struct {
	orderRepo repository.OrderRepository
	logger    *zap.Logger
}

func NewOrderService(orderRepo repository.OrderRepository, logger *zap.Logger) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// CreateOrder validates the draft, assigns an order number and persists the
// order in the pending state.
func (s *orderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*models.Order, error) {
	if err := validateOrderDraft(req); err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = "INR"
	}

	items := make(models.OrderItems, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, models.OrderItem{
			ID:       item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
			Flavor:   item.Flavor,
		})
	}

	order := &models.Order{
		OrderNumber:   GenerateOrderNumber(),
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Items:         items,
		TotalAmount:   req.TotalAmount,
		Currency:      currency,
		Status:        models.StatusPending,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Order number collision; the caller retries with a fresh number.
			return nil, apperrors.Validation("Order number conflict, please retry")
		}
		s.logger.Error("Failed to create order", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Order created",
		zap.String("order_number", order.OrderNumber),
		zap.String("customer_email", order.CustomerEmail),
	)
	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, orderNumber string) (*models.Order, error) {
	order, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Order not found")
		}
		return nil, err
	}
	return order, nil
}

// UpdatePaymentStatus applies a reconciliation-driven status change together
// with any payment metadata it carries.
func (s *orderService) UpdatePaymentStatus(ctx context.Context, orderNumber string, req *UpdatePaymentStatusRequest) error {
	if !models.ValidStatuses[req.Status] {
		return apperrors.Validation("Invalid order status")
	}

	updates := map[string]interface{}{"status": req.Status}
	if req.StripePaymentIntentID != nil {
		updates["stripe_payment_intent_id"] = *req.StripePaymentIntentID
	}
	if req.ReceiptURL != nil {
		updates["receipt_url"] = *req.ReceiptURL
	}

	if err := s.orderRepo.UpdateFields(ctx, orderNumber, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("Order not found")
		}
		return err
	}
	return nil
}

func validateOrderDraft(req *CreateOrderRequest) error {
	if len(req.Items) == 0 {
		return apperrors.Validation("At least one item is required")
	}
	for _, item := range req.Items {
		if item.Price.LessThanOrEqual(decimal.Zero) {
			return apperrors.Validation("Item price must be greater than zero")
		}
		if item.Quantity <= 0 {
			return apperrors.Validation("Item quantity must be greater than zero")
		}
	}
	if _, err := mail.ParseAddress(req.CustomerEmail); err != nil {
		return apperrors.Validation("Invalid customer email")
	}
	return nil
}
