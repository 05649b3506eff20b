package repository

import (
	"context"

	"github.com/Vijaypastham/nutranexus-sub000/models"

	"gorm.io/gorm"
)

type RefundRepository interface {
	Create(ctx context.Context, refund *models.Refund) error
	FindByOrderNumber(ctx context.Context, orderNumber string) ([]models.Refund, error)
}

type gormRefundRepo struct {
	db *gorm.DB
}

func NewGormRefundRepository(db *gorm.DB) RefundRepository {
	return &gormRefundRepo{db: db}
}

func (r *gormRefundRepo) Create(ctx context.Context, refund *models.Refund) error {
	return r.db.WithContext(ctx).Create(refund).Error
}

func (r *gormRefundRepo) FindByOrderNumber(ctx context.Context, orderNumber string) ([]models.Refund, error) {
	var refunds []models.Refund
	if err := r.db.WithContext(ctx).
		Where("order_number = ?", orderNumber).
		Order("created_at DESC").
		Find(&refunds).Error; err != nil {
		return nil, err
	}
	return refunds, nil
}
