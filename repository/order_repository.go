package repository

import (
	"context"
	"time"

	"github.com/Vijaypastham/nutranexus-sub000/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// revenueStatuses are the statuses counted as realized revenue: everything
// the customer has actually paid for.
var revenueStatuses = []string{
	models.StatusPaid,
	models.StatusConfirmed,
	models.StatusProcessing,
	models.StatusShipped,
	models.StatusDelivered,
}

// WindowTotals is the aggregate over one analytics window.
type WindowTotals struct {
	Revenue    decimal.Decimal `json:"revenue"`
	OrderCount int64           `json:"orderCount"`
}

// DailyRevenue is one point of the daily revenue series.
type DailyRevenue struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
}

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	UpdateFields(ctx context.Context, orderNumber string, updates map[string]interface{}) error
	FindAll(ctx context.Context, page, limit int, status string) ([]models.Order, int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	TotalsBetween(ctx context.Context, from, to time.Time) (WindowTotals, error)
	DailyRevenueBetween(ctx context.Context, from, to time.Time) ([]DailyRevenue, error)
}

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Where("order_number = ?", orderNumber).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateFields applies a set of column updates to an order row.
// updated_at is always refreshed. Returns gorm.ErrRecordNotFound if no row
// matched the order number.
func (r *GormOrderRepository) UpdateFields(ctx context.Context, orderNumber string, updates map[string]interface{}) error {
	columns := make(map[string]interface{}, len(updates)+1)
	for col, val := range updates {
		columns[col] = val
	}
	columns["updated_at"] = time.Now()
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("order_number = ?", orderNumber).
		Updates(columns)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindAll retrieves orders newest-first with pagination, optionally filtered
// by status.
func (r *GormOrderRepository) FindAll(ctx context.Context, page, limit int, status string) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Order{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *GormOrderRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *GormOrderRepository) TotalsBetween(ctx context.Context, from, to time.Time) (WindowTotals, error) {
	var totals WindowTotals
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0) as revenue, COUNT(*) as order_count").
		Where("status IN ?", revenueStatuses).
		Where("created_at >= ? AND created_at < ?", from, to).
		Scan(&totals).Error
	return totals, err
}

func (r *GormOrderRepository) DailyRevenueBetween(ctx context.Context, from, to time.Time) ([]DailyRevenue, error) {
	var series []DailyRevenue
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("to_char(created_at::date, 'YYYY-MM-DD') as date, COALESCE(SUM(total_amount), 0) as revenue").
		Where("status IN ?", revenueStatuses).
		Where("created_at >= ? AND created_at < ?", from, to).
		Group("created_at::date").
		Order("created_at::date").
		Scan(&series).Error
	return series, err
}
