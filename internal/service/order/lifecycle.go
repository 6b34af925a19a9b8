package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/teguhsatriya/furnimart/internal/models"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrIllegalTransition = errors.New("illegal status transition")
)

var allowedTransitions = map[string][]string{
	models.OrderStatusPending:    {models.OrderStatusConfirmed, models.OrderStatusCancelled},
	models.OrderStatusConfirmed:  {models.OrderStatusProcessing, models.OrderStatusCancelled},
	models.OrderStatusProcessing: {models.OrderStatusShipped},
	models.OrderStatusShipped:    {models.OrderStatusDelivered},
	models.OrderStatusDelivered:  {},
	models.OrderStatusCancelled:  {},
}

func canTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// UpdateStatus advances the order through the admin state machine. The
// history table is the durable audit trail; Order.Status is the current
// pointer into it. SHIPPED and DELIVERED also sync the shipping record.
func (s *Service) UpdateStatus(ctx context.Context, orderID uint, newStatus string) (*models.Order, error) {
	var order models.Order
	if err := s.DB.WithContext(ctx).First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("order: load: %w", err)
	}

	if _, known := allowedTransitions[newStatus]; !known {
		return nil, fmt.Errorf("%w: unknown status %q", ErrIllegalTransition, newStatus)
	}
	if !canTransition(order.Status, newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, order.Status, newStatus)
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order.Status = newStatus
		order.UpdatedAt = time.Now()
		if err := tx.Save(&order).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.OrderStatusHistory{OrderID: order.ID, Status: newStatus}).Error; err != nil {
			return err
		}
		if newStatus == models.OrderStatusShipped || newStatus == models.OrderStatusDelivered {
			if err := tx.Model(&models.Shipping{}).
				Where("order_id = ?", order.ID).
				Update("status", newStatus).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("order: update status: %w", err)
	}
	return &order, nil
}

func (s *Service) GetOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := s.DB.WithContext(ctx).
		Preload("Items").
		Preload("Shipping").
		Preload("Payment").
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("order: get: %w", err)
	}
	return &order, nil
}

type ListFilter struct {
	UserID uint
	Status string
	Offset int
	Limit  int
}

func (s *Service) ListOrders(ctx context.Context, f ListFilter) ([]models.Order, int64, error) {
	q := s.DB.WithContext(ctx).Model(&models.Order{})
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("order: count: %w", err)
	}

	var orders []models.Order
	if err := q.Preload("Items").
		Order("created_at DESC").
		Offset(f.Offset).Limit(f.Limit).
		Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("order: list: %w", err)
	}
	return orders, total, nil
}
