package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/teguhsatriya/furnimart/internal/logging"
	"github.com/teguhsatriya/furnimart/internal/models"
	"github.com/teguhsatriya/furnimart/internal/service/cart"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidAddress  = errors.New("address does not belong to user")
	ErrProductNotFound = errors.New("product not found")
)

// StepError reports which checkout write failed. Whatever committed before
// the failing step has already been compensated by the time the caller
// sees this error.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("checkout: step %s failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

type CartLine struct {
	ProductID uint `json:"product_id"`
	Quantity  uint `json:"quantity"`
}

type CheckoutInput struct {
	Items          []CartLine
	AddressID      uint
	ShippingMethod string
	PaymentMethod  string
}

type Service struct {
	DB    *gorm.DB
	Carts *cart.Service
}

func shippingQuote(method string) (cost float64, eta time.Duration) {
	if method == models.ShippingMethodExpress {
		return 30, 2 * 24 * time.Hour
	}
	return 15, 7 * 24 * time.Hour
}

// CreateOrder runs the checkout as a sequence of independent writes with
// reverse-order compensating deletes, so a failure at any step leaves no
// partial order behind. Stock is neither checked nor decremented here, and
// there is no idempotency key: two identical calls produce two orders.
func (s *Service) CreateOrder(ctx context.Context, userID uint, in CheckoutInput) (*models.Order, error) {
	l := logging.FromContext(ctx).With("component", "checkout", "user_id", userID)

	if len(in.Items) == 0 {
		return nil, ErrEmptyCart
	}

	var addr models.Address
	if err := s.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", in.AddressID, userID).First(&addr).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidAddress
		}
		return nil, fmt.Errorf("checkout: resolve address: %w", err)
	}

	// Unit prices are frozen here: the display price at checkout time
	// becomes the immutable order item price.
	shippingCost, eta := shippingQuote(in.ShippingMethod)
	total := shippingCost
	prices := make(map[uint]float64, len(in.Items))
	for _, line := range in.Items {
		var p models.Product
		if err := s.DB.WithContext(ctx).First(&p, line.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProductNotFound
			}
			return nil, fmt.Errorf("checkout: resolve product %d: %w", line.ProductID, err)
		}
		prices[line.ProductID] = p.DisplayPrice()
		total += p.DisplayPrice() * float64(line.Quantity)
	}

	// Compensations stack up as steps commit and run in reverse on failure.
	var undo []func() error
	fail := func(step string, err error) (*models.Order, error) {
		for i := len(undo) - 1; i >= 0; i-- {
			if uerr := undo[i](); uerr != nil {
				l.Error("checkout compensation failed", "step", step, "error", uerr)
			}
		}
		return nil, &StepError{Step: step, Err: err}
	}

	order := models.Order{
		Reference:   uuid.NewString(),
		UserID:      userID,
		TotalAmount: total,
		Status:      models.OrderStatusPending,
	}
	if err := s.DB.WithContext(ctx).Create(&order).Error; err != nil {
		return fail("order", err)
	}
	undo = append(undo, func() error {
		return s.DB.Delete(&models.Order{}, order.ID).Error
	})

	shipping := models.Shipping{
		OrderID:           order.ID,
		AddressID:         addr.ID,
		Method:            in.ShippingMethod,
		EstimatedDelivery: time.Now().Add(eta),
		Status:            models.OrderStatusPending,
	}
	if err := s.DB.WithContext(ctx).Create(&shipping).Error; err != nil {
		return fail("shipping", err)
	}
	undo = append(undo, func() error {
		return s.DB.Where("order_id = ?", order.ID).Delete(&models.Shipping{}).Error
	})

	undo = append(undo, func() error {
		return s.DB.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error
	})
	for _, line := range in.Items {
		item := models.OrderItem{
			OrderID:   order.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     prices[line.ProductID],
		}
		if err := s.DB.WithContext(ctx).Create(&item).Error; err != nil {
			return fail("order_items", err)
		}
		order.Items = append(order.Items, item)
	}

	payment := models.Payment{
		OrderID: order.ID,
		Amount:  total,
		Method:  in.PaymentMethod,
		Status:  models.PaymentStatusPending,
	}
	if err := s.DB.WithContext(ctx).Create(&payment).Error; err != nil {
		return fail("payment", err)
	}
	undo = append(undo, func() error {
		return s.DB.Where("order_id = ?", order.ID).Delete(&models.Payment{}).Error
	})

	history := models.OrderStatusHistory{
		OrderID: order.ID,
		Status:  models.OrderStatusPending,
	}
	if err := s.DB.WithContext(ctx).Create(&history).Error; err != nil {
		return fail("status_history", err)
	}

	// The order is durable from here on. Losing the cart clear is
	// acceptable and never unwinds the order.
	if err := s.Carts.Clear(ctx, userID); err != nil {
		l.Error("cart clear after checkout failed", "order_id", order.ID, "error", err)
	}

	order.Shipping = &shipping
	order.Payment = &payment
	order.History = []models.OrderStatusHistory{history}
	l.Info("order created", "order_id", order.ID, "total", total)
	return &order, nil
}
