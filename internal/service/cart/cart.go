package cart

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/teguhsatriya/furnimart/internal/models"
)

type Service struct {
	DB *gorm.DB
}

// Line is a cart entry joined with the current product for display. Prices
// here are live display prices, not the snapshot an order would freeze.
type Line struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  uint    `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	ImageURL  string  `json:"image_url"`
	Subtotal  float64 `json:"subtotal"`
}

// AddItem merges into an existing entry instead of creating a duplicate row:
// the (user, product) pair maps to at most one cart item.
func (s *Service) AddItem(ctx context.Context, userID, productID, quantity uint) (*models.CartItem, error) {
	if quantity < 1 {
		quantity = 1
	}

	var item models.CartItem
	tx := s.DB.WithContext(ctx).Where("user_id = ? AND product_id = ?", userID, productID).First(&item)
	if tx.Error == nil {
		item.Quantity += quantity
		if err := s.DB.WithContext(ctx).Save(&item).Error; err != nil {
			return nil, fmt.Errorf("cart: update item: %w", err)
		}
		return &item, nil
	}
	if !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("cart: lookup item: %w", tx.Error)
	}

	item = models.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}
	if err := s.DB.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, fmt.Errorf("cart: create item: %w", err)
	}
	return &item, nil
}

// SetQuantity replaces the quantity outright. Zero or less removes the entry.
func (s *Service) SetQuantity(ctx context.Context, userID, productID uint, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, s.RemoveItem(ctx, userID, productID)
	}

	var item models.CartItem
	tx := s.DB.WithContext(ctx).Where("user_id = ? AND product_id = ?", userID, productID).First(&item)
	if tx.Error == nil {
		item.Quantity = uint(quantity)
		if err := s.DB.WithContext(ctx).Save(&item).Error; err != nil {
			return nil, fmt.Errorf("cart: update item: %w", err)
		}
		return &item, nil
	}
	if !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("cart: lookup item: %w", tx.Error)
	}

	item = models.CartItem{UserID: userID, ProductID: productID, Quantity: uint(quantity)}
	if err := s.DB.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, fmt.Errorf("cart: create item: %w", err)
	}
	return &item, nil
}

// RemoveItem deletes the entry if present. Absence is not an error.
func (s *Service) RemoveItem(ctx context.Context, userID, productID uint) error {
	if err := s.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("cart: remove item: %w", err)
	}
	return nil
}

func (s *Service) Clear(ctx context.Context, userID uint) error {
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("cart: clear: %w", err)
	}
	return nil
}

func (s *Service) Items(ctx context.Context, userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("cart: list items: %w", err)
	}
	return items, nil
}

func (s *Service) List(ctx context.Context, userID uint) ([]Line, error) {
	items, err := s.Items(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []Line{}, nil
	}

	ids := make([]uint, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}

	var products []models.Product
	if err := s.DB.WithContext(ctx).Preload("Images").Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("cart: load products: %w", err)
	}
	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	lines := make([]Line, 0, len(items))
	for _, it := range items {
		p, ok := byID[it.ProductID]
		if !ok {
			continue
		}
		price := p.DisplayPrice()
		lines = append(lines, Line{
			ProductID: it.ProductID,
			Name:      p.Name,
			Quantity:  it.Quantity,
			UnitPrice: price,
			ImageURL:  p.MainImage(),
			Subtotal:  price * float64(it.Quantity),
		})
	}
	return lines, nil
}
