package wishlist

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/teguhsatriya/furnimart/internal/models"
)

var ErrDuplicate = errors.New("product already in wishlist")

type Service struct {
	DB *gorm.DB
}

// Add inserts the product into the user's wishlist. Unlike the cart, a
// second add of the same product is an error, not a merge.
func (s *Service) Add(ctx context.Context, userID, productID uint) (*models.WishlistItem, error) {
	var existing models.WishlistItem
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&existing).Error
	if err == nil {
		return nil, ErrDuplicate
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("wishlist: lookup: %w", err)
	}

	item := models.WishlistItem{UserID: userID, ProductID: productID}
	if err := s.DB.WithContext(ctx).Create(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("wishlist: create: %w", err)
	}
	return &item, nil
}

// Remove deletes matching entries. Absence is success, mirroring the cart.
func (s *Service) Remove(ctx context.Context, userID, productID uint) error {
	if err := s.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.WishlistItem{}).Error; err != nil {
		return fmt.Errorf("wishlist: remove: %w", err)
	}
	return nil
}

type Entry struct {
	models.WishlistItem
	Product models.Product `json:"product"`
}

func (s *Service) List(ctx context.Context, userID uint) ([]Entry, error) {
	var items []models.WishlistItem
	if err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("wishlist: list: %w", err)
	}
	if len(items) == 0 {
		return []Entry{}, nil
	}

	ids := make([]uint, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	var products []models.Product
	if err := s.DB.WithContext(ctx).
		Preload("Images").Preload("Category").
		Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("wishlist: load products: %w", err)
	}
	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	entries := make([]Entry, 0, len(items))
	for _, it := range items {
		p, ok := byID[it.ProductID]
		if !ok {
			continue
		}
		entries = append(entries, Entry{WishlistItem: it, Product: p})
	}
	return entries, nil
}

func (s *Service) Contains(ctx context.Context, userID, productID uint) (bool, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.WishlistItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("wishlist: contains: %w", err)
	}
	return count > 0, nil
}
