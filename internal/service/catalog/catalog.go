package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/teguhsatriya/furnimart/internal/models"
)

var (
	ErrValidation    = errors.New("validation")
	ErrNotFound      = errors.New("not found")
	ErrCategoryInUse = errors.New("category still has products")
)

type Service struct {
	DB *gorm.DB
}

type ProductFilter struct {
	CategoryID uint
	IsHot      *bool
	Sort       string
	Offset     int
	Limit      int
}

func (s *Service) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, int64, error) {
	q := s.DB.WithContext(ctx).Model(&models.Product{})
	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.IsHot != nil {
		q = q.Where("is_hot = ?", *f.IsHot)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("catalog: count: %w", err)
	}

	switch f.Sort {
	case "price_asc":
		q = q.Order("price ASC")
	case "price_desc":
		q = q.Order("price DESC")
	case "newest":
		q = q.Order("id DESC")
	default:
		q = q.Order("id ASC")
	}

	var products []models.Product
	if err := q.Preload("Images").Preload("Category").
		Offset(f.Offset).Limit(f.Limit).
		Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("catalog: list: %w", err)
	}
	return products, total, nil
}

func (s *Service) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := s.DB.WithContext(ctx).
		Preload("Images").Preload("Category").Preload("Reviews").
		First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("catalog: get product: %w", err)
	}
	return &p, nil
}

type ProductInput struct {
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	Price         float64      `json:"price"`
	DiscountPrice *float64     `json:"discount_price"`
	Stock         uint         `json:"stock"`
	IsHot         bool         `json:"is_hot"`
	CategoryID    uint         `json:"category_id"`
	Images        []ImageInput `json:"images"`
}

type ImageInput struct {
	ImageURL string `json:"image_url"`
	IsMain   bool   `json:"is_main"`
}

func (in ProductInput) validate() error {
	if in.Name == "" {
		return fmt.Errorf("%w: name required", ErrValidation)
	}
	if in.Price <= 0 {
		return fmt.Errorf("%w: price must be > 0", ErrValidation)
	}
	if in.DiscountPrice != nil && *in.DiscountPrice >= in.Price {
		return fmt.Errorf("%w: discount price must be below price", ErrValidation)
	}
	main := 0
	for _, img := range in.Images {
		if img.IsMain {
			main++
		}
	}
	if main > 1 {
		return fmt.Errorf("%w: at most one main image", ErrValidation)
	}
	return nil
}

func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var cat models.Category
	if err := s.DB.WithContext(ctx).First(&cat, in.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: category %d", ErrNotFound, in.CategoryID)
		}
		return nil, fmt.Errorf("catalog: resolve category: %w", err)
	}

	p := models.Product{
		Name:          in.Name,
		Description:   in.Description,
		Price:         in.Price,
		DiscountPrice: in.DiscountPrice,
		Stock:         in.Stock,
		IsHot:         in.IsHot,
		CategoryID:    in.CategoryID,
	}
	for _, img := range in.Images {
		p.Images = append(p.Images, models.ProductImage{ImageURL: img.ImageURL, IsMain: img.IsMain})
	}
	if err := s.DB.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, fmt.Errorf("catalog: create product: %w", err)
	}
	return &p, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id uint, in ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var p models.Product
	if err := s.DB.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("catalog: load product: %w", err)
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p.Name = in.Name
		p.Description = in.Description
		p.Price = in.Price
		p.DiscountPrice = in.DiscountPrice
		p.Stock = in.Stock
		p.IsHot = in.IsHot
		p.CategoryID = in.CategoryID
		if err := tx.Save(&p).Error; err != nil {
			return err
		}
		if in.Images == nil {
			return nil
		}
		if err := tx.Where("product_id = ?", p.ID).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		p.Images = nil
		for _, img := range in.Images {
			p.Images = append(p.Images, models.ProductImage{ProductID: p.ID, ImageURL: img.ImageURL, IsMain: img.IsMain})
		}
		if len(p.Images) == 0 {
			return nil
		}
		return tx.Create(&p.Images).Error
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: update product: %w", err)
	}
	return &p, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id uint) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Product{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("catalog: delete product: %w", err)
	}
	return nil
}

func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	if err := s.DB.WithContext(ctx).Order("name ASC").Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("catalog: list categories: %w", err)
	}
	return cats, nil
}

func (s *Service) CreateCategory(ctx context.Context, name, imageURL string) (*models.Category, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}
	cat := models.Category{Name: name, ImageURL: imageURL}
	if err := s.DB.WithContext(ctx).Create(&cat).Error; err != nil {
		return nil, fmt.Errorf("catalog: create category: %w", err)
	}
	return &cat, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id uint, name, imageURL string) (*models.Category, error) {
	var cat models.Category
	if err := s.DB.WithContext(ctx).First(&cat, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("catalog: load category: %w", err)
	}
	cat.Name = name
	cat.ImageURL = imageURL
	if err := s.DB.WithContext(ctx).Save(&cat).Error; err != nil {
		return nil, fmt.Errorf("catalog: update category: %w", err)
	}
	return &cat, nil
}

// DeleteCategory refuses to delete a category that products still reference.
func (s *Service) DeleteCategory(ctx context.Context, id uint) error {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Product{}).
		Where("category_id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("catalog: count category products: %w", err)
	}
	if count > 0 {
		return ErrCategoryInUse
	}
	res := s.DB.WithContext(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		return fmt.Errorf("catalog: delete category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) AddReview(ctx context.Context, userID, productID uint, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	var p models.Product
	if err := s.DB.WithContext(ctx).First(&p, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("catalog: resolve product: %w", err)
	}
	review := models.Review{ProductID: productID, UserID: userID, Rating: rating, Comment: comment}
	if err := s.DB.WithContext(ctx).Create(&review).Error; err != nil {
		return nil, fmt.Errorf("catalog: create review: %w", err)
	}
	return &review, nil
}

func (s *Service) ListReviews(ctx context.Context, productID uint) ([]models.Review, error) {
	var reviews []models.Review
	if err := s.DB.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("catalog: list reviews: %w", err)
	}
	return reviews, nil
}
