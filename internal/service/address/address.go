package address

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/teguhsatriya/furnimart/internal/models"
)

var ErrNotFound = errors.New("address not found")

type Service struct {
	DB *gorm.DB
}

type Input struct {
	Recipient   string `json:"recipient"`
	Label       string `json:"label"`
	Province    string `json:"province"`
	City        string `json:"city"`
	Subdistrict string `json:"subdistrict"`
	Village     string `json:"village"`
	ZipCode     string `json:"zip_code"`
	FullAddress string `json:"full_address"`
	IsDefault   bool   `json:"is_default"`
}

// Create inserts a new address. When the new address is the default, every
// other default for the user is cleared first, inside the same transaction;
// the partial unique index on (user_id) WHERE is_default catches the race
// two concurrent writers would otherwise leave behind.
func (s *Service) Create(ctx context.Context, userID uint, in Input) (*models.Address, error) {
	addr := models.Address{
		UserID:      userID,
		Recipient:   in.Recipient,
		Label:       in.Label,
		Province:    in.Province,
		City:        in.City,
		Subdistrict: in.Subdistrict,
		Village:     in.Village,
		ZipCode:     in.ZipCode,
		FullAddress: in.FullAddress,
		IsDefault:   in.IsDefault,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.IsDefault {
			if err := tx.Model(&models.Address{}).
				Where("user_id = ? AND is_default", userID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&addr).Error
	})
	if err != nil {
		return nil, fmt.Errorf("address: create: %w", err)
	}
	return &addr, nil
}

// Update mutates an address after checking it belongs to the caller.
func (s *Service) Update(ctx context.Context, addressID, userID uint, in Input) (*models.Address, error) {
	var addr models.Address

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", addressID, userID).First(&addr).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if in.IsDefault && !addr.IsDefault {
			if err := tx.Model(&models.Address{}).
				Where("user_id = ? AND id <> ? AND is_default", userID, addressID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		addr.Recipient = in.Recipient
		addr.Label = in.Label
		addr.Province = in.Province
		addr.City = in.City
		addr.Subdistrict = in.Subdistrict
		addr.Village = in.Village
		addr.ZipCode = in.ZipCode
		addr.FullAddress = in.FullAddress
		addr.IsDefault = in.IsDefault
		return tx.Save(&addr).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("address: update: %w", err)
	}
	return &addr, nil
}

func (s *Service) Delete(ctx context.Context, addressID, userID uint) error {
	res := s.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", addressID, userID).
		Delete(&models.Address{})
	if res.Error != nil {
		return fmt.Errorf("address: delete: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) Get(ctx context.Context, addressID, userID uint) (*models.Address, error) {
	var addr models.Address
	if err := s.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", addressID, userID).First(&addr).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("address: get: %w", err)
	}
	return &addr, nil
}

func (s *Service) List(ctx context.Context, userID uint) ([]models.Address, error) {
	var addrs []models.Address
	if err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Find(&addrs).Error; err != nil {
		return nil, fmt.Errorf("address: list: %w", err)
	}
	return addrs, nil
}
