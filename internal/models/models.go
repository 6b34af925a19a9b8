package models

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"not null"                 json:"name"`
	Email        string `gorm:"unique;not null"          json:"email"`
	PhoneNumber  string `gorm:"unique;not null"          json:"phone_number"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null;default:user"    json:"role"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"          json:"id"`
	Token     string `gorm:"unique;not null"     json:"token"`
	UserID    uint   `gorm:"index;not null"      json:"user_id"`
	ExpiresAt int64  `gorm:"not null"            json:"expires_at"`
	Revoked   bool   `gorm:"default:false"       json:"revoked"`
}

type Category struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"unique;not null"          json:"name"`
	ImageURL string `json:"image_url"`
}

type Product struct {
	ID            uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string         `gorm:"not null"                 json:"name"`
	Description   string         `gorm:"not null"                 json:"description"`
	Price         float64        `gorm:"not null"                 json:"price"`
	DiscountPrice *float64       `json:"discount_price,omitempty"`
	Stock         uint           `json:"stock"`
	IsHot         bool           `gorm:"default:false"            json:"is_hot"`
	CategoryID    uint           `gorm:"index;not null"           json:"category_id"`
	Category      Category       `gorm:"foreignKey:CategoryID"    json:"category,omitempty"`
	Images        []ProductImage `gorm:"foreignKey:ProductID"     json:"images,omitempty"`
	Reviews       []Review       `gorm:"foreignKey:ProductID"     json:"reviews,omitempty"`
}

// DisplayPrice is the price shown in the storefront and snapshotted into
// order items at checkout: the discount price when one is set, else the
// base price.
func (p Product) DisplayPrice() float64 {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}

// MainImage returns the URL of the image flagged as main, falling back to
// the first image, or "" when the product has none.
func (p Product) MainImage() string {
	for _, img := range p.Images {
		if img.IsMain {
			return img.ImageURL
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0].ImageURL
	}
	return ""
}

type ProductImage struct {
	ID        uint   `gorm:"primaryKey"     json:"id"`
	ProductID uint   `gorm:"index;not null" json:"product_id"`
	ImageURL  string `gorm:"not null"       json:"image_url"`
	IsMain    bool   `gorm:"default:false"  json:"is_main"`
}

type Review struct {
	ID        uint      `gorm:"primaryKey"                            json:"id"`
	ProductID uint      `gorm:"index;not null"                        json:"product_id"`
	UserID    uint      `gorm:"index;not null"                        json:"user_id"`
	Rating    int       `gorm:"not null;check:rating BETWEEN 1 AND 5" json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type CartItem struct {
	ID        uint `gorm:"primaryKey"                                 json:"id"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"user_id"`
	ProductID uint `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"product_id"`
	Quantity  uint `gorm:"default:1;check:quantity>0"                 json:"quantity"`
}

type WishlistItem struct {
	ID        uint      `gorm:"primaryKey"                                 json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_wish_user_product" json:"user_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_wish_user_product" json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Address struct {
	ID          uint      `gorm:"primaryKey"     json:"id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	Recipient   string    `gorm:"not null"       json:"recipient"`
	Label       string    `json:"label"`
	Province    string    `gorm:"not null"       json:"province"`
	City        string    `gorm:"not null"       json:"city"`
	Subdistrict string    `json:"subdistrict"`
	Village     string    `json:"village"`
	ZipCode     string    `json:"zip_code"`
	FullAddress string    `gorm:"not null"       json:"full_address"`
	IsDefault   bool      `gorm:"default:false"  json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
}

const (
	OrderStatusPending    = "PENDING"
	OrderStatusConfirmed  = "CONFIRMED"
	OrderStatusProcessing = "PROCESSING"
	OrderStatusShipped    = "SHIPPED"
	OrderStatusDelivered  = "DELIVERED"
	OrderStatusCancelled  = "CANCELLED"
)

const (
	PaymentStatusPending = "PENDING"
	PaymentStatusSuccess = "SUCCESS"
	PaymentStatusFailed  = "FAILED"
)

const (
	ShippingMethodRegular = "regular"
	ShippingMethodExpress = "express"
)

type Order struct {
	ID          uint                 `gorm:"primaryKey"         json:"id"`
	Reference   string               `gorm:"unique;not null"    json:"reference"`
	UserID      uint                 `gorm:"index;not null"     json:"user_id"`
	TotalAmount float64              `gorm:"not null"           json:"total_amount"`
	Status      string               `gorm:"not null"           json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	Items       []OrderItem          `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	Shipping    *Shipping            `gorm:"foreignKey:OrderID" json:"shipping,omitempty"`
	Payment     *Payment             `gorm:"foreignKey:OrderID" json:"payment,omitempty"`
	History     []OrderStatusHistory `gorm:"foreignKey:OrderID" json:"history,omitempty"`
}

type OrderItem struct {
	ID        uint    `gorm:"primaryKey"                 json:"id"`
	OrderID   uint    `gorm:"index;not null"             json:"order_id"`
	ProductID uint    `gorm:"not null"                   json:"product_id"`
	Quantity  uint    `gorm:"default:1;check:quantity>0" json:"quantity"`
	Price     float64 `gorm:"not null"                   json:"price"`
}

type Shipping struct {
	ID                uint      `gorm:"primaryKey"           json:"id"`
	OrderID           uint      `gorm:"uniqueIndex;not null" json:"order_id"`
	AddressID         uint      `gorm:"not null"             json:"address_id"`
	Method            string    `gorm:"not null"             json:"method"`
	EstimatedDelivery time.Time `json:"estimated_delivery"`
	Status            string    `gorm:"not null"             json:"status"`
}

type Payment struct {
	ID            uint    `gorm:"primaryKey"           json:"id"`
	OrderID       uint    `gorm:"uniqueIndex;not null" json:"order_id"`
	Amount        float64 `gorm:"not null"             json:"amount"`
	Method        string  `gorm:"not null"             json:"method"`
	Status        string  `gorm:"not null"             json:"status"`
	TransactionID *string `json:"transaction_id,omitempty"`
}

type OrderStatusHistory struct {
	ID        uint      `gorm:"primaryKey"     json:"id"`
	OrderID   uint      `gorm:"index;not null" json:"order_id"`
	Status    string    `gorm:"not null"       json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
