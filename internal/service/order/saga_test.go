package order

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/teguhsatriya/furnimart/internal/config"
	"github.com/teguhsatriya/furnimart/internal/models"
	"github.com/teguhsatriya/furnimart/internal/service/cart"
)

func newTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, config.Migrate(db))
	return db
}

func newCheckoutEnv(t *testing.T) (*Service, *cart.Service, *gorm.DB) {
	db := newTestDB(t)
	carts := &cart.Service{DB: db}
	svc := &Service{DB: db, Carts: carts}

	require.NoError(t, db.Create(&models.Category{Name: "chairs"}).Error)
	discount := 250.0
	require.NoError(t, db.Create(&models.Product{
		Name: "stool", Description: "pine stool", Price: 100, CategoryID: 1,
	}).Error)
	require.NoError(t, db.Create(&models.Product{
		Name: "armchair", Description: "velvet", Price: 300, DiscountPrice: &discount, CategoryID: 1,
	}).Error)
	require.NoError(t, db.Create(&models.Address{
		UserID: 1, Recipient: "Dewi", Province: "DKI Jakarta", City: "Jakarta",
		FullAddress: "Jl. Sudirman No. 10",
	}).Error)
	return svc, carts, db
}

func rowCount(t *testing.T, db *gorm.DB, model any) int64 {
	var count int64
	require.NoError(t, db.Model(model).Count(&count).Error)
	return count
}

func TestCreateOrderHappyPath(t *testing.T) {
	svc, carts, db := newCheckoutEnv(t)
	ctx := context.Background()

	_, err := carts.AddItem(ctx, 1, 1, 1)
	require.NoError(t, err)
	_, err = carts.AddItem(ctx, 1, 2, 2)
	require.NoError(t, err)

	created, err := svc.CreateOrder(ctx, 1, CheckoutInput{
		Items:          []CartLine{{ProductID: 1, Quantity: 1}, {ProductID: 2, Quantity: 2}},
		AddressID:      1,
		ShippingMethod: models.ShippingMethodRegular,
		PaymentMethod:  "bank_transfer",
	})
	require.NoError(t, err)

	// 100*1 + 250*2 (discounted) + 15 regular shipping
	require.Equal(t, 615.0, created.TotalAmount)
	require.Equal(t, models.OrderStatusPending, created.Status)
	require.NotEmpty(t, created.Reference)

	require.EqualValues(t, 1, rowCount(t, db, &models.Order{}))
	require.EqualValues(t, 2, rowCount(t, db, &models.OrderItem{}))
	require.EqualValues(t, 1, rowCount(t, db, &models.Shipping{}))
	require.EqualValues(t, 1, rowCount(t, db, &models.Payment{}))
	require.EqualValues(t, 1, rowCount(t, db, &models.OrderStatusHistory{}))

	var shipping models.Shipping
	require.NoError(t, db.Where("order_id = ?", created.ID).First(&shipping).Error)
	require.EqualValues(t, 1, shipping.AddressID)
	require.Equal(t, models.OrderStatusPending, shipping.Status)

	var payment models.Payment
	require.NoError(t, db.Where("order_id = ?", created.ID).First(&payment).Error)
	require.Equal(t, 615.0, payment.Amount)
	require.Equal(t, models.PaymentStatusPending, payment.Status)
	require.Nil(t, payment.TransactionID)

	var history models.OrderStatusHistory
	require.NoError(t, db.Where("order_id = ?", created.ID).First(&history).Error)
	require.Equal(t, models.OrderStatusPending, history.Status)

	// cart cleared after success
	lines, err := carts.List(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, lines)
}

func TestOrderItemPriceIsFrozen(t *testing.T) {
	svc, _, db := newCheckoutEnv(t)
	ctx := context.Background()

	created, err := svc.CreateOrder(ctx, 1, CheckoutInput{
		Items:          []CartLine{{ProductID: 1, Quantity: 1}},
		AddressID:      1,
		ShippingMethod: models.ShippingMethodRegular,
		PaymentMethod:  "cod",
	})
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", 1).Update("price", 999).Error)

	var item models.OrderItem
	require.NoError(t, db.Where("order_id = ?", created.ID).First(&item).Error)
	require.Equal(t, 100.0, item.Price)
}

func TestExpressShipping(t *testing.T) {
	svc, _, _ := newCheckoutEnv(t)

	created, err := svc.CreateOrder(context.Background(), 1, CheckoutInput{
		Items:          []CartLine{{ProductID: 1, Quantity: 1}},
		AddressID:      1,
		ShippingMethod: models.ShippingMethodExpress,
		PaymentMethod:  "cod",
	})
	require.NoError(t, err)
	require.Equal(t, 130.0, created.TotalAmount) // 100 + 30 express
}

func TestCreateOrderEmptyCart(t *testing.T) {
	svc, _, _ := newCheckoutEnv(t)

	_, err := svc.CreateOrder(context.Background(), 1, CheckoutInput{
		AddressID:      1,
		ShippingMethod: models.ShippingMethodRegular,
	})
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestCreateOrderForeignAddress(t *testing.T) {
	svc, _, _ := newCheckoutEnv(t)

	_, err := svc.CreateOrder(context.Background(), 2, CheckoutInput{
		Items:          []CartLine{{ProductID: 1, Quantity: 1}},
		AddressID:      1,
		ShippingMethod: models.ShippingMethodRegular,
	})
	require.ErrorIs(t, err, ErrInvalidAddress)
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	svc, _, _ := newCheckoutEnv(t)

	_, err := svc.CreateOrder(context.Background(), 1, CheckoutInput{
		Items:          []CartLine{{ProductID: 42, Quantity: 1}},
		AddressID:      1,
		ShippingMethod: models.ShippingMethodRegular,
	})
	require.ErrorIs(t, err, ErrProductNotFound)
}

// Dropping the payments table forces the payment step to fail mid-saga;
// everything written before it must be compensated away.
func TestPaymentFailureCompensatesFully(t *testing.T) {
	svc, carts, db := newCheckoutEnv(t)
	ctx := context.Background()

	_, err := carts.AddItem(ctx, 1, 1, 1)
	require.NoError(t, err)

	require.NoError(t, db.Migrator().DropTable(&models.Payment{}))

	_, err = svc.CreateOrder(ctx, 1, CheckoutInput{
		Items:          []CartLine{{ProductID: 1, Quantity: 1}},
		AddressID:      1,
		ShippingMethod: models.ShippingMethodRegular,
		PaymentMethod:  "bank_transfer",
	})
	require.Error(t, err)

	var step *StepError
	require.ErrorAs(t, err, &step)
	require.Equal(t, "payment", step.Step)

	require.NoError(t, db.AutoMigrate(&models.Payment{}))
	require.EqualValues(t, 0, rowCount(t, db, &models.Order{}))
	require.EqualValues(t, 0, rowCount(t, db, &models.OrderItem{}))
	require.EqualValues(t, 0, rowCount(t, db, &models.Shipping{}))
	require.EqualValues(t, 0, rowCount(t, db, &models.Payment{}))
	require.EqualValues(t, 0, rowCount(t, db, &models.OrderStatusHistory{}))

	// failed checkout must not clear the cart
	items, err := carts.Items(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestHistoryFailureCompensatesFully(t *testing.T) {
	svc, _, db := newCheckoutEnv(t)
	ctx := context.Background()

	require.NoError(t, db.Migrator().DropTable(&models.OrderStatusHistory{}))

	_, err := svc.CreateOrder(ctx, 1, CheckoutInput{
		Items:          []CartLine{{ProductID: 1, Quantity: 1}},
		AddressID:      1,
		ShippingMethod: models.ShippingMethodRegular,
		PaymentMethod:  "cod",
	})
	var step *StepError
	require.ErrorAs(t, err, &step)
	require.Equal(t, "status_history", step.Step)

	require.EqualValues(t, 0, rowCount(t, db, &models.Order{}))
	require.EqualValues(t, 0, rowCount(t, db, &models.OrderItem{}))
	require.EqualValues(t, 0, rowCount(t, db, &models.Shipping{}))
	require.EqualValues(t, 0, rowCount(t, db, &models.Payment{}))
}

func TestDoubleSubmitCreatesTwoOrders(t *testing.T) {
	svc, _, db := newCheckoutEnv(t)
	ctx := context.Background()

	in := CheckoutInput{
		Items:          []CartLine{{ProductID: 1, Quantity: 1}},
		AddressID:      1,
		ShippingMethod: models.ShippingMethodRegular,
		PaymentMethod:  "cod",
	}
	first, err := svc.CreateOrder(ctx, 1, in)
	require.NoError(t, err)
	second, err := svc.CreateOrder(ctx, 1, in)
	require.NoError(t, err)

	require.NotEqual(t, first.ID, second.ID)
	require.NotEqual(t, first.Reference, second.Reference)
	require.EqualValues(t, 2, rowCount(t, db, &models.Order{}))
}
