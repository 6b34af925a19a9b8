package cart

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/teguhsatriya/furnimart/internal/config"
	"github.com/teguhsatriya/furnimart/internal/models"
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

func TestAddItemMergesQuantity(t *testing.T) {
	svc := &Service{DB: newTestDB(t)}
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 1, 7, 2)
	require.NoError(t, err)
	item, err := svc.AddItem(ctx, 1, 7, 3)
	require.NoError(t, err)
	require.Equal(t, uint(5), item.Quantity)

	var count int64
	require.NoError(t, svc.DB.Model(&models.CartItem{}).Where("user_id = ? AND product_id = ?", 1, 7).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestAddItemClampsQuantity(t *testing.T) {
	svc := &Service{DB: newTestDB(t)}

	item, err := svc.AddItem(context.Background(), 1, 7, 0)
	require.NoError(t, err)
	require.Equal(t, uint(1), item.Quantity)
}

func TestSetQuantityIsAbsolute(t *testing.T) {
	svc := &Service{DB: newTestDB(t)}
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 1, 7, 4)
	require.NoError(t, err)
	item, err := svc.SetQuantity(ctx, 1, 7, 2)
	require.NoError(t, err)
	require.Equal(t, uint(2), item.Quantity)
}

func TestSetQuantityZeroRemoves(t *testing.T) {
	svc := &Service{DB: newTestDB(t)}
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 1, 7, 4)
	require.NoError(t, err)
	item, err := svc.SetQuantity(ctx, 1, 7, 0)
	require.NoError(t, err)
	require.Nil(t, item)

	var count int64
	require.NoError(t, svc.DB.Model(&models.CartItem{}).Where("user_id = ?", 1).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestRemoveItemAbsentIsNoop(t *testing.T) {
	svc := &Service{DB: newTestDB(t)}
	require.NoError(t, svc.RemoveItem(context.Background(), 1, 99))
}

func TestClear(t *testing.T) {
	svc := &Service{DB: newTestDB(t)}
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 1, 7, 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, 1, 8, 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, 2, 7, 1)
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, 1))

	lines, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, lines)

	items, err := svc.Items(ctx, 2)
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestListJoinsProducts(t *testing.T) {
	svc := &Service{DB: newTestDB(t)}
	ctx := context.Background()

	discount := 80.0
	require.NoError(t, svc.DB.Create(&models.Category{Name: "sofas"}).Error)
	require.NoError(t, svc.DB.Create(&models.Product{
		Name: "corner sofa", Description: "grey", Price: 100, DiscountPrice: &discount, CategoryID: 1,
		Images: []models.ProductImage{
			{ImageURL: "a.jpg"},
			{ImageURL: "b.jpg", IsMain: true},
		},
	}).Error)

	_, err := svc.AddItem(ctx, 1, 1, 3)
	require.NoError(t, err)

	lines, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, "corner sofa", lines[0].Name)
	require.Equal(t, 80.0, lines[0].UnitPrice)
	require.Equal(t, "b.jpg", lines[0].ImageURL)
	require.Equal(t, 240.0, lines[0].Subtotal)
}
