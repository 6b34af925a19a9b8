package order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/teguhsatriya/furnimart/internal/models"
)

func seedOrder(t *testing.T, db *gorm.DB, status string) *models.Order {
	o := &models.Order{
		Reference:   "ref-" + status,
		UserID:      1,
		TotalAmount: 115,
		Status:      status,
	}
	require.NoError(t, db.Create(o).Error)
	require.NoError(t, db.Create(&models.Shipping{
		OrderID: o.ID, AddressID: 1, Method: models.ShippingMethodRegular,
		Status: models.OrderStatusPending,
	}).Error)
	require.NoError(t, db.Create(&models.OrderStatusHistory{OrderID: o.ID, Status: status}).Error)
	return o
}

func TestUpdateStatusAppendsHistory(t *testing.T) {
	db := newTestDB(t)
	svc := &Service{DB: db}
	o := seedOrder(t, db, models.OrderStatusPending)

	updated, err := svc.UpdateStatus(context.Background(), o.ID, models.OrderStatusConfirmed)
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusConfirmed, updated.Status)

	var history []models.OrderStatusHistory
	require.NoError(t, db.Where("order_id = ?", o.ID).Order("id ASC").Find(&history).Error)
	require.Len(t, history, 2)
	require.Equal(t, models.OrderStatusConfirmed, history[1].Status)
}

func TestUpdateStatusSkippingStatesIsIllegal(t *testing.T) {
	db := newTestDB(t)
	svc := &Service{DB: db}
	o := seedOrder(t, db, models.OrderStatusPending)

	_, err := svc.UpdateStatus(context.Background(), o.ID, models.OrderStatusDelivered)
	require.ErrorIs(t, err, ErrIllegalTransition)

	// nothing was written
	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, o.ID).Error)
	require.Equal(t, models.OrderStatusPending, reloaded.Status)
	var count int64
	require.NoError(t, db.Model(&models.OrderStatusHistory{}).Where("order_id = ?", o.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestUpdateStatusUnknownStatus(t *testing.T) {
	db := newTestDB(t)
	svc := &Service{DB: db}
	o := seedOrder(t, db, models.OrderStatusPending)

	_, err := svc.UpdateStatus(context.Background(), o.ID, "LOST_IN_TRANSIT")
	require.ErrorIs(t, err, ErrIllegalTransition)
}

func TestShippedSyncsShippingStatus(t *testing.T) {
	db := newTestDB(t)
	svc := &Service{DB: db}
	o := seedOrder(t, db, models.OrderStatusProcessing)

	_, err := svc.UpdateStatus(context.Background(), o.ID, models.OrderStatusShipped)
	require.NoError(t, err)

	var shipping models.Shipping
	require.NoError(t, db.Where("order_id = ?", o.ID).First(&shipping).Error)
	require.Equal(t, models.OrderStatusShipped, shipping.Status)
}

func TestCancelOnlyFromEarlyStates(t *testing.T) {
	db := newTestDB(t)
	svc := &Service{DB: db}
	ctx := context.Background()

	early := seedOrder(t, db, models.OrderStatusConfirmed)
	_, err := svc.UpdateStatus(ctx, early.ID, models.OrderStatusCancelled)
	require.NoError(t, err)

	late := seedOrder(t, db, models.OrderStatusShipped)
	_, err = svc.UpdateStatus(ctx, late.ID, models.OrderStatusCancelled)
	require.ErrorIs(t, err, ErrIllegalTransition)
}

func TestTerminalStatesAreFrozen(t *testing.T) {
	db := newTestDB(t)
	svc := &Service{DB: db}
	ctx := context.Background()

	delivered := seedOrder(t, db, models.OrderStatusDelivered)
	_, err := svc.UpdateStatus(ctx, delivered.ID, models.OrderStatusPending)
	require.ErrorIs(t, err, ErrIllegalTransition)

	cancelled := seedOrder(t, db, models.OrderStatusCancelled)
	_, err = svc.UpdateStatus(ctx, cancelled.ID, models.OrderStatusConfirmed)
	require.ErrorIs(t, err, ErrIllegalTransition)
}

func TestUpdateStatusMissingOrder(t *testing.T) {
	svc := &Service{DB: newTestDB(t)}
	_, err := svc.UpdateStatus(context.Background(), 99, models.OrderStatusConfirmed)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetOrderPreloadsChildren(t *testing.T) {
	db := newTestDB(t)
	svc := &Service{DB: db}
	o := seedOrder(t, db, models.OrderStatusPending)
	require.NoError(t, db.Create(&models.OrderItem{OrderID: o.ID, ProductID: 1, Quantity: 2, Price: 50}).Error)
	require.NoError(t, db.Create(&models.Payment{OrderID: o.ID, Amount: 115, Method: "cod", Status: models.PaymentStatusPending}).Error)

	got, err := svc.GetOrder(context.Background(), o.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	require.NotNil(t, got.Shipping)
	require.NotNil(t, got.Payment)
	require.Len(t, got.History, 1)
}

func TestListOrdersFilters(t *testing.T) {
	db := newTestDB(t)
	svc := &Service{DB: db}
	ctx := context.Background()

	seedOrder(t, db, models.OrderStatusPending)
	second := seedOrder(t, db, models.OrderStatusPending)
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", second.ID).
		Updates(map[string]any{"user_id": 2, "status": models.OrderStatusConfirmed}).Error)

	orders, total, err := svc.ListOrders(ctx, ListFilter{UserID: 1, Limit: 10})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, orders, 1)

	orders, total, err = svc.ListOrders(ctx, ListFilter{Status: models.OrderStatusConfirmed, Limit: 10})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, second.ID, orders[0].ID)
}
