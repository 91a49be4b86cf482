package orders

import (
	"context"
	"testing"

	"github.com/devahmid/27Degres-bis-sub001/apperrors"
	"github.com/devahmid/27Degres-bis-sub001/events"
	"github.com/devahmid/27Degres-bis-sub001/models"
	"github.com/devahmid/27Degres-bis-sub001/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestUpdate_CancellingShippedOrderRestoresStock(t *testing.T) {
	svc, db, rec := newTestService(t)
	ctx := context.Background()
	a := testutil.SeedProduct(t, db, "Tee", "10.00", 5)
	b := testutil.SeedProduct(t, db, "Mug", "6.00", 1)

	order, err := svc.Create(ctx, alice, CreateOrderRequest{Items: []ItemRequest{item(a, 2), item(b, 1)}})
	require.NoError(t, err)
	assert.Equal(t, 3, testutil.Stock(t, db, a.ID))
	assert.Equal(t, 0, testutil.Stock(t, db, b.ID))

	_, err = svc.Update(ctx, admin, order.ID, UpdateOrderRequest{Status: ptr("shipped")})
	require.NoError(t, err)

	got, err := svc.Update(ctx, admin, order.ID, UpdateOrderRequest{Status: ptr("cancelled")})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, got.Status)
	assert.Equal(t, 5, testutil.Stock(t, db, a.ID))
	assert.Equal(t, 1, testutil.Stock(t, db, b.ID))

	var mug models.Product
	require.NoError(t, db.First(&mug, b.ID).Error)
	assert.Equal(t, models.ProductStatusActive, mug.Status)

	assert.Equal(t,
		[]events.EventType{events.OrderCreated, events.OrderUpdated, events.OrderCancelled},
		rec.types())
}

func TestUpdate_TransitionRules(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	a := testutil.SeedProduct(t, db, "Tee", "10.00", 50)

	newOrder := func(t *testing.T, status models.OrderStatus) uint {
		t.Helper()
		o, err := svc.Create(ctx, alice, CreateOrderRequest{Items: []ItemRequest{item(a, 1)}})
		require.NoError(t, err)
		require.NoError(t, db.Model(&models.Order{}).Where("id = ?", o.ID).Update("status", status).Error)
		return o.ID
	}

	tests := []struct {
		name    string
		from    models.OrderStatus
		to      string
		wantErr bool
	}{
		{name: "pending to confirmed", from: models.OrderStatusPending, to: "confirmed"},
		{name: "skip ahead", from: models.OrderStatusConfirmed, to: "shipped"},
		{name: "same status", from: models.OrderStatusProcessing, to: "processing"},
		{name: "shipped to delivered", from: models.OrderStatusShipped, to: "delivered"},
		{name: "backwards", from: models.OrderStatusShipped, to: "confirmed", wantErr: true},
		{name: "delivered cannot cancel", from: models.OrderStatusDelivered, to: "cancelled", wantErr: true},
		{name: "cancelled is final", from: models.OrderStatusCancelled, to: "pending", wantErr: true},
		{name: "cancelled twice", from: models.OrderStatusCancelled, to: "cancelled", wantErr: true},
		{name: "unknown status", from: models.OrderStatusPending, to: "lost", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			id := newOrder(t, tc.from)
			got, err := svc.Update(ctx, admin, id, UpdateOrderRequest{Status: ptr(tc.to)})
			if tc.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, models.OrderStatus(tc.to), got.Status)
		})
	}
}

func TestUpdate_PaymentFieldsAreIndependentOfStatus(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	a := testutil.SeedProduct(t, db, "Tee", "10.00", 5)
	order, err := svc.Create(ctx, alice, CreateOrderRequest{Items: []ItemRequest{item(a, 1)}})
	require.NoError(t, err)

	got, err := svc.Update(ctx, admin, order.ID, UpdateOrderRequest{
		PaymentStatus: ptr("paid"),
		TransactionID: ptr("txn-881"),
		Notes:         ptr("paid at the counter"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, got.PaymentStatus)
	assert.Equal(t, models.OrderStatusPending, got.Status)
	require.NotNil(t, got.TransactionID)
	assert.Equal(t, "txn-881", *got.TransactionID)
	assert.Equal(t, "paid at the counter", got.Notes)

	_, err = svc.Update(ctx, admin, order.ID, UpdateOrderRequest{PaymentStatus: ptr("maybe")})
	assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)

	_, err = svc.Update(ctx, admin, 9999, UpdateOrderRequest{Notes: ptr("x")})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCancel(t *testing.T) {
	svc, db, rec := newTestService(t)
	ctx := context.Background()
	a := testutil.SeedProduct(t, db, "Tee", "10.00", 5)

	order, err := svc.Create(ctx, alice, CreateOrderRequest{Items: []ItemRequest{item(a, 3)}})
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, bob, order.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "foreign orders look missing")

	got, err := svc.Cancel(ctx, alice, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, got.Status)
	assert.Equal(t, 5, testutil.Stock(t, db, a.ID))

	_, err = svc.Cancel(ctx, alice, order.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)
	assert.ErrorContains(t, err, "already cancelled")
	assert.Equal(t, 5, testutil.Stock(t, db, a.ID), "stock is restored once")

	assert.Equal(t, []events.EventType{events.OrderCreated, events.OrderCancelled}, rec.types())
}

func TestCancel_DeliveredOrderIsRejected(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	a := testutil.SeedProduct(t, db, "Tee", "10.00", 5)

	order, err := svc.Create(ctx, alice, CreateOrderRequest{Items: []ItemRequest{item(a, 2)}})
	require.NoError(t, err)
	_, err = svc.Update(ctx, admin, order.ID, UpdateOrderRequest{Status: ptr("delivered")})
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, admin, order.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)
	assert.Equal(t, 3, testutil.Stock(t, db, a.ID))
}

func TestCancel_RestoresStockOfDeletedProduct(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	a := testutil.SeedProduct(t, db, "Tee", "10.00", 5)

	order, err := svc.Create(ctx, alice, CreateOrderRequest{Items: []ItemRequest{item(a, 2)}})
	require.NoError(t, err)
	require.NoError(t, db.Delete(&models.Product{}, a.ID).Error)

	_, err = svc.Cancel(ctx, alice, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, testutil.Stock(t, db, a.ID))
}
