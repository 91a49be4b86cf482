package events

import (
	"context"
	"errors"
	"testing"

	"github.com/devahmid/27Degres-bis-sub001/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type recorder struct {
	events []OrderEvent
	err    error
}

func (r *recorder) Publish(_ context.Context, e OrderEvent) error {
	r.events = append(r.events, e)
	return r.err
}

func TestNewOrderEvent(t *testing.T) {
	order := &models.Order{
		ID:            4,
		OrderRef:      "ref-4",
		UserID:        "u-1",
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		TotalAmount:   decimal.NewFromInt(30),
		Items:         []models.OrderItem{{Quantity: 2}, {Quantity: 1}},
	}

	e := NewOrderEvent(OrderCreated, order, "req-1")

	assert.NotEmpty(t, e.EventID)
	assert.Equal(t, OrderCreated, e.Type)
	assert.Equal(t, 3, e.ItemCount)
	assert.Equal(t, "req-1", e.RequestID)
	assert.True(t, e.TotalAmount.Equal(decimal.NewFromInt(30)))
}

func TestMulti_DeliversToAllAndJoinsErrors(t *testing.T) {
	ok := &recorder{}
	failing := &recorder{err: errors.New("broker down")}

	err := Multi{failing, ok, Nop{}}.Publish(context.Background(), OrderEvent{Type: OrderCancelled})

	assert.ErrorContains(t, err, "broker down")
	assert.Len(t, ok.events, 1)
	assert.Len(t, failing.events, 1)

	assert.NoError(t, Multi{ok}.Publish(context.Background(), OrderEvent{}))
}
