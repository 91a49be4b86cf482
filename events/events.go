package events

import (
	"context"
	"errors"
	"time"

	"github.com/devahmid/27Degres-bis-sub001/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EventType string

const (
	OrderCreated   EventType = "order.created"
	OrderUpdated   EventType = "order.updated"
	OrderCancelled EventType = "order.cancelled"
)

type OrderEvent struct {
	EventID       string               `json:"event_id"`
	Type          EventType            `json:"type"`
	OrderID       uint                 `json:"order_id"`
	OrderRef      string               `json:"order_ref"`
	UserID        string               `json:"user_id"`
	Status        models.OrderStatus   `json:"status"`
	PaymentStatus models.PaymentStatus `json:"payment_status"`
	TotalAmount   decimal.Decimal      `json:"total_amount"`
	ItemCount     int                  `json:"item_count"`
	Timestamp     time.Time            `json:"timestamp"`
	RequestID     string               `json:"request_id,omitempty"`
}

func NewOrderEvent(t EventType, order *models.Order, requestID string) OrderEvent {
	items := 0
	for _, it := range order.Items {
		items += it.Quantity
	}
	return OrderEvent{
		EventID:       uuid.NewString(),
		Type:          t,
		OrderID:       order.ID,
		OrderRef:      order.OrderRef,
		UserID:        order.UserID,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		TotalAmount:   order.TotalAmount,
		ItemCount:     items,
		Timestamp:     time.Now().UTC(),
		RequestID:     requestID,
	}
}

// Publisher delivers order events after the order change has been committed.
type Publisher interface {
	Publish(ctx context.Context, event OrderEvent) error
}

type Nop struct{}

func (Nop) Publish(context.Context, OrderEvent) error { return nil }

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, event OrderEvent) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
