package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string
type PaymentStatus string

const (
	// Order statuses, in fulfillment order
	OrderStatusPending    OrderStatus = "pending"    // Order placed, awaiting confirmation
	OrderStatusConfirmed  OrderStatus = "confirmed"  // Confirmed by the association
	OrderStatusProcessing OrderStatus = "processing" // Being prepared
	OrderStatusShipped    OrderStatus = "shipped"    // Out for delivery
	OrderStatusDelivered  OrderStatus = "delivered"  // Customer received the items
	OrderStatusCancelled  OrderStatus = "cancelled"  // Cancelled, stock restored

	// Payment statuses
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// OrderStatuses lists every order status in fulfillment order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(strings.ToLower(strings.TrimSpace(s))) {
	case OrderStatusPending:
		return OrderStatusPending, nil
	case OrderStatusConfirmed:
		return OrderStatusConfirmed, nil
	case OrderStatusProcessing:
		return OrderStatusProcessing, nil
	case OrderStatusShipped:
		return OrderStatusShipped, nil
	case OrderStatusDelivered:
		return OrderStatusDelivered, nil
	case OrderStatusCancelled:
		return OrderStatusCancelled, nil
	default:
		return "", fmt.Errorf("invalid order status %q", s)
	}
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(strings.ToLower(strings.TrimSpace(s))) {
	case PaymentStatusPending:
		return PaymentStatusPending, nil
	case PaymentStatusPaid:
		return PaymentStatusPaid, nil
	case PaymentStatusFailed:
		return PaymentStatusFailed, nil
	case PaymentStatusRefunded:
		return PaymentStatusRefunded, nil
	default:
		return "", fmt.Errorf("invalid payment status %q", s)
	}
}

// rank is the position of a non-cancelled status along the fulfillment chain.
func (s OrderStatus) rank() int {
	switch s {
	case OrderStatusPending:
		return 0
	case OrderStatusConfirmed:
		return 1
	case OrderStatusProcessing:
		return 2
	case OrderStatusShipped:
		return 3
	case OrderStatusDelivered:
		return 4
	case OrderStatusCancelled:
		return -1
	}
	return -1
}

// Terminal reports whether no further transition is possible.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderStatusDelivered, OrderStatusCancelled:
		return true
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing, OrderStatusShipped:
		return false
	}
	return true
}

// CheckTransition validates moving from s to next. Statuses only move forward along
// the fulfillment chain or into cancelled; a delivered order cannot be cancelled and
// a cancelled order cannot change at all. Re-applying the current status is accepted
// as a no-op, except for cancelled.
func (s OrderStatus) CheckTransition(next OrderStatus) error {
	switch s {
	case OrderStatusCancelled:
		if next == OrderStatusCancelled {
			return fmt.Errorf("order is already cancelled")
		}
		return fmt.Errorf("cancelled order cannot move to %s", next)
	case OrderStatusDelivered:
		switch next {
		case OrderStatusDelivered:
			return nil
		case OrderStatusCancelled:
			return fmt.Errorf("delivered order cannot be cancelled")
		default:
			return fmt.Errorf("delivered order cannot move back to %s", next)
		}
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing, OrderStatusShipped:
		if next == OrderStatusCancelled || next.rank() >= s.rank() {
			return nil
		}
		return fmt.Errorf("order cannot move back from %s to %s", s, next)
	}
	return fmt.Errorf("unknown order status %q", s)
}

type Order struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	OrderRef         string          `gorm:"uniqueIndex;size:64;not null" json:"order_ref"`
	UserID           string          `gorm:"not null;index" json:"user_id"`
	User             *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Items            []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Status           OrderStatus     `gorm:"type:VARCHAR(20);not null;default:'pending';index" json:"status"`
	TotalAmount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	DeliveryMethodID *uint           `gorm:"index" json:"delivery_method_id"`
	DeliveryMethod   *DeliveryMethod `gorm:"foreignKey:DeliveryMethodID;constraint:OnDelete:RESTRICT" json:"delivery_method,omitempty"`
	DeliveryCost     decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"delivery_cost"`
	PaymentStatus    PaymentStatus   `gorm:"type:VARCHAR(20);not null;default:'pending';index" json:"payment_status"`
	PaymentMethod    string          `json:"payment_method"` // e.g. "card", "cash", "transfer"
	TransactionID    *string         `json:"transaction_id"`
	ShippingAddress  string          `json:"shipping_address"`
	Notes            string          `json:"notes"`
	CreatedAt        time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"index;not null" json:"order_id"`
	ProductID uint            `gorm:"index;not null" json:"product_id"`
	Product   *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int             `gorm:"not null;check:quantity > 0" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"` // unit price at purchase time
	Subtotal  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`
}
