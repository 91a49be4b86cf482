package orders

import (
	"context"
	"errors"

	"github.com/devahmid/27Degres-bis-sub001/apperrors"
	"github.com/devahmid/27Degres-bis-sub001/database"
	"github.com/devahmid/27Degres-bis-sub001/events"
	"github.com/devahmid/27Degres-bis-sub001/models"
	"github.com/devahmid/27Degres-bis-sub001/services/catalog"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UpdateOrderRequest is the admin patch. Absent fields are left untouched.
type UpdateOrderRequest struct {
	Status        *string `json:"status"`
	PaymentStatus *string `json:"payment_status"`
	TransactionID *string `json:"transaction_id"`
	Notes         *string `json:"notes"`
}

// Update applies an admin patch. Status changes go through the transition rules and
// moving an order to cancelled puts its stock back in the same atomic unit.
func (s *Service) Update(ctx context.Context, caller Caller, id uint, req UpdateOrderRequest) (*models.Order, error) {
	var (
		next    *models.OrderStatus
		payment *models.PaymentStatus
	)
	if req.Status != nil {
		st, err := models.ParseOrderStatus(*req.Status)
		if err != nil {
			return nil, apperrors.Invalid("%v", err)
		}
		next = &st
	}
	if req.PaymentStatus != nil {
		ps, err := models.ParsePaymentStatus(*req.PaymentStatus)
		if err != nil {
			return nil, apperrors.Invalid("%v", err)
		}
		payment = &ps
	}

	cancelled := false
	err := database.Atomically(ctx, s.db, func(tx *gorm.DB) error {
		order, err := lockOrder(tx, id, "")
		if err != nil {
			return err
		}

		updates := map[string]any{}
		if next != nil {
			if err := order.Status.CheckTransition(*next); err != nil {
				return apperrors.Invalid("%v", err)
			}
			if *next != order.Status {
				if *next == models.OrderStatusCancelled {
					if err := restoreStock(tx, order.ID); err != nil {
						return err
					}
					cancelled = true
				}
				updates["status"] = *next
			}
		}
		if payment != nil {
			updates["payment_status"] = *payment
		}
		if req.TransactionID != nil {
			updates["transaction_id"] = *req.TransactionID
		}
		if req.Notes != nil {
			updates["notes"] = *req.Notes
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(order).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	order, err := s.load(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	eventType := events.OrderUpdated
	if cancelled {
		eventType = events.OrderCancelled
	}
	s.logger.Info("Order updated",
		zap.Uint("order_id", order.ID),
		zap.String("status", string(order.Status)),
		zap.String("payment_status", string(order.PaymentStatus)))
	s.publish(ctx, eventType, order, caller.RequestID)
	return order, nil
}

// Cancel cancels an order and restores the stock of every line. Members may only
// cancel their own orders.
func (s *Service) Cancel(ctx context.Context, caller Caller, id uint) (*models.Order, error) {
	owner := caller.UserID
	if caller.Admin {
		owner = ""
	}

	err := database.Atomically(ctx, s.db, func(tx *gorm.DB) error {
		order, err := lockOrder(tx, id, owner)
		if err != nil {
			return err
		}
		if err := order.Status.CheckTransition(models.OrderStatusCancelled); err != nil {
			return apperrors.Invalid("%v", err)
		}
		if err := restoreStock(tx, order.ID); err != nil {
			return err
		}
		return tx.Model(order).Update("status", models.OrderStatusCancelled).Error
	})
	if err != nil {
		return nil, err
	}

	order, err := s.load(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Order cancelled",
		zap.Uint("order_id", order.ID),
		zap.String("user_id", caller.UserID),
		zap.Bool("admin", caller.Admin))
	s.publish(ctx, events.OrderCancelled, order, caller.RequestID)
	return order, nil
}

// lockOrder reads the order row for update. A non-empty owner scopes the lookup so
// foreign orders look missing.
func lockOrder(tx *gorm.DB, id uint, owner string) (*models.Order, error) {
	query := database.ForUpdate(tx)
	if owner != "" {
		query = query.Where("user_id = ?", owner)
	}
	var order models.Order
	if err := query.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order %d", id)
		}
		return nil, err
	}
	return &order, nil
}

func restoreStock(tx *gorm.DB, orderID uint) error {
	var items []models.OrderItem
	if err := tx.Where("order_id = ?", orderID).Order("product_id ASC").Find(&items).Error; err != nil {
		return err
	}
	for _, it := range items {
		if err := catalog.Release(tx, it.ProductID, it.Quantity); err != nil {
			return err
		}
	}
	return nil
}
