// Package orders implements order intake, stock reservation, the order lifecycle and
// order statistics.
package orders

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/devahmid/27Degres-bis-sub001/apperrors"
	"github.com/devahmid/27Degres-bis-sub001/database"
	"github.com/devahmid/27Degres-bis-sub001/events"
	"github.com/devahmid/27Degres-bis-sub001/models"
	"github.com/devahmid/27Degres-bis-sub001/services/catalog"
	"github.com/devahmid/27Degres-bis-sub001/services/users"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db        *gorm.DB
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(db *gorm.DB, publisher events.Publisher, logger *zap.Logger) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{
		db:        db,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Caller is the identity resolved by the auth middleware.
type Caller struct {
	UserID    string
	Email     string
	Admin     bool
	RequestID string
}

type ItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type CreateOrderRequest struct {
	Items            []ItemRequest `json:"items" binding:"required,min=1,dive"`
	DeliveryMethodID *uint         `json:"delivery_method_id"`
	ShippingAddress  string        `json:"shipping_address"`
	PaymentMethod    string        `json:"payment_method"`
	Notes            string        `json:"notes"`
}

type ListFilter struct {
	Status        string
	PaymentStatus string
	UserID        string // admin only
}

// Create prices the cart against the current catalog and commits the order, its
// items and every stock decrement as one atomic unit. Nothing is persisted when any
// line fails validation or a conditional decrement loses a race.
func (s *Service) Create(ctx context.Context, caller Caller, req CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, apperrors.Invalid("order must contain at least one item")
	}
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return nil, apperrors.Invalid("quantity for product %d must be positive, got %d", it.ProductID, it.Quantity)
		}
	}

	var orderID uint
	err := database.Atomically(ctx, s.db, func(tx *gorm.DB) error {
		if _, err := users.EnsureUser(tx, caller.UserID, caller.Email); err != nil {
			return err
		}

		products, err := lockProducts(tx, req.Items)
		if err != nil {
			return err
		}

		order := models.Order{
			OrderRef:        generateOrderRef(s.now()),
			UserID:          caller.UserID,
			Status:          models.OrderStatusPending,
			PaymentStatus:   models.PaymentStatusPending,
			PaymentMethod:   req.PaymentMethod,
			ShippingAddress: req.ShippingAddress,
			Notes:           req.Notes,
			DeliveryCost:    decimal.Zero,
		}

		total := decimal.Zero
		remaining := make(map[uint]int, len(products))
		for id, p := range products {
			remaining[id] = p.StockQuantity
		}
		for _, it := range req.Items {
			product, ok := products[it.ProductID]
			if !ok {
				return apperrors.NotFound("product %d", it.ProductID)
			}
			if !product.Orderable() {
				return apperrors.Invalid("product %q is not available", product.Name)
			}
			if remaining[product.ID] < it.Quantity {
				return &apperrors.StockError{
					ProductID:   product.ID,
					ProductName: product.Name,
					Available:   remaining[product.ID],
					Requested:   it.Quantity,
				}
			}
			remaining[product.ID] -= it.Quantity

			subtotal := product.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
			total = total.Add(subtotal)
			order.Items = append(order.Items, models.OrderItem{
				ProductID: product.ID,
				Quantity:  it.Quantity,
				Price:     product.Price,
				Subtotal:  subtotal,
			})
		}

		if req.DeliveryMethodID != nil {
			var method models.DeliveryMethod
			if err := tx.Where("id = ? AND is_active = ?", *req.DeliveryMethodID, true).
				First(&method).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.NotFound("active delivery method %d", *req.DeliveryMethodID)
				}
				return err
			}
			order.DeliveryMethodID = &method.ID
			order.DeliveryCost = method.Cost
			total = total.Add(method.Cost)
		}
		order.TotalAmount = total

		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for _, it := range order.Items {
			if err := catalog.Reserve(tx, products[it.ProductID], it.Quantity); err != nil {
				return err
			}
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		s.logger.Warn("Order rejected",
			zap.String("user_id", caller.UserID),
			zap.String("request_id", caller.RequestID),
			zap.Error(err))
		return nil, err
	}

	order, err := s.load(ctx, s.db, orderID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order created successfully",
		zap.Uint("order_id", order.ID),
		zap.String("order_ref", order.OrderRef),
		zap.String("user_id", order.UserID),
		zap.String("total_amount", order.TotalAmount.StringFixed(2)))
	s.publish(ctx, events.OrderCreated, order, caller.RequestID)
	return order, nil
}

// Get returns the hydrated order. Non-admin callers only see their own orders.
func (s *Service) Get(ctx context.Context, caller Caller, id uint) (*models.Order, error) {
	query := s.db.WithContext(ctx)
	if !caller.Admin {
		query = query.Where("user_id = ?", caller.UserID)
	}
	return s.load(ctx, query, id)
}

func (s *Service) List(ctx context.Context, caller Caller, f ListFilter) ([]models.Order, error) {
	query := hydrate(s.db.WithContext(ctx)).Order("created_at DESC, id DESC")

	switch {
	case !caller.Admin:
		query = query.Where("user_id = ?", caller.UserID)
	case f.UserID != "":
		query = query.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		status, err := models.ParseOrderStatus(f.Status)
		if err != nil {
			return nil, apperrors.Invalid("%v", err)
		}
		query = query.Where("status = ?", status)
	}
	if f.PaymentStatus != "" {
		status, err := models.ParsePaymentStatus(f.PaymentStatus)
		if err != nil {
			return nil, apperrors.Invalid("%v", err)
		}
		query = query.Where("payment_status = ?", status)
	}

	var list []models.Order
	if err := query.Find(&list).Error; err != nil {
		return nil, apperrors.Classify(err)
	}
	return list, nil
}

// lockProducts loads every distinct product referenced by the cart in ascending id
// order, row-locking them on postgres so concurrent orders queue instead of
// deadlocking.
func lockProducts(tx *gorm.DB, items []ItemRequest) (map[uint]*models.Product, error) {
	seen := make(map[uint]struct{}, len(items))
	ids := make([]uint, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.ProductID]; !ok {
			seen[it.ProductID] = struct{}{}
			ids = append(ids, it.ProductID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var rows []models.Product
	if err := database.ForUpdate(tx).Where("id IN ?", ids).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	products := make(map[uint]*models.Product, len(rows))
	for i := range rows {
		products[rows[i].ID] = &rows[i]
	}
	return products, nil
}

func hydrate(db *gorm.DB) *gorm.DB {
	return db.
		Preload("User").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id ASC") }).
		Preload("Items.Product", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("DeliveryMethod")
}

// load reads the order with items (and their product), delivery method and user.
func (s *Service) load(ctx context.Context, db *gorm.DB, id uint) (*models.Order, error) {
	var order models.Order
	if err := hydrate(db.WithContext(ctx)).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order %d", id)
		}
		return nil, apperrors.Classify(err)
	}
	return &order, nil
}

func (s *Service) publish(ctx context.Context, t events.EventType, order *models.Order, requestID string) {
	// The order is committed at this point; a lost event must not fail the request.
	if err := s.publisher.Publish(ctx, events.NewOrderEvent(t, order, requestID)); err != nil {
		s.logger.Error("Failed to publish order event",
			zap.Uint("order_id", order.ID),
			zap.String("type", string(t)),
			zap.Error(err))
	}
}

// generateOrderRef returns a unique, time-prefixed order reference.
func generateOrderRef(now time.Time) string {
	// Example: 20250908130500-<uuid4>
	return now.Format("20060102150405") + "-" + uuid.NewString()
}
