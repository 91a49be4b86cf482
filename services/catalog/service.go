// Package catalog manages products and owns every mutation of their stock counter.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/devahmid/27Degres-bis-sub001/apperrors"
	"github.com/devahmid/27Degres-bis-sub001/database"
	"github.com/devahmid/27Degres-bis-sub001/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

type ProductInput struct {
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	Status        string          `json:"status"`
}

// ProductPatch carries optional updates; nil fields are left untouched.
type ProductPatch struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	StockQuantity *int             `json:"stock_quantity"`
	Status        *string          `json:"status"`
}

type ListFilter struct {
	Search   string
	Status   string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	SortBy   string
	Order    string
}

var sortColumns = map[string]string{
	"created_at":     "created_at",
	"name":           "name",
	"price":          "price",
	"stock_quantity": "stock_quantity",
}

func (s *Service) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperrors.Invalid("product name is required")
	}
	if in.Price.IsNegative() {
		return nil, apperrors.Invalid("price must not be negative")
	}

	product := models.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Status:      models.ProductStatusActive,
	}
	if in.Status != "" {
		status, err := models.ParseProductStatus(in.Status)
		if err != nil {
			return nil, apperrors.Invalid("%v", err)
		}
		product.Status = status
	}
	if err := product.ApplyStock(in.StockQuantity); err != nil {
		return nil, apperrors.Invalid("%v", err)
	}

	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, apperrors.Classify(err)
	}
	s.logger.Info("Product created", zap.Uint("product_id", product.ID), zap.String("name", product.Name))
	return &product, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product %d", id)
		}
		return nil, apperrors.Classify(err)
	}
	return &product, nil
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]models.Product, error) {
	query := s.db.WithContext(ctx).Model(&models.Product{})

	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if f.Status != "" {
		status, err := models.ParseProductStatus(f.Status)
		if err != nil {
			return nil, apperrors.Invalid("%v", err)
		}
		query = query.Where("status = ?", status)
	}
	if f.MinPrice != nil {
		query = query.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		query = query.Where("price <= ?", *f.MaxPrice)
	}

	column, ok := sortColumns[f.SortBy]
	if !ok {
		column = "created_at"
	}
	order := strings.ToLower(f.Order)
	if order != "asc" && order != "desc" {
		order = "desc"
	}

	var products []models.Product
	if err := query.Order(fmt.Sprintf("%s %s, id %s", column, order, order)).Find(&products).Error; err != nil {
		return nil, apperrors.Classify(err)
	}
	return products, nil
}

// Update applies an admin edit. A supplied stock quantity replaces the counter with
// SetStock semantics inside the same transaction.
func (s *Service) Update(ctx context.Context, id uint, patch ProductPatch) (*models.Product, error) {
	var product models.Product
	err := database.Atomically(ctx, s.db, func(tx *gorm.DB) error {
		if err := database.ForUpdate(tx).First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("product %d", id)
			}
			return err
		}

		if patch.Name != nil {
			if strings.TrimSpace(*patch.Name) == "" {
				return apperrors.Invalid("product name must not be empty")
			}
			product.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Description != nil {
			product.Description = *patch.Description
		}
		if patch.Price != nil {
			if patch.Price.IsNegative() {
				return apperrors.Invalid("price must not be negative")
			}
			product.Price = *patch.Price
		}
		if patch.Status != nil {
			status, err := models.ParseProductStatus(*patch.Status)
			if err != nil {
				return apperrors.Invalid("%v", err)
			}
			product.Status = status
		}
		qty := product.StockQuantity
		if patch.StockQuantity != nil {
			qty = *patch.StockQuantity
		}
		if err := product.ApplyStock(qty); err != nil {
			return apperrors.Invalid("%v", err)
		}

		return tx.Model(&product).Updates(map[string]any{
			"name":           product.Name,
			"description":    product.Description,
			"price":          product.Price,
			"status":         product.Status,
			"stock_quantity": product.StockQuantity,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// SetStock explicitly replaces the stock counter. It is exempt from the conditional
// decrement used by orders but still refuses negative values and applies the
// sold-out rule.
func (s *Service) SetStock(ctx context.Context, id uint, qty int) (*models.Product, error) {
	return s.Update(ctx, id, ProductPatch{StockQuantity: &qty})
}

// Delete soft-deletes the product; order history keeps resolving it unscoped.
func (s *Service) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return apperrors.Classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("product %d", id)
	}
	s.logger.Info("Product deleted", zap.Uint("product_id", id))
	return nil
}

// Reserve decrements stock for one order line inside an atomic unit. The decrement
// is conditional on the stock still covering qty at write time, so two concurrent
// orders can never both consume the last units.
func Reserve(tx *gorm.DB, product *models.Product, qty int) error {
	if qty <= 0 {
		return apperrors.Invalid("quantity must be positive, got %d", qty)
	}
	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", product.ID, qty).
		Updates(map[string]any{
			"stock_quantity": gorm.Expr("stock_quantity - ?", qty),
			"status": gorm.Expr("CASE WHEN stock_quantity = ? AND status = ? THEN ? ELSE status END",
				qty, models.ProductStatusActive, models.ProductStatusSoldOut),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}

	var current models.Product
	if err := tx.First(&current, product.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("product %d", product.ID)
		}
		return err
	}
	return &apperrors.StockError{
		ProductID:   current.ID,
		ProductName: current.Name,
		Available:   current.StockQuantity,
		Requested:   qty,
	}
}

// Release gives qty units back to a product, reactivating it when it had sold out.
// Soft-deleted products are restocked too so their counters stay truthful.
func Release(tx *gorm.DB, productID uint, qty int) error {
	if qty <= 0 {
		return nil
	}
	res := tx.Unscoped().Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]any{
			"stock_quantity": gorm.Expr("stock_quantity + ?", qty),
			"status": gorm.Expr("CASE WHEN status = ? THEN ? ELSE status END",
				models.ProductStatusSoldOut, models.ProductStatusActive),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("product %d", productID)
	}
	return nil
}
