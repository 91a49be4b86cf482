package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
	ProductStatusSoldOut  ProductStatus = "sold_out"
)

func ParseProductStatus(s string) (ProductStatus, error) {
	switch ProductStatus(strings.ToLower(strings.TrimSpace(s))) {
	case ProductStatusActive:
		return ProductStatusActive, nil
	case ProductStatusInactive:
		return ProductStatusInactive, nil
	case ProductStatusSoldOut:
		return ProductStatusSoldOut, nil
	default:
		return "", fmt.Errorf("invalid product status %q", s)
	}
}

type Product struct {
	ID            uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string          `gorm:"not null" json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	StockQuantity int             `gorm:"not null;default:0;check:stock_quantity >= 0" json:"stock_quantity"`
	Status        ProductStatus   `gorm:"type:VARCHAR(20);not null;default:'active';index" json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

// ApplyStock replaces the stock counter and moves the status along the sold-out
// rule: zero stock marks an active product sold out, restocking a sold-out product
// reactivates it, inactive products keep their status.
func (p *Product) ApplyStock(qty int) error {
	if qty < 0 {
		return fmt.Errorf("stock quantity must not be negative, got %d", qty)
	}
	p.StockQuantity = qty
	switch p.Status {
	case ProductStatusActive:
		if qty == 0 {
			p.Status = ProductStatusSoldOut
		}
	case ProductStatusSoldOut:
		if qty > 0 {
			p.Status = ProductStatusActive
		}
	case ProductStatusInactive:
	}
	return nil
}

// Orderable reports whether new orders may reference the product.
func (p *Product) Orderable() bool {
	switch p.Status {
	case ProductStatusActive:
		return true
	case ProductStatusInactive, ProductStatusSoldOut:
		return false
	}
	return false
}
