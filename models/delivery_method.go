package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeliveryMethod is a shipping option. Orders keep a snapshot of its cost, and a
// referenced method is deactivated rather than deleted.
type DeliveryMethod struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Name          string          `gorm:"not null;uniqueIndex;size:120" json:"name"`
	Description   string          `json:"description"`
	Cost          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"cost"`
	IsActive      bool            `gorm:"not null" json:"is_active"`
	EstimatedDays int             `gorm:"not null;default:0" json:"estimated_days"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
