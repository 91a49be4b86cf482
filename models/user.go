package models

import "time"

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// User is keyed by the identity provider's subject id.
type User struct {
	ID        string    `gorm:"primaryKey;size:128" json:"id"`
	Email     string    `gorm:"index" json:"email"`
	Phone     string    `json:"phone"`
	Name      string    `json:"name"`
	Role      string    `gorm:"type:VARCHAR(20);not null;default:'member'" json:"role"`
	Address   Address   `gorm:"embedded" json:"address"` // Embeds address fields directly
	Orders    []Order   `gorm:"foreignKey:UserID" json:"orders,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Address model embedded in User
type Address struct {
	Country    string `json:"country"`
	State      string `json:"state"`
	City       string `json:"city"`
	Street     string `json:"street"`
	PostalCode string `json:"postal_code"`
}
