package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a catalog row owned by one user
type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Name        string          `gorm:"size:255;not null;index" json:"name"`
	CostPrice   decimal.Decimal `gorm:"type:numeric(15,2);not null;default:0" json:"cost_price"`
	SellPrice   decimal.Decimal `gorm:"type:numeric(15,2);not null;default:0" json:"sell_price"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	Barcode     *string         `gorm:"size:100;index" json:"barcode,omitempty"`
	Category    *string         `gorm:"size:100" json:"category,omitempty"`
	IsPhotocopy bool            `gorm:"not null;default:false" json:"is_photocopy"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}
