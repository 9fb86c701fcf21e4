package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Receipt is the persisted header of a completed sale
type Receipt struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	ReceiptNumber string          `gorm:"size:50;uniqueIndex;not null" json:"receipt_number"`
	Subtotal      decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"subtotal"`
	Discount      decimal.Decimal `gorm:"type:numeric(15,2);not null;default:0" json:"discount"`
	Total         decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"total"`
	Profit        decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"profit"`
	PaymentMethod *string         `gorm:"size:50" json:"payment_method,omitempty"`
	IsManual      bool            `gorm:"not null;default:false" json:"is_manual"`
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`

	Items []ReceiptItem `gorm:"foreignKey:ReceiptID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new receipt
func (r *Receipt) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Receipt model
func (Receipt) TableName() string {
	return "receipts"
}

// ReceiptItem snapshots the prices of one sold product
type ReceiptItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ReceiptID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"receipt_id"`
	Line        int             `gorm:"not null;default:0" json:"line"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName string          `gorm:"size:255;not null" json:"product_name"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	SellPrice   decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"sell_price"`
	CostPrice   decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"cost_price"`
	FinalPrice  decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"final_price"`
}

// BeforeCreate generates a UUID before creating a new receipt item
func (i *ReceiptItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ReceiptItem model
func (ReceiptItem) TableName() string {
	return "receipt_items"
}

// InvoiceSequence is the per-prefix, per-day counter behind receipt numbers
type InvoiceSequence struct {
	Prefix    string `gorm:"size:16;primaryKey"`
	Day       string `gorm:"size:8;primaryKey"`
	LastValue int64  `gorm:"not null;default:0"`
}

// TableName returns the table name for the InvoiceSequence model
func (InvoiceSequence) TableName() string {
	return "invoice_sequences"
}

// StockDrift is a stock decrement that failed after its receipt was stored
type StockDrift struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	ReceiptID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"receipt_id"`
	ReceiptNumber string     `gorm:"size:50;not null" json:"receipt_number"`
	ProductID     string     `gorm:"size:64;not null" json:"product_id"`
	Quantity      int        `gorm:"not null" json:"quantity"`
	ExpectedStock int        `gorm:"not null" json:"expected_stock"`
	Reason        string     `gorm:"type:text" json:"reason"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new drift entry
func (d *StockDrift) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StockDrift model
func (StockDrift) TableName() string {
	return "stock_drifts"
}
