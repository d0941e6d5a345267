package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is an inventory item. Stock never goes below zero after a committed
// operation: sales decrement through a conditional UPDATE and compensation
// re-increments by the exact quantity previously subtracted.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"index;not null"`
	Description *string
	// Category holds the category name; validated against the categories table
	// at the service layer.
	Category string          `gorm:"not null"`
	Price    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	// Cost is the acquisition cost, used for profit estimation in reports.
	Cost     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Stock    int             `gorm:"not null;default:0"`
	MinStock int             `gorm:"not null;default:5"`
	Unit     string          `gorm:"not null;default:'unit'"`
	Barcode  *string
	ImageURL *string
	Active   bool      `gorm:"not null;default:true"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
