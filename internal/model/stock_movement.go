package model

import (
	"time"

	"github.com/google/uuid"
)

// StockMovement records every stock change on a product.
// Type: "sale" | "sale_reversal" | "manual_adjust"
// Movements are NEVER modified or deleted — reversals create inverse entries.
type StockMovement struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null"`
	Type        string    `gorm:"not null"`
	Quantity    int       `gorm:"not null"` // positive = in, negative = out
	StockBefore int       `gorm:"not null"`
	StockAfter  int       `gorm:"not null"`
	Reason      string
	// ReferenceID links to the originating sale, when applicable
	ReferenceID *uuid.UUID `gorm:"type:uuid"`
	CreatedBy   uuid.UUID  `gorm:"type:uuid;not null"`
	CreatedAt   time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (StockMovement) TableName() string { return "stock_movements" }
