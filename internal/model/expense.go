package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense statuses.
const (
	ExpenseStatusPending   = "pending"
	ExpenseStatusPaid      = "paid"
	ExpenseStatusCancelled = "cancelled"
)

// ExpenseCategories is the closed set of expense categories.
var ExpenseCategories = map[string]bool{
	"inventory": true,
	"rent":      true,
	"utilities": true,
	"salaries":  true,
	"supplies":  true,
	"transport": true,
	"marketing": true,
	"other":     true,
}

// VendorInfo is a denormalized vendor sub-record captured at expense creation.
type VendorInfo struct {
	Name  *string `gorm:"column:vendor_name"`
	Phone *string `gorm:"column:vendor_phone"`
	Email *string `gorm:"column:vendor_email"`
}

// Expense is a one-sided cost record. Invariant: Amount > 0.
// Status transitions: pending → paid (records the method used) and
// pending → cancelled; both are terminal.
type Expense struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Category      string          `gorm:"type:varchar(20);not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMethod string          `gorm:"type:varchar(20);not null"`
	Status        string          `gorm:"type:varchar(10);not null;default:'pending'"`
	Vendor        VendorInfo      `gorm:"embedded"`
	Concept       *string
	PaidAt        *time.Time
	CreatedBy     uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
