package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale types and statuses.
const (
	SaleTypeProduct = "product" // cart of inventory items
	SaleTypeFree    = "free"    // arbitrary-amount sale, no stock touched

	SaleStatusPaid = "paid"
	SaleStatusDebt = "debt"
)

// PaymentMethods is the closed set of accepted payment methods.
var PaymentMethods = map[string]bool{
	"cash":     true,
	"card":     true,
	"transfer": true,
	"check":    true,
	"other":    true,
}

// ClientInfo is a denormalized client sub-record captured at sale time.
// It is a copy, not a live join against the clients table.
type ClientInfo struct {
	Name  *string `gorm:"column:client_name"`
	Phone *string `gorm:"column:client_phone"`
	Email *string `gorm:"column:client_email"`
}

// Sale is a transaction record. Line items are immutable once persisted; only
// PaidAmount / DebtAmount / Status / PaymentMethod are mutated later by the
// payment (abono) flow.
//
// Invariants: Total = Subtotal − Discount; for status "debt",
// DebtAmount = Total − PaidAmount and PaidAmount < Total; for "paid",
// PaidAmount ≥ Total.
type Sale struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Number        int             `gorm:"not null;index"`
	Type          string          `gorm:"type:varchar(10);not null"`
	Status        string          `gorm:"type:varchar(10);not null;default:'paid'"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Discount      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DiscountType  string          `gorm:"type:varchar(10);not null;default:'amount'"` // amount | percent
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMethod string          `gorm:"type:varchar(20);not null"`
	PaidAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DebtAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Client        ClientInfo      `gorm:"embedded"`
	Concept       *string
	CreatedBy     uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Items    []SaleItem    `gorm:"foreignKey:SaleID"`
	Payments []SalePayment `gorm:"foreignKey:SaleID"`
}

// SaleItem is one line of a product-type sale. ProductName and UnitPrice are
// captured at sale time so later product edits do not rewrite history.
type SaleItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}

// SalePayment is an immutable ledger entry for each payment (abono) applied
// against a sale. Entries are never modified or deleted.
type SalePayment struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Method     string          `gorm:"type:varchar(20);not null"`
	PaidAfter  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DebtAfter  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedBy  uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt  time.Time
}
