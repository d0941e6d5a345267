package dto

import "github.com/shopspring/decimal"

// ─── Requests ────────────────────────────────────────────────────────────────

// SaleItemRequest is one proposed cart line. PriceAtSale, when supplied, is a
// point-of-sale price override captured instead of the product's list price.
type SaleItemRequest struct {
	ProductID   string           `json:"productId"   validate:"required,uuid"`
	Quantity    int              `json:"quantity"    validate:"required,min=1"`
	PriceAtSale *decimal.Decimal `json:"priceAtSale" validate:"omitempty,gt=0"`
}

// ClientInfoRequest is the optional denormalized client sub-record.
type ClientInfoRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Email *string `json:"email" validate:"omitempty,email"`
}

// CreateSaleRequest is the body of POST /v1/sales.
// For type=product the items list drives stock decrements; for type=free no
// stock is touched and total must be a positive number.
type CreateSaleRequest struct {
	Type          string             `json:"type"          validate:"required,oneof=product free"`
	Items         []SaleItemRequest  `json:"items"         validate:"omitempty,dive"`
	Subtotal      decimal.Decimal    `json:"subtotal"      validate:"min=0"`
	Total         decimal.Decimal    `json:"total"         validate:"min=0"`
	Discount      decimal.Decimal    `json:"discount"      validate:"min=0"`
	DiscountType  string             `json:"discountType"  validate:"omitempty,oneof=amount percent"`
	PaymentMethod string             `json:"paymentMethod" validate:"required,oneof=cash card transfer check other"`
	Status        string             `json:"status"        validate:"omitempty,oneof=paid debt"`
	PaidAmount    decimal.Decimal    `json:"paidAmount"    validate:"min=0"`
	DebtAmount    decimal.Decimal    `json:"debtAmount"    validate:"min=0"`
	Client        *ClientInfoRequest `json:"client"`
	Concept       *string            `json:"concept"`
}

// ApplyPaymentRequest is the body of POST /v1/sales/{id}/payments (abono).
type ApplyPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Method string          `json:"method" validate:"omitempty,oneof=cash card transfer check other"`
}

// SaleFilter is bound from the query string of GET /v1/sales.
type SaleFilter struct {
	From   string `form:"from"`   // YYYY-MM-DD
	To     string `form:"to"`     // YYYY-MM-DD
	Status string `form:"status"` // paid | debt | all
	Type   string `form:"type"`   // product | free | all
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Responses ───────────────────────────────────────────────────────────────

type SaleItemResponse struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

type ClientInfoResponse struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Email *string `json:"email,omitempty"`
}

type SaleResponse struct {
	ID            string              `json:"id"`
	Number        int                 `json:"number"`
	Type          string              `json:"type"`
	Status        string              `json:"status"`
	Items         []SaleItemResponse  `json:"items"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	Discount      decimal.Decimal     `json:"discount"`
	DiscountType  string              `json:"discountType"`
	Total         decimal.Decimal     `json:"total"`
	PaymentMethod string              `json:"paymentMethod"`
	PaidAmount    decimal.Decimal     `json:"paidAmount"`
	DebtAmount    decimal.Decimal     `json:"debtAmount"`
	Client        *ClientInfoResponse `json:"client,omitempty"`
	Concept       *string             `json:"concept,omitempty"`
	CreatedAt     string              `json:"createdAt"`
}

type SaleEnvelope struct {
	Success bool         `json:"success"`
	Sale    SaleResponse `json:"sale"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
