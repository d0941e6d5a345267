package dto

import "github.com/shopspring/decimal"

type VendorInfoRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type CreateExpenseRequest struct {
	Category      string             `json:"category"      validate:"required,oneof=inventory rent utilities salaries supplies transport marketing other"`
	Amount        decimal.Decimal    `json:"amount"        validate:"required,gt=0"`
	PaymentMethod string             `json:"paymentMethod" validate:"required,oneof=cash card transfer check other"`
	Vendor        *VendorInfoRequest `json:"vendor"`
	Concept       *string            `json:"concept"`
}

// PayExpenseRequest settles a pending expense, recording the method used.
type PayExpenseRequest struct {
	Method string `json:"method" validate:"required,oneof=cash card transfer check other"`
}

type ExpenseFilter struct {
	From     string `form:"from"`
	To       string `form:"to"`
	Status   string `form:"status"` // pending | paid | cancelled | all
	Category string `form:"category"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type VendorInfoResponse struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Email *string `json:"email,omitempty"`
}

type ExpenseResponse struct {
	ID            string              `json:"id"`
	Category      string              `json:"category"`
	Amount        decimal.Decimal     `json:"amount"`
	PaymentMethod string              `json:"paymentMethod"`
	Status        string              `json:"status"`
	Vendor        *VendorInfoResponse `json:"vendor,omitempty"`
	Concept       *string             `json:"concept,omitempty"`
	PaidAt        *string             `json:"paidAt,omitempty"`
	CreatedAt     string              `json:"createdAt"`
}

type ExpenseListResponse struct {
	Data  []ExpenseResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
