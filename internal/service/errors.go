package service

import "errors"

// Sentinel errors returned by the service layer. Handlers map these onto HTTP
// status codes; anything not listed here surfaces as a generic 500.
var (
	ErrProductNotFound    = errors.New("product not found")
	ErrProductInactive    = errors.New("product is inactive and cannot be sold")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrTotalMismatch      = errors.New("declared total does not match computed total")
	ErrEmptySale          = errors.New("a product sale requires at least one item")
	ErrInvalidAmount      = errors.New("amount must be a positive number")
	ErrInvalidPayment     = errors.New("invalid payment method")
	ErrDebtRequiresClient = errors.New("a debt sale requires a client name")

	ErrSaleNotFound       = errors.New("sale not found")
	ErrSaleAlreadyPaid    = errors.New("sale is already paid")
	ErrPaymentExceedsDebt = errors.New("payment exceeds outstanding debt")

	ErrExpenseNotFound   = errors.New("expense not found")
	ErrExpenseNotPending = errors.New("expense is not pending")

	ErrCategoryNotFound = errors.New("category not found")
	ErrDuplicateEntry   = errors.New("an entry with that name already exists")
	ErrNotFound         = errors.New("record not found")
)
