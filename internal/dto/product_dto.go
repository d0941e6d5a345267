package dto

import "github.com/shopspring/decimal"

type CreateProductRequest struct {
	Name        string          `json:"name"     validate:"required,min=1"`
	Description *string         `json:"description"`
	Category    string          `json:"category" validate:"required"`
	Price       decimal.Decimal `json:"price"    validate:"required,gt=0"`
	Cost        decimal.Decimal `json:"cost"     validate:"min=0"`
	Stock       int             `json:"stock"    validate:"min=0"`
	MinStock    int             `json:"minStock" validate:"min=0"`
	Unit        string          `json:"unit"`
	Barcode     *string         `json:"barcode"`
	ImageURL    *string         `json:"imageUrl" validate:"omitempty,url"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name"     validate:"omitempty,min=1"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	Price       *decimal.Decimal `json:"price"    validate:"omitempty,gt=0"`
	Cost        *decimal.Decimal `json:"cost"     validate:"omitempty,min=0"`
	MinStock    *int             `json:"minStock" validate:"omitempty,min=0"`
	Unit        *string          `json:"unit"`
	Barcode     *string          `json:"barcode"`
	ImageURL    *string          `json:"imageUrl" validate:"omitempty,url"`
}

// AdjustStockRequest applies a signed manual stock correction.
type AdjustStockRequest struct {
	Delta  int    `json:"delta"  validate:"required"`
	Reason string `json:"reason" validate:"required,min=3"`
}

// ProductFilter is bound from the query string of GET /v1/products.
type ProductFilter struct {
	Name     string `form:"name"`
	Category string `form:"category"`
	Barcode  string `form:"barcode"`
	Active   string `form:"active"`    // "false" | "all" | default: active only
	LowStock bool   `form:"low_stock"` // stock <= min_stock
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	Stock       int             `json:"stock"`
	MinStock    int             `json:"minStock"`
	Unit        string          `json:"unit"`
	Barcode     *string         `json:"barcode,omitempty"`
	ImageURL    *string         `json:"imageUrl,omitempty"`
	Active      bool            `json:"active"`
	CreatedAt   string          `json:"createdAt"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// CatalogItem is the public-catalog projection of a product. It exposes no
// cost, stock counts, or owner details — only what a storefront needs.
type CatalogItem struct {
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Unit      string          `json:"unit"`
	ImageURL  *string         `json:"imageUrl,omitempty"`
	Available bool            `json:"available"`
}
