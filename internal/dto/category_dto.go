package dto

import "github.com/google/uuid"

type CreateCategoryRequest struct {
	Name      string  `json:"name"    validate:"required,min=1,lowercase"`
	Display   string  `json:"display" validate:"required,min=1"`
	Color     *string `json:"color"   validate:"omitempty,hexcolor"`
	Icon      *string `json:"icon"`
	SortOrder int     `json:"sortOrder" validate:"min=0"`
}

type UpdateCategoryRequest struct {
	Name      *string `json:"name"    validate:"omitempty,min=1,lowercase"`
	Display   *string `json:"display" validate:"omitempty,min=1"`
	Color     *string `json:"color"   validate:"omitempty,hexcolor"`
	Icon      *string `json:"icon"`
	SortOrder *int    `json:"sortOrder" validate:"omitempty,min=0"`
	Active    *bool   `json:"active"`
}

type CategoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Display   string    `json:"display"`
	Color     *string   `json:"color,omitempty"`
	Icon      *string   `json:"icon,omitempty"`
	SortOrder int       `json:"sortOrder"`
	Active    bool      `json:"active"`
}
