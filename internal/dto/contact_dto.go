package dto

// Shared DTOs for client and supplier contact records — the two resources are
// structurally identical.

type CreateContactRequest struct {
	Name    string  `json:"name" validate:"required,min=1"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Address *string `json:"address"`
	Notes   *string `json:"notes"`
}

type UpdateContactRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Address *string `json:"address"`
	Notes   *string `json:"notes"`
	Active  *bool   `json:"active"`
}

type ContactFilter struct {
	Name   string `form:"name"`
	Active string `form:"active"` // "false" | "all" | default: active only
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type ContactResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Phone     *string `json:"phone,omitempty"`
	Email     *string `json:"email,omitempty"`
	Address   *string `json:"address,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	Active    bool    `json:"active"`
	CreatedAt string  `json:"createdAt"`
}

type ContactListResponse struct {
	Data  []ContactResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
