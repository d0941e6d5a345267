package model

import (
	"time"

	"github.com/google/uuid"
)

// Supplier is a vendor contact record, structurally parallel to Client.
type Supplier struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null;index"`
	Phone     *string
	Email     *string
	Address   *string
	Notes     *string
	Active    bool      `gorm:"not null;default:true"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
