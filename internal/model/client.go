package model

import (
	"time"

	"github.com/google/uuid"
)

// Client is a customer contact record. Sales copy the relevant fields into the
// sale document at creation time rather than joining against this table.
type Client struct {
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
