package model

import (
	"time"

	"github.com/google/uuid"
)

// Category is a user-defined taxonomy entry. Products reference categories by
// name string; the match is validated at the service layer against this table,
// not enforced by a schema enum.
type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null;uniqueIndex:uni_categories_owner_name"`
	Display   string    `gorm:"not null"`
	Color     *string
	Icon      *string
	SortOrder int       `gorm:"not null;default:0"`
	Active    bool      `gorm:"not null;default:true"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uni_categories_owner_name"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Category) TableName() string { return "categories" }
