package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	LibraryID uuid.UUID  `gorm:"type:uuid;not null;index" json:"library_id"`
	BranchID  *uuid.UUID `gorm:"type:uuid" json:"branch_id,omitempty"`
	FullName  string     `gorm:"size:255;not null" json:"full_name"`
	Email     string     `gorm:"size:255;not null;uniqueIndex:idx_users_library_email" json:"email"`
	Phone     *string    `gorm:"size:20" json:"phone,omitempty"`
	Password  string     `gorm:"not null" json:"-"`
	Role      string     `gorm:"size:20;not null;default:'student'" json:"role"`
	IsActive  bool       `gorm:"default:true" json:"is_active"`

	Library Library `gorm:"foreignkey:LibraryID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
