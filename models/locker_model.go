package models

import (
	"time"

	"github.com/google/uuid"
)

type Locker struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	LibraryID uuid.UUID `gorm:"type:uuid;not null;index" json:"library_id"`
	BranchID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_lockers_branch_number" json:"branch_id"`
	Number    int       `gorm:"not null;uniqueIndex:idx_lockers_branch_number" json:"number"`

	Branch Branch `gorm:"foreignkey:BranchID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
