package models

import (
	"time"

	"github.com/google/uuid"
)

// Seat occupancy is never stored on the row; it is derived from live
// subscriptions referencing the seat.
type Seat struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	LibraryID uuid.UUID `gorm:"type:uuid;not null;index" json:"library_id"`
	BranchID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_seats_branch_number" json:"branch_id"`
	Number    int       `gorm:"not null;uniqueIndex:idx_seats_branch_number" json:"number"`
	Section   *string   `gorm:"size:50" json:"section,omitempty"`
	Row       *int      `json:"row,omitempty"`
	Column    *int      `gorm:"column:col" json:"column,omitempty"`

	Branch Branch `gorm:"foreignkey:BranchID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
