package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// OperatingHours is either always-open or a daily open/close window.
// Validated once at the boundary instead of re-parsed at every read site.
type OperatingHours struct {
	Always24x7 bool   `json:"always_24x7"`
	OpensAt    string `json:"opens_at,omitempty"`  // "06:00"
	ClosesAt   string `json:"closes_at,omitempty"` // "22:00"
}

func (h OperatingHours) Validate() error {
	if h.Always24x7 {
		return nil
	}
	if h.OpensAt == "" || h.ClosesAt == "" {
		return errors.New("operating hours require opens_at and closes_at unless always_24x7")
	}
	if _, err := time.Parse("15:04", h.OpensAt); err != nil {
		return errors.New("opens_at must be in HH:MM format")
	}
	if _, err := time.Parse("15:04", h.ClosesAt); err != nil {
		return errors.New("closes_at must be in HH:MM format")
	}
	return nil
}

type Branch struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	LibraryID   uuid.UUID `gorm:"type:uuid;not null;index" json:"library_id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Address     string    `gorm:"type:text" json:"address"`
	City        string    `gorm:"size:100" json:"city"`
	SeatCount   int       `gorm:"not null;default:0" json:"seat_count"`
	LockerCount int       `gorm:"not null;default:0" json:"locker_count"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`

	OperatingHours datatypes.JSONType[OperatingHours] `json:"operating_hours"`
	Amenities      datatypes.JSONType[[]string]       `json:"amenities"`

	Library Library `gorm:"foreignkey:LibraryID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
