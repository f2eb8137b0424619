package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	BillTypeOneTime = "ONE_TIME"
	BillTypeMonthly = "MONTHLY"
)

type AdditionalFee struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	LibraryID  uuid.UUID `gorm:"type:uuid;not null;index" json:"library_id"`
	BranchID   uuid.UUID `gorm:"type:uuid;not null;index" json:"branch_id"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	Amount     float64   `gorm:"type:numeric(10,2);not null" json:"amount"`
	BillType   string    `gorm:"size:20;not null;default:'ONE_TIME'" json:"bill_type"`
	IsOptional bool      `gorm:"default:true" json:"is_optional"`
	// GrantsLocker marks fees (e.g. "Locker Fee") that unlock locker selection
	// for plans that do not include one.
	GrantsLocker bool `gorm:"default:false" json:"grants_locker"`
	IsActive     bool `gorm:"default:true" json:"is_active"`

	Branch Branch `gorm:"foreignkey:BranchID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
