package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	DurationUnitDays   = "days"
	DurationUnitWeeks  = "weeks"
	DurationUnitMonths = "months"
)

const (
	PlanCategoryFixed    = "fixed"    // shift-based
	PlanCategoryFlexible = "flexible" // hours per day
)

type Plan struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	LibraryID    uuid.UUID `gorm:"type:uuid;not null;index" json:"library_id"`
	BranchID     uuid.UUID `gorm:"type:uuid;not null;index" json:"branch_id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Price        float64   `gorm:"type:numeric(10,2);not null" json:"price"`
	Duration     int       `gorm:"not null" json:"duration"`
	DurationUnit string    `gorm:"size:10;not null;default:'months'" json:"duration_unit"`
	Category     string    `gorm:"size:20;not null;default:'fixed'" json:"category"`

	ShiftStart  *string `gorm:"size:5" json:"shift_start,omitempty"` // "06:00", fixed plans
	ShiftEnd    *string `gorm:"size:5" json:"shift_end,omitempty"`
	HoursPerDay *int    `json:"hours_per_day,omitempty"` // flexible plans

	BillingCycle   string `gorm:"size:20;default:'upfront'" json:"billing_cycle"`
	IncludesSeat   bool   `gorm:"default:true" json:"includes_seat"`
	IncludesLocker bool   `gorm:"default:false" json:"includes_locker"`
	IsActive       bool   `gorm:"default:true" json:"is_active"`

	Branch Branch `gorm:"foreignkey:BranchID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
