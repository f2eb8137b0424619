package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PromoTypePercentage = "percentage"
	PromoTypeFlat       = "flat"
	PromoTypeFreeTrial  = "free_trial"
)

// Promotion usage counts are derived from completed payments referencing the
// promotion, never stored on the row.
type Promotion struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	LibraryID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_promotions_library_code" json:"library_id"`
	Code          string    `gorm:"size:50;not null;uniqueIndex:idx_promotions_library_code" json:"code"`
	Type          string    `gorm:"size:20;not null" json:"type"`
	Value         float64   `gorm:"type:numeric(10,2);default:0" json:"value"`
	MaxDiscount   *float64  `gorm:"type:numeric(10,2)" json:"max_discount,omitempty"`
	MinOrderValue float64   `gorm:"type:numeric(10,2);default:0" json:"min_order_value"`
	StartDate     time.Time `gorm:"not null" json:"start_date"`
	EndDate       time.Time `gorm:"not null" json:"end_date"`
	UsageLimit    *int      `json:"usage_limit,omitempty"`
	PerUserLimit  *int      `json:"per_user_limit,omitempty"`

	// nil scope means library-wide.
	BranchID *uuid.UUID `gorm:"type:uuid" json:"branch_id,omitempty"`
	PlanID   *uuid.UUID `gorm:"type:uuid" json:"plan_id,omitempty"`

	// free_trial promotions grant a trial period instead of a value.
	TrialDuration     *int    `json:"trial_duration,omitempty"`
	TrialDurationUnit *string `gorm:"size:10" json:"trial_duration_unit,omitempty"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
