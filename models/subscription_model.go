package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	SubscriptionPending   = "pending"
	SubscriptionActive    = "active"
	SubscriptionExpired   = "expired"
	SubscriptionCancelled = "cancelled"
)

type Subscription struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	LibraryID uuid.UUID  `gorm:"type:uuid;not null;index" json:"library_id"`
	BranchID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"branch_id"`
	StudentID uuid.UUID  `gorm:"type:uuid;not null;index" json:"student_id"`
	PlanID    uuid.UUID  `gorm:"type:uuid;not null" json:"plan_id"`
	SeatID    *uuid.UUID `gorm:"type:uuid;index" json:"seat_id,omitempty"`
	LockerID  *uuid.UUID `gorm:"type:uuid;index" json:"locker_id,omitempty"`

	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`
	Status    string    `gorm:"size:20;not null;default:'pending'" json:"status"`

	// Add-on subscriptions attach a resource to an existing subscription and
	// mirror its dates; they never count toward renewal duration math.
	IsAddOn              bool       `gorm:"default:false" json:"is_add_on"`
	ParentSubscriptionID *uuid.UUID `gorm:"type:uuid" json:"parent_subscription_id,omitempty"`

	Student User    `gorm:"foreignkey:StudentID" json:"student,omitempty"`
	Plan    Plan    `gorm:"foreignkey:PlanID" json:"plan,omitempty"`
	Seat    *Seat   `gorm:"foreignkey:SeatID" json:"seat,omitempty"`
	Locker  *Locker `gorm:"foreignkey:LockerID" json:"locker,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
