package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/studyspacehq/studyspace/models"
	"gorm.io/gorm"
)

// AddPlanDuration advances start by n units. Month addition is calendar-based
// with the day-of-month clamped to the target month's length, so
// Jan 31 + 1 month lands on Feb 28 (or 29), never Mar 2.
func AddPlanDuration(start time.Time, unit string, n int) time.Time {
	switch unit {
	case models.DurationUnitDays:
		return start.AddDate(0, 0, n)
	case models.DurationUnitWeeks:
		return start.AddDate(0, 0, n*7)
	case models.DurationUnitMonths:
		return addCalendarMonths(start, n)
	default:
		return start.AddDate(0, 0, n)
	}
}

func addCalendarMonths(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	firstOfTarget := time.Date(year, month+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	hour, min, sec := t.Clock()
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, hour, min, sec, t.Nanosecond(), t.Location())
}

// RenewalStartDate picks where a new subscription begins: the day after the
// student's latest active subscription ends, so renewals stack with no gap
// and no overlap double-charge, or today when nothing is active.
func RenewalStartDate(db *gorm.DB, libraryID, branchID, studentID uuid.UUID, now time.Time) (time.Time, error) {
	var latest models.Subscription
	err := db.Where("library_id = ? AND branch_id = ? AND student_id = ? AND status = ? AND is_add_on = ?",
		libraryID, branchID, studentID, models.SubscriptionActive, false).
		Order("end_date desc").
		First(&latest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return truncateToDay(now), nil
		}
		return time.Time{}, err
	}
	return StackedStartDate(latest.EndDate, now), nil
}

// StackedStartDate is the renewal stacking rule: the day after the current
// subscription ends, or today when that end has already passed.
func StackedStartDate(latestEnd, now time.Time) time.Time {
	today := truncateToDay(now)
	if latestEnd.Before(today) {
		return today
	}
	return truncateToDay(latestEnd).AddDate(0, 0, 1)
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

type SubscriptionParams struct {
	LibraryID uuid.UUID
	BranchID  uuid.UUID
	StudentID uuid.UUID
	PlanID    uuid.UUID
	SeatID    *uuid.UUID
	LockerID  *uuid.UUID
	StartDate time.Time
	EndDate   time.Time
	Status    string
	IsAddOn   bool
	ParentID  *uuid.UUID
}

func CreateSubscription(tx *gorm.DB, p SubscriptionParams) (*models.Subscription, error) {
	sub := models.Subscription{
		LibraryID:            p.LibraryID,
		BranchID:             p.BranchID,
		StudentID:            p.StudentID,
		PlanID:               p.PlanID,
		SeatID:               p.SeatID,
		LockerID:             p.LockerID,
		StartDate:            p.StartDate,
		EndDate:              p.EndDate,
		Status:               p.Status,
		IsAddOn:              p.IsAddOn,
		ParentSubscriptionID: p.ParentID,
	}
	if err := tx.Create(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// LoadAddOnParent fetches and checks the subscription a locker add-on
// attaches to. The add-on mirrors the parent's dates: it extends resource
// attachment, not duration.
func LoadAddOnParent(db *gorm.DB, libraryID, parentID, studentID, branchID uuid.UUID) (*models.Subscription, error) {
	var parent models.Subscription
	if err := db.Where("id = ? AND library_id = ?", parentID, libraryID).First(&parent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: parent subscription not found", ErrValidation)
		}
		return nil, err
	}
	if err := ValidateAddOnParent(&parent, studentID, branchID); err != nil {
		return nil, err
	}
	return &parent, nil
}

// ValidateAddOnParent enforces what a parent subscription must be: the same
// student's, at the same branch, active, and not itself an add-on.
func ValidateAddOnParent(parent *models.Subscription, studentID, branchID uuid.UUID) error {
	if parent.StudentID != studentID {
		return fmt.Errorf("%w: parent subscription belongs to a different student", ErrValidation)
	}
	if parent.BranchID != branchID {
		return fmt.Errorf("%w: parent subscription belongs to a different branch", ErrValidation)
	}
	if parent.Status != models.SubscriptionActive {
		return fmt.Errorf("%w: add-ons require an active subscription", ErrValidation)
	}
	if parent.IsAddOn {
		return fmt.Errorf("%w: cannot attach an add-on to another add-on", ErrValidation)
	}
	return nil
}
