package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/studyspacehq/studyspace/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PendingHoldWindow bounds how long an unpaid pending booking keeps a seat or
// locker off the market. Pending subscriptions older than this no longer
// count as occupying; the stale-booking sweep cancels them outright.
const PendingHoldWindow = 30 * time.Minute

// occupancy: an active subscription, or a pending one still inside the hold
// window, whose end date has not passed. Cancelled and expired never occupy.
func occupiedCount(db *gorm.DB, column string, resourceID uuid.UUID, now time.Time) (int64, error) {
	var count int64
	err := db.Model(&models.Subscription{}).
		Where(column+" = ? AND end_date >= ?", resourceID, now).
		Where("(status = ? OR (status = ? AND created_at > ?))",
			models.SubscriptionActive, models.SubscriptionPending, now.Add(-PendingHoldWindow)).
		Count(&count).Error
	return count, err
}

func IsSeatOccupied(db *gorm.DB, seatID uuid.UUID, now time.Time) (bool, error) {
	count, err := occupiedCount(db, "seat_id", seatID, now)
	return count > 0, err
}

func IsLockerOccupied(db *gorm.DB, lockerID uuid.UUID, now time.Time) (bool, error) {
	count, err := occupiedCount(db, "locker_id", lockerID, now)
	return count > 0, err
}

// ReserveSeat must run inside the same transaction that creates the
// subscription row. The FOR UPDATE lock on the seat row serializes concurrent
// bookings of the same seat, so the occupancy re-check and the subsequent
// insert form one conditional write: exactly one contender wins, the rest see
// ErrSeatTaken.
func ReserveSeat(tx *gorm.DB, seatID uuid.UUID, now time.Time) error {
	var seat models.Seat
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&seat, "id = ?", seatID).Error; err != nil {
		return err
	}
	occupied, err := IsSeatOccupied(tx, seatID, now)
	if err != nil {
		return err
	}
	if occupied {
		return ErrSeatTaken
	}
	return nil
}

func ReserveLocker(tx *gorm.DB, lockerID uuid.UUID, now time.Time) error {
	var locker models.Locker
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&locker, "id = ?", lockerID).Error; err != nil {
		return err
	}
	occupied, err := IsLockerOccupied(tx, lockerID, now)
	if err != nil {
		return err
	}
	if occupied {
		return ErrLockerTaken
	}
	return nil
}

type ResourceAvailability struct {
	ResourceType string    `json:"resource_type"`
	ResourceID   uuid.UUID `json:"resource_id"`
	Number       int       `json:"number"`
	Occupied     bool      `json:"occupied"`
}

// BranchAvailability returns the derived occupancy map for every seat and
// locker in a branch. Selection remains advisory-until-confirmed: the
// reservation transaction is the only authority.
func BranchAvailability(db *gorm.DB, branchID uuid.UUID, now time.Time) ([]ResourceAvailability, error) {
	var seats []models.Seat
	if err := db.Where("branch_id = ?", branchID).Order("number").Find(&seats).Error; err != nil {
		return nil, err
	}
	var lockers []models.Locker
	if err := db.Where("branch_id = ?", branchID).Order("number").Find(&lockers).Error; err != nil {
		return nil, err
	}

	occupiedSeats, err := occupiedResourceSet(db, "seat_id", branchID, now)
	if err != nil {
		return nil, err
	}
	occupiedLockers, err := occupiedResourceSet(db, "locker_id", branchID, now)
	if err != nil {
		return nil, err
	}

	out := make([]ResourceAvailability, 0, len(seats)+len(lockers))
	for _, s := range seats {
		out = append(out, ResourceAvailability{
			ResourceType: "seat", ResourceID: s.ID, Number: s.Number, Occupied: occupiedSeats[s.ID],
		})
	}
	for _, l := range lockers {
		out = append(out, ResourceAvailability{
			ResourceType: "locker", ResourceID: l.ID, Number: l.Number, Occupied: occupiedLockers[l.ID],
		})
	}
	return out, nil
}

func occupiedResourceSet(db *gorm.DB, column string, branchID uuid.UUID, now time.Time) (map[uuid.UUID]bool, error) {
	var ids []uuid.UUID
	err := db.Model(&models.Subscription{}).
		Where("branch_id = ? AND "+column+" IS NOT NULL AND end_date >= ?", branchID, now).
		Where("(status = ? OR (status = ? AND created_at > ?))",
			models.SubscriptionActive, models.SubscriptionPending, now.Add(-PendingHoldWindow)).
		Pluck(column, &ids).Error
	if err != nil {
		return nil, err
	}
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
