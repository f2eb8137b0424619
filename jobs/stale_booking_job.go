package jobs

import (
	"log"
	"time"

	"github.com/studyspacehq/studyspace/database"
	"github.com/studyspacehq/studyspace/models"
	"github.com/studyspacehq/studyspace/services"
	ws "github.com/studyspacehq/studyspace/websocket"
	"gorm.io/gorm"
)

// ReleaseStalePendingBookings cancels pending subscriptions whose payment
// never settled within the hold window, and pushes the freed resources to
// live availability watchers.
func ReleaseStalePendingBookings() {
	log.Println("Running job: ReleaseStalePendingBookings...")

	cutoff := time.Now().Add(-services.PendingHoldWindow)

	var stale []models.Subscription
	err := database.DB.
		Where("status = ? AND created_at < ?", models.SubscriptionPending, cutoff).
		Find(&stale).Error
	if err != nil {
		log.Printf("Error finding stale pending bookings: %v", err)
		return
	}
	if len(stale) == 0 {
		return
	}

	for _, sub := range stale {
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.Subscription{}).
				Where("id = ? AND status = ?", sub.ID, models.SubscriptionPending).
				Update("status", models.SubscriptionCancelled).Error; err != nil {
				return err
			}
			// The payments behind a released hold fail rather than linger.
			return tx.Model(&models.Payment{}).
				Where("subscription_id = ? AND status IN ?", sub.ID,
					[]string{models.PaymentPending, models.PaymentPendingVerification}).
				Update("status", models.PaymentFailed).Error
		})
		if err != nil {
			log.Printf("Error releasing stale booking %s: %v", sub.ID, err)
			continue
		}

		if sub.SeatID != nil {
			ws.NotifyResourceChange(sub.BranchID, "seat", *sub.SeatID, false)
		}
		if sub.LockerID != nil {
			ws.NotifyResourceChange(sub.BranchID, "locker", *sub.LockerID, false)
		}
	}

	log.Printf("Released %d stale pending booking(s).", len(stale))
}
