package jobs

import (
	"log"
	"time"

	"github.com/studyspacehq/studyspace/database"
	"github.com/studyspacehq/studyspace/models"
)

// ExpireSubscriptions rolls active subscriptions past their end date to
// expired, which frees their seats and lockers for new bookings.
func ExpireSubscriptions() {
	log.Println("Running job: ExpireSubscriptions...")

	result := database.DB.Model(&models.Subscription{}).
		Where("status = ? AND end_date < ?", models.SubscriptionActive, time.Now()).
		Update("status", models.SubscriptionExpired)

	if result.Error != nil {
		log.Printf("Error expiring subscriptions: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("Marked %d subscription(s) as expired.", result.RowsAffected)
	}
}
