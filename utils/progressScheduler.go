package utils

import (
	"fmt"
	"log"
	"time"

	"langit/database"
	"langit/models"
	"langit/services"

	"github.com/robfig/cron/v3"
)

// logScheduler logs scheduler events with timestamp
func logScheduler(message string) {
	log.Printf("[PROGRESS-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// StartProgressScheduler runs a nightly pass over every opened tenant pool
// and re-syncs enrollment progress rates against current chapter counts.
// Stored rates can drift when chapters are added to or removed from a course
// after users made progress.
func StartProgressScheduler() *cron.Cron {
	c := cron.New()

	_, err := c.AddFunc("0 3 * * *", func() {
		logScheduler("Starting nightly progress reconciliation")

		for tenantID, db := range database.TenantPools() {
			var userIDs []uint
			if err := db.Model(&models.User{}).
				Joins("JOIN user_courses ON user_courses.user_id = users.id").
				Distinct().
				Pluck("users.id", &userIDs).Error; err != nil {
				logScheduler("Failed to list enrolled users: " + err.Error())
				continue
			}

			synced := 0
			for _, userID := range userIDs {
				rates, err := services.GetProgressRates(db, userID, nil)
				if err != nil {
					logScheduler("Failed to compute rates: " + err.Error())
					continue
				}
				if err := services.SyncUserCourseRates(db, userID, rates); err != nil {
					logScheduler("Failed to sync rates: " + err.Error())
					continue
				}
				synced++
			}

			logScheduler(fmt.Sprintf("Reconciled tenant=%d users=%d", tenantID, synced))
		}

		logScheduler("Nightly progress reconciliation finished")
	})
	if err != nil {
		log.Fatalf("Failed to register progress scheduler: %v", err)
	}

	c.Start()
	return c
}
