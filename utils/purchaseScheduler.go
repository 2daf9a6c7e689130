package utils

import (
	"errors"
	"lms/database"
	"lms/models"
	"lms/payment"
	"log"
	"time"

	"github.com/jinzhu/now"
	"github.com/robfig/cron/v3"
)

// InitializePurchaseScheduler sets up the purchase reconciliation jobs
func InitializePurchaseScheduler() {
	log.Println("[PURCHASE-SCHEDULER] Initializing purchase scheduler...")

	c := cron.New()

	// Replay webhook events that arrived before their purchase row existed
	c.AddFunc("*/5 * * * *", func() {
		ReplayUnprocessedWebhookEvents()
	})

	// Expire stale pending purchases once a day
	c.AddFunc("0 3 * * *", func() {
		ExpireStalePendingPurchases()
	})

	c.Start()
	log.Println("[PURCHASE-SCHEDULER] Purchase scheduler started")
}

// ReplayUnprocessedWebhookEvents retries inbox events whose purchase row was
// missing at delivery time (the webhook raced the checkout request)
func ReplayUnprocessedWebhookEvents() {
	db := database.Database.Db

	var events []models.PaymentWebhookEvent
	if err := db.
		Where("processed_at IS NULL AND event_type = ?", payment.EventCheckoutCompleted).
		Order("created_at asc").
		Find(&events).Error; err != nil {
		log.Printf("[PURCHASE-SCHEDULER] Error fetching unprocessed events: %v", err)
		return
	}

	if len(events) == 0 {
		return
	}
	log.Printf("[PURCHASE-SCHEDULER] Replaying %d unprocessed webhook events", len(events))

	for i := range events {
		event := &events[i]
		err := ApplyCheckoutCompleted(db, event.Payload)
		if err != nil {
			if errors.Is(err, ErrPurchaseNotFound) {
				// Purchase row still missing, keep the event for the next run
				continue
			}
			event.ProcessingError = err.Error()
			if saveErr := db.Save(event).Error; saveErr != nil {
				log.Printf("[PURCHASE-SCHEDULER] Error saving event %s: %v", event.ProviderEventID, saveErr)
			}
			log.Printf("[PURCHASE-SCHEDULER] Error replaying event %s: %v", event.ProviderEventID, err)
			continue
		}
		MarkEventProcessed(db, event)
	}
}

// ExpireStalePendingPurchases marks pending purchases older than a day as
// failed so abandoned checkouts do not linger forever
func ExpireStalePendingPurchases() {
	db := database.Database.Db
	cutoff := now.BeginningOfDay().AddDate(0, 0, -1)

	res := db.Model(&models.CoursePurchase{}).
		Where("status = ? AND created_at < ? AND is_deleted = false", models.PurchaseStatusPending, cutoff).
		Update("status", models.PurchaseStatusFailed)
	if res.Error != nil {
		log.Printf("[PURCHASE-SCHEDULER] Error expiring stale pending purchases: %v", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("[PURCHASE-SCHEDULER] Expired %d stale pending purchases (older than %s)",
			res.RowsAffected, cutoff.Format(time.RFC3339))
	}
}
