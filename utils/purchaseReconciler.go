package utils

import (
	"errors"
	"lms/config"
	"lms/models"
	"lms/payment"
	"log"
	"time"

	"gorm.io/gorm"
)

// ErrPurchaseNotFound means the webhook arrived before the checkout request
// finished persisting its purchase row. The event stays in the inbox and is
// replayed later by the scheduler.
var ErrPurchaseNotFound = errors.New("purchase record not found for payment id")

// ApplyCheckoutCompleted transitions the purchase matching the event's session
// id from PENDING to COMPLETED and grants enrollment. Safe to call any number
// of times for the same event: the conditional status update and the unique
// (user, course) enrollment index make re-delivery a no-op.
func ApplyCheckoutCompleted(db *gorm.DB, rawPayload []byte) error {
	event, err := payment.ParseWebhookEvent(rawPayload)
	if err != nil {
		return err
	}
	session := event.Data.Object

	var purchase models.CoursePurchase
	if err := db.Where("payment_id = ? AND is_deleted = false", session.ID).First(&purchase).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPurchaseNotFound
		}
		return err
	}

	updates := map[string]interface{}{"status": models.PurchaseStatusCompleted}
	if session.AmountTotal > 0 {
		// Prefer the gateway-reported captured amount
		updates["amount"] = float64(session.AmountTotal) / 100
	}

	// Conditional update: only one of any number of concurrent deliveries can
	// move the row out of PENDING
	res := db.Model(&models.CoursePurchase{}).
		Where("id = ? AND status = ?", purchase.ID, models.PurchaseStatusPending).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Already completed by an earlier delivery; skip re-granting
		log.Printf("[PURCHASE] Duplicate completion for payment %s, skipping grant", session.ID)
		return nil
	}

	enrollment := models.Enrollment{
		UserID:   purchase.UserID,
		CourseID: purchase.CourseID,
		Status:   "ENROLLED",
	}
	if err := db.Where("user_id = ? AND course_id = ?", purchase.UserID, purchase.CourseID).
		FirstOrCreate(&enrollment).Error; err != nil {
		return err
	}

	notifyEnrollment(db, purchase.UserID, purchase.CourseID)

	return nil
}

// notifyEnrollment sends the confirmation email best-effort
func notifyEnrollment(db *gorm.DB, userID, courseID uint) {
	if config.AppConfig == nil || config.AppConfig.EmailSender == "defaultSecret" {
		log.Println("[PURCHASE] Email sender not configured, skipping enrollment email")
		return
	}
	var user models.User
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		log.Printf("[PURCHASE] Error fetching user %d for enrollment email: %v", userID, err)
		return
	}
	var course models.Course
	if err := db.Where("id = ?", courseID).First(&course).Error; err != nil {
		log.Printf("[PURCHASE] Error fetching course %d for enrollment email: %v", courseID, err)
		return
	}
	if err := SendEnrollmentConfirmation(user.Email, user.Name, course.Title); err != nil {
		log.Printf("[PURCHASE] Failed to send enrollment email to %s: %v", user.Email, err)
	}
}

// MarkEventProcessed stamps an inbox event as handled
func MarkEventProcessed(db *gorm.DB, event *models.PaymentWebhookEvent) {
	nowTime := time.Now()
	event.ProcessedAt = &nowTime
	event.ProcessingError = ""
	if err := db.Save(event).Error; err != nil {
		log.Printf("[PURCHASE] Failed to mark event %s processed: %v", event.ProviderEventID, err)
	}
}
