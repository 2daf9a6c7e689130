package purchaseController

import (
	"errors"
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/payment"
	"lms/utils"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// CreateCheckoutSession starts a checkout for a course. A PENDING purchase row
// is written before the gateway call; the verified webhook completes it later.
func CreateCheckoutSession(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedCheckout").(*struct {
		CourseID uint `json:"courseId"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ? AND is_published = ?", reqData.CourseID, false, true).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// Already entitled, nothing to buy
	var completed models.CoursePurchase
	if err := db.Where("user_id = ? AND course_id = ? AND status = ? AND is_deleted = false",
		userID, course.ID, models.PurchaseStatusCompleted).First(&completed).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Course already purchased!", nil)
	}

	purchase := models.CoursePurchase{
		UserID:        userID,
		CourseID:      course.ID,
		Amount:        course.Price,
		Currency:      "inr",
		Status:        models.PurchaseStatusPending,
		PaymentMethod: "card",
		OrderRef:      uuid.NewString(),
	}
	if err := db.Create(&purchase).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create purchase record!", nil)
	}

	session, err := payment.CreateCheckoutSession(payment.CheckoutParams{
		OrderRef:    purchase.OrderRef,
		ProductName: course.Title,
		Amount:      course.Price,
		Currency:    purchase.Currency,
		SuccessURL:  config.AppConfig.CheckoutSuccessURL + "/" + strconv.Itoa(int(course.ID)),
		CancelURL:   config.AppConfig.CheckoutCancelURL + "/" + strconv.Itoa(int(course.ID)),
		Metadata: map[string]string{
			"courseId": strconv.Itoa(int(course.ID)),
			"userId":   strconv.Itoa(int(userID)),
		},
	})
	if err != nil {
		// Compensate the row written above so no orphan PENDING purchase lingers
		if updErr := db.Model(&purchase).Update("status", models.PurchaseStatusFailed).Error; updErr != nil {
			log.Printf("[PURCHASE] Failed to mark purchase %d as failed: %v", purchase.ID, updErr)
		}
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to create checkout session!", nil)
	}

	purchase.PaymentID = session.ID
	if err := db.Save(&purchase).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save purchase record!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Checkout session created!", fiber.Map{
		"checkoutUrl": session.URL,
	})
}

// HandlePaymentWebhook receives asynchronous payment notifications from the
// gateway. The signature is verified against the raw body before anything is
// trusted. Verified events are stored in the webhook inbox and acknowledged
// with 2xx even when the purchase row has not appeared yet, so the gateway
// does not retry-storm; the purchase scheduler replays those events.
func HandlePaymentWebhook(c *fiber.Ctx) error {
	rawBody := c.Body()
	signature := c.Get("X-Payment-Signature")

	if err := payment.VerifyWebhookSignature(rawBody, signature, config.AppConfig.PaymentWebhookSecret); err != nil {
		log.Printf("[WEBHOOK] Signature verification failed: %v", err)
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Webhook signature verification failed!", nil)
	}

	event, err := payment.ParseWebhookEvent(rawBody)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid webhook payload!", nil)
	}

	db := database.Database.Db

	// Deduplicate on the provider's event id
	var existing models.PaymentWebhookEvent
	if err := db.Where("provider_event_id = ?", event.ID).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Webhook already received!", fiber.Map{"received": true})
	}

	record := models.PaymentWebhookEvent{
		ProviderEventID: event.ID,
		EventType:       event.Type,
		Payload:         datatypes.JSON(rawBody),
	}
	if err := db.Create(&record).Error; err != nil {
		// Concurrent duplicate delivery hit the unique index first
		log.Printf("[WEBHOOK] Event %s already recorded: %v", event.ID, err)
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Webhook already received!", fiber.Map{"received": true})
	}

	if event.Type != payment.EventCheckoutCompleted {
		utils.MarkEventProcessed(db, &record)
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Webhook received!", fiber.Map{"received": true})
	}

	if err := utils.ApplyCheckoutCompleted(db, rawBody); err != nil {
		if errors.Is(err, utils.ErrPurchaseNotFound) {
			// Webhook raced the checkout request; the scheduler will replay
			log.Printf("[WEBHOOK] Purchase not found yet for event %s, deferring", event.ID)
		} else {
			log.Printf("[WEBHOOK] Error applying event %s: %v", event.ID, err)
		}
		record.ProcessingError = err.Error()
		if saveErr := db.Save(&record).Error; saveErr != nil {
			log.Printf("[WEBHOOK] Failed to save event %s: %v", event.ID, saveErr)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Webhook received!", fiber.Map{"received": true})
	}

	utils.MarkEventProcessed(db, &record)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Webhook received!", fiber.Map{"received": true})
}

// GetCoursePurchaseStatus returns a course with its lectures and whether the
// caller has a completed purchase for it
func GetCoursePurchaseStatus(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)
	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var lectures []models.Lecture
	db.Where("course_id = ? AND is_deleted = ?", courseID, false).Order("order_index asc").Find(&lectures)

	var count int64
	db.Model(&models.CoursePurchase{}).
		Where("user_id = ? AND course_id = ? AND status = ? AND is_deleted = false",
			userID, courseID, models.PurchaseStatusCompleted).
		Count(&count)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course purchase status fetched!", fiber.Map{
		"course":      course,
		"lectures":    lectures,
		"isPurchased": count > 0,
	})
}

// GetPurchasedCourses lists the course ids behind the caller's completed purchases
func GetPurchasedCourses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var courseIDs []uint
	if err := database.Database.Db.Model(&models.CoursePurchase{}).
		Where("user_id = ? AND status = ? AND is_deleted = false", userID, models.PurchaseStatusCompleted).
		Pluck("course_id", &courseIDs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch purchased courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Purchased courses fetched!", courseIDs)
}
