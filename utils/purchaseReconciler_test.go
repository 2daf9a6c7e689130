package utils

import (
	"encoding/json"
	"fmt"
	"lms/config"
	"lms/database"
	"lms/models"
	"lms/payment"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	config.LoadConfig()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}
	return db
}

func seedPurchase(t *testing.T, db *gorm.DB, paymentID, status string) models.CoursePurchase {
	t.Helper()

	user := models.User{Name: "Buyer", Email: paymentID + "@example.com", Role: models.RoleStudent}
	require.NoError(t, db.Create(&user).Error)
	course := models.Course{Title: "Course " + paymentID, Category: "test", Price: 100, IsPublished: true, InstructorID: user.ID}
	require.NoError(t, db.Create(&course).Error)

	purchase := models.CoursePurchase{UserID: user.ID, CourseID: course.ID, Amount: course.Price,
		Status: status, PaymentID: paymentID, OrderRef: "ref-" + paymentID}
	require.NoError(t, db.Create(&purchase).Error)
	return purchase
}

func checkoutCompletedPayload(t *testing.T, eventID, sessionID string, amountTotal int64) []byte {
	t.Helper()

	payload, err := json.Marshal(map[string]interface{}{
		"id":   eventID,
		"type": payment.EventCheckoutCompleted,
		"data": map[string]interface{}{
			"object": map[string]interface{}{"id": sessionID, "amount_total": amountTotal},
		},
	})
	require.NoError(t, err)
	return payload
}

func TestApplyCheckoutCompletedGrantsOnce(t *testing.T) {
	db := setupTestDB(t)
	purchase := seedPurchase(t, db, "cs_apply", models.PurchaseStatusPending)

	payload := checkoutCompletedPayload(t, "evt_apply", "cs_apply", 12300)

	require.NoError(t, ApplyCheckoutCompleted(db, payload))
	// Re-applying the same event must not error or double-grant
	require.NoError(t, ApplyCheckoutCompleted(db, payload))

	var got models.CoursePurchase
	require.NoError(t, db.First(&got, purchase.ID).Error)
	assert.Equal(t, models.PurchaseStatusCompleted, got.Status)
	assert.Equal(t, float64(123), got.Amount)

	var enrollments int64
	db.Model(&models.Enrollment{}).Where("user_id = ? AND course_id = ?", purchase.UserID, purchase.CourseID).Count(&enrollments)
	assert.Equal(t, int64(1), enrollments)
}

func TestApplyCheckoutCompletedUnknownSession(t *testing.T) {
	db := setupTestDB(t)

	payload := checkoutCompletedPayload(t, "evt_unknown", "cs_unknown", 100)
	err := ApplyCheckoutCompleted(db, payload)
	assert.ErrorIs(t, err, ErrPurchaseNotFound)
}

func TestApplyCheckoutCompletedKeepsAmountWhenUnreported(t *testing.T) {
	db := setupTestDB(t)
	purchase := seedPurchase(t, db, "cs_noamount", models.PurchaseStatusPending)

	payload := checkoutCompletedPayload(t, "evt_noamount", "cs_noamount", 0)
	require.NoError(t, ApplyCheckoutCompleted(db, payload))

	var got models.CoursePurchase
	require.NoError(t, db.First(&got, purchase.ID).Error)
	assert.Equal(t, models.PurchaseStatusCompleted, got.Status)
	assert.Equal(t, float64(100), got.Amount)
}

func TestExpireStalePendingPurchases(t *testing.T) {
	db := setupTestDB(t)

	stale := seedPurchase(t, db, "cs_stale", models.PurchaseStatusPending)
	fresh := seedPurchase(t, db, "cs_fresh", models.PurchaseStatusPending)
	done := seedPurchase(t, db, "cs_done", models.PurchaseStatusCompleted)

	// Age the stale purchase past the expiry cutoff
	require.NoError(t, db.Model(&models.CoursePurchase{}).Where("id = ?", stale.ID).
		Update("created_at", time.Now().AddDate(0, 0, -3)).Error)

	ExpireStalePendingPurchases()

	// Fresh destination per lookup: reusing one struct would fold the previous
	// primary key into the next query's conditions
	var gotStale models.CoursePurchase
	require.NoError(t, db.First(&gotStale, stale.ID).Error)
	assert.Equal(t, models.PurchaseStatusFailed, gotStale.Status)

	var gotFresh models.CoursePurchase
	require.NoError(t, db.First(&gotFresh, fresh.ID).Error)
	assert.Equal(t, models.PurchaseStatusPending, gotFresh.Status)

	var gotDone models.CoursePurchase
	require.NoError(t, db.First(&gotDone, done.ID).Error)
	assert.Equal(t, models.PurchaseStatusCompleted, gotDone.Status)
}
