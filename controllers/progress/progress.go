package progressController

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	"math"

	"github.com/gofiber/fiber/v2"
)

// GetCourseProgress returns the caller's progress view for a course. Reads
// never create a progress row; a missing row comes back as the empty view.
func GetCourseProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)
	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var lectures []models.Lecture
	db.Where("course_id = ? AND is_deleted = ?", courseID, false).Order("order_index asc").Find(&lectures)

	var progress models.CourseProgress
	err := db.Where("user_id = ? AND course_id = ?", userID, courseID).
		Preload("LectureProgress").First(&progress).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Course progress fetched!", fiber.Map{
			"courseDetails":        course,
			"lectures":             lectures,
			"progress":             []models.LectureProgress{},
			"isCompleted":          false,
			"completionPercentage": 0,
		})
	}

	completedLectures := 0
	for _, lp := range progress.LectureProgress {
		if lp.IsCompleted {
			completedLectures++
		}
	}

	// A course with no lectures has nothing to complete
	completionPercentage := 0
	if len(lectures) > 0 {
		completionPercentage = int(math.Round(float64(completedLectures) / float64(len(lectures)) * 100))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course progress fetched!", fiber.Map{
		"courseDetails":        course,
		"lectures":             lectures,
		"progress":             progress.LectureProgress,
		"isCompleted":          progress.IsCompleted,
		"completionPercentage": completionPercentage,
	})
}

// UpdateLectureProgress marks one lecture complete. Creates the progress row
// lazily, upserts the lecture entry, then recomputes the course-level flag
// against a fresh lecture count.
func UpdateLectureProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)
	lectureID := c.Locals("lectureID").(int)
	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var lecture models.Lecture
	if err := db.Where("id = ? AND course_id = ? AND is_deleted = ?", lectureID, courseID, false).First(&lecture).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lecture not found!", nil)
	}

	var progress models.CourseProgress
	if err := db.Where("user_id = ? AND course_id = ?", userID, courseID).
		Preload("LectureProgress").First(&progress).Error; err != nil {
		progress = models.CourseProgress{
			UserID:   userID,
			CourseID: uint(courseID),
		}
		if err := db.Create(&progress).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create progress record!", nil)
		}
	}

	tx := db.Begin()

	// Upsert the entry for this lecture
	found := false
	for i := range progress.LectureProgress {
		if progress.LectureProgress[i].LectureID == uint(lectureID) {
			found = true
			if !progress.LectureProgress[i].IsCompleted {
				progress.LectureProgress[i].IsCompleted = true
				if err := tx.Save(&progress.LectureProgress[i]).Error; err != nil {
					tx.Rollback()
					return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update lecture progress!", nil)
				}
			}
			break
		}
	}
	if !found {
		entry := models.LectureProgress{
			CourseProgressID: progress.ID,
			LectureID:        uint(lectureID),
			IsCompleted:      true,
		}
		if err := tx.Create(&entry).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update lecture progress!", nil)
		}
		progress.LectureProgress = append(progress.LectureProgress, entry)
	}

	// Recompute the cached course-level flag against a fresh lecture count
	completedLectures := 0
	for _, lp := range progress.LectureProgress {
		if lp.IsCompleted {
			completedLectures++
		}
	}

	var totalLectures int64
	tx.Model(&models.Lecture{}).Where("course_id = ? AND is_deleted = ?", courseID, false).Count(&totalLectures)

	progress.IsCompleted = totalLectures > 0 && int64(completedLectures) == totalLectures
	if err := tx.Save(&progress).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save progress!", nil)
	}

	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lecture progress updated successfully!", fiber.Map{
		"lectureProgress": progress.LectureProgress,
		"isCompleted":     progress.IsCompleted,
	})
}

// MarkCourseAsCompleted force-completes every tracked lecture and the course
// flag, regardless of how many lectures the course has
func MarkCourseAsCompleted(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)
	db := database.Database.Db

	var progress models.CourseProgress
	if err := db.Where("user_id = ? AND course_id = ?", userID, courseID).
		Preload("LectureProgress").First(&progress).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course progress not found!", nil)
	}

	tx := db.Begin()

	if err := tx.Model(&models.LectureProgress{}).
		Where("course_progress_id = ?", progress.ID).
		Update("is_completed", true).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to mark course as completed!", nil)
	}

	progress.IsCompleted = true
	if err := tx.Save(&progress).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to mark course as completed!", nil)
	}

	tx.Commit()

	for i := range progress.LectureProgress {
		progress.LectureProgress[i].IsCompleted = true
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course marked as completed!", progress)
}

// ResetCourseProgress clears every tracked lecture and the course flag
func ResetCourseProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)
	db := database.Database.Db

	var progress models.CourseProgress
	if err := db.Where("user_id = ? AND course_id = ?", userID, courseID).
		Preload("LectureProgress").First(&progress).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course progress not found!", nil)
	}

	tx := db.Begin()

	if err := tx.Model(&models.LectureProgress{}).
		Where("course_progress_id = ?", progress.ID).
		Update("is_completed", false).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reset course progress!", nil)
	}

	progress.IsCompleted = false
	if err := tx.Save(&progress).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reset course progress!", nil)
	}

	tx.Commit()

	for i := range progress.LectureProgress {
		progress.LectureProgress[i].IsCompleted = false
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course progress reset successfully!", progress)
}
