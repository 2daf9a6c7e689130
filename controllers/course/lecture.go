package courseController

import (
	"lms/database"
	"lms/middleware"
	"lms/models"

	"github.com/gofiber/fiber/v2"
)

// AddLecture appends a lecture to a course; only the owner may do so
func AddLecture(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedAddLecture").(*struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		VideoURL    string `json:"videoUrl"`
		PublicID    string `json:"publicId"`
		Duration    int    `json:"duration"`
		IsPreview   bool   `json:"isPreview"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if course.InstructorID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not authorized to update this course!", nil)
	}

	var lectureCount int64
	db.Model(&models.Lecture{}).Where("course_id = ? AND is_deleted = ?", courseID, false).Count(&lectureCount)

	lecture := models.Lecture{
		CourseID:    course.ID,
		Title:       reqData.Title,
		Description: reqData.Description,
		VideoURL:    reqData.VideoURL,
		PublicID:    reqData.PublicID,
		Duration:    reqData.Duration,
		OrderIndex:  int(lectureCount) + 1,
		IsPreview:   reqData.IsPreview,
	}

	if err := db.Create(&lecture).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add lecture!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lecture added successfully!", lecture)
}

// GetCourseLectures lists a course's lectures. Callers who are neither
// enrolled nor the instructor only see preview lectures.
func GetCourseLectures(c *fiber.Ctx) error {
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

	isInstructor := course.InstructorID == userID

	var enrollment models.Enrollment
	isEnrolled := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		First(&enrollment).Error == nil

	query := db.Where("course_id = ? AND is_deleted = ?", courseID, false)
	if !isEnrolled && !isInstructor {
		query = query.Where("is_preview = ?", true)
	}

	var lectures []models.Lecture
	if err := query.Order("order_index asc").Find(&lectures).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch lectures!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lectures fetched successfully!", fiber.Map{
		"lectures":     lectures,
		"isEnrolled":   isEnrolled,
		"isInstructor": isInstructor,
	})
}
