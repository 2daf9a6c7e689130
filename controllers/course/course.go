package courseController

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CreateCourse creates a new draft course owned by the calling instructor
func CreateCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedCreateCourse").(*struct {
		Title        string  `json:"title"`
		Subtitle     string  `json:"subtitle"`
		Description  string  `json:"description"`
		Category     string  `json:"category"`
		Level        string  `json:"level"`
		Price        float64 `json:"price"`
		ThumbnailURL string  `json:"thumbnailUrl"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course := models.Course{
		Title:        reqData.Title,
		Subtitle:     reqData.Subtitle,
		Description:  reqData.Description,
		Category:     reqData.Category,
		Level:        reqData.Level,
		Price:        reqData.Price,
		ThumbnailURL: reqData.ThumbnailURL,
		InstructorID: userID,
	}

	if err := database.Database.Db.Create(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// UpdateCourse updates course details; only the owning instructor may do so
func UpdateCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedUpdateCourse").(*struct {
		Title        string   `json:"title"`
		Subtitle     string   `json:"subtitle"`
		Description  string   `json:"description"`
		Category     string   `json:"category"`
		Level        string   `json:"level"`
		Price        *float64 `json:"price"`
		ThumbnailURL string   `json:"thumbnailUrl"`
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

	if reqData.Title != "" {
		course.Title = reqData.Title
	}
	if reqData.Subtitle != "" {
		course.Subtitle = reqData.Subtitle
	}
	if reqData.Description != "" {
		course.Description = reqData.Description
	}
	if reqData.Category != "" {
		course.Category = reqData.Category
	}
	if reqData.Level != "" {
		course.Level = reqData.Level
	}
	if reqData.Price != nil {
		course.Price = *reqData.Price
	}
	if reqData.ThumbnailURL != "" {
		course.ThumbnailURL = reqData.ThumbnailURL
	}

	if err := db.Save(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// TogglePublishCourse flips the published flag; only the owner may do so
func TogglePublishCourse(c *fiber.Ctx) error {
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

	if course.InstructorID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not authorized to update this course!", nil)
	}

	course.IsPublished = !course.IsPublished
	if err := db.Save(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	message := "Course unpublished successfully!"
	if course.IsPublished {
		message = "Course published successfully!"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, course)
}

// GetPublishedCourses lists published courses with pagination
func GetPublishedCourses(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := database.Database.Db

	var courses []models.Course
	if err := db.Where("is_published = ? AND is_deleted = ?", true, false).
		Order("created_at desc").
		Offset(offset).Limit(limit).
		Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	var total int64
	db.Model(&models.Course{}).Where("is_published = ? AND is_deleted = ?", true, false).Count(&total)

	totalPages := (total + int64(limit) - 1) / int64(limit)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": totalPages,
		},
	})
}

// SearchCourses searches published courses by text with category, level and
// price filters and a handful of sort options
func SearchCourses(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("query"))
	category := strings.TrimSpace(c.Query("category"))
	level := strings.TrimSpace(c.Query("level"))
	minPrice := c.QueryFloat("minPrice", 0)
	maxPrice := c.QueryFloat("maxPrice", 0)
	sortBy := c.Query("sortBy", "newest")

	db := database.Database.Db
	q := db.Model(&models.Course{}).Where("is_published = ? AND is_deleted = ?", true, false)

	if query != "" {
		like := "%" + strings.ToLower(query) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(subtitle) LIKE ? OR LOWER(description) LIKE ?", like, like, like)
	}
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if level != "" {
		q = q.Where("level = ?", level)
	}
	if minPrice > 0 {
		q = q.Where("price >= ?", minPrice)
	}
	if maxPrice > 0 {
		q = q.Where("price <= ?", maxPrice)
	}

	switch sortBy {
	case "price-low":
		q = q.Order("price asc")
	case "price-high":
		q = q.Order("price desc")
	case "oldest":
		q = q.Order("created_at asc")
	default:
		q = q.Order("created_at desc")
	}

	var courses []models.Course
	if err := q.Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to search courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"count":   len(courses),
		"courses": courses,
	})
}

// GetMyCreatedCourses lists courses owned by the calling instructor
func GetMyCreatedCourses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var courses []models.Course
	if err := database.Database.Db.
		Where("instructor_id = ? AND is_deleted = ?", userID, false).
		Order("created_at desc").
		Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"count":   len(courses),
		"courses": courses,
	})
}

// GetCourseDetails returns a single course with its lectures
func GetCourseDetails(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)
	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var lectures []models.Lecture
	db.Where("course_id = ? AND is_deleted = ?", courseID, false).Order("order_index asc").Find(&lectures)

	var instructor models.User
	db.Where("id = ?", course.InstructorID).First(&instructor)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course details fetched successfully!", fiber.Map{
		"course":     course,
		"lectures":   lectures,
		"instructor": fiber.Map{"id": instructor.ID, "name": instructor.Name, "bio": instructor.Bio},
	})
}
