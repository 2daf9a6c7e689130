package courseValidator

import (
	"lms/middleware"
	"regexp"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

var invalidChars = regexp.MustCompile(`[<>{}]`)

// parseCourseID validates the :courseId URL param and stores it as an int
func parseCourseID(c *fiber.Ctx) (int, bool) {
	raw := strings.TrimSpace(c.Params("courseId"))
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// CourseID validates only the course id param
func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseCourseID(c)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID in the URL!", nil)
		}
		c.Locals("courseID", id)
		return c.Next()
	}
}

// CreateCourse validator middleware
func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title        string  `json:"title"`
			Subtitle     string  `json:"subtitle"`
			Description  string  `json:"description"`
			Category     string  `json:"category"`
			Level        string  `json:"level"`
			Price        float64 `json:"price"`
			ThumbnailURL string  `json:"thumbnailUrl"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Normalize and sanitize inputs
		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Subtitle = strings.TrimSpace(reqData.Subtitle)
		reqData.Description = strings.TrimSpace(reqData.Description)
		reqData.Category = strings.TrimSpace(reqData.Category)
		reqData.Level = strings.ToUpper(strings.TrimSpace(reqData.Level))

		// Validate Title
		if reqData.Title == "" {
			errors["title"] = "Title is required!"
		} else {
			if len(reqData.Title) < 3 {
				errors["title"] = "Title must be at least 3 characters long!"
			}
			if len(reqData.Title) > 100 {
				errors["title"] = "Title must not exceed 100 characters!"
			}
			if invalidChars.MatchString(reqData.Title) {
				errors["title"] = "Title contains invalid characters (e.g., <, >, {, })!"
			}
		}

		// Validate Description (optional field)
		if reqData.Description != "" {
			if len(reqData.Description) > 5000 {
				errors["description"] = "Description must not exceed 5000 characters!"
			}
			if invalidChars.MatchString(reqData.Description) {
				errors["description"] = "Description contains invalid characters (e.g., <, >, {, })!"
			}
		}

		// Validate Category
		if reqData.Category == "" {
			errors["category"] = "Category is required!"
		}

		// Validate Level (optional, defaults to BEGINNER)
		if reqData.Level != "" && reqData.Level != "BEGINNER" && reqData.Level != "INTERMEDIATE" && reqData.Level != "ADVANCED" {
			errors["level"] = "Level must be BEGINNER, INTERMEDIATE or ADVANCED!"
		}

		// Validate Price
		if reqData.Price < 0 {
			errors["price"] = "Price must not be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCreateCourse", reqData)
		return c.Next()
	}
}

// UpdateCourse validator middleware
func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseCourseID(c)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID in the URL!", nil)
		}

		reqData := new(struct {
			Title        string   `json:"title"`
			Subtitle     string   `json:"subtitle"`
			Description  string   `json:"description"`
			Category     string   `json:"category"`
			Level        string   `json:"level"`
			Price        *float64 `json:"price"`
			ThumbnailURL string   `json:"thumbnailUrl"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Level = strings.ToUpper(strings.TrimSpace(reqData.Level))

		if reqData.Title != "" {
			if len(reqData.Title) < 3 {
				errors["title"] = "Title must be at least 3 characters long!"
			}
			if invalidChars.MatchString(reqData.Title) {
				errors["title"] = "Title contains invalid characters (e.g., <, >, {, })!"
			}
		}
		if reqData.Level != "" && reqData.Level != "BEGINNER" && reqData.Level != "INTERMEDIATE" && reqData.Level != "ADVANCED" {
			errors["level"] = "Level must be BEGINNER, INTERMEDIATE or ADVANCED!"
		}
		if reqData.Price != nil && *reqData.Price < 0 {
			errors["price"] = "Price must not be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", id)
		c.Locals("validatedUpdateCourse", reqData)
		return c.Next()
	}
}

// AddLecture validator middleware
func AddLecture() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseCourseID(c)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID in the URL!", nil)
		}

		reqData := new(struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			VideoURL    string `json:"videoUrl"`
			PublicID    string `json:"publicId"`
			Duration    int    `json:"duration"`
			IsPreview   bool   `json:"isPreview"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.VideoURL = strings.TrimSpace(reqData.VideoURL)

		if reqData.Title == "" {
			errors["title"] = "Title is required!"
		} else if len(reqData.Title) > 100 {
			errors["title"] = "Title must not exceed 100 characters!"
		}

		if reqData.VideoURL == "" {
			errors["videoUrl"] = "Video URL is required!"
		}

		if reqData.Duration < 0 {
			errors["duration"] = "Duration must not be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", id)
		c.Locals("validatedAddLecture", reqData)
		return c.Next()
	}
}
