package progressValidator

import (
	"lms/middleware"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

func parseParamID(c *fiber.Ctx, name string) (int, bool) {
	raw := strings.TrimSpace(c.Params(name))
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// CourseProgress validates the course id param for progress routes
func CourseProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseParamID(c, "courseId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID in the URL!", nil)
		}
		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// LectureProgress validates the course and lecture id params
func LectureProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseParamID(c, "courseId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID in the URL!", nil)
		}
		lectureID, ok := parseParamID(c, "lectureId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lecture ID in the URL!", nil)
		}
		c.Locals("courseID", courseID)
		c.Locals("lectureID", lectureID)
		return c.Next()
	}
}
