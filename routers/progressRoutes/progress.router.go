package progressRoutes

import (
	controllers "lms/controllers/progress"
	"lms/middleware"
	validators "lms/validators/progress"

	"github.com/gofiber/fiber/v2"
)

// SetupProgressRoutes sets up course progress tracking routes
func SetupProgressRoutes(app *fiber.App) {
	progressGroup := app.Group("/progress")

	progressGroup.Get("/:courseId", middleware.JWTMiddleware, validators.CourseProgress(), controllers.GetCourseProgress)
	progressGroup.Patch("/:courseId/lectures/:lectureId", middleware.JWTMiddleware, validators.LectureProgress(), controllers.UpdateLectureProgress)
	progressGroup.Patch("/:courseId/complete", middleware.JWTMiddleware, validators.CourseProgress(), controllers.MarkCourseAsCompleted)
	progressGroup.Patch("/:courseId/reset", middleware.JWTMiddleware, validators.CourseProgress(), controllers.ResetCourseProgress)
}
