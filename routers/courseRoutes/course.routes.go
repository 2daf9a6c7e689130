package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	"lms/models"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up course browsing and authoring routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Browsing (published courses)
	courseGroup.Get("/published", middleware.JWTMiddleware, controllers.GetPublishedCourses)
	courseGroup.Get("/search", middleware.JWTMiddleware, controllers.SearchCourses)
	courseGroup.Get("/my-courses", middleware.JWTMiddleware, middleware.RequireRole(models.RoleInstructor), controllers.GetMyCreatedCourses)
	courseGroup.Get("/:courseId", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseDetails)
	courseGroup.Get("/:courseId/lectures", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseLectures)

	// Authoring (instructor only)
	courseGroup.Post("/", middleware.JWTMiddleware, middleware.RequireRole(models.RoleInstructor), validators.CreateCourse(), controllers.CreateCourse)
	courseGroup.Patch("/:courseId", middleware.JWTMiddleware, middleware.RequireRole(models.RoleInstructor), validators.UpdateCourse(), controllers.UpdateCourse)
	courseGroup.Patch("/:courseId/publish", middleware.JWTMiddleware, middleware.RequireRole(models.RoleInstructor), validators.CourseID(), controllers.TogglePublishCourse)
	courseGroup.Post("/:courseId/lectures", middleware.JWTMiddleware, middleware.RequireRole(models.RoleInstructor), validators.AddLecture(), controllers.AddLecture)
}
