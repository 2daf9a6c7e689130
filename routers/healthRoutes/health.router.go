package healthRoutes

import (
	controllers "lms/controllers/health"

	"github.com/gofiber/fiber/v2"
)

// SetupHealthRoutes sets up the health check route
func SetupHealthRoutes(app *fiber.App) {
	app.Get("/health", controllers.CheckHealth)
}
