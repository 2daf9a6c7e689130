package authRoutes

import (
	controllers "lms/controllers/auth"
	"lms/middleware"
	validators "lms/validators/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupAuthRoutes sets up authentication and profile routes
func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/signup", validators.Signup(), controllers.Signup)
	authGroup.Post("/signin", validators.Signin(), controllers.Signin)

	userGroup := app.Group("/user")
	userGroup.Get("/profile", middleware.JWTMiddleware, controllers.GetProfile)
	userGroup.Patch("/profile", middleware.JWTMiddleware, validators.UpdateProfile(), controllers.UpdateProfile)
	userGroup.Patch("/change-password", middleware.JWTMiddleware, validators.ChangePassword(), controllers.ChangePassword)
	userGroup.Delete("/account", middleware.JWTMiddleware, validators.DeleteAccount(), controllers.DeleteAccount)
}
