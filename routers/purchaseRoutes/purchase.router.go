package purchaseRoutes

import (
	controllers "lms/controllers/purchase"
	"lms/middleware"
	validators "lms/validators/purchase"

	"github.com/gofiber/fiber/v2"
)

// SetupPurchaseRoutes sets up checkout and purchase status routes. The
// webhook route carries no JWT middleware: the gateway authenticates with its
// payload signature instead.
func SetupPurchaseRoutes(app *fiber.App) {
	purchaseGroup := app.Group("/purchase")

	purchaseGroup.Post("/checkout/create-checkout-session", middleware.JWTMiddleware, validators.CreateCheckout(), controllers.CreateCheckoutSession)
	purchaseGroup.Post("/webhook", controllers.HandlePaymentWebhook)
	purchaseGroup.Get("/course/:courseId/detail-with-status", middleware.JWTMiddleware, validators.PurchaseStatus(), controllers.GetCoursePurchaseStatus)
	purchaseGroup.Get("/", middleware.JWTMiddleware, controllers.GetPurchasedCourses)
}
