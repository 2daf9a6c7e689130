package healthController

import (
	"lms/database"
	"time"

	"github.com/gofiber/fiber/v2"
)

// CheckHealth reports service and database health
func CheckHealth(c *fiber.Ctx) error {
	dbStatus := "healthy"
	dbConnected := true
	httpStatus := fiber.StatusOK

	sqlDB, err := database.Database.Db.DB()
	if err != nil {
		dbStatus = "unhealthy"
		dbConnected = false
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus = "unhealthy"
		dbConnected = false
	}

	status := "OK"
	if !dbConnected {
		status = "ERROR"
		httpStatus = fiber.StatusServiceUnavailable
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"services": fiber.Map{
			"database": fiber.Map{
				"status":    dbStatus,
				"connected": dbConnected,
			},
			"server": fiber.Map{
				"status": "healthy",
			},
		},
	})
}
