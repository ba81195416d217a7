package attendances

import (
	"puma-karate/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAttendancesRoutes(app *fiber.App) {
	api := app.Group("/api/attendances", auth.AuthMiddleware)

	api.Get("/", GetAttendancesAPI)
	api.Get("/:id", GetAttendanceAPI)
	api.Post("/", MarkAttendanceAPI)
	api.Delete("/:id", DeleteAttendanceAPI)
}
