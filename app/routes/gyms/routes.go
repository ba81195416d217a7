package gyms

import (
	"puma-karate/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupGymsRoutes(app *fiber.App) {
	api := app.Group("/api/gyms", auth.AuthMiddleware)

	api.Get("/", GetGymsAPI)
	api.Get("/:id", GetGymAPI)
	api.Post("/", CreateGymAPI)
	api.Put("/:id", UpdateGymAPI)
	api.Delete("/:id", DeleteGymAPI)
}
