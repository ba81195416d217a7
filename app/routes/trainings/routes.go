package trainings

import (
	"puma-karate/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupTrainingsRoutes(app *fiber.App) {
	api := app.Group("/api/trainings", auth.AuthMiddleware)

	api.Get("/", GetTrainingsAPI)
	api.Post("/bulk", auth.RequireCoach, BulkCreateTrainingsAPI)
	api.Get("/:id", GetTrainingAPI)
	api.Post("/", CreateTrainingAPI)
	api.Put("/:id", UpdateTrainingAPI)
	api.Delete("/:id", DeleteTrainingAPI)
}
