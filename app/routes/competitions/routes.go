package competitions

import (
	"puma-karate/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupCompetitionsRoutes(app *fiber.App) {
	api := app.Group("/api/competitions", auth.AuthMiddleware)

	api.Get("/", GetCompetitionsAPI)
	api.Get("/:id", GetCompetitionAPI)
	api.Post("/", CreateCompetitionAPI)
	api.Put("/:id", UpdateCompetitionAPI)
	api.Delete("/:id", DeleteCompetitionAPI)

	api.Get("/:id/categories", GetCategoriesAPI)
	api.Get("/:id/results", GetResultsAPI)
	api.Get("/:id/team-results", GetTeamResultsAPI)

	categories := app.Group("/api/competition-categories", auth.AuthMiddleware)
	categories.Post("/", CreateCategoryAPI)
	categories.Put("/:id", UpdateCategoryAPI)
	categories.Delete("/:id", DeleteCategoryAPI)

	registrations := app.Group("/api/registrations", auth.AuthMiddleware)
	registrations.Get("/", GetRegistrationsAPI)
	registrations.Post("/", CreateRegistrationAPI)
	registrations.Put("/:id", UpdateRegistrationAPI)
	registrations.Delete("/:id", DeleteRegistrationAPI)

	results := app.Group("/api/competition-results", auth.AuthMiddleware)
	results.Post("/", CreateResultAPI)
	results.Put("/:id", UpdateResultAPI)
	results.Delete("/:id", DeleteResultAPI)

	teamResults := app.Group("/api/team-results", auth.AuthMiddleware)
	teamResults.Post("/", CreateTeamResultAPI)
	teamResults.Put("/:id", UpdateTeamResultAPI)
	teamResults.Delete("/:id", DeleteTeamResultAPI)
}
