package users

import (
	"puma-karate/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupUsersRoutes(app *fiber.App) {
	api := app.Group("/api/users", auth.AuthMiddleware)

	api.Get("/", ListUsersAPI)
	api.Get("/me", MeAPI)
	api.Patch("/me", UpdateMeAPI)
	api.Get("/:id", GetUserAPI)
	api.Post("/", auth.RequireStaff, CreateUserAPI)
	api.Put("/:id", auth.RequireStaff, UpdateUserAPI)
	api.Delete("/:id", auth.RequireStaff, DeleteUserAPI)
}
