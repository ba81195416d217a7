package homeworks

import (
	"puma-karate/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupHomeworksRoutes(app *fiber.App) {
	api := app.Group("/api/homeworks", auth.AuthMiddleware)

	api.Get("/", GetHomeworksAPI)
	api.Get("/:id", GetHomeworkAPI)
	api.Post("/", CreateHomeworkAPI)
	api.Put("/:id", UpdateHomeworkAPI)
	api.Delete("/:id", DeleteHomeworkAPI)
}
