package news

import (
	"puma-karate/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupNewsRoutes(app *fiber.App) {
	api := app.Group("/api/news")

	// News is readable without authentication.
	api.Get("/", GetNewsListAPI)
	api.Get("/:id", GetNewsAPI)

	api.Post("/", auth.AuthMiddleware, CreateNewsAPI)
	api.Put("/:id", auth.AuthMiddleware, UpdateNewsAPI)
	api.Delete("/:id", auth.AuthMiddleware, DeleteNewsAPI)

	achievements := app.Group("/api/achievements")

	// Achievements are readable without authentication as well.
	achievements.Get("/", GetAchievementsAPI)
	achievements.Get("/:id", GetAchievementAPI)

	achievements.Post("/", auth.AuthMiddleware, CreateAchievementAPI)
	achievements.Put("/:id", auth.AuthMiddleware, UpdateAchievementAPI)
	achievements.Delete("/:id", auth.AuthMiddleware, DeleteAchievementAPI)
}
