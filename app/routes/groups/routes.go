package groups

import (
	"puma-karate/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupGroupsRoutes(app *fiber.App) {
	api := app.Group("/api/groups", auth.AuthMiddleware)

	api.Get("/", GetGroupsAPI)
	api.Get("/:id", GetGroupAPI)
	api.Post("/", CreateGroupAPI)
	api.Put("/:id", UpdateGroupAPI)
	api.Delete("/:id", DeleteGroupAPI)

	members := app.Group("/api/group-students", auth.AuthMiddleware)

	members.Get("/", GetGroupStudentsAPI)
	members.Get("/:id", GetGroupStudentAPI)
	members.Post("/", AssignStudentAPI)
	members.Put("/:id", UpdateGroupStudentAPI)
	members.Delete("/:id", RemoveGroupStudentAPI)
}
