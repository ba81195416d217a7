package main

import (
	"log"

	"puma-karate/app/config"
	"puma-karate/app/database"
	"puma-karate/app/routes/attendances"
	"puma-karate/app/routes/auth"
	"puma-karate/app/routes/competitions"
	"puma-karate/app/routes/groups"
	"puma-karate/app/routes/gyms"
	"puma-karate/app/routes/homeworks"
	"puma-karate/app/routes/journal"
	"puma-karate/app/routes/news"
	"puma-karate/app/routes/trainings"
	"puma-karate/app/routes/users"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// errorHandler renders every error as JSON.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
		"code":    code,
	})
}

func main() {
	// Initialize database
	config.InitDB()
	defer config.GetDB().Close()

	// Run database migrations
	if err := database.RunMigrations(config.GetDB()); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New())

	// Setup auth routes
	auth.SetupAuthRoutes(app)

	// Setup users routes
	users.SetupUsersRoutes(app)

	// Setup gyms routes
	gyms.SetupGymsRoutes(app)

	// Setup groups and membership routes
	groups.SetupGroupsRoutes(app)

	// Setup trainings routes
	trainings.SetupTrainingsRoutes(app)

	// Setup homeworks routes
	homeworks.SetupHomeworksRoutes(app)

	// Setup attendance routes
	attendances.SetupAttendancesRoutes(app)

	// Setup competitions routes
	competitions.SetupCompetitionsRoutes(app)

	// Setup journal routes
	journal.SetupJournalRoutes(app)

	// Setup news and achievements routes
	news.SetupNewsRoutes(app)

	// Catch-all route for 404 errors (must be last)
	app.Use("*", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Not found")
	})

	// Start server
	log.Println("Server starting on :8080")
	log.Fatal(app.Listen(":8080"))
}
