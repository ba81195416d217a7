package journal

import (
	"puma-karate/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupJournalRoutes(app *fiber.App) {
	entries := app.Group("/api/journal", auth.AuthMiddleware)
	entries.Get("/", GetJournalsAPI)
	entries.Get("/:id", GetJournalAPI)
	entries.Post("/", CreateJournalAPI)
	entries.Put("/:id", UpdateJournalAPI)
	entries.Delete("/:id", DeleteJournalAPI)

	notes := app.Group("/api/progress-notes", auth.AuthMiddleware)
	notes.Get("/", GetProgressNotesAPI)
	notes.Get("/:id", GetProgressNoteAPI)
	notes.Post("/", CreateProgressNoteAPI)
	notes.Put("/:id", UpdateProgressNoteAPI)
	notes.Delete("/:id", DeleteProgressNoteAPI)

	techniques := app.Group("/api/technique-records", auth.AuthMiddleware)
	techniques.Get("/", GetTechniqueRecordsAPI)
	techniques.Get("/:id", GetTechniqueRecordAPI)
	techniques.Post("/", CreateTechniqueRecordAPI)
	techniques.Put("/:id", UpdateTechniqueRecordAPI)
	techniques.Delete("/:id", DeleteTechniqueRecordAPI)
}
