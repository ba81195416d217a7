package journal

import (
	"database/sql"
	"time"

	"puma-karate/app/authz"
	"puma-karate/app/config"
	"puma-karate/app/database"
	"puma-karate/app/models"
	"puma-karate/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

// ===== Journal entries =====

func GetJournalsAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	scope := authz.ScopeFor(actor, authz.EntityJournal)

	filters := database.JournalFilters{
		StudentID: c.Query("student_id", c.Query("student")),
		Date:      c.Query("date"),
	}

	journals, err := database.ListJournals(config.GetDB(), scope, filters)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch journal entries"})
	}

	return c.JSON(fiber.Map{
		"journals": journals,
		"count":    len(journals),
	})
}

func GetJournalAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	scope := authz.ScopeFor(actor, authz.EntityJournal)

	entry, err := database.GetJournalByIDScoped(config.GetDB(), c.Params("id"), scope)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Journal entry not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch journal entry"})
	}

	return c.JSON(fiber.Map{"journal": entry})
}

type journalRequest struct {
	StudentID  string `json:"student_id"`
	Date       string `json:"date"`
	Attendance *bool  `json:"attendance"`
	Notes      string `json:"notes"`
}

func CreateJournalAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if !authz.CanMutate(actor, authz.EntityJournal, authz.OpCreate) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	var req journalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.StudentID == "" || req.Date == "" {
		return c.Status(400).JSON(fiber.Map{"error": "student_id and date are required"})
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid date format, use YYYY-MM-DD"})
	}

	entry := &models.Journal{
		StudentID:  req.StudentID,
		CoachID:    actor.ID,
		Date:       date,
		Attendance: true,
		Notes:      req.Notes,
	}
	if req.Attendance != nil {
		entry.Attendance = *req.Attendance
	}

	if err := database.CreateJournal(config.GetDB(), entry); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create journal entry"})
	}

	return c.Status(201).JSON(fiber.Map{"journal": entry})
}

func UpdateJournalAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if !authz.CanMutate(actor, authz.EntityJournal, authz.OpUpdate) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	scope := authz.ScopeFor(actor, authz.EntityJournal)
	entry, err := database.GetJournalByIDScoped(config.GetDB(), c.Params("id"), scope)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Journal entry not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch journal entry"})
	}

	var req journalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Date != "" {
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid date format, use YYYY-MM-DD"})
		}
		entry.Date = date
	}
	if req.Attendance != nil {
		entry.Attendance = *req.Attendance
	}
	if req.Notes != "" {
		entry.Notes = req.Notes
	}

	if err := database.UpdateJournal(config.GetDB(), entry); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update journal entry"})
	}

	return c.JSON(fiber.Map{"journal": entry})
}

func DeleteJournalAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if !authz.CanMutate(actor, authz.EntityJournal, authz.OpDelete) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	scope := authz.ScopeFor(actor, authz.EntityJournal)
	entry, err := database.GetJournalByIDScoped(config.GetDB(), c.Params("id"), scope)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Journal entry not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch journal entry"})
	}

	if err := database.DeleteJournal(config.GetDB(), entry.ID); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete journal entry"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// ===== Progress notes =====

func GetProgressNotesAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	scope := authz.ScopeFor(actor, authz.EntityProgressNote)

	filters := database.ProgressNoteFilters{
		StudentID: c.Query("student_id"),
		Category:  c.Query("category"),
	}

	notes, err := database.ListProgressNotes(config.GetDB(), scope, filters)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch progress notes"})
	}

	return c.JSON(fiber.Map{
		"progress_notes": notes,
		"count":          len(notes),
	})
}

func GetProgressNoteAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	scope := authz.ScopeFor(actor, authz.EntityProgressNote)

	note, err := database.GetProgressNoteByIDScoped(config.GetDB(), c.Params("id"), scope)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Progress note not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch progress note"})
	}

	return c.JSON(fiber.Map{"progress_note": note})
}

type progressNoteRequest struct {
	StudentID string `json:"student_id"`
	Date      string `json:"date"`
	Category  string `json:"category"`
	Content   string `json:"content"`
}

func CreateProgressNoteAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if !authz.CanMutate(actor, authz.EntityProgressNote, authz.OpCreate) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	var req progressNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.StudentID == "" || req.Date == "" || req.Category == "" || req.Content == "" {
		return c.Status(400).JSON(fiber.Map{"error": "student_id, date, category and content are required"})
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid date format, use YYYY-MM-DD"})
	}

	note := &models.ProgressNote{
		StudentID: req.StudentID,
		CoachID:   actor.ID,
		Date:      date,
		Category:  req.Category,
		Content:   req.Content,
	}
	if err := database.CreateProgressNote(config.GetDB(), note); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create progress note"})
	}

	return c.Status(201).JSON(fiber.Map{"progress_note": note})
}

func UpdateProgressNoteAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if !authz.CanMutate(actor, authz.EntityProgressNote, authz.OpUpdate) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	scope := authz.ScopeFor(actor, authz.EntityProgressNote)
	note, err := database.GetProgressNoteByIDScoped(config.GetDB(), c.Params("id"), scope)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Progress note not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch progress note"})
	}

	var req progressNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Date != "" {
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid date format, use YYYY-MM-DD"})
		}
		note.Date = date
	}
	if req.Category != "" {
		note.Category = req.Category
	}
	if req.Content != "" {
		note.Content = req.Content
	}

	if err := database.UpdateProgressNote(config.GetDB(), note); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update progress note"})
	}

	return c.JSON(fiber.Map{"progress_note": note})
}

func DeleteProgressNoteAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if !authz.CanMutate(actor, authz.EntityProgressNote, authz.OpDelete) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	scope := authz.ScopeFor(actor, authz.EntityProgressNote)
	note, err := database.GetProgressNoteByIDScoped(config.GetDB(), c.Params("id"), scope)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Progress note not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch progress note"})
	}

	if err := database.DeleteProgressNote(config.GetDB(), note.ID); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete progress note"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// ===== Technique records =====

func GetTechniqueRecordsAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	scope := authz.ScopeFor(actor, authz.EntityTechniqueRecord)

	filters := database.TechniqueRecordFilters{
		StudentID:    c.Query("student_id"),
		MasteryLevel: c.Query("mastery_level"),
	}

	records, err := database.ListTechniqueRecords(config.GetDB(), scope, filters)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch technique records"})
	}

	return c.JSON(fiber.Map{
		"technique_records": records,
		"count":             len(records),
	})
}

func GetTechniqueRecordAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	scope := authz.ScopeFor(actor, authz.EntityTechniqueRecord)

	record, err := database.GetTechniqueRecordByIDScoped(config.GetDB(), c.Params("id"), scope)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Technique record not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch technique record"})
	}

	return c.JSON(fiber.Map{"technique_record": record})
}

type techniqueRequest struct {
	StudentID    string `json:"student_id"`
	Technique    string `json:"technique"`
	MasteryLevel int    `json:"mastery_level"`
	Notes        string `json:"notes"`
}

func CreateTechniqueRecordAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if !authz.CanMutate(actor, authz.EntityTechniqueRecord, authz.OpCreate) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	var req techniqueRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.StudentID == "" || req.Technique == "" {
		return c.Status(400).JSON(fiber.Map{"error": "student_id and technique are required"})
	}
	if req.MasteryLevel < 1 || req.MasteryLevel > 10 {
		return c.Status(400).JSON(fiber.Map{"error": "mastery_level must be between 1 and 10"})
	}

	record := &models.TechniqueRecord{
		StudentID:    req.StudentID,
		Technique:    req.Technique,
		MasteryLevel: req.MasteryLevel,
		Notes:        req.Notes,
	}
	if err := database.CreateTechniqueRecord(config.GetDB(), record); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create technique record"})
	}

	return c.Status(201).JSON(fiber.Map{"technique_record": record})
}

func UpdateTechniqueRecordAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if !authz.CanMutate(actor, authz.EntityTechniqueRecord, authz.OpUpdate) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	scope := authz.ScopeFor(actor, authz.EntityTechniqueRecord)
	record, err := database.GetTechniqueRecordByIDScoped(config.GetDB(), c.Params("id"), scope)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Technique record not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch technique record"})
	}

	var req techniqueRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Technique != "" {
		record.Technique = req.Technique
	}
	if req.MasteryLevel != 0 {
		if req.MasteryLevel < 1 || req.MasteryLevel > 10 {
			return c.Status(400).JSON(fiber.Map{"error": "mastery_level must be between 1 and 10"})
		}
		record.MasteryLevel = req.MasteryLevel
	}
	if req.Notes != "" {
		record.Notes = req.Notes
	}

	if err := database.UpdateTechniqueRecord(config.GetDB(), record); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update technique record"})
	}

	return c.JSON(fiber.Map{"technique_record": record})
}

func DeleteTechniqueRecordAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if !authz.CanMutate(actor, authz.EntityTechniqueRecord, authz.OpDelete) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	scope := authz.ScopeFor(actor, authz.EntityTechniqueRecord)
	record, err := database.GetTechniqueRecordByIDScoped(config.GetDB(), c.Params("id"), scope)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Technique record not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch technique record"})
	}

	if err := database.DeleteTechniqueRecord(config.GetDB(), record.ID); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete technique record"})
	}

	return c.JSON(fiber.Map{"success": true})
}
