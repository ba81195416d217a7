package attendances

import (
	"database/sql"

	"puma-karate/app/authz"
	"puma-karate/app/config"
	"puma-karate/app/database"
	"puma-karate/app/models"
	"puma-karate/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

func GetAttendancesAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	scope := authz.ScopeFor(actor, authz.EntityAttendance)

	filters := database.AttendanceFilters{
		TrainingID: c.Query("training_id", c.Query("training")),
		StudentID:  c.Query("student_id", c.Query("student")),
	}

	records, err := database.ListAttendances(config.GetDB(), scope, filters)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch attendance"})
	}

	return c.JSON(fiber.Map{
		"attendances": records,
		"count":       len(records),
	})
}

func GetAttendanceAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	scope := authz.ScopeFor(actor, authz.EntityAttendance)

	record, err := database.GetAttendanceByIDScoped(config.GetDB(), c.Params("id"), scope)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Attendance record not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch attendance"})
	}

	return c.JSON(fiber.Map{"attendance": record})
}

type attendanceRequest struct {
	TrainingID string `json:"training_id"`
	StudentID  string `json:"student_id"`
	Status     string `json:"status"`
	Notes      string `json:"notes"`
}

func validStatus(s string) bool {
	switch models.AttendanceStatus(s) {
	case models.AttendancePresent, models.AttendanceAbsent, models.AttendanceLate, models.AttendanceExcused:
		return true
	}
	return false
}

// MarkAttendanceAPI records or re-records a student's attendance for a
// session. Upsert keyed by (training, student), so re-marking never
// duplicates.
func MarkAttendanceAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if !authz.CanMutate(actor, authz.EntityAttendance, authz.OpCreate) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	var req attendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.TrainingID == "" || req.StudentID == "" || req.Status == "" {
		return c.Status(400).JSON(fiber.Map{"error": "training_id, student_id and status are required"})
	}
	if !validStatus(req.Status) {
		return c.Status(400).JSON(fiber.Map{"error": "Status must be one of: present, absent, late, excused"})
	}

	trainingScope := authz.ScopeFor(actor, authz.EntityTraining)
	if _, err := database.GetTrainingByIDScoped(config.GetDB(), req.TrainingID, trainingScope); err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Training not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch training"})
	}

	record := &models.Attendance{
		TrainingID: req.TrainingID,
		StudentID:  req.StudentID,
		Status:     models.AttendanceStatus(req.Status),
		Notes:      req.Notes,
	}
	if err := database.CreateOrUpdateAttendance(config.GetDB(), record); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to record attendance"})
	}

	return c.Status(201).JSON(fiber.Map{"attendance": record})
}

func DeleteAttendanceAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if !authz.CanMutate(actor, authz.EntityAttendance, authz.OpDelete) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	scope := authz.ScopeFor(actor, authz.EntityAttendance)
	record, err := database.GetAttendanceByIDScoped(config.GetDB(), c.Params("id"), scope)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Attendance record not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch attendance"})
	}

	if err := database.DeleteAttendance(config.GetDB(), record.ID); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete attendance"})
	}

	return c.JSON(fiber.Map{"success": true})
}
