package homeworks

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

func GetHomeworksAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	scope := authz.ScopeFor(actor, authz.EntityHomework)

	filters := database.HomeworkFilters{
		TrainingID: c.Query("training_id", c.Query("training")),
		StudentID:  c.Query("student_id", c.Query("student")),
	}

	homeworks, err := database.ListHomeworks(config.GetDB(), scope, filters)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch homeworks"})
	}

	return c.JSON(fiber.Map{
		"homeworks": homeworks,
		"count":     len(homeworks),
	})
}

func GetHomeworkAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	scope := authz.ScopeFor(actor, authz.EntityHomework)

	hw, err := database.GetHomeworkByIDScoped(config.GetDB(), c.Params("id"), scope)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Homework not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch homework"})
	}

	return c.JSON(fiber.Map{"homework": hw})
}

type homeworkRequest struct {
	TrainingID string `json:"training_id"`
	StudentID  string `json:"student_id"`
	TaskText   string `json:"task_text"`
	Deadline   string `json:"deadline"`
}

// CreateHomeworkAPI assigns homework to a student. The target training must
// be in the coach's own visibility scope.
func CreateHomeworkAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if !authz.CanMutate(actor, authz.EntityHomework, authz.OpCreate) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	var req homeworkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.TrainingID == "" || req.StudentID == "" || req.TaskText == "" || req.Deadline == "" {
		return c.Status(400).JSON(fiber.Map{"error": "training_id, student_id, task_text and deadline are required"})
	}

	deadline, err := time.Parse("2006-01-02", req.Deadline)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid deadline, use YYYY-MM-DD"})
	}

	trainingScope := authz.ScopeFor(actor, authz.EntityTraining)
	if _, err := database.GetTrainingByIDScoped(config.GetDB(), req.TrainingID, trainingScope); err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Training not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch training"})
	}

	hw := &models.Homework{
		TrainingID: req.TrainingID,
		CoachID:    actor.ID,
		StudentID:  req.StudentID,
		TaskText:   req.TaskText,
		Deadline:   deadline,
	}
	if err := database.CreateHomework(config.GetDB(), hw); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create homework"})
	}

	return c.Status(201).JSON(fiber.Map{"homework": hw})
}

func UpdateHomeworkAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if !authz.CanMutate(actor, authz.EntityHomework, authz.OpUpdate) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	scope := authz.ScopeFor(actor, authz.EntityHomework)
	hw, err := database.GetHomeworkByIDScoped(config.GetDB(), c.Params("id"), scope)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Homework not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch homework"})
	}

	var req homeworkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.TaskText != "" {
		hw.TaskText = req.TaskText
	}
	if req.StudentID != "" {
		hw.StudentID = req.StudentID
	}
	if req.Deadline != "" {
		deadline, err := time.Parse("2006-01-02", req.Deadline)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid deadline, use YYYY-MM-DD"})
		}
		hw.Deadline = deadline
	}

	if err := database.UpdateHomework(config.GetDB(), hw); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update homework"})
	}

	return c.JSON(fiber.Map{"homework": hw})
}

func DeleteHomeworkAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if !authz.CanMutate(actor, authz.EntityHomework, authz.OpDelete) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	scope := authz.ScopeFor(actor, authz.EntityHomework)
	hw, err := database.GetHomeworkByIDScoped(config.GetDB(), c.Params("id"), scope)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Homework not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch homework"})
	}

	if err := database.DeleteHomework(config.GetDB(), hw.ID); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete homework"})
	}

	return c.JSON(fiber.Map{"success": true})
}
