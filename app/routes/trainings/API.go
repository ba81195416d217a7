package trainings

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

func GetTrainingsAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	scope := authz.ScopeFor(actor, authz.EntityTraining)

	filters := database.TrainingFilters{
		GroupID:    c.Query("group_id", c.Query("group")),
		DateAfter:  c.Query("date_after", c.Query("dateAfter")),
		DateBefore: c.Query("date_before", c.Query("dateBefore")),
	}

	trainings, err := database.ListTrainings(config.GetDB(), scope, filters)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch trainings"})
	}

	return c.JSON(fiber.Map{
		"trainings": trainings,
		"count":     len(trainings),
	})
}

func GetTrainingAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	scope := authz.ScopeFor(actor, authz.EntityTraining)

	training, err := database.GetTrainingByIDScoped(config.GetDB(), c.Params("id"), scope)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Training not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch training"})
	}

	return c.JSON(fiber.Map{"training": training})
}

type trainingRequest struct {
	GroupID   string  `json:"group_id"`
	Date      string  `json:"date"`
	TimeStart string  `json:"time_start"`
	TimeEnd   string  `json:"time_end"`
	Topic     *string `json:"topic"`
}

func (r *trainingRequest) toTraining() (*models.Training, string) {
	if r.GroupID == "" || r.Date == "" || r.TimeStart == "" || r.TimeEnd == "" {
		return nil, "group_id, date, time_start and time_end are required"
	}
	date, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return nil, "Invalid date format, use YYYY-MM-DD"
	}
	if _, err := time.Parse("15:04", r.TimeStart); err != nil {
		return nil, "Invalid time_start, use HH:MM"
	}
	if _, err := time.Parse("15:04", r.TimeEnd); err != nil {
		return nil, "Invalid time_end, use HH:MM"
	}
	return &models.Training{
		GroupID:   r.GroupID,
		Date:      date,
		TimeStart: r.TimeStart,
		TimeEnd:   r.TimeEnd,
		Topic:     r.Topic,
	}, ""
}

// groupInScope checks the target group through the caller's group scope.
// A coach scheduling into someone else's group gets sql.ErrNoRows, same
// as a group that does not exist.
func groupInScope(actor authz.Actor, groupID string) error {
	groupScope := authz.ScopeFor(actor, authz.EntityGroup)
	_, err := database.GetGroupByIDScoped(config.GetDB(), groupID, groupScope)
	return err
}

func CreateTrainingAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if !authz.CanMutate(actor, authz.EntityTraining, authz.OpCreate) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	var req trainingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	training, msg := req.toTraining()
	if msg != "" {
		return c.Status(400).JSON(fiber.Map{"error": msg})
	}

	if err := groupInScope(actor, training.GroupID); err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Group not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch group"})
	}

	if err := database.CreateTraining(config.GetDB(), training); err != nil {
		if err.Error() == "training slot already taken" {
			return c.Status(400).JSON(fiber.Map{"error": "Training slot already taken"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create training"})
	}

	return c.Status(201).JSON(fiber.Map{"training": training})
}

type bulkRequest struct {
	GroupID string                      `json:"group_id"`
	Items   []database.BulkTrainingItem `json:"trainings"`
}

// BulkCreateTrainingsAPI schedules a batch of sessions for one group in a
// single call. Items succeed or fail individually; the response lists both
// the created sessions and the per-item errors with their indexes.
func BulkCreateTrainingsAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if !authz.CanMutate(actor, authz.EntityTraining, authz.OpCreate) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	var req bulkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.GroupID == "" || len(req.Items) == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "group_id and a non-empty trainings list are required"})
	}

	if err := groupInScope(actor, req.GroupID); err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Group not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch group"})
	}

	created, itemErrors := database.BulkCreateTrainings(config.GetDB(), req.GroupID, req.Items)

	status := 201
	if len(created) == 0 {
		status = 400
	}
	return c.Status(status).JSON(fiber.Map{
		"created":       created,
		"created_count": len(created),
		"errors":        itemErrors,
	})
}

func UpdateTrainingAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if !authz.CanMutate(actor, authz.EntityTraining, authz.OpUpdate) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	scope := authz.ScopeFor(actor, authz.EntityTraining)
	existing, err := database.GetTrainingByIDScoped(config.GetDB(), c.Params("id"), scope)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Training not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch training"})
	}

	var req trainingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.GroupID == "" {
		req.GroupID = existing.GroupID
	}
	training, msg := req.toTraining()
	if msg != "" {
		return c.Status(400).JSON(fiber.Map{"error": msg})
	}
	training.ID = existing.ID

	if training.GroupID != existing.GroupID {
		if err := groupInScope(actor, training.GroupID); err != nil {
			if err == sql.ErrNoRows {
				return c.Status(404).JSON(fiber.Map{"error": "Group not found"})
			}
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch group"})
		}
	}

	if err := database.UpdateTraining(config.GetDB(), training); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update training"})
	}

	return c.JSON(fiber.Map{"training": training})
}

func DeleteTrainingAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if !authz.CanMutate(actor, authz.EntityTraining, authz.OpDelete) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	scope := authz.ScopeFor(actor, authz.EntityTraining)
	training, err := database.GetTrainingByIDScoped(config.GetDB(), c.Params("id"), scope)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Training not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch training"})
	}

	if err := database.DeleteTraining(config.GetDB(), training.ID); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete training"})
	}

	return c.JSON(fiber.Map{"success": true})
}
