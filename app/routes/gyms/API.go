package gyms

import (
	"database/sql"

	"puma-karate/app/authz"
	"puma-karate/app/config"
	"puma-karate/app/database"
	"puma-karate/app/models"
	"puma-karate/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

// Gyms are public club infrastructure: every authenticated user can read
// them, coaches and staff manage them.

func GetGymsAPI(c *fiber.Ctx) error {
	gyms, err := database.GetAllGyms(config.GetDB())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch gyms"})
	}

	return c.JSON(fiber.Map{
		"gyms":  gyms,
		"count": len(gyms),
	})
}

func GetGymAPI(c *fiber.Ctx) error {
	gym, err := database.GetGymByID(config.GetDB(), c.Params("id"))
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Gym not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch gym"})
	}

	return c.JSON(fiber.Map{"gym": gym})
}

type gymRequest struct {
	CoachID  string `json:"coach_id"`
	Address  string `json:"address"`
	WorkTime string `json:"work_time"`
}

func CreateGymAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if !authz.CanMutate(actor, authz.EntityGym, authz.OpCreate) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	var req gymRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Address == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Address is required"})
	}

	gym := &models.Gym{Address: req.Address, WorkTime: req.WorkTime}
	if req.CoachID != "" {
		gym.CoachID = &req.CoachID
	}

	if err := database.CreateGym(config.GetDB(), gym); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create gym"})
	}

	return c.Status(201).JSON(fiber.Map{"gym": gym})
}

func UpdateGymAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if !authz.CanMutate(actor, authz.EntityGym, authz.OpUpdate) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	gym, err := database.GetGymByID(config.GetDB(), c.Params("id"))
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Gym not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch gym"})
	}

	var req gymRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Address == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Address is required"})
	}

	gym.Address = req.Address
	gym.WorkTime = req.WorkTime
	gym.CoachID = nil
	if req.CoachID != "" {
		gym.CoachID = &req.CoachID
	}

	if err := database.UpdateGym(config.GetDB(), gym); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update gym"})
	}

	return c.JSON(fiber.Map{"gym": gym})
}

func DeleteGymAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if !authz.CanMutate(actor, authz.EntityGym, authz.OpDelete) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	err := database.DeleteGym(config.GetDB(), c.Params("id"))
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Gym not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete gym"})
	}

	return c.JSON(fiber.Map{"success": true})
}
