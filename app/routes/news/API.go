package news

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

func GetNewsListAPI(c *fiber.Ctx) error {
	items, err := database.GetAllNews(config.GetDB())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch news"})
	}

	return c.JSON(fiber.Map{
		"news":  items,
		"count": len(items),
	})
}

func GetNewsAPI(c *fiber.Ctx) error {
	item, err := database.GetNewsByID(config.GetDB(), c.Params("id"))
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "News item not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch news item"})
	}

	return c.JSON(fiber.Map{"news": item})
}

type newsRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// CreateNewsAPI publishes a news item. Staff only.
func CreateNewsAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if !authz.CanMutate(actor, authz.EntityNews, authz.OpCreate) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	var req newsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Title == "" || req.Content == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Title and content are required"})
	}

	item := &models.News{AuthorID: actor.ID, Title: req.Title, Content: req.Content}
	if err := database.CreateNews(config.GetDB(), item); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create news item"})
	}

	return c.Status(201).JSON(fiber.Map{"news": item})
}

func UpdateNewsAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if !authz.CanMutate(actor, authz.EntityNews, authz.OpUpdate) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	item, err := database.GetNewsByID(config.GetDB(), c.Params("id"))
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "News item not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch news item"})
	}

	var req newsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Title != "" {
		item.Title = req.Title
	}
	if req.Content != "" {
		item.Content = req.Content
	}

	if err := database.UpdateNews(config.GetDB(), item); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update news item"})
	}

	return c.JSON(fiber.Map{"news": item})
}

func DeleteNewsAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if !authz.CanMutate(actor, authz.EntityNews, authz.OpDelete) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	err := database.DeleteNews(config.GetDB(), c.Params("id"))
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "News item not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete news item"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// ===== Achievements =====

func GetAchievementsAPI(c *fiber.Ctx) error {
	achievements, err := database.ListAchievements(config.GetDB(), c.Query("user_id"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch achievements"})
	}

	return c.JSON(fiber.Map{
		"achievements": achievements,
		"count":        len(achievements),
	})
}

func GetAchievementAPI(c *fiber.Ctx) error {
	ach, err := database.GetAchievementByID(config.GetDB(), c.Params("id"))
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Achievement not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch achievement"})
	}

	return c.JSON(fiber.Map{"achievement": ach})
}

type achievementRequest struct {
	UserID      string `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

// CreateAchievementAPI records an achievement. Users record their own;
// coaches and staff may record for anyone.
func CreateAchievementAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)

	var req achievementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Title == "" || req.Date == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Title and date are required"})
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid date format, use YYYY-MM-DD"})
	}

	userID := req.UserID
	if userID == "" || !actor.EffectiveCoach() {
		userID = actor.ID
	}

	ach := &models.Achievement{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Date:        date,
	}
	if err := database.CreateAchievement(config.GetDB(), ach); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create achievement"})
	}

	return c.Status(201).JSON(fiber.Map{"achievement": ach})
}

// canManageAchievement allows the owner, coaches and staff.
func canManageAchievement(actor authz.Actor, ach *models.Achievement) bool {
	return ach.UserID == actor.ID || actor.EffectiveCoach()
}

func UpdateAchievementAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)

	ach, err := database.GetAchievementByID(config.GetDB(), c.Params("id"))
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Achievement not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch achievement"})
	}
	if !canManageAchievement(actor, ach) {
		return c.Status(404).JSON(fiber.Map{"error": "Achievement not found"})
	}

	var req achievementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Title != "" {
		ach.Title = req.Title
	}
	if req.Description != "" {
		ach.Description = req.Description
	}
	if req.Date != "" {
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid date format, use YYYY-MM-DD"})
		}
		ach.Date = date
	}

	if err := database.UpdateAchievement(config.GetDB(), ach); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update achievement"})
	}

	return c.JSON(fiber.Map{"achievement": ach})
}

func DeleteAchievementAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)

	ach, err := database.GetAchievementByID(config.GetDB(), c.Params("id"))
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Achievement not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch achievement"})
	}
	if !canManageAchievement(actor, ach) {
		return c.Status(404).JSON(fiber.Map{"error": "Achievement not found"})
	}

	if err := database.DeleteAchievement(config.GetDB(), ach.ID); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete achievement"})
	}

	return c.JSON(fiber.Map{"success": true})
}
