package users

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

// ListUsersAPI returns the accounts visible to the caller: staff see everyone,
// coaches see active students of their own groups, students see only
// themselves.
func ListUsersAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	scope := authz.ScopeFor(actor, authz.EntityUser)

	users, err := database.ListUsers(config.GetDB(), scope)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch users"})
	}

	return c.JSON(fiber.Map{
		"users": users,
		"count": len(users),
	})
}

func GetUserAPI(c *fiber.Ctx) error {
	userID := c.Params("id")
	actor := auth.CurrentActor(c)
	scope := authz.ScopeFor(actor, authz.EntityUser)

	user, err := database.GetUserByIDScoped(config.GetDB(), userID, scope)
	if err == sql.ErrNoRows {
		// Out-of-scope rows are indistinguishable from missing ones.
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch user"})
	}

	return c.JSON(fiber.Map{"user": user})
}

// MeAPI returns the caller's own account.
func MeAPI(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"user": auth.CurrentUser(c)})
}

// UpdateMeAPI applies a partial self-update. Only non-privileged profile
// fields can be changed here; role flags never pass through this path.
func UpdateMeAPI(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)

	var update database.ProfileUpdate
	if err := c.BodyParser(&update); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	updated, err := database.UpdateUserProfile(config.GetDB(), user.ID, update)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return c.JSON(fiber.Map{"user": updated})
}

type userRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Patronymic  string `json:"patronymic"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"date_of_birth"`
	IsStudent   bool   `json:"is_student"`
	IsCoach     bool   `json:"is_coach"`
	IsStaff     bool   `json:"is_staff"`
}

func (r *userRequest) toUser() (*models.User, error) {
	user := &models.User{
		Email:     r.Email,
		Password:  r.Password,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		IsStudent: r.IsStudent,
		IsCoach:   r.IsCoach,
		IsStaff:   r.IsStaff,
	}
	if r.Patronymic != "" {
		user.Patronymic = &r.Patronymic
	}
	if r.Phone != "" {
		user.Phone = &r.Phone
	}
	if r.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", r.DateOfBirth)
		if err != nil {
			return nil, err
		}
		user.DateOfBirth = &dob
	}
	return user, nil
}

// CreateUserAPI creates an account with arbitrary role flags. Staff only.
func CreateUserAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if !authz.CanMutate(actor, authz.EntityUser, authz.OpCreate) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	var req userRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Email, password, first name and last name are required"})
	}

	user, err := req.toUser()
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid date of birth, expected YYYY-MM-DD"})
	}

	if err := database.CreateUser(config.GetDB(), user); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create user"})
	}

	return c.Status(201).JSON(fiber.Map{"user": user})
}

// UpdateUserAPI updates an account including role flags. Staff only.
func UpdateUserAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if !authz.CanMutate(actor, authz.EntityUser, authz.OpUpdate) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	userID := c.Params("id")
	existing, err := database.GetUserByID(config.GetDB(), userID)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch user"})
	}

	var req userRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Email == "" || req.FirstName == "" || req.LastName == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Email, first name and last name are required"})
	}

	user, err := req.toUser()
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid date of birth, expected YYYY-MM-DD"})
	}
	user.ID = existing.ID

	if err := database.UpdateUser(config.GetDB(), user); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update user"})
	}

	return c.JSON(fiber.Map{"user": user})
}

// DeleteUserAPI soft deletes an account. Staff only.
func DeleteUserAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if !authz.CanMutate(actor, authz.EntityUser, authz.OpDelete) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	userID := c.Params("id")
	err := database.DeleteUser(config.GetDB(), userID)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete user"})
	}

	return c.JSON(fiber.Map{"success": true, "message": "User deactivated"})
}
