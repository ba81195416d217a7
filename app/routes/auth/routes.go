package auth

import (
	"strings"

	"puma-karate/app/authz"
	"puma-karate/app/config"
	"puma-karate/app/database"
	"puma-karate/app/models"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	auth := app.Group("/auth")

	// Public routes
	auth.Post("/register", RegisterAPI)
	auth.Post("/login", LoginAPI)
	auth.Post("/logout", LogoutAPI)

	// Protected routes
	auth.Use(AuthMiddleware)
	auth.Post("/change-password", ChangePasswordAPI)
}

// AuthMiddleware validates the JWT and loads the account from the database
// so the actor's role flags are always current, then stores both in the
// request context.
func AuthMiddleware(c *fiber.Ctx) error {
	var tokenString string

	// First try cookie
	tokenString = c.Cookies("jwt_token")

	// If no cookie, try Authorization header
	if tokenString == "" {
		header := c.Get("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			tokenString = strings.TrimPrefix(header, "Bearer ")
		}
	}

	if tokenString == "" {
		return c.Status(401).JSON(fiber.Map{"error": "Authentication required"})
	}

	claims, err := ValidateJWT(tokenString)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Invalid token"})
	}

	user, err := database.GetUserByID(config.GetDB(), claims.UserID)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Account not found or deactivated"})
	}

	actor := authz.ActorFromUser(user)
	c.Locals("user", user)
	c.Locals("actor", actor)

	return c.Next()
}

// CurrentActor returns the actor placed in the context by AuthMiddleware.
func CurrentActor(c *fiber.Ctx) authz.Actor {
	return c.Locals("actor").(authz.Actor)
}

// CurrentUser returns the full account row for the request.
func CurrentUser(c *fiber.Ctx) *models.User {
	return c.Locals("user").(*models.User)
}

// RequireStaff rejects non-staff callers before the handler runs.
func RequireStaff(c *fiber.Ctx) error {
	if CurrentActor(c).Role() != authz.RoleStaff {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}
	return c.Next()
}

// RequireCoach rejects callers without coach privileges (staff counts as
// coach).
func RequireCoach(c *fiber.Ctx) error {
	if !CurrentActor(c).EffectiveCoach() {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}
	return c.Next()
}
