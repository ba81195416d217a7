package competitions

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

// GetCompetitionsAPI lists the competitions visible to the caller.
// Visibility follows the group whitelist: a competition with no visible
// groups is open to everyone, otherwise students see it only when they are
// active members of a listed group. With filter_by_age=true, competitions
// whose categories all exclude the caller's age are dropped as well; staff
// and users with no date of birth are never filtered.
func GetCompetitionsAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	scope := authz.ScopeFor(actor, authz.EntityCompetition)

	competitions, err := database.ListCompetitions(config.GetDB(), scope)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch competitions"})
	}

	filterByAge := c.QueryBool("filter_by_age") || c.QueryBool("filterByAge")
	competitions = authz.FilterCompetitionsByAge(actor, competitions, filterByAge, time.Now())

	return c.JSON(fiber.Map{
		"competitions": competitions,
		"count":        len(competitions),
	})
}

func GetCompetitionAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	scope := authz.ScopeFor(actor, authz.EntityCompetition)

	comp, err := database.GetCompetitionByIDScoped(config.GetDB(), c.Params("id"), scope)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Competition not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch competition"})
	}

	return c.JSON(fiber.Map{"competition": comp})
}

type competitionRequest struct {
	Name          string   `json:"name"`
	Location      string   `json:"location"`
	Date          string   `json:"date"`
	Description   string   `json:"description"`
	IsActive      *bool    `json:"is_active"`
	VisibleGroups []string `json:"visible_groups"`
}

func (r *competitionRequest) toCompetition() (*models.Competition, string) {
	if r.Name == "" || r.Location == "" || r.Date == "" {
		return nil, "Name, location and date are required"
	}
	date, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return nil, "Invalid date format, use YYYY-MM-DD"
	}
	comp := &models.Competition{
		Name:          r.Name,
		Location:      r.Location,
		Date:          date,
		Description:   r.Description,
		IsActive:      true,
		VisibleGroups: r.VisibleGroups,
	}
	if r.IsActive != nil {
		comp.IsActive = *r.IsActive
	}
	if comp.VisibleGroups == nil {
		comp.VisibleGroups = []string{}
	}
	return comp, ""
}

func CreateCompetitionAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if !authz.CanMutate(actor, authz.EntityCompetition, authz.OpCreate) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	var req competitionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	comp, msg := req.toCompetition()
	if msg != "" {
		return c.Status(400).JSON(fiber.Map{"error": msg})
	}

	if err := database.CreateCompetition(config.GetDB(), comp); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create competition"})
	}

	return c.Status(201).JSON(fiber.Map{"competition": comp})
}

func UpdateCompetitionAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if !authz.CanMutate(actor, authz.EntityCompetition, authz.OpUpdate) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	scope := authz.ScopeFor(actor, authz.EntityCompetition)
	existing, err := database.GetCompetitionByIDScoped(config.GetDB(), c.Params("id"), scope)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Competition not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch competition"})
	}

	var req competitionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	comp, msg := req.toCompetition()
	if msg != "" {
		return c.Status(400).JSON(fiber.Map{"error": msg})
	}
	comp.ID = existing.ID

	if err := database.UpdateCompetition(config.GetDB(), comp); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update competition"})
	}

	return c.JSON(fiber.Map{"competition": comp})
}

func DeleteCompetitionAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if !authz.CanMutate(actor, authz.EntityCompetition, authz.OpDelete) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	scope := authz.ScopeFor(actor, authz.EntityCompetition)
	comp, err := database.GetCompetitionByIDScoped(config.GetDB(), c.Params("id"), scope)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Competition not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch competition"})
	}

	if err := database.DeleteCompetition(config.GetDB(), comp.ID); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete competition"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// ===== Categories =====

// requireCompetitionInScope loads the parent competition through the
// caller's scope so nested resources leak nothing about hidden
// competitions.
func requireCompetitionInScope(actor authz.Actor, competitionID string) error {
	scope := authz.ScopeFor(actor, authz.EntityCompetition)
	_, err := database.GetCompetitionByIDScoped(config.GetDB(), competitionID, scope)
	return err
}

func GetCategoriesAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	competitionID := c.Params("id")

	if err := requireCompetitionInScope(actor, competitionID); err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Competition not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch competition"})
	}

	categories, err := database.ListCategories(config.GetDB(), competitionID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch categories"})
	}

	return c.JSON(fiber.Map{
		"categories": categories,
		"count":      len(categories),
	})
}

type categoryRequest struct {
	CompetitionID string `json:"competition_id"`
	Name          string `json:"name"`
	WeightMin     *int   `json:"weight_min"`
	WeightMax     *int   `json:"weight_max"`
	AgeMin        *int   `json:"age_min"`
	AgeMax        *int   `json:"age_max"`
}

func CreateCategoryAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if !authz.CanMutate(actor, authz.EntityCompetitionCategory, authz.OpCreate) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.CompetitionID == "" || req.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "competition_id and name are required"})
	}

	if err := requireCompetitionInScope(actor, req.CompetitionID); err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Competition not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch competition"})
	}

	cat := &models.CompetitionCategory{
		CompetitionID: req.CompetitionID,
		Name:          req.Name,
		WeightMin:     req.WeightMin,
		WeightMax:     req.WeightMax,
		AgeMin:        req.AgeMin,
		AgeMax:        req.AgeMax,
	}
	if err := database.CreateCategory(config.GetDB(), cat); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create category"})
	}

	return c.Status(201).JSON(fiber.Map{"category": cat})
}

func UpdateCategoryAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if !authz.CanMutate(actor, authz.EntityCompetitionCategory, authz.OpUpdate) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	cat, err := database.GetCategoryByID(config.GetDB(), c.Params("id"))
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Category not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch category"})
	}

	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Name != "" {
		cat.Name = req.Name
	}
	cat.WeightMin = req.WeightMin
	cat.WeightMax = req.WeightMax
	cat.AgeMin = req.AgeMin
	cat.AgeMax = req.AgeMax

	if err := database.UpdateCategory(config.GetDB(), cat); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update category"})
	}

	return c.JSON(fiber.Map{"category": cat})
}

func DeleteCategoryAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if !authz.CanMutate(actor, authz.EntityCompetitionCategory, authz.OpDelete) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	err := database.DeleteCategory(config.GetDB(), c.Params("id"))
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Category not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete category"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// ===== Registrations =====

// GetRegistrationsAPI lists registrations. Students see only their own;
// coaches and staff may filter by competition or user.
func GetRegistrationsAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)

	filters := database.RegistrationFilters{
		CompetitionID: c.Query("competition_id", c.Query("competition")),
		UserID:        c.Query("user_id", c.Query("user")),
	}
	if !actor.EffectiveCoach() {
		filters.UserID = actor.ID
	}

	registrations, err := database.ListRegistrations(config.GetDB(), filters)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch registrations"})
	}

	return c.JSON(fiber.Map{
		"registrations": registrations,
		"count":         len(registrations),
	})
}

type registrationRequest struct {
	UserID        string  `json:"user_id"`
	CompetitionID string  `json:"competition_id"`
	CategoryID    *string `json:"category_id"`
	IsConfirmed   *bool   `json:"is_confirmed"`
}

// CreateRegistrationAPI registers a user for a competition. Students can
// only register themselves and only for competitions they can see; staff
// and coaches may register anyone.
func CreateRegistrationAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)

	var req registrationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.CompetitionID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "competition_id is required"})
	}

	userID := req.UserID
	if userID == "" || !actor.EffectiveCoach() {
		userID = actor.ID
	}

	if err := requireCompetitionInScope(actor, req.CompetitionID); err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Competition not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch competition"})
	}

	reg := &models.CompetitionRegistration{
		UserID:        userID,
		CompetitionID: req.CompetitionID,
		CategoryID:    req.CategoryID,
	}
	if req.IsConfirmed != nil && actor.EffectiveCoach() {
		reg.IsConfirmed = *req.IsConfirmed
	}

	if err := database.CreateRegistration(config.GetDB(), reg); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create registration"})
	}

	return c.Status(201).JSON(fiber.Map{"registration": reg})
}

// ownsRegistration reports whether the actor may manage the registration:
// its owner, or staff. Coaches do not get blanket access to other
// students' registrations; they only toggle confirmation, gated below.
func ownsRegistration(actor authz.Actor, reg *models.CompetitionRegistration) bool {
	return reg.UserID == actor.ID || actor.Role() == authz.RoleStaff
}

func UpdateRegistrationAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)

	reg, err := database.GetRegistrationByID(config.GetDB(), c.Params("id"))
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Registration not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch registration"})
	}
	if !ownsRegistration(actor, reg) {
		return c.Status(404).JSON(fiber.Map{"error": "Registration not found"})
	}

	var req registrationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.CategoryID != nil {
		reg.CategoryID = req.CategoryID
	}
	// Confirmation is a coach action.
	if req.IsConfirmed != nil && actor.EffectiveCoach() {
		reg.IsConfirmed = *req.IsConfirmed
	}

	if err := database.UpdateRegistration(config.GetDB(), reg); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update registration"})
	}

	return c.JSON(fiber.Map{"registration": reg})
}

func DeleteRegistrationAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)

	reg, err := database.GetRegistrationByID(config.GetDB(), c.Params("id"))
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Registration not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch registration"})
	}
	if !ownsRegistration(actor, reg) {
		return c.Status(404).JSON(fiber.Map{"error": "Registration not found"})
	}

	if err := database.DeleteRegistration(config.GetDB(), reg.ID); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete registration"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// ===== Results =====

func GetResultsAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	competitionID := c.Params("id")

	if err := requireCompetitionInScope(actor, competitionID); err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Competition not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch competition"})
	}

	results, err := database.ListResults(config.GetDB(), competitionID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch results"})
	}

	return c.JSON(fiber.Map{
		"results": results,
		"count":   len(results),
	})
}

type resultRequest struct {
	RegistrationID string `json:"registration_id"`
	Place          int    `json:"place"`
	Score          *int   `json:"score"`
	Notes          string `json:"notes"`
}

func CreateResultAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if !authz.CanMutate(actor, authz.EntityCompetitionResult, authz.OpCreate) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	var req resultRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.RegistrationID == "" || req.Place < 1 {
		return c.Status(400).JSON(fiber.Map{"error": "registration_id and a positive place are required"})
	}

	if _, err := database.GetRegistrationByID(config.GetDB(), req.RegistrationID); err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Registration not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch registration"})
	}

	res := &models.CompetitionResult{
		RegistrationID: req.RegistrationID,
		Place:          req.Place,
		Score:          req.Score,
		Notes:          req.Notes,
	}
	if err := database.CreateResult(config.GetDB(), res); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create result"})
	}

	return c.Status(201).JSON(fiber.Map{"result": res})
}

func UpdateResultAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if !authz.CanMutate(actor, authz.EntityCompetitionResult, authz.OpUpdate) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	res, err := database.GetResultByID(config.GetDB(), c.Params("id"))
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Result not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch result"})
	}

	var req resultRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Place >= 1 {
		res.Place = req.Place
	}
	res.Score = req.Score
	res.Notes = req.Notes

	if err := database.UpdateResult(config.GetDB(), res); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update result"})
	}

	return c.JSON(fiber.Map{"result": res})
}

func DeleteResultAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if !authz.CanMutate(actor, authz.EntityCompetitionResult, authz.OpDelete) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	err := database.DeleteResult(config.GetDB(), c.Params("id"))
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Result not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete result"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// ===== Team results =====

func GetTeamResultsAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	competitionID := c.Params("id")

	if err := requireCompetitionInScope(actor, competitionID); err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Competition not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch competition"})
	}

	results, err := database.ListTeamResults(config.GetDB(), competitionID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch team results"})
	}

	return c.JSON(fiber.Map{
		"team_results": results,
		"count":        len(results),
	})
}

type teamResultRequest struct {
	CompetitionID string `json:"competition_id"`
	TeamName      string `json:"team_name"`
	Place         int    `json:"place"`
	Achievements  string `json:"achievements"`
}

func CreateTeamResultAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if !authz.CanMutate(actor, authz.EntityTeamCompetitionResult, authz.OpCreate) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	var req teamResultRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.CompetitionID == "" || req.TeamName == "" || req.Place < 1 {
		return c.Status(400).JSON(fiber.Map{"error": "competition_id, team_name and a positive place are required"})
	}

	if err := requireCompetitionInScope(actor, req.CompetitionID); err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Competition not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch competition"})
	}

	res := &models.TeamCompetitionResult{
		CompetitionID: req.CompetitionID,
		TeamName:      req.TeamName,
		Place:         req.Place,
		Achievements:  req.Achievements,
	}
	if err := database.CreateTeamResult(config.GetDB(), res); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create team result"})
	}

	return c.Status(201).JSON(fiber.Map{"team_result": res})
}

func UpdateTeamResultAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if !authz.CanMutate(actor, authz.EntityTeamCompetitionResult, authz.OpUpdate) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	var req teamResultRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.TeamName == "" || req.Place < 1 {
		return c.Status(400).JSON(fiber.Map{"error": "team_name and a positive place are required"})
	}

	res := &models.TeamCompetitionResult{
		ID:           c.Params("id"),
		TeamName:     req.TeamName,
		Place:        req.Place,
		Achievements: req.Achievements,
	}
	err := database.UpdateTeamResult(config.GetDB(), res)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Team result not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update team result"})
	}

	return c.JSON(fiber.Map{"team_result": res})
}

func DeleteTeamResultAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if !authz.CanMutate(actor, authz.EntityTeamCompetitionResult, authz.OpDelete) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	err := database.DeleteTeamResult(config.GetDB(), c.Params("id"))
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Team result not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete team result"})
	}

	return c.JSON(fiber.Map{"success": true})
}
