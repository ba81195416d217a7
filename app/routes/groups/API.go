package groups

import (
	"database/sql"

	"puma-karate/app/authz"
	"puma-karate/app/config"
	"puma-karate/app/database"
	"puma-karate/app/models"
	"puma-karate/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

// GetGroupsAPI returns the groups visible to the caller: staff see all
// groups, coaches their own, students the groups they are active members of.
func GetGroupsAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	scope := authz.ScopeFor(actor, authz.EntityGroup)

	filters := database.GroupFilters{
		CoachID: c.Query("coach_id", c.Query("coach")),
		GymID:   c.Query("gym_id", c.Query("gym")),
	}

	groups, err := database.ListGroups(config.GetDB(), scope, filters)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch groups"})
	}

	return c.JSON(fiber.Map{
		"groups": groups,
		"count":  len(groups),
	})
}

func GetGroupAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	scope := authz.ScopeFor(actor, authz.EntityGroup)

	group, err := database.GetGroupByIDScoped(config.GetDB(), c.Params("id"), scope)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Group not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch group"})
	}

	return c.JSON(fiber.Map{"group": group})
}

type groupRequest struct {
	CoachID string `json:"coach_id"`
	GymID   string `json:"gym_id"`
	Name    string `json:"name"`
}

func CreateGroupAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if !authz.CanMutate(actor, authz.EntityGroup, authz.OpCreate) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	var req groupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Name == "" || req.GymID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Name and gym_id are required"})
	}

	// A coach creating a group owns it; staff may assign any coach.
	coachID := req.CoachID
	if coachID == "" || actor.Role() != authz.RoleStaff {
		coachID = actor.ID
	}

	group := &models.Group{CoachID: coachID, GymID: req.GymID, Name: req.Name}
	if err := database.CreateGroup(config.GetDB(), group); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create group"})
	}

	return c.Status(201).JSON(fiber.Map{"group": group})
}

func UpdateGroupAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if !authz.CanMutate(actor, authz.EntityGroup, authz.OpUpdate) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	scope := authz.ScopeFor(actor, authz.EntityGroup)
	group, err := database.GetGroupByIDScoped(config.GetDB(), c.Params("id"), scope)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Group not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch group"})
	}

	var req groupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Name != "" {
		group.Name = req.Name
	}
	if req.GymID != "" {
		group.GymID = req.GymID
	}
	// Reassigning the coach is a staff operation.
	if req.CoachID != "" && actor.Role() == authz.RoleStaff {
		group.CoachID = req.CoachID
	}

	if err := database.UpdateGroup(config.GetDB(), group); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update group"})
	}

	return c.JSON(fiber.Map{"group": group})
}

func DeleteGroupAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if !authz.CanMutate(actor, authz.EntityGroup, authz.OpDelete) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	scope := authz.ScopeFor(actor, authz.EntityGroup)
	if _, err := database.GetGroupByIDScoped(config.GetDB(), c.Params("id"), scope); err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Group not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch group"})
	}

	if err := database.DeleteGroup(config.GetDB(), c.Params("id")); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete group"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// ===== Group membership =====

func GetGroupStudentsAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	scope := authz.ScopeFor(actor, authz.EntityGroupStudent)

	filters := database.GroupStudentFilters{
		GroupID:   c.Query("group_id", c.Query("group")),
		StudentID: c.Query("student_id", c.Query("student")),
	}
	if c.Query("active") != "" {
		active := c.QueryBool("active")
		filters.Active = &active
	}

	members, err := database.ListGroupStudents(config.GetDB(), scope, filters)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch group students"})
	}

	return c.JSON(fiber.Map{
		"group_students": members,
		"count":          len(members),
	})
}

func GetGroupStudentAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	scope := authz.ScopeFor(actor, authz.EntityGroupStudent)

	member, err := database.GetGroupStudentByIDScoped(config.GetDB(), c.Params("id"), scope)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Group student not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch group student"})
	}

	return c.JSON(fiber.Map{"group_student": member})
}

type assignRequest struct {
	GroupID   string `json:"group_id"`
	StudentID string `json:"student_id"`
}

// AssignStudentAPI enrolls a student into a group. The target group must be
// inside the caller's own scope, so a coach can only fill their own groups.
func AssignStudentAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if !authz.CanMutate(actor, authz.EntityGroupStudent, authz.OpCreate) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	var req assignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.GroupID == "" || req.StudentID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "group_id and student_id are required"})
	}

	groupScope := authz.ScopeFor(actor, authz.EntityGroup)
	if _, err := database.GetGroupByIDScoped(config.GetDB(), req.GroupID, groupScope); err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Group not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch group"})
	}

	member, err := database.AssignStudentToGroup(config.GetDB(), req.GroupID, req.StudentID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to assign student"})
	}

	return c.Status(201).JSON(fiber.Map{"group_student": member})
}

type memberUpdateRequest struct {
	IsActive *bool `json:"is_active"`
}

func UpdateGroupStudentAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if !authz.CanMutate(actor, authz.EntityGroupStudent, authz.OpUpdate) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	scope := authz.ScopeFor(actor, authz.EntityGroupStudent)
	member, err := database.GetGroupStudentByIDScoped(config.GetDB(), c.Params("id"), scope)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Group student not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch group student"})
	}

	var req memberUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.IsActive == nil {
		return c.Status(400).JSON(fiber.Map{"error": "is_active is required"})
	}

	updated, err := database.SetGroupStudentActive(config.GetDB(), member.ID, *req.IsActive)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update group student"})
	}

	return c.JSON(fiber.Map{"group_student": updated})
}

// RemoveGroupStudentAPI deactivates the membership. History stays intact.
func RemoveGroupStudentAPI(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)
	if !authz.CanMutate(actor, authz.EntityGroupStudent, authz.OpDelete) {
		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	scope := authz.ScopeFor(actor, authz.EntityGroupStudent)
	member, err := database.GetGroupStudentByIDScoped(config.GetDB(), c.Params("id"), scope)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Group student not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch group student"})
	}

	if err := database.RemoveGroupStudent(config.GetDB(), member.ID); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to remove group student"})
	}

	return c.JSON(fiber.Map{"success": true, "message": "Student removed from group"})
}
