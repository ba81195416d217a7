package authz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allEntities = []Entity{
	EntityUser, EntityGym, EntityGroup, EntityGroupStudent,
	EntityTraining, EntityHomework, EntityAttendance,
	EntityCompetition, EntityCompetitionCategory,
	EntityCompetitionRegistration, EntityCompetitionResult,
	EntityTeamCompetitionResult,
	EntityJournal, EntityProgressNote, EntityTechniqueRecord,
	EntityNews, EntityAchievement,
}

func TestStaffScopeIsUnrestricted(t *testing.T) {
	staff := Actor{ID: "s1", IsStaff: true}
	for _, entity := range allEntities {
		scope := ScopeFor(staff, entity)
		assert.True(t, scope.Unrestricted(), "entity %d", entity)
	}
}

func TestStudentCoachScopedAsCoach(t *testing.T) {
	hybrid := Actor{ID: "c1", IsStudent: true, IsCoach: true}
	scope := ScopeFor(hybrid, EntityGroup)

	exprs, args, _ := scope.Render(1)
	require.Len(t, exprs, 1)
	assert.Equal(t, "g.coach_id = $1", exprs[0])
	assert.Equal(t, []interface{}{"c1"}, args)
}

func TestStudentScopes(t *testing.T) {
	student := Actor{ID: "st1", IsStudent: true}

	tests := []struct {
		entity   Entity
		contains string
	}{
		{EntityUser, "u.id = $1"},
		{EntityGroupStudent, "gs.student_id = $1"},
		{EntityHomework, "h.student_id = $1"},
		{EntityAttendance, "a.student_id = $1"},
		{EntityJournal, "j.student_id = $1"},
		{EntityProgressNote, "pn.student_id = $1"},
		{EntityTechniqueRecord, "tr.student_id = $1"},
	}
	for _, tt := range tests {
		scope := ScopeFor(student, tt.entity)
		exprs, args, next := scope.Render(1)
		require.Len(t, exprs, 1, "entity %d", tt.entity)
		assert.Equal(t, tt.contains, exprs[0])
		assert.Equal(t, []interface{}{"st1"}, args)
		assert.Equal(t, 2, next)
	}
}

func TestStudentTrainingScopeUsesActiveMembership(t *testing.T) {
	student := Actor{ID: "st1", IsStudent: true}
	exprs, args, _ := ScopeFor(student, EntityTraining).Render(3)

	require.Len(t, exprs, 1)
	assert.Contains(t, exprs[0], "gs.student_id = $3")
	assert.Contains(t, exprs[0], "gs.is_active = true")
	assert.Equal(t, []interface{}{"st1"}, args)
}

func TestCoachScopesFollowOwnedGroups(t *testing.T) {
	coach := Actor{ID: "c1", IsCoach: true}

	for _, entity := range []Entity{EntityGroupStudent, EntityTraining, EntityHomework, EntityAttendance} {
		exprs, args, _ := ScopeFor(coach, entity).Render(1)
		require.Len(t, exprs, 1, "entity %d", entity)
		assert.Contains(t, exprs[0], "g.coach_id = $1")
		assert.Equal(t, []interface{}{"c1"}, args)
	}
}

func TestCoachSeesAllTechniqueRecords(t *testing.T) {
	coach := Actor{ID: "c1", IsCoach: true}
	assert.True(t, ScopeFor(coach, EntityTechniqueRecord).Unrestricted())
}

func TestCompetitionScopeOpenOrWhitelisted(t *testing.T) {
	student := Actor{ID: "st1", IsStudent: true}
	exprs, args, _ := ScopeFor(student, EntityCompetition).Render(1)

	require.Len(t, exprs, 1)
	// Competitions with no whitelist rows are open to everyone.
	assert.Contains(t, exprs[0], "NOT EXISTS")
	// Otherwise visibility requires an active membership in a listed group.
	assert.Contains(t, exprs[0], "gs.student_id = $1")
	assert.Contains(t, exprs[0], "gs.is_active = true")
	assert.Equal(t, []interface{}{"st1"}, args)
}

func TestCompetitionScopeForCoachUsesOwnedGroups(t *testing.T) {
	coach := Actor{ID: "c1", IsCoach: true}
	exprs, args, _ := ScopeFor(coach, EntityCompetition).Render(1)

	require.Len(t, exprs, 1)
	assert.Contains(t, exprs[0], "NOT EXISTS")
	assert.Contains(t, exprs[0], "g.coach_id = $1")
	assert.Equal(t, []interface{}{"c1"}, args)
}

func TestRenderRenumbersPlaceholders(t *testing.T) {
	var s Scope
	s.where("x.a = $%d", "first")
	s.where("x.b = $%d AND x.c = $%d", "second", "third")

	exprs, args, next := s.Render(5)
	require.Len(t, exprs, 2)
	assert.Equal(t, "x.a = $5", exprs[0])
	assert.Equal(t, "x.b = $6 AND x.c = $7", exprs[1])
	assert.Equal(t, []interface{}{"first", "second", "third"}, args)
	assert.Equal(t, 8, next)

	joined := strings.Join(exprs, " AND ")
	assert.NotContains(t, joined, "%d")
}
