package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanMutate(t *testing.T) {
	student := Actor{ID: "st1", IsStudent: true}
	coach := Actor{ID: "c1", IsCoach: true}
	staff := Actor{ID: "a1", IsStaff: true}

	tests := []struct {
		name    string
		actor   Actor
		entity  Entity
		op      Operation
		allowed bool
	}{
		{"student cannot create trainings", student, EntityTraining, OpCreate, false},
		{"student cannot delete groups", student, EntityGroup, OpDelete, false},
		{"student cannot record attendance", student, EntityAttendance, OpCreate, false},
		{"student cannot manage accounts", student, EntityUser, OpUpdate, false},
		{"student cannot publish news", student, EntityNews, OpCreate, false},
		{"student may self-register", student, EntityCompetitionRegistration, OpCreate, true},
		{"student may record achievements", student, EntityAchievement, OpCreate, true},

		{"coach creates trainings", coach, EntityTraining, OpCreate, true},
		{"coach manages memberships", coach, EntityGroupStudent, OpUpdate, true},
		{"coach manages competitions", coach, EntityCompetition, OpCreate, true},
		{"coach manages journal", coach, EntityJournal, OpDelete, true},
		{"coach cannot manage accounts", coach, EntityUser, OpCreate, false},
		{"coach cannot publish news", coach, EntityNews, OpUpdate, false},

		{"staff manages accounts", staff, EntityUser, OpDelete, true},
		{"staff publishes news", staff, EntityNews, OpCreate, true},
		{"staff creates trainings", staff, EntityTraining, OpCreate, true},
		{"staff manages gyms", staff, EntityGym, OpUpdate, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanMutate(tt.actor, tt.entity, tt.op))
		})
	}
}

func TestStaffImpliesCoachForMutations(t *testing.T) {
	// Staff without the coach flag still passes every coach-gated entity.
	staff := Actor{ID: "a1", IsStaff: true}
	for _, entity := range []Entity{
		EntityGroup, EntityGroupStudent, EntityTraining,
		EntityHomework, EntityAttendance, EntityCompetition,
		EntityJournal, EntityProgressNote, EntityTechniqueRecord,
	} {
		assert.True(t, CanMutate(staff, entity, OpCreate), "entity %d", entity)
	}
}
