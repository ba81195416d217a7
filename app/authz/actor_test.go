package authz

import (
	"testing"
	"time"

	"puma-karate/app/models"

	"github.com/stretchr/testify/assert"
)

func TestRolePrecedence(t *testing.T) {
	tests := []struct {
		name  string
		actor Actor
		want  Role
	}{
		{"plain student", Actor{IsStudent: true}, RoleStudent},
		{"coach", Actor{IsCoach: true}, RoleCoach},
		{"staff", Actor{IsStaff: true}, RoleStaff},
		{"student and coach is scoped as coach", Actor{IsStudent: true, IsCoach: true}, RoleCoach},
		{"coach and staff is scoped as staff", Actor{IsCoach: true, IsStaff: true}, RoleStaff},
		{"all flags is staff", Actor{IsStudent: true, IsCoach: true, IsStaff: true}, RoleStaff},
		{"no flags falls back to student", Actor{}, RoleStudent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.actor.Role())
		})
	}
}

func TestEffectiveCoach(t *testing.T) {
	assert.False(t, Actor{IsStudent: true}.EffectiveCoach())
	assert.True(t, Actor{IsCoach: true}.EffectiveCoach())
	// Staff counts as coach even without the coach flag.
	assert.True(t, Actor{IsStaff: true}.EffectiveCoach())
	assert.True(t, Actor{IsStudent: true, IsCoach: true}.EffectiveCoach())
}

func TestActorAge(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

	dob := func(y int, m time.Month, d int) *time.Time {
		v := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return &v
	}

	tests := []struct {
		name string
		dob  *time.Time
		want *int
	}{
		{"unknown date of birth", nil, nil},
		{"birthday already passed", dob(2013, time.March, 1), intPtr(12)},
		{"birthday today", dob(2013, time.June, 15), intPtr(12)},
		{"birthday tomorrow", dob(2013, time.June, 16), intPtr(11)},
		{"birthday later this year", dob(2013, time.December, 31), intPtr(11)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actor := Actor{DateOfBirth: tt.dob}
			got := actor.Age(now)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			if assert.NotNil(t, got) {
				assert.Equal(t, *tt.want, *got)
			}
		})
	}
}

func TestActorFromUser(t *testing.T) {
	dob := time.Date(2010, time.January, 2, 0, 0, 0, 0, time.UTC)
	user := &models.User{
		ID:          "u1",
		IsStudent:   true,
		IsCoach:     true,
		DateOfBirth: &dob,
	}
	actor := ActorFromUser(user)
	assert.Equal(t, "u1", actor.ID)
	assert.True(t, actor.IsStudent)
	assert.True(t, actor.IsCoach)
	assert.False(t, actor.IsStaff)
	assert.Equal(t, &dob, actor.DateOfBirth)
}

func intPtr(v int) *int { return &v }
