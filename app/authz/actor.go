// Package authz is the authorization core: it derives the caller's role,
// computes per-entity row visibility scopes and decides whether a mutation
// is permitted. Everything here is a pure decision over the actor's role
// flags; the database package applies the resulting predicates.
package authz

import (
	"time"

	"puma-karate/app/models"
)

type Role int

const (
	RoleStudent Role = iota
	RoleCoach
	RoleStaff
)

func (r Role) String() string {
	switch r {
	case RoleStaff:
		return "staff"
	case RoleCoach:
		return "coach"
	default:
		return "student"
	}
}

// Actor is the authenticated caller. Role flags are read fresh from the
// users table on every request, never from token claims, so revoking a
// flag takes effect immediately.
type Actor struct {
	ID          string
	IsStudent   bool
	IsCoach     bool
	IsStaff     bool
	DateOfBirth *time.Time
}

func ActorFromUser(u *models.User) Actor {
	return Actor{
		ID:          u.ID,
		IsStudent:   u.IsStudent,
		IsCoach:     u.IsCoach,
		IsStaff:     u.IsStaff,
		DateOfBirth: u.DateOfBirth,
	}
}

// EffectiveCoach reports whether the actor has coach privileges. Staff
// implies coach even if the underlying is_coach flag was never set.
func (a Actor) EffectiveCoach() bool {
	return a.IsCoach || a.IsStaff
}

// Role derives the single role used for scoping, precedence
// staff > coach > student. An actor that is both student and coach is
// scoped as a coach.
func (a Actor) Role() Role {
	switch {
	case a.IsStaff:
		return RoleStaff
	case a.IsCoach:
		return RoleCoach
	default:
		return RoleStudent
	}
}

// Age returns the actor's age in whole years at the given moment, or nil
// when the date of birth is unknown.
func (a Actor) Age(now time.Time) *int {
	if a.DateOfBirth == nil {
		return nil
	}
	dob := *a.DateOfBirth
	years := now.Year() - dob.Year()
	// Birthday not yet reached this year.
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	if years < 0 {
		years = 0
	}
	return &years
}
