package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"puma-karate/app/authz"
)

func TestListCompetitionsAppliesStudentScope(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	date := time.Date(2025, time.October, 4, 0, 0, 0, 0, time.UTC)

	student := authz.Actor{ID: "st1", IsStudent: true}
	scope := authz.ScopeFor(student, authz.EntityCompetition)

	// The whitelist predicate runs in SQL; only rows that are open or
	// whitelisted for the student's active groups come back.
	mock.ExpectQuery(`SELECT .+ FROM competitions c\s+WHERE c\.is_active = true AND \(NOT EXISTS`).
		WithArgs("st1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "location", "date", "description", "is_active", "created_at", "updated_at",
		}).AddRow("comp1", "City Cup", "Moscow", date, "", true, now, now))

	mock.ExpectQuery(`SELECT competition_id, group_id FROM competition_visible_groups`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"competition_id", "group_id"}).
			AddRow("comp1", "g1"))

	mock.ExpectQuery(`SELECT id, competition_id, name, weight_min, weight_max, age_min, age_max`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "competition_id", "name", "weight_min", "weight_max", "age_min", "age_max",
		}).AddRow("cat1", "comp1", "Juniors -45kg", 40, 45, 10, 12))

	competitions, err := ListCompetitions(db, scope)
	require.NoError(t, err)
	require.Len(t, competitions, 1)

	comp := competitions[0]
	assert.Equal(t, "City Cup", comp.Name)
	assert.Equal(t, []string{"g1"}, comp.VisibleGroups)
	require.Len(t, comp.Categories, 1)
	assert.Equal(t, "Juniors -45kg", comp.Categories[0].Name)
	require.NotNil(t, comp.Categories[0].AgeMin)
	assert.Equal(t, 10, *comp.Categories[0].AgeMin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListCompetitionsEmptyResultSkipsAttachQueries(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	staff := authz.Actor{ID: "a1", IsStaff: true}
	scope := authz.ScopeFor(staff, authz.EntityCompetition)

	mock.ExpectQuery(`SELECT .+ FROM competitions c\s+WHERE c\.is_active = true`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "location", "date", "description", "is_active", "created_at", "updated_at",
		}))

	competitions, err := ListCompetitions(db, scope)
	require.NoError(t, err)
	assert.Empty(t, competitions)
	assert.NoError(t, mock.ExpectationsWereMet())
}
