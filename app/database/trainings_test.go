package database

import (
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"puma-karate/app/authz"
	"puma-karate/app/models"
)

func TestCreateTrainingRejectsTakenSlot(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	date := time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM trainings WHERE group_id = $1 AND date = $2 AND time_start = $3 LIMIT 1`)).
		WithArgs("g1", date, "18:00").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("t-existing"))

	training := &models.Training{GroupID: "g1", Date: date, TimeStart: "18:00", TimeEnd: "19:30"}
	err = CreateTraining(db, training)
	require.Error(t, err)
	assert.Equal(t, "training slot already taken", err.Error())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkCreateTrainingsPartialSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	firstDate := time.Date(2025, time.May, 12, 0, 0, 0, 0, time.UTC)
	thirdDate := time.Date(2025, time.May, 14, 0, 0, 0, 0, time.UTC)

	// Item 0 goes through.
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM trainings WHERE group_id = $1 AND date = $2 AND time_start = $3 LIMIT 1`)).
		WithArgs("g1", firstDate, "18:00").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO trainings`)).
		WithArgs("g1", firstDate, "18:00", "19:30", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("t1", now, now))

	// Item 1 has an unparseable date and never reaches the database.

	// Item 2 collides with an existing slot.
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM trainings WHERE group_id = $1 AND date = $2 AND time_start = $3 LIMIT 1`)).
		WithArgs("g1", thirdDate, "18:00").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("t-existing"))

	items := []BulkTrainingItem{
		{Date: "2025-05-12", TimeStart: "18:00", TimeEnd: "19:30"},
		{Date: "12.05.2025", TimeStart: "18:00", TimeEnd: "19:30"},
		{Date: "2025-05-14", TimeStart: "18:00", TimeEnd: "19:30"},
	}
	created, itemErrors := BulkCreateTrainings(db, "g1", items)

	require.Len(t, created, 1)
	assert.Equal(t, "t1", created[0].ID)

	require.Len(t, itemErrors, 2)
	assert.Equal(t, 1, itemErrors[0].Index)
	assert.Equal(t, "12.05.2025", itemErrors[0].Date)
	assert.Contains(t, itemErrors[0].Error, "invalid date format")
	assert.Equal(t, 2, itemErrors[1].Index)
	assert.Equal(t, "training slot already taken", itemErrors[1].Error)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkCreateTrainingsValidatesTimes(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	items := []BulkTrainingItem{
		{Date: "2025-05-12", TimeStart: "6pm", TimeEnd: "19:30"},
		{Date: "2025-05-12", TimeStart: "18:00", TimeEnd: "half eight"},
	}
	created, itemErrors := BulkCreateTrainings(db, "g1", items)

	assert.Empty(t, created)
	require.Len(t, itemErrors, 2)
	assert.Contains(t, itemErrors[0].Error, "time_start")
	assert.Contains(t, itemErrors[1].Error, "time_end")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTrainingsComposesFiltersAndScope(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	date := time.Date(2025, time.May, 12, 0, 0, 0, 0, time.UTC)

	coach := authz.Actor{ID: "c1", IsCoach: true}
	scope := authz.ScopeFor(coach, authz.EntityTraining)

	rows := sqlmock.NewRows([]string{
		"id", "group_id", "date", "time_start", "time_end", "topic", "created_at", "updated_at", "name",
	}).AddRow("t1", "g1", date, "18:00", "19:30", nil, now, now, "Juniors")

	// The group filter takes $1, the scope predicate is renumbered after it.
	mock.ExpectQuery(`SELECT .+ FROM trainings t.+WHERE .+t\.group_id = \$1.+g\.coach_id = \$2.+ORDER BY t\.date`).
		WithArgs("g1", "c1").
		WillReturnRows(rows)

	trainings, err := ListTrainings(db, scope, TrainingFilters{GroupID: "g1"})
	require.NoError(t, err)
	require.Len(t, trainings, 1)
	assert.Equal(t, "t1", trainings[0].ID)
	assert.Equal(t, "Juniors", trainings[0].Group.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTrainingByIDScopedHidesForeignGroupTraining(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	coach := authz.Actor{ID: "c1", IsCoach: true}
	scope := authz.ScopeFor(coach, authz.EntityTraining)

	// A training scheduled for a group coached by someone else falls outside
	// the WHERE clause and comes back as no rows.
	mock.ExpectQuery(`SELECT .+ FROM trainings t WHERE t\.id = \$1 AND t\.group_id IN \(SELECT g\.id FROM groups g WHERE g\.coach_id = \$2\)`).
		WithArgs("t-foreign", "c1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = GetTrainingByIDScoped(db, "t-foreign", scope)
	assert.Equal(t, sql.ErrNoRows, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTrainingByIDScopedReturnsOwnGroupTraining(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	date := time.Date(2025, time.May, 12, 0, 0, 0, 0, time.UTC)

	coach := authz.Actor{ID: "c1", IsCoach: true}
	scope := authz.ScopeFor(coach, authz.EntityTraining)

	rows := sqlmock.NewRows([]string{
		"id", "group_id", "date", "time_start", "time_end", "topic", "created_at", "updated_at",
	}).AddRow("t1", "g1", date, "18:00", "19:30", nil, now, now)

	mock.ExpectQuery(`SELECT .+ FROM trainings t WHERE t\.id = \$1 AND t\.group_id IN \(SELECT g\.id FROM groups g WHERE g\.coach_id = \$2\)`).
		WithArgs("t1", "c1").
		WillReturnRows(rows)

	training, err := GetTrainingByIDScoped(db, "t1", scope)
	require.NoError(t, err)
	assert.Equal(t, "t1", training.ID)
	assert.Equal(t, "g1", training.GroupID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
