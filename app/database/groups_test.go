package database

import (
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignStudentToGroupCreatesMembership(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	joined := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	// Any other active membership of the student is deactivated first.
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE group_students SET is_active = false
					  WHERE student_id = $1 AND group_id <> $2 AND is_active = true`)).
		WithArgs("st1", "g1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	// No prior row for this pair, so a new one is inserted.
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM group_students WHERE group_id = $1 AND student_id = $2`)).
		WithArgs("g1", "st1").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO group_students`)).
		WithArgs("g1", "st1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "joined_at"}).AddRow("m1", joined))
	mock.ExpectCommit()

	member, err := AssignStudentToGroup(db, "g1", "st1")
	require.NoError(t, err)
	assert.Equal(t, "m1", member.ID)
	assert.Equal(t, "g1", member.GroupID)
	assert.Equal(t, "st1", member.StudentID)
	assert.True(t, member.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignStudentToGroupReactivatesExistingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	joined := time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE group_students SET is_active = false
					  WHERE student_id = $1 AND group_id <> $2 AND is_active = true`)).
		WithArgs("st1", "g1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	// The pair already exists: the old row is reactivated, no duplicate.
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM group_students WHERE group_id = $1 AND student_id = $2`)).
		WithArgs("g1", "st1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("m1"))
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE group_students SET is_active = true WHERE id = $1`)).
		WithArgs("m1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "joined_at"}).AddRow("m1", joined))
	mock.ExpectCommit()

	member, err := AssignStudentToGroup(db, "g1", "st1")
	require.NoError(t, err)
	assert.Equal(t, "m1", member.ID)
	assert.Equal(t, joined, member.JoinedAt)
	assert.True(t, member.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignStudentToGroupRollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE group_students SET is_active = false`)).
		WithArgs("st1", "g1").
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	_, err = AssignStudentToGroup(db, "g1", "st1")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetGroupStudentActiveDeactivatesOthers(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	joined := time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE group_students SET is_active = $1 WHERE id = $2`)).
		WithArgs(true, "m1").
		WillReturnRows(sqlmock.NewRows([]string{"group_id", "student_id", "joined_at"}).
			AddRow("g1", "st1", joined))
	// Activating one membership deactivates the student's other rows.
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE group_students SET is_active = false
						  WHERE student_id = $1 AND id <> $2 AND is_active = true`)).
		WithArgs("st1", "m1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	member, err := SetGroupStudentActive(db, "m1", true)
	require.NoError(t, err)
	assert.True(t, member.IsActive)
	assert.Equal(t, "st1", member.StudentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetGroupStudentInactiveSkipsDeactivation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	joined := time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE group_students SET is_active = $1 WHERE id = $2`)).
		WithArgs(false, "m1").
		WillReturnRows(sqlmock.NewRows([]string{"group_id", "student_id", "joined_at"}).
			AddRow("g1", "st1", joined))
	mock.ExpectCommit()

	member, err := SetGroupStudentActive(db, "m1", false)
	require.NoError(t, err)
	assert.False(t, member.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveGroupStudentDeactivatesOnly(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// Removal never deletes the row.
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE group_students SET is_active = false WHERE id = $1`)).
		WithArgs("m1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, RemoveGroupStudent(db, "m1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveGroupStudentMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE group_students SET is_active = false WHERE id = $1`)).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = RemoveGroupStudent(db, "missing")
	assert.Equal(t, sql.ErrNoRows, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
