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

func userRows(id string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "email", "password", "first_name", "last_name", "patronymic", "phone",
		"date_of_birth", "is_student", "is_coach", "is_staff", "is_active", "created_at", "updated_at",
	}).AddRow(id, "a@b.c", "hash", "Ivan", "Petrov", nil, nil, nil, true, false, false, true, now, now)
}

func TestGetUserByIDScopedHidesForeignRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	student := authz.Actor{ID: "st1", IsStudent: true}
	scope := authz.ScopeFor(student, authz.EntityUser)

	// The scope predicate lands in the WHERE clause, so a row outside it
	// simply comes back as no rows.
	mock.ExpectQuery(`SELECT .+ FROM users u WHERE u\.id = \$1 AND u\.is_active = true AND u\.id = \$2`).
		WithArgs("other-user", "st1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = GetUserByIDScoped(db, "other-user", scope)
	assert.Equal(t, sql.ErrNoRows, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByIDScopedReturnsOwnRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	student := authz.Actor{ID: "st1", IsStudent: true}
	scope := authz.ScopeFor(student, authz.EntityUser)

	mock.ExpectQuery(`SELECT .+ FROM users u WHERE u\.id = \$1 AND u\.is_active = true AND u\.id = \$2`).
		WithArgs("st1", "st1").
		WillReturnRows(userRows("st1"))

	user, err := GetUserByIDScoped(db, "st1", scope)
	require.NoError(t, err)
	assert.Equal(t, "st1", user.ID)
	assert.Equal(t, "Ivan", user.FirstName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserStaffImpliesCoach(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs("a@b.c", sqlmock.AnyArg(), "Anna", "Orlova", nil, nil, nil,
			false, true, true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("u1", now, now))

	user := &models.User{
		Email:     "a@b.c",
		Password:  "secret",
		FirstName: "Anna",
		LastName:  "Orlova",
		IsStaff:   true,
	}
	require.NoError(t, CreateUser(db, user))

	// Granting staff granted coach in the same write.
	assert.True(t, user.IsCoach)
	assert.Equal(t, "u1", user.ID)
	assert.Empty(t, user.Password)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUserSoftDeletes(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET is_active = false, updated_at = NOW() WHERE id = $1`)).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, DeleteUser(db, "u1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUserMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET is_active = false, updated_at = NOW() WHERE id = $1`)).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.Equal(t, sql.ErrNoRows, DeleteUser(db, "missing"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
