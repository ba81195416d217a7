package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"puma-karate/app/authz"
	"puma-karate/app/models"

	"golang.org/x/crypto/bcrypt"
)

const userColumns = `u.id, u.email, u.password, u.first_name, u.last_name, u.patronymic, u.phone,
	u.date_of_birth, u.is_student, u.is_coach, u.is_staff, u.is_active, u.created_at, u.updated_at`

// hashPassword hashes a password using bcrypt
func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.Password, &user.FirstName, &user.LastName,
		&user.Patronymic, &user.Phone, &user.DateOfBirth,
		&user.IsStudent, &user.IsCoach, &user.IsStaff, &user.IsActive,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func GetUserByEmail(db *sql.DB, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.email = $1 AND u.is_active = true`
	return scanUser(db.QueryRow(query, email))
}

func GetUserByID(db *sql.DB, userID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.id = $1 AND u.is_active = true`
	return scanUser(db.QueryRow(query, userID))
}

// GetUserByIDScoped returns the user only when it falls inside the actor's
// visibility scope; anything else is sql.ErrNoRows.
func GetUserByIDScoped(db *sql.DB, userID string, scope authz.Scope) (*models.User, error) {
	conditions := []string{"u.id = $1", "u.is_active = true"}
	args := []interface{}{userID}
	extra, extraArgs, _ := scope.Render(2)
	conditions = append(conditions, extra...)
	args = append(args, extraArgs...)

	query := `SELECT ` + userColumns + ` FROM users u WHERE ` + strings.Join(conditions, " AND ")
	return scanUser(db.QueryRow(query, args...))
}

// ListUsers returns the users visible to the actor, active accounts only.
func ListUsers(db *sql.DB, scope authz.Scope) ([]*models.User, error) {
	conditions := []string{"u.is_active = true"}
	var args []interface{}
	extra, extraArgs, _ := scope.Render(1)
	conditions = append(conditions, extra...)
	args = append(args, extraArgs...)

	query := `SELECT ` + userColumns + ` FROM users u WHERE ` +
		strings.Join(conditions, " AND ") + ` ORDER BY u.first_name, u.last_name`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// CreateUser inserts a new account. Granting staff always grants coach in
// the same statement so the implication never goes stale.
func CreateUser(db *sql.DB, user *models.User) error {
	hashed, err := hashPassword(user.Password)
	if err != nil {
		return err
	}

	if user.IsStaff {
		user.IsCoach = true
	}

	query := `INSERT INTO users (email, password, first_name, last_name, patronymic, phone,
				date_of_birth, is_student, is_coach, is_staff, is_active, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, true, NOW(), NOW())
			  RETURNING id, created_at, updated_at`

	err = db.QueryRow(query, user.Email, hashed, user.FirstName, user.LastName,
		user.Patronymic, user.Phone, user.DateOfBirth,
		user.IsStudent, user.IsCoach, user.IsStaff).Scan(
		&user.ID, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return err
	}

	user.Password = ""
	user.IsActive = true
	return nil
}

// UpdateUser updates an account including role flags (staff path). The
// staff-implies-coach rule is applied before the row is written.
func UpdateUser(db *sql.DB, user *models.User) error {
	if user.IsStaff {
		user.IsCoach = true
	}

	query := `UPDATE users
			  SET email = $1, first_name = $2, last_name = $3, patronymic = $4, phone = $5,
				  date_of_birth = $6, is_student = $7, is_coach = $8, is_staff = $9, updated_at = NOW()
			  WHERE id = $10 AND is_active = true
			  RETURNING updated_at`

	err := db.QueryRow(query, user.Email, user.FirstName, user.LastName, user.Patronymic,
		user.Phone, user.DateOfBirth, user.IsStudent, user.IsCoach, user.IsStaff, user.ID).
		Scan(&user.UpdatedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("user not found")
	}
	return err
}

// ProfileUpdate carries the self-service fields a user may change on their
// own account. Role and staff flags are deliberately not here.
type ProfileUpdate struct {
	FirstName   *string    `json:"first_name,omitempty"`
	LastName    *string    `json:"last_name,omitempty"`
	Patronymic  *string    `json:"patronymic,omitempty"`
	Phone       *string    `json:"phone,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
}

// UpdateUserProfile applies a partial self-update of non-privileged fields.
func UpdateUserProfile(db *sql.DB, userID string, update ProfileUpdate) (*models.User, error) {
	var sets []string
	var args []interface{}
	argIndex := 1

	set := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}
	if update.FirstName != nil {
		set("first_name", *update.FirstName)
	}
	if update.LastName != nil {
		set("last_name", *update.LastName)
	}
	if update.Patronymic != nil {
		set("patronymic", *update.Patronymic)
	}
	if update.Phone != nil {
		set("phone", *update.Phone)
	}
	if update.DateOfBirth != nil {
		set("date_of_birth", *update.DateOfBirth)
	}
	if len(sets) == 0 {
		return GetUserByID(db, userID)
	}

	sets = append(sets, "updated_at = NOW()")
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d AND is_active = true`,
		strings.Join(sets, ", "), argIndex)
	args = append(args, userID)

	if _, err := db.Exec(query, args...); err != nil {
		return nil, err
	}
	return GetUserByID(db, userID)
}

func UpdateUserPassword(db *sql.DB, userID string, hashedPassword string) error {
	query := `UPDATE users SET password = $1, updated_at = NOW() WHERE id = $2`
	_, err := db.Exec(query, hashedPassword, userID)
	return err
}

// DeleteUser soft deletes an account (sets is_active = false).
func DeleteUser(db *sql.DB, userID string) error {
	query := `UPDATE users SET is_active = false, updated_at = NOW() WHERE id = $1`

	result, err := db.Exec(query, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %v", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %v", err)
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
