package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"puma-karate/app/authz"
	"puma-karate/app/models"
)

// ===== Gyms =====

func GetAllGyms(db *sql.DB) ([]*models.Gym, error) {
	query := `SELECT gy.id, gy.coach_id, gy.address, gy.work_time, gy.created_at, gy.updated_at,
			  u.first_name, u.last_name, u.email
			  FROM gyms gy
			  LEFT JOIN users u ON gy.coach_id = u.id
			  ORDER BY gy.address`

	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	gyms := []*models.Gym{}
	for rows.Next() {
		gym := &models.Gym{}
		var coachFirstName, coachLastName, coachEmail *string
		err := rows.Scan(
			&gym.ID, &gym.CoachID, &gym.Address, &gym.WorkTime, &gym.CreatedAt, &gym.UpdatedAt,
			&coachFirstName, &coachLastName, &coachEmail,
		)
		if err != nil {
			return nil, err
		}
		if gym.CoachID != nil && coachFirstName != nil {
			gym.Coach = &models.User{
				ID:        *gym.CoachID,
				FirstName: *coachFirstName,
				LastName:  *coachLastName,
				Email:     *coachEmail,
			}
		}
		gyms = append(gyms, gym)
	}
	return gyms, rows.Err()
}

func GetGymByID(db *sql.DB, id string) (*models.Gym, error) {
	gym := &models.Gym{}
	query := `SELECT id, coach_id, address, work_time, created_at, updated_at FROM gyms WHERE id = $1`
	err := db.QueryRow(query, id).Scan(
		&gym.ID, &gym.CoachID, &gym.Address, &gym.WorkTime, &gym.CreatedAt, &gym.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return gym, nil
}

func CreateGym(db *sql.DB, gym *models.Gym) error {
	query := `INSERT INTO gyms (coach_id, address, work_time, created_at, updated_at)
			  VALUES ($1, $2, $3, NOW(), NOW())
			  RETURNING id, created_at, updated_at`
	return db.QueryRow(query, gym.CoachID, gym.Address, gym.WorkTime).Scan(
		&gym.ID, &gym.CreatedAt, &gym.UpdatedAt,
	)
}

func UpdateGym(db *sql.DB, gym *models.Gym) error {
	query := `UPDATE gyms SET coach_id = $1, address = $2, work_time = $3, updated_at = NOW()
			  WHERE id = $4 RETURNING updated_at`
	err := db.QueryRow(query, gym.CoachID, gym.Address, gym.WorkTime, gym.ID).Scan(&gym.UpdatedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("gym not found")
	}
	return err
}

func DeleteGym(db *sql.DB, id string) error {
	result, err := db.Exec(`DELETE FROM gyms WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ===== Groups =====

const groupColumns = `g.id, g.coach_id, g.gym_id, g.name, g.created_at, g.updated_at`

// GroupFilters narrows group listings.
type GroupFilters struct {
	CoachID string
	GymID   string
}

// ListGroups returns the groups visible to the actor with coach info and an
// active student count.
func ListGroups(db *sql.DB, scope authz.Scope, filters GroupFilters) ([]*models.Group, error) {
	conditions := []string{"1=1"}
	var args []interface{}
	argIndex := 1
	if filters.CoachID != "" {
		conditions = append(conditions, fmt.Sprintf("g.coach_id = $%d", argIndex))
		args = append(args, filters.CoachID)
		argIndex++
	}
	if filters.GymID != "" {
		conditions = append(conditions, fmt.Sprintf("g.gym_id = $%d", argIndex))
		args = append(args, filters.GymID)
		argIndex++
	}
	extra, extraArgs, _ := scope.Render(argIndex)
	conditions = append(conditions, extra...)
	args = append(args, extraArgs...)

	query := `SELECT ` + groupColumns + `,
			  u.first_name, u.last_name, u.email,
			  gy.address,
			  COALESCE(sc.student_count, 0) AS student_count
			  FROM groups g
			  LEFT JOIN users u ON g.coach_id = u.id
			  LEFT JOIN gyms gy ON g.gym_id = gy.id
			  LEFT JOIN (
				  SELECT group_id, COUNT(*) AS student_count
				  FROM group_students
				  WHERE is_active = true
				  GROUP BY group_id
			  ) sc ON g.id = sc.group_id
			  WHERE ` + strings.Join(conditions, " AND ") + `
			  ORDER BY g.name`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := []*models.Group{}
	for rows.Next() {
		group := &models.Group{}
		var coachFirstName, coachLastName, coachEmail *string
		var gymAddress *string
		err := rows.Scan(
			&group.ID, &group.CoachID, &group.GymID, &group.Name, &group.CreatedAt, &group.UpdatedAt,
			&coachFirstName, &coachLastName, &coachEmail, &gymAddress, &group.StudentCount,
		)
		if err != nil {
			return nil, err
		}
		if coachFirstName != nil {
			group.Coach = &models.User{
				ID:        group.CoachID,
				FirstName: *coachFirstName,
				LastName:  *coachLastName,
				Email:     *coachEmail,
			}
		}
		if gymAddress != nil {
			group.Gym = &models.Gym{ID: group.GymID, Address: *gymAddress}
		}
		groups = append(groups, group)
	}
	return groups, rows.Err()
}

func GetGroupByIDScoped(db *sql.DB, id string, scope authz.Scope) (*models.Group, error) {
	conditions := []string{"g.id = $1"}
	args := []interface{}{id}
	extra, extraArgs, _ := scope.Render(2)
	conditions = append(conditions, extra...)
	args = append(args, extraArgs...)

	group := &models.Group{}
	query := `SELECT ` + groupColumns + ` FROM groups g WHERE ` + strings.Join(conditions, " AND ")
	err := db.QueryRow(query, args...).Scan(
		&group.ID, &group.CoachID, &group.GymID, &group.Name, &group.CreatedAt, &group.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return group, nil
}

func CreateGroup(db *sql.DB, group *models.Group) error {
	query := `INSERT INTO groups (coach_id, gym_id, name, created_at, updated_at)
			  VALUES ($1, $2, $3, NOW(), NOW())
			  RETURNING id, created_at, updated_at`
	return db.QueryRow(query, group.CoachID, group.GymID, group.Name).Scan(
		&group.ID, &group.CreatedAt, &group.UpdatedAt,
	)
}

func UpdateGroup(db *sql.DB, group *models.Group) error {
	query := `UPDATE groups SET coach_id = $1, gym_id = $2, name = $3, updated_at = NOW()
			  WHERE id = $4 RETURNING updated_at`
	err := db.QueryRow(query, group.CoachID, group.GymID, group.Name, group.ID).Scan(&group.UpdatedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("group not found")
	}
	return err
}

// DeleteGroup hard-deletes a group; trainings, homeworks, attendances and
// membership rows go with it through ON DELETE CASCADE.
func DeleteGroup(db *sql.DB, id string) error {
	result, err := db.Exec(`DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ===== Group students =====

// GroupStudentFilters narrows membership listings.
type GroupStudentFilters struct {
	GroupID   string
	StudentID string
	Active    *bool
}

func ListGroupStudents(db *sql.DB, scope authz.Scope, filters GroupStudentFilters) ([]*models.GroupStudent, error) {
	conditions := []string{"1=1"}
	var args []interface{}
	argIndex := 1

	if filters.GroupID != "" {
		conditions = append(conditions, fmt.Sprintf("gs.group_id = $%d", argIndex))
		args = append(args, filters.GroupID)
		argIndex++
	}
	if filters.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("gs.student_id = $%d", argIndex))
		args = append(args, filters.StudentID)
		argIndex++
	}
	if filters.Active != nil {
		conditions = append(conditions, fmt.Sprintf("gs.is_active = $%d", argIndex))
		args = append(args, *filters.Active)
		argIndex++
	}

	extra, extraArgs, _ := scope.Render(argIndex)
	conditions = append(conditions, extra...)
	args = append(args, extraArgs...)

	query := `SELECT gs.id, gs.group_id, gs.student_id, gs.is_active, gs.joined_at,
			  u.first_name, u.last_name, u.email, g.name
			  FROM group_students gs
			  LEFT JOIN users u ON gs.student_id = u.id
			  LEFT JOIN groups g ON gs.group_id = g.id
			  WHERE ` + strings.Join(conditions, " AND ") + `
			  ORDER BY gs.joined_at DESC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []*models.GroupStudent{}
	for rows.Next() {
		member := &models.GroupStudent{}
		var firstName, lastName, email, groupName *string
		err := rows.Scan(
			&member.ID, &member.GroupID, &member.StudentID, &member.IsActive, &member.JoinedAt,
			&firstName, &lastName, &email, &groupName,
		)
		if err != nil {
			return nil, err
		}
		if firstName != nil {
			member.Student = &models.User{
				ID:        member.StudentID,
				FirstName: *firstName,
				LastName:  *lastName,
				Email:     *email,
			}
		}
		if groupName != nil {
			member.Group = &models.Group{ID: member.GroupID, Name: *groupName}
		}
		members = append(members, member)
	}
	return members, rows.Err()
}

func GetGroupStudentByIDScoped(db *sql.DB, id string, scope authz.Scope) (*models.GroupStudent, error) {
	conditions := []string{"gs.id = $1"}
	args := []interface{}{id}
	extra, extraArgs, _ := scope.Render(2)
	conditions = append(conditions, extra...)
	args = append(args, extraArgs...)

	member := &models.GroupStudent{}
	query := `SELECT gs.id, gs.group_id, gs.student_id, gs.is_active, gs.joined_at
			  FROM group_students gs WHERE ` + strings.Join(conditions, " AND ")
	err := db.QueryRow(query, args...).Scan(
		&member.ID, &member.GroupID, &member.StudentID, &member.IsActive, &member.JoinedAt,
	)
	if err != nil {
		return nil, err
	}
	return member, nil
}

// AssignStudentToGroup enrolls a student, keeping the single-active-group
// invariant: any other active membership of the student is deactivated, an
// existing row for the same pair is reactivated instead of duplicated, and
// only otherwise is a new row created. All of it runs in one transaction so
// no two rows are ever active at the same time.
func AssignStudentToGroup(db *sql.DB, groupID, studentID string) (*models.GroupStudent, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`UPDATE group_students SET is_active = false
					  WHERE student_id = $1 AND group_id <> $2 AND is_active = true`,
		studentID, groupID)
	if err != nil {
		return nil, err
	}

	member := &models.GroupStudent{GroupID: groupID, StudentID: studentID, IsActive: true}

	var existingID string
	err = tx.QueryRow(`SELECT id FROM group_students WHERE group_id = $1 AND student_id = $2`,
		groupID, studentID).Scan(&existingID)
	switch err {
	case nil:
		err = tx.QueryRow(`UPDATE group_students SET is_active = true WHERE id = $1
						   RETURNING id, joined_at`, existingID).
			Scan(&member.ID, &member.JoinedAt)
		if err != nil {
			return nil, err
		}
	case sql.ErrNoRows:
		err = tx.QueryRow(`INSERT INTO group_students (group_id, student_id, is_active, joined_at)
						   VALUES ($1, $2, true, $3)
						   RETURNING id, joined_at`,
			groupID, studentID, time.Now()).
			Scan(&member.ID, &member.JoinedAt)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return member, tx.Commit()
}

// SetGroupStudentActive updates a membership's activity flag. Activating a
// row deactivates the student's other rows in the same transaction, the
// symmetric side of the invariant.
func SetGroupStudentActive(db *sql.DB, id string, active bool) (*models.GroupStudent, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	member := &models.GroupStudent{ID: id, IsActive: active}
	err = tx.QueryRow(`UPDATE group_students SET is_active = $1 WHERE id = $2
					   RETURNING group_id, student_id, joined_at`, active, id).
		Scan(&member.GroupID, &member.StudentID, &member.JoinedAt)
	if err != nil {
		return nil, err
	}

	if active {
		_, err = tx.Exec(`UPDATE group_students SET is_active = false
						  WHERE student_id = $1 AND id <> $2 AND is_active = true`,
			member.StudentID, id)
		if err != nil {
			return nil, err
		}
	}

	return member, tx.Commit()
}

// RemoveGroupStudent is the destroy path: the row is deactivated, never
// deleted, so homework and attendance history keeps its back-references.
func RemoveGroupStudent(db *sql.DB, id string) error {
	result, err := db.Exec(`UPDATE group_students SET is_active = false WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
