package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"puma-karate/app/authz"
	"puma-karate/app/models"
)

// TrainingFilters represents filtering options for training listings. Date
// bounds are applied before role scoping and compose with it by AND.
type TrainingFilters struct {
	GroupID    string
	DateAfter  string
	DateBefore string
}

const trainingColumns = `t.id, t.group_id, t.date, t.time_start, t.time_end, t.topic, t.created_at, t.updated_at`

func scanTraining(row interface{ Scan(...interface{}) error }) (*models.Training, error) {
	training := &models.Training{}
	err := row.Scan(
		&training.ID, &training.GroupID, &training.Date,
		&training.TimeStart, &training.TimeEnd, &training.Topic,
		&training.CreatedAt, &training.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return training, nil
}

func ListTrainings(db *sql.DB, scope authz.Scope, filters TrainingFilters) ([]*models.Training, error) {
	conditions := []string{"1=1"}
	var args []interface{}
	argIndex := 1

	if filters.GroupID != "" {
		conditions = append(conditions, fmt.Sprintf("t.group_id = $%d", argIndex))
		args = append(args, filters.GroupID)
		argIndex++
	}
	if filters.DateAfter != "" {
		conditions = append(conditions, fmt.Sprintf("t.date >= $%d", argIndex))
		args = append(args, filters.DateAfter)
		argIndex++
	}
	if filters.DateBefore != "" {
		conditions = append(conditions, fmt.Sprintf("t.date <= $%d", argIndex))
		args = append(args, filters.DateBefore)
		argIndex++
	}

	extra, extraArgs, _ := scope.Render(argIndex)
	conditions = append(conditions, extra...)
	args = append(args, extraArgs...)

	query := `SELECT ` + trainingColumns + `, g.name
			  FROM trainings t
			  LEFT JOIN groups g ON t.group_id = g.id
			  WHERE ` + strings.Join(conditions, " AND ") + `
			  ORDER BY t.date, t.time_start`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trainings := []*models.Training{}
	for rows.Next() {
		training := &models.Training{}
		var groupName *string
		err := rows.Scan(
			&training.ID, &training.GroupID, &training.Date,
			&training.TimeStart, &training.TimeEnd, &training.Topic,
			&training.CreatedAt, &training.UpdatedAt, &groupName,
		)
		if err != nil {
			return nil, err
		}
		if groupName != nil {
			training.Group = &models.Group{ID: training.GroupID, Name: *groupName}
		}
		trainings = append(trainings, training)
	}
	return trainings, rows.Err()
}

func GetTrainingByIDScoped(db *sql.DB, id string, scope authz.Scope) (*models.Training, error) {
	conditions := []string{"t.id = $1"}
	args := []interface{}{id}
	extra, extraArgs, _ := scope.Render(2)
	conditions = append(conditions, extra...)
	args = append(args, extraArgs...)

	query := `SELECT ` + trainingColumns + ` FROM trainings t WHERE ` + strings.Join(conditions, " AND ")
	return scanTraining(db.QueryRow(query, args...))
}

// CreateTraining inserts a session after probing for a slot collision:
// the same group cannot have two trainings at the same date and start time.
func CreateTraining(db *sql.DB, training *models.Training) error {
	var existingID string
	err := db.QueryRow(`SELECT id FROM trainings WHERE group_id = $1 AND date = $2 AND time_start = $3 LIMIT 1`,
		training.GroupID, training.Date, training.TimeStart).Scan(&existingID)
	if err == nil {
		return fmt.Errorf("training slot already taken")
	}
	if err != sql.ErrNoRows {
		return err
	}

	query := `INSERT INTO trainings (group_id, date, time_start, time_end, topic, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
			  RETURNING id, created_at, updated_at`
	return db.QueryRow(query, training.GroupID, training.Date, training.TimeStart,
		training.TimeEnd, training.Topic).Scan(
		&training.ID, &training.CreatedAt, &training.UpdatedAt,
	)
}

// BulkItemError reports a single failed item of a batch creation.
type BulkItemError struct {
	Index int    `json:"index"`
	Date  string `json:"date"`
	Error string `json:"error"`
}

// BulkTrainingItem is one requested session in a batch.
type BulkTrainingItem struct {
	Date      string  `json:"date"`
	TimeStart string  `json:"time_start"`
	TimeEnd   string  `json:"time_end"`
	Topic     *string `json:"topic,omitempty"`
}

// BulkCreateTrainings creates a batch of sessions for one group. Items fail
// individually (bad date, bad time, slot collision) without rolling back
// the ones already created; the caller gets both lists.
func BulkCreateTrainings(db *sql.DB, groupID string, items []BulkTrainingItem) ([]*models.Training, []BulkItemError) {
	created := []*models.Training{}
	errors := []BulkItemError{}

	for i, item := range items {
		date, err := time.Parse("2006-01-02", item.Date)
		if err != nil {
			errors = append(errors, BulkItemError{Index: i, Date: item.Date, Error: "invalid date format, use YYYY-MM-DD"})
			continue
		}
		if _, err := time.Parse("15:04", item.TimeStart); err != nil {
			errors = append(errors, BulkItemError{Index: i, Date: item.Date, Error: "invalid time_start, use HH:MM"})
			continue
		}
		if _, err := time.Parse("15:04", item.TimeEnd); err != nil {
			errors = append(errors, BulkItemError{Index: i, Date: item.Date, Error: "invalid time_end, use HH:MM"})
			continue
		}

		training := &models.Training{
			GroupID:   groupID,
			Date:      date,
			TimeStart: item.TimeStart,
			TimeEnd:   item.TimeEnd,
			Topic:     item.Topic,
		}
		if err := CreateTraining(db, training); err != nil {
			errors = append(errors, BulkItemError{Index: i, Date: item.Date, Error: err.Error()})
			continue
		}
		created = append(created, training)
	}

	return created, errors
}

func UpdateTraining(db *sql.DB, training *models.Training) error {
	query := `UPDATE trainings SET group_id = $1, date = $2, time_start = $3, time_end = $4, topic = $5, updated_at = NOW()
			  WHERE id = $6 RETURNING updated_at`
	err := db.QueryRow(query, training.GroupID, training.Date, training.TimeStart,
		training.TimeEnd, training.Topic, training.ID).Scan(&training.UpdatedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("training not found")
	}
	return err
}

func DeleteTraining(db *sql.DB, id string) error {
	result, err := db.Exec(`DELETE FROM trainings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ===== Homework =====

type HomeworkFilters struct {
	TrainingID string
	StudentID  string
}

func ListHomeworks(db *sql.DB, scope authz.Scope, filters HomeworkFilters) ([]*models.Homework, error) {
	conditions := []string{"1=1"}
	var args []interface{}
	argIndex := 1

	if filters.TrainingID != "" {
		conditions = append(conditions, fmt.Sprintf("h.training_id = $%d", argIndex))
		args = append(args, filters.TrainingID)
		argIndex++
	}
	if filters.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("h.student_id = $%d", argIndex))
		args = append(args, filters.StudentID)
		argIndex++
	}

	extra, extraArgs, _ := scope.Render(argIndex)
	conditions = append(conditions, extra...)
	args = append(args, extraArgs...)

	query := `SELECT h.id, h.training_id, h.coach_id, h.student_id, h.task_text, h.deadline, h.created_at,
			  u.first_name, u.last_name
			  FROM homeworks h
			  LEFT JOIN users u ON h.student_id = u.id
			  WHERE ` + strings.Join(conditions, " AND ") + `
			  ORDER BY h.deadline`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	homeworks := []*models.Homework{}
	for rows.Next() {
		hw := &models.Homework{}
		var firstName, lastName *string
		err := rows.Scan(
			&hw.ID, &hw.TrainingID, &hw.CoachID, &hw.StudentID, &hw.TaskText, &hw.Deadline, &hw.CreatedAt,
			&firstName, &lastName,
		)
		if err != nil {
			return nil, err
		}
		if firstName != nil {
			hw.Student = &models.User{ID: hw.StudentID, FirstName: *firstName, LastName: *lastName}
		}
		homeworks = append(homeworks, hw)
	}
	return homeworks, rows.Err()
}

func GetHomeworkByIDScoped(db *sql.DB, id string, scope authz.Scope) (*models.Homework, error) {
	conditions := []string{"h.id = $1"}
	args := []interface{}{id}
	extra, extraArgs, _ := scope.Render(2)
	conditions = append(conditions, extra...)
	args = append(args, extraArgs...)

	hw := &models.Homework{}
	query := `SELECT h.id, h.training_id, h.coach_id, h.student_id, h.task_text, h.deadline, h.created_at
			  FROM homeworks h WHERE ` + strings.Join(conditions, " AND ")
	err := db.QueryRow(query, args...).Scan(
		&hw.ID, &hw.TrainingID, &hw.CoachID, &hw.StudentID, &hw.TaskText, &hw.Deadline, &hw.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return hw, nil
}

func CreateHomework(db *sql.DB, hw *models.Homework) error {
	query := `INSERT INTO homeworks (training_id, coach_id, student_id, task_text, deadline, created_at)
			  VALUES ($1, $2, $3, $4, $5, NOW())
			  RETURNING id, created_at`
	return db.QueryRow(query, hw.TrainingID, hw.CoachID, hw.StudentID, hw.TaskText, hw.Deadline).Scan(
		&hw.ID, &hw.CreatedAt,
	)
}

func UpdateHomework(db *sql.DB, hw *models.Homework) error {
	query := `UPDATE homeworks SET task_text = $1, deadline = $2, student_id = $3 WHERE id = $4`
	result, err := db.Exec(query, hw.TaskText, hw.Deadline, hw.StudentID, hw.ID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func DeleteHomework(db *sql.DB, id string) error {
	result, err := db.Exec(`DELETE FROM homeworks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ===== Attendance =====

type AttendanceFilters struct {
	TrainingID string
	StudentID  string
}

func ListAttendances(db *sql.DB, scope authz.Scope, filters AttendanceFilters) ([]*models.Attendance, error) {
	conditions := []string{"1=1"}
	var args []interface{}
	argIndex := 1

	if filters.TrainingID != "" {
		conditions = append(conditions, fmt.Sprintf("a.training_id = $%d", argIndex))
		args = append(args, filters.TrainingID)
		argIndex++
	}
	if filters.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("a.student_id = $%d", argIndex))
		args = append(args, filters.StudentID)
		argIndex++
	}

	extra, extraArgs, _ := scope.Render(argIndex)
	conditions = append(conditions, extra...)
	args = append(args, extraArgs...)

	query := `SELECT a.id, a.training_id, a.student_id, a.status, a.notes, a.created_at, a.updated_at,
			  u.first_name, u.last_name
			  FROM attendances a
			  LEFT JOIN users u ON a.student_id = u.id
			  WHERE ` + strings.Join(conditions, " AND ") + `
			  ORDER BY a.created_at DESC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*models.Attendance{}
	for rows.Next() {
		record := &models.Attendance{}
		var firstName, lastName *string
		err := rows.Scan(
			&record.ID, &record.TrainingID, &record.StudentID, &record.Status, &record.Notes,
			&record.CreatedAt, &record.UpdatedAt, &firstName, &lastName,
		)
		if err != nil {
			return nil, err
		}
		if firstName != nil {
			record.Student = &models.User{ID: record.StudentID, FirstName: *firstName, LastName: *lastName}
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func GetAttendanceByIDScoped(db *sql.DB, id string, scope authz.Scope) (*models.Attendance, error) {
	conditions := []string{"a.id = $1"}
	args := []interface{}{id}
	extra, extraArgs, _ := scope.Render(2)
	conditions = append(conditions, extra...)
	args = append(args, extraArgs...)

	record := &models.Attendance{}
	query := `SELECT a.id, a.training_id, a.student_id, a.status, a.notes, a.created_at, a.updated_at
			  FROM attendances a WHERE ` + strings.Join(conditions, " AND ")
	err := db.QueryRow(query, args...).Scan(
		&record.ID, &record.TrainingID, &record.StudentID, &record.Status, &record.Notes,
		&record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// CreateOrUpdateAttendance upserts the record for (training, student) so a
// coach can re-mark a session without duplicates.
func CreateOrUpdateAttendance(db *sql.DB, record *models.Attendance) error {
	query := `INSERT INTO attendances (training_id, student_id, status, notes, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, NOW(), NOW())
			  ON CONFLICT (training_id, student_id)
			  DO UPDATE SET status = EXCLUDED.status, notes = EXCLUDED.notes, updated_at = NOW()
			  RETURNING id, created_at, updated_at`
	return db.QueryRow(query, record.TrainingID, record.StudentID, record.Status, record.Notes).Scan(
		&record.ID, &record.CreatedAt, &record.UpdatedAt,
	)
}

func DeleteAttendance(db *sql.DB, id string) error {
	result, err := db.Exec(`DELETE FROM attendances WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
