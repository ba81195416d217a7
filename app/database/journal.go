package database

import (
	"database/sql"
	"fmt"
	"strings"

	"puma-karate/app/authz"
	"puma-karate/app/models"
)

// ===== Journal =====

type JournalFilters struct {
	StudentID string
	Date      string
}

func ListJournals(db *sql.DB, scope authz.Scope, filters JournalFilters) ([]*models.Journal, error) {
	conditions := []string{"1=1"}
	var args []interface{}
	argIndex := 1

	if filters.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("j.student_id = $%d", argIndex))
		args = append(args, filters.StudentID)
		argIndex++
	}
	if filters.Date != "" {
		conditions = append(conditions, fmt.Sprintf("j.date = $%d", argIndex))
		args = append(args, filters.Date)
		argIndex++
	}

	extra, extraArgs, _ := scope.Render(argIndex)
	conditions = append(conditions, extra...)
	args = append(args, extraArgs...)

	query := `SELECT j.id, j.student_id, j.coach_id, j.date, j.attendance, j.notes, j.created_at,
			  u.first_name, u.last_name
			  FROM journals j
			  LEFT JOIN users u ON j.student_id = u.id
			  WHERE ` + strings.Join(conditions, " AND ") + `
			  ORDER BY j.date DESC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	journals := []*models.Journal{}
	for rows.Next() {
		entry := &models.Journal{}
		var firstName, lastName *string
		err := rows.Scan(
			&entry.ID, &entry.StudentID, &entry.CoachID, &entry.Date,
			&entry.Attendance, &entry.Notes, &entry.CreatedAt,
			&firstName, &lastName,
		)
		if err != nil {
			return nil, err
		}
		if firstName != nil {
			entry.Student = &models.User{ID: entry.StudentID, FirstName: *firstName, LastName: *lastName}
		}
		journals = append(journals, entry)
	}
	return journals, rows.Err()
}

func GetJournalByIDScoped(db *sql.DB, id string, scope authz.Scope) (*models.Journal, error) {
	conditions := []string{"j.id = $1"}
	args := []interface{}{id}
	extra, extraArgs, _ := scope.Render(2)
	conditions = append(conditions, extra...)
	args = append(args, extraArgs...)

	entry := &models.Journal{}
	query := `SELECT j.id, j.student_id, j.coach_id, j.date, j.attendance, j.notes, j.created_at
			  FROM journals j WHERE ` + strings.Join(conditions, " AND ")
	err := db.QueryRow(query, args...).Scan(
		&entry.ID, &entry.StudentID, &entry.CoachID, &entry.Date,
		&entry.Attendance, &entry.Notes, &entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func CreateJournal(db *sql.DB, entry *models.Journal) error {
	query := `INSERT INTO journals (student_id, coach_id, date, attendance, notes, created_at)
			  VALUES ($1, $2, $3, $4, $5, NOW())
			  RETURNING id, created_at`
	return db.QueryRow(query, entry.StudentID, entry.CoachID, entry.Date, entry.Attendance, entry.Notes).Scan(
		&entry.ID, &entry.CreatedAt,
	)
}

func UpdateJournal(db *sql.DB, entry *models.Journal) error {
	result, err := db.Exec(`UPDATE journals SET date = $1, attendance = $2, notes = $3 WHERE id = $4`,
		entry.Date, entry.Attendance, entry.Notes, entry.ID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func DeleteJournal(db *sql.DB, id string) error {
	result, err := db.Exec(`DELETE FROM journals WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ===== Progress notes =====

type ProgressNoteFilters struct {
	StudentID string
	Category  string
}

func ListProgressNotes(db *sql.DB, scope authz.Scope, filters ProgressNoteFilters) ([]*models.ProgressNote, error) {
	conditions := []string{"1=1"}
	var args []interface{}
	argIndex := 1

	if filters.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("pn.student_id = $%d", argIndex))
		args = append(args, filters.StudentID)
		argIndex++
	}
	if filters.Category != "" {
		conditions = append(conditions, fmt.Sprintf("pn.category = $%d", argIndex))
		args = append(args, filters.Category)
		argIndex++
	}

	extra, extraArgs, _ := scope.Render(argIndex)
	conditions = append(conditions, extra...)
	args = append(args, extraArgs...)

	query := `SELECT pn.id, pn.student_id, pn.coach_id, pn.date, pn.category, pn.content, pn.created_at
			  FROM progress_notes pn
			  WHERE ` + strings.Join(conditions, " AND ") + `
			  ORDER BY pn.date DESC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []*models.ProgressNote{}
	for rows.Next() {
		note := &models.ProgressNote{}
		err := rows.Scan(&note.ID, &note.StudentID, &note.CoachID, &note.Date,
			&note.Category, &note.Content, &note.CreatedAt)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

func GetProgressNoteByIDScoped(db *sql.DB, id string, scope authz.Scope) (*models.ProgressNote, error) {
	conditions := []string{"pn.id = $1"}
	args := []interface{}{id}
	extra, extraArgs, _ := scope.Render(2)
	conditions = append(conditions, extra...)
	args = append(args, extraArgs...)

	note := &models.ProgressNote{}
	query := `SELECT pn.id, pn.student_id, pn.coach_id, pn.date, pn.category, pn.content, pn.created_at
			  FROM progress_notes pn WHERE ` + strings.Join(conditions, " AND ")
	err := db.QueryRow(query, args...).Scan(
		&note.ID, &note.StudentID, &note.CoachID, &note.Date, &note.Category, &note.Content, &note.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return note, nil
}

func CreateProgressNote(db *sql.DB, note *models.ProgressNote) error {
	query := `INSERT INTO progress_notes (student_id, coach_id, date, category, content, created_at)
			  VALUES ($1, $2, $3, $4, $5, NOW())
			  RETURNING id, created_at`
	return db.QueryRow(query, note.StudentID, note.CoachID, note.Date, note.Category, note.Content).Scan(
		&note.ID, &note.CreatedAt,
	)
}

func UpdateProgressNote(db *sql.DB, note *models.ProgressNote) error {
	result, err := db.Exec(`UPDATE progress_notes SET date = $1, category = $2, content = $3 WHERE id = $4`,
		note.Date, note.Category, note.Content, note.ID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func DeleteProgressNote(db *sql.DB, id string) error {
	result, err := db.Exec(`DELETE FROM progress_notes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ===== Technique records =====

type TechniqueRecordFilters struct {
	StudentID    string
	MasteryLevel string
}

func ListTechniqueRecords(db *sql.DB, scope authz.Scope, filters TechniqueRecordFilters) ([]*models.TechniqueRecord, error) {
	conditions := []string{"1=1"}
	var args []interface{}
	argIndex := 1

	if filters.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("tr.student_id = $%d", argIndex))
		args = append(args, filters.StudentID)
		argIndex++
	}
	if filters.MasteryLevel != "" {
		conditions = append(conditions, fmt.Sprintf("tr.mastery_level = $%d", argIndex))
		args = append(args, filters.MasteryLevel)
		argIndex++
	}

	extra, extraArgs, _ := scope.Render(argIndex)
	conditions = append(conditions, extra...)
	args = append(args, extraArgs...)

	query := `SELECT tr.id, tr.student_id, tr.technique, tr.mastery_level, tr.notes, tr.date_recorded
			  FROM technique_records tr
			  WHERE ` + strings.Join(conditions, " AND ") + `
			  ORDER BY tr.date_recorded DESC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*models.TechniqueRecord{}
	for rows.Next() {
		record := &models.TechniqueRecord{}
		err := rows.Scan(&record.ID, &record.StudentID, &record.Technique,
			&record.MasteryLevel, &record.Notes, &record.DateRecorded)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func GetTechniqueRecordByIDScoped(db *sql.DB, id string, scope authz.Scope) (*models.TechniqueRecord, error) {
	conditions := []string{"tr.id = $1"}
	args := []interface{}{id}
	extra, extraArgs, _ := scope.Render(2)
	conditions = append(conditions, extra...)
	args = append(args, extraArgs...)

	record := &models.TechniqueRecord{}
	query := `SELECT tr.id, tr.student_id, tr.technique, tr.mastery_level, tr.notes, tr.date_recorded
			  FROM technique_records tr WHERE ` + strings.Join(conditions, " AND ")
	err := db.QueryRow(query, args...).Scan(
		&record.ID, &record.StudentID, &record.Technique, &record.MasteryLevel, &record.Notes, &record.DateRecorded,
	)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func CreateTechniqueRecord(db *sql.DB, record *models.TechniqueRecord) error {
	query := `INSERT INTO technique_records (student_id, technique, mastery_level, notes, date_recorded)
			  VALUES ($1, $2, $3, $4, NOW())
			  RETURNING id, date_recorded`
	return db.QueryRow(query, record.StudentID, record.Technique, record.MasteryLevel, record.Notes).Scan(
		&record.ID, &record.DateRecorded,
	)
}

func UpdateTechniqueRecord(db *sql.DB, record *models.TechniqueRecord) error {
	result, err := db.Exec(`UPDATE technique_records SET technique = $1, mastery_level = $2, notes = $3 WHERE id = $4`,
		record.Technique, record.MasteryLevel, record.Notes, record.ID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func DeleteTechniqueRecord(db *sql.DB, id string) error {
	result, err := db.Exec(`DELETE FROM technique_records WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
