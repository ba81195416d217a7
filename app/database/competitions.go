package database

import (
	"database/sql"
	"fmt"
	"strings"

	"puma-karate/app/authz"
	"puma-karate/app/models"

	"github.com/lib/pq"
)

const competitionColumns = `c.id, c.name, c.location, c.date, c.description, c.is_active, c.created_at, c.updated_at`

func scanCompetition(row interface{ Scan(...interface{}) error }) (*models.Competition, error) {
	comp := &models.Competition{}
	err := row.Scan(
		&comp.ID, &comp.Name, &comp.Location, &comp.Date, &comp.Description,
		&comp.IsActive, &comp.CreatedAt, &comp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return comp, nil
}

// ListCompetitions returns the competitions inside the actor's group
// visibility scope, with whitelisted group ids and categories attached so
// the age filter can run over them.
func ListCompetitions(db *sql.DB, scope authz.Scope) ([]*models.Competition, error) {
	conditions := []string{"c.is_active = true"}
	var args []interface{}
	extra, extraArgs, _ := scope.Render(1)
	conditions = append(conditions, extra...)
	args = append(args, extraArgs...)

	query := `SELECT ` + competitionColumns + ` FROM competitions c
			  WHERE ` + strings.Join(conditions, " AND ") + `
			  ORDER BY c.date DESC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	competitions := []*models.Competition{}
	byID := map[string]*models.Competition{}
	var ids []string
	for rows.Next() {
		comp, err := scanCompetition(rows)
		if err != nil {
			return nil, err
		}
		comp.VisibleGroups = []string{}
		competitions = append(competitions, comp)
		byID[comp.ID] = comp
		ids = append(ids, comp.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return competitions, nil
	}

	if err := attachVisibleGroups(db, byID, ids); err != nil {
		return nil, err
	}
	if err := attachCategories(db, byID, ids); err != nil {
		return nil, err
	}
	return competitions, nil
}

func attachVisibleGroups(db *sql.DB, byID map[string]*models.Competition, ids []string) error {
	rows, err := db.Query(`SELECT competition_id, group_id FROM competition_visible_groups
						   WHERE competition_id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var compID, groupID string
		if err := rows.Scan(&compID, &groupID); err != nil {
			return err
		}
		if comp, ok := byID[compID]; ok {
			comp.VisibleGroups = append(comp.VisibleGroups, groupID)
		}
	}
	return rows.Err()
}

func attachCategories(db *sql.DB, byID map[string]*models.Competition, ids []string) error {
	rows, err := db.Query(`SELECT id, competition_id, name, weight_min, weight_max, age_min, age_max
						   FROM competition_categories
						   WHERE competition_id = ANY($1)
						   ORDER BY name`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		cat := &models.CompetitionCategory{}
		err := rows.Scan(&cat.ID, &cat.CompetitionID, &cat.Name,
			&cat.WeightMin, &cat.WeightMax, &cat.AgeMin, &cat.AgeMax)
		if err != nil {
			return err
		}
		if comp, ok := byID[cat.CompetitionID]; ok {
			comp.Categories = append(comp.Categories, cat)
		}
	}
	return rows.Err()
}

func GetCompetitionByIDScoped(db *sql.DB, id string, scope authz.Scope) (*models.Competition, error) {
	conditions := []string{"c.id = $1", "c.is_active = true"}
	args := []interface{}{id}
	extra, extraArgs, _ := scope.Render(2)
	conditions = append(conditions, extra...)
	args = append(args, extraArgs...)

	query := `SELECT ` + competitionColumns + ` FROM competitions c WHERE ` + strings.Join(conditions, " AND ")
	comp, err := scanCompetition(db.QueryRow(query, args...))
	if err != nil {
		return nil, err
	}
	comp.VisibleGroups = []string{}
	byID := map[string]*models.Competition{comp.ID: comp}
	if err := attachVisibleGroups(db, byID, []string{comp.ID}); err != nil {
		return nil, err
	}
	if err := attachCategories(db, byID, []string{comp.ID}); err != nil {
		return nil, err
	}
	return comp, nil
}

// CreateCompetition inserts the competition and its group whitelist in one
// transaction.
func CreateCompetition(db *sql.DB, comp *models.Competition) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO competitions (name, location, date, description, is_active, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
			  RETURNING id, created_at, updated_at`
	err = tx.QueryRow(query, comp.Name, comp.Location, comp.Date, comp.Description, comp.IsActive).Scan(
		&comp.ID, &comp.CreatedAt, &comp.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if err := insertVisibleGroups(tx, comp.ID, comp.VisibleGroups); err != nil {
		return err
	}
	return tx.Commit()
}

func insertVisibleGroups(tx *sql.Tx, competitionID string, groupIDs []string) error {
	if len(groupIDs) == 0 {
		return nil
	}
	valueStrings := make([]string, 0, len(groupIDs))
	valueArgs := make([]interface{}, 0, len(groupIDs)*2)
	for i, groupID := range groupIDs {
		valueStrings = append(valueStrings, fmt.Sprintf("($%d, $%d)", i*2+1, i*2+2))
		valueArgs = append(valueArgs, competitionID, groupID)
	}
	query := fmt.Sprintf("INSERT INTO competition_visible_groups (competition_id, group_id) VALUES %s ON CONFLICT DO NOTHING",
		strings.Join(valueStrings, ","))
	_, err := tx.Exec(query, valueArgs...)
	return err
}

// UpdateCompetition rewrites the competition and replaces its whitelist.
func UpdateCompetition(db *sql.DB, comp *models.Competition) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `UPDATE competitions SET name = $1, location = $2, date = $3, description = $4, is_active = $5, updated_at = NOW()
			  WHERE id = $6 RETURNING updated_at`
	err = tx.QueryRow(query, comp.Name, comp.Location, comp.Date, comp.Description, comp.IsActive, comp.ID).
		Scan(&comp.UpdatedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("competition not found")
	}
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM competition_visible_groups WHERE competition_id = $1`, comp.ID); err != nil {
		return err
	}
	if err := insertVisibleGroups(tx, comp.ID, comp.VisibleGroups); err != nil {
		return err
	}
	return tx.Commit()
}

func DeleteCompetition(db *sql.DB, id string) error {
	result, err := db.Exec(`DELETE FROM competitions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ===== Categories =====

func ListCategories(db *sql.DB, competitionID string) ([]*models.CompetitionCategory, error) {
	conditions := "1=1"
	var args []interface{}
	if competitionID != "" {
		conditions = "competition_id = $1"
		args = append(args, competitionID)
	}
	rows, err := db.Query(`SELECT id, competition_id, name, weight_min, weight_max, age_min, age_max
						   FROM competition_categories WHERE `+conditions+` ORDER BY name`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []*models.CompetitionCategory{}
	for rows.Next() {
		cat := &models.CompetitionCategory{}
		err := rows.Scan(&cat.ID, &cat.CompetitionID, &cat.Name,
			&cat.WeightMin, &cat.WeightMax, &cat.AgeMin, &cat.AgeMax)
		if err != nil {
			return nil, err
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

func GetCategoryByID(db *sql.DB, id string) (*models.CompetitionCategory, error) {
	cat := &models.CompetitionCategory{}
	err := db.QueryRow(`SELECT id, competition_id, name, weight_min, weight_max, age_min, age_max
						FROM competition_categories WHERE id = $1`, id).
		Scan(&cat.ID, &cat.CompetitionID, &cat.Name,
			&cat.WeightMin, &cat.WeightMax, &cat.AgeMin, &cat.AgeMax)
	if err != nil {
		return nil, err
	}
	return cat, nil
}

func CreateCategory(db *sql.DB, cat *models.CompetitionCategory) error {
	query := `INSERT INTO competition_categories (competition_id, name, weight_min, weight_max, age_min, age_max)
			  VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	return db.QueryRow(query, cat.CompetitionID, cat.Name,
		cat.WeightMin, cat.WeightMax, cat.AgeMin, cat.AgeMax).Scan(&cat.ID)
}

func UpdateCategory(db *sql.DB, cat *models.CompetitionCategory) error {
	result, err := db.Exec(`UPDATE competition_categories
							SET name = $1, weight_min = $2, weight_max = $3, age_min = $4, age_max = $5
							WHERE id = $6`,
		cat.Name, cat.WeightMin, cat.WeightMax, cat.AgeMin, cat.AgeMax, cat.ID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func DeleteCategory(db *sql.DB, id string) error {
	result, err := db.Exec(`DELETE FROM competition_categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ===== Registrations =====

type RegistrationFilters struct {
	CompetitionID string
	UserID        string
}

func ListRegistrations(db *sql.DB, filters RegistrationFilters) ([]*models.CompetitionRegistration, error) {
	conditions := []string{"1=1"}
	var args []interface{}
	argIndex := 1

	if filters.CompetitionID != "" {
		conditions = append(conditions, fmt.Sprintf("cr.competition_id = $%d", argIndex))
		args = append(args, filters.CompetitionID)
		argIndex++
	}
	if filters.UserID != "" {
		conditions = append(conditions, fmt.Sprintf("cr.user_id = $%d", argIndex))
		args = append(args, filters.UserID)
		argIndex++
	}

	query := `SELECT cr.id, cr.user_id, cr.competition_id, cr.category_id, cr.is_confirmed, cr.registered_at,
			  u.first_name, u.last_name
			  FROM competition_registrations cr
			  LEFT JOIN users u ON cr.user_id = u.id
			  WHERE ` + strings.Join(conditions, " AND ") + `
			  ORDER BY cr.registered_at DESC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	registrations := []*models.CompetitionRegistration{}
	for rows.Next() {
		reg := &models.CompetitionRegistration{}
		var firstName, lastName *string
		err := rows.Scan(
			&reg.ID, &reg.UserID, &reg.CompetitionID, &reg.CategoryID, &reg.IsConfirmed, &reg.RegisteredAt,
			&firstName, &lastName,
		)
		if err != nil {
			return nil, err
		}
		if firstName != nil {
			reg.User = &models.User{ID: reg.UserID, FirstName: *firstName, LastName: *lastName}
		}
		registrations = append(registrations, reg)
	}
	return registrations, rows.Err()
}

func GetRegistrationByID(db *sql.DB, id string) (*models.CompetitionRegistration, error) {
	reg := &models.CompetitionRegistration{}
	err := db.QueryRow(`SELECT id, user_id, competition_id, category_id, is_confirmed, registered_at
						FROM competition_registrations WHERE id = $1`, id).
		Scan(&reg.ID, &reg.UserID, &reg.CompetitionID, &reg.CategoryID, &reg.IsConfirmed, &reg.RegisteredAt)
	if err != nil {
		return nil, err
	}
	return reg, nil
}

func CreateRegistration(db *sql.DB, reg *models.CompetitionRegistration) error {
	query := `INSERT INTO competition_registrations (user_id, competition_id, category_id, is_confirmed, registered_at)
			  VALUES ($1, $2, $3, $4, NOW())
			  RETURNING id, registered_at`
	return db.QueryRow(query, reg.UserID, reg.CompetitionID, reg.CategoryID, reg.IsConfirmed).Scan(
		&reg.ID, &reg.RegisteredAt,
	)
}

func UpdateRegistration(db *sql.DB, reg *models.CompetitionRegistration) error {
	result, err := db.Exec(`UPDATE competition_registrations SET category_id = $1, is_confirmed = $2 WHERE id = $3`,
		reg.CategoryID, reg.IsConfirmed, reg.ID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func DeleteRegistration(db *sql.DB, id string) error {
	result, err := db.Exec(`DELETE FROM competition_registrations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ===== Results =====

func ListResults(db *sql.DB, competitionID string) ([]*models.CompetitionResult, error) {
	conditions := []string{"1=1"}
	var args []interface{}
	if competitionID != "" {
		conditions = append(conditions, "cr.competition_id = $1")
		args = append(args, competitionID)
	}

	query := `SELECT res.id, res.registration_id, res.place, res.score, res.notes,
			  cr.user_id, cr.competition_id, u.first_name, u.last_name
			  FROM competition_results res
			  JOIN competition_registrations cr ON res.registration_id = cr.id
			  LEFT JOIN users u ON cr.user_id = u.id
			  WHERE ` + strings.Join(conditions, " AND ") + `
			  ORDER BY res.place`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []*models.CompetitionResult{}
	for rows.Next() {
		res := &models.CompetitionResult{}
		reg := &models.CompetitionRegistration{}
		var firstName, lastName *string
		err := rows.Scan(
			&res.ID, &res.RegistrationID, &res.Place, &res.Score, &res.Notes,
			&reg.UserID, &reg.CompetitionID, &firstName, &lastName,
		)
		if err != nil {
			return nil, err
		}
		reg.ID = res.RegistrationID
		if firstName != nil {
			reg.User = &models.User{ID: reg.UserID, FirstName: *firstName, LastName: *lastName}
		}
		res.Registration = reg
		results = append(results, res)
	}
	return results, rows.Err()
}

func GetResultByID(db *sql.DB, id string) (*models.CompetitionResult, error) {
	res := &models.CompetitionResult{}
	err := db.QueryRow(`SELECT id, registration_id, place, score, notes FROM competition_results WHERE id = $1`, id).
		Scan(&res.ID, &res.RegistrationID, &res.Place, &res.Score, &res.Notes)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func CreateResult(db *sql.DB, res *models.CompetitionResult) error {
	query := `INSERT INTO competition_results (registration_id, place, score, notes)
			  VALUES ($1, $2, $3, $4) RETURNING id`
	return db.QueryRow(query, res.RegistrationID, res.Place, res.Score, res.Notes).Scan(&res.ID)
}

func UpdateResult(db *sql.DB, res *models.CompetitionResult) error {
	result, err := db.Exec(`UPDATE competition_results SET place = $1, score = $2, notes = $3 WHERE id = $4`,
		res.Place, res.Score, res.Notes, res.ID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func DeleteResult(db *sql.DB, id string) error {
	result, err := db.Exec(`DELETE FROM competition_results WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ===== Team results =====

func ListTeamResults(db *sql.DB, competitionID string) ([]*models.TeamCompetitionResult, error) {
	conditions := "1=1"
	var args []interface{}
	if competitionID != "" {
		conditions = "competition_id = $1"
		args = append(args, competitionID)
	}
	rows, err := db.Query(`SELECT id, competition_id, team_name, place, achievements
						   FROM team_competition_results WHERE `+conditions+` ORDER BY place`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []*models.TeamCompetitionResult{}
	for rows.Next() {
		res := &models.TeamCompetitionResult{}
		if err := rows.Scan(&res.ID, &res.CompetitionID, &res.TeamName, &res.Place, &res.Achievements); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

func CreateTeamResult(db *sql.DB, res *models.TeamCompetitionResult) error {
	query := `INSERT INTO team_competition_results (competition_id, team_name, place, achievements)
			  VALUES ($1, $2, $3, $4) RETURNING id`
	return db.QueryRow(query, res.CompetitionID, res.TeamName, res.Place, res.Achievements).Scan(&res.ID)
}

func UpdateTeamResult(db *sql.DB, res *models.TeamCompetitionResult) error {
	result, err := db.Exec(`UPDATE team_competition_results SET team_name = $1, place = $2, achievements = $3 WHERE id = $4`,
		res.TeamName, res.Place, res.Achievements, res.ID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func DeleteTeamResult(db *sql.DB, id string) error {
	result, err := db.Exec(`DELETE FROM team_competition_results WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
