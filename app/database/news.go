package database

import (
	"database/sql"

	"puma-karate/app/models"
)

// News and achievements are readable without authentication, so listings
// take no scope.

func GetAllNews(db *sql.DB) ([]*models.News, error) {
	query := `SELECT n.id, n.author_id, n.title, n.content, n.created_at,
			  u.first_name, u.last_name
			  FROM news n
			  LEFT JOIN users u ON n.author_id = u.id
			  ORDER BY n.created_at DESC`

	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*models.News{}
	for rows.Next() {
		item := &models.News{}
		var firstName, lastName *string
		err := rows.Scan(&item.ID, &item.AuthorID, &item.Title, &item.Content, &item.CreatedAt,
			&firstName, &lastName)
		if err != nil {
			return nil, err
		}
		if firstName != nil {
			item.Author = &models.User{ID: item.AuthorID, FirstName: *firstName, LastName: *lastName}
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func GetNewsByID(db *sql.DB, id string) (*models.News, error) {
	item := &models.News{}
	err := db.QueryRow(`SELECT id, author_id, title, content, created_at FROM news WHERE id = $1`, id).
		Scan(&item.ID, &item.AuthorID, &item.Title, &item.Content, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func CreateNews(db *sql.DB, item *models.News) error {
	query := `INSERT INTO news (author_id, title, content, created_at)
			  VALUES ($1, $2, $3, NOW()) RETURNING id, created_at`
	return db.QueryRow(query, item.AuthorID, item.Title, item.Content).Scan(&item.ID, &item.CreatedAt)
}

func UpdateNews(db *sql.DB, item *models.News) error {
	result, err := db.Exec(`UPDATE news SET title = $1, content = $2 WHERE id = $3`,
		item.Title, item.Content, item.ID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func DeleteNews(db *sql.DB, id string) error {
	result, err := db.Exec(`DELETE FROM news WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ===== Achievements =====

func ListAchievements(db *sql.DB, userID string) ([]*models.Achievement, error) {
	conditions := "1=1"
	var args []interface{}
	if userID != "" {
		conditions = "a.user_id = $1"
		args = append(args, userID)
	}

	query := `SELECT a.id, a.user_id, a.title, a.description, a.date,
			  u.first_name, u.last_name
			  FROM achievements a
			  LEFT JOIN users u ON a.user_id = u.id
			  WHERE ` + conditions + `
			  ORDER BY a.date DESC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	achievements := []*models.Achievement{}
	for rows.Next() {
		ach := &models.Achievement{}
		var firstName, lastName *string
		err := rows.Scan(&ach.ID, &ach.UserID, &ach.Title, &ach.Description, &ach.Date,
			&firstName, &lastName)
		if err != nil {
			return nil, err
		}
		if firstName != nil {
			ach.User = &models.User{ID: ach.UserID, FirstName: *firstName, LastName: *lastName}
		}
		achievements = append(achievements, ach)
	}
	return achievements, rows.Err()
}

func GetAchievementByID(db *sql.DB, id string) (*models.Achievement, error) {
	ach := &models.Achievement{}
	err := db.QueryRow(`SELECT id, user_id, title, description, date FROM achievements WHERE id = $1`, id).
		Scan(&ach.ID, &ach.UserID, &ach.Title, &ach.Description, &ach.Date)
	if err != nil {
		return nil, err
	}
	return ach, nil
}

func CreateAchievement(db *sql.DB, ach *models.Achievement) error {
	query := `INSERT INTO achievements (user_id, title, description, date)
			  VALUES ($1, $2, $3, $4) RETURNING id`
	return db.QueryRow(query, ach.UserID, ach.Title, ach.Description, ach.Date).Scan(&ach.ID)
}

func UpdateAchievement(db *sql.DB, ach *models.Achievement) error {
	result, err := db.Exec(`UPDATE achievements SET title = $1, description = $2, date = $3 WHERE id = $4`,
		ach.Title, ach.Description, ach.Date, ach.ID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func DeleteAchievement(db *sql.DB, id string) error {
	result, err := db.Exec(`DELETE FROM achievements WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
