package database

import (
	"database/sql"
	"log"
)

// RunMigrations applies the schema idempotently at boot.
func RunMigrations(db *sql.DB) error {
	log.Println("Running database migrations...")

	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto`,

		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email VARCHAR(255) UNIQUE NOT NULL,
			password VARCHAR(255) NOT NULL,
			first_name VARCHAR(50) NOT NULL,
			last_name VARCHAR(50) NOT NULL,
			patronymic VARCHAR(50),
			phone VARCHAR(20),
			date_of_birth DATE,
			is_student BOOLEAN NOT NULL DEFAULT true,
			is_coach BOOLEAN NOT NULL DEFAULT false,
			is_staff BOOLEAN NOT NULL DEFAULT false,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS gyms (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			coach_id UUID REFERENCES users(id) ON DELETE SET NULL,
			address VARCHAR(255) NOT NULL,
			work_time VARCHAR(50) NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS groups (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			coach_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			gym_id UUID NOT NULL REFERENCES gyms(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS group_students (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			group_id UUID NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
			student_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			is_active BOOLEAN NOT NULL DEFAULT true,
			joined_at DATE NOT NULL DEFAULT CURRENT_DATE,
			UNIQUE (group_id, student_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_group_students_student_active
			ON group_students (student_id) WHERE is_active = true`,

		`CREATE TABLE IF NOT EXISTS trainings (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			group_id UUID NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
			date DATE NOT NULL,
			time_start VARCHAR(5) NOT NULL,
			time_end VARCHAR(5) NOT NULL,
			topic TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trainings_group_date ON trainings (group_id, date)`,

		`CREATE TABLE IF NOT EXISTS homeworks (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			training_id UUID NOT NULL REFERENCES trainings(id) ON DELETE CASCADE,
			coach_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			student_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			task_text TEXT NOT NULL,
			deadline DATE NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS attendances (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			training_id UUID NOT NULL REFERENCES trainings(id) ON DELETE CASCADE,
			student_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			status VARCHAR(10) NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (training_id, student_id)
		)`,

		`CREATE TABLE IF NOT EXISTS competitions (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(255) NOT NULL,
			location VARCHAR(255) NOT NULL,
			date DATE NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS competition_visible_groups (
			competition_id UUID NOT NULL REFERENCES competitions(id) ON DELETE CASCADE,
			group_id UUID NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
			PRIMARY KEY (competition_id, group_id)
		)`,

		`CREATE TABLE IF NOT EXISTS competition_categories (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			competition_id UUID NOT NULL REFERENCES competitions(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			weight_min INT,
			weight_max INT,
			age_min INT,
			age_max INT
		)`,

		`CREATE TABLE IF NOT EXISTS competition_registrations (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			competition_id UUID NOT NULL REFERENCES competitions(id) ON DELETE CASCADE,
			category_id UUID REFERENCES competition_categories(id) ON DELETE SET NULL,
			is_confirmed BOOLEAN NOT NULL DEFAULT false,
			registered_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (user_id, competition_id)
		)`,

		`CREATE TABLE IF NOT EXISTS competition_results (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			registration_id UUID UNIQUE NOT NULL REFERENCES competition_registrations(id) ON DELETE CASCADE,
			place INT NOT NULL,
			score INT,
			notes TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS team_competition_results (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			competition_id UUID NOT NULL REFERENCES competitions(id) ON DELETE CASCADE,
			team_name VARCHAR(255) NOT NULL,
			place INT NOT NULL,
			achievements TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS journals (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			student_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			coach_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			date DATE NOT NULL,
			attendance BOOLEAN NOT NULL DEFAULT true,
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS progress_notes (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			student_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			coach_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			date DATE NOT NULL,
			category VARCHAR(100) NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS technique_records (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			student_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			technique VARCHAR(200) NOT NULL,
			mastery_level INT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			date_recorded DATE NOT NULL DEFAULT CURRENT_DATE
		)`,

		`CREATE TABLE IF NOT EXISTS news (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			author_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title VARCHAR(255) NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS achievements (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			date DATE NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			log.Printf("Migration failed: %v", err)
			return err
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}
