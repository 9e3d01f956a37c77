package config

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

func InitDB() (*sql.DB, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func RunMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			username VARCHAR(150) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			totp_secret VARCHAR(255),
			totp_enabled BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		// Budget names are unique across the whole system, not per owner.
		`CREATE TABLE IF NOT EXISTS budgets (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name VARCHAR(100) UNIQUE NOT NULL,
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS categories (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			budget_id UUID NOT NULL REFERENCES budgets(id) ON DELETE CASCADE,
			name VARCHAR(100) NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS financial_entries (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			category_id UUID NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
			amount NUMERIC(10,2) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			date DATE NOT NULL,
			entry_type VARCHAR(10) NOT NULL CHECK (entry_type IN ('Income', 'Expense'))
		)`,

		// Sharing grants. A grant gives the visitor read access to one
		// budget; the (budget, owner, visitor) triple is unique.
		`CREATE TABLE IF NOT EXISTS budget_users (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			owner_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			visitor_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			budget_id UUID NOT NULL REFERENCES budgets(id) ON DELETE CASCADE,
			UNIQUE(budget_id, owner_id, visitor_id)
		)`,

		`CREATE TABLE IF NOT EXISTS sessions (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			refresh_token VARCHAR(500) UNIQUE NOT NULL,
			expires_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_budgets_user_id ON budgets(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_categories_budget_id ON categories(budget_id)`,
		`CREATE INDEX IF NOT EXISTS idx_financial_entries_category_id ON financial_entries(category_id)`,
		`CREATE INDEX IF NOT EXISTS idx_financial_entries_user_id ON financial_entries(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_budget_users_budget_id ON budget_users(budget_id)`,
		`CREATE INDEX IF NOT EXISTS idx_budget_users_visitor_id ON budget_users(visitor_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	return nil
}
