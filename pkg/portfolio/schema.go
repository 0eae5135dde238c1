package portfolio

import (
	"database/sql"
	"fmt"
)

func initDatabase(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := exec(tx, `
		CREATE TABLE IF NOT EXISTS stocks (
			id TEXT PRIMARY KEY,
			symbol TEXT NOT NULL,
			name TEXT,
			quantity REAL NOT NULL DEFAULT 0,
			purchase_price REAL NOT NULL DEFAULT 0,
			purchase_date TEXT,
			current_price REAL NOT NULL DEFAULT 0,
			change REAL NOT NULL DEFAULT 0,
			change_percent REAL NOT NULL DEFAULT 0,
			total_value REAL NOT NULL DEFAULT 0,
			total_gain REAL NOT NULL DEFAULT 0,
			gain_percent REAL NOT NULL DEFAULT 0,
			price_error INTEGER NOT NULL DEFAULT 0,
			last_updated TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return err
	}

	if err := exec(tx, `
		CREATE TABLE IF NOT EXISTS mutual_funds (
			id TEXT PRIMARY KEY,
			scheme_name TEXT NOT NULL,
			scheme_code TEXT,
			fund_house TEXT,
			units REAL NOT NULL DEFAULT 0,
			purchase_nav REAL NOT NULL DEFAULT 0,
			purchase_date TEXT,
			current_nav REAL NOT NULL DEFAULT 0,
			change REAL NOT NULL DEFAULT 0,
			change_percent REAL NOT NULL DEFAULT 0,
			total_value REAL NOT NULL DEFAULT 0,
			total_gain REAL NOT NULL DEFAULT 0,
			gain_percent REAL NOT NULL DEFAULT 0,
			nav_error INTEGER NOT NULL DEFAULT 0,
			nav_date TEXT,
			last_updated TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return err
	}

	if err := exec(tx, `
		CREATE TABLE IF NOT EXISTS refresh_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			stocks_updated INTEGER NOT NULL DEFAULT 0,
			stocks_failed INTEGER NOT NULL DEFAULT 0,
			funds_updated INTEGER NOT NULL DEFAULT 0,
			funds_failed INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			details TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return err
	}

	if err := exec(tx, `
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT
		)
	`); err != nil {
		return err
	}

	return tx.Commit()
}

func exec(tx *sql.Tx, stmt string) error {
	if _, err := tx.Exec(stmt); err != nil {
		return fmt.Errorf("schema statement failed: %w", err)
	}
	return nil
}
