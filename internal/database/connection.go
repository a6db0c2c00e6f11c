package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// Connect establishes a connection to the database. The driver is selected
// with DB_TYPE: "postgres" uses DATABASE_URL, anything else opens a local
// SQLite file at DATABASE_PATH (default data/certtutor.db).
func Connect() error {
	if os.Getenv("DB_TYPE") == "postgres" {
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return fmt.Errorf("DATABASE_URL environment variable is not set")
		}
		return Open("postgres", dsn)
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = filepath.Join("data", "certtutor.db")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %v", err)
	}
	return Open("sqlite3", dbPath)
}

// Open connects with an explicit driver and DSN and initializes the schema.
// Tests use it with the sqlite3 ":memory:" DSN.
func Open(driver, dsn string) error {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}

	if driver == "sqlite3" {
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return fmt.Errorf("failed to enable foreign keys: %v", err)
		}
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	DB = db
	return initializeSchema()
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema() error {
	// Create users table
	_, err := DB.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			experience_level TEXT DEFAULT 'beginner',
			target_certification TEXT DEFAULT 'foundation',
			daily_review_goal INTEGER DEFAULT 10,
			reminder_enabled BOOLEAN DEFAULT true,
			streak_days INTEGER DEFAULT 0,
			total_study_minutes INTEGER DEFAULT 0,
			last_studied_at TIMESTAMP,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create users table: %v", err)
	}

	// Create concepts table
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS concepts (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			summary TEXT DEFAULT '',
			part_id TEXT NOT NULL,
			level TEXT DEFAULT 'foundation',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create concepts table: %v", err)
	}

	// Create concept_records table
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS concept_records (
			id INTEGER PRIMARY KEY,
			user_id TEXT NOT NULL,
			concept_id TEXT NOT NULL,
			strength REAL DEFAULT 0,
			ease_factor REAL DEFAULT 2.5,
			interval_days REAL DEFAULT 0,
			due_at TIMESTAMP NOT NULL,
			last_reviewed_at TIMESTAMP NOT NULL,
			review_count INTEGER DEFAULT 0,
			lapse_count INTEGER DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(user_id, concept_id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create concept_records table: %v", err)
	}

	// Create review_history table
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS review_history (
			id INTEGER PRIMARY KEY,
			user_id TEXT NOT NULL,
			concept_id TEXT NOT NULL,
			timestamp TIMESTAMP NOT NULL,
			correct BOOLEAN NOT NULL,
			response_latency_seconds REAL DEFAULT 0
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create review_history table: %v", err)
	}

	// Create learning_sessions table
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS learning_sessions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			started_at TIMESTAMP NOT NULL,
			ended_at TIMESTAMP,
			duration_minutes INTEGER DEFAULT 0,
			questions_asked INTEGER DEFAULT 0,
			questions_correct INTEGER DEFAULT 0,
			concepts_covered TEXT DEFAULT '',
			engagement_score REAL DEFAULT 0,
			comprehension_score REAL DEFAULT 0,
			notes TEXT DEFAULT ''
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create learning_sessions table: %v", err)
	}

	return nil
}
