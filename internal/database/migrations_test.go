package database

import (
	"path/filepath"
	"testing"
)

func TestRunMigrations(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dbPath := filepath.Join(t.TempDir(), "test_migrations.db")
	db, err := Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	tables := []string{"users", "sessions", "families", "family_members", "invitations", "medicines", "shopping_items", "activity_logs"}
	for _, table := range tables {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}

	// Running again must be a no-op
	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Second migration run failed: %v", err)
	}

	var applied int
	if err := db.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&applied); err != nil {
		t.Fatalf("Failed to count applied migrations: %v", err)
	}
	if applied == 0 {
		t.Error("Expected at least one recorded migration")
	}
}

func TestExecReturningID(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dbPath := filepath.Join(t.TempDir(), "test_returning.db")
	db, err := Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	id, err := db.ExecReturningID(
		"INSERT INTO activity_logs (type, user_id, user_name, family_id, description) VALUES (?, ?, ?, ?, ?)",
		"user_signin", "u1", "Test User", "f1", "Test User signed in")
	if err != nil {
		t.Fatalf("ExecReturningID failed: %v", err)
	}
	if id == 0 {
		t.Error("Expected a non-zero ID")
	}

	id2, err := db.ExecReturningID(
		"INSERT INTO activity_logs (type, user_id, user_name, family_id, description) VALUES (?, ?, ?, ?, ?)",
		"user_signin", "u1", "Test User", "f1", "Test User signed in")
	if err != nil {
		t.Fatalf("ExecReturningID failed: %v", err)
	}
	if id2 <= id {
		t.Errorf("Expected increasing IDs, got %d then %d", id, id2)
	}
}

func TestTransactions(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dbPath := filepath.Join(t.TempDir(), "test_tx.db")
	db, err := Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	// Committed transaction persists
	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}
	if _, err := tx.Exec("INSERT INTO users (id, email, display_name) VALUES (?, ?, ?)", "u1", "one@example.com", "One"); err != nil {
		tx.Rollback()
		t.Fatalf("Failed to insert in transaction: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Failed to commit transaction: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users WHERE id = ?", "u1").Scan(&count); err != nil {
		t.Fatalf("Failed to query after commit: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 user, got %d", count)
	}

	// Rolled-back transaction leaves no trace
	tx2, err := db.Begin()
	if err != nil {
		t.Fatalf("Failed to begin second transaction: %v", err)
	}
	if _, err := tx2.Exec("INSERT INTO users (id, email, display_name) VALUES (?, ?, ?)", "u2", "two@example.com", "Two"); err != nil {
		tx2.Rollback()
		t.Fatalf("Failed to insert in second transaction: %v", err)
	}
	if err := tx2.Rollback(); err != nil {
		t.Fatalf("Failed to rollback transaction: %v", err)
	}

	if err := db.QueryRow("SELECT COUNT(*) FROM users WHERE id = ?", "u2").Scan(&count); err != nil {
		t.Fatalf("Failed to query after rollback: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 users after rollback, got %d", count)
	}
}
