package cli

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/google/uuid"
	_ "github.com/tursodatabase/go-libsql"

	"github.com/emiliopalmerini/codepulse/internal/migrate"
)

// testDB creates an in-memory database with all migrations applied and
// installs it as the connection override for CLI commands.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("libsql", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}

	ctx := context.Background()
	if err := migrate.RunAll(ctx, db); err != nil {
		_ = db.Close()
		t.Fatalf("Failed to run migrations: %v", err)
	}

	testDBOverride = db
	t.Cleanup(func() {
		testDBOverride = nil
		_ = db.Close()
	})
	return db
}

// countEvents returns the number of stored events for a session,
// optionally filtered by event type.
func countEvents(t *testing.T, db *sql.DB, sessionID, eventType string) int {
	t.Helper()

	query := "SELECT COUNT(*) FROM events WHERE session_id = ?"
	args := []any{sessionID}
	if eventType != "" {
		query += " AND event_type = ?"
		args = append(args, eventType)
	}

	var count int
	if err := db.QueryRow(query, args...).Scan(&count); err != nil {
		t.Fatalf("Failed to count events: %v", err)
	}
	return count
}
