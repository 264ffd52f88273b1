package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/codepulse/internal/adapters/turso"
	"github.com/emiliopalmerini/codepulse/internal/domain"
	"github.com/emiliopalmerini/codepulse/internal/infrastructure/config"
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Handle coding-assistant hook events",
	Long: `Reads hook event JSON from stdin and records the matching
lifecycle event.

This is a unified entry point for all hook events. Configure your
assistant to call "codepulse hook" for each event type:

  {
    "hooks": {
      "UserPromptSubmit": [{"type": "command", "command": "codepulse hook"}],
      "Stop":             [{"type": "command", "command": "codepulse hook", "async": true}],
      "SessionEnd":       [{"type": "command", "command": "codepulse hook", "async": true}]
    }
  }`,
	RunE: runHook,
}

func init() {
	rootCmd.AddCommand(hookCmd)
}

func runHook(cmd *cobra.Command, args []string) error {
	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}
	return processHookInput(context.Background(), input, time.Now().UTC())
}

func processHookInput(ctx context.Context, input []byte, now time.Time) error {
	event, err := domain.ParseHookEvent(input)
	if err != nil {
		return fmt.Errorf("failed to parse hook event: %w", err)
	}

	switch e := event.(type) {
	case *domain.UserPromptSubmitInput:
		return recordHookEvent(ctx, e.HookEventBase, domain.EventPromptStart, now)
	case *domain.StopInput:
		// Prevent infinite loop: if this stop hook triggered another
		// stop, bail out
		if e.StopHookActive {
			return nil
		}
		return recordHookEvent(ctx, e.HookEventBase, domain.EventResponseEnd, now)
	case *domain.SessionEndInput:
		return recordHookEvent(ctx, e.HookEventBase, domain.EventSessionEnd, now)
	default:
		return fmt.Errorf("unhandled hook event type: %T", event)
	}
}

func recordHookEvent(ctx context.Context, base domain.HookEventBase, eventType domain.EventType, now time.Time) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, closeDB, err := hookDB(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	event := &domain.Event{
		Project:   filepath.Base(base.Cwd),
		Timestamp: now,
		Machine:   hostname,
		Agent:     cfg.Hook.Agent,
		SessionID: base.SessionID,
		Type:      eventType,
	}

	repo := turso.NewEventRepository(db)
	if err := repo.Insert(ctx, event); err != nil {
		return fmt.Errorf("failed to record %s event: %w", eventType, err)
	}
	return nil
}

// testDBOverride lets tests swap in an in-memory database.
var testDBOverride *sql.DB

// hookDB returns a database connection and cleanup function.
func hookDB(cfg *config.App) (*sql.DB, func(), error) {
	if testDBOverride != nil {
		return testDBOverride, func() {}, nil
	}

	db, err := turso.NewDB(cfg.Database.URL, cfg.Database.AuthToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, func() { db.Close() }, nil
}
