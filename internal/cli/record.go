package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/codepulse/internal/adapters/turso"
	"github.com/emiliopalmerini/codepulse/internal/domain"
	"github.com/emiliopalmerini/codepulse/internal/infrastructure/config"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a single lifecycle event",
	Long: `Record a lifecycle event directly, without going through a hook.

Useful for backfills and for assistants without hook support.

Examples:
  codepulse record --session abc123 --project myapp --type prompt-start
  codepulse record --session abc123 --project myapp --type session-end --at 2025-06-02T10:00:00Z`,
	RunE: runRecord,
}

var (
	recordSession string
	recordProject string
	recordType    string
	recordAgent   string
	recordMachine string
	recordAt      string
)

func init() {
	rootCmd.AddCommand(recordCmd)
	recordCmd.Flags().StringVar(&recordSession, "session", "", "Session ID (required)")
	recordCmd.Flags().StringVar(&recordProject, "project", "", "Project name (required)")
	recordCmd.Flags().StringVar(&recordType, "type", "", "Event type: prompt-start, response-end or session-end (required)")
	recordCmd.Flags().StringVar(&recordAgent, "agent", "", "Agent name (defaults to CODEPULSE_AGENT)")
	recordCmd.Flags().StringVar(&recordMachine, "machine", "", "Machine name (defaults to the hostname)")
	recordCmd.Flags().StringVar(&recordAt, "at", "", "Event timestamp, RFC3339 (defaults to now)")
	_ = recordCmd.MarkFlagRequired("session")
	_ = recordCmd.MarkFlagRequired("project")
	_ = recordCmd.MarkFlagRequired("type")
}

func runRecord(cmd *cobra.Command, args []string) error {
	eventType, err := domain.ParseEventType(recordType)
	if err != nil {
		return err
	}

	timestamp := time.Now().UTC()
	if recordAt != "" {
		timestamp, err = time.Parse(time.RFC3339, recordAt)
		if err != nil {
			return fmt.Errorf("invalid --at value: %w", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	agent := recordAgent
	if agent == "" {
		agent = cfg.Hook.Agent
	}
	machine := recordMachine
	if machine == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		machine = hostname
	}

	db, closeDB, err := hookDB(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	event := &domain.Event{
		Project:   recordProject,
		Timestamp: timestamp,
		Machine:   machine,
		Agent:     agent,
		SessionID: recordSession,
		Type:      eventType,
	}

	repo := turso.NewEventRepository(db)
	if err := repo.Insert(context.Background(), event); err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}

	fmt.Printf("Recorded %s for session %s\n", eventType, recordSession)
	return nil
}
