package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/emiliopalmerini/codepulse/internal/adapters/turso"
	"github.com/emiliopalmerini/codepulse/internal/domain"
	"github.com/emiliopalmerini/codepulse/internal/infrastructure/config"
	"github.com/emiliopalmerini/codepulse/internal/util"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show weekly activity stats in the terminal",
	RunE:  runStats,
}

var statsWeekStart string

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVar(&statsWeekStart, "week-start", "", "Week start date (2006-01-02, defaults to the current week's Monday)")
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	valueStyle   = lipgloss.NewStyle().Bold(true)
	barStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75")).MarginTop(1)
)

func runStats(cmd *cobra.Command, args []string) error {
	now := time.Now().UTC()

	weekStart := util.WeekStart(now)
	if statsWeekStart != "" {
		parsed, err := time.Parse("2006-01-02", statsWeekStart)
		if err != nil {
			return fmt.Errorf("invalid --week-start value: %w", err)
		}
		weekStart = util.WeekStart(parsed)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, closeDB, err := hookDB(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	repo := turso.NewEventRepository(db)

	var weekEvents, streakEvents []domain.Event
	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() error {
		var err error
		weekEvents, err = repo.ListRange(ctx, weekStart, weekStart.AddDate(0, 0, 7))
		return err
	})
	g.Go(func() error {
		var err error
		streakEvents, err = repo.ListSince(ctx, now.AddDate(-1, 0, 0))
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to load events: %w", err)
	}

	stats := domain.ComputeWeeklyStats(weekEvents, streakEvents, weekStart, cfg.Server.TimezoneOffsetMin, now)
	fmt.Println(renderWeeklyStats(stats, weekStart))
	return nil
}

func renderWeeklyStats(stats domain.WeeklyStats, weekStart time.Time) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Week of %s", weekStart.Format("Jan 2, 2006"))))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s\n",
		labelStyle.Render("Hours:"), valueStyle.Render(util.FormatHours(stats.TotalHours)),
		labelStyle.Render("Sessions:"), valueStyle.Render(fmt.Sprintf("%d", stats.TotalSessions)),
		labelStyle.Render("Streak:"), valueStyle.Render(fmt.Sprintf("%d days", stats.StreakDays)),
	))

	b.WriteString(sectionStyle.Render("Daily"))
	b.WriteString("\n")
	maxHours := 0.0
	for _, day := range stats.DailyBreakdown {
		if day.Hours > maxHours {
			maxHours = day.Hours
		}
	}
	for _, day := range stats.DailyBreakdown {
		b.WriteString(fmt.Sprintf("  %s %s %s\n",
			labelStyle.Render(util.FormatWeekday(day.Date)),
			barStyle.Render(hourBar(day.Hours, maxHours, 30)),
			util.FormatHours(day.Hours),
		))
	}

	if len(stats.Projects) > 0 {
		b.WriteString(sectionStyle.Render("Projects"))
		b.WriteString("\n")
		for _, p := range stats.Projects {
			b.WriteString(fmt.Sprintf("  %-24s %8s  %d sessions\n",
				p.Project, util.FormatHours(p.Hours), p.Sessions))
		}
	}

	if len(stats.Agents) > 0 {
		b.WriteString(sectionStyle.Render("Agents"))
		b.WriteString("\n")
		for _, a := range stats.Agents {
			b.WriteString(fmt.Sprintf("  %-24s %8s  %d%%\n",
				a.Agent, util.FormatHours(a.Hours), a.Percentage))
		}
	}

	return b.String()
}

// hourBar renders a proportional bar, always at least one cell wide for
// non-zero hours.
func hourBar(hours, max float64, width int) string {
	if max <= 0 || hours <= 0 {
		return strings.Repeat("░", width)
	}
	filled := int(hours / max * float64(width))
	if filled < 1 {
		filled = 1
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
