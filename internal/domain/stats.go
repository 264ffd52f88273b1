package domain

import (
	"math"
	"sort"
	"time"
)

// DaySummary is one calendar day of a weekly breakdown. Projects carries
// a per-day project split so the dashboard can render a stacked bar.
type DaySummary struct {
	Date     string           `json:"date"`
	Hours    float64          `json:"hours"`
	Sessions int              `json:"sessions"`
	Projects []ProjectSummary `json:"projects"`
}

// ProjectSummary is a per-project roll-up of hours and session count.
type ProjectSummary struct {
	Project  string  `json:"project"`
	Hours    float64 `json:"hours"`
	Sessions int     `json:"sessions"`
}

// AgentSummary is a per-agent roll-up with its share of the period total.
type AgentSummary struct {
	Agent      string  `json:"agent"`
	Hours      float64 `json:"hours"`
	Percentage int     `json:"percentage"`
}

// MachineSummary is a per-machine roll-up with its share of the period total.
type MachineSummary struct {
	Machine    string  `json:"machine"`
	Hours      float64 `json:"hours"`
	Percentage int     `json:"percentage"`
}

// AgentProjects maps one agent to the projects it actually worked in.
type AgentProjects struct {
	Agent    string   `json:"agent"`
	Hours    float64  `json:"hours"`
	Projects []string `json:"projects"`
}

// Comparison holds week-over-week deltas. VsLastWeek is a stub that is
// always 0; computing it from a second query is deferred.
type Comparison struct {
	VsLastWeek float64 `json:"vs_last_week"`
}

// WeeklyStats is the aggregate view of one Monday-to-Sunday week.
type WeeklyStats struct {
	TotalHours     float64          `json:"total_hours"`
	TotalSessions  int              `json:"total_sessions"`
	StreakDays     int              `json:"streak_days"`
	DailyBreakdown []DaySummary     `json:"daily_breakdown"`
	Projects       []ProjectSummary `json:"projects"`
	Agents         []AgentSummary   `json:"agents"`
	Machines       []MachineSummary `json:"machines"`
	AgentProjects  []AgentProjects  `json:"agent_projects"`
	Comparison     Comparison       `json:"comparison"`
}

// ProjectStats is the flat per-project view used by the all-projects
// endpoint. Agents maps each agent to its hours within this project only.
type ProjectStats struct {
	Project       string             `json:"project"`
	TotalHours    float64            `json:"total_hours"`
	TotalSessions int                `json:"total_sessions"`
	Agents        map[string]float64 `json:"agents"`
}

// ComputeWeeklyStats rolls one week of events up into the dashboard
// aggregate. weekStart must be the Monday 00:00:00 UTC boundary of the
// queried week; week boundary arithmetic belongs to the caller.
//
// The streak walks back up to a year, which is wider than the week
// window, so the streak event list is supplied separately. A caller
// holding a single list passes it for both.
func ComputeWeeklyStats(weekEvents, streakEvents []Event, weekStart time.Time, tzOffsetMin int, now time.Time) WeeklyStats {
	sessions := ReconstructSessions(weekEvents, now)

	var totalMinutes float64
	for _, s := range sessions {
		totalMinutes += s.ActiveMinutes
	}
	totalHours := roundHours(totalMinutes)

	return WeeklyStats{
		TotalHours:     totalHours,
		TotalSessions:  len(sessions),
		StreakDays:     Streak(streakEvents, tzOffsetMin, now),
		DailyBreakdown: DailyBreakdown(sessions, weekStart, tzOffsetMin),
		Projects:       ProjectBreakdown(sessions),
		Agents:         AgentBreakdown(sessions, totalHours),
		Machines:       MachineBreakdown(sessions, totalHours),
		AgentProjects:  AgentProjectBreakdown(sessions),
	}
}

// DailyBreakdown buckets sessions into the 7 calendar days starting at
// weekStart. A session belongs to the day its start falls on in the
// caller's timezone; bucket dates themselves are UTC day increments.
func DailyBreakdown(sessions []Session, weekStart time.Time, tzOffsetMin int) []DaySummary {
	offset := time.Duration(tzOffsetMin) * time.Minute

	days := make([]DaySummary, 0, 7)
	for i := 0; i < 7; i++ {
		date := weekStart.UTC().AddDate(0, 0, i).Format("2006-01-02")

		var matched []Session
		var minutes float64
		for _, s := range sessions {
			if s.Start.UTC().Add(offset).Format("2006-01-02") != date {
				continue
			}
			matched = append(matched, s)
			minutes += s.ActiveMinutes
		}

		days = append(days, DaySummary{
			Date:     date,
			Hours:    roundHours(minutes),
			Sessions: len(matched),
			Projects: ProjectBreakdown(matched),
		})
	}
	return days
}

// ProjectBreakdown groups sessions by project, most hours first.
// Projects with exactly equal hours keep first-seen order.
func ProjectBreakdown(sessions []Session) []ProjectSummary {
	minutes := make(map[string]float64)
	counts := make(map[string]int)
	var order []string

	for _, s := range sessions {
		if counts[s.Project] == 0 {
			order = append(order, s.Project)
		}
		minutes[s.Project] += s.ActiveMinutes
		counts[s.Project]++
	}

	result := make([]ProjectSummary, 0, len(order))
	for _, p := range order {
		result = append(result, ProjectSummary{
			Project:  p,
			Hours:    roundHours(minutes[p]),
			Sessions: counts[p],
		})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Hours > result[j].Hours
	})
	return result
}

// AgentBreakdown groups sessions by agent with each agent's share of
// totalHours, most hours first. A zero total yields zero percentages.
func AgentBreakdown(sessions []Session, totalHours float64) []AgentSummary {
	minutes := make(map[string]float64)
	var order []string

	for _, s := range sessions {
		if _, seen := minutes[s.Agent]; !seen {
			order = append(order, s.Agent)
		}
		minutes[s.Agent] += s.ActiveMinutes
	}

	result := make([]AgentSummary, 0, len(order))
	for _, a := range order {
		hours := roundHours(minutes[a])
		result = append(result, AgentSummary{
			Agent:      a,
			Hours:      hours,
			Percentage: percentage(hours, totalHours),
		})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Hours > result[j].Hours
	})
	return result
}

// MachineBreakdown groups sessions by machine, same shape as the agent
// roll-up.
func MachineBreakdown(sessions []Session, totalHours float64) []MachineSummary {
	minutes := make(map[string]float64)
	var order []string

	for _, s := range sessions {
		if _, seen := minutes[s.Machine]; !seen {
			order = append(order, s.Machine)
		}
		minutes[s.Machine] += s.ActiveMinutes
	}

	result := make([]MachineSummary, 0, len(order))
	for _, m := range order {
		hours := roundHours(minutes[m])
		result = append(result, MachineSummary{
			Machine:    m,
			Hours:      hours,
			Percentage: percentage(hours, totalHours),
		})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Hours > result[j].Hours
	})
	return result
}

// AgentProjectBreakdown lists, per agent, the distinct projects that
// agent actually has sessions in. Project names are alphabetical;
// agents are ordered by their total hours descending.
func AgentProjectBreakdown(sessions []Session) []AgentProjects {
	minutes := make(map[string]float64)
	projects := make(map[string]map[string]struct{})
	var order []string

	for _, s := range sessions {
		if projects[s.Agent] == nil {
			order = append(order, s.Agent)
			projects[s.Agent] = make(map[string]struct{})
		}
		minutes[s.Agent] += s.ActiveMinutes
		projects[s.Agent][s.Project] = struct{}{}
	}

	result := make([]AgentProjects, 0, len(order))
	for _, a := range order {
		names := make([]string, 0, len(projects[a]))
		for p := range projects[a] {
			names = append(names, p)
		}
		sort.Strings(names)
		result = append(result, AgentProjects{
			Agent:    a,
			Hours:    roundHours(minutes[a]),
			Projects: names,
		})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Hours > result[j].Hours
	})
	return result
}

// ProjectStatsAll reconstructs sessions from events and rolls them up
// per project, most hours first. Agent hours are scoped to the project,
// not global. Empty input yields an empty slice, not placeholders.
func ProjectStatsAll(events []Event, now time.Time) []ProjectStats {
	sessions := ReconstructSessions(events, now)

	minutes := make(map[string]float64)
	counts := make(map[string]int)
	agentMinutes := make(map[string]map[string]float64)
	var order []string

	for _, s := range sessions {
		if agentMinutes[s.Project] == nil {
			order = append(order, s.Project)
			agentMinutes[s.Project] = make(map[string]float64)
		}
		minutes[s.Project] += s.ActiveMinutes
		counts[s.Project]++
		agentMinutes[s.Project][s.Agent] += s.ActiveMinutes
	}

	result := make([]ProjectStats, 0, len(order))
	for _, p := range order {
		agents := make(map[string]float64, len(agentMinutes[p]))
		for a, mins := range agentMinutes[p] {
			agents[a] = roundHours(mins)
		}
		result = append(result, ProjectStats{
			Project:       p,
			TotalHours:    roundHours(minutes[p]),
			TotalSessions: counts[p],
			Agents:        agents,
		})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].TotalHours > result[j].TotalHours
	})
	return result
}

func roundHours(minutes float64) float64 {
	return math.Round(minutes/60*10) / 10
}

// percentage is zero-safe: a zero total yields 0 rather than NaN.
func percentage(hours, total float64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(hours / total * 100))
}
