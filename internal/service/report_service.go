package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"
)

// ReportService builds human-readable summaries for the bot and for the
// scheduled daily report.
type ReportService struct {
	tasks    *TaskService
	focus    *FocusService
	sleep    *SleepService
	expenses *ExpenseService
	progress *ProgressService
	ledger   *LedgerService
}

func NewReportService(tasks *TaskService, focus *FocusService, sleep *SleepService, expenses *ExpenseService, progress *ProgressService, ledger *LedgerService) *ReportService {
	return &ReportService{
		tasks:    tasks,
		focus:    focus,
		sleep:    sleep,
		expenses: expenses,
		progress: progress,
		ledger:   ledger,
	}
}

// DailySummary renders streak, level, today's ledger totals, and pending
// tasks as HTML for Telegram.
func (s *ReportService) DailySummary(ctx context.Context, now time.Time) (string, error) {
	progress := s.progress.Current()
	today, err := s.ledger.Entry(ctx, DayKey(now))
	if err != nil {
		return "", err
	}
	pending, err := s.tasks.ListActive(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("📋 <b>Daily report</b>\n")
	b.WriteString(fmt.Sprintf("🗓 %s\n\n", now.Format("Mon, 02 Jan 2006")))

	b.WriteString(fmt.Sprintf("⭐️ Level %d · %d XP · %d%% to next level\n",
		progress.Level, progress.TotalXP, LevelProgress(progress.TotalXP, progress.Level)))
	b.WriteString(fmt.Sprintf("🔥 Streak: %d days (best %d)\n\n", progress.CurrentStreak, progress.LongestStreak))

	b.WriteString("<b>Today</b>\n")
	b.WriteString(fmt.Sprintf("✅ Tasks done: %d (+%d XP)\n", today.TasksCompleted, today.XPEarned))
	b.WriteString(fmt.Sprintf("⏱ Focus: %s\n", FormatMinutes(today.FocusMinutes)))
	if today.SleepHours > 0 {
		b.WriteString(fmt.Sprintf("😴 Sleep: %.1fh\n", today.SleepHours))
	}
	if today.MoneySpent > 0 {
		b.WriteString(fmt.Sprintf("💸 Spent: $%.2f\n", today.MoneySpent))
	}

	b.WriteString("\n<b>Open tasks</b>\n")
	if len(pending) == 0 {
		b.WriteString("— nothing pending, well done\n")
	} else {
		for i, task := range pending {
			if i == 10 {
				b.WriteString(fmt.Sprintf("… and %d more\n", len(pending)-i))
				break
			}
			b.WriteString(fmt.Sprintf("• %s (%s, +%d XP)\n",
				html.EscapeString(task.Title), task.Priority, XPForPriority(task.Priority)))
		}
	}

	return strings.TrimSpace(b.String()), nil
}

// Calendar renders a month heat-map from the day ledger. Intensity follows
// the XP earned that day: none, <50, <100, <200, and 200 or more.
func (s *ReportService) Calendar(ctx context.Context, now time.Time) (string, error) {
	entries, err := s.ledger.Month(ctx, now)
	if err != nil {
		return "", err
	}

	byDate := make(map[string]int, len(entries))
	for _, entry := range entries {
		byDate[entry.Date] = entry.XPEarned
	}

	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	daysInMonth := first.AddDate(0, 1, -1).Day()

	var b strings.Builder
	b.WriteString(fmt.Sprintf("🗓 <b>%s</b>\n<code>", now.Format("January 2006")))
	// Leading pad so weeks line up Monday-first.
	pad := (int(first.Weekday()) + 6) % 7
	for i := 0; i < pad; i++ {
		b.WriteString("  ")
	}
	for day := 1; day <= daysInMonth; day++ {
		date := DayKey(time.Date(now.Year(), now.Month(), day, 0, 0, 0, 0, now.Location()))
		b.WriteString(intensityGlyph(byDate[date]))
		b.WriteByte(' ')
		if (pad+day)%7 == 0 {
			b.WriteByte('\n')
		}
	}
	b.WriteString("</code>\n")
	b.WriteString("▫️ none · ▪️ low · ◾️ medium · ◼️ high · ⬛️ very high")
	return strings.TrimSpace(b.String()), nil
}

func intensityGlyph(xp int) string {
	switch {
	case xp <= 0:
		return "▫️"
	case xp < 50:
		return "▪️"
	case xp < 100:
		return "◾️"
	case xp < 200:
		return "◼️"
	default:
		return "⬛️"
	}
}

// Insights produces rule-based observations over the current statistics.
func (s *ReportService) Insights(ctx context.Context, now time.Time) ([]string, error) {
	taskStats, err := s.tasks.Stats(ctx)
	if err != nil {
		return nil, err
	}
	focusStats, err := s.focus.Stats(ctx, now)
	if err != nil {
		return nil, err
	}
	sleepStats, err := s.sleep.Stats(ctx, now)
	if err != nil {
		return nil, err
	}
	progress := s.progress.Current()

	var insights []string
	switch {
	case sleepStats.Total > 0 && sleepStats.AverageDuration >= 7 && sleepStats.AverageDuration <= 9:
		insights = append(insights, "Your sleep is in the optimal range (7-9h). Great job maintaining healthy sleep habits!")
	case sleepStats.Total > 0 && sleepStats.AverageDuration < 7:
		insights = append(insights, fmt.Sprintf("You're averaging %.1fh of sleep. Try to increase it to 7-9h for better productivity.", sleepStats.AverageDuration))
	}

	switch {
	case taskStats.CompletionRate >= 70 && taskStats.Total > 0:
		insights = append(insights, fmt.Sprintf("You're completing %d%% of your tasks. Excellent follow-through!", taskStats.CompletionRate))
	case taskStats.CompletionRate < 50 && taskStats.Total > 5:
		insights = append(insights, fmt.Sprintf("Your task completion rate is %d%%. Consider breaking tasks into smaller chunks.", taskStats.CompletionRate))
	}

	if focusStats.AverageSession >= 45 {
		insights = append(insights, fmt.Sprintf("Your average focus session is %d minutes. You're building deep work capacity!", focusStats.AverageSession))
	}
	if progress.CurrentStreak >= 7 {
		insights = append(insights, fmt.Sprintf("%d-day streak! You're building serious momentum.", progress.CurrentStreak))
	}

	if len(insights) == 0 {
		insights = append(insights, "Not enough data yet. Log a few days of activity and check back.")
	}
	return insights, nil
}

// FormatMinutes renders a minute count as "2h 5m" style text.
func FormatMinutes(minutes int) string {
	hours := minutes / 60
	mins := minutes % 60
	switch {
	case hours == 0:
		return fmt.Sprintf("%dm", mins)
	case mins == 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
}
