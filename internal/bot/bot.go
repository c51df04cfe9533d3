package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"gorm.io/gorm"

	"lifeos/internal/model"
	"lifeos/internal/repository"
	"lifeos/internal/service"
)

type conversationStage int

const (
	stageNone conversationStage = iota
	stageTaskTitle
	stageTaskPriority
)

const (
	cbTogglePrefix = "toggle:"
	cbDeletePrefix = "rmtask:"
)

const (
	btnCancel         = "↩️ Cancel"
	btnConfirmReset   = "⚠️ Yes, wipe my progress"
	menuLabelNewTask  = "➕ New task"
	menuLabelTasks    = "📋 Tasks"
	menuLabelStats    = "📊 Stats"
	menuLabelCalendar = "🗓 Calendar"
)

type conversationState struct {
	stage    conversationStage
	title    string
	priority model.Priority
}

// Bot wires the Telegram API to the tracker services.
type Bot struct {
	api      *tgbotapi.BotAPI
	userRepo *repository.UserRepository
	tasks    *service.TaskService
	focus    *service.FocusService
	sleep    *service.SleepService
	expenses *service.ExpenseService
	progress *service.ProgressService
	reports  *service.ReportService

	mu            sync.Mutex
	conversations map[int64]*conversationState
	pendingResets map[int64]bool
}

func New(token string, userRepo *repository.UserRepository, tasks *service.TaskService, focus *service.FocusService, sleep *service.SleepService, expenses *service.ExpenseService, progress *service.ProgressService, reports *service.ReportService) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("[info] bot authorized on account %s", api.Self.UserName)

	return &Bot{
		api:           api,
		userRepo:      userRepo,
		tasks:         tasks,
		focus:         focus,
		sleep:         sleep,
		expenses:      expenses,
		progress:      progress,
		reports:       reports,
		conversations: make(map[int64]*conversationState),
		pendingResets: make(map[int64]bool),
	}, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	log.Println("[info] start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
				log.Printf("handle callback: %v", err)
			}
		case update.Message != nil:
			if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
				continue
			}
			if err := b.handleMessage(ctx, update.Message); err != nil {
				log.Printf("handle message: %v", err)
			}
		}
	}

	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	if !msg.IsCommand() && strings.EqualFold(strings.TrimSpace(msg.Text), btnCancel) {
		b.clearConversation(msg.From.ID)
		b.clearPendingReset(msg.From.ID)
		return b.sendText(msg.Chat.ID, "↩️ Cancelled.")
	}

	if !msg.IsCommand() {
		if handled, err := b.handleMenuAlias(ctx, msg); handled {
			return err
		}
	}

	if msg.IsCommand() {
		log.Printf("[info] command from %d: /%s %s", msg.From.ID, msg.Command(), msg.CommandArguments())
		return b.handleCommand(ctx, msg)
	}

	if b.hasPendingReset(msg.From.ID) {
		return b.handleResetResponse(ctx, msg)
	}

	if b.hasConversation(msg.From.ID) {
		return b.handleConversation(ctx, msg)
	}

	return b.sendText(msg.Chat.ID, "I didn't catch that. Try /newtask to add a task, or /help for the full command list.")
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start":
		return b.handleStart(ctx, msg)
	case "help":
		return b.handleHelp(msg)
	case "newtask":
		return b.startNewTaskConversation(ctx, msg)
	case "tasks":
		return b.sendTaskList(ctx, msg.Chat.ID)
	case "focus":
		return b.handleFocus(ctx, msg)
	case "sleep":
		return b.handleSleep(ctx, msg)
	case "expense":
		return b.handleExpense(ctx, msg)
	case "expenses":
		return b.handleExpenseList(ctx, msg)
	case "stats":
		return b.handleStats(ctx, msg)
	case "recent":
		return b.handleRecent(ctx, msg)
	case "streak":
		return b.handleStreak(msg)
	case "calendar":
		return b.handleCalendar(ctx, msg)
	case "insights":
		return b.handleInsights(ctx, msg)
	case "report":
		return b.handleReport(ctx, msg)
	case "reset":
		return b.askResetConfirmation(msg)
	case "cancel":
		b.clearConversation(msg.From.ID)
		b.clearPendingReset(msg.From.ID)
		return b.sendText(msg.Chat.ID, "↩️ Cancelled.")
	default:
		return b.sendText(msg.Chat.ID, "Unknown command. See /help.")
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.ensureUser(ctx, msg.From); err != nil {
		return err
	}

	name := strings.TrimSpace(msg.From.FirstName)
	if name == "" {
		name = "there"
	}

	text := fmt.Sprintf(
		"👋 Hi %s!\n<b>I'm your Life OS: tasks, focus, sleep, and spending in one place.</b>\n\n"+
			"Log things, earn XP, keep your streak alive. Start with /newtask or see /help.",
		html.EscapeString(name),
	)
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	text := "ℹ️ <b>Commands</b>\n" +
		"• /newtask — add a task step by step\n" +
		"• /tasks — list tasks, toggle or delete by button\n" +
		"• /focus &lt;minutes&gt; — log a finished focus session; bare /focus shows today's\n" +
		"• /sleep &lt;bed&gt; &lt;wake&gt; &lt;quality 1-5&gt; [date] — log last night, e.g. /sleep 23:00 07:00 4\n" +
		"• /expense &lt;amount&gt; &lt;category&gt; [note] — e.g. /expense 12.50 food lunch\n" +
		"• /expenses — spending overview\n" +
		"• /stats — tasks, focus, sleep, money at a glance\n" +
		"• /recent — last completed tasks\n" +
		"• /streak — streak, level, and badges\n" +
		"• /calendar — this month's activity heat-map\n" +
		"• /insights — what your data says\n" +
		"• /report — today's summary\n" +
		"• /reset — wipe XP, streak, and badges\n" +
		"• /cancel — abort the current dialog\n\n" +
		"Categories: food, transport, subscriptions, fun, learning, misc"
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleMenuAlias(ctx context.Context, msg *tgbotapi.Message) (bool, error) {
	text := strings.TrimSpace(strings.ToLower(msg.Text))
	switch text {
	case strings.ToLower(menuLabelNewTask):
		return true, b.startNewTaskConversation(ctx, msg)
	case strings.ToLower(menuLabelTasks):
		return true, b.sendTaskList(ctx, msg.Chat.ID)
	case strings.ToLower(menuLabelStats):
		return true, b.handleStats(ctx, msg)
	case strings.ToLower(menuLabelCalendar):
		return true, b.handleCalendar(ctx, msg)
	default:
		return false, nil
	}
}

func (b *Bot) startNewTaskConversation(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.ensureUser(ctx, msg.From); err != nil {
		return err
	}
	b.setConversation(msg.From.ID, &conversationState{stage: stageTaskTitle})
	return b.sendWithReplyMarkup(msg.Chat.ID, "🆕 New task.\n<b>Step 1:</b> what should it be called?", cancelKeyboard())
}

func (b *Bot) handleConversation(ctx context.Context, msg *tgbotapi.Message) error {
	state := b.getConversation(msg.From.ID)
	if state == nil {
		return nil
	}

	text := strings.TrimSpace(msg.Text)
	switch state.stage {
	case stageTaskTitle:
		if text == "" {
			return b.sendWithReplyMarkup(msg.Chat.ID, "The title can't be empty. What should the task be called?", cancelKeyboard())
		}
		state.title = text
		state.stage = stageTaskPriority
		return b.sendWithReplyMarkup(msg.Chat.ID, "<b>Step 2:</b> pick a priority. High is worth 50 XP, medium 30, low 15.", priorityKeyboard())
	case stageTaskPriority:
		priority := model.Priority(strings.ToLower(text))
		if !model.ValidPriority(priority) {
			return b.sendWithReplyMarkup(msg.Chat.ID, "Pick high, medium, or low.", priorityKeyboard())
		}
		state.priority = priority
		err := b.finishTaskCreation(ctx, msg.Chat.ID, state)
		b.clearConversation(msg.From.ID)
		return err
	default:
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "Dialog reset. Try again with /newtask.")
	}
}

func (b *Bot) finishTaskCreation(ctx context.Context, chatID int64, state *conversationState) error {
	task, err := b.tasks.Create(ctx, state.title, state.priority)
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Couldn't save the task: %s", html.EscapeString(err.Error())))
	}

	log.Printf("[info] task created id=%s priority=%s", task.ID, task.Priority)

	text := fmt.Sprintf("✅ <b>Task saved</b>\n• %s\n• %s priority, +%d XP on completion",
		html.EscapeString(task.Title), task.Priority, service.XPForPriority(task.Priority))
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(msg); err != nil {
		return err
	}
	return b.sendTaskList(ctx, chatID)
}

func (b *Bot) sendTaskList(ctx context.Context, chatID int64) error {
	tasks, err := b.tasks.List(ctx)
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Couldn't load tasks: %s", html.EscapeString(err.Error())))
	}
	if len(tasks) == 0 {
		return b.sendText(chatID, "No tasks yet. Add one with /newtask.")
	}

	var builder strings.Builder
	builder.WriteString("📋 <b>Tasks</b>\nTap a button to toggle completion or delete.\n\n")

	var buttons [][]tgbotapi.InlineKeyboardButton
	for _, task := range tasks {
		builder.WriteString(formatTaskLine(task))
		label := fmt.Sprintf("☑️ %s", shortTitle(task.Title, 24))
		if task.IsCompleted {
			label = fmt.Sprintf("↩️ %s", shortTitle(task.Title, 24))
		}
		buttons = append(buttons, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(label, cbTogglePrefix+task.ID),
			tgbotapi.NewInlineKeyboardButtonData("🗑", cbDeletePrefix+task.ID),
		})
	}

	msg := tgbotapi.NewMessage(chatID, strings.TrimSpace(builder.String()))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err = b.api.Send(msg)
	return err
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.From == nil || cb.Message == nil {
		return nil
	}
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		log.Printf("callback ack: %v", err)
	}

	chatID := cb.Message.Chat.ID
	data := cb.Data

	switch {
	case strings.HasPrefix(data, cbTogglePrefix):
		id := strings.TrimPrefix(data, cbTogglePrefix)
		task, err := b.tasks.Toggle(ctx, id, time.Now())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return b.sendText(chatID, "Task not found — maybe it was already deleted.")
			}
			return b.sendText(chatID, fmt.Sprintf("Error: %s", html.EscapeString(err.Error())))
		}
		if task.IsCompleted {
			progress := b.progress.Current()
			log.Printf("[info] task completed id=%s", task.ID)
			info := fmt.Sprintf("✅ <b>%s</b> done! +%d XP · streak %d 🔥",
				html.EscapeString(task.Title), service.XPForPriority(task.Priority), progress.CurrentStreak)
			if err := b.sendText(chatID, info); err != nil {
				return err
			}
		} else {
			if err := b.sendText(chatID, fmt.Sprintf("↩️ <b>%s</b> is open again; its XP was taken back.", html.EscapeString(task.Title))); err != nil {
				return err
			}
		}
		return b.sendTaskList(ctx, chatID)
	case strings.HasPrefix(data, cbDeletePrefix):
		id := strings.TrimPrefix(data, cbDeletePrefix)
		task, err := b.tasks.Get(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return b.sendText(chatID, "Task not found — maybe it was already deleted.")
			}
			return b.sendText(chatID, fmt.Sprintf("Error: %s", html.EscapeString(err.Error())))
		}
		if err := b.tasks.Delete(ctx, id); err != nil {
			return b.sendText(chatID, fmt.Sprintf("Couldn't delete the task: %s", html.EscapeString(err.Error())))
		}
		log.Printf("[info] task deleted id=%s", id)
		if err := b.sendText(chatID, fmt.Sprintf("🗑 <b>%s</b> deleted.", html.EscapeString(task.Title))); err != nil {
			return err
		}
		return b.sendTaskList(ctx, chatID)
	default:
		return nil
	}
}

func (b *Bot) handleFocus(ctx context.Context, msg *tgbotapi.Message) error {
	args := strings.Fields(msg.CommandArguments())
	if len(args) == 0 {
		return b.sendFocusToday(ctx, msg.Chat.ID)
	}
	if len(args) != 1 {
		return b.sendText(msg.Chat.ID, "How long did you focus? E.g. /focus 25")
	}
	minutes, err := strconv.Atoi(args[0])
	if err != nil || minutes <= 0 {
		return b.sendText(msg.Chat.ID, "Minutes must be a positive number, e.g. /focus 50")
	}

	mode := model.FocusModeCustom
	switch minutes {
	case 25:
		mode = model.FocusMode25
	case 50:
		mode = model.FocusMode50
	}

	session, err := b.focus.Add(ctx, mode, minutes, time.Now())
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Couldn't log the session: %s", html.EscapeString(err.Error())))
	}

	stats, err := b.focus.Stats(ctx, time.Now())
	if err != nil {
		return err
	}
	log.Printf("[info] focus session logged id=%s minutes=%d", session.ID, minutes)
	return b.sendText(msg.Chat.ID, fmt.Sprintf("⏱ Logged %s of focus. Today: %s across %d session(s).",
		service.FormatMinutes(minutes), service.FormatMinutes(stats.TodayMinutes), stats.Today))
}

func (b *Bot) sendFocusToday(ctx context.Context, chatID int64) error {
	today := service.DayKey(time.Now())
	sessions, err := b.focus.SessionsOn(ctx, today)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		return b.sendText(chatID, "No focus sessions today. Log one with /focus <minutes>.")
	}

	total := 0
	var sb strings.Builder
	sb.WriteString("⏱ <b>Today's focus</b>\n")
	for _, s := range sessions {
		total += s.DurationMinutes
		sb.WriteString(fmt.Sprintf("• %s — %s\n", s.StartTime.Format("15:04"), service.FormatMinutes(s.DurationMinutes)))
	}
	sb.WriteString(fmt.Sprintf("\nTotal: %s", service.FormatMinutes(total)))
	return b.sendText(chatID, sb.String())
}

func (b *Bot) handleSleep(ctx context.Context, msg *tgbotapi.Message) error {
	args := strings.Fields(msg.CommandArguments())
	if len(args) < 3 || len(args) > 4 {
		return b.sendText(msg.Chat.ID, "Usage: /sleep <bed> <wake> <quality 1-5> [date]\nE.g. /sleep 23:00 07:00 4")
	}
	quality, err := strconv.Atoi(args[2])
	if err != nil {
		return b.sendText(msg.Chat.ID, "Quality must be a number from 1 to 5.")
	}
	date := service.DayKey(time.Now())
	if len(args) == 4 {
		date = args[3]
	}

	entry, err := b.sleep.Add(ctx, args[0], args[1], quality, date, time.Now())
	if err != nil {
		if errors.Is(err, service.ErrSleepEntryExists) {
			existing, lookupErr := b.sleep.EntryByDate(ctx, date)
			if lookupErr == nil && existing != nil {
				return b.sendText(msg.Chat.ID, fmt.Sprintf(
					"That night is already logged: %.1fh (quality %d/5). Delete it first if you need to change it.",
					existing.DurationHours, existing.Quality))
			}
			return b.sendText(msg.Chat.ID, "That night is already logged. Delete the existing entry first if you need to change it.")
		}
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Couldn't log sleep: %s", html.EscapeString(err.Error())))
	}

	log.Printf("[info] sleep logged date=%s hours=%.1f", entry.Date, entry.DurationHours)
	return b.sendText(msg.Chat.ID, fmt.Sprintf("😴 Logged %.1fh of sleep for %s (quality %d/5).",
		entry.DurationHours, entry.Date, entry.Quality))
}

func (b *Bot) handleExpense(ctx context.Context, msg *tgbotapi.Message) error {
	args := strings.Fields(msg.CommandArguments())
	if len(args) < 2 {
		return b.sendText(msg.Chat.ID, "Usage: /expense <amount> <category> [note]\nE.g. /expense 12.50 food lunch")
	}
	amount, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return b.sendText(msg.Chat.ID, "Amount must be a number, e.g. 12.50")
	}
	category := model.ExpenseCategory(strings.ToLower(args[1]))
	note := strings.Join(args[2:], " ")

	expense, err := b.expenses.Add(ctx, amount, category, note, "", time.Now())
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Couldn't log the expense: %s", html.EscapeString(err.Error())))
	}

	stats, err := b.expenses.Stats(ctx, time.Now())
	if err != nil {
		return err
	}
	log.Printf("[info] expense logged id=%s amount=%.2f category=%s", expense.ID, expense.Amount, expense.Category)
	return b.sendText(msg.Chat.ID, fmt.Sprintf("💸 $%.2f on %s. Today: $%.2f, this month: $%.2f.",
		expense.Amount, expense.Category, stats.TodayTotal, stats.MonthTotal))
}

func (b *Bot) handleExpenseList(ctx context.Context, msg *tgbotapi.Message) error {
	stats, err := b.expenses.Stats(ctx, time.Now())
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Couldn't load expenses: %s", html.EscapeString(err.Error())))
	}
	if stats.Count == 0 {
		return b.sendText(msg.Chat.ID, "No expenses logged yet. Try /expense 12.50 food lunch.")
	}

	var builder strings.Builder
	builder.WriteString("💸 <b>Spending</b>\n")
	builder.WriteString(fmt.Sprintf("Today: $%.2f · This month: $%.2f · All time: $%.2f\n", stats.TodayTotal, stats.MonthTotal, stats.TotalAmount))
	builder.WriteString(fmt.Sprintf("Average expense: $%.2f over %d entries\n\n", stats.AverageExpense, stats.Count))
	builder.WriteString("<b>By category</b>\n")
	for _, category := range model.ExpenseCategories {
		if total, ok := stats.ByCategory[category]; ok {
			builder.WriteString(fmt.Sprintf("• %s: $%.2f\n", category, total))
		}
	}
	return b.sendText(msg.Chat.ID, strings.TrimSpace(builder.String()))
}

func (b *Bot) handleStats(ctx context.Context, msg *tgbotapi.Message) error {
	now := time.Now()
	taskStats, err := b.tasks.Stats(ctx)
	if err != nil {
		return err
	}
	focusStats, err := b.focus.Stats(ctx, now)
	if err != nil {
		return err
	}
	sleepStats, err := b.sleep.Stats(ctx, now)
	if err != nil {
		return err
	}
	expenseStats, err := b.expenses.Stats(ctx, now)
	if err != nil {
		return err
	}
	progress := b.progress.Current()

	var builder strings.Builder
	builder.WriteString("📊 <b>Stats</b>\n\n")
	builder.WriteString(fmt.Sprintf("⭐️ Level %d · %d XP · %d%% to next\n", progress.Level, progress.TotalXP, service.LevelProgress(progress.TotalXP, progress.Level)))
	builder.WriteString(fmt.Sprintf("🔥 Streak %d (best %d)\n\n", progress.CurrentStreak, progress.LongestStreak))
	builder.WriteString(fmt.Sprintf("✅ Tasks: %d done of %d (%d%%), %d open\n", taskStats.Completed, taskStats.Total, taskStats.CompletionRate, taskStats.Active))
	builder.WriteString(fmt.Sprintf("⏱ Focus: %s all time, avg %dm, today %s\n", service.FormatMinutes(focusStats.TotalMinutes), focusStats.AverageSession, service.FormatMinutes(focusStats.TodayMinutes)))
	if sleepStats.Total > 0 {
		builder.WriteString(fmt.Sprintf("😴 Sleep: avg %.1fh, quality %.1f/5, consistency %d%%\n", sleepStats.AverageDuration, sleepStats.AverageQuality, sleepStats.Consistency))
	} else {
		builder.WriteString("😴 Sleep: nothing logged yet\n")
	}
	builder.WriteString(fmt.Sprintf("💸 Money: $%.2f this month, $%.2f today\n", expenseStats.MonthTotal, expenseStats.TodayTotal))
	return b.sendText(msg.Chat.ID, strings.TrimSpace(builder.String()))
}

func (b *Bot) handleRecent(ctx context.Context, msg *tgbotapi.Message) error {
	recent, err := b.tasks.RecentCompletions(ctx, 5)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Couldn't load activity: %s", html.EscapeString(err.Error())))
	}
	if len(recent) == 0 {
		return b.sendText(msg.Chat.ID, "No recent activity. Complete some tasks to see them here.")
	}

	var builder strings.Builder
	builder.WriteString("🕑 <b>Recent activity</b>\n")
	for _, task := range recent {
		builder.WriteString(fmt.Sprintf("✅ %s · +%d XP · %s\n",
			html.EscapeString(task.Title), service.XPForPriority(task.Priority), task.CompletedAt.Format("Jan 2, 15:04")))
	}
	return b.sendText(msg.Chat.ID, strings.TrimSpace(builder.String()))
}

func (b *Bot) handleStreak(msg *tgbotapi.Message) error {
	progress := b.progress.Current()

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("🔥 <b>Streak: %d days</b> (best %d)\n", progress.CurrentStreak, progress.LongestStreak))
	builder.WriteString(fmt.Sprintf("⭐️ Level %d · %d XP · next level at %d XP\n", progress.Level, progress.TotalXP, service.XPForNextLevel(progress.Level)))
	if len(progress.Badges) > 0 {
		builder.WriteString("\n🏅 <b>Badges</b>\n")
		for _, badge := range progress.Badges {
			builder.WriteString(fmt.Sprintf("• %s\n", badge))
		}
	} else {
		builder.WriteString("\nNo badges yet — reach level 1 to unlock the first one.")
	}
	return b.sendText(msg.Chat.ID, strings.TrimSpace(builder.String()))
}

func (b *Bot) handleCalendar(ctx context.Context, msg *tgbotapi.Message) error {
	text, err := b.reports.Calendar(ctx, time.Now())
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Couldn't build the calendar: %s", html.EscapeString(err.Error())))
	}
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleInsights(ctx context.Context, msg *tgbotapi.Message) error {
	insights, err := b.reports.Insights(ctx, time.Now())
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Couldn't build insights: %s", html.EscapeString(err.Error())))
	}
	var builder strings.Builder
	builder.WriteString("💡 <b>Insights</b>\n")
	for _, insight := range insights {
		builder.WriteString(fmt.Sprintf("• %s\n", html.EscapeString(insight)))
	}
	return b.sendText(msg.Chat.ID, strings.TrimSpace(builder.String()))
}

func (b *Bot) handleReport(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.ensureUser(ctx, msg.From); err != nil {
		return err
	}
	text, err := b.reports.DailySummary(ctx, time.Now())
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Couldn't build the report: %s", html.EscapeString(err.Error())))
	}
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) askResetConfirmation(msg *tgbotapi.Message) error {
	b.setPendingReset(msg.From.ID)
	return b.sendWithReplyMarkup(msg.Chat.ID,
		"⚠️ This wipes XP, level, streak, and badges. Tasks and logs stay. Are you sure?",
		resetKeyboard())
}

func (b *Bot) handleResetResponse(ctx context.Context, msg *tgbotapi.Message) error {
	text := strings.TrimSpace(msg.Text)
	b.clearPendingReset(msg.From.ID)
	if strings.EqualFold(text, btnConfirmReset) {
		b.progress.Reset(ctx)
		log.Printf("[info] progress reset by %d", msg.From.ID)
		return b.sendTextWithRemove(msg.Chat.ID, "🧹 Progress reset. Fresh start!")
	}
	return b.sendTextWithRemove(msg.Chat.ID, "Reset cancelled.")
}

// SendDailyReports pushes the daily summary to every known chat.
func (b *Bot) SendDailyReports(ctx context.Context) error {
	users, err := b.userRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	now := time.Now()
	for _, user := range users {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		text, err := b.reports.DailySummary(ctx, now)
		if err != nil {
			log.Printf("build summary for chat %d: %v", user.TelegramID, err)
			continue
		}
		if err := b.sendText(user.TelegramID, text); err != nil {
			log.Printf("send summary to %d: %v", user.TelegramID, err)
		}
	}
	return nil
}

func (b *Bot) ensureUser(ctx context.Context, from *tgbotapi.User) (*model.User, error) {
	return b.userRepo.UpsertFromTelegram(ctx, from.ID, from.FirstName, from.LastName, from.UserName)
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = mainMenuKeyboard()
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendTextWithRemove(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) setConversation(userID int64, state *conversationState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conversations[userID] = state
}

func (b *Bot) getConversation(userID int64) *conversationState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conversations[userID]
}

func (b *Bot) hasConversation(userID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.conversations[userID]
	return ok
}

func (b *Bot) clearConversation(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.conversations, userID)
}

func (b *Bot) setPendingReset(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pendingResets[userID] = true
}

func (b *Bot) hasPendingReset(userID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pendingResets[userID]
}

func (b *Bot) clearPendingReset(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.pendingResets, userID)
}
