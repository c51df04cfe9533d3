package service

import (
	"context"
	"fmt"
	"time"

	"lifeos/internal/model"
	"lifeos/internal/repository"
)

// LedgerField names one of the additive day-ledger counters.
type LedgerField string

const (
	FieldTasksCompleted LedgerField = "tasksCompleted"
	FieldXPEarned       LedgerField = "xpEarned"
	FieldFocusMinutes   LedgerField = "focusMinutes"
	FieldMoneySpent     LedgerField = "moneySpent"
)

// LedgerService is the only mutation path for day-ledger rows. Counters are
// adjusted with signed deltas so a create-then-delete sequence nets the row
// back to its prior values. Sleep hours are the exception: at most one sleep
// entry exists per date, so they are set outright via SetSleepHours.
type LedgerService struct {
	repo *repository.LedgerRepository
}

func NewLedgerService(repo *repository.LedgerRepository) *LedgerService {
	return &LedgerService{repo: repo}
}

// ApplyDelta adds a signed amount to one counter of the given date's row,
// creating a zeroed row first if the date has seen no activity yet.
func (s *LedgerService) ApplyDelta(ctx context.Context, date string, field LedgerField, amount float64) error {
	entry, err := s.repo.GetOrCreate(ctx, date)
	if err != nil {
		return err
	}

	switch field {
	case FieldTasksCompleted:
		entry.TasksCompleted += int(amount)
	case FieldXPEarned:
		entry.XPEarned += int(amount)
	case FieldFocusMinutes:
		entry.FocusMinutes += int(amount)
	case FieldMoneySpent:
		entry.MoneySpent += amount
	default:
		return fmt.Errorf("unknown ledger field %q", field)
	}

	return s.repo.Save(ctx, entry)
}

// SetSleepHours overwrites the date's sleep hours. Deleting a sleep entry
// sets them back to zero.
func (s *LedgerService) SetSleepHours(ctx context.Context, date string, hours float64) error {
	entry, err := s.repo.GetOrCreate(ctx, date)
	if err != nil {
		return err
	}
	entry.SleepHours = hours
	return s.repo.Save(ctx, entry)
}

// Entry returns the row for a day key, or a zeroed value if the date has no
// recorded activity.
func (s *LedgerService) Entry(ctx context.Context, date string) (model.DayLedgerEntry, error) {
	entry, err := s.repo.FindByDate(ctx, date)
	if err != nil {
		if isNotFound(err) {
			return model.DayLedgerEntry{Date: date}, nil
		}
		return model.DayLedgerEntry{}, err
	}
	return *entry, nil
}

// Month returns all rows for the month containing t, ascending by date.
func (s *LedgerService) Month(ctx context.Context, t time.Time) ([]model.DayLedgerEntry, error) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1)
	return s.repo.ListRange(ctx, DayKey(first), DayKey(last))
}
