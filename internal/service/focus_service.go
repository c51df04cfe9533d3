package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"lifeos/internal/model"
	"lifeos/internal/repository"
)

// FocusStats summarizes logged focus sessions.
type FocusStats struct {
	Total          int
	Today          int
	TodayMinutes   int
	TotalMinutes   int
	AverageSession int // minutes, rounded; 0 when no sessions exist
}

// FocusService owns the focus-session collection. Sessions are logged after
// the fact (a cancelled timer never reaches this service) and contribute
// their minutes to the day ledger of their start date.
type FocusService struct {
	repo   *repository.FocusRepository
	ledger *LedgerService
}

func NewFocusService(repo *repository.FocusRepository, ledger *LedgerService) *FocusService {
	return &FocusService{repo: repo, ledger: ledger}
}

// Add logs a finished session starting at now and lasting the given minutes.
func (s *FocusService) Add(ctx context.Context, mode model.FocusMode, minutes int, now time.Time) (*model.FocusSession, error) {
	if !model.ValidFocusMode(mode) {
		return nil, fmt.Errorf("unknown focus mode %q", mode)
	}
	if minutes <= 0 {
		return nil, fmt.Errorf("duration must be positive")
	}

	session := model.FocusSession{
		ID:              uuid.NewString(),
		StartTime:       now,
		EndTime:         now.Add(time.Duration(minutes) * time.Minute),
		DurationMinutes: minutes,
		Mode:            mode,
	}
	if err := s.repo.Create(ctx, &session); err != nil {
		return nil, err
	}

	if err := s.ledger.ApplyDelta(ctx, DayKey(now), FieldFocusMinutes, float64(minutes)); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *FocusService) List(ctx context.Context) ([]model.FocusSession, error) {
	return s.repo.ListAll(ctx)
}

// Delete removes a session and subtracts its minutes from the ledger row of
// the session's original start date, not the date of deletion.
func (s *FocusService) Delete(ctx context.Context, id string) error {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	day := DayKey(session.StartTime)
	if err := s.ledger.ApplyDelta(ctx, day, FieldFocusMinutes, float64(-session.DurationMinutes)); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// SessionsOn returns sessions whose start time falls on the given day key.
func (s *FocusService) SessionsOn(ctx context.Context, date string) ([]model.FocusSession, error) {
	sessions, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	var onDate []model.FocusSession
	for _, session := range sessions {
		if DayKey(session.StartTime) == date {
			onDate = append(onDate, session)
		}
	}
	return onDate, nil
}

// Stats folds the current collection into summary numbers relative to now.
func (s *FocusService) Stats(ctx context.Context, now time.Time) (FocusStats, error) {
	sessions, err := s.repo.ListAll(ctx)
	if err != nil {
		return FocusStats{}, err
	}

	today := DayKey(now)
	stats := FocusStats{Total: len(sessions)}
	for _, session := range sessions {
		stats.TotalMinutes += session.DurationMinutes
		if DayKey(session.StartTime) == today {
			stats.Today++
			stats.TodayMinutes += session.DurationMinutes
		}
	}
	if stats.Total > 0 {
		stats.AverageSession = int(math.Round(float64(stats.TotalMinutes) / float64(stats.Total)))
	}
	return stats, nil
}
