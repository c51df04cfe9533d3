package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lifeos/internal/model"
	"lifeos/internal/repository"
)

// ErrSleepEntryExists is returned when a night has already been logged for
// the requested date.
var ErrSleepEntryExists = errors.New("sleep entry already exists for that date")

// SleepStats summarizes logged sleep entries.
type SleepStats struct {
	Total           int
	AverageDuration float64 // hours, one decimal
	AverageQuality  float64 // one decimal
	Consistency     int     // percent of the trailing 7 days with an entry
	QualityCounts   [5]int  // index 0 holds quality 1
}

// SleepService owns the sleep-entry collection. One entry per calendar date:
// the ledger's sleep hours are a plain set, which is only sound while that
// invariant holds.
type SleepService struct {
	repo   *repository.SleepRepository
	ledger *LedgerService
}

func NewSleepService(repo *repository.SleepRepository, ledger *LedgerService) *SleepService {
	return &SleepService{repo: repo, ledger: ledger}
}

// Add logs a night of sleep. Date defaults to today when empty; a second
// entry for the same date is rejected with ErrSleepEntryExists.
func (s *SleepService) Add(ctx context.Context, sleepTime, wakeTime string, quality int, date string, now time.Time) (*model.SleepEntry, error) {
	if quality < 1 || quality > 5 {
		return nil, fmt.Errorf("quality must be between 1 and 5")
	}
	duration, err := SleepDuration(sleepTime, wakeTime)
	if err != nil {
		return nil, err
	}
	if date == "" {
		date = DayKey(now)
	} else if _, err := ParseDayKey(date); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByDate(ctx, date); err == nil {
		return nil, ErrSleepEntryExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	entry := model.SleepEntry{
		ID:            uuid.NewString(),
		Date:          date,
		SleepTime:     sleepTime,
		WakeTime:      wakeTime,
		DurationHours: duration,
		Quality:       quality,
	}
	if err := s.repo.Create(ctx, &entry); err != nil {
		return nil, err
	}

	if err := s.ledger.SetSleepHours(ctx, date, duration); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *SleepService) List(ctx context.Context) ([]model.SleepEntry, error) {
	return s.repo.ListAll(ctx)
}

// EntryByDate returns the entry logged for a day key, if any.
func (s *SleepService) EntryByDate(ctx context.Context, date string) (*model.SleepEntry, error) {
	return s.repo.FindByDate(ctx, date)
}

// Update recomputes the duration from new times and re-sets the ledger hours
// for the entry's date.
func (s *SleepService) Update(ctx context.Context, id, sleepTime, wakeTime string, quality int) (*model.SleepEntry, error) {
	if quality < 1 || quality > 5 {
		return nil, fmt.Errorf("quality must be between 1 and 5")
	}
	duration, err := SleepDuration(sleepTime, wakeTime)
	if err != nil {
		return nil, err
	}

	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	entry.SleepTime = sleepTime
	entry.WakeTime = wakeTime
	entry.DurationHours = duration
	entry.Quality = quality
	if err := s.repo.Save(ctx, entry); err != nil {
		return nil, err
	}

	if err := s.ledger.SetSleepHours(ctx, entry.Date, duration); err != nil {
		return nil, err
	}
	return entry, nil
}

// Delete removes an entry and zeroes its date's ledger hours.
func (s *SleepService) Delete(ctx context.Context, id string) error {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.ledger.SetSleepHours(ctx, entry.Date, 0); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Stats folds the current collection into summary numbers relative to now.
func (s *SleepService) Stats(ctx context.Context, now time.Time) (SleepStats, error) {
	entries, err := s.repo.ListAll(ctx)
	if err != nil {
		return SleepStats{}, err
	}

	stats := SleepStats{Total: len(entries)}
	if stats.Total == 0 {
		return stats, nil
	}

	last7 := make(map[string]bool, 7)
	for i := 0; i < 7; i++ {
		last7[DayKey(now.AddDate(0, 0, -i))] = true
	}

	var durationSum, qualitySum float64
	var recent int
	for _, entry := range entries {
		durationSum += entry.DurationHours
		qualitySum += float64(entry.Quality)
		if entry.Quality >= 1 && entry.Quality <= 5 {
			stats.QualityCounts[entry.Quality-1]++
		}
		if last7[entry.Date] {
			recent++
		}
	}

	stats.AverageDuration = math.Round(durationSum/float64(stats.Total)*10) / 10
	stats.AverageQuality = math.Round(qualitySum/float64(stats.Total)*10) / 10
	stats.Consistency = int(math.Round(float64(recent) / 7 * 100))
	return stats, nil
}
