package service

import (
	"context"
	"log"
	"sync"
	"time"

	"lifeos/internal/model"
	"lifeos/internal/repository"
)

// ProgressService owns the gamification singleton: total XP, derived level,
// streak counters, and the unlocked badge set. State lives in memory for the
// lifetime of the process and is persisted best-effort after every mutation;
// a failed write is logged and the in-memory copy stays authoritative.
type ProgressService struct {
	repo *repository.ProgressRepository

	mu       sync.Mutex
	progress model.UserProgress
}

// NewProgressService loads (or creates) the persisted singleton.
func NewProgressService(ctx context.Context, repo *repository.ProgressRepository) (*ProgressService, error) {
	saved, err := repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &ProgressService{repo: repo, progress: *saved}, nil
}

// Current returns a snapshot of the progress state.
func (s *ProgressService) Current() model.UserProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

// ApplyXPDelta adjusts total XP by a signed amount, recomputes the level and
// badge set, and persists. XP is clamped at zero so the level formula never
// sees a negative argument.
func (s *ProgressService) ApplyXPDelta(ctx context.Context, amount int) model.UserProgress {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := s.progress.TotalXP + amount
	if total < 0 {
		total = 0
	}
	s.progress.TotalXP = total
	s.progress.Level = CalculateLevel(total)
	s.progress.Badges = UnlockedBadges(s.progress.Level)

	s.persist(ctx)
	return s.progress
}

// RecordCompletion advances the daily streak for a qualifying completion.
// Repeat completions on the same date are a no-op; a completion exactly one
// day after the last one extends the streak; anything later resets it to 1.
func (s *ProgressService) RecordCompletion(ctx context.Context, now time.Time) model.UserProgress {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := DayKey(now)
	last := s.progress.LastCompletionDate

	switch {
	case last == "":
		s.progress.CurrentStreak = 1
		s.progress.LongestStreak = 1
	case last == today:
		return s.progress
	default:
		gap, err := daysBetween(last, today)
		if err != nil {
			// Unparseable bookkeeping date: start over rather than guess.
			log.Printf("streak: %v", err)
			gap = -1
		}
		if gap == 1 {
			s.progress.CurrentStreak++
			if s.progress.CurrentStreak > s.progress.LongestStreak {
				s.progress.LongestStreak = s.progress.CurrentStreak
			}
		} else {
			s.progress.CurrentStreak = 1
		}
	}

	s.progress.LastCompletionDate = today
	s.persist(ctx)
	return s.progress
}

// Reset returns progress to the zero state and persists it.
func (s *ProgressService) Reset(ctx context.Context) model.UserProgress {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.progress = model.UserProgress{
		ID:     s.progress.ID,
		Badges: []string{},
	}
	s.persist(ctx)
	return s.progress
}

// persist writes the singleton; callers hold the lock. Write failures do not
// roll back in-memory state.
func (s *ProgressService) persist(ctx context.Context) {
	if err := s.repo.Save(ctx, &s.progress); err != nil {
		log.Printf("persist progress: %v", err)
	}
}
