package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyXPDeltaLevelInvariant(t *testing.T) {
	env := setupTestEnv(t)

	deltas := []int{50, 30, 15, 50, 50, -30, 400, -15, 50}
	for _, delta := range deltas {
		progress := env.progress.ApplyXPDelta(env.ctx, delta)
		assert.Equal(t, CalculateLevel(progress.TotalXP), progress.Level)
		assert.GreaterOrEqual(t, progress.Level, 0)
	}
}

func TestApplyXPDeltaClampsAtZero(t *testing.T) {
	env := setupTestEnv(t)

	env.progress.ApplyXPDelta(env.ctx, 30)
	progress := env.progress.ApplyXPDelta(env.ctx, -100)
	assert.Equal(t, 0, progress.TotalXP)
	assert.Equal(t, 0, progress.Level)
}

func TestApplyXPDeltaBadges(t *testing.T) {
	env := setupTestEnv(t)

	// 10000 XP is exactly level 10.
	progress := env.progress.ApplyXPDelta(env.ctx, 10000)
	assert.Equal(t, 10, progress.Level)
	assert.Equal(t, []string{"First Steps", "Getting Started", "Momentum Builder"}, progress.Badges)
}

func TestRecordCompletionFirstEver(t *testing.T) {
	env := setupTestEnv(t)

	now := time.Date(2026, time.March, 9, 20, 0, 0, 0, time.UTC)
	progress := env.progress.RecordCompletion(env.ctx, now)
	assert.Equal(t, 1, progress.CurrentStreak)
	assert.Equal(t, 1, progress.LongestStreak)
	assert.Equal(t, "2026-03-09", progress.LastCompletionDate)
}

func TestRecordCompletionSameDayIdempotent(t *testing.T) {
	env := setupTestEnv(t)

	morning := time.Date(2026, time.March, 9, 9, 0, 0, 0, time.UTC)
	evening := time.Date(2026, time.March, 9, 22, 0, 0, 0, time.UTC)
	env.progress.RecordCompletion(env.ctx, morning)
	progress := env.progress.RecordCompletion(env.ctx, evening)
	assert.Equal(t, 1, progress.CurrentStreak)
}

func TestRecordCompletionConsecutiveDays(t *testing.T) {
	env := setupTestEnv(t)

	day := time.Date(2026, time.March, 9, 20, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		env.progress.RecordCompletion(env.ctx, day.AddDate(0, 0, i))
	}
	progress := env.progress.Current()
	assert.Equal(t, 5, progress.CurrentStreak)
	assert.Equal(t, 5, progress.LongestStreak)
}

func TestRecordCompletionGapResetsStreak(t *testing.T) {
	env := setupTestEnv(t)

	day := time.Date(2026, time.March, 9, 20, 0, 0, 0, time.UTC)
	env.progress.RecordCompletion(env.ctx, day)
	env.progress.RecordCompletion(env.ctx, day.AddDate(0, 0, 1))
	env.progress.RecordCompletion(env.ctx, day.AddDate(0, 0, 2))

	// Two-day gap: streak resets, longest stays.
	progress := env.progress.RecordCompletion(env.ctx, day.AddDate(0, 0, 5))
	assert.Equal(t, 1, progress.CurrentStreak)
	assert.Equal(t, 3, progress.LongestStreak)
	assert.Equal(t, "2026-03-14", progress.LastCompletionDate)
}

func TestReset(t *testing.T) {
	env := setupTestEnv(t)

	env.progress.ApplyXPDelta(env.ctx, 500)
	env.progress.RecordCompletion(env.ctx, time.Date(2026, time.March, 9, 20, 0, 0, 0, time.UTC))

	progress := env.progress.Reset(env.ctx)
	assert.Equal(t, 0, progress.TotalXP)
	assert.Equal(t, 0, progress.Level)
	assert.Equal(t, 0, progress.CurrentStreak)
	assert.Equal(t, 0, progress.LongestStreak)
	assert.Empty(t, progress.LastCompletionDate)
	assert.Empty(t, progress.Badges)
}
