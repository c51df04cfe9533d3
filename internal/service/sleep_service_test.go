package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddSleepEntry(t *testing.T) {
	env := setupTestEnv(t)
	now := time.Date(2026, time.March, 9, 8, 0, 0, 0, time.UTC)

	entry, err := env.sleep.Add(env.ctx, "23:00", "07:00", 4, "", now)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-09", entry.Date)
	assert.Equal(t, 8.0, entry.DurationHours)

	ledger, err := env.ledger.Entry(env.ctx, "2026-03-09")
	require.NoError(t, err)
	assert.Equal(t, 8.0, ledger.SleepHours)
}

func TestAddSleepEntryValidation(t *testing.T) {
	env := setupTestEnv(t)
	now := time.Now()

	_, err := env.sleep.Add(env.ctx, "23:00", "07:00", 6, "", now)
	assert.Error(t, err)

	_, err = env.sleep.Add(env.ctx, "midnight", "07:00", 3, "", now)
	assert.Error(t, err)

	_, err = env.sleep.Add(env.ctx, "23:00", "07:00", 3, "03/09/2026", now)
	assert.Error(t, err)
}

func TestAddSleepEntryRejectsDuplicateDate(t *testing.T) {
	env := setupTestEnv(t)
	now := time.Date(2026, time.March, 9, 8, 0, 0, 0, time.UTC)

	_, err := env.sleep.Add(env.ctx, "23:00", "07:00", 4, "", now)
	require.NoError(t, err)

	_, err = env.sleep.Add(env.ctx, "01:00", "09:00", 3, "2026-03-09", now)
	assert.ErrorIs(t, err, ErrSleepEntryExists)
}

func TestUpdateSleepEntryResetsLedger(t *testing.T) {
	env := setupTestEnv(t)
	now := time.Date(2026, time.March, 9, 8, 0, 0, 0, time.UTC)

	entry, err := env.sleep.Add(env.ctx, "23:00", "07:00", 4, "", now)
	require.NoError(t, err)

	updated, err := env.sleep.Update(env.ctx, entry.ID, "00:30", "08:15", 5)
	require.NoError(t, err)
	assert.Equal(t, 7.8, updated.DurationHours)

	ledger, err := env.ledger.Entry(env.ctx, "2026-03-09")
	require.NoError(t, err)
	assert.Equal(t, 7.8, ledger.SleepHours)
}

func TestDeleteSleepEntryZeroesLedger(t *testing.T) {
	env := setupTestEnv(t)
	now := time.Date(2026, time.March, 9, 8, 0, 0, 0, time.UTC)

	entry, err := env.sleep.Add(env.ctx, "23:00", "07:00", 4, "", now)
	require.NoError(t, err)

	require.NoError(t, env.sleep.Delete(env.ctx, entry.ID))

	ledger, err := env.ledger.Entry(env.ctx, "2026-03-09")
	require.NoError(t, err)
	assert.Equal(t, 0.0, ledger.SleepHours)

	// The date is free again for a corrected entry.
	_, err = env.sleep.Add(env.ctx, "22:30", "06:30", 5, "2026-03-09", now)
	assert.NoError(t, err)
}

func TestSleepStats(t *testing.T) {
	env := setupTestEnv(t)
	now := time.Date(2026, time.March, 9, 8, 0, 0, 0, time.UTC)

	_, err := env.sleep.Add(env.ctx, "23:00", "07:00", 4, "2026-03-07", now)
	require.NoError(t, err)
	_, err = env.sleep.Add(env.ctx, "23:30", "06:30", 3, "2026-03-08", now)
	require.NoError(t, err)
	_, err = env.sleep.Add(env.ctx, "22:00", "07:00", 5, "2026-03-09", now)
	require.NoError(t, err)
	// Outside the trailing week.
	_, err = env.sleep.Add(env.ctx, "23:00", "06:00", 3, "2026-02-20", now)
	require.NoError(t, err)

	stats, err := env.sleep.Stats(env.ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 7.8, stats.AverageDuration) // (8 + 7 + 9 + 7) / 4 = 7.75 -> 7.8
	assert.Equal(t, 3.8, stats.AverageQuality)  // (4+3+5+3)/4 = 3.75 -> 3.8
	assert.Equal(t, 43, stats.Consistency)      // 3 of 7 days
	assert.Equal(t, [5]int{0, 0, 2, 1, 1}, stats.QualityCounts)
}

func TestSleepStatsEmpty(t *testing.T) {
	env := setupTestEnv(t)

	stats, err := env.sleep.Stats(env.ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0.0, stats.AverageDuration)
	assert.Equal(t, 0, stats.Consistency)
}
