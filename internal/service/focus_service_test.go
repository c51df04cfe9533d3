package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifeos/internal/model"
)

func TestAddFocusSession(t *testing.T) {
	env := setupTestEnv(t)
	now := time.Date(2026, time.March, 9, 14, 0, 0, 0, time.UTC)

	session, err := env.focus.Add(env.ctx, model.FocusMode25, 25, now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(25*time.Minute), session.EndTime)

	entry, err := env.ledger.Entry(env.ctx, "2026-03-09")
	require.NoError(t, err)
	assert.Equal(t, 25, entry.FocusMinutes)
}

func TestAddFocusSessionValidation(t *testing.T) {
	env := setupTestEnv(t)
	now := time.Now()

	_, err := env.focus.Add(env.ctx, model.FocusMode("90"), 90, now)
	assert.Error(t, err)

	_, err = env.focus.Add(env.ctx, model.FocusModeCustom, 0, now)
	assert.Error(t, err)
}

func TestDeleteFocusSessionUsesStartDate(t *testing.T) {
	env := setupTestEnv(t)
	yesterday := time.Date(2026, time.March, 8, 22, 0, 0, 0, time.UTC)

	session, err := env.focus.Add(env.ctx, model.FocusMode50, 50, yesterday)
	require.NoError(t, err)

	// Deleting later still reverses the minutes on March 8.
	require.NoError(t, env.focus.Delete(env.ctx, session.ID))

	entry, err := env.ledger.Entry(env.ctx, "2026-03-08")
	require.NoError(t, err)
	assert.Equal(t, 0, entry.FocusMinutes)
}

func TestFocusSessionsOn(t *testing.T) {
	env := setupTestEnv(t)
	now := time.Date(2026, time.March, 9, 14, 0, 0, 0, time.UTC)

	_, err := env.focus.Add(env.ctx, model.FocusMode25, 25, now.AddDate(0, 0, -1))
	require.NoError(t, err)
	_, err = env.focus.Add(env.ctx, model.FocusMode50, 50, now)
	require.NoError(t, err)
	_, err = env.focus.Add(env.ctx, model.FocusModeCustom, 40, now.Add(time.Hour))
	require.NoError(t, err)

	sessions, err := env.focus.SessionsOn(env.ctx, "2026-03-09")
	require.NoError(t, err)
	// Repo order is most recent first.
	require.Len(t, sessions, 2)
	assert.Equal(t, 40, sessions[0].DurationMinutes)
	assert.Equal(t, 50, sessions[1].DurationMinutes)

	none, err := env.focus.SessionsOn(env.ctx, "2026-03-01")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestFocusStats(t *testing.T) {
	env := setupTestEnv(t)
	now := time.Date(2026, time.March, 9, 14, 0, 0, 0, time.UTC)

	_, err := env.focus.Add(env.ctx, model.FocusMode25, 25, now.AddDate(0, 0, -1))
	require.NoError(t, err)
	_, err = env.focus.Add(env.ctx, model.FocusMode50, 50, now)
	require.NoError(t, err)
	_, err = env.focus.Add(env.ctx, model.FocusModeCustom, 40, now.Add(time.Hour))
	require.NoError(t, err)

	stats, err := env.focus.Stats(env.ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Today)
	assert.Equal(t, 90, stats.TodayMinutes)
	assert.Equal(t, 115, stats.TotalMinutes)
	assert.Equal(t, 38, stats.AverageSession) // round(115/3)
}

func TestFocusStatsEmpty(t *testing.T) {
	env := setupTestEnv(t)

	stats, err := env.focus.Stats(env.ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0, stats.AverageSession)
}
