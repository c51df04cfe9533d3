package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifeos/internal/model"
)

func TestCreateTaskValidation(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.tasks.Create(env.ctx, "   ", model.PriorityHigh)
	assert.Error(t, err)

	_, err = env.tasks.Create(env.ctx, "read a book", model.Priority("urgent"))
	assert.Error(t, err)

	task, err := env.tasks.Create(env.ctx, "read a book", "")
	require.NoError(t, err)
	assert.Equal(t, model.PriorityMedium, task.Priority)
	assert.False(t, task.IsCompleted)
	assert.Nil(t, task.CompletedAt)
}

func TestToggleAwardsXPAndLedger(t *testing.T) {
	env := setupTestEnv(t)
	now := time.Date(2026, time.March, 9, 18, 0, 0, 0, time.UTC)

	task, err := env.tasks.Create(env.ctx, "ship the report", model.PriorityHigh)
	require.NoError(t, err)

	task, err = env.tasks.Toggle(env.ctx, task.ID, now)
	require.NoError(t, err)
	assert.True(t, task.IsCompleted)
	require.NotNil(t, task.CompletedAt)

	progress := env.progress.Current()
	assert.Equal(t, 50, progress.TotalXP)
	assert.Equal(t, 1, progress.CurrentStreak)

	entry, err := env.ledger.Entry(env.ctx, "2026-03-09")
	require.NoError(t, err)
	assert.Equal(t, 1, entry.TasksCompleted)
	assert.Equal(t, 50, entry.XPEarned)
}

func TestToggleTwiceIsNetNoOp(t *testing.T) {
	env := setupTestEnv(t)
	now := time.Date(2026, time.March, 9, 18, 0, 0, 0, time.UTC)

	// Pre-existing XP so the reversal is visible against a baseline.
	env.progress.ApplyXPDelta(env.ctx, 200)

	task, err := env.tasks.Create(env.ctx, "water the plants", model.PriorityMedium)
	require.NoError(t, err)

	_, err = env.tasks.Toggle(env.ctx, task.ID, now)
	require.NoError(t, err)
	task, err = env.tasks.Toggle(env.ctx, task.ID, now)
	require.NoError(t, err)

	assert.False(t, task.IsCompleted)
	assert.Nil(t, task.CompletedAt)

	progress := env.progress.Current()
	assert.Equal(t, 200, progress.TotalXP)

	entry, err := env.ledger.Entry(env.ctx, "2026-03-09")
	require.NoError(t, err)
	assert.Equal(t, 0, entry.TasksCompleted)
	assert.Equal(t, 0, entry.XPEarned)
}

func TestUncompleteReversesAgainstCompletionDate(t *testing.T) {
	env := setupTestEnv(t)
	completed := time.Date(2026, time.March, 9, 23, 50, 0, 0, time.UTC)
	reopened := time.Date(2026, time.March, 10, 0, 10, 0, 0, time.UTC)

	task, err := env.tasks.Create(env.ctx, "late night fix", model.PriorityLow)
	require.NoError(t, err)

	_, err = env.tasks.Toggle(env.ctx, task.ID, completed)
	require.NoError(t, err)
	_, err = env.tasks.Toggle(env.ctx, task.ID, reopened)
	require.NoError(t, err)

	// The reversal lands on March 9, where the completion was recorded.
	entry, err := env.ledger.Entry(env.ctx, "2026-03-09")
	require.NoError(t, err)
	assert.Equal(t, 0, entry.TasksCompleted)
	assert.Equal(t, 0, entry.XPEarned)

	next, err := env.ledger.Entry(env.ctx, "2026-03-10")
	require.NoError(t, err)
	assert.Equal(t, 0, next.TasksCompleted)
}

func TestDeleteCompletedTaskReversesEffects(t *testing.T) {
	env := setupTestEnv(t)
	now := time.Date(2026, time.March, 9, 18, 0, 0, 0, time.UTC)

	task, err := env.tasks.Create(env.ctx, "one-off errand", model.PriorityHigh)
	require.NoError(t, err)
	_, err = env.tasks.Toggle(env.ctx, task.ID, now)
	require.NoError(t, err)

	require.NoError(t, env.tasks.Delete(env.ctx, task.ID))

	progress := env.progress.Current()
	assert.Equal(t, 0, progress.TotalXP)

	entry, err := env.ledger.Entry(env.ctx, "2026-03-09")
	require.NoError(t, err)
	assert.Equal(t, 0, entry.TasksCompleted)
	assert.Equal(t, 0, entry.XPEarned)

	_, err = env.tasks.Get(env.ctx, task.ID)
	assert.Error(t, err)
}

func TestTaskStatsCompletionRate(t *testing.T) {
	env := setupTestEnv(t)
	now := time.Date(2026, time.March, 9, 18, 0, 0, 0, time.UTC)

	var ids []string
	for _, title := range []string{"a", "b", "c", "d"} {
		task, err := env.tasks.Create(env.ctx, title, model.PriorityLow)
		require.NoError(t, err)
		ids = append(ids, task.ID)
	}
	for _, id := range ids[:3] {
		_, err := env.tasks.Toggle(env.ctx, id, now)
		require.NoError(t, err)
	}

	stats, err := env.tasks.Stats(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 3, stats.Completed)
	assert.Equal(t, 1, stats.Active)
	assert.Equal(t, 75, stats.CompletionRate)
}

func TestTaskStatsEmpty(t *testing.T) {
	env := setupTestEnv(t)

	stats, err := env.tasks.Stats(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0, stats.CompletionRate)
}

func TestRecentCompletions(t *testing.T) {
	env := setupTestEnv(t)
	base := time.Date(2026, time.March, 9, 10, 0, 0, 0, time.UTC)

	for i, title := range []string{"first", "second", "third"} {
		task, err := env.tasks.Create(env.ctx, title, model.PriorityLow)
		require.NoError(t, err)
		_, err = env.tasks.Toggle(env.ctx, task.ID, base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, err)
	}

	recent, err := env.tasks.RecentCompletions(env.ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "third", recent[0].Title)
	assert.Equal(t, "second", recent[1].Title)
}
