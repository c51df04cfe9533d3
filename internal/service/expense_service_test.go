package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifeos/internal/model"
)

func TestAddExpense(t *testing.T) {
	env := setupTestEnv(t)
	now := time.Date(2026, time.March, 9, 13, 0, 0, 0, time.UTC)

	expense, err := env.expenses.Add(env.ctx, 12.50, model.CategoryFood, "lunch", "", now)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-09", expense.Date)

	entry, err := env.ledger.Entry(env.ctx, "2026-03-09")
	require.NoError(t, err)
	assert.InDelta(t, 12.50, entry.MoneySpent, 0.001)
}

func TestAddExpenseValidation(t *testing.T) {
	env := setupTestEnv(t)
	now := time.Now()

	_, err := env.expenses.Add(env.ctx, 0, model.CategoryFood, "", "", now)
	assert.Error(t, err)

	_, err = env.expenses.Add(env.ctx, -5, model.CategoryFood, "", "", now)
	assert.Error(t, err)

	_, err = env.expenses.Add(env.ctx, 10, model.ExpenseCategory("groceries"), "", "", now)
	assert.Error(t, err)
}

func TestAddThenDeleteExpenseRestoresLedger(t *testing.T) {
	env := setupTestEnv(t)
	now := time.Date(2026, time.March, 9, 13, 0, 0, 0, time.UTC)

	// Baseline spending already on the ledger.
	_, err := env.expenses.Add(env.ctx, 30, model.CategoryTransport, "", "", now)
	require.NoError(t, err)

	expense, err := env.expenses.Add(env.ctx, 12.50, model.CategoryFood, "lunch", "", now)
	require.NoError(t, err)
	require.NoError(t, env.expenses.Delete(env.ctx, expense.ID))

	entry, err := env.ledger.Entry(env.ctx, "2026-03-09")
	require.NoError(t, err)
	assert.InDelta(t, 30, entry.MoneySpent, 0.001)
}

func TestDeleteExpenseUsesStoredDate(t *testing.T) {
	env := setupTestEnv(t)
	now := time.Date(2026, time.March, 9, 13, 0, 0, 0, time.UTC)

	expense, err := env.expenses.Add(env.ctx, 9.99, model.CategorySubscriptions, "", "2026-03-01", now)
	require.NoError(t, err)
	require.NoError(t, env.expenses.Delete(env.ctx, expense.ID))

	entry, err := env.ledger.Entry(env.ctx, "2026-03-01")
	require.NoError(t, err)
	assert.InDelta(t, 0, entry.MoneySpent, 0.001)
}

func TestUpdateExpenseAppliesDifference(t *testing.T) {
	env := setupTestEnv(t)
	now := time.Date(2026, time.March, 9, 13, 0, 0, 0, time.UTC)

	expense, err := env.expenses.Add(env.ctx, 20, model.CategoryFun, "movie", "", now)
	require.NoError(t, err)

	_, err = env.expenses.Update(env.ctx, expense.ID, 25, model.CategoryFun, "movie + popcorn")
	require.NoError(t, err)

	entry, err := env.ledger.Entry(env.ctx, "2026-03-09")
	require.NoError(t, err)
	assert.InDelta(t, 25, entry.MoneySpent, 0.001)
}

func TestExpenseStats(t *testing.T) {
	env := setupTestEnv(t)
	now := time.Date(2026, time.March, 9, 13, 0, 0, 0, time.UTC)

	_, err := env.expenses.Add(env.ctx, 12.50, model.CategoryFood, "", "", now)
	require.NoError(t, err)
	_, err = env.expenses.Add(env.ctx, 30, model.CategoryFood, "", "2026-03-01", now)
	require.NoError(t, err)
	_, err = env.expenses.Add(env.ctx, 100, model.CategoryLearning, "", "2026-02-15", now)
	require.NoError(t, err)

	stats, err := env.expenses.Stats(env.ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Count)
	assert.InDelta(t, 142.50, stats.TotalAmount, 0.001)
	assert.InDelta(t, 42.50, stats.MonthTotal, 0.001)
	assert.InDelta(t, 12.50, stats.TodayTotal, 0.001)
	assert.InDelta(t, 42.50, stats.ByCategory[model.CategoryFood], 0.001)
	assert.InDelta(t, 100, stats.ByCategory[model.CategoryLearning], 0.001)
	assert.InDelta(t, 47.50, stats.AverageExpense, 0.001)
}

func TestExpenseStatsEmpty(t *testing.T) {
	env := setupTestEnv(t)

	stats, err := env.expenses.Stats(env.ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Count)
	assert.Equal(t, 0.0, stats.AverageExpense)
}
