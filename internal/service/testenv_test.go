package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"lifeos/internal/repository"
)

type testEnv struct {
	ctx      context.Context
	progress *ProgressService
	ledger   *LedgerService
	tasks    *TaskService
	focus    *FocusService
	sleep    *SleepService
	expenses *ExpenseService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := repository.NewDB(filepath.Join(t.TempDir(), "lifeos.db"))
	require.NoError(t, err)

	ctx := context.Background()
	progress, err := NewProgressService(ctx, repository.NewProgressRepository(db))
	require.NoError(t, err)

	ledger := NewLedgerService(repository.NewLedgerRepository(db))
	return &testEnv{
		ctx:      ctx,
		progress: progress,
		ledger:   ledger,
		tasks:    NewTaskService(repository.NewTaskRepository(db), progress, ledger),
		focus:    NewFocusService(repository.NewFocusRepository(db), ledger),
		sleep:    NewSleepService(repository.NewSleepRepository(db), ledger),
		expenses: NewExpenseService(repository.NewExpenseRepository(db), ledger),
	}
}
