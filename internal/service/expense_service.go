package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"lifeos/internal/model"
	"lifeos/internal/repository"
)

// ExpenseStats summarizes logged expenses relative to the current date.
type ExpenseStats struct {
	Count          int
	TotalAmount    float64
	MonthTotal     float64
	TodayTotal     float64
	ByCategory     map[model.ExpenseCategory]float64
	AverageExpense float64 // 0 when no expenses exist
}

// ExpenseService owns the expense collection and mirrors every amount into
// the day ledger's money-spent counter.
type ExpenseService struct {
	repo   *repository.ExpenseRepository
	ledger *LedgerService
}

func NewExpenseService(repo *repository.ExpenseRepository, ledger *LedgerService) *ExpenseService {
	return &ExpenseService{repo: repo, ledger: ledger}
}

// Add logs an expense. Amount must be positive, category must be one of the
// six known buckets, date defaults to today when empty.
func (s *ExpenseService) Add(ctx context.Context, amount float64, category model.ExpenseCategory, note, date string, now time.Time) (*model.Expense, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	if !model.ValidExpenseCategory(category) {
		return nil, fmt.Errorf("unknown category %q", category)
	}
	if date == "" {
		date = DayKey(now)
	} else if _, err := ParseDayKey(date); err != nil {
		return nil, err
	}

	expense := model.Expense{
		ID:       uuid.NewString(),
		Amount:   amount,
		Category: category,
		Date:     date,
		Note:     strings.TrimSpace(note),
	}
	if err := s.repo.Create(ctx, &expense); err != nil {
		return nil, err
	}

	if err := s.ledger.ApplyDelta(ctx, date, FieldMoneySpent, amount); err != nil {
		return nil, err
	}
	return &expense, nil
}

func (s *ExpenseService) List(ctx context.Context) ([]model.Expense, error) {
	return s.repo.ListAll(ctx)
}

// Update changes amount, category, and note; the ledger row for the
// expense's stored date absorbs the amount difference.
func (s *ExpenseService) Update(ctx context.Context, id string, amount float64, category model.ExpenseCategory, note string) (*model.Expense, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	if !model.ValidExpenseCategory(category) {
		return nil, fmt.Errorf("unknown category %q", category)
	}

	expense, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	diff := amount - expense.Amount
	expense.Amount = amount
	expense.Category = category
	expense.Note = strings.TrimSpace(note)
	if err := s.repo.Save(ctx, expense); err != nil {
		return nil, err
	}

	if diff != 0 {
		if err := s.ledger.ApplyDelta(ctx, expense.Date, FieldMoneySpent, diff); err != nil {
			return nil, err
		}
	}
	return expense, nil
}

// Delete removes an expense and subtracts its amount from the ledger row of
// its stored date, not the date of deletion.
func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	expense, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.ledger.ApplyDelta(ctx, expense.Date, FieldMoneySpent, -expense.Amount); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Stats folds the current collection into summary numbers relative to now.
func (s *ExpenseService) Stats(ctx context.Context, now time.Time) (ExpenseStats, error) {
	expenses, err := s.repo.ListAll(ctx)
	if err != nil {
		return ExpenseStats{}, err
	}

	today := DayKey(now)
	month := MonthKey(now)
	stats := ExpenseStats{
		Count:      len(expenses),
		ByCategory: make(map[model.ExpenseCategory]float64),
	}
	for _, expense := range expenses {
		stats.TotalAmount += expense.Amount
		stats.ByCategory[expense.Category] += expense.Amount
		if strings.HasPrefix(expense.Date, month) {
			stats.MonthTotal += expense.Amount
		}
		if expense.Date == today {
			stats.TodayTotal += expense.Amount
		}
	}
	if stats.Count > 0 {
		stats.AverageExpense = stats.TotalAmount / float64(stats.Count)
	}
	return stats, nil
}
