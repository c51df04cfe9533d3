package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"lifeos/internal/model"
)

// LedgerRepository manages per-date activity ledger rows.
type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// GetOrCreate returns the ledger row for a YYYY-MM-DD day key, creating a
// zeroed row the first time that date sees any activity.
func (r *LedgerRepository) GetOrCreate(ctx context.Context, date string) (*model.DayLedgerEntry, error) {
	var entry model.DayLedgerEntry
	db := r.db.WithContext(ctx)
	err := db.Where("date = ?", date).First(&entry).Error
	switch {
	case err == nil:
		return &entry, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		entry = model.DayLedgerEntry{Date: date}
		if err := db.Create(&entry).Error; err != nil {
			return nil, fmt.Errorf("create ledger entry: %w", err)
		}
		return &entry, nil
	default:
		return nil, fmt.Errorf("find ledger entry: %w", err)
	}
}

// FindByDate returns the row for a day key without creating one.
func (r *LedgerRepository) FindByDate(ctx context.Context, date string) (*model.DayLedgerEntry, error) {
	var entry model.DayLedgerEntry
	if err := r.db.WithContext(ctx).Where("date = ?", date).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListRange returns rows with from <= date <= to, ascending. Day keys sort
// lexicographically, so plain string comparison is enough.
func (r *LedgerRepository) ListRange(ctx context.Context, from, to string) ([]model.DayLedgerEntry, error) {
	var entries []model.DayLedgerEntry
	if err := r.db.WithContext(ctx).Where("date >= ? AND date <= ?", from, to).
		Order("date ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *LedgerRepository) Save(ctx context.Context, entry *model.DayLedgerEntry) error {
	if err := r.db.WithContext(ctx).Save(entry).Error; err != nil {
		return fmt.Errorf("save ledger entry: %w", err)
	}
	return nil
}
