package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"lifeos/internal/model"
)

// SleepRepository handles storage of sleep entries.
type SleepRepository struct {
	db *gorm.DB
}

func NewSleepRepository(db *gorm.DB) *SleepRepository {
	return &SleepRepository{db: db}
}

func (r *SleepRepository) Create(ctx context.Context, entry *model.SleepEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("create sleep entry: %w", err)
	}
	return nil
}

// ListAll returns every entry, most recent date first.
func (r *SleepRepository) ListAll(ctx context.Context) ([]model.SleepEntry, error) {
	var entries []model.SleepEntry
	if err := r.db.WithContext(ctx).Order("date DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *SleepRepository) FindByID(ctx context.Context, id string) (*model.SleepEntry, error) {
	var entry model.SleepEntry
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindByDate returns the entry for a YYYY-MM-DD day key, or
// gorm.ErrRecordNotFound if that night has not been logged.
func (r *SleepRepository) FindByDate(ctx context.Context, date string) (*model.SleepEntry, error) {
	var entry model.SleepEntry
	if err := r.db.WithContext(ctx).Where("date = ?", date).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *SleepRepository) Save(ctx context.Context, entry *model.SleepEntry) error {
	if err := r.db.WithContext(ctx).Save(entry).Error; err != nil {
		return fmt.Errorf("save sleep entry: %w", err)
	}
	return nil
}

func (r *SleepRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).
		Delete(&model.SleepEntry{}).Error; err != nil {
		return fmt.Errorf("delete sleep entry: %w", err)
	}
	return nil
}
