package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"lifeos/internal/model"
)

// ProgressRepository persists the single UserProgress row.
type ProgressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Load returns the progress singleton, creating the zero row on first use.
func (r *ProgressRepository) Load(ctx context.Context) (*model.UserProgress, error) {
	var progress model.UserProgress
	db := r.db.WithContext(ctx)
	err := db.First(&progress).Error
	switch {
	case err == nil:
		return &progress, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		progress = model.UserProgress{Badges: []string{}}
		if err := db.Create(&progress).Error; err != nil {
			return nil, fmt.Errorf("create progress: %w", err)
		}
		return &progress, nil
	default:
		return nil, fmt.Errorf("load progress: %w", err)
	}
}

func (r *ProgressRepository) Save(ctx context.Context, progress *model.UserProgress) error {
	if err := r.db.WithContext(ctx).Save(progress).Error; err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}
