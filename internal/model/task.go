package model

import "time"

// Priority weighs how much XP a task is worth.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ValidPriority reports whether p is one of the three known priorities.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Task represents a single to-do item. CompletedAt is set exactly when
// IsCompleted is true.
type Task struct {
	ID          string `gorm:"primaryKey"`
	Title       string
	Priority    Priority `gorm:"index"`
	IsCompleted bool     `gorm:"default:false"`
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
