package model

import "time"

// UserProgress is the gamification singleton: one row tracking accumulated
// XP, the level derived from it, streak counters, and unlocked badges.
// LastCompletionDate is a YYYY-MM-DD day key, empty until the first
// completion.
type UserProgress struct {
	ID                 uint `gorm:"primaryKey"`
	TotalXP            int
	Level              int
	CurrentStreak      int
	LongestStreak      int
	LastCompletionDate string
	Badges             []string `gorm:"serializer:json"`
	UpdatedAt          time.Time
}
