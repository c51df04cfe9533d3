package model

import "time"

// SleepEntry records one night of sleep. Date is a YYYY-MM-DD day key and is
// unique: the day ledger stores sleep hours as a plain set, which only works
// while there is at most one entry per date.
type SleepEntry struct {
	ID            string `gorm:"primaryKey"`
	Date          string `gorm:"uniqueIndex"`
	SleepTime     string // HH:MM
	WakeTime      string // HH:MM
	DurationHours float64
	Quality       int // 1..5
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
