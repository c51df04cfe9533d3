package model

import "time"

// DayLedgerEntry holds running totals for one calendar date, used by the
// activity calendar and daily reports. Rows exist only for dates that saw
// activity; all counters start at zero.
type DayLedgerEntry struct {
	ID             uint   `gorm:"primaryKey"`
	Date           string `gorm:"uniqueIndex"` // YYYY-MM-DD
	TasksCompleted int
	XPEarned       int
	FocusMinutes   int
	SleepHours     float64
	MoneySpent     float64
	UpdatedAt      time.Time
}
