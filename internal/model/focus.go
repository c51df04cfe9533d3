package model

import "time"

// FocusMode is one of the two timer presets or a custom length.
type FocusMode string

const (
	FocusMode25     FocusMode = "25"
	FocusMode50     FocusMode = "50"
	FocusModeCustom FocusMode = "custom"
)

// ValidFocusMode reports whether m is a known focus mode.
func ValidFocusMode(m FocusMode) bool {
	switch m {
	case FocusMode25, FocusMode50, FocusModeCustom:
		return true
	}
	return false
}

// FocusSession is a finished block of focused work. EndTime is always
// StartTime plus DurationMinutes; sessions are immutable once logged.
type FocusSession struct {
	ID              string `gorm:"primaryKey"`
	StartTime       time.Time
	EndTime         time.Time
	DurationMinutes int
	Mode            FocusMode
	CreatedAt       time.Time
}
