package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const dayKeyLayout = "2006-01-02"

// DayKey formats a time as the YYYY-MM-DD key used by the ledger, sleep
// entries, expenses, and streak bookkeeping.
func DayKey(t time.Time) string {
	return t.Format(dayKeyLayout)
}

// MonthKey formats a time as YYYY-MM.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// ParseDayKey parses a YYYY-MM-DD day key.
func ParseDayKey(key string) (time.Time, error) {
	t, err := time.Parse(dayKeyLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", key)
	}
	return t, nil
}

// daysBetween returns the whole calendar days from one day key to another.
// Positive when to is after from.
func daysBetween(from, to string) (int, error) {
	a, err := ParseDayKey(from)
	if err != nil {
		return 0, err
	}
	b, err := ParseDayKey(to)
	if err != nil {
		return 0, err
	}
	return int(math.Round(b.Sub(a).Hours() / 24)), nil
}

// parseClock parses an HH:MM time of day into minutes since midnight.
func parseClock(value string) (int, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", value)
	}
	return hour*60 + minute, nil
}

// SleepDuration computes hours slept from bed time to wake time, rolling the
// wake time to the next day when it precedes the bed time. The result is
// rounded to one decimal place and never exceeds 24 hours.
func SleepDuration(sleepTime, wakeTime string) (float64, error) {
	sleep, err := parseClock(sleepTime)
	if err != nil {
		return 0, err
	}
	wake, err := parseClock(wakeTime)
	if err != nil {
		return 0, err
	}
	if wake < sleep {
		wake += 24 * 60
	}
	hours := float64(wake-sleep) / 60
	return math.Round(hours*10) / 10, nil
}
