package service

import (
	"math"
	"sort"

	"lifeos/internal/model"
)

// XP awarded per task priority.
var xpValues = map[model.Priority]int{
	model.PriorityHigh:   50,
	model.PriorityMedium: 30,
	model.PriorityLow:    15,
}

// XPForPriority returns the XP a task of the given priority is worth.
func XPForPriority(p model.Priority) int {
	return xpValues[p]
}

// CalculateLevel derives the level from total XP: floor(sqrt(XP / 100)).
func CalculateLevel(totalXP int) int {
	if totalXP <= 0 {
		return 0
	}
	return int(math.Sqrt(float64(totalXP) / 100))
}

// XPForNextLevel returns the total XP at which the next level is reached.
func XPForNextLevel(currentLevel int) int {
	next := currentLevel + 1
	return next * next * 100
}

// LevelProgress returns the percentage of the way from the current level to
// the next one, rounded to the nearest whole percent.
func LevelProgress(totalXP, currentLevel int) int {
	currentLevelXP := currentLevel * currentLevel * 100
	neededXP := XPForNextLevel(currentLevel) - currentLevelXP
	progressXP := totalXP - currentLevelXP
	return int(math.Round(float64(progressXP) / float64(neededXP) * 100))
}

// Badges unlock permanently once the level reaches their threshold.
var badgeUnlocks = map[int]string{
	1:   "First Steps",
	5:   "Getting Started",
	10:  "Momentum Builder",
	25:  "Consistency",
	50:  "Dedication",
	75:  "Mastery",
	100: "Legend",
}

// UnlockedBadges returns every badge whose threshold is at or below the
// given level, in ascending threshold order.
func UnlockedBadges(level int) []string {
	thresholds := make([]int, 0, len(badgeUnlocks))
	for threshold := range badgeUnlocks {
		if level >= threshold {
			thresholds = append(thresholds, threshold)
		}
	}
	sort.Ints(thresholds)

	badges := make([]string, 0, len(thresholds))
	for _, threshold := range thresholds {
		badges = append(badges, badgeUnlocks[threshold])
	}
	return badges
}
