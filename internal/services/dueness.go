// Package services provides business logic and orchestration services.
package services

import (
	"fmt"
	"time"

	"financehub/internal/core"
)

// DuenessChecker decides whether a recurring rule should produce a
// transaction, given when it last did and the rule's start date.
type DuenessChecker interface {
	IsDue(lastCreated core.Date, now time.Time, startDate core.Date) bool
}

// DailyChecker fires once per calendar day.
type DailyChecker struct{}

func (DailyChecker) IsDue(lastCreated core.Date, now time.Time, _ core.Date) bool {
	if lastCreated.IsEmpty() {
		return true
	}
	return !lastCreated.SameDay(core.DateOf(now))
}

// WeeklyChecker fires once every 7 days.
type WeeklyChecker struct{}

func (WeeklyChecker) IsDue(lastCreated core.Date, now time.Time, _ core.Date) bool {
	if lastCreated.IsEmpty() {
		return true
	}
	daysSince := core.DateOf(now).Sub(lastCreated.Time).Hours() / 24
	return daysSince >= 7
}

// MonthlyChecker fires once per month, on the start date's day. A target day
// past the end of a short month clamps to that month's last day.
type MonthlyChecker struct{}

func (MonthlyChecker) IsDue(lastCreated core.Date, now time.Time, startDate core.Date) bool {
	if lastCreated.IsEmpty() {
		return true
	}

	// Already processed this month?
	if lastCreated.Year() == now.Year() && lastCreated.Month() == now.Month() {
		return false
	}

	return now.Day() >= clampDay(startDate.Day(), now)
}

// YearlyChecker fires once per year, on the start date's month and day.
type YearlyChecker struct{}

func (YearlyChecker) IsDue(lastCreated core.Date, now time.Time, startDate core.Date) bool {
	if lastCreated.IsEmpty() {
		return true
	}

	// Already processed this year?
	if lastCreated.Year() == now.Year() {
		return false
	}

	targetMonth := int(startDate.Month())
	switch {
	case int(now.Month()) < targetMonth:
		return false
	case int(now.Month()) == targetMonth:
		return now.Day() >= clampDay(startDate.Day(), now)
	default:
		// Past the target month
		return true
	}
}

// clampDay limits a target day-of-month to the length of now's month,
// so a rule starting on the 31st still fires in February.
func clampDay(targetDay int, now time.Time) int {
	lastDayOfMonth := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if targetDay > lastDayOfMonth {
		return lastDayOfMonth
	}
	return targetDay
}

var duenessStrategies = map[core.Frequency]DuenessChecker{
	core.Daily:   DailyChecker{},
	core.Weekly:  WeeklyChecker{},
	core.Monthly: MonthlyChecker{},
	core.Yearly:  YearlyChecker{},
}

// GetDuenessChecker returns the checker for a frequency.
func GetDuenessChecker(frequency core.Frequency) (DuenessChecker, error) {
	checker, ok := duenessStrategies[frequency]
	if !ok {
		return nil, fmt.Errorf("unknown frequency: %s", frequency)
	}
	return checker, nil
}
