package services

import (
	"testing"
	"time"

	"financehub/internal/core"
)

func TestDailyChecker(t *testing.T) {
	now := time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC)
	start := core.NewDate(2024, 1, 1)

	tests := []struct {
		name        string
		lastCreated core.Date
		want        bool
	}{
		{"never created", core.Date{}, true},
		{"created yesterday", core.NewDate(2024, 6, 11), true},
		{"created today", core.NewDate(2024, 6, 12), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (DailyChecker{}).IsDue(tt.lastCreated, now, start); got != tt.want {
				t.Errorf("IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWeeklyChecker(t *testing.T) {
	now := time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC)
	start := core.NewDate(2024, 1, 1)

	tests := []struct {
		name        string
		lastCreated core.Date
		want        bool
	}{
		{"never created", core.Date{}, true},
		{"exactly 7 days ago", core.NewDate(2024, 6, 5), true},
		{"8 days ago", core.NewDate(2024, 6, 4), true},
		{"3 days ago", core.NewDate(2024, 6, 9), false},
		{"today", core.NewDate(2024, 6, 12), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (WeeklyChecker{}).IsDue(tt.lastCreated, now, start); got != tt.want {
				t.Errorf("IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMonthlyChecker(t *testing.T) {
	start := core.NewDate(2024, 1, 15)

	tests := []struct {
		name        string
		lastCreated core.Date
		now         time.Time
		startDate   core.Date
		want        bool
	}{
		{"never created", core.Date{}, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), start, true},
		{"already this month", core.NewDate(2024, 6, 15), time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC), start, false},
		{"new month, target reached", core.NewDate(2024, 5, 15), time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), start, true},
		{"new month, before target day", core.NewDate(2024, 5, 15), time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), start, false},
		{
			"day 31 clamps in February",
			core.NewDate(2024, 1, 31),
			time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
			core.NewDate(2024, 1, 31),
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (MonthlyChecker{}).IsDue(tt.lastCreated, tt.now, tt.startDate); got != tt.want {
				t.Errorf("IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestYearlyChecker(t *testing.T) {
	start := core.NewDate(2022, 3, 10)

	tests := []struct {
		name        string
		lastCreated core.Date
		now         time.Time
		want        bool
	}{
		{"never created", core.Date{}, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"already this year", core.NewDate(2024, 3, 10), time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), false},
		{"new year, before target month", core.NewDate(2023, 3, 10), time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), false},
		{"new year, target month and day", core.NewDate(2023, 3, 10), time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), true},
		{"new year, past target month", core.NewDate(2023, 3, 10), time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (YearlyChecker{}).IsDue(tt.lastCreated, tt.now, start); got != tt.want {
				t.Errorf("IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetDuenessChecker(t *testing.T) {
	for _, f := range []core.Frequency{core.Daily, core.Weekly, core.Monthly, core.Yearly} {
		if _, err := GetDuenessChecker(f); err != nil {
			t.Errorf("GetDuenessChecker(%s) unexpected error: %v", f, err)
		}
	}
	if _, err := GetDuenessChecker("biweekly"); err == nil {
		t.Error("unknown frequency should return an error")
	}
}
