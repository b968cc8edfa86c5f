package service

import (
	"sort"
	"strings"
	"time"

	"screentime-metrics-service/internal/model"
)

const dateLayout = "2006-01-02"

// matchesAny reports whether name contains any of the patterns,
// case-insensitively.
func matchesAny(name string, patterns []string) bool {
	lower := strings.ToLower(name)
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// classifyAgainstGoal maps a value onto the ascending threshold pair
// [0.75*goal, goal]: below the warn threshold is low, below the goal is
// medium, at or above the goal is high.
func classifyAgainstGoal(value, goal float64) model.GoalLevel {
	switch {
	case value < 0.75*goal:
		return model.GoalLevelLow
	case value < goal:
		return model.GoalLevelMedium
	default:
		return model.GoalLevelHigh
	}
}

// windowDates returns the n local calendar dates ending on the reference
// date, ascending. Window edges are computed on civil dates, not raw instant
// subtraction, so partial days at the boundaries stay consistent.
func windowDates(now time.Time, loc *time.Location, n int) []string {
	local := now.In(loc)
	dates := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		dates = append(dates, local.AddDate(0, 0, -i).Format(dateLayout))
	}
	return dates
}

// todayUnnecessary sums usage hours and counts accesses for events matching
// the unnecessary-app list whose local start date equals the reference date.
func todayUnnecessary(events []model.UsageEvent, now time.Time, loc *time.Location, apps []string) (float64, int) {
	today := now.In(loc).Format(dateLayout)
	var hours float64
	var accesses int
	for _, ev := range events {
		if !matchesAny(ev.App, apps) {
			continue
		}
		if ev.StartTime.In(loc).Format(dateLayout) != today {
			continue
		}
		hours += ev.UsageHours
		accesses++
	}
	return hours, accesses
}

// dailyTrend totals usage hours per local calendar date over the window.
// Every date in the window gets an entry; dates without events are zero.
func dailyTrend(events []model.UsageEvent, now time.Time, loc *time.Location, days int) []model.DailyUsage {
	byDate := make(map[string]float64)
	for _, ev := range events {
		byDate[ev.StartTime.In(loc).Format(dateLayout)] += ev.UsageHours
	}

	dates := windowDates(now, loc, days)
	trend := make([]model.DailyUsage, 0, len(dates))
	for _, d := range dates {
		trend = append(trend, model.DailyUsage{Date: d, Hours: byDate[d]})
	}
	return trend
}

// dailyPickups counts events per local calendar date over the window, one
// event per pickup, with the same date-completeness rule as dailyTrend.
func dailyPickups(events []model.UsageEvent, now time.Time, loc *time.Location, days int) []model.DailyPickups {
	byDate := make(map[string]int)
	for _, ev := range events {
		byDate[ev.StartTime.In(loc).Format(dateLayout)]++
	}

	dates := windowDates(now, loc, days)
	pickups := make([]model.DailyPickups, 0, len(dates))
	for _, d := range dates {
		pickups = append(pickups, model.DailyPickups{Date: d, Pickups: byDate[d]})
	}
	return pickups
}

// achievement builds the per-day goal view for the trailing window: total
// usage next to the unnecessary subset. Series are joined by date key;
// dates missing from either series contribute zero.
func achievement(events []model.UsageEvent, now time.Time, loc *time.Location, days int, apps []string) []model.DayAchievement {
	totals := make(map[string]float64)
	unnecessary := make(map[string]float64)
	accesses := make(map[string]int)
	for _, ev := range events {
		key := ev.StartTime.In(loc).Format(dateLayout)
		totals[key] += ev.UsageHours
		if matchesAny(ev.App, apps) {
			unnecessary[key] += ev.UsageHours
			accesses[key]++
		}
	}

	dates := windowDates(now, loc, days)
	out := make([]model.DayAchievement, 0, len(dates))
	for _, d := range dates {
		out = append(out, model.DayAchievement{
			Date:             d,
			TotalHours:       totals[d],
			UnnecessaryHours: unnecessary[d],
			Accesses:         accesses[d],
		})
	}
	return out
}

// topApps totals usage per application over the trailing 24 hours by end
// instant, sorted by hours descending.
func topApps(events []model.UsageEvent, now time.Time) []model.AppUsage {
	cutoff := now.Add(-24 * time.Hour)
	byApp := make(map[string]float64)
	for _, ev := range events {
		if ev.EndTime.Before(cutoff) {
			continue
		}
		byApp[ev.App] += ev.UsageHours
	}

	out := make([]model.AppUsage, 0, len(byApp))
	for app, hours := range byApp {
		out = append(out, model.AppUsage{App: app, Hours: hours})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Hours != out[j].Hours {
			return out[i].Hours > out[j].Hours
		}
		return out[i].App < out[j].App
	})
	return out
}
