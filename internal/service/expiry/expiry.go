package expiry

import (
	"sort"
	"time"
)

// DefaultReminderDays is the platform default reminder schedule, used when
// a document has no customized notification days.
var DefaultReminderDays = []int{30, 60, 90}

const day = 24 * time.Hour

// DaysUntil returns ceil((expiry - now) / 1 day). Negative means already
// expired; zero means the document expires today.
func DaysUntil(now, expiry time.Time) int {
	diff := expiry.Sub(now)
	days := diff / day
	if diff%day > 0 {
		days++
	}
	return int(days)
}

// IsExpired reports whether the expiry date has been crossed as of now.
func IsExpired(now, expiry time.Time) bool {
	return DaysUntil(now, expiry) <= 0
}

// Schedule normalizes a reminder schedule: non-positive thresholds are
// dropped, duplicates collapse to one, and the result is sorted ascending.
// An empty custom schedule falls back to the platform default.
func Schedule(custom, fallback []int) []int {
	source := custom
	if len(source) == 0 {
		source = fallback
	}

	seen := make(map[int]bool, len(source))
	var days []int
	for _, d := range source {
		if d <= 0 || seen[d] {
			continue
		}
		seen[d] = true
		days = append(days, d)
	}
	sort.Ints(days)
	return days
}

// ReminderInstants computes the notification instants for an expiry date:
// expiry - d for each threshold d, sorted ascending in time.
func ReminderInstants(expiry time.Time, days []int) []time.Time {
	instants := make([]time.Time, 0, len(days))
	// Larger thresholds fire earlier
	for i := len(days) - 1; i >= 0; i-- {
		instants = append(instants, expiry.Add(-time.Duration(days[i])*day))
	}
	return instants
}

// DueReminders returns the thresholds crossed as of now: every scheduled
// day d with 0 < daysUntil <= d. Thresholds for an already-expired
// document are not reminders; expiry itself takes over.
func DueReminders(now, expiry time.Time, days []int) []int {
	remaining := DaysUntil(now, expiry)
	if remaining <= 0 {
		return nil
	}

	var due []int
	for _, d := range days {
		if remaining <= d {
			due = append(due, d)
		}
	}
	return due
}
