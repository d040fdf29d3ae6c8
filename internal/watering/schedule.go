package watering

import "time"

// NextDue computes the next watering time from the last watering and the
// plant's interval. A zero last-watered means the plant is due immediately.
func NextDue(lastWatered time.Time, intervalDays int) time.Time {
	if lastWatered.IsZero() {
		return time.Time{}
	}
	return lastWatered.AddDate(0, 0, intervalDays)
}

// IsOverdue reports whether the plant should already have been watered at
// the reference time.
func IsOverdue(lastWatered time.Time, intervalDays int, now time.Time) bool {
	if lastWatered.IsZero() {
		return true
	}
	return !now.Before(NextDue(lastWatered, intervalDays))
}

// OverdueDays reports whole days elapsed past the due time, zero if not due.
func OverdueDays(lastWatered time.Time, intervalDays int, now time.Time) int {
	if lastWatered.IsZero() {
		return 0
	}
	due := NextDue(lastWatered, intervalDays)
	if now.Before(due) {
		return 0
	}
	return int(now.Sub(due).Hours() / 24)
}
