package domain

import "time"

// WeekdayIndex maps a time to the Monday-based weekday used by work rules:
// Monday=0 .. Sunday=6. Go's time.Weekday is Sunday-based, hence the shift.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
