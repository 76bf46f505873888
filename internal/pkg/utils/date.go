package utils

import "time"

// StartOfDay truncates t to midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayRange returns [midnight, next midnight) for the day containing t.
func DayRange(t time.Time) (time.Time, time.Time) {
	start := StartOfDay(t)
	return start, start.AddDate(0, 0, 1)
}

// WeekRange returns [Monday, next Monday) for the week containing t.
func WeekRange(t time.Time) (time.Time, time.Time) {
	start := StartOfDay(t)
	offset := (int(start.Weekday()) + 6) % 7 // Monday = 0
	start = start.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 7)
}

// MonthRange returns [first of month, first of next month) for the month containing t.
func MonthRange(t time.Time) (time.Time, time.Time) {
	y, m, _ := t.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, 0)
}
