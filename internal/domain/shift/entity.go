package shift

import (
	"fmt"
	"time"
)

type Shift struct {
	ID         string
	Name       string
	StartTime  TimeOfDay
	EndTime    TimeOfDay
	BreakStart *TimeOfDay
	BreakEnd   *TimeOfDay
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CrossesMidnight reports whether the shift ends on the calendar day after it starts.
func (s Shift) CrossesMidnight() bool {
	return s.StartTime > s.EndTime
}

// TimeOfDay is a wall-clock time without a date, stored as the offset from midnight.
type TimeOfDay time.Duration

const day = TimeOfDay(24 * time.Hour)

// NewTimeOfDay builds a TimeOfDay from clock components.
func NewTimeOfDay(hour, minute, second int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return 0, fmt.Errorf("%w: %02d:%02d:%02d", ErrInvalidTimeOfDay, hour, minute, second)
	}
	return TimeOfDay(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute + time.Duration(second)*time.Second), nil
}

// MustTimeOfDay is NewTimeOfDay for constants and fixtures.
func MustTimeOfDay(hour, minute, second int) TimeOfDay {
	t, err := NewTimeOfDay(hour, minute, second)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseTimeOfDay accepts "15:04" and "15:04:05".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewTimeOfDay(t.Hour(), t.Minute(), t.Second())
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
}

// FromTime drops the date part of t.
func FromTime(t time.Time) TimeOfDay {
	return TimeOfDay(time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond()))
}

// FromMicroseconds converts a postgres TIME value.
func FromMicroseconds(us int64) TimeOfDay {
	return TimeOfDay(time.Duration(us) * time.Microsecond % time.Duration(day))
}

func (t TimeOfDay) Hour() int   { return int(time.Duration(t) / time.Hour) }
func (t TimeOfDay) Minute() int { return int(time.Duration(t) % time.Hour / time.Minute) }
func (t TimeOfDay) Second() int { return int(time.Duration(t) % time.Minute / time.Second) }

func (t TimeOfDay) Microseconds() int64 {
	return time.Duration(t).Microseconds()
}

// On combines t with the calendar date of date, in date's location.
func (t TimeOfDay) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, date.Location()).Add(time.Duration(t))
}

// String formats as "15:04:05".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
}

// HHMM formats as "15:04", the form dashboards and exports show.
func (t TimeOfDay) HHMM() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}
