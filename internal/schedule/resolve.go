// Package schedule resolves weekday/time-of-day slots to absolute UTC
// timestamps. Everything here is pure; the publish cron relies on these
// timestamps comparing correctly, so all math is timezone-explicit.
package schedule

import (
	"strconv"
	"strings"
	"time"
)

// Defaults applied when a slot's time-of-day is missing or unparseable.
const (
	defaultHour   = 10
	defaultMinute = 0
)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Resolve returns the next UTC timestamp on or after reference whose
// weekday matches, at the given time of day. A same-weekday reference
// rolls forward a full week: a slot never lands on the reference day
// itself, which keeps freshly generated posts out of the publish cron's
// current sweep.
//
// Unknown weekday names resolve as Monday; timeOfDay is parsed
// defensively and falls back to 10:00.
func Resolve(weekday, timeOfDay string, reference time.Time) time.Time {
	target, ok := weekdays[strings.ToLower(strings.TrimSpace(weekday))]
	if !ok {
		target = time.Monday
	}

	ref := reference.UTC()
	daysUntil := (int(target) - int(ref.Weekday()) + 7) % 7
	if daysUntil == 0 {
		daysUntil = 7
	}

	hour, minute := ParseTimeOfDay(timeOfDay)
	day := ref.AddDate(0, 0, daysUntil)
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC)
}

// ParseTimeOfDay parses a clock time in "h:mm AM/PM" form. Missing or odd
// input yields the 10:00 default rather than an error; strategy output is
// model-generated and not worth failing a whole run over.
func ParseTimeOfDay(s string) (hour, minute int) {
	hour, minute = defaultHour, defaultMinute

	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) == 0 {
		return hour, minute
	}

	clock := fields[0]
	period := ""
	if len(fields) > 1 {
		period = strings.ToUpper(fields[1])
	}

	parts := strings.SplitN(clock, ":", 2)
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return defaultHour, defaultMinute
	}
	hour = h

	if len(parts) == 2 {
		if m, err := strconv.Atoi(parts[1]); err == nil && m >= 0 && m < 60 {
			minute = m
		} else {
			minute = 0
		}
	} else {
		minute = 0
	}

	switch period {
	case "PM":
		if hour != 12 && hour < 12 {
			hour += 12
		}
	case "AM":
		if hour == 12 {
			hour = 0
		}
	}

	return hour, minute
}
