// Package parser turns natural-language reminder fragments into structured
// values: an absolute instant, a recurrence rule, a mention target and a
// channel name. All functions are pure; callers supply the reference clock
// and the live roster.
package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Default hours for bare "tomorrow" and "today".
const (
	defaultMorningHour = 9
	defaultEveningHour = 18
)

var (
	relOffsetRe = regexp.MustCompile(`(?i)\b(?:(\d+)\s*h(?:(?:ou)?rs?)?)?\s*(?:and\s+)?(?:(\d+)\s*m(?:in(?:ute)?s?)?)?\s*(?:later|after|from\s+now)\b`)
	inOffsetRe  = regexp.MustCompile(`(?i)\bin\s+(?:(\d+)\s*h(?:(?:ou)?rs?)?)?\s*(?:and\s+)?(?:(\d+)\s*m(?:in(?:ute)?s?)?)?\b`)
	dayAtRe     = regexp.MustCompile(`(?i)\b(tomorrow|today)\s+at\s+(\d{1,2})(?::(\d{2}))?\b`)
	dayClockRe  = regexp.MustCompile(`(?i)\b(tomorrow|today)\s+(\d{1,2}):(\d{2})\b`)
	clockRe     = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
	atHourRe    = regexp.MustCompile(`(?i)\bat\s+(\d{1,2})(?::(\d{2}))?\b`)
	tomorrowRe  = regexp.MustCompile(`(?i)\btomorrow\b`)
	todayRe     = regexp.MustCompile(`(?i)\btoday\b`)
)

// ParseTime resolves time text against now. Patterns are tried most specific
// first: relative offsets, day-qualified clock times, bare clock times, then
// bare day words. Clock times whose slot already passed roll to the next day.
// ok is false when nothing matches; the caller must not guess a time.
func ParseTime(text string, now time.Time) (time.Time, bool) {
	if t, ok := parseRelativeOffset(text, now); ok {
		return t, true
	}
	if t, ok := parseDayQualifiedClock(text, now); ok {
		return t, true
	}
	if t, ok := parseBareClock(text, now); ok {
		return t, true
	}
	if t, ok := parseBareDay(text, now); ok {
		return t, true
	}
	return time.Time{}, false
}

// parseRelativeOffset handles "in N hours", "N minutes later", "1 hour 30
// minutes from now" and the bare "later"/"after", which defaults to one hour.
func parseRelativeOffset(text string, now time.Time) (time.Time, bool) {
	if m := relOffsetRe.FindStringSubmatch(text); m != nil {
		d, ok := offsetFrom(m[1], m[2])
		if !ok {
			d = time.Hour
		}
		return now.Add(d), true
	}
	if m := inOffsetRe.FindStringSubmatch(text); m != nil {
		if d, ok := offsetFrom(m[1], m[2]); ok {
			return now.Add(d), true
		}
	}
	return time.Time{}, false
}

func offsetFrom(hourStr, minStr string) (time.Duration, bool) {
	if hourStr == "" && minStr == "" {
		return 0, false
	}
	var d time.Duration
	if hourStr != "" {
		n, _ := strconv.Atoi(hourStr)
		d += time.Duration(n) * time.Hour
	}
	if minStr != "" {
		n, _ := strconv.Atoi(minStr)
		d += time.Duration(n) * time.Minute
	}
	return d, true
}

func parseDayQualifiedClock(text string, now time.Time) (time.Time, bool) {
	day, hourStr, minStr := "", "", ""
	if m := dayAtRe.FindStringSubmatch(text); m != nil {
		day, hourStr, minStr = m[1], m[2], m[3]
	} else if m := dayClockRe.FindStringSubmatch(text); m != nil {
		day, hourStr, minStr = m[1], m[2], m[3]
	} else {
		return time.Time{}, false
	}

	hour, min, ok := clockParts(hourStr, minStr)
	if !ok {
		return time.Time{}, false
	}

	t := atClock(now, hour, min)
	if isTomorrow(day) {
		return t.AddDate(0, 0, 1), true
	}
	return rollIfPassed(t, now), true
}

func parseBareClock(text string, now time.Time) (time.Time, bool) {
	var hourStr, minStr string
	if m := clockRe.FindStringSubmatch(text); m != nil {
		hourStr, minStr = m[1], m[2]
	} else if m := atHourRe.FindStringSubmatch(text); m != nil {
		hourStr, minStr = m[1], m[2]
	} else {
		return time.Time{}, false
	}

	hour, min, ok := clockParts(hourStr, minStr)
	if !ok {
		return time.Time{}, false
	}
	return rollIfPassed(atClock(now, hour, min), now), true
}

func parseBareDay(text string, now time.Time) (time.Time, bool) {
	if tomorrowRe.MatchString(text) {
		return atClock(now, defaultMorningHour, 0).AddDate(0, 0, 1), true
	}
	if todayRe.MatchString(text) {
		return rollIfPassed(atClock(now, defaultEveningHour, 0), now), true
	}
	return time.Time{}, false
}

func clockParts(hourStr, minStr string) (hour, min int, ok bool) {
	hour, _ = strconv.Atoi(hourStr)
	if minStr != "" {
		min, _ = strconv.Atoi(minStr)
	}
	if hour > 23 || min > 59 {
		return 0, 0, false
	}
	return hour, min, true
}

func atClock(now time.Time, hour, min int) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), hour, min, 0, 0, now.Location())
}

// rollIfPassed moves t one day forward when its slot is not strictly in the
// future relative to now.
func rollIfPassed(t, now time.Time) time.Time {
	if !t.After(now) {
		return t.AddDate(0, 0, 1)
	}
	return t
}

func isTomorrow(day string) bool {
	return strings.EqualFold(day, "tomorrow")
}
