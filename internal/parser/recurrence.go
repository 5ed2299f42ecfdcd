package parser

import (
	"regexp"
	"strings"
	"time"

	"reminderd/internal/model"
)

var (
	weekdaysRe   = regexp.MustCompile(`(?i)\b(?:every\s+)?weekdays?\b`)
	weekendsRe   = regexp.MustCompile(`(?i)\b(?:every\s+)?weekends?\b`)
	everyNamedRe = regexp.MustCompile(`(?i)\bevery\s+(?:week\s+(?:on\s+)?)?(sunday|monday|tuesday|wednesday|thursday|friday|saturday|sun|mon|tue|tues|wed|thu|thur|thurs|fri|sat)\b`)
	dailyRe      = regexp.MustCompile(`(?i)\bevery\s*(?:day|morning|evening|night)\b|\bdaily\b`)
	monthlyRe    = regexp.MustCompile(`(?i)\bevery\s+month\b|\bmonthly\b`)
	weeklyRe     = regexp.MustCompile(`(?i)\bevery\s+week\b|\bweekly\b`)
)

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday, "tues": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

// ParseRecurrence maps recurrence keywords to a normalized rule. Weekday-set
// phrasings are checked before the generic ones so that "every weekday" is
// not swallowed by "every week". Returns nil when the text carries no
// recurrence.
func ParseRecurrence(text string) *model.RecurrenceRule {
	switch {
	case weekdaysRe.MatchString(text):
		return &model.RecurrenceRule{
			Frequency: model.FrequencyWeekly,
			Byday:     []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		}
	case weekendsRe.MatchString(text):
		return &model.RecurrenceRule{
			Frequency: model.FrequencyWeekly,
			Byday:     []time.Weekday{time.Sunday, time.Saturday},
		}
	}

	if m := everyNamedRe.FindStringSubmatch(text); m != nil {
		day := weekdayNames[strings.ToLower(m[1])]
		return &model.RecurrenceRule{
			Frequency: model.FrequencyWeekly,
			Byday:     []time.Weekday{day},
		}
	}

	switch {
	case dailyRe.MatchString(text):
		return &model.RecurrenceRule{Frequency: model.FrequencyDaily}
	case monthlyRe.MatchString(text):
		return &model.RecurrenceRule{Frequency: model.FrequencyMonthly}
	case weeklyRe.MatchString(text):
		return &model.RecurrenceRule{Frequency: model.FrequencyWeekly}
	}
	return nil
}

// ComputeNextOccurrence returns the next instant a rule fires after from,
// preserving from's time-of-day.
func ComputeNextOccurrence(rule model.RecurrenceRule, from time.Time) time.Time {
	switch rule.Frequency {
	case model.FrequencyWeekly:
		if len(rule.Byday) == 0 {
			return from.AddDate(0, 0, 7)
		}
		return nextByday(from, rule.Byday)
	case model.FrequencyMonthly:
		return addMonthClamped(from)
	default:
		return from.AddDate(0, 0, 1)
	}
}

// nextByday finds the soonest day strictly after from whose weekday is in the
// set. Scanning 1..7 days ahead skips the current week when every target
// weekday has already passed.
func nextByday(from time.Time, byday []time.Weekday) time.Time {
	for days := 1; days <= 7; days++ {
		next := from.AddDate(0, 0, days)
		for _, wd := range byday {
			if next.Weekday() == wd {
				return next
			}
		}
	}
	return from.AddDate(0, 0, 7)
}

// addMonthClamped advances one calendar month, clamping the day to the last
// valid day of the target month (Jan 31 -> Feb 29/28, never Mar 2/3).
func addMonthClamped(from time.Time) time.Time {
	year, month, day := from.Date()
	first := time.Date(year, month+1, 1, 0, 0, 0, 0, from.Location())
	if last := daysInMonth(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day,
		from.Hour(), from.Minute(), from.Second(), from.Nanosecond(), from.Location())
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
