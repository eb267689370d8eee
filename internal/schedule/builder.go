package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// Frequency names a recurrence kind.
type Frequency string

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
	// Once maps to a daily expression; the caller disables the reminder after
	// the first fire.
	Once Frequency = "once"
)

// TimeOfDay is a wall-clock time in the reminder's own timezone.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// Recurrence is the structured recurrence description the builder turns into a
// cron expression. Only the fields relevant to Kind are consulted.
type Recurrence struct {
	Kind         Frequency
	WeekdaysOnly bool  // daily
	DaysOfWeek   []int // weekly, 0 = Sunday
	DayOfMonth   int   // monthly/yearly, defaults to 1
	Month        int   // yearly, defaults to 1
}

// Build synthesizes a canonical 5-field cron expression. It is total and
// deterministic: unknown kinds fall back to the daily pattern, and every
// produced string passes Validate.
func Build(at TimeOfDay, rec Recurrence) (string, error) {
	if at.Hour < 0 || at.Hour > 23 {
		return "", fmt.Errorf("invalid hour: %d, must be 0-23", at.Hour)
	}
	if at.Minute < 0 || at.Minute > 59 {
		return "", fmt.Errorf("invalid minute: %d, must be 0-59", at.Minute)
	}

	switch rec.Kind {
	case Weekly:
		if len(rec.DaysOfWeek) == 0 {
			return "", fmt.Errorf("weekly recurrence requires at least one day of week")
		}
		days := make([]string, 0, len(rec.DaysOfWeek))
		for _, d := range rec.DaysOfWeek {
			if d < 0 || d > 6 {
				return "", fmt.Errorf("invalid day of week: %d, must be 0-6", d)
			}
			days = append(days, strconv.Itoa(d))
		}
		return fmt.Sprintf("%d %d * * %s", at.Minute, at.Hour, strings.Join(days, ",")), nil

	case Monthly:
		dom := rec.DayOfMonth
		if dom == 0 {
			dom = 1
		}
		if dom < 1 || dom > 31 {
			return "", fmt.Errorf("invalid day of month: %d, must be 1-31", dom)
		}
		return fmt.Sprintf("%d %d %d * *", at.Minute, at.Hour, dom), nil

	case Yearly:
		dom := rec.DayOfMonth
		if dom == 0 {
			dom = 1
		}
		month := rec.Month
		if month == 0 {
			month = 1
		}
		if dom < 1 || dom > 31 {
			return "", fmt.Errorf("invalid day of month: %d, must be 1-31", dom)
		}
		if month < 1 || month > 12 {
			return "", fmt.Errorf("invalid month: %d, must be 1-12", month)
		}
		return fmt.Sprintf("%d %d %d %d *", at.Minute, at.Hour, dom, month), nil

	case Daily:
		if rec.WeekdaysOnly {
			return fmt.Sprintf("%d %d * * 1-5", at.Minute, at.Hour), nil
		}
		return fmt.Sprintf("%d %d * * *", at.Minute, at.Hour), nil

	default:
		// Once and unrecognized kinds fall back to the daily pattern.
		return fmt.Sprintf("%d %d * * *", at.Minute, at.Hour), nil
	}
}
