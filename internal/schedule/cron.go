// Package schedule holds the pure scheduling functions: cron validation,
// next-fire evaluation in a named timezone, deterministic cron synthesis from
// structured recurrence data, and human-readable schedule summaries.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// parser accepts the classic 5-field cron form (minute hour dom month dow).
var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

type fieldSpec struct {
	name string
	min  int
	max  int
}

var fields = [5]fieldSpec{
	{"minute", 0, 59},
	{"hour", 0, 23},
	{"day-of-month", 1, 31},
	{"month", 1, 12},
	{"day-of-week", 0, 6},
}

// Validate checks expr against the restricted 5-field grammar: each field is
// "*", a single integer, a comma-separated list, or a simple "a-b" range, with
// per-field bounds (minute 0-59, hour 0-23, dom 1-31, month 1-12, dow 0-6 with
// 0 = Sunday). Callers must reject invalid expressions before persistence.
func Validate(expr string) error {
	parts := strings.Fields(strings.TrimSpace(expr))
	if len(parts) != len(fields) {
		return fmt.Errorf("cron %q: expected 5 fields, got %d", expr, len(parts))
	}
	for i, part := range parts {
		if err := validateField(part, fields[i]); err != nil {
			return fmt.Errorf("cron %q: %w", expr, err)
		}
	}
	return nil
}

func validateField(field string, spec fieldSpec) error {
	if field == "*" {
		return nil
	}
	for _, part := range strings.Split(field, ",") {
		if lo, hi, ok := strings.Cut(part, "-"); ok {
			low, err := fieldValue(lo, spec)
			if err != nil {
				return err
			}
			high, err := fieldValue(hi, spec)
			if err != nil {
				return err
			}
			if low > high {
				return fmt.Errorf("%s range %q is inverted", spec.name, part)
			}
			continue
		}
		if _, err := fieldValue(part, spec); err != nil {
			return err
		}
	}
	return nil
}

func fieldValue(s string, spec fieldSpec) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s value %q is not an integer", spec.name, s)
	}
	if v < spec.min || v > spec.max {
		return 0, fmt.Errorf("%s value %d out of range [%d,%d]", spec.name, v, spec.min, spec.max)
	}
	return v, nil
}

// Parse compiles expr into a trigger evaluated in the named IANA zone. The
// trigger fires at the specified wall-clock time in that zone regardless of
// daylight-saving offset drift.
func Parse(expr, timezone string) (cron.Schedule, error) {
	if err := Validate(expr); err != nil {
		return nil, err
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", timezone, err)
	}
	sched, err := parser.Parse("CRON_TZ=" + timezone + " " + expr)
	if err != nil {
		return nil, fmt.Errorf("compiling cron %q: %w", expr, err)
	}
	return sched, nil
}

// NextAfter returns the next instant strictly after the reference instant at
// which expr matches in the named zone.
func NextAfter(expr, timezone string, after time.Time) (time.Time, error) {
	sched, err := Parse(expr, timezone)
	if err != nil {
		return time.Time{}, err
	}
	next := sched.Next(after)
	if next.IsZero() {
		return time.Time{}, fmt.Errorf("cron %q never fires after %s", expr, after)
	}
	return next, nil
}
