package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var weekdayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// Describe renders a cron expression as a human-readable schedule summary for
// display, e.g. "every day at 08:00 pm" or "on the 15th of every month at
// 09:30 am". Shapes it does not recognize come back as the raw expression.
func Describe(expr string) string {
	parts := strings.Fields(strings.TrimSpace(expr))
	if len(parts) != 5 {
		return expr
	}
	minute, hour, dom, month, dow := parts[0], parts[1], parts[2], parts[3], parts[4]

	var timeDesc string
	if hour == "*" {
		timeDesc = "every hour"
	} else {
		h, err := strconv.Atoi(hour)
		if err != nil {
			return expr
		}
		m := 0
		if minute != "*" {
			if m, err = strconv.Atoi(minute); err != nil {
				return expr
			}
		}
		if h < 0 || h > 23 || m < 0 || m > 59 {
			return expr
		}
		t := time.Date(2000, 1, 1, h, m, 0, 0, time.UTC)
		timeDesc = "at " + t.Format("03:04 pm")
	}

	var freqDesc string
	switch {
	case dom == "*" && month == "*" && dow == "*":
		freqDesc = "every day"
	case dom == "*" && month == "*" && dow == "1-5":
		freqDesc = "on weekdays"
	case dom == "*" && month == "*" && dow == "0,6":
		freqDesc = "on weekends"
	case dom == "*" && month == "*" && isDigits(dow):
		d, err := strconv.Atoi(dow)
		if err != nil || d > 6 {
			return expr
		}
		freqDesc = "every " + weekdayNames[d]
	case dom != "*" && month == "*" && isDigits(dom):
		freqDesc = fmt.Sprintf("on the %s of every month", ordinal(dom))
	case dom != "*" && month != "*" && isDigits(dom) && isDigits(month):
		m, err := strconv.Atoi(month)
		if err != nil || m < 1 || m > 12 {
			return expr
		}
		freqDesc = fmt.Sprintf("on %s %s", time.Month(m), dom)
	default:
		freqDesc = "on a custom schedule"
	}

	return freqDesc + " " + timeDesc
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func ordinal(day string) string {
	n, err := strconv.Atoi(day)
	if err != nil {
		return day
	}
	suffix := "th"
	if n%100 < 11 || n%100 > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return day + suffix
}
