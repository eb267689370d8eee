package nlp

import (
	"context"
	"encoding/json"
	"fmt"
)

// Parser converts free-form text into a structured reminder draft. The only
// implementation talks to an external AI service; everything downstream of the
// Draft is deterministic and validated locally.
type Parser interface {
	Parse(ctx context.Context, text, timezone string) (*Draft, error)
}

// Draft mirrors the JSON payload the parsing service returns. It is unvalidated
// input: the application layer must run it through cron synthesis and reject it
// if synthesis fails.
type Draft struct {
	Title      string         `json:"title"`
	Body       string         `json:"body"`
	Time       TimePayload    `json:"time"`
	Recurrence RecurrenceSpec `json:"recurrence"`
	Confidence string         `json:"confidence"`
}

type TimePayload struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

type RecurrenceSpec struct {
	Type         string  `json:"type"`
	DayOfWeek    IntList `json:"day_of_week"`
	DayOfMonth   int     `json:"day_of_month"`
	Month        int     `json:"month"`
	WeekdaysOnly bool    `json:"weekdays_only"`
}

// IntList accepts either a bare integer or a JSON array of integers; the
// parsing service emits both shapes for day_of_week.
type IntList []int

func (l *IntList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = nil
		return nil
	}
	var single int
	if err := json.Unmarshal(data, &single); err == nil {
		*l = IntList{single}
		return nil
	}
	var many []int
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("day_of_week must be an integer or a list of integers: %w", err)
	}
	*l = IntList(many)
	return nil
}
