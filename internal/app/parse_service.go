package app

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/wuchris-ch/notification-app/internal/domain/nlp"
	"github.com/wuchris-ch/notification-app/internal/domain/reminder"
	"github.com/wuchris-ch/notification-app/internal/schedule"

	"github.com/sirupsen/logrus"
)

// ParsedReminder is the validated, enhanced result of a natural-language
// parse: the structured draft run through cron synthesis plus display
// metadata.
type ParsedReminder struct {
	Title               string
	Body                string // empty means absent
	Cron                string
	Timezone            string
	ScheduleDescription string
	Confidence          string
	NextExecution       time.Time
}

// ParseService turns free text into persisted reminders. The AI collaborator
// only supplies structured time and recurrence data; cron synthesis and every
// validation step are deterministic and local.
type ParseService struct {
	parser          nlp.Parser
	reminders       *ReminderService
	defaultTimezone string
	logger          *logrus.Logger
}

func NewParseService(parser nlp.Parser, reminders *ReminderService, defaultTimezone string, logger *logrus.Logger) *ParseService {
	return &ParseService{
		parser:          parser,
		reminders:       reminders,
		defaultTimezone: defaultTimezone,
		logger:          logger,
	}
}

// ParseText parses free text in the given timezone and returns the enhanced
// result without persisting anything.
func (s *ParseService) ParseText(ctx context.Context, text, timezone string) (*ParsedReminder, error) {
	if strings.TrimSpace(text) == "" {
		return nil, validationErrorf("natural language text cannot be empty")
	}
	tz := timezone
	if tz == "" {
		tz = s.defaultTimezone
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return nil, validationErrorf("invalid timezone %q", tz)
	}

	draft, err := s.parser.Parse(ctx, text, tz)
	if err != nil {
		return nil, validationErrorf("could not parse reminder text: %v", err)
	}
	return s.enhance(draft, tz)
}

// CreateFromText parses free text and persists the resulting reminder against
// the given channels.
func (s *ParseService) CreateFromText(ctx context.Context, channelIDs []int64, text, timezone string) (*reminder.Reminder, *ParsedReminder, error) {
	parsed, err := s.ParseText(ctx, text, timezone)
	if err != nil {
		return nil, nil, err
	}

	rem, err := s.reminders.Create(ctx, ReminderInput{
		ChannelIDs: channelIDs,
		Title:      parsed.Title,
		Body:       parsed.Body,
		Cron:       parsed.Cron,
		Timezone:   parsed.Timezone,
	})
	if err != nil {
		return nil, nil, err
	}
	s.logger.Infof("Created reminder %d from natural language: %s (%s)", rem.ID, rem.Title, rem.Cron)
	return rem, parsed, nil
}

// enhance validates the draft and derives the cron expression and display
// fields. Title is clamped to the persisted bound; "none"-like bodies are
// normalized to absent; unknown confidence values become "medium".
func (s *ParseService) enhance(draft *nlp.Draft, timezone string) (*ParsedReminder, error) {
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return nil, validationErrorf("title cannot be empty")
	}
	// Clamp in runes, not bytes, so a multibyte title is neither over-truncated
	// nor cut mid-sequence.
	if utf8.RuneCountInString(title) > reminder.MaxTitleLength {
		runes := []rune(title)
		title = string(runes[:reminder.MaxTitleLength-3]) + "..."
	}

	body := strings.TrimSpace(draft.Body)
	switch strings.ToLower(body) {
	case "none", "null", "n/a":
		body = ""
	}

	confidence := strings.ToLower(draft.Confidence)
	switch confidence {
	case "high", "medium", "low":
	default:
		confidence = "medium"
	}

	expr, err := schedule.Build(
		schedule.TimeOfDay{Hour: draft.Time.Hour, Minute: draft.Time.Minute},
		schedule.Recurrence{
			Kind:         schedule.Frequency(strings.ToLower(draft.Recurrence.Type)),
			WeekdaysOnly: draft.Recurrence.WeekdaysOnly,
			DaysOfWeek:   draft.Recurrence.DayOfWeek,
			DayOfMonth:   draft.Recurrence.DayOfMonth,
			Month:        draft.Recurrence.Month,
		},
	)
	if err != nil {
		return nil, validationErrorf("could not build schedule: %v", err)
	}

	next, err := schedule.NextAfter(expr, timezone, time.Now())
	if err != nil {
		return nil, validationErrorf("invalid schedule: %v", err)
	}

	return &ParsedReminder{
		Title:               title,
		Body:                body,
		Cron:                expr,
		Timezone:            timezone,
		ScheduleDescription: schedule.Describe(expr),
		Confidence:          confidence,
		NextExecution:       next,
	}, nil
}
