package app

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/wuchris-ch/notification-app/internal/domain/channel"
	"github.com/wuchris-ch/notification-app/internal/domain/reminder"
	"github.com/wuchris-ch/notification-app/internal/schedule"
)

// ReminderService carries the business rules for managing reminders. It
// validates the durable wire format (5-field cron + IANA timezone) before
// anything reaches the store; the scheduler tolerates but never fires records
// that slipped past this gate.
type ReminderService struct {
	reminders       reminder.Repository
	channels        channel.Repository
	defaultTimezone string
}

func NewReminderService(reminders reminder.Repository, channels channel.Repository, defaultTimezone string) *ReminderService {
	return &ReminderService{
		reminders:       reminders,
		channels:        channels,
		defaultTimezone: defaultTimezone,
	}
}

// ReminderInput carries the caller-supplied fields for creating a reminder.
type ReminderInput struct {
	ChannelIDs []int64
	Title      string
	Body       string
	Cron       string
	Timezone   string
}

// ReminderUpdate carries optional field updates; nil means leave unchanged.
type ReminderUpdate struct {
	ChannelIDs []int64 // nil keeps current associations; empty slice clears them
	Title      *string
	Body       *string
	Cron       *string
	Timezone   *string
	Enabled    *bool
}

func (s *ReminderService) Create(ctx context.Context, in ReminderInput) (*reminder.Reminder, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, validationErrorf("title cannot be empty")
	}
	if utf8.RuneCountInString(title) > reminder.MaxTitleLength {
		return nil, validationErrorf("title exceeds %d characters", reminder.MaxTitleLength)
	}
	if err := schedule.Validate(in.Cron); err != nil {
		return nil, validationErrorf("invalid cron expression: %v", err)
	}

	tz := in.Timezone
	if tz == "" {
		tz = s.defaultTimezone
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return nil, validationErrorf("invalid timezone %q", tz)
	}

	if err := s.checkChannelsExist(ctx, in.ChannelIDs); err != nil {
		return nil, err
	}

	rem := &reminder.Reminder{
		Title:    title,
		Body:     nullString(in.Body),
		Cron:     in.Cron,
		Timezone: tz,
		Enabled:  true,
	}
	if err := s.reminders.Create(ctx, rem, in.ChannelIDs); err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}
	return rem, nil
}

func (s *ReminderService) Get(ctx context.Context, id int64) (*reminder.Reminder, error) {
	return s.reminders.GetByID(ctx, id)
}

func (s *ReminderService) List(ctx context.Context) ([]*reminder.Reminder, error) {
	return s.reminders.List(ctx)
}

func (s *ReminderService) Update(ctx context.Context, id int64, in ReminderUpdate) (*reminder.Reminder, error) {
	rem, err := s.reminders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, validationErrorf("title cannot be empty")
		}
		if utf8.RuneCountInString(title) > reminder.MaxTitleLength {
			return nil, validationErrorf("title exceeds %d characters", reminder.MaxTitleLength)
		}
		rem.Title = title
	}
	if in.Body != nil {
		rem.Body = nullString(*in.Body)
	}
	if in.Cron != nil {
		if err := schedule.Validate(*in.Cron); err != nil {
			return nil, validationErrorf("invalid cron expression: %v", err)
		}
		rem.Cron = *in.Cron
	}
	if in.Timezone != nil {
		if _, err := time.LoadLocation(*in.Timezone); err != nil {
			return nil, validationErrorf("invalid timezone %q", *in.Timezone)
		}
		rem.Timezone = *in.Timezone
	}
	if in.Enabled != nil {
		rem.Enabled = *in.Enabled
	}

	// All validation happens before the first store write so a rejected update
	// leaves no partial state behind.
	if in.ChannelIDs != nil {
		if err := s.checkChannelsExist(ctx, in.ChannelIDs); err != nil {
			return nil, err
		}
	}

	if err := s.reminders.Update(ctx, rem); err != nil {
		return nil, fmt.Errorf("failed to update reminder: %w", err)
	}
	if in.ChannelIDs != nil {
		if err := s.reminders.ReplaceChannels(ctx, id, in.ChannelIDs); err != nil {
			return nil, fmt.Errorf("failed to replace reminder channels: %w", err)
		}
	}

	return s.reminders.GetByID(ctx, id)
}

func (s *ReminderService) Delete(ctx context.Context, id int64) error {
	return s.reminders.Delete(ctx, id)
}

// NextExecution computes the reminder's next fire instant from now.
func (s *ReminderService) NextExecution(rem *reminder.Reminder) (time.Time, error) {
	return schedule.NextAfter(rem.Cron, rem.Timezone, time.Now())
}

func (s *ReminderService) checkChannelsExist(ctx context.Context, channelIDs []int64) error {
	for _, id := range channelIDs {
		if _, err := s.channels.GetByID(ctx, id); err != nil {
			return fmt.Errorf("channel %d: %w", id, err)
		}
	}
	return nil
}
