package app

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/wuchris-ch/notification-app/internal/domain/channel"
)

const maxChannelNameLength = 64

// ChannelService carries the business rules for managing delivery channels.
type ChannelService struct {
	channels        channel.Repository
	defaultTimezone string
}

func NewChannelService(channels channel.Repository, defaultTimezone string) *ChannelService {
	return &ChannelService{channels: channels, defaultTimezone: defaultTimezone}
}

// ChannelInput carries the caller-supplied fields for creating a channel.
type ChannelInput struct {
	Name        string
	Description string
	Topic       string
	Timezone    string
}

// ChannelUpdate carries optional field updates; nil means leave unchanged.
type ChannelUpdate struct {
	Name        *string
	Description *string
	Topic       *string
	Timezone    *string
	Enabled     *bool
}

func (s *ChannelService) Create(ctx context.Context, in ChannelInput) (*channel.Channel, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, validationErrorf("channel name cannot be empty")
	}
	if len(name) > maxChannelNameLength {
		return nil, validationErrorf("channel name exceeds %d characters", maxChannelNameLength)
	}
	if strings.TrimSpace(in.Topic) == "" {
		return nil, validationErrorf("channel topic cannot be empty")
	}

	tz := in.Timezone
	if tz == "" {
		tz = s.defaultTimezone
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return nil, validationErrorf("invalid timezone %q", tz)
	}

	ch := &channel.Channel{
		Name:        name,
		Description: nullString(in.Description),
		Topic:       strings.TrimSpace(in.Topic),
		Timezone:    tz,
		Enabled:     true,
	}
	if err := s.channels.Create(ctx, ch); err != nil {
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}
	return ch, nil
}

func (s *ChannelService) Get(ctx context.Context, id int64) (*channel.Channel, error) {
	return s.channels.GetByID(ctx, id)
}

func (s *ChannelService) List(ctx context.Context) ([]*channel.Channel, error) {
	return s.channels.List(ctx)
}

func (s *ChannelService) Update(ctx context.Context, id int64, in ChannelUpdate) (*channel.Channel, error) {
	ch, err := s.channels.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, validationErrorf("channel name cannot be empty")
		}
		ch.Name = name
	}
	if in.Description != nil {
		ch.Description = nullString(*in.Description)
	}
	if in.Topic != nil {
		if strings.TrimSpace(*in.Topic) == "" {
			return nil, validationErrorf("channel topic cannot be empty")
		}
		ch.Topic = strings.TrimSpace(*in.Topic)
	}
	if in.Timezone != nil {
		if _, err := time.LoadLocation(*in.Timezone); err != nil {
			return nil, validationErrorf("invalid timezone %q", *in.Timezone)
		}
		ch.Timezone = *in.Timezone
	}
	if in.Enabled != nil {
		ch.Enabled = *in.Enabled
	}

	if err := s.channels.Update(ctx, ch); err != nil {
		return nil, fmt.Errorf("failed to update channel: %w", err)
	}
	return ch, nil
}

// Delete removes a channel. A channel still referenced by reminders is
// refused; the caller must detach or delete those reminders first.
func (s *ChannelService) Delete(ctx context.Context, id int64) error {
	inUse, err := s.channels.InUse(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return ErrChannelInUse
	}
	return s.channels.Delete(ctx, id)
}

func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
