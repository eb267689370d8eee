package httpapi

import (
	"time"

	"github.com/wuchris-ch/notification-app/internal/domain/channel"
	"github.com/wuchris-ch/notification-app/internal/domain/delivery"
	"github.com/wuchris-ch/notification-app/internal/domain/reminder"
)

type channelIn struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Topic       string `json:"ntfy_topic"`
	Timezone    string `json:"timezone"`
}

type channelUpdateIn struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Topic       *string `json:"ntfy_topic"`
	Timezone    *string `json:"timezone"`
	Enabled     *bool   `json:"enabled"`
}

type channelOut struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Topic       string    `json:"ntfy_topic"`
	Timezone    string    `json:"timezone"`
	Enabled     bool      `json:"enabled"`
	CreatedAt   time.Time `json:"created_at"`
}

func toChannelOut(ch *channel.Channel) channelOut {
	out := channelOut{
		ID:        ch.ID,
		Name:      ch.Name,
		Topic:     ch.Topic,
		Timezone:  ch.Timezone,
		Enabled:   ch.Enabled,
		CreatedAt: ch.CreatedAt,
	}
	if ch.Description.Valid {
		out.Description = &ch.Description.String
	}
	return out
}

type channelInfo struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Topic string `json:"ntfy_topic"`
}

type reminderIn struct {
	ChannelIDs []int64 `json:"channel_ids"`
	Title      string  `json:"title"`
	Body       string  `json:"body"`
	Cron       string  `json:"cron"`
	Timezone   string  `json:"timezone"`
}

type reminderUpdateIn struct {
	ChannelIDs []int64 `json:"channel_ids"`
	Title      *string `json:"title"`
	Body       *string `json:"body"`
	Cron       *string `json:"cron"`
	Timezone   *string `json:"timezone"`
	Enabled    *bool   `json:"enabled"`
}

type reminderOut struct {
	ID        int64         `json:"id"`
	Title     string        `json:"title"`
	Body      *string       `json:"body"`
	Cron      string        `json:"cron"`
	Timezone  string        `json:"timezone"`
	Enabled   bool          `json:"enabled"`
	CreatedAt time.Time     `json:"created_at"`
	Channels  []channelInfo `json:"channels"`
}

func toReminderOut(rem *reminder.Reminder) reminderOut {
	out := reminderOut{
		ID:        rem.ID,
		Title:     rem.Title,
		Cron:      rem.Cron,
		Timezone:  rem.Timezone,
		Enabled:   rem.Enabled,
		CreatedAt: rem.CreatedAt,
		Channels:  make([]channelInfo, 0, len(rem.Channels)),
	}
	if rem.Body.Valid {
		out.Body = &rem.Body.String
	}
	for _, ch := range rem.Channels {
		out.Channels = append(out.Channels, channelInfo{ID: ch.ID, Name: ch.Name, Topic: ch.Topic})
	}
	return out
}

type deliveryLogOut struct {
	ID         int64     `json:"id"`
	ReminderID int64     `json:"reminder_id"`
	ChannelID  *int64    `json:"channel_id"`
	SentAt     time.Time `json:"sent_at"`
	Status     string    `json:"status"`
	Detail     *string   `json:"detail"`
}

func toDeliveryLogOut(l *delivery.Log) deliveryLogOut {
	out := deliveryLogOut{
		ID:         l.ID,
		ReminderID: l.ReminderID,
		SentAt:     l.SentAt,
		Status:     string(l.Status),
	}
	if l.ChannelID.Valid {
		out.ChannelID = &l.ChannelID.Int64
	}
	if l.Detail.Valid {
		out.Detail = &l.Detail.String
	}
	return out
}

type testNotificationIn struct {
	ChannelID int64  `json:"channel_id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
}

type aiReminderIn struct {
	ChannelIDs      []int64 `json:"channel_ids"`
	NaturalLanguage string  `json:"natural_language"`
	Timezone        string  `json:"timezone"`
}

type aiReminderOut struct {
	Reminder            reminderOut `json:"reminder"`
	ScheduleDescription string      `json:"schedule_description"`
	Confidence          string      `json:"confidence"`
	NextExecution       time.Time   `json:"next_execution"`
}
