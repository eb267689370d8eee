package scheduler

import (
	"context"
	"database/sql"
	"errors"

	"github.com/wuchris-ch/notification-app/internal/domain/delivery"
	"github.com/wuchris-ch/notification-app/internal/domain/notify"
	"github.com/wuchris-ch/notification-app/internal/domain/reminder"
	idb "github.com/wuchris-ch/notification-app/internal/infra/database"

	"github.com/sirupsen/logrus"
)

// Executor handles an elapsed trigger: it re-reads the reminder, fans the
// message out to every enabled channel, and records one delivery outcome per
// attempt. Failures are contained per channel; one bad destination never
// blocks its siblings.
type Executor struct {
	reminders  reminder.Repository
	deliveries delivery.Repository
	gateway    notify.Gateway
	logger     *logrus.Logger
}

func NewExecutor(
	reminders reminder.Repository,
	deliveries delivery.Repository,
	gateway notify.Gateway,
	logger *logrus.Logger,
) *Executor {
	return &Executor{
		reminders:  reminders,
		deliveries: deliveries,
		gateway:    gateway,
		logger:     logger,
	}
}

// Fire runs one fire event for the reminder. The reminder is re-fetched so a
// trigger that elapsed after a delete or disable becomes a no-op.
func (e *Executor) Fire(ctx context.Context, reminderID int64) {
	rem, err := e.reminders.GetByID(ctx, reminderID)
	if err != nil {
		if errors.Is(err, idb.ErrReminderNotFound) {
			e.logger.Infof("Skip reminder %d (missing)", reminderID)
			return
		}
		e.logger.Errorf("Failed to load reminder %d for firing: %v", reminderID, err)
		return
	}
	if !rem.Enabled {
		e.logger.Infof("Skip reminder %d (disabled)", reminderID)
		return
	}

	if len(rem.Channels) == 0 {
		e.logger.Warnf("Reminder %d has no channels configured, skipping", reminderID)
		return
	}
	enabled := rem.EnabledChannels()
	if len(enabled) == 0 {
		e.logger.Warnf("Reminder %d has no enabled channels, skipping", reminderID)
		return
	}

	body := ""
	if rem.Body.Valid {
		body = rem.Body.String
	}

	outcomes := make([]*delivery.Log, 0, len(enabled))
	sent := 0
	for _, ch := range enabled {
		outcome := &delivery.Log{
			ReminderID: rem.ID,
			ChannelID:  sql.NullInt64{Int64: ch.ID, Valid: true},
		}
		if err := e.gateway.Send(ctx, ch.Topic, rem.Title, body); err != nil {
			e.logger.Errorf("Failed to send reminder %d to channel %s (topic: %s): %v", rem.ID, ch.Name, ch.Topic, err)
			outcome.Status = delivery.StatusError
			outcome.Detail = sql.NullString{String: err.Error(), Valid: true}
		} else {
			e.logger.Infof("Sent reminder %d to channel %s (topic: %s)", rem.ID, ch.Name, ch.Topic)
			outcome.Status = delivery.StatusSent
			sent++
		}
		outcomes = append(outcomes, outcome)
	}

	// Outcomes are persisted as one batch after the fan-out. Deliveries that
	// already went out are not retried if this write fails.
	if err := e.deliveries.Append(ctx, outcomes); err != nil {
		e.logger.Errorf("Failed to record delivery outcomes for reminder %d: %v", rem.ID, err)
	}

	e.logger.Infof("Sent reminder %d to %d/%d enabled channels", rem.ID, sent, len(enabled))
}
