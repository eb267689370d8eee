package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/wuchris-ch/notification-app/internal/domain/channel"
	"github.com/wuchris-ch/notification-app/internal/domain/reminder"
)

var ErrReminderNotFound = fmt.Errorf("reminder not found")

type PostgresReminderRepository struct {
	db *sql.DB
}

func NewPostgresReminderRepository(db *sql.DB) *PostgresReminderRepository {
	return &PostgresReminderRepository{db: db}
}

func (r *PostgresReminderRepository) Create(ctx context.Context, rem *reminder.Reminder, channelIDs []int64) error {
	txn, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for reminder create: %w", err)
	}
	defer txn.Rollback() // Rollback if not committed

	query := `INSERT INTO reminders (title, body, cron, timezone, enabled)
               VALUES ($1, $2, $3, $4, $5)
               RETURNING id, created_at`
	err = txn.QueryRowContext(ctx, query, rem.Title, rem.Body, rem.Cron, rem.Timezone, rem.Enabled).
		Scan(&rem.ID, &rem.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating reminder: %w", err)
	}

	if err := insertChannelLinks(ctx, txn, rem.ID, channelIDs); err != nil {
		return err
	}
	if err := txn.Commit(); err != nil {
		return fmt.Errorf("error committing reminder create: %w", err)
	}

	rem.Channels, err = r.channelsFor(ctx, rem.ID)
	if err != nil {
		return err
	}
	return nil
}

func (r *PostgresReminderRepository) GetByID(ctx context.Context, id int64) (*reminder.Reminder, error) {
	query := `SELECT id, title, body, cron, timezone, enabled, created_at
               FROM reminders WHERE id = $1`
	rem := &reminder.Reminder{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&rem.ID, &rem.Title, &rem.Body, &rem.Cron, &rem.Timezone, &rem.Enabled, &rem.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrReminderNotFound
		}
		return nil, fmt.Errorf("error getting reminder by ID: %w", err)
	}

	rem.Channels, err = r.channelsFor(ctx, rem.ID)
	if err != nil {
		return nil, err
	}
	return rem, nil
}

func (r *PostgresReminderRepository) List(ctx context.Context) ([]*reminder.Reminder, error) {
	return r.list(ctx, `SELECT id, title, body, cron, timezone, enabled, created_at
               FROM reminders ORDER BY id DESC`)
}

func (r *PostgresReminderRepository) ListEnabled(ctx context.Context) ([]*reminder.Reminder, error) {
	return r.list(ctx, `SELECT id, title, body, cron, timezone, enabled, created_at
               FROM reminders WHERE enabled = TRUE ORDER BY id`)
}

func (r *PostgresReminderRepository) list(ctx context.Context, query string) ([]*reminder.Reminder, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing reminders: %w", err)
	}
	defer rows.Close()

	reminders := make([]*reminder.Reminder, 0)
	for rows.Next() {
		rem := &reminder.Reminder{}
		if err := rows.Scan(&rem.ID, &rem.Title, &rem.Body, &rem.Cron, &rem.Timezone, &rem.Enabled, &rem.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning reminder: %w", err)
		}
		reminders = append(reminders, rem)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reminders: %w", err)
	}

	for _, rem := range reminders {
		if rem.Channels, err = r.channelsFor(ctx, rem.ID); err != nil {
			return nil, err
		}
	}
	return reminders, nil
}

func (r *PostgresReminderRepository) Update(ctx context.Context, rem *reminder.Reminder) error {
	query := `UPDATE reminders
               SET title = $1, body = $2, cron = $3, timezone = $4, enabled = $5
               WHERE id = $6`
	res, err := r.db.ExecContext(ctx, query, rem.Title, rem.Body, rem.Cron, rem.Timezone, rem.Enabled, rem.ID)
	if err != nil {
		return fmt.Errorf("error updating reminder: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking reminder update result: %w", err)
	}
	if affected == 0 {
		return ErrReminderNotFound
	}
	return nil
}

func (r *PostgresReminderRepository) ReplaceChannels(ctx context.Context, reminderID int64, channelIDs []int64) error {
	txn, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for channel replace: %w", err)
	}
	defer txn.Rollback()

	if _, err := txn.ExecContext(ctx, `DELETE FROM reminder_channels WHERE reminder_id = $1`, reminderID); err != nil {
		return fmt.Errorf("error clearing reminder channels: %w", err)
	}
	if err := insertChannelLinks(ctx, txn, reminderID, channelIDs); err != nil {
		return err
	}
	return txn.Commit()
}

func (r *PostgresReminderRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting reminder: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking reminder delete result: %w", err)
	}
	if affected == 0 {
		return ErrReminderNotFound
	}
	return nil
}

func insertChannelLinks(ctx context.Context, txn *sql.Tx, reminderID int64, channelIDs []int64) error {
	if len(channelIDs) == 0 {
		return nil
	}
	stmt, err := txn.PrepareContext(ctx, `INSERT INTO reminder_channels (reminder_id, channel_id) VALUES ($1, $2)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement for channel links: %w", err)
	}
	defer stmt.Close()

	for _, chID := range channelIDs {
		if _, err := stmt.ExecContext(ctx, reminderID, chID); err != nil {
			return fmt.Errorf("error linking reminder %d to channel %d: %w", reminderID, chID, err)
		}
	}
	return nil
}

func (r *PostgresReminderRepository) channelsFor(ctx context.Context, reminderID int64) ([]*channel.Channel, error) {
	query := `SELECT c.id, c.name, c.description, c.ntfy_topic, c.timezone, c.enabled, c.created_at
               FROM channels c
               JOIN reminder_channels rc ON rc.channel_id = c.id
               WHERE rc.reminder_id = $1
               ORDER BY c.id`

	rows, err := r.db.QueryContext(ctx, query, reminderID)
	if err != nil {
		return nil, fmt.Errorf("error listing channels for reminder %d: %w", reminderID, err)
	}
	defer rows.Close()

	channels := make([]*channel.Channel, 0)
	for rows.Next() {
		ch := &channel.Channel{}
		if err := rows.Scan(&ch.ID, &ch.Name, &ch.Description, &ch.Topic, &ch.Timezone, &ch.Enabled, &ch.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning channel for reminder %d: %w", reminderID, err)
		}
		channels = append(channels, ch)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating channels for reminder %d: %w", reminderID, err)
	}
	return channels, nil
}
