package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/wuchris-ch/notification-app/internal/domain/channel"
)

// Custom errors
var ErrChannelNotFound = fmt.Errorf("channel not found")
var ErrDuplicateChannelName = fmt.Errorf("channel with this name already exists")
var ErrDuplicateChannelTopic = fmt.Errorf("channel with this topic already exists")

type PostgresChannelRepository struct {
	db *sql.DB
}

func NewPostgresChannelRepository(db *sql.DB) *PostgresChannelRepository {
	return &PostgresChannelRepository{db: db}
}

func (r *PostgresChannelRepository) Create(ctx context.Context, ch *channel.Channel) error {
	query := `INSERT INTO channels (name, description, ntfy_topic, timezone, enabled)
               VALUES ($1, $2, $3, $4, $5)
               RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, ch.Name, ch.Description, ch.Topic, ch.Timezone, ch.Enabled).
		Scan(&ch.ID, &ch.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "channels_name_key") {
			return ErrDuplicateChannelName
		}
		if isUniqueViolation(err, "channels_ntfy_topic_key") {
			return ErrDuplicateChannelTopic
		}
		return fmt.Errorf("error creating channel: %w", err)
	}
	return nil
}

func (r *PostgresChannelRepository) GetByID(ctx context.Context, id int64) (*channel.Channel, error) {
	query := `SELECT id, name, description, ntfy_topic, timezone, enabled, created_at
               FROM channels WHERE id = $1`
	ch := &channel.Channel{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&ch.ID, &ch.Name, &ch.Description, &ch.Topic, &ch.Timezone, &ch.Enabled, &ch.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrChannelNotFound
		}
		return nil, fmt.Errorf("error getting channel by ID: %w", err)
	}
	return ch, nil
}

func (r *PostgresChannelRepository) GetByName(ctx context.Context, name string) (*channel.Channel, error) {
	query := `SELECT id, name, description, ntfy_topic, timezone, enabled, created_at
               FROM channels WHERE name = $1`
	ch := &channel.Channel{}
	err := r.db.QueryRowContext(ctx, query, name).
		Scan(&ch.ID, &ch.Name, &ch.Description, &ch.Topic, &ch.Timezone, &ch.Enabled, &ch.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrChannelNotFound
		}
		return nil, fmt.Errorf("error getting channel by name: %w", err)
	}
	return ch, nil
}

func (r *PostgresChannelRepository) List(ctx context.Context) ([]*channel.Channel, error) {
	query := `SELECT id, name, description, ntfy_topic, timezone, enabled, created_at
               FROM channels ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing channels: %w", err)
	}
	defer rows.Close()

	channels := make([]*channel.Channel, 0)
	for rows.Next() {
		ch := &channel.Channel{}
		if err := rows.Scan(&ch.ID, &ch.Name, &ch.Description, &ch.Topic, &ch.Timezone, &ch.Enabled, &ch.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning channel: %w", err)
		}
		channels = append(channels, ch)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating channels: %w", err)
	}
	return channels, nil
}

func (r *PostgresChannelRepository) Update(ctx context.Context, ch *channel.Channel) error {
	query := `UPDATE channels
               SET name = $1, description = $2, ntfy_topic = $3, timezone = $4, enabled = $5
               WHERE id = $6`

	res, err := r.db.ExecContext(ctx, query, ch.Name, ch.Description, ch.Topic, ch.Timezone, ch.Enabled, ch.ID)
	if err != nil {
		if isUniqueViolation(err, "channels_name_key") {
			return ErrDuplicateChannelName
		}
		if isUniqueViolation(err, "channels_ntfy_topic_key") {
			return ErrDuplicateChannelTopic
		}
		return fmt.Errorf("error updating channel: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking channel update result: %w", err)
	}
	if affected == 0 {
		return ErrChannelNotFound
	}
	return nil
}

func (r *PostgresChannelRepository) InUse(ctx context.Context, id int64) (bool, error) {
	var inUse bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM reminder_channels WHERE channel_id = $1)`, id).
		Scan(&inUse)
	if err != nil {
		return false, fmt.Errorf("error checking channel usage: %w", err)
	}
	return inUse, nil
}

func (r *PostgresChannelRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM channels WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting channel: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking channel delete result: %w", err)
	}
	if affected == 0 {
		return ErrChannelNotFound
	}
	return nil
}

// isUniqueViolation reports whether err is a unique-constraint violation on the
// named constraint. String matching mirrors lib/pq's error text.
func isUniqueViolation(err error, constraint string) bool {
	return strings.Contains(err.Error(), "unique constraint") && strings.Contains(err.Error(), constraint)
}
