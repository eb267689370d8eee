package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/wuchris-ch/notification-app/internal/domain/delivery"
)

const defaultLogListLimit = 50

type PostgresDeliveryRepository struct {
	db *sql.DB
}

func NewPostgresDeliveryRepository(db *sql.DB) *PostgresDeliveryRepository {
	return &PostgresDeliveryRepository{db: db}
}

// Append writes all outcomes of one fire event in a single transaction, so a
// fan-out produces one store round-trip regardless of destination count.
func (r *PostgresDeliveryRepository) Append(ctx context.Context, logs []*delivery.Log) error {
	if len(logs) == 0 {
		return nil
	}

	txn, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for delivery logs: %w", err)
	}
	defer txn.Rollback() // Rollback if not committed

	stmt, err := txn.PrepareContext(ctx, `INSERT INTO delivery_logs (reminder_id, channel_id, status, detail)
                                         VALUES ($1, $2, $3, $4)
                                         RETURNING id, sent_at`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement for delivery logs: %w", err)
	}
	defer stmt.Close()

	for _, l := range logs {
		if err := stmt.QueryRowContext(ctx, l.ReminderID, l.ChannelID, l.Status, l.Detail).Scan(&l.ID, &l.SentAt); err != nil {
			return fmt.Errorf("error inserting delivery log (reminder %d): %w", l.ReminderID, err)
		}
	}

	return txn.Commit()
}

func (r *PostgresDeliveryRepository) List(ctx context.Context, f delivery.Filter) ([]*delivery.Log, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultLogListLimit
	}

	query := `SELECT id, reminder_id, channel_id, sent_at, status, detail
               FROM delivery_logs`
	args := []any{}
	if f.ReminderID != 0 {
		query += ` WHERE reminder_id = $1`
		args = append(args, f.ReminderID)
	}
	query += fmt.Sprintf(` ORDER BY sent_at DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing delivery logs: %w", err)
	}
	defer rows.Close()

	logs := make([]*delivery.Log, 0)
	for rows.Next() {
		l := &delivery.Log{}
		if err := rows.Scan(&l.ID, &l.ReminderID, &l.ChannelID, &l.SentAt, &l.Status, &l.Detail); err != nil {
			return nil, fmt.Errorf("error scanning delivery log: %w", err)
		}
		logs = append(logs, l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating delivery logs: %w", err)
	}
	return logs, nil
}
