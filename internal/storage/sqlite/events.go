package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mmynk/splitchain/internal/models"
	"github.com/mmynk/splitchain/internal/storage"
)

// insertEvent appends event to the outbox inside tx and sets event.Seq.
func insertEvent(ctx context.Context, tx *sql.Tx, event *models.Event) error {
	if event == nil {
		return nil
	}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO events (type, group_id, occurred_at, payload) VALUES (?, ?, ?, ?)",
		string(event.Type), event.GroupID, event.OccurredAt, string(event.Payload),
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read event seq: %w", err)
	}
	event.Seq = uint64(seq)
	return nil
}

// ListEvents returns the events matching filter, in Seq order.
func (s *SQLiteStore) ListEvents(ctx context.Context, filter storage.EventFilter) ([]models.Event, error) {
	query := "SELECT seq, type, group_id, occurred_at, payload FROM events WHERE seq > ?"
	args := []any{filter.AfterSeq}
	if filter.Type != "" {
		query += " AND type = ?"
		args = append(args, string(filter.Type))
	}
	if filter.GroupID != 0 {
		query += " AND group_id = ?"
		args = append(args, filter.GroupID)
	}
	query += " ORDER BY seq"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// ListUndelivered returns the oldest events not yet handed to the broker.
func (s *SQLiteStore) ListUndelivered(ctx context.Context, limit int) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, type, group_id, occurred_at, payload FROM events
		 WHERE delivered_at IS NULL ORDER BY seq LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list undelivered events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// MarkDelivered stamps the given events as delivered.
func (s *SQLiteStore) MarkDelivered(ctx context.Context, seqs []uint64) error {
	if len(seqs) == 0 {
		return nil
	}

	args := make([]any, 0, len(seqs)+1)
	args = append(args, time.Now().Unix())
	for _, seq := range seqs {
		args = append(args, seq)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(seqs)), ", ")

	_, err := s.db.ExecContext(ctx,
		"UPDATE events SET delivered_at = ? WHERE seq IN ("+placeholders+")",
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to mark events delivered: %w", err)
	}
	return nil
}

func scanEvents(rows *sql.Rows) ([]models.Event, error) {
	var events []models.Event
	for rows.Next() {
		var e models.Event
		var eventType string
		var payload []byte
		if err := rows.Scan(&e.Seq, &eventType, &e.GroupID, &e.OccurredAt, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.Type = models.EventType(eventType)
		e.Payload = payload
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}
