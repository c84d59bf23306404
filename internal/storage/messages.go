package storage

import (
	"context"
	"fmt"

	"github.com/kalyanig/paisa-trail/internal/common"
	"github.com/kalyanig/paisa-trail/internal/model"
	"github.com/kalyanig/paisa-trail/internal/service"
)

// SaveMessage stores a classified message. Re-ingesting a message with
// the same id is a no-op.
func (s *SQLiteStorage) SaveMessage(ctx context.Context, msg model.RawMessage, result model.ClassificationResult) error {
	if msg.ID == "" {
		return fmt.Errorf("message id must not be empty")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO messages (
			id, sender, body, timestamp_ms, label, sub_label, confidence, method
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		msg.ID,
		msg.Sender,
		msg.Body,
		msg.TimestampMs,
		string(result.Label),
		result.SubLabel,
		result.Confidence,
		string(result.Method),
	)
	if err != nil {
		return fmt.Errorf("failed to insert message %s: %w", msg.ID, err)
	}
	return nil
}

// GetLowConfidenceMessages returns messages whose classification
// confidence is below threshold, least confident first.
func (s *SQLiteStorage) GetLowConfidenceMessages(ctx context.Context, threshold float64, limit int) ([]service.ClassifiedMessage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, sender, body, timestamp_ms, label, sub_label, confidence, method
		FROM messages
		WHERE confidence < ?
		ORDER BY confidence ASC, created_at DESC
		LIMIT ?`, threshold, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query low-confidence messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []service.ClassifiedMessage
	for rows.Next() {
		var cm service.ClassifiedMessage
		var label, method string
		if err := rows.Scan(
			&cm.Message.ID,
			&cm.Message.Sender,
			&cm.Message.Body,
			&cm.Message.TimestampMs,
			&label,
			&cm.Result.SubLabel,
			&cm.Result.Confidence,
			&method,
		); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		cm.Result.Label = model.Label(label)
		cm.Result.Method = model.Method(method)
		results = append(results, cm)
	}
	return results, rows.Err()
}

// UpdateMessageLabel overrides a stored message's classification, used
// by the review flow. Overrides are recorded at full confidence.
func (s *SQLiteStorage) UpdateMessageLabel(ctx context.Context, id string, label model.Label, subLabel string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE messages SET label = ?, sub_label = ?, confidence = 1.0
		WHERE id = ?`, string(label), subLabel, id)
	if err != nil {
		return fmt.Errorf("failed to update message %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update of message %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("message %s: %w", id, common.ErrNotFound)
	}
	return nil
}

// CountByLabel returns the number of stored messages per primary label.
func (s *SQLiteStorage) CountByLabel(ctx context.Context) (map[model.Label]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT label, COUNT(*) FROM messages GROUP BY label`)
	if err != nil {
		return nil, fmt.Errorf("failed to count messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[model.Label]int)
	for rows.Next() {
		var label string
		var count int
		if err := rows.Scan(&label, &count); err != nil {
			return nil, fmt.Errorf("failed to scan label count: %w", err)
		}
		counts[model.Label(label)] = count
	}
	return counts, rows.Err()
}
