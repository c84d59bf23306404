package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kalyanig/paisa-trail/internal/model"
)

// SaveTransaction stores an extracted transaction keyed by its dedup
// key. Returns false when an equivalent transaction was already stored.
func (s *SQLiteStorage) SaveTransaction(ctx context.Context, txn *model.ExtractedTransaction, anomaly model.AnomalyAssessment) (bool, error) {
	if txn == nil {
		return false, fmt.Errorf("transaction must not be nil")
	}
	if txn.Direction == nil {
		return false, fmt.Errorf("transaction direction must not be empty")
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO transactions (
			dedup_key, message_id, sender, amount, direction,
			account_number, bank_name, counterparty, payment_method,
			reference_number, transaction_date, balance_after,
			description, raw_body, timestamp_ms, is_anomaly, anomaly_score
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.DedupKey(),
		txn.MessageID,
		txn.Sender,
		nullFloat(txn.Amount),
		string(*txn.Direction),
		nullString(txn.AccountNumber),
		nullString(txn.BankName),
		nullString(txn.Counterparty),
		nullString(txn.PaymentMethod),
		nullString(txn.ReferenceNumber),
		nullString(txn.TransactionDate),
		nullFloat(txn.BalanceAfter),
		txn.Description,
		txn.RawBody,
		txn.TimestampMs,
		anomaly.IsAnomaly,
		anomaly.Score,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert transaction for message %s: %w", txn.MessageID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check transaction insert: %w", err)
	}
	return affected > 0, nil
}

// GetRecentTransactions returns the most recently observed transactions,
// newest first. These feed the anomaly detector's per-sender history.
func (s *SQLiteStorage) GetRecentTransactions(ctx context.Context, limit int) ([]model.ExtractedTransaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT message_id, sender, amount, direction, account_number,
			bank_name, counterparty, payment_method, reference_number,
			transaction_date, balance_after, description, raw_body,
			timestamp_ms
		FROM transactions
		ORDER BY timestamp_ms DESC, created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []model.ExtractedTransaction
	for rows.Next() {
		var txn model.ExtractedTransaction
		var direction string
		var amount, balance sql.NullFloat64
		var account, bank, counterparty, method, reference, date sql.NullString
		if err := rows.Scan(
			&txn.MessageID,
			&txn.Sender,
			&amount,
			&direction,
			&account,
			&bank,
			&counterparty,
			&method,
			&reference,
			&date,
			&balance,
			&txn.Description,
			&txn.RawBody,
			&txn.TimestampMs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		dir := model.Direction(direction)
		txn.Direction = &dir
		txn.Amount = floatPtr(amount)
		txn.BalanceAfter = floatPtr(balance)
		txn.AccountNumber = stringPtr(account)
		txn.BankName = stringPtr(bank)
		txn.Counterparty = stringPtr(counterparty)
		txn.PaymentMethod = stringPtr(method)
		txn.ReferenceNumber = stringPtr(reference)
		txn.TransactionDate = stringPtr(date)
		results = append(results, txn)
	}
	return results, rows.Err()
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
