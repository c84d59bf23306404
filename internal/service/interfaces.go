// Package service defines the interfaces between the message pipeline
// and its collaborators.
package service

import (
	"context"

	"github.com/kalyanig/paisa-trail/internal/model"
)

// ClassifiedMessage pairs a stored raw message with its classification.
type ClassifiedMessage struct {
	Message model.RawMessage
	Result  model.ClassificationResult
}

// Storage is the persistence contract for the ingestion pipeline. The
// implementation owns idempotent-insert semantics keyed by the
// transaction dedup key.
type Storage interface {
	// Message operations.
	SaveMessage(ctx context.Context, msg model.RawMessage, result model.ClassificationResult) error
	GetLowConfidenceMessages(ctx context.Context, threshold float64, limit int) ([]ClassifiedMessage, error)
	UpdateMessageLabel(ctx context.Context, id string, label model.Label, subLabel string) error
	CountByLabel(ctx context.Context) (map[model.Label]int, error)

	// Transaction operations.
	SaveTransaction(ctx context.Context, txn *model.ExtractedTransaction, anomaly model.AnomalyAssessment) (inserted bool, err error)
	GetRecentTransactions(ctx context.Context, limit int) ([]model.ExtractedTransaction, error)

	// Database management.
	Migrate(ctx context.Context) error
	Close() error
}
