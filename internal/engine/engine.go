// Package engine orchestrates the full ingestion pipeline: classify,
// screen for spam, extract, score for anomaly, persist.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/kalyanig/paisa-trail/internal/classify"
	"github.com/kalyanig/paisa-trail/internal/extract"
	"github.com/kalyanig/paisa-trail/internal/fraud"
	"github.com/kalyanig/paisa-trail/internal/model"
	"github.com/kalyanig/paisa-trail/internal/patterns"
	"github.com/kalyanig/paisa-trail/internal/service"
)

// DefaultHistoryLimit bounds how many stored transactions feed the
// anomaly detector per message.
const DefaultHistoryLimit = 500

// Outcome is everything the pipeline decided about one message.
type Outcome struct {
	Message        model.RawMessage
	Classification model.ClassificationResult
	Fraud          model.FraudAssessment
	Transaction    *model.ExtractedTransaction
	Anomaly        model.AnomalyAssessment
	DedupKey       string

	// Stored is true when a new transaction row was written. Duplicate
	// marks a dedup-key collision with an earlier message. Discarded
	// marks a financial_transaction label whose extraction produced no
	// direction.
	Stored    bool
	Duplicate bool
	Discarded bool
}

// Engine wires the classification router, extractor, fraud detector and
// storage into one pipeline. Safe for concurrent use, though batch
// ingestion runs sequentially so dedup decisions observe prior inserts.
type Engine struct {
	router    *classify.Router
	extractor *extract.Extractor
	detector  *fraud.Detector
	storage   service.Storage
	logger    *slog.Logger

	historyLimit int
}

// Option configures an Engine.
type Option func(*Engine)

// WithHistoryLimit overrides how much transaction history the anomaly
// detector sees.
func WithHistoryLimit(limit int) Option {
	return func(e *Engine) {
		if limit > 0 {
			e.historyLimit = limit
		}
	}
}

// WithTrainedModel attaches a statistical model consulted on
// low-confidence rule results.
func WithTrainedModel(trained classify.TrainedClassifier) Option {
	return func(e *Engine) {
		e.router = classify.NewRouter(patterns.Default(), trained, e.logger)
	}
}

// New creates a pipeline engine on top of the given storage.
func New(storage service.Storage, logger *slog.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	lib := patterns.Default()
	e := &Engine{
		router:       classify.NewRouter(lib, nil, logger),
		extractor:    extract.New(lib),
		detector:     fraud.New(lib),
		storage:      storage,
		logger:       logger,
		historyLimit: DefaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Process runs one message through the full pipeline. Messages without
// an id are assigned one. Spam messages are classified and stored but
// never produce a transaction.
func (e *Engine) Process(ctx context.Context, msg model.RawMessage) (Outcome, error) {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}

	outcome := Outcome{Message: msg}
	outcome.Classification = e.router.Classify(ctx, msg.Body, msg.Sender)

	if err := e.storage.SaveMessage(ctx, msg, outcome.Classification); err != nil {
		return outcome, fmt.Errorf("failed to save message: %w", err)
	}

	outcome.Fraud = e.detector.DetectSpam(msg)
	if outcome.Fraud.IsSpam {
		e.logger.Info("spam detected",
			"message_id", msg.ID,
			"spam_type", spamTypeString(outcome.Fraud.SpamType),
			"confidence", outcome.Fraud.Confidence)
		return outcome, nil
	}

	if outcome.Classification.Label != model.LabelFinancialTransaction {
		return outcome, nil
	}

	txn := e.extractor.Extract(msg)
	if txn.Direction == nil {
		// Labeled transactional but no money movement was recoverable.
		outcome.Discarded = true
		e.logger.Debug("discarding directionless transaction", "message_id", msg.ID)
		return outcome, nil
	}
	outcome.Transaction = &txn
	outcome.DedupKey = txn.DedupKey()

	history, err := e.storage.GetRecentTransactions(ctx, e.historyLimit)
	if err != nil {
		return outcome, fmt.Errorf("failed to load transaction history: %w", err)
	}
	outcome.Anomaly = e.detector.DetectAnomaly(txn, history)
	if outcome.Anomaly.IsAnomaly {
		e.logger.Warn("anomalous transaction",
			"message_id", msg.ID,
			"score", outcome.Anomaly.Score,
			"reasons", outcome.Anomaly.Reasons)
	}

	inserted, err := e.storage.SaveTransaction(ctx, &txn, outcome.Anomaly)
	if err != nil {
		return outcome, fmt.Errorf("failed to save transaction: %w", err)
	}
	outcome.Stored = inserted
	outcome.Duplicate = !inserted
	return outcome, nil
}

// BatchSummary aggregates per-label and per-disposition counts for one
// ingestion run.
type BatchSummary struct {
	Total        int
	ByLabel      map[model.Label]int
	Spam         int
	Transactions int
	Duplicates   int
	Discarded    int
	Anomalies    int
	Errors       int
}

// ProcessBatch ingests messages in order. Individual message failures
// are counted and logged rather than aborting the run; ctx cancellation
// does abort. The progress callback, if non-nil, is invoked after each
// message.
func (e *Engine) ProcessBatch(ctx context.Context, msgs []model.RawMessage, progress func(done int)) (BatchSummary, error) {
	summary := BatchSummary{ByLabel: make(map[model.Label]int)}

	for i, msg := range msgs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		outcome, err := e.Process(ctx, msg)
		summary.Total++
		if err != nil {
			summary.Errors++
			e.logger.Error("failed to process message", "message_id", msg.ID, "error", err)
		} else {
			summary.ByLabel[outcome.Classification.Label]++
			if outcome.Fraud.IsSpam {
				summary.Spam++
			}
			if outcome.Stored {
				summary.Transactions++
			}
			if outcome.Duplicate {
				summary.Duplicates++
			}
			if outcome.Discarded {
				summary.Discarded++
			}
			if outcome.Anomaly.IsAnomaly {
				summary.Anomalies++
			}
		}

		if progress != nil {
			progress(i + 1)
		}
	}

	return summary, nil
}

func spamTypeString(t *model.SpamType) string {
	if t == nil {
		return ""
	}
	return string(*t)
}
