// Package classify routes messages through the rule-based labeler and,
// for low-confidence results, an externally trained statistical model.
package classify

import (
	"context"
	"log/slog"

	"github.com/kalyanig/paisa-trail/internal/labeler"
	"github.com/kalyanig/paisa-trail/internal/model"
	"github.com/kalyanig/paisa-trail/internal/patterns"
)

// ConfidenceThreshold is the rule confidence below which the trained
// model is consulted. Contractual constant.
const ConfidenceThreshold = 0.65

// Prediction is the trained model's answer: a broad label only, never a
// sub-label.
type Prediction struct {
	Label      model.Label
	Confidence float64
}

// TrainedClassifier is the narrow interface to an already-trained
// statistical model. The core has no knowledge of how it was produced.
// Predict may block; implementations must honor ctx cancellation.
type TrainedClassifier interface {
	Predict(ctx context.Context, features FeatureVector) (Prediction, error)
}

// Router orchestrates the labeler and the trained model. The rule
// result always runs first and always survives a model failure:
// classification must never fail ingestion because the model is down.
type Router struct {
	labeler  *labeler.Labeler
	features *FeatureExtractor
	model    TrainedClassifier
	logger   *slog.Logger
}

// NewRouter creates a router. The model may be nil, in which case every
// result is rule-based.
func NewRouter(lib *patterns.Library, trained TrainedClassifier, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		labeler:  labeler.New(lib),
		features: NewFeatureExtractor(lib),
		model:    trained,
		logger:   logger,
	}
}

// Classify labels one message. If the rule confidence reaches the
// threshold the rule result is returned unchanged; otherwise the model
// is consulted once, and its label is accepted only when its confidence
// beats the rule's. The rule-based sub-label is always kept: the model
// predicts broad labels only.
func (r *Router) Classify(ctx context.Context, body, sender string) model.ClassificationResult {
	result := r.labeler.Label(body, sender)
	if result.Confidence >= ConfidenceThreshold || r.model == nil {
		return result
	}

	prediction, err := r.model.Predict(ctx, r.features.Extract(body, sender))
	if err != nil {
		// Degrade silently to the rule result.
		r.logger.Debug("trained model unavailable, keeping rule result",
			"error", err,
			"rule_label", result.Label,
			"rule_confidence", result.Confidence)
		return result
	}

	if prediction.Confidence > result.Confidence {
		result.Label = prediction.Label
		result.Confidence = prediction.Confidence
		result.Method = model.MethodStatistical
	}
	return result
}
