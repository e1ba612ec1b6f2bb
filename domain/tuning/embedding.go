// Package tuning holds the fine-tuning domain model: embedded suggestions,
// clusters, similarity math, thresholds, and decisions.
package tuning

import (
	"context"

	"github.com/kodustech/kody-finetune/domain/review"
)

// Embedder converts normalized suggestion text into embedding vectors.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// EmbeddedSuggestion is a suggestion with its embedding vector and derived
// feedback type. Immutable once created; re-embedding only happens when
// content changes upstream.
type EmbeddedSuggestion struct {
	suggestion review.Suggestion
	feedback   review.FeedbackType
	vector     []float64
}

// NewEmbeddedSuggestion creates an EmbeddedSuggestion. The vector is copied.
func NewEmbeddedSuggestion(suggestion review.Suggestion, feedback review.FeedbackType, vector []float64) EmbeddedSuggestion {
	vec := make([]float64, len(vector))
	copy(vec, vector)
	return EmbeddedSuggestion{
		suggestion: suggestion,
		feedback:   feedback,
		vector:     vec,
	}
}

// Suggestion returns the underlying suggestion.
func (e EmbeddedSuggestion) Suggestion() review.Suggestion { return e.suggestion }

// FeedbackType returns the derived feedback classification.
func (e EmbeddedSuggestion) FeedbackType() review.FeedbackType { return e.feedback }

// Vector returns the embedding vector (copy).
func (e EmbeddedSuggestion) Vector() []float64 {
	result := make([]float64, len(e.vector))
	copy(result, e.vector)
	return result
}

// vectorRef returns the embedding without copying, for package-internal math.
func (e EmbeddedSuggestion) vectorRef() []float64 { return e.vector }

// Dimension returns the embedding dimensionality.
func (e EmbeddedSuggestion) Dimension() int { return len(e.vector) }
