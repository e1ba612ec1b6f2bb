package review

// FeedbackType classifies the developer signal attached to a suggestion.
type FeedbackType string

// FeedbackType values.
const (
	FeedbackPositive    FeedbackType = "positive_reaction"
	FeedbackNegative    FeedbackType = "negative_reaction"
	FeedbackNeutral     FeedbackType = "neutral"
	FeedbackImplemented FeedbackType = "suggestion_implemented"
)

// Positive reports whether the feedback type is an endorsement signal.
func (t FeedbackType) Positive() bool {
	return t == FeedbackPositive || t == FeedbackImplemented
}

// Negative reports whether the feedback type is a rejection signal.
func (t FeedbackType) Negative() bool {
	return t == FeedbackNegative
}

// Feedback is the raw developer reaction record for one suggestion.
type Feedback struct {
	suggestionID string
	thumbsUp     int
	thumbsDown   int
	implemented  bool
	synced       bool
}

// NewFeedback creates a Feedback record.
func NewFeedback(suggestionID string, thumbsUp, thumbsDown int, implemented bool) Feedback {
	return Feedback{
		suggestionID: suggestionID,
		thumbsUp:     thumbsUp,
		thumbsDown:   thumbsDown,
		implemented:  implemented,
	}
}

// SuggestionID returns the id of the suggestion the feedback refers to.
func (f Feedback) SuggestionID() string { return f.suggestionID }

// ThumbsUp returns the thumbs-up reaction count.
func (f Feedback) ThumbsUp() int { return f.thumbsUp }

// ThumbsDown returns the thumbs-down reaction count.
func (f Feedback) ThumbsDown() int { return f.thumbsDown }

// Implemented reports whether the suggestion was applied by the developer.
func (f Feedback) Implemented() bool { return f.implemented }

// Synced reports whether the record was already consumed by a sync pass.
func (f Feedback) Synced() bool { return f.synced }

// WithSynced returns a copy with the synced flag set.
func (f Feedback) WithSynced(synced bool) Feedback {
	f.synced = synced
	return f
}

// Classify derives the feedback type. Implementation is a stronger positive
// signal than reactions and overrides them. Ties and zero reactions carry
// no signal and classify as neutral.
func (f Feedback) Classify() FeedbackType {
	if f.implemented {
		return FeedbackImplemented
	}
	if f.thumbsUp > 0 && f.thumbsUp > f.thumbsDown {
		return FeedbackPositive
	}
	if f.thumbsDown > 0 && f.thumbsDown > f.thumbsUp {
		return FeedbackNegative
	}
	return FeedbackNeutral
}
