package service

import (
	"context"
	"sync"

	"github.com/kodustech/kody-finetune/domain/repository"
	"github.com/kodustech/kody-finetune/domain/review"
	"github.com/kodustech/kody-finetune/domain/tuning"
)

// matchSuggestion applies query conditions against suggestion fields the
// way the persistence layer would.
func matchSuggestion(s review.Suggestion, q repository.Query) bool {
	for _, cond := range q.Conditions() {
		var actual any
		switch cond.Field() {
		case "suggestion_id":
			actual = s.ID()
		case "organization_id":
			actual = s.OrganizationID()
		case "repository_id":
			actual = s.Repository().ID()
		case "language":
			actual = s.Language()
		case "pr_state":
			actual = string(s.PullRequestState())
		case "synced":
			actual = s.Synced()
		default:
			return false
		}
		if !condMatches(cond, actual) {
			return false
		}
	}
	return true
}

func matchFeedback(f review.Feedback, q repository.Query) bool {
	for _, cond := range q.Conditions() {
		var actual any
		switch cond.Field() {
		case "suggestion_id":
			actual = f.SuggestionID()
		case "synced":
			actual = f.Synced()
		default:
			return false
		}
		if !condMatches(cond, actual) {
			return false
		}
	}
	return true
}

func condMatches(cond repository.Condition, actual any) bool {
	if cond.In() {
		ids, ok := cond.Value().([]string)
		if !ok {
			return false
		}
		for _, id := range ids {
			if id == actual {
				return true
			}
		}
		return false
	}
	return cond.Value() == actual
}

type fakeSuggestionStore struct {
	suggestions []review.Suggestion
	findErr     error
}

func (f *fakeSuggestionStore) Save(_ context.Context, suggestions []review.Suggestion) error {
	f.suggestions = append(f.suggestions, suggestions...)
	return nil
}

func (f *fakeSuggestionStore) Find(_ context.Context, options ...repository.Option) ([]review.Suggestion, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	q := repository.Build(options...)
	var out []review.Suggestion
	for _, s := range f.suggestions {
		if matchSuggestion(s, q) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSuggestionStore) MarkSynced(_ context.Context, synced bool, options ...repository.Option) error {
	q := repository.Build(options...)
	for i, s := range f.suggestions {
		if matchSuggestion(s, q) {
			f.suggestions[i] = s.WithSynced(synced)
		}
	}
	return nil
}

type fakeFeedbackStore struct {
	feedback []review.Feedback
	findErr  error
}

func (f *fakeFeedbackStore) Save(_ context.Context, feedback []review.Feedback) error {
	f.feedback = append(f.feedback, feedback...)
	return nil
}

func (f *fakeFeedbackStore) Find(_ context.Context, options ...repository.Option) ([]review.Feedback, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	q := repository.Build(options...)
	var out []review.Feedback
	for _, fb := range f.feedback {
		if matchFeedback(fb, q) {
			out = append(out, fb)
		}
	}
	return out, nil
}

func (f *fakeFeedbackStore) MarkSynced(_ context.Context, synced bool, options ...repository.Option) error {
	q := repository.Build(options...)
	for i, fb := range f.feedback {
		if matchFeedback(fb, q) {
			f.feedback[i] = fb.WithSynced(synced)
		}
	}
	return nil
}

// fakeCommitter is safe for concurrent use; organization syncs fan out.
type fakeCommitter struct {
	mu       sync.Mutex
	embedded []tuning.EmbeddedSuggestion
	ids      []string
	calls    int
	err      error
}

func (f *fakeCommitter) Commit(_ context.Context, embedded []tuning.EmbeddedSuggestion, suggestionIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.embedded = append(f.embedded, embedded...)
	f.ids = append(f.ids, suggestionIDs...)
	return nil
}

// fakeEmbedder returns one vector per text via fn, or err.
type fakeEmbedder struct {
	mu    sync.Mutex
	fn    func(text string) []float64
	err   error
	calls int
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float64, len(texts))
	for i, text := range texts {
		if f.fn != nil {
			out[i] = f.fn(text)
		} else {
			out[i] = []float64{1, 0, 0}
		}
	}
	return out, nil
}

type fakeEmbeddingStore struct {
	embedded  []tuning.EmbeddedSuggestion
	findErr   error
	countErr  error
	findCalls int
}

func (f *fakeEmbeddingStore) SaveAll(_ context.Context, embedded []tuning.EmbeddedSuggestion) error {
	f.embedded = append(f.embedded, embedded...)
	return nil
}

func (f *fakeEmbeddingStore) Find(_ context.Context, options ...repository.Option) ([]tuning.EmbeddedSuggestion, error) {
	f.findCalls++
	if f.findErr != nil {
		return nil, f.findErr
	}
	q := repository.Build(options...)
	var out []tuning.EmbeddedSuggestion
	for _, e := range f.embedded {
		if matchSuggestion(e.Suggestion(), q) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEmbeddingStore) Count(_ context.Context, options ...repository.Option) (int64, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	q := repository.Build(options...)
	var n int64
	for _, e := range f.embedded {
		if matchSuggestion(e.Suggestion(), q) {
			n++
		}
	}
	return n, nil
}
