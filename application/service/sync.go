package service

import (
	"context"
	"fmt"

	"github.com/kodustech/kody-finetune/domain/repository"
	"github.com/kodustech/kody-finetune/domain/review"
	"github.com/kodustech/kody-finetune/domain/tuning"
	"github.com/kodustech/kody-finetune/internal/log"
	"golang.org/x/sync/errgroup"
)

// SyncResult summarizes one repository sync pass.
type SyncResult struct {
	fetched  int
	embedded int
	neutral  int
	excluded int
}

// Fetched returns the number of unsynced suggestions fetched.
func (r SyncResult) Fetched() int { return r.fetched }

// Embedded returns the number of suggestions embedded and persisted.
func (r SyncResult) Embedded() int { return r.embedded }

// Neutral returns the number of suggestions dropped for carrying no signal.
func (r SyncResult) Neutral() int { return r.neutral }

// Excluded returns the number of suggestions dropped by label.
func (r SyncResult) Excluded() int { return r.excluded }

// Sync pulls closed-PR suggestions and their feedback into the embedding
// store. Failures are logged and produce an empty result; a sync pass never
// propagates an error to the review pipeline.
type Sync struct {
	suggestions review.SuggestionStore
	feedback    review.FeedbackStore
	committer   tuning.SyncCommitter
	embedder    tuning.Embedder
	prState     review.PullRequestState
	logger      *log.Logger
}

// SyncOption is a functional option for Sync.
type SyncOption func(*Sync)

// WithPullRequestState sets the PR state suggestions must be in to sync.
func WithPullRequestState(state review.PullRequestState) SyncOption {
	return func(s *Sync) { s.prState = state }
}

// WithSyncLogger sets the logger.
func WithSyncLogger(logger *log.Logger) SyncOption {
	return func(s *Sync) { s.logger = logger }
}

// NewSync creates a Sync service.
func NewSync(
	suggestions review.SuggestionStore,
	feedback review.FeedbackStore,
	committer tuning.SyncCommitter,
	embedder tuning.Embedder,
	opts ...SyncOption,
) *Sync {
	s := &Sync{
		suggestions: suggestions,
		feedback:    feedback,
		committer:   committer,
		embedder:    embedder,
		prState:     review.PullRequestClosed,
		logger:      log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SyncRepository syncs one (organization, repository) pair. Errors are
// logged with context and yield an empty result.
func (s *Sync) SyncRepository(ctx context.Context, organizationID, repositoryID string) SyncResult {
	result, err := s.syncRepository(ctx, organizationID, repositoryID)
	if err != nil {
		s.logger.ErrorContext(ctx, "sync failed",
			"organization_id", organizationID,
			"repository_id", repositoryID,
			"error", err,
		)
		return SyncResult{}
	}
	return result
}

// SyncOrganization syncs several repositories of one organization
// concurrently. Repositories are disjoint partitions, so the fan-out is
// safe; each repository fails independently.
func (s *Sync) SyncOrganization(ctx context.Context, organizationID string, repositoryIDs []string) map[string]SyncResult {
	results := make([]SyncResult, len(repositoryIDs))

	g, gctx := errgroup.WithContext(ctx)
	for i, repoID := range repositoryIDs {
		g.Go(func() error {
			results[i] = s.SyncRepository(gctx, organizationID, repoID)
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]SyncResult, len(repositoryIDs))
	for i, repoID := range repositoryIDs {
		out[repoID] = results[i]
	}
	return out
}

func (s *Sync) syncRepository(ctx context.Context, organizationID, repositoryID string) (SyncResult, error) {
	suggestions, err := s.suggestions.Find(ctx,
		repository.WithOrganizationID(organizationID),
		repository.WithRepositoryID(repositoryID),
		repository.WithPullRequestState(string(s.prState)),
		repository.WithSynced(false),
	)
	if err != nil {
		return SyncResult{}, fmt.Errorf("find suggestions: %w", err)
	}

	if len(suggestions) == 0 {
		return SyncResult{}, nil
	}

	suggestions = dedupe(suggestions)
	result := SyncResult{fetched: len(suggestions)}

	ids := make([]string, len(suggestions))
	for i, sg := range suggestions {
		ids[i] = sg.ID()
	}

	feedback, err := s.feedback.Find(ctx,
		repository.WithSuggestionIDIn(ids),
		repository.WithSynced(false),
	)
	if err != nil {
		return SyncResult{}, fmt.Errorf("find feedback: %w", err)
	}

	byID := make(map[string]review.Feedback, len(feedback))
	for _, f := range feedback {
		byID[f.SuggestionID()] = f
	}

	var survivors []review.Suggestion
	var types []review.FeedbackType
	for _, sg := range suggestions {
		kind := byID[sg.ID()].Classify()
		if kind == review.FeedbackNeutral {
			result.neutral++
			continue
		}

		normalized := sg.Normalized()
		if normalized.Excluded() {
			result.excluded++
			continue
		}

		survivors = append(survivors, normalized)
		types = append(types, kind)
	}

	embedded, err := s.embed(ctx, survivors, types)
	if err != nil {
		return SyncResult{}, err
	}

	if err := s.committer.Commit(ctx, embedded, ids); err != nil {
		return SyncResult{}, fmt.Errorf("commit sync: %w", err)
	}

	result.embedded = len(embedded)
	s.logger.InfoContext(ctx, "repository synced",
		"organization_id", organizationID,
		"repository_id", repositoryID,
		"fetched", result.fetched,
		"embedded", result.embedded,
		"neutral", result.neutral,
		"excluded", result.excluded,
	)
	return result, nil
}

func (s *Sync) embed(ctx context.Context, survivors []review.Suggestion, types []review.FeedbackType) ([]tuning.EmbeddedSuggestion, error) {
	if len(survivors) == 0 {
		return nil, nil
	}

	texts := make([]string, len(survivors))
	for i, sg := range survivors {
		texts[i] = sg.Content()
	}

	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed suggestions: %w", err)
	}
	if len(vectors) != len(survivors) {
		return nil, fmt.Errorf("embed suggestions: got %d vectors for %d texts", len(vectors), len(survivors))
	}

	embedded := make([]tuning.EmbeddedSuggestion, len(survivors))
	for i, sg := range survivors {
		embedded[i] = tuning.NewEmbeddedSuggestion(sg, types[i], vectors[i])
	}
	return embedded, nil
}

// dedupe drops duplicate suggestion ids, keeping the first occurrence.
func dedupe(suggestions []review.Suggestion) []review.Suggestion {
	seen := make(map[string]struct{}, len(suggestions))
	out := suggestions[:0:0]
	for _, sg := range suggestions {
		if _, ok := seen[sg.ID()]; ok {
			continue
		}
		seen[sg.ID()] = struct{}{}
		out = append(out, sg)
	}
	return out
}
