package service

import (
	"context"
	"fmt"

	"github.com/kodustech/kody-finetune/domain/repository"
	"github.com/kodustech/kody-finetune/domain/review"
	domainservice "github.com/kodustech/kody-finetune/domain/service"
	"github.com/kodustech/kody-finetune/domain/tuning"
	"github.com/kodustech/kody-finetune/internal/log"
)

// AnalysisResult partitions a batch of new suggestions into kept and
// discarded, with the per-suggestion decision.
type AnalysisResult struct {
	kept      []review.Suggestion
	discarded []review.Suggestion
	decisions map[string]tuning.Decision
}

// Kept returns the suggestions to deliver (keep and uncertain decisions).
func (r AnalysisResult) Kept() []review.Suggestion {
	out := make([]review.Suggestion, len(r.kept))
	copy(out, r.kept)
	return out
}

// Discarded returns the suppressed suggestions.
func (r AnalysisResult) Discarded() []review.Suggestion {
	out := make([]review.Suggestion, len(r.discarded))
	copy(out, r.discarded)
	return out
}

// Decision returns the decision recorded for a suggestion id.
func (r AnalysisResult) Decision(id string) (tuning.Decision, bool) {
	d, ok := r.decisions[id]
	return d, ok
}

// keepAll builds the fail-open result: every suggestion delivered.
func keepAll(suggestions []review.Suggestion) AnalysisResult {
	result := AnalysisResult{
		kept:      make([]review.Suggestion, len(suggestions)),
		decisions: make(map[string]tuning.Decision, len(suggestions)),
	}
	copy(result.kept, suggestions)
	for _, sg := range suggestions {
		result.decisions[sg.ID()] = tuning.DecisionKeep
	}
	return result
}

// poolKey identifies a cluster pool within one analysis batch.
type poolKey struct {
	organizationID string
	repositoryID   string
	language       string
}

// Analysis gates new suggestions against the clustered feedback history.
// Every failure path keeps the suggestion; this engine may suppress noise
// but must never silence a review by accident.
type Analysis struct {
	embeddings tuning.EmbeddingStore
	embedder   tuning.Embedder
	clusterer  domainservice.Clusterer
	judge      domainservice.Judge
	logger     *log.Logger
}

// AnalysisOption is a functional option for Analysis.
type AnalysisOption func(*Analysis)

// WithAnalysisLogger sets the logger.
func WithAnalysisLogger(logger *log.Logger) AnalysisOption {
	return func(a *Analysis) { a.logger = logger }
}

// NewAnalysis creates an Analysis service.
func NewAnalysis(
	embeddings tuning.EmbeddingStore,
	embedder tuning.Embedder,
	clusterer domainservice.Clusterer,
	thresholds tuning.Thresholds,
	opts ...AnalysisOption,
) *Analysis {
	a := &Analysis{
		embeddings: embeddings,
		embedder:   embedder,
		clusterer:  clusterer,
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.judge = domainservice.NewJudge(thresholds, a.logger)
	return a
}

// ResolveScope selects the historical pool for a suggestion: repository
// history when the repository alone has enough samples, organization-wide
// history otherwise, none when even that is too small. Store failures
// resolve to ScopeNone (fail open).
func (a *Analysis) ResolveScope(ctx context.Context, organizationID, repositoryID, language string) tuning.Scope {
	repoCount, err := a.embeddings.Count(ctx,
		repository.WithOrganizationID(organizationID),
		repository.WithRepositoryID(repositoryID),
		repository.WithLanguage(language),
	)
	if err != nil {
		a.logger.ErrorContext(ctx, "count repository embeddings failed",
			"organization_id", organizationID,
			"repository_id", repositoryID,
			"error", err,
		)
		return tuning.ScopeNone
	}
	if repoCount >= tuning.MinSampleSize {
		return tuning.ScopeRepository
	}

	globalCount, err := a.embeddings.Count(ctx,
		repository.WithOrganizationID(organizationID),
		repository.WithLanguage(language),
	)
	if err != nil {
		a.logger.ErrorContext(ctx, "count organization embeddings failed",
			"organization_id", organizationID,
			"error", err,
		)
		return tuning.ScopeNone
	}
	if globalCount >= tuning.MinSampleSize {
		return tuning.ScopeGlobal
	}

	return tuning.ScopeNone
}

// Run gates a batch of new suggestions. Each suggestion is embedded and
// compared against the clustered pool for its scope and language; pools are
// re-clustered per language because quality signals do not transfer across
// languages. Clustering is cached within the batch per (organization,
// repository, language).
func (a *Analysis) Run(ctx context.Context, suggestions []review.Suggestion) AnalysisResult {
	if len(suggestions) == 0 {
		return AnalysisResult{decisions: map[string]tuning.Decision{}}
	}

	vectors, err := a.embedBatch(ctx, suggestions)
	if err != nil {
		a.logger.ErrorContext(ctx, "embedding batch failed, keeping all suggestions", "error", err)
		return keepAll(suggestions)
	}

	result := AnalysisResult{decisions: make(map[string]tuning.Decision, len(suggestions))}
	pools := make(map[poolKey]tuning.ClusterOutcome)

	for i, sg := range suggestions {
		decision := a.decide(ctx, sg, vectors[i], pools)
		result.decisions[sg.ID()] = decision
		if decision.Kept() {
			result.kept = append(result.kept, sg)
		} else {
			result.discarded = append(result.discarded, sg)
		}
	}

	a.logger.InfoContext(ctx, "analysis finished",
		"total", len(suggestions),
		"kept", len(result.kept),
		"discarded", len(result.discarded),
	)
	return result
}

func (a *Analysis) embedBatch(ctx context.Context, suggestions []review.Suggestion) ([][]float64, error) {
	texts := make([]string, len(suggestions))
	for i, sg := range suggestions {
		texts[i] = sg.Normalized().Content()
	}

	vectors, err := a.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(suggestions) {
		return nil, fmt.Errorf("got %d vectors for %d suggestions", len(vectors), len(suggestions))
	}
	return vectors, nil
}

// decide gates one suggestion. Everything that prevents a confident
// comparison keeps the suggestion.
func (a *Analysis) decide(ctx context.Context, sg review.Suggestion, vector []float64, pools map[poolKey]tuning.ClusterOutcome) tuning.Decision {
	scope := a.ResolveScope(ctx, sg.OrganizationID(), sg.Repository().ID(), sg.Language())
	if !scope.Enabled() {
		return tuning.DecisionKeep
	}

	outcome := a.clusteredPool(ctx, sg, scope, pools)
	if !outcome.Usable() {
		return tuning.DecisionKeep
	}

	return a.judge.Decide(vector, outcome.Clusters())
}

// clusteredPool fetches and clusters the historical pool for the scope,
// memoized per (organization, repository, language) within the batch.
func (a *Analysis) clusteredPool(ctx context.Context, sg review.Suggestion, scope tuning.Scope, pools map[poolKey]tuning.ClusterOutcome) tuning.ClusterOutcome {
	key := poolKey{
		organizationID: sg.OrganizationID(),
		language:       sg.Language(),
	}
	options := []repository.Option{
		repository.WithOrganizationID(sg.OrganizationID()),
		repository.WithLanguage(sg.Language()),
	}
	if scope == tuning.ScopeRepository {
		key.repositoryID = sg.Repository().ID()
		options = append(options, repository.WithRepositoryID(sg.Repository().ID()))
	}

	if outcome, ok := pools[key]; ok {
		return outcome
	}

	pool, err := a.embeddings.Find(ctx, options...)
	if err != nil {
		a.logger.ErrorContext(ctx, "load embedding pool failed",
			"organization_id", sg.OrganizationID(),
			"repository_id", key.repositoryID,
			"language", sg.Language(),
			"error", err,
		)
		outcome := tuning.FailedOutcome(err)
		pools[key] = outcome
		return outcome
	}

	// Below the sample floor clustering is too noisy to act on.
	if len(pool) < tuning.MinSampleSize {
		outcome := tuning.NoDataOutcome()
		pools[key] = outcome
		return outcome
	}

	outcome := a.clusterer.Cluster(pool)
	if outcome.State() == tuning.OutcomeFailed {
		a.logger.ErrorContext(ctx, "clustering failed, keeping affected suggestions",
			"organization_id", sg.OrganizationID(),
			"language", sg.Language(),
			"error", outcome.Err(),
		)
	}
	pools[key] = outcome
	return outcome
}
