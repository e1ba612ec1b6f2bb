// Package review holds the code-review suggestion and feedback domain model.
package review

// PullRequestState is the lifecycle state of the pull request a suggestion
// belongs to.
type PullRequestState string

// PullRequestState values.
const (
	PullRequestOpen   PullRequestState = "open"
	PullRequestClosed PullRequestState = "closed"
	PullRequestMerged PullRequestState = "merged"
)

// Labels excluded from fine-tuning. Suggestions in these categories are
// governed by their own rule engines and must not influence the general
// feedback signal.
const (
	LabelKodyRules       = "kody_rules"
	LabelBreakingChanges = "breaking_changes"
)

// RepositoryRef identifies a git repository on the hosting platform.
type RepositoryRef struct {
	id       string
	fullName string
}

// NewRepositoryRef creates a RepositoryRef.
func NewRepositoryRef(id, fullName string) RepositoryRef {
	return RepositoryRef{id: id, fullName: fullName}
}

// ID returns the platform repository id.
func (r RepositoryRef) ID() string { return r.id }

// FullName returns the "owner/name" repository slug.
func (r RepositoryRef) FullName() string { return r.fullName }

// Suggestion is a single code-review suggestion as stored by the review
// pipeline. Immutable; mutating accessors return copies.
type Suggestion struct {
	id             string
	organizationID string
	repository     RepositoryRef
	prNumber       int
	prState        PullRequestState
	language       string
	content        string
	label          string
	severity       string
	synced         bool
}

// NewSuggestion creates a Suggestion.
func NewSuggestion(id, organizationID string, repo RepositoryRef, prNumber int, language, content, label, severity string) Suggestion {
	return Suggestion{
		id:             id,
		organizationID: organizationID,
		repository:     repo,
		prNumber:       prNumber,
		prState:        PullRequestOpen,
		language:       language,
		content:        content,
		label:          label,
		severity:       severity,
	}
}

// ID returns the suggestion id.
func (s Suggestion) ID() string { return s.id }

// OrganizationID returns the owning organization id.
func (s Suggestion) OrganizationID() string { return s.organizationID }

// Repository returns the repository reference.
func (s Suggestion) Repository() RepositoryRef { return s.repository }

// PullRequestNumber returns the pull request number.
func (s Suggestion) PullRequestNumber() int { return s.prNumber }

// PullRequestState returns the pull request state.
func (s Suggestion) PullRequestState() PullRequestState { return s.prState }

// Language returns the programming language tag.
func (s Suggestion) Language() string { return s.language }

// Content returns the suggestion text.
func (s Suggestion) Content() string { return s.content }

// Label returns the suggestion category label.
func (s Suggestion) Label() string { return s.label }

// Severity returns the severity text.
func (s Suggestion) Severity() string { return s.severity }

// Synced reports whether the record was already consumed by a sync pass.
func (s Suggestion) Synced() bool { return s.synced }

// WithPullRequestState returns a copy with the given pull request state.
func (s Suggestion) WithPullRequestState(state PullRequestState) Suggestion {
	s.prState = state
	return s
}

// WithSynced returns a copy with the synced flag set.
func (s Suggestion) WithSynced(synced bool) Suggestion {
	s.synced = synced
	return s
}

// Normalized returns a copy with content, label, and severity canonicalized
// for embedding and comparison.
func (s Suggestion) Normalized() Suggestion {
	s.content = Normalize(s.content)
	s.label = Normalize(s.label)
	s.severity = Normalize(s.severity)
	return s
}

// Excluded reports whether the suggestion's label places it outside the
// fine-tuning signal.
func (s Suggestion) Excluded() bool {
	return s.label == LabelKodyRules || s.label == LabelBreakingChanges
}
