package repository

// Typed options for the columns shared by the suggestion, feedback, and
// embedding tables.

// WithSuggestionID filters by the "suggestion_id" column.
func WithSuggestionID(id string) Option {
	return WithCondition("suggestion_id", id)
}

// WithSuggestionIDIn filters by the "suggestion_id" column using IN.
func WithSuggestionIDIn(ids []string) Option {
	return WithConditionIn("suggestion_id", ids)
}

// WithOrganizationID filters by the "organization_id" column.
func WithOrganizationID(id string) Option {
	return WithCondition("organization_id", id)
}

// WithRepositoryID filters by the "repository_id" column.
func WithRepositoryID(id string) Option {
	return WithCondition("repository_id", id)
}

// WithLanguage filters by the "language" column.
func WithLanguage(language string) Option {
	return WithCondition("language", language)
}

// WithPullRequestNumber filters by the "pr_number" column.
func WithPullRequestNumber(n int) Option {
	return WithCondition("pr_number", n)
}

// WithPullRequestState filters by the "pr_state" column.
func WithPullRequestState(state string) Option {
	return WithCondition("pr_state", state)
}

// WithSynced filters by the "synced" column.
func WithSynced(synced bool) Option {
	return WithCondition("synced", synced)
}
