package persistence

import "github.com/kodustech/kody-finetune/domain/review"

// SuggestionModel is the GORM model for code-review suggestions.
type SuggestionModel struct {
	SuggestionID   string `gorm:"column:suggestion_id;primaryKey"`
	OrganizationID string `gorm:"column:organization_id;index:idx_suggestions_org_repo"`
	RepositoryID   string `gorm:"column:repository_id;index:idx_suggestions_org_repo"`
	RepositoryName string `gorm:"column:repository_name"`
	PRNumber       int    `gorm:"column:pr_number"`
	PRState        string `gorm:"column:pr_state;index"`
	Language       string `gorm:"column:language"`
	Content        string `gorm:"column:content"`
	Label          string `gorm:"column:label"`
	Severity       string `gorm:"column:severity"`
	Synced         bool   `gorm:"column:synced;index"`
}

// TableName sets the table name for SuggestionModel.
func (SuggestionModel) TableName() string { return "suggestions" }

type suggestionMapper struct{}

func (suggestionMapper) ToDomain(entity SuggestionModel) review.Suggestion {
	repo := review.NewRepositoryRef(entity.RepositoryID, entity.RepositoryName)
	s := review.NewSuggestion(
		entity.SuggestionID,
		entity.OrganizationID,
		repo,
		entity.PRNumber,
		entity.Language,
		entity.Content,
		entity.Label,
		entity.Severity,
	)
	return s.
		WithPullRequestState(review.PullRequestState(entity.PRState)).
		WithSynced(entity.Synced)
}

func (suggestionMapper) ToModel(domain review.Suggestion) SuggestionModel {
	return SuggestionModel{
		SuggestionID:   domain.ID(),
		OrganizationID: domain.OrganizationID(),
		RepositoryID:   domain.Repository().ID(),
		RepositoryName: domain.Repository().FullName(),
		PRNumber:       domain.PullRequestNumber(),
		PRState:        string(domain.PullRequestState()),
		Language:       domain.Language(),
		Content:        domain.Content(),
		Label:          domain.Label(),
		Severity:       domain.Severity(),
		Synced:         domain.Synced(),
	}
}

// FeedbackModel is the GORM model for raw developer reactions.
type FeedbackModel struct {
	SuggestionID string `gorm:"column:suggestion_id;primaryKey"`
	ThumbsUp     int    `gorm:"column:thumbs_up"`
	ThumbsDown   int    `gorm:"column:thumbs_down"`
	Implemented  bool   `gorm:"column:implemented"`
	Synced       bool   `gorm:"column:synced;index"`
}

// TableName sets the table name for FeedbackModel.
func (FeedbackModel) TableName() string { return "suggestion_feedback" }

type feedbackMapper struct{}

func (feedbackMapper) ToDomain(entity FeedbackModel) review.Feedback {
	f := review.NewFeedback(entity.SuggestionID, entity.ThumbsUp, entity.ThumbsDown, entity.Implemented)
	return f.WithSynced(entity.Synced)
}

func (feedbackMapper) ToModel(domain review.Feedback) FeedbackModel {
	return FeedbackModel{
		SuggestionID: domain.SuggestionID(),
		ThumbsUp:     domain.ThumbsUp(),
		ThumbsDown:   domain.ThumbsDown(),
		Implemented:  domain.Implemented(),
		Synced:       domain.Synced(),
	}
}
