package tuning

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kodustech/kody-finetune/domain/review"
)

func embedded(id string, ft review.FeedbackType, vector []float64) EmbeddedSuggestion {
	repo := review.NewRepositoryRef("repo-1", "kodus/api")
	s := review.NewSuggestion(id, "org-1", repo, 1, "go", "content "+id, "code_style", "medium")
	return NewEmbeddedSuggestion(s, ft, vector)
}

func TestCosineSimilarity_Identical(t *testing.T) {
	v := []float64{0.3, -0.5, 0.8}
	assert.InDelta(t, 1.0, CosineSimilarity(v, v), 1e-9)
}

func TestCosineSimilarity_Opposite(t *testing.T) {
	a := []float64{0.3, -0.5, 0.8}
	b := []float64{-0.3, 0.5, -0.8}
	assert.InDelta(t, -1.0, CosineSimilarity(a, b), 1e-9)
}

func TestCosineSimilarity_Orthogonal(t *testing.T) {
	a := []float64{1, 0, 0}
	b := []float64{0, 1, 0}
	assert.InDelta(t, 0.0, CosineSimilarity(a, b), 1e-9)
}

func TestCosineSimilarity_ZeroMagnitude(t *testing.T) {
	a := []float64{0, 0, 0}
	b := []float64{1, 2, 3}
	assert.Equal(t, 0.0, CosineSimilarity(a, b))
	assert.Equal(t, 0.0, CosineSimilarity(b, a))
}

func TestCosineSimilarity_LengthMismatch(t *testing.T) {
	a := []float64{1, 2}
	b := []float64{1, 2, 3}
	assert.Equal(t, 0.0, CosineSimilarity(a, b))
	assert.Equal(t, 0.0, CosineSimilarity(nil, nil))
}

func TestCentroids_SingleMemberIsIdentity(t *testing.T) {
	vec := []float64{0.1, 0.2, 0.3}
	clusters := []ClusterizedSuggestion{
		NewClusterizedSuggestion(embedded("s1", review.FeedbackPositive, vec), 0),
	}

	centroids := Centroids(clusters)
	assert.Len(t, centroids, 1)
	assert.Equal(t, vec, centroids[0])
}

func TestCentroids_MeanPerCluster(t *testing.T) {
	clusters := []ClusterizedSuggestion{
		NewClusterizedSuggestion(embedded("s1", review.FeedbackPositive, []float64{1, 0}), 0),
		NewClusterizedSuggestion(embedded("s2", review.FeedbackPositive, []float64{0, 1}), 0),
		NewClusterizedSuggestion(embedded("s3", review.FeedbackNegative, []float64{4, 4}), 1),
	}

	centroids := Centroids(clusters)
	assert.Len(t, centroids, 2)
	assert.Equal(t, []float64{0.5, 0.5}, centroids[0])
	assert.Equal(t, []float64{4, 4}, centroids[1])
}

func TestCentroids_Empty(t *testing.T) {
	assert.Empty(t, Centroids(nil))
}
