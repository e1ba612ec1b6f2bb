package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodustech/kody-finetune/domain/review"
	"github.com/kodustech/kody-finetune/domain/tuning"
)

func embed(id string, ft review.FeedbackType, vector []float64) tuning.EmbeddedSuggestion {
	repo := review.NewRepositoryRef("repo-1", "kodus/api")
	s := review.NewSuggestion(id, "org-1", repo, 1, "go", "content "+id, "code_style", "medium")
	return tuning.NewEmbeddedSuggestion(s, ft, vector)
}

// groups builds n copies of each base vector, one embedded suggestion per copy.
func groups(n int, bases ...[]float64) []tuning.EmbeddedSuggestion {
	var out []tuning.EmbeddedSuggestion
	for g, base := range bases {
		for i := 0; i < n; i++ {
			id := string(rune('a'+g)) + "-" + string(rune('0'+i))
			out = append(out, embed(id, review.FeedbackPositive, base))
		}
	}
	return out
}

func TestKMeans_EmptyInput(t *testing.T) {
	km := NewKMeans(tuning.NewThresholds())
	outcome := km.Cluster(nil)
	assert.Equal(t, tuning.OutcomeNoData, outcome.State())
}

func TestKMeans_ZeroDimensionalFails(t *testing.T) {
	km := NewKMeans(tuning.NewThresholds())
	outcome := km.Cluster([]tuning.EmbeddedSuggestion{
		embed("s1", review.FeedbackPositive, nil),
	})
	assert.Equal(t, tuning.OutcomeFailed, outcome.State())
	assert.Error(t, outcome.Err())
}

func TestKMeans_DimensionMismatchFails(t *testing.T) {
	km := NewKMeans(tuning.NewThresholds())
	outcome := km.Cluster([]tuning.EmbeddedSuggestion{
		embed("s1", review.FeedbackPositive, []float64{1, 0, 0}),
		embed("s2", review.FeedbackPositive, []float64{1, 0}),
	})
	assert.Equal(t, tuning.OutcomeFailed, outcome.State())
	assert.Error(t, outcome.Err())
}

func TestKMeans_FewerSamplesThanClusters(t *testing.T) {
	// Divisor 1 asks for one cluster per sample; every vector stands alone.
	th := tuning.NewThresholds().WithClusterDivisor(1).WithMaxClusters(100)
	km := NewKMeans(th, WithSeed(1))

	outcome := km.Cluster([]tuning.EmbeddedSuggestion{
		embed("s1", review.FeedbackPositive, []float64{1, 0}),
		embed("s2", review.FeedbackNegative, []float64{0, 1}),
		embed("s3", review.FeedbackPositive, []float64{1, 1}),
	})
	require.Equal(t, tuning.OutcomeClustered, outcome.State())

	seen := map[tuning.ClusterID]bool{}
	for _, c := range outcome.Clusters() {
		seen[c.Cluster()] = true
	}
	assert.Len(t, seen, 3)
}

func TestKMeans_SeparatesDistinctGroups(t *testing.T) {
	// Three groups of ten identical vectors each: 30 samples, divisor 10,
	// so k = 3 and every group should land in its own cluster.
	input := groups(10,
		[]float64{1, 0, 0},
		[]float64{0, 1, 0},
		[]float64{0, 0, 1},
	)
	km := NewKMeans(tuning.NewThresholds(), WithSeed(7))

	outcome := km.Cluster(input)
	require.Equal(t, tuning.OutcomeClustered, outcome.State())
	require.Len(t, outcome.Clusters(), 30)

	groupCluster := map[byte]tuning.ClusterID{}
	for _, c := range outcome.Clusters() {
		group := c.Embedded().Suggestion().ID()[0]
		id := c.Cluster()
		assert.GreaterOrEqual(t, id.Int(), 0)
		assert.Less(t, id.Int(), 3)
		if prev, ok := groupCluster[group]; ok {
			assert.Equal(t, prev, id, "group %c split across clusters", group)
		} else {
			groupCluster[group] = id
		}
	}

	distinct := map[tuning.ClusterID]bool{}
	for _, id := range groupCluster {
		distinct[id] = true
	}
	assert.Len(t, distinct, 3)
}

func TestKMeans_SeededRunsAreDeterministic(t *testing.T) {
	input := groups(10,
		[]float64{1, 0, 0},
		[]float64{0.9, 0.1, 0},
		[]float64{0, 0, 1},
	)

	first := NewKMeans(tuning.NewThresholds(), WithSeed(42)).Cluster(input)
	second := NewKMeans(tuning.NewThresholds(), WithSeed(42)).Cluster(input)

	require.Equal(t, tuning.OutcomeClustered, first.State())
	require.Equal(t, tuning.OutcomeClustered, second.State())

	a, b := first.Clusters(), second.Clusters()
	require.Len(t, b, len(a))
	for i := range a {
		assert.Equal(t, a[i].Cluster(), b[i].Cluster())
	}
}
