package service

import (
	"github.com/kodustech/kody-finetune/domain/tuning"
	"github.com/kodustech/kody-finetune/internal/log"
)

// Judge gates one new suggestion against a clusterized history.
//
// Uncertain is the fail-open verdict: it is returned whenever the history
// carries no usable precedent, the match is too weak, or the comparison
// cannot be trusted. The engine only discards on clear negative precedent.
type Judge struct {
	thresholds tuning.Thresholds
	logger     *log.Logger
}

// NewJudge creates a Judge.
func NewJudge(thresholds tuning.Thresholds, logger *log.Logger) Judge {
	if logger == nil {
		logger = log.Default()
	}
	return Judge{thresholds: thresholds, logger: logger}
}

// Thresholds returns the threshold set in use.
func (j Judge) Thresholds() tuning.Thresholds { return j.thresholds }

// Decide compares a new suggestion's embedding against the cluster history
// and returns the gate verdict.
func (j Judge) Decide(vector []float64, clusters []tuning.ClusterizedSuggestion) tuning.Decision {
	if len(vector) == 0 || len(clusters) == 0 {
		return tuning.DecisionUncertain
	}

	centroids := tuning.Centroids(clusters)
	if len(centroids) == 0 {
		return tuning.DecisionUncertain
	}

	matched, similarity := bestCluster(vector, centroids)
	if similarity < j.thresholds.ClusterMatch() {
		j.logger.Debug("no cluster precedent",
			"best_cluster", matched.Int(),
			"similarity", similarity,
			"threshold", j.thresholds.ClusterMatch(),
		)
		return tuning.DecisionUncertain
	}

	members := clusterMembers(clusters, matched)
	if len(members) == 0 {
		return tuning.DecisionUncertain
	}

	return j.analyzeFeedback(vector, matched, members)
}

// analyzeFeedback inspects the matched cluster's members. Unanimous
// feedback short-circuits; mixed feedback falls back to per-member
// similarity voting.
func (j Judge) analyzeFeedback(vector []float64, cluster tuning.ClusterID, members []tuning.ClusterizedSuggestion) tuning.Decision {
	allPositive := true
	allNegative := true
	for _, m := range members {
		ft := m.Embedded().FeedbackType()
		if !ft.Positive() {
			allPositive = false
		}
		if !ft.Negative() {
			allNegative = false
		}
	}

	if allPositive {
		return tuning.DecisionKeep
	}
	if allNegative {
		return tuning.DecisionDiscard
	}

	var keepVotes, discardVotes int
	for _, m := range members {
		sim := tuning.CosineSimilarity(vector, m.Embedded().Vector())
		ft := m.Embedded().FeedbackType()
		if ft.Positive() && sim >= j.thresholds.Positive() {
			keepVotes++
		}
		if ft.Negative() && sim >= j.thresholds.Negative() {
			discardVotes++
		}
	}

	j.logger.Debug("mixed-feedback cluster vote",
		"cluster", cluster.Int(),
		"members", len(members),
		"keep_votes", keepVotes,
		"discard_votes", discardVotes,
	)

	// Ties and zero-vote outcomes resolve to Uncertain, never Discard.
	switch {
	case keepVotes > discardVotes && keepVotes > 0:
		return tuning.DecisionKeep
	case discardVotes > keepVotes && discardVotes > 0:
		return tuning.DecisionDiscard
	default:
		return tuning.DecisionUncertain
	}
}

// bestCluster returns the centroid with the highest cosine similarity to
// the vector.
func bestCluster(vector []float64, centroids map[tuning.ClusterID][]float64) (tuning.ClusterID, float64) {
	best := tuning.ClusterID(-1)
	bestSim := -2.0
	for id, centroid := range centroids {
		sim := tuning.CosineSimilarity(vector, centroid)
		if sim > bestSim {
			best = id
			bestSim = sim
		}
	}
	return best, bestSim
}

func clusterMembers(clusters []tuning.ClusterizedSuggestion, id tuning.ClusterID) []tuning.ClusterizedSuggestion {
	var members []tuning.ClusterizedSuggestion
	for _, c := range clusters {
		if c.Cluster() == id {
			members = append(members, c)
		}
	}
	return members
}
