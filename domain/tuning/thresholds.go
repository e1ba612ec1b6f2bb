package tuning

// Default threshold values. Loaded once per decision run from external
// configuration; absent keys fall back to these constants.
const (
	DefaultPositiveThreshold     = 0.65
	DefaultNegativeThreshold     = 0.65
	DefaultClusterMatchThreshold = 0.5
	DefaultMaxClusters           = 5
	DefaultClusterDivisor        = 10
	DefaultIterations            = 1

	// MinSampleSize is the fixed policy floor below which clustering is too
	// noisy to act on. Not configurable.
	MinSampleSize = 50
)

// Thresholds is the immutable tunable-parameter set for one decision run.
type Thresholds struct {
	positive       float64
	negative       float64
	clusterMatch   float64
	maxClusters    int
	clusterDivisor int
	iterations     int
}

// NewThresholds creates Thresholds with the default values.
func NewThresholds() Thresholds {
	return Thresholds{
		positive:       DefaultPositiveThreshold,
		negative:       DefaultNegativeThreshold,
		clusterMatch:   DefaultClusterMatchThreshold,
		maxClusters:    DefaultMaxClusters,
		clusterDivisor: DefaultClusterDivisor,
		iterations:     DefaultIterations,
	}
}

// Positive returns the similarity floor for a positive member to cast a
// keep vote.
func (t Thresholds) Positive() float64 { return t.positive }

// Negative returns the similarity floor for a negative member to cast a
// discard vote.
func (t Thresholds) Negative() float64 { return t.negative }

// ClusterMatch returns the minimum centroid similarity for a cluster to
// count as precedent.
func (t Thresholds) ClusterMatch() float64 { return t.clusterMatch }

// MaxClusters returns the cluster count ceiling.
func (t Thresholds) MaxClusters() int { return t.maxClusters }

// ClusterDivisor returns the divisor deriving cluster count from sample size.
func (t Thresholds) ClusterDivisor() int { return t.clusterDivisor }

// Iterations returns the k-means iteration budget.
func (t Thresholds) Iterations() int { return t.iterations }

// ClusterCount derives the number of clusters for n samples:
// min(maxClusters, ceil(n/divisor)), at least 1.
func (t Thresholds) ClusterCount(n int) int {
	if n <= 0 {
		return 1
	}
	k := (n + t.clusterDivisor - 1) / t.clusterDivisor
	if k > t.maxClusters {
		k = t.maxClusters
	}
	if k < 1 {
		k = 1
	}
	return k
}

// WithPositive returns a copy with the positive-vote threshold set.
// Out-of-range values (outside (0, 1]) keep the current value.
func (t Thresholds) WithPositive(v float64) Thresholds {
	if v > 0 && v <= 1 {
		t.positive = v
	}
	return t
}

// WithNegative returns a copy with the discard-vote threshold set.
func (t Thresholds) WithNegative(v float64) Thresholds {
	if v > 0 && v <= 1 {
		t.negative = v
	}
	return t
}

// WithClusterMatch returns a copy with the centroid-match threshold set.
func (t Thresholds) WithClusterMatch(v float64) Thresholds {
	if v > 0 && v <= 1 {
		t.clusterMatch = v
	}
	return t
}

// WithMaxClusters returns a copy with the cluster ceiling set.
func (t Thresholds) WithMaxClusters(n int) Thresholds {
	if n > 0 {
		t.maxClusters = n
	}
	return t
}

// WithClusterDivisor returns a copy with the cluster divisor set.
func (t Thresholds) WithClusterDivisor(n int) Thresholds {
	if n > 0 {
		t.clusterDivisor = n
	}
	return t
}

// WithIterations returns a copy with the k-means iteration budget set.
func (t Thresholds) WithIterations(n int) Thresholds {
	if n > 0 {
		t.iterations = n
	}
	return t
}
