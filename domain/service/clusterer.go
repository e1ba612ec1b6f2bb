// Package service provides domain services for the fine-tuning engine.
package service

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/kodustech/kody-finetune/domain/tuning"
	"github.com/kodustech/kody-finetune/internal/log"
)

// Clusterer partitions embedded suggestions into clusters.
type Clusterer interface {
	Cluster(embedded []tuning.EmbeddedSuggestion) tuning.ClusterOutcome
}

// KMeans clusters embedding vectors with k-means++ seeding and a small,
// configurable iteration budget. One iteration is the default: the engine
// favors responsiveness over assignment precision, and the decision layer
// tolerates coarse clusters.
type KMeans struct {
	thresholds tuning.Thresholds
	rng        *rand.Rand
	logger     *log.Logger
}

// KMeansOption is a functional option for KMeans.
type KMeansOption func(*KMeans)

// WithSeed makes clustering deterministic for the given seed.
func WithSeed(seed int64) KMeansOption {
	return func(k *KMeans) { k.rng = rand.New(rand.NewSource(seed)) }
}

// WithClusterLogger sets the logger.
func WithClusterLogger(logger *log.Logger) KMeansOption {
	return func(k *KMeans) { k.logger = logger }
}

// NewKMeans creates a KMeans clusterer.
func NewKMeans(thresholds tuning.Thresholds, opts ...KMeansOption) *KMeans {
	k := &KMeans{
		thresholds: thresholds,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Cluster assigns each embedded suggestion a cluster id. Empty input yields
// a NoData outcome; malformed input (inconsistent dimensions, empty vectors)
// yields a Failed outcome. Never returns an error — the caller treats a
// failure as inability to fine-tune.
func (k *KMeans) Cluster(embedded []tuning.EmbeddedSuggestion) tuning.ClusterOutcome {
	if len(embedded) == 0 {
		return tuning.NoDataOutcome()
	}

	dim := embedded[0].Dimension()
	if dim == 0 {
		return tuning.FailedOutcome(fmt.Errorf("cluster: zero-dimensional embedding"))
	}
	vectors := make([][]float64, len(embedded))
	for i, e := range embedded {
		if e.Dimension() != dim {
			return tuning.FailedOutcome(fmt.Errorf("cluster: dimension mismatch: %d != %d", e.Dimension(), dim))
		}
		vectors[i] = e.Vector()
	}

	clusters := k.thresholds.ClusterCount(len(vectors))
	assignments := k.run(vectors, clusters)

	result := make([]tuning.ClusterizedSuggestion, len(embedded))
	for i, e := range embedded {
		result[i] = tuning.NewClusterizedSuggestion(e, tuning.ClusterID(assignments[i]))
	}

	k.logger.Debug("clustered suggestions",
		"samples", len(embedded),
		"clusters", clusters,
		"iterations", k.thresholds.Iterations(),
	)
	return tuning.ClusteredOutcome(result)
}

// run executes k-means and returns one cluster index per vector.
func (k *KMeans) run(vectors [][]float64, clusters int) []int {
	if clusters >= len(vectors) {
		// Degenerate case: every vector is its own cluster.
		assignments := make([]int, len(vectors))
		for i := range assignments {
			assignments[i] = i
		}
		return assignments
	}

	centroids := k.seed(vectors, clusters)
	assignments := make([]int, len(vectors))

	for iter := 0; iter < k.thresholds.Iterations(); iter++ {
		for i, v := range vectors {
			assignments[i] = nearest(v, centroids)
		}
		centroids = recompute(vectors, assignments, clusters, centroids)
	}

	// Final assignment against the last centroid positions.
	for i, v := range vectors {
		assignments[i] = nearest(v, centroids)
	}
	return assignments
}

// seed picks initial centroids with k-means++: the first uniformly at
// random, each subsequent one with probability proportional to the squared
// distance from its nearest chosen centroid.
func (k *KMeans) seed(vectors [][]float64, clusters int) [][]float64 {
	centroids := make([][]float64, 0, clusters)
	first := vectors[k.rng.Intn(len(vectors))]
	centroids = append(centroids, first)

	distances := make([]float64, len(vectors))
	for len(centroids) < clusters {
		var total float64
		for i, v := range vectors {
			d := squaredDistance(v, centroids[nearest(v, centroids)])
			distances[i] = d
			total += d
		}

		if total == 0 {
			// All remaining points coincide with a centroid; duplicate one.
			centroids = append(centroids, vectors[k.rng.Intn(len(vectors))])
			continue
		}

		target := k.rng.Float64() * total
		var cumulative float64
		chosen := len(vectors) - 1
		for i, d := range distances {
			cumulative += d
			if cumulative >= target {
				chosen = i
				break
			}
		}
		centroids = append(centroids, vectors[chosen])
	}
	return centroids
}

func nearest(v []float64, centroids [][]float64) int {
	best := 0
	bestDist := squaredDistance(v, centroids[0])
	for i := 1; i < len(centroids); i++ {
		if d := squaredDistance(v, centroids[i]); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

func recompute(vectors [][]float64, assignments []int, clusters int, previous [][]float64) [][]float64 {
	dim := len(vectors[0])
	sums := make([][]float64, clusters)
	counts := make([]int, clusters)
	for i := range sums {
		sums[i] = make([]float64, dim)
	}

	for i, v := range vectors {
		c := assignments[i]
		for j, x := range v {
			sums[c][j] += x
		}
		counts[c]++
	}

	centroids := make([][]float64, clusters)
	for c := range centroids {
		if counts[c] == 0 {
			// Empty cluster keeps its previous centroid.
			centroids[c] = previous[c]
			continue
		}
		mean := sums[c]
		for j := range mean {
			mean[j] /= float64(counts[c])
		}
		centroids[c] = mean
	}
	return centroids
}

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
