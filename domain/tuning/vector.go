package tuning

import "math"

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns a value between -1 (opposite) and 1 (identical).
// Returns 0 if the vectors differ in length or either has zero magnitude —
// callers that need to distinguish "orthogonal" from "undefined" must guard
// those cases themselves.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, magA, magB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}

	if magA == 0 || magB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(magA) * math.Sqrt(magB))
}

// Centroids computes the component-wise mean vector per cluster.
// Only clusters with at least one member appear in the result; each centroid
// has the dimensionality of its members' embeddings.
func Centroids(clusters []ClusterizedSuggestion) map[ClusterID][]float64 {
	sums := make(map[ClusterID][]float64)
	counts := make(map[ClusterID]int)

	for _, c := range clusters {
		vec := c.embedded.vectorRef()
		sum, ok := sums[c.cluster]
		if !ok {
			sum = make([]float64, len(vec))
			sums[c.cluster] = sum
		}
		if len(sum) != len(vec) {
			// Mixed dimensionality inside one cluster; skip the outlier.
			continue
		}
		for i, v := range vec {
			sum[i] += v
		}
		counts[c.cluster]++
	}

	centroids := make(map[ClusterID][]float64, len(sums))
	for id, sum := range sums {
		n := counts[id]
		if n == 0 {
			continue
		}
		centroid := make([]float64, len(sum))
		for i, v := range sum {
			centroid[i] = v / float64(n)
		}
		centroids[id] = centroid
	}
	return centroids
}
