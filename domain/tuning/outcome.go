package tuning

// OutcomeState distinguishes the three ways a clustering run can end, so
// callers never confuse "nothing to cluster" with "clustering failed".
type OutcomeState string

// OutcomeState values.
const (
	OutcomeNoData    OutcomeState = "no_data"
	OutcomeClustered OutcomeState = "clustered"
	OutcomeFailed    OutcomeState = "failed"
)

// ClusterOutcome is the result of one clustering run.
type ClusterOutcome struct {
	state    OutcomeState
	clusters []ClusterizedSuggestion
	err      error
}

// NoDataOutcome reports an empty input set.
func NoDataOutcome() ClusterOutcome {
	return ClusterOutcome{state: OutcomeNoData}
}

// ClusteredOutcome wraps a successful clustering result.
func ClusteredOutcome(clusters []ClusterizedSuggestion) ClusterOutcome {
	cs := make([]ClusterizedSuggestion, len(clusters))
	copy(cs, clusters)
	return ClusterOutcome{state: OutcomeClustered, clusters: cs}
}

// FailedOutcome wraps a clustering failure. Downstream treats it as
// inability to fine-tune, never as an error to propagate.
func FailedOutcome(err error) ClusterOutcome {
	return ClusterOutcome{state: OutcomeFailed, err: err}
}

// State returns the outcome state.
func (o ClusterOutcome) State() OutcomeState { return o.state }

// Clusters returns the clusterized suggestions (copy). Empty unless the
// state is OutcomeClustered.
func (o ClusterOutcome) Clusters() []ClusterizedSuggestion {
	cs := make([]ClusterizedSuggestion, len(o.clusters))
	copy(cs, o.clusters)
	return cs
}

// Err returns the failure cause, or nil.
func (o ClusterOutcome) Err() error { return o.err }

// Usable reports whether the outcome carries clusters to compare against.
func (o ClusterOutcome) Usable() bool {
	return o.state == OutcomeClustered && len(o.clusters) > 0
}
