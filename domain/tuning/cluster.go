package tuning

// ClusterID is an opaque cluster identifier assigned by the clusterer.
// Valid ids are in [0, k) for a run with k clusters; arithmetic on ids is
// meaningless.
type ClusterID int

// Int returns the raw index for map keys and logging.
func (id ClusterID) Int() int { return int(id) }

// ClusterizedSuggestion is an embedded suggestion annotated with its
// assigned cluster. Ephemeral: recomputed on every analysis pass.
type ClusterizedSuggestion struct {
	embedded EmbeddedSuggestion
	cluster  ClusterID
}

// NewClusterizedSuggestion creates a ClusterizedSuggestion.
func NewClusterizedSuggestion(embedded EmbeddedSuggestion, cluster ClusterID) ClusterizedSuggestion {
	return ClusterizedSuggestion{embedded: embedded, cluster: cluster}
}

// Embedded returns the embedded suggestion.
func (c ClusterizedSuggestion) Embedded() EmbeddedSuggestion { return c.embedded }

// Cluster returns the assigned cluster id.
func (c ClusterizedSuggestion) Cluster() ClusterID { return c.cluster }
