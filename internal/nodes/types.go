package nodes

// Status is the discrete health classification of a node. It is always
// derived from the continuous health score, never set independently.
type Status string

const (
	StatusHealthy  Status = "healthy"
	StatusDegraded Status = "degraded"
	StatusDown     Status = "down"
)

// Thresholds maps a health score to a status. Health at or above Healthy is
// healthy, at or above Degraded is degraded, anything below is down.
type Thresholds struct {
	Healthy  float64
	Degraded float64
}

// DefaultThresholds are the stock health cutoffs.
var DefaultThresholds = Thresholds{Healthy: 80, Degraded: 40}

// StatusFor derives the status for a health score.
func (t Thresholds) StatusFor(health float64) Status {
	switch {
	case health >= t.Healthy:
		return StatusHealthy
	case health >= t.Degraded:
		return StatusDegraded
	default:
		return StatusDown
	}
}

// StatusFor derives a status using the default thresholds.
func StatusFor(health float64) Status {
	return DefaultThresholds.StatusFor(health)
}

// DefaultRegions is the stock region set nodes are distributed across.
var DefaultRegions = []string{"us-east", "us-west", "eu-central", "ap-south"}

// Node is one simulated compute unit. ID and Region are assigned at creation
// and never change.
type Node struct {
	ID     string  `json:"id"`
	Region string  `json:"region"`
	Load   float64 `json:"load"`   // 0..100
	Health float64 `json:"health"` // 0..100, drives Status
	Status Status  `json:"status"`
}

// Population is an ordered, fixed-cardinality collection of nodes. Ticks
// produce a new population snapshot rather than mutating in place, so a
// rendering layer can hold the previous snapshot without synchronization.
type Population []Node
