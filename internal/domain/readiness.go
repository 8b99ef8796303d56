package domain

// ReadinessState is the load state of the dictionary for one session.
type ReadinessState int

const (
	StateUninitialized ReadinessState = iota
	StateLoading
	StateReady
	StateFailed
)

func (s ReadinessState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Readiness is a snapshot of the load state. Reason is set only for StateFailed.
type Readiness struct {
	State  ReadinessState
	Reason string
}

// DataLoaded is emitted once when the dictionary becomes queryable.
type DataLoaded struct {
	TotalChars int `json:"totalChars"`
	DataCount  int `json:"dataCount"`
}

// DataLoadError is emitted once when acquiring or parsing the dictionary fails.
type DataLoadError struct {
	Error string `json:"error"`
}
