package models

// Outcome classifies how a value was produced
type Outcome string

const (
	OutcomeComputed          Outcome = "COMPUTED"
	OutcomeHeuristicFallback Outcome = "HEURISTIC_FALLBACK"
	OutcomeSkipped           Outcome = "SKIPPED"
)

// Mode is the analysis mode chosen for a run
type Mode string

const (
	ModeUsageBased Mode = "usage"
	ModeLimitBased Mode = "limits"
)

// PodFinding is the waste computed for one pod during a single pass
type PodFinding struct {
	Name      string
	Namespace string

	MemoryWasteMB      int64
	CPUWasteMillicores int64

	MemoryWasteCost float64
	CPUWasteCost    float64
	TotalWasteCost  float64

	Requests ResourcePair
	Limits   ResourcePair
	Actual   *PodUsage

	Outcome Outcome
	// NoRequests is set when the pod declares neither a memory nor a cpu request
	NoRequests bool
}
