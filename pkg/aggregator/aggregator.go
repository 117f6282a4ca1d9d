package aggregator

import (
	"math"

	"github.com/opscart/k8s-waste-estimator/pkg/models"
)

// Aggregator accumulates findings for a single run. Create one per run.
type Aggregator struct {
	totals              models.CategoryTotals
	top                 *models.PodFinding
	podsOverProvisioned int
	podsNoRequests      int
	orphanedLBs         int
	unboundStorageGB    float64
}

// Result is the finalized output of a run
type Result struct {
	Totals        models.CategoryTotals
	TopOffender   *models.PodFinding
	MonthlyWaste  float64
	AnnualSavings float64
	Outcome       models.Outcome
	Details       models.IssueDetails
}

func New() *Aggregator {
	return &Aggregator{}
}

// Add folds one pod finding into the totals
func (a *Aggregator) Add(f models.PodFinding) {
	if f.NoRequests {
		a.podsNoRequests++
	}

	a.totals.Memory += f.MemoryWasteCost
	a.totals.CPU += f.CPUWasteCost

	// Only memory waste marks a pod as over-provisioned; CPU-only waste does not
	if f.MemoryWasteMB > 0 {
		a.podsOverProvisioned++
	}

	// Strictly greater: the first pod wins ties
	if f.TotalWasteCost > a.topCost() {
		top := f
		a.top = &top
	}
}

// AddStorage records unbound volume capacity and its cost
func (a *Aggregator) AddStorage(gb, cost float64) {
	a.unboundStorageGB += gb
	a.totals.Storage += cost
}

// AddLoadBalancers records orphaned load balancers and their cost
func (a *Aggregator) AddLoadBalancers(count int, cost float64) {
	a.orphanedLBs += count
	a.totals.LoadBalancers += cost
}

// Finalize closes the run. A measured zero is replaced by a share of the
// estimated infrastructure cost so the report is never degenerate.
func (a *Aggregator) Finalize(nodeCount, podCount int, rates models.CostInfo) Result {
	result := Result{
		Totals:      a.totals,
		TopOffender: a.top,
		Outcome:     models.OutcomeComputed,
		Details: models.IssueDetails{
			PodsOverProvisioned:   a.podsOverProvisioned,
			PodsNoRequests:        a.podsNoRequests,
			OrphanedLoadBalancers: a.orphanedLBs,
			UnboundStorageGB:      a.unboundStorageGB,
		},
	}

	result.MonthlyWaste = a.totals.Sum()
	if result.MonthlyWaste == 0 {
		result.MonthlyWaste = HeuristicEstimate(nodeCount, podCount, rates)
		result.Outcome = models.OutcomeHeuristicFallback
	}
	result.AnnualSavings = result.MonthlyWaste * 12

	return result
}

// HeuristicEstimate is the fallback share of (nodes*nodeCost + pods*podCost)
func HeuristicEstimate(nodeCount, podCount int, rates models.CostInfo) float64 {
	infra := float64(nodeCount)*rates.NodeMonthly + float64(podCount)*rates.PodMonthly
	return math.Round(infra * rates.FallbackFraction)
}

func (a *Aggregator) topCost() float64 {
	if a.top == nil {
		return 0
	}
	return a.top.TotalWasteCost
}
