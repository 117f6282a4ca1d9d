package waste

import (
	"math"

	"github.com/opscart/k8s-waste-estimator/pkg/models"
	"github.com/opscart/k8s-waste-estimator/pkg/quantity"
)

const (
	// Headroom kept above the baseline when sizing the waste amount
	headroomFactor = 1.5

	usageThreshold       = 2.0
	memoryLimitThreshold = 2.0
	// CPU limits conventionally sit further above requests than memory limits
	cpuLimitThreshold = 3.0
)

// WasteStrategy classifies one pod's waste. A run uses a single strategy.
type WasteStrategy interface {
	Classify(name, namespace string, spec models.ContainerSpec, usage *models.PodUsage) models.PodFinding
	Mode() models.Mode
}

// ForRun picks the strategy once per run from global metrics availability
func ForRun(metricsAvailable bool, rates models.CostInfo) WasteStrategy {
	if metricsAvailable {
		return &UsageBasedStrategy{rates: rates}
	}
	return &LimitBasedStrategy{rates: rates}
}

// UsageBasedStrategy compares requests against measured usage
type UsageBasedStrategy struct {
	rates models.CostInfo
}

func NewUsageBasedStrategy(rates models.CostInfo) *UsageBasedStrategy {
	return &UsageBasedStrategy{rates: rates}
}

func (s *UsageBasedStrategy) Mode() models.Mode {
	return models.ModeUsageBased
}

// Classify skips pods without a usage sample; they are neither waste nor no-requests.
func (s *UsageBasedStrategy) Classify(name, namespace string, spec models.ContainerSpec, usage *models.PodUsage) models.PodFinding {
	finding := newFinding(name, namespace, spec, usage)
	if usage == nil {
		finding.Outcome = models.OutcomeSkipped
		return finding
	}

	finding.MemoryWasteMB = excess(spec.Requests.Memory, usage.Memory, usageThreshold)
	finding.CPUWasteMillicores = excess(spec.Requests.CPU, usage.CPU, usageThreshold)
	price(&finding, s.rates)
	return finding
}

// LimitBasedStrategy compares limits against requests when no usage exists
type LimitBasedStrategy struct {
	rates models.CostInfo
}

func NewLimitBasedStrategy(rates models.CostInfo) *LimitBasedStrategy {
	return &LimitBasedStrategy{rates: rates}
}

func (s *LimitBasedStrategy) Mode() models.Mode {
	return models.ModeLimitBased
}

func (s *LimitBasedStrategy) Classify(name, namespace string, spec models.ContainerSpec, usage *models.PodUsage) models.PodFinding {
	finding := newFinding(name, namespace, spec, usage)
	if spec.Requests.IsEmpty() {
		finding.Outcome = models.OutcomeSkipped
		finding.NoRequests = true
		return finding
	}

	finding.MemoryWasteMB = excess(spec.Limits.Memory, spec.Requests.Memory, memoryLimitThreshold)
	finding.CPUWasteMillicores = excess(spec.Limits.CPU, spec.Requests.CPU, cpuLimitThreshold)
	price(&finding, s.rates)
	return finding
}

func newFinding(name, namespace string, spec models.ContainerSpec, usage *models.PodUsage) models.PodFinding {
	return models.PodFinding{
		Name:      name,
		Namespace: namespace,
		Requests:  spec.Requests,
		Limits:    spec.Limits,
		Actual:    usage,
		Outcome:   models.OutcomeComputed,
	}
}

// excess returns declared - 1.5*baseline when declared > threshold*baseline.
// Either side missing means the dimension cannot be classified.
func excess(declared, baseline *quantity.Quantity, threshold float64) int64 {
	if declared == nil || baseline == nil {
		return 0
	}
	d := float64(declared.Magnitude)
	b := float64(baseline.Magnitude)
	if d <= threshold*b {
		return 0
	}
	return int64(d - headroomFactor*b)
}

func price(f *models.PodFinding, rates models.CostInfo) {
	f.MemoryWasteCost = math.Round(float64(f.MemoryWasteMB) / 1024 * rates.MemoryCostPerGiB)
	f.CPUWasteCost = math.Round(float64(f.CPUWasteMillicores) / 1000 * rates.CPUCostPerCore)
	f.TotalWasteCost = f.MemoryWasteCost + f.CPUWasteCost
}
