package analyzer

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	corev1 "k8s.io/api/core/v1"

	"github.com/opscart/k8s-waste-estimator/pkg/aggregator"
	"github.com/opscart/k8s-waste-estimator/pkg/models"
	"github.com/opscart/k8s-waste-estimator/pkg/pricing"
	"github.com/opscart/k8s-waste-estimator/pkg/waste"
)

// Snapshot is the already-fetched cluster state for one run
type Snapshot struct {
	ContextName       string
	Pods              []corev1.Pod
	Nodes             []corev1.Node
	PersistentVolumes []corev1.PersistentVolume
	Services          []corev1.Service

	// Usage is only consulted when MetricsAvailable is set
	Usage            models.UsageTable
	MetricsAvailable bool
}

type Engine struct {
	rates models.CostInfo
	now   func() time.Time
}

func New(rates models.CostInfo) *Engine {
	return &Engine{
		rates: rates,
		now:   time.Now,
	}
}

// Run performs one synchronous analysis pass. It does no I/O and never fails.
func (e *Engine) Run(snap *Snapshot) *models.Report {
	strategy := waste.ForRun(snap.MetricsAvailable, e.rates)
	agg := aggregator.New()

	for i := range snap.Pods {
		pod := &snap.Pods[i]
		spec, usage := Resolve(pod, snap.MetricsAvailable, snap.Usage)
		finding := strategy.Classify(pod.Name, pod.Namespace, spec, usage)

		if finding.TotalWasteCost > 0 {
			log.Debug().
				Str("namespace", finding.Namespace).
				Str("pod", finding.Name).
				Float64("memory", finding.MemoryWasteCost).
				Float64("cpu", finding.CPUWasteCost).
				Msg("waste detected")
		}
		agg.Add(finding)
	}

	agg.AddStorage(ScanUnboundStorage(snap.PersistentVolumes, e.rates))
	agg.AddLoadBalancers(ScanOrphanedLoadBalancers(snap.Services, e.rates))

	result := agg.Finalize(len(snap.Nodes), len(snap.Pods), e.rates)
	provider, region := pricing.DetectProvider(snap.Nodes)

	return &models.Report{
		ID:        uuid.New().String(),
		Timestamp: e.now().UTC(),
		Cluster: models.ClusterInfo{
			ContextHash: HashContext(snap.ContextName),
			Provider:    provider,
			Region:      region,
			PodCount:    len(snap.Pods),
			NodeCount:   len(snap.Nodes),
		},
		Mode:          strategy.Mode(),
		Outcome:       result.Outcome,
		MonthlyWaste:  result.MonthlyWaste,
		AnnualSavings: result.AnnualSavings,
		Breakdown:     result.Totals,
		TopOffender:   result.TopOffender,
		Details:       result.Details,
	}
}

// HashContext anonymizes the kubeconfig context name
func HashContext(name string) string {
	sum := sha256.Sum256([]byte(name))
	return hex.EncodeToString(sum[:])[:12]
}
