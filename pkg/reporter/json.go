package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/opscart/k8s-waste-estimator/pkg/models"
)

// JSONReport is the serialized report shape
type JSONReport struct {
	Timestamp string                `json:"timestamp"`
	Cluster   JSONCluster           `json:"cluster"`
	Costs     JSONCosts             `json:"costs"`
	Breakdown models.CategoryTotals `json:"breakdown"`
	Details   JSONDetails           `json:"details"`
}

type JSONCluster struct {
	ContextHash string `json:"context_hash"`
	Provider    string `json:"provider"`
	Pods        int    `json:"pods"`
	Nodes       int    `json:"nodes"`
}

type JSONCosts struct {
	MonthlyWaste  float64 `json:"monthlyWaste"`
	AnnualSavings float64 `json:"annualSavings"`
	// "measured" or "heuristic"
	Method string `json:"method"`
}

type JSONDetails struct {
	PodsOverProvisioned   int     `json:"pods_over_provisioned"`
	PodsNoRequests        int     `json:"pods_no_requests"`
	OrphanedLoadBalancers int     `json:"orphaned_load_balancers"`
	UnboundStorageGB      float64 `json:"unbound_storage_gb"`
}

// ToJSON converts a report to its serialized shape
func ToJSON(report *models.Report) JSONReport {
	method := "measured"
	if report.Outcome == models.OutcomeHeuristicFallback {
		method = "heuristic"
	}

	return JSONReport{
		Timestamp: report.Timestamp.Format(time.RFC3339),
		Cluster: JSONCluster{
			ContextHash: report.Cluster.ContextHash,
			Provider:    report.Cluster.Provider,
			Pods:        report.Cluster.PodCount,
			Nodes:       report.Cluster.NodeCount,
		},
		Costs: JSONCosts{
			MonthlyWaste:  report.MonthlyWaste,
			AnnualSavings: report.AnnualSavings,
			Method:        method,
		},
		Breakdown: report.Breakdown,
		Details: JSONDetails{
			PodsOverProvisioned:   report.Details.PodsOverProvisioned,
			PodsNoRequests:        report.Details.PodsNoRequests,
			OrphanedLoadBalancers: report.Details.OrphanedLoadBalancers,
			UnboundStorageGB:      report.Details.UnboundStorageGB,
		},
	}
}

// GenerateJSON writes the indented JSON document
func GenerateJSON(report *models.Report, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(ToJSON(report)); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
