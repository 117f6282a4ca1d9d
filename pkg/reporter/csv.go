package reporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/opscart/k8s-waste-estimator/pkg/models"
)

// GenerateCSV creates a CSV report
func GenerateCSV(report *models.Report, writer io.Writer) error {
	w := csv.NewWriter(writer)

	rows := [][]string{
		{"Category", "Monthly Waste ($)"},
		{"Memory", money(report.Breakdown.Memory)},
		{"CPU", money(report.Breakdown.CPU)},
		{"Storage", money(report.Breakdown.Storage)},
		{"Load Balancers", money(report.Breakdown.LoadBalancers)},
		{},
		{"SUMMARY"},
		{"Pods", fmt.Sprintf("%d", report.Cluster.PodCount)},
		{"Nodes", fmt.Sprintf("%d", report.Cluster.NodeCount)},
		{"Analysis Mode", string(report.Mode)},
		{"Outcome", string(report.Outcome)},
		{"Total Monthly Waste", money(report.MonthlyWaste)},
		{"Annual Savings", money(report.AnnualSavings)},
		{"Over-provisioned Pods", fmt.Sprintf("%d", report.Details.PodsOverProvisioned)},
		{"Pods Without Requests", fmt.Sprintf("%d", report.Details.PodsNoRequests)},
		{"Orphaned Load Balancers", fmt.Sprintf("%d", report.Details.OrphanedLoadBalancers)},
		{"Unbound Storage (GB)", fmt.Sprintf("%.1f", report.Details.UnboundStorageGB)},
	}

	if top := report.TopOffender; top != nil {
		rows = append(rows,
			[]string{},
			[]string{"TOP OFFENDER"},
			[]string{"Namespace", "Pod", "Memory Waste ($)", "CPU Waste ($)", "Total ($)"},
			[]string{top.Namespace, top.Name, money(top.MemoryWasteCost), money(top.CPUWasteCost), money(top.TotalWasteCost)},
		)
	}

	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
