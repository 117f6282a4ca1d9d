package reporter

import (
	"fmt"
	"io"

	"github.com/opscart/k8s-waste-estimator/pkg/models"
)

// ReportFormat represents the output format
type ReportFormat string

const (
	FormatText ReportFormat = "text"
	FormatJSON ReportFormat = "json"
	FormatCSV  ReportFormat = "csv"
)

// ParseFormat validates a user supplied format name
func ParseFormat(name string) (ReportFormat, error) {
	switch f := ReportFormat(name); f {
	case FormatText, FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("output must be text, json, or csv (got %q)", name)
	}
}

// Write renders the report in the requested format. The report is only read.
func Write(report *models.Report, format ReportFormat, w io.Writer) error {
	switch format {
	case FormatJSON:
		return GenerateJSON(report, w)
	case FormatCSV:
		return GenerateCSV(report, w)
	case FormatText, "":
		return GenerateText(report, w)
	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}
}

// GenerateText writes the human readable summary
func GenerateText(report *models.Report, w io.Writer) error {
	p := &printer{w: w}

	p.printf("=== Kubernetes Waste Report ===\n\n")
	p.printf("Cluster:   %s (%s, %s)\n", report.Cluster.ContextHash, report.Cluster.Provider, report.Cluster.Region)
	p.printf("Pods:      %d\n", report.Cluster.PodCount)
	p.printf("Nodes:     %d\n", report.Cluster.NodeCount)
	p.printf("Analysis:  %s\n\n", modeLabel(report.Mode))

	p.printf("Monthly waste:   $%.2f", report.MonthlyWaste)
	if report.Outcome == models.OutcomeHeuristicFallback {
		p.printf(" (heuristic estimate, no waste measured)")
	}
	p.printf("\n")
	p.printf("Annual savings:  $%.2f\n\n", report.AnnualSavings)

	p.printf("Breakdown:\n")
	p.printf("   Memory:          $%.2f\n", report.Breakdown.Memory)
	p.printf("   CPU:             $%.2f\n", report.Breakdown.CPU)
	p.printf("   Storage:         $%.2f\n", report.Breakdown.Storage)
	p.printf("   Load balancers:  $%.2f\n\n", report.Breakdown.LoadBalancers)

	p.printf("Issues:\n")
	p.printf("   Over-provisioned pods:    %d\n", report.Details.PodsOverProvisioned)
	p.printf("   Pods without requests:    %d\n", report.Details.PodsNoRequests)
	p.printf("   Orphaned load balancers:  %d\n", report.Details.OrphanedLoadBalancers)
	p.printf("   Unbound storage:          %.1f GB\n", report.Details.UnboundStorageGB)

	if top := report.TopOffender; top != nil {
		p.printf("\nTop offender: %s/%s ($%.2f/month)\n", top.Namespace, top.Name, top.TotalWasteCost)
		p.printf("   Requests: %s\n", formatPair(top.Requests))
		p.printf("   Limits:   %s\n", formatPair(top.Limits))
		if top.Actual != nil {
			p.printf("   Actual:   %s\n", formatPair(models.ResourcePair{Memory: top.Actual.Memory, CPU: top.Actual.CPU}))
		}
	}

	return p.err
}

func modeLabel(mode models.Mode) string {
	if mode == models.ModeUsageBased {
		return "usage-based (live metrics)"
	}
	return "limit-based (no metrics available)"
}

func formatPair(pair models.ResourcePair) string {
	memory, cpu := "-", "-"
	if pair.Memory != nil {
		memory = pair.Memory.String()
	}
	if pair.CPU != nil {
		cpu = pair.CPU.String()
	}
	return fmt.Sprintf("CPU=%s Memory=%s", cpu, memory)
}

// printer keeps the first write error
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
