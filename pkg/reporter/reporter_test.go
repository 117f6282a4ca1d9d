package reporter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/opscart/k8s-waste-estimator/pkg/models"
	"github.com/opscart/k8s-waste-estimator/pkg/quantity"
)

func sampleReport() *models.Report {
	reqMem := quantity.Quantity{Kind: quantity.Memory, Magnitude: 4096, Unit: quantity.UnitMegabytes}
	actMem := quantity.Quantity{Kind: quantity.Memory, Magnitude: 1024, Unit: quantity.UnitMegabytes}

	return &models.Report{
		ID:        "abc",
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Cluster:   models.ClusterInfo{ContextHash: "1a2b3c4d5e6f", Provider: "aws", Region: "us-east-1", PodCount: 47, NodeCount: 5},
		Mode:      models.ModeUsageBased,
		Outcome:   models.OutcomeComputed,

		MonthlyWaste:  76,
		AnnualSavings: 912,
		Breakdown:     models.CategoryTotals{Memory: 18, CPU: 40, LoadBalancers: 18},
		TopOffender: &models.PodFinding{
			Name: "api", Namespace: "shop",
			MemoryWasteCost: 18, CPUWasteCost: 40, TotalWasteCost: 58,
			Requests: models.ResourcePair{Memory: &reqMem},
			Actual:   &models.PodUsage{Memory: &actMem},
		},
		Details: models.IssueDetails{PodsOverProvisioned: 1, OrphanedLoadBalancers: 1},
	}
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"text", "json", "csv"} {
		if _, err := ParseFormat(name); err != nil {
			t.Errorf("Expected %s to be valid: %v", name, err)
		}
	}
	if _, err := ParseFormat("html"); err == nil {
		t.Error("Expected html to be rejected")
	}
}

func TestGenerateJSONFields(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(sampleReport(), FormatJSON, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	var doc map[string]map[string]interface{}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(buf.Bytes(), &top); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}

	expectedKeys := []string{"timestamp", "cluster", "costs", "breakdown", "details"}
	if len(top) != len(expectedKeys) {
		t.Errorf("Expected %d top-level keys, got %d", len(expectedKeys), len(top))
	}
	for _, key := range expectedKeys {
		if _, ok := top[key]; !ok {
			t.Errorf("Missing top-level key %q", key)
		}
	}

	delete(top, "timestamp")
	raw, _ := json.Marshal(top)
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("Unexpected nested shape: %v", err)
	}

	if doc["costs"]["monthlyWaste"] != 76.0 || doc["costs"]["annualSavings"] != 912.0 {
		t.Errorf("Unexpected costs: %v", doc["costs"])
	}
	if doc["costs"]["method"] != "measured" {
		t.Errorf("Expected measured method, got %v", doc["costs"]["method"])
	}
	for _, key := range []string{"memory", "cpu", "storage", "loadBalancers"} {
		if _, ok := doc["breakdown"][key]; !ok {
			t.Errorf("Missing breakdown key %q", key)
		}
	}
	for _, key := range []string{"pods_over_provisioned", "pods_no_requests", "orphaned_load_balancers", "unbound_storage_gb"} {
		if _, ok := doc["details"][key]; !ok {
			t.Errorf("Missing details key %q", key)
		}
	}
	if doc["cluster"]["pods"] != 47.0 || doc["cluster"]["nodes"] != 5.0 {
		t.Errorf("Unexpected cluster: %v", doc["cluster"])
	}
}

func TestToJSONHeuristicMethod(t *testing.T) {
	report := sampleReport()
	report.Outcome = models.OutcomeHeuristicFallback

	if got := ToJSON(report).Costs.Method; got != "heuristic" {
		t.Errorf("Expected heuristic method, got %s", got)
	}
	if got := ToJSON(report).Timestamp; got != "2026-03-01T12:00:00Z" {
		t.Errorf("Unexpected timestamp %s", got)
	}
}

func TestGenerateText(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(sampleReport(), FormatText, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Monthly waste:   $76.00",
		"Annual savings:  $912.00",
		"Top offender: shop/api ($58.00/month)",
		"CPU=- Memory=4096Mi",
		"usage-based",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "heuristic") {
		t.Error("Measured report must not be labeled heuristic")
	}
}

func TestGenerateCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(sampleReport(), FormatCSV, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	r := csv.NewReader(&buf)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("Invalid CSV: %v", err)
	}

	if records[1][0] != "Memory" || records[1][1] != "18.00" {
		t.Errorf("Unexpected memory row: %v", records[1])
	}

	last := records[len(records)-1]
	if last[0] != "shop" || last[1] != "api" || last[4] != "58.00" {
		t.Errorf("Unexpected top offender row: %v", last)
	}
}

func TestWriteDoesNotMutateReport(t *testing.T) {
	report := sampleReport()
	before := *report

	for _, f := range []ReportFormat{FormatText, FormatJSON, FormatCSV} {
		if err := Write(report, f, &bytes.Buffer{}); err != nil {
			t.Fatalf("Write %s failed: %v", f, err)
		}
	}

	if report.MonthlyWaste != before.MonthlyWaste || report.Breakdown != before.Breakdown || report.TopOffender != before.TopOffender {
		t.Error("Rendering must not modify the report")
	}
}
