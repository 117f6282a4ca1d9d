package datasource

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/opscart/k8s-waste-estimator/pkg/models"
)

func vectorResponse(samples ...string) string {
	return fmt.Sprintf(`{"status":"success","data":{"resultType":"vector","result":[%s]}}`,
		strings.Join(samples, ","))
}

func sample(namespace, pod, value string) string {
	return fmt.Sprintf(`{"metric":{"namespace":%q,"pod":%q},"value":[1700000000,%q]}`, namespace, pod, value)
}

func newPrometheusServer(t *testing.T, queries *[]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("Failed to parse form: %v", err)
		}
		query := r.Form.Get("query")
		if queries != nil {
			*queries = append(*queries, query)
		}

		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.Contains(query, "container_cpu_usage_seconds_total"):
			fmt.Fprint(w, vectorResponse(
				sample("default", "api", "0.25"),
				sample("default", "no-memory", "1"),
			))
		case strings.Contains(query, "container_memory_working_set_bytes"):
			fmt.Fprint(w, vectorResponse(
				sample("default", "api", "536870912"),
				sample("default", "no-cpu", "1048576"),
			))
		default:
			fmt.Fprint(w, vectorResponse())
		}
	}))
}

func TestPrometheusUsageTable(t *testing.T) {
	var queries []string
	server := newPrometheusServer(t, &queries)
	defer server.Close()

	source, err := NewPrometheusSource(server.URL)
	if err != nil {
		t.Fatalf("NewPrometheusSource failed: %v", err)
	}

	table, err := source.UsageTable(context.Background(), "default")
	if err != nil {
		t.Fatalf("UsageTable failed: %v", err)
	}

	if len(table) != 1 {
		t.Fatalf("Expected 1 pod with both series, got %d: %v", len(table), table)
	}

	got, ok := table.Lookup("default", "api")
	if !ok {
		t.Fatal("Expected usage for default/api")
	}
	want := models.UsageSample{CPU: "250m", Memory: "512Mi"}
	if got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}

	for _, q := range queries {
		if !strings.Contains(q, `namespace="default"`) {
			t.Errorf("Expected namespace filter in query %q", q)
		}
	}
}

func TestPrometheusIsAvailable(t *testing.T) {
	server := newPrometheusServer(t, nil)
	source, _ := NewPrometheusSource(server.URL)

	if !source.IsAvailable(context.Background()) {
		t.Error("Expected Prometheus to be available")
	}

	server.Close()
	if source.IsAvailable(context.Background()) {
		t.Error("Expected closed Prometheus to be unavailable")
	}

	if source.Name() != "Prometheus" {
		t.Errorf("Expected name 'Prometheus', got %s", source.Name())
	}
}
