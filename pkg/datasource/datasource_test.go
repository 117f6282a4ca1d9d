package datasource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/opscart/k8s-waste-estimator/pkg/models"
)

type fixedSource struct {
	available bool
}

func (f *fixedSource) UsageTable(ctx context.Context, namespace string) (models.UsageTable, error) {
	return models.UsageTable{}, nil
}

func (f *fixedSource) IsAvailable(ctx context.Context) bool { return f.available }

func (f *fixedSource) Name() string { return "fixed" }

func TestFormatSample(t *testing.T) {
	got := formatSample(250, 512*1024*1024+1)
	if got.CPU != "250m" {
		t.Errorf("Expected CPU 250m, got %s", got.CPU)
	}
	if got.Memory != "512Mi" {
		t.Errorf("Expected memory 512Mi, got %s", got.Memory)
	}
}

func TestSelectPrefersReachablePrometheus(t *testing.T) {
	server := newPrometheusServer(t, nil)
	defer server.Close()

	source := Select(context.Background(), Config{PrometheusURL: server.URL, UsePrometheus: true}, &fixedSource{available: true})
	if source == nil || source.Name() != "Prometheus" {
		t.Fatalf("Expected Prometheus source, got %v", source)
	}
}

func TestSelectFallsBack(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	tests := []struct {
		name     string
		cfg      Config
		fallback UsageSource
		want     string
	}{
		{"prometheus not requested", Config{PrometheusURL: down.URL}, &fixedSource{available: true}, "fixed"},
		{"prometheus unreachable", Config{PrometheusURL: down.URL, UsePrometheus: true}, &fixedSource{available: true}, "fixed"},
		{"prometheus url empty", Config{UsePrometheus: true}, &fixedSource{available: true}, "fixed"},
		{"fallback unavailable", Config{}, &fixedSource{available: false}, ""},
		{"no fallback", Config{}, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := Select(context.Background(), tt.cfg, tt.fallback)
			if tt.want == "" {
				if source != nil {
					t.Errorf("Expected no usage source, got %s", source.Name())
				}
				return
			}
			if source == nil || source.Name() != tt.want {
				t.Errorf("Expected %s, got %v", tt.want, source)
			}
		})
	}
}
