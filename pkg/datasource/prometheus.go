package datasource

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/prometheus/client_golang/api"
	v1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"
	"github.com/rs/zerolog/log"

	"github.com/opscart/k8s-waste-estimator/pkg/models"
)

type PrometheusSource struct {
	client v1.API
	url    string
	window time.Duration
}

func NewPrometheusSource(url string) (*PrometheusSource, error) {
	client, err := api.NewClient(api.Config{
		Address: url,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Prometheus client: %w", err)
	}

	return &PrometheusSource{
		client: v1.NewAPI(client),
		url:    url,
		window: 5 * time.Minute,
	}, nil
}

// UsageTable builds per-pod usage from cAdvisor series summed over containers
func (p *PrometheusSource) UsageTable(ctx context.Context, namespace string) (models.UsageTable, error) {
	selector := `container!="",pod!=""`
	if namespace != "" {
		selector = fmt.Sprintf(`%s,namespace="%s"`, selector, namespace)
	}

	cpuQuery := fmt.Sprintf(`sum by (namespace, pod) (rate(container_cpu_usage_seconds_total{%s}[%s]))`,
		selector, model.Duration(p.window))
	cpu, err := p.queryVector(ctx, cpuQuery)
	if err != nil {
		return nil, fmt.Errorf("CPU query failed: %w", err)
	}

	memQuery := fmt.Sprintf(`sum by (namespace, pod) (container_memory_working_set_bytes{%s})`, selector)
	mem, err := p.queryVector(ctx, memQuery)
	if err != nil {
		return nil, fmt.Errorf("memory query failed: %w", err)
	}

	table := make(models.UsageTable, len(cpu))
	for key, cores := range cpu {
		bytes, ok := mem[key]
		if !ok {
			// A pod needs both series to be comparable
			continue
		}
		table[key] = formatSample(int64(math.Round(cores*1000)), int64(bytes))
	}

	return table, nil
}

func (p *PrometheusSource) queryVector(ctx context.Context, query string) (map[models.PodKey]float64, error) {
	result, warnings, err := p.client.Query(ctx, query, time.Now())
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	if len(warnings) > 0 {
		log.Warn().Strs("warnings", warnings).Msg("Prometheus returned warnings")
	}

	vector, ok := result.(model.Vector)
	if !ok {
		return nil, fmt.Errorf("unexpected result type %s for query: %s", result.Type(), query)
	}

	values := make(map[models.PodKey]float64, len(vector))
	for _, sample := range vector {
		key := models.PodKey{
			Namespace: string(sample.Metric["namespace"]),
			Name:      string(sample.Metric["pod"]),
		}
		values[key] += float64(sample.Value)
	}

	return values, nil
}

func (p *PrometheusSource) IsAvailable(ctx context.Context) bool {
	_, _, err := p.client.Query(ctx, "up", time.Now())
	return err == nil
}

func (p *PrometheusSource) Name() string {
	return "Prometheus"
}
