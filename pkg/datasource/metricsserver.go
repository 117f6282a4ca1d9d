package datasource

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	metricsv "k8s.io/metrics/pkg/client/clientset/versioned"

	"github.com/opscart/k8s-waste-estimator/pkg/models"
)

// MetricsServerSource reads instant usage from metrics.k8s.io
type MetricsServerSource struct {
	client metricsv.Interface
}

func NewMetricsServerSource(client metricsv.Interface) *MetricsServerSource {
	return &MetricsServerSource{client: client}
}

// UsageTable sums container usage per pod, as `kubectl top pods` does
func (m *MetricsServerSource) UsageTable(ctx context.Context, namespace string) (models.UsageTable, error) {
	podMetrics, err := m.client.MetricsV1beta1().PodMetricses(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get pod metrics: %w", err)
	}

	table := make(models.UsageTable, len(podMetrics.Items))
	for _, pm := range podMetrics.Items {
		var milliCPU, memBytes int64
		for _, container := range pm.Containers {
			if cpu, ok := container.Usage[corev1.ResourceCPU]; ok {
				milliCPU += cpu.MilliValue()
			}
			if mem, ok := container.Usage[corev1.ResourceMemory]; ok {
				memBytes += mem.Value()
			}
		}
		table[models.PodKey{Namespace: pm.Namespace, Name: pm.Name}] =
			formatSample(milliCPU, memBytes)
	}

	return table, nil
}

func (m *MetricsServerSource) IsAvailable(ctx context.Context) bool {
	_, err := m.client.MetricsV1beta1().PodMetricses("").List(ctx, metav1.ListOptions{Limit: 1})
	return err == nil
}

func (m *MetricsServerSource) Name() string {
	return "metrics-server"
}
