package analyzer

import (
	corev1 "k8s.io/api/core/v1"

	"github.com/opscart/k8s-waste-estimator/pkg/models"
	"github.com/opscart/k8s-waste-estimator/pkg/quantity"
)

// Resolve projects a pod onto its declared spec and, when metrics are
// available, its measured usage. Only the first container is read;
// multi-container pods are not aggregated.
func Resolve(pod *corev1.Pod, metricsAvailable bool, table models.UsageTable) (models.ContainerSpec, *models.PodUsage) {
	var spec models.ContainerSpec
	if len(pod.Spec.Containers) > 0 {
		resources := pod.Spec.Containers[0].Resources
		spec.Requests = resourcePair(resources.Requests)
		spec.Limits = resourcePair(resources.Limits)
	}

	if !metricsAvailable {
		return spec, nil
	}

	sample, ok := table.Lookup(pod.Namespace, pod.Name)
	if !ok {
		return spec, nil
	}

	usage := &models.PodUsage{}
	if q, ok := quantity.ParseMemory(sample.Memory); ok {
		usage.Memory = &q
	}
	if q, ok := quantity.ParseCPU(sample.CPU); ok {
		usage.CPU = &q
	}
	if usage.Memory == nil && usage.CPU == nil {
		return spec, nil
	}

	return spec, usage
}

func resourcePair(list corev1.ResourceList) models.ResourcePair {
	var pair models.ResourcePair
	if mem, ok := list[corev1.ResourceMemory]; ok {
		if q, ok := quantity.FromResource(mem, quantity.Memory); ok {
			pair.Memory = &q
		}
	}
	if cpu, ok := list[corev1.ResourceCPU]; ok {
		if q, ok := quantity.FromResource(cpu, quantity.CPU); ok {
			pair.CPU = &q
		}
	}
	return pair
}
