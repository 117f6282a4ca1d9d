package analyzer

import (
	corev1 "k8s.io/api/core/v1"

	"github.com/opscart/k8s-waste-estimator/pkg/models"
	"github.com/opscart/k8s-waste-estimator/pkg/quantity"
)

// ScanUnboundStorage sums the capacity of volumes that are not Bound.
// Capacities that do not parse as Mi/Gi are left out.
func ScanUnboundStorage(volumes []corev1.PersistentVolume, rates models.CostInfo) (gb float64, cost float64) {
	var totalMB int64
	for _, pv := range volumes {
		if pv.Status.Phase == corev1.VolumeBound {
			continue
		}
		capacity, ok := pv.Spec.Capacity[corev1.ResourceStorage]
		if !ok {
			continue
		}
		q, ok := quantity.FromResource(capacity, quantity.Memory)
		if !ok {
			continue
		}
		totalMB += q.Magnitude
	}

	gb = float64(totalMB) / 1024
	return gb, gb * rates.StorageCostPerGBMonth
}

// ScanOrphanedLoadBalancers counts LoadBalancer services that select no pods
func ScanOrphanedLoadBalancers(services []corev1.Service, rates models.CostInfo) (count int, cost float64) {
	for _, svc := range services {
		if svc.Spec.Type != corev1.ServiceTypeLoadBalancer {
			continue
		}
		if len(svc.Spec.Selector) == 0 {
			count++
		}
	}
	return count, float64(count) * rates.LoadBalancerMonthly
}
