package models

import "github.com/opscart/k8s-waste-estimator/pkg/quantity"

// PodKey identifies a pod in a usage table
type PodKey struct {
	Namespace string
	Name      string
}

// UsageSample is the raw measured consumption for one pod, e.g. "250m" / "512Mi"
type UsageSample struct {
	CPU    string
	Memory string
}

// UsageTable maps pods to their measured usage
type UsageTable map[PodKey]UsageSample

// Lookup matches on exact namespace and name only
func (t UsageTable) Lookup(namespace, name string) (UsageSample, bool) {
	sample, ok := t[PodKey{Namespace: namespace, Name: name}]
	return sample, ok
}

// ResourcePair holds memory and CPU amounts; nil means not declared
type ResourcePair struct {
	Memory *quantity.Quantity
	CPU    *quantity.Quantity
}

// IsEmpty reports whether neither dimension is declared
func (r ResourcePair) IsEmpty() bool {
	return r.Memory == nil && r.CPU == nil
}

// ContainerSpec is the declared intent of a pod's first container
type ContainerSpec struct {
	Requests ResourcePair
	Limits   ResourcePair
}

// PodUsage is a resolved usage sample
type PodUsage struct {
	Memory *quantity.Quantity
	CPU    *quantity.Quantity
}
