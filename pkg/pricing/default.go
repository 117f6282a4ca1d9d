package pricing

import (
	"context"
	"time"

	"github.com/opscart/k8s-waste-estimator/pkg/models"
)

const (
	DefaultMemoryCostPerGiB      = 7.20
	DefaultCPUCostPerCore        = 21.60
	DefaultStorageCostPerGBMonth = 0.10
	DefaultLoadBalancerMonthly   = 18.00

	DefaultNodeMonthly      = 150.0
	DefaultPodMonthly       = 3.0
	DefaultFallbackFraction = 0.20
)

// DefaultProvider serves the flat rate card, labeled with the detected cloud
type DefaultProvider struct {
	name     string
	region   string
	memCost  float64
	cpuCost  float64
	diskCost float64
	lbCost   float64
}

func NewDefaultProvider() *DefaultProvider {
	return &DefaultProvider{
		name:     "default",
		region:   "unknown",
		memCost:  DefaultMemoryCostPerGiB,
		cpuCost:  DefaultCPUCostPerCore,
		diskCost: DefaultStorageCostPerGBMonth,
		lbCost:   DefaultLoadBalancerMonthly,
	}
}

// WithRates applies rate overrides; nil keeps the built-in rate, zero is a real rate
func (d *DefaultProvider) WithRates(memory, cpu, storagePerGB, loadBalancer *float64) *DefaultProvider {
	if memory != nil {
		d.memCost = *memory
	}
	if cpu != nil {
		d.cpuCost = *cpu
	}
	if storagePerGB != nil {
		d.diskCost = *storagePerGB
	}
	if loadBalancer != nil {
		d.lbCost = *loadBalancer
	}
	return d
}

func (d *DefaultProvider) Name() string {
	return d.name
}

func (d *DefaultProvider) GetCostInfo(ctx context.Context, region string) (*models.CostInfo, error) {
	if region == "" {
		region = d.region
	}
	return &models.CostInfo{
		Provider:              d.name,
		Region:                region,
		Currency:              "USD",
		MemoryCostPerGiB:      d.memCost,
		CPUCostPerCore:        d.cpuCost,
		StorageCostPerGBMonth: d.diskCost,
		LoadBalancerMonthly:   d.lbCost,
		NodeMonthly:           DefaultNodeMonthly,
		PodMonthly:            DefaultPodMonthly,
		FallbackFraction:      DefaultFallbackFraction,
		LastUpdated:           time.Now(),
	}, nil
}

// DefaultCostInfo returns the built-in rate card without a provider label
func DefaultCostInfo() models.CostInfo {
	info, _ := NewDefaultProvider().GetCostInfo(context.Background(), "")
	return *info
}
