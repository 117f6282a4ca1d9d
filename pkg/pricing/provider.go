package pricing

import (
	"context"

	"github.com/opscart/k8s-waste-estimator/pkg/models"
)

// Provider defines the interface for rate card data
type Provider interface {
	GetCostInfo(ctx context.Context, region string) (*models.CostInfo, error)
	Name() string
}

type Config struct {
	Provider string
	Region   string

	// Rate overrides; nil means the built-in rate
	MemoryCostPerGiB      *float64
	CPUCostPerCore        *float64
	StorageCostPerGBMonth *float64
	LoadBalancerMonthly   *float64
}
