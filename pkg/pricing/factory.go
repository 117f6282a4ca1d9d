package pricing

import (
	"fmt"
)

// NewProvider builds the rate card provider for a configured or detected cloud.
// Every cloud shares the flat rate card; the name only labels the report.
func NewProvider(config *Config) (Provider, error) {
	name := config.Provider
	if name == "" {
		name = "default"
	}

	switch name {
	case "azure", "aws", "gcp", "default":
	default:
		return nil, fmt.Errorf("unknown provider: %s", name)
	}

	region := config.Region
	if region == "" {
		region = "unknown"
	}

	p := NewDefaultProvider().WithRates(config.MemoryCostPerGiB, config.CPUCostPerCore,
		config.StorageCostPerGBMonth, config.LoadBalancerMonthly)
	p.name = name
	p.region = region
	return p, nil
}
