package models

import "time"

// CostInfo is the flat monthly rate card used to price waste
type CostInfo struct {
	Provider string
	Region   string
	Currency string

	MemoryCostPerGiB      float64 // per GB-month
	CPUCostPerCore        float64 // per core-month
	StorageCostPerGBMonth float64
	LoadBalancerMonthly   float64

	// Heuristic fallback inputs
	NodeMonthly      float64
	PodMonthly       float64
	FallbackFraction float64

	LastUpdated time.Time
}

// CategoryTotals accumulates monthly waste per category
type CategoryTotals struct {
	Memory        float64 `json:"memory"`
	CPU           float64 `json:"cpu"`
	Storage       float64 `json:"storage"`
	LoadBalancers float64 `json:"loadBalancers"`
}

// Sum returns the waste across all categories
func (c CategoryTotals) Sum() float64 {
	return c.Memory + c.CPU + c.Storage + c.LoadBalancers
}
