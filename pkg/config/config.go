package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/opscart/k8s-waste-estimator/pkg/pricing"
)

// Config holds application configuration
type Config struct {
	// Cluster
	Kubeconfig  string
	KubeContext string

	// Prometheus
	PrometheusURL string

	// Storage
	StorageEnabled bool
	DatabaseURL    string

	// Pricing (per month)
	Provider              string
	Region                string
	MemoryCostPerGiB      float64
	CPUCostPerCore        float64
	StorageCostPerGBMonth float64
	LoadBalancerMonthly   float64

	// Output
	OutputFormat string // text, json, csv
	LogLevel     string
}

// LoadEnv loads variables from a .env file if one exists
func LoadEnv(filenames ...string) {
	if err := godotenv.Load(filenames...); err != nil {
		log.Debug().Err(err).Msg(".env file not loaded, using process environment")
	}
}

// NewConfig creates a new configuration with defaults
func NewConfig() *Config {
	return &Config{
		Kubeconfig:            getEnv("KUBECONFIG", ""),
		KubeContext:           getEnv("KUBE_CONTEXT", ""),
		PrometheusURL:         getEnv("PROMETHEUS_URL", "http://localhost:9090"),
		StorageEnabled:        getEnvBool("STORAGE_ENABLED", true),
		DatabaseURL:           getEnv("DATABASE_URL", "host=localhost port=5432 user=costuser password=devpassword dbname=costoptimizer sslmode=disable"),
		Provider:              getEnv("CLOUD_PROVIDER", ""),
		Region:                getEnv("CLOUD_REGION", ""),
		MemoryCostPerGiB:      getEnvFloat("MEMORY_COST_PER_GB", pricing.DefaultMemoryCostPerGiB),
		CPUCostPerCore:        getEnvFloat("CPU_COST_PER_CORE", pricing.DefaultCPUCostPerCore),
		StorageCostPerGBMonth: getEnvFloat("STORAGE_COST_PER_GB", pricing.DefaultStorageCostPerGBMonth),
		LoadBalancerMonthly:   getEnvFloat("LOAD_BALANCER_COST", pricing.DefaultLoadBalancerMonthly),
		OutputFormat:          getEnv("OUTPUT_FORMAT", "text"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
	}
}

// PricingConfig returns the rate card settings for the pricing factory
func (c *Config) PricingConfig() *pricing.Config {
	return &pricing.Config{
		Provider:              c.Provider,
		Region:                c.Region,
		MemoryCostPerGiB:      &c.MemoryCostPerGiB,
		CPUCostPerCore:        &c.CPUCostPerCore,
		StorageCostPerGBMonth: &c.StorageCostPerGBMonth,
		LoadBalancerMonthly:   &c.LoadBalancerMonthly,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

// getEnvFloat keeps the default when the value is not a number; Validate catches negatives
func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-numeric setting")
		return defaultValue
	}
	return parsed
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.StorageEnabled && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must be set when storage is enabled")
	}
	if c.PrometheusURL != "" {
		u, err := url.Parse(c.PrometheusURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid PROMETHEUS_URL: %q", c.PrometheusURL)
		}
	}
	switch c.OutputFormat {
	case "text", "json", "csv":
	default:
		return fmt.Errorf("output format must be text, json, or csv")
	}

	rates := map[string]float64{
		"MEMORY_COST_PER_GB":  c.MemoryCostPerGiB,
		"CPU_COST_PER_CORE":   c.CPUCostPerCore,
		"STORAGE_COST_PER_GB": c.StorageCostPerGBMonth,
		"LOAD_BALANCER_COST":  c.LoadBalancerMonthly,
	}
	for key, rate := range rates {
		if rate < 0 {
			return fmt.Errorf("%s must be >= 0", key)
		}
	}
	return nil
}
