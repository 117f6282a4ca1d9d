package datasource

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/opscart/k8s-waste-estimator/pkg/models"
)

// UsageSource supplies the per-pod usage table for a run
type UsageSource interface {
	UsageTable(ctx context.Context, namespace string) (models.UsageTable, error)
	IsAvailable(ctx context.Context) bool
	Name() string
}

type Config struct {
	PrometheusURL string
	UsePrometheus bool
	// Timeout bounds each availability probe
	Timeout time.Duration
}

// Select returns the usage source for a run: Prometheus when requested and
// reachable, then the fallback (metrics-server), then nil for limit-based runs.
func Select(ctx context.Context, cfg Config, fallback UsageSource) UsageSource {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	if cfg.UsePrometheus {
		if source := selectPrometheus(ctx, cfg); source != nil {
			return source
		}
	}

	if fallback == nil {
		return nil
	}
	probeCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if !fallback.IsAvailable(probeCtx) {
		log.Warn().Str("source", fallback.Name()).Msg("Usage source not available, using limit-based analysis")
		return nil
	}
	return fallback
}

func selectPrometheus(ctx context.Context, cfg Config) UsageSource {
	if cfg.PrometheusURL == "" {
		log.Info().Msg("PROMETHEUS_URL not configured, using metrics-server")
		return nil
	}

	prom, err := NewPrometheusSource(cfg.PrometheusURL)
	if err != nil {
		log.Warn().Err(err).Msg("Prometheus initialization failed, falling back to metrics-server")
		return nil
	}

	probeCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if !prom.IsAvailable(probeCtx) {
		log.Warn().Str("url", cfg.PrometheusURL).Msg("Prometheus not reachable, falling back to metrics-server")
		return nil
	}

	log.Info().Str("url", cfg.PrometheusURL).Msg("Using Prometheus")
	return prom
}

const bytesPerMiB = 1024 * 1024

// formatSample renders usage the way `kubectl top` does, millicores and Mi
func formatSample(milliCores, memoryBytes int64) models.UsageSample {
	return models.UsageSample{
		CPU:    fmt.Sprintf("%dm", milliCores),
		Memory: fmt.Sprintf("%dMi", memoryBytes/bytesPerMiB),
	}
}
