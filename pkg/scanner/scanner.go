package scanner

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
	metricsv "k8s.io/metrics/pkg/client/clientset/versioned"

	"github.com/opscart/k8s-waste-estimator/pkg/analyzer"
	"github.com/opscart/k8s-waste-estimator/pkg/datasource"
)

// Scanner fetches the cluster snapshot the engine analyzes
type Scanner struct {
	clientset     kubernetes.Interface
	metricsClient metricsv.Interface
	contextName   string
}

// New loads the kubeconfig (KUBECONFIG rules, then ~/.kube/config) and
// builds the core and metrics clients for its current context.
func New(kubeconfig, kubeContext string) (*Scanner, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if kubeconfig != "" {
		rules.ExplicitPath = kubeconfig
	}
	overrides := &clientcmd.ConfigOverrides{CurrentContext: kubeContext}
	loader := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, overrides)

	raw, err := loader.RawConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig: %w", err)
	}
	contextName := raw.CurrentContext
	if kubeContext != "" {
		contextName = kubeContext
	}

	config, err := loader.ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to build config: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset: %w", err)
	}

	metricsClient, err := metricsv.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics client: %w", err)
	}

	return NewWithClients(clientset, metricsClient, contextName), nil
}

// NewWithClients wires existing clients, e.g. fakes in tests
func NewWithClients(clientset kubernetes.Interface, metricsClient metricsv.Interface, contextName string) *Scanner {
	return &Scanner{
		clientset:     clientset,
		metricsClient: metricsClient,
		contextName:   contextName,
	}
}

// MetricsServer returns the metrics.k8s.io usage source for this cluster
func (s *Scanner) MetricsServer() *datasource.MetricsServerSource {
	return datasource.NewMetricsServerSource(s.metricsClient)
}

// Snapshot lists pods, nodes, volumes and services. An empty namespace
// scans all namespaces. A nil or failing usage source leaves the snapshot
// without metrics so the run falls back to limit-based analysis.
func (s *Scanner) Snapshot(ctx context.Context, namespace string, usage datasource.UsageSource) (*analyzer.Snapshot, error) {
	version, err := s.clientset.Discovery().ServerVersion()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to cluster: %w", err)
	}
	log.Info().Str("version", version.GitVersion).Msg("Connected to cluster")

	if namespace == metav1.NamespaceAll {
		log.Info().Msg("Scanning all namespaces")
	} else {
		log.Info().Str("namespace", namespace).Msg("Scanning namespace")
	}

	pods, err := s.clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list pods: %w", err)
	}

	nodes, err := s.clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}

	volumes, err := s.clientset.CoreV1().PersistentVolumes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list persistent volumes: %w", err)
	}

	services, err := s.clientset.CoreV1().Services(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}

	snap := &analyzer.Snapshot{
		ContextName:       s.contextName,
		Pods:              pods.Items,
		Nodes:             nodes.Items,
		PersistentVolumes: volumes.Items,
		Services:          services.Items,
	}

	if usage == nil {
		return snap, nil
	}

	table, err := usage.UsageTable(ctx, namespace)
	if err != nil {
		log.Warn().Err(err).Str("source", usage.Name()).Msg("Usage metrics unavailable, falling back to limit-based analysis")
		return snap, nil
	}
	snap.Usage = table
	snap.MetricsAvailable = true
	log.Info().Str("source", usage.Name()).Int("pods", len(table)).Msg("Loaded usage metrics")

	return snap, nil
}
