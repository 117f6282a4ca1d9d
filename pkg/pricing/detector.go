package pricing

import (
	"strings"

	corev1 "k8s.io/api/core/v1"
)

type cloudSignature struct {
	name          string
	idPrefix      string
	nodeLabel     string
	defaultRegion string
}

var clouds = []cloudSignature{
	{name: "azure", idPrefix: "azure://", nodeLabel: "kubernetes.azure.com/cluster", defaultRegion: "eastus"},
	{name: "aws", idPrefix: "aws://", nodeLabel: "eks.amazonaws.com/nodegroup", defaultRegion: "us-east-1"},
	{name: "gcp", idPrefix: "gce://", nodeLabel: "cloud.google.com/gke-nodepool", defaultRegion: "us-central1"},
}

// DetectProvider detects the cloud provider and region from the first node
func DetectProvider(nodes []corev1.Node) (string, string) {
	if len(nodes) == 0 {
		return "default", "unknown"
	}

	node := nodes[0]

	// Provider ID wins over labels
	if providerID := node.Spec.ProviderID; providerID != "" {
		for _, c := range clouds {
			if strings.HasPrefix(providerID, c.idPrefix) {
				return c.name, regionFromLabels(node.Labels, c.defaultRegion)
			}
		}
	}

	for _, c := range clouds {
		if _, exists := node.Labels[c.nodeLabel]; exists {
			return c.name, regionFromLabels(node.Labels, c.defaultRegion)
		}
	}

	return "default", "unknown"
}

func regionFromLabels(labels map[string]string, fallback string) string {
	if region, exists := labels["topology.kubernetes.io/region"]; exists {
		return region
	}
	if region, exists := labels["failure-domain.beta.kubernetes.io/region"]; exists {
		return region
	}
	return fallback
}
