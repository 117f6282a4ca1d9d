package models

import "time"

// ClusterInfo describes the scanned cluster
type ClusterInfo struct {
	ContextHash string
	Provider    string
	Region      string
	PodCount    int
	NodeCount   int
}

// IssueDetails counts the issues behind the waste figures
type IssueDetails struct {
	PodsOverProvisioned   int
	PodsNoRequests        int
	OrphanedLoadBalancers int
	UnboundStorageGB      float64
}

// Report is the result of one analysis pass
type Report struct {
	ID        string
	Timestamp time.Time
	Cluster   ClusterInfo
	Mode      Mode
	Outcome   Outcome

	MonthlyWaste  float64
	AnnualSavings float64
	Breakdown     CategoryTotals

	TopOffender *PodFinding
	Details     IssueDetails
}

// ReportSummary is a persisted report row
type ReportSummary struct {
	ID           string
	ContextHash  string
	Mode         Mode
	Outcome      Outcome
	MonthlyWaste float64
	TopOffender  string
	CreatedAt    time.Time
}
