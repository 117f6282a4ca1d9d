package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/opscart/k8s-waste-estimator/pkg/analyzer"
	"github.com/opscart/k8s-waste-estimator/pkg/config"
	"github.com/opscart/k8s-waste-estimator/pkg/datasource"
	"github.com/opscart/k8s-waste-estimator/pkg/logger"
	"github.com/opscart/k8s-waste-estimator/pkg/models"
	"github.com/opscart/k8s-waste-estimator/pkg/output"
	"github.com/opscart/k8s-waste-estimator/pkg/pricing"
	"github.com/opscart/k8s-waste-estimator/pkg/reporter"
	"github.com/opscart/k8s-waste-estimator/pkg/scanner"
	"github.com/opscart/k8s-waste-estimator/pkg/storage"
)

var (
	// Scan flags
	namespace     string
	allNamespaces bool
	outputFormat  string
	saveResults   bool
	usePrometheus bool
	kubeContext   string
	kubeconfig    string
	provider      string
	region        string
	outputFile    string
	verbose       bool

	// History flags
	historyLimit int
	historyHash  string

	cfg *config.Config
)

func main() {
	config.LoadEnv()
	cfg = config.NewConfig()

	rootCmd := &cobra.Command{
		Use:   "waste-scan",
		Short: "Estimate monthly resource waste in a Kubernetes cluster",
		Long: `Compare pod requests against live usage (or limits against requests when
no metrics are available), add unbound volumes and orphaned load balancers,
and report the estimated monthly waste.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Configure(cfg.LogLevel, verbose)
		},
		Run: runScan,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.Flags().StringVarP(&namespace, "namespace", "n", "", "Namespace to scan")
	rootCmd.Flags().BoolVarP(&allNamespaces, "all-namespaces", "A", false, "Scan all namespaces")
	rootCmd.Flags().StringVarP(&outputFormat, "output", "o", cfg.OutputFormat, "Output format: text, json, csv")
	rootCmd.Flags().StringVar(&outputFile, "output-file", "", "Write the report to a file instead of stdout")
	rootCmd.Flags().BoolVar(&saveResults, "save", false, "Save the report to the database")
	rootCmd.Flags().BoolVar(&usePrometheus, "use-prometheus", false, "Read usage from Prometheus instead of metrics-server")
	rootCmd.Flags().StringVar(&kubeContext, "context", cfg.KubeContext, "Kubeconfig context to use")
	rootCmd.Flags().StringVar(&kubeconfig, "kubeconfig", cfg.Kubeconfig, "Path to kubeconfig")
	rootCmd.Flags().StringVar(&provider, "provider", cfg.Provider, "Cloud provider label: azure, aws, gcp (auto-detect if empty)")
	rootCmd.Flags().StringVar(&region, "region", cfg.Region, "Cloud region label (auto-detect if empty)")

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List saved waste reports",
		Run:   runHistory,
	}
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Number of reports to show")
	historyCmd.Flags().StringVar(&historyHash, "context-hash", "", "Only show reports for this context hash")

	rootCmd.AddCommand(historyCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func runScan(cmd *cobra.Command, args []string) {
	if namespace == "" && !allNamespaces {
		fail("either --namespace or --all-namespaces must be specified")
	}
	if allNamespaces {
		namespace = metav1.NamespaceAll
	}

	cfg.OutputFormat = outputFormat
	cfg.Provider = provider
	cfg.Region = region
	cfg.StorageEnabled = cfg.StorageEnabled && saveResults
	if err := cfg.Validate(); err != nil {
		fail("%v", err)
	}
	format, err := reporter.ParseFormat(outputFormat)
	if err != nil {
		fail("%v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	scan, err := scanner.New(kubeconfig, kubeContext)
	if err != nil {
		fail("initializing scanner: %v", err)
	}

	usage := datasource.Select(ctx, datasource.Config{
		PrometheusURL: cfg.PrometheusURL,
		UsePrometheus: usePrometheus,
	}, scan.MetricsServer())

	snap, err := scan.Snapshot(ctx, namespace, usage)
	if err != nil {
		fail("%v", err)
	}

	costInfo, err := resolveCostInfo(ctx, snap)
	if err != nil {
		fail("%v", err)
	}

	report := analyzer.New(*costInfo).Run(snap)
	if cfg.Provider != "" {
		report.Cluster.Provider = costInfo.Provider
		report.Cluster.Region = costInfo.Region
	}

	if err := output.New(format, outputFile).Display(ctx, report); err != nil {
		fail("writing report: %v", err)
	}

	if saveResults {
		saveReport(ctx, report)
	}
}

func resolveCostInfo(ctx context.Context, snap *analyzer.Snapshot) (*models.CostInfo, error) {
	pc := cfg.PricingConfig()
	if pc.Provider == "" {
		pc.Provider, pc.Region = pricing.DetectProvider(snap.Nodes)
		log.Debug().Str("provider", pc.Provider).Str("region", pc.Region).Msg("Detected cloud provider")
	}

	p, err := pricing.NewProvider(pc)
	if err != nil {
		return nil, fmt.Errorf("failed to create pricing provider: %w", err)
	}
	costInfo, err := p.GetCostInfo(ctx, pc.Region)
	if err != nil {
		return nil, fmt.Errorf("failed to get cost info: %w", err)
	}
	return costInfo, nil
}

// saveReport persists a computed report; failures never affect the output already written
func saveReport(ctx context.Context, report *models.Report) {
	if !cfg.StorageEnabled {
		log.Warn().Msg("Storage disabled (STORAGE_ENABLED=false), report not saved")
		return
	}

	store, err := storage.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Warn().Err(err).Msg("Report not saved")
		return
	}
	defer store.Close()

	id, err := store.SaveReport(ctx, report)
	if err != nil {
		log.Warn().Err(err).Msg("Report not saved")
		return
	}
	log.Info().Str("id", id).Msg("Report saved")
}

func runHistory(cmd *cobra.Command, args []string) {
	if cfg.DatabaseURL == "" {
		fail("DATABASE_URL must be set to view history")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := storage.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		fail("%v", err)
	}
	defer store.Close()

	reports, err := store.ListReports(ctx, historyHash, historyLimit)
	if err != nil {
		fail("%v", err)
	}

	if len(reports) == 0 {
		fmt.Println("No saved reports")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tCONTEXT\tMODE\tOUTCOME\tMONTHLY WASTE\tTOP OFFENDER")
	for _, r := range reports {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t$%.2f\t%s\n",
			r.ID[:8], r.CreatedAt.Format("2006-01-02 15:04"), r.ContextHash,
			r.Mode, r.Outcome, r.MonthlyWaste, r.TopOffender)
	}
	w.Flush()
}
