package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/opscart/k8s-waste-estimator/pkg/models"
)

//go:embed migrations/*.sql
var postgresFS embed.FS

// PostgresStore implements Store interface using PostgreSQL
type PostgresStore struct {
	db  *sql.DB
	dsn string
}

// NewPostgresStore creates a new PostgreSQL store
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{
		db:  db,
		dsn: dsn,
	}

	if err := store.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// migrate runs database migrations
func (s *PostgresStore) migrate(ctx context.Context) error {
	schema, err := postgresFS.ReadFile("migrations/001_postgres_schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, string(schema)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

// SaveReport stores a report row and returns its ID
func (s *PostgresStore) SaveReport(ctx context.Context, report *models.Report) (string, error) {
	id := report.ID
	if id == "" {
		id = uuid.New().String()
	}
	createdAt := report.Timestamp
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	var topOffender sql.NullString
	var topCost sql.NullFloat64
	if top := report.TopOffender; top != nil {
		topOffender = sql.NullString{String: top.Namespace + "/" + top.Name, Valid: true}
		topCost = sql.NullFloat64{Float64: top.TotalWasteCost, Valid: true}
	}

	query := `
		INSERT INTO waste_reports (
			id, context_hash, provider, region, pod_count, node_count,
			mode, outcome, monthly_waste_usd, annual_savings_usd,
			memory_waste_usd, cpu_waste_usd, storage_waste_usd, load_balancer_waste_usd,
			pods_over_provisioned, pods_no_requests, orphaned_load_balancers, unbound_storage_gb,
			top_offender, top_offender_usd, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`

	_, err := s.db.ExecContext(ctx, query,
		id, report.Cluster.ContextHash, report.Cluster.Provider, report.Cluster.Region,
		report.Cluster.PodCount, report.Cluster.NodeCount,
		string(report.Mode), string(report.Outcome), report.MonthlyWaste, report.AnnualSavings,
		report.Breakdown.Memory, report.Breakdown.CPU, report.Breakdown.Storage, report.Breakdown.LoadBalancers,
		report.Details.PodsOverProvisioned, report.Details.PodsNoRequests,
		report.Details.OrphanedLoadBalancers, report.Details.UnboundStorageGB,
		topOffender, topCost, createdAt,
	)
	if err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}

	return id, nil
}

const summaryColumns = `id, context_hash, mode, outcome, monthly_waste_usd, top_offender, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSummary(row rowScanner) (*models.ReportSummary, error) {
	var summary models.ReportSummary
	var mode, outcome string
	var topOffender sql.NullString

	err := row.Scan(
		&summary.ID, &summary.ContextHash, &mode, &outcome,
		&summary.MonthlyWaste, &topOffender, &summary.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	summary.Mode = models.Mode(mode)
	summary.Outcome = models.Outcome(outcome)
	summary.TopOffender = topOffender.String
	return &summary, nil
}

// GetReport retrieves a report summary by ID
func (s *PostgresStore) GetReport(ctx context.Context, id string) (*models.ReportSummary, error) {
	query := `SELECT ` + summaryColumns + ` FROM waste_reports WHERE id = $1`

	summary, err := scanSummary(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("report not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// ListReports retrieves the latest reports; an empty context hash lists all clusters
func (s *PostgresStore) ListReports(ctx context.Context, contextHash string, limit int) ([]*models.ReportSummary, error) {
	query := `
		SELECT ` + summaryColumns + `
		FROM waste_reports
		WHERE $1 = '' OR context_hash = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, contextHash, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []*models.ReportSummary
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}

	return summaries, rows.Err()
}

// Ping checks database connectivity
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
