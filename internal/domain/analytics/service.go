package analytics

import (
	"context"
)

// SnapshotLoader reads the collections an aggregation runs over.
type SnapshotLoader interface {
	Load(ctx context.Context) (Snapshot, error)
}

type AnalyticsService interface {
	// Stats aggregates every in-scope employee over the filter's range (manager only)
	Stats(ctx context.Context, filter StatsFilter) (StatsResponse, error)

	// ExportStats renders the full stats report as csv or pdf
	ExportStats(ctx context.Context, filter StatsFilter, format string) (ExportFile, error)

	// History summarizes one employee over a daily, monthly or yearly period
	History(ctx context.Context, userID string, filter HistoryFilter) (HistoryResponse, error)

	// DailyStatus splits employees into present and absent for a date
	DailyStatus(ctx context.Context, date string) (DailyStatusResponse, error)

	// Dashboard is the caller's own overview (any role)
	Dashboard(ctx context.Context, userID string) (DashboardResponse, error)

	// Evaluate runs the engine over a caller-supplied snapshot
	Evaluate(ctx context.Context, req EvaluateRequest) (StatsResponse, error)

	// Digest recomputes today's sessions for all employees
	Digest(ctx context.Context) (DigestResult, error)
}

type DigestResult struct {
	Date         string
	Employees    int
	OpenSessions int
	Anomalies    map[AnomalyKind]int
	Malformed    int
}
