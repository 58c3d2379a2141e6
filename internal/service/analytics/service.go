package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/analytics"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/leave"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/task"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/pkg/export"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/pkg/projector"
)

type AnalyticsServiceImpl struct {
	loader     analytics.SnapshotLoader
	employees  employee.EmployeeRepository
	attendance attendance.AttendanceRepository
	leaves     leave.LeaveRequestRepository
	tasks      task.TaskRepository
	metrics    *metrics.Metrics
	loc        *time.Location
	now        func() time.Time
}

type Option func(*AnalyticsServiceImpl)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *AnalyticsServiceImpl) {
		s.now = now
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *AnalyticsServiceImpl) {
		s.metrics = m
	}
}

func NewAnalyticsService(
	loader analytics.SnapshotLoader,
	employees employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	leaves leave.LeaveRequestRepository,
	tasks task.TaskRepository,
	loc *time.Location,
	opts ...Option,
) analytics.AnalyticsService {
	if loc == nil {
		loc = time.UTC
	}
	s := &AnalyticsServiceImpl{
		loader:     loader,
		employees:  employees,
		attendance: attendanceRepo,
		leaves:     leaves,
		tasks:      tasks,
		loc:        loc,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AnalyticsServiceImpl) today() time.Time {
	return s.now().In(s.loc)
}

// Stats implements analytics.AnalyticsService.
func (s *AnalyticsServiceImpl) Stats(ctx context.Context, filter analytics.StatsFilter) (analytics.StatsResponse, error) {
	report, q, err := s.statsReport(ctx, filter)
	if err != nil {
		return analytics.StatsResponse{}, err
	}
	q.Page = filter.Page
	return newStatsResponse(report, projector.Project(report.Rows, statsSchema, q)), nil
}

// ExportStats implements analytics.AnalyticsService.
func (s *AnalyticsServiceImpl) ExportStats(ctx context.Context, filter analytics.StatsFilter, format string) (analytics.ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = export.FormatCSV
	}
	if format != export.FormatCSV && format != export.FormatPDF {
		return analytics.ExportFile{}, analytics.ErrUnsupportedExportFormat
	}

	report, q, err := s.statsReport(ctx, filter)
	if err != nil {
		return analytics.ExportFile{}, err
	}
	table := statsTable(report, allRows(report.Rows, q))
	filename := fmt.Sprintf("attendance-stats_%s_%s.%s", report.Range.Start, report.Range.End, format)

	if format == export.FormatPDF {
		content, err := export.RenderPDF(table)
		if err != nil {
			return analytics.ExportFile{}, fmt.Errorf("failed to render stats pdf: %w", err)
		}
		return analytics.ExportFile{Filename: filename, ContentType: "application/pdf", Content: content}, nil
	}

	content, err := export.RenderCSV(table)
	if err != nil {
		return analytics.ExportFile{}, fmt.Errorf("failed to render stats csv: %w", err)
	}
	return analytics.ExportFile{Filename: filename, ContentType: "text/csv; charset=utf-8", Content: content}, nil
}

func (s *AnalyticsServiceImpl) statsReport(ctx context.Context, filter analytics.StatsFilter) (analytics.StatsReport, projector.Query, error) {
	started := time.Now()

	if err := filter.Validate(); err != nil {
		return analytics.StatsReport{}, projector.Query{}, err
	}
	def := analytics.MonthToDate(s.today())
	start, end := filter.StartDate, filter.EndDate
	if start == "" {
		start = def.Start
	}
	if end == "" {
		end = def.End
	}
	rng, err := analytics.NewDateRange(start, end)
	if err != nil {
		return analytics.StatsReport{}, projector.Query{}, err
	}

	snap, err := s.loader.Load(ctx)
	if err != nil {
		return analytics.StatsReport{}, projector.Query{}, fmt.Errorf("failed to load analytics snapshot: %w", err)
	}

	report := Aggregate(snap, analytics.StatsQuery{
		Range:           rng,
		Branch:          filter.Branch,
		IncludeManagers: filter.IncludeManagers,
	}, s.loc)
	s.observe("stats", report.Anomalies, report.Malformed, started)

	return report, projector.Query{
		Search:    filter.Search,
		SortBy:    filter.SortBy,
		SortOrder: filter.SortOrder,
	}, nil
}

// Evaluate implements analytics.AnalyticsService. The request is the whole
// input; nothing is read from storage.
func (s *AnalyticsServiceImpl) Evaluate(ctx context.Context, req analytics.EvaluateRequest) (analytics.StatsResponse, error) {
	started := time.Now()

	if err := req.Validate(); err != nil {
		return analytics.StatsResponse{}, err
	}

	report := Aggregate(req.Snapshot(), analytics.StatsQuery{
		Range:           analytics.DateRange{Start: req.StartDate, End: req.EndDate},
		Branch:          req.Branch,
		IncludeManagers: req.IncludeManagers,
	}, s.loc)
	s.observe("evaluate", report.Anomalies, report.Malformed, started)

	q := projector.Query{SortBy: "days_present", SortOrder: projector.SortDesc, Page: 1}
	if req.Sort != nil {
		if req.Sort.Key != "" {
			q.SortBy = req.Sort.Key
		}
		q.SortOrder = req.Sort.Order
		q.Page = req.Sort.Page
	}
	return newStatsResponse(report, projector.Project(report.Rows, statsSchema, q)), nil
}

// Digest implements analytics.AnalyticsService.
func (s *AnalyticsServiceImpl) Digest(ctx context.Context) (analytics.DigestResult, error) {
	started := time.Now()

	snap, err := s.loader.Load(ctx)
	if err != nil {
		return analytics.DigestResult{}, fmt.Errorf("failed to load analytics snapshot: %w", err)
	}

	rng := analytics.DayRange(s.today())
	report := Aggregate(snap, analytics.StatsQuery{Range: rng, IncludeManagers: true}, s.loc)
	s.observe("digest", nil, 0, started)

	result := analytics.DigestResult{
		Date:      rng.Start,
		Employees: len(report.Rows),
		Anomalies: make(map[analytics.AnomalyKind]int),
		Malformed: report.Malformed,
	}
	for _, row := range report.Rows {
		result.OpenSessions += row.OpenSessions
	}
	byKind := anomaliesByKind(report.Anomalies)
	for kind, n := range byKind {
		result.Anomalies[analytics.AnomalyKind(kind)] = n
	}
	s.metrics.SetDigest(result.OpenSessions, byKind)

	slog.Info("Attendance anomaly digest",
		"date", result.Date,
		"employees", result.Employees,
		"open_sessions", result.OpenSessions,
		"superseded_check_ins", byKind[string(analytics.AnomalySupersededCheckIn)],
		"stray_check_outs", byKind[string(analytics.AnomalyStrayCheckOut)],
		"malformed_records", result.Malformed,
	)
	return result, nil
}

func (s *AnalyticsServiceImpl) observe(operation string, anomalies []analytics.Anomaly, malformed int, started time.Time) {
	s.metrics.ObserveComputation(operation, time.Since(started))
	for kind, n := range anomaliesByKind(anomalies) {
		s.metrics.AddAnomalies(kind, n)
	}
	s.metrics.AddMalformed(malformed)
}
