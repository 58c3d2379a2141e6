package analytics

import (
	"fmt"
	"strconv"

	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/analytics"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/pkg/export"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/pkg/projector"
)

var statsSchema = projector.Schema[analytics.MetricsRow]{
	Search: []func(analytics.MetricsRow) string{
		func(r analytics.MetricsRow) string { return r.Name },
		func(r analytics.MetricsRow) string { return r.EmployeeID },
		func(r analytics.MetricsRow) string { return r.Branch },
		func(r analytics.MetricsRow) string { return r.Position },
	},
	Categories: map[string]func(analytics.MetricsRow) string{
		"branch":   func(r analytics.MetricsRow) string { return r.Branch },
		"position": func(r analytics.MetricsRow) string { return r.Position },
	},
	SortKeys: map[string]projector.SortKey[analytics.MetricsRow]{
		"name":        projector.TextKey(func(r analytics.MetricsRow) string { return r.Name }),
		"employee_id": projector.TextKey(func(r analytics.MetricsRow) string { return r.EmployeeID }),
		"branch":      projector.TextKey(func(r analytics.MetricsRow) string { return r.Branch }),
		"position":    projector.TextKey(func(r analytics.MetricsRow) string { return r.Position }),
		"days_present": projector.NumberKey(func(r analytics.MetricsRow) float64 {
			return float64(r.DaysPresent)
		}),
		"total_hours": projector.NumberKey(func(r analytics.MetricsRow) float64 {
			return r.TotalHours.InexactFloat64()
		}),
		"leave_count": projector.NumberKey(func(r analytics.MetricsRow) float64 {
			return float64(r.LeaveCount)
		}),
		"pending_task_count": projector.NumberKey(func(r analytics.MetricsRow) float64 {
			return float64(r.PendingTaskCount)
		}),
		"anomaly_count": projector.NumberKey(func(r analytics.MetricsRow) float64 {
			return float64(r.AnomalyCount)
		}),
	},
}

func newStatsResponse(report analytics.StatsReport, page projector.Page[analytics.MetricsRow]) analytics.StatsResponse {
	rows := make([]analytics.StatsRowResponse, 0, len(page.Items))
	for _, r := range page.Items {
		rows = append(rows, analytics.StatsRowResponse{
			UserID:           r.UserID,
			Name:             r.Name,
			EmployeeID:       r.EmployeeID,
			Branch:           r.Branch,
			Position:         r.Position,
			DaysPresent:      r.DaysPresent,
			TotalHours:       r.TotalHours.InexactFloat64(),
			LeaveCount:       r.LeaveCount,
			PendingTaskCount: r.PendingTaskCount,
			AnomalyCount:     r.AnomalyCount,
			OpenSessions:     r.OpenSessions,
		})
	}

	return analytics.StatsResponse{
		StartDate: report.Range.Start,
		EndDate:   report.Range.End,
		Rollup: analytics.RollupResponse{
			Employees:        report.Rollup.Employees,
			DaysPresent:      report.Rollup.DaysPresent,
			TotalHours:       report.Rollup.TotalHours.InexactFloat64(),
			LeaveCount:       report.Rollup.LeaveCount,
			PendingTaskCount: report.Rollup.PendingTaskCount,
			AnomalyCount:     report.Rollup.AnomalyCount,
		},
		AnomaliesByKind:  anomaliesByKind(report.Anomalies),
		MalformedRecords: report.Malformed,
		TotalCount:       page.TotalItems,
		Page:             page.Page,
		PageSize:         page.PageSize,
		TotalPages:       page.TotalPages,
		Showing:          page.Showing(),
		Rows:             rows,
	}
}

// allRows walks every page of the projection, keeping its order.
func allRows(rows []analytics.MetricsRow, q projector.Query) []analytics.MetricsRow {
	q.Page = 1
	first := projector.Project(rows, statsSchema, q)
	out := append([]analytics.MetricsRow{}, first.Items...)
	for p := 2; p <= first.TotalPages; p++ {
		q.Page = p
		out = append(out, projector.Project(rows, statsSchema, q).Items...)
	}
	return out
}

func statsTable(report analytics.StatsReport, rows []analytics.MetricsRow) export.Table {
	table := export.Table{
		Title:    "Attendance Stats",
		Subtitle: fmt.Sprintf("%s to %s", report.Range.Start, report.Range.End),
		Columns: []export.Column{
			{Header: "Employee", Weight: 2.5},
			{Header: "Employee ID", Weight: 1.5},
			{Header: "Branch", Weight: 1.5},
			{Header: "Position", Weight: 1.5},
			{Header: "Days Present", AlignRight: true},
			{Header: "Total Hours", AlignRight: true},
			{Header: "Leaves", AlignRight: true},
			{Header: "Pending Tasks", AlignRight: true},
			{Header: "Anomalies", AlignRight: true},
		},
		Rows: make([][]string, 0, len(rows)),
	}
	for _, r := range rows {
		table.Rows = append(table.Rows, []string{
			r.Name,
			r.EmployeeID,
			r.Branch,
			r.Position,
			strconv.Itoa(r.DaysPresent),
			r.TotalHours.StringFixed(1),
			strconv.Itoa(r.LeaveCount),
			strconv.Itoa(r.PendingTaskCount),
			strconv.Itoa(r.AnomalyCount),
		})
	}
	table.Totals = []string{
		fmt.Sprintf("Total (%d employees)", report.Rollup.Employees),
		"",
		"",
		"",
		strconv.Itoa(report.Rollup.DaysPresent),
		report.Rollup.TotalHours.StringFixed(1),
		strconv.Itoa(report.Rollup.LeaveCount),
		strconv.Itoa(report.Rollup.PendingTaskCount),
		strconv.Itoa(report.Rollup.AnomalyCount),
	}
	return table
}
