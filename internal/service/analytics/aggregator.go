package analytics

import (
	"time"

	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/analytics"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

var msPerHour = decimal.NewFromInt(int64(time.Hour / time.Millisecond))

// HoursFromMs converts milliseconds to hours rounded to one decimal place.
func HoursFromMs(ms int64) decimal.Decimal {
	return decimal.NewFromInt(ms).DivRound(msPerHour, 1)
}

// Aggregate builds one metrics row per in-scope profile over q.Range, plus a
// roll-up. Profiles with no activity still get a zeroed row. Rows keep the
// order of snap.Profiles.
func Aggregate(snap analytics.Snapshot, q analytics.StatsQuery, loc *time.Location) analytics.StatsReport {
	report := analytics.StatsReport{
		Range:     q.Range,
		Rows:      []analytics.MetricsRow{},
		Anomalies: []analytics.Anomaly{},
		Rollup:    analytics.Rollup{TotalHours: decimal.Zero},
	}

	eventsByUser := make(map[string][]attendance.AttendanceEvent)
	for _, e := range snap.Events {
		eventsByUser[e.UserID] = append(eventsByUser[e.UserID], e)
	}

	leaveCount := make(map[string]int)
	for _, l := range snap.Leaves {
		if l.IsApproved() && q.Range.Contains(l.StartDate) {
			leaveCount[l.UserID]++
		}
	}

	pendingTasks := make(map[string]int)
	for _, t := range snap.Tasks {
		if t.IsPending() {
			pendingTasks[t.UserID]++
		}
	}

	for _, p := range snap.Profiles {
		if !inScope(p, q) {
			continue
		}

		sessions := Reconstruct(p.ID, eventsByUser[p.ID], q.Range, loc)
		row := analytics.MetricsRow{
			UserID:           p.ID,
			Name:             p.Name,
			EmployeeID:       p.EmployeeID,
			Branch:           p.Branch,
			Position:         p.Position,
			DaysPresent:      sessions.DaysPresent,
			TotalHours:       HoursFromMs(sessions.TotalDurationMs),
			LeaveCount:       leaveCount[p.ID],
			PendingTaskCount: pendingTasks[p.ID],
			AnomalyCount:     len(sessions.Anomalies),
			OpenSessions:     countOpen(sessions.Sessions),
		}
		report.Rows = append(report.Rows, row)
		report.Anomalies = append(report.Anomalies, sessions.Anomalies...)
		report.Malformed += sessions.Malformed

		report.Rollup.Employees++
		report.Rollup.DaysPresent += row.DaysPresent
		report.Rollup.TotalHours = report.Rollup.TotalHours.Add(row.TotalHours)
		report.Rollup.LeaveCount += row.LeaveCount
		report.Rollup.PendingTaskCount += row.PendingTaskCount
		report.Rollup.AnomalyCount += row.AnomalyCount
	}

	return report
}

func inScope(p employee.EmployeeProfile, q analytics.StatsQuery) bool {
	if !q.IncludeManagers && p.Role != employee.RoleEmployee {
		return false
	}
	if q.Branch != "" && q.Branch != "all" && p.Branch != q.Branch {
		return false
	}
	return true
}

func countOpen(sessions []analytics.WorkSession) int {
	n := 0
	for _, s := range sessions {
		if s.IsOpen() {
			n++
		}
	}
	return n
}
