package analytics

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/analytics"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/leave"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/task"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/timestamp"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const recentActivityLimit = 5

// TodayStatus summarizes userID's events on the calendar date today.
// The caller is checked in when the last event of the day is a check-in.
func TodayStatus(events []attendance.AttendanceEvent, userID, today string, loc *time.Location) attendance.TodayAttendanceResponse {
	todays := make([]attendance.AttendanceEvent, 0)
	for _, e := range events {
		if e.UserID != userID {
			continue
		}
		t, ok := Normalize(e.Timestamp)
		if !ok || analytics.CalendarDate(t, loc) != today {
			continue
		}
		todays = append(todays, e)
	}
	OldestFirst(todays, func(e attendance.AttendanceEvent) timestamp.Raw { return e.Timestamp })

	resp := attendance.TodayAttendanceResponse{
		Date:       today,
		NextAction: string(attendance.EventCheckIn),
		Records:    make([]attendance.AttendanceEventResponse, 0, len(todays)),
	}
	for _, e := range todays {
		resp.Records = append(resp.Records, EventResponse(e, loc))
	}
	if n := len(todays); n > 0 && todays[n-1].Type == attendance.EventCheckIn {
		resp.IsCheckedIn = true
		resp.NextAction = string(attendance.EventCheckOut)
	}
	return resp
}

// History implements analytics.AnalyticsService.
func (s *AnalyticsServiceImpl) History(ctx context.Context, userID string, filter analytics.HistoryFilter) (analytics.HistoryResponse, error) {
	started := time.Now()

	if err := filter.Validate(); err != nil {
		return analytics.HistoryResponse{}, err
	}
	rng := s.periodRange(analytics.Period(filter.Period), filter.Date)

	profile, err := s.employees.GetByID(ctx, userID)
	if err != nil {
		return analytics.HistoryResponse{}, err
	}

	var events []attendance.AttendanceEvent
	var leaves []leave.LeaveRequest
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		events, err = s.attendance.ListByUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("load attendance: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		leaves, err = s.leaves.ListByUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("load leave requests: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return analytics.HistoryResponse{}, err
	}

	result := Reconstruct(userID, events, rng, s.loc)
	s.observe("history", result.Anomalies, result.Malformed, started)

	resp := analytics.HistoryResponse{
		UserID:           profile.ID,
		Name:             profile.Name,
		Branch:           profile.Branch,
		Position:         profile.Position,
		Period:           filter.Period,
		StartDate:        rng.Start,
		EndDate:          rng.End,
		DaysPresent:      result.DaysPresent,
		TotalHours:       hoursFloat(result.TotalDurationMs),
		AverageHours:     averageHours(result.TotalDurationMs, result.DaysPresent).InexactFloat64(),
		MalformedRecords: result.Malformed,
		Leaves:           []analytics.LeaveSummaryResponse{},
		Sessions:         sessionResponses(result.Sessions, s.loc),
		Anomalies:        anomalyResponses(result.Anomalies, s.loc),
		Records:          []attendance.AttendanceEventResponse{},
	}

	approved := make([]leave.LeaveRequest, 0)
	for _, l := range leaves {
		if l.IsApproved() && rng.Contains(l.StartDate) {
			approved = append(approved, l)
		}
	}
	slices.SortStableFunc(approved, func(a, b leave.LeaveRequest) int {
		return cmp.Compare(a.StartDate, b.StartDate)
	})
	for _, l := range approved {
		resp.Leaves = append(resp.Leaves, analytics.LeaveSummaryResponse{
			ID:        l.ID,
			Type:      l.Type,
			StartDate: l.StartDate,
			EndDate:   l.EndDate,
		})
	}
	resp.LeavesTaken = len(resp.Leaves)

	inRange := make([]attendance.AttendanceEvent, 0)
	for _, e := range events {
		if t, ok := Normalize(e.Timestamp); ok && rng.Contains(analytics.CalendarDate(t, s.loc)) {
			inRange = append(inRange, e)
		}
	}
	NewestFirst(inRange, func(e attendance.AttendanceEvent) timestamp.Raw { return e.Timestamp })
	for _, e := range inRange {
		resp.Records = append(resp.Records, EventResponse(e, s.loc))
	}

	return resp, nil
}

// averageHours is total hours per present day, rounded to one decimal place.
func averageHours(totalMs int64, daysPresent int) decimal.Decimal {
	if daysPresent == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(totalMs).Div(msPerHour).DivRound(decimal.NewFromInt(int64(daysPresent)), 1)
}

// periodRange resolves an already validated period and date. An empty date
// means the period containing today.
func (s *AnalyticsServiceImpl) periodRange(period analytics.Period, date string) analytics.DateRange {
	ref := s.today()
	switch period {
	case analytics.PeriodDaily:
		if t, ok := validator.IsValidDate(date); ok {
			ref = t
		}
		return analytics.DayRange(ref)
	case analytics.PeriodYearly:
		if t, ok := validator.IsValidYear(date); ok {
			ref = t
		}
		return analytics.YearRange(ref)
	default:
		if t, ok := validator.IsValidMonth(date); ok {
			ref = t
		}
		return analytics.MonthRange(ref)
	}
}

// DailyStatus implements analytics.AnalyticsService.
func (s *AnalyticsServiceImpl) DailyStatus(ctx context.Context, date string) (analytics.DailyStatusResponse, error) {
	started := time.Now()

	rng := analytics.DayRange(s.today())
	if date != "" {
		if _, ok := validator.IsValidDate(date); !ok {
			var errs validator.ValidationErrors
			errs.Add("date", "date must be in YYYY-MM-DD format")
			return analytics.DailyStatusResponse{}, errs
		}
		rng = analytics.DateRange{Start: date, End: date}
	}

	snap, err := s.loader.Load(ctx)
	if err != nil {
		return analytics.DailyStatusResponse{}, fmt.Errorf("failed to load analytics snapshot: %w", err)
	}

	firstCheckIn := make(map[string]time.Time)
	for _, e := range snap.Events {
		if e.Type != attendance.EventCheckIn {
			continue
		}
		t, ok := Normalize(e.Timestamp)
		if !ok || !rng.Contains(analytics.CalendarDate(t, s.loc)) {
			continue
		}
		if first, seen := firstCheckIn[e.UserID]; !seen || t.Before(first) {
			firstCheckIn[e.UserID] = t
		}
	}

	resp := analytics.DailyStatusResponse{
		Date:    rng.Start,
		Present: []analytics.DailyStatusEntry{},
		Absent:  []analytics.DailyStatusEntry{},
	}
	for _, p := range snap.Profiles {
		if p.Role != employee.RoleEmployee {
			continue
		}
		entry := analytics.DailyStatusEntry{
			UserID:   p.ID,
			Name:     p.Name,
			Branch:   p.Branch,
			Position: p.Position,
		}
		if t, ok := firstCheckIn[p.ID]; ok {
			ts := formatInstant(t, s.loc)
			entry.FirstCheckIn = &ts
			resp.Present = append(resp.Present, entry)
		} else {
			resp.Absent = append(resp.Absent, entry)
		}
	}
	slices.SortStableFunc(resp.Present, func(a, b analytics.DailyStatusEntry) int {
		return firstCheckIn[a.UserID].Compare(firstCheckIn[b.UserID])
	})
	slices.SortStableFunc(resp.Absent, func(a, b analytics.DailyStatusEntry) int {
		return cmp.Compare(a.Name, b.Name)
	})
	resp.PresentCount = len(resp.Present)
	resp.AbsentCount = len(resp.Absent)

	s.metrics.ObserveComputation("daily_status", time.Since(started))
	return resp, nil
}

// Dashboard implements analytics.AnalyticsService.
func (s *AnalyticsServiceImpl) Dashboard(ctx context.Context, userID string) (analytics.DashboardResponse, error) {
	profile, err := s.employees.GetByID(ctx, userID)
	if err != nil {
		return analytics.DashboardResponse{}, err
	}

	var (
		events    []attendance.AttendanceEvent
		tasks     []task.Task
		myLeaves  []leave.LeaveRequest
		allLeaves []leave.LeaveRequest
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		events, err = s.attendance.ListByUser(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		tasks, err = s.tasks.ListByUser(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		myLeaves, err = s.leaves.ListByUser(gctx, userID)
		return err
	})
	if profile.IsManager() {
		g.Go(func() error {
			var err error
			allLeaves, err = s.leaves.ListAll(gctx)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return analytics.DashboardResponse{}, fmt.Errorf("failed to load dashboard: %w", err)
	}

	today := analytics.CalendarDate(s.now(), s.loc)
	resp := analytics.DashboardResponse{
		Today:          TodayStatus(events, userID, today, s.loc),
		UpcomingTasks:  []task.TaskResponse{},
		RecentActivity: []attendance.AttendanceEventResponse{},
	}

	pending := make([]task.Task, 0)
	for _, t := range tasks {
		if t.IsPending() {
			pending = append(pending, t)
		}
	}
	NewestFirst(pending, func(t task.Task) timestamp.Raw { return t.CreatedAt })
	resp.PendingTasks = len(pending)
	for _, t := range pending[:min(len(pending), recentActivityLimit)] {
		resp.UpcomingTasks = append(resp.UpcomingTasks, TaskResponse(t, profile.Name, s.loc))
	}

	for _, l := range myLeaves {
		if l.IsApproved() {
			resp.ApprovedLeaveCount++
		}
	}

	recent := append([]attendance.AttendanceEvent{}, events...)
	NewestFirst(recent, func(e attendance.AttendanceEvent) timestamp.Raw { return e.Timestamp })
	for _, e := range recent[:min(len(recent), recentActivityLimit)] {
		resp.RecentActivity = append(resp.RecentActivity, EventResponse(e, s.loc))
	}

	if profile.IsManager() {
		n := 0
		for _, l := range allLeaves {
			if l.Status == leave.LeaveRequestStatusPending {
				n++
			}
		}
		resp.PendingLeaveRequests = &n
	}

	return resp, nil
}
