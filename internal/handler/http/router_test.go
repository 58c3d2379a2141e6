package http

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/analytics"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/auth"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/leave"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/task"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/pkg/sse"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "test-secret-key-for-jwt"

var (
	managerProfile  = employee.EmployeeProfile{ID: "u-mgr", Name: "Maya", EmployeeID: "EMP-001", Branch: "Jakarta", Role: employee.RoleManager}
	employeeProfile = employee.EmployeeProfile{ID: "u-emp", Name: "Budi", EmployeeID: "EMP-002", Branch: "Jakarta", Role: employee.RoleEmployee}
)

// Service fakes. Embedding the interface leaves unused methods nil.

type fakeAuthService struct {
	auth.AuthService
	jwt jwt.Service
}

func (f *fakeAuthService) StartSession(_ context.Context, req auth.SessionRequest) (auth.SessionResponse, error) {
	if req.EmployeeID != managerProfile.EmployeeID {
		return auth.SessionResponse{}, auth.ErrUnknownEmployee
	}
	token, exp, err := f.jwt.GenerateAccessToken(managerProfile)
	if err != nil {
		return auth.SessionResponse{}, err
	}
	return auth.SessionResponse{AccessToken: token, AccessTokenExpiresIn: exp, Profile: employee.NewEmployeeResponse(managerProfile, 0)}, nil
}

func (f *fakeAuthService) Me(_ context.Context, userID string) (employee.EmployeeResponse, error) {
	return employee.EmployeeResponse{ID: userID}, nil
}

func (f *fakeAuthService) EndSession(_ context.Context, token string) error {
	f.jwt.RevokeToken(token, time.Now().Add(time.Hour).Unix())
	return nil
}

type fakeLeaveService struct {
	leave.LeaveRequestService
	approveErr error
}

func (f *fakeLeaveService) Approve(_ context.Context, id string) (leave.LeaveRequestResponse, error) {
	return leave.LeaveRequestResponse{ID: id, Status: string(leave.LeaveRequestStatusApproved)}, f.approveErr
}

func (f *fakeLeaveService) Submit(_ context.Context, userID string, req leave.CreateLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return leave.LeaveRequestResponse{ID: "lr-1", UserID: userID, Type: req.Type, Status: "pending"}, nil
}

type fakeTaskService struct {
	task.TaskService
}

func (f *fakeTaskService) Toggle(_ context.Context, id string, actorID string, actorIsManager bool) (task.TaskResponse, error) {
	if !actorIsManager && actorID != "owner" {
		return task.TaskResponse{}, task.ErrTaskForbidden
	}
	return task.TaskResponse{ID: id, Status: "completed"}, nil
}

type fakeAttendanceService struct {
	attendance.AttendanceService
	recordedFor string
}

func (f *fakeAttendanceService) Record(_ context.Context, userID string, req attendance.RecordAttendanceRequest) (attendance.AttendanceEventResponse, error) {
	f.recordedFor = userID
	return attendance.AttendanceEventResponse{ID: "a-1", UserID: userID, Type: req.Type}, nil
}

type fakeEmployeeService struct {
	employee.EmployeeService
}

func (f *fakeEmployeeService) ListBranches(context.Context) ([]string, error) {
	return []string{"Bandung", "Jakarta"}, nil
}

type fakeAnalyticsService struct {
	analytics.AnalyticsService
	lastFilter analytics.StatsFilter
}

func (f *fakeAnalyticsService) Stats(_ context.Context, filter analytics.StatsFilter) (analytics.StatsResponse, error) {
	f.lastFilter = filter
	return analytics.StatsResponse{StartDate: filter.StartDate, EndDate: filter.EndDate}, nil
}

func (f *fakeAnalyticsService) ExportStats(_ context.Context, _ analytics.StatsFilter, format string) (analytics.ExportFile, error) {
	if format != "csv" {
		return analytics.ExportFile{}, analytics.ErrUnsupportedExportFormat
	}
	return analytics.ExportFile{Filename: "stats.csv", ContentType: "text/csv", Content: []byte("a,b\n")}, nil
}

type testServer struct {
	router     http.Handler
	jwt        *jwt.JWTService
	hub        *sse.Hub
	leave      *fakeLeaveService
	attendance *fakeAttendanceService
	analytics  *fakeAnalyticsService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	jwtService := jwt.NewJWTService(handlerTestSecret, time.Hour)
	hub := sse.NewHub()
	s := &testServer{
		jwt:        jwtService,
		hub:        hub,
		leave:      &fakeLeaveService{},
		attendance: &fakeAttendanceService{},
		analytics:  &fakeAnalyticsService{},
	}
	s.router = NewRouter(jwtService, Handlers{
		Auth:       NewAuthHandler(&fakeAuthService{jwt: jwtService}),
		Employee:   NewEmployeeHandler(&fakeEmployeeService{}),
		Attendance: NewAttendanceHandler(s.attendance),
		Leave:      NewLeaveHandler(s.leave),
		Task:       NewTaskHandler(&fakeTaskService{}),
		Analytics:  NewAnalyticsHandler(s.analytics),
		Events:     NewEventsHandler(hub, jwtService),
	}, RouterOptions{AllowedOrigins: []string{"*"}, Metrics: metrics.New()})
	return s
}

func (s *testServer) token(t *testing.T, p employee.EmployeeProfile) string {
	t.Helper()
	token, _, err := s.jwt.GenerateAccessToken(p)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func TestRouter_RequiresAuthentication(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/v1/attendance/today", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/attendance/today", "not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_SSETokenIsNotAnAccessToken(t *testing.T) {
	s := newTestServer(t)
	sseToken, _, err := s.jwt.GenerateSSEToken(employeeProfile.ID)
	require.NoError(t, err)

	rec := s.do(http.MethodGet, "/api/v1/auth/me", sseToken, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_SessionLifecycle(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/v1/auth/session", "", `{"employee_id":"EMP-404"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/auth/session", "", `{"employee_id":"EMP-001"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var session auth.SessionResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &session))
	require.NotEmpty(t, session.AccessToken)

	rec = s.do(http.MethodGet, "/api/v1/auth/me", session.AccessToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var me employee.EmployeeResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &me))
	assert.Equal(t, managerProfile.ID, me.ID)

	rec = s.do(http.MethodPost, "/api/v1/auth/logout", session.AccessToken, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/auth/me", session.AccessToken, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_ManagerRoutes(t *testing.T) {
	s := newTestServer(t)
	emp := s.token(t, employeeProfile)
	mgr := s.token(t, managerProfile)

	paths := []string{
		"/api/v1/employees/branches",
		"/api/v1/analytics/stats",
		"/api/v1/leave",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			rec := s.do(http.MethodGet, path, emp, "")
			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.Equal(t, "FORBIDDEN", decodeEnvelope(t, rec).Error.Code)
		})
	}

	rec := s.do(http.MethodGet, "/api/v1/employees/branches", mgr, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var branches []string
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &branches))
	assert.Equal(t, []string{"Bandung", "Jakarta"}, branches)
}

func TestRouter_RecordAttendanceUsesCaller(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/v1/attendance", s.token(t, employeeProfile), `{"type":"check-in"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, employeeProfile.ID, s.attendance.recordedFor)

	rec = s.do(http.MethodPost, "/api/v1/attendance", s.token(t, employeeProfile), `{"type":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_ErrorMapping(t *testing.T) {
	s := newTestServer(t)
	emp := s.token(t, employeeProfile)
	mgr := s.token(t, managerProfile)

	t.Run("validation", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/api/v1/leave", emp, `{"type":"Holiday","start_date":"2024-03-02","end_date":"2024-03-01"}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
		assert.Contains(t, env.Error.Details, "type")
	})

	t.Run("already processed", func(t *testing.T) {
		s.leave.approveErr = leave.ErrLeaveRequestAlreadyProcessed
		defer func() { s.leave.approveErr = nil }()

		rec := s.do(http.MethodPost, "/api/v1/leave/lr-1/approve", mgr, "")
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("forbidden toggle", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/api/v1/tasks/t-1/toggle", emp, "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unsupported export", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/api/v1/analytics/stats/export?format=xlsx", mgr, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRouter_StatsQuery(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/v1/analytics/stats?start_date=2024-03-01&end_date=2024-03-31&branch=Jakarta&sort_by=total_hours&sort_order=asc&page=2&include_managers=true", s.token(t, managerProfile), "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, analytics.StatsFilter{
		StartDate:       "2024-03-01",
		EndDate:         "2024-03-31",
		Branch:          "Jakarta",
		SortBy:          "total_hours",
		SortOrder:       "asc",
		Page:            2,
		IncludeManagers: true,
	}, s.analytics.lastFilter)
}

func TestRouter_ExportWritesAttachment(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/v1/analytics/stats/export?format=csv", s.token(t, managerProfile), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="stats.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "a,b\n", rec.Body.String())
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodGet, "/api/v1/employees/branches", s.token(t, managerProfile), "")

	rec := s.do(http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `path="/api/v1/employees/branches"`)
}

func TestEventsStream(t *testing.T) {
	s := newTestServer(t)
	handler := NewEventsHandler(s.hub, s.jwt)

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.Stream(rec, httptest.NewRequest(http.MethodGet, "/api/v1/events/stream", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("access token rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.Stream(rec, httptest.NewRequest(http.MethodGet, "/api/v1/events/stream?token="+s.token(t, employeeProfile), nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("relays hub events", func(t *testing.T) {
		token, _, err := s.jwt.GenerateSSEToken(employeeProfile.ID)
		require.NoError(t, err)

		srv := httptest.NewServer(http.HandlerFunc(handler.Stream))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"?token="+token, nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
		reader := bufio.NewReader(resp.Body)
		assert.Equal(t, "event: connected", readEventName(t, reader))

		s.hub.Broadcast(sse.Event{Event: "change", Data: map[string]string{"collection": "tasks"}})
		assert.Equal(t, "event: change", readEventName(t, reader))
		data, err := reader.ReadString('\n')
		require.NoError(t, err)
		assert.Equal(t, "data: {\"collection\":\"tasks\"}\n", data)

		cancel()
		require.Eventually(t, func() bool {
			return s.hub.SubscriberCount(employeeProfile.ID) == 0
		}, time.Second, 5*time.Millisecond)
	})
}

// readEventName skips blank and data lines up to the next event line.
func readEventName(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimSuffix(line, "\n")
		if strings.HasPrefix(line, "event: ") {
			return line
		}
	}
}

func TestCurrentUserRequiresClaims(t *testing.T) {
	r := chi.NewRouter()
	h := NewAttendanceHandler(&fakeAttendanceService{})
	r.Get("/today", h.Today)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/today", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
