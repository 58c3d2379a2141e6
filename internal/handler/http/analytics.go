package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/analytics"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

// maxEvaluateBody bounds the snapshot a caller may post for evaluation.
const maxEvaluateBody = 10 << 20

type AnalyticsHandler interface {
	Stats(w http.ResponseWriter, r *http.Request)
	ExportStats(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	DailyStatus(w http.ResponseWriter, r *http.Request)
	MyDashboard(w http.ResponseWriter, r *http.Request)
	Evaluate(w http.ResponseWriter, r *http.Request)
}

type AnalyticsHandlerImpl struct {
	analyticsService analytics.AnalyticsService
}

func NewAnalyticsHandler(analyticsService analytics.AnalyticsService) AnalyticsHandler {
	return &AnalyticsHandlerImpl{analyticsService: analyticsService}
}

func statsFilterFromQuery(r *http.Request) analytics.StatsFilter {
	q := r.URL.Query()
	return analytics.StatsFilter{
		StartDate:       q.Get("start_date"),
		EndDate:         q.Get("end_date"),
		Branch:          q.Get("branch"),
		Search:          q.Get("search"),
		SortBy:          q.Get("sort_by"),
		SortOrder:       q.Get("sort_order"),
		Page:            getIntQueryParam(r, "page", 1),
		IncludeManagers: getBoolQueryParam(r, "include_managers", false),
	}
}

// Stats implements AnalyticsHandler.
func (a *AnalyticsHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.analyticsService.Stats(r.Context(), statsFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}

// ExportStats implements AnalyticsHandler.
func (a *AnalyticsHandlerImpl) ExportStats(w http.ResponseWriter, r *http.Request) {
	file, err := a.analyticsService.ExportStats(r.Context(), statsFilterFromQuery(r), r.URL.Query().Get("format"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, file.Filename, file.ContentType, file.Content)
}

// History implements AnalyticsHandler.
func (a *AnalyticsHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	filter := analytics.HistoryFilter{
		Period: r.URL.Query().Get("period"),
		Date:   r.URL.Query().Get("date"),
	}

	history, err := a.analyticsService.History(r.Context(), userID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, history)
}

// DailyStatus implements AnalyticsHandler.
func (a *AnalyticsHandlerImpl) DailyStatus(w http.ResponseWriter, r *http.Request) {
	status, err := a.analyticsService.DailyStatus(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, status)
}

// MyDashboard implements AnalyticsHandler.
func (a *AnalyticsHandlerImpl) MyDashboard(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}

	dashboard, err := a.analyticsService.Dashboard(r.Context(), claims.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, dashboard)
}

// Evaluate implements AnalyticsHandler.
func (a *AnalyticsHandlerImpl) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req analytics.EvaluateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEvaluateBody)).Decode(&req); err != nil {
		slog.Error("Evaluate decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	stats, err := a.analyticsService.Evaluate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}
