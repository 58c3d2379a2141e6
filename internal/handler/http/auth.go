package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/auth"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/handler/http/response"
)

type AuthHandler interface {
	StartSession(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
	EndSession(w http.ResponseWriter, r *http.Request)
	SSEToken(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	authService auth.AuthService
}

func NewAuthHandler(authService auth.AuthService) AuthHandler {
	return &AuthHandlerImpl{authService: authService}
}

// StartSession implements AuthHandler.
func (a *AuthHandlerImpl) StartSession(w http.ResponseWriter, r *http.Request) {
	var req auth.SessionRequest

	// 1. Decode JSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("StartSession decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	// 2. Validate DTO
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	// 3. Call service
	session, err := a.authService.StartSession(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Session started", session)
}

// Me implements AuthHandler.
func (a *AuthHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}

	profile, err := a.authService.Me(r.Context(), claims.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, profile)
}

// EndSession implements AuthHandler.
func (a *AuthHandlerImpl) EndSession(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := a.authService.EndSession(r.Context(), claims.Token); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Session ended", nil)
}

// SSEToken implements AuthHandler.
func (a *AuthHandlerImpl) SSEToken(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}

	token, err := a.authService.IssueSSEToken(r.Context(), claims.UserID)
	if err != nil {
		slog.Error("SSEToken service error", "error", err)
		response.InternalServerError(w, "Failed to generate SSE token")
		return
	}

	response.Success(w, token)
}
