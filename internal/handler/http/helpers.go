package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/workforce-analytics-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/handler/http/response"
)

// currentUser returns the caller, writing 401 when the request is unauthenticated.
func currentUser(w http.ResponseWriter, r *http.Request) (middleware.Claims, bool) {
	claims, ok := middleware.CurrentUser(r.Context())
	if !ok || claims.UserID == "" {
		response.Unauthorized(w, "Unauthorized")
		return middleware.Claims{}, false
	}
	return claims, true
}

// getIntQueryParam gets an int query parameter with a default value
func getIntQueryParam(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

// getBoolQueryParam gets a bool query parameter with a default value
func getBoolQueryParam(r *http.Request, key string, defaultVal bool) bool {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	return val == "true" || val == "1"
}
