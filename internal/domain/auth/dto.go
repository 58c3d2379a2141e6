package auth

import (
	"strings"

	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/pkg/validator"
)

// SessionRequest selects the profile to act as by its employee code.
type SessionRequest struct {
	EmployeeID string `json:"employee_id"`
}

func (r *SessionRequest) Validate() error {
	var errs validator.ValidationErrors

	r.EmployeeID = strings.TrimSpace(r.EmployeeID)
	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}

	return errs.OrNil()
}

type SessionResponse struct {
	AccessToken          string                    `json:"access_token"`
	AccessTokenExpiresIn int64                     `json:"access_token_expires_in"`
	Profile              employee.EmployeeResponse `json:"profile"`
}

type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}
