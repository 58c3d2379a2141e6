package auth

import (
	"context"

	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/employee"
)

type AuthService interface {
	// StartSession issues an access token for the profile with the given employee code
	StartSession(ctx context.Context, req SessionRequest) (SessionResponse, error)

	// Me returns the profile behind the current token
	Me(ctx context.Context, userID string) (employee.EmployeeResponse, error)

	// EndSession revokes the access token
	EndSession(ctx context.Context, token string) error

	IssueSSEToken(ctx context.Context, userID string) (SSETokenResponse, error)
}
