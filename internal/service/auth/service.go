package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/auth"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/task"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/pkg/jwt"
)

type AuthServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	taskRepo     task.TaskRepository
	jwt.Service
}

func NewAuthService(employeeRepo employee.EmployeeRepository, taskRepo task.TaskRepository, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		employeeRepo: employeeRepo,
		taskRepo:     taskRepo,
		Service:      jwtService,
	}
}

// StartSession implements auth.AuthService. There are no credentials: picking
// a profile is the whole sign-in.
func (a *AuthServiceImpl) StartSession(ctx context.Context, req auth.SessionRequest) (auth.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.SessionResponse{}, err
	}

	profile, err := a.employeeRepo.GetByEmployeeCode(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.SessionResponse{}, auth.ErrUnknownEmployee
		}
		return auth.SessionResponse{}, fmt.Errorf("failed to get employee by code: %w", err)
	}

	token, expiresAt, err := a.Service.GenerateAccessToken(profile)
	if err != nil {
		return auth.SessionResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	pending, err := a.pendingTasks(ctx, profile.ID)
	if err != nil {
		return auth.SessionResponse{}, err
	}

	slog.Info("Session started", "user_id", profile.ID, "employee_id", profile.EmployeeID, "role", profile.Role)
	return auth.SessionResponse{
		AccessToken:          token,
		AccessTokenExpiresIn: expiresAt,
		Profile:              employee.NewEmployeeResponse(profile, pending),
	}, nil
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context, userID string) (employee.EmployeeResponse, error) {
	profile, err := a.employeeRepo.GetByID(ctx, userID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	pending, err := a.pendingTasks(ctx, profile.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(profile, pending), nil
}

// EndSession implements auth.AuthService.
func (a *AuthServiceImpl) EndSession(ctx context.Context, token string) error {
	decoded, err := a.Service.JWTAuth().Decode(token)
	if err != nil {
		return auth.ErrInvalidToken
	}
	a.Service.RevokeToken(token, decoded.Expiration().Unix())
	return nil
}

// IssueSSEToken implements auth.AuthService.
func (a *AuthServiceImpl) IssueSSEToken(ctx context.Context, userID string) (auth.SSETokenResponse, error) {
	token, expiresIn, err := a.Service.GenerateSSEToken(userID)
	if err != nil {
		return auth.SSETokenResponse{}, fmt.Errorf("failed to create sse token: %w", err)
	}
	return auth.SSETokenResponse{Token: token, ExpiresIn: expiresIn}, nil
}

func (a *AuthServiceImpl) pendingTasks(ctx context.Context, userID string) (int, error) {
	counts, err := a.taskRepo.CountPendingByUser(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending tasks: %w", err)
	}
	return counts[userID], nil
}
