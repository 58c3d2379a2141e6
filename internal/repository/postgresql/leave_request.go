package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/leave"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/timestamp"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveRequestColumns = `
	lr.id::text, lr.user_id::text, lr.type,
	to_char(lr.start_date, 'YYYY-MM-DD'), to_char(lr.end_date, 'YYYY-MM-DD'),
	lr.reason, lr.status, lr.created_at, u.name`

const leaveRequestFrom = ` FROM leave_requests lr LEFT JOIN users u ON u.id = lr.user_id`

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	var status string
	var createdAt *time.Time
	err := row.Scan(&lr.ID, &lr.UserID, &lr.Type, &lr.StartDate, &lr.EndDate,
		&lr.Reason, &status, &createdAt, &lr.EmployeeName)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	lr.Status = leave.LeaveRequestStatus(status)
	lr.CreatedAt = timestamp.FromNullableTime(createdAt)
	return lr, nil
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to generate id: %w", err)
	}

	query := `
		INSERT INTO leave_requests (id, user_id, type, start_date, end_date, reason, status)
		VALUES ($1, $2, $3, $4::date, $5::date, $6, $7)
	`
	_, err = q.Exec(ctx, query, id.String(), request.UserID, request.Type,
		request.StartDate, request.EndDate, request.Reason, string(request.Status))
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return r.GetByID(ctx, id.String())
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	if _, err := uuid.Parse(id); err != nil {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}

	query := `SELECT ` + leaveRequestColumns + leaveRequestFrom + ` WHERE lr.id = $1`
	lr, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request %s: %w", id, err)
	}
	return lr, nil
}

// UpdateStatus implements leave.LeaveRequestRepository. The transition only
// applies to pending requests, so concurrent approve and reject cannot both win.
func (r *leaveRequestRepositoryImpl) UpdateStatus(ctx context.Context, id string, status leave.LeaveRequestStatus) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	tag, err := q.Exec(ctx,
		`UPDATE leave_requests SET status = $1 WHERE id = $2 AND status = $3`,
		string(status), id, string(leave.LeaveRequestStatusPending),
	)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to update leave request %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
	}

	current.Status = status
	return current, nil
}

// ListAll implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListAll(ctx context.Context) ([]leave.LeaveRequest, error) {
	return r.list(ctx, `SELECT `+leaveRequestColumns+leaveRequestFrom)
}

// ListByUser implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]leave.LeaveRequest, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return []leave.LeaveRequest{}, nil
	}
	return r.list(ctx, `SELECT `+leaveRequestColumns+leaveRequestFrom+` WHERE lr.user_id = $1`, userID)
}

func (r *leaveRequestRepositoryImpl) list(ctx context.Context, query string, args ...interface{}) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	requests := []leave.LeaveRequest{}
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, lr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leave requests: %w", err)
	}
	return requests, nil
}
