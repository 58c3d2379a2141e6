package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/timestamp"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `id::text, user_id::text, type, recorded_at`

func scanAttendanceEvent(row pgx.Row) (attendance.AttendanceEvent, error) {
	var ev attendance.AttendanceEvent
	var typ string
	var recordedAt *time.Time
	if err := row.Scan(&ev.ID, &ev.UserID, &typ, &recordedAt); err != nil {
		return attendance.AttendanceEvent{}, err
	}
	ev.Type = attendance.EventType(typ)
	ev.Timestamp = timestamp.FromNullableTime(recordedAt)
	return ev, nil
}

// Create implements attendance.AttendanceRepository. The store assigns recorded_at.
func (a *attendanceRepository) Create(ctx context.Context, event attendance.AttendanceEvent) (attendance.AttendanceEvent, error) {
	q := GetQuerier(ctx, a.db)

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.AttendanceEvent{}, fmt.Errorf("failed to generate id: %w", err)
	}

	query := `
		INSERT INTO attendance_events (id, user_id, type, recorded_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING ` + attendanceColumns

	created, err := scanAttendanceEvent(q.QueryRow(ctx, query, id.String(), event.UserID, string(event.Type)))
	if err != nil {
		return attendance.AttendanceEvent{}, fmt.Errorf("failed to create attendance event: %w", err)
	}
	return created, nil
}

// ListAll implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListAll(ctx context.Context) ([]attendance.AttendanceEvent, error) {
	return a.list(ctx, `SELECT `+attendanceColumns+` FROM attendance_events`)
}

// ListByUser implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByUser(ctx context.Context, userID string) ([]attendance.AttendanceEvent, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return []attendance.AttendanceEvent{}, nil
	}
	return a.list(ctx, `SELECT `+attendanceColumns+` FROM attendance_events WHERE user_id = $1`, userID)
}

func (a *attendanceRepository) list(ctx context.Context, query string, args ...interface{}) ([]attendance.AttendanceEvent, error) {
	q := GetQuerier(ctx, a.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance events: %w", err)
	}
	defer rows.Close()

	events := []attendance.AttendanceEvent{}
	for rows.Next() {
		ev, err := scanAttendanceEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance events: %w", err)
	}
	return events, nil
}
