package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/workforce-analytics-go/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `id::text, name, employee_code, branch, position, role`

func scanEmployee(row pgx.Row) (employee.EmployeeProfile, error) {
	var p employee.EmployeeProfile
	var role string
	if err := row.Scan(&p.ID, &p.Name, &p.EmployeeID, &p.Branch, &p.Position, &role); err != nil {
		return employee.EmployeeProfile{}, err
	}
	p.Role = employee.Role(role)
	return p, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.EmployeeProfile, error) {
	q := GetQuerier(ctx, e.db)

	if _, err := uuid.Parse(id); err != nil {
		return employee.EmployeeProfile{}, employee.ErrEmployeeNotFound
	}

	query := `SELECT ` + employeeColumns + ` FROM users WHERE id = $1`

	p, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.EmployeeProfile{}, employee.ErrEmployeeNotFound
		}
		return employee.EmployeeProfile{}, fmt.Errorf("failed to get employee by id %s: %w", id, err)
	}
	return p, nil
}

// GetByEmployeeCode implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByEmployeeCode(ctx context.Context, employeeCode string) (employee.EmployeeProfile, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM users WHERE employee_code = $1`

	p, err := scanEmployee(q.QueryRow(ctx, query, employeeCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.EmployeeProfile{}, employee.ErrEmployeeNotFound
		}
		return employee.EmployeeProfile{}, fmt.Errorf("failed to get employee by code %s: %w", employeeCode, err)
	}
	return p, nil
}

// ExistsByEmployeeCode implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ExistsByEmployeeCode(ctx context.Context, employeeCode string) (bool, error) {
	q := GetQuerier(ctx, e.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE employee_code = $1)`, employeeCode).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check employee code %s: %w", employeeCode, err)
	}
	return exists, nil
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Create(ctx context.Context, profile employee.EmployeeProfile) (employee.EmployeeProfile, error) {
	q := GetQuerier(ctx, e.db)

	id, err := uuid.NewV7()
	if err != nil {
		return employee.EmployeeProfile{}, fmt.Errorf("failed to generate id: %w", err)
	}
	profile.ID = id.String()

	query := `
		INSERT INTO users (id, name, employee_code, branch, position, role)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = q.Exec(ctx, query, profile.ID, profile.Name, profile.EmployeeID, profile.Branch, profile.Position, string(profile.Role))
	if err != nil {
		if isUniqueViolation(err) {
			return employee.EmployeeProfile{}, employee.ErrEmployeeCodeExists
		}
		return employee.EmployeeProfile{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return profile, nil
}

// Delete implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, e.db)

	if _, err := uuid.Parse(id); err != nil {
		return employee.ErrEmployeeNotFound
	}

	tag, err := q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// ListAll implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListAll(ctx context.Context) ([]employee.EmployeeProfile, error) {
	q := GetQuerier(ctx, e.db)

	rows, err := q.Query(ctx, `SELECT `+employeeColumns+` FROM users ORDER BY name, employee_code`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	profiles := []employee.EmployeeProfile{}
	for rows.Next() {
		p, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}
	return profiles, nil
}
