package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/staffhub-id/hr-backend-go/internal/domain/employee"
	"github.com/staffhub-id/hr-backend-go/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	return e.getOne(ctx, `WHERE id = $1`, id)
}

func (e *employeeRepositoryImpl) GetByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	return e.getOne(ctx, `WHERE user_id = $1`, userID)
}

func (e *employeeRepositoryImpl) getOne(ctx context.Context, where string, arg any) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT id, user_id, employee_code, full_name, email, department, position,
			hire_date, is_active, created_at, updated_at
		FROM employees
		` + where

	var emp employee.Employee
	err := q.QueryRow(ctx, query, arg).Scan(
		&emp.ID, &emp.UserID, &emp.EmployeeCode, &emp.FullName, &emp.Email,
		&emp.Department, &emp.Position, &emp.HireDate, &emp.IsActive,
		&emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return emp, nil
}
