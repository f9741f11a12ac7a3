package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/staffhub-id/hr-backend-go/internal/domain/leave"
	"github.com/staffhub-id/hr-backend-go/internal/pkg/database"
)

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.LeaveBalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

const leaveBalanceColumns = `
	id, employee_id, year,
	sick_total, sick_used, sick_remaining,
	vacation_total, vacation_used, vacation_remaining,
	personal_total, personal_used, personal_remaining,
	unpaid_used, created_at, updated_at
`

func scanLeaveBalance(row pgx.Row) (leave.LeaveBalance, error) {
	var b leave.LeaveBalance
	err := row.Scan(
		&b.ID, &b.EmployeeID, &b.Year,
		&b.SickTotal, &b.SickUsed, &b.SickRemaining,
		&b.VacationTotal, &b.VacationUsed, &b.VacationRemaining,
		&b.PersonalTotal, &b.PersonalUsed, &b.PersonalRemaining,
		&b.UnpaidUsed, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

func (r *leaveBalanceRepositoryImpl) GetByEmployeeAndYear(ctx context.Context, employeeID string, year int) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveBalanceColumns + `
		FROM leave_balances
		WHERE employee_id = $1 AND year = $2
	`

	b, err := scanLeaveBalance(q.QueryRow(ctx, query, employeeID, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveBalance{}, leave.ErrLeaveBalanceNotFound
		}
		return leave.LeaveBalance{}, fmt.Errorf("failed to get leave balance for employee %s year %d: %w", employeeID, year, err)
	}

	return b, nil
}

func (r *leaveBalanceRepositoryImpl) Create(ctx context.Context, balance leave.LeaveBalance) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	balance.Recalculate()

	query := `
		INSERT INTO leave_balances (
			id, employee_id, year,
			sick_total, sick_used, sick_remaining,
			vacation_total, vacation_used, vacation_remaining,
			personal_total, personal_used, personal_remaining,
			unpaid_used
		)
		VALUES (uuidv7(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		balance.EmployeeID, balance.Year,
		balance.SickTotal, balance.SickUsed, balance.SickRemaining,
		balance.VacationTotal, balance.VacationUsed, balance.VacationRemaining,
		balance.PersonalTotal, balance.PersonalUsed, balance.PersonalRemaining,
		balance.UnpaidUsed,
	).Scan(&balance.ID, &balance.CreatedAt, &balance.UpdatedAt)
	if err != nil {
		return leave.LeaveBalance{}, fmt.Errorf("failed to create leave balance: %w", err)
	}

	return balance, nil
}

func (r *leaveBalanceRepositoryImpl) Update(ctx context.Context, balance leave.LeaveBalance) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET sick_total = $1, sick_used = $2, sick_remaining = $3,
			vacation_total = $4, vacation_used = $5, vacation_remaining = $6,
			personal_total = $7, personal_used = $8, personal_remaining = $9,
			unpaid_used = $10, updated_at = NOW()
		WHERE id = $11
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query,
		balance.SickTotal, balance.SickUsed, balance.SickRemaining,
		balance.VacationTotal, balance.VacationUsed, balance.VacationRemaining,
		balance.PersonalTotal, balance.PersonalUsed, balance.PersonalRemaining,
		balance.UnpaidUsed, balance.ID,
	).Scan(&balance.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveBalance{}, leave.ErrLeaveBalanceNotFound
		}
		return leave.LeaveBalance{}, fmt.Errorf("failed to update leave balance %s: %w", balance.ID, err)
	}

	return balance, nil
}

// Deduct applies usage to the employee's balance for the year. A missing
// record or unrecognized leave type reports false rather than an error so
// the caller can decide whether that matters.
func (r *leaveBalanceRepositoryImpl) Deduct(ctx context.Context, employeeID string, year int, leaveType leave.LeaveType, days int) (bool, error) {
	return r.mutate(ctx, employeeID, year, func(b *leave.LeaveBalance) bool {
		return b.Deduct(leaveType, days)
	})
}

// Restore gives days back after a cancellation. Usage never drops below
// zero; the entity floors it.
func (r *leaveBalanceRepositoryImpl) Restore(ctx context.Context, employeeID string, year int, leaveType leave.LeaveType, days int) (bool, error) {
	return r.mutate(ctx, employeeID, year, func(b *leave.LeaveBalance) bool {
		return b.Restore(leaveType, days)
	})
}

func (r *leaveBalanceRepositoryImpl) mutate(ctx context.Context, employeeID string, year int, apply func(*leave.LeaveBalance) bool) (bool, error) {
	b, err := r.GetByEmployeeAndYear(ctx, employeeID, year)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveBalanceNotFound) {
			return false, nil
		}
		return false, err
	}

	if !apply(&b) {
		return false, nil
	}

	if _, err := r.Update(ctx, b); err != nil {
		return false, err
	}

	return true, nil
}

func (r *leaveBalanceRepositoryImpl) HasSufficientBalance(ctx context.Context, employeeID string, year int, leaveType leave.LeaveType, days int) (bool, error) {
	b, err := r.GetByEmployeeAndYear(ctx, employeeID, year)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveBalanceNotFound) {
			// Unpaid leave has no quota to run out of.
			t, ok := leave.ParseLeaveType(string(leaveType))
			return ok && !t.HasQuota(), nil
		}
		return false, err
	}

	return b.HasSufficient(leaveType, days), nil
}
