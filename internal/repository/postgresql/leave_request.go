package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/staffhub-id/hr-backend-go/internal/domain/leave"
	"github.com/staffhub-id/hr-backend-go/internal/pkg/database"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveRequestColumns = `
	lr.id, lr.employee_id, lr.leave_type, lr.start_date, lr.end_date, lr.days_count,
	lr.reason, lr.status, lr.approved_by, lr.approved_at, lr.rejection_reason,
	lr.created_at, lr.updated_at, e.full_name
`

func scanLeaveRequest(row pgx.Row) (leave.Leave, error) {
	var l leave.Leave
	err := row.Scan(
		&l.ID, &l.EmployeeID, &l.LeaveType, &l.StartDate, &l.EndDate, &l.DaysCount,
		&l.Reason, &l.Status, &l.ApprovedBy, &l.ApprovedAt, &l.RejectionReason,
		&l.CreatedAt, &l.UpdatedAt, &l.EmployeeName,
	)
	return l, err
}

// Create inserts a new leave request. The status is always pending on
// insert regardless of what the caller put on the entity.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, req leave.Leave) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (id, employee_id, leave_type, start_date, end_date, days_count, reason, status)
		VALUES (uuidv7(), $1, $2, $3, $4, $5, $6, 'pending')
		RETURNING id, status, created_at, updated_at
	`

	created := req
	err := q.QueryRow(ctx, query,
		req.EmployeeID, req.LeaveType, req.StartDate, req.EndDate, req.DaysCount, req.Reason,
	).Scan(&created.ID, &created.Status, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return leave.Leave{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return created, nil
}

func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests lr
		JOIN employees e ON e.id = lr.employee_id
		WHERE lr.id = $1
	`

	l, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Leave{}, leave.ErrLeaveRequestNotFound
		}
		return leave.Leave{}, fmt.Errorf("failed to get leave request %s: %w", id, err)
	}

	return l, nil
}

func (r *leaveRequestRepositoryImpl) getMany(ctx context.Context, where string, args ...any) ([]leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests lr
		JOIN employees e ON e.id = lr.employee_id
		` + where + `
		ORDER BY lr.created_at DESC
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	leaves := make([]leave.Leave, 0)
	for rows.Next() {
		l, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		leaves = append(leaves, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read leave requests: %w", err)
	}

	return leaves, nil
}

func (r *leaveRequestRepositoryImpl) GetByEmployee(ctx context.Context, employeeID string) ([]leave.Leave, error) {
	return r.getMany(ctx, `WHERE lr.employee_id = $1`, employeeID)
}

func (r *leaveRequestRepositoryImpl) GetByStatus(ctx context.Context, status leave.LeaveStatus) ([]leave.Leave, error) {
	return r.getMany(ctx, `WHERE lr.status = $1`, status)
}

func (r *leaveRequestRepositoryImpl) GetAll(ctx context.Context) ([]leave.Leave, error) {
	return r.getMany(ctx, ``)
}

// GetPendingForManager returns every pending request. In a real app this
// would filter by the manager's department; there is no org hierarchy here
// so every manager sees the full pending queue.
func (r *leaveRequestRepositoryImpl) GetPendingForManager(ctx context.Context, managerID string) ([]leave.Leave, error) {
	return r.getMany(ctx, `WHERE lr.status = 'pending'`)
}

func (r *leaveRequestRepositoryImpl) Update(ctx context.Context, req leave.Leave) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET leave_type = $1, start_date = $2, end_date = $3, days_count = $4,
			reason = $5, status = $6, approved_by = $7, approved_at = $8,
			rejection_reason = $9, updated_at = NOW()
		WHERE id = $10
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query,
		req.LeaveType, req.StartDate, req.EndDate, req.DaysCount,
		req.Reason, req.Status, req.ApprovedBy, req.ApprovedAt,
		req.RejectionReason, req.ID,
	).Scan(&req.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Leave{}, leave.ErrLeaveRequestNotFound
		}
		return leave.Leave{}, fmt.Errorf("failed to update leave request %s: %w", req.ID, err)
	}

	return req, nil
}

func (r *leaveRequestRepositoryImpl) Delete(ctx context.Context, id string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	result, err := q.Exec(ctx, `DELETE FROM leave_requests WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete leave request %s: %w", id, err)
	}

	return result.RowsAffected() > 0, nil
}

// Approve transitions a pending request to approved. The status guard in the
// WHERE clause means a concurrent approval or rejection loses the race and
// surfaces as ErrLeaveAlreadyProcessed instead of silently double-approving.
func (r *leaveRequestRepositoryImpl) Approve(ctx context.Context, id string, approverID string) (leave.Leave, error) {
	query := `
		UPDATE leave_requests lr
		SET status = 'approved', approved_by = $2, approved_at = NOW(), updated_at = NOW()
		FROM employees e
		WHERE lr.id = $1 AND lr.status = 'pending' AND e.id = lr.employee_id
		RETURNING ` + leaveRequestColumns

	return r.transition(ctx, query, id, approverID)
}

// Reject transitions a pending request to rejected, recording why.
func (r *leaveRequestRepositoryImpl) Reject(ctx context.Context, id string, approverID string, reason string) (leave.Leave, error) {
	query := `
		UPDATE leave_requests lr
		SET status = 'rejected', approved_by = $2, approved_at = NOW(), rejection_reason = $3, updated_at = NOW()
		FROM employees e
		WHERE lr.id = $1 AND lr.status = 'pending' AND e.id = lr.employee_id
		RETURNING ` + leaveRequestColumns

	return r.transition(ctx, query, id, approverID, reason)
}

func (r *leaveRequestRepositoryImpl) transition(ctx context.Context, query string, id string, args ...any) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	l, err := scanLeaveRequest(q.QueryRow(ctx, query, append([]any{id}, args...)...))
	if err == nil {
		return l, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return leave.Leave{}, fmt.Errorf("failed to transition leave request %s: %w", id, err)
	}

	// Zero rows: either the request does not exist or it is no longer
	// pending. Look it up once more to tell the two apart.
	var status leave.LeaveStatus
	err = q.QueryRow(ctx, `SELECT status FROM leave_requests WHERE id = $1`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Leave{}, leave.ErrLeaveRequestNotFound
		}
		return leave.Leave{}, fmt.Errorf("failed to check leave request %s: %w", id, err)
	}

	return leave.Leave{}, leave.ErrLeaveAlreadyProcessed
}

// HasOverlappingLeave loads the employee's active requests and runs the
// in-memory range check against them, so the overlap rule lives in exactly
// one place.
func (r *leaveRequestRepositoryImpl) HasOverlappingLeave(ctx context.Context, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, leave_type, start_date, end_date, days_count,
			reason, status, approved_by, approved_at, rejection_reason,
			created_at, updated_at
		FROM leave_requests
		WHERE employee_id = $1 AND status IN ('pending', 'approved')
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return false, fmt.Errorf("failed to load active leave requests: %w", err)
	}
	defer rows.Close()

	existing := make([]leave.Leave, 0)
	for rows.Next() {
		var l leave.Leave
		err := rows.Scan(
			&l.ID, &l.EmployeeID, &l.LeaveType, &l.StartDate, &l.EndDate, &l.DaysCount,
			&l.Reason, &l.Status, &l.ApprovedBy, &l.ApprovedAt, &l.RejectionReason,
			&l.CreatedAt, &l.UpdatedAt,
		)
		if err != nil {
			return false, fmt.Errorf("failed to scan leave request: %w", err)
		}
		existing = append(existing, l)
	}
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("failed to read leave requests: %w", err)
	}

	exclude := ""
	if excludeID != nil {
		exclude = *excludeID
	}

	candidate := leave.DateRange{Start: startDate, End: endDate}
	return leave.HasOverlap(candidate, existing, exclude), nil
}
