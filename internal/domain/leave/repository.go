package leave

import (
	"context"
	"time"
)

// LeaveRequestRepository - interface for leave_requests table.
// All list results are ordered newest-created-first.
type LeaveRequestRepository interface {
	// Create assigns identity and timestamps and forces status to pending
	// regardless of the caller-supplied value.
	Create(ctx context.Context, request Leave) (Leave, error)
	GetByID(ctx context.Context, id string) (Leave, error)
	GetByEmployee(ctx context.Context, employeeID string) ([]Leave, error)
	GetByStatus(ctx context.Context, status LeaveStatus) ([]Leave, error)
	GetAll(ctx context.Context) ([]Leave, error)
	// GetPendingForManager returns all pending leaves system-wide.
	// In a real app this would filter by the manager's department.
	GetPendingForManager(ctx context.Context, managerID string) ([]Leave, error)
	Update(ctx context.Context, request Leave) (Leave, error)
	Delete(ctx context.Context, id string) (bool, error)
	// Approve and Reject set the transition fields and persist. They do not
	// check prior status beyond the pending guard in the UPDATE itself and
	// never touch the balance; that orchestration belongs to the service.
	Approve(ctx context.Context, id, approverID string) (Leave, error)
	Reject(ctx context.Context, id, approverID, reason string) (Leave, error)
	HasOverlappingLeave(ctx context.Context, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error)
}

// LeaveBalanceRepository - interface for leave_balances table.
type LeaveBalanceRepository interface {
	GetByEmployeeAndYear(ctx context.Context, employeeID string, year int) (LeaveBalance, error)
	Create(ctx context.Context, balance LeaveBalance) (LeaveBalance, error)
	// Update is a full-record replace; the caller recomputes Remaining first.
	Update(ctx context.Context, balance LeaveBalance) (LeaveBalance, error)
	// Deduct and Restore return false, not an error, when no balance record
	// exists or the leave type is unrecognized.
	Deduct(ctx context.Context, employeeID string, year int, leaveType LeaveType, days int) (bool, error)
	Restore(ctx context.Context, employeeID string, year int, leaveType LeaveType, days int) (bool, error)
	// HasSufficientBalance is true without a balance record only for unpaid
	// leave; capped types report false until a record exists.
	HasSufficientBalance(ctx context.Context, employeeID string, year int, leaveType LeaveType, days int) (bool, error)
}
