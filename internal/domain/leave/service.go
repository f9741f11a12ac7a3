package leave

import (
	"context"

	"github.com/staffhub-id/hr-backend-go/internal/domain/user"
)

// LeaveService is the lifecycle orchestration over the two repositories.
// It is the only component allowed to mutate a balance record.
type LeaveService interface {
	Submit(ctx context.Context, req CreateLeaveRequestRequest) (Leave, error)
	Approve(ctx context.Context, requestID, approverID string) (Leave, error)
	Reject(ctx context.Context, requestID, approverID, reason string) (Leave, error)
	Cancel(ctx context.Context, requestID, requesterUserID string, role user.Role) (bool, error)

	Get(ctx context.Context, requestID string) (Leave, error)
	List(ctx context.Context, status *LeaveStatus) ([]Leave, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]Leave, error)
	ListPending(ctx context.Context, managerID string) ([]Leave, error)

	// GetBalance lazily creates the (employee, year) record with the
	// configured default allotments when it does not exist yet.
	GetBalance(ctx context.Context, employeeID string, year int) (LeaveBalance, error)
}
