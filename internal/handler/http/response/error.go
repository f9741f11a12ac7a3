package response

import (
	"errors"
	"net/http"

	"github.com/staffhub-id/hr-backend-go/internal/domain/employee"
	"github.com/staffhub-id/hr-backend-go/internal/domain/leave"
	"github.com/staffhub-id/hr-backend-go/internal/domain/notification"
	"github.com/staffhub-id/hr-backend-go/internal/domain/user"
	"github.com/staffhub-id/hr-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveBalanceNotFound):
		NotFound(w, "Leave balance not found")
	case errors.Is(err, leave.ErrOverlappingLeave):
		Conflict(w, "Overlapping leave request exists")
	case errors.Is(err, leave.ErrLeaveAlreadyProcessed):
		Conflict(w, "Leave request already processed")
	case errors.Is(err, leave.ErrInsufficientBalance):
		BadRequest(w, "Insufficient leave balance", nil)
	case errors.Is(err, leave.ErrUnknownLeaveType):
		BadRequest(w, "Unknown leave type", nil)
	case errors.Is(err, leave.ErrEndBeforeStart):
		BadRequest(w, "End date must not be before start date", nil)
	case errors.Is(err, leave.ErrStartDateInPast):
		BadRequest(w, "Start date must not be in the past", nil)
	case errors.Is(err, leave.ErrCancelNotAllowed):
		Forbidden(w, "Not allowed to cancel this leave request")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Notification domain errors
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "Notification not found")
	case errors.Is(err, notification.ErrUnauthorized):
		Forbidden(w, "Not allowed to access this notification")

	// User domain errors
	case errors.Is(err, user.ErrRoleRequired):
		Unauthorized(w, "Role claim is missing or unknown")
	case errors.Is(err, user.ErrPermissionDenied):
		Forbidden(w, "Permission denied")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
