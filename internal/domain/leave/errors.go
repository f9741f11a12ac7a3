package leave

import "errors"

var (
	ErrLeaveRequestNotFound  = errors.New("Leave request not found")
	ErrLeaveBalanceNotFound  = errors.New("Leave balance not found")
	ErrInsufficientBalance   = errors.New("Insufficient leave balance")
	ErrLeaveAlreadyProcessed = errors.New("Leave request already processed")
	ErrOverlappingLeave      = errors.New("Overlapping leave request exists")
	ErrUnknownLeaveType      = errors.New("Unknown leave type")
	ErrEndBeforeStart        = errors.New("End date must not be before start date")
	ErrStartDateInPast       = errors.New("Start date must not be in the past")
	ErrCancelNotAllowed      = errors.New("Not allowed to cancel this leave request")
)
