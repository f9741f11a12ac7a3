package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/staffhub-id/hr-backend-go/internal/config"
	"github.com/staffhub-id/hr-backend-go/internal/domain/employee"
	"github.com/staffhub-id/hr-backend-go/internal/domain/leave"
	"github.com/staffhub-id/hr-backend-go/internal/domain/notification"
	"github.com/staffhub-id/hr-backend-go/internal/domain/user"
)

// Service orchestrates the leave request lifecycle over the request and
// balance repositories. It is the only component that mutates balances.
type Service struct {
	requests  leave.LeaveRequestRepository
	balances  leave.LeaveBalanceRepository
	employees employee.EmployeeRepository
	notifier  notification.Service
	defaults  config.LeaveConfig
	logger    *slog.Logger
}

func NewService(
	requests leave.LeaveRequestRepository,
	balances leave.LeaveBalanceRepository,
	employees employee.EmployeeRepository,
	notifier notification.Service,
	defaults config.LeaveConfig,
	logger *slog.Logger,
) *Service {
	return &Service{
		requests:  requests,
		balances:  balances,
		employees: employees,
		notifier:  notifier,
		defaults:  defaults,
		logger:    logger,
	}
}

var _ leave.LeaveService = (*Service)(nil)

func (s *Service) Submit(ctx context.Context, req leave.CreateLeaveRequestRequest) (leave.Leave, error) {
	if err := req.Validate(); err != nil {
		return leave.Leave{}, err
	}

	leaveType, ok := leave.ParseLeaveType(req.LeaveType)
	if !ok {
		return leave.Leave{}, leave.ErrUnknownLeaveType
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return leave.Leave{}, fmt.Errorf("failed to parse start date: %w", err)
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return leave.Leave{}, fmt.Errorf("failed to parse end date: %w", err)
	}

	if endDate.Before(startDate) {
		return leave.Leave{}, leave.ErrEndBeforeStart
	}

	// Anchor today's local calendar date at UTC midnight so the
	// comparison against the UTC-parsed request dates is day-granular.
	y, m, d := time.Now().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if startDate.Before(today) {
		return leave.Leave{}, leave.ErrStartDateInPast
	}

	overlaps, err := s.requests.HasOverlappingLeave(ctx, req.EmployeeID, startDate, endDate, nil)
	if err != nil {
		return leave.Leave{}, fmt.Errorf("failed to check overlapping leaves: %w", err)
	}
	if overlaps {
		return leave.Leave{}, leave.ErrOverlappingLeave
	}

	daysCount := leave.DaysBetween(startDate, endDate)

	if leaveType.HasQuota() {
		// Make sure the year's balance record exists before gating on it,
		// otherwise a first request of the year could never pass.
		if _, err := s.ensureBalance(ctx, req.EmployeeID, startDate.Year()); err != nil {
			return leave.Leave{}, err
		}

		sufficient, err := s.balances.HasSufficientBalance(ctx, req.EmployeeID, startDate.Year(), leaveType, daysCount)
		if err != nil {
			return leave.Leave{}, fmt.Errorf("failed to check leave balance: %w", err)
		}
		if !sufficient {
			return leave.Leave{}, leave.ErrInsufficientBalance
		}
	}

	created, err := s.requests.Create(ctx, leave.Leave{
		EmployeeID: req.EmployeeID,
		LeaveType:  leaveType,
		StartDate:  startDate,
		EndDate:    endDate,
		DaysCount:  daysCount,
		Reason:     req.Reason,
	})
	if err != nil {
		return leave.Leave{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	s.notifyForLeave(ctx, created.EmployeeID, nil, notification.TypeLeaveRequested,
		"Leave request submitted",
		fmt.Sprintf("Your %s leave request for %s to %s is awaiting approval.", created.LeaveType, req.StartDate, req.EndDate),
		created)

	return created, nil
}

func (s *Service) Approve(ctx context.Context, requestID, approverID string) (leave.Leave, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return leave.Leave{}, err
	}
	if request.Status != leave.LeaveStatusPending {
		return leave.Leave{}, leave.ErrLeaveAlreadyProcessed
	}

	approved, err := s.requests.Approve(ctx, requestID, approverID)
	if err != nil {
		return leave.Leave{}, err
	}

	// Deduction happens after the approval is persisted. If it fails the
	// approval stands; the gap is logged for manual reconciliation.
	if approved.LeaveType.HasQuota() {
		ok, err := s.balances.Deduct(ctx, approved.EmployeeID, approved.StartDate.Year(), approved.LeaveType, approved.DaysCount)
		if err != nil || !ok {
			s.logger.WarnContext(ctx, "balance deduction failed after approval",
				slog.String("leave_id", approved.ID),
				slog.String("employee_id", approved.EmployeeID),
				slog.String("leave_type", string(approved.LeaveType)),
				slog.Int("days", approved.DaysCount),
				slog.Any("error", err),
			)
		}
	}

	s.notifyForLeave(ctx, approved.EmployeeID, &approverID, notification.TypeLeaveApproved,
		"Leave request approved",
		fmt.Sprintf("Your %s leave from %s to %s has been approved.", approved.LeaveType,
			approved.StartDate.Format("2006-01-02"), approved.EndDate.Format("2006-01-02")),
		approved)

	return approved, nil
}

func (s *Service) Reject(ctx context.Context, requestID, approverID, reason string) (leave.Leave, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return leave.Leave{}, err
	}
	if request.Status != leave.LeaveStatusPending {
		return leave.Leave{}, leave.ErrLeaveAlreadyProcessed
	}

	rejected, err := s.requests.Reject(ctx, requestID, approverID, reason)
	if err != nil {
		return leave.Leave{}, err
	}

	s.notifyForLeave(ctx, rejected.EmployeeID, &approverID, notification.TypeLeaveRejected,
		"Leave request rejected",
		fmt.Sprintf("Your %s leave request was rejected: %s", rejected.LeaveType, reason),
		rejected)

	return rejected, nil
}

// Cancel deletes a leave request. Owners may cancel their own requests;
// managers and admins may cancel anyone's. An approved quota leave gives
// its days back before the row is removed, so a failed delete can never
// strand a deduction.
func (s *Service) Cancel(ctx context.Context, requestID, requesterUserID string, role user.Role) (bool, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return false, err
	}

	if !role.IsPrivileged() {
		emp, err := s.employees.GetByID(ctx, request.EmployeeID)
		if err != nil {
			return false, err
		}
		if !emp.BelongsToUser(requesterUserID) {
			return false, leave.ErrCancelNotAllowed
		}
	}

	if request.Status == leave.LeaveStatusApproved && request.LeaveType.HasQuota() {
		ok, err := s.balances.Restore(ctx, request.EmployeeID, request.StartDate.Year(), request.LeaveType, request.DaysCount)
		if err != nil {
			return false, fmt.Errorf("failed to restore leave balance: %w", err)
		}
		if !ok {
			s.logger.WarnContext(ctx, "no balance restored for cancelled leave",
				slog.String("leave_id", request.ID),
				slog.String("employee_id", request.EmployeeID),
			)
		}
	}

	deleted, err := s.requests.Delete(ctx, requestID)
	if err != nil {
		return false, fmt.Errorf("failed to delete leave request: %w", err)
	}

	if deleted {
		s.notifyForLeave(ctx, request.EmployeeID, nil, notification.TypeLeaveCancelled,
			"Leave request cancelled",
			fmt.Sprintf("The %s leave from %s to %s has been cancelled.", request.LeaveType,
				request.StartDate.Format("2006-01-02"), request.EndDate.Format("2006-01-02")),
			request)
	}

	return deleted, nil
}

func (s *Service) Get(ctx context.Context, requestID string) (leave.Leave, error) {
	return s.requests.GetByID(ctx, requestID)
}

func (s *Service) List(ctx context.Context, status *leave.LeaveStatus) ([]leave.Leave, error) {
	if status != nil {
		return s.requests.GetByStatus(ctx, *status)
	}
	return s.requests.GetAll(ctx)
}

func (s *Service) ListByEmployee(ctx context.Context, employeeID string) ([]leave.Leave, error) {
	return s.requests.GetByEmployee(ctx, employeeID)
}

func (s *Service) ListPending(ctx context.Context, managerID string) ([]leave.Leave, error) {
	return s.requests.GetPendingForManager(ctx, managerID)
}

func (s *Service) GetBalance(ctx context.Context, employeeID string, year int) (leave.LeaveBalance, error) {
	return s.ensureBalance(ctx, employeeID, year)
}

// ensureBalance returns the (employee, year) balance record, creating it
// with the configured default allotments on first touch.
func (s *Service) ensureBalance(ctx context.Context, employeeID string, year int) (leave.LeaveBalance, error) {
	balance, err := s.balances.GetByEmployeeAndYear(ctx, employeeID, year)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, leave.ErrLeaveBalanceNotFound) {
		return leave.LeaveBalance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}

	created, err := s.balances.Create(ctx, leave.LeaveBalance{
		EmployeeID:    employeeID,
		Year:          year,
		SickTotal:     s.defaults.DefaultSickDays,
		VacationTotal: s.defaults.DefaultVacationDays,
		PersonalTotal: s.defaults.DefaultPersonalDays,
	})
	if err != nil {
		return leave.LeaveBalance{}, fmt.Errorf("failed to create leave balance: %w", err)
	}

	return created, nil
}

// notifyForLeave queues a notification for the employee behind the leave.
// Failures are logged and swallowed; notifications never affect the outcome
// of a lifecycle operation.
func (s *Service) notifyForLeave(ctx context.Context, employeeID string, senderID *string, ntype notification.NotificationType, title, message string, l leave.Leave) {
	if s.notifier == nil {
		return
	}

	emp, err := s.employees.GetByID(ctx, employeeID)
	if err != nil || emp.UserID == nil {
		s.logger.DebugContext(ctx, "skipping leave notification, no recipient user",
			slog.String("employee_id", employeeID), slog.Any("error", err))
		return
	}

	link := "/leaves/" + l.ID
	err = s.notifier.QueueNotification(ctx, notification.CreateNotificationRequest{
		RecipientID: *emp.UserID,
		SenderID:    senderID,
		Type:        ntype,
		Title:       title,
		Message:     message,
		Link:        &link,
		Data: map[string]interface{}{
			"leave_id":   l.ID,
			"leave_type": string(l.LeaveType),
			"start_date": l.StartDate.Format("2006-01-02"),
			"end_date":   l.EndDate.Format("2006-01-02"),
		},
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to queue leave notification",
			slog.String("leave_id", l.ID), slog.Any("error", err))
	}
}
