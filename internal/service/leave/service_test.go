package leave

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffhub-id/hr-backend-go/internal/config"
	"github.com/staffhub-id/hr-backend-go/internal/domain/employee"
	"github.com/staffhub-id/hr-backend-go/internal/domain/leave"
	"github.com/staffhub-id/hr-backend-go/internal/domain/user"
)

type fakeLeaveRequestRepo struct {
	createFn     func(ctx context.Context, req leave.Leave) (leave.Leave, error)
	getByIDFn    func(ctx context.Context, id string) (leave.Leave, error)
	approveFn    func(ctx context.Context, id, approverID string) (leave.Leave, error)
	rejectFn     func(ctx context.Context, id, approverID, reason string) (leave.Leave, error)
	deleteFn     func(ctx context.Context, id string) (bool, error)
	hasOverlapFn func(ctx context.Context, employeeID string, start, end time.Time, excludeID *string) (bool, error)
}

func (f *fakeLeaveRequestRepo) Create(ctx context.Context, req leave.Leave) (leave.Leave, error) {
	if f.createFn == nil {
		return req, nil
	}
	return f.createFn(ctx, req)
}
func (f *fakeLeaveRequestRepo) GetByID(ctx context.Context, id string) (leave.Leave, error) {
	return f.getByIDFn(ctx, id)
}
func (f *fakeLeaveRequestRepo) GetByEmployee(ctx context.Context, employeeID string) ([]leave.Leave, error) {
	return nil, nil
}
func (f *fakeLeaveRequestRepo) GetByStatus(ctx context.Context, status leave.LeaveStatus) ([]leave.Leave, error) {
	return nil, nil
}
func (f *fakeLeaveRequestRepo) GetAll(ctx context.Context) ([]leave.Leave, error) { return nil, nil }
func (f *fakeLeaveRequestRepo) GetPendingForManager(ctx context.Context, managerID string) ([]leave.Leave, error) {
	return nil, nil
}
func (f *fakeLeaveRequestRepo) Update(ctx context.Context, req leave.Leave) (leave.Leave, error) {
	return req, nil
}
func (f *fakeLeaveRequestRepo) Delete(ctx context.Context, id string) (bool, error) {
	return f.deleteFn(ctx, id)
}
func (f *fakeLeaveRequestRepo) Approve(ctx context.Context, id, approverID string) (leave.Leave, error) {
	return f.approveFn(ctx, id, approverID)
}
func (f *fakeLeaveRequestRepo) Reject(ctx context.Context, id, approverID, reason string) (leave.Leave, error) {
	return f.rejectFn(ctx, id, approverID, reason)
}
func (f *fakeLeaveRequestRepo) HasOverlappingLeave(ctx context.Context, employeeID string, start, end time.Time, excludeID *string) (bool, error) {
	if f.hasOverlapFn == nil {
		return false, nil
	}
	return f.hasOverlapFn(ctx, employeeID, start, end, excludeID)
}

type fakeLeaveBalanceRepo struct {
	getFn           func(ctx context.Context, employeeID string, year int) (leave.LeaveBalance, error)
	createFn        func(ctx context.Context, balance leave.LeaveBalance) (leave.LeaveBalance, error)
	deductFn        func(ctx context.Context, employeeID string, year int, leaveType leave.LeaveType, days int) (bool, error)
	restoreFn       func(ctx context.Context, employeeID string, year int, leaveType leave.LeaveType, days int) (bool, error)
	hasSufficientFn func(ctx context.Context, employeeID string, year int, leaveType leave.LeaveType, days int) (bool, error)
}

func (f *fakeLeaveBalanceRepo) GetByEmployeeAndYear(ctx context.Context, employeeID string, year int) (leave.LeaveBalance, error) {
	if f.getFn == nil {
		return leave.LeaveBalance{EmployeeID: employeeID, Year: year}, nil
	}
	return f.getFn(ctx, employeeID, year)
}
func (f *fakeLeaveBalanceRepo) Create(ctx context.Context, balance leave.LeaveBalance) (leave.LeaveBalance, error) {
	if f.createFn == nil {
		return balance, nil
	}
	return f.createFn(ctx, balance)
}
func (f *fakeLeaveBalanceRepo) Update(ctx context.Context, balance leave.LeaveBalance) (leave.LeaveBalance, error) {
	return balance, nil
}
func (f *fakeLeaveBalanceRepo) Deduct(ctx context.Context, employeeID string, year int, leaveType leave.LeaveType, days int) (bool, error) {
	if f.deductFn == nil {
		return true, nil
	}
	return f.deductFn(ctx, employeeID, year, leaveType, days)
}
func (f *fakeLeaveBalanceRepo) Restore(ctx context.Context, employeeID string, year int, leaveType leave.LeaveType, days int) (bool, error) {
	if f.restoreFn == nil {
		return true, nil
	}
	return f.restoreFn(ctx, employeeID, year, leaveType, days)
}
func (f *fakeLeaveBalanceRepo) HasSufficientBalance(ctx context.Context, employeeID string, year int, leaveType leave.LeaveType, days int) (bool, error) {
	if f.hasSufficientFn == nil {
		return true, nil
	}
	return f.hasSufficientFn(ctx, employeeID, year, leaveType, days)
}

type fakeEmployeeRepo struct {
	getByIDFn func(ctx context.Context, id string) (employee.Employee, error)
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	if f.getByIDFn == nil {
		return employee.Employee{ID: id}, nil
	}
	return f.getByIDFn(ctx, id)
}
func (f *fakeEmployeeRepo) GetByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func newTestService(requests *fakeLeaveRequestRepo, balances *fakeLeaveBalanceRepo, employees *fakeEmployeeRepo) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	defaults := config.LeaveConfig{DefaultSickDays: 10, DefaultVacationDays: 12, DefaultPersonalDays: 5}
	return NewService(requests, balances, employees, nil, defaults, logger)
}

func futureDate(daysAhead int) string {
	return time.Now().AddDate(0, 0, daysAhead).Format("2006-01-02")
}

func TestSubmitCreatesPendingWithInclusiveDays(t *testing.T) {
	var created leave.Leave
	requests := &fakeLeaveRequestRepo{
		createFn: func(ctx context.Context, req leave.Leave) (leave.Leave, error) {
			created = req
			req.ID = "leave-1"
			req.Status = leave.LeaveStatusPending
			return req, nil
		},
	}
	svc := newTestService(requests, &fakeLeaveBalanceRepo{}, &fakeEmployeeRepo{})

	result, err := svc.Submit(context.Background(), leave.CreateLeaveRequestRequest{
		EmployeeID: "emp-1",
		LeaveType:  "vacation",
		StartDate:  futureDate(10),
		EndDate:    futureDate(12),
		Reason:     "family trip out of town",
	})

	require.NoError(t, err)
	assert.Equal(t, 3, created.DaysCount)
	assert.Equal(t, leave.LeaveStatusPending, result.Status)
	assert.Equal(t, "leave-1", result.ID)
}

func TestSubmitRejectsEndBeforeStart(t *testing.T) {
	svc := newTestService(&fakeLeaveRequestRepo{}, &fakeLeaveBalanceRepo{}, &fakeEmployeeRepo{})

	_, err := svc.Submit(context.Background(), leave.CreateLeaveRequestRequest{
		EmployeeID: "emp-1",
		LeaveType:  "sick",
		StartDate:  futureDate(12),
		EndDate:    futureDate(10),
		Reason:     "dates entered backwards",
	})

	assert.ErrorIs(t, err, leave.ErrEndBeforeStart)
}

func TestSubmitRejectsPastStartDate(t *testing.T) {
	svc := newTestService(&fakeLeaveRequestRepo{}, &fakeLeaveBalanceRepo{}, &fakeEmployeeRepo{})

	_, err := svc.Submit(context.Background(), leave.CreateLeaveRequestRequest{
		EmployeeID: "emp-1",
		LeaveType:  "sick",
		StartDate:  futureDate(-3),
		EndDate:    futureDate(1),
		Reason:     "retroactive sick leave",
	})

	assert.ErrorIs(t, err, leave.ErrStartDateInPast)
}

func TestSubmitAcceptsStartToday(t *testing.T) {
	svc := newTestService(&fakeLeaveRequestRepo{}, &fakeLeaveBalanceRepo{}, &fakeEmployeeRepo{})

	_, err := svc.Submit(context.Background(), leave.CreateLeaveRequestRequest{
		EmployeeID: "emp-1",
		LeaveType:  "sick",
		StartDate:  futureDate(0),
		EndDate:    futureDate(1),
		Reason:     "came down with the flu this morning",
	})

	require.NoError(t, err)
}

func TestSubmitRejectsOverlap(t *testing.T) {
	requests := &fakeLeaveRequestRepo{
		hasOverlapFn: func(ctx context.Context, employeeID string, start, end time.Time, excludeID *string) (bool, error) {
			return true, nil
		},
	}
	svc := newTestService(requests, &fakeLeaveBalanceRepo{}, &fakeEmployeeRepo{})

	_, err := svc.Submit(context.Background(), leave.CreateLeaveRequestRequest{
		EmployeeID: "emp-1",
		LeaveType:  "vacation",
		StartDate:  futureDate(10),
		EndDate:    futureDate(12),
		Reason:     "overlaps an existing leave",
	})

	assert.ErrorIs(t, err, leave.ErrOverlappingLeave)
}

func TestSubmitRejectsInsufficientBalance(t *testing.T) {
	balances := &fakeLeaveBalanceRepo{
		hasSufficientFn: func(ctx context.Context, employeeID string, year int, leaveType leave.LeaveType, days int) (bool, error) {
			return false, nil
		},
	}
	svc := newTestService(&fakeLeaveRequestRepo{}, balances, &fakeEmployeeRepo{})

	_, err := svc.Submit(context.Background(), leave.CreateLeaveRequestRequest{
		EmployeeID: "emp-1",
		LeaveType:  "vacation",
		StartDate:  futureDate(10),
		EndDate:    futureDate(40),
		Reason:     "very long vacation request",
	})

	assert.ErrorIs(t, err, leave.ErrInsufficientBalance)
}

func TestSubmitUnpaidSkipsBalanceGate(t *testing.T) {
	balanceChecked := false
	balances := &fakeLeaveBalanceRepo{
		hasSufficientFn: func(ctx context.Context, employeeID string, year int, leaveType leave.LeaveType, days int) (bool, error) {
			balanceChecked = true
			return false, nil
		},
	}
	requests := &fakeLeaveRequestRepo{
		createFn: func(ctx context.Context, req leave.Leave) (leave.Leave, error) {
			req.ID = "leave-2"
			req.Status = leave.LeaveStatusPending
			return req, nil
		},
	}
	svc := newTestService(requests, balances, &fakeEmployeeRepo{})

	_, err := svc.Submit(context.Background(), leave.CreateLeaveRequestRequest{
		EmployeeID: "emp-1",
		LeaveType:  "unpaid",
		StartDate:  futureDate(10),
		EndDate:    futureDate(60),
		Reason:     "extended unpaid sabbatical",
	})

	require.NoError(t, err)
	assert.False(t, balanceChecked)
}

func TestApproveDeductsOnce(t *testing.T) {
	pending := leave.Leave{
		ID: "leave-1", EmployeeID: "emp-1", LeaveType: leave.LeaveTypeVacation,
		StartDate: time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 10, 7, 0, 0, 0, 0, time.UTC),
		DaysCount: 3, Status: leave.LeaveStatusPending,
	}
	deductions := 0
	requests := &fakeLeaveRequestRepo{
		getByIDFn: func(ctx context.Context, id string) (leave.Leave, error) { return pending, nil },
		approveFn: func(ctx context.Context, id, approverID string) (leave.Leave, error) {
			approved := pending
			approved.Status = leave.LeaveStatusApproved
			approved.ApprovedBy = &approverID
			return approved, nil
		},
	}
	balances := &fakeLeaveBalanceRepo{
		deductFn: func(ctx context.Context, employeeID string, year int, leaveType leave.LeaveType, days int) (bool, error) {
			deductions++
			assert.Equal(t, 2026, year)
			assert.Equal(t, leave.LeaveTypeVacation, leaveType)
			assert.Equal(t, 3, days)
			return true, nil
		},
	}
	svc := newTestService(requests, balances, &fakeEmployeeRepo{})

	approved, err := svc.Approve(context.Background(), "leave-1", "mgr-1")

	require.NoError(t, err)
	assert.Equal(t, leave.LeaveStatusApproved, approved.Status)
	assert.Equal(t, 1, deductions)
}

func TestApproveNonPendingDoesNotDeduct(t *testing.T) {
	deductions := 0
	requests := &fakeLeaveRequestRepo{
		getByIDFn: func(ctx context.Context, id string) (leave.Leave, error) {
			return leave.Leave{ID: id, Status: leave.LeaveStatusApproved, LeaveType: leave.LeaveTypeVacation}, nil
		},
	}
	balances := &fakeLeaveBalanceRepo{
		deductFn: func(ctx context.Context, employeeID string, year int, leaveType leave.LeaveType, days int) (bool, error) {
			deductions++
			return true, nil
		},
	}
	svc := newTestService(requests, balances, &fakeEmployeeRepo{})

	_, err := svc.Approve(context.Background(), "leave-1", "mgr-1")

	assert.ErrorIs(t, err, leave.ErrLeaveAlreadyProcessed)
	assert.Equal(t, 0, deductions)
}

func TestApproveSurvivesDeductionFailure(t *testing.T) {
	requests := &fakeLeaveRequestRepo{
		getByIDFn: func(ctx context.Context, id string) (leave.Leave, error) {
			return leave.Leave{ID: id, EmployeeID: "emp-1", LeaveType: leave.LeaveTypeSick,
				StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
				EndDate:   time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
				DaysCount: 1, Status: leave.LeaveStatusPending}, nil
		},
		approveFn: func(ctx context.Context, id, approverID string) (leave.Leave, error) {
			return leave.Leave{ID: id, EmployeeID: "emp-1", LeaveType: leave.LeaveTypeSick,
				StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
				EndDate:   time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
				DaysCount: 1, Status: leave.LeaveStatusApproved}, nil
		},
	}
	balances := &fakeLeaveBalanceRepo{
		deductFn: func(ctx context.Context, employeeID string, year int, leaveType leave.LeaveType, days int) (bool, error) {
			return false, nil
		},
	}
	svc := newTestService(requests, balances, &fakeEmployeeRepo{})

	approved, err := svc.Approve(context.Background(), "leave-1", "mgr-1")

	require.NoError(t, err)
	assert.Equal(t, leave.LeaveStatusApproved, approved.Status)
}

func TestRejectNonPending(t *testing.T) {
	requests := &fakeLeaveRequestRepo{
		getByIDFn: func(ctx context.Context, id string) (leave.Leave, error) {
			return leave.Leave{ID: id, Status: leave.LeaveStatusRejected}, nil
		},
	}
	svc := newTestService(requests, &fakeLeaveBalanceRepo{}, &fakeEmployeeRepo{})

	_, err := svc.Reject(context.Background(), "leave-1", "mgr-1", "out of policy")

	assert.ErrorIs(t, err, leave.ErrLeaveAlreadyProcessed)
}

func TestCancelApprovedRestoresBeforeDelete(t *testing.T) {
	var calls []string
	userID := "user-1"
	requests := &fakeLeaveRequestRepo{
		getByIDFn: func(ctx context.Context, id string) (leave.Leave, error) {
			return leave.Leave{ID: id, EmployeeID: "emp-1", LeaveType: leave.LeaveTypePersonal,
				StartDate: time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC),
				EndDate:   time.Date(2026, 11, 3, 0, 0, 0, 0, time.UTC),
				DaysCount: 2, Status: leave.LeaveStatusApproved}, nil
		},
		deleteFn: func(ctx context.Context, id string) (bool, error) {
			calls = append(calls, "delete")
			return true, nil
		},
	}
	balances := &fakeLeaveBalanceRepo{
		restoreFn: func(ctx context.Context, employeeID string, year int, leaveType leave.LeaveType, days int) (bool, error) {
			calls = append(calls, "restore")
			assert.Equal(t, 2, days)
			return true, nil
		},
	}
	employees := &fakeEmployeeRepo{
		getByIDFn: func(ctx context.Context, id string) (employee.Employee, error) {
			return employee.Employee{ID: id, UserID: &userID}, nil
		},
	}
	svc := newTestService(requests, balances, employees)

	deleted, err := svc.Cancel(context.Background(), "leave-1", "user-1", user.RoleEmployee)

	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, []string{"restore", "delete"}, calls)
}

func TestCancelPendingSkipsRestore(t *testing.T) {
	restored := false
	userID := "user-1"
	requests := &fakeLeaveRequestRepo{
		getByIDFn: func(ctx context.Context, id string) (leave.Leave, error) {
			return leave.Leave{ID: id, EmployeeID: "emp-1", LeaveType: leave.LeaveTypeVacation,
				Status: leave.LeaveStatusPending, DaysCount: 4}, nil
		},
		deleteFn: func(ctx context.Context, id string) (bool, error) { return true, nil },
	}
	balances := &fakeLeaveBalanceRepo{
		restoreFn: func(ctx context.Context, employeeID string, year int, leaveType leave.LeaveType, days int) (bool, error) {
			restored = true
			return true, nil
		},
	}
	employees := &fakeEmployeeRepo{
		getByIDFn: func(ctx context.Context, id string) (employee.Employee, error) {
			return employee.Employee{ID: id, UserID: &userID}, nil
		},
	}
	svc := newTestService(requests, balances, employees)

	deleted, err := svc.Cancel(context.Background(), "leave-1", "user-1", user.RoleEmployee)

	require.NoError(t, err)
	assert.True(t, deleted)
	assert.False(t, restored)
}

func TestCancelForbiddenForNonOwner(t *testing.T) {
	ownerUserID := "user-1"
	deleteCalled := false
	requests := &fakeLeaveRequestRepo{
		getByIDFn: func(ctx context.Context, id string) (leave.Leave, error) {
			return leave.Leave{ID: id, EmployeeID: "emp-1", Status: leave.LeaveStatusPending}, nil
		},
		deleteFn: func(ctx context.Context, id string) (bool, error) {
			deleteCalled = true
			return true, nil
		},
	}
	employees := &fakeEmployeeRepo{
		getByIDFn: func(ctx context.Context, id string) (employee.Employee, error) {
			return employee.Employee{ID: id, UserID: &ownerUserID}, nil
		},
	}
	svc := newTestService(requests, &fakeLeaveBalanceRepo{}, employees)

	_, err := svc.Cancel(context.Background(), "leave-1", "user-2", user.RoleEmployee)

	assert.ErrorIs(t, err, leave.ErrCancelNotAllowed)
	assert.False(t, deleteCalled)
}

func TestCancelAllowedForManager(t *testing.T) {
	requests := &fakeLeaveRequestRepo{
		getByIDFn: func(ctx context.Context, id string) (leave.Leave, error) {
			return leave.Leave{ID: id, EmployeeID: "emp-1", LeaveType: leave.LeaveTypeUnpaid,
				Status: leave.LeaveStatusApproved, DaysCount: 5}, nil
		},
		deleteFn: func(ctx context.Context, id string) (bool, error) { return true, nil },
	}
	svc := newTestService(requests, &fakeLeaveBalanceRepo{}, &fakeEmployeeRepo{})

	deleted, err := svc.Cancel(context.Background(), "leave-1", "someone-else", user.RoleManager)

	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestGetBalanceLazilyCreatesWithDefaults(t *testing.T) {
	var created *leave.LeaveBalance
	balances := &fakeLeaveBalanceRepo{
		getFn: func(ctx context.Context, employeeID string, year int) (leave.LeaveBalance, error) {
			return leave.LeaveBalance{}, leave.ErrLeaveBalanceNotFound
		},
		createFn: func(ctx context.Context, balance leave.LeaveBalance) (leave.LeaveBalance, error) {
			balance.ID = "bal-1"
			balance.Recalculate()
			created = &balance
			return balance, nil
		},
	}
	svc := newTestService(&fakeLeaveRequestRepo{}, balances, &fakeEmployeeRepo{})

	balance, err := svc.GetBalance(context.Background(), "emp-1", 2026)

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, 10, balance.SickTotal)
	assert.Equal(t, 12, balance.VacationTotal)
	assert.Equal(t, 5, balance.PersonalTotal)
	assert.Equal(t, 12, balance.VacationRemaining)
	assert.Equal(t, 0, balance.UnpaidUsed)
}
