package leave

import (
	"strings"
	"time"

	"github.com/staffhub-id/hr-backend-go/internal/pkg/validator"
)

// LeaveType is the closed set of leave categories. Parsing is
// case-insensitive; the lowercase form is the canonical storage form.
type LeaveType string

const (
	LeaveTypeSick     LeaveType = "sick"
	LeaveTypeVacation LeaveType = "vacation"
	LeaveTypePersonal LeaveType = "personal"
	LeaveTypeUnpaid   LeaveType = "unpaid"
)

// ParseLeaveType normalizes a leave type name into its canonical form.
func ParseLeaveType(s string) (LeaveType, bool) {
	switch LeaveType(strings.ToLower(strings.TrimSpace(s))) {
	case LeaveTypeSick:
		return LeaveTypeSick, true
	case LeaveTypeVacation:
		return LeaveTypeVacation, true
	case LeaveTypePersonal:
		return LeaveTypePersonal, true
	case LeaveTypeUnpaid:
		return LeaveTypeUnpaid, true
	}
	return "", false
}

// HasQuota reports whether the leave type is capacity-limited.
// Unpaid leave is tracked but never capped.
func (t LeaveType) HasQuota() bool {
	return t != LeaveTypeUnpaid
}

type LeaveStatus string

const (
	LeaveStatusPending   LeaveStatus = "pending"
	LeaveStatusApproved  LeaveStatus = "approved"
	LeaveStatusRejected  LeaveStatus = "rejected"
	LeaveStatusCancelled LeaveStatus = "cancelled"
)

// ParseLeaveStatus normalizes a status filter value.
func ParseLeaveStatus(s string) (LeaveStatus, bool) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if !validator.IsInSlice(normalized, []string{
		string(LeaveStatusPending),
		string(LeaveStatusApproved),
		string(LeaveStatusRejected),
		string(LeaveStatusCancelled),
	}) {
		return "", false
	}
	return LeaveStatus(normalized), true
}

// Leave entity
type Leave struct {
	ID         string
	EmployeeID string
	LeaveType  LeaveType

	StartDate time.Time
	EndDate   time.Time
	DaysCount int

	Reason string

	Status          LeaveStatus
	ApprovedBy      *string
	ApprovedAt      *time.Time
	RejectionReason *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships (for responses)
	EmployeeName *string
}

// IsActive reports whether the leave still occupies its date range.
// Rejected and cancelled leaves never block new requests.
func (l Leave) IsActive() bool {
	return l.Status == LeaveStatusPending || l.Status == LeaveStatusApproved
}

// DaysBetween returns the inclusive day count of [start, end].
func DaysBetween(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

// LeaveBalance entity. One record per (employee, year). The Remaining
// counters are derived from Total and Used and recomputed on every
// mutation; they are never trusted as independently stored truth.
type LeaveBalance struct {
	ID         string
	EmployeeID string
	Year       int

	SickTotal     int
	SickUsed      int
	SickRemaining int

	VacationTotal     int
	VacationUsed      int
	VacationRemaining int

	PersonalTotal     int
	PersonalUsed      int
	PersonalRemaining int

	// Unpaid leave is a bare counter with no Total/Remaining.
	UnpaidUsed int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Recalculate recomputes the Remaining counters from Total and Used.
func (b *LeaveBalance) Recalculate() {
	b.SickRemaining = b.SickTotal - b.SickUsed
	b.VacationRemaining = b.VacationTotal - b.VacationUsed
	b.PersonalRemaining = b.PersonalTotal - b.PersonalUsed
}

// Deduct increases the Used counter for the given leave type by days and
// recomputes Remaining. Returns false for an unrecognized leave type;
// callers must check the result.
func (b *LeaveBalance) Deduct(leaveType LeaveType, days int) bool {
	t, ok := ParseLeaveType(string(leaveType))
	if !ok {
		return false
	}

	switch t {
	case LeaveTypeSick:
		b.SickUsed += days
	case LeaveTypeVacation:
		b.VacationUsed += days
	case LeaveTypePersonal:
		b.PersonalUsed += days
	case LeaveTypeUnpaid:
		// No capacity check: unpaid leave only accumulates a counter.
		b.UnpaidUsed += days
	}

	b.Recalculate()
	return true
}

// Restore is the inverse of Deduct. Used is floored at zero so a restore
// can never drive a counter negative.
func (b *LeaveBalance) Restore(leaveType LeaveType, days int) bool {
	t, ok := ParseLeaveType(string(leaveType))
	if !ok {
		return false
	}

	switch t {
	case LeaveTypeSick:
		b.SickUsed = max(0, b.SickUsed-days)
	case LeaveTypeVacation:
		b.VacationUsed = max(0, b.VacationUsed-days)
	case LeaveTypePersonal:
		b.PersonalUsed = max(0, b.PersonalUsed-days)
	case LeaveTypeUnpaid:
		b.UnpaidUsed = max(0, b.UnpaidUsed-days)
	}

	b.Recalculate()
	return true
}

// Remaining returns the remaining capacity for a capped leave type.
// ok is false for unpaid and unrecognized types, which carry no cap.
func (b *LeaveBalance) Remaining(leaveType LeaveType) (int, bool) {
	t, ok := ParseLeaveType(string(leaveType))
	if !ok {
		return 0, false
	}

	switch t {
	case LeaveTypeSick:
		return b.SickRemaining, true
	case LeaveTypeVacation:
		return b.VacationRemaining, true
	case LeaveTypePersonal:
		return b.PersonalRemaining, true
	}
	return 0, false
}

// HasSufficient reports whether days of the given type can still be taken.
// Unpaid leave always passes.
func (b *LeaveBalance) HasSufficient(leaveType LeaveType, days int) bool {
	t, ok := ParseLeaveType(string(leaveType))
	if !ok {
		return false
	}
	if t == LeaveTypeUnpaid {
		return true
	}

	remaining, ok := b.Remaining(t)
	return ok && remaining >= days
}
