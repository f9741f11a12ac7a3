package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestParseLeaveType(t *testing.T) {
	cases := []struct {
		in   string
		want LeaveType
		ok   bool
	}{
		{"sick", LeaveTypeSick, true},
		{"Sick", LeaveTypeSick, true},
		{"VACATION", LeaveTypeVacation, true},
		{" personal ", LeaveTypePersonal, true},
		{"Unpaid", LeaveTypeUnpaid, true},
		{"sabbatical", "", false},
		{"", "", false},
	}

	for _, c := range cases {
		got, ok := ParseLeaveType(c.in)
		assert.Equal(t, c.ok, ok, "input %q", c.in)
		assert.Equal(t, c.want, got, "input %q", c.in)
	}
}

func TestParseLeaveStatus(t *testing.T) {
	cases := []struct {
		in   string
		want LeaveStatus
		ok   bool
	}{
		{"pending", LeaveStatusPending, true},
		{" Approved ", LeaveStatusApproved, true},
		{"REJECTED", LeaveStatusRejected, true},
		{"cancelled", LeaveStatusCancelled, true},
		{"expired", "", false},
		{"", "", false},
	}

	for _, c := range cases {
		got, ok := ParseLeaveStatus(c.in)
		assert.Equal(t, c.ok, ok, "input %q", c.in)
		assert.Equal(t, c.want, got, "input %q", c.in)
	}
}

func TestDaysBetween_InclusiveRange(t *testing.T) {
	assert.Equal(t, 3, DaysBetween(date("2025-03-10"), date("2025-03-12")))
	assert.Equal(t, 1, DaysBetween(date("2025-03-10"), date("2025-03-10")))
	assert.Equal(t, 31, DaysBetween(date("2025-03-01"), date("2025-03-31")))
}

func newTestBalance() LeaveBalance {
	b := LeaveBalance{
		EmployeeID:    "emp-1",
		Year:          2025,
		SickTotal:     10,
		VacationTotal: 12,
		PersonalTotal: 5,
	}
	b.Recalculate()
	return b
}

func TestLeaveBalance_DeductRecomputesRemaining(t *testing.T) {
	b := newTestBalance()

	ok := b.Deduct(LeaveTypeSick, 4)
	assert.True(t, ok)
	assert.Equal(t, 4, b.SickUsed)
	assert.Equal(t, 6, b.SickRemaining)

	// Case-insensitive matching at the boundary
	ok = b.Deduct("Vacation", 2)
	assert.True(t, ok)
	assert.Equal(t, 2, b.VacationUsed)
	assert.Equal(t, 10, b.VacationRemaining)
}

func TestLeaveBalance_DeductUnpaidHasNoCap(t *testing.T) {
	b := newTestBalance()

	for i := 0; i < 5; i++ {
		assert.True(t, b.Deduct(LeaveTypeUnpaid, 30))
	}
	assert.Equal(t, 150, b.UnpaidUsed)
	assert.True(t, b.HasSufficient(LeaveTypeUnpaid, 1000))
}

func TestLeaveBalance_DeductUnknownType(t *testing.T) {
	b := newTestBalance()

	assert.False(t, b.Deduct("sabbatical", 3))
	assert.Equal(t, newTestBalance(), b)
}

func TestLeaveBalance_RestoreFloorsAtZero(t *testing.T) {
	b := newTestBalance()
	b.Deduct(LeaveTypeSick, 1)

	ok := b.Restore(LeaveTypeSick, 5)
	assert.True(t, ok)
	assert.Equal(t, 0, b.SickUsed)
	assert.Equal(t, 10, b.SickRemaining)
}

func TestLeaveBalance_RestoreInvertsDeduct(t *testing.T) {
	b := newTestBalance()

	b.Deduct(LeaveTypePersonal, 4)
	assert.Equal(t, 1, b.PersonalRemaining)

	b.Restore(LeaveTypePersonal, 4)
	assert.Equal(t, 0, b.PersonalUsed)
	assert.Equal(t, 5, b.PersonalRemaining)
}

func TestLeaveBalance_HasSufficient(t *testing.T) {
	b := newTestBalance()
	b.Deduct(LeaveTypeVacation, 10)

	assert.True(t, b.HasSufficient(LeaveTypeVacation, 2))
	assert.False(t, b.HasSufficient(LeaveTypeVacation, 3))
	assert.False(t, b.HasSufficient("sabbatical", 1))
}
