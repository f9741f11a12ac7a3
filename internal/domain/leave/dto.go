package leave

import (
	"time"

	"github.com/staffhub-id/hr-backend-go/internal/pkg/validator"
)

type CreateLeaveRequestRequest struct {
	// EmployeeID comes from the JWT claims, never from the body.
	EmployeeID string `json:"-"`
	LeaveType  string `json:"leave_type"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Reason     string `json:"reason"`
}

func (r *CreateLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := ParseLeaveType(r.LeaveType); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type must be one of: sick, vacation, personal, unpaid",
		})
	}

	if validator.IsEmpty(r.StartDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date is required",
		})
	} else if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	if validator.IsEmpty(r.EndDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date is required",
		})
	} else if _, ok := validator.IsValidDate(r.EndDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if len(r.Reason) < 10 {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must be at least 10 characters",
		})
	}
	if len(r.Reason) > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RejectLeaveRequestRequest struct {
	RejectionReason string `json:"rejection_reason"`
}

func (r *RejectLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RejectionReason) {
		errs = append(errs, validator.ValidationError{
			Field:   "rejection_reason",
			Message: "rejection_reason is required",
		})
	}
	if len(r.RejectionReason) > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "rejection_reason",
			Message: "rejection_reason must not exceed 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LeaveResponse struct {
	ID              string     `json:"leave_id"`
	EmployeeID      string     `json:"employee_id"`
	EmployeeName    *string    `json:"employee_name,omitempty"`
	LeaveType       string     `json:"leave_type"`
	StartDate       string     `json:"start_date"`
	EndDate         string     `json:"end_date"`
	DaysCount       int        `json:"days_count"`
	Reason          string     `json:"reason"`
	Status          string     `json:"status"`
	ApprovedBy      *string    `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func NewLeaveResponse(l Leave) LeaveResponse {
	return LeaveResponse{
		ID:              l.ID,
		EmployeeID:      l.EmployeeID,
		EmployeeName:    l.EmployeeName,
		LeaveType:       string(l.LeaveType),
		StartDate:       l.StartDate.Format("2006-01-02"),
		EndDate:         l.EndDate.Format("2006-01-02"),
		DaysCount:       l.DaysCount,
		Reason:          l.Reason,
		Status:          string(l.Status),
		ApprovedBy:      l.ApprovedBy,
		ApprovedAt:      l.ApprovedAt,
		RejectionReason: l.RejectionReason,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
}

func NewLeaveListResponse(leaves []Leave) []LeaveResponse {
	responses := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		responses[i] = NewLeaveResponse(l)
	}
	return responses
}

type BalanceTriplet struct {
	Total     int `json:"total"`
	Used      int `json:"used"`
	Remaining int `json:"remaining"`
}

type LeaveBalanceResponse struct {
	EmployeeID string         `json:"employee_id"`
	Year       int            `json:"year"`
	Sick       BalanceTriplet `json:"sick"`
	Vacation   BalanceTriplet `json:"vacation"`
	Personal   BalanceTriplet `json:"personal"`
	UnpaidUsed int            `json:"unpaid_used"`
}

func NewLeaveBalanceResponse(b LeaveBalance) LeaveBalanceResponse {
	return LeaveBalanceResponse{
		EmployeeID: b.EmployeeID,
		Year:       b.Year,
		Sick:       BalanceTriplet{Total: b.SickTotal, Used: b.SickUsed, Remaining: b.SickRemaining},
		Vacation:   BalanceTriplet{Total: b.VacationTotal, Used: b.VacationUsed, Remaining: b.VacationRemaining},
		Personal:   BalanceTriplet{Total: b.PersonalTotal, Used: b.PersonalUsed, Remaining: b.PersonalRemaining},
		UnpaidUsed: b.UnpaidUsed,
	}
}
