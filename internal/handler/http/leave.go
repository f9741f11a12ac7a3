package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"

	"github.com/staffhub-id/hr-backend-go/internal/domain/leave"
	"github.com/staffhub-id/hr-backend-go/internal/domain/user"
	"github.com/staffhub-id/hr-backend-go/internal/handler/http/middleware"
	"github.com/staffhub-id/hr-backend-go/internal/handler/http/response"
	"github.com/staffhub-id/hr-backend-go/internal/pkg/validator"
)

type LeaveHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListPending(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	GetBalance(w http.ResponseWriter, r *http.Request)
}

type leaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &leaveHandlerImpl{leaveService: leaveService}
}

// claimString pulls a string claim out of the verified JWT.
func claimString(r *http.Request, key string) string {
	_, claims, _ := jwtauth.FromContext(r.Context())
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}

// Create submits a new leave request for the authenticated employee.
func (h *leaveHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	employeeID := claimString(r, "employee_id")
	if employeeID == "" {
		response.Unauthorized(w, "employee_id claim is missing or invalid")
		return
	}

	var req leave.CreateLeaveRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create leave decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	// The employee always files for themselves; ignore any id in the body.
	req.EmployeeID = employeeID

	created, err := h.leaveService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted successfully", leave.NewLeaveResponse(created))
}

// List returns leave requests. Roles with leave.view_all see everything,
// optionally filtered by ?status=; everyone else sees only their own.
func (h *leaveHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	role, ok := middleware.RoleFromRequest(r)
	if !ok {
		response.HandleError(w, user.ErrRoleRequired)
		return
	}

	if !user.HasPermission(role, user.PermissionLeaveViewAll) {
		employeeID := claimString(r, "employee_id")
		if employeeID == "" {
			response.Unauthorized(w, "employee_id claim is missing or invalid")
			return
		}

		leaves, err := h.leaveService.ListByEmployee(r.Context(), employeeID)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		response.Success(w, leave.NewLeaveListResponse(leaves))
		return
	}

	var status *leave.LeaveStatus
	if s := r.URL.Query().Get("status"); s != "" {
		parsed, ok := leave.ParseLeaveStatus(s)
		if !ok {
			response.BadRequest(w, "Unknown leave status", nil)
			return
		}
		status = &parsed
	}

	leaves, err := h.leaveService.List(r.Context(), status)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leave.NewLeaveListResponse(leaves))
}

// ListPending returns the approval queue for a manager or admin.
func (h *leaveHandlerImpl) ListPending(w http.ResponseWriter, r *http.Request) {
	userID := claimString(r, "user_id")
	if userID == "" {
		response.Unauthorized(w, "user_id claim is missing or invalid")
		return
	}

	leaves, err := h.leaveService.ListPending(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leave.NewLeaveListResponse(leaves))
}

// Get returns a single leave request by id.
func (h *leaveHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	leaveID := chi.URLParam(r, "id")
	if !validator.IsValidUUID(leaveID) {
		response.BadRequest(w, "Leave ID must be a valid UUID", nil)
		return
	}

	l, err := h.leaveService.Get(r.Context(), leaveID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leave.NewLeaveResponse(l))
}

// Approve transitions a pending request to approved.
func (h *leaveHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	leaveID := chi.URLParam(r, "id")
	if !validator.IsValidUUID(leaveID) {
		response.BadRequest(w, "Leave ID must be a valid UUID", nil)
		return
	}

	userID := claimString(r, "user_id")
	if userID == "" {
		response.Unauthorized(w, "user_id claim is missing or invalid")
		return
	}

	approved, err := h.leaveService.Approve(r.Context(), leaveID, userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request approved", leave.NewLeaveResponse(approved))
}

// Reject transitions a pending request to rejected with a reason.
func (h *leaveHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	leaveID := chi.URLParam(r, "id")
	if !validator.IsValidUUID(leaveID) {
		response.BadRequest(w, "Leave ID must be a valid UUID", nil)
		return
	}

	userID := claimString(r, "user_id")
	if userID == "" {
		response.Unauthorized(w, "user_id claim is missing or invalid")
		return
	}

	var req leave.RejectLeaveRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Reject leave decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	rejected, err := h.leaveService.Reject(r.Context(), leaveID, userID, req.RejectionReason)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request rejected", leave.NewLeaveResponse(rejected))
}

// Cancel deletes a leave request, restoring balance if it was approved.
func (h *leaveHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	leaveID := chi.URLParam(r, "id")
	if !validator.IsValidUUID(leaveID) {
		response.BadRequest(w, "Leave ID must be a valid UUID", nil)
		return
	}

	userID := claimString(r, "user_id")
	if userID == "" {
		response.Unauthorized(w, "user_id claim is missing or invalid")
		return
	}

	role, ok := middleware.RoleFromRequest(r)
	if !ok {
		response.HandleError(w, user.ErrRoleRequired)
		return
	}

	deleted, err := h.leaveService.Cancel(r.Context(), leaveID, userID, role)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request cancelled", map[string]bool{"deleted": deleted})
}

// GetBalance returns the leave balance for the authenticated employee, or
// for any employee when the caller may view all balances. The year
// defaults to the current one and the record is created on first read.
func (h *leaveHandlerImpl) GetBalance(w http.ResponseWriter, r *http.Request) {
	role, ok := middleware.RoleFromRequest(r)
	if !ok {
		response.HandleError(w, user.ErrRoleRequired)
		return
	}

	employeeID := claimString(r, "employee_id")
	if requested := r.URL.Query().Get("employee_id"); requested != "" && requested != employeeID {
		if !user.HasPermission(role, user.PermissionBalanceViewAll) {
			response.HandleError(w, user.ErrPermissionDenied)
			return
		}
		employeeID = requested
	}
	if employeeID == "" {
		response.Unauthorized(w, "employee_id claim is missing or invalid")
		return
	}

	year := time.Now().Year()
	if y := r.URL.Query().Get("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil {
			response.BadRequest(w, "Invalid year", nil)
			return
		}
		year = parsed
	}

	balance, err := h.leaveService.GetBalance(r.Context(), employeeID, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leave.NewLeaveBalanceResponse(balance))
}
