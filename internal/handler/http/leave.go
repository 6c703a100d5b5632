package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sagana-hq/workforce-backend-go/internal/domain/leave"
	"github.com/sagana-hq/workforce-backend-go/internal/handler/http/response"
	"github.com/sagana-hq/workforce-backend-go/internal/pkg/civiltime"
	"github.com/sagana-hq/workforce-backend-go/internal/pkg/jwt"
)

type LeaveHandler interface {
	CreateRequest(w http.ResponseWriter, r *http.Request)
	ListMyRequests(w http.ResponseWriter, r *http.Request)
	ApproveRequest(w http.ResponseWriter, r *http.Request)
	RejectRequest(w http.ResponseWriter, r *http.Request)
	CancelRequest(w http.ResponseWriter, r *http.Request)
	AccrueAllocation(w http.ResponseWriter, r *http.Request)
	CorrectAllocation(w http.ResponseWriter, r *http.Request)
}

type leaveHandlerImpl struct {
	leaveService leave.Service
	jwtService   jwt.Service
}

func NewLeaveHandler(leaveService leave.Service, jwtService jwt.Service) LeaveHandler {
	return &leaveHandlerImpl{
		leaveService: leaveService,
		jwtService:   jwtService,
	}
}

// CreateRequest implements LeaveHandler.
func (h *leaveHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	claims, err := h.jwtService.ClaimsFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req leave.CreateRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.EmployeeID = claims.EmployeeID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.leaveService.CreateRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted", result)
}

// ListMyRequests implements LeaveHandler.
func (h *leaveHandlerImpl) ListMyRequests(w http.ResponseWriter, r *http.Request) {
	claims, err := h.jwtService.ClaimsFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	result, err := h.leaveService.ListMyRequests(r.Context(), claims.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ApproveRequest implements LeaveHandler.
func (h *leaveHandlerImpl) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	h.decideRequest(w, r, true)
}

// RejectRequest implements LeaveHandler.
func (h *leaveHandlerImpl) RejectRequest(w http.ResponseWriter, r *http.Request) {
	h.decideRequest(w, r, false)
}

func (h *leaveHandlerImpl) decideRequest(w http.ResponseWriter, r *http.Request, approve bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Request ID is required", nil)
		return
	}

	claims, err := h.jwtService.ClaimsFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	result, err := h.leaveService.DecideRequest(r.Context(), leave.DecideRequestRequest{
		RequestID: id,
		Approve:   approve,
		DecidedBy: claims.UserID,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if approve {
		response.SuccessWithMessage(w, "Leave request approved", result)
		return
	}
	response.SuccessWithMessage(w, "Leave request rejected", result)
}

// CancelRequest implements LeaveHandler.
func (h *leaveHandlerImpl) CancelRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Request ID is required", nil)
		return
	}

	claims, err := h.jwtService.ClaimsFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	result, err := h.leaveService.CancelRequest(r.Context(), id, claims.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request cancelled", result)
}

// AccrueAllocation implements LeaveHandler.
func (h *leaveHandlerImpl) AccrueAllocation(w http.ResponseWriter, r *http.Request) {
	var body struct {
		EmployeeID  string `json:"employee_id"`
		LeaveTypeID string `json:"leave_type_id"`
		Year        int    `json:"year"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if body.EmployeeID == "" || body.LeaveTypeID == "" {
		response.BadRequest(w, "employee_id and leave_type_id are required", nil)
		return
	}
	if body.Year == 0 {
		body.Year = civiltime.Now().Year()
	}

	result, err := h.leaveService.AccrueAllocation(r.Context(), body.EmployeeID, body.LeaveTypeID, body.Year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave allocation accrued", result)
}

// CorrectAllocation implements LeaveHandler.
func (h *leaveHandlerImpl) CorrectAllocation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Allocation ID is required", nil)
		return
	}

	var req leave.CorrectAllocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.AllocationID = id

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.leaveService.CorrectAllocation(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave allocation corrected", result)
}
