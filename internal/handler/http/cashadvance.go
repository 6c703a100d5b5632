package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sagana-hq/workforce-backend-go/internal/domain/cashadvance"
	"github.com/sagana-hq/workforce-backend-go/internal/handler/http/response"
	"github.com/sagana-hq/workforce-backend-go/internal/pkg/jwt"
)

type CashAdvanceHandler interface {
	Request(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Disburse(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	ListMy(w http.ResponseWriter, r *http.Request)
	ListByEmployee(w http.ResponseWriter, r *http.Request)
}

type cashAdvanceHandlerImpl struct {
	cashAdvanceService cashadvance.Service
	jwtService         jwt.Service
}

func NewCashAdvanceHandler(cashAdvanceService cashadvance.Service, jwtService jwt.Service) CashAdvanceHandler {
	return &cashAdvanceHandlerImpl{
		cashAdvanceService: cashAdvanceService,
		jwtService:         jwtService,
	}
}

// Request implements CashAdvanceHandler.
func (h *cashAdvanceHandlerImpl) Request(w http.ResponseWriter, r *http.Request) {
	claims, err := h.jwtService.ClaimsFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req cashadvance.CreateAdvanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.EmployeeID = claims.EmployeeID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.cashAdvanceService.RequestAdvance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Cash advance requested", result)
}

// Approve implements CashAdvanceHandler.
func (h *cashAdvanceHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Cash advance ID is required", nil)
		return
	}

	result, err := h.cashAdvanceService.ApproveAdvance(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Cash advance approved", result)
}

// Reject implements CashAdvanceHandler.
func (h *cashAdvanceHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Cash advance ID is required", nil)
		return
	}

	result, err := h.cashAdvanceService.RejectAdvance(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Cash advance rejected", result)
}

// Disburse implements CashAdvanceHandler.
func (h *cashAdvanceHandlerImpl) Disburse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Cash advance ID is required", nil)
		return
	}

	result, err := h.cashAdvanceService.DisburseAdvance(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Cash advance disbursed", result)
}

// Get implements CashAdvanceHandler.
func (h *cashAdvanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Cash advance ID is required", nil)
		return
	}

	result, err := h.cashAdvanceService.GetAdvance(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListMy implements CashAdvanceHandler.
func (h *cashAdvanceHandlerImpl) ListMy(w http.ResponseWriter, r *http.Request) {
	claims, err := h.jwtService.ClaimsFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	result, err := h.cashAdvanceService.ListByEmployee(r.Context(), claims.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListByEmployee implements CashAdvanceHandler.
func (h *cashAdvanceHandlerImpl) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employee_id")
	if employeeID == "" {
		response.BadRequest(w, "employee_id is required", nil)
		return
	}

	result, err := h.cashAdvanceService.ListByEmployee(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
