package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

type AttendanceHandler interface {
	Mark(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	AutoAbsent(w http.ResponseWriter, r *http.Request)
	MarkHoliday(w http.ResponseWriter, r *http.Request)
	RepairHolidays(w http.ResponseWriter, r *http.Request)
	BulkUpdate(w http.ResponseWriter, r *http.Request)
	Monthly(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.Service
}

func NewAttendanceHandler(attendanceService attendance.Service) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// requestClaims pulls the identity claims the handlers need. The verifier
// middleware has already rejected requests without a valid token.
func requestClaims(r *http.Request) (tenantID, actor string, ok bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", "", false
	}
	tenantID, tOK := claims["tenant_id"].(string)
	actor, _ = claims["username"].(string)
	return tenantID, actor, tOK && tenantID != ""
}

// Mark implements AttendanceHandler.
func (h *attendanceHandlerImpl) Mark(w http.ResponseWriter, r *http.Request) {
	tenantID, actor, ok := requestClaims(r)
	if !ok {
		response.Unauthorized(w, "tenant_id claim is missing or invalid")
		return
	}

	var req attendance.MarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.TenantID = tenantID
	req.UpdatedBy = actor
	if req.Username == "" {
		req.Username = actor
	}

	result, err := h.attendanceService.Mark(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance marked", result)
}

// ClockOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	tenantID, actor, ok := requestClaims(r)
	if !ok {
		response.Unauthorized(w, "tenant_id claim is missing or invalid")
		return
	}

	var req attendance.ClockOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.TenantID = tenantID
	req.UpdatedBy = actor
	if req.Username == "" {
		req.Username = actor
	}

	result, err := h.attendanceService.ClockOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clock out successful", result)
}

// AutoAbsent implements AttendanceHandler.
func (h *attendanceHandlerImpl) AutoAbsent(w http.ResponseWriter, r *http.Request) {
	tenantID, _, ok := requestClaims(r)
	if !ok {
		response.Unauthorized(w, "tenant_id claim is missing or invalid")
		return
	}

	var req attendance.AutoAbsentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.TenantID = tenantID

	created, err := h.attendanceService.MarkAutoAbsent(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Auto-absent completed", created)
}

// MarkHoliday implements AttendanceHandler.
func (h *attendanceHandlerImpl) MarkHoliday(w http.ResponseWriter, r *http.Request) {
	tenantID, actor, ok := requestClaims(r)
	if !ok {
		response.Unauthorized(w, "tenant_id claim is missing or invalid")
		return
	}

	var req attendance.MarkHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.TenantID = tenantID
	req.MarkedBy = actor

	result, err := h.attendanceService.MarkHoliday(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Holiday marked", result)
}

// RepairHolidays implements AttendanceHandler.
func (h *attendanceHandlerImpl) RepairHolidays(w http.ResponseWriter, r *http.Request) {
	tenantID, _, ok := requestClaims(r)
	if !ok {
		response.Unauthorized(w, "tenant_id claim is missing or invalid")
		return
	}

	result, err := h.attendanceService.FixPastHolidayAttendance(r.Context(), tenantID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Holiday repair completed", result)
}

// BulkUpdate implements AttendanceHandler.
func (h *attendanceHandlerImpl) BulkUpdate(w http.ResponseWriter, r *http.Request) {
	tenantID, actor, ok := requestClaims(r)
	if !ok {
		response.Unauthorized(w, "tenant_id claim is missing or invalid")
		return
	}

	var req attendance.BulkDateUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.TenantID = tenantID
	req.UpdatedBy = actor

	result, err := h.attendanceService.BulkDateUpdate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Bulk update completed", result)
}

// Monthly implements AttendanceHandler.
func (h *attendanceHandlerImpl) Monthly(w http.ResponseWriter, r *http.Request) {
	tenantID, actor, ok := requestClaims(r)
	if !ok {
		response.Unauthorized(w, "tenant_id claim is missing or invalid")
		return
	}

	username := r.URL.Query().Get("username")
	if username == "" {
		username = actor
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		response.BadRequest(w, "year must be a number", nil)
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		response.BadRequest(w, "month must be a number", nil)
		return
	}

	summary, err := h.attendanceService.GetMonthlyAttendance(r.Context(), tenantID, username, year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}

// Summary implements AttendanceHandler.
func (h *attendanceHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	tenantID, actor, ok := requestClaims(r)
	if !ok {
		response.Unauthorized(w, "tenant_id claim is missing or invalid")
		return
	}

	req := attendance.SummaryRequest{
		TenantID:  tenantID,
		Username:  r.URL.Query().Get("username"),
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}
	if req.Username == "" {
		req.Username = actor
	}

	summary, err := h.attendanceService.GetAttendanceSummary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}
