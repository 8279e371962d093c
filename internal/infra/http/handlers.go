package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gymdesk/gymdesk/internal/domain/attendance"
	"github.com/gymdesk/gymdesk/internal/domain/payments"
	"github.com/gymdesk/gymdesk/internal/domain/plans"
	"github.com/gymdesk/gymdesk/internal/infra/export"
	"github.com/gymdesk/gymdesk/internal/infra/metrics"
)

const dateLayout = "2006-01-02"

// PlanDirectory is the read-only plan access the handlers need.
type PlanDirectory interface {
	GetByID(ctx context.Context, id int64) (*plans.Plan, error)
	ListActive(ctx context.Context) ([]plans.Plan, error)
}

type Handlers struct {
	log        *slog.Logger
	attendance attendance.Service
	payments   payments.Service
	plans      PlanDirectory
	loc        *time.Location
}

func NewHandlers(log *slog.Logger, as attendance.Service, ps payments.Service, pd PlanDirectory, loc *time.Location) *Handlers {
	return &Handlers{log: log, attendance: as, payments: ps, plans: pd, loc: loc}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, attendance.ErrMemberNotFound),
		errors.Is(err, attendance.ErrNotFound),
		errors.Is(err, payments.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, attendance.ErrMembershipInactive),
		errors.Is(err, attendance.ErrAlreadyCheckedIn),
		errors.Is(err, attendance.ErrAlreadyCheckedOut):
		status = http.StatusConflict
	case errors.Is(err, attendance.ErrEmptySearchTerm),
		errors.Is(err, payments.ErrInvalidAmount):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		h.log.Error("request failed", "err", err)
		writeJSON(w, status, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// parseDate reads an optional yyyy-mm-dd query parameter.
func (h *Handlers) parseDate(r *http.Request, key string) (*time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, h.loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseMemberID(r *http.Request) (*int64, error) {
	raw := r.URL.Query().Get("member_id")
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (h *Handlers) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MemberID int64  `json:"member_id"`
		Notes    string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	a, err := h.attendance.CheckIn(r.Context(), req.MemberID, req.Notes)
	if err != nil {
		h.writeError(w, err)
		return
	}
	metrics.CheckIns.Inc()
	writeJSON(w, http.StatusCreated, a)
}

func (h *Handlers) CheckOut(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	if err := h.attendance.CheckOut(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) DeleteAttendance(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	if err := h.attendance.Delete(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) attendanceFilter(r *http.Request) (attendance.Filter, error) {
	var f attendance.Filter
	var err error
	if f.From, err = h.parseDate(r, "start_date"); err != nil {
		return f, err
	}
	if f.To, err = h.parseDate(r, "end_date"); err != nil {
		return f, err
	}
	if f.MemberID, err = parseMemberID(r); err != nil {
		return f, err
	}
	return f, nil
}

func (h *Handlers) ListAttendance(w http.ResponseWriter, r *http.Request) {
	f, err := h.attendanceFilter(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid filter"})
		return
	}
	entries, err := h.attendance.List(r.Context(), f)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handlers) TodayAttendance(w http.ResponseWriter, r *http.Request) {
	entries, err := h.attendance.ListToday(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handlers) ExportAttendance(w http.ResponseWriter, r *http.Request) {
	f, err := h.attendanceFilter(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid filter"})
		return
	}
	entries, err := h.attendance.List(r.Context(), f)
	if err != nil {
		h.writeError(w, err)
		return
	}
	file, err := export.AttendanceReport(entries)
	if err != nil {
		h.writeError(w, err)
		return
	}
	defer func() { _ = file.Close() }()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="attendance.xlsx"`)
	if err := file.Write(w); err != nil {
		h.log.Error("attendance export failed", "err", err)
	}
}

func (h *Handlers) SearchMembers(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SearchTerm string `json:"search_term"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	matches, err := h.attendance.SearchActiveMembers(r.Context(), req.SearchTerm)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"members": matches})
}

func (h *Handlers) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MemberID             int64   `json:"member_id"`
		Amount               float64 `json:"amount"`
		Method               string  `json:"method"`
		Status               string  `json:"status"`
		MembershipPlanID     *int64  `json:"membership_plan_id"`
		TransactionReference string  `json:"transaction_reference"`
		Notes                string  `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	method, err := payments.ParseMethod(req.Method)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	status, err := payments.ParseStatus(req.Status)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	p, err := h.payments.Create(r.Context(), payments.CreateInput{
		MemberID:             req.MemberID,
		Amount:               req.Amount,
		Method:               method,
		Status:               status,
		MembershipPlanID:     req.MembershipPlanID,
		TransactionReference: req.TransactionReference,
		Notes:                req.Notes,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	metrics.Payments.WithLabelValues(string(p.Status)).Inc()
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handlers) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	status, err := payments.ParseStatus(req.Status)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	p, err := h.payments.UpdateStatus(r.Context(), id, status)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handlers) paymentsFilter(r *http.Request) (payments.Filter, error) {
	var f payments.Filter
	var err error
	if f.From, err = h.parseDate(r, "start_date"); err != nil {
		return f, err
	}
	if f.To, err = h.parseDate(r, "end_date"); err != nil {
		return f, err
	}
	if f.MemberID, err = parseMemberID(r); err != nil {
		return f, err
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := payments.ParseStatus(raw)
		if err != nil {
			return f, err
		}
		f.Status = &status
	}
	return f, nil
}

func (h *Handlers) ListPayments(w http.ResponseWriter, r *http.Request) {
	f, err := h.paymentsFilter(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid filter"})
		return
	}
	entries, err := h.payments.List(r.Context(), f)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handlers) PendingPayments(w http.ResponseWriter, r *http.Request) {
	entries, err := h.payments.ListPending(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handlers) DueMembers(w http.ResponseWriter, r *http.Request) {
	out, err := h.payments.DueMembers(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) ExportPayments(w http.ResponseWriter, r *http.Request) {
	f, err := h.paymentsFilter(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid filter"})
		return
	}
	entries, err := h.payments.List(r.Context(), f)
	if err != nil {
		h.writeError(w, err)
		return
	}
	file, err := export.PaymentsReport(entries)
	if err != nil {
		h.writeError(w, err)
		return
	}
	defer func() { _ = file.Close() }()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="payments.xlsx"`)
	if err := file.Write(w); err != nil {
		h.log.Error("payments export failed", "err", err)
	}
}

func (h *Handlers) ListPlans(w http.ResponseWriter, r *http.Request) {
	out, err := h.plans.ListActive(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// PlanPrice returns the plan's price, or 0 for an unknown plan, for the
// payment form to prefill the amount.
func (h *Handlers) PlanPrice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	p, err := h.plans.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	price := 0.0
	if p != nil {
		price = p.Price
	}
	writeJSON(w, http.StatusOK, price)
}
