package reportshandler

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"worklog/internal/domain/apperr"
	"worklog/internal/domain/payroll"
	"worklog/internal/domain/reports"
	"worklog/internal/domain/users"
	"worklog/internal/platform/csvexport"
	"worklog/internal/platform/metrics"
	"worklog/internal/transport/http/api"
	"worklog/internal/transport/http/middleware"
	"worklog/internal/transport/http/shared"
)

const (
	defaultCompanyMonths = 6
	pdfContentType       = "application/pdf"
)

type Handler struct {
	Service *reports.Service
	Metrics *metrics.Collector
	Now     func() time.Time
}

func NewHandler(service *reports.Service, collector *metrics.Collector) *Handler {
	return &Handler{Service: service, Metrics: collector, Now: time.Now}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	admin := middleware.RequireRole(users.RoleAdmin)
	r.Route("/reports", func(r chi.Router) {
		r.With(admin).Get("/admin", h.handleAdminReport)
		r.With(admin).Get("/admin.csv", h.handleAdminReportCSV)
		r.With(admin).Get("/company", h.handleCompanyReport)
		r.With(admin).Get("/company.csv", h.handleCompanyReportCSV)
		r.Get("/history", h.handleHistory)
		r.Get("/history.csv", h.handleHistoryCSV)
		r.Get("/timesheet", h.handleTimesheet)
		r.Get("/timesheet.csv", h.handleTimesheetCSV)
	})
	r.Route("/dashboard", func(r chi.Router) {
		r.Get("/employee", h.handleEmployeeDashboard)
		r.With(admin).Get("/admin", h.handleAdminDashboard)
		r.Get("/performance", h.handlePerformanceDashboard)
	})
	r.Get("/statements/{userID}", h.handleStatement)
}

func viewer(r *http.Request) users.Actor {
	user, _ := middleware.GetUser(r.Context())
	return user.Actor()
}

// subject is the user a personal view is about: the caller, or the userId
// query value when the caller may read that user's data.
func subject(r *http.Request) (string, error) {
	v := viewer(r)
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		return v.UserID, nil
	}
	if !v.CanAccess(userID) {
		return "", apperr.ErrPermissionDenied
	}
	return userID, nil
}

func adminFilter(r *http.Request) reports.AdminFilter {
	q := r.URL.Query()
	return reports.AdminFilter{
		EmployeeID: q.Get("employeeId"),
		StartDate:  q.Get("startDate"),
		EndDate:    q.Get("endDate"),
	}
}

func monthQuery(r *http.Request) reports.MonthQuery {
	q := r.URL.Query()
	return reports.MonthQuery{Month: q.Get("month"), EmployeeID: q.Get("employeeId")}
}

func companyMonths(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("months")
	if raw == "" {
		return defaultCompanyMonths, nil
	}
	months, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Invalid("months", "must be one of: 3 6 12")
	}
	return months, nil
}

func (h *Handler) handleAdminReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.Service.AdminReport(r.Context(), adminFilter(r))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, report, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAdminReportCSV(w http.ResponseWriter, r *http.Request) {
	report, err := h.Service.AdminReport(r.Context(), adminFilter(r))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	h.sendCSV(w, r, report.Filename(), report.Records())
}

func (h *Handler) handleCompanyReport(w http.ResponseWriter, r *http.Request) {
	months, err := companyMonths(r)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	report, err := h.Service.CompanyReport(r.Context(), months)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, report, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCompanyReportCSV(w http.ResponseWriter, r *http.Request) {
	months, err := companyMonths(r)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	report, err := h.Service.CompanyReport(r.Context(), months)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	h.sendCSV(w, r, report.Filename(), report.Records())
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.History(r.Context(), viewer(r), monthQuery(r))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, view, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleHistoryCSV(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.History(r.Context(), viewer(r), monthQuery(r))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	h.sendCSV(w, r, view.HistoryFilename(), view.HistoryRecords())
}

func (h *Handler) handleTimesheet(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.Timesheet(r.Context(), viewer(r), monthQuery(r))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, view, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleTimesheetCSV(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.Timesheet(r.Context(), viewer(r), monthQuery(r))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	h.sendCSV(w, r, view.TimesheetFilename(), view.TimesheetRecords())
}

func (h *Handler) handleEmployeeDashboard(w http.ResponseWriter, r *http.Request) {
	userID, err := subject(r)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	period, err := shared.ParsePeriod(r, h.Now())
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	dash, err := h.Service.EmployeeDashboard(r.Context(), userID, period)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, dash, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	ref, err := shared.ParseMonthRef(r, h.Now())
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	dash, err := h.Service.AdminDashboard(r.Context(), ref)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, dash, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePerformanceDashboard(w http.ResponseWriter, r *http.Request) {
	userID, err := subject(r)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	dash, err := h.Service.PerformanceDashboard(r.Context(), userID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, dash, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleStatement(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	st, err := h.Service.StatementFor(r.Context(), viewer(r), userID, r.URL.Query().Get("month"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := payroll.RenderStatement(&buf, st); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	h.Metrics.Export("pdf")
	api.Attachment(w, pdfContentType, "statement-"+st.Month+"-"+userID+".pdf", buf.Bytes())
}

// sendCSV answers 204 when there is nothing to export.
func (h *Handler) sendCSV(w http.ResponseWriter, r *http.Request, filename string, records []*csvexport.Record) {
	body, err := csvexport.Render(records)
	if errors.Is(err, csvexport.ErrEmpty) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	h.Metrics.Export("csv")
	api.Attachment(w, csvexport.ContentType, filename, []byte(body))
}
