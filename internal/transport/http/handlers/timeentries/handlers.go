package timeentrieshandler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"worklog/internal/domain/apperr"
	"worklog/internal/domain/timeentries"
	"worklog/internal/domain/users"
	"worklog/internal/domain/worktime"
	"worklog/internal/transport/http/api"
	"worklog/internal/transport/http/middleware"
	"worklog/internal/transport/http/shared"
)

type Handler struct {
	Service *timeentries.Service
}

func NewHandler(service *timeentries.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/time-entries", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Route("/{entryID}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Patch("/", h.handleUpdate)
			r.Delete("/", h.handleDelete)
		})
	})
}

func actor(r *http.Request) users.Actor {
	user, _ := middleware.GetUser(r.Context())
	return user.Actor()
}

// handleList returns the caller's visible entries, newest first. userId,
// projectId, startDate and endDate narrow the list further.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	checker := apperr.NewChecker()
	for _, field := range []string{"startDate", "endDate"} {
		if raw := strings.TrimSpace(q.Get(field)); raw != "" {
			_, err := worktime.ParseDate(raw)
			checker.Check(err == nil, field, "must be a date in YYYY-MM-DD format")
		}
	}
	if err := checker.Err(); err != nil {
		shared.WriteError(w, r, err)
		return
	}

	items, err := h.Service.ListVisible(r.Context(), actor(r))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	items = timeentries.Apply(items, timeentries.Filter{
		UserID:    q.Get("userId"),
		ProjectID: q.Get("projectId"),
		From:      worktime.NormalizeDate(q.Get("startDate")),
		To:        worktime.NormalizeDate(q.Get("endDate")),
	})
	api.Success(w, items, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	entry, err := h.Service.Get(r.Context(), actor(r), chi.URLParam(r, "entryID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, entry, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload timeentries.CreateInput
	if !shared.Decode(w, r, &payload) {
		return
	}
	result, err := h.Service.Create(r.Context(), actor(r), payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Created(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var patch timeentries.Patch
	if !shared.Decode(w, r, &patch) {
		return
	}
	result, err := h.Service.Update(r.Context(), actor(r), chi.URLParam(r, "entryID"), patch)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.Delete(r.Context(), actor(r), chi.URLParam(r, "entryID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}
