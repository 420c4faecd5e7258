package projectshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"worklog/internal/domain/projects"
	"worklog/internal/domain/users"
	"worklog/internal/transport/http/api"
	"worklog/internal/transport/http/middleware"
	"worklog/internal/transport/http/shared"
)

type Handler struct {
	Service *projects.Service
}

func NewHandler(service *projects.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	admin := middleware.RequireRole(users.RoleAdmin)
	r.Route("/projects", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.With(admin).Post("/", h.handleCreate)
		r.Route("/{projectID}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.With(admin).Patch("/", h.handleUpdate)
			r.With(admin).Delete("/", h.handleArchive)
			r.With(admin).Post("/restore", h.handleRestore)
		})
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list := h.Service.List
	if r.URL.Query().Get("active") == "true" {
		list = h.Service.ListActive
	}
	items, err := list(r.Context())
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, items, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	project, err := h.Service.Get(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, project, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload projects.CreateInput
	if !shared.Decode(w, r, &payload) {
		return
	}
	result, err := h.Service.Create(r.Context(), payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Created(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var patch projects.Patch
	if !shared.Decode(w, r, &patch) {
		return
	}
	result, err := h.Service.Update(r.Context(), chi.URLParam(r, "projectID"), patch)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleArchive(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.Delete(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRestore(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.SetActive(r.Context(), chi.URLParam(r, "projectID"), true)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}
