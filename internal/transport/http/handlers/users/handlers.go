package usershandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"worklog/internal/domain/users"
	"worklog/internal/transport/http/api"
	"worklog/internal/transport/http/middleware"
	"worklog/internal/transport/http/shared"
)

type Handler struct {
	Service *users.Service
}

func NewHandler(service *users.Service) *Handler {
	return &Handler{Service: service}
}

// RegisterRoutes mounts user management. Every route is admin only.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Use(middleware.RequireRole(users.RoleAdmin))
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Route("/{userID}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Patch("/", h.handleUpdate)
			r.Delete("/", h.handleDelete)
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
	user, err := h.Service.Get(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, user, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload users.CreateInput
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
	var patch users.Patch
	if !shared.Decode(w, r, &patch) {
		return
	}
	result, err := h.Service.Update(r.Context(), chi.URLParam(r, "userID"), patch)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

// handleDelete deactivates the account; its time entries stay attributed.
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.Delete(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}
