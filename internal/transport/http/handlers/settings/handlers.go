package settingshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"worklog/internal/domain/settings"
	"worklog/internal/domain/users"
	"worklog/internal/transport/http/api"
	"worklog/internal/transport/http/middleware"
	"worklog/internal/transport/http/shared"
)

type Handler struct {
	Service *settings.Service
}

func NewHandler(service *settings.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/settings", h.handleGet)
	r.With(middleware.RequireRole(users.RoleAdmin)).Put("/settings", h.handleUpdate)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	current, err := h.Service.Get(r.Context())
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, current, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var payload settings.Settings
	if !shared.Decode(w, r, &payload) {
		return
	}
	saved, err := h.Service.Update(r.Context(), payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, saved, middleware.GetRequestID(r.Context()))
}
