package authhandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"worklog/internal/domain/auth"
	"worklog/internal/domain/users"
	"worklog/internal/transport/http/api"
	"worklog/internal/transport/http/middleware"
	"worklog/internal/transport/http/shared"
)

type Handler struct {
	Service *auth.Service
}

func NewHandler(service *auth.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.HandleLogin)
		r.Post("/register", h.HandleRegister)
		r.With(middleware.RequireAuth).Post("/logout", h.HandleLogout)
		r.Get("/session", h.HandleSession)
	})
}

type sessionResponse struct {
	Authenticated bool        `json:"authenticated"`
	User          *users.User `json:"user,omitempty"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var payload auth.LoginInput
	if !shared.Decode(w, r, &payload) {
		return
	}
	result, err := h.Service.Login(r.Context(), payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var payload auth.RegisterInput
	if !shared.Decode(w, r, &payload) {
		return
	}
	result, err := h.Service.Register(r.Context(), payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Created(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	if err := h.Service.Logout(r.Context(), user.SessionID); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, map[string]string{"status": "logged_out"}, middleware.GetRequestID(r.Context()))
}

// HandleSession reports whether the bearer token still maps to a live
// session. A missing or dead token is not an error.
func (h *Handler) HandleSession(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r)
	if token == "" {
		api.Success(w, sessionResponse{}, middleware.GetRequestID(r.Context()))
		return
	}
	user, ok, err := h.Service.CurrentSession(r.Context(), token)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	resp := sessionResponse{Authenticated: ok}
	if ok {
		resp.User = &user
	}
	api.Success(w, resp, middleware.GetRequestID(r.Context()))
}
