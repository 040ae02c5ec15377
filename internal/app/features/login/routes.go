// internal/app/features/login/routes.go
package login

import "github.com/go-chi/chi/v5"

// Routes serves the sign-in endpoints. Mounted at /login.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleLogin)
	r.Post("/forgot", h.HandleForgot)
	r.Post("/reset", h.HandleReset)
	return r
}
