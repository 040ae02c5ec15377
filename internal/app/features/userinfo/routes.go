// internal/app/features/userinfo/routes.go
package userinfo

import (
	"github.com/dalemusser/workhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted at /me.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeMe)
	})
	return r
}
