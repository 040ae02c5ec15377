// internal/app/features/links/routes.go
package links

import (
	"github.com/dalemusser/workhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted at /links. {id} is an assignment-user link id.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/{id}", h.ServeLink)
		pr.Patch("/{id}/status", h.HandleStatus)

		// THREAD
		pr.Get("/{id}/comments", h.ServeComments)
		pr.Get("/{id}/comments/by-date", h.ServeCommentsByDate)
		pr.Post("/{id}/comments", h.HandleAddComment)
	})

	return r
}
