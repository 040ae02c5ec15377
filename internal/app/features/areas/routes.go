// internal/app/features/areas/routes.go
package areas

import (
	"github.com/dalemusser/workhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted at /areas. Every signed-in user may read the
// directory; writes are checked against assignmentpolicy in the handlers.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Post("/", h.HandleCreateArea)

		pr.Get("/positions", h.ServePositions)
		pr.Post("/positions/delete", h.HandleDeletePositions)
		pr.Post("/{id}/positions", h.HandleCreatePositions)
	})

	return r
}
