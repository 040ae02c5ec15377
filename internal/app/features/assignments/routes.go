// internal/app/features/assignments/routes.go
package assignments

import (
	"github.com/dalemusser/workhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		// LIST
		pr.Get("/", h.ServeList)
		pr.Get("/mine", h.ServeMine)
		pr.Get("/created", h.ServeCreated)

		// CREATE
		pr.Post("/", h.HandleCreate)

		// ONE
		pr.Get("/{id}", h.ServeAssignment)
		pr.Patch("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)

		// ASSIGNEES
		pr.Get("/{id}/assignees", h.ServeAssignees)
		pr.Post("/{id}/assignees", h.HandleAddAssignees)
		pr.Post("/{id}/assignees/remove", h.HandleRemoveAssignees)
	})

	return r
}
