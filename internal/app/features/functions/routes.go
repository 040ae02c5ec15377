// internal/app/features/functions/routes.go
package functions

import "github.com/go-chi/chi/v5"

// Routes is mounted at /functions.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(RequireServiceToken(h.Secret, h.Log))
		pr.Post("/addUser", h.HandleAddUser)
	})
	return r
}
