// internal/app/features/news/routes.go
package news

import (
	"github.com/AlCa38/habitica/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the /news subrouter. The session manager's LoadUser must
// already run on the parent router.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.GetNews)

	r.Group(func(r chi.Router) {
		r.Use(sm.RequireSignedIn)
		r.Post("/read", h.MarkNewsRead)
		r.Post("/tell-me-later", h.TellMeLaterNews)
	})

	r.Group(func(r chi.Router) {
		r.Use(sm.RequireAdmin)
		r.Post("/", h.CreateNews)
		r.Get("/{postId}", h.GetNewsPost)
		r.Put("/{postId}", h.UpdateNews)
		r.Delete("/{postId}", h.DeleteNews)
		// An empty id still reaches the handler so it can answer postIdRequired.
		r.Put("/", h.UpdateNews)
		r.Delete("/", h.DeleteNews)
	})

	return r
}
