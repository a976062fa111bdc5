package handlers

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts every endpoint of h on r.
func RegisterRoutes(r chi.Router, h *TodoHandler) {
	r.Get("/health", h.Health)

	r.Route("/todo-lists", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Post("/bulk-delete", h.BulkDelete)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})

	r.Get("/chart", h.Chart)

	r.Route("/reports/todo-lists", func(r chi.Router) {
		r.Get("/export", h.ExportReport)
		r.Get("/preview", h.PreviewReport)
	})
}
