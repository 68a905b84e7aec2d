package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/shah-jinay/image-tool.io/internal/transport/handler"
)

func NewRouter(h *handler.Handler) chi.Router {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Route("/queue", func(r chi.Router) {
			r.Get("/", h.ListQueue)
			r.Post("/", h.Upload)
			r.Delete("/", h.ClearQueue)
			r.Post("/import", h.Import)
			r.Post("/samples", h.AddSamples)
			r.Delete("/{index}", h.RemoveEntry)
			r.Get("/{index}/preview", h.Preview)
		})
		r.Post("/convert", h.Convert)
		r.Get("/theme", h.GetTheme)
		r.Put("/theme", h.SetTheme)
	})

	return r
}
