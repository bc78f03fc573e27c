package handlers

import (
	"ImageLibrary/internal/cli/repo"
	"ImageLibrary/internal/cli/service"
	"ImageLibrary/internal/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров локального API библиотеки.
// workspace может быть nil: тогда изменения не сохраняются между запусками.
func NewHandler(lib *service.Library, workspace repo.WorkspaceRepository, logger *zap.SugaredLogger) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)

	h := NewLibraryHandler(lib, workspace, logger)

	r.Route("/api/library", func(r chi.Router) {
		r.Get("/images", h.List)
		r.Get("/images/{id}", h.Show)
		r.Get("/images/{id}/preview", h.Preview)
		r.Post("/images/{id}/delete", h.Delete)
		r.Post("/images/{id}/restore", h.Restore)
		r.Post("/images/{id}/edit", h.Edit)
		r.Get("/stats", h.Stats)
		r.Post("/sync", h.Sync)
		r.Post("/load", h.Load)
		r.Get("/settings", h.Settings)
		r.Put("/settings", h.SaveSettings)
		r.Get("/export", h.Export)
	})

	return &Handler{Router: r}
}
