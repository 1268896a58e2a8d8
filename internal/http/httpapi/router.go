package httpapi

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"server/internal/http/handlers"
	"server/internal/middleware"
)

// NewRouter wires the proxy routes behind the shared middleware chain.
func NewRouter(app *handlers.App, logger zerolog.Logger, allowedOrigins []string) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, chimiddleware.RealIP, chimiddleware.Recoverer)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(allowedOrigins))

	// Health
	r.Get("/v1/healthz", app.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/assets", app.UploadAsset)

		r.Route("/avatars", func(r chi.Router) {
			r.Get("/", app.ListAvatars)
			r.Post("/", app.CreateAvatar)
			r.Delete("/", app.DeleteAvatar)
		})

		r.Route("/videos", func(r chi.Router) {
			r.Get("/", app.ListVideos)
			r.Post("/", app.GenerateVideo)
			r.Get("/{id}", app.VideoStatus)
		})
	})

	return r
}
