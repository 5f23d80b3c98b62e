package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"tryon/internal/http/handlers"
	"tryon/internal/infra"
	"tryon/internal/middleware"
)

// RouterOptions carries the middleware settings taken from configuration.
type RouterOptions struct {
	AllowedOrigins  []string
	RateLimitPerMin int
	DefaultLocale   string
	CountryLookup   middleware.CountryLookup
	Logger          infra.Logger
}

func NewRouter(app *handlers.App, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		middleware.Logger(opts.Logger),
		chimw.Recoverer,
		middleware.CORS(opts.AllowedOrigins),
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
	)

	r.Get("/", app.Index)
	r.Get("/health", app.Health)
	r.Get("/generated/{name}", app.GeneratedImage)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute, app.RateLimited))

		r.Post("/validate/person", app.ValidatePerson)
		r.Post("/validate/clothing", app.ValidateClothing)
		r.Post("/analyze/dress", app.AnalyzeDress)

		r.Route("/try-on", func(r chi.Router) {
			r.Post("/", app.TryOn)
			r.Post("/wedding", app.TryOnWedding)
			r.Post("/iterative", app.TryOnIterative)
		})
	})

	return r
}
