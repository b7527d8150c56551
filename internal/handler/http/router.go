package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

type RouterConfig struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	// Metrics serves GET /metrics when set.
	Metrics http.Handler
}

func NewRouter(
	cfg RouterConfig,
	employeeHandler EmployeeHandler,
	listViewHandler ListViewHandler,
	i18nHandler I18nHandler,
	healthHandler HealthHandler,
) *chi.Mux {
	r := chi.NewRouter()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Get("/ready", healthHandler.Ready)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", employeeHandler.ListEmployees)
			r.Post("/", employeeHandler.CreateEmployee)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", employeeHandler.GetEmployee)
				r.Put("/", employeeHandler.UpdateEmployee)
				r.Delete("/", employeeHandler.DeleteEmployee)
			})
		})

		r.Route("/views", func(r chi.Router) {
			r.Post("/", listViewHandler.Open)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", listViewHandler.Get)
				r.Delete("/", listViewHandler.Close)
				r.Put("/search", listViewHandler.Search)
				r.Put("/page", listViewHandler.SetPage)
				r.Put("/selection", listViewHandler.ToggleSelect)
				r.Put("/selection/all", listViewHandler.ToggleSelectAll)
				r.Put("/view-mode", listViewHandler.SetViewMode)
				r.Put("/viewport", listViewHandler.SetViewport)
				r.Post("/delete-request", listViewHandler.RequestDelete)
				r.Post("/delete-confirm", listViewHandler.ConfirmDelete)
				r.Post("/delete-cancel", listViewHandler.CancelDelete)
				r.Get("/events", listViewHandler.Stream)
				r.Get("/export", listViewHandler.Export)
			})
		})

		r.Route("/i18n", func(r chi.Router) {
			r.Get("/language", i18nHandler.GetLanguage)
			r.Put("/language", i18nHandler.SetLanguage)
			r.Get("/translate", i18nHandler.Translate)
		})
	})
	return r
}
