package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/phrazzld/antiflow-api/internal/api"
	apiMiddleware "github.com/phrazzld/antiflow-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: app.config.Server.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition", "X-Trace-ID"},
		MaxAge:         300,
	}))
	r.Use(apiMiddleware.TraceMiddleware(app.logger))

	generationHandler := api.NewGenerationHandler(app.generationService)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/generate", generationHandler.Generate)
		r.Get("/result/{"+api.TaskIDParam+"}", generationHandler.GetResult)
		r.Get("/download/{"+api.TaskIDParam+"}", generationHandler.Download)
	})

	r.Get("/health", generationHandler.Health)

	return r
}
