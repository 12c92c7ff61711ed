package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	apiMiddleware "github.com/promoterhq/promoter-api/internal/api/middleware"
)

// setupRouter configures the router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)
	r.Use(apiMiddleware.TimingMiddleware)

	r.Post("/chat", app.chatHandler.Chat)
	r.Post("/update_state", app.chatHandler.UpdateState)
	r.Get("/health/db", app.healthHandler.CheckDatabase)

	return r
}
