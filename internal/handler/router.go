package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pedefacil/backend/internal/handler/webhook"
	"github.com/pedefacil/backend/pkg/utils"
)

// NewRouter wires HTTP routes to the bot pipeline.
func NewRouter(bot webhook.Processor) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	webhookHandler := webhook.New(bot)

	r.Route("/api", func(api chi.Router) {
		webhookHandler.RegisterRoutes(api)

		api.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
	})

	return r
}
