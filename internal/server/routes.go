package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/playperu/jurybot/internal/handler/health"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Jury Bot API", "/openapi.json", "/docs"))
	r.Mount("/healthz", health.NewHandler(logger, deps.Checks).Routes())
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics.Handler(func() {
			j := deps.Service.Juries()
			deps.Metrics.SetJuries(len(j.Popular), len(j.Technical), len(deps.Service.Artists()))
		}))
	}

	// Telegram posts updates here; the path carries the bot token.
	r.Post("/telegram/{secret}", handleWebhook(logger, deps.WebhookSecret, deps.Updates))

	r.Group(func(r chi.Router) {
		r.Use(ownerAuthMiddleware(deps.Service))
		r.Get("/api/owner/ranking", handleRanking(deps.Service))
		r.Get("/api/owner/artists", handleArtists(deps.Service))
		r.Get("/api/owner/juries", handleJuries(deps.Service))
		r.Get("/api/owner/feed", handleFeed(deps.Feed))
		r.Get("/ws/feed", handleFeedWS(logger, deps.Feed))
	})
}
