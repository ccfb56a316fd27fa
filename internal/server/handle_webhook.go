package server

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/playperu/jurybot/internal/chat"
	"github.com/playperu/jurybot/internal/telegram"
)

// Handler processes one chat update.
type Handler interface {
	Handle(ctx context.Context, u chat.Update)
}

func handleWebhook(logger *slog.Logger, secret string, h Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		got := chi.URLParam(r, "secret")
		if secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			writeError(w, http.StatusNotFound, "not found")
			return
		}

		var u tgbotapi.Update
		if err := readJSON(w, r, &u); err != nil {
			writeError(w, http.StatusBadRequest, "invalid update")
			return
		}

		if cu, ok := telegram.Translate(u); ok {
			// Broadcasts must finish even if Telegram drops the request.
			h.Handle(context.WithoutCancel(r.Context()), cu)
		} else {
			logger.Debug("update skipped", "update_id", u.UpdateID)
		}
		w.WriteHeader(http.StatusOK)
	}
}
