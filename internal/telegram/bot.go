// Package telegram connects the chat dispatcher to the Telegram Bot API.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/playperu/jurybot/internal/chat"
)

// Bot implements chat.Messenger on top of the Bot API.
type Bot struct {
	api    *tgbotapi.BotAPI
	logger *slog.Logger
}

// New authenticates token against the Bot API.
func New(token string, logger *slog.Logger) (*Bot, error) {
	return NewWithEndpoint(token, tgbotapi.APIEndpoint, http.DefaultClient, logger)
}

// NewWithEndpoint talks to a custom Bot API server. endpoint is a format
// string taking the token and the method name.
func NewWithEndpoint(token, endpoint string, client *http.Client, logger *slog.Logger) (*Bot, error) {
	if err := tgbotapi.SetLogger(apiLogger{logger}); err != nil {
		return nil, fmt.Errorf("setting bot api logger: %w", err)
	}
	api, err := tgbotapi.NewBotAPIWithClient(token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("connecting to bot api: %w", err)
	}
	logger.Info("telegram bot authorised", "username", api.Self.UserName)
	return &Bot{api: api, logger: logger}, nil
}

func (b *Bot) Send(ctx context.Context, msg chat.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// Request rather than Send: deletions and some edits answer with a bool.
	if _, err := b.api.Request(chattable(msg)); err != nil {
		return fmt.Errorf("sending to chat %d: %w", msg.ChatID, err)
	}
	return nil
}

func (b *Bot) Answer(ctx context.Context, callbackID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		return fmt.Errorf("answering callback: %w", err)
	}
	return nil
}

// FileURL resolves an uploaded file to a URL the asset store can fetch.
func (b *Bot) FileURL(ctx context.Context, fileID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return "", fmt.Errorf("resolving file %s: %w", fileID, err)
	}
	return url, nil
}

// SetWebhook registers url as the update endpoint.
func (b *Bot) SetWebhook(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("parsing webhook url: %w", err)
	}
	if _, err := b.api.Request(wh); err != nil {
		return fmt.Errorf("setting webhook: %w", err)
	}
	b.logger.Info("webhook registered")
	return nil
}

// Poll long-polls for updates and hands them to handle one at a time until
// ctx is cancelled. Any webhook is removed first, as Telegram refuses
// getUpdates while one is set.
func (b *Bot) Poll(ctx context.Context, handle func(context.Context, chat.Update)) error {
	if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("removing webhook: %w", err)
	}

	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := b.api.GetUpdatesChan(cfg)
	defer b.api.StopReceivingUpdates()

	b.logger.Info("polling for updates")
	for {
		select {
		case <-ctx.Done():
			return nil
		case u, ok := <-updates:
			if !ok {
				return nil
			}
			if cu, ok := Translate(u); ok {
				handle(ctx, cu)
			}
		}
	}
}

func chattable(msg chat.Message) tgbotapi.Chattable {
	switch {
	case msg.DeleteID != 0:
		return tgbotapi.NewDeleteMessage(msg.ChatID, msg.DeleteID)
	case msg.EditID != 0:
		if len(msg.Keyboard) > 0 {
			return tgbotapi.NewEditMessageTextAndMarkup(msg.ChatID, msg.EditID, msg.Text, markup(msg.Keyboard))
		}
		return tgbotapi.NewEditMessageText(msg.ChatID, msg.EditID, msg.Text)
	case msg.Photo != "":
		p := tgbotapi.NewPhoto(msg.ChatID, tgbotapi.FileURL(msg.Photo))
		p.Caption = msg.Text
		if len(msg.Keyboard) > 0 {
			p.ReplyMarkup = markup(msg.Keyboard)
		}
		return p
	}
	m := tgbotapi.NewMessage(msg.ChatID, msg.Text)
	if len(msg.Keyboard) > 0 {
		m.ReplyMarkup = markup(msg.Keyboard)
	}
	return m
}

func markup(kb [][]chat.Button) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb))
	for _, row := range kb {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(btn.Text, btn.Data))
		}
		rows = append(rows, buttons)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// apiLogger routes the library's log lines into slog.
type apiLogger struct{ logger *slog.Logger }

func (l apiLogger) Println(v ...any) {
	l.logger.Debug(fmt.Sprint(v...), "component", "bot_api")
}

func (l apiLogger) Printf(format string, v ...any) {
	l.logger.Debug(fmt.Sprintf(format, v...), "component", "bot_api")
}
