package telegram_test

import (
	"encoding/json"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/playperu/jurybot/internal/chat"
	"github.com/playperu/jurybot/internal/telegram"
)

func TestTranslate(t *testing.T) {
	from := &tgbotapi.User{ID: 5, FirstName: "Anna", UserName: "anna_k"}
	private := &tgbotapi.Chat{ID: 5, Type: "private"}

	tests := []struct {
		name   string
		update tgbotapi.Update
		want   chat.Update
		ok     bool
	}{
		{
			name: "command",
			update: tgbotapi.Update{Message: &tgbotapi.Message{
				MessageID: 1, From: from, Chat: private, Text: "/start@jury_bot",
				Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 15}},
			}},
			want: chat.Update{ChatID: 5, Name: "Anna", Kind: chat.KindCommand, Command: "start", MessageID: 1},
			ok:   true,
		},
		{
			name: "text",
			update: tgbotapi.Update{Message: &tgbotapi.Message{
				MessageID: 2, From: from, Chat: private, Text: "7",
			}},
			want: chat.Update{ChatID: 5, Name: "Anna", Kind: chat.KindText, Text: "7", MessageID: 2},
			ok:   true,
		},
		{
			name: "photo picks the largest size",
			update: tgbotapi.Update{Message: &tgbotapi.Message{
				MessageID: 3, From: &tgbotapi.User{ID: 5, UserName: "anna_k"}, Chat: private,
				Photo: []tgbotapi.PhotoSize{{FileID: "small"}, {FileID: "large"}},
			}},
			want: chat.Update{ChatID: 5, Name: "anna_k", Kind: chat.KindPhoto, PhotoID: "large", MessageID: 3},
			ok:   true,
		},
		{
			name: "callback",
			update: tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
				ID: "cb", From: from, Data: "artist1",
				Message: &tgbotapi.Message{MessageID: 9, Chat: private},
			}},
			want: chat.Update{ChatID: 5, Name: "Anna", Kind: chat.KindCallback, CallbackID: "cb", CallbackData: "artist1", MessageID: 9},
			ok:   true,
		},
		{
			name:   "sticker",
			update: tgbotapi.Update{Message: &tgbotapi.Message{MessageID: 4, From: from, Chat: private, Sticker: &tgbotapi.Sticker{FileID: "s"}}},
		},
		{
			name:   "callback without message",
			update: tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{ID: "cb", From: from, Data: "x"}},
		},
		{
			name:   "edited message",
			update: tgbotapi.Update{EditedMessage: &tgbotapi.Message{MessageID: 5, Chat: private, Text: "8"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := telegram.Translate(tt.update)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTranslateWebhookPayload(t *testing.T) {
	body := `{"update_id": 10, "message": {"message_id": 1, "date": 0,
		"from": {"id": 5, "is_bot": false, "first_name": "Anna"},
		"chat": {"id": 5, "type": "private"}, "text": "1234"}}`

	var u tgbotapi.Update
	if err := json.Unmarshal([]byte(body), &u); err != nil {
		t.Fatalf("decode: %v", err)
	}
	got, ok := telegram.Translate(u)
	if !ok || got.Kind != chat.KindText || got.Text != "1234" || got.ChatID != 5 {
		t.Errorf("translated = %+v, %v", got, ok)
	}
}
