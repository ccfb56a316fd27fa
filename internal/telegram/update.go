package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/playperu/jurybot/internal/chat"
)

// Translate maps a Bot API update onto the dispatcher's model. Updates the
// bot does not act on (edits, stickers, channel posts) report false.
func Translate(u tgbotapi.Update) (chat.Update, bool) {
	if q := u.CallbackQuery; q != nil {
		if q.Message == nil || q.Message.Chat == nil {
			return chat.Update{}, false
		}
		return chat.Update{
			ChatID:       q.Message.Chat.ID,
			Name:         displayName(q.From),
			Kind:         chat.KindCallback,
			CallbackID:   q.ID,
			CallbackData: q.Data,
			MessageID:    q.Message.MessageID,
		}, true
	}

	m := u.Message
	if m == nil || m.Chat == nil {
		return chat.Update{}, false
	}
	out := chat.Update{
		ChatID:    m.Chat.ID,
		Name:      displayName(m.From),
		MessageID: m.MessageID,
	}
	switch {
	case m.IsCommand():
		out.Kind = chat.KindCommand
		out.Command = strings.ToLower(m.Command())
		out.Text = m.CommandArguments()
	case len(m.Photo) > 0:
		// Sizes are listed smallest first.
		out.Kind = chat.KindPhoto
		out.PhotoID = m.Photo[len(m.Photo)-1].FileID
		out.Text = m.Caption
	case m.Text != "":
		out.Kind = chat.KindText
		out.Text = m.Text
	default:
		return chat.Update{}, false
	}
	return out, true
}

func displayName(u *tgbotapi.User) string {
	if u == nil {
		return ""
	}
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.UserName
}
