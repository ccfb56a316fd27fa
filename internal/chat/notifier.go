package chat

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/playperu/jurybot/internal/festival"
	"github.com/playperu/jurybot/internal/voting"
)

// Notifier delivers voting events to their recipients. A failed delivery is
// logged and the broadcast goes on.
type Notifier struct {
	messenger Messenger
	logger    *slog.Logger
	// OnFailure is called for every undelivered message.
	OnFailure func()
}

func NewNotifier(m Messenger, logger *slog.Logger) *Notifier {
	return &Notifier{messenger: m, logger: logger}
}

func (n *Notifier) Notify(ctx context.Context, ev voting.Event) {
	for _, r := range ev.Recipients {
		msg, ok := render(ev, r)
		if !ok {
			continue
		}
		err := n.messenger.Send(ctx, msg)
		if err != nil && msg.Photo != "" {
			// A broken photo URL should not cost the judge the prompt.
			n.logger.Warn("sending photo failed, retrying as text", "chat_id", r.ID, "error", err)
			msg.Photo = ""
			err = n.messenger.Send(ctx, msg)
		}
		if err != nil {
			n.logger.Error("delivering notification",
				"event", string(ev.Type),
				"chat_id", r.ID,
				"error", err,
			)
			if n.OnFailure != nil {
				n.OnFailure()
			}
		}
	}
}

func render(ev voting.Event, r voting.Recipient) (Message, bool) {
	msg := Message{ChatID: r.ID}
	switch ev.Type {
	case voting.EventJudgeJoined:
		msg.Text = fmt.Sprintf("👤 Il giudice %s si è registrato come giuria di tipo %s.", judgeName(ev.Judge), juryLabel(ev.Jury))
	case voting.EventArtistOpened:
		prompt := "🔽 Inserisci il tuo voto per questo artista:"
		if r.Jury == festival.JuryTechnical {
			prompt = askAspect(festival.Aspects[0])
		}
		msg.Text = artistProfile(ev.Artist) + "\n\n" + prompt
		msg.Photo = ev.Artist.Photo
	case voting.EventVoteRecorded:
		msg.Text = fmt.Sprintf("🔝 Il giudice %s ha votato per l'artista %s con voto: %s.",
			judgeName(ev.Judge), ev.Artist.Name, formatScore(ev.Score))
	case voting.EventTechnicalCompleted:
		msg.Text = fmt.Sprintf("🔝 Il giudice %s ha votato per l'artista %s. Media dei voti: %.2f",
			judgeName(ev.Judge), ev.Artist.Name, ev.Score)
	case voting.EventRankingReady:
		msg.Text = ev.Ranking.Report()
	default:
		return Message{}, false
	}
	return msg, true
}

func judgeName(c voting.Caller) string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("#%d", c.ID)
}
