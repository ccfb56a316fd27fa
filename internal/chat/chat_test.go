package chat_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/playperu/jurybot/internal/chat"
	"github.com/playperu/jurybot/internal/festival"
	"github.com/playperu/jurybot/internal/voting"
)

const (
	ownerID     int64 = 100
	popularID   int64 = 1
	technicalID int64 = 2
)

type fakeMessenger struct {
	mu        sync.Mutex
	sent      []chat.Message
	answered  []string
	failChats map[int64]bool
	failPhoto bool
	panicText string
}

func (m *fakeMessenger) Send(_ context.Context, msg chat.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.panicText != "" && strings.Contains(msg.Text, m.panicText) {
		panic("boom")
	}
	if m.failChats[msg.ChatID] {
		return errors.New("blocked by user")
	}
	if m.failPhoto && msg.Photo != "" {
		return errors.New("bad photo url")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMessenger) Answer(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answered = append(m.answered, id)
	return nil
}

func (m *fakeMessenger) FileURL(_ context.Context, fileID string) (string, error) {
	if fileID == "" {
		return "", errors.New("no file")
	}
	return "https://files.example.com/" + fileID + ".jpg", nil
}

// to returns the messages sent to chat and forgets them.
func (m *fakeMessenger) to(chatID int64) []chat.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out, rest []chat.Message
	for _, msg := range m.sent {
		if msg.ChatID == chatID {
			out = append(out, msg)
		} else {
			rest = append(rest, msg)
		}
	}
	m.sent = rest
	return out
}

type fakeAssets struct {
	mu      sync.Mutex
	fail    bool
	deleted []string
}

func (a *fakeAssets) Upload(_ context.Context, source, folder string) (string, error) {
	if a.fail {
		return "", errors.New("cloud down")
	}
	return "https://res.example.com/image/upload/v1/" + folder + "/" + strings.TrimPrefix(source, "https://files.example.com/"), nil
}

func (a *fakeAssets) Delete(_ context.Context, ref string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.deleted = append(a.deleted, ref)
}

type harness struct {
	t      *testing.T
	svc    *voting.Service
	msgr   *fakeMessenger
	assets *fakeAssets
	d      *chat.Dispatcher
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	msgr := &fakeMessenger{failChats: map[int64]bool{}}
	assets := &fakeAssets{}
	svc := voting.New(festival.Document{}, voting.Options{
		Logger:     logger,
		Notifier:   chat.NewNotifier(msgr, logger),
		Assets:     assets,
		BcryptCost: bcrypt.MinCost,
	})
	if err := svc.SeedCredentials(context.Background(), "1234", "5678", "9999"); err != nil {
		t.Fatal(err)
	}
	return &harness{t: t, svc: svc, msgr: msgr, assets: assets, d: chat.NewDispatcher(svc, msgr, logger)}
}

func (h *harness) command(id int64, cmd string) {
	h.d.Handle(context.Background(), chat.Update{ChatID: id, Name: name(id), Kind: chat.KindCommand, Command: cmd})
}

func (h *harness) text(id int64, text string) {
	h.d.Handle(context.Background(), chat.Update{ChatID: id, Name: name(id), Kind: chat.KindText, Text: text})
}

func (h *harness) photo(id int64, fileID string) {
	h.d.Handle(context.Background(), chat.Update{ChatID: id, Name: name(id), Kind: chat.KindPhoto, PhotoID: fileID})
}

func (h *harness) press(id int64, data string) {
	h.d.Handle(context.Background(), chat.Update{
		ChatID: id, Name: name(id), Kind: chat.KindCallback,
		CallbackID: "cb-" + data, CallbackData: data, MessageID: 77,
	})
}

func (h *harness) login(id int64, secret string) {
	h.t.Helper()
	h.command(id, "start")
	h.text(id, secret)
	if sess, _ := h.svc.Session(id); !sess.LoggedIn() {
		h.t.Fatalf("chat %d not logged in", id)
	}
}

// expect asserts that the last message sent to id contains want.
func (h *harness) expect(id int64, want string) chat.Message {
	h.t.Helper()
	msgs := h.msgr.to(id)
	if len(msgs) == 0 {
		h.t.Fatalf("no message to %d, want %q", id, want)
	}
	last := msgs[len(msgs)-1]
	if !strings.Contains(last.Text, want) {
		h.t.Fatalf("message to %d = %q, want it to contain %q", id, last.Text, want)
	}
	return last
}

func name(id int64) string {
	switch id {
	case ownerID:
		return "Org"
	case popularID:
		return "Anna"
	case technicalID:
		return "Bruno"
	}
	return "Guest"
}

func (h *harness) addArtist(artistName, age, song, categoryData string) {
	h.t.Helper()
	h.command(ownerID, "artisti")
	h.press(ownerID, "add_artist")
	h.text(ownerID, artistName)
	h.text(ownerID, age)
	h.text(ownerID, "salta")
	h.text(ownerID, song)
	h.press(ownerID, categoryData)
	h.expect(ownerID, "aggiunto con successo")
}
