package voting_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/playperu/jurybot/internal/festival"
	"github.com/playperu/jurybot/internal/voting"
)

const (
	popularSecret   = "1234"
	technicalSecret = "5678"
	ownerSecret     = "9999"
)

var (
	owner  = voting.Caller{ID: 100, Name: "Org"}
	judgeA = voting.Caller{ID: 1, Name: "Anna"}
	judgeB = voting.Caller{ID: 2, Name: "Bruno"}
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []voting.Event
}

func (n *recordingNotifier) Notify(_ context.Context, ev voting.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

func (n *recordingNotifier) ofType(typ voting.EventType) []voting.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []voting.Event
	for _, ev := range n.events {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

type recordingPersister struct {
	mu   sync.Mutex
	docs []festival.Document
}

func (p *recordingPersister) Persist(doc festival.Document) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.docs = append(p.docs, doc)
}

func (p *recordingPersister) last(t *testing.T) festival.Document {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.docs) == 0 {
		t.Fatal("nothing persisted")
	}
	return p.docs[len(p.docs)-1]
}

func (p *recordingPersister) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.docs)
}

type fakeAssets struct {
	mu      sync.Mutex
	fail    bool
	n       int
	deleted []string
}

func (a *fakeAssets) Upload(_ context.Context, source, folder string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.fail {
		return "", errors.New("cloud unavailable")
	}
	a.n++
	return "https://res.example.com/image/upload/v1/" + folder + "/" + source + ".jpg", nil
}

func (a *fakeAssets) Delete(_ context.Context, ref string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.deleted = append(a.deleted, ref)
}

type fixture struct {
	svc       *voting.Service
	notifier  *recordingNotifier
	persister *recordingPersister
	assets    *fakeAssets
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureFrom(t, festival.Document{})
}

func newFixtureFrom(t *testing.T, doc festival.Document) *fixture {
	t.Helper()
	f := &fixture{
		notifier:  &recordingNotifier{},
		persister: &recordingPersister{},
		assets:    &fakeAssets{},
	}
	f.svc = voting.New(doc, voting.Options{
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Notifier:   f.notifier,
		Persister:  f.persister,
		Assets:     f.assets,
		BcryptCost: bcrypt.MinCost,
	})
	if err := f.svc.SeedCredentials(context.Background(), popularSecret, technicalSecret, ownerSecret); err != nil {
		t.Fatalf("seeding credentials: %v", err)
	}
	return f
}

func (f *fixture) login(t *testing.T, c voting.Caller, secret string) {
	t.Helper()
	if _, err := f.svc.Start(c); err != nil {
		t.Fatalf("start %d: %v", c.ID, err)
	}
	if _, err := f.svc.Authenticate(context.Background(), c, secret); err != nil {
		t.Fatalf("authenticate %d: %v", c.ID, err)
	}
}

func (f *fixture) addArtist(t *testing.T, name, category string) festival.Artist {
	t.Helper()
	a, err := f.svc.AddArtist(context.Background(), owner, voting.ArtistDraft{
		Name: name, Age: 20, Song: "Song of " + name, Category: category,
	})
	if err != nil {
		t.Fatalf("adding %s: %v", name, err)
	}
	return a
}

func (f *fixture) vote(c voting.Caller, text string) (voting.Receipt, error) {
	return f.svc.SubmitVote(context.Background(), c, text)
}
