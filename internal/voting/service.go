package voting

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/playperu/jurybot/internal/festival"
)

type Options struct {
	Logger    *slog.Logger
	Notifier  Notifier
	Persister Persister
	Observer  Observer
	Assets    AssetStore
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

// Service owns the shared voting state. Every read-check-write sequence runs
// under one mutex, so concurrent submissions cannot double-vote.
type Service struct {
	mu       sync.Mutex
	st       *state
	sessions map[int64]*Session
	// ownerOK is the last secret that passed IsOwnerSecret.
	ownerOK ownerToken

	logger    *slog.Logger
	notifier  Notifier
	persister Persister
	observer  Observer
	assets    AssetStore
	cost      int
}

// New hydrates a Service from a previously persisted document. A zero
// Document starts an empty festival.
func New(doc festival.Document, opts Options) *Service {
	s := &Service{
		st:        stateFromDocument(doc),
		sessions:  make(map[int64]*Session),
		logger:    opts.Logger,
		notifier:  opts.Notifier,
		persister: opts.Persister,
		observer:  opts.Observer,
		assets:    opts.Assets,
		cost:      opts.BcryptCost,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.notifier == nil {
		s.notifier = nopNotifier{}
	}
	if s.persister == nil {
		s.persister = nopPersister{}
	}
	if s.observer == nil {
		s.observer = nopObserver{}
	}
	if s.cost == 0 {
		s.cost = bcrypt.DefaultCost
	}
	return s
}

// txn collects the side effects of one locked mutation.
type txn struct {
	events []Event
	dirty  bool
}

func (t *txn) emit(ev Event) { t.events = append(t.events, ev) }

// touch marks the state as changed; the snapshot is persisted on unlock.
func (t *txn) touch() { t.dirty = true }

// update runs fn under the state lock, hands a snapshot to the persister when
// fn touched the state, and delivers the collected events once unlocked.
func (s *Service) update(ctx context.Context, fn func(t *txn) error) error {
	t := &txn{}

	s.mu.Lock()
	err := fn(t)
	if t.dirty {
		s.persister.Persist(s.st.document())
	}
	s.mu.Unlock()

	for _, ev := range t.events {
		s.notifier.Notify(ctx, ev)
	}
	return err
}

// session returns the caller's session, creating an unauthenticated one.
// Callers must hold s.mu.
func (s *Service) session(id int64) *Session {
	sess, ok := s.sessions[id]
	if !ok {
		sess = &Session{}
		s.sessions[id] = sess
	}
	return sess
}

func (s *Service) ownerRecipients() []Recipient {
	ids := s.st.owners.sorted()
	out := make([]Recipient, 0, len(ids))
	for _, id := range ids {
		out = append(out, Recipient{ID: id})
	}
	return out
}

func (s *Service) requireOwner(id int64) error {
	if !s.st.owners.has(id) {
		return festival.ErrNotAuthorized
	}
	return nil
}

// Session returns a copy of the caller's session.
func (s *Service) Session(id int64) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, false
	}
	return *sess, true
}

// IsOwner reports whether id is in the owner set.
func (s *Service) IsOwner(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.owners.has(id)
}

// Document returns a snapshot of the whole state.
func (s *Service) Document() festival.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.document()
}

// Juries lists the current rosters and limits.
type Juries struct {
	Popular   []int64         `json:"popular"`
	Technical []int64         `json:"technical"`
	Owners    []int64         `json:"owners"`
	Limits    festival.Limits `json:"limits"`
}

func (s *Service) Juries() Juries {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Juries{
		Popular:   s.st.popularJury.sorted(),
		Technical: s.st.techJury.sorted(),
		Owners:    s.st.owners.sorted(),
		Limits:    festival.Limits{Popular: copyInt(s.st.limits.Popular), Technical: copyInt(s.st.limits.Technical)},
	}
}

// HomePicture returns the welcome image reference, if any.
func (s *Service) HomePicture() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.homePicture
}
