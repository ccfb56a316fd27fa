package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/playperu/jurybot/internal/festival"
)

const flushTimeout = 10 * time.Second

// Mirror writes snapshots to a Store from its own goroutine. Only the newest
// pending snapshot is kept, so a slow store never backs up the callers.
type Mirror struct {
	store  Store
	logger *slog.Logger
	// OnError is called for every failed save, after logging.
	OnError func(error)

	mu      sync.Mutex
	pending *festival.Document
	wake    chan struct{}
}

func NewMirror(s Store, logger *slog.Logger) *Mirror {
	return &Mirror{
		store:  s,
		logger: logger,
		wake:   make(chan struct{}, 1),
	}
}

// Persist queues doc for writing. It never blocks.
func (m *Mirror) Persist(doc festival.Document) {
	m.mu.Lock()
	m.pending = &doc
	m.mu.Unlock()

	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// Run writes queued snapshots until ctx is done, then flushes whatever is
// still pending.
func (m *Mirror) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), flushTimeout)
			defer cancel()
			m.Flush(flushCtx)
			return nil
		case <-m.wake:
			m.Flush(ctx)
		}
	}
}

// Flush writes the pending snapshot, if any.
func (m *Mirror) Flush(ctx context.Context) {
	m.mu.Lock()
	doc := m.pending
	m.pending = nil
	m.mu.Unlock()

	if doc == nil {
		return
	}
	if err := m.store.Save(ctx, *doc); err != nil {
		err = fmt.Errorf("%w: %w", festival.ErrPersistenceFailure, err)
		m.logger.Error("persisting document", "error", err)
		if m.OnError != nil {
			m.OnError(err)
		}
		return
	}
	m.logger.Debug("document persisted", "artists", len(doc.Artists))
}
