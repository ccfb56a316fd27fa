package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/playperu/jurybot/internal/festival"
	"github.com/playperu/jurybot/internal/voting"
)

// FeedEvent is the payload published to live feed subscribers.
type FeedEvent struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	At         time.Time         `json:"at"`
	JudgeID    int64             `json:"judgeId,omitempty"`
	JudgeName  string            `json:"judgeName,omitempty"`
	Jury       string            `json:"jury,omitempty"`
	ArtistKey  string            `json:"artistKey,omitempty"`
	ArtistName string            `json:"artistName,omitempty"`
	Score      float64           `json:"score,omitempty"`
	Ranking    *festival.Ranking `json:"ranking,omitempty"`
}

// Broker is an in-process pub/sub for the owner live feed.
type Broker struct {
	mu   sync.RWMutex
	subs map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded feed events.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(ch chan []byte) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
}

// Publish sends an event to every subscriber.
func (b *Broker) Publish(event FeedEvent) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for ch := range b.subs {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}

// Notify implements voting.Notifier. Every event is published once, whatever
// its chat recipients.
func (b *Broker) Notify(_ context.Context, ev voting.Event) {
	fe := FeedEvent{
		ID:         uuid.NewString(),
		Type:       string(ev.Type),
		At:         time.Now().UTC(),
		JudgeID:    ev.Judge.ID,
		JudgeName:  ev.Judge.Name,
		Jury:       string(ev.Jury),
		ArtistKey:  ev.Artist.Key,
		ArtistName: ev.Artist.Name,
		Score:      ev.Score,
	}
	if ev.Type == voting.EventRankingReady {
		r := ev.Ranking
		fe.Ranking = &r
	}
	b.Publish(fe)
}
