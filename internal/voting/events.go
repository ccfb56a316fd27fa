package voting

import (
	"context"

	"github.com/playperu/jurybot/internal/festival"
)

type EventType string

const (
	EventJudgeJoined        EventType = "judge_joined"
	EventArtistOpened       EventType = "artist_opened"
	EventVoteRecorded       EventType = "vote_recorded"
	EventTechnicalCompleted EventType = "technical_completed"
	EventRankingReady       EventType = "ranking_ready"
)

// Recipient is a chat that must receive an event. Jury is set for judges so
// the prompt can match their scoring flow.
type Recipient struct {
	ID   int64
	Jury festival.JuryType
}

// Event is a side effect of a state transition, delivered after the state
// lock is released.
type Event struct {
	Type       EventType
	Recipients []Recipient
	Judge      Caller
	Jury       festival.JuryType
	Artist     festival.Artist
	// Score is the popular score, or the judge's mean for a completed
	// technical record.
	Score   float64
	Ranking festival.Ranking
}

// Notifier delivers events. A failed delivery to one recipient must not stop
// delivery to the others.
type Notifier interface {
	Notify(ctx context.Context, ev Event)
}

// Persister receives a full snapshot after every mutation. Persist must not
// block on storage.
type Persister interface {
	Persist(doc festival.Document)
}

// AssetStore keeps uploaded images and returns stable references to them.
type AssetStore interface {
	Upload(ctx context.Context, source, folder string) (string, error)
	Delete(ctx context.Context, ref string)
}

// Observer is told about authentication attempts and vote outcomes.
type Observer interface {
	AuthAttempt(role festival.Role, err error)
	VoteRecorded(jury festival.JuryType)
	VoteRejected(jury festival.JuryType, err error)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, Event) {}

type nopPersister struct{}

func (nopPersister) Persist(festival.Document) {}

type nopObserver struct{}

func (nopObserver) AuthAttempt(festival.Role, error)      {}
func (nopObserver) VoteRecorded(festival.JuryType)        {}
func (nopObserver) VoteRejected(festival.JuryType, error) {}

// MultiNotifier fans an event out to several notifiers in order.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, ev Event) {
	for _, n := range m {
		n.Notify(ctx, ev)
	}
}
