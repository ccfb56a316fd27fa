// Package store persists the festival document. The whole state is one JSON
// document that every save overwrites.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/playperu/jurybot/internal/festival"
)

// DocumentID is the id the festival document is saved under.
const DocumentID = "bot_data"

type Store interface {
	Save(ctx context.Context, doc festival.Document) error
	// Load reports false when nothing has been saved yet.
	Load(ctx context.Context) (festival.Document, bool, error)
}

// Encode serialises doc. Aspect names are sanitised on the way out.
func Encode(doc festival.Document) ([]byte, error) {
	doc.TechnicalVotes = mapAspects(doc.TechnicalVotes, festival.SanitizeAspect)
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	return data, nil
}

// Decode parses a document written by Encode and restores the known aspect
// names.
func Decode(data []byte) (festival.Document, error) {
	var doc festival.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return festival.Document{}, fmt.Errorf("decoding document: %w", err)
	}
	doc.TechnicalVotes = mapAspects(doc.TechnicalVotes, festival.RestoreAspect)
	return doc, nil
}

func mapAspects(src festival.TechnicalVotes, rename func(string) string) festival.TechnicalVotes {
	if src == nil {
		return nil
	}
	out := make(festival.TechnicalVotes, len(src))
	for artist, judges := range src {
		byJudge := make(map[int64]map[string]float64, len(judges))
		for judge, record := range judges {
			r := make(map[string]float64, len(record))
			for aspect, score := range record {
				r[rename(aspect)] = score
			}
			byJudge[judge] = r
		}
		out[artist] = byJudge
	}
	return out
}

// Fanout saves to every store and loads from the first one holding a
// document.
type Fanout []Store

func (f Fanout) Save(ctx context.Context, doc festival.Document) error {
	var errs []error
	for _, s := range f {
		if err := s.Save(ctx, doc); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f Fanout) Load(ctx context.Context) (festival.Document, bool, error) {
	for _, s := range f {
		doc, ok, err := s.Load(ctx)
		if err != nil {
			return festival.Document{}, false, err
		}
		if ok {
			return doc, true, nil
		}
	}
	return festival.Document{}, false, nil
}
