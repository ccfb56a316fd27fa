package voting

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/playperu/jurybot/internal/festival"
)

// ArtistDraft is an artist before it gets a key.
type ArtistDraft struct {
	Name     string
	Age      int
	Song     string
	Photo    string
	Category string
}

func (d ArtistDraft) validate() error {
	switch {
	case strings.TrimSpace(d.Name) == "":
		return fmt.Errorf("artist name is required: %w", festival.ErrInvalidValue)
	case d.Age <= 0:
		return fmt.Errorf("artist age must be positive: %w", festival.ErrInvalidValue)
	case !festival.ValidCategory(d.Category):
		return fmt.Errorf("category %q: %w", d.Category, festival.ErrInvalidValue)
	}
	return nil
}

// Artists returns the roster in insertion order.
func (s *Service) Artists() []festival.Artist {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.st.artists)
}

// AddArtist appends an artist under the next free key.
func (s *Service) AddArtist(ctx context.Context, c Caller, d ArtistDraft) (festival.Artist, error) {
	if err := d.validate(); err != nil {
		return festival.Artist{}, err
	}
	var a festival.Artist
	err := s.update(ctx, func(t *txn) error {
		if err := s.requireOwner(c.ID); err != nil {
			return err
		}
		a = festival.Artist{
			Key:      festival.NextArtistKey(s.st.artists),
			Name:     strings.TrimSpace(d.Name),
			Age:      d.Age,
			Song:     strings.TrimSpace(d.Song),
			Photo:    d.Photo,
			Category: d.Category,
		}
		s.st.artists = append(s.st.artists, a)
		t.touch()
		return nil
	})
	if err == nil {
		s.logger.Info("artist added", "key", a.Key, "name", a.Name, "category", a.Category)
	}
	return a, err
}

// UploadArtistPhoto stores a photo for an artist that is being created.
func (s *Service) UploadArtistPhoto(ctx context.Context, c Caller, source string) (string, error) {
	return s.upload(ctx, c, source, FolderArtistPhotos)
}

// DiscardPhoto drops an uploaded photo that never made it into the roster.
func (s *Service) DiscardPhoto(ctx context.Context, ref string) {
	s.discard(ctx, ref)
}

// RemoveArtist deletes an artist and, best effort, its photo. Votes already
// recorded for it stay in the vote records.
func (s *Service) RemoveArtist(ctx context.Context, c Caller, key string) (festival.Artist, error) {
	var removed festival.Artist
	err := s.update(ctx, func(t *txn) error {
		if err := s.requireOwner(c.ID); err != nil {
			return err
		}
		i := slices.IndexFunc(s.st.artists, func(a festival.Artist) bool { return a.Key == key })
		if i < 0 {
			return fmt.Errorf("removing %q: %w", key, festival.ErrArtistNotFound)
		}
		removed = s.st.artists[i]
		s.st.artists = slices.Delete(s.st.artists, i, i+1)
		if s.st.active == key {
			s.st.active = ""
		}
		t.touch()
		return nil
	})
	if err != nil {
		return festival.Artist{}, err
	}
	s.discard(ctx, removed.Photo)
	s.logger.Info("artist removed", "key", key, "name", removed.Name)
	return removed, nil
}

// SeedArtists fills an empty roster. Missing or clashing keys are replaced
// with fresh ones and unknown categories fall back to the default. It
// returns how many artists were added.
func (s *Service) SeedArtists(ctx context.Context, artists []festival.Artist) (int, error) {
	var added int
	err := s.update(ctx, func(t *txn) error {
		if len(s.st.artists) > 0 {
			return nil
		}
		for _, a := range artists {
			if strings.TrimSpace(a.Name) == "" {
				continue
			}
			if _, taken := s.st.artist(a.Key); a.Key == "" || taken {
				a.Key = festival.NextArtistKey(s.st.artists)
			}
			if !festival.ValidCategory(a.Category) {
				a.Category = festival.DefaultCategory
			}
			s.st.artists = append(s.st.artists, a)
			added++
		}
		if added > 0 {
			t.touch()
		}
		return nil
	})
	return added, err
}
