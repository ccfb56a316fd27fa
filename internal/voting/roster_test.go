package voting_test

import (
	"context"
	"errors"
	"testing"

	"github.com/playperu/jurybot/internal/festival"
	"github.com/playperu/jurybot/internal/voting"
)

func TestAddArtist(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, owner, ownerSecret)

	tests := []struct {
		name  string
		draft voting.ArtistDraft
	}{
		{"no name", voting.ArtistDraft{Age: 20, Category: festival.CategoryDream}},
		{"no age", voting.ArtistDraft{Name: "Mia", Category: festival.CategoryDream}},
		{"bad category", voting.ArtistDraft{Name: "Mia", Age: 20, Category: "Rock"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.svc.AddArtist(ctx, owner, tt.draft); !errors.Is(err, festival.ErrInvalidValue) {
				t.Fatalf("err = %v, want ErrInvalidValue", err)
			}
		})
	}

	if _, err := f.svc.AddArtist(ctx, judgeA, voting.ArtistDraft{Name: "Mia", Age: 20, Category: festival.CategoryDream}); !errors.Is(err, festival.ErrNotAuthorized) {
		t.Fatalf("non-owner err = %v, want ErrNotAuthorized", err)
	}

	a := f.addArtist(t, " Mia ", festival.CategoryDream)
	b := f.addArtist(t, "Luca", festival.CategoryYoungTalents)
	if a.Key != "artist1" || b.Key != "artist2" {
		t.Errorf("keys = %q, %q", a.Key, b.Key)
	}
	if a.Name != "Mia" {
		t.Errorf("name = %q, want trimmed", a.Name)
	}
	if got := f.svc.Artists(); len(got) != 2 || got[1].Key != b.Key {
		t.Errorf("artists = %+v", got)
	}
}

func TestRemoveArtist(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, owner, ownerSecret)

	photo, err := f.svc.UploadArtistPhoto(ctx, owner, "mia")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	mia, err := f.svc.AddArtist(ctx, owner, voting.ArtistDraft{
		Name: "Mia", Age: 19, Song: "Volare", Photo: photo, Category: festival.CategoryDream,
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	luca := f.addArtist(t, "Luca", festival.CategoryDream)
	openArtist(t, f, mia)

	if _, err := f.svc.RemoveArtist(ctx, owner, "artist9"); !errors.Is(err, festival.ErrArtistNotFound) {
		t.Fatalf("unknown key err = %v, want ErrArtistNotFound", err)
	}
	removed, err := f.svc.RemoveArtist(ctx, owner, mia.Key)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if removed.Name != "Mia" {
		t.Errorf("removed = %+v", removed)
	}
	if f.svc.Document().ActiveArtist != "" {
		t.Error("removed artist still open for voting")
	}
	if len(f.assets.deleted) != 1 || f.assets.deleted[0] != photo {
		t.Errorf("deleted = %v, want [%s]", f.assets.deleted, photo)
	}

	// The freed key is reused.
	c := f.addArtist(t, "Sara", festival.CategoryYoungTalents)
	if c.Key != mia.Key {
		t.Errorf("key = %q, want %q", c.Key, mia.Key)
	}
	if got := f.svc.Artists(); len(got) != 2 || got[0].Key != luca.Key {
		t.Errorf("artists = %+v", got)
	}
}

func TestSeedArtists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	seed := []festival.Artist{
		{Key: "artist1", Name: "Mia", Age: 19, Category: festival.CategoryDream},
		{Key: "artist1", Name: "Luca", Age: 22},
		{Name: ""},
		{Name: "Sara", Age: 17, Category: "unknown"},
	}
	n, err := f.svc.SeedArtists(ctx, seed)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if n != 3 {
		t.Fatalf("added = %d, want 3", n)
	}
	got := f.svc.Artists()
	wantKeys := []string{"artist1", "artist2", "artist3"}
	for i, k := range wantKeys {
		if got[i].Key != k {
			t.Errorf("artist %d key = %q, want %q", i, got[i].Key, k)
		}
	}
	if got[2].Category != festival.DefaultCategory {
		t.Errorf("category = %q, want default", got[2].Category)
	}

	// A populated roster is left alone.
	n, err = f.svc.SeedArtists(ctx, seed)
	if err != nil || n != 0 {
		t.Fatalf("second seed: n = %d, err = %v", n, err)
	}
}
