package roster_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/playperu/jurybot/internal/festival"
	"github.com/playperu/jurybot/internal/roster"
)

const seed = `
artists:
  - name: Mia
    age: 19
    song: Volare
    category: Sogno nel cassetto
  - name: Luca
    age: 15
    song: Azzurro
    photo: https://res.cloudinary.com/demo/image/upload/v1/artist_photos/luca.jpg
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artists.yaml")
	if err := os.WriteFile(path, []byte(seed), 0o600); err != nil {
		t.Fatal(err)
	}
	artists, err := roster.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(artists) != 2 {
		t.Fatalf("artists = %d, want 2", len(artists))
	}
	if artists[0].Name != "Mia" || artists[0].Category != festival.CategoryDream || artists[0].Age != 19 {
		t.Errorf("first artist = %+v", artists[0])
	}
	if artists[1].Photo == "" || artists[1].CategoryOrDefault() != festival.CategoryYoungTalents {
		t.Errorf("second artist = %+v", artists[1])
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"unknown field", "artists:\n  - name: Mia\n    eta: 19\n"},
		{"missing name", "artists:\n  - age: 19\n"},
		{"bad category", "artists:\n  - name: Mia\n    category: Rock\n"},
		{"not yaml", "artists: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := roster.Parse([]byte(tt.in)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	artists, err := roster.Parse(nil)
	if err != nil || len(artists) != 0 {
		t.Fatalf("artists = %v, err = %v", artists, err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := roster.Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected an error")
	}
}
