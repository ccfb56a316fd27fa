package assets_test

import (
	"context"
	"testing"

	"github.com/playperu/jurybot/internal/assets"
)

func TestPublicIDFromURL(t *testing.T) {
	tests := []struct {
		url    string
		want   string
		wantOK bool
	}{
		{"https://res.cloudinary.com/demo/image/upload/v1712345/home_pictures/abc123.jpg", "home_pictures/abc123", true},
		{"https://res.cloudinary.com/demo/image/upload/v1/artist_photos/mia.rossi.png", "artist_photos/mia.rossi", true},
		{"https://res.cloudinary.com/demo/image/upload/v1/plain", "plain", true},
		{"https://res.cloudinary.com/demo/image/upload/v1", "", false},
		{"https://example.com/pic.jpg", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, ok := assets.PublicIDFromURL(tt.url)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("PublicIDFromURL(%q) = %q, %v; want %q, %v", tt.url, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDisabled(t *testing.T) {
	var d assets.Disabled
	if _, err := d.Upload(context.Background(), "https://example.com/a.jpg", "home_pictures"); err == nil {
		t.Error("disabled store accepted an upload")
	}
	d.Delete(context.Background(), "anything")
}
