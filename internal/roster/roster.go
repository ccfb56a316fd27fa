// Package roster reads the artist seed file.
package roster

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/playperu/jurybot/internal/festival"
)

// File is the seed file layout:
//
//	artists:
//	  - name: Mia
//	    age: 19
//	    song: Volare
//	    category: Sogno nel cassetto
type File struct {
	Artists []festival.Artist `yaml:"artists"`
}

// Load reads the seed file at path.
func Load(path string) ([]festival.Artist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roster: %w", err)
	}
	return Parse(data)
}

// Parse decodes a seed file. Unknown fields are rejected so typos surface at
// startup.
func Parse(data []byte) ([]festival.Artist, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing roster: %w", err)
	}
	for i, a := range f.Artists {
		if a.Name == "" {
			return nil, fmt.Errorf("parsing roster: artist %d has no name", i+1)
		}
		if a.Category != "" && !festival.ValidCategory(a.Category) {
			return nil, fmt.Errorf("parsing roster: artist %q: unknown category %q", a.Name, a.Category)
		}
	}
	return f.Artists, nil
}
