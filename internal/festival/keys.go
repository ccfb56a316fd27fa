package festival

import (
	"strconv"
	"strings"
)

const artistKeyPrefix = "artist"

// NextArtistKey returns the prefix plus the smallest unused positive integer.
func NextArtistKey(artists []Artist) string {
	used := make(map[string]bool, len(artists))
	for _, a := range artists {
		used[a.Key] = true
	}
	for n := 1; ; n++ {
		key := artistKeyPrefix + strconv.Itoa(n)
		if !used[key] {
			return key
		}
	}
}

// SanitizeAspect replaces path separators, which the document store's key
// naming does not accept.
func SanitizeAspect(name string) string {
	return strings.ReplaceAll(name, "/", "_")
}

// RestoreAspect maps a sanitized name back to a known aspect. Unknown names
// are returned unchanged; the mapping is lossy for them.
func RestoreAspect(name string) string {
	for _, a := range Aspects {
		if SanitizeAspect(a) == name {
			return a
		}
	}
	return name
}

// AspectIndex returns the position of name in Aspects, or -1.
func AspectIndex(name string) int {
	for i, a := range Aspects {
		if a == name {
			return i
		}
	}
	return -1
}
