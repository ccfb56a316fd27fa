package voting

import (
	"slices"

	"github.com/playperu/jurybot/internal/festival"
)

type idSet map[int64]struct{}

func newIDSet(ids []int64) idSet {
	s := make(idSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s idSet) has(id int64) bool {
	_, ok := s[id]
	return ok
}

func (s idSet) sorted() []int64 {
	ids := make([]int64, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// state is the in-memory aggregate. Only Service touches it, under its mutex.
type state struct {
	limits      festival.Limits
	homePicture string
	popular     festival.PopularVotes
	technical   festival.TechnicalVotes
	popularJury idSet
	techJury    idSet
	judgeTypes  map[int64]festival.JuryType
	creds       festival.Credentials
	owners      idSet
	artists     []festival.Artist
	active      string
}

func stateFromDocument(doc festival.Document) *state {
	st := &state{
		limits:      festival.Limits{Popular: copyInt(doc.Limits.Popular), Technical: copyInt(doc.Limits.Technical)},
		homePicture: doc.HomePicture,
		popular:     copyPopular(doc.PopularVotes),
		technical:   copyTechnical(doc.TechnicalVotes),
		popularJury: newIDSet(doc.PopularJury),
		techJury:    newIDSet(doc.TechnicalJury),
		judgeTypes:  make(map[int64]festival.JuryType, len(doc.JudgeTypes)),
		creds:       doc.Credentials,
		owners:      newIDSet(doc.Owners),
		artists:     slices.Clone(doc.Artists),
		active:      doc.ActiveArtist,
	}
	for id, j := range doc.JudgeTypes {
		st.judgeTypes[id] = j
	}
	if st.active != "" {
		if _, ok := st.artist(st.active); !ok {
			st.active = ""
		}
	}
	return st
}

// document returns a deep copy safe to hand to another goroutine.
func (st *state) document() festival.Document {
	doc := festival.Document{
		Limits:         festival.Limits{Popular: copyInt(st.limits.Popular), Technical: copyInt(st.limits.Technical)},
		HomePicture:    st.homePicture,
		PopularVotes:   copyPopular(st.popular),
		TechnicalVotes: copyTechnical(st.technical),
		PopularJury:    st.popularJury.sorted(),
		TechnicalJury:  st.techJury.sorted(),
		JudgeTypes:     make(map[int64]festival.JuryType, len(st.judgeTypes)),
		Credentials:    st.creds,
		Owners:         st.owners.sorted(),
		Artists:        slices.Clone(st.artists),
		ActiveArtist:   st.active,
	}
	for id, j := range st.judgeTypes {
		doc.JudgeTypes[id] = j
	}
	if doc.Artists == nil {
		doc.Artists = []festival.Artist{}
	}
	return doc
}

func (st *state) jury(j festival.JuryType) idSet {
	if j == festival.JuryTechnical {
		return st.techJury
	}
	return st.popularJury
}

func (st *state) limit(j festival.JuryType) *int {
	if j == festival.JuryTechnical {
		return st.limits.Technical
	}
	return st.limits.Popular
}

func (st *state) artist(key string) (festival.Artist, bool) {
	for _, a := range st.artists {
		if a.Key == key {
			return a, true
		}
	}
	return festival.Artist{}, false
}

func (st *state) wipeVotes() {
	st.popular = make(festival.PopularVotes)
	st.technical = make(festival.TechnicalVotes)
	st.popularJury = make(idSet)
	st.techJury = make(idSet)
	st.judgeTypes = make(map[int64]festival.JuryType)
	st.active = ""
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyPopular(src festival.PopularVotes) festival.PopularVotes {
	dst := make(festival.PopularVotes, len(src))
	for artist, judges := range src {
		m := make(map[int64]float64, len(judges))
		for id, s := range judges {
			m[id] = s
		}
		dst[artist] = m
	}
	return dst
}

func copyTechnical(src festival.TechnicalVotes) festival.TechnicalVotes {
	dst := make(festival.TechnicalVotes, len(src))
	for artist, judges := range src {
		m := make(map[int64]map[string]float64, len(judges))
		for id, aspects := range judges {
			a := make(map[string]float64, len(aspects))
			for name, s := range aspects {
				a[name] = s
			}
			m[id] = a
		}
		dst[artist] = m
	}
	return dst
}
