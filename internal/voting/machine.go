package voting

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/playperu/jurybot/internal/festival"
)

// Receipt describes the outcome of a vote submission. Jury, Artist and
// Aspect are filled in for rejected technical votes too, so the caller can
// repeat the prompt.
type Receipt struct {
	Jury   festival.JuryType
	Artist festival.Artist
	// Aspect is the technical aspect the score was given for.
	Aspect string
	Score  float64
	// NextAspect is the aspect to prompt for next, empty once complete.
	NextAspect string
	Complete   bool
	// Mean is the judge's average over all aspects, set when Complete.
	Mean float64
}

// SelectArtist opens voting for an artist and broadcasts its profile to
// every jury member.
func (s *Service) SelectArtist(ctx context.Context, c Caller, key string) (festival.Artist, error) {
	var artist festival.Artist
	err := s.update(ctx, func(t *txn) error {
		if err := s.requireOwner(c.ID); err != nil {
			return err
		}
		a, ok := s.st.artist(key)
		if !ok {
			return fmt.Errorf("selecting %q: %w", key, festival.ErrArtistNotFound)
		}
		artist = a
		s.st.active = key

		t.emit(Event{
			Type:       EventArtistOpened,
			Recipients: s.judgeRecipients(),
			Judge:      c,
			Artist:     a,
		})
		t.touch()
		return nil
	})
	if err == nil {
		s.logger.Info("voting opened", "artist", key, "owner", c.ID)
	}
	return artist, err
}

func (s *Service) judgeRecipients() []Recipient {
	seen := make(idSet)
	var out []Recipient
	for _, jury := range []idSet{s.st.popularJury, s.st.techJury} {
		for _, id := range jury.sorted() {
			if seen.has(id) {
				continue
			}
			seen[id] = struct{}{}
			j := festival.JuryPopular
			if s.st.judgeTypes[id] == festival.JuryTechnical {
				j = festival.JuryTechnical
			}
			out = append(out, Recipient{ID: id, Jury: j})
		}
	}
	return out
}

// SubmitVote records a score for the active artist. text is parsed as a
// floating point number.
func (s *Service) SubmitVote(ctx context.Context, c Caller, text string) (Receipt, error) {
	var r Receipt
	err := s.update(ctx, func(t *txn) error {
		sess, ok := s.sessions[c.ID]
		if !ok || sess.Phase != PhaseVoting {
			return festival.ErrNotAuthorized
		}
		r.Jury = sess.Jury

		if s.st.active == "" {
			return festival.ErrNoActiveArtist
		}
		r.Artist, _ = s.st.artist(s.st.active)

		score, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return fmt.Errorf("parsing %q: %w", text, festival.ErrInvalidVoteFormat)
		}
		r.Score = score

		if sess.Jury == festival.JuryTechnical {
			return s.recordTechnical(t, c, sess, &r)
		}
		return s.recordPopular(t, c, &r)
	})

	if err != nil {
		s.observer.VoteRejected(r.Jury, err)
	} else {
		s.observer.VoteRecorded(r.Jury)
	}
	return r, err
}

func inRange(score float64) bool {
	return score >= festival.MinScore && score <= festival.MaxScore
}

func (s *Service) recordPopular(t *txn, c Caller, r *Receipt) error {
	key := r.Artist.Key
	judges := s.st.popular[key]
	if _, dup := judges[c.ID]; dup {
		return festival.ErrDuplicateVote
	}
	if !inRange(r.Score) {
		return festival.ErrOutOfRange
	}
	if judges == nil {
		judges = make(map[int64]float64)
		if s.st.popular == nil {
			s.st.popular = make(festival.PopularVotes)
		}
		s.st.popular[key] = judges
	}
	judges[c.ID] = r.Score

	t.emit(Event{
		Type:       EventVoteRecorded,
		Recipients: s.ownerRecipients(),
		Judge:      c,
		Jury:       festival.JuryPopular,
		Artist:     r.Artist,
		Score:      r.Score,
	})
	t.touch()
	return nil
}

func (s *Service) recordTechnical(t *txn, c Caller, sess *Session, r *Receipt) error {
	key := r.Artist.Key
	s.alignCursor(sess, c.ID, key)
	r.Aspect = festival.Aspects[sess.Cursor]

	if !inRange(r.Score) {
		return festival.ErrOutOfRange
	}
	record := s.st.technical[key][c.ID]
	if _, dup := record[r.Aspect]; dup {
		return festival.ErrDuplicateVote
	}
	if record == nil {
		if s.st.technical == nil {
			s.st.technical = make(festival.TechnicalVotes)
		}
		if s.st.technical[key] == nil {
			s.st.technical[key] = make(map[int64]map[string]float64)
		}
		record = make(map[string]float64, len(festival.Aspects))
		s.st.technical[key][c.ID] = record
	}
	record[r.Aspect] = r.Score
	sess.Cursor++

	if sess.Cursor < len(festival.Aspects) {
		r.NextAspect = festival.Aspects[sess.Cursor]
		t.touch()
		return nil
	}

	var total float64
	for _, v := range record {
		total += v
	}
	r.Complete = true
	r.Mean = total / float64(len(festival.Aspects))
	sess.Cursor = 0

	t.emit(Event{
		Type:       EventTechnicalCompleted,
		Recipients: s.ownerRecipients(),
		Judge:      c,
		Jury:       festival.JuryTechnical,
		Artist:     r.Artist,
		Score:      r.Mean,
	})
	t.touch()
	return nil
}

// alignCursor moves a technical judge's cursor to artist. A fresh artist
// starts at the first aspect the judge has not scored yet.
func (s *Service) alignCursor(sess *Session, judge int64, artist string) {
	if sess.CursorArtist == artist {
		return
	}
	sess.CursorArtist = artist
	sess.Cursor = 0
	record := s.st.technical[artist][judge]
	for i, aspect := range festival.Aspects {
		if _, done := record[aspect]; !done {
			sess.Cursor = i
			return
		}
	}
}

// StopVoting closes the active artist and sends the ranking to every owner.
// Recorded votes are kept.
func (s *Service) StopVoting(ctx context.Context, c Caller) (festival.Ranking, error) {
	var ranking festival.Ranking
	err := s.update(ctx, func(t *txn) error {
		if err := s.requireOwner(c.ID); err != nil {
			return err
		}
		ranking = festival.Rank(s.st.artists, s.st.popular, s.st.technical)
		if s.st.active != "" {
			s.st.active = ""
			t.touch()
		}
		if sess, ok := s.sessions[c.ID]; ok && sess.Owner {
			sess.Phase = PhaseOwnerMenu
		}
		t.emit(Event{
			Type:       EventRankingReady,
			Recipients: s.ownerRecipients(),
			Judge:      c,
			Ranking:    ranking,
		})
		return nil
	})
	return ranking, err
}

// Ranking computes the current leaderboards without side effects.
func (s *Service) Ranking() festival.Ranking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return festival.Rank(s.st.artists, s.st.popular, s.st.technical)
}

// Reset wipes vote records and jury rosters. Artists, credentials, limits
// and owners are kept; judges have to authenticate again.
func (s *Service) Reset(ctx context.Context, c Caller) error {
	err := s.update(ctx, func(t *txn) error {
		if err := s.requireOwner(c.ID); err != nil {
			return err
		}
		s.st.wipeVotes()
		for id, sess := range s.sessions {
			if !sess.Owner {
				delete(s.sessions, id)
			}
		}
		t.touch()
		return nil
	})
	if err == nil {
		s.logger.Info("voting data reset", "owner", c.ID)
	}
	return err
}
