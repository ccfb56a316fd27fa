package voting

import (
	"context"
	"fmt"
	"strings"

	"github.com/playperu/jurybot/internal/festival"
)

// Start opens the credential prompt. It returns the welcome picture, if one
// is configured, and ErrAlreadyAuthenticated for callers already logged in.
func (s *Service) Start(c Caller) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session(c.ID)
	if sess.LoggedIn() {
		return "", festival.ErrAlreadyAuthenticated
	}
	sess.Phase = PhaseAwaitingCredential
	return s.st.homePicture, nil
}

// Authenticate admits the caller into the role whose secret matches. The
// returned role is set whenever a secret matched, even if admission failed.
func (s *Service) Authenticate(ctx context.Context, c Caller, secret string) (festival.Role, error) {
	if sess, ok := s.Session(c.ID); ok && sess.LoggedIn() {
		return "", festival.ErrAlreadyAuthenticated
	}

	// bcrypt is slow; compare outside the lock.
	role, hash, matched := matchRole(s.credentials(), strings.TrimSpace(secret))
	return role, s.admit(ctx, c, role, hash, matched)
}

// admit finishes Authenticate under the lock. hash is the credential the
// secret matched; a credential changed since then refuses the caller.
func (s *Service) admit(ctx context.Context, c Caller, role festival.Role, hash string, matched bool) error {
	err := s.update(ctx, func(t *txn) error {
		sess := s.session(c.ID)
		if sess.LoggedIn() {
			return festival.ErrAlreadyAuthenticated
		}
		if !matched || roleHash(s.st.creds, role) != hash {
			sess.Phase = PhaseAwaitingCredential
			return festival.ErrInvalidCredential
		}
		if jury, ok := role.Jury(); ok {
			return s.admitJudge(t, c, sess, jury)
		}
		return s.admitOwner(t, c, sess)
	})

	s.observer.AuthAttempt(role, err)
	if err != nil {
		s.logger.Debug("authentication refused", "chat_id", c.ID, "role", role, "error", err)
	} else {
		s.logger.Info("participant authenticated", "chat_id", c.ID, "role", role)
	}
	return err
}

func (s *Service) admitJudge(t *txn, c Caller, sess *Session, jury festival.JuryType) error {
	members := s.st.jury(jury)
	if !members.has(c.ID) {
		if limit := s.st.limit(jury); limit != nil && *limit > 0 && len(members) >= *limit {
			sess.Phase = PhaseUnauthenticated
			return fmt.Errorf("%s jury is full: %w", jury, festival.ErrCapacityExceeded)
		}
	}

	// A judge sits in one jury only.
	delete(s.st.popularJury, c.ID)
	delete(s.st.techJury, c.ID)
	delete(s.st.judgeTypes, c.ID)

	members[c.ID] = struct{}{}
	switch jury {
	case festival.JuryTechnical:
		s.st.judgeTypes[c.ID] = festival.JuryTechnical
		if s.st.technical == nil {
			s.st.technical = make(festival.TechnicalVotes)
		}
	default:
		if s.st.popular == nil {
			s.st.popular = make(festival.PopularVotes)
		}
	}

	*sess = Session{Phase: PhaseVoting, Jury: jury}

	t.emit(Event{
		Type:       EventJudgeJoined,
		Recipients: s.ownerRecipients(),
		Judge:      c,
		Jury:       jury,
	})
	t.touch()
	return nil
}

func (s *Service) admitOwner(t *txn, c Caller, sess *Session) error {
	if !s.st.owners.has(c.ID) && len(s.st.owners) >= festival.MaxOwners {
		sess.Phase = PhaseUnauthenticated
		return fmt.Errorf("owner set is full: %w", festival.ErrCapacityExceeded)
	}
	s.st.owners[c.ID] = struct{}{}
	*sess = Session{Phase: PhaseOwnerMenu, Owner: true}
	t.touch()
	return nil
}

// Logout ends the caller's session. Owners leave the owner set, freeing a
// slot; judges keep their jury membership and recorded votes.
func (s *Service) Logout(ctx context.Context, c Caller) error {
	return s.update(ctx, func(t *txn) error {
		delete(s.sessions, c.ID)
		if s.st.owners.has(c.ID) {
			delete(s.st.owners, c.ID)
			t.touch()
		}
		return nil
	})
}

// Cancel abandons an unfinished login. It returns the phase the caller is
// left in.
func (s *Service) Cancel(c Caller) Phase {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[c.ID]
	if !ok {
		return PhaseUnauthenticated
	}
	if !sess.LoggedIn() {
		delete(s.sessions, c.ID)
		return PhaseUnauthenticated
	}
	return sess.Phase
}
