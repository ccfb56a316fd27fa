package voting

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/playperu/jurybot/internal/festival"
)

// bcrypt ignores input past 72 bytes; longer secrets are rejected.
const maxSecretLen = 72

func secretMatches(hash, secret string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}

// matchRole checks secret against the popular, technical and owner hashes,
// in that order, and returns the role and hash that matched.
func matchRole(creds festival.Credentials, secret string) (festival.Role, string, bool) {
	for _, c := range []struct {
		role festival.Role
		hash string
	}{
		{festival.RolePopular, creds.Popular},
		{festival.RoleTechnical, creds.Technical},
		{festival.RoleOwner, creds.Owner},
	} {
		if secretMatches(c.hash, secret) {
			return c.role, c.hash, true
		}
	}
	return "", "", false
}

func roleHash(creds festival.Credentials, role festival.Role) string {
	switch role {
	case festival.RolePopular:
		return creds.Popular
	case festival.RoleTechnical:
		return creds.Technical
	case festival.RoleOwner:
		return creds.Owner
	}
	return ""
}

type ownerToken struct {
	hash   string
	digest [sha256.Size]byte
}

func (s *Service) hash(secret string) (string, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" || len(secret) > maxSecretLen {
		return "", fmt.Errorf("secret must be 1-%d bytes: %w", maxSecretLen, festival.ErrInvalidValue)
	}
	h, err := bcrypt.GenerateFromPassword([]byte(secret), s.cost)
	if err != nil {
		return "", fmt.Errorf("hashing secret: %w", err)
	}
	return string(h), nil
}

func (s *Service) credentials() festival.Credentials {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.creds
}

// SeedCredentials fills in any credential that has no hash yet. Values
// already stored in the document win, so runtime changes survive restarts.
func (s *Service) SeedCredentials(ctx context.Context, popular, technical, owner string) error {
	current := s.credentials()
	seeded := current

	for _, c := range []struct {
		dst    *string
		secret string
	}{
		{&seeded.Popular, popular},
		{&seeded.Technical, technical},
		{&seeded.Owner, owner},
	} {
		if *c.dst != "" {
			continue
		}
		h, err := s.hash(c.secret)
		if err != nil {
			return err
		}
		*c.dst = h
	}
	if seeded == current {
		return nil
	}

	return s.update(ctx, func(t *txn) error {
		if s.st.creds.Popular == "" {
			s.st.creds.Popular = seeded.Popular
		}
		if s.st.creds.Technical == "" {
			s.st.creds.Technical = seeded.Technical
		}
		if s.st.creds.Owner == "" {
			s.st.creds.Owner = seeded.Owner
		}
		t.touch()
		return nil
	})
}

// IsOwnerSecret reports whether secret is the current owner credential.
// The last accepted secret is remembered until the owner hash changes, so
// repeated API calls skip bcrypt.
func (s *Service) IsOwnerSecret(secret string) bool {
	secret = strings.TrimSpace(secret)
	digest := sha256.Sum256([]byte(secret))

	s.mu.Lock()
	hash, cached := s.st.creds.Owner, s.ownerOK
	s.mu.Unlock()

	if hash == "" {
		return false
	}
	if cached.hash == hash && subtle.ConstantTimeCompare(cached.digest[:], digest[:]) == 1 {
		return true
	}
	if !secretMatches(hash, secret) {
		return false
	}

	s.mu.Lock()
	if s.st.creds.Owner == hash {
		s.ownerOK = ownerToken{hash: hash, digest: digest}
	}
	s.mu.Unlock()
	return true
}
