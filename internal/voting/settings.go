package voting

import (
	"context"
	"fmt"

	"github.com/playperu/jurybot/internal/festival"
)

const (
	FolderHomePictures = "home_pictures"
	FolderArtistPhotos = "artist_photos"
)

// SetJuryLimit caps the size of a jury. Zero removes the cap.
func (s *Service) SetJuryLimit(ctx context.Context, c Caller, jury festival.JuryType, n int) error {
	if !jury.Valid() || n < 0 {
		return fmt.Errorf("limit %d for %q: %w", n, jury, festival.ErrInvalidValue)
	}
	return s.update(ctx, func(t *txn) error {
		if err := s.requireOwner(c.ID); err != nil {
			return err
		}
		var limit *int
		if n > 0 {
			limit = &n
		}
		if jury == festival.JuryTechnical {
			s.st.limits.Technical = limit
		} else {
			s.st.limits.Popular = limit
		}
		t.touch()
		return nil
	})
}

// SetCredential replaces the shared secret of a role.
func (s *Service) SetCredential(ctx context.Context, c Caller, role festival.Role, secret string) error {
	if !s.IsOwner(c.ID) {
		return festival.ErrNotAuthorized
	}
	h, err := s.hash(secret)
	if err != nil {
		return err
	}
	err = s.update(ctx, func(t *txn) error {
		if err := s.requireOwner(c.ID); err != nil {
			return err
		}
		switch role {
		case festival.RolePopular:
			s.st.creds.Popular = h
		case festival.RoleTechnical:
			s.st.creds.Technical = h
		case festival.RoleOwner:
			s.st.creds.Owner = h
		default:
			return fmt.Errorf("role %q: %w", role, festival.ErrInvalidValue)
		}
		t.touch()
		return nil
	})
	if err == nil {
		s.logger.Info("credential changed", "role", role, "owner", c.ID)
	}
	return err
}

// SetHomePicture uploads a new welcome image and drops the previous one.
// A failed upload leaves the current picture in place.
func (s *Service) SetHomePicture(ctx context.Context, c Caller, source string) (string, error) {
	ref, err := s.upload(ctx, c, source, FolderHomePictures)
	if err != nil {
		return "", err
	}

	var old string
	err = s.update(ctx, func(t *txn) error {
		if err := s.requireOwner(c.ID); err != nil {
			return err
		}
		old = s.st.homePicture
		s.st.homePicture = ref
		t.touch()
		return nil
	})
	if err != nil {
		s.discard(ctx, ref)
		return "", err
	}
	if old != "" && old != ref {
		s.discard(ctx, old)
	}
	return ref, nil
}

func (s *Service) upload(ctx context.Context, c Caller, source, folder string) (string, error) {
	if !s.IsOwner(c.ID) {
		return "", festival.ErrNotAuthorized
	}
	if s.assets == nil {
		return "", fmt.Errorf("no asset store configured: %w", festival.ErrUploadFailed)
	}
	ref, err := s.assets.Upload(ctx, source, folder)
	if err != nil {
		s.logger.Error("asset upload failed", "folder", folder, "error", err)
		return "", fmt.Errorf("uploading to %s: %w", folder, festival.ErrUploadFailed)
	}
	if ref == "" {
		return "", fmt.Errorf("uploading to %s: empty reference: %w", folder, festival.ErrUploadFailed)
	}
	return ref, nil
}

func (s *Service) discard(ctx context.Context, ref string) {
	if s.assets == nil || ref == "" {
		return
	}
	s.assets.Delete(ctx, ref)
}
