package voting_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/playperu/jurybot/internal/festival"
	"github.com/playperu/jurybot/internal/voting"
)

func TestSetJuryLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, owner, ownerSecret)

	if err := f.svc.SetJuryLimit(ctx, judgeA, festival.JuryPopular, 3); !errors.Is(err, festival.ErrNotAuthorized) {
		t.Fatalf("non-owner err = %v, want ErrNotAuthorized", err)
	}
	if err := f.svc.SetJuryLimit(ctx, owner, festival.JuryTechnical, -1); !errors.Is(err, festival.ErrInvalidValue) {
		t.Fatalf("negative limit err = %v, want ErrInvalidValue", err)
	}
	if err := f.svc.SetJuryLimit(ctx, owner, festival.JuryTechnical, 2); err != nil {
		t.Fatalf("set: %v", err)
	}
	if l := f.svc.Juries().Limits.Technical; l == nil || *l != 2 {
		t.Fatalf("technical limit = %v, want 2", l)
	}
	if err := f.svc.SetJuryLimit(ctx, owner, festival.JuryTechnical, 0); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if l := f.persister.last(t).Limits.Technical; l != nil {
		t.Errorf("technical limit = %d, want unlimited", *l)
	}
}

func TestSetCredential(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, owner, ownerSecret)

	if err := f.svc.SetCredential(ctx, owner, festival.RolePopular, "   "); !errors.Is(err, festival.ErrInvalidValue) {
		t.Fatalf("blank secret err = %v, want ErrInvalidValue", err)
	}
	if err := f.svc.SetCredential(ctx, owner, festival.RolePopular, strings.Repeat("x", 100)); !errors.Is(err, festival.ErrInvalidValue) {
		t.Fatalf("long secret err = %v, want ErrInvalidValue", err)
	}
	if err := f.svc.SetCredential(ctx, judgeA, festival.RolePopular, "abcd"); !errors.Is(err, festival.ErrNotAuthorized) {
		t.Fatalf("non-owner err = %v, want ErrNotAuthorized", err)
	}
	if err := f.svc.SetCredential(ctx, owner, festival.RolePopular, "abcd"); err != nil {
		t.Fatalf("set: %v", err)
	}

	f.svc.Start(judgeA)
	if _, err := f.svc.Authenticate(ctx, judgeA, popularSecret); !errors.Is(err, festival.ErrInvalidCredential) {
		t.Fatalf("old secret err = %v, want ErrInvalidCredential", err)
	}
	if role, err := f.svc.Authenticate(ctx, judgeA, "abcd"); err != nil || role != festival.RolePopular {
		t.Fatalf("new secret: role %q, err %v", role, err)
	}

	stored := f.persister.last(t).Credentials.Popular
	if stored == "" || stored == "abcd" {
		t.Errorf("stored credential = %q, want a hash", stored)
	}
}

func TestSeedCredentialsKeepsStoredValues(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, owner, ownerSecret)
	if err := f.svc.SetCredential(ctx, owner, festival.RoleTechnical, "tech-new"); err != nil {
		t.Fatalf("set: %v", err)
	}

	// Restarting with the env defaults must not undo the owner's change.
	g := newFixtureFrom(t, f.persister.last(t))
	g.svc.Start(judgeB)
	if _, err := g.svc.Authenticate(ctx, judgeB, technicalSecret); !errors.Is(err, festival.ErrInvalidCredential) {
		t.Fatalf("default secret err = %v, want ErrInvalidCredential", err)
	}
	if _, err := g.svc.Authenticate(ctx, judgeB, "tech-new"); err != nil {
		t.Fatalf("stored secret: %v", err)
	}
}

func TestSetHomePicture(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, owner, ownerSecret)

	first, err := f.svc.SetHomePicture(ctx, owner, "one")
	if err != nil {
		t.Fatalf("first upload: %v", err)
	}
	second, err := f.svc.SetHomePicture(ctx, owner, "two")
	if err != nil {
		t.Fatalf("second upload: %v", err)
	}
	if !strings.Contains(second, voting.FolderHomePictures) {
		t.Errorf("reference %q not in %s", second, voting.FolderHomePictures)
	}
	if f.svc.HomePicture() != second {
		t.Errorf("home picture = %q, want %q", f.svc.HomePicture(), second)
	}
	if len(f.assets.deleted) != 1 || f.assets.deleted[0] != first {
		t.Errorf("deleted = %v, want [%s]", f.assets.deleted, first)
	}

	// Start hands the picture to new callers.
	if pic, _ := f.svc.Start(judgeA); pic != second {
		t.Errorf("start picture = %q", pic)
	}
}

func TestUploadFailureKeepsPicture(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, owner, ownerSecret)
	current, _ := f.svc.SetHomePicture(ctx, owner, "one")

	f.assets.fail = true
	if _, err := f.svc.SetHomePicture(ctx, owner, "two"); !errors.Is(err, festival.ErrUploadFailed) {
		t.Fatalf("err = %v, want ErrUploadFailed", err)
	}
	if f.svc.HomePicture() != current {
		t.Errorf("home picture = %q, want %q", f.svc.HomePicture(), current)
	}
	if len(f.assets.deleted) != 0 {
		t.Errorf("deleted = %v after a failed upload", f.assets.deleted)
	}
}

func TestUploadWithoutAssetStore(t *testing.T) {
	svc := voting.New(festival.Document{}, voting.Options{BcryptCost: 4})
	ctx := context.Background()
	if err := svc.SeedCredentials(ctx, popularSecret, technicalSecret, ownerSecret); err != nil {
		t.Fatal(err)
	}
	svc.Start(owner)
	if _, err := svc.Authenticate(ctx, owner, ownerSecret); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SetHomePicture(ctx, owner, "pic"); !errors.Is(err, festival.ErrUploadFailed) {
		t.Fatalf("err = %v, want ErrUploadFailed", err)
	}
}
