package service

import (
	"context"
	"errors"
	"testing"

	"github.com/csshost/csshost/internal/model"
	"github.com/csshost/csshost/internal/repository"
)

func TestAdminUsersAndStats(t *testing.T) {
	f := setupServices(t, 1<<30, 1<<20)
	ctx := context.Background()

	if _, _, err := f.files.Upload(ctx, f.user.ID, "a.css", []byte(".a{x:y}")); err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if _, _, err := f.files.Upload(ctx, model.OwnerAnonymous, "b.js", []byte("let x=1")); err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	admin := NewAdminService(f.userRepo, f.profiles, f.fileRepo)

	users, err := admin.Users()
	if err != nil {
		t.Fatalf("failed to list users: %v", err)
	}
	// The seeded anonymous account plus the fixture user.
	if len(users) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(users))
	}

	byID := make(map[string]*AdminUser, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	owner, ok := byID[f.user.ID]
	if !ok {
		t.Fatalf("expected fixture user in listing")
	}
	if owner.Email != f.user.Email {
		t.Errorf("expected email %s, got %s", f.user.Email, owner.Email)
	}
	if owner.FileCount != 1 {
		t.Errorf("expected 1 file, got %d", owner.FileCount)
	}
	if owner.StorageUsed != 7 {
		t.Errorf("expected storage_used 7, got %d", owner.StorageUsed)
	}

	stats, err := admin.Stats()
	if err != nil {
		t.Fatalf("failed to get stats: %v", err)
	}
	if stats.Users != 2 {
		t.Errorf("expected 2 users, got %d", stats.Users)
	}
	if stats.Files != 2 {
		t.Errorf("expected 2 files, got %d", stats.Files)
	}
	if stats.BytesStored != 14 {
		t.Errorf("expected 14 bytes stored, got %d", stats.BytesStored)
	}
}

func TestAdminFiles(t *testing.T) {
	f := setupServices(t, 1<<30, 1<<20)
	ctx := context.Background()

	if _, _, err := f.files.Upload(ctx, f.user.ID, "mine.css", []byte(".a{x:y}")); err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if _, _, err := f.files.Upload(ctx, model.OwnerAnonymous, "theirs.css", []byte(".b{x:y}")); err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	admin := NewAdminService(f.userRepo, f.profiles, f.fileRepo)

	files, err := admin.Files()
	if err != nil {
		t.Fatalf("failed to list files: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("expected 2 files across all owners, got %d", len(files))
	}
}

func TestAdminSetSuspended(t *testing.T) {
	f := setupServices(t, 1<<30, 1<<20)
	admin := NewAdminService(f.userRepo, f.profiles, f.fileRepo)

	if err := admin.SetSuspended(f.user.ID, true); err != nil {
		t.Fatalf("failed to suspend: %v", err)
	}
	profile, err := f.profiles.ByUserID(f.user.ID)
	if err != nil {
		t.Fatalf("failed to fetch profile: %v", err)
	}
	if !profile.Suspended {
		t.Error("expected profile suspended")
	}

	if err := admin.SetSuspended("missing", true); !errors.Is(err, repository.ErrProfileNotFound) {
		t.Errorf("expected ErrProfileNotFound, got %v", err)
	}
}
