package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/csshost/csshost/internal/feed"
	"github.com/csshost/csshost/internal/minify"
	"github.com/csshost/csshost/internal/model"
	"github.com/csshost/csshost/internal/repository"
	"github.com/csshost/csshost/internal/storage"
	"github.com/csshost/csshost/internal/validation"
)

var (
	ErrAccessDenied = errors.New("access denied")
	ErrStorageWrite = errors.New("storage write failed")
	ErrStorageRead  = errors.New("storage read failed")
)

type FileService struct {
	fileRepo    repository.FileRepository
	profileRepo repository.ProfileRepository
	storage     storage.Storage
	feed        feed.Feed
	quota       int64
	maxUpload   int64
}

func NewFileService(fileRepo repository.FileRepository, profileRepo repository.ProfileRepository, store storage.Storage, changeFeed feed.Feed, quota, maxUpload int64) *FileService {
	return &FileService{
		fileRepo:    fileRepo,
		profileRepo: profileRepo,
		storage:     store,
		feed:        changeFeed,
		quota:       quota,
		maxUpload:   maxUpload,
	}
}

// Upload runs the whole pipeline for one file: validate, minify CSS, reserve
// quota, write the blob, then write the metadata row. An upload with a name
// the owner already uses replaces the old record instead of duplicating it.
//
// The blob write happens before the metadata write; if the metadata write
// fails the blob is deleted best-effort and the quota reservation released.
func (s *FileService) Upload(ctx context.Context, ownerID, name string, content []byte) (*model.File, string, error) {
	err := validation.ValidateUpload(name, int64(len(content)), s.maxUpload)
	if err != nil {
		return nil, "", err
	}

	fileType := validation.FileType(name)
	if fileType == model.FileTypeCSS {
		content = []byte(minify.CSS(string(content)))
	}
	size := int64(len(content))

	// Replace-on-name: quota accounting is the delta against the row being
	// superseded, not the full new size.
	var old *model.File
	old, err = s.fileRepo.ByOwnerAndName(ownerID, name)
	if err != nil && !errors.Is(err, repository.ErrFileNotFound) {
		return nil, "", fmt.Errorf("failed to look up existing file: %w", err)
	}
	var delta int64 = size
	if old != nil {
		delta = size - old.Size
	}

	err = s.profileRepo.ReserveStorage(ownerID, delta, s.quota)
	if err != nil {
		return nil, "", err
	}

	key := storage.ObjectKey(ownerID, name)
	file := &model.File{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Name:      name,
		Type:      fileType,
		Size:      size,
		CreatedAt: time.Now(),
	}

	err = s.storage.Save(ctx, key, bytes.NewReader(content), file.ContentType())
	if err != nil {
		s.releaseReservation(ownerID, delta)
		return nil, "", fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}

	op := feed.OpCreated
	if old != nil {
		// Single-statement swap: the old row is never gone before the new
		// one exists, and no row is ever left describing overwritten bytes.
		op = feed.OpUpdated
		err = s.fileRepo.Replace(old.ID, file)
	} else {
		err = s.fileRepo.Create(file)
	}
	if err != nil {
		// Avoid an orphaned blob: the new record never landed, so delete what
		// was just written. On the replace path the previous version is
		// already overwritten and unrecoverable, so its row goes too and its
		// bytes are handed back along with the reservation.
		delErr := s.storage.Delete(ctx, key)
		if delErr != nil {
			slog.Error("failed to delete blob during upload cleanup", "error", delErr, "key", key)
		}
		release := delta
		if old != nil {
			rowErr := s.fileRepo.Delete(old.ID)
			if rowErr != nil && !errors.Is(rowErr, repository.ErrFileNotFound) {
				slog.Error("failed to remove stale record during upload cleanup", "error", rowErr, "file_id", old.ID)
			} else {
				release += old.Size
			}
		}
		s.releaseReservation(ownerID, release)
		return nil, "", fmt.Errorf("failed to create file record: %w", err)
	}

	s.feed.Publish(feed.Event{Op: op, File: file})

	return file, s.storage.PublicURL(key), nil
}

// Files lists the owner's records, newest first.
func (s *FileService) Files(ownerID string) ([]*model.File, error) {
	return s.fileRepo.ByOwner(ownerID)
}

// URL returns the public URL a record is served from.
func (s *FileService) URL(file *model.File) string {
	return s.storage.PublicURL(storage.ObjectKey(file.OwnerID, file.Name))
}

// Usage reports the owner's quota consumption.
type Usage struct {
	Used  int64 `json:"used"`
	Quota int64 `json:"quota"`
	Files int64 `json:"files"`
}

func (s *FileService) Usage(ownerID string) (*Usage, error) {
	profile, err := s.profileRepo.ByUserID(ownerID)
	if err != nil {
		return nil, err
	}
	count, err := s.fileRepo.CountByOwner(ownerID)
	if err != nil {
		return nil, err
	}
	return &Usage{Used: profile.StorageUsed, Quota: s.quota, Files: count}, nil
}

// Delete removes the blob and the metadata row and gives the bytes back to
// the owner's quota. Admins may delete any file.
func (s *FileService) Delete(ctx context.Context, fileID, requesterID string, isAdmin bool) error {
	file, err := s.fileRepo.ByID(fileID)
	if err != nil {
		return err
	}

	if !isAdmin && file.OwnerID != requesterID {
		return ErrAccessDenied
	}

	key := storage.ObjectKey(file.OwnerID, file.Name)
	delErr := s.storage.Delete(ctx, key)
	if delErr != nil {
		// The row still goes away; an unreferenced blob is preferable to a
		// record pointing at bytes we failed to serve.
		slog.Error("failed to delete blob", "error", delErr, "key", key)
	}

	err = s.fileRepo.Delete(fileID)
	if err != nil {
		return err
	}

	err = s.profileRepo.ReleaseStorage(file.OwnerID, file.Size)
	if err != nil {
		slog.Error("failed to release storage after delete", "error", err, "owner_id", file.OwnerID)
	}

	s.feed.Publish(feed.Event{Op: feed.OpDeleted, File: file})

	return nil
}

func (s *FileService) releaseReservation(ownerID string, delta int64) {
	err := s.profileRepo.ReleaseStorage(ownerID, delta)
	if err != nil {
		slog.Error("failed to release storage reservation", "error", err, "owner_id", ownerID)
	}
}
