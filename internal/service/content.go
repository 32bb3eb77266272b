package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/csshost/csshost/internal/feed"
	"github.com/csshost/csshost/internal/minify"
	"github.com/csshost/csshost/internal/model"
	"github.com/csshost/csshost/internal/repository"
	"github.com/csshost/csshost/internal/storage"
	"github.com/csshost/csshost/internal/validation"
)

// ContentService is the editor round-trip: read a file's bytes out of object
// storage, and write edited content back.
type ContentService struct {
	fileRepo    repository.FileRepository
	profileRepo repository.ProfileRepository
	storage     storage.Storage
	feed        feed.Feed
	quota       int64
	maxUpload   int64
}

func NewContentService(fileRepo repository.FileRepository, profileRepo repository.ProfileRepository, store storage.Storage, changeFeed feed.Feed, quota, maxUpload int64) *ContentService {
	return &ContentService{
		fileRepo:    fileRepo,
		profileRepo: profileRepo,
		storage:     store,
		feed:        changeFeed,
		quota:       quota,
		maxUpload:   maxUpload,
	}
}

// Content returns the current text of the file. Only the owner (or an admin)
// may read it.
func (s *ContentService) Content(ctx context.Context, fileID, requesterID string, isAdmin bool) (string, error) {
	file, err := s.fileRepo.ByID(fileID)
	if err != nil {
		return "", err
	}

	if !isAdmin && file.OwnerID != requesterID {
		return "", ErrAccessDenied
	}

	key := storage.ObjectKey(file.OwnerID, file.Name)
	data, err := s.storage.Load(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrStorageRead, err)
	}

	return string(data), nil
}

// Save writes edited content back to the file's blob and stamps the record.
// CSS goes through the minifier again; a record write never skips it. The
// size delta is folded into both size_bytes and the owner's storage_used so
// the quota invariant survives edits.
func (s *ContentService) Save(ctx context.Context, fileID, requesterID string, isAdmin bool, content string) (*model.File, error) {
	file, err := s.fileRepo.ByID(fileID)
	if err != nil {
		return nil, err
	}

	if !isAdmin && file.OwnerID != requesterID {
		return nil, ErrAccessDenied
	}

	if file.Type == model.FileTypeCSS {
		content = minify.CSS(content)
	}
	size := int64(len(content))
	if size > s.maxUpload {
		return nil, validation.ErrTooLarge
	}

	delta := size - file.Size
	err = s.profileRepo.ReserveStorage(file.OwnerID, delta, s.quota)
	if err != nil {
		return nil, err
	}

	key := storage.ObjectKey(file.OwnerID, file.Name)
	err = s.storage.Save(ctx, key, bytes.NewReader([]byte(content)), file.ContentType())
	if err != nil {
		releaseErr := s.profileRepo.ReleaseStorage(file.OwnerID, delta)
		if releaseErr != nil {
			err = errors.Join(err, releaseErr)
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}

	now := time.Now()
	err = s.fileRepo.UpdateSize(fileID, size)
	if err != nil {
		// The record still carries the old size, so the reservation has to go
		// back or the owner is charged for bytes no row accounts for.
		releaseErr := s.profileRepo.ReleaseStorage(file.OwnerID, delta)
		if releaseErr != nil {
			slog.Error("failed to release storage after edit failure", "error", releaseErr, "owner_id", file.OwnerID)
		}
		return nil, fmt.Errorf("failed to update file size: %w", err)
	}
	err = s.fileRepo.UpdateLastEdited(fileID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to update last edited timestamp: %w", err)
	}

	file.Size = size
	file.LastEditedAt = &now
	s.feed.Publish(feed.Event{Op: feed.OpUpdated, File: file})

	return file, nil
}
