package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/csshost/csshost/internal/ctxkeys"
	"github.com/csshost/csshost/internal/model"
	"github.com/csshost/csshost/internal/service"
	"github.com/csshost/csshost/internal/validation"
)

type FilesHandler struct {
	fileService *service.FileService
	maxUpload   int64
}

func NewFilesHandler(fileService *service.FileService, maxUpload int64) *FilesHandler {
	return &FilesHandler{
		fileService: fileService,
		maxUpload:   maxUpload,
	}
}

type fileResponse struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Type         string     `json:"type"`
	Size         int64      `json:"size"`
	URL          string     `json:"url"`
	CreatedAt    time.Time  `json:"created_at"`
	LastEditedAt *time.Time `json:"last_edited_at,omitempty"`
}

func (h *FilesHandler) fileResponse(f *model.File) fileResponse {
	return fileResponse{
		ID:           f.ID,
		Name:         f.Name,
		Type:         f.Type,
		Size:         f.Size,
		URL:          h.fileService.URL(f),
		CreatedAt:    f.CreatedAt,
		LastEditedAt: f.LastEditedAt,
	}
}

// Upload accepts a multipart form with a single "file" field and runs the
// upload pipeline for the session's owner namespace.
func (h *FilesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ownerID := ctxkeys.OwnerID(r.Context())

	// Headroom over the limit so ordinary oversized files reach the
	// validator; bodies past the cap surface as MaxBytesError instead.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+(64<<10))
	err := r.ParseMultipartForm(h.maxUpload + (64 << 10))
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respondServiceError(w, validation.ErrTooLarge)
			return
		}
		respondError(w, http.StatusBadRequest, "no file uploaded")
		return
	}

	part, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer func() { _ = part.Close() }()

	content, err := io.ReadAll(part)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	file, url, err := h.fileService.Upload(r.Context(), ownerID, header.Filename, content)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	resp := h.fileResponse(file)
	resp.URL = url
	respondJSON(w, http.StatusCreated, resp)
}

// List returns the session owner's files, newest first.
func (h *FilesHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID := ctxkeys.OwnerID(r.Context())

	files, err := h.fileService.Files(ownerID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	out := make([]fileResponse, 0, len(files))
	for _, f := range files {
		out = append(out, h.fileResponse(f))
	}
	respondJSON(w, http.StatusOK, out)
}

// Usage reports quota consumption for the session owner.
func (h *FilesHandler) Usage(w http.ResponseWriter, r *http.Request) {
	ownerID := ctxkeys.OwnerID(r.Context())

	usage, err := h.fileService.Usage(ownerID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, usage)
}

// Delete removes one of the owner's files, blob and record both.
func (h *FilesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID := ctxkeys.OwnerID(r.Context())
	profile := ctxkeys.Profile(r.Context())
	isAdmin := profile != nil && profile.IsAdmin()

	err := h.fileService.Delete(r.Context(), r.PathValue("id"), ownerID, isAdmin)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "file deleted"})
}
