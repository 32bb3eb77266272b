package handler

import (
	"net/http"

	"github.com/csshost/csshost/internal/ctxkeys"
	"github.com/csshost/csshost/internal/service"
)

// ContentHandler serves the browser editor round-trip.
type ContentHandler struct {
	contentService *service.ContentService
}

func NewContentHandler(contentService *service.ContentService) *ContentHandler {
	return &ContentHandler{
		contentService: contentService,
	}
}

func (h *ContentHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID := ctxkeys.OwnerID(r.Context())
	profile := ctxkeys.Profile(r.Context())
	isAdmin := profile != nil && profile.IsAdmin()

	content, err := h.contentService.Content(r.Context(), r.PathValue("id"), ownerID, isAdmin)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"content": content})
}

type updateContentRequest struct {
	Content string `json:"content"`
}

func (h *ContentHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID := ctxkeys.OwnerID(r.Context())
	profile := ctxkeys.Profile(r.Context())
	isAdmin := profile != nil && profile.IsAdmin()

	var req updateContentRequest
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Content == "" {
		respondError(w, http.StatusBadRequest, "content is required")
		return
	}

	_, err = h.contentService.Save(r.Context(), r.PathValue("id"), ownerID, isAdmin, req.Content)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "file updated successfully"})
}
