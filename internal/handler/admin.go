package handler

import (
	"net/http"

	"github.com/csshost/csshost/internal/ctxkeys"
	"github.com/csshost/csshost/internal/service"
)

type AdminHandler struct {
	adminService *service.AdminService
	fileService  *service.FileService
}

func NewAdminHandler(adminService *service.AdminService, fileService *service.FileService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		fileService:  fileService,
	}
}

func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminService.Users()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) Files(w http.ResponseWriter, r *http.Request) {
	files, err := h.adminService.Files()
	if err != nil {
		respondServiceError(w, err)
		return
	}

	out := make([]adminFileResponse, 0, len(files))
	for _, f := range files {
		out = append(out, adminFileResponse{
			fileResponse: fileResponse{
				ID:           f.ID,
				Name:         f.Name,
				Type:         f.Type,
				Size:         f.Size,
				URL:          h.fileService.URL(f),
				CreatedAt:    f.CreatedAt,
				LastEditedAt: f.LastEditedAt,
			},
			OwnerID: f.OwnerID,
		})
	}
	respondJSON(w, http.StatusOK, out)
}

type adminFileResponse struct {
	fileResponse
	OwnerID string `json:"owner_id"`
}

type suspendRequest struct {
	Suspended bool `json:"suspended"`
}

func (h *AdminHandler) SetSuspended(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")

	// Admins locking themselves out is not a supported flow.
	if user := ctxkeys.User(r.Context()); user != nil && user.ID == userID {
		respondError(w, http.StatusBadRequest, "cannot suspend your own account")
		return
	}

	var req suspendRequest
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err = h.adminService.SetSuspended(userID, req.Suspended)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "user updated"})
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminService.Stats()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
