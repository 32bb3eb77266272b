package handler

import (
	"net/http"

	"github.com/csshost/csshost/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.authService.Signup(req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	token, err := h.authService.GenerateJWT(user)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	h.authService.SetJWTCookie(w, token)

	respondJSON(w, http.StatusCreated, sessionResponse{ID: user.ID, Email: user.Email})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	token, err := h.authService.GenerateJWT(user)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	h.authService.SetJWTCookie(w, token)

	respondJSON(w, http.StatusOK, sessionResponse{ID: user.ID, Email: user.Email})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearJWTCookie(w)
	respondJSON(w, http.StatusOK, map[string]string{"message": "signed out"})
}
