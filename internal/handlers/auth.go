package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/models"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/services/users"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/utils"
)

// LoginRequest accepts a username or an email in Login
type LoginRequest struct {
	Login    string `json:"login"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *Router) tokenResponse(w http.ResponseWriter, status int, user *models.User, extra map[string]interface{}) {
	accessToken, refreshToken, err := utils.GenerateTokens(user, r.JWTSecret)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate tokens")
		return
	}
	resp := map[string]interface{}{
		"tokens": map[string]string{
			"accessToken":  accessToken,
			"refreshToken": refreshToken,
		},
		"user": user,
	}
	for k, v := range extra {
		resp[k] = v
	}
	respondJSON(w, status, resp)
}

// login handles user login
func (r *Router) login(w http.ResponseWriter, req *http.Request) {
	var loginReq LoginRequest
	if err := json.NewDecoder(req.Body).Decode(&loginReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	identifier := loginReq.Login
	if identifier == "" {
		identifier = loginReq.Email
	}

	user, err := r.Users.Login(req.Context(), identifier, loginReq.Password)
	if errors.Is(err, users.ErrInvalidCredentials) {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		respondErr(w, err)
		return
	}

	r.tokenResponse(w, http.StatusOK, user, nil)
}

// register creates an account and logs it in. The admin role can only be
// claimed while no admin exists.
func (r *Router) register(w http.ResponseWriter, req *http.Request) {
	var regReq users.RegisterInput
	if err := json.NewDecoder(req.Body).Decode(&regReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, err := r.Users.Register(req.Context(), regReq)
	if err != nil {
		respondErr(w, err)
		return
	}

	r.tokenResponse(w, http.StatusCreated, user, map[string]interface{}{
		"message": "User registered successfully",
	})
}

// setupStatus tells the first-run screen whether an admin must be created
func (r *Router) setupStatus(w http.ResponseWriter, req *http.Request) {
	hasAdmin, err := r.Users.HasAdmin(req.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"has_admin": hasAdmin})
}

// logout is stateless; clients drop their tokens
func (r *Router) logout(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Logged out successfully",
	})
}

// listUsers returns usernames; the full records only for admins
func (r *Router) listUsers(w http.ResponseWriter, req *http.Request) {
	if identity(req).IsAdmin() {
		list, err := r.Users.List(req.Context())
		if err != nil {
			respondErr(w, err)
			return
		}
		respondJSON(w, http.StatusOK, list)
		return
	}
	names, err := r.Users.Usernames(req.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, names)
}

func (r *Router) deleteUser(w http.ResponseWriter, req *http.Request) {
	username := muxVar(req, "username")
	if username == identity(req).Username {
		respondError(w, http.StatusBadRequest, "Cannot delete your own account")
		return
	}
	if err := r.Users.Delete(req.Context(), username); err != nil {
		respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
