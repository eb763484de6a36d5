package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"memopad/auth"
	"memopad/models"
	"memopad/token"
)

// UserStore is the credential lookup the login handler needs.
type UserStore interface {
	ByEmail(ctx context.Context, email string) (*models.User, error)
}

type AuthHandler struct {
	Users    UserStore
	Verifier auth.PasswordVerifier
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login checks the credentials against the user store and hands out a
// bearer token. Failure bodies are bare {"message":...} objects, unlike
// the enveloped note responses.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	json.NewDecoder(r.Body).Decode(&req)

	if req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Email and password required"})
		return
	}

	user, err := h.Users.ByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
			return
		}
		log.Printf("Login - user lookup failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": err.Error()})
		return
	}

	if err := h.Verifier.Verify(user.Password, req.Password); err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
		return
	}

	signed, err := token.Issue(user.ID, user.Email)
	if err != nil {
		log.Printf("Login - token signing failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": err.Error()})
		return
	}

	respondData(w, http.StatusOK, map[string]string{"token": signed})
}
