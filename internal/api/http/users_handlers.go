package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/cognitrack/internal/directory"
)

// POST /api/users
func CreateUserHandler(store directory.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in directory.UserInput
		if err := decodeAndValidate(r, &in); err != nil {
			writeValidation(w, err)
			return
		}
		u, err := store.CreateUser(r.Context(), in)
		if err != nil {
			if errors.Is(err, directory.ErrDuplicate) {
				writeMessage(w, http.StatusConflict, "Username already taken")
				return
			}
			slog.ErrorContext(r.Context(), "create user failed", "err", err)
			writeMessage(w, http.StatusInternalServerError, "Failed to create user")
			return
		}
		writeJSON(w, http.StatusCreated, u)
	}
}

// GET /api/users/{userID}
func GetUserHandler(store directory.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := store.GetUser(r.Context(), chi.URLParam(r, "userID"))
		if err != nil {
			if errors.Is(err, directory.ErrNotFound) {
				writeMessage(w, http.StatusNotFound, "User not found")
				return
			}
			slog.ErrorContext(r.Context(), "fetch user failed", "err", err)
			writeMessage(w, http.StatusInternalServerError, "Failed to fetch user")
			return
		}
		writeJSON(w, http.StatusOK, u)
	}
}
