package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/cognitrack/internal/directory"
)

// GET /api/classrooms?q=
func ListClassroomsHandler(store directory.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListClassrooms(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "list classrooms failed", "err", err)
			writeMessage(w, http.StatusInternalServerError, "Failed to fetch classrooms")
			return
		}
		q := r.URL.Query().Get("q")
		out := make([]directory.Classroom, 0, len(list))
		for _, c := range list {
			if c.Matches(q) {
				out = append(out, c)
			}
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// GET /api/classrooms/{classroomID}
func GetClassroomHandler(store directory.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := store.GetClassroom(r.Context(), chi.URLParam(r, "classroomID"))
		if err != nil {
			if errors.Is(err, directory.ErrNotFound) {
				writeMessage(w, http.StatusNotFound, "Classroom not found")
				return
			}
			slog.ErrorContext(r.Context(), "fetch classroom failed", "err", err)
			writeMessage(w, http.StatusInternalServerError, "Failed to fetch classroom")
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

// POST /api/classrooms
func CreateClassroomHandler(store directory.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in directory.ClassroomInput
		if err := decodeAndValidate(r, &in); err != nil {
			writeValidation(w, err)
			return
		}
		c, err := store.CreateClassroom(r.Context(), in)
		if err != nil {
			if errors.Is(err, directory.ErrDuplicate) {
				writeMessage(w, http.StatusConflict, "Classroom already exists")
				return
			}
			slog.ErrorContext(r.Context(), "create classroom failed", "err", err)
			writeMessage(w, http.StatusInternalServerError, "Failed to create classroom")
			return
		}
		writeJSON(w, http.StatusCreated, c)
	}
}
