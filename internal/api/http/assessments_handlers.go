package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/cognitrack/internal/directory"
	"github.com/mind-engage/cognitrack/internal/quiz"
	"github.com/mind-engage/cognitrack/internal/validation"
)

func includeAnswers(r *http.Request) bool {
	return r.URL.Query().Get("include") == "answers"
}

// GET /api/assessments
func ListAssessmentsHandler(store directory.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListAssessments(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "list assessments failed", "err", err)
			writeMessage(w, http.StatusInternalServerError, "Failed to fetch assessments")
			return
		}
		if !includeAnswers(r) {
			for i := range list {
				list[i] = list[i].StudentView()
			}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// GET /api/assessments/{assessmentID}[?include=answers]
func GetAssessmentHandler(store directory.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := store.GetAssessment(r.Context(), chi.URLParam(r, "assessmentID"))
		if err != nil {
			if errors.Is(err, directory.ErrNotFound) {
				writeMessage(w, http.StatusNotFound, "Assessment not found")
				return
			}
			slog.ErrorContext(r.Context(), "fetch assessment failed", "err", err)
			writeMessage(w, http.StatusInternalServerError, "Failed to fetch assessment")
			return
		}
		if !includeAnswers(r) {
			a = a.StudentView()
		}
		writeJSON(w, http.StatusOK, a)
	}
}

// POST /api/assessments
func CreateAssessmentHandler(store directory.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in directory.AssessmentInput
		if err := decodeAndValidate(r, &in); err != nil {
			writeValidation(w, err)
			return
		}
		if _, err := quiz.NewBank(in.ID, in.Questions); err != nil {
			writeValidation(w, validation.New(validation.Issue{Field: "questions", Rule: "bank", Message: err.Error()}))
			return
		}
		a, err := store.CreateAssessment(r.Context(), in)
		if err != nil {
			if errors.Is(err, directory.ErrDuplicate) {
				writeMessage(w, http.StatusConflict, "Assessment already exists")
				return
			}
			slog.ErrorContext(r.Context(), "create assessment failed", "err", err)
			writeMessage(w, http.StatusInternalServerError, "Failed to create assessment")
			return
		}
		writeJSON(w, http.StatusCreated, a)
	}
}
