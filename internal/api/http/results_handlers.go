package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/cognitrack/internal/results"
	"github.com/mind-engage/cognitrack/internal/scoring"
	"github.com/mind-engage/cognitrack/internal/validation"
)

// pointers distinguish a missing field from a zero value
type submitResultReq struct {
	AssessmentID   string  `json:"assessmentId" validate:"required"`
	StudentID      string  `json:"studentId" validate:"required"`
	Answers        *string `json:"answers" validate:"required,json"`
	Score          *int    `json:"score" validate:"required,gte=0,lte=1000"`
	TotalQuestions *int    `json:"totalQuestions" validate:"required,gte=1,lte=1000"`
}

// POST /api/assessment-results
func SubmitResultHandler(svc *results.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitResultReq
		if err := decodeAndValidate(r, &req); err != nil {
			writeValidation(w, err)
			return
		}
		res, err := svc.Submit(r.Context(), results.Input{
			AssessmentID:   req.AssessmentID,
			StudentID:      req.StudentID,
			Answers:        *req.Answers,
			Score:          *req.Score,
			TotalQuestions: *req.TotalQuestions,
		})
		if err != nil {
			if errors.Is(err, validation.ErrInvalid) {
				writeValidation(w, err)
				return
			}
			slog.ErrorContext(r.Context(), "submit assessment failed", "err", err)
			writeMessage(w, http.StatusInternalServerError, "Failed to submit assessment")
			return
		}
		writeJSON(w, http.StatusCreated, res)
	}
}

// GET /api/assessment-results/{assessmentID}/{studentID}
func GetResultHandler(svc *results.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		aid := strings.TrimSpace(chi.URLParam(r, "assessmentID"))
		sid := strings.TrimSpace(chi.URLParam(r, "studentID"))
		res, err := svc.Latest(r.Context(), aid, sid)
		if err != nil {
			if errors.Is(err, results.ErrNotFound) {
				writeMessage(w, http.StatusNotFound, "Result not found")
				return
			}
			slog.ErrorContext(r.Context(), "fetch result failed", "err", err)
			writeMessage(w, http.StatusInternalServerError, "Failed to fetch result")
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

type reviewResp struct {
	Result     results.Result       `json:"result"`
	Percentage int                  `json:"percentage"`
	Items      []scoring.ReviewItem `json:"items"`
}

// GET /api/assessment-results/{assessmentID}/{studentID}/review
func ReviewResultHandler(svc *results.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		aid := strings.TrimSpace(chi.URLParam(r, "assessmentID"))
		sid := strings.TrimSpace(chi.URLParam(r, "studentID"))
		res, items, err := svc.Review(r.Context(), aid, sid)
		switch {
		case err == nil:
		case errors.Is(err, results.ErrNotFound):
			writeMessage(w, http.StatusNotFound, "Result not found")
			return
		case errors.Is(err, results.ErrBankUnknown):
			writeMessage(w, http.StatusNotFound, "Question bank not found")
			return
		default:
			slog.ErrorContext(r.Context(), "review result failed", "err", err)
			writeMessage(w, http.StatusInternalServerError, "Failed to review result")
			return
		}
		writeJSON(w, http.StatusOK, reviewResp{
			Result:     res,
			Percentage: scoring.Percentage(res.Score, res.TotalQuestions),
			Items:      items,
		})
	}
}

// GET /api/students/{studentID}/results
func ListStudentResultsHandler(svc *results.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := strings.TrimSpace(chi.URLParam(r, "studentID"))
		list, err := svc.ForStudent(r.Context(), sid)
		if err != nil {
			slog.ErrorContext(r.Context(), "list student results failed", "err", err)
			writeMessage(w, http.StatusInternalServerError, "Failed to fetch student results")
			return
		}
		if list == nil {
			list = []results.Result{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}
