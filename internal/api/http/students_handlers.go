package http

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/cognitrack/internal/directory"
	"github.com/mind-engage/cognitrack/internal/validation"
)

// GET /api/students
func ListStudentsHandler(store directory.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListStudents(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "list students failed", "err", err)
			writeMessage(w, http.StatusInternalServerError, "Failed to fetch students")
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// GET /api/students/{studentID}
func GetStudentHandler(store directory.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := store.GetStudent(r.Context(), chi.URLParam(r, "studentID"))
		if err != nil {
			if errors.Is(err, directory.ErrNotFound) {
				writeMessage(w, http.StatusNotFound, "Student not found")
				return
			}
			slog.ErrorContext(r.Context(), "fetch student failed", "err", err)
			writeMessage(w, http.StatusInternalServerError, "Failed to fetch student")
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

// POST /api/students
func CreateStudentHandler(store directory.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in directory.StudentInput
		if err := decodeAndValidate(r, &in); err != nil {
			writeValidation(w, err)
			return
		}
		st, err := store.CreateStudent(r.Context(), in)
		if err != nil {
			slog.ErrorContext(r.Context(), "create student failed", "err", err)
			writeMessage(w, http.StatusInternalServerError, "Failed to create student")
			return
		}
		writeJSON(w, http.StatusCreated, st)
	}
}

// POST /api/students/bulk
// Accepts a JSON array or a multipart "file" holding CSV
// (name,email,grade[,classroomId][,avatarUrl]). Nothing is stored unless every row is valid.
func BulkCreateStudentsHandler(store directory.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rows []directory.StudentInput
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
			if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
				var tooBig *http.MaxBytesError
				if errors.As(err, &tooBig) {
					writeValidation(w, validation.New(validation.Issue{Field: "file", Rule: "max", Message: "upload exceeds 1 MiB"}))
					return
				}
			}
			f, _, err := r.FormFile("file")
			if err != nil {
				writeValidation(w, validation.New(validation.Issue{Field: "file", Rule: "required", Message: "is required"}))
				return
			}
			defer f.Close()
			rows, err = parseStudentsCSV(f)
			if err != nil {
				writeValidation(w, validation.New(validation.Issue{Field: "file", Rule: "csv", Message: err.Error()}))
				return
			}
		} else if err := decodeJSON(r, &rows); err != nil {
			writeValidation(w, err)
			return
		}

		if len(rows) == 0 {
			writeValidation(w, validation.New(validation.Issue{Field: "body", Rule: "min", Message: "at least one student is required"}))
			return
		}
		var issues []validation.Issue
		for i := range rows {
			for _, is := range validation.Issues(validation.Struct(&rows[i])) {
				is.Field = fmt.Sprintf("[%d].%s", i, is.Field)
				issues = append(issues, is)
			}
		}
		if len(issues) > 0 {
			writeValidation(w, validation.New(issues...))
			return
		}

		out, err := store.CreateStudents(r.Context(), rows)
		if err != nil {
			slog.ErrorContext(r.Context(), "bulk create students failed", "err", err)
			writeMessage(w, http.StatusInternalServerError, "Failed to create students")
			return
		}
		writeJSON(w, http.StatusCreated, out)
	}
}

func parseStudentsCSV(r io.Reader) ([]directory.StudentInput, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	hdr, err := cr.Read()
	if err != nil {
		return nil, err
	}
	idx := map[string]int{}
	for i, h := range hdr {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, k := range []string{"name", "email", "grade"} {
		if _, ok := idx[k]; !ok {
			return nil, errors.New("missing column: " + k)
		}
	}
	col := func(rec []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	optional := func(v string) *string {
		if v == "" {
			return nil
		}
		return &v
	}

	var rows []directory.StudentInput
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, directory.StudentInput{
			Name:        col(rec, "name"),
			Email:       col(rec, "email"),
			Grade:       col(rec, "grade"),
			ClassroomID: optional(col(rec, "classroomid")),
			AvatarURL:   optional(col(rec, "avatarurl")),
		})
	}
	return rows, nil
}
