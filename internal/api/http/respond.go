package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/mind-engage/cognitrack/internal/validation"
)

const maxBodyBytes = 1 << 20

type messageResponse struct {
	Message string `json:"message"`
}

type validationResponse struct {
	Message string             `json:"message"`
	Errors  []validation.Issue `json:"errors"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

// writeValidation renders err as 400 {message, errors}.
func writeValidation(w http.ResponseWriter, err error) {
	issues := validation.Issues(err)
	if issues == nil {
		issues = []validation.Issue{}
	}
	writeJSON(w, http.StatusBadRequest, validationResponse{Message: "Validation error", Errors: issues})
}

// decodeJSON reads exactly one JSON value from the body. Malformed bodies come back
// as a validation error so they share the 400 envelope.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		msg := "malformed JSON"
		var te *json.UnmarshalTypeError
		if errors.As(err, &te) {
			field := te.Field
			if field == "" {
				field = "body"
			}
			return validation.New(validation.Issue{
				Field:   field,
				Rule:    "type",
				Message: fmt.Sprintf("must be %s", te.Type.String()),
			})
		}
		if errors.Is(err, io.EOF) {
			msg = "request body is empty"
		}
		return validation.New(validation.Issue{Field: "body", Rule: "json", Message: msg})
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return validation.New(validation.Issue{Field: "body", Rule: "json", Message: "unexpected content after JSON value"})
	}
	return nil
}

// decodeAndValidate decodes the body into dst and checks its validate tags.
func decodeAndValidate(r *http.Request, dst any) error {
	if err := decodeJSON(r, dst); err != nil {
		return err
	}
	return validation.Struct(dst)
}
