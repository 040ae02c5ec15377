// Package httpjson writes JSON responses and maps apperr failures to HTTP
// status codes.
package httpjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dalemusser/workhub/internal/app/system/apperr"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// MaxBodyBytes caps request bodies read by Decode.
const MaxBodyBytes = 1 << 20

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Write encodes v with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes v with 200.
func OK(w http.ResponseWriter, v any) { Write(w, http.StatusOK, v) }

// Created writes v with 201.
func Created(w http.ResponseWriter, v any) { Write(w, http.StatusCreated, v) }

// NoContent writes 204.
func NoContent(w http.ResponseWriter) { w.WriteHeader(http.StatusNoContent) }

// Status classifies err into an HTTP status and a short machine code.
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, apperr.ErrPartialCreate):
		return http.StatusInternalServerError, "partial_create"
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, apperr.ErrDuplicateName):
		return http.StatusConflict, "duplicate_name"
	case errors.Is(err, apperr.ErrDuplicateEmail):
		return http.StatusConflict, "duplicate_email"
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest, "validation"
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	default:
		return http.StatusInternalServerError, "backend"
	}
}

// Error writes err using Status. Backend failures are logged and their
// details are not exposed to the client.
func Error(w http.ResponseWriter, log *zap.Logger, err error) {
	status, code := Status(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		if log != nil {
			log.Error("request failed", zap.String("code", code), zap.Error(err))
		}
		if code == "backend" {
			msg = "internal error"
		}
	}
	Write(w, status, ErrorBody{Error: msg, Code: code})
}

// Invalid writes a 400 with per-field messages.
func Invalid(w http.ResponseWriter, msg string, fields map[string]string) {
	Write(w, http.StatusBadRequest, ErrorBody{Error: msg, Code: "validation", Fields: fields})
}

// Decode reads a JSON body into dst. Unknown fields are rejected. The
// returned error wraps apperr.ErrValidation.
func Decode(r *http.Request, dst any) error {
	if r.Body == nil {
		return apperr.Invalid("empty body")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Invalid("empty body")
		}
		return apperr.Invalid(fmt.Sprintf("malformed JSON: %v", err))
	}
	return nil
}

// IDParam parses the chi URL parameter name as an ObjectID.
func IDParam(r *http.Request, name string) (primitive.ObjectID, error) {
	raw := chi.URLParam(r, name)
	oid, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apperr.Invalid(fmt.Sprintf("bad %s %q", name, raw))
	}
	return oid, nil
}

// ParseIDs parses hex ids from a request body. Any malformed id fails the
// whole list.
func ParseIDs(field string, raw []string) ([]primitive.ObjectID, error) {
	out := make([]primitive.ObjectID, 0, len(raw))
	for _, h := range raw {
		oid, err := primitive.ObjectIDFromHex(h)
		if err != nil {
			return nil, apperr.Invalid(fmt.Sprintf("bad id %q in %s", h, field))
		}
		out = append(out, oid)
	}
	return out, nil
}
