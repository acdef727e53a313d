package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/player-rating/internal/usecase"
)

const (
	apiVersion  = "2.0"
	errorDomain = "player-rating"
)

// envelope follows the Google JSON style guide: exactly one of data or error.
type envelope struct {
	APIVersion string    `json:"apiVersion"`
	Data       any       `json:"data,omitempty"`
	Error      *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Status  string         `json:"status"`
	Errors  []apiErrorItem `json:"errors,omitempty"`
}

type apiErrorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type errorClass struct {
	target error
	code   int
	reason string
	status string
}

// errorClasses is matched in order with errors.Is; unmatched errors are 500.
var errorClasses = []errorClass{
	{usecase.ErrInvalidInput, http.StatusBadRequest, "invalidInput", "INVALID_ARGUMENT"},
	{usecase.ErrNotFound, http.StatusNotFound, "notFound", "NOT_FOUND"},
	{usecase.ErrUnauthorized, http.StatusUnauthorized, "unauthorized", "UNAUTHENTICATED"},
	{usecase.ErrConflict, http.StatusConflict, "conflict", "ALREADY_EXISTS"},
	{usecase.ErrDependencyUnavailable, http.StatusServiceUnavailable, "dependencyUnavailable", "UNAVAILABLE"},
}

var internalClass = errorClass{code: http.StatusInternalServerError, reason: "internalError", status: "INTERNAL"}

func classify(err error) errorClass {
	for _, c := range errorClasses {
		if errors.Is(err, c.target) {
			return c
		}
	}
	return internalClass
}

func writeJSON(w http.ResponseWriter, code int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter, code int, data any) {
	writeJSON(w, code, envelope{APIVersion: apiVersion, Data: data})
}

// writeError renders err with its mapped status. Internal errors are recorded
// on the active span and replaced by a generic message.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	class := classify(err)
	if class.code == http.StatusInternalServerError {
		span := trace.SpanFromContext(ctx)
		span.RecordError(err)
		span.SetStatus(codes.Error, "internal error")
		writeInternalError(w)
		return
	}
	writeJSON(w, class.code, errorEnvelope(class, err.Error()))
}

func writeInternalError(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, errorEnvelope(internalClass, "internal server error"))
}

func errorEnvelope(class errorClass, msg string) envelope {
	return envelope{
		APIVersion: apiVersion,
		Error: &apiError{
			Code:    class.code,
			Message: msg,
			Status:  class.status,
			Errors:  []apiErrorItem{{Domain: errorDomain, Reason: class.reason, Message: msg}},
		},
	}
}
