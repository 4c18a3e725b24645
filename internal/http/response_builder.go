// Package http exposes the cost service as a JSON API.
//
// This file implements the builder used by every handler to write JSON
// responses with consistent headers and error bodies.

package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"costs/internal/core"
	"costs/internal/currency"
	applog "costs/internal/log"
	"costs/internal/storage"
)

// JSONResponseBuilder provides a fluent API for building JSON responses.
type JSONResponseBuilder struct {
	statusCode int
	body       any
	headers    map[string]string
}

// NewJSONResponse creates a new response builder with default 200 status.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

// Header adds a custom header to the response.
func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

// Body sets the value encoded as the response body.
func (b *JSONResponseBuilder) Body(v any) *JSONResponseBuilder {
	b.body = v
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	if b.body != nil {
		_ = json.NewEncoder(w).Encode(b.body)
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// ErrorResponse creates a standard {"error": message} response.
func ErrorResponse(statusCode int, message string) *JSONResponseBuilder {
	return NewJSONResponse().Status(statusCode).Body(errorBody{Error: message})
}

// BadRequestError creates a 400 Bad Request error response.
func BadRequestError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

// UnprocessableEntityError creates a 422 Unprocessable Entity error response.
func UnprocessableEntityError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusUnprocessableEntity, message)
}

// InternalServerError creates a 500 Internal Server Error response.
func InternalServerError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}

// badRequest marks a request that could not be decoded.
type badRequest struct {
	msg string
}

func (e *badRequest) Error() string { return e.msg }

// writeError maps service errors onto status codes. Server-side failures
// are logged and reported without internal detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		bad  *badRequest
		verr *core.ValidationError
		nerr *currency.NetworkError
		serr *storage.Error
	)
	logger := applog.FromContext(r.Context())
	switch {
	case errors.As(err, &bad):
		BadRequestError(bad.msg).Write(w)
	case errors.As(err, &verr):
		UnprocessableEntityError(verr.Error()).Write(w)
	case errors.Is(err, storage.ErrNotFound):
		ErrorResponse(http.StatusNotFound, err.Error()).Write(w)
	case errors.As(err, &nerr):
		logger.WarnContext(r.Context(), "Exchange rate source unavailable", applog.FieldError, err)
		ErrorResponse(http.StatusBadGateway, "exchange rate source unavailable").Write(w)
	case errors.As(err, &serr):
		logger.ErrorContext(r.Context(), "Storage failure", applog.FieldError, err, "op", serr.Op)
		InternalServerError("storage error").Write(w)
	default:
		logger.Log(r.Context(), slog.LevelError, "Request failed", applog.FieldError, err)
		InternalServerError("internal error").Write(w)
	}
}
