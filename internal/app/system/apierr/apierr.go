// Package apierr defines the errors handlers return to API callers and how
// each kind maps to an HTTP status.
//
// Handlers build an *Error for anything the caller did wrong. Anything else
// (store failures, bugs) is reported as Internal and its details stay in the
// logs.
package apierr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// Kinds. These are the values of the "error" field in the JSON body.
const (
	KindValidationFailed = "ValidationFailed"
	KindBadRequest       = "BadRequest"
	KindNotAuthorized    = "NotAuthorized"
	KindForbidden        = "Forbidden"
	KindNotFound         = "NotFound"
	KindTooManyRequests  = "TooManyRequests"
	KindInternal         = "InternalServerError"
)

// Message keys for errors that carry a stable, translatable message.
const (
	KeyPostIDRequired   = "postIdRequired"
	KeyNewsPostNotFound = "newsPostNotFound"
	KeyMissingAuth      = "missingAuthHeaders"
	KeyInvalidCreds     = "invalidCredentials"
	KeyNoAdminAccess    = "noAdminAccess"
	KeyTooManyAttempts  = "tooManyAuthAttempts"
)

var messages = map[string]string{
	KeyPostIDRequired:   "postId is required.",
	KeyNewsPostNotFound: "News post not found.",
	KeyMissingAuth:      "Missing authentication headers.",
	KeyInvalidCreds:     "There is no account that uses those credentials.",
	KeyNoAdminAccess:    "You don't have admin access.",
	KeyTooManyAttempts:  "Too many failed authentication attempts. Please wait a few minutes.",
}

// Message returns the English text for a message key, or the key itself.
func Message(key string) string {
	if m, ok := messages[key]; ok {
		return m
	}
	return key
}

// FieldError describes one invalid request parameter.
type FieldError struct {
	Param   string `json:"param"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

// Error is an API error with its HTTP status.
type Error struct {
	Status  int
	Kind    string
	Key     string
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return e.Kind + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// response is the JSON body written for an Error.
type response struct {
	Success bool         `json:"success"`
	Kind    string       `json:"error"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// Render implements render.Renderer by setting the response status.
func (r *response) Render(w http.ResponseWriter, req *http.Request) error {
	return nil
}

// Renderer returns the render payload for e and records its status on req.
func (e *Error) Renderer(req *http.Request) render.Renderer {
	render.Status(req, e.Status)
	return &response{
		Success: false,
		Kind:    e.Kind,
		Message: e.Message,
		Errors:  e.Fields,
	}
}

func newKeyed(status int, kind, key string) *Error {
	return &Error{Status: status, Kind: kind, Key: key, Message: Message(key)}
}

// ValidationFailed reports invalid request parameters.
func ValidationFailed(fields ...FieldError) *Error {
	return &Error{
		Status:  http.StatusBadRequest,
		Kind:    KindValidationFailed,
		Message: "Invalid request parameters.",
		Fields:  fields,
	}
}

// PostIDRequired reports a missing or empty postId path parameter.
func PostIDRequired() *Error {
	e := ValidationFailed(FieldError{Param: "postId", Message: Message(KeyPostIDRequired)})
	e.Key = KeyPostIDRequired
	return e
}

// NewsPostNotFound reports that no post matches the requested id.
func NewsPostNotFound() *Error {
	return newKeyed(http.StatusNotFound, KindNotFound, KeyNewsPostNotFound)
}

// NotAuthorized reports missing or invalid credentials.
func NotAuthorized(key string) *Error {
	return newKeyed(http.StatusUnauthorized, KindNotAuthorized, key)
}

// Forbidden reports a signed-in caller without the required access.
func Forbidden(key string) *Error {
	return newKeyed(http.StatusForbidden, KindForbidden, key)
}

// BadRequest reports a body that could not be decoded.
func BadRequest(err error) *Error {
	return &Error{
		Status:  http.StatusBadRequest,
		Kind:    KindBadRequest,
		Message: "Request body could not be parsed.",
		Err:     err,
	}
}

// TooManyRequests is returned when a caller has exhausted a rate limit.
func TooManyRequests(key string) *Error {
	return newKeyed(http.StatusTooManyRequests, KindTooManyRequests, key)
}

// Internal wraps an unexpected failure. The message never includes err.
func Internal(err error) *Error {
	return &Error{
		Status:  http.StatusInternalServerError,
		Kind:    KindInternal,
		Message: "An unexpected error occurred.",
		Err:     err,
	}
}

// From returns err as an *Error, treating anything unrecognized as Internal.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}
