package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/AlCa38/habitica/internal/app/system/auth"
	"github.com/AlCa38/habitica/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlayerUser returns a signed-in user without admin rights.
func PlayerUser() *models.User {
	return &models.User{
		ID:       primitive.NewObjectID(),
		Username: "test-player",
		Status:   "active",
	}
}

// AdminUser returns a signed-in contributor admin.
func AdminUser() *models.User {
	return &models.User{
		ID:          primitive.NewObjectID(),
		Username:    "test-admin",
		Status:      "active",
		Contributor: models.Contributor{Admin: true},
	}
}

// WithUser adds a user to the request context for testing authenticated handlers.
// This bypasses the auth middleware and injects the user directly.
func WithUser(r *http.Request, user *models.User) *http.Request {
	return auth.WithTestUser(r, user)
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewJSONRequest creates a request whose body is v encoded as JSON.
// A string v is sent verbatim.
func NewJSONRequest(method, target string, v any) *http.Request {
	var body []byte
	switch b := v.(type) {
	case string:
		body = []byte(b)
	case nil:
	default:
		var err error
		body, err = json.Marshal(b)
		if err != nil {
			panic(err)
		}
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d (body: %s)", r.Code, expected, r.Body.String())
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("response body does not contain %q: %s", expected, r.Body.String())
	}
}

// Envelope is the decoded form of every JSON response.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
	Errors  []struct {
		Param   string `json:"param"`
		Message string `json:"message"`
	} `json:"errors"`
}

// DecodeEnvelope decodes the response body, failing the test on bad JSON.
func (r *ResponseRecorder) DecodeEnvelope(t interface {
	Fatalf(string, ...any)
	Helper()
}) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(r.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, r.Body.String())
	}
	return env
}
