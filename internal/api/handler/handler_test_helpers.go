package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	mw "github.com/seolens/seolens/internal/api/middleware"
	"github.com/seolens/seolens/internal/core"
	"github.com/seolens/seolens/internal/crypto"
	"github.com/seolens/seolens/internal/model"
)

// newRequest creates a new HTTP request with an optional JSON body.
func newRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	r := httptest.NewRequest(method, target, &buf)
	r.Header.Set("Content-Type", "application/json")
	return r
}

// newRequestRaw creates a new HTTP request with a raw string body.
func newRequestRaw(method, target, body string) *http.Request {
	r := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// withChiURLParam adds a chi URL parameter to the request context.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// decodeErrorResponse parses the JSON error response body into a map.
func decodeErrorResponse(rec *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	return body
}

// withSession injects an OAuth session into the request context, the way the
// session middleware would.
func withSession(r *http.Request, data *model.OAuthData) *http.Request {
	return r.WithContext(mw.WithSession(r.Context(), data))
}

// newTestSessionStore builds a session store with a fresh key and the secure
// flag off so cookies round-trip over plain HTTP in tests.
func newTestSessionStore(t *testing.T) *core.SessionStore {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return core.NewSessionStore(key, false)
}

// responseCookie finds a cookie set on the recorder by name.
func responseCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func authedSession() *model.OAuthData {
	return &model.OAuthData{
		Profile:  model.Profile{Sub: "sub-1", Email: "user@example.com", Name: "Test User"},
		Tokens:   model.Tokens{AccessToken: "access-token"},
		TenantID: "tenant-1",
		UserID:   "user-1",
		SiteID:   "site-1",
	}
}
