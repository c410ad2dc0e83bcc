package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTenantHandler() *Tenant {
	return NewTenant(nil)
}

func TestTenantCreate_InvalidJSON(t *testing.T) {
	h := newTenantHandler()
	rec := httptest.NewRecorder()
	r := newRequestRaw(http.MethodPost, "/tenants", "{bad json")

	h.Create(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decodeErrorResponse(rec)
	assert.Contains(t, body["error"], "invalid JSON")
}

func TestTenantCreate_MissingName(t *testing.T) {
	h := newTenantHandler()
	rec := httptest.NewRecorder()
	r := newRequest(http.MethodPost, "/tenants", map[string]any{})

	h.Create(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeErrorResponse(rec)
	assert.Contains(t, body["error"], "validation error")
}

func TestTenantCreate_InvalidPlan(t *testing.T) {
	h := newTenantHandler()
	rec := httptest.NewRecorder()
	r := newRequest(http.MethodPost, "/tenants", map[string]any{
		"name": "Acme",
		"plan": "platinum",
	})

	h.Create(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeErrorResponse(rec)
	assert.Contains(t, body["error"], "validation error")
}

func TestTenantCreate_ValidBody(t *testing.T) {
	h := newTenantHandler()
	rec := httptest.NewRecorder()
	r := newRequest(http.MethodPost, "/tenants", map[string]any{
		"name": "Acme",
		"plan": "pro",
	})

	func() {
		defer func() { recover() }()
		h.Create(rec, r)
	}()

	assert.NotEqual(t, http.StatusBadRequest, rec.Code)
}
