package core

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seolens/seolens/internal/model"
)

func newTestOAuthService() *OAuthService {
	return NewOAuthService("client-id", "client-secret", "https://app.example.com")
}

// ---------- BeginAuthorization ----------

func TestOAuthService_BeginAuthorization(t *testing.T) {
	svc := newTestOAuthService()
	r := httptest.NewRequest(http.MethodGet, "/auth/start", nil)

	intent, err := svc.BeginAuthorization(r, "tenant-1")
	require.NoError(t, err)
	require.NotNil(t, intent)

	assert.Equal(t, "https://app.example.com/auth/callback", intent.RedirectURI)
	assert.Equal(t, "tenant-1", intent.Session.TenantID)
	assert.Equal(t, intent.RedirectURI, intent.Session.RedirectURI)
	assert.Len(t, intent.Session.CodeVerifier, DefaultCodeVerifierLength)
	assert.NotEmpty(t, intent.Session.State)

	u, err := url.Parse(intent.AuthURL)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "S256", q.Get("code_challenge_method"))
	assert.Equal(t, GenerateCodeChallenge(intent.Session.CodeVerifier), q.Get("code_challenge"))
	assert.Equal(t, intent.Session.State, q.Get("state"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "consent", q.Get("prompt"))
	assert.Contains(t, q.Get("scope"), "analytics.readonly")
	assert.Contains(t, q.Get("scope"), "webmasters.readonly")
}

func TestOAuthService_BeginAuthorization_MissingClientID(t *testing.T) {
	svc := NewOAuthService("", "secret", "")
	r := httptest.NewRequest(http.MethodGet, "/auth/start", nil)

	_, err := svc.BeginAuthorization(r, "tenant-1")
	require.Error(t, err)

	var cerr *ConfigurationError
	assert.ErrorAs(t, err, &cerr)
}

func TestOAuthService_ResolveBaseURL(t *testing.T) {
	t.Run("configured wins", func(t *testing.T) {
		svc := newTestOAuthService()
		r := httptest.NewRequest(http.MethodGet, "http://other.example.com/", nil)
		assert.Equal(t, "https://app.example.com", svc.resolveBaseURL(r))
	})

	t.Run("request host with forwarded proto", func(t *testing.T) {
		svc := NewOAuthService("id", "secret", "")
		r := httptest.NewRequest(http.MethodGet, "http://api.example.com/", nil)
		r.Header.Set("X-Forwarded-Proto", "https")
		assert.Equal(t, "https://api.example.com", svc.resolveBaseURL(r))
	})

	t.Run("request host plain http", func(t *testing.T) {
		svc := NewOAuthService("id", "secret", "")
		r := httptest.NewRequest(http.MethodGet, "http://api.example.com/", nil)
		assert.Equal(t, "http://api.example.com", svc.resolveBaseURL(r))
	})

	t.Run("local fallback", func(t *testing.T) {
		svc := NewOAuthService("id", "secret", "")
		assert.Equal(t, localBaseURL, svc.resolveBaseURL(nil))
	})
}

// ---------- ValidateState ----------

func TestOAuthService_ValidateState(t *testing.T) {
	svc := newTestOAuthService()
	sess := &model.PKCESession{State: "expected-state"}

	require.NoError(t, svc.ValidateState("expected-state", sess))

	err := svc.ValidateState("tampered-state", sess)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, ErrCodeInvalidState, verr.Code)
}

// ---------- ExchangeCode ----------

func TestOAuthService_ExchangeCode(t *testing.T) {
	var gotForm url.Values
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm
		json.NewEncoder(w).Encode(TokenResponse{
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
			ExpiresIn:    3600,
			TokenType:    "Bearer",
		})
	}))
	defer ts.Close()

	svc := newTestOAuthService()
	svc.tokenURL = ts.URL

	tok, err := svc.ExchangeCode(context.Background(), "auth-code", "verifier", "https://app.example.com/auth/callback")
	require.NoError(t, err)
	assert.Equal(t, "access-1", tok.AccessToken)
	assert.Equal(t, "refresh-1", tok.RefreshToken)

	assert.Equal(t, "authorization_code", gotForm.Get("grant_type"))
	assert.Equal(t, "auth-code", gotForm.Get("code"))
	assert.Equal(t, "verifier", gotForm.Get("code_verifier"))
	assert.Equal(t, "https://app.example.com/auth/callback", gotForm.Get("redirect_uri"))
	assert.Equal(t, "client-id", gotForm.Get("client_id"))
	assert.Equal(t, "client-secret", gotForm.Get("client_secret"))
}

func TestOAuthService_ExchangeCode_ProviderError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer ts.Close()

	svc := newTestOAuthService()
	svc.tokenURL = ts.URL

	_, err := svc.ExchangeCode(context.Background(), "bad-code", "verifier", "uri")
	require.Error(t, err)

	var uerr *UpstreamError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, http.StatusBadRequest, uerr.Status)
	assert.Contains(t, uerr.Body, "invalid_grant")
}

func TestOAuthService_ExchangeCode_EmptyAccessToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(TokenResponse{})
	}))
	defer ts.Close()

	svc := newTestOAuthService()
	svc.tokenURL = ts.URL

	_, err := svc.ExchangeCode(context.Background(), "code", "verifier", "uri")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty access token")
}

func TestOAuthService_ExchangeCode_MissingCredentials(t *testing.T) {
	svc := NewOAuthService("", "", "")
	_, err := svc.ExchangeCode(context.Background(), "code", "verifier", "uri")
	require.Error(t, err)

	var cerr *ConfigurationError
	assert.ErrorAs(t, err, &cerr)
}

// ---------- Refresh ----------

func TestOAuthService_Refresh(t *testing.T) {
	var gotForm url.Values
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm
		json.NewEncoder(w).Encode(TokenResponse{AccessToken: "access-2", ExpiresIn: 3600})
	}))
	defer ts.Close()

	svc := newTestOAuthService()
	svc.tokenURL = ts.URL

	tok, err := svc.Refresh(context.Background(), "refresh-1")
	require.NoError(t, err)
	assert.Equal(t, "access-2", tok.AccessToken)
	assert.Empty(t, tok.RefreshToken)

	assert.Equal(t, "refresh_token", gotForm.Get("grant_type"))
	assert.Equal(t, "refresh-1", gotForm.Get("refresh_token"))
}

// ---------- TokenResponse ----------

func TestTokenResponse_Tokens(t *testing.T) {
	tr := &TokenResponse{
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresIn:    3600,
		TokenType:    "Bearer",
		Scope:        "openid",
	}

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tok := tr.Tokens(at)
	assert.Equal(t, "access", tok.AccessToken)
	assert.Equal(t, at.Add(time.Hour), tok.ExpiresAt)
	assert.Equal(t, int64(3600), tok.ExpiresIn)
}

// ---------- FetchProfile ----------

func TestOAuthService_FetchProfile(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]string{
			"sub":     "sub-1",
			"email":   "user@example.com",
			"name":    "User",
			"picture": "https://example.com/p.png",
		})
	}))
	defer ts.Close()

	svc := newTestOAuthService()
	svc.userInfoURL = ts.URL

	profile, err := svc.FetchProfile(context.Background(), "access-1")
	require.NoError(t, err)
	assert.Equal(t, "sub-1", profile.Sub)
	assert.Equal(t, "user@example.com", profile.Email)
}

func TestOAuthService_FetchProfile_V2IDField(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"id": "legacy-id", "email": "user@example.com"})
	}))
	defer ts.Close()

	svc := newTestOAuthService()
	svc.userInfoURL = ts.URL

	profile, err := svc.FetchProfile(context.Background(), "access-1")
	require.NoError(t, err)
	assert.Equal(t, "legacy-id", profile.Sub)
}

func TestOAuthService_FetchProfile_MissingSubject(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"email": "user@example.com"})
	}))
	defer ts.Close()

	svc := newTestOAuthService()
	svc.userInfoURL = ts.URL

	_, err := svc.FetchProfile(context.Background(), "access-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing subject")
}

func TestOAuthService_FetchProfile_Unauthorized(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	svc := newTestOAuthService()
	svc.userInfoURL = ts.URL

	_, err := svc.FetchProfile(context.Background(), "stale-token")
	require.Error(t, err)

	var uerr *UpstreamError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, http.StatusUnauthorized, uerr.Status)
}
