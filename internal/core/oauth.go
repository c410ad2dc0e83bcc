package core

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/seolens/seolens/internal/model"
)

// Google endpoints are fixed; this is not a general-purpose OAuth client.
const (
	googleAuthURL     = "https://accounts.google.com/o/oauth2/v2/auth"
	googleTokenURL    = "https://oauth2.googleapis.com/token"
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

	// CallbackPath is appended to the resolved base URL to form the
	// redirect URI. It must match the URI registered with Google.
	CallbackPath = "/auth/callback"

	localBaseURL = "http://localhost:3001"
)

// oauthScopes cover identity plus read-only Analytics and Search Console.
var oauthScopes = []string{
	"openid",
	"profile",
	"email",
	"https://www.googleapis.com/auth/analytics.readonly",
	"https://www.googleapis.com/auth/analytics.manage.users.readonly",
	"https://www.googleapis.com/auth/webmasters.readonly",
}

// OAuthService drives the PKCE authorization-code flow against Google.
type OAuthService struct {
	clientID     string
	clientSecret string
	baseURL      string
	httpClient   *http.Client

	// Endpoint fields default to the Google constants; tests point them at
	// a local server.
	authURL     string
	tokenURL    string
	userInfoURL string
}

func NewOAuthService(clientID, clientSecret, baseURL string) *OAuthService {
	return &OAuthService{
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      baseURL,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
		authURL:      googleAuthURL,
		tokenURL:     googleTokenURL,
		userInfoURL:  googleUserInfoURL,
	}
}

// NewOAuthServiceWithEndpoints builds a service pointed at non-Google
// endpoints. Tests use it to drive the flow against stub servers.
func NewOAuthServiceWithEndpoints(clientID, clientSecret, baseURL, authURL, tokenURL, userInfoURL string) *OAuthService {
	s := NewOAuthService(clientID, clientSecret, baseURL)
	s.authURL = authURL
	s.tokenURL = tokenURL
	s.userInfoURL = userInfoURL
	return s
}

// AuthorizationIntent is the output of BeginAuthorization: the URL the
// client must navigate to, and the PKCE session to persist alongside it.
type AuthorizationIntent struct {
	AuthURL     string
	RedirectURI string
	Session     *model.PKCESession
}

// BeginAuthorization generates the PKCE parameters and builds the Google
// consent URL. The caller persists the session and performs the redirect.
func (s *OAuthService) BeginAuthorization(r *http.Request, tenantID string) (*AuthorizationIntent, error) {
	if s.clientID == "" {
		return nil, &ConfigurationError{Msg: "google client id is not configured"}
	}

	redirectURI := s.resolveBaseURL(r) + CallbackPath

	verifier, err := GenerateCodeVerifier(DefaultCodeVerifierLength)
	if err != nil {
		return nil, err
	}
	challenge := GenerateCodeChallenge(verifier)

	state, err := GenerateState()
	if err != nil {
		return nil, fmt.Errorf("generate state: %w", err)
	}

	// access_type=offline and prompt=consent force Google to issue a fresh
	// refresh token on every run.
	params := url.Values{
		"client_id":             {s.clientID},
		"redirect_uri":          {redirectURI},
		"response_type":         {"code"},
		"scope":                 {strings.Join(oauthScopes, " ")},
		"state":                 {state},
		"code_challenge":        {challenge},
		"code_challenge_method": {"S256"},
		"access_type":           {"offline"},
		"prompt":                {"consent"},
	}

	return &AuthorizationIntent{
		AuthURL:     s.authURL + "?" + params.Encode(),
		RedirectURI: redirectURI,
		Session: &model.PKCESession{
			TenantID:     tenantID,
			RedirectURI:  redirectURI,
			CodeVerifier: verifier,
			State:        state,
			Timestamp:    time.Now(),
		},
	}, nil
}

// ValidateState compares the callback state against the stored session state
// in constant time. A mismatch aborts the flow before any token exchange.
func (s *OAuthService) ValidateState(queryState string, sess *model.PKCESession) error {
	if subtle.ConstantTimeCompare([]byte(queryState), []byte(sess.State)) != 1 {
		return &ValidationError{Code: ErrCodeInvalidState, Msg: "state parameter does not match session"}
	}
	return nil
}

// TokenResponse is the provider token endpoint payload.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
	IDToken      string `json:"id_token"`
}

// Tokens converts the response into the session token record, computing the
// absolute expiry from expires_in.
func (tr *TokenResponse) Tokens(now time.Time) model.Tokens {
	return model.Tokens{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		TokenType:    tr.TokenType,
		Scope:        tr.Scope,
		ExpiresAt:    now.Add(time.Duration(tr.ExpiresIn) * time.Second),
		ExpiresIn:    tr.ExpiresIn,
	}
}

// ExchangeCode exchanges the authorization code for tokens. The redirect URI
// must equal the one used to start the flow.
func (s *OAuthService) ExchangeCode(ctx context.Context, code, codeVerifier, redirectURI string) (*TokenResponse, error) {
	if s.clientID == "" || s.clientSecret == "" {
		return nil, &ConfigurationError{Msg: "google client credentials are not configured"}
	}

	data := url.Values{
		"client_id":     {s.clientID},
		"client_secret": {s.clientSecret},
		"code":          {code},
		"code_verifier": {codeVerifier},
		"grant_type":    {"authorization_code"},
		"redirect_uri":  {redirectURI},
	}

	return s.postToken(ctx, "token exchange", data)
}

// Refresh exchanges a refresh token for a new access token.
func (s *OAuthService) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	if s.clientID == "" || s.clientSecret == "" {
		return nil, &ConfigurationError{Msg: "google client credentials are not configured"}
	}

	data := url.Values{
		"client_id":     {s.clientID},
		"client_secret": {s.clientSecret},
		"refresh_token": {refreshToken},
		"grant_type":    {"refresh_token"},
	}

	return s.postToken(ctx, "token refresh", data)
}

func (s *OAuthService) postToken(ctx context.Context, op string, data url.Values) (*TokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{Op: op, Status: resp.StatusCode, Body: string(body)}
	}

	var tok TokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", op, err)
	}

	if tok.AccessToken == "" {
		return nil, fmt.Errorf("%s returned empty access token", op)
	}

	return &tok, nil
}

// FetchProfile fetches the provider identity with the new access token.
func (s *OAuthService) FetchProfile(ctx context.Context, accessToken string) (*model.Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read userinfo response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{Op: "userinfo", Status: resp.StatusCode, Body: string(body)}
	}

	// The v2 userinfo endpoint reports the subject as "id"; OIDC-style
	// responses use "sub".
	var info struct {
		Sub     string `json:"sub"`
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}

	sub := info.Sub
	if sub == "" {
		sub = info.ID
	}
	if sub == "" {
		return nil, fmt.Errorf("userinfo response missing subject")
	}

	return &model.Profile{Sub: sub, Email: info.Email, Name: info.Name, Picture: info.Picture}, nil
}

// resolveBaseURL prefers the configured base URL, then the inbound request's
// host and forwarded protocol, then the local development default.
func (s *OAuthService) resolveBaseURL(r *http.Request) string {
	if s.baseURL != "" {
		return s.baseURL
	}

	if r != nil && r.Host != "" {
		scheme := "http"
		if fwd := r.Header.Get("X-Forwarded-Proto"); fwd != "" {
			scheme = fwd
		} else if r.TLS != nil {
			scheme = "https"
		}
		return scheme + "://" + r.Host
	}

	return localBaseURL
}
