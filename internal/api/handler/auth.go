package handler

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/seolens/seolens/internal/api/response"
	"github.com/seolens/seolens/internal/core"
	"github.com/seolens/seolens/internal/model"
)

// Auth handles the Google OAuth flow: starting authorization, the provider
// callback, session inspection and sign-out.
type Auth struct {
	oauth    *core.OAuthService
	sessions *core.SessionStore
}

func NewAuth(oauth *core.OAuthService, sessions *core.SessionStore) *Auth {
	return &Auth{oauth: oauth, sessions: sessions}
}

// Start begins the PKCE flow. The PKCE parameters go into the short-lived
// encrypted cookie; the consent URL goes back to the client, which performs
// the redirect.
func (h *Auth) Start(w http.ResponseWriter, r *http.Request) {
	tenantID := r.URL.Query().Get("tenantId")
	if tenantID == "" {
		response.WriteErrorCode(w, http.StatusBadRequest, core.ErrCodeMissingParameters, "tenantId query parameter is required")
		return
	}

	intent, err := h.oauth.BeginAuthorization(r, tenantID)
	if err != nil {
		writeCoreError(w, zerolog.Ctx(r.Context()), err)
		return
	}

	if err := h.sessions.SetPKCESession(w, intent.Session); err != nil {
		writeCoreError(w, zerolog.Ctx(r.Context()), err)
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]string{
		"authUrl":     intent.AuthURL,
		"redirectUri": intent.RedirectURI,
	})
}

// Callback finishes the flow. Every outcome is a browser redirect: errors go
// to the frontend error page with a machine-readable code, success to the
// site setup page. The PKCE cookie is cleared on every path.
func (h *Auth) Callback(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())
	q := r.URL.Query()

	if provErr := q.Get("error"); provErr != "" {
		logger.Warn().Str("provider_error", provErr).Msg("authorization denied by provider")
		h.redirectError(w, r, provErr)
		return
	}

	code := q.Get("code")
	state := q.Get("state")
	if code == "" || state == "" {
		h.redirectError(w, r, core.ErrCodeMissingParameters)
		return
	}

	sess, err := h.sessions.ReadPKCESession(r)
	if err != nil {
		var serr *core.SessionError
		if errors.As(err, &serr) {
			h.redirectError(w, r, serr.Code)
			return
		}
		h.redirectError(w, r, core.ErrCodeInvalidSession)
		return
	}

	if err := h.oauth.ValidateState(state, sess); err != nil {
		h.redirectError(w, r, core.ErrCodeInvalidState)
		return
	}

	tokens, err := h.oauth.ExchangeCode(r.Context(), code, sess.CodeVerifier, sess.RedirectURI)
	if err != nil {
		logger.Error().Err(err).Msg("token exchange failed")
		var cerr *core.ConfigurationError
		if errors.As(err, &cerr) {
			h.redirectError(w, r, core.ErrCodeOAuthConfig)
			return
		}
		// The error page shows the provider's reason alongside the code.
		details := err.Error()
		var uerr *core.UpstreamError
		if errors.As(err, &uerr) {
			details = uerr.Body
		}
		h.redirectErrorDetails(w, r, core.ErrCodeCallbackFailed, details)
		return
	}

	profile, err := h.oauth.FetchProfile(r.Context(), tokens.AccessToken)
	if err != nil {
		logger.Error().Err(err).Msg("profile fetch failed")
		h.redirectError(w, r, core.ErrCodeProfileFetchFailed)
		return
	}

	data := &model.OAuthData{
		Profile:   *profile,
		Tokens:    tokens.Tokens(time.Now()),
		TenantID:  sess.TenantID,
		Timestamp: time.Now(),
	}
	if err := h.sessions.SetOAuthData(w, data); err != nil {
		logger.Error().Err(err).Msg("failed to write oauth session cookie")
		h.redirectError(w, r, core.ErrCodeCallbackFailed)
		return
	}

	h.sessions.ClearPKCESession(w)
	logger.Info().Str("email", profile.Email).Str("tenant_id", sess.TenantID).Msg("oauth flow completed")

	http.Redirect(w, r, "/setup-sites?oauth_success=true&tenant="+url.QueryEscape(sess.TenantID), http.StatusFound)
}

func (h *Auth) redirectError(w http.ResponseWriter, r *http.Request, code string) {
	h.redirectErrorDetails(w, r, code, "")
}

func (h *Auth) redirectErrorDetails(w http.ResponseWriter, r *http.Request, code, details string) {
	h.sessions.ClearPKCESession(w)
	target := "/auth/error?error=" + url.QueryEscape(code)
	if details != "" {
		target += "&details=" + url.QueryEscape(details)
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// Clear signs the user out by expiring both session cookies. Idempotent.
func (h *Auth) Clear(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearPKCESession(w)
	h.sessions.ClearOAuthData(w)
	response.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "authentication data cleared",
	})
}

// SessionInfo reports the current session state. Unlike the authenticated
// endpoints this never returns 401; the frontend polls it to decide what to
// render.
func (h *Auth) SessionInfo(w http.ResponseWriter, r *http.Request) {
	data, err := h.sessions.ReadOAuthData(r)
	if err != nil {
		response.WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	body := map[string]any{
		"authenticated": true,
		"profile":       data.Profile,
		"tenantId":      data.TenantID,
	}
	if data.SelectedSites != nil {
		body["selectedSites"] = data.SelectedSites
	}
	if data.SiteID != "" {
		body["siteId"] = data.SiteID
	}
	if data.UserID != "" {
		body["userId"] = data.UserID
	}
	response.WriteJSON(w, http.StatusOK, body)
}
