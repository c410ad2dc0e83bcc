package core

import "fmt"

// Error codes surfaced to the browser via the /auth/error redirect.
const (
	ErrCodeMissingParameters  = "missing_parameters"
	ErrCodeSessionExpired     = "session_expired"
	ErrCodeInvalidSession     = "invalid_session"
	ErrCodeInvalidState       = "invalid_state"
	ErrCodeCallbackFailed     = "callback_failed"
	ErrCodeProfileFetchFailed = "profile_fetch_failed"
	ErrCodeOAuthConfig        = "oauth_config_error"
)

// ConfigurationError is missing or malformed server configuration. Always
// fatal for the request and never retried.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string { return e.Msg }

// ValidationError is a missing or invalid request parameter, including a
// CSRF state mismatch. The flow must restart.
type ValidationError struct {
	Code string
	Msg  string
}

func (e *ValidationError) Error() string { return e.Msg }

// SessionError is an absent or undecryptable session cookie. Not recoverable
// for the current attempt.
type SessionError struct {
	Code string
	Msg  string
}

func (e *SessionError) Error() string { return e.Msg }

// UpstreamError is a non-2xx response from a provider endpoint. The upstream
// status and body are kept as diagnostic detail; never retried automatically.
type UpstreamError struct {
	Op     string
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s returned %d: %s", e.Op, e.Status, e.Body)
}

// OAuthTokenError means a token refresh failed. Callers must not attempt the
// downstream provider call with the stale token.
type OAuthTokenError struct {
	Err error
}

func (e *OAuthTokenError) Error() string {
	return fmt.Sprintf("token refresh failed: %v", e.Err)
}

func (e *OAuthTokenError) Unwrap() error { return e.Err }
