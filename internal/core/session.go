package core

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/seolens/seolens/internal/crypto"
	"github.com/seolens/seolens/internal/model"
)

// Cookie names. The PKCE cookie lives for the duration of one authorization
// attempt; the OAuth data cookie holds the established session.
const (
	PKCESessionCookie = "oauth-session"
	OAuthDataCookie   = "google_oauth_data"
)

const (
	pkceSessionMaxAge = 30 * 60
	oauthDataMaxAge   = 24 * 60 * 60
)

// SessionStore encrypts session payloads into HTTP-only cookies. The cookie
// is the sole owner of session state; nothing is kept server-side.
type SessionStore struct {
	key    []byte
	secure bool
}

func NewSessionStore(key []byte, secure bool) *SessionStore {
	return &SessionStore{key: key, secure: secure}
}

// SetPKCESession writes the short-lived PKCE session cookie.
func (s *SessionStore) SetPKCESession(w http.ResponseWriter, sess *model.PKCESession) error {
	return s.set(w, PKCESessionCookie, sess, pkceSessionMaxAge)
}

// ReadPKCESession loads and decrypts the PKCE session cookie. A missing
// cookie is reported as session_expired; a cookie that fails to decrypt or
// parse as invalid_session.
func (s *SessionStore) ReadPKCESession(r *http.Request) (*model.PKCESession, error) {
	var sess model.PKCESession
	if err := s.read(r, PKCESessionCookie, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *SessionStore) ClearPKCESession(w http.ResponseWriter) {
	s.clear(w, PKCESessionCookie)
}

// SetOAuthData writes the long-lived OAuth session cookie.
func (s *SessionStore) SetOAuthData(w http.ResponseWriter, data *model.OAuthData) error {
	return s.set(w, OAuthDataCookie, data, oauthDataMaxAge)
}

func (s *SessionStore) ReadOAuthData(r *http.Request) (*model.OAuthData, error) {
	var data model.OAuthData
	if err := s.read(r, OAuthDataCookie, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (s *SessionStore) ClearOAuthData(w http.ResponseWriter) {
	s.clear(w, OAuthDataCookie)
}

func (s *SessionStore) set(w http.ResponseWriter, name string, payload any, maxAge int) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", name, err)
	}

	encrypted, err := crypto.Encrypt(raw, s.key)
	if err != nil {
		return fmt.Errorf("encrypt %s payload: %w", name, err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    encrypted,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (s *SessionStore) read(r *http.Request, name string, dst any) error {
	cookie, err := r.Cookie(name)
	if err != nil {
		return &SessionError{Code: ErrCodeSessionExpired, Msg: fmt.Sprintf("%s cookie not found", name)}
	}

	raw, err := crypto.Decrypt(cookie.Value, s.key)
	if err != nil {
		return &SessionError{Code: ErrCodeInvalidSession, Msg: fmt.Sprintf("%s cookie could not be decrypted", name)}
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return &SessionError{Code: ErrCodeInvalidSession, Msg: fmt.Sprintf("%s cookie payload is not valid JSON", name)}
	}
	return nil
}

func (s *SessionStore) clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
