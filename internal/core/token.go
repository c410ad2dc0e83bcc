package core

import (
	"context"
	"fmt"
	"time"

	"github.com/seolens/seolens/internal/crypto"
	"github.com/seolens/seolens/internal/model"
	"github.com/seolens/seolens/internal/platform"
)

// TokenService owns the persisted token records and the refresh policy.
// Token columns are encrypted with the same cipher as the session cookies.
//
// The read-check-refresh-write sequence is not serialized across requests:
// two concurrent requests for the same user can both refresh, which costs a
// redundant provider call but is otherwise harmless.
type TokenService struct {
	db    DB
	oauth *OAuthService
	key   []byte
}

func NewTokenService(db DB, oauth *OAuthService, key []byte) *TokenService {
	return &TokenService{db: db, oauth: oauth, key: key}
}

// Save upserts the user's Google token pair, encrypting both tokens.
func (s *TokenService) Save(ctx context.Context, userID string, tok model.Tokens, scopes []string) error {
	encAccess, err := crypto.Encrypt([]byte(tok.AccessToken), s.key)
	if err != nil {
		return fmt.Errorf("encrypt access token: %w", err)
	}
	encRefresh, err := crypto.Encrypt([]byte(tok.RefreshToken), s.key)
	if err != nil {
		return fmt.Errorf("encrypt refresh token: %w", err)
	}

	rec := model.TokenRecord{
		ID:           platform.NewID(),
		UserID:       userID,
		Provider:     model.ProviderGoogle,
		AccessToken:  encAccess,
		RefreshToken: encRefresh,
		ExpiresAt:    tok.ExpiresAt,
		Scopes:       scopes,
		CreatedAt:    time.Now(),
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO oauth_tokens (id, user_id, provider, access_token, refresh_token, expires_at, scopes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		 ON CONFLICT (user_id, provider) DO UPDATE SET
		   access_token = EXCLUDED.access_token,
		   refresh_token = EXCLUDED.refresh_token,
		   expires_at = EXCLUDED.expires_at,
		   scopes = EXCLUDED.scopes,
		   updated_at = EXCLUDED.updated_at`,
		rec.ID, rec.UserID, rec.Provider, rec.AccessToken, rec.RefreshToken, rec.ExpiresAt, rec.Scopes, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert oauth tokens: %w", err)
	}
	return nil
}

// FreshAccessToken returns an access token that is valid right now. An
// expired (or unknown-expiry) token is refreshed and the new pair persisted
// before the token is handed to the caller. If the provider does not rotate
// the refresh token, the previous one is retained.
func (s *TokenService) FreshAccessToken(ctx context.Context, userID string) (string, error) {
	var rec model.TokenRecord
	err := s.db.QueryRow(ctx,
		`SELECT access_token, refresh_token, expires_at FROM oauth_tokens
		 WHERE user_id = $1 AND provider = $2`,
		userID, model.ProviderGoogle,
	).Scan(&rec.AccessToken, &rec.RefreshToken, &rec.ExpiresAt)
	if err != nil {
		return "", fmt.Errorf("load oauth tokens for user %s: %w", userID, err)
	}

	accessToken, err := crypto.Decrypt(rec.AccessToken, s.key)
	if err != nil {
		return "", fmt.Errorf("decrypt access token: %w", err)
	}
	refreshToken, err := crypto.Decrypt(rec.RefreshToken, s.key)
	if err != nil {
		return "", fmt.Errorf("decrypt refresh token: %w", err)
	}

	now := time.Now()
	if rec.ExpiresAt.After(now) {
		return string(accessToken), nil
	}

	// Expired, or expiry was never recorded. Refresh before any downstream
	// call; a stale token must not leave this service.
	tr, err := s.oauth.Refresh(ctx, string(refreshToken))
	if err != nil {
		return "", &OAuthTokenError{Err: err}
	}

	newRefresh := tr.RefreshToken
	if newRefresh == "" {
		newRefresh = string(refreshToken)
	}

	newTokens := model.Tokens{
		AccessToken:  tr.AccessToken,
		RefreshToken: newRefresh,
		TokenType:    tr.TokenType,
		Scope:        tr.Scope,
		ExpiresAt:    now.Add(time.Duration(tr.ExpiresIn) * time.Second),
		ExpiresIn:    tr.ExpiresIn,
	}
	if err := s.persistRefreshed(ctx, userID, newTokens); err != nil {
		return "", err
	}

	return tr.AccessToken, nil
}

func (s *TokenService) persistRefreshed(ctx context.Context, userID string, tok model.Tokens) error {
	encAccess, err := crypto.Encrypt([]byte(tok.AccessToken), s.key)
	if err != nil {
		return fmt.Errorf("encrypt refreshed access token: %w", err)
	}
	encRefresh, err := crypto.Encrypt([]byte(tok.RefreshToken), s.key)
	if err != nil {
		return fmt.Errorf("encrypt refreshed refresh token: %w", err)
	}

	_, err = s.db.Exec(ctx,
		`UPDATE oauth_tokens
		 SET access_token = $1, refresh_token = $2, expires_at = $3, updated_at = $4
		 WHERE user_id = $5 AND provider = $6`,
		encAccess, encRefresh, tok.ExpiresAt, time.Now(), userID, model.ProviderGoogle,
	)
	if err != nil {
		return fmt.Errorf("persist refreshed tokens: %w", err)
	}
	return nil
}
