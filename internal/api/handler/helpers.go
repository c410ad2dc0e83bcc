package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/seolens/seolens/internal/api/response"
	"github.com/seolens/seolens/internal/core"
	"github.com/seolens/seolens/internal/crypto"
)

// writeCoreError maps the service error taxonomy onto HTTP statuses. Raw
// upstream bodies are logged but never echoed to the client.
func writeCoreError(w http.ResponseWriter, logger *zerolog.Logger, err error) {
	var verr *core.ValidationError
	if errors.As(err, &verr) {
		response.WriteErrorCode(w, http.StatusBadRequest, verr.Code, verr.Msg)
		return
	}

	var serr *core.SessionError
	if errors.As(err, &serr) {
		response.WriteErrorCode(w, http.StatusUnauthorized, serr.Code, serr.Msg)
		return
	}

	var derr *crypto.DecryptionError
	if errors.As(err, &derr) {
		response.WriteErrorCode(w, http.StatusUnauthorized, core.ErrCodeInvalidSession, "session could not be decrypted")
		return
	}

	var terr *core.OAuthTokenError
	if errors.As(err, &terr) {
		logger.Warn().Err(err).Msg("token refresh failed")
		response.WriteErrorCode(w, http.StatusUnauthorized, "token_refresh_failed", "Google authorization expired, please reconnect")
		return
	}

	var uerr *core.UpstreamError
	if errors.As(err, &uerr) {
		logger.Error().Str("op", uerr.Op).Int("upstream_status", uerr.Status).Msg("upstream request failed")
		response.WriteError(w, http.StatusBadGateway, "upstream Google API request failed")
		return
	}

	var cerr *core.ConfigurationError
	if errors.As(err, &cerr) {
		logger.Error().Err(err).Msg("configuration error")
		response.WriteErrorCode(w, http.StatusInternalServerError, core.ErrCodeOAuthConfig, "service is misconfigured")
		return
	}

	logger.Error().Err(err).Msg("request failed")
	response.WriteError(w, http.StatusInternalServerError, "internal error")
}
