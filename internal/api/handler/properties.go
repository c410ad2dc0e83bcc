package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	mw "github.com/seolens/seolens/internal/api/middleware"
	"github.com/seolens/seolens/internal/api/response"
	"github.com/seolens/seolens/internal/core"
	"github.com/seolens/seolens/internal/model"
)

// Properties lists the GA4 properties and Search Console sites the signed-in
// Google account can access. These run during onboarding, before tokens are
// persisted, so the access token comes straight from the session cookie.
type Properties struct {
	analytics *core.AnalyticsService
	search    *core.SearchConsoleService
}

func NewProperties(analytics *core.AnalyticsService, search *core.SearchConsoleService) *Properties {
	return &Properties{analytics: analytics, search: search}
}

func sessionAccessToken(w http.ResponseWriter, r *http.Request) (string, bool) {
	sess := mw.GetSession(r.Context())
	if sess == nil || sess.Tokens.AccessToken == "" {
		response.WriteErrorCode(w, http.StatusUnauthorized, core.ErrCodeSessionExpired, "Google authorization required")
		return "", false
	}
	return sess.Tokens.AccessToken, true
}

func (h *Properties) GA4(w http.ResponseWriter, r *http.Request) {
	token, ok := sessionAccessToken(w, r)
	if !ok {
		return
	}

	props, err := h.analytics.ListAccountSummaries(r.Context(), token)
	if err != nil {
		writeCoreError(w, zerolog.Ctx(r.Context()), err)
		return
	}
	if props == nil {
		props = []model.GA4Property{}
	}

	response.WriteJSON(w, http.StatusOK, map[string]any{
		"properties": props,
		"total":      len(props),
	})
}

func (h *Properties) GSC(w http.ResponseWriter, r *http.Request) {
	token, ok := sessionAccessToken(w, r)
	if !ok {
		return
	}

	sites, err := h.search.ListSites(r.Context(), token)
	if err != nil {
		writeCoreError(w, zerolog.Ctx(r.Context()), err)
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]any{
		"sites": sites.All,
		"grouped": map[string]any{
			"domainProperties": sites.Domain,
			"urlProperties":    sites.URL,
		},
		"total": len(sites.All),
	})
}
