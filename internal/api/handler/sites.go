package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	mw "github.com/seolens/seolens/internal/api/middleware"
	"github.com/seolens/seolens/internal/api/request"
	"github.com/seolens/seolens/internal/api/response"
	"github.com/seolens/seolens/internal/core"
	"github.com/seolens/seolens/internal/model"
)

// Sites handles the onboarding site selection. Setup is the point where
// session ownership changes: the user, site and encrypted tokens are
// persisted, and the cookie is rewritten to hold identifiers only.
type Sites struct {
	services *core.Services
	sessions *core.SessionStore
}

func NewSites(services *core.Services, sessions *core.SessionStore) *Sites {
	return &Sites{services: services, sessions: sessions}
}

func (h *Sites) Setup(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	sess := mw.GetSession(r.Context())
	if sess == nil {
		response.WriteErrorCode(w, http.StatusUnauthorized, core.ErrCodeSessionExpired, "Google authorization required")
		return
	}
	if sess.TenantID == "" {
		response.WriteErrorCode(w, http.StatusBadRequest, core.ErrCodeInvalidSession, "session has no tenant")
		return
	}

	var req request.SetupSites
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	user, err := h.services.User.FindOrCreate(ctx, sess.TenantID, sess.Profile)
	if err != nil {
		writeCoreError(w, logger, err)
		return
	}

	sel := model.SelectedSites{
		GA4Property: model.GA4PropertySelection{
			PropertyID:  req.GA4Property.PropertyID,
			DisplayName: req.GA4Property.DisplayName,
			WebsiteURL:  req.GA4Property.WebsiteURL,
		},
		GSCSite: model.GSCSiteSelection{
			SiteURL:         req.GSCSite.SiteURL,
			PermissionLevel: req.GSCSite.PermissionLevel,
			Verified:        req.GSCSite.Verified,
		},
		SelectedAt: time.Now(),
	}

	site, err := h.services.Site.UpsertSelection(ctx, sess.TenantID, sel)
	if err != nil {
		writeCoreError(w, logger, err)
		return
	}

	if sess.Tokens.AccessToken != "" {
		if err := h.services.Token.Save(ctx, user.ID, sess.Tokens, strings.Fields(sess.Tokens.Scope)); err != nil {
			writeCoreError(w, logger, err)
			return
		}
	}

	// Tokens now live in the database; the cookie keeps identifiers only.
	updated := *sess
	updated.Tokens = model.Tokens{}
	updated.SelectedSites = &sel
	updated.SiteID = site.ID
	updated.UserID = user.ID
	if err := h.sessions.SetOAuthData(w, &updated); err != nil {
		writeCoreError(w, logger, err)
		return
	}

	logger.Info().
		Str("tenant_id", sess.TenantID).
		Str("site_id", site.ID).
		Str("ga4_property", req.GA4Property.PropertyID).
		Str("gsc_site", req.GSCSite.SiteURL).
		Msg("site setup completed")

	response.WriteJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"message":       "site selection saved",
		"selectedSites": sel,
		"siteId":        site.ID,
		"userId":        user.ID,
	})
}
