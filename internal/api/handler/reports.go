package handler

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	mw "github.com/seolens/seolens/internal/api/middleware"
	"github.com/seolens/seolens/internal/api/request"
	"github.com/seolens/seolens/internal/api/response"
	"github.com/seolens/seolens/internal/core"
)

const defaultReportWindowDays = 28

// Reports serves the dashboard report endpoints. These run after setup: the
// user identity comes from the session cookie and tokens are drawn from the
// database through the refresh policy.
type Reports struct {
	services *core.Services
}

func NewReports(services *core.Services) *Reports {
	return &Reports{services: services}
}

// sessionUserID requires a session that completed site setup.
func sessionUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	sess := mw.GetSession(r.Context())
	if sess == nil {
		response.WriteErrorCode(w, http.StatusUnauthorized, core.ErrCodeSessionExpired, "Google authorization required")
		return "", false
	}
	if sess.UserID == "" {
		response.WriteErrorCode(w, http.StatusUnauthorized, "setup_required", "site setup has not been completed")
		return "", false
	}
	return sess.UserID, true
}

func dateRange(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	start := r.URL.Query().Get("startDate")
	end := r.URL.Query().Get("endDate")
	if start == "" && end == "" {
		now := time.Now()
		return now.AddDate(0, 0, -defaultReportWindowDays).Format("2006-01-02"), now.Format("2006-01-02"), true
	}
	if !request.ValidDate(start) || !request.ValidDate(end) {
		response.WriteErrorCode(w, http.StatusBadRequest, core.ErrCodeMissingParameters, "startDate and endDate must be YYYY-MM-DD")
		return "", "", false
	}
	return start, end, true
}

func (h *Reports) GA4(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUserID(w, r)
	if !ok {
		return
	}

	propertyID := r.URL.Query().Get("propertyId")
	if propertyID == "" {
		response.WriteErrorCode(w, http.StatusBadRequest, core.ErrCodeMissingParameters, "propertyId query parameter is required")
		return
	}
	start, end, ok := dateRange(w, r)
	if !ok {
		return
	}

	report, err := h.services.Analytics.BasicReport(r.Context(), userID, propertyID, start, end)
	if err != nil {
		writeCoreError(w, zerolog.Ctx(r.Context()), err)
		return
	}

	response.WriteJSON(w, http.StatusOK, report)
}

func (h *Reports) GA4Realtime(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUserID(w, r)
	if !ok {
		return
	}

	propertyID := r.URL.Query().Get("propertyId")
	if propertyID == "" {
		response.WriteErrorCode(w, http.StatusBadRequest, core.ErrCodeMissingParameters, "propertyId query parameter is required")
		return
	}

	report, err := h.services.Analytics.RealtimeReport(r.Context(), userID, propertyID)
	if err != nil {
		writeCoreError(w, zerolog.Ctx(r.Context()), err)
		return
	}

	response.WriteJSON(w, http.StatusOK, report)
}

func (h *Reports) GSC(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUserID(w, r)
	if !ok {
		return
	}

	siteURL := r.URL.Query().Get("siteUrl")
	if siteURL == "" {
		response.WriteErrorCode(w, http.StatusBadRequest, core.ErrCodeMissingParameters, "siteUrl query parameter is required")
		return
	}
	start, end, ok := dateRange(w, r)
	if !ok {
		return
	}

	perf, err := h.services.SearchConsole.SearchPerformance(r.Context(), userID, siteURL, start, end)
	if err != nil {
		writeCoreError(w, zerolog.Ctx(r.Context()), err)
		return
	}

	response.WriteJSON(w, http.StatusOK, perf)
}

func (h *Reports) GSCIndexSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUserID(w, r)
	if !ok {
		return
	}

	siteURL := r.URL.Query().Get("siteUrl")
	if siteURL == "" {
		response.WriteErrorCode(w, http.StatusBadRequest, core.ErrCodeMissingParameters, "siteUrl query parameter is required")
		return
	}

	summary, err := h.services.SearchConsole.IndexSummary(r.Context(), userID, siteURL)
	if err != nil {
		writeCoreError(w, zerolog.Ctx(r.Context()), err)
		return
	}

	response.WriteJSON(w, http.StatusOK, summary)
}

func (h *Reports) DashboardSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUserID(w, r)
	if !ok {
		return
	}

	siteID := r.URL.Query().Get("siteId")
	if siteID == "" {
		if sess := mw.GetSession(r.Context()); sess != nil {
			siteID = sess.SiteID
		}
	}
	if siteID == "" {
		response.WriteErrorCode(w, http.StatusBadRequest, core.ErrCodeMissingParameters, "siteId query parameter is required")
		return
	}
	start, end, ok := dateRange(w, r)
	if !ok {
		return
	}

	summary, err := h.services.Dashboard.Summary(r.Context(), userID, siteID, start, end)
	if err != nil {
		writeCoreError(w, zerolog.Ctx(r.Context()), err)
		return
	}

	response.WriteJSON(w, http.StatusOK, summary)
}
