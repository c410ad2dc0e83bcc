package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seolens/seolens/internal/core"
	"github.com/seolens/seolens/internal/model"
)

func newReportsHandler() *Reports {
	return NewReports(nil)
}

func TestReportsGA4_NoSession(t *testing.T) {
	h := newReportsHandler()
	rec := httptest.NewRecorder()
	r := newRequest(http.MethodGet, "/reports/ga4?propertyId=123", nil)

	h.GA4(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeErrorResponse(rec)
	assert.Equal(t, core.ErrCodeSessionExpired, body["code"])
}

func TestReportsGA4_SetupNotCompleted(t *testing.T) {
	h := newReportsHandler()
	rec := httptest.NewRecorder()
	r := newRequest(http.MethodGet, "/reports/ga4?propertyId=123", nil)

	sess := authedSession()
	sess.UserID = ""
	r = withSession(r, sess)

	h.GA4(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeErrorResponse(rec)
	assert.Equal(t, "setup_required", body["code"])
}

func TestReportsGA4_MissingPropertyID(t *testing.T) {
	h := newReportsHandler()
	rec := httptest.NewRecorder()
	r := withSession(newRequest(http.MethodGet, "/reports/ga4", nil), authedSession())

	h.GA4(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeErrorResponse(rec)
	assert.Equal(t, core.ErrCodeMissingParameters, body["code"])
}

func TestReportsGA4_InvalidDates(t *testing.T) {
	h := newReportsHandler()

	tests := []struct {
		name   string
		target string
	}{
		{"malformed start", "/reports/ga4?propertyId=123&startDate=01-02-2026&endDate=2026-01-31"},
		{"missing end", "/reports/ga4?propertyId=123&startDate=2026-01-01"},
		{"missing start", "/reports/ga4?propertyId=123&endDate=2026-01-31"},
		{"not a date", "/reports/ga4?propertyId=123&startDate=soon&endDate=later"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r := withSession(newRequest(http.MethodGet, tt.target, nil), authedSession())

			h.GA4(rec, r)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestReportsGA4Realtime_MissingPropertyID(t *testing.T) {
	h := newReportsHandler()
	rec := httptest.NewRecorder()
	r := withSession(newRequest(http.MethodGet, "/reports/ga4/realtime", nil), authedSession())

	h.GA4Realtime(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportsGSC_MissingSiteURL(t *testing.T) {
	h := newReportsHandler()
	rec := httptest.NewRecorder()
	r := withSession(newRequest(http.MethodGet, "/reports/gsc", nil), authedSession())

	h.GSC(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeErrorResponse(rec)
	assert.Equal(t, core.ErrCodeMissingParameters, body["code"])
}

func TestReportsGSCIndexSummary_MissingSiteURL(t *testing.T) {
	h := newReportsHandler()
	rec := httptest.NewRecorder()
	r := withSession(newRequest(http.MethodGet, "/reports/gsc/index-summary", nil), authedSession())

	h.GSCIndexSummary(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportsDashboardSummary_NoSiteAnywhere(t *testing.T) {
	h := newReportsHandler()
	rec := httptest.NewRecorder()

	sess := authedSession()
	sess.SiteID = ""
	r := withSession(newRequest(http.MethodGet, "/dashboard/summary", nil), sess)

	h.DashboardSummary(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeErrorResponse(rec)
	assert.Equal(t, core.ErrCodeMissingParameters, body["code"])
}

func TestReportsDashboardSummary_NoSession(t *testing.T) {
	h := newReportsHandler()
	rec := httptest.NewRecorder()

	h.DashboardSummary(rec, newRequest(http.MethodGet, "/dashboard/summary?siteId=site-1", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionUserID_ReturnsUserID(t *testing.T) {
	rec := httptest.NewRecorder()
	r := withSession(newRequest(http.MethodGet, "/reports/ga4", nil), &model.OAuthData{UserID: "user-9"})

	userID, ok := sessionUserID(rec, r)

	assert.True(t, ok)
	assert.Equal(t, "user-9", userID)
}
