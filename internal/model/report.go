package model

import "time"

// GA4Property is a flattened entry from the Analytics Admin account summaries.
type GA4Property struct {
	AccountID          string `json:"accountId"`
	AccountDisplayName string `json:"accountDisplayName"`
	PropertyID         string `json:"propertyId"`
	DisplayName        string `json:"displayName"`
	PropertyType       string `json:"propertyType"`
	Parent             string `json:"parent,omitempty"`
}

type GA4ReportRow struct {
	Date               string  `json:"date"`
	PagePath           string  `json:"pagePath"`
	PageTitle          string  `json:"pageTitle"`
	Sessions           int64   `json:"sessions"`
	PageViews          int64   `json:"pageViews"`
	Users              int64   `json:"users"`
	BounceRate         float64 `json:"bounceRate"`
	AvgSessionDuration float64 `json:"avgSessionDuration"`
	Conversions        int64   `json:"conversions"`
}

type GA4Report struct {
	Data      []GA4ReportRow `json:"data"`
	TotalRows int64          `json:"totalRows"`
}

type GA4RealtimeRow struct {
	PagePath    string `json:"pagePath"`
	PageTitle   string `json:"pageTitle"`
	ActiveUsers int64  `json:"activeUsers"`
	PageViews   int64  `json:"pageViews"`
}

type GA4Realtime struct {
	Data      []GA4RealtimeRow `json:"data"`
	TotalRows int64            `json:"totalRows"`
	Timestamp time.Time        `json:"timestamp"`
}

// GSCSite is a Search Console site entry. Verified means the permission
// level is anything other than siteUnverifiedUser.
type GSCSite struct {
	SiteURL         string `json:"siteUrl"`
	PermissionLevel string `json:"permissionLevel"`
	Verified        bool   `json:"verified"`
}

// GSCSiteList groups sites into domain properties (sc-domain: prefix) and
// URL-prefix properties.
type GSCSiteList struct {
	All    []GSCSite `json:"all"`
	Domain []GSCSite `json:"domain"`
	URL    []GSCSite `json:"url"`
}

type GSCPerformanceRow struct {
	Query       string  `json:"query"`
	Page        string  `json:"page"`
	Clicks      float64 `json:"clicks"`
	Impressions float64 `json:"impressions"`
	CTR         float64 `json:"ctr"`
	Position    float64 `json:"position"`
}

type GSCPerformance struct {
	Data      []GSCPerformanceRow `json:"data"`
	TotalRows int                 `json:"totalRows"`
}

// GSCIndexSummary is a 90-day rollup of indexed pages.
type GSCIndexSummary struct {
	IndexedPages     int     `json:"indexedPages"`
	TotalClicks      float64 `json:"totalClicks"`
	TotalImpressions float64 `json:"totalImpressions"`
	AvgCTR           float64 `json:"avgCTR"`
	AvgPosition      float64 `json:"avgPosition"`
}

// DashboardSummary combines the GA4 report and GSC performance for one site.
type DashboardSummary struct {
	Site        *Site           `json:"site"`
	Analytics   *GA4Report      `json:"analytics"`
	Search      *GSCPerformance `json:"search"`
	StartDate   string          `json:"startDate"`
	EndDate     string          `json:"endDate"`
	GeneratedAt time.Time       `json:"generatedAt"`
}
