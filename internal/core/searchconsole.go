package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	searchconsole "google.golang.org/api/searchconsole/v1"

	"github.com/seolens/seolens/internal/model"
)

const (
	gscRowLimit          = 25000
	gscIndexWindowDays   = 90
	unverifiedPermission = "siteUnverifiedUser"
)

// SearchConsoleService fetches Search Console data. Like AnalyticsService,
// API clients are built per request so refreshed tokens take effect
// immediately.
type SearchConsoleService struct {
	tokens *TokenService
}

func NewSearchConsoleService(tokens *TokenService) *SearchConsoleService {
	return &SearchConsoleService{tokens: tokens}
}

// ListSites returns the verified Search Console properties, split into
// domain properties and URL-prefix properties. The access token is supplied
// directly because this runs during setup.
func (s *SearchConsoleService) ListSites(ctx context.Context, accessToken string) (*model.GSCSiteList, error) {
	svc, err := searchconsole.NewService(ctx, staticTokenOption(accessToken))
	if err != nil {
		return nil, fmt.Errorf("create search console client: %w", err)
	}

	resp, err := svc.Sites.List().Context(ctx).Do()
	if err != nil {
		return nil, upstreamError("searchconsole.sites.list", err)
	}

	list := &model.GSCSiteList{
		All:    []model.GSCSite{},
		Domain: []model.GSCSite{},
		URL:    []model.GSCSite{},
	}
	for _, entry := range resp.SiteEntry {
		site := model.GSCSite{
			SiteURL:         entry.SiteUrl,
			PermissionLevel: entry.PermissionLevel,
			Verified:        entry.PermissionLevel != unverifiedPermission,
		}
		if !site.Verified {
			continue
		}
		list.All = append(list.All, site)
		if strings.HasPrefix(site.SiteURL, "sc-domain:") {
			list.Domain = append(list.Domain, site)
		} else {
			list.URL = append(list.URL, site)
		}
	}
	return list, nil
}

// SearchPerformance queries search analytics by query and page for the
// given date range.
func (s *SearchConsoleService) SearchPerformance(ctx context.Context, userID, siteURL, startDate, endDate string) (*model.GSCPerformance, error) {
	rows, err := s.query(ctx, userID, siteURL, startDate, endDate, []string{"query", "page"})
	if err != nil {
		return nil, err
	}

	perf := &model.GSCPerformance{
		Data:      make([]model.GSCPerformanceRow, 0, len(rows)),
		TotalRows: len(rows),
	}
	for i, row := range rows {
		if len(row.Keys) != 2 {
			return nil, fmt.Errorf("search analytics row %d: got %d keys, want 2", i, len(row.Keys))
		}
		perf.Data = append(perf.Data, model.GSCPerformanceRow{
			Query:       row.Keys[0],
			Page:        row.Keys[1],
			Clicks:      row.Clicks,
			Impressions: row.Impressions,
			CTR:         row.Ctr,
			Position:    row.Position,
		})
	}
	return perf, nil
}

// IndexSummary rolls up per-page search analytics over the last 90 days.
// Pages with at least one impression in the window count as indexed.
func (s *SearchConsoleService) IndexSummary(ctx context.Context, userID, siteURL string) (*model.GSCIndexSummary, error) {
	endDate := time.Now().Format("2006-01-02")
	startDate := time.Now().AddDate(0, 0, -gscIndexWindowDays).Format("2006-01-02")

	rows, err := s.query(ctx, userID, siteURL, startDate, endDate, []string{"page"})
	if err != nil {
		return nil, err
	}

	summary := &model.GSCIndexSummary{IndexedPages: len(rows)}
	for _, row := range rows {
		summary.TotalClicks += row.Clicks
		summary.TotalImpressions += row.Impressions
		summary.AvgCTR += row.Ctr
		summary.AvgPosition += row.Position
	}
	if n := float64(len(rows)); n > 0 {
		summary.AvgCTR /= n
		summary.AvgPosition /= n
	}
	return summary, nil
}

func (s *SearchConsoleService) query(ctx context.Context, userID, siteURL, startDate, endDate string, dimensions []string) ([]*searchconsole.ApiDataRow, error) {
	accessToken, err := s.tokens.FreshAccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	svc, err := searchconsole.NewService(ctx, staticTokenOption(accessToken))
	if err != nil {
		return nil, fmt.Errorf("create search console client: %w", err)
	}

	resp, err := svc.Searchanalytics.Query(siteURL, &searchconsole.SearchAnalyticsQueryRequest{
		StartDate:  startDate,
		EndDate:    endDate,
		Dimensions: dimensions,
		RowLimit:   gscRowLimit,
		StartRow:   0,
	}).Context(ctx).Do()
	if err != nil {
		return nil, upstreamError("searchconsole.searchanalytics.query", err)
	}
	return resp.Rows, nil
}
