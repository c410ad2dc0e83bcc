package core

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/seolens/seolens/internal/model"
)

// DashboardService aggregates GA4 and Search Console data for one site.
type DashboardService struct {
	sites     *SiteService
	analytics *AnalyticsService
	search    *SearchConsoleService
}

func NewDashboardService(sites *SiteService, analytics *AnalyticsService, search *SearchConsoleService) *DashboardService {
	return &DashboardService{sites: sites, analytics: analytics, search: search}
}

// Summary fetches the GA4 report and GSC performance concurrently. A site
// with no GA4 property or no GSC property skips that half of the summary.
func (s *DashboardService) Summary(ctx context.Context, userID, siteID, startDate, endDate string) (*model.DashboardSummary, error) {
	site, err := s.sites.GetByID(ctx, siteID)
	if err != nil {
		return nil, err
	}

	summary := &model.DashboardSummary{
		Site:      site,
		StartDate: startDate,
		EndDate:   endDate,
	}

	g, gctx := errgroup.WithContext(ctx)
	if site.GA4PropertyID != nil && *site.GA4PropertyID != "" {
		g.Go(func() error {
			report, err := s.analytics.BasicReport(gctx, userID, *site.GA4PropertyID, startDate, endDate)
			if err != nil {
				return err
			}
			summary.Analytics = report
			return nil
		})
	}
	if site.GSCPropertyURL != nil && *site.GSCPropertyURL != "" {
		g.Go(func() error {
			perf, err := s.search.SearchPerformance(gctx, userID, *site.GSCPropertyURL, startDate, endDate)
			if err != nil {
				return err
			}
			summary.Search = perf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary.GeneratedAt = time.Now()
	return summary, nil
}
