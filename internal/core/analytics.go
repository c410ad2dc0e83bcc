package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	analyticsadmin "google.golang.org/api/analyticsadmin/v1beta"
	analyticsdata "google.golang.org/api/analyticsdata/v1beta"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/seolens/seolens/internal/model"
)

const (
	ga4ReportRowLimit   = 10000
	ga4RealtimeRowLimit = 100
)

// AnalyticsService fetches GA4 data through the Analytics Admin and Data
// APIs. API clients are built per request from the caller's access token,
// so a refreshed token is always picked up.
type AnalyticsService struct {
	tokens *TokenService
}

func NewAnalyticsService(tokens *TokenService) *AnalyticsService {
	return &AnalyticsService{tokens: tokens}
}

func staticTokenOption(accessToken string) option.ClientOption {
	return option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))
}

// ListAccountSummaries flattens the Admin API account summaries into one
// property list. The caller supplies the access token directly because this
// runs during setup, before tokens are persisted.
func (s *AnalyticsService) ListAccountSummaries(ctx context.Context, accessToken string) ([]model.GA4Property, error) {
	svc, err := analyticsadmin.NewService(ctx, staticTokenOption(accessToken))
	if err != nil {
		return nil, fmt.Errorf("create analytics admin client: %w", err)
	}

	var props []model.GA4Property
	err = svc.AccountSummaries.List().PageSize(200).Pages(ctx, func(resp *analyticsadmin.GoogleAnalyticsAdminV1betaListAccountSummariesResponse) error {
		for _, acct := range resp.AccountSummaries {
			for _, p := range acct.PropertySummaries {
				props = append(props, model.GA4Property{
					AccountID:          acct.Account,
					AccountDisplayName: acct.DisplayName,
					PropertyID:         strings.TrimPrefix(p.Property, "properties/"),
					DisplayName:        p.DisplayName,
					PropertyType:       p.PropertyType,
					Parent:             p.Parent,
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, upstreamError("analyticsadmin.accountSummaries.list", err)
	}
	return props, nil
}

// BasicReport runs the standard dashboard report: per-day page metrics
// ordered by sessions descending.
func (s *AnalyticsService) BasicReport(ctx context.Context, userID, propertyID, startDate, endDate string) (*model.GA4Report, error) {
	svc, err := s.dataService(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp, err := svc.Properties.RunReport("properties/"+propertyID, &analyticsdata.RunReportRequest{
		DateRanges: []*analyticsdata.DateRange{{StartDate: startDate, EndDate: endDate}},
		Dimensions: []*analyticsdata.Dimension{
			{Name: "date"},
			{Name: "pagePath"},
			{Name: "pageTitle"},
		},
		Metrics: []*analyticsdata.Metric{
			{Name: "sessions"},
			{Name: "screenPageViews"},
			{Name: "totalUsers"},
			{Name: "bounceRate"},
			{Name: "averageSessionDuration"},
			{Name: "conversions"},
		},
		OrderBys: []*analyticsdata.OrderBy{
			{Desc: true, Metric: &analyticsdata.MetricOrderBy{MetricName: "sessions"}},
		},
		Limit: ga4ReportRowLimit,
	}).Context(ctx).Do()
	if err != nil {
		return nil, upstreamError("analyticsdata.runReport", err)
	}

	return shapeGA4Report(resp)
}

// RealtimeReport returns the currently active users per page.
func (s *AnalyticsService) RealtimeReport(ctx context.Context, userID, propertyID string) (*model.GA4Realtime, error) {
	svc, err := s.dataService(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp, err := svc.Properties.RunRealtimeReport("properties/"+propertyID, &analyticsdata.RunRealtimeReportRequest{
		Dimensions: []*analyticsdata.Dimension{
			{Name: "pagePath"},
			{Name: "pageTitle"},
		},
		Metrics: []*analyticsdata.Metric{
			{Name: "activeUsers"},
			{Name: "screenPageViews"},
		},
		OrderBys: []*analyticsdata.OrderBy{
			{Desc: true, Metric: &analyticsdata.MetricOrderBy{MetricName: "activeUsers"}},
		},
		Limit: ga4RealtimeRowLimit,
	}).Context(ctx).Do()
	if err != nil {
		return nil, upstreamError("analyticsdata.runRealtimeReport", err)
	}

	return shapeGA4Realtime(resp, time.Now())
}

func (s *AnalyticsService) dataService(ctx context.Context, userID string) (*analyticsdata.Service, error) {
	accessToken, err := s.tokens.FreshAccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	svc, err := analyticsdata.NewService(ctx, staticTokenOption(accessToken))
	if err != nil {
		return nil, fmt.Errorf("create analytics data client: %w", err)
	}
	return svc, nil
}

// shapeGA4Report converts the raw API response. Rows that do not match the
// requested dimension and metric layout are an error, not silently zeroed.
func shapeGA4Report(resp *analyticsdata.RunReportResponse) (*model.GA4Report, error) {
	report := &model.GA4Report{
		Data:      make([]model.GA4ReportRow, 0, len(resp.Rows)),
		TotalRows: resp.RowCount,
	}
	for i, row := range resp.Rows {
		if len(row.DimensionValues) != 3 || len(row.MetricValues) != 6 {
			return nil, fmt.Errorf("report row %d: got %d dimensions and %d metrics, want 3 and 6",
				i, len(row.DimensionValues), len(row.MetricValues))
		}
		out := model.GA4ReportRow{
			Date:      row.DimensionValues[0].Value,
			PagePath:  row.DimensionValues[1].Value,
			PageTitle: row.DimensionValues[2].Value,
		}
		var err error
		if out.Sessions, err = parseMetricInt(row.MetricValues[0].Value); err == nil {
			if out.PageViews, err = parseMetricInt(row.MetricValues[1].Value); err == nil {
				if out.Users, err = parseMetricInt(row.MetricValues[2].Value); err == nil {
					if out.BounceRate, err = parseMetricFloat(row.MetricValues[3].Value); err == nil {
						if out.AvgSessionDuration, err = parseMetricFloat(row.MetricValues[4].Value); err == nil {
							out.Conversions, err = parseMetricInt(row.MetricValues[5].Value)
						}
					}
				}
			}
		}
		if err != nil {
			return nil, fmt.Errorf("report row %d: %w", i, err)
		}
		report.Data = append(report.Data, out)
	}
	return report, nil
}

func shapeGA4Realtime(resp *analyticsdata.RunRealtimeReportResponse, now time.Time) (*model.GA4Realtime, error) {
	report := &model.GA4Realtime{
		Data:      make([]model.GA4RealtimeRow, 0, len(resp.Rows)),
		TotalRows: resp.RowCount,
		Timestamp: now,
	}
	for i, row := range resp.Rows {
		if len(row.DimensionValues) != 2 || len(row.MetricValues) != 2 {
			return nil, fmt.Errorf("realtime row %d: got %d dimensions and %d metrics, want 2 and 2",
				i, len(row.DimensionValues), len(row.MetricValues))
		}
		out := model.GA4RealtimeRow{
			PagePath:  row.DimensionValues[0].Value,
			PageTitle: row.DimensionValues[1].Value,
		}
		var err error
		if out.ActiveUsers, err = parseMetricInt(row.MetricValues[0].Value); err == nil {
			out.PageViews, err = parseMetricInt(row.MetricValues[1].Value)
		}
		if err != nil {
			return nil, fmt.Errorf("realtime row %d: %w", i, err)
		}
		report.Data = append(report.Data, out)
	}
	return report, nil
}

func parseMetricInt(v string) (int64, error) {
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		// GA4 reports some count metrics with a decimal point.
		f, ferr := strconv.ParseFloat(v, 64)
		if ferr != nil {
			return 0, fmt.Errorf("metric value %q is not numeric", v)
		}
		return int64(f), nil
	}
	return n, nil
}

func parseMetricFloat(v string) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("metric value %q is not numeric", v)
	}
	return f, nil
}

// upstreamError maps Google API errors onto UpstreamError, preserving the
// HTTP status when the transport exposes one.
func upstreamError(op string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return &UpstreamError{Op: op, Status: gerr.Code, Body: gerr.Message}
	}
	var terr *OAuthTokenError
	if errors.As(err, &terr) {
		return err
	}
	return &UpstreamError{Op: op, Body: err.Error()}
}
