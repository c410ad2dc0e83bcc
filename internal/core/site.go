package core

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/seolens/seolens/internal/model"
	"github.com/seolens/seolens/internal/platform"
)

type SiteService struct {
	db DB
}

func NewSiteService(db DB) *SiteService {
	return &SiteService{db: db}
}

func (s *SiteService) GetByID(ctx context.Context, id string) (*model.Site, error) {
	var site model.Site
	err := s.db.QueryRow(ctx,
		`SELECT id, tenant_id, domain, name, ga4_property_id, gsc_property_url, created_at
		 FROM sites WHERE id = $1`, id,
	).Scan(&site.ID, &site.TenantID, &site.Domain, &site.Name,
		&site.GA4PropertyID, &site.GSCPropertyURL, &site.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get site %s: %w", id, err)
	}
	return &site, nil
}

func (s *SiteService) ListByTenant(ctx context.Context, tenantID string) ([]model.Site, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, tenant_id, domain, name, ga4_property_id, gsc_property_url, created_at
		 FROM sites WHERE tenant_id = $1 ORDER BY created_at`, tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	defer rows.Close()

	var sites []model.Site
	for rows.Next() {
		var site model.Site
		if err := rows.Scan(&site.ID, &site.TenantID, &site.Domain, &site.Name,
			&site.GA4PropertyID, &site.GSCPropertyURL, &site.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan site: %w", err)
		}
		sites = append(sites, site)
	}
	return sites, rows.Err()
}

// UpsertSelection records the GA4 property and GSC site chosen during setup,
// creating the site row if the domain is new for this tenant.
func (s *SiteService) UpsertSelection(ctx context.Context, tenantID string, sel model.SelectedSites) (*model.Site, error) {
	domain := DomainFromGSCSite(sel.GSCSite.SiteURL)
	if domain == "" {
		return nil, &ValidationError{Code: "invalid_site_url", Msg: fmt.Sprintf("cannot derive a domain from %q", sel.GSCSite.SiteURL)}
	}

	name := sel.GA4Property.DisplayName
	if name == "" {
		name = domain
	}

	var site model.Site
	err := s.db.QueryRow(ctx,
		`SELECT id, tenant_id, domain, name, ga4_property_id, gsc_property_url, created_at
		 FROM sites WHERE tenant_id = $1 AND domain = $2`,
		tenantID, domain,
	).Scan(&site.ID, &site.TenantID, &site.Domain, &site.Name,
		&site.GA4PropertyID, &site.GSCPropertyURL, &site.CreatedAt)

	switch {
	case err == nil:
		_, err = s.db.Exec(ctx,
			`UPDATE sites SET name = $1, ga4_property_id = $2, gsc_property_url = $3 WHERE id = $4`,
			name, sel.GA4Property.PropertyID, sel.GSCSite.SiteURL, site.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("update site selection: %w", err)
		}
	case errors.Is(err, pgx.ErrNoRows):
		site = model.Site{
			ID:        platform.NewID(),
			TenantID:  tenantID,
			Domain:    domain,
			Name:      name,
			CreatedAt: time.Now(),
		}
		_, err = s.db.Exec(ctx,
			`INSERT INTO sites (id, tenant_id, domain, name, ga4_property_id, gsc_property_url, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			site.ID, site.TenantID, site.Domain, site.Name,
			sel.GA4Property.PropertyID, sel.GSCSite.SiteURL, site.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("insert site: %w", err)
		}
	default:
		return nil, fmt.Errorf("find site by domain: %w", err)
	}

	ga4 := sel.GA4Property.PropertyID
	gsc := sel.GSCSite.SiteURL
	site.Name = name
	site.GA4PropertyID = &ga4
	site.GSCPropertyURL = &gsc
	return &site, nil
}

// DomainFromGSCSite extracts the bare domain from a Search Console property:
// "sc-domain:example.com" or a URL-prefix property like "https://example.com/".
func DomainFromGSCSite(siteURL string) string {
	if after, ok := strings.CutPrefix(siteURL, "sc-domain:"); ok {
		return after
	}
	u, err := url.Parse(siteURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
