package request

// SetupSites is the body of POST /sites/setup: the GA4 property and Search
// Console site the user selected during onboarding.
type SetupSites struct {
	GA4Property SetupGA4Property `json:"ga4Property" validate:"required"`
	GSCSite     SetupGSCSite     `json:"gscSite" validate:"required"`
}

type SetupGA4Property struct {
	PropertyID  string `json:"propertyId" validate:"required"`
	DisplayName string `json:"displayName"`
	WebsiteURL  string `json:"websiteUrl"`
}

type SetupGSCSite struct {
	SiteURL         string `json:"siteUrl" validate:"required"`
	PermissionLevel string `json:"permissionLevel"`
	Verified        bool   `json:"verified"`
}

// CreateTenant is the body of POST /tenants.
type CreateTenant struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
	Plan string `json:"plan" validate:"omitempty,oneof=free starter pro enterprise"`
}
