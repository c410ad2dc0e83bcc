package core

type Services struct {
	Tenant        *TenantService
	User          *UserService
	Site          *SiteService
	OAuth         *OAuthService
	Token         *TokenService
	Analytics     *AnalyticsService
	SearchConsole *SearchConsoleService
	Dashboard     *DashboardService
}

type ServicesConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	BaseURL            string
	EncryptionKey      []byte
}

func NewServices(db DB, cfg ServicesConfig) *Services {
	oauth := NewOAuthService(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.BaseURL)
	token := NewTokenService(db, oauth, cfg.EncryptionKey)
	sites := NewSiteService(db)
	analytics := NewAnalyticsService(token)
	search := NewSearchConsoleService(token)

	return &Services{
		Tenant:        NewTenantService(db),
		User:          NewUserService(db),
		Site:          sites,
		OAuth:         oauth,
		Token:         token,
		Analytics:     analytics,
		SearchConsole: search,
		Dashboard:     NewDashboardService(sites, analytics, search),
	}
}
