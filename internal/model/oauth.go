package model

import "time"

// PKCESession is the short-lived state written to the encrypted PKCE cookie
// between the authorization redirect and the provider callback. It is
// consumed exactly once by the callback handler.
type PKCESession struct {
	TenantID     string    `json:"tenantId"`
	RedirectURI  string    `json:"redirectUri"`
	CodeVerifier string    `json:"codeVerifier"`
	State        string    `json:"state"`
	Timestamp    time.Time `json:"timestamp"`
}

// Profile is the provider identity returned by the userinfo endpoint.
type Profile struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture,omitempty"`
}

// Tokens holds a provider token pair. AccessToken and RefreshToken are
// plaintext inside the encrypted cookie and must never appear in logs.
type Tokens struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	Scope        string    `json:"scope"`
	ExpiresAt    time.Time `json:"expires_at"`
	ExpiresIn    int64     `json:"expires_in"`
}

// SelectedSites is the GA4 property + GSC site pair chosen during setup.
type SelectedSites struct {
	GA4Property GA4PropertySelection `json:"ga4Property"`
	GSCSite     GSCSiteSelection     `json:"gscSite"`
	SelectedAt  time.Time            `json:"selectedAt"`
}

type GA4PropertySelection struct {
	PropertyID  string `json:"propertyId"`
	DisplayName string `json:"displayName"`
	WebsiteURL  string `json:"websiteUrl,omitempty"`
}

type GSCSiteSelection struct {
	SiteURL         string `json:"siteUrl"`
	PermissionLevel string `json:"permissionLevel"`
	Verified        bool   `json:"verified"`
}

// OAuthData is the long-lived session payload held by the encrypted OAuth
// cookie. After site setup the tokens move to the oauth_tokens table and the
// cookie keeps identifiers only.
type OAuthData struct {
	Profile       Profile        `json:"profile"`
	Tokens        Tokens         `json:"tokens"`
	TenantID      string         `json:"tenantId"`
	Timestamp     time.Time      `json:"timestamp"`
	SelectedSites *SelectedSites `json:"selectedSites,omitempty"`
	SiteID        string         `json:"site_id,omitempty"`
	UserID        string         `json:"user_id,omitempty"`
}

// TokenRecord is an oauth_tokens row. The token columns hold ciphertext.
type TokenRecord struct {
	ID           string    `json:"id" db:"id"`
	UserID       string    `json:"user_id" db:"user_id"`
	Provider     string    `json:"provider" db:"provider"`
	AccessToken  string    `json:"-" db:"access_token"`
	RefreshToken string    `json:"-" db:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at" db:"expires_at"`
	Scopes       []string  `json:"scopes" db:"scopes"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

const ProviderGoogle = "google"
