// Package api provides the SEO dashboard REST API: the Google OAuth flow,
// property discovery, site setup and the reporting endpoints.
package api
