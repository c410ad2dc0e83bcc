package model

import "time"

type Site struct {
	ID             string    `json:"id" db:"id"`
	TenantID       string    `json:"tenant_id" db:"tenant_id"`
	Domain         string    `json:"domain" db:"domain"`
	Name           string    `json:"name" db:"name"`
	GA4PropertyID  *string   `json:"ga4_property_id" db:"ga4_property_id"`
	GSCPropertyURL *string   `json:"gsc_property_url" db:"gsc_property_url"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
