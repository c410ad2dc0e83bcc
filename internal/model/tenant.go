package model

import "time"

type Tenant struct {
	ID        string         `json:"id" db:"id"`
	Name      string         `json:"name" db:"name"`
	Plan      string         `json:"plan" db:"plan"`
	Settings  map[string]any `json:"settings" db:"settings"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}

const (
	PlanFree       = "free"
	PlanStarter    = "starter"
	PlanPro        = "pro"
	PlanEnterprise = "enterprise"
)
