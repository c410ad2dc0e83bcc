package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/seolens/seolens/internal/model"
	"github.com/seolens/seolens/internal/platform"
)

type UserService struct {
	db DB
}

func NewUserService(db DB) *UserService {
	return &UserService{db: db}
}

// FindOrCreate resolves a tenant user for a Google profile, creating the
// account on first sign-in.
func (s *UserService) FindOrCreate(ctx context.Context, tenantID string, profile model.Profile) (*model.User, error) {
	var u model.User
	err := s.db.QueryRow(ctx,
		`SELECT id, tenant_id, email, name, role, created_at FROM users
		 WHERE tenant_id = $1 AND email = $2`,
		tenantID, profile.Email,
	).Scan(&u.ID, &u.TenantID, &u.Email, &u.Name, &u.Role, &u.CreatedAt)
	if err == nil {
		return &u, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	u = model.User{
		ID:        platform.NewID(),
		TenantID:  tenantID,
		Email:     profile.Email,
		Name:      profile.Name,
		Role:      model.RoleAdmin,
		CreatedAt: time.Now(),
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO users (id, tenant_id, email, name, role, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.TenantID, u.Email, u.Name, u.Role, u.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &u, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	err := s.db.QueryRow(ctx,
		`SELECT id, tenant_id, email, name, role, created_at FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.TenantID, &u.Email, &u.Name, &u.Role, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return &u, nil
}
