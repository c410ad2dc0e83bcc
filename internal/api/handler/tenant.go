package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/seolens/seolens/internal/api/request"
	"github.com/seolens/seolens/internal/api/response"
	"github.com/seolens/seolens/internal/core"
	"github.com/seolens/seolens/internal/model"
	"github.com/seolens/seolens/internal/platform"
)

type Tenant struct {
	services *core.Services
}

func NewTenant(services *core.Services) *Tenant {
	return &Tenant{services: services}
}

func (h *Tenant) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateTenant
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	plan := req.Plan
	if plan == "" {
		plan = model.PlanFree
	}

	tenant := &model.Tenant{
		ID:        platform.NewID(),
		Name:      req.Name,
		Plan:      plan,
		Settings:  map[string]any{},
		CreatedAt: time.Now(),
	}
	if err := h.services.Tenant.Create(r.Context(), tenant); err != nil {
		writeCoreError(w, zerolog.Ctx(r.Context()), err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, tenant)
}

func (h *Tenant) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	tenant, err := h.services.Tenant.GetByID(r.Context(), id)
	if err != nil {
		response.WriteError(w, http.StatusNotFound, "tenant not found")
		return
	}
	response.WriteJSON(w, http.StatusOK, tenant)
}

func (h *Tenant) ListSites(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sites, err := h.services.Site.ListByTenant(r.Context(), id)
	if err != nil {
		writeCoreError(w, zerolog.Ctx(r.Context()), err)
		return
	}
	if sites == nil {
		sites = []model.Site{}
	}
	response.WriteJSON(w, http.StatusOK, map[string]any{"items": sites})
}
