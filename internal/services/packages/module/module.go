// Package module wires the packages service together
package module

import (
	"time"

	"trove/internal/modkit/httpkit"
	"trove/internal/modkit/repokit"
	"trove/internal/platform/blob"
	"trove/internal/services/packages/domain"
	pkghttp "trove/internal/services/packages/http"
	pkgrepo "trove/internal/services/packages/repo"
	pkgsvc "trove/internal/services/packages/service"
)

// Deps carries everything the packages module needs from the platform
type Deps struct {
	PG      repokit.TxRunner
	Blobs   blob.Store
	Fetcher domain.StatsFetcher

	PageSize     int
	QueryTimeout time.Duration
}

// Module owns the packages service and its transport
type Module struct {
	svc domain.ServicePort
}

// New constructs the packages module
func New(deps Deps) *Module {
	svc := pkgsvc.New(deps.PG, pkgrepo.NewPG(), deps.Blobs, deps.Fetcher, pkgsvc.Config{
		PageSize:     deps.PageSize,
		QueryTimeout: deps.QueryTimeout,
	})
	return &Module{svc: svc}
}

// Service exposes the business port for other modules and workers
func (m *Module) Service() domain.ServicePort { return m.svc }

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	pkghttp.Register(r, m.svc)
}
