// Package http provides http transport for the packages service
package http

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"

	"trove/internal/modkit/httpkit"
	"trove/internal/services/packages/domain"
)

// Register mounts package endpoints on the given router
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}

	// paged directory query by name and version range
	httpkit.PostJSON[domain.QueryInput](r, "/packages", h.query)

	// upload one archive
	httpkit.PostJSON[domain.UploadInput](r, "/package", h.upload)

	// score a repository without ingesting anything
	httpkit.PostJSON[domain.RateInput](r, "/package/rate", h.rate)

	httpkit.Get(r, "/package/{id}", h.byID)
	httpkit.Get(r, "/package/{id}/rate", h.ratingFor)
}

type handlers struct{ svc domain.ServicePort }

func (h *handlers) query(r *stdhttp.Request, in domain.QueryInput) (any, error) {
	return h.svc.Query(r.Context(), in)
}

func (h *handlers) upload(r *stdhttp.Request, in domain.UploadInput) (any, error) {
	return h.svc.Ingest(r.Context(), in)
}

func (h *handlers) rate(r *stdhttp.Request, in domain.RateInput) (any, error) {
	return h.svc.Rate(r.Context(), in)
}

func (h *handlers) byID(r *stdhttp.Request) (any, error) {
	return h.svc.ByID(r.Context(), chi.URLParam(r, "id"))
}

func (h *handlers) ratingFor(r *stdhttp.Request) (any, error) {
	return h.svc.RatingFor(r.Context(), chi.URLParam(r, "id"))
}
