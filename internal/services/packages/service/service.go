// Package service implements the packages service
package service

import (
	"context"
	"errors"
	"time"

	"trove/internal/core/scorecard"
	"trove/internal/core/semver"
	"trove/internal/modkit/repokit"
	"trove/internal/platform/blob"
	perr "trove/internal/platform/errors"
	"trove/internal/platform/logger"
	"trove/internal/services/packages/domain"
)

// Config for the packages service
type Config struct {
	PageSize     int
	QueryTimeout time.Duration
}

// Service implements domain.ServicePort
type Service struct {
	DB      repokit.TxRunner
	Repo    repokit.Binder[domain.Repo]
	Blobs   blob.Store
	Fetcher domain.StatsFetcher
	Cfg     Config
}

var _ domain.ServicePort = (*Service)(nil)

// New constructs a new packages service
func New(
	db repokit.TxRunner,
	binder repokit.Binder[domain.Repo],
	blobs blob.Store,
	fetcher domain.StatsFetcher,
	cfg Config,
) *Service {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 10
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = 5 * time.Second
	}
	return &Service{DB: db, Repo: binder, Blobs: blobs, Fetcher: fetcher, Cfg: cfg}
}

// Query lists packages whose name and version match the given range
// expression. The page size is fixed; Offset walks subsequent pages.
// A query that outlives its deadline yields an empty page, not an error
func (s *Service) Query(ctx context.Context, in domain.QueryInput) ([]domain.Metadata, error) {
	rng, err := semver.Parse(in.Range)
	if err != nil {
		return nil, err
	}
	if in.Offset < 0 {
		return nil, perr.Validationf("offset %d is negative", in.Offset)
	}

	ctx, cancel := context.WithTimeout(ctx, s.Cfg.QueryTimeout)
	defer cancel()

	recs, err := s.Repo.Bind(s.DB).FindByRange(ctx, in.Name, rng, in.Offset, s.Cfg.PageSize)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) || perr.IsQueryCanceled(err) {
			logger.C(ctx).Warn().
				Str("name", in.Name).
				Str("range", rng.String()).
				Err(err).
				Msg("range query timed out; returning empty page")
			return []domain.Metadata{}, nil
		}
		return nil, err
	}

	out := make([]domain.Metadata, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Meta())
	}
	return out, nil
}

// ByID returns the stored metadata for one package
func (s *Service) ByID(ctx context.Context, id string) (domain.Metadata, error) {
	rec, err := s.Repo.Bind(s.DB).FindByID(ctx, id)
	if err != nil {
		return domain.Metadata{}, err
	}
	return rec.Meta(), nil
}

// RatingFor returns the stored rating for one package
func (s *Service) RatingFor(ctx context.Context, id string) (scorecard.Rating, error) {
	return s.Repo.Bind(s.DB).FindRating(ctx, id)
}

// Rate scores a source repository directly, without touching storage
func (s *Service) Rate(ctx context.Context, in domain.RateInput) (scorecard.Rating, error) {
	sig, err := s.Fetcher.Signals(ctx, in.Owner, in.Repo)
	if err != nil {
		return scorecard.Rating{}, err
	}
	return scorecard.Compute(sig), nil
}
