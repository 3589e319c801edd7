package service

import (
	"context"

	"trove/internal/platform/logger"
)

// RescoreMissing finds packages that were ingested without a rating and
// retries the scoring stage for each. Per-package failures are logged
// and skipped so one dead repository cannot stall the sweep. Returns the
// number of packages successfully scored
func (s *Service) RescoreMissing(ctx context.Context, limit int) (int, error) {
	if limit <= 0 {
		limit = 100
	}
	recs, err := s.Repo.Bind(s.DB).MissingRatings(ctx, limit)
	if err != nil {
		return 0, err
	}

	log := logger.C(ctx)
	scored := 0
	for _, rec := range recs {
		if err := ctx.Err(); err != nil {
			return scored, err
		}
		if err := s.scoreAndStore(ctx, rec); err != nil {
			log.Warn().
				Str("package_id", rec.ID).
				Str("repo_url", rec.RepoURL).
				Err(err).
				Msg("rescore failed; will retry next sweep")
			continue
		}
		scored++
	}
	return scored, nil
}
