// Package repo provides Postgres bindings for domain.Repo
package repo

import (
	"context"
	"fmt"
	"strings"

	"trove/internal/core/scorecard"
	"trove/internal/core/semver"
	"trove/internal/modkit/repokit"
	perr "trove/internal/platform/errors"
	"trove/internal/services/packages/domain"

	goversion "github.com/hashicorp/go-version"
)

type (
	// PG is a Postgres binder for domain.Repo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// Compile-time assertion: queries implements domain.Repo
var _ domain.Repo = (*queries)(nil)

// NewPG returns a Postgres binder for Repo
func NewPG() repokit.Binder[domain.Repo] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) domain.Repo { return &queries{q: q} }

// Insert stores one package row
func (r *queries) Insert(ctx context.Context, rec domain.Record) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO packages (id, name, version, repo_url)
		VALUES ($1::uuid, $2, $3, $4)
	`, rec.ID, rec.Name, rec.Version, rec.RepoURL)
	if err != nil {
		return perr.FromPostgres(err, "insert package")
	}
	return nil
}

// Exists reports whether a package row with the given id is present
func (r *queries) Exists(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM packages WHERE id = $1::uuid)
	`, id).Scan(&ok)
	if err != nil {
		return false, perr.FromPostgres(err, "exists package")
	}
	return ok, nil
}

// FindByID loads one package row
func (r *queries) FindByID(ctx context.Context, id string) (domain.Record, error) {
	var rec domain.Record
	err := r.q.QueryRow(ctx, `
		SELECT id::text, name, version, repo_url
		FROM packages
		WHERE id = $1::uuid
	`, id).Scan(&rec.ID, &rec.Name, &rec.Version, &rec.RepoURL)
	if err != nil {
		if strings.Contains(err.Error(), "no rows") {
			return domain.Record{}, perr.NotFoundf("package %s not found", id)
		}
		return domain.Record{}, perr.FromPostgres(err, "find package")
	}
	return rec, nil
}

// FindByRange lists package rows whose version falls inside rng.
// Versions are compared component-wise as integer arrays so 1.10.0
// orders after 1.9.0. Name "*" matches every package. Results are
// ordered by name then version so paging is stable
func (r *queries) FindByRange(
	ctx context.Context,
	name string, rng semver.Range,
	offset, limit int,
) ([]domain.Record, error) {
	lo, loInc := triplet(rng.Min), rng.MinInclusive
	hi, hiInc := triplet(rng.Max), rng.MaxInclusive

	rows, err := r.q.Query(ctx, `
		SELECT id::text, name, version, repo_url
		FROM packages
		WHERE ($1 = '*' OR name = $1)
		  AND version ~ '^\d+\.\d+\.\d+$'
		  AND (string_to_array(version, '.')::int[] > string_to_array($2, '.')::int[]
		       OR ($3 AND string_to_array(version, '.')::int[] = string_to_array($2, '.')::int[]))
		  AND (string_to_array(version, '.')::int[] < string_to_array($4, '.')::int[]
		       OR ($5 AND string_to_array(version, '.')::int[] = string_to_array($4, '.')::int[]))
		ORDER BY name, string_to_array(version, '.')::int[]
		OFFSET $6 LIMIT $7
	`, name, lo, loInc, hi, hiInc, offset, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "query packages")
	}
	defer rows.Close()

	out := make([]domain.Record, 0, limit)
	for rows.Next() {
		var rec domain.Record
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Version, &rec.RepoURL); err != nil {
			return nil, fmt.Errorf("scan package row: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, perr.FromPostgres(err, "query packages")
	}
	return out, nil
}

// triplet renders one range bound as a dotted triplet for SQL array
// comparison. Segments pads missing components with zeros
func triplet(v *goversion.Version) string {
	seg := v.Segments()
	return fmt.Sprintf("%d.%d.%d", seg[0], seg[1], seg[2])
}

// UserExists reports whether the uploading user is registered
func (r *queries) UserExists(ctx context.Context, userID string) (bool, error) {
	var ok bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE id = $1::uuid)
	`, userID).Scan(&ok)
	if err != nil {
		return false, perr.FromPostgres(err, "exists user")
	}
	return ok, nil
}

// InsertHistory appends one audit record
func (r *queries) InsertHistory(ctx context.Context, e domain.HistoryEntry) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO package_history (package_id, user_id, action, at)
		VALUES ($1::uuid, $2::uuid, $3, $4)
	`, e.PackageID, e.UserID, e.Action, e.At)
	if err != nil {
		return perr.FromPostgres(err, "insert history")
	}
	return nil
}

// HistoryExists reports whether any audit record references the package
func (r *queries) HistoryExists(ctx context.Context, packageID string) (bool, error) {
	var ok bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM package_history WHERE package_id = $1::uuid)
	`, packageID).Scan(&ok)
	if err != nil {
		return false, perr.FromPostgres(err, "exists history")
	}
	return ok, nil
}

// InsertRating upserts the stored rating for one package
func (r *queries) InsertRating(ctx context.Context, packageID string, s scorecard.Rating) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO package_ratings (
			package_id, ramp_up, correctness, bus_factor,
			responsive_maintainer, license, good_pinning_practice,
			pull_request, net_score
		)
		VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (package_id) DO UPDATE SET
			ramp_up = EXCLUDED.ramp_up,
			correctness = EXCLUDED.correctness,
			bus_factor = EXCLUDED.bus_factor,
			responsive_maintainer = EXCLUDED.responsive_maintainer,
			license = EXCLUDED.license,
			good_pinning_practice = EXCLUDED.good_pinning_practice,
			pull_request = EXCLUDED.pull_request,
			net_score = EXCLUDED.net_score
	`, packageID,
		s.RampUp, s.Correctness, s.BusFactor,
		s.ResponsiveMaintainer, s.License, s.GoodPinningPractice,
		s.PullRequest, s.NetScore,
	)
	if err != nil {
		return perr.FromPostgres(err, "insert rating")
	}
	return nil
}

// FindRating loads the stored rating for one package
func (r *queries) FindRating(ctx context.Context, packageID string) (scorecard.Rating, error) {
	var s scorecard.Rating
	err := r.q.QueryRow(ctx, `
		SELECT ramp_up, correctness, bus_factor,
		       responsive_maintainer, license, good_pinning_practice,
		       pull_request, net_score
		FROM package_ratings
		WHERE package_id = $1::uuid
	`, packageID).Scan(
		&s.RampUp, &s.Correctness, &s.BusFactor,
		&s.ResponsiveMaintainer, &s.License, &s.GoodPinningPractice,
		&s.PullRequest, &s.NetScore,
	)
	if err != nil {
		if strings.Contains(err.Error(), "no rows") {
			return scorecard.Rating{}, perr.NotFoundf("no rating for package %s", packageID)
		}
		return scorecard.Rating{}, perr.FromPostgres(err, "find rating")
	}
	return s, nil
}

// MissingRatings lists packages that have a resolved repository but no
// stored rating, oldest first
func (r *queries) MissingRatings(ctx context.Context, limit int) ([]domain.Record, error) {
	rows, err := r.q.Query(ctx, `
		SELECT p.id::text, p.name, p.version, p.repo_url
		FROM packages p
		LEFT JOIN package_ratings pr ON pr.package_id = p.id
		WHERE pr.package_id IS NULL
		  AND p.repo_url <> ''
		ORDER BY p.created_at
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "missing ratings")
	}
	defer rows.Close()

	out := make([]domain.Record, 0, limit)
	for rows.Next() {
		var rec domain.Record
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Version, &rec.RepoURL); err != nil {
			return nil, fmt.Errorf("scan package row: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, perr.FromPostgres(err, "missing ratings")
	}
	return out, nil
}
