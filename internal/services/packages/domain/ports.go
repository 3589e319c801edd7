package domain

import (
	"context"

	"trove/internal/core/scorecard"
	"trove/internal/core/semver"
)

// ServicePort is the business surface consumed by HTTP handlers and the
// rescore worker
type ServicePort interface {
	Ingest(ctx context.Context, in UploadInput) (Metadata, error)
	Query(ctx context.Context, in QueryInput) ([]Metadata, error)
	ByID(ctx context.Context, id string) (Metadata, error)
	RatingFor(ctx context.Context, id string) (scorecard.Rating, error)
	Rate(ctx context.Context, in RateInput) (scorecard.Rating, error)
	RescoreMissing(ctx context.Context, limit int) (int, error)
}

// Repo is the persistence surface for package metadata, history and ratings
type Repo interface {
	Insert(ctx context.Context, rec Record) error
	Exists(ctx context.Context, id string) (bool, error)
	FindByID(ctx context.Context, id string) (Record, error)
	FindByRange(ctx context.Context, name string, rng semver.Range, offset, limit int) ([]Record, error)

	UserExists(ctx context.Context, userID string) (bool, error)

	InsertHistory(ctx context.Context, e HistoryEntry) error
	HistoryExists(ctx context.Context, packageID string) (bool, error)

	InsertRating(ctx context.Context, packageID string, r scorecard.Rating) error
	FindRating(ctx context.Context, packageID string) (scorecard.Rating, error)
	MissingRatings(ctx context.Context, limit int) ([]Record, error)
}

// Record is a stored package row. RepoURL keeps the resolved source
// repository so ratings can be recomputed later
type Record struct {
	ID      string
	Name    string
	Version string
	RepoURL string
}

// Meta converts a stored row to its wire shape
func (r Record) Meta() Metadata {
	return Metadata{ID: r.ID, Name: r.Name, Version: r.Version}
}

// StatsFetcher resolves registry links and pulls repository signals from
// the source host
type StatsFetcher interface {
	Signals(ctx context.Context, owner, repo string) (scorecard.Signals, error)
	ResolveRegistryURL(ctx context.Context, url string) (string, error)
}
