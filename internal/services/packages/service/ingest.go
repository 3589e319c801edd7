package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"trove/internal/adapters/archive"
	"trove/internal/adapters/github"
	"trove/internal/core/scorecard"
	"trove/internal/modkit/repokit"
	perr "trove/internal/platform/errors"
	"trove/internal/platform/logger"
	"trove/internal/services/packages/domain"
)

// ingestStep names one stage of the upload pipeline. Stages before the
// metadata write fail the whole request; the scoring and archive stages
// are best-effort and never undo committed rows
type ingestStep int

const (
	stepExtracting ingestStep = iota
	stepResolvingRepository
	stepCheckingDuplicate
	stepPersistingMetadata
	stepRecordingHistory
	stepScoringAndStoringRating
	stepStoringArchive
	stepDone
)

func (s ingestStep) String() string {
	switch s {
	case stepExtracting:
		return "extracting"
	case stepResolvingRepository:
		return "resolving_repository"
	case stepCheckingDuplicate:
		return "checking_duplicate"
	case stepPersistingMetadata:
		return "persisting_metadata"
	case stepRecordingHistory:
		return "recording_history"
	case stepScoringAndStoringRating:
		return "scoring_and_storing_rating"
	case stepStoringArchive:
		return "storing_archive"
	case stepDone:
		return "done"
	}
	return fmt.Sprintf("ingestStep(%d)", int(s))
}

// Ingest runs the upload pipeline: decode and extract the archive,
// resolve its source repository, persist metadata and an audit record in
// one transaction, then score the repository and store the raw archive.
// The last two stages log failures and move on; the committed metadata
// stays either way
func (s *Service) Ingest(ctx context.Context, in domain.UploadInput) (domain.Metadata, error) {
	log := logger.C(ctx)

	// extracting
	data, err := base64.StdEncoding.DecodeString(in.Content)
	if err != nil {
		return domain.Metadata{}, perr.Validationf("content is not valid base64: %v", err)
	}
	meta, manifest, err := archive.Extract(data)
	if err != nil {
		return domain.Metadata{}, stepErr(stepExtracting, err)
	}
	if meta.Name == "" || meta.Version == "" {
		return domain.Metadata{}, stepErr(stepExtracting,
			perr.MalformedArchivef("manifest is missing name or version"))
	}

	// resolving_repository
	repoURL, err := s.resolveRepository(ctx, manifest)
	if err != nil {
		return domain.Metadata{}, stepErr(stepResolvingRepository, err)
	}

	r := s.Repo.Bind(s.DB)

	// checking_duplicate: a package row or a prior audit record both mean
	// this upload was already processed
	if dup, err := r.Exists(ctx, meta.ID); err != nil {
		return domain.Metadata{}, stepErr(stepCheckingDuplicate, err)
	} else if dup {
		return domain.Metadata{}, stepErr(stepCheckingDuplicate,
			perr.Conflictf("package %s already exists", meta.ID))
	}
	if seen, err := r.HistoryExists(ctx, meta.ID); err != nil {
		return domain.Metadata{}, stepErr(stepCheckingDuplicate, err)
	} else if seen {
		return domain.Metadata{}, stepErr(stepCheckingDuplicate,
			perr.Conflictf("package %s was already processed", meta.ID))
	}

	rec := domain.Record{ID: meta.ID, Name: meta.Name, Version: meta.Version, RepoURL: repoURL}

	// persisting_metadata + recording_history commit together
	err = repokit.WithTx(ctx, s.DB, func(q repokit.Queryer) error {
		tr := s.Repo.Bind(q)

		if err := tr.Insert(ctx, rec); err != nil {
			return stepErr(stepPersistingMetadata, err)
		}

		ok, err := tr.UserExists(ctx, in.UserID)
		if err != nil {
			return stepErr(stepRecordingHistory, err)
		}
		if !ok {
			// a registered uploader is an invariant, not client input
			return stepErr(stepRecordingHistory,
				perr.DBf("uploading user %s is not registered", in.UserID))
		}
		return wrapStep(stepRecordingHistory, tr.InsertHistory(ctx, domain.HistoryEntry{
			PackageID: rec.ID,
			UserID:    in.UserID,
			Action:    domain.ActionCreate,
			At:        time.Now().UTC(),
		}))
	})
	if err != nil {
		return domain.Metadata{}, err
	}

	// scoring_and_storing_rating, best-effort
	if err := s.scoreAndStore(ctx, rec); err != nil {
		log.Warn().
			Str("step", stepScoringAndStoringRating.String()).
			Str("package_id", rec.ID).
			Err(err).
			Msg("rating skipped; package remains ingested")
	}

	// storing_archive, best-effort
	key := in.Filename
	if key == "" {
		key = fmt.Sprintf("%s-%s.zip", rec.Name, rec.Version)
	}
	if _, err := s.Blobs.Put(ctx, key, data); err != nil {
		log.Warn().
			Str("step", stepStoringArchive.String()).
			Str("package_id", rec.ID).
			Str("key", key).
			Err(err).
			Msg("archive not stored; package remains ingested")
	}

	log.Info().
		Str("step", stepDone.String()).
		Str("package_id", rec.ID).
		Str("name", rec.Name).
		Str("version", rec.Version).
		Msg("package ingested")
	return rec.Meta(), nil
}

// resolveRepository turns the manifest repository field into a canonical
// github.com URL, following a registry link when the manifest points at
// npm instead of the source host
func (s *Service) resolveRepository(ctx context.Context, m *archive.Manifest) (string, error) {
	url, err := m.RepoURL()
	if err != nil {
		return "", err
	}
	if github.IsRegistryURL(url) {
		resolved, err := s.Fetcher.ResolveRegistryURL(ctx, url)
		if err != nil {
			return "", err
		}
		url = resolved
	}
	if _, _, ok := github.ParseRepoURL(url); !ok {
		return "", perr.Validationf("repository link %q is not a github repository", url)
	}
	return url, nil
}

// scoreAndStore fetches repository signals, computes the rating and
// upserts it
func (s *Service) scoreAndStore(ctx context.Context, rec domain.Record) error {
	owner, repo, ok := github.ParseRepoURL(rec.RepoURL)
	if !ok {
		return perr.Validationf("stored repository link %q is not parseable", rec.RepoURL)
	}
	sig, err := s.Fetcher.Signals(ctx, owner, repo)
	if err != nil {
		return err
	}
	rating := scorecard.Compute(sig)
	return s.Repo.Bind(s.DB).InsertRating(ctx, rec.ID, rating)
}

func stepErr(step ingestStep, err error) error {
	return perr.WithOp(err, "ingest."+step.String())
}

func wrapStep(step ingestStep, err error) error {
	if err == nil {
		return nil
	}
	return stepErr(step, err)
}
