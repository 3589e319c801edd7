package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"trove/internal/adapters/github"
	"trove/internal/platform/blob"
	"trove/internal/platform/config"
	"trove/internal/platform/logger"
	"trove/internal/platform/store"

	pkgmod "trove/internal/services/packages/module"
)

func main() {
	_ = godotenv.Load()

	root := config.New()
	pgCfg := root.Prefix("TROVE_PGSQL_")
	ghCfg := root.Prefix("TROVE_GITHUB_")
	wrkCfg := root.Prefix("TROVE_RESCORE_")

	logger.Init(logger.FromEnv())
	l := logger.Get()

	var (
		fOnce     = flag.Bool("once", false, "run a single sweep and exit")
		fLimit    = flag.Int("limit", 100, "max packages per sweep")
		fInterval = flag.Duration("interval", wrkCfg.MayDuration("INTERVAL", 10*time.Minute), "sleep between sweeps")
	)
	flag.Parse()

	st, err := store.Open(context.Background(), store.Config{
		AppName: "trove-rescore",
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 2)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	blobs, err := blob.NewFS(wrkCfg.MayString("BLOB_DIR", "./data/archives"))
	if err != nil {
		l.Panic().Err(err).Msg("blob store init failed")
	}

	gh := github.NewClient(github.Options{
		TokensCSV: ghCfg.MayString("TOKENS", ""),
		UserAgent: "trove-rescore",
	})

	pkgs := pkgmod.New(pkgmod.Deps{
		PG:      st.PG,
		Blobs:   blobs,
		Fetcher: gh,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		n, err := pkgs.Service().RescoreMissing(ctx, *fLimit)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			l.Error().Err(err).Msg("rescore sweep failed")
		} else {
			l.Info().Int("scored", n).Msg("rescore sweep done")
		}
		if *fOnce {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(*fInterval):
		}
	}
}
