package main

import (
	"context"

	"github.com/joho/godotenv"

	"trove/internal/adapters/github"
	"trove/internal/platform/blob"
	"trove/internal/platform/config"
	"trove/internal/platform/logger"
	phttp "trove/internal/platform/net/http"
	"trove/internal/platform/store"

	"trove/internal/services/api"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	root := config.New()
	apiCfg := root.Prefix("TROVE_API_")
	pgCfg := root.Prefix("TROVE_PGSQL_")
	ghCfg := root.Prefix("TROVE_GITHUB_")

	logger.Init(logger.FromEnv())
	l := logger.Get()

	st, err := store.Open(
		context.Background(),
		store.Config{
			AppName: "trove-api",
			PG: store.PGConfig{
				Enabled:     true,
				URL:         pgCfg.MustString("DBURL"),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", false),
			},
		},
		store.WithLogger(*l),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	blobs, err := blob.NewFS(apiCfg.MayString("BLOB_DIR", "./data/archives"))
	if err != nil {
		l.Panic().Err(err).Msg("blob store init failed")
	}

	gh := github.NewClient(github.Options{
		TokensCSV: ghCfg.MayString("TOKENS", ""),
		UserAgent: "trove-api",
	})

	// http server (reads TROVE_API_PORT)
	srv := phttp.NewServer(apiCfg)

	api.Mount(
		srv.Router(),
		api.Options{
			Config:  apiCfg,
			Store:   st,
			Blobs:   blobs,
			Fetcher: gh,
		},
	)

	if err := srv.Run(context.Background()); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
