// Package api composes the HTTP surface of the registry
package api

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"trove/internal/modkit/httpkit"
	"trove/internal/platform/blob"
	"trove/internal/platform/config"
	"trove/internal/platform/logger"
	tnet "trove/internal/platform/net"
	phttp "trove/internal/platform/net/http"
	"trove/internal/platform/net/middleware"
	"trove/internal/platform/store"
	"trove/internal/services/packages/domain"
	pkgmod "trove/internal/services/packages/module"
)

// Options are the API options
type Options struct {
	Config  config.Conf
	Store   *store.Store
	Blobs   blob.Store
	Fetcher domain.StatsFetcher
}

// Mount mounts the API service onto the given router and returns the
// packages module so workers can share its service port
func Mount(r phttp.Router, opt Options) *pkgmod.Module {
	pkgs := pkgmod.New(pkgmod.Deps{
		PG:           opt.Store.PG,
		Blobs:        opt.Blobs,
		Fetcher:      opt.Fetcher,
		PageSize:     opt.Config.MayInt("PAGE_SIZE", 10),
		QueryTimeout: opt.Config.MayDuration("QUERY_TIMEOUT", 5*time.Second),
	})

	stack := []func(http.Handler) http.Handler{
		chimw.RequestID,
		requestLogger,
		cors.Handler(cors.Options{
			AllowedOrigins: opt.Config.MayCSV("CORS_ORIGINS", []string{"*"}),
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
			MaxAge:         300,
		}),
		middleware.RecoverJSON,
		middleware.AccessLogZerolog(middleware.AccessLogOptions{
			Slow: opt.Config.MayDuration("SLOW_REQUEST", 2*time.Second),
		}),
	}

	httpkit.MountUnder(r, "/api/v1", stack, func(api httpkit.Router) {
		pkgs.MountRoutes(api)
	})
	return pkgs
}

// requestLogger threads the chi request id into the request-scoped logger
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logger.WithRequest(r.Context(), tnet.RequestID(r.Context()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
