package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/shishobooks/circulation/pkg/binder"
	"github.com/shishobooks/circulation/pkg/books"
	"github.com/shishobooks/circulation/pkg/borrowers"
	"github.com/shishobooks/circulation/pkg/config"
	"github.com/shishobooks/circulation/pkg/errcodes"
	"github.com/shishobooks/circulation/pkg/lending"
	"github.com/shishobooks/circulation/pkg/metrics"
	"github.com/shishobooks/circulation/pkg/queries"
	"github.com/shishobooks/circulation/pkg/testutils"
	"github.com/uptrace/bun"
)

// New builds the HTTP server. A nil registry disables metrics collection and
// the /metrics route.
func New(cfg *config.Config, db *bun.DB, registry *metrics.Registry) (*http.Server, error) {
	e, err := newEcho(cfg, db, registry)
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func newEcho(cfg *config.Config, db *bun.DB, registry *metrics.Registry) (*echo.Echo, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b
	e.JSONSerializer = jsonSerializer{}

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORS())

	health.RegisterRoutes(e)

	var collector metrics.Collector = metrics.NoopCollector{}
	if registry != nil {
		collector = registry.Collector()
		metrics.RegisterRoutes(e, registry)
	}

	registerAPIRoutes(e, db, collector)

	if cfg.Environment == config.EnvironmentTest {
		testutils.RegisterRoutes(e, db)
	}

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	return e, nil
}

func registerAPIRoutes(e *echo.Echo, db *bun.DB, collector metrics.Collector) {
	api := e.Group("/api")

	booksGroup := api.Group("/books")
	books.RegisterRoutesWithGroup(booksGroup, db, collector)
	lending.RegisterRoutesWithGroup(booksGroup, db, collector)

	borrowersGroup := api.Group("/borrowers")
	borrowers.RegisterRoutesWithGroup(borrowersGroup, db, collector)

	queries.RegisterRoutes(booksGroup, borrowersGroup, db, collector)
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
