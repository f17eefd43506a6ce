package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/arcanetranslator/arcane/pkg/binder"
	"github.com/arcanetranslator/arcane/pkg/chapters"
	"github.com/arcanetranslator/arcane/pkg/config"
	"github.com/arcanetranslator/arcane/pkg/database"
	"github.com/arcanetranslator/arcane/pkg/errcodes"
	"github.com/arcanetranslator/arcane/pkg/genres"
	"github.com/arcanetranslator/arcane/pkg/novels"
	"github.com/arcanetranslator/arcane/pkg/sources"
	"github.com/arcanetranslator/arcane/pkg/stats"
	"github.com/arcanetranslator/arcane/pkg/testutils"
	"github.com/arcanetranslator/arcane/pkg/translation"
	"github.com/arcanetranslator/arcane/pkg/version"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/uptrace/bun"
)

func New(cfg *config.Config, db *bun.DB, extractor translation.Extractor, translator translation.Translator) (*http.Server, error) {
	e := echo.New()
	e.HideBanner = true

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins(),
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}))
	if cfg.DatabaseDebug {
		e.Use(queryLogging)
	}

	health.RegisterRoutes(e)
	e.GET("/", root)

	novelsGroup := e.Group("/novels")
	novels.RegisterRoutesWithGroup(novelsGroup, db)
	chapters.RegisterRoutesWithGroup(novelsGroup, db)

	sources.RegisterRoutesWithGroup(e.Group("/sources"), db)
	stats.RegisterRoutesWithGroup(e.Group("/stats"), db)
	genres.RegisterRoutesWithGroup(e.Group("/genres"), db)

	// Static paths win over /novels/:id in echo's router, so /novels/extract
	// doesn't collide with the novel lookup.
	translation.RegisterRoutes(e, extractor, translator)

	if cfg.Environment == "test" {
		testutils.RegisterRoutes(e, db)
	}

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

// queryLogging turns on query logging for everything the request runs.
func queryLogging(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		c.SetRequest(req.WithContext(database.WithLogging(req.Context())))
		return next(c)
	}
}

func root(c echo.Context) error {
	return errors.WithStack(c.JSON(http.StatusOK, map[string]string{
		"message": "Novel Translation API",
		"version": version.Version,
	}))
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
