package main // Entry point package

import (
	"context"      // shutdown deadline
	"database/sql" // shared connection pool
	"errors"       // errors.Is for the server close error
	"net/http"     // http.ErrServerClosed
	"os"           // os.Interrupt
	"os/signal"    // graceful shutdown on SIGINT/SIGTERM
	"syscall"      // SIGTERM
	"time"         // timeouts

	"github.com/google/uuid"                        // request ids
	"github.com/labstack/echo/v4"                   // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware" // stock middleware
	"github.com/redis/go-redis/v9"                  // optional Redis client

	"github.com/iliyamo/venue-booking/internal/config"     // environment config
	"github.com/iliyamo/venue-booking/internal/database"   // connection and migrations
	"github.com/iliyamo/venue-booking/internal/handler"    // page and form handlers
	"github.com/iliyamo/venue-booking/internal/logging"    // zerolog wrapper
	"github.com/iliyamo/venue-booking/internal/metrics"    // Prometheus middleware
	"github.com/iliyamo/venue-booking/internal/middleware" // rate limiter and request log
	"github.com/iliyamo/venue-booking/internal/notify"     // flash stores
	"github.com/iliyamo/venue-booking/internal/queue"      // listing events
	"github.com/iliyamo/venue-booking/internal/render"     // HTML templates
	"github.com/iliyamo/venue-booking/internal/repository" // SQL repositories
	"github.com/iliyamo/venue-booking/internal/router"     // route table
	"github.com/iliyamo/venue-booking/internal/service"    // catalog
)

func main() {
	cfg, err := config.Load() // Load environment config
	if err != nil {
		logging.Fatal().Err(err).Msg("config")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	db, dialect, err := openDB(cfg)
	if err != nil {
		logging.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("open database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = database.Migrate(ctx, db, dialect)
	cancel()
	if err != nil {
		logging.Fatal().Err(err).Msg("migrate")
	}

	rdb := config.NewRedisClient() // nil when Redis is disabled or unreachable
	if rdb == nil {
		logging.Info().Msg("redis unavailable: rate limiting off, cookie flash store")
	} else {
		defer rdb.Close()
	}

	var opts []service.Option
	opts = append(opts, service.WithLocation(cfg.Location()))
	if cfg.RabbitURL != "" {
		opts = append(opts, service.WithPublisher(queue.NewPublisher(cfg.RabbitURL, cfg.Exchange)))
	}
	cat := service.NewCatalog(db,
		repository.NewVenueRepo(db),
		repository.NewArtistRepo(db),
		repository.NewShowRepo(db),
		opts...,
	)

	pages, err := render.New()
	if err != nil {
		logging.Fatal().Err(err).Msg("parse templates")
	}

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = pages
	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger())
	e.Use(metrics.Middleware())

	h := handler.New(cat, flashStore(cfg, rdb), cfg.Location())
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	router.RegisterRoutes(e, h, limiter) // Register application routes

	addr := ":" + cfg.Port
	go func() {
		logging.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("server stopped")
		}
	}()

	stop, release := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer release()
	<-stop.Done()

	shutdown, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	if err := e.Shutdown(shutdown); err != nil {
		logging.Err(err).Msg("shutdown")
	}
	logging.Info().Msg("stopped")
}

func openDB(cfg config.Config) (*sql.DB, database.Dialect, error) {
	if cfg.DBDriver == config.DriverSQLite {
		db, err := database.OpenSQLite(cfg.SQLitePath)
		return db, database.SQLite, err
	}
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	return db, database.MySQL, err
}

// flashStore picks where flash messages live between requests.  Redis is
// used only when configured and reachable.
func flashStore(cfg config.Config, rdb *redis.Client) notify.Store {
	secure := cfg.Env == "prod"
	if cfg.FlashStore == config.FlashRedis {
		if rdb != nil {
			return notify.NewRedisStore(rdb, 10*time.Minute, secure)
		}
		logging.Warn().Msg("FLASH_STORE=redis but redis is unavailable, using cookies")
	}
	return notify.NewCookieStore(secure)
}
