package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.uber.org/zap"

	"github.com/Nazarious-ucu/city-weather/internal/config"
	"github.com/Nazarious-ucu/city-weather/internal/favorites"
	favoritesHandler "github.com/Nazarious-ucu/city-weather/internal/handlers/favorites"
	weatherHandler "github.com/Nazarious-ucu/city-weather/internal/handlers/weather"
	"github.com/Nazarious-ucu/city-weather/internal/models"
	"github.com/Nazarious-ucu/city-weather/internal/repository/memory"
	"github.com/Nazarious-ucu/city-weather/internal/repository/sqlite"
	"github.com/Nazarious-ucu/city-weather/internal/services/cache"
	loggerT "github.com/Nazarious-ucu/city-weather/internal/services/logger"
	metricsSvc "github.com/Nazarious-ucu/city-weather/internal/services/metrics"
	serviceWeather "github.com/Nazarious-ucu/city-weather/internal/services/weather"
	"github.com/Nazarious-ucu/city-weather/internal/services/weather/decorators"
	fLogger "github.com/Nazarious-ucu/city-weather/pkg/logger"
)

const (
	shutdownTimeout = 5 * time.Second
	pingTimeout     = 2 * time.Second

	dirMode = 0o755
)

type geocoder interface {
	Search(ctx context.Context, query string) ([]models.Location, error)
}

type kvStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// ServiceContainer holds initialized dependencies for the HTTP server.
type ServiceContainer struct {
	Resolver  *serviceWeather.Resolver
	Favorites *favorites.Store

	Router *gin.Engine
	Srv    *http.Server

	fileLogger *zap.Logger
	closers    []io.Closer
}

// App ties together config, logger and metrics for startup and shutdown.
type App struct {
	cfg config.Config
	l   zerolog.Logger
	reg *prometheus.Registry
	m   *metricsSvc.Metrics
}

// New prepares an App with its own metrics registry.
func New(cfg config.Config, logger zerolog.Logger) *App {
	reg := prometheus.NewRegistry()
	return &App{
		cfg: cfg,
		l:   logger,
		reg: reg,
		m:   metricsSvc.NewMetrics(cfg.ServiceName, reg),
	}
}

// Start initializes services, serves HTTP and blocks until ctx is cancelled
// or the server fails.
func (a *App) Start(ctx context.Context) error {
	srvContainer, err := a.Init(ctx)
	if err != nil {
		return err
	}

	a.l.Info().Str("address", a.cfg.Server.Address).Msg("starting city weather service")

	serveErr := make(chan error, 1)
	go func() {
		if err := srvContainer.Srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		a.l.Info().Msg("shutdown signal received")
	case err = <-serveErr:
		if err != nil {
			a.l.Error().Err(err).Msg("HTTP server failed")
		}
	}

	if shutdownErr := a.Shutdown(srvContainer); shutdownErr != nil {
		a.l.Error().Err(shutdownErr).Msg("failed to shutdown application")
		return errors.Join(err, shutdownErr)
	}
	a.l.Info().Msg("application shutdown successfully")
	return err
}

// Shutdown stops the HTTP server and releases storage, cache and loggers.
func (a *App) Shutdown(srvContainer ServiceContainer) error {
	a.l.Info().Msg("stopping city weather service…")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := srvContainer.Srv.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	} else {
		a.l.Info().Msg("HTTP server stopped")
	}

	for _, c := range srvContainer.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if srvContainer.fileLogger != nil {
		if err := srvContainer.fileLogger.Sync(); err != nil {
			a.l.Error().Err(err).Msg("failed to sync file logger")
		} else {
			a.l.Info().Msg("file logger synced successfully")
		}
	}

	a.l.Info().Msg("shutdown complete")
	return errors.Join(errs...)
}

// Init builds every component and registers routes without serving.
func (a *App) Init(ctx context.Context) (ServiceContainer, error) {
	a.l.Info().Msgf("initializing city weather service with config: %+v", a.cfg)

	var closers []io.Closer

	fileLogger, err := newHTTPFileLogger(a.cfg.HTTPLogsPath)
	if err != nil {
		a.l.Error().Err(err).Msg("failed to create file logger, outbound calls are not logged")
		fileLogger = zap.NewNop()
	}

	httpLogClient := &http.Client{
		Transport: loggerT.NewRoundTripper(fileLogger),
		Timeout:   a.cfg.ClientTimeout(),
	}

	breakerCfg := serviceWeather.BreakerConfig{
		TimeInterval: time.Duration(a.cfg.Breaker.TimeInterval) * time.Second,
		TimeTimeOut:  time.Duration(a.cfg.Breaker.TimeTimeOut) * time.Second,
		RepeatNumber: a.cfg.Breaker.RepeatNumber,
	}

	var geo geocoder = serviceWeather.NewBreakerGeocoder("Nominatim", breakerCfg,
		serviceWeather.NewNominatimClient(
			a.cfg.Nominatim.URL,
			a.cfg.Nominatim.UserAgent,
			a.cfg.Nominatim.Language,
			httpLogClient,
			a.l,
		),
	)
	forecaster := serviceWeather.NewBreakerForecaster("OpenMeteo", breakerCfg,
		serviceWeather.NewOpenMeteoClient(a.cfg.OpenMeteo.URL, httpLogClient, a.l),
	)

	if a.cfg.Redis.Enabled {
		redisClient := newRedisConnection(ctx, a.cfg.RedisAddress(), a.cfg.Redis.DbType, a.l)
		closers = append(closers, redisClient)

		cacheMetrics := cache.NewMetricsDecorator[[]models.Location](
			cache.NewRedisClient[[]models.Location](redisClient, a.l, a.cfg.CacheTTL()),
			metricsSvc.NewPromCollector(a.cfg.ServiceName, a.reg),
		)
		geo = decorators.NewCachedGeocoder(geo, cacheMetrics, a.l)
	}

	resolver := serviceWeather.NewResolver(a.l, geo, forecaster)

	kv, kvCloser, err := a.newKVStore(ctx)
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("open favorites storage: %w", err)
	}
	if kvCloser != nil {
		closers = append(closers, kvCloser)
	}
	store := favorites.NewStore(ctx, kv, a.l)

	router := gin.New()
	router.Use(gin.Recovery(), a.m.HTTPMiddleware())
	a.registerRoutes(router, resolver, store)

	httpServer := &http.Server{
		Addr:        a.cfg.Server.Address,
		Handler:     router,
		ReadTimeout: a.cfg.ReadTimeout(),
	}

	return ServiceContainer{
		Resolver:   resolver,
		Favorites:  store,
		Router:     router,
		Srv:        httpServer,
		fileLogger: fileLogger,
		closers:    closers,
	}, nil
}

func (a *App) registerRoutes(router *gin.Engine, resolver *serviceWeather.Resolver, store *favorites.Store) {
	wh := weatherHandler.NewHandler(resolver, store, a.m)
	fh := favoritesHandler.NewHandler(store, a.m)

	api := router.Group("/api")
	{
		api.GET("/weather", wh.GetWeather)
		api.GET("/favorites", fh.List)
		api.POST("/favorites", fh.Add)
		api.POST("/favorites/toggle", fh.Toggle)
		api.DELETE("/favorites/:id", fh.Remove)
	}

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(a.reg, promhttp.HandlerOpts{Registry: a.reg})))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

func (a *App) newKVStore(ctx context.Context) (kvStore, io.Closer, error) {
	switch a.cfg.Storage.Driver {
	case config.StorageMemory:
		a.l.Warn().Msg("using in-memory favorites storage, favorites are lost on exit")
		return memory.NewKVStore(), nil, nil
	default:
		if err := os.MkdirAll(filepath.Dir(a.cfg.Storage.Path), dirMode); err != nil {
			return nil, nil, err
		}
		kv, err := sqlite.NewKVStore(ctx, a.cfg.Storage.Path, a.l)
		if err != nil {
			return nil, nil, err
		}
		return kv, kv, nil
	}
}

func newHTTPFileLogger(path string) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return nil, err
	}
	return fLogger.NewFileLogger(path)
}

func newRedisConnection(ctx context.Context, addr string, dbType int, logger zerolog.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{Addr: addr, DB: dbType})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn().Err(err).Str("address", addr).Msg("redis unreachable, geocode cache will miss")
	}
	return client
}
