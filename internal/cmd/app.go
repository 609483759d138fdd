package cmd

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"pkgscout/internal/app"
	"pkgscout/internal/cache"
	"pkgscout/internal/complete"
	"pkgscout/internal/domain"
	"pkgscout/internal/metrics"
	"pkgscout/internal/platform"
	"pkgscout/internal/search"
	"pkgscout/internal/sources"
	"pkgscout/internal/telemetry"
)

// appContext carries the constructed components plus their cleanup hooks.
type appContext struct {
	cfg      app.Config
	logger   *slog.Logger
	cleanups []func()
}

var initialized *appContext

// setup builds shared infrastructure once per process: config, logger,
// metrics, tracing. Individual commands construct only the components they
// need on top of it.
func setup() *appContext {
	if initialized != nil {
		return initialized
	}

	cfg := app.LoadConfig()
	logger := newLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	metrics.Register(prometheus.DefaultRegisterer)

	a := &appContext{cfg: cfg, logger: logger}

	shutdownTracer, err := telemetry.Init(context.Background(), "pkgscout")
	if err != nil {
		logger.Warn("otel init failed", slog.String("error", err.Error()))
	}
	if shutdownTracer != nil {
		a.cleanups = append(a.cleanups, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = shutdownTracer(ctx)
		})
	}

	if addr := strings.TrimSpace(cfg.MetricsAddr); addr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(addr, mux); err != nil {
				logger.Warn("metrics listener failed", slog.String("error", err.Error()))
			}
		}()
	}

	initialized = a
	return a
}

func (a *appContext) close() {
	for i := len(a.cleanups) - 1; i >= 0; i-- {
		a.cleanups[i]()
	}
	a.cleanups = nil
}

func newLogger(levelRaw, formatRaw string) *slog.Logger {
	options := &slog.HandlerOptions{Level: parseLogLevel(levelRaw)}
	if strings.ToLower(strings.TrimSpace(formatRaw)) == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, options))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, options))
}

func parseLogLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// buildSources assembles the adapter set for this host. Native package
// managers follow the detected distro family; flatpak and snap apply
// everywhere; the AUR joins on Arch family systems. allSources overrides
// detection and enables everything.
func (a *appContext) buildSources(allSources bool) []search.Source {
	aurClient := &http.Client{
		Timeout:   a.cfg.RequestTimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	aur := sources.NewAUR(sources.AURConfig{
		Endpoint:  a.cfg.AUREndpoint,
		UserAgent: a.cfg.UserAgent,
		Client:    aurClient,
	})

	bySource := map[domain.Source]search.Source{
		domain.SourcePacman: sources.NewPacman(),
		domain.SourceAUR:    aur,
		domain.SourceAPT:    sources.NewAPT(),
		domain.SourceDNF:    sources.NewDNF(),
	}

	var selected []search.Source
	if allSources {
		for _, src := range []domain.Source{domain.SourcePacman, domain.SourceAUR, domain.SourceAPT, domain.SourceDNF} {
			selected = append(selected, bySource[src])
		}
	} else {
		family := platform.Detect()
		a.logger.Debug("detected platform", "family", family)
		for _, src := range platform.NativeSources(family) {
			if adapter, ok := bySource[src]; ok {
				selected = append(selected, adapter)
			}
		}
		if len(selected) == 0 {
			// Unknown distro: try every native manager and let the missing
			// ones fail fast as not-found.
			for _, src := range []domain.Source{domain.SourcePacman, domain.SourceAUR, domain.SourceAPT, domain.SourceDNF} {
				selected = append(selected, bySource[src])
			}
		}
	}

	selected = append(selected, sources.NewFlatpak(), sources.NewSnap())
	return selected
}

// buildSearchService constructs the aggregator with its cache attached.
func (a *appContext) buildSearchService(allSources bool) *search.Service {
	opts := []search.Option{search.WithLogger(a.logger)}
	if c := a.buildCache(); c != nil {
		opts = append(opts, search.WithCache(c))
	}
	return search.NewService(a.buildSources(allSources), opts...)
}

// buildCache opens the result cache: Redis when configured and reachable,
// the local sqlite store otherwise, nil when caching is disabled or every
// backend fails. A nil cache disables caching without failing the command.
func (a *appContext) buildCache() *cache.Cache {
	if a.cfg.CacheDisabled {
		return nil
	}

	var store cache.Store
	if redisURL := strings.TrimSpace(a.cfg.RedisURL); redisURL != "" {
		redisOpts, err := redis.ParseURL(redisURL)
		if err != nil {
			a.logger.Warn("invalid redis url, falling back to local cache", slog.String("error", err.Error()))
		} else {
			client := redis.NewClient(redisOpts)
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			err := client.Ping(pingCtx).Err()
			cancel()
			if err != nil {
				a.logger.Warn("redis unreachable, falling back to local cache", slog.String("error", err.Error()))
				_ = client.Close()
			} else {
				store = cache.NewRedisStore(client)
			}
		}
	}

	if store == nil {
		sqlStore, err := cache.OpenSQLStore(filepath.Join(a.cfg.CacheDir, "results.db"))
		if err != nil {
			a.logger.Warn("result cache unavailable", slog.String("error", err.Error()))
			return nil
		}
		store = sqlStore
	}

	c := cache.New(store,
		cache.WithTTL(a.cfg.CacheTTL),
		cache.WithMaxEntries(a.cfg.CacheMaxEntries),
		cache.WithCacheLogger(a.logger))
	a.cleanups = append(a.cleanups, func() { _ = c.Close() })
	return c
}

// buildCompletionEngine constructs the completion engine with persistent
// usage history when the store can be opened.
func (a *appContext) buildCompletionEngine() *complete.Engine {
	opts := []complete.EngineOption{complete.WithEngineLogger(a.logger)}

	store, err := complete.OpenUsageStore(filepath.Join(a.cfg.CacheDir, "usage.db"))
	if err != nil {
		a.logger.Warn("usage history unavailable", slog.String("error", err.Error()))
	} else {
		opts = append(opts, complete.WithUsageStore(store))
	}
	eng := complete.NewEngine(complete.DefaultCatalog(), opts...)
	a.cleanups = append(a.cleanups, func() { _ = eng.Close(context.Background()) })
	return eng
}
