package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/jgivc/sitemapgen/internal/adapter/fsadapter"
	"github.com/jgivc/sitemapgen/internal/adapter/xmladapter"
	"github.com/jgivc/sitemapgen/internal/config"
	httphandler "github.com/jgivc/sitemapgen/internal/handler/http"
	"github.com/jgivc/sitemapgen/internal/repository/sitemap"
	ssitemap "github.com/jgivc/sitemapgen/internal/service/sitemap"
	"github.com/redis/go-redis/v9"
)

const (
	pingTimeout     = 5 * time.Second
	shutdownTimeout = 5 * time.Second
)

var (
	ErrPublishNotConfigured = errors.New("publish.redis_url is not set")

	errStopped = errors.New("app is stopped")
)

type App struct {
	cfgPath string
	cfg     *config.Config
	rdb     *redis.Client
	srv     *http.Server
	mu      sync.Mutex
	stopped bool
	out     io.Writer
	log     *slog.Logger
}

func New(cfgPath string) *App {
	return &App{
		cfgPath: cfgPath,
		out:     os.Stdout,
	}
}

func (a *App) init() error {
	if a.cfg != nil {
		return nil
	}

	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = newLogger(cfg.LogLevel)

	if cfg.Publish.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.Publish.RedisURL)
		if err != nil {
			return fmt.Errorf("cannot parse redis url: %w", err)
		}

		rdb := redis.NewClient(opt)

		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		defer cancel()

		if _, err := rdb.Ping(ctx).Result(); err != nil {
			rdb.Close()

			return fmt.Errorf("cannot connect to redis: %w", err)
		}

		a.mu.Lock()
		defer a.mu.Unlock()

		if a.stopped {
			rdb.Close()

			return errStopped
		}

		a.rdb = rdb
	}

	return nil
}

func newLogger(level string) *slog.Logger {
	lo := &slog.HandlerOptions{}
	switch level {
	case config.LogLevelWarn:
		lo.Level = slog.LevelWarn
	case config.LogLevelError:
		lo.Level = slog.LevelError
	case config.LogLevelDebug:
		lo.Level = slog.LevelDebug
	default:
		lo.Level = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, lo))
}

/*
Generate loads the site, writes the sitemap and publishes it when redis is
configured. Diagnostics are printed one per line.
*/
func (a *App) Generate(ctx context.Context) error {
	if err := a.init(); err != nil {
		return err
	}

	fsa, err := fsadapter.NewFSAdapter(a.cfg.LoaderConfig(), a.log)
	if err != nil {
		return err
	}

	site, err := fsa.Load()
	if err != nil {
		return fmt.Errorf("cannot load site: %w", err)
	}

	var publisher ssitemap.Publisher
	if a.rdb != nil {
		publisher = sitemap.NewSitemapRepository(a.rdb, a.cfg.Publish.KeyPrefix, a.log)
	}

	gen := ssitemap.NewGenerator(a.cfg, xmladapter.NewRenderer(), fsadapter.NewWriter(a.log), publisher, a.log)

	doc, err := gen.Generate(ctx, site)
	if doc != nil {
		for _, d := range doc.Diagnostics {
			fmt.Fprintln(a.out, d.String())
		}
	}

	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s: %d urls\n", gen.OutputPath(), doc.URLCount)

	return nil
}

// Start serves the published sitemap. It returns once the listener is closed.
func (a *App) Start() error {
	if err := a.init(); err != nil {
		if errors.Is(err, errStopped) {
			return nil
		}

		return err
	}

	if a.rdb == nil {
		return ErrPublishNotConfigured
	}

	repo := sitemap.NewSitemapRepository(a.rdb, a.cfg.Publish.KeyPrefix, a.log)

	mux := http.NewServeMux()
	mux.Handle("GET "+a.cfg.Sitemap.Filename, httphandler.NewSitemapHandler(repo, a.log))

	srv := &http.Server{
		Addr:              a.cfg.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()

		return nil
	}
	a.srv = srv
	a.mu.Unlock()

	a.log.Info("Start listen", slog.String("addr", a.cfg.Listen), slog.String("path", a.cfg.Sitemap.Filename))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.log.Error("Could not serve", slog.String("listen_addr", a.cfg.Listen), slog.Any("error", err))

		return err
	}

	return nil
}

func (a *App) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.mu.Lock()
	a.stopped = true
	srv := a.srv
	rdb := a.rdb
	a.mu.Unlock()

	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			a.log.Error("Cannot shutdown server", slog.Any("error", err))
		}
	}

	if rdb != nil {
		rdb.Close()
	}
}
