// Package cli is the interactive console frontend: a small REPL over the
// session store, history synchronizer, and analysis services.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/verilens/verilens/internal/client/api"
	"github.com/verilens/verilens/internal/client/cache"
	"github.com/verilens/verilens/internal/client/config"
	"github.com/verilens/verilens/internal/client/events"
	"github.com/verilens/verilens/internal/client/history"
	"github.com/verilens/verilens/internal/client/migration"
	"github.com/verilens/verilens/internal/client/notify"
	"github.com/verilens/verilens/internal/client/services"
	"github.com/verilens/verilens/internal/client/session"
	"github.com/verilens/verilens/internal/logging"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// consoleNavigator fulfils the session store's navigation intent in a
// terminal: there is no page to redirect, so it tells the user what happened.
type consoleNavigator struct{}

func (consoleNavigator) NavigateToLogin() {
	printlnFn("Session ended. Please log in again with 'login'.")
}

type App struct {
	config    *config.Config
	api       api.Client
	cache     cache.Store
	bus       events.Bus
	sink      *notify.Sink
	engine    *migration.Engine
	session   *session.Store
	history   *history.Synchronizer
	analysis  *services.AnalysisService
	dashboard *services.DashboardService
	log       logging.Logger
	reader    *bufio.Reader

	unbind []func()
}

func NewApp(c *config.Config) (*App, error) {
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	store, err := cache.Open(cache.Options{Dir: c.CacheDir})
	if err != nil {
		return nil, fmt.Errorf("opening local cache: %w", err)
	}

	apiClient, err := api.NewHTTPClient(c.ServerEndpointAddr, log)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	bus := events.NewBus(log)
	sink := notify.NewSink()
	engine := migration.NewEngine(store, log)
	sess := session.NewStore(apiClient, store, engine, consoleNavigator{}, log)
	hist := history.NewSynchronizer(apiClient, store, sess, sink, log)
	analysis := services.NewAnalysisService(apiClient, store, sess, bus, sink, log)
	dashboard := services.NewDashboardService(apiClient, store, sess, sink, log)

	app := &App{
		config:    c,
		api:       apiClient,
		cache:     store,
		bus:       bus,
		sink:      sink,
		engine:    engine,
		session:   sess,
		history:   hist,
		analysis:  analysis,
		dashboard: dashboard,
		log:       log,
		reader:    bufio.NewReader(os.Stdin),
	}
	app.unbind = append(app.unbind, hist.Bind(bus), dashboard.Bind(bus))
	return app, nil
}

// Run restores any cached identity, reconciles it with the backend, and
// enters the REPL. Resources are released when the loop exits.
func (a *App) Run(ctx context.Context) {
	defer a.close()

	a.session.Restore(ctx)
	if status := a.session.CheckSession(ctx); status.Authenticated {
		printlnFn("Welcome back,", status.Identity.Username)
	}

	a.Root(ctx)
}

func (a *App) close() {
	for _, u := range a.unbind {
		u()
	}
	if err := a.api.Close(); err != nil {
		a.log.Warn(context.Background(), "closing api client", "error", err)
	}
	if err := a.cache.Close(); err != nil {
		a.log.Warn(context.Background(), "closing cache", "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.Current() != nil
}

func (a *App) isAdmin() bool {
	id := a.session.Current()
	return id != nil && id.IsAdmin()
}

// requestCtx bounds a non-analysis backend call with the configured timeout.
func (a *App) requestCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}
