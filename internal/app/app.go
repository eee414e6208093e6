package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/specialistvlad/pargrid/internal/config"
	"github.com/specialistvlad/pargrid/internal/ctxlog"
	"github.com/specialistvlad/pargrid/internal/localsession"
	"github.com/specialistvlad/pargrid/internal/session"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	config  *Config
	loader  config.Loader
	factory session.SessionFactory

	ctx        context.Context
	httpServer *http.Server
	metrics    *metrics
}

// Option customizes an App.
type Option func(*App)

// WithSessionFactory replaces the local session factory.
func WithSessionFactory(f session.SessionFactory) Option {
	return func(a *App) { a.factory = f }
}

// NewApp is the constructor for the main application. Reports go to outW and
// logs to logW, each App getting its own isolated logger.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader, opts ...Option) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	a := &App{
		outW:    outW,
		logger:  logger,
		config:  cfg,
		loader:  loader,
		factory: &localsession.SessionFactory{},
		ctx:     ctxlog.WithLogger(context.Background(), logger),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}
