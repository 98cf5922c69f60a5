package main

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/irammini/ecosystem/data"
	"github.com/irammini/ecosystem/internal/app"
	"github.com/irammini/ecosystem/internal/catalog"
	"github.com/irammini/ecosystem/internal/chart"
	"github.com/irammini/ecosystem/internal/config"
	"github.com/irammini/ecosystem/internal/handlers"
	"github.com/irammini/ecosystem/internal/i18n"
	"github.com/irammini/ecosystem/internal/live"
	mw "github.com/irammini/ecosystem/internal/middleware"
	"github.com/irammini/ecosystem/internal/prefs"
	"github.com/irammini/ecosystem/internal/view"
	"github.com/irammini/ecosystem/public"
)

const livePath = "/live"

// server holds the process-wide collaborators shared by every request.
type server struct {
	cfg      *config.Config
	logger   *zap.Logger
	bundle   *i18n.Bundle
	catalog  *catalog.Source
	renderer *view.Renderer
	charts   *chart.Adapter
	backend  prefs.Backend
	sessions *mw.Sessions
	live     *live.Handler
	closers  []io.Closer
}

func newServer(cfg *config.Config, logger *zap.Logger) (*server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &server{cfg: cfg, logger: logger}

	bundle, err := i18n.LoadFS(data.FS, "locales", "en", nil)
	if err != nil {
		return nil, fmt.Errorf("loading translations: %w", err)
	}
	s.bundle = bundle

	if cfg.Catalog.Dir != "" {
		s.catalog, err = catalog.OpenDirSource(cfg.Catalog.Dir, logger.Named("catalog"))
	} else {
		s.catalog, err = catalog.OpenSource(data.FS, ".")
	}
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	s.renderer, err = view.New(bundle, logger.Named("view"))
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	s.charts = chart.NewAdapter(chart.NewSVGLibrary(0), logger.Named("chart"))

	switch cfg.Prefs.Backend {
	case config.PrefsSQLite:
		db, err := prefs.OpenSQLite(cfg.Prefs.SQLitePath)
		if err != nil {
			return nil, err
		}
		s.backend = db
		s.closers = append(s.closers, db)
	default:
		s.backend = prefs.NewMemoryBackend()
	}

	s.sessions, err = mw.NewSessions(mw.SessionOptions{
		CookieName: cfg.Session.CookieName,
		SigningKey: cfg.Session.SigningKey,
		Secure:     cfg.Session.Secure,
		MaxAge:     cfg.Session.MaxAge,
		Logger:     logger,
	})
	if err != nil {
		s.Close()
		return nil, err
	}

	s.live = live.NewHandler(s.deps(), s.store, live.Options{
		PingInterval: cfg.Live.PingInterval,
		WriteTimeout: cfg.Live.WriteTimeout,
		ReadLimit:    cfg.Live.ReadLimit,
	})
	return s, nil
}

// watch starts the catalog watcher when configured.
func (s *server) watch(ctx context.Context) error {
	if !s.cfg.Catalog.Watch {
		return nil
	}
	return s.catalog.Watch(ctx)
}

func (s *server) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (s *server) deps() app.Deps {
	return app.Deps{
		Catalog:  s.catalog,
		Bundle:   s.bundle,
		Renderer: s.renderer,
		Charts:   s.charts,
		Debounce: s.cfg.Live.Debounce,
		Logger:   s.logger.Named("app"),
	}
}

// store binds the preference backend to the visitor of r.
func (s *server) store(r *http.Request) prefs.Store {
	ctx := r.Context()
	return prefs.Bind(ctx, s.backend, mw.VisitorID(ctx), mw.LoggerFrom(ctx))
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	// If deployed behind a trusted reverse proxy/load balancer, RealIP will use
	// X-Forwarded-For to determine the client IP.
	r.Use(chimw.RealIP)
	r.Use(s.sessions.Middleware)
	r.Use(mw.Logger(s.logger))
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	// long-lived; kept out of the compress and timeout group
	r.Handle(livePath, s.live)

	r.Group(func(r chi.Router) {
		r.Use(chimw.Compress(5))
		r.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
		r.Handle("/assets/*", http.StripPrefix("/assets", mw.AssetsWithCache(public.Assets())))
		r.Get("/", s.handleHome)
	})
	return r
}

// handleHome renders the full page for the visitor, applying query
// parameters as deep links.
func (s *server) handleHome(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	lang, err := s.renderHome(&buf, s.store(r), app.ParseSeed(r.URL.Query()), livePath)
	if err != nil {
		mw.Error(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Language", lang)
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

// renderHome boots a controller against in-memory regions and composes the
// document around them. It returns the language the page was rendered in.
func (s *server) renderHome(w io.Writer, store prefs.Store, seed app.Seed, liveURL string) (string, error) {
	targets, caps := view.CaptureAll()
	ctrl := app.New(s.deps(), store, targets)
	ctrl.Apply(seed)
	ctrl.Boot()

	regions := make(map[string]template.HTML, len(caps))
	for id, c := range caps {
		regions[id] = c.HTML()
	}
	lang := ctrl.State().Lang
	home := handlers.BuildHomeData(s.bundle, lang, s.cfg.Server.BaseURL, s.catalog.Current())
	if err := s.renderer.RenderPage(w, home.Page(regions, liveURL)); err != nil {
		return "", err
	}
	return lang, nil
}
