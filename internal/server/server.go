// Package server wires the live pages, the merchant authentication and the
// operational endpoints into one HTTP server.
package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/livefir/storefront/internal/app/admin"
	"github.com/livefir/storefront/internal/app/storefront"
	"github.com/livefir/storefront/internal/config"
	"github.com/livefir/storefront/internal/live"
	"github.com/livefir/storefront/internal/metrics"
	"github.com/livefir/storefront/internal/shop"
	"github.com/livefir/storefront/internal/token"
)

// Deps are the services the server runs on.
type Deps struct {
	DB      *sql.DB
	Shop    *shop.Service
	Tokens  *token.TokenService
	Metrics *metrics.Collector
	Logger  *zap.Logger
}

// Server serves the storefront.
type Server struct {
	cfg      *config.Config
	deps     Deps
	log      *zap.Logger
	sessions *live.MemorySessionStore
	pages    map[string]*live.Template
	handler  http.Handler
}

// New builds the routes. Templates are parsed once here; in dev mode they
// are re-parsed from Server.TemplatesDir whenever a file there changes.
func New(cfg *config.Config, deps Deps) (*Server, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewCollector()
	}
	s := &Server{
		cfg:  cfg,
		deps: deps,
		log:  deps.Logger.Named("server"),
	}
	s.sessions = live.NewMemorySessionStore(cfg.Sessions.TTL, live.WithExpireHook(func(n int) {
		deps.Metrics.AddSessionsExpired(int64(n))
		s.log.Debug("sessions expired", zap.Int("count", n))
	}))

	tmplOpts := []live.TemplateOption{live.WithDevMode(cfg.Server.Dev)}
	shopTmpl, err := storefront.NewTemplate(tmplOpts...)
	if err != nil {
		return nil, fmt.Errorf("parse storefront templates: %w", err)
	}
	adminTmpl, err := admin.NewTemplate(tmplOpts...)
	if err != nil {
		return nil, fmt.Errorf("parse admin templates: %w", err)
	}
	s.pages = map[string]*live.Template{
		storefront.TemplateName: shopTmpl,
		admin.TemplateName:      adminTmpl,
	}

	s.handler = s.routes(shopTmpl, adminTmpl)
	return s, nil
}

func (s *Server) mountOptions(extra ...live.MountOption) []live.MountOption {
	opts := []live.MountOption{
		live.WithSessionStore(s.sessions),
		live.WithLogger(s.deps.Logger.Named("live")),
		live.WithMetrics(s.deps.Metrics),
	}
	if s.cfg.Server.WebSocketDisabled {
		opts = append(opts, live.WithWebSocketDisabled())
	}
	return append(opts, extra...)
}

func (s *Server) routes(shopTmpl, adminTmpl *live.Template) http.Handler {
	logger := s.deps.Logger
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", s.deps.Metrics.Handler())
	mux.Handle("GET "+live.ClientPath, live.ClientHandler())

	adminPage := live.Mount(adminTmpl,
		admin.Factory(s.deps.Shop, s.cfg.Server.PublicURL, logger.Named("admin")),
		s.mountOptions(live.WithAuthenticator(live.NewTokenAuthenticator(s.deps.Tokens, s.deps.Metrics)))...,
	)
	mux.Handle("/admin", s.tokenLogin(adminPage))

	shoppers := live.WithAuthenticator(live.NewShopperAuthenticator(s.deps.Tokens))
	mux.Handle("/dev", live.Mount(shopTmpl,
		storefront.StoreFactory(s.deps.Shop, shop.DemoStoreID, s.deps.Metrics, logger.Named("storefront")),
		s.mountOptions(shoppers)...,
	))
	mux.Handle("/{slug}", live.Mount(shopTmpl,
		storefront.Factory(s.deps.Shop, s.deps.Metrics, logger.Named("storefront")),
		s.mountOptions(shoppers)...,
	))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/dev", http.StatusFound)
	})

	return requestLogger(s.log, mux)
}

// tokenLogin turns a ?token= link into the token cookie and redirects to the
// clean URL, so the token stays out of the address bar and page endpoint.
func (s *Server) tokenLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.URL.Query().Get("token")
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := s.deps.Tokens.VerifyToken(raw)
		if err != nil {
			s.deps.Metrics.IncrementTokenFailure()
			s.log.Info("token login rejected", zap.Error(err))
			http.Error(w, "Link de acesso inválido ou expirado", http.StatusUnauthorized)
			return
		}
		s.deps.Metrics.IncrementTokenVerified()

		var expires time.Time
		if claims.ExpiresAt != nil {
			expires = claims.ExpiresAt.Time
		}
		http.SetCookie(w, &http.Cookie{
			Name:     live.TokenCookie,
			Value:    raw,
			Path:     "/",
			Expires:  expires,
			HttpOnly: true,
			Secure:   s.secureCookies(),
			SameSite: http.SameSiteLaxMode,
		})
		s.log.Info("merchant signed in", zap.String("user", claims.UserID()))

		clean := *r.URL
		q := clean.Query()
		q.Del("token")
		clean.RawQuery = q.Encode()
		http.Redirect(w, r, clean.RequestURI(), http.StatusSeeOther)
	})
}

func (s *Server) secureCookies() bool {
	u, err := url.Parse(s.cfg.Server.PublicURL)
	return err == nil && u.Scheme == "https"
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status, code := "ok", http.StatusOK
	if s.deps.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.deps.DB.PingContext(ctx); err != nil {
			s.log.Warn("health check failed", zap.Error(err))
			status, code = "unavailable", http.StatusServiceUnavailable
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":   status,
		"sessions": s.sessions.Len(),
	})
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens on the configured address until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully. The session janitor and the dev template watcher run
// alongside and stop with it.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          zap.NewStdLog(s.log),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("listening", zap.String("addr", ln.Addr().String()), zap.Bool("dev", s.cfg.Server.Dev))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return s.sessions.RunJanitor(gctx, s.cfg.Sessions.JanitorInterval)
	})
	if s.cfg.Server.Dev && s.cfg.Server.TemplatesDir != "" {
		w, err := newTemplateWatcher(s.cfg.Server.TemplatesDir, s.pages, s.log)
		if err != nil {
			s.log.Warn("template reload disabled", zap.Error(err))
		} else {
			g.Go(func() error { return w.run(gctx) })
		}
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
