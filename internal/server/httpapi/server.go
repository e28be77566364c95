// Package httpapi exposes the authentication and item-sync operations over
// HTTP. Session tokens travel either in an Authorization: Bearer header or
// in an http-only cookie; the header wins when both are present.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dmitrijs2005/todokeeper/internal/logging"
	"github.com/dmitrijs2005/todokeeper/internal/server/config"
	"github.com/dmitrijs2005/todokeeper/internal/server/items"
	"github.com/dmitrijs2005/todokeeper/internal/server/users"
)

// UserService is the slice of the user service the handlers need.
type UserService interface {
	Register(ctx context.Context, username, password string) (*users.User, string, error)
	Login(ctx context.Context, username, password string) (*users.User, string, error)
	Get(ctx context.Context, id string) (*users.User, error)
}

// ItemService is the slice of the item service the handlers need.
type ItemService interface {
	List(ctx context.Context, ownerID string) ([]items.Item, error)
	Replace(ctx context.Context, ownerID string, submitted []items.Item) ([]items.Item, error)
}

// ListExporter uploads a list snapshot and returns its key and a download
// URL. Optional: a nil exporter disables the endpoint.
type ListExporter interface {
	Export(ctx context.Context, ownerID string, list []items.Item) (string, string, error)
}

type Server struct {
	address      string
	logger       logging.Logger
	users        UserService
	items        ItemService
	exporter     ListExporter
	jwtSecret    []byte
	cookieMaxAge int
	cookieSecure bool
}

func NewServer(cfg *config.Config, l logging.Logger, us UserService, is ItemService, ex ListExporter) *Server {
	return &Server{
		address:      cfg.EndpointAddrHTTP,
		logger:       l.With("module", "http_server"),
		users:        us,
		items:        is,
		exporter:     ex,
		jwtSecret:    []byte(cfg.SecretKey),
		cookieMaxAge: int(cfg.TokenValidityDuration.Seconds()),
		cookieSecure: cfg.Environment == config.EnvironmentProduction,
	}
}

// Handler builds the route tree. Exposed separately from Run so tests can
// drive it with httptest.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(s.logRequests)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.With(s.optionalAuth).Post("/logout", s.handleLogout)
		r.With(s.requireAuth).Get("/me", s.handleMe)
	})

	r.Route("/api/items", func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/", s.handleListItems)
		r.Post("/", s.handleSaveItems)
		r.Post("/export", s.handleExport)
	})

	return r
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:         s.address,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).String(),
		)
	})
}
