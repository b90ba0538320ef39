// Package debug serves live game diagnostics over HTTP: Prometheus metrics,
// pprof, a health probe and a WebSocket stream of telemetry windows.
package debug

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pthm-cable/scroller/config"
	"github.com/pthm-cable/scroller/spatial"
	"github.com/pthm-cable/scroller/telemetry"
)

// Snapshot is the payload of a "stats" message.
type Snapshot struct {
	Tick    int32                         `json:"tick"`
	Window  telemetry.WindowStats         `json:"window"`
	Finders []telemetry.FinderWindowStats `json:"finders"`
}

// Server owns the metrics, the stats hub and the router. A nil *Server is
// valid and ignores every call, so the game can run without it.
type Server struct {
	metrics *Metrics
	hub     *Hub
	router  *chi.Mux
	addr    string
}

// New builds a server without starting any goroutine or listener.
func New(cfg config.DebugConfig) *Server {
	m := NewMetrics()
	s := &Server{
		metrics: m,
		hub:     NewHub(cfg.CORSOrigins, m),
	}
	s.router = s.routes(cfg.CORSOrigins)
	return s
}

func (s *Server) routes(origins []string) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))
	r.Mount("/debug", middleware.Profiler())
	r.Get("/ws/stats", s.hub.ServeHTTP)
	return r
}

// Router returns the HTTP handler, for use with httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

// Addr returns the address the server listens on, once started.
func (s *Server) Addr() string {
	if s == nil {
		return ""
	}
	return s.addr
}

// Start listens on cfg.Addr and serves until ctx is done. An empty address
// disables the server and returns nil.
func Start(ctx context.Context, cfg config.DebugConfig) (*Server, error) {
	if cfg.Addr == "" {
		return nil, nil
	}
	s := New(cfg)
	if err := s.serve(ctx, cfg.Addr); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("debug server listen on %s: %w", addr, err)
	}
	s.addr = ln.Addr().String()

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go s.hub.Run(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("debug server stopped", "error", err)
		}
	}()

	slog.Info("debug server listening",
		"addr", s.addr,
		"metrics", "http://"+s.addr+"/metrics",
		"pprof", "http://"+s.addr+"/debug/pprof/",
		"stats", "ws://"+s.addr+"/ws/stats",
	)
	return nil
}

// ObserveTick records the duration of one game step.
func (s *Server) ObserveTick(d time.Duration) {
	if s == nil {
		return
	}
	s.metrics.ObserveTick(d)
}

// ObserveQuery records one spatial query against finder.
func (s *Server) ObserveQuery(finder string, qs spatial.QueryStats) {
	if s == nil {
		return
	}
	s.metrics.ObserveQuery(finder, qs)
}

// CountEvent counts one game event.
func (s *Server) CountEvent(t telemetry.EventType) {
	if s == nil {
		return
	}
	s.metrics.CountEvent(t)
}

// Publish updates the finder gauges and streams the window to clients.
func (s *Server) Publish(tick int32, ws telemetry.WindowStats, finders []telemetry.FinderState, fs []telemetry.FinderWindowStats) {
	if s == nil {
		return
	}
	for _, f := range finders {
		s.metrics.SetFinder(f.Name, f.Grid)
	}
	s.hub.Broadcast("stats", Snapshot{Tick: tick, Window: ws, Finders: fs})
}
