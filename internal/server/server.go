// Package server exposes a board over a JSON HTTP API.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/GrayFrost/z-tab/pkg/board"
	"github.com/GrayFrost/z-tab/pkg/grid"
	"github.com/GrayFrost/z-tab/pkg/observability"
	"github.com/GrayFrost/z-tab/pkg/store"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Board is the part of *board.Board the API needs.
type Board interface {
	Tiles() []grid.Tile
	Tile(id string) (grid.Tile, error)
	Snapshot() board.Snapshot
	PageLayout(i int) ([]grid.Placement, error)

	AddSite(ctx context.Context, rawURL string) (grid.Tile, error)
	AddWidget(ctx context.Context, name string) (grid.Tile, error)
	UpdateTile(ctx context.Context, t grid.Tile) (grid.Tile, error)
	SetFavicon(ctx context.Context, id, icon string) (grid.Tile, error)
	NextFavicon(ctx context.Context, id string) (grid.Tile, bool, error)
	Delete(ctx context.Context, id string) error
	Move(ctx context.Context, id string, x, y int) error

	DragStop(ctx context.Context, page int, placements []grid.Placement) error
	LayoutChange(ctx context.Context, page int, placements []grid.Placement) error
	Reset(ctx context.Context) error

	Settings(ctx context.Context) (store.Settings, error)
	SaveSettings(ctx context.Context, s store.Settings) error
}

var _ Board = (*board.Board)(nil)

// Options configures a Server.
type Options struct {
	Addr   string
	Logger *log.Logger
}

// Server serves the board API.
type Server struct {
	board      Board
	logger     *log.Logger
	addr       string
	router     chi.Router
	httpServer *http.Server
	listener   net.Listener
}

// New creates a server for b. It does not start listening.
func New(b Board, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	s := &Server{
		board:  b,
		logger: opts.Logger,
		addr:   opts.Addr,
	}
	s.router = s.routes()
	s.httpServer = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/tiles", s.handleListTiles)
		r.Post("/tiles/sites", s.handleAddSite)
		r.Post("/tiles/widgets", s.handleAddWidget)
		r.Route("/tiles/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetTile)
			r.Patch("/", s.handleUpdateTile)
			r.Delete("/", s.handleDeleteTile)
			r.Put("/favicon", s.handleSetFavicon)
			r.Post("/favicon/next", s.handleNextFavicon)
			r.Post("/move", s.handleMoveTile)
		})

		r.Get("/pages", s.handleListPages)
		r.Route("/pages/{page}", func(r chi.Router) {
			r.Get("/layout", s.handlePageLayout)
			r.Post("/drag-stop", s.handleDragStop)
			r.Post("/layout-change", s.handleLayoutChange)
		})

		r.Get("/layout", s.handleLayout)
		r.Post("/reset", s.handleReset)
		r.Get("/catalog", s.handleCatalog)
		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handlePutSettings)
	})
	return r
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// logRequests logs each request and reports it to the HTTP hooks under its
// route pattern.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		s.logger.Info("request", "method", r.Method, "route", route, "status", status, "took", d,
			"id", middleware.GetReqID(r.Context()))
		observability.HTTP().OnResponse(r.Context(), r.Method, route, status, d)
	})
}

// =============================================================================
// Lifecycle
// =============================================================================

// Listen binds the configured address. Call Serve afterwards; the split lets
// callers learn the bound port when the address uses port 0.
func (s *Server) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", s.addr, err)
	}
	s.listener = ln
	return ln, nil
}

// Serve accepts connections on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("serving", "addr", ln.Addr().String())
	if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Start listens and serves. It blocks until the server stops.
func (s *Server) Start() error {
	ln, err := s.Listen()
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Addr returns the bound address once listening, else the configured one.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down")
	return s.httpServer.Shutdown(ctx)
}
