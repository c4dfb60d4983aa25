package host

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/flowtower/pkg/buildinfo"
	"github.com/matzehuels/flowtower/pkg/diagram"
	"github.com/matzehuels/flowtower/pkg/errors"
	"github.com/matzehuels/flowtower/pkg/geometry"
	pkgio "github.com/matzehuels/flowtower/pkg/io"
	"github.com/matzehuels/flowtower/pkg/observability"
	"github.com/matzehuels/flowtower/pkg/render/export"
	"github.com/matzehuels/flowtower/pkg/render/scene"
	"github.com/matzehuels/flowtower/pkg/workflow"
)

// DefaultSize is the surface size used when neither the request nor the
// server configuration names one.
var DefaultSize = geometry.Size{W: 1280, H: 800}

// Server hosts diagram instances.
type Server struct {
	registry *diagram.Registry
	exporter *export.Exporter
	logger   *log.Logger
	defaults workflow.Options
	size     geometry.Size
	upgrader websocket.Upgrader

	mu       sync.RWMutex
	sessions map[string]*session
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithExporter sets the exporter shared by all instances.
func WithExporter(e *export.Exporter) Option {
	return func(s *Server) {
		if e != nil {
			s.exporter = e
		}
	}
}

// WithDefaults sets the options used for documents that carry none.
func WithDefaults(opts workflow.Options) Option {
	return func(s *Server) { s.defaults = opts }
}

// WithSize sets the default surface size.
func WithSize(size geometry.Size) Option {
	return func(s *Server) {
		if !size.Empty() {
			s.size = size
		}
	}
}

// New returns a server with its own registry.
func New(opts ...Option) *Server {
	s := &Server{
		logger:   log.New(io.Discard),
		defaults: workflow.DefaultOptions(),
		size:     DefaultSize,
		sessions: make(map[string]*session),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.exporter == nil {
		s.exporter = export.New(export.WithLogger(s.logger))
	}
	s.registry = diagram.NewRegistry(s.logger)
	return s
}

// Registry returns the registry holding the hosted instances.
func (s *Server) Registry() *diagram.Registry { return s.registry }

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "diagrams": s.registry.Len(), "build": buildinfo.Get()})
	})

	r.Route("/diagrams", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleState)
			r.Delete("/", s.handleDispose)
			r.Get("/data", s.handleGetData)
			r.Put("/data", s.handleUpdate)
			r.Put("/options", s.handleOptions)
			r.Patch("/nodes/{node}/status", s.handleNodeStatus)
			r.Patch("/nodes/{node}/position", s.handleNodePosition)
			r.Post("/zoom-in", s.command((*diagram.Instance).ZoomIn))
			r.Post("/zoom-out", s.command((*diagram.Instance).ZoomOut))
			r.Post("/fit", s.command((*diagram.Instance).FitToScreen))
			r.Post("/reset", s.command((*diagram.Instance).Reset))
			r.Post("/fullscreen", s.command((*diagram.Instance).ToggleFullscreen))
			r.Post("/resize", s.handleResize)
			r.Get("/scene.svg", s.handleScene)
			r.Get("/export", s.handleExport)
			r.Get("/live", s.handleLive)
		})
	})
	return r
}

// observe reports every request to the host hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		observability.Host().OnRequest(r.Context(), r.Method, route, ww.Status(), time.Since(start))
		s.logger.Debug("request", "method", r.Method, "route", route, "status", ww.Status(), "duration", time.Since(start))
	})
}

// Create initializes an instance from doc. A zero size uses the server
// default; a document without options uses the server defaults.
func (s *Server) Create(doc *pkgio.Document, size geometry.Size) (string, error) {
	if size.Empty() {
		size = s.size
	}
	opts := s.defaults
	if doc.Options != nil {
		opts = *doc.Options
	}

	surface := scene.NewSVGSurface(size, scene.WithControls())
	sess := newSession(surface, s.logger)
	id, err := s.registry.Init(surface, doc.Data, opts,
		diagram.WithNotifier(sess),
		diagram.WithExporter(s.exporter),
	)
	if err != nil {
		return "", err
	}
	sess.inst, _ = s.registry.Get(id)
	sess.logger = s.logger.With("instance", id)

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()
	s.logger.Info("diagram created", "instance", id, "nodes", len(doc.Nodes), "edges", len(doc.Edges))
	return id, nil
}

// Replace swaps the document of instance id. Document options, when present,
// replace the instance options too.
func (s *Server) Replace(id string, doc *pkgio.Document) error {
	sess, err := s.session(id)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if doc.Options != nil {
		if err := sess.inst.UpdateOptions(*doc.Options); err != nil {
			return err
		}
	}
	sess.inst.Update(doc.Data)
	sess.pushScene()
	return nil
}

// Dispose removes instance id and closes its live clients.
func (s *Server) Dispose(id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return errors.New(errors.ErrCodeInstanceNotFound, "diagram %s not found", id)
	}
	sess.mu.Lock()
	s.registry.Dispose(id)
	sess.mu.Unlock()
	sess.closeClients()
	return nil
}

// IDs returns the hosted instance ids in sorted order.
func (s *Server) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close disposes every instance.
func (s *Server) Close() {
	for _, id := range s.IDs() {
		_ = s.Dispose(id)
	}
}

// ListenAndServe serves Handler on addr until ctx is done, then shuts down
// gracefully within timeout and disposes every instance.
func (s *Server) ListenAndServe(ctx context.Context, addr string, timeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.Close()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Close()
	if err != nil {
		return err
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) session(id string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeInstanceNotFound, "diagram %s not found", id)
	}
	return sess, nil
}
