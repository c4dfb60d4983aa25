package export

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowtower/pkg/cache"
	"github.com/matzehuels/flowtower/pkg/observability"
	"github.com/matzehuels/flowtower/pkg/workflow"
)

// Format is an output image format.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// DefaultScale is the raster scale factor (2x for high-DPI screens).
const DefaultScale = 2.0

// Snapshot is everything a backend may draw from.
type Snapshot struct {
	Instance string
	SVG      []byte
	Data     *workflow.Data
	Options  workflow.Options
}

// Result is an exported image.
type Result struct {
	Format  Format
	Bytes   []byte
	Backend string
	Cached  bool
}

// Backend produces an image from a snapshot.
type Backend interface {
	Name() string
	Format() Format
	Export(ctx context.Context, snap Snapshot, scale float64) ([]byte, error)
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithCache stores raster results in c for ttl (zero keeps them until evicted).
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(e *Exporter) {
		if c != nil {
			e.cache, e.ttl = c, ttl
		}
	}
}

// WithKeyer sets the cache keyer.
func WithKeyer(k cache.Keyer) Option {
	return func(e *Exporter) {
		if k != nil {
			e.keyer = k
		}
	}
}

// WithScale sets the raster scale factor.
func WithScale(s float64) Option {
	return func(e *Exporter) {
		if s > 0 {
			e.scale = s
		}
	}
}

// WithLogger sets the logger for failed attempts.
func WithLogger(l *log.Logger) Option {
	return func(e *Exporter) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithBackends replaces the raster backends tried before the SVG fallback.
func WithBackends(b ...Backend) Option {
	return func(e *Exporter) { e.backends = b }
}

// Exporter runs the fallback chain.
type Exporter struct {
	backends []Backend
	cache    cache.Cache
	keyer    cache.Keyer
	ttl      time.Duration
	scale    float64
	logger   *log.Logger
}

// New returns an exporter with the rsvg-convert and Graphviz backends.
func New(opts ...Option) *Exporter {
	e := &Exporter{
		backends: []Backend{RSVG{}, Graphviz{}},
		cache:    cache.NewNullCache(),
		keyer:    cache.NewDefaultKeyer(),
		scale:    DefaultScale,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Scale returns the raster scale factor.
func (e *Exporter) Scale() float64 { return e.scale }

// Export returns the first successful backend result, or the scene SVG when
// every backend fails. The error is non-nil only when ctx is done.
func (e *Exporter) Export(ctx context.Context, snap Snapshot) (Result, error) {
	hooks := observability.Diagram()
	sceneHash := cache.Hash(snap.SVG)

	for _, b := range e.backends {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		key := e.keyer.ExportKey(sceneHash, cache.ExportKeyOpts{Backend: b.Name(), Format: string(b.Format()), Scale: e.scale})
		if data, ok := e.lookup(ctx, key); ok {
			return Result{Format: b.Format(), Bytes: data, Backend: b.Name(), Cached: true}, nil
		}

		start := time.Now()
		data, err := b.Export(ctx, snap, e.scale)
		hooks.OnExport(ctx, snap.Instance, b.Name(), len(data), time.Since(start), err)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Result{}, ctxErr
			}
			e.logger.Warn("export backend failed", "backend", b.Name(), "instance", snap.Instance, "err", err)
			continue
		}
		e.store(ctx, key, data)
		return Result{Format: b.Format(), Bytes: data, Backend: b.Name()}, nil
	}

	hooks.OnExport(ctx, snap.Instance, "svg", len(snap.SVG), 0, nil)
	return Result{Format: FormatSVG, Bytes: snap.SVG, Backend: "svg"}, nil
}

func (e *Exporter) lookup(ctx context.Context, key string) ([]byte, bool) {
	data, ok, err := e.cache.Get(ctx, key)
	if err != nil {
		e.logger.Warn("export cache read failed", "err", err)
		return nil, false
	}
	if ok {
		observability.Cache().OnCacheHit(ctx, "export")
		return data, true
	}
	observability.Cache().OnCacheMiss(ctx, "export")
	return nil, false
}

func (e *Exporter) store(ctx context.Context, key string, data []byte) {
	if err := e.cache.Set(ctx, key, data, e.ttl); err != nil {
		e.logger.Warn("export cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "export", len(data))
}
