package diagram

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/flowtower/pkg/camera"
	"github.com/matzehuels/flowtower/pkg/errors"
	"github.com/matzehuels/flowtower/pkg/geometry"
	"github.com/matzehuels/flowtower/pkg/layout"
	"github.com/matzehuels/flowtower/pkg/observability"
	"github.com/matzehuels/flowtower/pkg/render/export"
	"github.com/matzehuels/flowtower/pkg/render/scene"
	"github.com/matzehuels/flowtower/pkg/workflow"
)

// Instance is one live diagram bound to one surface.
type Instance struct {
	id      string
	surface scene.Surface
	data    *workflow.Data
	opts    workflow.Options

	// manual marks nodes whose position came from the host or a drag rather
	// than from layout; re-layout keeps them.
	manual map[string]bool

	camera   *camera.Camera
	renderer *scene.Renderer
	exporter *export.Exporter
	notifier Notifier
	logger   *log.Logger

	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc

	active     interaction
	fitted     bool
	fullscreen bool
	disposed   bool
}

// Option configures an Instance.
type Option func(*Instance)

// WithNotifier sets the receiver of user-driven events.
func WithNotifier(n Notifier) Option {
	return func(i *Instance) {
		if n != nil {
			i.notifier = n
		}
	}
}

// WithLogger sets the instance logger.
func WithLogger(l *log.Logger) Option {
	return func(i *Instance) {
		if l != nil {
			i.logger = l
		}
	}
}

// WithExporter sets the exporter used by ExportImage.
func WithExporter(e *export.Exporter) Option {
	return func(i *Instance) {
		if e != nil {
			i.exporter = e
		}
	}
}

// WithContext sets the parent of the instance lifetime context.
func WithContext(ctx context.Context) Option {
	return func(i *Instance) {
		if ctx != nil {
			i.parent = ctx
		}
	}
}

// WithID fixes the instance id instead of generating one.
func WithID(id string) Option {
	return func(i *Instance) {
		if id != "" {
			i.id = id
		}
	}
}

// New lays out and renders data onto surface. The instance keeps its own copy
// of data. It fails only for a nil surface or invalid options.
func New(surface scene.Surface, data workflow.Data, opts workflow.Options, options ...Option) (*Instance, error) {
	if surface == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "surface is required")
	}
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidOptions, err, "init diagram")
	}

	inst := &Instance{
		id:       uuid.NewString(),
		surface:  surface,
		opts:     opts,
		notifier: Events{},
		logger:   log.New(io.Discard),
		parent:   context.Background(),
	}
	for _, opt := range options {
		opt(inst)
	}
	if inst.exporter == nil {
		inst.exporter = export.New(export.WithLogger(inst.logger))
	}
	inst.logger = inst.logger.With("instance", inst.id)
	inst.ctx, inst.cancel = context.WithCancel(inst.parent)

	inst.camera = camera.New(opts.MinZoom, opts.MaxZoom)
	inst.camera.SetViewport(surface.Size())
	inst.camera.OnChange = inst.transformChanged
	inst.renderer = scene.NewRenderer(surface, scene.WithLogger(inst.logger))

	inst.load(data)
	inst.relayout()
	inst.render()
	inst.maybeFit()

	observability.Diagram().OnInit(inst.ctx, inst.id, len(inst.data.Nodes), len(inst.data.Edges))
	inst.logger.Debug("diagram initialized", "nodes", len(inst.data.Nodes), "edges", len(inst.data.Edges))
	return inst, nil
}

// ID returns the instance id.
func (i *Instance) ID() string { return i.id }

// Data returns a copy of the current document.
func (i *Instance) Data() workflow.Data { return *i.data.Clone() }

// HasNode reports whether the document contains node id.
func (i *Instance) HasNode(id string) bool { return i.data.Node(id) != nil }

// Counts returns the number of nodes and of drawn edges.
func (i *Instance) Counts() (nodes, edges int) {
	return len(i.data.Nodes), len(i.renderer.Edges())
}

// Options returns the active options.
func (i *Instance) Options() workflow.Options { return i.opts }

// Transform returns the current view transform.
func (i *Instance) Transform() camera.Transform { return i.camera.Transform() }

// Surface returns the bound surface.
func (i *Instance) Surface() scene.Surface { return i.surface }

// Fullscreen reports the fullscreen flag.
func (i *Instance) Fullscreen() bool { return i.fullscreen }

// Mode returns the active interaction.
func (i *Instance) Mode() Mode { return i.active.mode() }

// Disposed reports whether Dispose has been called.
func (i *Instance) Disposed() bool { return i.disposed }

// Context returns the lifetime context, cancelled by Dispose.
func (i *Instance) Context() context.Context { return i.ctx }

// Update replaces the document. Nodes without a position are laid out; the
// camera is kept. An active interaction is cancelled first.
func (i *Instance) Update(data workflow.Data) {
	if i.gone("update") {
		return
	}
	i.cancelInteraction()
	i.load(data)
	i.relayout()
	i.render()
	i.maybeFit()
}

// UpdateOptions replaces the options and lays out again. Positions set by
// the host or by a drag are kept.
func (i *Instance) UpdateOptions(opts workflow.Options) error {
	if i.gone("update options") {
		return nil
	}
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOptions, err, "update options")
	}
	i.cancelInteraction()
	i.opts = opts
	for n := range i.data.Nodes {
		node := &i.data.Nodes[n]
		if !i.manual[node.ID] {
			node.Position = nil
		}
	}
	i.camera.SetLimits(opts.MinZoom, opts.MaxZoom)
	i.relayout()
	i.render()
	i.maybeFit()
	return nil
}

// UpdateNodeStatus restyles one node and its incident edges. A drag in
// progress continues. Unknown nodes and statuses are logged and ignored.
func (i *Instance) UpdateNodeStatus(nodeID string, status workflow.Status) {
	if i.gone("update node status") {
		return
	}
	if !status.Valid() {
		i.logger.Warn("update node status: unknown status", "node", nodeID, "status", status)
		return
	}
	n := i.data.Node(nodeID)
	if n == nil {
		i.logger.Warn("update node status: node not found", "node", nodeID)
		return
	}
	n.Status = status
	i.renderer.Restyle(nodeID)
	// Restyle draws from committed positions; put a dragged node back under
	// the pointer.
	if d := i.active.press; d != nil && d.Moved() {
		i.renderer.Reposition(d.NodeID(), d.Position())
	}
}

// UpdateNodePosition moves one node. It does not notify the host. A drag on
// any node is cancelled first.
func (i *Instance) UpdateNodePosition(nodeID string, pos geometry.Point) {
	if i.gone("update node position") {
		return
	}
	n := i.data.Node(nodeID)
	if n == nil {
		i.logger.Warn("update node position: node not found", "node", nodeID)
		return
	}
	if i.active.press != nil {
		i.cancelInteraction()
	}
	n.Position = &pos
	i.manual[nodeID] = true
	i.renderer.Reposition(nodeID, pos)
}

// ZoomIn zooms by one step around the viewport center.
func (i *Instance) ZoomIn() {
	if i.gone("zoom in") {
		return
	}
	i.camera.ZoomIn()
}

// ZoomOut zooms out by one step around the viewport center.
func (i *Instance) ZoomOut() {
	if i.gone("zoom out") {
		return
	}
	i.camera.ZoomOut()
}

// FitToScreen centers the content and scales it to the viewport, never
// above 1. It is a no-op for an empty diagram or a zero-size viewport.
func (i *Instance) FitToScreen() {
	if i.gone("fit to screen") {
		return
	}
	i.fit()
}

// Reset restores the identity transform.
func (i *Instance) Reset() {
	if i.gone("reset") {
		return
	}
	i.camera.Reset()
}

// ToggleFullscreen flips the fullscreen flag and informs the surface when it
// supports presentation modes.
func (i *Instance) ToggleFullscreen() {
	if i.gone("toggle fullscreen") {
		return
	}
	i.fullscreen = !i.fullscreen
	if fs, ok := i.surface.(scene.Fullscreener); ok {
		fs.SetFullscreen(i.fullscreen)
	}
	if i.opts.FitToScreen {
		i.fit()
	}
}

// Resize records a new container size. Surfaces that can resize are resized.
func (i *Instance) Resize(size geometry.Size) {
	if i.gone("resize") {
		return
	}
	if rs, ok := i.surface.(scene.Resizer); ok {
		rs.Resize(size)
	}
	i.camera.SetViewport(size)
	i.maybeFit()
}

// Dispose abandons any interaction without committing it, cancels pending
// exports and releases the surface. Later calls are no-ops.
func (i *Instance) Dispose() {
	if i.disposed {
		return
	}
	i.active = interaction{}
	i.cancel()
	i.camera.OnChange = nil
	i.surface.Reset()
	i.disposed = true
	observability.Diagram().OnDispose(context.Background(), i.id)
	i.logger.Debug("diagram disposed")
}

// ExportResult is delivered by ExportImage.
type ExportResult struct {
	export.Result
	Err error
}

// ExportImage snapshots the current view and rasterizes it in the
// background. The channel receives exactly one result and is then closed.
// Err is set only when the instance is disposed before the export finishes.
func (i *Instance) ExportImage() <-chan ExportResult {
	out := make(chan ExportResult, 1)
	if i.disposed {
		out <- ExportResult{Err: errors.New(errors.ErrCodeInstanceNotFound, "instance %s is disposed", i.id)}
		close(out)
		return out
	}

	svg, err := i.surface.Snapshot()
	if err != nil {
		i.logger.Warn("export: snapshot failed", "err", err)
	}
	snap := export.Snapshot{
		Instance: i.id,
		SVG:      svg,
		Data:     i.data.Clone(),
		Options:  i.opts,
	}
	ctx, exporter := i.ctx, i.exporter
	go func() {
		defer close(out)
		res, err := exporter.Export(ctx, snap)
		if err != nil {
			err = errors.Wrap(errors.ErrCodeExportFailed, err, "export %s", snap.Instance)
		}
		out <- ExportResult{Result: res, Err: err}
	}()
	return out
}

// SceneSVG returns the current scene as a standalone SVG document.
func (i *Instance) SceneSVG() ([]byte, error) {
	return i.surface.Snapshot()
}

func (i *Instance) gone(op string) bool {
	if i.disposed {
		i.logger.Warn(op+": instance disposed")
		return true
	}
	return false
}

// load replaces the document with a normalized private copy.
func (i *Instance) load(data workflow.Data) {
	d := data.Clone()
	if dropped := d.Dedup(); len(dropped) > 0 {
		i.logger.Warn("duplicate node ids dropped", "ids", dropped)
	}
	d.Normalize()
	i.data = d

	manual := make(map[string]bool, len(d.Nodes))
	for _, n := range d.Nodes {
		if n.Placed() {
			manual[n.ID] = true
		}
	}
	i.manual = manual
}

func (i *Instance) relayout() {
	start := time.Now()
	levels := layout.Apply(i.data, i.opts)
	observability.Diagram().OnLayout(i.ctx, i.id, len(i.data.Nodes), len(levels), time.Since(start))
}

func (i *Instance) render() {
	start := time.Now()
	i.renderer.RenderFull(i.data, i.opts, i.camera.Transform())
	elements := len(i.data.Nodes) + len(i.renderer.Edges())
	observability.Diagram().OnRender(i.ctx, i.id, elements, time.Since(start))
}

func (i *Instance) fit() bool {
	bounds, ok := i.data.Bounds(i.opts.NodeSize())
	if !ok {
		return false
	}
	i.camera.SetViewport(i.surface.Size())
	return i.camera.FitToBounds(bounds)
}

// maybeFit performs the one automatic fit once there is something to fit.
func (i *Instance) maybeFit() {
	if i.opts.FitToScreen && !i.fitted {
		i.fitted = i.fit()
	}
}

func (i *Instance) transformChanged(t camera.Transform) {
	i.renderer.SetTransform(t)
	i.notifier.TransformChanged(i.id, t)
}
