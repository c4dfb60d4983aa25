// Package diagram hosts interactive workflow diagram instances.
//
// An [Instance] owns one workflow document, one camera, one drag controller
// slot and one scene renderer bound to a host-provided [scene.Surface]. The
// host drives it through the operations on Instance (Update, ZoomIn,
// ExportImage, ...) and through raw input events (PointerDown, Wheel,
// TouchStart, ...). The instance reports user actions back through a
// [Notifier].
//
// # Threading
//
// An Instance is not safe for concurrent use. Callers serialize every
// operation on one instance; the host server does this with a per-session
// mutex. ExportImage is the only asynchronous operation: it snapshots the
// scene synchronously and rasterizes in a goroutine that is abandoned when the
// instance is disposed.
//
// # Registry
//
// A [Registry] maps opaque instance ids to live instances: Init inserts,
// Dispose removes and disposes. Disposing an unknown id logs a warning and
// does nothing, so a late event from a closed view never fails the host.
//
// # Interaction
//
// At most one interaction is active per instance: a canvas pan, a pinch or a
// node press. Starting one cancels the other, and a cancelled node drag
// reverts the node to where it was pressed without notifying the host.
package diagram
