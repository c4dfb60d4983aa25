package diagram

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowtower/pkg/render/scene"
	"github.com/matzehuels/flowtower/pkg/workflow"
)

// Registry maps instance ids to live instances. The map is safe for
// concurrent use; the instances it holds are not.
type Registry struct {
	mu        sync.RWMutex
	instances map[string]*Instance
	logger    *log.Logger
}

// NewRegistry returns an empty registry. A nil logger discards warnings.
func NewRegistry(logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Registry{instances: make(map[string]*Instance), logger: logger}
}

// Init creates an instance and registers it under its id.
func (r *Registry) Init(surface scene.Surface, data workflow.Data, opts workflow.Options, options ...Option) (string, error) {
	options = append([]Option{WithLogger(r.logger)}, options...)
	inst, err := New(surface, data, opts, options...)
	if err != nil {
		return "", err
	}
	r.mu.Lock()
	r.instances[inst.id] = inst
	r.mu.Unlock()
	return inst.id, nil
}

// Get returns the instance registered under id.
func (r *Registry) Get(id string) (*Instance, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inst, ok := r.instances[id]
	return inst, ok
}

// Len returns the number of registered instances.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.instances)
}

// Dispose disposes instance id and removes it. Unknown ids are ignored.
func (r *Registry) Dispose(id string) {
	r.mu.Lock()
	inst, ok := r.instances[id]
	delete(r.instances, id)
	r.mu.Unlock()
	if !ok {
		r.logger.Warn("dispose: diagram not found", "instance", id)
		return
	}
	inst.Dispose()
}
