package cache

// ScopedKeyer wraps a Keyer with a prefix so that several servers can share
// one Redis or Mongo backend without colliding.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "flowtower:staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// LayoutKey generates a prefixed layout key.
func (k *ScopedKeyer) LayoutKey(dataHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(dataHash, opts)
}

// ExportKey generates a prefixed export key.
func (k *ScopedKeyer) ExportKey(sceneHash string, opts ExportKeyOpts) string {
	return k.prefix + k.inner.ExportKey(sceneHash, opts)
}
