// Package cache stores rendered diagram artifacts (exported images and scene
// SVGs) so repeated exports of an unchanged scene skip rasterization.
//
// # Backends
//
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: sharded JSON entries on local disk, used by the CLI
//   - [RedisCache]: shared cache for the host server
//   - [MongoCache]: shared cache when a MongoDB deployment is already at hand
//
// All backends implement [Cache]. Keys are built by a [Keyer] so that backends
// never need to understand what they store.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
//
// Get returns (nil, false, nil) on a miss. A non-nil error means the backend
// failed; callers treat that as a miss after logging it.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer builds cache keys for diagram artifacts.
type Keyer interface {
	// LayoutKey identifies computed node positions for a document.
	LayoutKey(dataHash string, opts LayoutKeyOpts) string
	// ExportKey identifies an exported image of a scene.
	ExportKey(sceneHash string, opts ExportKeyOpts) string
}

// LayoutKeyOpts are the options that change layout output.
type LayoutKeyOpts struct {
	Direction         string  `json:"direction"`
	NodeWidth         float64 `json:"node_width"`
	NodeHeight        float64 `json:"node_height"`
	HorizontalSpacing float64 `json:"horizontal_spacing"`
	VerticalSpacing   float64 `json:"vertical_spacing"`
}

// ExportKeyOpts are the options that change export output.
type ExportKeyOpts struct {
	Backend string  `json:"backend"`
	Format  string  `json:"format"`
	Scale   float64 `json:"scale"`
}

// DefaultKeyer hashes key options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(dataHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", dataHash, opts)
}

// ExportKey returns "export:<sha256>".
func (DefaultKeyer) ExportKey(sceneHash string, opts ExportKeyOpts) string {
	return hashKey("export", sceneHash, opts)
}

var _ Keyer = DefaultKeyer{}
