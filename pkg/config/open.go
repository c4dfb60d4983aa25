package config

import (
	"context"

	"github.com/matzehuels/flowtower/pkg/cache"
	"github.com/matzehuels/flowtower/pkg/render/export"
)

// Open connects the configured cache. fileDir is used by the file backend
// when no dir is configured.
func (c CacheConfig) Open(ctx context.Context, fileDir string) (cache.Cache, error) {
	switch c.Backend {
	case CacheRedis:
		return cache.NewRedisCache(ctx, c.RedisURL)
	case CacheMongo:
		return cache.NewMongoCache(ctx, c.MongoURI, c.MongoDatabase, c.MongoCollection)
	case CacheFile:
		dir := c.Dir
		if dir == "" {
			dir = fileDir
		}
		if dir == "" {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	default:
		return cache.NewNullCache(), nil
	}
}

// Keyer returns the key builder, scoped when a prefix is configured.
func (c CacheConfig) Keyer() cache.Keyer {
	if c.Prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Prefix)
}

// ExportBackends returns the raster backends in configured order.
func (e ExportConfig) ExportBackends() []export.Backend {
	backends := make([]export.Backend, 0, len(e.Backends))
	for _, name := range e.Backends {
		switch name {
		case BackendRSVG:
			backends = append(backends, export.RSVG{})
		case BackendGraphviz:
			backends = append(backends, export.Graphviz{})
		}
	}
	return backends
}

// Exporter builds an exporter over c using the configured backends and scale.
func (cfg Config) Exporter(c cache.Cache, opts ...export.Option) *export.Exporter {
	base := []export.Option{
		export.WithBackends(cfg.Export.ExportBackends()...),
		export.WithScale(cfg.Export.Scale),
		export.WithCache(c, cfg.Cache.TTL),
		export.WithKeyer(cfg.Cache.Keyer()),
	}
	return export.New(append(base, opts...)...)
}
