// Package cache provides pluggable caching for parsed diagrams and rendered
// artifacts.
//
// The pipeline caches derived data only: parsed class diagrams keyed by a
// hash of the source files, and rendered artifacts keyed by a hash of the
// layout inputs and render options. Entries carry a TTL; the cache is never
// a durable diagram store.
//
// Backends:
//   - FileCache: entries as JSON files under a directory (CLI default)
//   - RedisCache: shared cache for the render service
//   - MongoCache: TTL-indexed collection for deployments already on MongoDB
//   - NullCache: disables caching
package cache

import (
	"context"
	"time"
)

// DefaultTTL is the default lifetime for cached entries.
const DefaultTTL = 24 * time.Hour

// Cache is the interface implemented by all cache backends.
//
// Get returns (data, found, error): a miss is (nil, false, nil), never an
// error. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// DiagramKey identifies a parsed ClassDiagram by language and the
	// content hash of the source files.
	DiagramKey(language, sourceHash string) string

	// LayoutKey identifies a computed layout by diagram hash and layout options.
	LayoutKey(diagramHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendered artifact by layout hash, format,
	// and render options.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts captures the options that affect layout output.
type LayoutKeyOpts struct {
	BoxWidth    float64
	LevelGap    float64
	MaxLevels   int
	OrderPasses int
}

// ArtifactKeyOpts captures the options that affect rendered output.
type ArtifactKeyOpts struct {
	Format string
	Scale  float64
	Theme  string
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DiagramKey generates a key for parsed diagram caching.
func (DefaultKeyer) DiagramKey(language, sourceHash string) string {
	return hashKey("diagram", language, sourceHash)
}

// LayoutKey generates a key for layout caching.
func (DefaultKeyer) LayoutKey(diagramHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", diagramHash, opts)
}

// ArtifactKey generates a key for rendered artifact caching.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// The render service uses per-session prefixes so concurrent uploads with
// identical filenames cannot collide.
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

// DiagramKey generates a prefixed key for parsed diagram caching.
func (k *ScopedKeyer) DiagramKey(language, sourceHash string) string {
	return k.prefix + k.inner.DiagramKey(language, sourceHash)
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(diagramHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(diagramHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
