package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// A miss is reported as (nil, false, nil); errors are reserved for backend
// failures. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default time-to-live per cached stage.
const (
	// TTLSource applies to graphs fetched from remote sources (S3, EC2 exports).
	TTLSource = 24 * time.Hour

	// TTLLayout applies to computed layouts. Layouts are pure functions of the
	// graph and options, so they are kept for a week.
	TTLLayout = 7 * 24 * time.Hour

	// TTLArtifact applies to rendered SVG/PDF/PNG/DOT outputs.
	TTLArtifact = 7 * 24 * time.Hour
)

// Backend names accepted by [Open].
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Backends lists every supported backend name.
var Backends = []string{BackendFile, BackendRedis, BackendMongo, BackendNone}

// =============================================================================
// Keys
// =============================================================================

// LayoutKeyOpts holds every option that changes a computed layout.
type LayoutKeyOpts struct {
	VizType string  `json:"viz_type"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`

	// Bundle
	Beta         float64 `json:"beta,omitempty"`
	RadiusMargin float64 `json:"radius_margin,omitempty"`
	LoopSize     float64 `json:"loop_size,omitempty"`

	// Force
	Repulsion      float64 `json:"repulsion,omitempty"`
	LinkDistance   float64 `json:"link_distance,omitempty"`
	CenterStrength float64 `json:"center_strength,omitempty"`
	AlphaDecay     float64 `json:"alpha_decay,omitempty"`
	AlphaMin       float64 `json:"alpha_min,omitempty"`
	VelocityDecay  float64 `json:"velocity_decay,omitempty"`
	Ticks          int     `json:"ticks,omitempty"`
	Seed           uint64  `json:"seed,omitempty"`

	// Nodelink
	Detailed bool `json:"detailed,omitempty"`
}

// ArtifactKeyOpts holds every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Interactive bool    `json:"interactive,omitempty"`
	Tooltips    bool    `json:"tooltips,omitempty"`
	Scale       float64 `json:"scale,omitempty"`
}

// Keyer builds cache keys for each pipeline stage.
type Keyer interface {
	// SourceKey identifies a graph fetched from a remote source,
	// e.g. SourceKey("s3", "bucket/groups.json").
	SourceKey(kind, ref string) string

	// LayoutKey identifies a layout of the graph with the given content hash.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendered artifact of the layout with the given hash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SourceKey returns "source:<kind>:<ref>".
func (DefaultKeyer) SourceKey(kind, ref string) string {
	return fmt.Sprintf("source:%s:%s", kind, ref)
}

// LayoutKey hashes the graph hash together with the layout options.
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey hashes the layout hash together with the render options.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
