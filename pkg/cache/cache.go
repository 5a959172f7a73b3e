package cache

import (
	"context"
	"time"
)

// Default lifetimes for cached artifacts. Layouts are pure functions of
// their key so they can live long; the TTL only bounds storage growth.
const (
	LayoutTTL = 7 * 24 * time.Hour
	RenderTTL = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A ttl of zero stores the entry without expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer derives cache keys for pipeline artifacts.
type Keyer interface {
	// LayoutKey keys a computed layout by the hash of its input graph.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
	// RenderKey keys a rendered artifact by the hash of its layout.
	RenderKey(layoutHash string, opts RenderKeyOpts) string
}

// LayoutKeyOpts lists everything besides the graph that changes a layout.
type LayoutKeyOpts struct {
	AssignLevels bool `json:"assign_levels"`
	BreakCycles  bool `json:"break_cycles"`
	ExpandFlows  bool `json:"expand_flows"`
	// Options is the engine configuration (layout.Options). It is hashed
	// through its JSON encoding.
	Options any `json:"options"`
}

// RenderKeyOpts lists everything besides the layout that changes a render.
type RenderKeyOpts struct {
	Format string  `json:"format"`
	Engine string  `json:"engine"`
	Margin float64 `json:"margin"`
	Scale  float64 `json:"scale"`
}

// DefaultKeyer produces unscoped keys of the form "<kind>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// RenderKey implements Keyer.
func (DefaultKeyer) RenderKey(layoutHash string, opts RenderKeyOpts) string {
	return hashKey("render", layoutHash, opts)
}
