package layout

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/flowtower/pkg/cache"
	"github.com/matzehuels/flowtower/pkg/geometry"
	"github.com/matzehuels/flowtower/pkg/workflow"
)

// cachedLayout is the stored form of one layout pass.
type cachedLayout struct {
	Levels    [][]string                `json:"levels"`
	Positions map[string]geometry.Point `json:"positions"`
}

// ApplyCached is [Apply] backed by c. The key covers the whole document
// (explicit positions included) and the options that change coordinates.
// Cache failures fall back to computing; the bool reports a cache hit.
func ApplyCached(ctx context.Context, c cache.Cache, k cache.Keyer, d *workflow.Data, opts workflow.Options, ttl time.Duration) ([][]string, bool) {
	doc, err := json.Marshal(d)
	if err != nil {
		return Apply(d, opts), false
	}
	key := k.LayoutKey(cache.Hash(doc), cache.LayoutKeyOpts{
		Direction:         string(opts.Direction),
		NodeWidth:         opts.NodeWidth,
		NodeHeight:        opts.NodeHeight,
		HorizontalSpacing: opts.HorizontalSpacing,
		VerticalSpacing:   opts.VerticalSpacing,
	})

	if data, ok, err := c.Get(ctx, key); err == nil && ok {
		var stored cachedLayout
		if json.Unmarshal(data, &stored) == nil {
			assign(d, stored.Positions)
			return stored.Levels, true
		}
	}

	levels := Levels(d)
	positions := Positions(levels, opts)
	assign(d, positions)
	if data, err := json.Marshal(cachedLayout{Levels: levels, Positions: positions}); err == nil {
		_ = c.Set(ctx, key, data, ttl)
	}
	return levels, false
}

func assign(d *workflow.Data, positions map[string]geometry.Point) {
	for i := range d.Nodes {
		n := &d.Nodes[i]
		if n.Position != nil {
			continue
		}
		if p, ok := positions[n.ID]; ok {
			n.Position = &p
		}
	}
}
