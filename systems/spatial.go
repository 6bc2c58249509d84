// Package systems provides ECS systems for the simulation.
package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/beans/components"
)

// Neighbor holds a nearby entity with precomputed spatial data.
type Neighbor struct {
	E      ecs.Entity
	DX, DY float32 // Delta from query origin to the entity
	DistSq float32 // Squared distance (avoid sqrt in hot path)
}

// cellKey addresses one grid bucket: (floor(x/cellSize), floor(y/cellSize)).
type cellKey struct {
	cx, cy int32
}

// SpatialGrid buckets entities by the cell containing their position.
// Each entity occupies exactly one cell. Cells are created on demand and
// dropped when they empty, so the grid is unbounded and sparse.
type SpatialGrid struct {
	cellSize float32
	cells    map[cellKey][]ecs.Entity
	owner    map[ecs.Entity]cellKey
}

// NewSpatialGrid creates an empty grid with the given cell edge length.
func NewSpatialGrid(cellSize float32) *SpatialGrid {
	return &SpatialGrid{
		cellSize: cellSize,
		cells:    make(map[cellKey][]ecs.Entity),
		owner:    make(map[ecs.Entity]cellKey),
	}
}

func (g *SpatialGrid) keyOf(x, y float32) cellKey {
	return cellKey{cx: g.cellIndex(x), cy: g.cellIndex(y)}
}

// cellIndex saturates at the int32 range so that huge or infinite
// coordinates still order correctly against occupied cells.
func (g *SpatialGrid) cellIndex(v float32) int32 {
	c := math.Floor(float64(v) / float64(g.cellSize))
	switch {
	case math.IsNaN(c):
		return 0
	case c <= math.MinInt32:
		return math.MinInt32
	case c >= math.MaxInt32:
		return math.MaxInt32
	}
	return int32(c)
}

// box returns the key range covering [x-r, x+r] x [y-r, y+r] and whether
// walking it costs more than visiting every occupied cell.
func (g *SpatialGrid) box(x, y, radius float32) (lo, hi cellKey, wide bool) {
	lo = g.keyOf(x-radius, y-radius)
	hi = g.keyOf(x+radius, y+radius)
	span := float64(int64(hi.cx)-int64(lo.cx)+1) * float64(int64(hi.cy)-int64(lo.cy)+1)
	return lo, hi, span > float64(len(g.cells))
}

func (k cellKey) within(lo, hi cellKey) bool {
	return k.cx >= lo.cx && k.cx <= hi.cx && k.cy >= lo.cy && k.cy <= hi.cy
}

// Insert registers an entity at the given position. Inserting an entity
// that is already registered behaves like Update.
func (g *SpatialGrid) Insert(e ecs.Entity, x, y float32) {
	if _, ok := g.owner[e]; ok {
		g.Update(e, x, y)
		return
	}
	key := g.keyOf(x, y)
	g.cells[key] = append(g.cells[key], e)
	g.owner[e] = key
}

// Remove unregisters an entity. Removing an unknown entity is a no-op.
func (g *SpatialGrid) Remove(e ecs.Entity) {
	key, ok := g.owner[e]
	if !ok {
		return
	}
	g.detach(e, key)
	delete(g.owner, e)
}

// Update moves an entity to the bucket of its new position. It only touches
// the buckets when the cell key changed and reports whether it did.
// Updating an unknown entity is a no-op.
func (g *SpatialGrid) Update(e ecs.Entity, x, y float32) bool {
	old, ok := g.owner[e]
	if !ok {
		return false
	}
	key := g.keyOf(x, y)
	if key == old {
		return false
	}
	g.detach(e, old)
	g.cells[key] = append(g.cells[key], e)
	g.owner[e] = key
	return true
}

func (g *SpatialGrid) detach(e ecs.Entity, key cellKey) {
	bucket := g.cells[key]
	for i, other := range bucket {
		if other == e {
			last := len(bucket) - 1
			bucket[i] = bucket[last]
			bucket = bucket[:last]
			break
		}
	}
	if len(bucket) == 0 {
		delete(g.cells, key)
		return
	}
	g.cells[key] = bucket
}

// Query appends to dst every entity whose cell intersects the box
// [x-r, x+r] x [y-r, y+r]. The result is a superset of the entities within
// the circle; callers re-check exact distance. Order is unspecified.
func (g *SpatialGrid) Query(dst []ecs.Entity, x, y, radius float32) []ecs.Entity {
	if !(radius >= 0) {
		radius = 0
	}
	lo, hi, wide := g.box(x, y, radius)

	// Very wide queries visit the occupied cells instead of the box
	if wide {
		for key, bucket := range g.cells {
			if key.within(lo, hi) {
				dst = append(dst, bucket...)
			}
		}
		return dst
	}

	for cx := int64(lo.cx); cx <= int64(hi.cx); cx++ {
		for cy := int64(lo.cy); cy <= int64(hi.cy); cy++ {
			dst = append(dst, g.cells[cellKey{int32(cx), int32(cy)}]...)
		}
	}
	return dst
}

// QueryRadiusInto finds entities within radius and appends to dst.
// Reuse dst across calls to avoid allocations.
func (g *SpatialGrid) QueryRadiusInto(dst []Neighbor, x, y, radius float32, exclude ecs.Entity, posMap *ecs.Map1[components.Position]) []Neighbor {
	if !(radius >= 0) {
		radius = 0
	}
	radiusSq := radius * radius
	lo, hi, wide := g.box(x, y, radius)

	visit := func(bucket []ecs.Entity) {
		for _, e := range bucket {
			if e == exclude {
				continue
			}
			pos := posMap.Get(e)
			if pos == nil {
				continue
			}
			dx, dy := pos.X-x, pos.Y-y
			distSq := dx*dx + dy*dy
			if distSq <= radiusSq {
				dst = append(dst, Neighbor{E: e, DX: dx, DY: dy, DistSq: distSq})
			}
		}
	}

	if wide {
		for key, bucket := range g.cells {
			if key.within(lo, hi) {
				visit(bucket)
			}
		}
		return dst
	}
	for cx := int64(lo.cx); cx <= int64(hi.cx); cx++ {
		for cy := int64(lo.cy); cy <= int64(hi.cy); cy++ {
			visit(g.cells[cellKey{int32(cx), int32(cy)}])
		}
	}
	return dst
}

// Has reports whether the entity is registered.
func (g *SpatialGrid) Has(e ecs.Entity) bool {
	_, ok := g.owner[e]
	return ok
}

// Len returns the number of registered entities.
func (g *SpatialGrid) Len() int {
	return len(g.owner)
}

// CellCount returns the number of non-empty buckets.
func (g *SpatialGrid) CellCount() int {
	return len(g.cells)
}
