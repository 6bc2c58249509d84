package systems

import (
	"log/slog"
	"sort"

	"github.com/pthm-cable/beans/components"
)

// SiteID names a construction site.
type SiteID uint32

// StructureTownCenter is the only structure kind beans currently build.
const StructureTownCenter = "town_center"

// TownCenter is a completed structure anchoring a hoard.
type TownCenter struct {
	X, Y    float32
	Radius  float32
	Biomass float32
}

// Hoard is a registered circular territory.
type Hoard struct {
	ID         components.HoardID
	X, Y       float32
	Radius     float32
	Deposits   int
	TownCenter *TownCenter
}

// ConstructionSite accumulates progress toward a structure.
type ConstructionSite struct {
	ID              SiteID
	Hoard           components.HoardID
	X, Y            float32
	Kind            string
	Progress        float32
	ResourcesNeeded float32

	onComplete func(*ConstructionSite)
}

// Complete reports whether the site has reached its cost.
func (s *ConstructionSite) Complete() bool {
	return s.Progress >= s.ResourcesNeeded
}

// HoardRegistry owns every hoard and construction site.
type HoardRegistry struct {
	hoards    map[components.HoardID]*Hoard
	sites     map[SiteID]*ConstructionSite
	nextHoard components.HoardID
	nextSite  SiteID

	// Town centre trigger, zero disables automatic construction
	TriggerDeposits int
	TownCenterCost  float32

	Events EventSink
}

// NewHoardRegistry creates an empty registry.
func NewHoardRegistry(triggerDeposits int, townCenterCost float32) *HoardRegistry {
	return &HoardRegistry{
		hoards:          make(map[components.HoardID]*Hoard),
		sites:           make(map[SiteID]*ConstructionSite),
		TriggerDeposits: triggerDeposits,
		TownCenterCost:  townCenterCost,
	}
}

// Register creates a hoard and returns its id.
func (r *HoardRegistry) Register(x, y, radius float32) components.HoardID {
	r.nextHoard++
	id := r.nextHoard
	r.hoards[id] = &Hoard{ID: id, X: x, Y: y, Radius: radius}
	r.Events.emit(Event{Kind: EventHoardCreated, Hoard: id, X: x, Y: y, Value: radius})
	slog.Info("hoard created", "hoard", id, "x", x, "y", y, "radius", radius)
	return id
}

// Get returns a copy of a hoard. The second result is false for NoHoard or
// an id that was pruned.
func (r *HoardRegistry) Get(id components.HoardID) (Hoard, bool) {
	h, ok := r.hoards[id]
	if !ok {
		return Hoard{}, false
	}
	return *h, true
}

// Merge creates a hoard at the midpoint of a and b with their averaged
// radius. The originals stay registered until nothing references them.
// If only one of the ids exists it is returned unchanged.
func (r *HoardRegistry) Merge(a, b components.HoardID) components.HoardID {
	ha, okA := r.hoards[a]
	hb, okB := r.hoards[b]
	switch {
	case !okA && !okB:
		return components.NoHoard
	case !okA:
		return b
	case !okB || a == b:
		return a
	}
	id := r.Register((ha.X+hb.X)/2, (ha.Y+hb.Y)/2, (ha.Radius+hb.Radius)/2)
	r.Events.emit(Event{Kind: EventHoardMerged, Hoard: id, X: r.hoards[id].X, Y: r.hoards[id].Y})
	return id
}

// PruneEmpty destroys every hoard not in live, together with the sites it
// owns, and returns the removed ids in ascending order.
func (r *HoardRegistry) PruneEmpty(live map[components.HoardID]struct{}) []components.HoardID {
	var removed []components.HoardID
	for id, h := range r.hoards {
		if _, ok := live[id]; ok {
			continue
		}
		removed = append(removed, id)
		delete(r.hoards, id)
		r.Events.emit(Event{Kind: EventHoardPruned, Hoard: id, X: h.X, Y: h.Y})
	}
	if len(removed) == 0 {
		return nil
	}
	sort.Slice(removed, func(i, j int) bool { return removed[i] < removed[j] })
	for sid, site := range r.sites {
		if _, ok := r.hoards[site.Hoard]; !ok {
			delete(r.sites, sid)
		}
	}
	slog.Debug("hoards pruned", "count", len(removed))
	return removed
}

// StartConstruction opens a site owned by a hoard. It fails for an unknown
// hoard. onComplete may be nil.
func (r *HoardRegistry) StartConstruction(id components.HoardID, x, y float32, kind string, cost float32, onComplete func(*ConstructionSite)) (SiteID, bool) {
	if _, ok := r.hoards[id]; !ok {
		return 0, false
	}
	r.nextSite++
	site := &ConstructionSite{
		ID:              r.nextSite,
		Hoard:           id,
		X:               x,
		Y:               y,
		Kind:            kind,
		ResourcesNeeded: cost,
		onComplete:      onComplete,
	}
	r.sites[site.ID] = site
	r.Events.emit(Event{Kind: EventConstructionStarted, Hoard: id, X: x, Y: y, Value: cost})
	return site.ID, true
}

// ConstructionSites returns the sites lying within the hoard's radius of
// its centre, ordered by id.
func (r *HoardRegistry) ConstructionSites(id components.HoardID) []*ConstructionSite {
	h, ok := r.hoards[id]
	if !ok {
		return nil
	}
	radiusSq := h.Radius * h.Radius
	var out []*ConstructionSite
	for _, s := range r.sites {
		if distanceSq(s.X, s.Y, h.X, h.Y) <= radiusSq {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Site returns a site by id.
func (r *HoardRegistry) Site(id SiteID) (*ConstructionSite, bool) {
	s, ok := r.sites[id]
	return s, ok
}

// AddProgress adds resources to a site, clamped at its cost. When the site
// completes its callback runs and the site is destroyed, so completion
// fires at most once. It reports whether this call completed the site.
func (r *HoardRegistry) AddProgress(id SiteID, amount float32) bool {
	site, ok := r.sites[id]
	if !ok {
		return false
	}
	site.Progress += amount
	if site.Progress < site.ResourcesNeeded {
		return false
	}
	site.Progress = site.ResourcesNeeded
	delete(r.sites, id)
	if site.onComplete != nil {
		site.onComplete(site)
	}
	r.Events.emit(Event{Kind: EventConstructionComplete, Hoard: site.Hoard, X: site.X, Y: site.Y, Value: site.ResourcesNeeded})
	slog.Info("construction complete", "hoard", site.Hoard, "kind", site.Kind)
	return true
}

// RecordDeposit counts a food deposit at a hoard. Deposits feed the hoard's
// town centre once built and open its construction site once enough have
// been made.
func (r *HoardRegistry) RecordDeposit(id components.HoardID, satiety float32) {
	h, ok := r.hoards[id]
	if !ok {
		return
	}
	h.Deposits++
	if h.TownCenter != nil {
		h.TownCenter.Biomass += satiety
		return
	}
	if r.TriggerDeposits <= 0 || h.Deposits < r.TriggerDeposits {
		return
	}
	for _, s := range r.sites {
		if s.Hoard == id {
			return
		}
	}
	r.StartConstruction(id, h.X, h.Y, StructureTownCenter, r.TownCenterCost, r.completeTownCenter)
}

func (r *HoardRegistry) completeTownCenter(site *ConstructionSite) {
	h, ok := r.hoards[site.Hoard]
	if !ok {
		return
	}
	h.TownCenter = &TownCenter{X: site.X, Y: site.Y, Radius: h.Radius}
}

// Len returns the number of registered hoards.
func (r *HoardRegistry) Len() int {
	return len(r.hoards)
}

// SiteCount returns the number of open construction sites.
func (r *HoardRegistry) SiteCount() int {
	return len(r.sites)
}

// Hoards returns copies of every hoard ordered by id.
func (r *HoardRegistry) Hoards() []Hoard {
	out := make([]Hoard, 0, len(r.hoards))
	for _, h := range r.hoards {
		out = append(out, *h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Sites returns every open site ordered by id.
func (r *HoardRegistry) Sites() []*ConstructionSite {
	out := make([]*ConstructionSite, 0, len(r.sites))
	for _, s := range r.sites {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// TownCenters counts hoards with a completed town centre.
func (r *HoardRegistry) TownCenters() int {
	n := 0
	for _, h := range r.hoards {
		if h.TownCenter != nil {
			n++
		}
	}
	return n
}
