// Package world holds the static, vnum-keyed game content loaded from
// area files: room, mobile, and object templates, plus zone
// definitions. It is the read path for everything internal/area
// populates at startup and internal/zone consults on reset.
//
// Shaped after la2go's World (internal/world/world.go): a single
// struct wrapping concurrency-safe maps, with typed accessors rather
// than exposing the maps directly. Unlike la2go's 2D region grid —
// which exists to bound line-of-sight queries over a continuous
// coordinate space — this world is a sparse vnum graph, so the
// grid/region machinery has no analogue here.
package world

import (
	"sync"

	"github.com/duskrealm/mudforge/internal/model"
)

// World is the in-memory content registry. Safe for concurrent use; the
// tick loop reads from it continuously while reset processing and
// (rare) live-reload writes hold the same locks.
type World struct {
	mu     sync.RWMutex
	rooms  map[model.Vnum]*model.Room
	mobs   map[model.Vnum]*model.MobileTemplate
	objs   map[model.Vnum]*model.ObjectTemplate
	zones  map[int]*model.Zone
}

// New returns an empty World ready for LoadRoom/LoadMobileTemplate/etc.
func New() *World {
	return &World{
		rooms: make(map[model.Vnum]*model.Room),
		mobs:  make(map[model.Vnum]*model.MobileTemplate),
		objs:  make(map[model.Vnum]*model.ObjectTemplate),
		zones: make(map[int]*model.Zone),
	}
}

// LoadRoom inserts or overwrites the room at its vnum. A duplicate vnum
// across area files is last-load-wins, matching the legacy loader's
// behavior of simply re-keying the map on repeated #vnum headers.
func (w *World) LoadRoom(r *model.Room) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rooms[r.Vnum] = r
}

// LoadMobileTemplate inserts or overwrites a mobile template.
func (w *World) LoadMobileTemplate(t *model.MobileTemplate) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.mobs[t.Vnum] = t
}

// LoadObjectTemplate inserts or overwrites an object template.
func (w *World) LoadObjectTemplate(t *model.ObjectTemplate) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.objs[t.Vnum] = t
}

// LoadZone inserts or overwrites a zone, keyed by its vnum (the zone
// number, distinct from room vnums).
func (w *World) LoadZone(z *model.Zone) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.zones[z.Vnum] = z
}

// GetRoom returns the room at vnum, or nil if it was never loaded.
func (w *World) GetRoom(vnum model.Vnum) *model.Room {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.rooms[vnum]
}

// GetMobileTemplate returns the mobile template at vnum, or nil.
func (w *World) GetMobileTemplate(vnum model.Vnum) *model.MobileTemplate {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.mobs[vnum]
}

// GetObjectTemplate returns the object template at vnum, or nil.
func (w *World) GetObjectTemplate(vnum model.Vnum) *model.ObjectTemplate {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.objs[vnum]
}

// GetZone returns the zone with the given zone number, or nil.
func (w *World) GetZone(vnum int) *model.Zone {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.zones[vnum]
}

// RoomCount returns the number of loaded rooms.
func (w *World) RoomCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.rooms)
}

// Zones returns a snapshot slice of every loaded zone, in no particular
// order, used by the reset engine on each zone-aging pass.
func (w *World) Zones() []*model.Zone {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*model.Zone, 0, len(w.zones))
	for _, z := range w.zones {
		out = append(out, z)
	}
	return out
}

// Rooms returns a snapshot slice of every loaded room.
func (w *World) Rooms() []*model.Room {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*model.Room, 0, len(w.rooms))
	for _, r := range w.rooms {
		out = append(out, r)
	}
	return out
}
