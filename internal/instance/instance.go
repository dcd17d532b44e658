// Package instance owns the set of live mobile and object instances,
// keyed by instance id. It is the one place that knows "everything
// alive right now" as opposed to internal/world's static templates.
//
// Shaped after la2go's object/npc registries (internal/world/world.go:
// sync.Map keyed by objectID, with a parallel npcs map for fast
// NPC-only lookups) — this manager follows the same two-tier shape (a
// generic instance set plus typed convenience queries) but under a
// single mutex rather than sync.Map, since InRoom/InZone need a
// consistent iteration snapshot rather than sync.Map's weaker
// guarantees.
package instance

import (
	"sync"
	"sync/atomic"

	"github.com/duskrealm/mudforge/internal/model"
)

// Manager tracks every live mobile and object instance.
type Manager struct {
	mu      sync.RWMutex
	mobiles map[uint64]*model.MobileInstance
	objects map[uint64]*model.ObjectInstance

	nextID atomic.Uint64
}

func New() *Manager {
	return &Manager{
		mobiles: make(map[uint64]*model.MobileInstance),
		objects: make(map[uint64]*model.ObjectInstance),
	}
}

// NextID allocates a process-lifetime-unique instance id. It is the
// single id source for every mobile/object instance created anywhere —
// zone resets, combat's corpse creation, and command handlers that
// conjure objects (e.g. a future "load" admin command) all call this
// rather than keeping their own counters, so instance ids never
// collide across subsystems.
func (m *Manager) NextID() uint64 {
	return m.nextID.Add(1)
}

// TrackMobile registers a mobile instance. Idempotent: tracking the same
// instance id twice is a no-op overwrite, not an error.
func (m *Manager) TrackMobile(mob *model.MobileInstance) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mobiles[uint64(mob.ID())] = mob
}

// TrackObject registers an object instance.
func (m *Manager) TrackObject(obj *model.ObjectInstance) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[obj.InstanceID] = obj
}

// RemoveMobile reports whether the mobile was present before removal.
func (m *Manager) RemoveMobile(id model.CharID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.mobiles[uint64(id)]
	delete(m.mobiles, uint64(id))
	return ok
}

// RemoveObject reports whether the object was present before removal.
func (m *Manager) RemoveObject(id uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[id]
	delete(m.objects, id)
	return ok
}

// MobilesInRoom returns a snapshot of every tracked mobile currently
// located in the given room.
func (m *Manager) MobilesInRoom(vnum model.Vnum) []*model.MobileInstance {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.MobileInstance
	for _, mob := range m.mobiles {
		if mob.RoomVnum() == vnum {
			out = append(out, mob)
		}
	}
	return out
}

// MobilesInZone returns a snapshot of every tracked mobile whose current
// room falls in zoneNum, computed as roomVnum/100 per DikuMUD convention.
func (m *Manager) MobilesInZone(zoneNum int) []*model.MobileInstance {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.MobileInstance
	for _, mob := range m.mobiles {
		if mob.RoomVnum().Zone() == zoneNum {
			out = append(out, mob)
		}
	}
	return out
}

// ObjectsInRoom returns a snapshot of every tracked object whose location
// is InRoom at the given vnum.
func (m *Manager) ObjectsInRoom(vnum model.Vnum) []*model.ObjectInstance {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.ObjectInstance
	for _, obj := range m.objects {
		loc, id := obj.Location()
		if loc == model.InRoom && id == uint64(vnum) {
			out = append(out, obj)
		}
	}
	return out
}

// CountOfMobileTemplate counts active mobile instances spawned from
// templateVnum, used by the reset engine's population caps.
func (m *Manager) CountOfMobileTemplate(templateVnum model.Vnum) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, mob := range m.mobiles {
		if mob.Template.Vnum == templateVnum && mob.Active {
			n++
		}
	}
	return n
}

// CountOfObjectTemplate counts active object instances spawned from
// templateVnum.
func (m *Manager) CountOfObjectTemplate(templateVnum model.Vnum) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, obj := range m.objects {
		if obj.Template.Vnum == templateVnum && obj.Active {
			n++
		}
	}
	return n
}

// FindObject returns the tracked object instance with the given id, or
// nil.
func (m *Manager) FindObject(id uint64) *model.ObjectInstance {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.objects[id]
}

// FindMobile returns the tracked mobile instance with the given id, or
// nil.
func (m *Manager) FindMobile(id model.CharID) *model.MobileInstance {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mobiles[uint64(id)]
}

// SweepMobiles removes every tracked mobile whose Active flag is false,
// returning the count removed.
func (m *Manager) SweepMobiles() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	var dead []uint64
	for id, mob := range m.mobiles {
		if !mob.Active {
			dead = append(dead, id)
		}
	}
	for _, id := range dead {
		delete(m.mobiles, id)
	}
	return len(dead)
}

// SweepObjects removes every tracked object whose Active flag is false,
// returning the count removed.
func (m *Manager) SweepObjects() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	var dead []uint64
	for id, obj := range m.objects {
		if !obj.Active {
			dead = append(dead, id)
		}
	}
	for _, id := range dead {
		delete(m.objects, id)
	}
	return len(dead)
}
