// Package zone implements the zone reset engine: the scripted
// repopulation of a zone's mobiles, objects, and door state once its
// age reaches its lifespan, driven by the classic DikuMUD M/O/E/G/D/P/R
// command vocabulary.
//
// Shaped after la2go's spawn manager (internal/spawn/manager.go),
// which walks a similar condition-gated command list to (re)populate
// NPCs; this engine follows the same "roll once, then replay the
// command list in order" shape but keys off vnum-addressed area
// content instead of spawn tables keyed by a database id.
package zone

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/duskrealm/mudforge/internal/instance"
	"github.com/duskrealm/mudforge/internal/model"
	"github.com/duskrealm/mudforge/internal/world"
)

// Engine runs reset processing for every zone in w against the
// instances tracked in im.
type Engine struct {
	world    *world.World
	instances *instance.Manager
	rng      *rand.Rand
}

func NewEngine(w *world.World, im *instance.Manager, rng *rand.Rand) *Engine {
	return &Engine{world: w, instances: im, rng: rng}
}

// Tick advances every zone's age by elapsedMinutes and attempts a reset
// on any zone that becomes eligible.
func (e *Engine) Tick(elapsedMinutes int) {
	for _, z := range e.world.Zones() {
		z.AdvanceAge(elapsedMinutes)
		if z.AgeMinutes() < z.LifespanMin {
			continue
		}
		if !e.eligible(z) {
			continue
		}
		if e.rng.IntN(100)+1 > z.ResetChance {
			continue
		}
		e.reset(z)
		z.ResetNow(time.Now().Unix())
	}
}

// eligible applies the resetMode gate.
func (e *Engine) eligible(z *model.Zone) bool {
	switch z.ResetMode {
	case model.ResetNever:
		return false
	case model.ResetAlways:
		return true
	case model.ResetWhenEmpty:
		return !e.anyPlayerPresent(z)
	default:
		return false
	}
}

func (e *Engine) anyPlayerPresent(z *model.Zone) bool {
	low := z.BottomRoomVnum()
	high := z.TopRoomVnum
	for v := low; v <= high; v++ {
		room := e.world.GetRoom(v)
		if room == nil {
			continue
		}
		for _, c := range room.Characters() {
			if !c.IsMobile() {
				return true
			}
		}
	}
	return false
}

// reset replays z's command list in stream order, tracking the "current
// mobile"/"current container" nesting state E/G/P commands depend on.
func (e *Engine) reset(z *model.Zone) {
	var (
		currentMobile    *model.MobileInstance
		currentContainer *model.ObjectInstance
		lastSpawnOK      bool
	)

	for _, cmd := range z.Commands {
		conditional := cmd.IfFlag() == 1
		if conditional && !lastSpawnOK {
			continue
		}

		switch cmd.Code {
		case model.ResetLoadMobile:
			tmplVnum, limit, roomVnum := model.Vnum(cmd.Args[1]), cmd.Args[2], model.Vnum(cmd.Args[3])
			tmpl := e.world.GetMobileTemplate(tmplVnum)
			if tmpl == nil {
				slog.Warn("reset M: unknown mobile template", "zone", z.Vnum, "vnum", tmplVnum)
				lastSpawnOK = false
				continue
			}
			if e.instances.CountOfMobileTemplate(tmplVnum) >= limit {
				lastSpawnOK = false
				continue
			}
			mob := model.NewMobileInstance(model.CharID(e.instances.NextID()), tmpl, roomVnum)
			e.instances.TrackMobile(mob)
			if room := e.world.GetRoom(roomVnum); room != nil {
				room.AddCharacter(mob)
			}
			currentMobile = mob
			lastSpawnOK = true

		case model.ResetLoadObject:
			tmplVnum, limit, roomVnum := model.Vnum(cmd.Args[1]), cmd.Args[2], model.Vnum(cmd.Args[3])
			tmpl := e.world.GetObjectTemplate(tmplVnum)
			if tmpl == nil {
				slog.Warn("reset O: unknown object template", "zone", z.Vnum, "vnum", tmplVnum)
				lastSpawnOK = false
				continue
			}
			if e.instances.CountOfObjectTemplate(tmplVnum) >= limit {
				lastSpawnOK = false
				continue
			}
			obj := model.NewObjectInstance(e.instances.NextID(), tmpl)
			obj.SetLocation(model.InRoom, uint64(roomVnum))
			e.instances.TrackObject(obj)
			if room := e.world.GetRoom(roomVnum); room != nil {
				room.AddObject(obj)
			}
			currentContainer = obj
			lastSpawnOK = true

		case model.ResetEquip:
			if currentMobile == nil {
				continue
			}
			tmplVnum, slot := model.Vnum(cmd.Args[1]), cmd.Args[2]
			tmpl := e.world.GetObjectTemplate(tmplVnum)
			if tmpl == nil {
				continue
			}
			obj := model.NewObjectInstance(e.instances.NextID(), tmpl)
			obj.SetLocation(model.EquippedOnMobile, uint64(currentMobile.ID()))
			e.instances.TrackObject(obj)
			currentMobile.Equipment[slot] = obj

		case model.ResetGive:
			if currentMobile == nil {
				continue
			}
			tmplVnum := model.Vnum(cmd.Args[1])
			tmpl := e.world.GetObjectTemplate(tmplVnum)
			if tmpl == nil {
				continue
			}
			obj := model.NewObjectInstance(e.instances.NextID(), tmpl)
			obj.SetLocation(model.InMobileInventory, uint64(currentMobile.ID()))
			e.instances.TrackObject(obj)
			currentMobile.Inventory = append(currentMobile.Inventory, obj)

		case model.ResetDoor:
			roomVnum, direction, state := model.Vnum(cmd.Args[1]), cmd.Args[2], cmd.Args[3]
			if room := e.world.GetRoom(roomVnum); room != nil {
				room.SetDoorState(model.Direction(direction), model.DoorState(state))
			}

		case model.ResetPutContainer:
			if currentContainer == nil {
				continue
			}
			tmplVnum := model.Vnum(cmd.Args[1])
			tmpl := e.world.GetObjectTemplate(tmplVnum)
			if tmpl == nil {
				continue
			}
			obj := model.NewObjectInstance(e.instances.NextID(), tmpl)
			obj.SetLocation(model.InContainer, currentContainer.InstanceID)
			e.instances.TrackObject(obj)
			currentContainer.AddContent(obj)

		case model.ResetRemoveObject:
			roomVnum, objVnum := model.Vnum(cmd.Args[1]), model.Vnum(cmd.Args[2])
			room := e.world.GetRoom(roomVnum)
			if room == nil {
				continue
			}
			for _, obj := range room.Objects() {
				if obj.Template.Vnum == objVnum {
					room.RemoveObject(obj.InstanceID)
					obj.Active = false
					break
				}
			}
		}
	}
}
