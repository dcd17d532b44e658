package tick

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/duskrealm/mudforge/internal/connmgr"
	"github.com/duskrealm/mudforge/internal/instance"
	"github.com/duskrealm/mudforge/internal/model"
	"github.com/duskrealm/mudforge/internal/world"
)

func newTestLoop() (*Loop, *world.World, *instance.Manager) {
	w := world.New()
	im := instance.New()
	cm := connmgr.New(connmgr.Config{MaxConnections: 10, MaxPerHost: 10, RateWindow: time.Minute, RateThreshold: 20})
	rng := rand.New(rand.NewPCG(1, 1))
	return New(w, im, cm, rng), w, im
}

// Each game tick applies a room's HP/mana regen to its live
// occupants, capped at max HP, and skips anyone already Dead.
func TestRunGameTick_Regen(t *testing.T) {
	loop, w, _ := newTestLoop()
	room := model.NewRoom(3001)
	room.HPRegen = 5
	room.ManaRegen = 3
	w.LoadRoom(room)

	p := model.NewPlayerCharacter(1, "Regenerator")
	p.SetHitPoints(90)
	p.SetMaxHitPoints(100)
	room.AddCharacter(p)

	mobTmpl := &model.MobileTemplate{Vnum: 1000, MaxHP: 50}
	mob := model.NewMobileInstance(2, mobTmpl, 3001)
	mob.SetHitPoints(40)
	mob.SetMaxHitPoints(50)
	room.AddCharacter(mob)

	dead := model.NewPlayerCharacter(3, "Ghost")
	dead.SetHitPoints(0)
	dead.SetMaxHitPoints(100)
	dead.SetPosition(model.PositionDead)
	room.AddCharacter(dead)

	loop.runGameTick(time.Now())

	if p.HitPoints() != 95 {
		t.Errorf("player HP after regen = %d, want 95", p.HitPoints())
	}
	if mob.HitPoints() != 45 {
		t.Errorf("mobile HP after regen = %d, want 45", mob.HitPoints())
	}
	if mob.Mana != 3 {
		t.Errorf("mobile mana after regen = %d, want 3", mob.Mana)
	}
	if dead.HitPoints() != 0 {
		t.Errorf("dead character's HP changed to %d, want unchanged at 0", dead.HitPoints())
	}
}

// Regen never exceeds a character's max hit points.
func TestRunGameTick_RegenCapsAtMaxHP(t *testing.T) {
	loop, w, _ := newTestLoop()
	room := model.NewRoom(3001)
	room.HPRegen = 20
	w.LoadRoom(room)

	p := model.NewPlayerCharacter(1, "Topped")
	p.SetHitPoints(95)
	p.SetMaxHitPoints(100)
	room.AddCharacter(p)

	loop.runGameTick(time.Now())

	if p.HitPoints() != 100 {
		t.Errorf("HP after over-regen = %d, want capped at 100", p.HitPoints())
	}
}

// Combat rounds run only once every 3 game ticks, not every tick.
func TestRunGameTick_CombatRoundCadence(t *testing.T) {
	loop, _, _ := newTestLoop()

	now := time.Now()
	loop.runGameTick(now)
	if loop.sinceRound != gameTickInterval {
		t.Fatalf("sinceRound after 1 tick = %v, want %v", loop.sinceRound, gameTickInterval)
	}
	loop.runGameTick(now)
	if loop.sinceRound != 2*gameTickInterval {
		t.Fatalf("sinceRound after 2 ticks = %v, want %v", loop.sinceRound, 2*gameTickInterval)
	}
	loop.runGameTick(now)
	if loop.sinceRound != 0 {
		t.Fatalf("sinceRound after reaching roundInterval = %v, want reset to 0", loop.sinceRound)
	}
}

// Zone aging advances once every 60 game ticks (the 1-minute
// LifespanMin granularity), not every tick.
func TestRunGameTick_ZoneAgeCadence(t *testing.T) {
	loop, w, _ := newTestLoop()
	z := model.NewZone(30)
	z.LifespanMin = 1000
	w.LoadZone(z)

	now := time.Now()
	for i := 0; i < 59; i++ {
		loop.runGameTick(now)
	}
	if got := z.AgeMinutes(); got != 0 {
		t.Fatalf("zone age after 59 ticks = %d, want 0", got)
	}

	loop.runGameTick(now)
	if got := z.AgeMinutes(); got != 1 {
		t.Fatalf("zone age after 60 ticks = %d, want 1", got)
	}
}

// handleDeath sends the death/slain messages, clears the killer's fight
// target, and (for a dead mobile) removes it from the room and instance
// tracking; a dead player is left in place for the session layer to
// handle respawn.
func TestHandleDeath_PlayerVictim(t *testing.T) {
	loop, w, im := newTestLoop()
	room := model.NewRoom(3001)
	w.LoadRoom(room)

	victim := model.NewPlayerCharacter(1, "Victim")
	victim.SetHitPoints(0)
	victimSink := &recordingSink{}
	victim.SetOutput(victimSink)
	victim.SetRoomVnum(3001)
	room.AddCharacter(victim)

	killer := model.NewPlayerCharacter(2, "Killer")
	killerSink := &recordingSink{}
	killer.SetOutput(killerSink)
	killer.SetFightTarget(victim)
	killer.SetPosition(model.PositionFighting)
	room.AddCharacter(killer)

	loop.handleDeath(room, victim, time.Now())

	if len(victimSink.lines) == 0 || victimSink.lines[len(victimSink.lines)-1] != "You have died." {
		t.Errorf("victim did not receive the death message: %v", victimSink.lines)
	}
	if killer.FightTarget() != nil {
		t.Error("killer's fight target was not cleared")
	}
	if killer.Position() != model.PositionStanding {
		t.Errorf("killer position = %v, want Standing", killer.Position())
	}
	found := false
	for _, line := range killerSink.lines {
		if line == "You have slain Victim!" {
			found = true
		}
	}
	if !found {
		t.Errorf("killer did not receive the slain message: %v", killerSink.lines)
	}

	stillThere := false
	for _, c := range room.Characters() {
		if c.ID() == victim.ID() {
			stillThere = true
		}
	}
	if !stillThere {
		t.Error("dead player was removed from the room; players should remain for respawn handling")
	}
	if im.FindMobile(victim.ID()) != nil {
		t.Error("a player's ID should never appear in the instance manager's mobile tracking")
	}
}

func TestHandleDeath_MobileVictimRemovedFromWorld(t *testing.T) {
	loop, w, im := newTestLoop()
	room := model.NewRoom(3001)
	w.LoadRoom(room)

	tmpl := &model.MobileTemplate{Vnum: 1000, MaxHP: 10}
	victim := model.NewMobileInstance(model.CharID(im.NextID()), tmpl, 3001)
	im.TrackMobile(victim)
	room.AddCharacter(victim)

	loop.handleDeath(room, victim, time.Now())

	if im.FindMobile(victim.ID()) != nil {
		t.Error("dead mobile should be removed from instance tracking")
	}
	for _, c := range room.Characters() {
		if c.ID() == victim.ID() {
			t.Error("dead mobile should be removed from the room")
		}
	}
}

// runHousekeepingTick sweeps stale connections and inactive instances.
func TestRunHousekeepingTick_Sweeps(t *testing.T) {
	loop, _, im := newTestLoop()

	tmpl := &model.MobileTemplate{Vnum: 1000}
	stale := model.NewMobileInstance(model.CharID(im.NextID()), tmpl, 3001)
	stale.Active = false
	im.TrackMobile(stale)

	loop.runHousekeepingTick()

	if im.FindMobile(stale.ID()) != nil {
		t.Error("housekeeping tick did not sweep an inactive mobile instance")
	}
}

type recordingSink struct {
	lines []string
}

func (s *recordingSink) WriteLine(line string) {
	s.lines = append(s.lines, line)
}
