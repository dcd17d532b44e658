// Package tick drives the periodic schedules: corpse decay,
// regeneration, combat rounds, and zone aging on a ~1s game tick, and
// connection/instance sweeping on a ~30s housekeeping tick. The
// per-connection input path runs on its own reader goroutines (see
// cmd/mudforge) rather than a third ticker here — channels deliver
// input as it arrives without a busy poll.
//
// Shaped after la2go's AI tick manager (internal/ai/manager.go): a
// struct wrapping *time.Ticker, a blocking Start(ctx) loop selecting
// on the ticker and ctx.Done, and a Stop channel. This loop
// generalizes that shape to two independent tickers instead of one.
package tick

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/duskrealm/mudforge/internal/combat"
	"github.com/duskrealm/mudforge/internal/connmgr"
	"github.com/duskrealm/mudforge/internal/instance"
	"github.com/duskrealm/mudforge/internal/model"
	"github.com/duskrealm/mudforge/internal/world"
	"github.com/duskrealm/mudforge/internal/zone"
)

const (
	gameTickInterval        = time.Second
	housekeepingTickInterval = 30 * time.Second
	roundInterval           = 3 * time.Second
	zoneAgeInterval         = time.Minute
)

// corpseTemplate is the generic corpse container every death handler
// uses, regardless of area content: DikuMUD corpses are server-
// generated, not area-file records. IsCorpse() matches on Type plus a
// "corpse" substring in the instance's name, both of which HandleDeath
// sets independently of this template's own fields.
var corpseTemplate = &model.ObjectTemplate{
	Vnum:      model.NoVnum,
	Keywords:  "corpse",
	ShortDesc: "a corpse",
	Type:      model.ObjContainer,
}

// Loop drives the game and housekeeping sub-schedules. It owns an
// unguarded rand.Rand — unlike command.SafeRand, nothing else touches
// this source, since every caller here runs on the single tick
// goroutine.
type Loop struct {
	world     *world.World
	instances *instance.Manager
	conns     *connmgr.Manager
	zones     *zone.Engine
	rng       *rand.Rand

	sinceRound  time.Duration
	sinceZoneAge time.Duration
}

// New builds a Loop. rng seeds both the zone engine's reset rolls and
// this loop's own combat-round rolls, so a single seed determines all
// of a process's game-logic randomness.
func New(w *world.World, im *instance.Manager, cm *connmgr.Manager, rng *rand.Rand) *Loop {
	return &Loop{
		world:     w,
		instances: im,
		conns:     cm,
		zones:     zone.NewEngine(w, im, rng),
		rng:       rng,
	}
}

// Start blocks, running both tickers until ctx is canceled.
func (l *Loop) Start(ctx context.Context) error {
	gameTicker := time.NewTicker(gameTickInterval)
	defer gameTicker.Stop()
	housekeepingTicker := time.NewTicker(housekeepingTickInterval)
	defer housekeepingTicker.Stop()

	slog.Info("tick loop started", "game_interval", gameTickInterval, "housekeeping_interval", housekeepingTickInterval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("tick loop stopping")
			return ctx.Err()

		case now := <-gameTicker.C:
			l.runGameTick(now)

		case <-housekeepingTicker.C:
			l.runHousekeepingTick()
		}
	}
}

// runGameTick runs the per-second game work: corpse decay, regen,
// combat rounds (gated by their own 3s cadence), and zone aging
// (gated by a 1-minute cadence, matching the minute-granularity
// LifespanMin area-file field).
func (l *Loop) runGameTick(now time.Time) {
	rooms := l.world.Rooms()

	decayed := 0
	for _, room := range rooms {
		decayed += combat.ProcessCorpseDecay(room, l.instances, now)
	}
	if decayed > 0 {
		slog.Debug("corpse decay sweep", "removed", decayed)
	}

	l.regenRoom(rooms)

	l.sinceRound += gameTickInterval
	if l.sinceRound >= roundInterval {
		l.sinceRound = 0
		l.runCombatRounds(rooms, now)
	}

	l.sinceZoneAge += gameTickInterval
	if l.sinceZoneAge >= zoneAgeInterval {
		l.sinceZoneAge = 0
		l.zones.Tick(1)
	}
}

// regenRoom applies each room's HP/mana regen rates to every occupant.
// Only mobile instances carry a mana pool in this model; players regen
// hit points only.
func (l *Loop) regenRoom(rooms []*model.Room) {
	for _, room := range rooms {
		if room.HPRegen == 0 && room.ManaRegen == 0 {
			continue
		}
		for _, c := range room.Characters() {
			if c.Position() == model.PositionDead {
				continue
			}
			if room.HPRegen != 0 {
				hp := c.HitPoints() + room.HPRegen
				if max := c.MaxHitPoints(); hp > max {
					hp = max
				}
				c.SetHitPoints(hp)
			}
			if mob, ok := c.(*model.MobileInstance); ok && room.ManaRegen != 0 {
				mob.Mana += room.ManaRegen
			}
		}
	}
}

// runCombatRounds collects each room's fighting characters and advances
// one combat round for all of them together, handling any deaths the
// round produces.
func (l *Loop) runCombatRounds(rooms []*model.Room, now time.Time) {
	for _, room := range rooms {
		fighters := fightingCombatants(room)
		if len(fighters) < 2 {
			continue
		}

		dead := combat.RunRound(fighters, l.rng)
		for _, victim := range dead {
			l.handleDeath(room, victim, now)
		}
	}
}

// fightingCombatants returns every character in room whose position is
// Fighting, deduplicated (a character can only be listed once even if
// multiple others target it).
func fightingCombatants(room *model.Room) []model.Character {
	var fighters []model.Character
	for _, c := range room.Characters() {
		if c.Position() == model.PositionFighting {
			fighters = append(fighters, c)
		}
	}
	return fighters
}

// handleDeath runs the combat engine's death handler for victim and
// clears the survivor's fight target, since Character carries no
// "I was defeated" notification channel of its own.
func (l *Loop) handleDeath(room *model.Room, victim model.Character, now time.Time) {
	combat.HandleDeath(victim, corpseTemplate, l.world, l.instances, now)

	victim.SendLine("You have died.")
	for _, other := range room.Characters() {
		if other.ID() == victim.ID() {
			continue
		}
		if other.FightTarget() != nil && other.FightTarget().ID() == victim.ID() {
			other.SetFightTarget(nil)
			other.SetPosition(model.PositionStanding)
			other.SendLine("You have slain " + victim.Name() + "!")
		}
	}

	if victim.IsMobile() {
		room.RemoveCharacter(victim.ID())
		l.instances.RemoveMobile(victim.ID())
	}
}

// runHousekeepingTick sweeps stale connections and inactive instances.
func (l *Loop) runHousekeepingTick() {
	swept := l.conns.Sweep()
	mobs := l.instances.SweepMobiles()
	objs := l.instances.SweepObjects()
	if swept > 0 || mobs > 0 || objs > 0 {
		slog.Debug("housekeeping tick", "connections_swept", swept, "mobiles_swept", mobs, "objects_swept", objs)
	}
}
