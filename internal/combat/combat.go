// Package combat implements round-based fight resolution: hit/damage
// rolls, round ordering, flee, death, and resurrection.
//
// The pipeline shape (resolve hit chance, then roll damage, then
// apply) follows la2go's skill resolution in internal/game/combat, but
// the formulas themselves are classic DikuMUD THAC0/d20 mechanics
// rather than la2go's d100 system.
package combat

import (
	"math/rand/v2"
	"time"

	"github.com/duskrealm/mudforge/internal/instance"
	"github.com/duskrealm/mudforge/internal/model"
	"github.com/duskrealm/mudforge/internal/world"
)

// THAC0 is "to hit armor class 0": the d20 roll an attacker needs to
// beat a defender with AC 0, floored at 1 so high-level attackers
// always need at least a natural 1.
func THAC0(level int) int {
	v := 20 - (level - 1)
	if v < 1 {
		return 1
	}
	return v
}

// strHitBonus and strDamageBonus resolve the two piecewise strength
// tables. They share boundaries except in the 13..17 range, which the
// damage table splits into 16..17 (+1) and 13..15 (0) — the hit table
// doesn't need the split because both halves pay 0 to-hit.
func strHitBonus(str int) int {
	switch {
	case str >= 18:
		return 1
	case str >= 9:
		return 0
	case str >= 6:
		return -1
	default:
		return -2
	}
}

func strDamageBonus(str int) int {
	switch {
	case str >= 18:
		return 2
	case str >= 16:
		return 1
	case str >= 9:
		return 0
	case str >= 6:
		return -1
	default:
		return -2
	}
}

// HitResult is the outcome of one attack roll.
type HitResult struct {
	Hit      bool
	Critical bool // natural 20
	Fumble   bool // natural 1
}

// ResolveHit rolls a d20 attack from attacker against defender.
func ResolveHit(attacker, defender model.Character, rng *rand.Rand) HitResult {
	return resolveHitFromRoll(rng.IntN(20)+1, attacker, defender)
}

// resolveHitFromRoll is ResolveHit's pure decision logic, separated out
// so tests can force a specific d20 roll without depending on
// math/rand/v2's internal sampling algorithm.
func resolveHitFromRoll(roll int, attacker, defender model.Character) HitResult {
	if roll == 20 {
		return HitResult{Hit: true, Critical: true}
	}
	if roll == 1 {
		return HitResult{Hit: false, Fumble: true}
	}
	thac0 := THAC0(attacker.Level())
	hitBonus := strHitBonus(attacker.Strength())
	return HitResult{Hit: roll <= thac0-defender.ArmorClass()-hitBonus}
}

// RollDamage computes total damage for one successful hit. weapon is
// nil for a bare-handed attack.
func RollDamage(attacker model.Character, weapon *model.ObjectTemplate, critical bool, rng *rand.Rand) int {
	strBonus := strDamageBonus(attacker.Strength())

	var base, weaponBonus int
	if weapon != nil && weapon.Type == model.ObjWeapon {
		wd := weapon.WeaponDice()
		base = model.Dice{Count: wd.Count, Sides: wd.Sides}.Roll(rng)
		weaponBonus = wd.Bonus
	} else {
		base = rng.IntN(2) + 1
	}

	return combineDamage(base, strBonus, weaponBonus, critical)
}

// combineDamage is RollDamage's pure arithmetic, separated out so tests
// can force specific dice results instead of depending on
// math/rand/v2's internal sampling algorithm.
func combineDamage(base, strBonus, weaponBonus int, critical bool) int {
	total := base + strBonus + weaponBonus
	if critical {
		total *= 2
	}
	if total < 1 {
		total = 1
	}
	return total
}

// FleeChance is the percentage chance a character with the given
// dexterity escapes combat, capped at 95.
func FleeChance(dex int) int {
	chance := 50 + (dex-13)*5
	if chance > 95 {
		return 95
	}
	if chance < 0 {
		return 0
	}
	return chance
}

// Flee attempts to move character out of combat into a random exit of
// their current room. On success it relocates the character and clears
// their fight target. On failure, or if the room has no exits,
// character's fight target is left unchanged and the caller should
// report "You can't escape!".
func Flee(character model.Character, room *model.Room, rng *rand.Rand) bool {
	roll := rng.IntN(100) + 1
	if roll > FleeChance(character.Dexterity()) {
		return false
	}
	exits := room.Exits()
	if len(exits) == 0 {
		return false
	}
	dest := exits[rng.IntN(len(exits))]
	character.SetRoomVnum(dest.DestVnum)
	character.SetFightTarget(nil)
	return true
}

// corpseDecayMinutes is the level/mobile-dependent decay timer: mobile
// corpses rot fast, low-level player corpses get newbie protection.
func corpseDecayMinutes(victim model.Character) int {
	if victim.IsMobile() {
		return 5
	}
	if victim.Level() <= 5 {
		return 60
	}
	return 30
}

// ExperiencePenalty computes the experience lost on a player's death.
func ExperiencePenalty(level, experience int) int {
	var loss int
	if level <= 5 {
		loss = experience / 20
		if loss > 100 {
			loss = 100
		}
	} else {
		loss = experience / 10
		if cap := level * 1000; loss > cap {
			loss = cap
		}
	}
	if loss < 0 {
		loss = 0
	}
	return loss
}

// HandleDeath runs the death sequence: position goes Dead, a
// corpse is created holding the victim's belongings and gold, and
// (for players) experience is deducted. The corpse is tracked and
// placed in victim's current room.
func HandleDeath(victim model.Character, corpseTemplate *model.ObjectTemplate, w *world.World, im *instance.Manager, now time.Time) *model.ObjectInstance {
	victim.SetPosition(model.PositionDead)

	corpse := model.NewObjectInstance(im.NextID(), corpseTemplate)
	corpse.NameOverride = "corpse " + victim.Name()
	corpse.ShortDescOverride = "the corpse of " + victim.Name()
	corpse.DecayAt = now.Add(time.Duration(corpseDecayMinutes(victim)) * time.Minute).Unix()
	corpse.SetLocation(model.InRoom, uint64(victim.RoomVnum()))

	switch v := victim.(type) {
	case *model.PlayerCharacter:
		for _, item := range v.TakeInventory() {
			corpse.AddContent(item)
		}
		v.SetGold(0)
		v.SetExperience(v.Experience() - ExperiencePenalty(v.Level(), v.Experience()))
		v.IncrementRecentDeaths()
	case *model.MobileInstance:
		for _, item := range v.Inventory {
			corpse.AddContent(item)
		}
		v.Inventory = nil
		v.Active = false
	}

	im.TrackObject(corpse)
	if room := w.GetRoom(victim.RoomVnum()); room != nil {
		room.AddObject(corpse)
	}
	return corpse
}

// Resurrect restores a dead character to Standing, returning less HP
// the more often they have died recently.
func Resurrect(character model.Character, recentDeaths int) {
	if character.Position() != model.PositionDead {
		return
	}
	pct := 50 - recentDeaths*10
	if pct < 10 {
		pct = 10
	}
	hp := character.MaxHitPoints() * pct / 100
	character.SetHitPoints(hp)
	character.SetPosition(model.PositionStanding)
	character.SendLine("You feel less healthy.")
}

// ProcessCorpseDecay removes every corpse (or corpse-named container)
// in room whose decay timestamp has passed, scattering its contents
// into the room. Returns the number of corpses removed.
func ProcessCorpseDecay(room *model.Room, im *instance.Manager, now time.Time) int {
	removed := 0
	for _, obj := range room.Objects() {
		if !obj.IsCorpse() {
			continue
		}
		if obj.DecayAt == 0 || now.Unix() < obj.DecayAt {
			continue
		}
		room.RemoveObject(obj.InstanceID)
		obj.Active = false
		im.RemoveObject(obj.InstanceID)
		for _, inner := range obj.TakeContents() {
			inner.SetLocation(model.InRoom, uint64(room.Vnum))
			room.AddObject(inner)
		}
		removed++
	}
	return removed
}
