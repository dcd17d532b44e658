package combat

import (
	"math/rand/v2"
	"sort"

	"github.com/duskrealm/mudforge/internal/model"
)

// wieldedWeapon returns the ObjectTemplate equipped in the wield slot,
// or nil for a bare-handed attacker.
func wieldedWeapon(c model.Character) *model.ObjectTemplate {
	var equipment map[int]*model.ObjectInstance
	switch v := c.(type) {
	case *model.PlayerCharacter:
		equipment = v.Equipment()
	case *model.MobileInstance:
		equipment = v.Equipment
	default:
		return nil
	}
	if obj, ok := equipment[model.WearWield]; ok && obj != nil {
		return obj.Template
	}
	return nil
}

// RunRound advances one combat round across combatants: sort by
// initiative (dexterity + uniform 1..10)
// descending, stable on ties, then each combatant in turn attacks the
// first other still-alive combatant. It returns the set of characters
// whose hit points dropped to zero or below this round, in the order
// they died.
func RunRound(combatants []model.Character, rng *rand.Rand) []model.Character {
	type seeded struct {
		c          model.Character
		initiative int
		order      int
	}

	seededList := make([]seeded, len(combatants))
	for i, c := range combatants {
		seededList[i] = seeded{c: c, initiative: c.Dexterity() + rng.IntN(10) + 1, order: i}
	}
	sort.SliceStable(seededList, func(i, j int) bool {
		return seededList[i].initiative > seededList[j].initiative
	})

	alive := make(map[model.CharID]bool, len(combatants))
	for _, c := range combatants {
		alive[c.ID()] = true
	}

	var dead []model.Character

	liveCount := func() int {
		n := 0
		for _, c := range combatants {
			if alive[c.ID()] {
				n++
			}
		}
		return n
	}

	for _, s := range seededList {
		if !alive[s.c.ID()] {
			continue
		}
		if liveCount() < 2 {
			break
		}

		var target model.Character
		for _, other := range combatants {
			if other.ID() == s.c.ID() || !alive[other.ID()] {
				continue
			}
			target = other
			break
		}
		if target == nil {
			continue
		}

		result := ResolveHit(s.c, target, rng)
		if !result.Hit {
			continue
		}
		dmg := RollDamage(s.c, wieldedWeapon(s.c), result.Critical, rng)
		target.SetHitPoints(target.HitPoints() - dmg)
		if target.HitPoints() <= 0 {
			alive[target.ID()] = false
			dead = append(dead, target)
		}
	}

	return dead
}
