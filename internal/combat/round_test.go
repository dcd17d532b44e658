package combat

import (
	"math/rand/v2"
	"testing"

	"github.com/duskrealm/mudforge/internal/model"
)

// An overwhelming attacker against a fragile defender kills them
// within a handful of rounds, and RunRound reports the death.
func TestRunRound_KillsWeakDefender(t *testing.T) {
	attacker := model.NewPlayerCharacter(1, "Attacker")
	attacker.SetLevel(20)
	attacker.SetAbilityScores(18, 18, 18, 18, 18, 18)
	attacker.SetHitPoints(100)
	attacker.SetMaxHitPoints(100)

	defender := model.NewPlayerCharacter(2, "Defender")
	defender.SetLevel(1)
	defender.SetAbilityScores(10, 10, 10, 10, 10, 10)
	defender.SetArmorClass(-10) // deeply negative AC: attacker hits on most non-fumble rolls
	defender.SetHitPoints(2)
	defender.SetMaxHitPoints(2)

	rng := rand.New(rand.NewPCG(11, 22))
	var dead []model.Character
	for round := 0; round < 200 && len(dead) == 0; round++ {
		dead = RunRound([]model.Character{attacker, defender}, rng)
	}
	if len(dead) != 1 || dead[0].ID() != defender.ID() {
		t.Fatalf("expected defender to die within 200 rounds, got dead=%v, defender HP=%d", dead, defender.HitPoints())
	}
}

// RunRound never attacks when fewer than 2 combatants are present: a lone
// combatant has no opponent, so the round ends immediately.
func TestRunRound_SingleCombatantNeverAttacks(t *testing.T) {
	lone := model.NewPlayerCharacter(1, "Lone")
	lone.SetHitPoints(100)
	lone.SetMaxHitPoints(100)

	rng := rand.New(rand.NewPCG(1, 1))
	dead := RunRound([]model.Character{lone}, rng)

	if len(dead) != 0 {
		t.Fatalf("a single combatant should never die from its own round: dead=%v", dead)
	}
	if lone.HitPoints() != 100 {
		t.Errorf("lone combatant's HP changed to %d despite having no opponent", lone.HitPoints())
	}
}

func TestWieldedWeapon_PlayerAndMobile(t *testing.T) {
	weaponTmpl := &model.ObjectTemplate{Vnum: 1, Type: model.ObjWeapon, Values: [4]int{6, 2, 3, 0}}
	weapon := model.NewObjectInstance(1, weaponTmpl)

	p := model.NewPlayerCharacter(1, "Fighter")
	p.Equip(model.WearWield, weapon)
	if got := wieldedWeapon(p); got != weaponTmpl {
		t.Errorf("wieldedWeapon(player) = %+v, want %+v", got, weaponTmpl)
	}

	mobTmpl := &model.MobileTemplate{Vnum: 1000}
	m := model.NewMobileInstance(2, mobTmpl, 100)
	m.Equipment[model.WearWield] = weapon
	if got := wieldedWeapon(m); got != weaponTmpl {
		t.Errorf("wieldedWeapon(mobile) = %+v, want %+v", got, weaponTmpl)
	}

	bareHanded := model.NewPlayerCharacter(3, "Monk")
	if got := wieldedWeapon(bareHanded); got != nil {
		t.Errorf("wieldedWeapon(unarmed) = %+v, want nil", got)
	}
}
