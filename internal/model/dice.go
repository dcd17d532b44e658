package model

import "math/rand/v2"

// Roll sums Count rolls of a Sides-sided die and adds Bonus. A Rand is
// threaded through explicitly (rather than a package-global generator)
// so combat and area-reset tests can force deterministic rolls.
func (d Dice) Roll(rng *rand.Rand) int {
	total := d.Bonus
	for i := 0; i < d.Count; i++ {
		total += rollDie(rng, d.Sides)
	}
	return total
}

// rollDie returns a uniform value in [1, sides]. sides <= 0 degenerates to
// always 0, which keeps a malformed template from panicking.
func rollDie(rng *rand.Rand, sides int) int {
	if sides <= 0 {
		return 0
	}
	return rng.IntN(sides) + 1
}
