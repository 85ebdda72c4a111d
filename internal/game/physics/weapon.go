package physics

import "math"

// Attack rating tuning. A perfect roll (20) plus a maxed skill rank (100)
// scaled by SkillScale lands exactly on RatingCap, so a master attacking
// a master is a clean 50/50.
const (
	// SkillScale converts a 0..100 skill rank into rating points.
	SkillScale = 0.8
	// RatingCap is the ceiling for attack and evasion ratings.
	RatingCap = 100.0
	// RatingFloor is the minimum rating; a 1 always counts for something.
	RatingFloor = 1.0
)

// Cleave surcharge tuning: sweeping a weapon through an arc costs a flat
// effort plus more for heavier weapons.
const (
	CleaveEnergyFlat  = 8.0
	CleaveEnergyPerKg = 3.0
)

// AttackRating converts a base die roll and a skill rank into a rating in
// [RatingFloor, RatingCap].
//
// Precondition: baseRoll in [1, 20]; skillRank in [0, 100].
// Postcondition: return in [1, 100]; monotonically non-decreasing in both
// baseRoll and skillRank.
func AttackRating(baseRoll int, skillRank float64) float64 {
	r := float64(baseRoll) + skillRank*SkillScale
	if r > RatingCap {
		r = RatingCap
	}
	if r < RatingFloor {
		r = RatingFloor
	}
	return r
}

// WeaponAPCost returns the unrounded AP cost of one strike with a weapon
// of the given mass, wielded by an actor with the given power and
// finesse. Heavier weapons swing slower; stronger, more dexterous actors
// recover faster.
//
// Precondition: massKg >= 0; power, finesse in [0, 100].
// Postcondition: return > 0.
func WeaponAPCost(massKg, power, finesse float64) float64 {
	handling := 0.5 + (power+finesse)/200
	return (0.8 + 0.5*massKg) / handling
}

// WeaponDamage returns the damage one landed strike deals, scaling the
// weapon's damage base with its mass and the wielder's power.
//
// Precondition: damageBase >= 0; massKg >= 0; power in [0, 100].
// Postcondition: return >= 0.
func WeaponDamage(damageBase, massKg, power float64) float64 {
	return damageBase * (1 + 0.1*massKg) * (1 + power/200)
}

// WeaponDPS returns damage per second of committed AP for a weapon and
// wielder, used by live combat resolution and offline shell-performance
// previews alike.
//
// Precondition: same as WeaponAPCost and WeaponDamage.
func WeaponDPS(damageBase, massKg, power, finesse float64) float64 {
	return WeaponDamage(damageBase, massKg, power) / WeaponAPCost(massKg, power, finesse)
}

// StrikeCost returns the full ActionCost of a single strike. AP is
// tactically rounded; energy keeps full precision.
//
// Postcondition: AP >= WeaponAPCost(...) and Energy >= 0.
func StrikeCost(massKg, power, finesse float64) ActionCost {
	return ActionCost{
		AP:     RoundAPCostUp(WeaponAPCost(massKg, power, finesse)),
		Energy: (1 + massKg) * 4,
	}
}

// CleaveCost returns the ActionCost of a cleave: the normal strike AP
// plus a flat-plus-mass-scaled energy surcharge for sweeping the arc.
//
// Postcondition: AP == StrikeCost(...).AP; Energy > StrikeCost(...).Energy.
func CleaveCost(massKg, power, finesse float64) ActionCost {
	strike := StrikeCost(massKg, power, finesse)
	return ActionCost{
		AP:     strike.AP,
		Energy: strike.Energy + CleaveEnergyFlat + CleaveEnergyPerKg*massKg,
	}
}

// FullCommitCost returns the cost of an action that consumes the actor's
// entire remaining AP pool (e.g. a full-commit defend). The pool value is
// residue-cleaned, not rounded up, so the charge never exceeds the pool.
//
// Precondition: pool >= 0.
// Postcondition: AP <= pool.
func FullCommitCost(pool float64) ActionCost {
	if pool < 0 {
		pool = 0
	}
	return ActionCost{AP: CleanResidue(pool)}
}

// Clamp01 clamps v into [0, 1]; used for balance arithmetic.
func Clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
