// Package physics provides the pure, stateless cost and damage
// calculators the combat engine charges actions against. Everything here
// is arithmetic over content-derived numbers (mass, skill rank, damage
// base) and actor stats; no world state is read or written.
package physics

import "math"

// APPerSecond converts movement time into action points. One AP
// represents one second of committed combat time.
const APPerSecond = 1.0

// ActionCost is the price of one combat action.
//
// Invariant: AP >= 0 and Energy >= 0.
type ActionCost struct {
	// AP is the action-point cost, tactically rounded before charging.
	AP float64
	// Energy is the capacitor cost, charged at full precision.
	Energy float64
}

// RoundAPCostUp rounds an AP cost up to the nearest 0.1.
//
// Rounding up (never down) means fractional costs cannot be ground away
// by repeating an action many times.
//
// Precondition: c >= 0.
// Postcondition: return >= c and return - c < 0.1.
func RoundAPCostUp(c float64) float64 {
	r := math.Ceil(c*10) / 10
	if r < c {
		// Guard against the product c*10 rounding down across an
		// integer boundary.
		r += 0.1
	}
	return r
}

// CleanResidue strips floating-point residue from a "use the whole pool"
// cost, e.g. 2.7000000000000006 → 2.7. Unlike RoundAPCostUp it never
// returns more than v, so a full-commit cost can never overshoot the
// pool it was read from.
//
// Postcondition: return <= v and |return - v| < 1e-9.
func CleanResidue(v float64) float64 {
	r := math.Round(v*1e9) / 1e9
	if r > v {
		r = v
	}
	return r
}

// MovementTime returns the seconds needed for an actor to displace
// distance meters, modeling constant acceleration under mass. A single
// large displacement is cheaper per meter than many small ones, which
// rewards committing to a movement plan over micro-adjusting.
//
// Precondition: power > 0; massKg > 0; finesse >= 0.
// Postcondition: return >= 0; return == 0 iff distance <= 0.
func MovementTime(power, finesse, distance, massKg float64) float64 {
	if power <= 0 || massKg <= 0 {
		panic("physics: MovementTime requires power > 0 and massKg > 0")
	}
	if distance <= 0 {
		return 0
	}
	accel := power * (0.5 + finesse/200) / massKg
	return math.Sqrt(2 * distance / accel)
}

// DistanceToAP converts a displacement into its AP cost, unrounded.
// Callers apply RoundAPCostUp before charging.
//
// Precondition: same as MovementTime.
func DistanceToAP(power, finesse, distance, massKg float64) float64 {
	return MovementTime(power, finesse, distance, massKg) * APPerSecond
}
