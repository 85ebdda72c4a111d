package combat

import "fmt"

// Team is the closed set of combat sides.
type Team string

const (
	TeamAlpha   Team = "ALPHA"
	TeamBravo   Team = "BRAVO"
	TeamCharlie Team = "CHARLIE"
)

// Facing is the direction a combatant is oriented along the battlefield
// axis.
type Facing string

const (
	FacingLeft  Facing = "LEFT"
	FacingRight Facing = "RIGHT"
)

// Position is a combatant's place on the one-dimensional battlefield.
type Position struct {
	// Coordinate is the position in meters, always in [0, length).
	Coordinate float64
	// Facing is the direction the combatant is oriented.
	Facing Facing
	// Speed is the current movement speed in m/s, informational for
	// narration and opportunity logic.
	Speed float64
}

// Cover is an obstruction on the battlefield axis.
type Cover struct {
	// Coordinate is the center of the cover in meters.
	Coordinate float64
	// Width is the covered span in meters.
	Width float64
}

// Battlefield is the value object describing the encounter's geometry.
// Both sides mirror around the shared center: ALPHA enters at Margin
// facing right, BRAVO at Length-Margin facing left.
type Battlefield struct {
	// Length is the battlefield extent in meters; coordinates live in
	// [0, Length).
	Length float64
	// Margin is the entry offset from each edge in meters.
	Margin float64
	// Cover lists obstructions, if any.
	Cover []Cover
}

// Validate checks battlefield invariants.
//
// Postcondition: Returns nil iff Length > 0 and 0 <= Margin < Length/2.
func (b Battlefield) Validate() error {
	if b.Length <= 0 {
		return fmt.Errorf("combat: battlefield length must be > 0, got %v", b.Length)
	}
	if b.Margin < 0 || b.Margin >= b.Length/2 {
		return fmt.Errorf("combat: battlefield margin must be in [0, length/2), got %v", b.Margin)
	}
	return nil
}

// Clamp forces a coordinate into [0, Length).
//
// Postcondition: 0 <= return < Length.
func (b Battlefield) Clamp(coord float64) float64 {
	if coord < 0 {
		return 0
	}
	// The upper bound is exclusive; nudge just inside.
	if coord >= b.Length {
		return b.Length - 0.001
	}
	return coord
}

// EntryPosition returns the battlefield-edge position a joining
// combatant takes for its team. CHARLIE (third parties) enters at the
// midpoint facing right.
//
// Postcondition: the returned coordinate is in [0, Length).
func (b Battlefield) EntryPosition(team Team) Position {
	switch team {
	case TeamAlpha:
		return Position{Coordinate: b.Clamp(b.Margin), Facing: FacingRight}
	case TeamBravo:
		return Position{Coordinate: b.Clamp(b.Length - b.Margin), Facing: FacingLeft}
	default:
		return Position{Coordinate: b.Clamp(b.Length / 2), Facing: FacingRight}
	}
}
