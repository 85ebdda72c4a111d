package combat

import "github.com/ironmarch/engine/internal/game/id"

// APPool is a combatant's per-turn action-point budget.
type APPool struct {
	// NaturalCeiling is the unmodified AP maximum derived from the
	// actor's physique.
	NaturalCeiling float64
	// Modifier adjusts the ceiling for temporary effects; may be
	// negative.
	Modifier float64
	// Current is the spendable AP remaining this turn.
	Current float64
}

// EffectiveCeiling returns the modified AP maximum, floored at zero.
func (p APPool) EffectiveCeiling() float64 {
	c := p.NaturalCeiling + p.Modifier
	if c < 0 {
		return 0
	}
	return c
}

// Energy is a combatant's capacitor: a spendable reserve that recovers
// along a curve between actions.
type Energy struct {
	// Current is the spendable energy remaining.
	Current float64
	// RecoveryPhase is the position on the recovery curve in [0, 1];
	// 1 means fully recovering.
	RecoveryPhase float64
}

// Combatant is one actor's live state inside a combat session. It is
// mutated in place by reducers each time the actor acts and deleted from
// the session map when the actor is eliminated or leaves; every other
// reference to it is a weak ID that simply fails lookup afterwards.
type Combatant struct {
	// ActorID is the weak reference to the world actor.
	ActorID id.ID
	// SessionID is the weak back-reference to the owning session.
	SessionID id.ID
	// Team is the side this combatant fights for.
	Team Team
	// Position is the battlefield placement.
	Position Position
	// MassKg is the actor's mass snapshot used for movement costs.
	MassKg float64
	// AP is the per-turn action budget.
	AP APPool
	// Energy is the capacitor pool.
	Energy Energy
	// Balance is footing in [0, 1]; lost when overextending, restored
	// by defending.
	Balance float64
	// InitiativeRoll is the single deterministic roll taken when the
	// combatant was added; 0 until rolled.
	InitiativeRoll int
	// TargetID is the standing target (weak reference), if any.
	TargetID id.ID
	// JoinSeq is the monotonically increasing join order within the
	// session; it breaks initiative ties deterministically.
	JoinSeq int
}

// Hostile reports whether other fights for a different team.
func (c *Combatant) Hostile(other *Combatant) bool {
	return other != nil && other.Team != c.Team
}

// SpendAP deducts ap from the current pool, flooring at zero.
//
// Precondition: callers gate on AP.Current >= ap before mutating; the
// floor here only absorbs residue, never masks an overdraft.
func (c *Combatant) SpendAP(ap float64) {
	c.AP.Current -= ap
	if c.AP.Current < 0 {
		c.AP.Current = 0
	}
}

// SpendEnergy deducts energy and restarts the recovery curve.
func (c *Combatant) SpendEnergy(energy float64) {
	c.Energy.Current -= energy
	if c.Energy.Current < 0 {
		c.Energy.Current = 0
	}
	c.Energy.RecoveryPhase = 0
}

// RefreshForRound restores the AP pool to its effective ceiling and
// advances energy recovery by one round step.
func (c *Combatant) RefreshForRound(energyRecovery float64) {
	c.AP.Current = c.AP.EffectiveCeiling()
	c.Energy.RecoveryPhase += 0.25
	if c.Energy.RecoveryPhase > 1 {
		c.Energy.RecoveryPhase = 1
	}
	c.Energy.Current += energyRecovery * c.Energy.RecoveryPhase
}
