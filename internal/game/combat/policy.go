package combat

import (
	"github.com/ironmarch/engine/internal/scripting"
)

// EndPolicy decides when a combat session is over. The reducer layer
// consults the policy after every combat command; a true verdict is the
// only thing that may flip a session to TERMINATED.
type EndPolicy interface {
	// ShouldEnd reports whether the session has met its end condition.
	ShouldEnd(s *Session) bool
}

// LastTeamStanding is the default policy: combat ends when a fight that
// once had opposing sides is down to at most one team. Eliminated
// combatants are removed from the session map, so team count over the
// map is sufficient.
type LastTeamStanding struct{}

// ShouldEnd reports whether at most one team remains of the two or more
// that engaged.
//
// Postcondition: a session that never had two teams — empty, or a solo
// combatant swinging at air — does not end.
func (LastTeamStanding) ShouldEnd(s *Session) bool {
	if s.Kind != KindCombat {
		return false
	}
	if s.Combat.EngagedTeams() < 2 {
		return false
	}
	return len(s.Combat.Teams()) <= 1
}

// ScriptPolicy delegates the end condition to a sandboxed Lua predicate.
// The script sees a read-only snapshot table, never live engine state.
type ScriptPolicy struct {
	predicate *scripting.Predicate
}

// NewScriptPolicy wraps a compiled predicate.
//
// Precondition: predicate must be non-nil.
func NewScriptPolicy(predicate *scripting.Predicate) *ScriptPolicy {
	return &ScriptPolicy{predicate: predicate}
}

// ShouldEnd evaluates the script against a session snapshot. Script
// errors never end a session.
func (p *ScriptPolicy) ShouldEnd(s *Session) bool {
	if s.Kind != KindCombat {
		return false
	}
	end, err := p.predicate.Eval(Snapshot(s))
	if err != nil {
		return false
	}
	return end
}

// Snapshot renders a session into plain nested maps for script
// consumption.
//
// Postcondition: the returned structure shares no pointers with the
// session; scripts cannot mutate engine state through it.
func Snapshot(s *Session) map[string]any {
	cs := s.Combat
	combatants := make([]any, 0, len(cs.Combatants))
	for _, actorID := range cs.TurnOrder() {
		c := cs.Combatants[actorID]
		combatants = append(combatants, map[string]any{
			"actor":      c.ActorID.String(),
			"team":       string(c.Team),
			"coordinate": c.Position.Coordinate,
			"ap":         c.AP.Current,
			"energy":     c.Energy.Current,
			"balance":    c.Balance,
			"initiative": c.InitiativeRoll,
		})
	}
	return map[string]any{
		"status":     string(s.Status),
		"place":      s.PlaceID.String(),
		"teams":      len(cs.Teams()),
		"combatants": combatants,
		"round":      map[string]any{"number": cs.Round.Number},
	}
}
