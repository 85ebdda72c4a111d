package reducers

import (
	"github.com/ironmarch/engine/internal/game/combat"
	"github.com/ironmarch/engine/internal/game/command"
	"github.com/ironmarch/engine/internal/game/event"
	"github.com/ironmarch/engine/internal/game/physics"
	"github.com/ironmarch/engine/internal/game/pipeline"
)

// Cleave reduces a CLEAVE command: one swing resolved against every
// hostile combatant within the weapon's reach, nearest first. Like
// STRIKE it lazily creates the session and joins the initiator on team
// BRAVO; unlike STRIKE it names no target, so a cleave into an empty
// arc still costs the swing.
//
// Postcondition: the arc cost is charged exactly once regardless of how
// many enemies it reaches.
func (r *Set) Cleave(ctx *pipeline.Context, cmd command.Command) *pipeline.Context {
	attacker, _ := ctx.World.Actor(cmd.ActorID)

	s, ok := r.ensureCombatSession(ctx, cmd)
	if !ok {
		return ctx
	}
	atk, ok := r.joinCombatant(ctx, cmd, s, cmd.ActorID, combat.TeamBravo)
	if !ok {
		return ctx
	}

	weapon := attacker.WeaponProfile()
	cost := physics.CleaveCost(weapon.MassKg, attacker.Power, attacker.Finesse)
	if err := atk.ChargeCost(cost); err != nil {
		ctx.DeclareError(cmd.ID, err)
		return ctx
	}

	enemies := s.Combat.EnemiesInReach(atk, weapon.ReachM)
	s.Combat.RecordCommand(cmd.ActorID, combat.TurnCommand{
		CommandID: cmd.ID, Kind: string(cmd.Type), Cost: cost,
	})

	if len(enemies) == 0 {
		ctx.DeclareEvent(event.WorldEvent{
			Trace: cmd.ID, Type: event.TypeMiss,
			Actor: cmd.ActorID, Location: s.PlaceID,
			Payload: map[string]any{"targets": 0},
		})
		r.maybeEnd(ctx, cmd, s)
		return ctx
	}

	for _, enemy := range enemies {
		target, ok := ctx.World.Actor(enemy.ActorID)
		if !ok {
			// Combatant with no world actor behind it: a stale weak
			// reference, skip it.
			continue
		}
		outcome := combat.ResolveAttack(enemy.ActorID, attacker.Stats(), target.Stats(), weapon, diceSource(ctx))
		r.declareExchange(ctx, cmd, s, atk, target, outcome)
	}
	r.maybeEnd(ctx, cmd, s)
	return ctx
}
