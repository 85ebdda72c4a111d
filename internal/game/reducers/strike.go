package reducers

import (
	"fmt"

	"github.com/ironmarch/engine/internal/game/combat"
	"github.com/ironmarch/engine/internal/game/command"
	"github.com/ironmarch/engine/internal/game/event"
	"github.com/ironmarch/engine/internal/game/physics"
	"github.com/ironmarch/engine/internal/game/pipeline"
	"github.com/ironmarch/engine/internal/game/world"
)

// balanceLossOnMiss is the footing cost of a swing that fails to land.
const balanceLossOnMiss = 0.15

// Strike reduces a STRIKE command: one to-hit exchange against a single
// enemy. If no combat session exists at the location, one is created;
// the initiator enters on team BRAVO and the target on team ALPHA, so a
// strike against a bystander bootstraps the whole encounter.
//
// Postcondition: on a resource error nothing is charged and no exchange
// happens (joins caused by the attempt persist; the attempt itself
// pulled both parties into combat).
func (r *Set) Strike(ctx *pipeline.Context, cmd command.Command) *pipeline.Context {
	attacker, _ := ctx.World.Actor(cmd.ActorID)
	args, ok := cmd.Payload.(command.StrikeArgs)
	if !ok {
		ctx.DeclareError(cmd.ID, fmt.Errorf("%w: strike payload missing", event.ErrInvalidTarget))
		return ctx
	}

	targetID := args.TargetID
	if targetID.IsZero() {
		// Fall back to the standing target, if the attacker is already a
		// combatant with one. This never creates a session.
		if s, live := ctx.World.ActiveSessionAt(cmd.LocationID); live {
			if c, in := s.Combatant(cmd.ActorID); in && !c.TargetID.IsZero() {
				targetID = c.TargetID
			}
		}
	}
	if targetID.IsZero() {
		ctx.DeclareError(cmd.ID, fmt.Errorf("%w: no target designated", event.ErrInvalidTarget))
		return ctx
	}
	target, ok := ctx.World.Actor(targetID)
	if !ok || target.Location != cmd.LocationID {
		ctx.DeclareError(cmd.ID, fmt.Errorf("%w: %s is not here", event.ErrInvalidTarget, targetID))
		return ctx
	}
	if targetID == cmd.ActorID {
		ctx.DeclareError(cmd.ID, fmt.Errorf("%w: cannot strike yourself", event.ErrInvalidTarget))
		return ctx
	}

	s, ok := r.ensureCombatSession(ctx, cmd)
	if !ok {
		return ctx
	}
	atk, ok := r.joinCombatant(ctx, cmd, s, cmd.ActorID, combat.TeamBravo)
	if !ok {
		return ctx
	}
	def, ok := r.joinCombatant(ctx, cmd, s, targetID, combat.TeamAlpha)
	if !ok {
		return ctx
	}
	if !atk.Hostile(def) {
		ctx.DeclareError(cmd.ID, fmt.Errorf("%w: %s is on your team", event.ErrInvalidTarget, targetID))
		return ctx
	}

	weapon := attacker.WeaponProfile()
	cost := physics.StrikeCost(weapon.MassKg, attacker.Power, attacker.Finesse)
	if err := atk.ChargeCost(cost); err != nil {
		ctx.DeclareError(cmd.ID, err)
		return ctx
	}

	outcome := combat.ResolveAttack(targetID, attacker.Stats(), target.Stats(), weapon, diceSource(ctx))
	s.Combat.RecordCommand(cmd.ActorID, combat.TurnCommand{
		CommandID: cmd.ID, Kind: string(cmd.Type), Roll: outcome.Roll, Cost: cost,
	})
	r.declareExchange(ctx, cmd, s, atk, target, outcome)
	r.maybeEnd(ctx, cmd, s)
	return ctx
}

// declareExchange emits the roll/hit/miss/damage events for one resolved
// attack, applies damage to the world actor, and handles elimination.
func (r *Set) declareExchange(ctx *pipeline.Context, cmd command.Command, s *combat.Session, atk *combat.Combatant, target *world.Actor, out combat.AttackOutcome) {
	ctx.DeclareEvent(event.WorldEvent{
		Trace: cmd.ID, Type: event.TypeRoll,
		Actor: cmd.ActorID, Location: s.PlaceID,
		Payload: map[string]any{
			"target":       out.TargetID.String(),
			"roll":         out.Roll,
			"rating":       out.Rating,
			"evasion_roll": out.EvasionRoll,
			"evasion":      out.Evasion,
		},
	})

	if !out.Hit {
		atk.Balance = physics.Clamp01(atk.Balance - balanceLossOnMiss)
		ctx.DeclareEvent(event.WorldEvent{
			Trace: cmd.ID, Type: event.TypeMiss,
			Actor: cmd.ActorID, Location: s.PlaceID,
			Payload: map[string]any{"target": out.TargetID.String()},
		})
		return
	}

	ctx.DeclareEvent(event.WorldEvent{
		Trace: cmd.ID, Type: event.TypeHit,
		Actor: cmd.ActorID, Location: s.PlaceID,
		Payload: map[string]any{"target": out.TargetID.String()},
	})

	before := target.HP
	target.HP -= out.Damage
	if target.HP < 0 {
		target.HP = 0
	}
	ctx.DeclareEvent(event.WorldEvent{
		Trace: cmd.ID, Type: event.TypeDamage,
		Actor: cmd.ActorID, Location: s.PlaceID,
		Payload: map[string]any{
			"target":    out.TargetID.String(),
			"damage":    out.Damage,
			"hp_before": before,
			"hp_after":  target.HP,
		},
	})

	if target.HP <= 0 && s.RemoveCombatant(out.TargetID) {
		ctx.DeclareEvent(event.WorldEvent{
			Trace: cmd.ID, Type: event.TypeLeft,
			Actor: out.TargetID, Location: s.PlaceID,
			Payload: map[string]any{
				"session": s.ID.String(),
				"reason":  "eliminated",
			},
		})
	}
}
