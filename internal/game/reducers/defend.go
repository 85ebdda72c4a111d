package reducers

import (
	"fmt"

	"github.com/ironmarch/engine/internal/game/combat"
	"github.com/ironmarch/engine/internal/game/command"
	"github.com/ironmarch/engine/internal/game/event"
	"github.com/ironmarch/engine/internal/game/physics"
	"github.com/ironmarch/engine/internal/game/pipeline"
)

// balanceGainPerAP is the footing recovered per AP committed to defense.
const balanceGainPerAP = 0.1

// Defend reduces a DEFEND command. The full-commit variant spends the
// combatant's entire remaining AP pool; the spent AP converts to
// recovered balance.
//
// Postcondition: the charge never exceeds the pool (residue-cleaned,
// not rounded up).
func (r *Set) Defend(ctx *pipeline.Context, cmd command.Command) *pipeline.Context {
	s, ok := pinnedSession(ctx, cmd)
	if !ok {
		return ctx
	}
	c, ok := combatantOf(ctx, cmd, s)
	if !ok {
		return ctx
	}
	if c.AP.Current <= 0 {
		ctx.DeclareError(cmd.ID, fmt.Errorf("%w: nothing left to commit", event.ErrInsufficientAP))
		return ctx
	}

	cost := physics.FullCommitCost(c.AP.Current)
	if args, isDefend := cmd.Payload.(command.DefendArgs); isDefend && !args.FullCommit {
		// Measured defend: one second of guard.
		cost = physics.ActionCost{AP: physics.RoundAPCostUp(1)}
	}
	if err := c.ChargeCost(cost); err != nil {
		ctx.DeclareError(cmd.ID, err)
		return ctx
	}

	before := c.Balance
	c.Balance = physics.Clamp01(c.Balance + cost.AP*balanceGainPerAP)
	s.Combat.RecordCommand(cmd.ActorID, combat.TurnCommand{
		CommandID: cmd.ID, Kind: string(cmd.Type), Cost: cost,
	})
	ctx.DeclareEvent(event.WorldEvent{
		Trace: cmd.ID, Type: event.TypeDefend,
		Actor: cmd.ActorID, Location: s.PlaceID,
		Payload: map[string]any{
			"session":        s.ID.String(),
			"ap":             cost.AP,
			"balance_before": before,
			"balance_after":  c.Balance,
		},
	})
	r.maybeEnd(ctx, cmd, s)
	return ctx
}

// Target reduces a TARGET command: designates a standing target for
// subsequent bare strikes. Costs nothing.
func (r *Set) Target(ctx *pipeline.Context, cmd command.Command) *pipeline.Context {
	args, ok := cmd.Payload.(command.TargetArgs)
	if !ok || args.TargetID.IsZero() {
		ctx.DeclareError(cmd.ID, fmt.Errorf("%w: target payload missing", event.ErrInvalidTarget))
		return ctx
	}

	s, ok := pinnedSession(ctx, cmd)
	if !ok {
		return ctx
	}
	c, ok := combatantOf(ctx, cmd, s)
	if !ok {
		return ctx
	}
	target, ok := s.Combatant(args.TargetID)
	if !ok {
		ctx.DeclareError(cmd.ID, fmt.Errorf("%w: %s is not in this fight", event.ErrInvalidTarget, args.TargetID))
		return ctx
	}
	if !c.Hostile(target) {
		ctx.DeclareError(cmd.ID, fmt.Errorf("%w: %s is on your team", event.ErrInvalidTarget, args.TargetID))
		return ctx
	}

	c.TargetID = args.TargetID
	ctx.DeclareEvent(event.WorldEvent{
		Trace: cmd.ID, Type: event.TypeTarget,
		Actor: cmd.ActorID, Location: s.PlaceID,
		Payload: map[string]any{
			"session": s.ID.String(),
			"target":  args.TargetID.String(),
		},
	})
	return ctx
}

// Yield reduces a YIELD command: the combatant concedes and leaves the
// session. Leaving may satisfy the end policy and terminate the fight.
func (r *Set) Yield(ctx *pipeline.Context, cmd command.Command) *pipeline.Context {
	s, ok := pinnedSession(ctx, cmd)
	if !ok {
		return ctx
	}
	if _, ok := combatantOf(ctx, cmd, s); !ok {
		return ctx
	}

	s.RemoveCombatant(cmd.ActorID)
	ctx.DeclareEvent(event.WorldEvent{
		Trace: cmd.ID, Type: event.TypeLeft,
		Actor: cmd.ActorID, Location: s.PlaceID,
		Payload: map[string]any{
			"session": s.ID.String(),
			"reason":  "yielded",
		},
	})
	r.maybeEnd(ctx, cmd, s)
	return ctx
}

// Pass reduces a PASS command: the combatant ends its turn without
// acting. When every live combatant has completed a turn the round
// rolls over and pools refresh.
func (r *Set) Pass(ctx *pipeline.Context, cmd command.Command) *pipeline.Context {
	s, ok := pinnedSession(ctx, cmd)
	if !ok {
		return ctx
	}
	if _, ok := combatantOf(ctx, cmd, s); !ok {
		return ctx
	}

	roundNumber := s.Combat.Round.Number
	s.Combat.RecordCommand(cmd.ActorID, combat.TurnCommand{
		CommandID: cmd.ID, Kind: string(cmd.Type),
	})
	rolled := s.Combat.EndTurn(r.energyRecovery)

	ctx.DeclareEvent(event.WorldEvent{
		Trace: cmd.ID, Type: event.TypeTurnEnded,
		Actor: cmd.ActorID, Location: s.PlaceID,
		Payload: map[string]any{"session": s.ID.String()},
	})
	if rolled {
		ctx.DeclareEvent(event.WorldEvent{
			Trace: cmd.ID, Type: event.TypeRoundEnded,
			Actor: cmd.ActorID, Location: s.PlaceID,
			Payload: map[string]any{
				"session": s.ID.String(),
				"round":   roundNumber,
			},
		})
	}
	r.maybeEnd(ctx, cmd, s)
	return ctx
}
