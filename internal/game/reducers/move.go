package reducers

import (
	"fmt"

	"github.com/ironmarch/engine/internal/game/combat"
	"github.com/ironmarch/engine/internal/game/command"
	"github.com/ironmarch/engine/internal/game/event"
	"github.com/ironmarch/engine/internal/game/physics"
	"github.com/ironmarch/engine/internal/game/pipeline"
)

// Advance reduces an ADVANCE command: displacement toward the
// combatant's facing.
func (r *Set) Advance(ctx *pipeline.Context, cmd command.Command) *pipeline.Context {
	return r.move(ctx, cmd, 1)
}

// Retreat reduces a RETREAT command: displacement away from the
// combatant's facing.
func (r *Set) Retreat(ctx *pipeline.Context, cmd command.Command) *pipeline.Context {
	return r.move(ctx, cmd, -1)
}

// move charges the acceleration-model AP cost for the displacement and
// applies it, clamped to the battlefield. One large move is cheaper
// than the same distance in small steps, so the cost is priced on the
// full requested distance even if the clamp shortens the result.
func (r *Set) move(ctx *pipeline.Context, cmd command.Command, direction float64) *pipeline.Context {
	actor, _ := ctx.World.Actor(cmd.ActorID)
	args, ok := cmd.Payload.(command.MoveArgs)
	if !ok || args.Distance <= 0 {
		ctx.DeclareError(cmd.ID, fmt.Errorf("%w: movement needs a positive distance", event.ErrInvalidTarget))
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

	cost := physics.ActionCost{
		AP: physics.RoundAPCostUp(physics.DistanceToAP(actor.Power, actor.Finesse, args.Distance, c.MassKg)),
	}
	if err := c.ChargeCost(cost); err != nil {
		ctx.DeclareError(cmd.ID, err)
		return ctx
	}

	before, after := s.Combat.Move(c, direction*args.Distance)
	s.Combat.RecordCommand(cmd.ActorID, combat.TurnCommand{
		CommandID: cmd.ID, Kind: string(cmd.Type), Cost: cost,
	})
	ctx.DeclareEvent(event.WorldEvent{
		Trace: cmd.ID, Type: event.TypeMovement,
		Actor: cmd.ActorID, Location: s.PlaceID,
		Payload: map[string]any{
			"session":  s.ID.String(),
			"distance": args.Distance,
			"before":   before,
			"after":    after,
		},
	})
	r.maybeEnd(ctx, cmd, s)
	return ctx
}
