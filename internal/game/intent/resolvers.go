package intent

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ironmarch/engine/internal/game/command"
	"github.com/ironmarch/engine/internal/game/event"
	"github.com/ironmarch/engine/internal/game/pipeline"
)

// DefaultResolvers returns the built-in resolvers in registration order.
func DefaultResolvers() []Resolver {
	return []Resolver{
		strikeResolver{},
		cleaveResolver{},
		moveResolver{verb: "advance", cmdType: command.TypeAdvance},
		moveResolver{verb: "retreat", cmdType: command.TypeRetreat},
		defendResolver{},
		targetResolver{},
		simpleResolver{verb: "yield", cmdType: command.TypeYield},
		simpleResolver{verb: "pass", cmdType: command.TypePass},
		sayResolver{},
		lookResolver{},
	}
}

// strikeResolver matches "strike [target]". A bare "strike" resolves
// with an empty target; the reducer falls back to the combatant's
// standing target.
type strikeResolver struct{}

func (strikeResolver) Verb() string { return "strike" }

func (strikeResolver) Resolve(ctx *pipeline.Context, in Intent) (command.Command, bool) {
	actor, ok := requireActor(ctx, in)
	if !ok {
		return command.Command{}, false
	}
	loc, ok := requireLocation(ctx, in, actor)
	if !ok {
		return command.Command{}, false
	}
	if len(in.Tokens) == 0 {
		return newCommand(ctx, in, command.TypeStrike, loc, command.StrikeArgs{}), true
	}
	target, err := ctx.World.FindActorByName(loc, strings.Join(in.Tokens, " "))
	if err != nil {
		ctx.DeclareError(in.ID, err)
		return command.Command{}, false
	}
	return newCommand(ctx, in, command.TypeStrike, loc, command.StrikeArgs{TargetID: target.ID}), true
}

// cleaveResolver matches "cleave". Targets are discovered dynamically at
// execution time, so there is nothing to resolve here beyond the actor
// and location.
type cleaveResolver struct{}

func (cleaveResolver) Verb() string { return "cleave" }

func (cleaveResolver) Resolve(ctx *pipeline.Context, in Intent) (command.Command, bool) {
	actor, ok := requireActor(ctx, in)
	if !ok {
		return command.Command{}, false
	}
	loc, ok := requireLocation(ctx, in, actor)
	if !ok {
		return command.Command{}, false
	}
	return newCommand(ctx, in, command.TypeCleave, loc, command.CleaveArgs{}), true
}

// moveResolver matches "advance [meters]" and "retreat [meters]".
// Distance defaults to 1 meter.
type moveResolver struct {
	verb    string
	cmdType command.Type
}

func (r moveResolver) Verb() string { return r.verb }

func (r moveResolver) Resolve(ctx *pipeline.Context, in Intent) (command.Command, bool) {
	actor, ok := requireActor(ctx, in)
	if !ok {
		return command.Command{}, false
	}
	loc, ok := requireLocation(ctx, in, actor)
	if !ok {
		return command.Command{}, false
	}
	distance := 1.0
	if len(in.Tokens) > 0 {
		d, err := strconv.ParseFloat(in.Tokens[0], 64)
		if err != nil || d <= 0 {
			ctx.DeclareError(in.ID, fmt.Errorf("%w: %q is not a distance", event.ErrInvalidTarget, in.Tokens[0]))
			return command.Command{}, false
		}
		distance = d
	}
	return newCommand(ctx, in, r.cmdType, loc, command.MoveArgs{Distance: distance}), true
}

// defendResolver matches "defend". The bare verb is the full-commit
// variant: it spends everything the actor has left.
type defendResolver struct{}

func (defendResolver) Verb() string { return "defend" }

func (defendResolver) Resolve(ctx *pipeline.Context, in Intent) (command.Command, bool) {
	actor, ok := requireActor(ctx, in)
	if !ok {
		return command.Command{}, false
	}
	loc, ok := requireLocation(ctx, in, actor)
	if !ok {
		return command.Command{}, false
	}
	return newCommand(ctx, in, command.TypeDefend, loc, command.DefendArgs{FullCommit: true}), true
}

// targetResolver matches "target <name>".
type targetResolver struct{}

func (targetResolver) Verb() string { return "target" }

func (targetResolver) Resolve(ctx *pipeline.Context, in Intent) (command.Command, bool) {
	actor, ok := requireActor(ctx, in)
	if !ok {
		return command.Command{}, false
	}
	loc, ok := requireLocation(ctx, in, actor)
	if !ok {
		return command.Command{}, false
	}
	if len(in.Tokens) == 0 {
		ctx.DeclareError(in.ID, fmt.Errorf("%w: target needs a name", event.ErrInvalidTarget))
		return command.Command{}, false
	}
	target, err := ctx.World.FindActorByName(loc, strings.Join(in.Tokens, " "))
	if err != nil {
		ctx.DeclareError(in.ID, err)
		return command.Command{}, false
	}
	return newCommand(ctx, in, command.TypeTarget, loc, command.TargetArgs{TargetID: target.ID}), true
}

// simpleResolver matches bare verbs that need only an actor and
// location ("yield", "pass").
type simpleResolver struct {
	verb    string
	cmdType command.Type
}

func (r simpleResolver) Verb() string { return r.verb }

func (r simpleResolver) Resolve(ctx *pipeline.Context, in Intent) (command.Command, bool) {
	actor, ok := requireActor(ctx, in)
	if !ok {
		return command.Command{}, false
	}
	loc, ok := requireLocation(ctx, in, actor)
	if !ok {
		return command.Command{}, false
	}
	return newCommand(ctx, in, r.cmdType, loc, nil), true
}

// sayResolver matches "say <text>", preserving the raw spacing of the
// spoken text.
type sayResolver struct{}

func (sayResolver) Verb() string { return "say" }

func (sayResolver) Resolve(ctx *pipeline.Context, in Intent) (command.Command, bool) {
	actor, ok := requireActor(ctx, in)
	if !ok {
		return command.Command{}, false
	}
	loc, ok := requireLocation(ctx, in, actor)
	if !ok {
		return command.Command{}, false
	}
	if in.Rest == "" {
		ctx.DeclareError(in.ID, fmt.Errorf("%w: nothing to say", event.ErrInvalidTarget))
		return command.Command{}, false
	}
	return newCommand(ctx, in, command.TypeSay, loc, command.SayArgs{Text: in.Rest}), true
}

// lookResolver matches "look".
type lookResolver struct{}

func (lookResolver) Verb() string { return "look" }

func (lookResolver) Resolve(ctx *pipeline.Context, in Intent) (command.Command, bool) {
	actor, ok := requireActor(ctx, in)
	if !ok {
		return command.Command{}, false
	}
	loc, ok := requireLocation(ctx, in, actor)
	if !ok {
		return command.Command{}, false
	}
	return newCommand(ctx, in, command.TypeLook, loc, nil), true
}
