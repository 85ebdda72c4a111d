package pipeline

import (
	"fmt"

	"github.com/ironmarch/engine/internal/game/combat"
	"github.com/ironmarch/engine/internal/game/command"
	"github.com/ironmarch/engine/internal/game/event"
)

// Middleware decorators. Each wraps a Reducer with one precondition and
// short-circuits — returning the context unchanged, optionally after
// declaring an error — when it fails. Composing them keeps cross-cutting
// validation out of each command's core logic.

// WithCommandType passes only commands of the given type through to
// next. A mismatch is silent: it is a routing condition, not an error.
func WithCommandType(t command.Type, next Reducer) Reducer {
	return func(ctx *Context, cmd command.Command) *Context {
		if cmd.Type != t {
			return ctx
		}
		return next(ctx, cmd)
	}
}

// WithActor requires the command's actor to resolve in the projection.
func WithActor(next Reducer) Reducer {
	return func(ctx *Context, cmd command.Command) *Context {
		if _, ok := ctx.World.Actor(cmd.ActorID); !ok {
			ctx.DeclareError(cmd.ID, fmt.Errorf("%w: %s", event.ErrUnknownActor, cmd.ActorID))
			return ctx
		}
		return next(ctx, cmd)
	}
}

// WithLocation requires the actor's location (or the command's explicit
// location) to resolve to a place, and pins it onto the command passed
// down the chain.
//
// Precondition: compose after WithActor.
func WithLocation(next Reducer) Reducer {
	return func(ctx *Context, cmd command.Command) *Context {
		actor, ok := ctx.World.Actor(cmd.ActorID)
		if !ok {
			ctx.DeclareError(cmd.ID, fmt.Errorf("%w: %s", event.ErrUnknownActor, cmd.ActorID))
			return ctx
		}
		loc := cmd.LocationID
		if loc.IsZero() {
			loc = actor.Location
		}
		if loc.IsZero() {
			ctx.DeclareError(cmd.ID, fmt.Errorf("%w: actor %s", event.ErrNoLocation, cmd.ActorID))
			return ctx
		}
		if _, ok := ctx.World.Place(loc); !ok {
			ctx.DeclareError(cmd.ID, fmt.Errorf("%w: place %s not found", event.ErrNoLocation, loc))
			return ctx
		}
		cmd.LocationID = loc
		return next(ctx, cmd)
	}
}

// WithCombatSession requires an active combat session to already exist
// at the command's location, and pins its ID onto the command. Commands
// that lazily create sessions (STRIKE, CLEAVE) do not use this wrapper.
//
// Precondition: compose after WithLocation.
func WithCombatSession(next Reducer) Reducer {
	return func(ctx *Context, cmd command.Command) *Context {
		s, ok := ctx.World.ActiveSessionAt(cmd.LocationID)
		if !ok || s.Kind != combat.KindCombat {
			ctx.DeclareError(cmd.ID, fmt.Errorf("%w: place %s", event.ErrNoSession, cmd.LocationID))
			return ctx
		}
		cmd.SessionID = s.ID
		return next(ctx, cmd)
	}
}
