package intent

import (
	"fmt"

	"github.com/ironmarch/engine/internal/game/command"
	"github.com/ironmarch/engine/internal/game/event"
	"github.com/ironmarch/engine/internal/game/id"
	"github.com/ironmarch/engine/internal/game/pipeline"
	"github.com/ironmarch/engine/internal/game/world"
)

// Resolver matches one verb and builds its Command. Returning false is
// "no match", not an error — a resolver may still declare an error
// through the context (e.g. INVALID_TARGET) so the caller can explain
// why nothing happened.
type Resolver interface {
	// Verb is the exact verb token this resolver claims. Every intent
	// is tested against every registered resolver, so the mismatch
	// path must be a cheap string compare.
	Verb() string
	// Resolve builds the Command, or returns false.
	Resolve(ctx *pipeline.Context, in Intent) (command.Command, bool)
}

// Resolve tries resolvers in order until one matches. If no resolver
// claims the verb at all, an ErrUnknownVerb error is declared against
// the intent.
//
// Postcondition: no Projection mutation; at most one Command returned.
func Resolve(ctx *pipeline.Context, in Intent, resolvers []Resolver) (command.Command, bool) {
	verbKnown := false
	for _, r := range resolvers {
		if r.Verb() != in.Verb {
			continue
		}
		verbKnown = true
		if cmd, ok := r.Resolve(ctx, in); ok {
			return cmd, true
		}
	}
	if !verbKnown && in.Verb != "" {
		ctx.DeclareError(in.ID, fmt.Errorf("%w: %q", event.ErrUnknownVerb, in.Verb))
	}
	return command.Command{}, false
}

// requireActor validates the acting actor exists, declaring an error on
// failure.
func requireActor(ctx *pipeline.Context, in Intent) (*world.Actor, bool) {
	actor, ok := ctx.World.Actor(in.ActorID)
	if !ok {
		ctx.DeclareError(in.ID, fmt.Errorf("%w: %s", event.ErrUnknownActor, in.ActorID))
		return nil, false
	}
	return actor, true
}

// requireLocation validates the actor has a resolvable location, which
// melee verbs mandate.
func requireLocation(ctx *pipeline.Context, in Intent, actor *world.Actor) (id.ID, bool) {
	if actor.Location.IsZero() {
		ctx.DeclareError(in.ID, fmt.Errorf("%w: actor %s", event.ErrNoLocation, actor.ID))
		return "", false
	}
	if _, ok := ctx.World.Place(actor.Location); !ok {
		ctx.DeclareError(in.ID, fmt.Errorf("%w: place %s not found", event.ErrNoLocation, actor.Location))
		return "", false
	}
	return actor.Location, true
}

// newCommand builds the common command envelope: fresh ID from injected
// ops, the intent's ID as causal trace.
func newCommand(ctx *pipeline.Context, in Intent, t command.Type, location id.ID, payload any) command.Command {
	return command.Command{
		ID:         ctx.NewCommandID(),
		Trace:      in.ID,
		ActorID:    in.ActorID,
		LocationID: location,
		SessionID:  in.SessionID,
		Type:       t,
		Payload:    payload,
	}
}
