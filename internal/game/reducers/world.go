package reducers

import (
	"fmt"

	"github.com/ironmarch/engine/internal/game/command"
	"github.com/ironmarch/engine/internal/game/event"
	"github.com/ironmarch/engine/internal/game/pipeline"
	"github.com/ironmarch/engine/internal/game/world"
)

// Default vitals for actors raised without authored content.
const (
	defaultActorHP      = 20.0
	defaultActorPower   = 30.0
	defaultActorFinesse = 30.0
	defaultActorMassKg  = 70.0
)

// Say reduces a SAY command: free-form speech addressed to the actor's
// location. Works in and out of combat.
func (r *Set) Say(ctx *pipeline.Context, cmd command.Command) *pipeline.Context {
	args, ok := cmd.Payload.(command.SayArgs)
	if !ok || args.Text == "" {
		ctx.DeclareError(cmd.ID, fmt.Errorf("%w: nothing to say", event.ErrInvalidTarget))
		return ctx
	}
	ctx.DeclareEvent(event.WorldEvent{
		Trace: cmd.ID, Type: event.TypeSpeech,
		Actor: cmd.ActorID, Location: cmd.LocationID,
		Payload: map[string]any{"text": args.Text},
	})
	return ctx
}

// Look reduces a LOOK command: a read-only snapshot of the actor's
// surroundings, declared as an observation event for downstream
// narration.
func (r *Set) Look(ctx *pipeline.Context, cmd command.Command) *pipeline.Context {
	place, _ := ctx.World.Place(cmd.LocationID)

	var actors []any
	for _, a := range ctx.World.ActorsAt(cmd.LocationID) {
		if a.ID == cmd.ActorID {
			continue
		}
		actors = append(actors, a.Name)
	}

	payload := map[string]any{
		"place":       place.Name,
		"description": place.Description,
		"actors":      actors,
	}
	if s, ok := ctx.World.ActiveSessionAt(cmd.LocationID); ok {
		payload["session"] = s.ID.String()
		payload["session_status"] = string(s.Status)
	}
	ctx.DeclareEvent(event.WorldEvent{
		Trace: cmd.ID, Type: event.TypeObserved,
		Actor: cmd.ActorID, Location: cmd.LocationID,
		Payload: payload,
	})
	return ctx
}

// CreatePlace reduces a CREATE_PLACE command, raised by system logic
// rather than player input.
func (r *Set) CreatePlace(ctx *pipeline.Context, cmd command.Command) *pipeline.Context {
	args, ok := cmd.Payload.(command.CreatePlaceArgs)
	if !ok || args.PlaceID.IsZero() || args.Name == "" {
		ctx.DeclareError(cmd.ID, fmt.Errorf("%w: create_place needs an ID and name", event.ErrInvalidTarget))
		return ctx
	}
	if err := ctx.World.AddPlace(&world.Place{
		ID:          args.PlaceID,
		Name:        args.Name,
		Description: args.Description,
	}); err != nil {
		ctx.DeclareError(cmd.ID, err)
		return ctx
	}
	ctx.DeclareEvent(event.WorldEvent{
		Trace: cmd.ID, Type: event.TypePlaceCreated,
		Actor: cmd.ActorID, Location: args.PlaceID,
		Payload: map[string]any{"name": args.Name},
	})
	return ctx
}

// CreateActor reduces a CREATE_ACTOR command. Actors raised this way
// get baseline vitals and bare hands; authored content goes through the
// world loader instead.
func (r *Set) CreateActor(ctx *pipeline.Context, cmd command.Command) *pipeline.Context {
	args, ok := cmd.Payload.(command.CreateActorArgs)
	if !ok || args.ActorID.IsZero() || args.Name == "" {
		ctx.DeclareError(cmd.ID, fmt.Errorf("%w: create_actor needs an ID and name", event.ErrInvalidTarget))
		return ctx
	}
	if !args.LocationID.IsZero() {
		if _, ok := ctx.World.Place(args.LocationID); !ok {
			ctx.DeclareError(cmd.ID, fmt.Errorf("%w: place %s not found", event.ErrNoLocation, args.LocationID))
			return ctx
		}
	}
	if err := ctx.World.AddActor(&world.Actor{
		ID:       args.ActorID,
		Name:     args.Name,
		Location: args.LocationID,
		HP:       defaultActorHP,
		MaxHP:    defaultActorHP,
		Power:    defaultActorPower,
		Finesse:  defaultActorFinesse,
		MassKg:   defaultActorMassKg,
		Skills:   map[string]float64{},
		Weapon:   world.BareHands,
	}); err != nil {
		ctx.DeclareError(cmd.ID, err)
		return ctx
	}
	ctx.DeclareEvent(event.WorldEvent{
		Trace: cmd.ID, Type: event.TypeActorCreated,
		Actor: args.ActorID, Location: args.LocationID,
		Payload: map[string]any{"name": args.Name},
	})
	return ctx
}
