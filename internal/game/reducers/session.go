package reducers

import (
	"fmt"

	"github.com/ironmarch/engine/internal/game/combat"
	"github.com/ironmarch/engine/internal/game/command"
	"github.com/ironmarch/engine/internal/game/event"
	"github.com/ironmarch/engine/internal/game/pipeline"
)

// sessionFor resolves the session a lifecycle command addresses: the
// explicit SessionID when set, otherwise the active session at the
// command's location. Lifecycle commands are raised by system logic, so
// no actor middleware runs before them.
func sessionFor(ctx *pipeline.Context, cmd command.Command) (*combat.Session, bool) {
	if !cmd.SessionID.IsZero() {
		s, ok := ctx.World.Session(cmd.SessionID)
		if !ok {
			ctx.DeclareError(cmd.ID, fmt.Errorf("%w: session %s", event.ErrNoSession, cmd.SessionID))
			return nil, false
		}
		return s, true
	}
	s, ok := ctx.World.ActiveSessionAt(cmd.LocationID)
	if !ok {
		ctx.DeclareError(cmd.ID, fmt.Errorf("%w: place %s", event.ErrNoSession, cmd.LocationID))
		return nil, false
	}
	return s, true
}

// PauseSession reduces a PAUSE_SESSION command: RUNNING→PAUSED.
func (r *Set) PauseSession(ctx *pipeline.Context, cmd command.Command) *pipeline.Context {
	s, ok := sessionFor(ctx, cmd)
	if !ok {
		return ctx
	}
	if err := s.Pause(); err != nil {
		ctx.DeclareError(cmd.ID, fmt.Errorf("%w: %v", event.ErrWrongSessionState, err))
		return ctx
	}
	ctx.DeclareEvent(event.WorldEvent{
		Trace: cmd.ID, Type: event.TypeSessionPaused,
		Actor: cmd.ActorID, Location: s.PlaceID,
		Payload: map[string]any{"session": s.ID.String()},
	})
	return ctx
}

// ResumeSession reduces a RESUME_SESSION command: PAUSED→RUNNING.
func (r *Set) ResumeSession(ctx *pipeline.Context, cmd command.Command) *pipeline.Context {
	s, ok := sessionFor(ctx, cmd)
	if !ok {
		return ctx
	}
	if err := s.Resume(); err != nil {
		ctx.DeclareError(cmd.ID, fmt.Errorf("%w: %v", event.ErrWrongSessionState, err))
		return ctx
	}
	ctx.DeclareEvent(event.WorldEvent{
		Trace: cmd.ID, Type: event.TypeSessionResumed,
		Actor: cmd.ActorID, Location: s.PlaceID,
		Payload: map[string]any{"session": s.ID.String()},
	})
	return ctx
}
