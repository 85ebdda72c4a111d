// Package event defines the append-only records the simulation core
// emits: WorldEvents describing what happened and ExecutionErrors
// describing why something did not.
package event

import (
	"time"

	"github.com/ironmarch/engine/internal/game/id"
)

// Type is the closed set of world event type tags. Narrative rendering
// downstream keys off this tag, so new values must be added here rather
// than invented ad hoc.
type Type string

const (
	TypeRoll           Type = "combat.roll"
	TypeHit            Type = "combat.hit"
	TypeMiss           Type = "combat.miss"
	TypeDamage         Type = "combat.damage"
	TypeDefend         Type = "combat.defend"
	TypeMovement       Type = "combat.movement"
	TypeTarget         Type = "combat.target"
	TypeJoined         Type = "session.joined"
	TypeLeft           Type = "session.left"
	TypeSessionCreated Type = "session.created"
	TypeSessionPaused  Type = "session.paused"
	TypeSessionResumed Type = "session.resumed"
	TypeSessionEnded   Type = "session.ended"
	TypeTurnEnded      Type = "session.turn_ended"
	TypeRoundEnded     Type = "session.round_ended"
	TypeSpeech         Type = "world.speech"
	TypeObserved       Type = "world.observed"
	TypePlaceCreated   Type = "world.place_created"
	TypeActorCreated   Type = "world.actor_created"
)

// WorldEvent is the canonical record of something that happened.
//
// Invariant: never mutated after creation. Trace always carries the
// originating command's ID; multiple events may share one trace.
type WorldEvent struct {
	// Trace is the ID of the command that caused this event.
	Trace id.ID
	// Type is the closed-set event tag.
	Type Type
	// Actor is the acting entity, if any.
	Actor id.ID
	// Location is the place the event occurred at, if any.
	Location id.ID
	// Payload describes before/after state. Keys are event-type specific.
	Payload map[string]any
}

// ExecutionError records a declared reducer or resolver failure. It does
// not abort the pass; the caller drains declared errors after each run.
type ExecutionError struct {
	// Trace is the ID of the command or intent that failed.
	Trace id.ID
	// Timestamp is when the error was declared (from injected ops).
	Timestamp time.Time
	// Err is the underlying error.
	Err error
}

// Error satisfies the error interface.
func (e ExecutionError) Error() string {
	if e.Err == nil {
		return "execution error"
	}
	return e.Err.Error()
}

// Unwrap exposes the underlying error for errors.Is/As.
func (e ExecutionError) Unwrap() error {
	return e.Err
}
