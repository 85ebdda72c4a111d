// Package command defines the validated, typed operations the
// transformation pipeline reduces. A Command is produced by intent
// resolution (or raised directly by system logic) and is immutable after
// construction; its ID is the causal trace every resulting WorldEvent
// carries.
package command

import "github.com/ironmarch/engine/internal/game/id"

// Type is the closed set of command type tags.
type Type string

const (
	TypeStrike        Type = "STRIKE"
	TypeCleave        Type = "CLEAVE"
	TypeAdvance       Type = "ADVANCE"
	TypeRetreat       Type = "RETREAT"
	TypeDefend        Type = "DEFEND"
	TypeTarget        Type = "TARGET"
	TypeYield         Type = "YIELD"
	TypePass          Type = "PASS"
	TypeSay           Type = "SAY"
	TypeLook          Type = "LOOK"
	TypeCreatePlace   Type = "CREATE_PLACE"
	TypeCreateActor   Type = "CREATE_ACTOR"
	TypePauseSession  Type = "PAUSE_SESSION"
	TypeResumeSession Type = "RESUME_SESSION"
)

// Command is a validated operation ready for reduction.
//
// Invariant: immutable after construction. ID is unique per command and
// is used as the trace on every event it causes; Trace echoes the
// originating intent's ID (or is empty for system-raised commands).
type Command struct {
	// ID uniquely identifies this command.
	ID id.ID
	// Trace is the originating intent's ID, if the command came from
	// player input.
	Trace id.ID
	// ActorID is the acting entity, or id.System for system commands.
	ActorID id.ID
	// LocationID is the place the command executes at, when relevant.
	LocationID id.ID
	// SessionID pins the command to a session, when relevant.
	SessionID id.ID
	// Type discriminates the payload.
	Type Type
	// Payload carries the type-specific arguments (one of the *Args
	// structs below).
	Payload any
}

// StrikeArgs targets a single pre-resolved enemy.
type StrikeArgs struct {
	TargetID id.ID
}

// CleaveArgs carries no target: cleave discovers every enemy in reach at
// execution time.
type CleaveArgs struct{}

// MoveArgs is shared by ADVANCE and RETREAT.
type MoveArgs struct {
	// Distance is the displacement in meters, always positive; the
	// command type decides the direction.
	Distance float64
}

// DefendArgs selects the defend variant.
type DefendArgs struct {
	// FullCommit spends the actor's entire remaining AP pool.
	FullCommit bool
}

// TargetArgs designates a standing target for subsequent strikes.
type TargetArgs struct {
	TargetID id.ID
}

// SayArgs carries free-form speech.
type SayArgs struct {
	Text string
}

// CreatePlaceArgs describes a new place, raised by system logic.
type CreatePlaceArgs struct {
	PlaceID     id.ID
	Name        string
	Description string
}

// CreateActorArgs describes a new actor, raised by system logic.
type CreateActorArgs struct {
	ActorID    id.ID
	Name       string
	LocationID id.ID
}
