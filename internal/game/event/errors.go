package event

import "errors"

// Sentinel errors forming the engine's error taxonomy. Resolvers and
// reducers wrap these with context via fmt.Errorf("...: %w", ...) so
// callers can classify declared errors with errors.Is.
var (
	// Resolution errors.
	ErrUnknownVerb   = errors.New("no resolver matched the intent verb")
	ErrInvalidTarget = errors.New("target could not be resolved")

	// Precondition errors.
	ErrUnknownActor      = errors.New("actor not found in world projection")
	ErrNoLocation        = errors.New("actor has no location")
	ErrNoSession         = errors.New("no active combat session at this location")
	ErrWrongSessionState = errors.New("session is not in a valid state for this operation")
	ErrNotInCombat       = errors.New("actor is not a combatant in this session")

	// Resource errors.
	ErrInsufficientAP     = errors.New("insufficient action points")
	ErrInsufficientEnergy = errors.New("insufficient energy")

	// Domain errors.
	ErrAlreadyExists = errors.New("entity already exists")
	ErrUnhandled     = errors.New("no handler registered for command type")
)
