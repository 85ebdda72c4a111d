// Package combat implements the combat session engine: the long-lived,
// turn-structured state machine tracking combatants, initiative order,
// battlefield positions, and resource pools for one encounter.
//
// The package holds no world state of its own; actors are referenced by
// weak string IDs and their stats are passed in as scalar blocks by the
// reducer layer. Nothing here reads a clock or a random source directly —
// rolls arrive through an injected dice.Source.
package combat

import (
	"fmt"

	"github.com/ironmarch/engine/internal/game/id"
)

// Kind discriminates the session variant payload.
type Kind string

const (
	// KindCombat sessions carry a CombatState payload.
	KindCombat Kind = "combat"
	// KindWorkbench sessions carry a WorkbenchState payload.
	KindWorkbench Kind = "workbench"
)

// Status is the session lifecycle state.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusRunning    Status = "RUNNING"
	StatusPaused     Status = "PAUSED"
	StatusTerminated Status = "TERMINATED"
)

// Session is the tagged-union aggregate for long-lived place-bound
// activity. Exactly one of Combat and Workbench is non-nil, selected by
// Kind.
//
// Invariant: Status only ever moves PENDING→RUNNING→TERMINATED, with
// optional RUNNING↔PAUSED in between. The World Projection's sessions
// collection is the sole owner; combatants refer back by weak ID only.
type Session struct {
	ID      id.ID
	PlaceID id.ID
	Kind    Kind
	Status  Status

	// Combat is the variant payload for KindCombat sessions.
	Combat *CombatState
	// Workbench is the variant payload for KindWorkbench sessions.
	Workbench *WorkbenchState
}

// WorkbenchState is the crafting-session variant payload.
type WorkbenchState struct {
	// StationID is the workbench the session is bound to.
	StationID id.ID
	// WorkItemID is the item under construction (weak reference).
	WorkItemID id.ID
	// Progress is completion in [0, 1].
	Progress float64
}

// NewCombatSession creates a PENDING combat session bound to placeID.
//
// Precondition: sessionID and placeID must be non-zero; battlefield must
// validate.
func NewCombatSession(sessionID, placeID id.ID, battlefield Battlefield) (*Session, error) {
	if sessionID.IsZero() || placeID.IsZero() {
		return nil, fmt.Errorf("combat: session and place IDs must be non-empty")
	}
	if err := battlefield.Validate(); err != nil {
		return nil, err
	}
	return &Session{
		ID:      sessionID,
		PlaceID: placeID,
		Kind:    KindCombat,
		Status:  StatusPending,
		Combat: &CombatState{
			Combatants:  make(map[id.ID]*Combatant),
			Initiative:  make(map[id.ID]int),
			Battlefield: battlefield,
			Round:       Round{Number: 1},
		},
	}, nil
}

// NewWorkbenchSession creates a PENDING workbench session bound to placeID.
//
// Precondition: sessionID, placeID, and stationID must be non-zero.
func NewWorkbenchSession(sessionID, placeID, stationID id.ID) (*Session, error) {
	if sessionID.IsZero() || placeID.IsZero() || stationID.IsZero() {
		return nil, fmt.Errorf("combat: session, place, and station IDs must be non-empty")
	}
	return &Session{
		ID:        sessionID,
		PlaceID:   placeID,
		Kind:      KindWorkbench,
		Status:    StatusPending,
		Workbench: &WorkbenchState{StationID: stationID},
	}, nil
}

// Active reports whether the session still accepts commands (any status
// except TERMINATED).
func (s *Session) Active() bool {
	return s.Status != StatusTerminated
}

// start moves PENDING→RUNNING. Any other origin is a transition error.
func (s *Session) start() error {
	if s.Status != StatusPending {
		return fmt.Errorf("combat: cannot start session in status %s", s.Status)
	}
	s.Status = StatusRunning
	return nil
}

// Pause moves RUNNING→PAUSED.
//
// Postcondition: Status == PAUSED, or an error and no change.
func (s *Session) Pause() error {
	if s.Status != StatusRunning {
		return fmt.Errorf("combat: cannot pause session in status %s", s.Status)
	}
	s.Status = StatusPaused
	return nil
}

// Resume moves PAUSED→RUNNING.
//
// Postcondition: Status == RUNNING, or an error and no change.
func (s *Session) Resume() error {
	if s.Status != StatusPaused {
		return fmt.Errorf("combat: cannot resume session in status %s", s.Status)
	}
	s.Status = StatusRunning
	return nil
}

// Terminate moves RUNNING or PAUSED to TERMINATED. Which condition ends
// a combat is owned by the EndPolicy consulted by the reducer layer, not
// by this state machine.
//
// Postcondition: Status == TERMINATED, or an error and no change.
func (s *Session) Terminate() error {
	if s.Status != StatusRunning && s.Status != StatusPaused {
		return fmt.Errorf("combat: cannot terminate session in status %s", s.Status)
	}
	s.Status = StatusTerminated
	return nil
}
