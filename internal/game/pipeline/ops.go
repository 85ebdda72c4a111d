// Package pipeline implements the transformation pipeline: the execution
// context reducers run against, the reducer contract, middleware-style
// precondition decorators, and the ordered dispatcher.
//
// Reducers must not perform their own I/O, randomness, or clock reads;
// all nondeterminism is funneled through the injected Ops so that
// replaying the same (context, command, ops-sequence) always yields the
// same events.
package pipeline

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ironmarch/engine/internal/game/dice"
)

// Ops is the set of injected, replayable operations. It is the only
// door to nondeterminism a reducer has.
type Ops interface {
	// Roll returns a die result in [1, sides].
	//
	// Precondition: sides >= 2.
	Roll(sides int) int
	// Timestamp returns the current time.
	Timestamp() time.Time
	// UniqueID returns a fresh unique token.
	UniqueID() string
}

// systemOps is the production Ops: crypto-backed dice, wall clock, uuid.
type systemOps struct {
	src dice.Source
}

// NewSystemOps creates production Ops over the given dice source.
//
// Precondition: src must be non-nil.
func NewSystemOps(src dice.Source) Ops {
	if src == nil {
		panic("pipeline: NewSystemOps requires a dice source")
	}
	return &systemOps{src: src}
}

func (o *systemOps) Roll(sides int) int   { return dice.Roll(o.src, sides) }
func (o *systemOps) Timestamp() time.Time { return time.Now() }
func (o *systemOps) UniqueID() string     { return uuid.NewString() }

// ReplayOps is a fully scripted Ops for tests and audit replays: rolls
// come from a sequence source, the clock advances a fixed step per read,
// and IDs are sequential.
type ReplayOps struct {
	mu    sync.Mutex
	src   dice.Source
	now   time.Time
	step  time.Duration
	idSeq int
}

// NewReplayOps creates scripted Ops starting the clock at start.
//
// Precondition: src must be non-nil.
func NewReplayOps(src dice.Source, start time.Time) *ReplayOps {
	if src == nil {
		panic("pipeline: NewReplayOps requires a dice source")
	}
	return &ReplayOps{src: src, now: start, step: time.Millisecond}
}

// Roll returns the next scripted die result in [1, sides].
func (o *ReplayOps) Roll(sides int) int {
	return dice.Roll(o.src, sides)
}

// Timestamp returns the scripted clock, advancing one step per call.
func (o *ReplayOps) Timestamp() time.Time {
	o.mu.Lock()
	defer o.mu.Unlock()
	t := o.now
	o.now = o.now.Add(o.step)
	return t
}

// UniqueID returns sequential tokens ("replay-000001", ...).
func (o *ReplayOps) UniqueID() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.idSeq++
	return fmt.Sprintf("replay-%06d", o.idSeq)
}
