package pipeline

import (
	"strings"

	"go.uber.org/zap"

	"github.com/ironmarch/engine/internal/game/event"
	"github.com/ironmarch/engine/internal/game/id"
	"github.com/ironmarch/engine/internal/game/world"
)

// Context is the shared execution context one transformation pass runs
// against. It owns the World Projection for the duration of the pass and
// collects every declared event and error in order.
//
// Invariant: a Context is single-owner; it is never shared between two
// concurrent passes.
type Context struct {
	// World is the live projection this pass mutates.
	World *world.Projection
	// Ops is the injected nondeterminism.
	Ops Ops

	logger *zap.Logger
	events []event.WorldEvent
	errors []event.ExecutionError
}

// NewContext creates a Context over the given projection and ops.
//
// Precondition: w and ops must be non-nil. A nil logger becomes a no-op
// logger.
func NewContext(w *world.Projection, ops Ops, logger *zap.Logger) *Context {
	if w == nil || ops == nil {
		panic("pipeline: NewContext requires a projection and ops")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Context{World: w, Ops: ops, logger: logger}
}

// Logger returns the pass logger.
func (c *Context) Logger() *zap.Logger {
	return c.logger
}

// NewCommandID mints a fresh command identifier through the injected
// ops, keeping ID generation replayable.
func (c *Context) NewCommandID() id.ID {
	return id.From(id.NSCommand, c.Ops.UniqueID())
}

// DeclareEvent appends a WorldEvent to the pass log. Events are
// append-only and never mutated after declaration.
func (c *Context) DeclareEvent(ev event.WorldEvent) {
	c.events = append(c.events, ev)
	c.logger.Debug("event declared",
		zap.String("type", string(ev.Type)),
		zap.String("trace", ev.Trace.String()),
		zap.String("actor", ev.Actor.String()),
	)
}

// DeclareError records a failure without aborting the pass. The
// timestamp comes from the injected ops so error logs replay too.
func (c *Context) DeclareError(trace id.ID, err error) {
	c.errors = append(c.errors, event.ExecutionError{
		Trace:     trace,
		Timestamp: c.Ops.Timestamp(),
		Err:       err,
	})
	c.logger.Debug("error declared",
		zap.String("trace", trace.String()),
		zap.Error(err),
	)
}

// DeclaredEvents returns events declared so far, optionally filtered by
// a type pattern: exact ("combat.hit") or prefix with a trailing '*'
// ("session.*"). An empty pattern returns everything. Reducers use this
// to inspect what already happened in the same pass.
func (c *Context) DeclaredEvents(pattern string) []event.WorldEvent {
	if pattern == "" {
		out := make([]event.WorldEvent, len(c.events))
		copy(out, c.events)
		return out
	}
	prefix, wildcard := strings.CutSuffix(pattern, "*")
	var out []event.WorldEvent
	for _, ev := range c.events {
		if wildcard && strings.HasPrefix(string(ev.Type), prefix) {
			out = append(out, ev)
		} else if !wildcard && string(ev.Type) == pattern {
			out = append(out, ev)
		}
	}
	return out
}

// DeclaredEventsByCommand returns every event traced to the given
// command ID, in declaration order.
func (c *Context) DeclaredEventsByCommand(trace id.ID) []event.WorldEvent {
	var out []event.WorldEvent
	for _, ev := range c.events {
		if ev.Trace == trace {
			out = append(out, ev)
		}
	}
	return out
}

// DeclaredErrors returns all errors declared so far.
func (c *Context) DeclaredErrors() []event.ExecutionError {
	out := make([]event.ExecutionError, len(c.errors))
	copy(out, c.errors)
	return out
}

// Drain returns and clears the declared events and errors. The caller
// (a transport/session layer) drains after each pipeline run and
// forwards the results to clients.
func (c *Context) Drain() ([]event.WorldEvent, []event.ExecutionError) {
	events, errors := c.events, c.errors
	c.events, c.errors = nil, nil
	return events, errors
}
