package pipeline

import (
	"fmt"

	"github.com/ironmarch/engine/internal/game/command"
	"github.com/ironmarch/engine/internal/game/event"
)

// Reducer is the pure transformation contract every operation obeys:
// given the shared context and one command, return the (in-place
// mutated) context. Reducers validate before mutating; a failure
// declares an error and returns the context otherwise unchanged.
type Reducer func(*Context, command.Command) *Context

// Handler pairs a command-type discriminator with its reducer.
type Handler interface {
	// Handles reports whether this handler reduces cmd. It must be
	// cheap: every command is tested against handlers in order.
	Handles(cmd command.Command) bool
	// Reduce applies the command.
	Reduce(ctx *Context, cmd command.Command) *Context
}

// typedHandler is the standard Handler: one command type, one reducer.
type typedHandler struct {
	cmdType command.Type
	reduce  Reducer
}

// NewHandler builds a Handler for one command type.
//
// Precondition: cmdType must be non-empty; fn must be non-nil.
func NewHandler(cmdType command.Type, fn Reducer) Handler {
	if cmdType == "" || fn == nil {
		panic("pipeline: NewHandler requires a command type and reducer")
	}
	return &typedHandler{cmdType: cmdType, reduce: fn}
}

func (h *typedHandler) Handles(cmd command.Command) bool {
	return cmd.Type == h.cmdType
}

func (h *typedHandler) Reduce(ctx *Context, cmd command.Command) *Context {
	return h.reduce(ctx, cmd)
}

// CommandType exposes the discriminator for registration collision
// checks.
func (h *typedHandler) CommandType() command.Type {
	return h.cmdType
}

// Dispatcher iterates a fixed, explicitly ordered handler list once per
// command. Ordering is deliberate: no dependency graph is computed at
// dispatch time, so validation-decorated handlers run deterministically
// relative to each other.
//
// Invariant: the handler list is immutable after construction.
type Dispatcher struct {
	handlers []Handler
}

// NewDispatcher builds a Dispatcher over the given handlers, in order.
// Two handlers claiming the same command type is a construction error.
//
// Postcondition: Returns a Dispatcher or an error on a type collision.
func NewDispatcher(handlers ...Handler) (*Dispatcher, error) {
	claimed := make(map[command.Type]bool)
	for _, h := range handlers {
		typed, ok := h.(interface{ CommandType() command.Type })
		if !ok {
			continue
		}
		t := typed.CommandType()
		if claimed[t] {
			return nil, fmt.Errorf("pipeline: duplicate handler for command type %s", t)
		}
		claimed[t] = true
	}
	hs := make([]Handler, len(handlers))
	copy(hs, handlers)
	return &Dispatcher{handlers: hs}, nil
}

// MustDispatcher builds a Dispatcher and panics on collision. Useful for
// the startup registry, where a collision is a programming error.
func MustDispatcher(handlers ...Handler) *Dispatcher {
	d, err := NewDispatcher(handlers...)
	if err != nil {
		panic(err)
	}
	return d
}

// Reduce finds cmd's registered reducer and executes it. A command no
// handler claims declares event.ErrUnhandled; it never aborts the batch.
//
// Postcondition: Returns the same context pointer, mutated in place.
func (d *Dispatcher) Reduce(ctx *Context, cmd command.Command) *Context {
	for _, h := range d.handlers {
		if h.Handles(cmd) {
			return h.Reduce(ctx, cmd)
		}
	}
	ctx.DeclareError(cmd.ID, fmt.Errorf("%w: %s", event.ErrUnhandled, cmd.Type))
	return ctx
}

// ReduceAll reduces a batch in order. One failing command never blocks
// the commands after it.
func (d *Dispatcher) ReduceAll(ctx *Context, cmds []command.Command) *Context {
	for _, cmd := range cmds {
		ctx = d.Reduce(ctx, cmd)
	}
	return ctx
}
