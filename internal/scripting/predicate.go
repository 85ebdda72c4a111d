package scripting

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Predicate is a sandboxed Lua function evaluated against a snapshot
// table. The engine uses it for pluggable combat end conditions: content
// authors write `function should_end(session) ... end` and the reducer
// layer asks it after every combat command.
//
// Predicate is safe for concurrent Eval; the internal lock serializes
// access to the single LState.
type Predicate struct {
	mu        sync.Mutex
	state     *lua.LState
	fn        string
	instLimit int
	logger    *zap.Logger
}

// NewPredicate compiles source in a fresh sandboxed VM and binds the
// named global function.
//
// Precondition: fn must be defined as a global function by source;
// instLimit >= 0, 0 uses DefaultInstructionLimit; logger must be non-nil.
// Postcondition: Returns a ready Predicate or an error; on error no VM
// is leaked.
func NewPredicate(source, fn string, instLimit int, logger *zap.Logger) (*Predicate, error) {
	if instLimit <= 0 {
		instLimit = DefaultInstructionLimit
	}
	L := NewSandboxedState()
	if err := L.DoString(source); err != nil {
		L.Close()
		return nil, fmt.Errorf("scripting: loading predicate source: %w", err)
	}
	if L.GetGlobal(fn).Type() != lua.LTFunction {
		L.Close()
		return nil, fmt.Errorf("scripting: source does not define function %q", fn)
	}
	return &Predicate{
		state:     L,
		fn:        fn,
		instLimit: instLimit,
		logger:    logger,
	}, nil
}

// Eval calls the predicate with the snapshot converted to a Lua table
// and returns its boolean verdict. Lua runtime errors (including
// instruction-limit cancellation) are logged at Warn level and reported
// as (false, error) so a broken script can never end a session.
//
// Postcondition: the VM stack is balanced regardless of outcome.
func (p *Predicate) Eval(snapshot map[string]any) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ctx, cancel := newCountingContext(p.instLimit)
	defer cancel()
	p.state.SetContext(ctx)

	err := p.state.CallByParam(lua.P{
		Fn:      p.state.GetGlobal(p.fn),
		NRet:    1,
		Protect: true,
	}, toLValue(p.state, snapshot))
	if err != nil {
		p.logger.Warn("scripting: predicate runtime error",
			zap.String("fn", p.fn),
			zap.Error(err),
		)
		return false, err
	}

	ret := p.state.Get(-1)
	p.state.Pop(1)
	return lua.LVAsBool(ret), nil
}

// Close releases the underlying VM.
func (p *Predicate) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Close()
}

// toLValue converts a plain Go value into a lua.LValue. Maps and slices
// recurse; unsupported types become their string form.
func toLValue(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case map[string]any:
		t := L.NewTable()
		for k, item := range val {
			t.RawSetString(k, toLValue(L, item))
		}
		return t
	case []any:
		t := L.NewTable()
		for _, item := range val {
			t.Append(toLValue(L, item))
		}
		return t
	default:
		return lua.LString(fmt.Sprintf("%v", val))
	}
}
