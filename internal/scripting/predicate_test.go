package scripting_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ironmarch/engine/internal/scripting"
)

func TestNewPredicate_MissingFunction(t *testing.T) {
	_, err := scripting.NewPredicate(`x = 1`, "should_end", 0, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "should_end")
}

func TestNewPredicate_BadSource(t *testing.T) {
	_, err := scripting.NewPredicate(`function should_end(`, "should_end", 0, zap.NewNop())
	require.Error(t, err)
}

func TestPredicate_Eval(t *testing.T) {
	src := `
function should_end(session)
  return session.teams <= 1
end`
	p, err := scripting.NewPredicate(src, "should_end", 0, zap.NewNop())
	require.NoError(t, err)
	defer p.Close()

	end, err := p.Eval(map[string]any{"teams": 1})
	require.NoError(t, err)
	assert.True(t, end)

	end, err = p.Eval(map[string]any{"teams": 2})
	require.NoError(t, err)
	assert.False(t, end)
}

func TestPredicate_Eval_NestedSnapshot(t *testing.T) {
	src := `
function should_end(session)
  return session.round.number > 10 and session.status == "RUNNING"
end`
	p, err := scripting.NewPredicate(src, "should_end", 0, zap.NewNop())
	require.NoError(t, err)
	defer p.Close()

	end, err := p.Eval(map[string]any{
		"status": "RUNNING",
		"round":  map[string]any{"number": 11},
	})
	require.NoError(t, err)
	assert.True(t, end)
}

func TestPredicate_InstructionLimit(t *testing.T) {
	src := `
function should_end(session)
  while true do end
end`
	p, err := scripting.NewPredicate(src, "should_end", 1000, zap.NewNop())
	require.NoError(t, err)
	defer p.Close()

	end, err := p.Eval(map[string]any{})
	require.Error(t, err)
	assert.False(t, end, "a runaway script must never end a session")
}

func TestPredicate_SandboxStripsDangerousGlobals(t *testing.T) {
	src := `
function should_end(session)
  return dofile == nil and loadfile == nil and require == nil
end`
	p, err := scripting.NewPredicate(src, "should_end", 0, zap.NewNop())
	require.NoError(t, err)
	defer p.Close()

	stripped, err := p.Eval(map[string]any{})
	require.NoError(t, err)
	assert.True(t, stripped)
}
