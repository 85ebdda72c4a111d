package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironmarch/engine/internal/game/combat"
	"github.com/ironmarch/engine/internal/game/dice"
	"github.com/ironmarch/engine/internal/game/id"
)

func testBattlefield() combat.Battlefield {
	return combat.Battlefield{Length: 50, Margin: 5}
}

func testStats() combat.StatBlock {
	return combat.StatBlock{Power: 50, Finesse: 50, MassKg: 80, SkillRank: 50}
}

func newTestSession(t *testing.T) *combat.Session {
	t.Helper()
	s, err := combat.NewCombatSession(id.New(id.NSSession), id.From(id.NSPlace, "arena"), testBattlefield())
	require.NoError(t, err)
	return s
}

func TestNewCombatSession_StartsPending(t *testing.T) {
	s := newTestSession(t)
	assert.Equal(t, combat.StatusPending, s.Status)
	assert.Equal(t, combat.KindCombat, s.Kind)
	require.NotNil(t, s.Combat)
	assert.Nil(t, s.Workbench)
}

func TestNewCombatSession_RejectsBadBattlefield(t *testing.T) {
	_, err := combat.NewCombatSession(id.New(id.NSSession), id.From(id.NSPlace, "arena"),
		combat.Battlefield{Length: 0})
	require.Error(t, err)

	_, err = combat.NewCombatSession(id.New(id.NSSession), id.From(id.NSPlace, "arena"),
		combat.Battlefield{Length: 10, Margin: 6})
	require.Error(t, err)
}

func TestNewWorkbenchSession(t *testing.T) {
	s, err := combat.NewWorkbenchSession(id.New(id.NSSession), id.From(id.NSPlace, "forge"), id.From(id.NSItem, "anvil"))
	require.NoError(t, err)
	assert.Equal(t, combat.KindWorkbench, s.Kind)
	require.NotNil(t, s.Workbench)
	assert.Nil(t, s.Combat)
	assert.Equal(t, 0.0, s.Workbench.Progress)
}

func TestSession_LifecycleTransitions(t *testing.T) {
	s := newTestSession(t)

	// PENDING: cannot pause, resume, or terminate.
	assert.Error(t, s.Pause())
	assert.Error(t, s.Resume())
	assert.Error(t, s.Terminate())

	// First combatant flips PENDING→RUNNING.
	_, err := s.AddCombatant(id.From(id.NSActor, "alice"), combat.TeamBravo, testStats(), dice.NewSequenceSource(10))
	require.NoError(t, err)
	assert.Equal(t, combat.StatusRunning, s.Status)

	// RUNNING↔PAUSED.
	require.NoError(t, s.Pause())
	assert.Equal(t, combat.StatusPaused, s.Status)
	assert.Error(t, s.Pause())
	require.NoError(t, s.Resume())
	assert.Equal(t, combat.StatusRunning, s.Status)

	// TERMINATED is final.
	require.NoError(t, s.Terminate())
	assert.Equal(t, combat.StatusTerminated, s.Status)
	assert.Error(t, s.Pause())
	assert.Error(t, s.Resume())
	assert.Error(t, s.Terminate())
	assert.False(t, s.Active())
}

func TestAddCombatant_EntryPositionsMirror(t *testing.T) {
	s := newTestSession(t)
	src := dice.NewSequenceSource(10)

	alpha, err := s.AddCombatant(id.From(id.NSActor, "a"), combat.TeamAlpha, testStats(), src)
	require.NoError(t, err)
	bravo, err := s.AddCombatant(id.From(id.NSActor, "b"), combat.TeamBravo, testStats(), src)
	require.NoError(t, err)

	assert.Equal(t, 5.0, alpha.Position.Coordinate)
	assert.Equal(t, combat.FacingRight, alpha.Position.Facing)
	assert.Equal(t, 45.0, bravo.Position.Coordinate)
	assert.Equal(t, combat.FacingLeft, bravo.Position.Facing)
}

func TestAddCombatant_RollsInitiativeOnce(t *testing.T) {
	s := newTestSession(t)
	c, err := s.AddCombatant(id.From(id.NSActor, "a"), combat.TeamAlpha, testStats(), dice.NewSequenceSource(14))
	require.NoError(t, err)
	assert.Equal(t, 15, c.InitiativeRoll) // 14 + 1
	assert.Equal(t, 15, s.Combat.Initiative[c.ActorID])
}

func TestAddCombatant_Duplicate(t *testing.T) {
	s := newTestSession(t)
	src := dice.NewSequenceSource(10)
	actor := id.From(id.NSActor, "a")
	_, err := s.AddCombatant(actor, combat.TeamAlpha, testStats(), src)
	require.NoError(t, err)
	_, err = s.AddCombatant(actor, combat.TeamAlpha, testStats(), src)
	require.Error(t, err)
}

func TestRemoveCombatant_IsTheOnlyDestructor(t *testing.T) {
	s := newTestSession(t)
	src := dice.NewSequenceSource(10)
	a := id.From(id.NSActor, "a")
	b := id.From(id.NSActor, "b")
	_, err := s.AddCombatant(a, combat.TeamAlpha, testStats(), src)
	require.NoError(t, err)
	cb, err := s.AddCombatant(b, combat.TeamBravo, testStats(), src)
	require.NoError(t, err)

	// b targets a; removing a must need no cleanup on b.
	cb.TargetID = a
	assert.True(t, s.RemoveCombatant(a))
	assert.False(t, s.RemoveCombatant(a))

	_, ok := s.Combatant(cb.TargetID)
	assert.False(t, ok, "weak reference fails lookup after removal")
}
