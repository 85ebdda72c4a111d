package reducers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironmarch/engine/internal/game/combat"
	"github.com/ironmarch/engine/internal/game/command"
	"github.com/ironmarch/engine/internal/game/event"
	"github.com/ironmarch/engine/internal/game/id"
	"github.com/ironmarch/engine/internal/game/reducers"
)

func TestStrike_BootstrapsSession(t *testing.T) {
	p := newWorld(t)
	// Rolls: alice initiative 11, bob initiative 6, attack 16, evasion 3.
	ctx := newCtx(t, p, 10, 5, 15, 2)
	d := reducers.New(nil).Registry()

	cmd := mkCmd("c1", aliceID, command.TypeStrike, command.StrikeArgs{TargetID: bobID})
	d.Reduce(ctx, cmd)

	require.Empty(t, ctx.DeclaredErrors())
	require.Len(t, p.Sessions, 1)
	s, ok := p.ActiveSessionAt(arenaID)
	require.True(t, ok)
	assert.Equal(t, combat.StatusRunning, s.Status)

	alice, ok := s.Combatant(aliceID)
	require.True(t, ok)
	assert.Equal(t, combat.TeamBravo, alice.Team)
	assert.Equal(t, 45.0, alice.Position.Coordinate)
	assert.Equal(t, combat.FacingLeft, alice.Position.Facing)
	assert.Equal(t, 11, alice.InitiativeRoll)

	bob, ok := s.Combatant(bobID)
	require.True(t, ok)
	assert.Equal(t, combat.TeamAlpha, bob.Team)
	assert.Equal(t, 5.0, bob.Position.Coordinate)
	assert.Equal(t, 6, bob.InitiativeRoll)

	// Attack rating 16 + 60*0.8 = 64 beats evasion 3: hit for
	// 5 * (1 + 0.2) * (1 + 50/200) = 7.5.
	assert.InDelta(t, 22.5, p.Actors[bobID].HP, 1e-9)
	assert.InDelta(t, 1.85, alice.AP.Current, 1e-9)
	assert.InDelta(t, 88, alice.Energy.Current, 1e-9)

	types := eventTypes(ctx.DeclaredEventsByCommand(cmd.ID))
	assert.Equal(t, []event.Type{
		event.TypeSessionCreated,
		event.TypeJoined, event.TypeJoined,
		event.TypeRoll, event.TypeHit, event.TypeDamage,
	}, types)

	// The exchange opened the attacker's turn.
	require.NotNil(t, s.Combat.Round.Turns.Current)
	assert.Equal(t, aliceID, s.Combat.Round.Turns.Current.ActorID)
	require.Len(t, s.Combat.Round.Turns.Current.Commands, 1)
	assert.Equal(t, cmd.ID, s.Combat.Round.Turns.Current.Commands[0].CommandID)
}

func TestStrike_MissCostsBalance(t *testing.T) {
	p := newWorld(t)
	// Rolls: bob initiative 11, alice initiative 6, attack 1, evasion 11.
	// Bob's rating 1 loses to alice's evasion 11 + 48 = 59.
	ctx := newCtx(t, p, 10, 5, 0, 10)
	d := reducers.New(nil).Registry()

	cmd := mkCmd("c1", bobID, command.TypeStrike, command.StrikeArgs{TargetID: aliceID})
	d.Reduce(ctx, cmd)

	require.Empty(t, ctx.DeclaredErrors())
	assert.Equal(t, 30.0, p.Actors[aliceID].HP)

	s, _ := p.ActiveSessionAt(arenaID)
	bob, _ := s.Combatant(bobID)
	assert.InDelta(t, 0.85, bob.Balance, 1e-9)

	assert.Len(t, ctx.DeclaredEvents("combat.miss"), 1)
	assert.Empty(t, ctx.DeclaredEvents("combat.hit"))
}

func TestStrike_UnknownActorLeavesWorldUntouched(t *testing.T) {
	p := newWorld(t)
	ctx := newCtx(t, p, 10)
	d := reducers.New(nil).Registry()

	cmd := mkCmd("c1", id.From(id.NSActor, "ghost"), command.TypeStrike, command.StrikeArgs{TargetID: bobID})
	d.Reduce(ctx, cmd)

	errs := ctx.DeclaredErrors()
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0].Err, event.ErrUnknownActor)
	assert.Equal(t, cmd.ID, errs[0].Trace)
	assert.Empty(t, p.Sessions)
	assert.Empty(t, ctx.DeclaredEvents(""))
}

func TestCleave_UnknownActorLeavesWorldUntouched(t *testing.T) {
	p := newWorld(t)
	ctx := newCtx(t, p, 10)
	d := reducers.New(nil).Registry()

	cmd := mkCmd("c1", id.From(id.NSActor, "ghost"), command.TypeCleave, nil)
	d.Reduce(ctx, cmd)

	errs := ctx.DeclaredErrors()
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0].Err, event.ErrUnknownActor)
	assert.Empty(t, p.Sessions)
	assert.Empty(t, ctx.DeclaredEvents(""))
}

func TestStrike_TargetElsewhereCreatesNoSession(t *testing.T) {
	p := newWorld(t)
	moveActors(p, pitID, bobID)
	ctx := newCtx(t, p, 10)
	d := reducers.New(nil).Registry()

	d.Reduce(ctx, mkCmd("c1", aliceID, command.TypeStrike, command.StrikeArgs{TargetID: bobID}))

	errs := ctx.DeclaredErrors()
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0].Err, event.ErrInvalidTarget)
	assert.Empty(t, p.Sessions)
}

func TestStrike_InsufficientAPChargesNothing(t *testing.T) {
	p := newWorld(t)
	ctx := newCtx(t, p, 10, 5, 15, 2, 15, 2)
	d := reducers.New(nil).Registry()

	d.Reduce(ctx, mkCmd("c1", aliceID, command.TypeStrike, command.StrikeArgs{TargetID: bobID}))
	require.Empty(t, ctx.DeclaredErrors())

	s, _ := p.ActiveSessionAt(arenaID)
	alice, _ := s.Combatant(aliceID)
	alice.SpendAP(alice.AP.Current - 1) // 1 AP left, strike needs 1.8
	energyBefore := alice.Energy.Current

	d.Reduce(ctx, mkCmd("c2", aliceID, command.TypeStrike, command.StrikeArgs{TargetID: bobID}))

	errs := ctx.DeclaredErrors()
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0].Err, event.ErrInsufficientAP)
	assert.InDelta(t, 1.0, alice.AP.Current, 1e-9)
	assert.Equal(t, energyBefore, alice.Energy.Current)
	assert.Empty(t, ctx.DeclaredEventsByCommand(id.From(id.NSCommand, "c2")))
}

func TestStrike_EliminationEndsSession(t *testing.T) {
	p := newWorld(t)
	p.Actors[bobID].HP = 5
	ctx := newCtx(t, p, 10, 5, 15, 2)
	d := reducers.New(nil).Registry()

	cmd := mkCmd("c1", aliceID, command.TypeStrike, command.StrikeArgs{TargetID: bobID})
	d.Reduce(ctx, cmd)

	require.Empty(t, ctx.DeclaredErrors())
	assert.Equal(t, 0.0, p.Actors[bobID].HP)

	require.Len(t, p.Sessions, 1)
	var s *combat.Session
	for _, candidate := range p.Sessions {
		s = candidate
	}
	assert.Equal(t, combat.StatusTerminated, s.Status)
	_, stillIn := s.Combatant(bobID)
	assert.False(t, stillIn)

	assert.Len(t, ctx.DeclaredEvents("session.left"), 1)
	assert.Len(t, ctx.DeclaredEvents("session.ended"), 1)
}

func TestStrike_StandingTargetFallback(t *testing.T) {
	p := newWorld(t)
	// strike: init 11, init 6, attack 16, evasion 3; second strike:
	// attack 16, evasion 3.
	ctx := newCtx(t, p, 10, 5, 15, 2, 15, 2)
	d := reducers.New(nil).Registry()

	d.Reduce(ctx, mkCmd("c1", aliceID, command.TypeStrike, command.StrikeArgs{TargetID: bobID}))
	d.Reduce(ctx, mkCmd("c2", aliceID, command.TypeTarget, command.TargetArgs{TargetID: bobID}))
	d.Reduce(ctx, mkCmd("c3", aliceID, command.TypeStrike, command.StrikeArgs{}))

	require.Empty(t, ctx.DeclaredErrors())
	// Two landed hits at 7.5 each.
	assert.InDelta(t, 15.0, p.Actors[bobID].HP, 1e-9)
	assert.Len(t, ctx.DeclaredEvents("combat.hit"), 2)
}

func TestStrike_NoTargetNoSession(t *testing.T) {
	p := newWorld(t)
	ctx := newCtx(t, p, 10)
	d := reducers.New(nil).Registry()

	d.Reduce(ctx, mkCmd("c1", aliceID, command.TypeStrike, command.StrikeArgs{}))

	errs := ctx.DeclaredErrors()
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0].Err, event.ErrInvalidTarget)
	assert.Empty(t, p.Sessions)
}

func TestCleave_EmptyArcStillCreatesSession(t *testing.T) {
	p := newWorld(t)
	ctx := newCtx(t, p, 10)
	d := reducers.New(nil).Registry()

	cmd := mkCmd("c1", aliceID, command.TypeCleave, command.CleaveArgs{})
	d.Reduce(ctx, cmd)

	require.Empty(t, ctx.DeclaredErrors())
	s, ok := p.ActiveSessionAt(arenaID)
	require.True(t, ok)
	assert.Equal(t, combat.StatusRunning, s.Status)

	alice, ok := s.Combatant(aliceID)
	require.True(t, ok)
	assert.Equal(t, combat.TeamBravo, alice.Team)
	// Cleave with a 2kg sword costs 12 + 8 + 6 = 26 energy even into air.
	assert.InDelta(t, 74, alice.Energy.Current, 1e-9)

	types := eventTypes(ctx.DeclaredEventsByCommand(cmd.ID))
	assert.Equal(t, []event.Type{
		event.TypeSessionCreated, event.TypeJoined, event.TypeMiss,
	}, types)
}

func TestCleave_HitsEnemyInReach(t *testing.T) {
	p := newWorld(t)
	moveActors(p, pitID, aliceID, bobID)
	// bob strikes alice (init 11, init 6, attack 1 → miss vs evasion 59),
	// then alice cleaves (attack 16 → hit, evasion 3).
	ctx := newCtx(t, p, 10, 5, 0, 10, 15, 2)
	d := reducers.New(nil).Registry()

	d.Reduce(ctx, mkCmd("c1", bobID, command.TypeStrike, command.StrikeArgs{TargetID: aliceID}))
	cleave := mkCmd("c2", aliceID, command.TypeCleave, command.CleaveArgs{})
	d.Reduce(ctx, cleave)

	require.Empty(t, ctx.DeclaredErrors())
	// Pit is 4m with 1m margins: bob (BRAVO) at 3, alice (ALPHA) at 1,
	// distance 2 is exactly sword reach.
	assert.InDelta(t, 22.5, p.Actors[bobID].HP, 1e-9)

	types := eventTypes(ctx.DeclaredEventsByCommand(cleave.ID))
	assert.Equal(t, []event.Type{
		event.TypeRoll, event.TypeHit, event.TypeDamage,
	}, types)
}

func TestCleave_OutOfReachMisses(t *testing.T) {
	p := newWorld(t)
	// Arena defaults: entries at 5 and 45, far beyond sword reach.
	ctx := newCtx(t, p, 10, 5, 0, 10, 15)
	d := reducers.New(nil).Registry()

	d.Reduce(ctx, mkCmd("c1", bobID, command.TypeStrike, command.StrikeArgs{TargetID: aliceID}))
	cleave := mkCmd("c2", aliceID, command.TypeCleave, command.CleaveArgs{})
	d.Reduce(ctx, cleave)

	require.Empty(t, ctx.DeclaredErrors())
	assert.Equal(t, 30.0, p.Actors[bobID].HP)
	types := eventTypes(ctx.DeclaredEventsByCommand(cleave.ID))
	assert.Equal(t, []event.Type{event.TypeMiss}, types)
}

func TestReduce_DeterministicReplay(t *testing.T) {
	run := func() []event.WorldEvent {
		p := newWorld(t)
		ctx := newCtx(t, p, 10, 5, 15, 2, 0, 10, 3, 7)
		d := reducers.New(nil).Registry()
		d.ReduceAll(ctx, []command.Command{
			mkCmd("c1", aliceID, command.TypeStrike, command.StrikeArgs{TargetID: bobID}),
			mkCmd("c2", bobID, command.TypeStrike, command.StrikeArgs{TargetID: aliceID}),
			mkCmd("c3", aliceID, command.TypeCleave, command.CleaveArgs{}),
		})
		events, _ := ctx.Drain()
		return events
	}
	assert.Equal(t, run(), run())
}

func eventTypes(events []event.WorldEvent) []event.Type {
	types := make([]event.Type, 0, len(events))
	for _, ev := range events {
		types = append(types, ev.Type)
	}
	return types
}
