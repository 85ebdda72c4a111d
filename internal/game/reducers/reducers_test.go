package reducers_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ironmarch/engine/internal/game/command"
	"github.com/ironmarch/engine/internal/game/dice"
	"github.com/ironmarch/engine/internal/game/id"
	"github.com/ironmarch/engine/internal/game/pipeline"
	"github.com/ironmarch/engine/internal/game/world"
)

var (
	arenaID = id.From(id.NSPlace, "arena")
	pitID   = id.From(id.NSPlace, "pit")
	aliceID = id.From(id.NSActor, "alice")
	bobID   = id.From(id.NSActor, "bob")
	carolID = id.From(id.NSActor, "carol")

	testStart = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	sword = world.Weapon{Name: "arming sword", Skill: "swords", MassKg: 2, DamageBase: 5, ReachM: 2}
)

// Fixture numbers the scenarios below rely on:
//
//	alice: AP ceiling 3.65, energy 100, sword strike costs 1.8 AP / 12
//	energy, cleave adds 14 energy, landed sword hits deal 7.5.
//	bob:   AP ceiling 3.8, energy 90, bare-hand strike costs 0.8 AP / 4
//	energy.
func newWorld(t *testing.T) *world.Projection {
	t.Helper()
	p := world.NewProjection()
	require.NoError(t, p.AddPlace(&world.Place{ID: arenaID, Name: "Arena", Description: "A sand-floored ring."}))
	require.NoError(t, p.AddPlace(&world.Place{
		ID: pitID, Name: "Pit",
		BattlefieldLength: 4, BattlefieldMargin: 1,
	}))
	require.NoError(t, p.AddActor(&world.Actor{
		ID: aliceID, Name: "Alice", Location: arenaID,
		HP: 30, MaxHP: 30, Power: 50, Finesse: 50, MassKg: 70,
		Skills: map[string]float64{"swords": 60},
		Weapon: sword,
	}))
	require.NoError(t, p.AddActor(&world.Actor{
		ID: bobID, Name: "Bob", Location: arenaID,
		HP: 30, MaxHP: 30, Power: 40, Finesse: 60, MassKg: 80,
		Skills: map[string]float64{},
		Weapon: world.BareHands,
	}))
	require.NoError(t, p.AddActor(&world.Actor{
		ID: carolID, Name: "Carol", Location: arenaID,
		HP: 30, MaxHP: 30, Power: 40, Finesse: 40, MassKg: 60,
		Skills: map[string]float64{},
		Weapon: world.BareHands,
	}))
	return p
}

func newCtx(t *testing.T, p *world.Projection, rolls ...int) *pipeline.Context {
	t.Helper()
	ops := pipeline.NewReplayOps(dice.NewSequenceSource(rolls...), testStart)
	return pipeline.NewContext(p, ops, nil)
}

func mkCmd(name string, actorID id.ID, cmdType command.Type, payload any) command.Command {
	return command.Command{
		ID:      id.From(id.NSCommand, name),
		ActorID: actorID,
		Type:    cmdType,
		Payload: payload,
	}
}

// moveActors relocates actors for scenarios that need the small pit
// battlefield.
func moveActors(p *world.Projection, placeID id.ID, actorIDs ...id.ID) {
	for _, actorID := range actorIDs {
		p.Actors[actorID].Location = placeID
	}
}
