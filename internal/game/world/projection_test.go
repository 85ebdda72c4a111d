package world_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironmarch/engine/internal/game/combat"
	"github.com/ironmarch/engine/internal/game/dice"
	"github.com/ironmarch/engine/internal/game/event"
	"github.com/ironmarch/engine/internal/game/id"
	"github.com/ironmarch/engine/internal/game/world"
)

func arena() id.ID { return id.From(id.NSPlace, "arena") }

func fixtureProjection(t *testing.T) *world.Projection {
	t.Helper()
	p := world.NewProjection()
	require.NoError(t, p.AddPlace(&world.Place{ID: arena(), Name: "Arena"}))
	require.NoError(t, p.AddActor(&world.Actor{
		ID: id.From(id.NSActor, "alice"), Name: "Alice", Location: arena(),
		HP: 30, MaxHP: 30, Power: 60, Finesse: 70, MassKg: 65,
		Skills: map[string]float64{"blades": 80},
		Weapon: world.Weapon{Name: "saber", Skill: "blades", MassKg: 1.2, DamageBase: 8, ReachM: 1.5},
	}))
	require.NoError(t, p.AddActor(&world.Actor{
		ID: id.From(id.NSActor, "bob"), Name: "Bob Ironjaw", Location: arena(),
		HP: 40, MaxHP: 40, Power: 80, Finesse: 40, MassKg: 95,
		Weapon: world.BareHands,
	}))
	return p
}

func TestAdd_DuplicateIsDomainError(t *testing.T) {
	p := fixtureProjection(t)
	err := p.AddPlace(&world.Place{ID: arena(), Name: "Arena Again"})
	require.ErrorIs(t, err, event.ErrAlreadyExists)
	err = p.AddActor(&world.Actor{ID: id.From(id.NSActor, "alice"), Name: "Alice"})
	require.ErrorIs(t, err, event.ErrAlreadyExists)
}

func TestRemoveActor_WeakReferencesNeedNoCleanup(t *testing.T) {
	p := fixtureProjection(t)
	bob := id.From(id.NSActor, "bob")
	alice, ok := p.Actor(id.From(id.NSActor, "alice"))
	require.True(t, ok)

	// Alice's location keeps referring to the arena by ID only; removing
	// Bob needs no graph walk and Alice is untouched.
	p.RemoveActor(bob)
	_, ok = p.Actor(bob)
	assert.False(t, ok)
	assert.Equal(t, arena(), alice.Location)
}

func TestFindActorByName(t *testing.T) {
	p := fixtureProjection(t)

	a, err := p.FindActorByName(arena(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice", a.Name)

	// First word of a multi-word name matches.
	b, err := p.FindActorByName(arena(), "BOB")
	require.NoError(t, err)
	assert.Equal(t, "Bob Ironjaw", b.Name)

	_, err = p.FindActorByName(arena(), "carol")
	require.ErrorIs(t, err, event.ErrInvalidTarget)
}

func TestFindActorByName_Ambiguous(t *testing.T) {
	p := fixtureProjection(t)
	require.NoError(t, p.AddActor(&world.Actor{
		ID: id.From(id.NSActor, "alice2"), Name: "Alice", Location: arena(),
	}))
	_, err := p.FindActorByName(arena(), "alice")
	require.ErrorIs(t, err, event.ErrInvalidTarget)
	assert.Contains(t, err.Error(), "ambiguous")
}

func TestFindItemByName(t *testing.T) {
	p := fixtureProjection(t)
	require.NoError(t, p.AddItem(&world.Item{
		ID: id.From(id.NSItem, "rock"), Name: "Rock", Location: arena(), MassKg: 3,
	}))
	it, err := p.FindItemByName(arena(), "rock")
	require.NoError(t, err)
	assert.Equal(t, 3.0, it.MassKg)

	_, err = p.FindItemByName(arena(), "sword")
	require.ErrorIs(t, err, event.ErrInvalidTarget)
}

func TestActiveSessionAt(t *testing.T) {
	p := fixtureProjection(t)
	_, found := p.ActiveSessionAt(arena())
	assert.False(t, found)

	s, err := combat.NewCombatSession(id.From(id.NSSession, "s1"), arena(), combat.Battlefield{Length: 50, Margin: 5})
	require.NoError(t, err)
	require.NoError(t, p.AddSession(s))

	got, found := p.ActiveSessionAt(arena())
	require.True(t, found)
	assert.Equal(t, s.ID, got.ID)

	// Terminated sessions stop resolving.
	_, err = s.AddCombatant(id.From(id.NSActor, "alice"), combat.TeamBravo,
		combat.StatBlock{Power: 50, Finesse: 50, MassKg: 80}, dice.NewSequenceSource(10))
	require.NoError(t, err)
	require.NoError(t, s.Terminate())
	_, found = p.ActiveSessionAt(arena())
	assert.False(t, found)
}

func TestRemoveSession_CombatantRefsAreWeak(t *testing.T) {
	p := fixtureProjection(t)
	s, err := combat.NewCombatSession(id.From(id.NSSession, "s1"), arena(), combat.Battlefield{Length: 50, Margin: 5})
	require.NoError(t, err)
	require.NoError(t, p.AddSession(s))
	_, err = s.AddCombatant(id.From(id.NSActor, "alice"), combat.TeamBravo,
		combat.StatBlock{Power: 50, Finesse: 50, MassKg: 80}, dice.NewSequenceSource(10))
	require.NoError(t, err)

	// Dropping the session needs no per-combatant cleanup: the actor
	// stays in the world and only the session lookup starts failing.
	p.RemoveSession(s.ID)
	_, found := p.Session(s.ID)
	assert.False(t, found)
	_, ok := p.Actor(id.From(id.NSActor, "alice"))
	assert.True(t, ok)
}

func TestActorStatsSnapshot(t *testing.T) {
	p := fixtureProjection(t)
	alice, _ := p.Actor(id.From(id.NSActor, "alice"))
	stats := alice.Stats()
	assert.Equal(t, 80.0, stats.SkillRank, "skill rank follows the wielded weapon's skill")
	w := alice.WeaponProfile()
	assert.Equal(t, "blades", w.Skill)
	assert.Equal(t, 1.5, w.ReachM)
}
