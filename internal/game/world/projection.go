// Package world provides the World Projection: the mutable, in-memory
// snapshot of all live entities, addressed by stable string identifiers.
// Exactly one Projection is live per transformation pass; it is
// exclusively owned by that pass and never touched concurrently, so no
// method here locks anything.
package world

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ironmarch/engine/internal/game/combat"
	"github.com/ironmarch/engine/internal/game/event"
	"github.com/ironmarch/engine/internal/game/id"
)

// Weapon carries the content-derived numbers the engine consumes. How
// weapons are authored is not this core's business; these fields are the
// whole contract.
type Weapon struct {
	Name       string
	Skill      string
	MassKg     float64
	DamageBase float64
	ReachM     float64
}

// BareHands is the weapon every actor falls back to.
var BareHands = Weapon{Name: "bare hands", Skill: "brawling", MassKg: 0, DamageBase: 2, ReachM: 1}

// Actor is a live entity capable of acting.
type Actor struct {
	ID   id.ID
	Name string
	// Location is a weak reference to a Place.
	Location id.ID
	HP       float64
	MaxHP    float64
	// Core stats, each in [0, 100].
	Power      float64
	Finesse    float64
	Resilience float64
	MassKg     float64
	// Skills maps skill ID to rank in [0, 100].
	Skills map[string]float64
	// Weapon is the wielded weapon, by value.
	Weapon Weapon
}

// SkillRank returns the actor's rank in the given skill, 0 if untrained.
func (a *Actor) SkillRank(skill string) float64 {
	return a.Skills[skill]
}

// Stats snapshots the scalar block the combat engine prices actions
// with, resolved against the actor's current weapon skill.
func (a *Actor) Stats() combat.StatBlock {
	return combat.StatBlock{
		Power:     a.Power,
		Finesse:   a.Finesse,
		MassKg:    a.MassKg,
		SkillRank: a.SkillRank(a.Weapon.Skill),
	}
}

// WeaponProfile snapshots the wielded weapon for the combat engine.
func (a *Actor) WeaponProfile() combat.WeaponProfile {
	return combat.WeaponProfile{
		Skill:      a.Weapon.Skill,
		MassKg:     a.Weapon.MassKg,
		DamageBase: a.Weapon.DamageBase,
		ReachM:     a.Weapon.ReachM,
	}
}

// Place is a location entities occupy.
type Place struct {
	ID          id.ID
	Name        string
	Description string
	// BattlefieldLength/Margin hint the combat geometry for encounters
	// here; zero means use the engine defaults.
	BattlefieldLength float64
	BattlefieldMargin float64
}

// Item is a passive entity.
type Item struct {
	ID   id.ID
	Name string
	// Location is a weak reference to a Place or holding Actor.
	Location id.ID
	MassKg   float64
}

// Projection is the single mutable aggregate every reducer reads and
// writes. All cross-references between entities are weak string IDs; a
// referenced entity may be removed without any reference cleanup.
type Projection struct {
	Actors   map[id.ID]*Actor
	Places   map[id.ID]*Place
	Items    map[id.ID]*Item
	Sessions map[id.ID]*combat.Session
}

// NewProjection creates an empty Projection.
func NewProjection() *Projection {
	return &Projection{
		Actors:   make(map[id.ID]*Actor),
		Places:   make(map[id.ID]*Place),
		Items:    make(map[id.ID]*Item),
		Sessions: make(map[id.ID]*combat.Session),
	}
}

// Actor resolves a weak actor reference.
func (p *Projection) Actor(actorID id.ID) (*Actor, bool) {
	a, ok := p.Actors[actorID]
	return a, ok
}

// Place resolves a weak place reference.
func (p *Projection) Place(placeID id.ID) (*Place, bool) {
	pl, ok := p.Places[placeID]
	return pl, ok
}

// Item resolves a weak item reference.
func (p *Projection) Item(itemID id.ID) (*Item, bool) {
	it, ok := p.Items[itemID]
	return it, ok
}

// Session resolves a weak session reference.
func (p *Projection) Session(sessionID id.ID) (*combat.Session, bool) {
	s, ok := p.Sessions[sessionID]
	return s, ok
}

// AddActor inserts an actor.
//
// Postcondition: Returns event.ErrAlreadyExists (wrapped) if the ID is
// taken; the projection is unchanged on error.
func (p *Projection) AddActor(a *Actor) error {
	if _, exists := p.Actors[a.ID]; exists {
		return fmt.Errorf("%w: actor %s", event.ErrAlreadyExists, a.ID)
	}
	p.Actors[a.ID] = a
	return nil
}

// AddPlace inserts a place.
//
// Postcondition: Returns event.ErrAlreadyExists (wrapped) if the ID is
// taken; the projection is unchanged on error.
func (p *Projection) AddPlace(pl *Place) error {
	if _, exists := p.Places[pl.ID]; exists {
		return fmt.Errorf("%w: place %s", event.ErrAlreadyExists, pl.ID)
	}
	p.Places[pl.ID] = pl
	return nil
}

// AddItem inserts an item.
func (p *Projection) AddItem(it *Item) error {
	if _, exists := p.Items[it.ID]; exists {
		return fmt.Errorf("%w: item %s", event.ErrAlreadyExists, it.ID)
	}
	p.Items[it.ID] = it
	return nil
}

// AddSession inserts a session. The Sessions collection is the sole
// owner of the aggregate.
func (p *Projection) AddSession(s *combat.Session) error {
	if _, exists := p.Sessions[s.ID]; exists {
		return fmt.Errorf("%w: session %s", event.ErrAlreadyExists, s.ID)
	}
	p.Sessions[s.ID] = s
	return nil
}

// RemoveActor deletes an actor; weak references to it elsewhere simply
// fail lookup from now on.
func (p *Projection) RemoveActor(actorID id.ID) {
	delete(p.Actors, actorID)
}

// RemoveSession deletes a session.
func (p *Projection) RemoveSession(sessionID id.ID) {
	delete(p.Sessions, sessionID)
}

// ActiveSessionAt returns the non-terminated session bound to placeID,
// if one exists. At most one session is active per place; ties (which
// would indicate a bug upstream) resolve to the lowest session ID for
// determinism.
func (p *Projection) ActiveSessionAt(placeID id.ID) (*combat.Session, bool) {
	var found *combat.Session
	for _, s := range p.Sessions {
		if s.PlaceID != placeID || !s.Active() {
			continue
		}
		if found == nil || s.ID < found.ID {
			found = s
		}
	}
	return found, found != nil
}

// ActorsAt returns all actors at the given place, sorted by ID.
func (p *Projection) ActorsAt(placeID id.ID) []*Actor {
	var out []*Actor
	for _, a := range p.Actors {
		if a.Location == placeID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// FindActorByName resolves a name token against actors at a place. A
// missing or ambiguous name is an ErrInvalidTarget-wrapped error; name
// matching is case-insensitive on the full name or its first word.
func (p *Projection) FindActorByName(placeID id.ID, name string) (*Actor, error) {
	needle := strings.ToLower(name)
	var matches []*Actor
	for _, a := range p.ActorsAt(placeID) {
		full := strings.ToLower(a.Name)
		first, _, _ := strings.Cut(full, " ")
		if full == needle || first == needle {
			matches = append(matches, a)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: no actor named %q here", event.ErrInvalidTarget, name)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %q is ambiguous (%d matches)", event.ErrInvalidTarget, name, len(matches))
	}
}

// FindItemByName resolves a name token against items at a place, with
// the same missing/ambiguous semantics as FindActorByName.
func (p *Projection) FindItemByName(placeID id.ID, name string) (*Item, error) {
	needle := strings.ToLower(name)
	var matches []*Item
	for _, it := range p.Items {
		if it.Location != placeID {
			continue
		}
		if strings.ToLower(it.Name) == needle {
			matches = append(matches, it)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: no item named %q here", event.ErrInvalidTarget, name)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %q is ambiguous (%d matches)", event.ErrInvalidTarget, name, len(matches))
	}
}
