// Package reducers implements the command reducers: one function per
// command type, each validating against the World Projection, mutating
// it in place, and declaring the events and errors the command caused.
//
// Reducers never touch a clock or random source directly; everything
// nondeterministic goes through the context's injected Ops, so reducing
// the same command sequence over the same world and ops always yields
// the same events.
package reducers

import (
	"fmt"

	"github.com/ironmarch/engine/internal/game/combat"
	"github.com/ironmarch/engine/internal/game/command"
	"github.com/ironmarch/engine/internal/game/dice"
	"github.com/ironmarch/engine/internal/game/event"
	"github.com/ironmarch/engine/internal/game/id"
	"github.com/ironmarch/engine/internal/game/pipeline"
)

// Battlefield and recovery defaults for places that do not hint their
// own geometry.
const (
	DefaultBattlefieldLength = 50.0
	DefaultBattlefieldMargin = 5.0
	DefaultEnergyRecovery    = 10.0
)

// Set binds the reducers to their shared tunables: the end policy
// consulted after every combat command, battlefield defaults for lazily
// created sessions, and the per-round energy recovery rate.
type Set struct {
	policy         combat.EndPolicy
	defaultLength  float64
	defaultMargin  float64
	energyRecovery float64
}

// Option customizes a Set.
type Option func(*Set)

// WithBattlefieldDefaults overrides the geometry used when a place
// carries no battlefield hints.
func WithBattlefieldDefaults(length, margin float64) Option {
	return func(s *Set) {
		s.defaultLength = length
		s.defaultMargin = margin
	}
}

// WithEnergyRecovery overrides the per-round energy recovery base rate.
func WithEnergyRecovery(rate float64) Option {
	return func(s *Set) {
		s.energyRecovery = rate
	}
}

// New creates a Set over the given end policy. A nil policy defaults to
// last-team-standing.
func New(policy combat.EndPolicy, opts ...Option) *Set {
	if policy == nil {
		policy = combat.LastTeamStanding{}
	}
	s := &Set{
		policy:         policy,
		defaultLength:  DefaultBattlefieldLength,
		defaultMargin:  DefaultBattlefieldMargin,
		energyRecovery: DefaultEnergyRecovery,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry builds the dispatcher over every reducer, each wrapped in
// the middleware its preconditions need. STRIKE and CLEAVE skip the
// session middleware because they lazily create sessions; the rest of
// the combat verbs require one to already exist.
func (r *Set) Registry() *pipeline.Dispatcher {
	return pipeline.MustDispatcher(
		pipeline.NewHandler(command.TypeStrike, pipeline.WithActor(pipeline.WithLocation(r.Strike))),
		pipeline.NewHandler(command.TypeCleave, pipeline.WithActor(pipeline.WithLocation(r.Cleave))),
		pipeline.NewHandler(command.TypeAdvance, pipeline.WithActor(pipeline.WithLocation(pipeline.WithCombatSession(r.Advance)))),
		pipeline.NewHandler(command.TypeRetreat, pipeline.WithActor(pipeline.WithLocation(pipeline.WithCombatSession(r.Retreat)))),
		pipeline.NewHandler(command.TypeDefend, pipeline.WithActor(pipeline.WithLocation(pipeline.WithCombatSession(r.Defend)))),
		pipeline.NewHandler(command.TypeTarget, pipeline.WithActor(pipeline.WithLocation(pipeline.WithCombatSession(r.Target)))),
		pipeline.NewHandler(command.TypeYield, pipeline.WithActor(pipeline.WithLocation(pipeline.WithCombatSession(r.Yield)))),
		pipeline.NewHandler(command.TypePass, pipeline.WithActor(pipeline.WithLocation(pipeline.WithCombatSession(r.Pass)))),
		pipeline.NewHandler(command.TypeSay, pipeline.WithActor(pipeline.WithLocation(r.Say))),
		pipeline.NewHandler(command.TypeLook, pipeline.WithActor(pipeline.WithLocation(r.Look))),
		pipeline.NewHandler(command.TypeCreatePlace, r.CreatePlace),
		pipeline.NewHandler(command.TypeCreateActor, r.CreateActor),
		pipeline.NewHandler(command.TypePauseSession, r.PauseSession),
		pipeline.NewHandler(command.TypeResumeSession, r.ResumeSession),
	)
}

// opsSource adapts the pass Ops to the dice.Source the combat engine
// rolls through, so engine rolls replay with everything else.
type opsSource struct {
	ops pipeline.Ops
}

func (s opsSource) Intn(n int) int {
	return s.ops.Roll(n) - 1
}

func diceSource(ctx *pipeline.Context) dice.Source {
	return opsSource{ops: ctx.Ops}
}

// ensureCombatSession returns the active combat session at the
// command's location, creating a PENDING one when none exists. A false
// return means an error was declared.
func (r *Set) ensureCombatSession(ctx *pipeline.Context, cmd command.Command) (*combat.Session, bool) {
	if s, ok := ctx.World.ActiveSessionAt(cmd.LocationID); ok {
		if s.Kind != combat.KindCombat {
			ctx.DeclareError(cmd.ID, fmt.Errorf("%w: place %s is occupied by a %s session",
				event.ErrWrongSessionState, cmd.LocationID, s.Kind))
			return nil, false
		}
		if s.Status == combat.StatusPaused {
			ctx.DeclareError(cmd.ID, fmt.Errorf("%w: session %s is paused", event.ErrWrongSessionState, s.ID))
			return nil, false
		}
		return s, true
	}

	length, margin := r.defaultLength, r.defaultMargin
	if place, ok := ctx.World.Place(cmd.LocationID); ok {
		if place.BattlefieldLength > 0 {
			length = place.BattlefieldLength
		}
		if place.BattlefieldMargin > 0 {
			margin = place.BattlefieldMargin
		}
	}
	s, err := combat.NewCombatSession(
		id.From(id.NSSession, ctx.Ops.UniqueID()), cmd.LocationID,
		combat.Battlefield{Length: length, Margin: margin})
	if err != nil {
		ctx.DeclareError(cmd.ID, err)
		return nil, false
	}
	if err := ctx.World.AddSession(s); err != nil {
		ctx.DeclareError(cmd.ID, err)
		return nil, false
	}
	ctx.DeclareEvent(event.WorldEvent{
		Trace: cmd.ID, Type: event.TypeSessionCreated,
		Actor: cmd.ActorID, Location: cmd.LocationID,
		Payload: map[string]any{
			"session":            s.ID.String(),
			"battlefield_length": length,
			"battlefield_margin": margin,
		},
	})
	return s, true
}

// pinnedSession resolves the session the middleware pinned onto the
// command and guards it against the paused state. A false return means
// an error was declared.
func pinnedSession(ctx *pipeline.Context, cmd command.Command) (*combat.Session, bool) {
	s, ok := ctx.World.Session(cmd.SessionID)
	if !ok {
		ctx.DeclareError(cmd.ID, fmt.Errorf("%w: session %s", event.ErrNoSession, cmd.SessionID))
		return nil, false
	}
	if s.Status == combat.StatusPaused {
		ctx.DeclareError(cmd.ID, fmt.Errorf("%w: session %s is paused", event.ErrWrongSessionState, s.ID))
		return nil, false
	}
	return s, true
}

// combatantOf resolves the acting combatant in the session, declaring
// ErrNotInCombat when the actor never joined.
func combatantOf(ctx *pipeline.Context, cmd command.Command, s *combat.Session) (*combat.Combatant, bool) {
	c, ok := s.Combatant(cmd.ActorID)
	if !ok {
		ctx.DeclareError(cmd.ID, fmt.Errorf("%w: actor %s in session %s", event.ErrNotInCombat, cmd.ActorID, s.ID))
		return nil, false
	}
	return c, true
}

// joinCombatant adds the actor to the session if not already in it,
// declaring the join event. Joining the first combatant flips the
// session RUNNING. A false return means an error was declared.
func (r *Set) joinCombatant(ctx *pipeline.Context, cmd command.Command, s *combat.Session, actorID id.ID, team combat.Team) (*combat.Combatant, bool) {
	if c, ok := s.Combatant(actorID); ok {
		return c, true
	}
	actor, ok := ctx.World.Actor(actorID)
	if !ok {
		ctx.DeclareError(cmd.ID, fmt.Errorf("%w: %s", event.ErrUnknownActor, actorID))
		return nil, false
	}
	c, err := s.AddCombatant(actorID, team, actor.Stats(), diceSource(ctx))
	if err != nil {
		ctx.DeclareError(cmd.ID, err)
		return nil, false
	}
	ctx.DeclareEvent(event.WorldEvent{
		Trace: cmd.ID, Type: event.TypeJoined,
		Actor: actorID, Location: s.PlaceID,
		Payload: map[string]any{
			"session":    s.ID.String(),
			"team":       string(team),
			"initiative": c.InitiativeRoll,
			"coordinate": c.Position.Coordinate,
		},
	})
	return c, true
}

// maybeEnd consults the end policy and terminates the session on a true
// verdict. Called after every combat command.
func (r *Set) maybeEnd(ctx *pipeline.Context, cmd command.Command, s *combat.Session) {
	if !s.Active() || !r.policy.ShouldEnd(s) {
		return
	}
	if err := s.Terminate(); err != nil {
		ctx.DeclareError(cmd.ID, err)
		return
	}
	ctx.DeclareEvent(event.WorldEvent{
		Trace: cmd.ID, Type: event.TypeSessionEnded,
		Actor: cmd.ActorID, Location: s.PlaceID,
		Payload: map[string]any{
			"session": s.ID.String(),
			"rounds":  len(s.Combat.CompletedRounds) + 1,
		},
	})
}
