package combat

import (
	"fmt"
	"sort"

	"github.com/ironmarch/engine/internal/game/dice"
	"github.com/ironmarch/engine/internal/game/event"
	"github.com/ironmarch/engine/internal/game/id"
	"github.com/ironmarch/engine/internal/game/physics"
)

// InitiativeSides is the die rolled once per combatant on joining.
const InitiativeSides = 20

// CombatState is the combat variant payload of a Session.
type CombatState struct {
	// Combatants maps actor ID to live combatant state. Removal from
	// this map is the only destructor a combatant has.
	Combatants map[id.ID]*Combatant
	// Initiative maps actor ID to the single roll taken on join.
	Initiative map[id.ID]int
	// Battlefield is the encounter geometry.
	Battlefield Battlefield
	// Round is the in-progress round.
	Round Round
	// CompletedRounds archives finished rounds in order.
	CompletedRounds []Round

	joinSeq           int
	engaged           map[Team]bool
	initiativeSorted  []id.ID
	lastCombatantHash string
}

// EngagedTeams counts the distinct teams that ever joined the session,
// including teams since eliminated. A fight that never had two sides
// has not begun, so end policies gate on this rather than on the live
// team count alone.
func (cs *CombatState) EngagedTeams() int {
	return len(cs.engaged)
}

// StatBlock is the scalar snapshot of an actor the engine needs to price
// and resolve an action. The reducer layer builds it from the World
// Projection; the engine never dereferences actor IDs itself.
type StatBlock struct {
	Power     float64
	Finesse   float64
	MassKg    float64
	SkillRank float64
}

// WeaponProfile carries the content-derived numbers of the wielded
// weapon.
type WeaponProfile struct {
	Skill      string
	MassKg     float64
	DamageBase float64
	ReachM     float64
}

// AttackOutcome describes one resolved to-hit exchange.
type AttackOutcome struct {
	TargetID    id.ID
	Roll        int
	Rating      float64
	EvasionRoll int
	Evasion     float64
	Hit         bool
	Damage      float64
}

// AddCombatant joins an actor to the session on the given team: entry at
// the team's battlefield edge, one initiative roll, pools filled. The
// first combatant added flips the session PENDING→RUNNING.
//
// Precondition: s.Kind == KindCombat; the session must be Active.
// Postcondition: the combatant is in the map with a non-zero initiative
// roll, or an error and no change.
func (s *Session) AddCombatant(actorID id.ID, team Team, stats StatBlock, src dice.Source) (*Combatant, error) {
	if s.Kind != KindCombat {
		return nil, fmt.Errorf("combat: cannot add combatant to %s session", s.Kind)
	}
	if !s.Active() {
		return nil, fmt.Errorf("%w: session is terminated", event.ErrWrongSessionState)
	}
	cs := s.Combat
	if _, exists := cs.Combatants[actorID]; exists {
		return nil, fmt.Errorf("%w: actor %s is already a combatant", event.ErrAlreadyExists, actorID)
	}

	if s.Status == StatusPending {
		if err := s.start(); err != nil {
			return nil, err
		}
	}

	roll := dice.Roll(src, InitiativeSides)
	cs.joinSeq++
	if cs.engaged == nil {
		cs.engaged = make(map[Team]bool)
	}
	cs.engaged[team] = true
	c := &Combatant{
		ActorID:   actorID,
		SessionID: s.ID,
		Team:      team,
		Position:  cs.Battlefield.EntryPosition(team),
		MassKg:    stats.MassKg,
		AP: APPool{
			NaturalCeiling: apCeiling(stats),
			Current:        apCeiling(stats),
		},
		Energy:         Energy{Current: energyCeiling(stats), RecoveryPhase: 1},
		Balance:        1,
		InitiativeRoll: roll,
		JoinSeq:        cs.joinSeq,
	}
	cs.Combatants[actorID] = c
	cs.Initiative[actorID] = roll
	return c, nil
}

// RemoveCombatant deletes the actor from the session map. No further
// cleanup is needed: target references and cover occupancy are weak and
// simply fail lookup afterwards.
//
// Postcondition: Returns true iff the actor was a combatant.
func (s *Session) RemoveCombatant(actorID id.ID) bool {
	if s.Kind != KindCombat {
		return false
	}
	if _, ok := s.Combat.Combatants[actorID]; !ok {
		return false
	}
	delete(s.Combat.Combatants, actorID)
	delete(s.Combat.Initiative, actorID)
	return true
}

// Combatant resolves an actor's live state in this session.
func (s *Session) Combatant(actorID id.ID) (*Combatant, bool) {
	if s.Kind != KindCombat {
		return nil, false
	}
	c, ok := s.Combat.Combatants[actorID]
	return c, ok
}

// apCeiling derives the natural AP ceiling from physique: quicker,
// lighter actors get more committed seconds per turn.
func apCeiling(stats StatBlock) float64 {
	base := 3 + stats.Finesse/50
	penalty := stats.MassKg / 200
	c := base - penalty
	if c < 1 {
		c = 1
	}
	return c
}

// energyCeiling derives the capacitor size from physique.
func energyCeiling(stats StatBlock) float64 {
	return 50 + stats.Power
}

// ChargeCost verifies and deducts an ActionCost from the combatant's
// pools. On insufficient AP or energy it returns a resource error and
// mutates nothing.
//
// Postcondition: on nil error, both pools decreased by exactly the cost;
// on error, the combatant is unchanged.
func (c *Combatant) ChargeCost(cost physics.ActionCost) error {
	if c.AP.Current < cost.AP {
		return fmt.Errorf("%w: need %.1f AP, have %.2f", event.ErrInsufficientAP, cost.AP, c.AP.Current)
	}
	if c.Energy.Current < cost.Energy {
		return fmt.Errorf("%w: need %.1f, have %.1f", event.ErrInsufficientEnergy, cost.Energy, c.Energy.Current)
	}
	c.SpendAP(cost.AP)
	c.SpendEnergy(cost.Energy)
	return nil
}

// ResolveAttack rolls one to-hit exchange between attacker and defender:
// a skill-scaled attack rating against a symmetric evasion rating. On a
// hit the weapon's damage model decides the damage; applying it to the
// target's HP is the caller's job, since HP lives on the world actor.
//
// Precondition: src must be non-nil; ratings follow physics.AttackRating
// bounds.
func ResolveAttack(targetID id.ID, atk, def StatBlock, w WeaponProfile, src dice.Source) AttackOutcome {
	roll := dice.Roll(src, 20)
	rating := physics.AttackRating(roll, atk.SkillRank)
	evasionRoll := dice.Roll(src, 20)
	evasion := physics.AttackRating(evasionRoll, def.SkillRank)

	out := AttackOutcome{
		TargetID:    targetID,
		Roll:        roll,
		Rating:      rating,
		EvasionRoll: evasionRoll,
		Evasion:     evasion,
		Hit:         rating >= evasion,
	}
	if out.Hit {
		out.Damage = physics.WeaponDamage(w.DamageBase, w.MassKg, atk.Power)
	}
	return out
}

// EnemiesInReach returns every hostile combatant whose coordinate is
// within reach meters of the actor, ordered by distance then actor ID so
// cleave resolution is deterministic.
//
// Postcondition: every returned combatant satisfies Hostile and the
// distance bound; the actor itself is never included.
func (cs *CombatState) EnemiesInReach(actor *Combatant, reach float64) []*Combatant {
	var enemies []*Combatant
	for _, other := range cs.Combatants {
		if !actor.Hostile(other) {
			continue
		}
		d := other.Position.Coordinate - actor.Position.Coordinate
		if d < 0 {
			d = -d
		}
		if d <= reach {
			enemies = append(enemies, other)
		}
	}
	sort.Slice(enemies, func(i, j int) bool {
		di := abs(enemies[i].Position.Coordinate - actor.Position.Coordinate)
		dj := abs(enemies[j].Position.Coordinate - actor.Position.Coordinate)
		if di != dj {
			return di < dj
		}
		return enemies[i].ActorID < enemies[j].ActorID
	})
	return enemies
}

// Move displaces the combatant along the battlefield axis. Positive
// distance moves toward the combatant's facing, negative away; the
// result is clamped to the battlefield.
//
// Postcondition: Returns (before, after) coordinates; after is in
// [0, Battlefield.Length).
func (cs *CombatState) Move(c *Combatant, distance float64) (before, after float64) {
	before = c.Position.Coordinate
	delta := distance
	if c.Position.Facing == FacingLeft {
		delta = -delta
	}
	c.Position.Coordinate = cs.Battlefield.Clamp(before + delta)
	return before, c.Position.Coordinate
}

// Teams returns the distinct teams with at least one live combatant,
// sorted for determinism.
func (cs *CombatState) Teams() []Team {
	seen := make(map[Team]bool)
	for _, c := range cs.Combatants {
		seen[c.Team] = true
	}
	teams := make([]Team, 0, len(seen))
	for t := range seen {
		teams = append(teams, t)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i] < teams[j] })
	return teams
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
