package combat

import (
	"sort"
	"strings"

	"github.com/ironmarch/engine/internal/game/id"
	"github.com/ironmarch/engine/internal/game/physics"
)

// TurnCommand records one resolved command inside a turn, with the roll
// and cost that went into it.
type TurnCommand struct {
	CommandID id.ID
	Kind      string
	Roll      int
	Cost      physics.ActionCost
}

// Turn is one actor's slice of a round. It accumulates the commands the
// actor executed while the turn was current.
type Turn struct {
	ActorID  id.ID
	Commands []TurnCommand
}

// Turns tracks the current turn and the turns already completed this
// round.
type Turns struct {
	Current   *Turn
	Completed []*Turn
}

// Round is one full pass through the initiative order.
type Round struct {
	Number int
	Turns  Turns
}

// TurnOrder returns actor IDs in action order: initiative roll
// descending, ties broken by join order (earlier joiner acts first). The
// sort is memoized against the combatant set and only recomputed when
// the set changes, since re-sorting every command is wasteful for long
// sessions.
//
// Postcondition: returns every live combatant exactly once.
func (cs *CombatState) TurnOrder() []id.ID {
	hash := cs.combatantHash()
	if hash == cs.lastCombatantHash && cs.initiativeSorted != nil {
		return cs.initiativeSorted
	}

	order := make([]id.ID, 0, len(cs.Combatants))
	for actorID := range cs.Combatants {
		order = append(order, actorID)
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := cs.Combatants[order[i]], cs.Combatants[order[j]]
		if cs.Initiative[a.ActorID] != cs.Initiative[b.ActorID] {
			return cs.Initiative[a.ActorID] > cs.Initiative[b.ActorID]
		}
		return a.JoinSeq < b.JoinSeq
	})

	cs.initiativeSorted = order
	cs.lastCombatantHash = hash
	return order
}

// combatantHash fingerprints the combatant set for memoization.
func (cs *CombatState) combatantHash() string {
	ids := make([]string, 0, len(cs.Combatants))
	for actorID := range cs.Combatants {
		ids = append(ids, actorID.String())
	}
	sort.Strings(ids)
	return strings.Join(ids, "|")
}

// RecordCommand appends a resolved command to the acting combatant's
// turn, opening the turn if the actor was not already current. A command
// by a different actor closes the current turn first.
//
// Precondition: actorID must be a combatant in this session.
func (cs *CombatState) RecordCommand(actorID id.ID, tc TurnCommand) {
	if cs.Round.Turns.Current != nil && cs.Round.Turns.Current.ActorID != actorID {
		cs.Round.Turns.Completed = append(cs.Round.Turns.Completed, cs.Round.Turns.Current)
		cs.Round.Turns.Current = nil
	}
	if cs.Round.Turns.Current == nil {
		cs.Round.Turns.Current = &Turn{ActorID: actorID}
	}
	cs.Round.Turns.Current.Commands = append(cs.Round.Turns.Current.Commands, tc)
}

// EndTurn completes the current turn. If every live combatant has
// completed a turn this round, the round also ends: it is archived, a
// fresh round begins, and every combatant's pools refresh.
//
// Postcondition: Returns true iff the round rolled over.
func (cs *CombatState) EndTurn(energyRecovery float64) bool {
	if cs.Round.Turns.Current != nil {
		cs.Round.Turns.Completed = append(cs.Round.Turns.Completed, cs.Round.Turns.Current)
		cs.Round.Turns.Current = nil
	}
	if len(cs.Round.Turns.Completed) < len(cs.Combatants) {
		return false
	}

	cs.CompletedRounds = append(cs.CompletedRounds, cs.Round)
	cs.Round = Round{Number: cs.Round.Number + 1}
	for _, c := range cs.Combatants {
		c.RefreshForRound(energyRecovery)
	}
	return true
}
