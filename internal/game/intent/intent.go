// Package intent turns normalized free-text player input into typed
// Commands. Resolution is matching, not execution: resolvers read the
// World Projection to resolve named targets but never mutate it.
package intent

import (
	"strings"

	"github.com/ironmarch/engine/internal/game/id"
)

// Intent is ephemeral, normalized player input. It is produced once,
// consumed once by resolution, and never persisted.
type Intent struct {
	// ID is the intent's identity, echoed as the Command's trace.
	ID id.ID
	// ActorID is the acting entity.
	ActorID id.ID
	// Raw is the input exactly as received.
	Raw string
	// Normalized is the trimmed, lowercased input.
	Normalized string
	// Verb is the first token of the normalized input.
	Verb string
	// Tokens are the normalized tokens after the verb, in order.
	Tokens []string
	// TokenSet is the unique token set for membership tests.
	TokenSet map[string]struct{}
	// Rest is the raw text after the verb with inner spacing preserved,
	// for speech-like verbs.
	Rest string
	// SessionID optionally pins the intent to a session (group chat,
	// spectating), if the transport knows it.
	SessionID id.ID
}

// New normalizes a raw input line into an Intent.
//
// Precondition: actorID must be non-zero.
// Postcondition: Verb is lowercase; Tokens excludes the verb; an empty
// line yields an Intent with an empty Verb.
func New(intentID, actorID id.ID, raw string) Intent {
	in := Intent{
		ID:       intentID,
		ActorID:  actorID,
		Raw:      raw,
		TokenSet: make(map[string]struct{}),
	}
	trimmed := strings.TrimSpace(raw)
	in.Normalized = strings.ToLower(trimmed)
	if in.Normalized == "" {
		return in
	}

	verb, rest, found := strings.Cut(trimmed, " ")
	in.Verb = strings.ToLower(verb)
	if found {
		in.Rest = strings.TrimSpace(rest)
	}

	fields := strings.Fields(in.Normalized)
	in.Tokens = fields[1:]
	for _, tok := range fields {
		in.TokenSet[tok] = struct{}{}
	}
	return in
}

// HasToken reports whether the normalized input contained tok.
func (in Intent) HasToken(tok string) bool {
	_, ok := in.TokenSet[tok]
	return ok
}
