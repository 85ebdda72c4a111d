// Package id provides namespaced string identifiers for world entities.
// Every entity reference in the engine is a weak string ID resolved by
// lookup; IDs carry their namespace as a prefix so a reference can be
// type-checked without dereferencing it.
package id

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID is a namespaced entity identifier of the form "namespace:uuid"
// (or "namespace:well-known-name" for fixed entities).
type ID string

// Entity namespaces.
const (
	NSActor   = "actor"
	NSPlace   = "place"
	NSItem    = "item"
	NSSession = "session"
	NSCommand = "command"
	NSIntent  = "intent"
)

// System is the well-known actor ID used for commands raised by system
// logic rather than a player.
const System ID = "actor:system"

// New mints a fresh ID in the given namespace.
//
// Precondition: ns must be non-empty.
// Postcondition: Returns an ID whose Namespace() == ns.
func New(ns string) ID {
	if ns == "" {
		panic("id: New called with empty namespace")
	}
	return ID(ns + ":" + uuid.NewString())
}

// From builds an ID from a namespace and a stable name, for fixture and
// content-authored entities.
//
// Precondition: ns and name must be non-empty.
func From(ns, name string) ID {
	if ns == "" || name == "" {
		panic(fmt.Sprintf("id: From called with empty part (%q, %q)", ns, name))
	}
	return ID(ns + ":" + name)
}

// Namespace returns the portion of the ID before the first colon, or ""
// if the ID carries no namespace tag.
func (i ID) Namespace() string {
	idx := strings.IndexByte(string(i), ':')
	if idx < 0 {
		return ""
	}
	return string(i)[:idx]
}

// Is reports whether the ID belongs to the given namespace.
func (i ID) Is(ns string) bool {
	return i.Namespace() == ns
}

// IsZero reports whether the ID is empty.
func (i ID) IsZero() bool {
	return i == ""
}

// String returns the raw identifier string.
func (i ID) String() string {
	return string(i)
}
