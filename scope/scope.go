/*
 * tylua
 *
 * Copyright 2024 tylua authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

/*
Package scope implements the static name-resolution scope map the parser
uses to assign every declared identifier a unique scoped identity and
classify each use as local or global.

This is the static counterpart of a runtime variable scope: instead of
storing values, a Scope records, for each name declared in it, the ID it
was assigned and the span of the declaration. Lookup walks the ancestor
chain the same way a runtime scope would walk parents looking for a
binding.
*/
package scope

import (
	"fmt"
	"sync"

	"devt.de/krotik/tylua/token"
)

/*
ID uniquely identifies one declared name within a Map. IDs are assigned in
declaration order and never reused.
*/
type ID int

/*
Scope is an opaque handle into a Map. Handles are indices in generation
order, so the zero value is the first scope a Map generates.
*/
type Scope int

/*
invalidScope is the parent recorded for a root scope, which has none
(hasParent is false for it).
*/
const invalidScope Scope = -1

type binding struct {
	id   ID
	name string
	span token.Span
}

type scopeNode struct {
	parent   Scope
	hasParent bool
	span     token.Span
	names    map[string]ID
	order    []binding
}

/*
Map owns every Scope created during a parse and the name -> ID bindings
within them. It holds no global names; the parser collects those itself.
Grounded on the teacher's varsScope parent chain (scope/varsscope.go
getScopeForVariable), adapted from a value store to a declaration index.
*/
type Map struct {
	mu     sync.Mutex
	scopes []scopeNode
	nextID ID
}

/*
NewMap creates an empty scope map with no scopes yet generated.
*/
func NewMap() *Map {
	return &Map{}
}

/*
GenerateRoot creates a new scope with no parent - used when the scope
stack is empty (spec.md 4.4, generate_sibling_scope).
*/
func (m *Map) GenerateRoot() Scope {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.alloc(invalidScope, false)
}

/*
Generate creates a new scope whose parent is parent. The new scope is not
automatically visible to lookups until the caller pushes it onto its own
scope stack (spec.md 4.4).
*/
func (m *Map) Generate(parent Scope) Scope {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.alloc(parent, true)
}

func (m *Map) alloc(parent Scope, hasParent bool) Scope {
	m.scopes = append(m.scopes, scopeNode{
		parent:    parent,
		hasParent: hasParent,
		span:      token.DummySpan,
		names:     make(map[string]ID),
	})
	return Scope(len(m.scopes) - 1)
}

/*
AddName records a new declaration of name in scope s and returns its
freshly minted ID. Declaring the same name twice in the same scope shadows
the previous binding for future lookups but both remain in declaration
order for diagnostics.
*/
func (m *Map) AddName(s Scope, name string, span token.Span) ID {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++

	n := &m.scopes[s]
	n.names[name] = id
	n.order = append(n.order, binding{id: id, name: name, span: span})

	return id
}

/*
FindNameInScope searches the ancestor chain starting at s for name,
returning the scope that owns the binding, its ID, and whether it was
found at all.
*/
func (m *Map) FindNameInScope(s Scope, name string) (Scope, ID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur := s
	for {
		n := &m.scopes[cur]
		if id, ok := n.names[name]; ok {
			return cur, id, true
		}
		if !n.hasParent {
			return 0, 0, false
		}
		cur = n.parent
	}
}

/*
SetSpan records the source span a scope covers, from its opening token's
end to the position where the enclosing parse operation returned it.
*/
func (m *Map) SetSpan(s Scope, span token.Span) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scopes[s].span = span
}

/*
Span returns the span previously recorded via SetSpan, or the dummy span
if the scope was never closed (should not happen for a completed parse).
*/
func (m *Map) Span(s Scope) token.Span {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scopes[s].span
}

/*
Names returns the bindings declared directly in s, in declaration order.
*/
func (m *Map) Names(s Scope) []struct {
	ID   ID
	Name string
	Span token.Span
} {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := &m.scopes[s]
	out := make([]struct {
		ID   ID
		Name string
		Span token.Span
	}, len(n.order))
	for i, b := range n.order {
		out[i] = struct {
			ID   ID
			Name string
			Span token.Span
		}{b.id, b.name, b.span}
	}
	return out
}

func (s Scope) String() string { return fmt.Sprintf("scope#%d", int(s)) }

/*
NameRef classifies a resolved identifier occurrence as either a locally
scoped binding or a globally named reference - spec.md 3's NameRef.
*/
type NameRef struct {
	local bool
	id    ID
	name  string
}

/*
Local builds a NameRef referring to a local binding.
*/
func Local(id ID) NameRef { return NameRef{local: true, id: id} }

/*
Global builds a NameRef referring to a global name.
*/
func Global(name string) NameRef { return NameRef{local: false, name: name} }

/*
IsLocal reports whether the reference resolved to a local binding.
*/
func (r NameRef) IsLocal() bool { return r.local }

/*
ID returns the local ID; only meaningful when IsLocal is true.
*/
func (r NameRef) ID() ID { return r.id }

/*
Name returns the global name; only meaningful when IsLocal is false.
*/
func (r NameRef) Name() string { return r.name }

func (r NameRef) String() string {
	if r.local {
		return fmt.Sprintf("local(%d)", r.id)
	}
	return fmt.Sprintf("global(%s)", r.name)
}
