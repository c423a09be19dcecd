/*
 * tylua
 *
 * Copyright 2024 tylua authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package ast

import (
	"strings"
	"testing"

	"devt.de/krotik/tylua/scope"
	"devt.de/krotik/tylua/token"
)

func TestOopsIsOops(t *testing.T) {
	n := Oops(OopsExpr)
	if !n.IsOops() {
		t.Error("Expected Oops(OopsExpr) to report IsOops")
	}
	if !n.Span.IsDummy() {
		t.Error("Expected Oops node to carry a dummy span")
	}

	real := New(NumberLit, token.DummySpan)
	if real.IsOops() {
		t.Error("A NumberLit node should not report IsOops")
	}
}

func TestWithChildrenAppends(t *testing.T) {
	n := New(Block, token.DummySpan)
	a := New(Break, token.DummySpan)
	b := New(Break, token.DummySpan)

	n.WithChildren(a, b)

	if len(n.Children) != 2 {
		t.Fatalf("Expected 2 children, got %d", len(n.Children))
	}
}

func TestNameRefRoundTrip(t *testing.T) {
	ref := scope.Local(scope.ID(7))
	n := &Node{Kind: NameVar, Extra: ref}

	got, ok := n.NameRef()
	if !ok || got.ID() != 7 {
		t.Error("Unexpected NameRef round trip:", got, ok)
	}

	other := New(NumberLit, token.DummySpan)
	if _, ok := other.NameRef(); ok {
		t.Error("Expected NameRef to fail for a node with no Extra NameRef")
	}
}

func TestStringRendersKindAndChildren(t *testing.T) {
	leaf := New(NumberLit, token.DummySpan)
	leaf.Name = "42"
	root := New(Block, token.DummySpan).WithChildren(leaf)

	s := root.String()
	if !strings.Contains(s, "block") || !strings.Contains(s, "numberLit 42") {
		t.Errorf("Unexpected rendering: %q", s)
	}
}

func TestKindStringFallback(t *testing.T) {
	var k Kind = 9999
	if !strings.HasPrefix(k.String(), "Kind(") {
		t.Error("Unexpected fallback string for unknown Kind:", k.String())
	}
}
