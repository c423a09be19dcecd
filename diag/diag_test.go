/*
 * tylua
 *
 * Copyright 2024 tylua authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package diag

import (
	"testing"

	"devt.de/krotik/tylua/token"
)

func span(offset int) token.Span {
	p := token.Pos{Offset: offset, Line: 1, Column: offset + 1}
	return token.Span{Begin: p, End: p}
}

func TestExpectedLocalization(t *testing.T) {
	m := &Expected{Wanted: []string{"(", "{"}, Got: "end"}

	if m.Kind() != "expected" {
		t.Error("Unexpected kind:", m.Kind())
	}

	en := m.Localize("en")
	if en != "expected ( or {, got end" {
		t.Error("Unexpected en message:", en)
	}

	ko := m.Localize("ko")
	if ko == "" || ko == en {
		t.Error("Expected a distinct ko translation, got:", ko)
	}
}

func TestCollectingReporterStopsAtMaxEntries(t *testing.T) {
	r := NewCollectingReporter("en", 2, true)

	ok1 := r.AddSpan(Warning, span(0), NewMessage("w", map[string]string{"en": "one"}))
	ok2 := r.AddSpan(Warning, span(1), NewMessage("w", map[string]string{"en": "two"}))

	if !ok1 {
		t.Error("First warning should not stop the parse")
	}
	if ok2 {
		t.Error("Reaching MaxEntries should signal stop")
	}
	if len(r.Entries()) != 2 {
		t.Error("Unexpected entry count:", len(r.Entries()))
	}
	if r.HasFatal() {
		t.Error("No Fatal diagnostic was reported")
	}
}

func TestCollectingReporterTracksFatal(t *testing.T) {
	r := NewCollectingReporter("en", 0, true)

	r.AddSpan(Fatal, span(0), NewMessage("f", map[string]string{"en": "bad"}))

	if !r.HasFatal() {
		t.Error("Expected HasFatal to be true after a Fatal diagnostic")
	}
}

func TestCollectingReporterDisallowsRecover(t *testing.T) {
	r := NewCollectingReporter("en", 0, false)

	ok := r.AddSpan(Recover, span(0), NewMessage("r", map[string]string{"en": "oops"}))
	if ok {
		t.Error("AllowRecover false should stop the parse on a Recover diagnostic")
	}
}

func TestSortedBySpan(t *testing.T) {
	entries := []Entry{
		{Severity: Warning, Span: span(5), Message: NewMessage("a", map[string]string{"en": "a"})},
		{Severity: Warning, Span: span(1), Message: NewMessage("b", map[string]string{"en": "b"})},
	}

	sorted := SortedBySpan(entries)

	if sorted[0].Span.Begin.Offset != 1 || sorted[1].Span.Begin.Offset != 5 {
		t.Error("Unexpected sort order:", sorted)
	}
	// SortedBySpan must not mutate its input
	if entries[0].Span.Begin.Offset != 5 {
		t.Error("SortedBySpan mutated its input slice")
	}
}
