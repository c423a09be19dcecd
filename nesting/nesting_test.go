/*
 * tylua
 *
 * Copyright 2024 tylua authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package nesting

import (
	"testing"

	"devt.de/krotik/tylua/token"
)

func tok(k token.Kind) token.Token {
	return token.Token{Kind: k}
}

func TestNewTrackerStartsAtTop(t *testing.T) {
	tr := New()
	if tr.Depth() != 1 {
		t.Error("Unexpected initial depth:", tr.Depth())
	}
	if tr.Top() != Top {
		t.Error("Unexpected initial top:", tr.Top())
	}
}

func TestParenPushAndPop(t *testing.T) {
	tr := New()

	d1 := tr.Advance(tok(token.LParen), false)
	if tr.Top() != Paren {
		t.Error("Expected Paren on top, got:", tr.Top())
	}

	d2 := tr.Advance(tok(token.RParen), false)
	if tr.Top() != Top {
		t.Error("Expected Top after closing paren, got:", tr.Top())
	}

	tr.Revert(d2)
	if tr.Top() != Paren {
		t.Error("Revert of RParen should restore Paren, got:", tr.Top())
	}

	tr.Revert(d1)
	if tr.Depth() != 1 || tr.Top() != Top {
		t.Error("Revert of LParen should restore initial state")
	}
}

func TestIfThenElseEnd(t *testing.T) {
	tr := New()

	tr.Advance(tok(token.If), false)
	if tr.Top() != Then {
		t.Error("Expected Then on top after 'if', got:", tr.Top())
	}

	tr.Advance(tok(token.Then), false)
	if tr.Top() != Else {
		t.Error("Expected Else on top after 'then', got:", tr.Top())
	}

	tr.Advance(tok(token.Else), false)
	if tr.Top() != End {
		t.Error("Expected End on top after 'else', got:", tr.Top())
	}

	tr.Advance(tok(token.End), false)
	if tr.Top() != Top {
		t.Error("Expected Top after 'end', got:", tr.Top())
	}
}

func TestBlockKeywordsIgnoredInsideMeta(t *testing.T) {
	tr := New()

	// while/if/do etc. are only stmt-level nestings outside meta comments;
	// classify() guards these with !inMeta.
	before := tr.Depth()
	tr.Advance(tok(token.While), true)
	if tr.Depth() != before {
		t.Error("While inside a meta comment should not open a nesting")
	}
}
