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
Package nesting maintains the stack of open syntactic "nestings" (paren,
brace, block keyword pairs, meta comments) the recovery engine needs to
resynchronize after a parse error.
*/
package nesting

import "devt.de/krotik/tylua/token"

/*
Kind is a tagged nesting value drawn from a closed set.
*/
type Kind int

const (
	Top Kind = iota
	Meta
	Paren
	Brace
	Bracket
	Do
	Then
	Else
	End
	Until
)

var kindNames = map[Kind]string{
	Top: "top", Meta: "meta", Paren: "paren", Brace: "brace",
	Bracket: "bracket", Do: "do", Then: "then", Else: "else",
	End: "end", Until: "until",
}

func (k Kind) String() string { return kindNames[k] }

/*
IsStmtLevel reports whether k belongs to {Top, Meta, Do, Then, Else, End,
Until} - the subset that survives the "pre-close punctuation-level
nestings" rule described in spec.md 4.2.
*/
func (k Kind) IsStmtLevel() bool {
	switch k {
	case Top, Meta, Do, Then, Else, End, Until:
		return true
	}
	return false
}

/*
Delta records what a single Advance call did to the stack: the nestings it
removed, including any pre-close pops (in stack order, outermost first, so
appending them restores the stack), and the count of nestings it pushed.
Revert uses it to restore the stack byte-identically to its pre-Advance
state.
*/
type Delta struct {
	Removed []Kind
	Added   int
}

/*
Tracker owns the nesting stack. It always starts with Top and the stack
never empties before EOF - the caller is responsible for feeding it every
token advance via Advance, and every unread via Revert.
*/
type Tracker struct {
	open []Kind
}

/*
New creates a Tracker whose stack holds only Top, per the invariant in
spec.md 3.
*/
func New() *Tracker {
	return &Tracker{open: []Kind{Top}}
}

/*
Depth returns the current stack depth.
*/
func (t *Tracker) Depth() int { return len(t.open) }

/*
Top returns the innermost open nesting.
*/
func (t *Tracker) Top() Kind { return t.open[len(t.open)-1] }

/*
Snapshot returns a copy of the current stack, useful for tests and trace
logging.
*/
func (t *Tracker) Snapshot() []Kind {
	out := make([]Kind, len(t.open))
	copy(out, t.open)
	return out
}

type action int

const (
	actNone action = iota
	actPush
	actPush2
	actPush3
	actPop
	actPopAndPush
	actPopOrPush
)

type rule struct {
	act          action
	popNonStmt   bool
	a, b, c      Kind
}

/*
Advance classifies tok against the nesting table of spec.md 4.2 and
updates the stack accordingly, returning the Delta needed to reverse it.
inMeta reports whether the buffer is currently inside a meta comment
(ignore_after_newline is set), since there `while`/`for`/`do`/`if`/
`then`/`elseif`/`else`/`repeat`/`until` change no nesting and `end` does
not pre-close punctuation-level nestings.
*/
func (t *Tracker) Advance(tok token.Token, inMeta bool) Delta {
	r := t.classify(tok, inMeta)

	var preremoved []Kind
	if r.popNonStmt {
		i := t.lastStmtLevel() + 1
		if i < len(t.open) {
			preremoved = append(preremoved, t.open[i:]...)
			t.open = t.open[:i]
		}
	}

	removed, added := t.apply(r)
	removed = append(removed, preremoved...)

	return Delta{Removed: removed, Added: added}
}

/*
Revert undoes the effect of the most recent Advance that produced d. It
must be called in strict LIFO order with Advance, mirroring kailua's
revert_nestings.
*/
func (t *Tracker) Revert(d Delta) {
	newLen := len(t.open) - d.Added
	t.open = t.open[:newLen]
	t.open = append(t.open, d.Removed...)
}

func (t *Tracker) lastStmtLevel() int {
	for i := len(t.open) - 1; i >= 0; i-- {
		if t.open[i].IsStmtLevel() {
			return i
		}
	}
	panic("nesting: corrupted stack, no statement-level nesting found")
}

func (t *Tracker) classify(tok token.Token, inMeta bool) rule {
	switch tok.Kind {
	case token.LParen:
		return rule{act: actPush, a: Paren}
	case token.LBrace:
		return rule{act: actPush, a: Brace}
	case token.LBracket:
		return rule{act: actPush, a: Bracket}
	case token.RParen:
		return rule{act: actPop, a: Paren}
	case token.RBrace:
		return rule{act: actPop, a: Brace}
	case token.RBracket:
		return rule{act: actPop, a: Bracket}

	case token.MetaBeginFunc:
		// --v can appear inside an expression; it never pre-closes.
		return rule{act: actPush, a: Meta}
	case token.MetaBeginDirec, token.MetaBeginSpec, token.MetaBeginRet:
		return rule{act: actPush, a: Meta, popNonStmt: true}
	case token.Newline:
		return rule{act: actPop, a: Meta, popNonStmt: true}

	case token.While, token.For:
		if !inMeta {
			return rule{act: actPush2, a: End, b: Do, popNonStmt: true}
		}
	case token.Do:
		if !inMeta {
			return rule{act: actPopOrPush, a: Do, b: End, popNonStmt: true}
		}
	case token.Function:
		return rule{act: actPush, a: End}

	case token.If:
		if !inMeta {
			return rule{act: actPush3, a: End, b: Else, c: Then, popNonStmt: true}
		}
	case token.Then:
		if !inMeta {
			return rule{act: actPop, a: Then, popNonStmt: true}
		}
	case token.Elseif:
		if !inMeta {
			return rule{act: actPopAndPush, a: Else, b: Else, popNonStmt: true}
		}
	case token.Else:
		if !inMeta {
			return rule{act: actPop, a: Else, popNonStmt: true}
		}

	case token.Repeat:
		if !inMeta {
			return rule{act: actPush, a: Until, popNonStmt: true}
		}
	case token.Until:
		if !inMeta {
			return rule{act: actPop, a: Until, popNonStmt: true}
		}

	case token.End:
		return rule{act: actPop, a: End, popNonStmt: !inMeta}

	case token.EOF:
		return rule{act: actPop, a: Top, popNonStmt: true}
	}

	return rule{act: actNone}
}

func (t *Tracker) apply(r rule) (removed []Kind, added int) {
	switch r.act {
	case actNone:
		return nil, 0

	case actPush:
		t.open = append(t.open, r.a)
		return nil, 1

	case actPush2:
		t.open = append(t.open, r.a, r.b)
		return nil, 2

	case actPush3:
		t.open = append(t.open, r.a, r.b, r.c)
		return nil, 3

	case actPop:
		if i := t.lastIndexOf(r.a); i >= 0 {
			removed = append([]Kind(nil), t.open[i:]...)
			t.open = t.open[:i]
			return removed, 0
		}
		return nil, 0

	case actPopAndPush:
		if i := t.lastIndexOf(r.a); i >= 0 {
			removed = append([]Kind(nil), t.open[i:]...)
			t.open = t.open[:i]
			t.open = append(t.open, r.b)
			return removed, 1
		}
		return nil, 0

	case actPopOrPush:
		if i := t.lastIndexOf(r.a); i >= 0 {
			removed = append([]Kind(nil), t.open[i:]...)
			t.open = t.open[:i]
			return removed, 0
		}
		t.open = append(t.open, r.b)
		return nil, 1
	}

	return nil, 0
}

func (t *Tracker) lastIndexOf(k Kind) int {
	for i := len(t.open) - 1; i >= 0; i-- {
		if t.open[i] == k {
			return i
		}
	}
	return -1
}
