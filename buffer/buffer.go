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
Package buffer wraps a channel of token.Token with the lookahead queue
and meta-comment newline elision the parser needs, and drives the nesting
tracker as tokens pass through.

Grounded on kailua_syntax/parser.rs's _read/_unread/peek trio, rather
than the teacher's datautil.RingBuffer. The lookahead is a small
prepend-queue (see Buffer), and the elided newline span travels in the
Side each Read returns instead of in a buffer field.
*/
package buffer

import (
	"devt.de/krotik/tylua/nesting"
	"devt.de/krotik/tylua/token"
)

/*
ElidedSpan records the span of a Newline token that was absorbed into a
multi-line meta comment instead of being handed to the parser, so
diagnostics can still point at it (kailua's "no newline" messages).
*/
type ElidedSpan struct {
	Span token.Span
	Ok   bool
}

/*
Side is the reversal record Read hands back to the caller and Unread
consumes, bundling the nesting.Delta produced by advancing the tracker
with whatever newline elision happened while fetching the token.
*/
type Side struct {
	Elided ElidedSpan
	Delta  nesting.Delta
}

/*
Buffer is the token source the parser reads from. It is not safe for
concurrent use.

The lookahead is nominally two slots (Peek/MayExpect never need more),
but Unread of an elided newline must restore three tokens at once (the
Newline, the continuation marker it swallowed, and the real token read
after it) - pending is a small queue rather than two named fields so that
case doesn't overflow it.
*/
type Buffer struct {
	ch      <-chan token.Token
	tracker *nesting.Tracker

	pending []token.Token

	metaDepth    int
	lastMetaKind token.Kind
}

/*
New creates a Buffer reading from ch and driving tracker.
*/
func New(ch <-chan token.Token, tracker *nesting.Tracker) *Buffer {
	return &Buffer{ch: ch, tracker: tracker}
}

func (b *Buffer) inMeta() bool { return b.metaDepth > 0 }

/*
pull returns the next token from the lookahead queue or the channel,
without touching nesting or elision - the raw fetch primitive mirroring
kailua's private _read.
*/
func (b *Buffer) pull() token.Token {
	if len(b.pending) > 0 {
		t := b.pending[0]
		b.pending = b.pending[1:]
		return t
	}
	t, ok := <-b.ch
	if !ok {
		return token.Token{Kind: token.EOF, Span: token.DummySpan}
	}
	return t
}

/*
pushback restores a token to the front of the lookahead queue, used both
by Unread and internally while implementing elision lookahead. Repeated
calls push further tokens to the front in LIFO order, so the most
recently pushed-back token is the next one pulled.
*/
func (b *Buffer) pushback(t token.Token) {
	b.pending = append([]token.Token{t}, b.pending...)
}

/*
Read returns the next logical token and the Side needed to reverse its
effect on the nesting tracker and on elision state.

While inside a meta comment, a Newline that is immediately followed (after
skipping the marker) by another meta-begin token of the same kind is
elided: it is not returned to the caller, its span is remembered in the
resulting Side, and scanning continues past the continuation marker as if
the two physical lines were one logical comment.
*/
func (b *Buffer) Read() (token.Token, Side) {
	tok := b.pull()

	var elided ElidedSpan

	if tok.Kind == token.Newline && b.inMeta() {
		next := b.pull()
		if next.Kind == b.lastMetaKind {
			elided = ElidedSpan{Span: tok.Span, Ok: true}
			tok = b.pull()
		} else {
			b.pushback(next)
		}
	}

	delta := b.tracker.Advance(tok, b.inMeta())

	return tok, Side{Elided: elided, Delta: delta}
}

/*
Unread reverses the most recent Read, restoring both the lookahead buffer
and the nesting tracker to their prior state. Calls to Unread must nest
strictly LIFO with Read, mirroring kailua's _unread.
*/
func (b *Buffer) Unread(tok token.Token, side Side) {
	b.tracker.Revert(side.Delta)

	if side.Elided.Ok {
		b.pushback(tok)
		markers := token.Token{Kind: b.lastMetaKind, Span: side.Elided.Span}
		b.pushback(markers)
		b.pushback(token.Token{Kind: token.Newline, Span: side.Elided.Span})
		return
	}

	b.pushback(tok)
}

/*
Peek returns the next token without consuming it or affecting the nesting
tracker - a plain lookahead, used by the parser's dispatch table to
decide which grammar rule applies.
*/
func (b *Buffer) Peek() token.Token {
	t := b.pull()
	b.pushback(t)
	return t
}

/*
MayExpect reports whether the next token has kind k, without consuming
it.
*/
func (b *Buffer) MayExpect(k token.Kind) bool {
	return b.Peek().Kind == k
}

/*
BeginMetaComment tells the buffer it has just entered a meta comment of
the given begin-marker kind, so subsequent Reads know to apply the
newline elision rule against markers of the same kind.
*/
func (b *Buffer) BeginMetaComment(kind token.Kind) {
	b.metaDepth++
	b.lastMetaKind = kind
}

/*
EndMetaComment tells the buffer a meta comment has closed.
*/
func (b *Buffer) EndMetaComment() {
	if b.metaDepth > 0 {
		b.metaDepth--
	}
}

/*
SkipMetaComment discards tokens up to and including the terminating
Newline (or EOF), used by the recovery engine to abandon a malformed
meta comment without unwinding the whole buffer state.
*/
func (b *Buffer) SkipMetaComment() {
	for {
		t := b.pull()
		if t.Kind == token.Newline || t.Kind == token.EOF {
			return
		}
	}
}
