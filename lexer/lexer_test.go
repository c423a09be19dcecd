/*
 * tylua
 *
 * Copyright 2024 tylua authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package lexer

import (
	"testing"

	"devt.de/krotik/tylua/token"
)

func drain(ch <-chan token.Token) []token.Token {
	var out []token.Token
	for t := range ch {
		out = append(out, t)
	}
	return out
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func assertKinds(t *testing.T, got []token.Kind, want ...token.Kind) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("Unexpected token count: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Unexpected token at %d: got %v, want %v (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestLexSimpleAssignment(t *testing.T) {
	ch, _ := Lex("t", []byte("local x = 1\n"))
	toks := drain(ch)

	assertKinds(t, kinds(toks),
		token.Local, token.Ident, token.Equal, token.Number, token.EOF)
}

func TestLexMultiCharPunctuationLongestFirst(t *testing.T) {
	ch, _ := Lex("t", []byte("a ... b .. c"))
	toks := drain(ch)

	assertKinds(t, kinds(toks),
		token.Ident, token.Ellipsis, token.Ident, token.DotDot, token.Ident, token.EOF)
}

func TestLexLongBracketString(t *testing.T) {
	ch, _ := Lex("t", []byte("x = [[hello\nworld]]"))
	toks := drain(ch)

	assertKinds(t, kinds(toks), token.Ident, token.Equal, token.String, token.EOF)
}

func TestLexMetaBeginEntersMetaModeClosedByNewline(t *testing.T) {
	ch, _ := Lex("t", []byte("--: number\nlocal x"))
	toks := drain(ch)

	got := kinds(toks)
	if len(got) == 0 || got[0] != token.MetaBeginSpec {
		t.Fatalf("Expected the meta comment to start with MetaBeginSpec, got: %v", got)
	}

	foundNewline := false
	for _, k := range got {
		if k == token.Newline {
			foundNewline = true
		}
	}
	if !foundNewline {
		t.Errorf("Expected a synthetic Newline closing the meta comment, got: %v", got)
	}
}

func TestLexLineComment(t *testing.T) {
	ch, stats := Lex("t", []byte("-- just a comment\nlocal x\n"))
	toks := drain(ch)

	assertKinds(t, kinds(toks), token.Local, token.Ident, token.EOF)

	if stats.Comments != 1 {
		t.Errorf("Expected one comment counted, got: %d", stats.Comments)
	}
}

func TestStatsTraceRecordsTrailingTokens(t *testing.T) {
	ch, stats := Lex("t", []byte("a b c"))
	drain(ch)

	if len(stats.Trace) == 0 {
		t.Error("Expected a non-empty trailing trace")
	}
	last := stats.Trace[len(stats.Trace)-1]
	if last != token.EOF.String() {
		t.Errorf("Expected the trace to end with the EOF token, got: %s", last)
	}
}
