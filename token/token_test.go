/*
 * tylua
 *
 * Copyright 2024 tylua authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package token

import "testing"

func TestSpanUnion(t *testing.T) {
	a := Span{Begin: Pos{Offset: 0, Line: 1, Column: 1}, End: Pos{Offset: 3, Line: 1, Column: 4}}
	b := Span{Begin: Pos{Offset: 5, Line: 1, Column: 6}, End: Pos{Offset: 9, Line: 1, Column: 10}}

	u := a.Union(b)

	if u.Begin != a.Begin {
		t.Error("Unexpected begin:", u.Begin)
	}
	if u.End != b.End {
		t.Error("Unexpected end:", u.End)
	}
}

func TestDummySpan(t *testing.T) {
	if !DummySpan.IsDummy() {
		t.Error("DummySpan should report IsDummy")
	}

	real := Span{Begin: Pos{Offset: 0, Line: 1, Column: 1}, End: Pos{Offset: 1, Line: 1, Column: 2}}
	if real.IsDummy() {
		t.Error("real span should not report IsDummy")
	}
}

func TestKindClassification(t *testing.T) {
	if !Local.IsKeyword() {
		t.Error("Local should be a keyword")
	}
	if !LParen.IsPunct() {
		t.Error("LParen should be punctuation")
	}
	if !MetaBeginFunc.IsMetaBegin() {
		t.Error("MetaBeginFunc should be a meta-begin token")
	}
	if Ident.IsKeyword() || Ident.IsPunct() || Ident.IsMetaBegin() {
		t.Error("Ident should not classify as keyword, punct or meta-begin")
	}
}

func TestKeywordLookup(t *testing.T) {
	k, ok := Keywords["function"]
	if !ok || k != Function {
		t.Error("Unexpected keyword lookup result:", k, ok)
	}
}
