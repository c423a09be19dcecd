/*
 * tylua
 *
 * Copyright 2024 tylua authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package parser

import (
	"testing"

	"devt.de/krotik/tylua/ast"
	"devt.de/krotik/tylua/diag"
)

/*
corpus is a small set of representative snippets the parser must get
through without panicking or reporting a Fatal diagnostic - the
architectural smoke test, grounded on original_source/kailua_syntax's
parser-test.rs idea of feeding many small programs through the parser
and asserting it survives.
*/
var corpus = []string{
	`local x = 1`,
	`local x, y = 1, 2`,
	`x = x + 1 * 2 - 3 / 4`,
	`x = a and b or not c`,
	`x = "a" .. "b" .. "c"`,
	`x = 2 ^ 3 ^ 2`,
	`local t = { 1, 2, [3] = "three", name = "x" }`,
	`function f(a, b) return a + b end`,
	`local function f(a, b) return a + b end`,
	`local o = {}
function o:method(a) return self.x + a end`,
	`if x then y = 1 elseif z then y = 2 else y = 3 end`,
	`while x < 10 do x = x + 1 end`,
	`repeat x = x + 1 until x >= 10`,
	`for i = 1, 10 do print(i) end`,
	`for k, v in pairs(t) do print(k, v) end`,
	`do local x = 1 end`,
	`f(1, 2, "three", {4, 5})`,
	`print "hello"`,
	`print {1, 2, 3}`,
	`::top::
goto top`,
	`--v function(a: number, b: string) --> boolean
local function f(a, b) return true end`,
	`--# assume global x : number`,
	`--: number
local x`,
	`local t --: {name: string, age: number}`,
}

func TestParseCorpus(t *testing.T) {
	for _, src := range corpus {
		rep := diag.NewCollectingReporter("en", 0, true)
		chunk, err := ParseFile("corpus", []byte(src), rep)

		if chunk == nil || chunk.Block == nil {
			t.Errorf("snippet %q: expected a non-nil block", src)
			continue
		}
		if rep.HasFatal() && err == nil {
			t.Errorf("snippet %q: reporter has fatal diagnostics but ParseFile returned nil error", src)
		}
	}
}

func TestLocalDeclaresNameVisibleAfterInit(t *testing.T) {
	rep := diag.NewCollectingReporter("en", 0, true)
	chunk, err := ParseFile("t", []byte("local x = 1\nx = x + 1\n"), rep)
	if err != nil {
		t.Fatal("Unexpected error:", err)
	}

	var assign *ast.Node
	for _, stmt := range chunk.Block.Children {
		if stmt.Kind == ast.Assign {
			assign = stmt
		}
	}
	if assign == nil {
		t.Fatal("Expected an assignment statement in the block")
	}

	target := assign.Children[0]
	ref, ok := target.NameRef()
	if !ok || !ref.IsLocal() {
		t.Error("Expected the assignment target to resolve to a local binding")
	}
}

func TestUndeclaredNameResolvesGlobal(t *testing.T) {
	rep := diag.NewCollectingReporter("en", 0, true)
	chunk, err := ParseFile("t", []byte("y = 1\n"), rep)
	if err != nil {
		t.Fatal("Unexpected error:", err)
	}

	found := false
	for _, g := range chunk.Globals {
		if g == "y" {
			found = true
		}
	}
	if !found {
		t.Error("Expected 'y' to be recorded as a global, got:", chunk.Globals)
	}
}

func TestOperatorPrecedence(t *testing.T) {
	rep := diag.NewCollectingReporter("en", 0, true)
	chunk, err := ParseFile("t", []byte("x = 1 + 2 * 3\n"), rep)
	if err != nil {
		t.Fatal("Unexpected error:", err)
	}

	assign := chunk.Block.Children[0]
	rhs := assign.Children[1]

	if rhs.Kind != ast.Binop || rhs.Name != "+" {
		t.Fatalf("Expected top-level operator to be '+', got: %v %v", rhs.Kind, rhs.Name)
	}
	right := rhs.Children[1]
	if right.Kind != ast.Binop || right.Name != "*" {
		t.Errorf("Expected '*' to bind tighter than '+', got: %v %v", right.Kind, right.Name)
	}
}

func TestMissingEndReportsDiagnosticNotPanic(t *testing.T) {
	rep := diag.NewCollectingReporter("en", 0, true)
	chunk, _ := ParseFile("t", []byte("if x then y = 1\n"), rep)

	if chunk == nil {
		t.Fatal("Expected a chunk even on malformed input")
	}
	if len(rep.Entries()) == 0 {
		t.Error("Expected at least one diagnostic for the missing 'end'")
	}
}

/*
TestMalformedStatementTokenDoesNotHang exercises the input class that
used to loop forever: a token at statement position that is neither a
keyword nor the start of a prefix expression (a stray `)`, `,` or `}`).
parseBlock's recoverpkg.UpTo wiring must skip it instead of re-peeking
the same token on every iteration - a regression that would hang this
test (and the whole test binary) rather than fail it cleanly.
*/
func TestMalformedStatementTokenDoesNotHang(t *testing.T) {
	snippets := []string{
		"x = 1\n)\ny = 2\n",
		"x = 1\n,\ny = 2\n",
		"x = 1\n}\ny = 2\n",
		")",
		",",
		"}",
	}

	for _, src := range snippets {
		rep := diag.NewCollectingReporter("en", 0, true)
		chunk, _ := ParseFile("t", []byte(src), rep)

		if chunk == nil || chunk.Block == nil {
			t.Errorf("snippet %q: expected a non-nil block", src)
			continue
		}
		if len(rep.Entries()) == 0 {
			t.Errorf("snippet %q: expected at least one diagnostic for the malformed token", src)
		}
	}
}

/*
TestMaxDiagnosticsAbortsParse exercises the MaxDiagnostics/fatal
propagation contract: once a reporter's AddSpan starts returning false
(here, because MaxEntries is reached), ParseFile must report the parse
as failed instead of silently returning a nil error.
*/
func TestMaxDiagnosticsAbortsParse(t *testing.T) {
	rep := diag.NewCollectingReporter("en", 1, true)
	_, err := ParseFile("t", []byte(")\n)\n)\n"), rep)

	if err == nil {
		t.Error("Expected ParseFile to report a fatal error once MaxEntries was reached")
	}
	if rep.HasFatal() {
		t.Error("Reaching MaxEntries should not by itself record a Fatal diagnostic")
	}
}

/*
TestAllowRecoverFalseAbortsParse exercises the other AddSpan-returns-false
path: a reporter configured to refuse Recover-severity diagnostics
outright must also abort the parse as fatal on the very first one.
*/
func TestAllowRecoverFalseAbortsParse(t *testing.T) {
	rep := diag.NewCollectingReporter("en", 0, false)
	_, err := ParseFile("t", []byte(")\n"), rep)

	if err == nil {
		t.Error("Expected ParseFile to report a fatal error when AllowRecover is false")
	}
}
