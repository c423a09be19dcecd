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
Package parser turns a token stream into an ast.Chunk, resolving names
against a scope.Map and reporting diagnostics through a diag.Reporter as
it goes.

Statement and expression dispatch is a switch on the next token's
token.Kind (parseStmt, parseAtomExpr, parseTypeAtom), each case calling
the function that parses the construct that token begins. Recovery,
nesting and lookahead are delegated to the recover, nesting and buffer
packages; this file holds the entry points and shared helpers, and
statements.go, expr.go and types.go hold the grammar itself.
*/
package parser

import (
	"fmt"

	"devt.de/krotik/tylua/ast"
	"devt.de/krotik/tylua/buffer"
	"devt.de/krotik/tylua/diag"
	"devt.de/krotik/tylua/lexer"
	"devt.de/krotik/tylua/nesting"
	recoverpkg "devt.de/krotik/tylua/recover"
	"devt.de/krotik/tylua/scope"
	"devt.de/krotik/tylua/token"
)

/*
Options configures a parse. The zero value is a usable default: English
diagnostics, no cap on how many are collected.
*/
type Options struct {
	Locale         string
	MaxDiagnostics int
}

/*
Parser holds all per-parse state: the token buffer, the open-nesting
tracker it shares with that buffer, the scope map being built, and the
reporter diagnostics are sent to.
*/
type Parser struct {
	name string

	buf     *buffer.Buffer
	tracker *nesting.Tracker

	reporter diag.Reporter
	locale   string

	scopes     *scope.Map
	scopeStack []scope.Scope
	globals    map[string]struct{}

	fatal error
}

/*
ParseFile lexes src under name and parses it into an ast.Chunk. rep may
be nil, in which case a diag.CollectingReporter with no entry limit is
used - this is the integration entry point spec.md names.
*/
func ParseFile(name string, src []byte, rep diag.Reporter) (*ast.Chunk, error) {
	return ParseFileWithOptions(name, src, rep, Options{})
}

/*
ParseFileWithOptions is ParseFile with explicit Options, used by
config.ParseFile to thread Locale/MaxDiagnostics through.
*/
func ParseFileWithOptions(name string, src []byte, rep diag.Reporter, opts Options) (*ast.Chunk, error) {
	locale := opts.Locale
	if locale == "" {
		locale = "en"
	}
	if rep == nil {
		rep = diag.NewCollectingReporter(locale, opts.MaxDiagnostics, true)
	}

	tokens, _ := lexer.Lex(name, src)
	tracker := nesting.New()
	buf := buffer.New(tokens, tracker)

	p := &Parser{
		name:     name,
		buf:      buf,
		tracker:  tracker,
		reporter: rep,
		locale:   locale,
		scopes:   scope.NewMap(),
		globals:  make(map[string]struct{}),
	}

	root := p.scopes.GenerateRoot()
	p.pushScope(root)

	block := p.parseBlockUntilEOF()

	p.popScope()
	p.scopes.SetSpan(root, block.Span)

	globals := make([]string, 0, len(p.globals))
	for g := range p.globals {
		globals = append(globals, g)
	}

	chunk := &ast.Chunk{Block: block, Globals: globals, Scopes: p.scopes}

	if p.fatal != nil {
		return chunk, p.fatal
	}
	if rep.HasFatal() {
		return chunk, fmt.Errorf("tylua: %s: parse failed with fatal diagnostics", name)
	}
	return chunk, nil
}

// --- recover.Recoverable ---

/*
Depth implements recover.Recoverable.
*/
func (p *Parser) Depth() int { return p.tracker.Depth() }

/*
Skip implements recover.Recoverable: discard one token, or, at EOF, report
true without consuming it, so the caller's skip loop does not spin forever
and the EOF is left for parseBlockUntilEOF to read.
*/
func (p *Parser) Skip() bool {
	if p.peek().Kind == token.EOF {
		return true
	}
	p.read()
	return false
}

// --- reading helpers ---

func (p *Parser) peek() token.Token { return p.buf.Peek() }

func (p *Parser) read() token.Token {
	tok, _ := p.buf.Read()
	return tok
}

func (p *Parser) mayExpect(k token.Kind) bool {
	if p.buf.MayExpect(k) {
		p.read()
		return true
	}
	return false
}

/*
expect reads the next token if it is k. Otherwise it leaves the token
unread, reports a diag.Expected diagnostic and returns that token with a
*recoverpkg.Stop the caller can propagate to recoverpkg.To/UpTo.
*/
func (p *Parser) expect(k token.Kind) (token.Token, error) {
	tok := p.peek()
	if tok.Kind != k {
		p.reportSpan(diag.Recover, tok.Span, &diag.Expected{Wanted: []string{k.String()}, Got: tok.Kind.String()})
		return tok, &recoverpkg.Stop{Grade: recoverpkg.Recover, Reason: "expected " + k.String()}
	}
	return p.read(), nil
}

func (p *Parser) reportSpan(sev diag.Severity, span token.Span, msg diag.Message) {
	if p.reporter == nil {
		return
	}
	// AddSpan returning false means the reporter will not accept any further
	// diagnostics (MaxEntries reached, or a Recover message arriving while
	// AllowRecover is false) - that is the reporter's own "stop" signal and
	// is fatal regardless of the severity we happened to pass in.
	if !p.reporter.AddSpan(sev, span, msg) {
		p.fatal = fmt.Errorf("tylua: %s: %s", p.name, msg.Localize(p.locale))
	}
}

// --- scope helpers ---

func (p *Parser) curScope() scope.Scope {
	return p.scopeStack[len(p.scopeStack)-1]
}

func (p *Parser) pushScope(s scope.Scope) {
	p.scopeStack = append(p.scopeStack, s)
}

func (p *Parser) popScope() scope.Scope {
	s := p.curScope()
	p.scopeStack = p.scopeStack[:len(p.scopeStack)-1]
	return s
}

/*
generateSiblingScope creates a new scope whose parent is the current
scope but does not push it - used by local/local function/non-global
assume, which must not make the new name visible to its own
initializer (kailua's generate_sibling_scope).
*/
func (p *Parser) generateSiblingScope() scope.Scope {
	return p.scopes.Generate(p.curScope())
}

/*
resolveName classifies name as local (found in the current scope chain)
or global - kailua's resolve_name. It does not record global reads in
p.globals: kailua's resolve_name never touches global_scope either, since
most calls to it are for plain reads. Only a confirmed assignment-LHS
binding, a function-decl root name, or an `assume global` directive name
belongs in the global set (spec.md's globals-accuracy rule) - callers at
those three sites record the name themselves once they know that's what
they have.
*/
func (p *Parser) resolveName(name string) scope.NameRef {
	if _, id, ok := p.scopes.FindNameInScope(p.curScope(), name); ok {
		return scope.Local(id)
	}
	return scope.Global(name)
}

/*
resolveTargetName is resolveName for a name already known to be a binding
target (an assignment LHS root, or a function-decl name) rather than a
plain read: it additionally records the name in p.globals when it does
not resolve to a local.
*/
func (p *Parser) resolveTargetName(name string) scope.NameRef {
	ref := p.resolveName(name)
	if !ref.IsLocal() {
		p.globals[name] = struct{}{}
	}
	return ref
}

/*
declareLocal adds name to s (the scope it should become visible in) and
returns the resolved NameRef.
*/
func (p *Parser) declareLocal(s scope.Scope, name string, span token.Span) scope.NameRef {
	id := p.scopes.AddName(s, name, span)
	return scope.Local(id)
}
