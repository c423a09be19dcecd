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
	"devt.de/krotik/tylua/ast"
	"devt.de/krotik/tylua/diag"
	recoverpkg "devt.de/krotik/tylua/recover"
	"devt.de/krotik/tylua/scope"
	"devt.de/krotik/tylua/token"
)

/*
parseBlockUntilEOF parses a full source file: a block followed by EOF,
per kailua's parse_block_until_eof.
*/
func (p *Parser) parseBlockUntilEOF() *ast.Node {
	block := p.parseBlock()
	p.expect(token.EOF)
	return block
}

/*
parseBlock parses a sequence of statements up to (but not consuming) a
block-closing keyword or EOF - kailua's _parse_block.

Each statement is parsed through recoverpkg.UpTo: on the failure mode
parseStmt can report (an expression statement that is neither an
assignment nor a call), UpTo skips tokens via the parser's own
Depth/Skip until the current nesting has closed by at least one level or
EOF is next (Skip never consumes EOF).
Because the nesting depth recorded before the failing parseStmt call is
always <= the depth at the moment it failed, UpTo's "skip while depth
>= before" loop always executes at least one Skip - so a malformed
statement-position token (a stray `)`, `,`, `}`) is guaranteed to be
consumed instead of being re-peeked by the next loop iteration forever.
*/
func (p *Parser) parseBlock() *ast.Node {
	start := p.peek().Span
	block := &ast.Node{Kind: ast.Block, Span: start}

	for {
		tok := p.peek()
		if isBlockEnd(tok.Kind) {
			break
		}

		stmt, err := recoverpkg.UpTo(p, p.parseStmt)
		if err != nil {
			if p.peek().Kind == token.EOF {
				break
			}
			continue
		}
		if stmt == nil {
			break
		}
		block.Children = append(block.Children, stmt)

		if stmt.Kind == ast.Return {
			break
		}
	}

	end := p.peek().Span
	block.Span = block.Span.Union(end)
	return block
}

func isBlockEnd(k token.Kind) bool {
	switch k {
	case token.EOF, token.End, token.Else, token.Elseif, token.Until:
		return true
	}
	return false
}

/*
parseScopedBlock opens a fresh child scope, parses a block inside it, and
pops the scope back off - used by do/while/for/if-branch/function bodies
whose block gets its own lexical scope.
*/
func (p *Parser) parseScopedBlock() *ast.Node {
	s := p.scopes.Generate(p.curScope())
	p.pushScope(s)
	block := p.parseBlock()
	p.scopes.SetSpan(s, block.Span)
	p.popScope()
	return block
}

/*
parseStmt dispatches on the next token's kind to the matching statement
grammar rule, mirroring the teacher's astNodeMap dispatch. Returns nil
when only `;` separators stood between the caller's isBlockEnd check and
a block boundary.

Only the default (expression-statement) branch can return a non-nil
error: it is the one grammar rule whose failure mode does not itself
guarantee consuming a token (spec.md 7's statement-level recovery
policy), so it is the one parseBlock drives through recoverpkg.UpTo.
*/
func (p *Parser) parseStmt() (*ast.Node, error) {
	tok := p.peek()

	switch tok.Kind {
	case token.Semi:
		p.read()
		if isBlockEnd(p.peek().Kind) {
			return nil, nil
		}
		return p.parseStmt()

	case token.DblColon:
		return p.parseGotoLabel(), nil
	case token.Goto:
		return p.parseGoto(), nil

	case token.Do:
		return p.parseDo(), nil
	case token.While:
		return p.parseWhile(), nil
	case token.Repeat:
		return p.parseRepeat(), nil
	case token.If:
		return p.parseIf(), nil
	case token.For:
		return p.parseFor(), nil
	case token.Function:
		return p.parseFuncDeclStmt(), nil
	case token.Local:
		return p.parseLocal(), nil
	case token.Return:
		return p.parseReturn(), nil
	case token.Break:
		p.read()
		return &ast.Node{Kind: ast.Break, Span: tok.Span}, nil

	case token.MetaBeginFunc:
		return p.parseMetaFuncSpecStmt(), nil
	case token.MetaBeginDirec:
		return p.parseMetaDirective(), nil
	case token.MetaBeginSpec:
		return p.parseMetaTypeSpecStmt(), nil

	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseGotoLabel() *ast.Node {
	start := p.read() // ::
	name, _ := p.expect(token.Ident)
	end, _ := p.expect(token.DblColon)
	n := &ast.Node{Kind: ast.GotoLabel, Name: name.Val, Span: start.Span.Union(end.Span)}
	return n
}

func (p *Parser) parseGoto() *ast.Node {
	start := p.read()
	name, _ := p.expect(token.Ident)
	return &ast.Node{Kind: ast.Goto, Name: name.Val, Span: start.Span.Union(name.Span)}
}

func (p *Parser) parseDo() *ast.Node {
	start := p.read() // do
	body := p.parseScopedBlock()
	end, _ := p.expect(token.End)
	n := &ast.Node{Kind: ast.Do, Span: start.Span.Union(end.Span)}
	n.Children = append(n.Children, body)
	return n
}

func (p *Parser) parseWhile() *ast.Node {
	start := p.read() // while
	cond := p.parseExpr()
	p.expect(token.Do)
	body := p.parseScopedBlock()
	end, _ := p.expect(token.End)
	n := &ast.Node{Kind: ast.While, Span: start.Span.Union(end.Span)}
	n.Children = append(n.Children, cond, body)
	return n
}

func (p *Parser) parseRepeat() *ast.Node {
	start := p.read() // repeat

	// repeat's until-condition can see names declared in the body, so
	// the scope stays open across both - kailua parses this specially
	// too (the until expression is parsed with the loop body's scope).
	s := p.scopes.Generate(p.curScope())
	p.pushScope(s)
	body := p.parseBlock()
	p.expect(token.Until)
	cond := p.parseExpr()
	p.scopes.SetSpan(s, cond.Span)
	p.popScope()

	n := &ast.Node{Kind: ast.Repeat, Span: start.Span.Union(cond.Span)}
	n.Children = append(n.Children, body, cond)
	return n
}

func (p *Parser) parseIf() *ast.Node {
	start := p.read() // if
	n := &ast.Node{Kind: ast.If, Span: start.Span}

	cond := p.parseExpr()
	p.expect(token.Then)
	body := p.parseScopedBlock()
	n.Children = append(n.Children, cond, body)

	for p.peek().Kind == token.Elseif {
		p.read()
		c := p.parseExpr()
		p.expect(token.Then)
		b := p.parseScopedBlock()
		n.Children = append(n.Children, c, b)
	}

	if p.peek().Kind == token.Else {
		p.read()
		b := p.parseScopedBlock()
		n.Children = append(n.Children, b)
	}

	end, _ := p.expect(token.End)
	n.Span = n.Span.Union(end.Span)
	return n
}

/*
parseFor handles both numeric and generic for, disambiguating after the
first name the way kailua's try_parse_stmt does (parse_stmt_for_in
handles the `in` continuation).
*/
func (p *Parser) parseFor() *ast.Node {
	start := p.read() // for

	firstName, _ := p.expect(token.Ident)
	names := []token.Token{firstName}

	if p.peek().Kind == token.Equal {
		return p.parseForNum(start, firstName)
	}

	for p.mayExpect(token.Comma) {
		n, _ := p.expect(token.Ident)
		names = append(names, n)
	}
	p.expect(token.In)
	return p.parseForIn(start, names)
}

func (p *Parser) parseForNum(start, name token.Token) *ast.Node {
	p.read() // =
	from := p.parseExpr()
	p.expect(token.Comma)
	to := p.parseExpr()
	var step *ast.Node
	if p.mayExpect(token.Comma) {
		step = p.parseExpr()
	}
	p.expect(token.Do)

	s := p.scopes.Generate(p.curScope())
	p.pushScope(s)
	ref := p.declareLocal(s, name.Val, name.Span)
	body := p.parseBlock()
	p.scopes.SetSpan(s, body.Span)
	p.popScope()

	end, _ := p.expect(token.End)

	n := &ast.Node{Kind: ast.ForNum, Name: name.Val, Span: start.Span.Union(end.Span), Extra: ref}
	n.Children = append(n.Children, from, to)
	if step != nil {
		n.Children = append(n.Children, step)
	}
	n.Children = append(n.Children, body)
	return n
}

func (p *Parser) parseForIn(start token.Token, names []token.Token) *ast.Node {
	var exprs []*ast.Node
	exprs = append(exprs, p.parseExpr())
	for p.mayExpect(token.Comma) {
		exprs = append(exprs, p.parseExpr())
	}
	p.expect(token.Do)

	// the iterator scope is introduced after the controlling expressions
	// are parsed, before the body - spec.md 4.4.
	s := p.scopes.Generate(p.curScope())
	p.pushScope(s)
	refs := make([]scope.NameRef, len(names))
	for i, nm := range names {
		refs[i] = p.declareLocal(s, nm.Val, nm.Span)
	}
	body := p.parseBlock()
	p.scopes.SetSpan(s, body.Span)
	p.popScope()

	end, _ := p.expect(token.End)

	n := &ast.Node{Kind: ast.ForIn, Span: start.Span.Union(end.Span), Extra: refs}
	n.Children = append(n.Children, exprs...)
	n.Children = append(n.Children, body)
	return n
}

/*
parseFuncDeclStmt parses `function Name.field...[:method](params) body
end`, binding an implicit self for method declarations before the body
statements, per spec.md 4.4.
*/
func (p *Parser) parseFuncDeclStmt() *ast.Node {
	start := p.read() // function

	nameTok, _ := p.expect(token.Ident)
	target := &ast.Node{Kind: ast.NameVar, Name: nameTok.Val, Span: nameTok.Span, Extra: p.resolveTargetName(nameTok.Val)}

	isMethod := false
	for {
		if p.mayExpect(token.Dot) {
			field, _ := p.expect(token.Ident)
			target = &ast.Node{Kind: ast.FieldVar, Name: field.Val, Span: target.Span.Union(field.Span), Children: []*ast.Node{target}}
			continue
		}
		if p.mayExpect(token.Colon) {
			field, _ := p.expect(token.Ident)
			target = &ast.Node{Kind: ast.FieldVar, Name: field.Val, Span: target.Span.Union(field.Span), Children: []*ast.Node{target}}
			isMethod = true
		}
		break
	}

	body := p.parseFuncBody(isMethod)

	kind := ast.FuncDecl
	if isMethod {
		kind = ast.MethodDecl
	}
	n := &ast.Node{Kind: kind, Span: start.Span.Union(body.Span)}
	n.Children = append(n.Children, target, body)
	return n
}

/*
parseFuncBody parses the parameter list and block shared by function
literals, function declarations and method declarations. withSelf binds
an implicit `self` parameter before the explicit ones, bound before the
body exactly like any other parameter (spec.md 4.4).
*/
func (p *Parser) parseFuncBody(withSelf bool) *ast.Node {
	open, _ := p.expect(token.LParen)

	s := p.scopes.Generate(p.curScope())
	p.pushScope(s)

	var params []string
	if withSelf {
		p.declareLocal(s, "self", open.Span)
		params = append(params, "self")
	}

	varargs := false
	if p.peek().Kind != token.RParen {
		for {
			if p.mayExpect(token.Ellipsis) {
				varargs = true
				break
			}
			nm, _ := p.expect(token.Ident)
			p.declareLocal(s, nm.Val, nm.Span)
			params = append(params, nm.Val)
			if !p.mayExpect(token.Comma) {
				break
			}
		}
	}
	p.expect(token.RParen)

	p.skipMetaReturnSpec()

	body := p.parseBlock()
	p.scopes.SetSpan(s, body.Span)
	p.popScope()

	end, _ := p.expect(token.End)

	n := &ast.Node{Kind: ast.FuncLit, Span: open.Span.Union(end.Span), Extra: funcSig{Params: params, Varargs: varargs}}
	n.Children = append(n.Children, body)
	return n
}

/*
funcSig is the Extra payload of an ast.FuncLit node: its parameter names
in declaration order and whether it accepts varargs.
*/
type funcSig struct {
	Params  []string
	Varargs bool
}

/*
parseLocal parses `local Name [, Name...] [= exprlist]` and `local
function Name(...) body end`. The new scope is generated only after the
initializer expressions (or, for local function, after the name itself
is bound in its own sibling scope so the function can recurse) have been
parsed, so the name is not visible to its own right-hand side outside
the `local function` exception - kailua's sibling-scope rule.
*/
func (p *Parser) parseLocal() *ast.Node {
	start := p.read() // local

	if p.peek().Kind == token.Function {
		p.read()
		nameTok, _ := p.expect(token.Ident)

		sib := p.generateSiblingScope()
		ref := p.declareLocal(sib, nameTok.Val, nameTok.Span)
		p.scopeStack[len(p.scopeStack)-1] = sib
		body := p.parseFuncBody(false)

		n := &ast.Node{
			Kind: ast.LocalDecl, Name: nameTok.Val,
			Span: start.Span.Union(body.Span), Extra: ref,
		}
		n.Children = append(n.Children, &ast.Node{Kind: ast.NameVar, Name: nameTok.Val, Span: nameTok.Span}, body)
		return n
	}

	var names []token.Token
	names = append(names, mustIdent(p))
	for p.mayExpect(token.Comma) {
		names = append(names, mustIdent(p))
	}

	var inits []*ast.Node
	if p.mayExpect(token.Equal) {
		inits = append(inits, p.parseExpr())
		for p.mayExpect(token.Comma) {
			inits = append(inits, p.parseExpr())
		}
	}

	// local's new bindings only become visible in a sibling scope created
	// after the initializers are parsed.
	sib := p.generateSiblingScope()
	refs := make([]scope.NameRef, len(names))
	for i, nm := range names {
		refs[i] = p.declareLocal(sib, nm.Val, nm.Span)
	}
	// the remainder of the enclosing block continues to be parsed by the
	// caller with this scope current; popScope happens when the block
	// that contains this statement finishes (parseScopedBlock/parseBlock
	// callers pop their own scope, and the sibling scope set up here
	// simply becomes an ancestor of everything that follows).
	p.scopeStack[len(p.scopeStack)-1] = sib

	span := start.Span
	if len(inits) > 0 {
		span = span.Union(inits[len(inits)-1].Span)
	} else {
		span = span.Union(names[len(names)-1].Span)
	}

	n := &ast.Node{Kind: ast.LocalDecl, Span: span, Extra: refs}
	n.Children = append(n.Children, inits...)
	return n
}

func mustIdent(p *Parser) token.Token {
	t, _ := p.expect(token.Ident)
	return t
}

func (p *Parser) parseReturn() *ast.Node {
	start := p.read() // return
	n := &ast.Node{Kind: ast.Return, Span: start.Span}

	if !isBlockEnd(p.peek().Kind) && p.peek().Kind != token.Semi {
		n.Children = append(n.Children, p.parseExpr())
		for p.mayExpect(token.Comma) {
			n.Children = append(n.Children, p.parseExpr())
		}
	}
	p.mayExpect(token.Semi)

	if len(n.Children) > 0 {
		n.Span = n.Span.Union(n.Children[len(n.Children)-1].Span)
	}
	return n
}

/*
parseExprStmt parses an assignment or a bare function/method call used as
a statement, disambiguated the way kailua's try_parse_prefix_exp followed
by a check for `=`/`,` does.

It returns a non-nil error (always a *recover.Stop) when an assignment
target fails to parse (for the first target, nothing has then been
consumed) or when the parsed expression is neither an assignment nor a
call - the cases parseBlock must hand to recoverpkg.UpTo so the parser
skips forward instead of re-parsing the same token forever.
*/
func (p *Parser) parseExprStmt() (*ast.Node, error) {
	first, err := p.parsePrefixExpr()
	if err != nil {
		return &ast.Node{Kind: ast.OopsStmt, Span: first.Span}, err
	}

	if p.peek().Kind == token.Equal || p.peek().Kind == token.Comma {
		targets := []*ast.Node{first}
		for p.mayExpect(token.Comma) {
			t, err := p.parsePrefixExpr()
			if err != nil {
				return &ast.Node{Kind: ast.OopsStmt, Span: t.Span}, err
			}
			targets = append(targets, t)
		}
		p.expect(token.Equal)

		registerAssignTargets(p, targets)

		var values []*ast.Node
		values = append(values, p.parseExpr())
		for p.mayExpect(token.Comma) {
			values = append(values, p.parseExpr())
		}

		span := targets[0].Span.Union(values[len(values)-1].Span)
		n := &ast.Node{Kind: ast.Assign, Span: span}
		n.Children = append(n.Children, targets...)
		n.Children = append(n.Children, values...)
		return n, nil
	}

	if first.Kind == ast.Call || first.Kind == ast.MethodCall {
		return &ast.Node{Kind: ast.VoidExpr, Span: first.Span, Children: []*ast.Node{first}}, nil
	}

	p.reportSpan(diag.Recover, first.Span, &diag.Expected{Wanted: []string{"=", "call"}, Got: p.peek().Kind.String()})
	return &ast.Node{Kind: ast.OopsStmt, Span: first.Span}, &recoverpkg.Stop{Grade: recoverpkg.Recover, Reason: "expression statement is neither an assignment nor a call"}
}

/*
registerAssignTargets records the root name of each confirmed
assignment-LHS target in p.globals when it resolved to a global - the
only read path (besides a function-decl root name and an `assume
global` directive) spec.md's globals-accuracy rule allows to populate
the global set. A target like `t.x` or `t[k]` walks down to the root
NameVar; an Oops target (recovery already failed on it) has none.
*/
func registerAssignTargets(p *Parser, targets []*ast.Node) {
	for _, t := range targets {
		root := t
		for root != nil && (root.Kind == ast.FieldVar || root.Kind == ast.IndexVar) {
			if len(root.Children) == 0 {
				root = nil
				break
			}
			root = root.Children[0]
		}
		if root == nil || root.Kind != ast.NameVar {
			continue
		}
		if ref, ok := root.NameRef(); ok && !ref.IsLocal() {
			p.globals[ref.Name()] = struct{}{}
		}
	}
}
