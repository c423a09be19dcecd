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
Meta-comment grammar: --v function signature specs, --# assume/open/type
directives, and --: inline type specs, layered on top of the
base-language statement/expression grammar in statements.go/expr.go.

Grounded on kailua_syntax/parser.rs's try_parse_kailua_* family
(try_parse_kailua_atomic_kind_seq, try_parse_kailua_func_spec,
try_parse_kailua_spec), simplified to the subset of the type grammar
spec.md's kind enumeration names: primitives, nil/bool/int/str literal
types, named types, arrays, maps, tuples, records, function types,
unions, and the ?/! nil-modifier suffixes.
*/
package parser

import (
	"strings"

	"devt.de/krotik/tylua/ast"
	"devt.de/krotik/tylua/diag"
	"devt.de/krotik/tylua/scope"
	"devt.de/krotik/tylua/token"
)

var primitiveTypeNames = map[string]bool{
	"boolean": true, "number": true, "string": true, "table": true,
	"thread": true, "userdata": true, "any": true, "integer": true,
}

/*
parseMetaFuncSpecStmt parses a --v function signature spec: `function
(name : type, ...) [--> type | : type]` followed by the terminating
newline.
*/
func (p *Parser) parseMetaFuncSpecStmt() *ast.Node {
	start := p.read() // --v
	p.buf.BeginMetaComment(token.MetaBeginFunc)

	p.expect(token.Function)
	p.expect(token.LParen)

	var params []*ast.Node
	if p.peek().Kind != token.RParen {
		for {
			nm, _ := p.expect(token.Ident)
			p.expect(token.Colon)
			ty := p.parseType()
			params = append(params, &ast.Node{
				Kind: ast.KindNamed, Name: nm.Val,
				Span: nm.Span.Union(ty.Span), Children: []*ast.Node{ty},
			})
			if !p.mayExpect(token.Comma) {
				break
			}
		}
	}
	p.expect(token.RParen)

	var ret *ast.Node
	if p.mayExpect(token.MetaBeginRet) || p.mayExpect(token.Colon) {
		ret = p.parseType()
	}

	end := p.peek().Span
	p.mayExpect(token.Newline)
	p.buf.EndMetaComment()

	n := &ast.Node{Kind: ast.KailuaType, Name: "funcspec", Span: start.Span.Union(end)}
	n.Children = append(n.Children, params...)
	if ret != nil {
		n.Children = append(n.Children, ret)
	}
	return n
}

/*
parseMetaDirective parses a --# assume/open/type directive.
*/
func (p *Parser) parseMetaDirective() *ast.Node {
	start := p.read() // --#
	p.buf.BeginMetaComment(token.MetaBeginDirec)

	var result *ast.Node

	switch p.peek().Kind {
	case token.Assume:
		p.read()
		global := p.mayExpect(token.Global)
		name, _ := p.expect(token.Ident)
		p.expect(token.Colon)
		ty := p.parseType()

		var ref scope.NameRef
		if global {
			p.globals[name.Val] = struct{}{}
			ref = scope.Global(name.Val)
		} else {
			sib := p.generateSiblingScope()
			ref = p.declareLocal(sib, name.Val, name.Span)
			p.scopeStack[len(p.scopeStack)-1] = sib
		}

		result = &ast.Node{
			Kind: ast.KailuaAssume, Name: name.Val,
			Span: start.Span.Union(ty.Span), Extra: ref,
			Children: []*ast.Node{ty},
		}

	case token.Open:
		p.read()
		name, _ := p.expect(token.Ident)
		result = &ast.Node{Kind: ast.KailuaOpen, Name: name.Val, Span: start.Span.Union(name.Span)}

	case token.Type:
		p.read()
		name, _ := p.expect(token.Ident)
		p.expect(token.Equal)
		ty := p.parseType()
		result = &ast.Node{
			Kind: ast.KailuaType, Name: name.Val,
			Span: start.Span.Union(ty.Span), Children: []*ast.Node{ty},
		}

	default:
		tok := p.peek()
		p.reportSpan(diag.Recover, tok.Span, &diag.Expected{
			Wanted: []string{"assume", "open", "type"}, Got: tok.Kind.String(),
		})
		p.buf.SkipMetaComment()
		p.buf.EndMetaComment()
		return &ast.Node{Kind: ast.OopsStmt, Span: start.Span}
	}

	p.mayExpect(token.Newline)
	p.buf.EndMetaComment()
	return result
}

/*
parseMetaTypeSpecStmt parses a standalone --: inline type spec comment.
*/
func (p *Parser) parseMetaTypeSpecStmt() *ast.Node {
	start := p.read() // --:
	p.buf.BeginMetaComment(token.MetaBeginSpec)

	ty := p.parseType()

	p.mayExpect(token.Newline)
	p.buf.EndMetaComment()

	return &ast.Node{Kind: ast.KailuaType, Name: "spec", Span: start.Span.Union(ty.Span), Children: []*ast.Node{ty}}
}

/*
skipMetaReturnSpec consumes an optional `--> type` return-type spec
immediately following a function parameter list's closing paren, for
ordinary (non --v-annotated) function bodies. The type itself is parsed
only to consume it correctly across any elided continuation lines; it is
not attached to the AST, mirroring an annotation a plain-Lua-compatible
parser is allowed to ignore.
*/
func (p *Parser) skipMetaReturnSpec() {
	if p.peek().Kind != token.MetaBeginRet {
		return
	}
	p.read()
	p.buf.BeginMetaComment(token.MetaBeginRet)
	p.parseType()
	p.mayExpect(token.Newline)
	p.buf.EndMetaComment()
}

/*
parseType parses a full type expression: an atom (with array/nil-modifier
suffixes) optionally followed by a `|` union.
*/
func (p *Parser) parseType() *ast.Node {
	first := p.parseTypeSuffixed()

	if p.peek().Kind != token.Pipe {
		return first
	}

	members := []*ast.Node{first}
	span := first.Span
	for p.mayExpect(token.Pipe) {
		m := p.parseTypeSuffixed()
		members = append(members, m)
		span = span.Union(m.Span)
	}

	return &ast.Node{Kind: ast.KindUnion, Span: span, Children: members}
}

func (p *Parser) parseTypeSuffixed() *ast.Node {
	base := p.parseTypeAtom()

	for {
		switch p.peek().Kind {
		case token.Question:
			q := p.read()
			base = &ast.Node{Kind: ast.KindWithNil, Span: base.Span.Union(q.Span), Children: []*ast.Node{base}}
		case token.Bang:
			b := p.read()
			base = &ast.Node{Kind: ast.KindWithoutNil, Span: base.Span.Union(b.Span), Children: []*ast.Node{base}}
		case token.LBracket:
			if !p.isEmptyBracketPairAhead() {
				return base
			}
			open := p.read()
			close_, _ := p.expect(token.RBracket)
			base = &ast.Node{Kind: ast.KindArray, Span: base.Span.Union(open.Span).Union(close_.Span), Children: []*ast.Node{base}}
		default:
			return base
		}
	}
}

/*
isEmptyBracketPairAhead reports whether the next two tokens are `[` `]`
with nothing between them - the array-type suffix - without consuming
them.
*/
func (p *Parser) isEmptyBracketPairAhead() bool {
	tok, side := p.buf.Read()
	next := p.buf.Peek()
	p.buf.Unread(tok, side)
	return next.Kind == token.RBracket
}

func (p *Parser) parseTypeAtom() *ast.Node {
	tok := p.peek()

	switch tok.Kind {
	case token.Nil:
		p.read()
		return &ast.Node{Kind: ast.KindNil, Span: tok.Span}

	case token.True:
		p.read()
		return &ast.Node{Kind: ast.KindBoolLit, Name: "true", Span: tok.Span}

	case token.False:
		p.read()
		return &ast.Node{Kind: ast.KindBoolLit, Name: "false", Span: tok.Span}

	case token.Number:
		p.read()
		return &ast.Node{Kind: ast.KindIntLit, Name: tok.Val, Span: tok.Span}

	case token.String:
		p.read()
		return &ast.Node{Kind: ast.KindStrLit, Name: tok.Val, Span: tok.Span}

	case token.LBrace:
		return p.parseTableType()

	case token.Ident:
		p.read()
		lower := strings.ToLower(tok.Val)

		if lower == "function" {
			if p.peek().Kind == token.LParen {
				return p.parseFuncTypeTail(tok)
			}
			return &ast.Node{Kind: ast.KindPrim, Name: "function", Span: tok.Span}
		}

		if primitiveTypeNames[lower] {
			return &ast.Node{Kind: ast.KindPrim, Name: lower, Span: tok.Span}
		}

		return &ast.Node{Kind: ast.KindNamed, Name: tok.Val, Span: tok.Span}

	case token.Function:
		p.read()
		return p.parseFuncTypeTail(tok)
	}

	p.reportSpan(diag.Recover, tok.Span, &diag.Expected{Wanted: []string{"type"}, Got: tok.Kind.String()})
	return &ast.Node{Kind: ast.KindOops, Span: tok.Span}
}

func (p *Parser) parseFuncTypeTail(start token.Token) *ast.Node {
	p.expect(token.LParen)
	var params []*ast.Node
	if p.peek().Kind != token.RParen {
		params = append(params, p.parseType())
		for p.mayExpect(token.Comma) {
			params = append(params, p.parseType())
		}
	}
	end, _ := p.expect(token.RParen)

	n := &ast.Node{Kind: ast.KindFunc, Span: start.Span.Union(end.Span)}
	paramsNode := &ast.Node{Kind: ast.KindTuple, Span: start.Span.Union(end.Span), Children: params}
	n.Children = append(n.Children, paramsNode)

	if p.mayExpect(token.MetaBeginRet) {
		ret := p.parseType()
		n.Children = append(n.Children, ret)
		n.Span = n.Span.Union(ret.Span)
	} else if p.mayExpect(token.Colon) {
		ret := p.parseType()
		n.Children = append(n.Children, ret)
		n.Span = n.Span.Union(ret.Span)
	}

	return n
}

/*
parseTableType parses the four table-shaped type forms: `{}` (empty
record), `{name: type, ...}` (record), `{keytype : valtype}` (map), and
`{type, ...}` (array when one element, tuple when more than one).
*/
func (p *Parser) parseTableType() *ast.Node {
	start, _ := p.expect(token.LBrace)

	if p.peek().Kind == token.RBrace {
		end := p.read()
		return &ast.Node{Kind: ast.KindRecord, Span: start.Span.Union(end.Span)}
	}

	if p.peek().Kind == token.Ident && p.isColonAhead() {
		var fields []*ast.Node
		for {
			name, _ := p.expect(token.Ident)
			p.expect(token.Colon)
			ty := p.parseType()
			fields = append(fields, &ast.Node{
				Kind: ast.KindNamed, Name: name.Val,
				Span: name.Span.Union(ty.Span), Children: []*ast.Node{ty},
			})
			if !p.mayExpect(token.Comma) {
				break
			}
			if p.peek().Kind == token.RBrace {
				break
			}
		}
		end, _ := p.expect(token.RBrace)
		return &ast.Node{Kind: ast.KindRecord, Span: start.Span.Union(end.Span), Children: fields}
	}

	first := p.parseType()

	if p.mayExpect(token.Colon) {
		val := p.parseType()
		end, _ := p.expect(token.RBrace)
		return &ast.Node{Kind: ast.KindMap, Span: start.Span.Union(end.Span), Children: []*ast.Node{first, val}}
	}

	items := []*ast.Node{first}
	for p.mayExpect(token.Comma) {
		items = append(items, p.parseType())
	}
	end, _ := p.expect(token.RBrace)

	if len(items) == 1 {
		return &ast.Node{Kind: ast.KindArray, Span: start.Span.Union(end.Span), Children: items}
	}
	return &ast.Node{Kind: ast.KindTuple, Span: start.Span.Union(end.Span), Children: items}
}

/*
isColonAhead reports whether the token after the next one is `:` -
disambiguating a record's `name: type` field from a map's `type : type`
key, both of which can start with what looks like a bare name.
*/
func (p *Parser) isColonAhead() bool {
	tok, side := p.buf.Read()
	next := p.buf.Peek()
	p.buf.Unread(tok, side)
	return next.Kind == token.Colon
}
