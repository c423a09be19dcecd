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
	"devt.de/krotik/tylua/token"
)

/*
binopPrec gives the left-binding power of each binary operator token, a
standard Lua precedence table (low to high): or, and, comparisons,
concat (right-assoc), additive, multiplicative, unary, exponent
(right-assoc). Concat is handled by its own right-associative branch in
parseBinExpr and exponent by parsePowExpr; this table only drives the
left-associative levels.
*/
var binopPrec = map[token.Kind]int{
	token.Or:  1,
	token.And: 2,

	token.Lt: 3, token.Gt: 3, token.Leq: 3, token.Geq: 3,
	token.NotEq: 3, token.Eq: 3,

	token.Plus: 5, token.Minus: 5,

	token.Star: 6, token.Slash: 6, token.Percent: 6,
}

const (
	precConcat = 4
	precUnary  = 7
	precCaret  = 8
)

/*
parseExpr parses a full expression using precedence climbing, grounded on
kailua_syntax's try_parse_left_assoc_binary_exp/
try_parse_right_assoc_binary_exp family collapsed into one climbing loop
- the idiomatic Go shape for an operator-precedence parser, in the same
spirit as the teacher's run(rightBinding) core (parser/parser.go).
*/
func (p *Parser) parseExpr() *ast.Node {
	return p.parseBinExpr(0)
}

func (p *Parser) parseBinExpr(minPrec int) *ast.Node {
	left := p.parseUnaryExpr()

	for {
		tok := p.peek()

		if tok.Kind == token.DotDot {
			if precConcat < minPrec {
				break
			}
			p.read()
			right := p.parseBinExpr(precConcat) // right-assoc: same prec on the right
			left = &ast.Node{Kind: ast.Binop, Name: "..", Span: left.Span.Union(right.Span), Children: []*ast.Node{left, right}}
			continue
		}

		prec, ok := binopPrec[tok.Kind]
		if !ok || prec < minPrec {
			break
		}

		p.read()
		right := p.parseBinExpr(prec + 1)
		left = &ast.Node{Kind: ast.Binop, Name: tok.Kind.String(), Span: left.Span.Union(right.Span), Children: []*ast.Node{left, right}}
	}

	return left
}

func (p *Parser) parseUnaryExpr() *ast.Node {
	tok := p.peek()
	switch tok.Kind {
	case token.Not, token.Minus, token.Hash:
		p.read()
		operand := p.parseBinExpr(precUnary)
		return &ast.Node{Kind: ast.Unop, Name: tok.Kind.String(), Span: tok.Span.Union(operand.Span), Children: []*ast.Node{operand}}
	}
	return p.parsePowExpr()
}

func (p *Parser) parsePowExpr() *ast.Node {
	base := p.parseAtomExpr()
	if p.peek().Kind == token.Caret {
		p.read()
		exp := p.parseBinExpr(precCaret) // right-assoc
		return &ast.Node{Kind: ast.Binop, Name: "^", Span: base.Span.Union(exp.Span), Children: []*ast.Node{base, exp}}
	}
	return base
}

/*
parseAtomExpr parses a literal, table constructor, function literal, or a
prefix expression (name/paren/index/call chain) - kailua's
try_parse_atomic_exp.
*/
func (p *Parser) parseAtomExpr() *ast.Node {
	tok := p.peek()

	switch tok.Kind {
	case token.Nil:
		p.read()
		return &ast.Node{Kind: ast.NilLit, Span: tok.Span}
	case token.True:
		p.read()
		return &ast.Node{Kind: ast.TrueLit, Span: tok.Span}
	case token.False:
		p.read()
		return &ast.Node{Kind: ast.FalseLit, Span: tok.Span}
	case token.Number:
		p.read()
		return &ast.Node{Kind: ast.NumberLit, Name: tok.Val, Span: tok.Span}
	case token.String:
		p.read()
		return &ast.Node{Kind: ast.StringLit, Name: tok.Val, Span: tok.Span}
	case token.Ellipsis:
		p.read()
		return &ast.Node{Kind: ast.Varargs, Span: tok.Span}
	case token.Function:
		p.read()
		return p.parseFuncBody(false)
	case token.LBrace:
		return p.parseTableCtor()
	}

	n, _ := p.parsePrefixExpr()
	return n
}

/*
parsePrefixExpr parses a name or parenthesized expression followed by any
number of .field, [expr], :method(args), (args) suffixes - kailua's
try_parse_prefix_exp.

Returns a non-nil error (a *recover.Stop) only when the leading token was
neither `(` nor an identifier, in which case nothing was consumed - the
one failure mode in this function a caller in statement position must
propagate to recoverpkg.UpTo instead of silently retrying (parser.go's
expect doc comment, parser/statements.go's parseBlock).
*/
func (p *Parser) parsePrefixExpr() (*ast.Node, error) {
	tok := p.peek()

	var cur *ast.Node
	if tok.Kind == token.LParen {
		p.read()
		inner := p.parseExpr()
		end, _ := p.expect(token.RParen)
		cur = &ast.Node{Kind: inner.Kind, Name: inner.Name, Span: tok.Span.Union(end.Span), Children: inner.Children, Extra: inner.Extra}
	} else {
		name, err := p.expect(token.Ident)
		if err != nil {
			return &ast.Node{Kind: ast.OopsExpr, Span: tok.Span}, err
		}
		cur = &ast.Node{Kind: ast.NameVar, Name: name.Val, Span: name.Span, Extra: p.resolveName(name.Val)}
	}

	for {
		switch p.peek().Kind {
		case token.Dot:
			p.read()
			field, _ := p.expect(token.Ident)
			cur = &ast.Node{Kind: ast.FieldVar, Name: field.Val, Span: cur.Span.Union(field.Span), Children: []*ast.Node{cur}}

		case token.LBracket:
			p.read()
			idx := p.parseExpr()
			end, _ := p.expect(token.RBracket)
			cur = &ast.Node{Kind: ast.IndexVar, Span: cur.Span.Union(end.Span), Children: []*ast.Node{cur, idx}}

		case token.Colon:
			p.read()
			method, _ := p.expect(token.Ident)
			args := p.parseArgs()
			span := cur.Span
			if len(args) > 0 {
				span = span.Union(args[len(args)-1].Span)
			}
			n := &ast.Node{Kind: ast.MethodCall, Name: method.Val, Span: span}
			n.Children = append(n.Children, cur)
			n.Children = append(n.Children, args...)
			cur = n

		case token.LParen, token.String, token.LBrace:
			args := p.parseArgs()
			span := cur.Span
			if len(args) > 0 {
				span = span.Union(args[len(args)-1].Span)
			}
			n := &ast.Node{Kind: ast.Call, Span: span}
			n.Children = append(n.Children, cur)
			n.Children = append(n.Children, args...)
			cur = n

		default:
			return cur, nil
		}
	}
}

/*
parseArgs parses a call's argument list: a parenthesized exprlist, a bare
string literal, or a bare table constructor - the three forms Lua's
`args` production allows.
*/
func (p *Parser) parseArgs() []*ast.Node {
	tok := p.peek()

	switch tok.Kind {
	case token.String:
		p.read()
		return []*ast.Node{{Kind: ast.StringLit, Name: tok.Val, Span: tok.Span}}

	case token.LBrace:
		return []*ast.Node{p.parseTableCtor()}

	case token.LParen:
		p.read()
		var args []*ast.Node
		if p.peek().Kind != token.RParen {
			args = append(args, p.parseExpr())
			for p.mayExpect(token.Comma) {
				args = append(args, p.parseExpr())
			}
		}
		p.expect(token.RParen)
		return args
	}

	p.reportSpan(diag.Recover, tok.Span, &diag.Expected{Wanted: []string{"(", "string", "{"}, Got: tok.Kind.String()})
	return nil
}

/*
parseTableCtor parses `{ [expr]=expr | name=expr | expr , ... }` -
kailua's parse_table_body. Extra on the resulting node carries nothing;
each field is represented as a two-child node (key, value), with a nil
key child standing in for a positional (array-style) entry.
*/
func (p *Parser) parseTableCtor() *ast.Node {
	start, _ := p.expect(token.LBrace)
	n := &ast.Node{Kind: ast.TableCtor, Span: start.Span}

	for p.peek().Kind != token.RBrace && p.peek().Kind != token.EOF {
		var field *ast.Node

		switch {
		case p.peek().Kind == token.LBracket:
			p.read()
			key := p.parseExpr()
			p.expect(token.RBracket)
			p.expect(token.Equal)
			val := p.parseExpr()
			field = &ast.Node{Kind: ast.TableCtor, Span: key.Span.Union(val.Span), Children: []*ast.Node{key, val}}

		case p.peek().Kind == token.Ident && p.peekAheadIsEqual():
			nameTok := p.read()
			p.read() // =
			val := p.parseExpr()
			key := &ast.Node{Kind: ast.StringLit, Name: nameTok.Val, Span: nameTok.Span}
			field = &ast.Node{Kind: ast.TableCtor, Span: nameTok.Span.Union(val.Span), Children: []*ast.Node{key, val}}

		default:
			val := p.parseExpr()
			field = &ast.Node{Kind: ast.TableCtor, Span: val.Span, Children: []*ast.Node{nil, val}}
		}

		n.Children = append(n.Children, field)

		if !p.mayExpect(token.Comma) && !p.mayExpect(token.Semi) {
			break
		}
	}

	end, _ := p.expect(token.RBrace)
	n.Span = n.Span.Union(end.Span)
	return n
}

/*
peekAheadIsEqual reports whether the token after the next one is '=' -
used to disambiguate `name = expr` table fields from a bare positional
expression starting with a name. Reads the name token off the buffer,
peeks past it, then unreads the name so the caller sees it again.
*/
func (p *Parser) peekAheadIsEqual() bool {
	nameTok, side := p.buf.Read()
	second := p.buf.Peek()
	p.buf.Unread(nameTok, side)
	return second.Kind == token.Equal
}
