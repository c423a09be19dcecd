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
Package token defines the lexical categories, spans and positions shared
between the lexer, the token buffer and the parser.
*/
package token

import "fmt"

/*
Kind identifies the lexical category of a Token. The enumeration is closed:
every value the lexer can produce has a named constant below.
*/
type Kind int

/*
Token categories, grouped the way the value is classified by Kind.String -
value tokens, constructed/meta tokens, punctuation, keywords.
*/
const (
	EOF Kind = iota
	Error
	Comment
	Newline // synthetic, emitted only inside a meta comment
	Ident
	Number
	String

	firstPunct
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Semi
	Dot
	DotDot
	Ellipsis
	Colon
	DblColon
	Equal
	Eq
	NotEq
	Lt
	Gt
	Leq
	Geq
	Plus
	Minus
	Star
	Slash
	Percent
	Caret
	Hash
	Pipe
	Question
	Bang
	Shl
	Shr
	MetaBeginFunc  // --v
	MetaBeginDirec // --#
	MetaBeginSpec  // --:
	MetaBeginRet   // -->
	lastPunct

	firstKeyword
	And
	Assume
	Break
	Do
	Else
	Elseif
	End
	False
	For
	Function
	Global
	Goto
	If
	In
	Local
	Nil
	Not
	Open
	Or
	Repeat
	Return
	Then
	True
	Type
	Until
	While
	lastKeyword
)

/*
Keywords maps the textual spelling of every base-language and meta-comment
keyword to its Kind. assume/open/type/global are only meaningful in
meta-comment position, but the lexer classifies them as keywords
everywhere, and the parser does not accept them where the grammar calls
for a name.
*/
var Keywords = map[string]Kind{
	"and": And, "assume": Assume, "break": Break, "do": Do, "else": Else,
	"elseif": Elseif, "end": End, "false": False, "for": For,
	"function": Function, "global": Global, "goto": Goto, "if": If,
	"in": In, "local": Local, "nil": Nil, "not": Not, "open": Open,
	"or": Or, "repeat": Repeat, "return": Return, "then": Then,
	"true": True, "type": Type, "until": Until, "while": While,
}

var names = map[Kind]string{
	EOF: "<eof>", Error: "<error>", Comment: "<comment>", Newline: "<newline>",
	Ident: "<name>", Number: "<number>", String: "<string>",

	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}",
	LBracket: "[", RBracket: "]", Comma: ",", Semi: ";", Dot: ".",
	DotDot: "..", Ellipsis: "...", Colon: ":", DblColon: "::", Equal: "=",
	Eq: "==", NotEq: "~=", Lt: "<", Gt: ">", Leq: "<=", Geq: ">=",
	Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%", Caret: "^",
	Hash: "#", Pipe: "|", Question: "?", Bang: "!", Shl: "<<", Shr: ">>",
	MetaBeginFunc: "--v", MetaBeginDirec: "--#", MetaBeginSpec: "--:",
	MetaBeginRet: "-->",

	And: "and", Assume: "assume", Break: "break", Do: "do", Else: "else",
	Elseif: "elseif", End: "end", False: "false", For: "for",
	Function: "function", Global: "global", Goto: "goto", If: "if",
	In: "in", Local: "local", Nil: "nil", Not: "not", Open: "open",
	Or: "or", Repeat: "repeat", Return: "return", Then: "then",
	True: "true", Type: "type", Until: "until", While: "while",
}

/*
IsMetaBegin reports whether k is one of the four meta-comment delimiters.
*/
func (k Kind) IsMetaBegin() bool {
	return k == MetaBeginFunc || k == MetaBeginDirec || k == MetaBeginSpec || k == MetaBeginRet
}

/*
IsPunct reports whether k is a punctuation-class token (including the
meta-begin delimiters, which are lexically punctuation even though they
behave like statement-level keywords for nesting purposes).
*/
func (k Kind) IsPunct() bool {
	return k > firstPunct && k < lastPunct
}

/*
IsKeyword reports whether k is a reserved word of the base language.
*/
func (k Kind) IsKeyword() bool {
	return k > firstKeyword && k < lastKeyword
}

/*
String returns a human-readable name for k, used in diagnostics.
*/
func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

/*
Pos is a single point in the source, tracked the way the teacher's LexToken
tracks Pos/Lline/Lpos - byte offset plus a human line/column for messages.
*/
type Pos struct {
	Offset int
	Line   int
	Column int
}

/*
DummyPos is the sentinel position used before any token has been read.
*/
var DummyPos = Pos{Offset: -1}

/*
IsDummy reports whether p is the sentinel position.
*/
func (p Pos) IsDummy() bool { return p.Offset < 0 }

func (p Pos) String() string {
	if p.IsDummy() {
		return "?"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

/*
Span covers a half-open range [Begin, End) of source positions.
*/
type Span struct {
	Begin Pos
	End   Pos
}

/*
DummySpan is the sentinel span returned before the parser has read anything
and used for synthetic nodes produced by error recovery.
*/
var DummySpan = Span{Begin: DummyPos, End: DummyPos}

/*
IsDummy reports whether s is the sentinel span.
*/
func (s Span) IsDummy() bool { return s.Begin.IsDummy() && s.End.IsDummy() }

/*
Union returns the smallest span covering both s and o. A dummy operand is
ignored; Union of two dummies is dummy.
*/
func (s Span) Union(o Span) Span {
	if s.IsDummy() {
		return o
	}
	if o.IsDummy() {
		return s
	}
	begin, end := s.Begin, s.End
	if o.Begin.Offset < begin.Offset {
		begin = o.Begin
	}
	if o.End.Offset > end.Offset {
		end = o.End
	}
	return Span{Begin: begin, End: end}
}

func (s Span) String() string {
	return fmt.Sprintf("%v-%v", s.Begin, s.End)
}

/*
Token is the unit the lexer produces and the buffer/parser consume. It
mirrors the teacher's LexToken (ID, Pos, Val, Identifier-ness) but carries
a Span instead of a single Pos plus a separately tracked width.
*/
type Token struct {
	Kind Kind
	Span Span
	Val  string // literal text: identifier name, string contents, number text
}

func (t Token) String() string {
	if t.Val != "" && (t.Kind == Ident || t.Kind == Number || t.Kind == String) {
		return fmt.Sprintf("%v(%q)", t.Kind, t.Val)
	}
	return t.Kind.String()
}
