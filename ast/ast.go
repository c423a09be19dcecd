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
Package ast defines the single tagged-tree node the parser builds, and the
Chunk that wraps a fully parsed source file.

Rather than a Go interface per statement or expression form, every node
is the same struct carrying a Kind tag, following the teacher's ASTNode
design (parser/helper.go) - dispatch on Kind plays the role a sum type or
an interface hierarchy would play in other idioms.
*/
package ast

import (
	"fmt"
	"strings"

	"devt.de/krotik/tylua/scope"
	"devt.de/krotik/tylua/token"

	"devt.de/krotik/common/stringutil"
)

/*
Kind tags a Node with its grammatical form. The zero value is never a
valid Kind produced by the parser - Invalid exists to catch
uninitialized nodes in tests.
*/
type Kind int

const (
	Invalid Kind = iota

	// statements
	Block
	Do
	While
	Repeat
	If
	ForNum
	ForIn
	FuncDecl
	MethodDecl
	LocalDecl
	Assign
	VoidExpr
	Return
	Break
	Goto
	GotoLabel
	KailuaAssume
	KailuaOpen
	KailuaType
	OopsStmt

	// expressions
	NilLit
	TrueLit
	FalseLit
	NumberLit
	StringLit
	Varargs
	Unop
	Binop
	FuncLit
	TableCtor
	NameVar
	IndexVar
	FieldVar
	Call
	MethodCall
	OopsExpr

	// type-atom kinds (meta-comment grammar)
	KindPrim
	KindNil
	KindBoolLit
	KindIntLit
	KindStrLit
	KindNamed
	KindArray
	KindMap
	KindTuple
	KindRecord
	KindFunc
	KindUnion
	KindWithNil
	KindWithoutNil
	KindAttr
	KindError
	KindOops
)

var kindNames = map[Kind]string{
	Invalid: "invalid",

	Block: "block", Do: "do", While: "while", Repeat: "repeat", If: "if", ForNum: "forNum",
	ForIn: "forIn", FuncDecl: "funcDecl", MethodDecl: "methodDecl",
	LocalDecl: "localDecl", Assign: "assign", VoidExpr: "voidExpr",
	Return: "return", Break: "break", Goto: "goto", GotoLabel: "gotoLabel",
	KailuaAssume: "kailuaAssume", KailuaOpen: "kailuaOpen",
	KailuaType: "kailuaType", OopsStmt: "oopsStmt",

	NilLit: "nilLit", TrueLit: "trueLit", FalseLit: "falseLit",
	NumberLit: "numberLit", StringLit: "stringLit", Varargs: "varargs",
	Unop: "unop", Binop: "binop", FuncLit: "funcLit", TableCtor: "tableCtor",
	NameVar: "nameVar", IndexVar: "indexVar", FieldVar: "fieldVar",
	Call: "call", MethodCall: "methodCall", OopsExpr: "oopsExpr",

	KindPrim: "kindPrim", KindNil: "kindNil", KindBoolLit: "kindBoolLit",
	KindIntLit: "kindIntLit", KindStrLit: "kindStrLit", KindNamed: "kindNamed",
	KindArray: "kindArray", KindMap: "kindMap", KindTuple: "kindTuple",
	KindRecord: "kindRecord", KindFunc: "kindFunc", KindUnion: "kindUnion",
	KindWithNil: "kindWithNil", KindWithoutNil: "kindWithoutNil",
	KindAttr: "kindAttr", KindError: "kindError", KindOops: "kindOops",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

/*
Node is the single representation for every statement, expression and
type-atom the parser produces. Name carries operator text (Unop "-" vs
"not", Binop "+" vs ".."), literal text (NumberLit, StringLit and the
literal type kinds) or a declared, field, method or type name; Extra
carries a kind-specific payload that does not fit the Children list (a
resolved scope.NameRef, a []scope.NameRef for multi-name declarations, or
a function literal's parameter signature).
*/
type Node struct {
	Kind     Kind
	Name     string
	Span     token.Span
	Children []*Node
	Extra    interface{}
}

/*
New creates a Node with no children, ready to have Children appended by
the caller.
*/
func New(kind Kind, span token.Span) *Node {
	return &Node{Kind: kind, Span: span}
}

/*
Oops builds a dummy error-recovery node of the given kind, spanning the
dummy span - grounded on the teacher's instance() zero-value convention
(parser/helper.go) and on kailua's Oops AST variants.
*/
func Oops(kind Kind) *Node {
	return &Node{Kind: kind, Span: token.DummySpan}
}

/*
IsOops reports whether n is an OopsStmt or OopsExpr placeholder (KindOops
is not included).
*/
func (n *Node) IsOops() bool {
	return n != nil && (n.Kind == OopsStmt || n.Kind == OopsExpr)
}

/*
WithChildren appends children to n and returns n, for fluent construction
in the parser's node-building helpers.
*/
func (n *Node) WithChildren(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

/*
NameRef returns the resolved scope.NameRef stored in Extra for NameVar
nodes, or the zero value and false if none was resolved (for instance
during error recovery, when resolution is skipped).
*/
func (n *Node) NameRef() (scope.NameRef, bool) {
	ref, ok := n.Extra.(scope.NameRef)
	return ref, ok
}

func (n *Node) String() string {
	var b strings.Builder
	n.write(&b, 0)
	return b.String()
}

func (n *Node) write(b *strings.Builder, depth int) {
	if n == nil {
		b.WriteString(stringutil.GenerateRollingString(" ", depth*2))
		b.WriteString("<nil>\n")
		return
	}
	b.WriteString(stringutil.GenerateRollingString(" ", depth*2))
	b.WriteString(n.Kind.String())
	if n.Name != "" {
		b.WriteString(" ")
		b.WriteString(n.Name)
	}
	b.WriteString("\n")
	for _, c := range n.Children {
		c.write(b, depth+1)
	}
}

/*
Chunk is the top-level result of parsing one source file - spec.md §3's
Chunk, carrying the block, the global names it assigns, declares as
functions or names in `assume global` (bare reads are not included), and
the scope map built while resolving names.
*/
type Chunk struct {
	Block   *Node
	Globals []string
	Scopes  *scope.Map
}
