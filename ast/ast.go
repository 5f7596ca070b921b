// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package ast

import "github.com/stacklok/toolhive-el/member"

// Node is a node of the syntax tree.
type Node interface {
	// Pos returns the byte offset of the node in the expression source.
	Pos() int
	node()
}

// Operator identifies a unary or binary operator.
type Operator int

// Operators.
const (
	OpAdd Operator = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
	OpNot
	OpNeg
	OpPlus
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
)

var operatorSymbols = map[Operator]string{
	OpAdd:  "+",
	OpSub:  "-",
	OpMul:  "*",
	OpDiv:  "/",
	OpMod:  "%",
	OpEq:   "==",
	OpNe:   "!=",
	OpLt:   "<",
	OpLe:   "<=",
	OpGt:   ">",
	OpGe:   ">=",
	OpAnd:  "&&",
	OpOr:   "||",
	OpNot:  "!",
	OpNeg:  "-",
	OpPlus: "+",

	OpBitAnd: "&",
	OpBitOr:  "|",
	OpBitXor: "^",
	OpShl:    "<<",
	OpShr:    ">>",
}

func (o Operator) String() string {
	return operatorSymbols[o]
}

// Literal is a constant value.
type Literal struct {
	Position int
	Value    any
	// Text is the source spelling of numeric literals, used when printing.
	Text string
}

// VarRef reads a variable, falling back to a property of the root object.
type VarRef struct {
	Position int
	Name     string
}

// Property reads a named property of the target value.
type Property struct {
	Position int
	Target   Node
	Name     string
}

// Index reads an element of the target by key.
type Index struct {
	Position int
	Target   Node
	Key      Node
}

// MethodCall invokes a method on the target value.
type MethodCall struct {
	Position int
	Target   Node
	Name     string
	Args     []Node
}

// StaticField reads a constant of a static type.
type StaticField struct {
	Position int
	Type     *member.Type
	Name     string
}

// StaticMethodCall invokes a function of a static type.
type StaticMethodCall struct {
	Position int
	Type     *member.Type
	Name     string
	Args     []Node
}

// FunctionCall invokes a function bound at parse time.
type FunctionCall struct {
	Position int
	Function *Function
	Args     []Node
}

// UnaryOp applies a prefix operator.
type UnaryOp struct {
	Position int
	Op       Operator
	Operand  Node
}

// BinaryOp applies an infix operator.
type BinaryOp struct {
	Position int
	Op       Operator
	Left     Node
	Right    Node
}

// Conditional is the ternary cond ? then : else.
type Conditional struct {
	Position int
	Cond     Node
	Then     Node
	Else     Node
}

// Segment is one piece of a composite template: either literal text or an
// embedded expression.
type Segment struct {
	Text string
	Expr Node
}

// IsLiteral reports whether the segment is literal text.
func (s Segment) IsLiteral() bool {
	return s.Expr == nil
}

// CompositeTemplate is literal text interleaved with ${...} expressions.
type CompositeTemplate struct {
	Position int
	Segments []Segment
}

// Pos implements Node.
func (n *Literal) Pos() int { return n.Position }

// Pos implements Node.
func (n *VarRef) Pos() int { return n.Position }

// Pos implements Node.
func (n *Property) Pos() int { return n.Position }

// Pos implements Node.
func (n *Index) Pos() int { return n.Position }

// Pos implements Node.
func (n *MethodCall) Pos() int { return n.Position }

// Pos implements Node.
func (n *StaticField) Pos() int { return n.Position }

// Pos implements Node.
func (n *StaticMethodCall) Pos() int { return n.Position }

// Pos implements Node.
func (n *FunctionCall) Pos() int { return n.Position }

// Pos implements Node.
func (n *UnaryOp) Pos() int { return n.Position }

// Pos implements Node.
func (n *BinaryOp) Pos() int { return n.Position }

// Pos implements Node.
func (n *Conditional) Pos() int { return n.Position }

// Pos implements Node.
func (n *CompositeTemplate) Pos() int { return n.Position }

func (*Literal) node()           {}
func (*VarRef) node()            {}
func (*Property) node()          {}
func (*Index) node()             {}
func (*MethodCall) node()        {}
func (*StaticField) node()       {}
func (*StaticMethodCall) node()  {}
func (*FunctionCall) node()      {}
func (*UnaryOp) node()           {}
func (*BinaryOp) node()          {}
func (*Conditional) node()       {}
func (*CompositeTemplate) node() {}
