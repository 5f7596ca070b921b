// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package ast

import (
	"strings"

	"github.com/stacklok/toolhive-el/convert"
)

const (
	precTernary = iota
	precOr
	precAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
	precUnary
	precPostfix
)

var binaryPrecedence = map[Operator]int{
	OpOr:     precOr,
	OpAnd:    precAnd,
	OpBitOr:  precBitOr,
	OpBitXor: precBitXor,
	OpBitAnd: precBitAnd,
	OpShl:    precShift,
	OpShr:    precShift,
	OpEq:     precEquality,
	OpNe:  precEquality,
	OpLt:  precRelational,
	OpLe:  precRelational,
	OpGt:  precRelational,
	OpGe:  precRelational,
	OpAdd: precAdditive,
	OpSub: precAdditive,
	OpMul: precMultiplicative,
	OpDiv: precMultiplicative,
	OpMod: precMultiplicative,
}

// String prints a node back to canonical expression source.
func String(n Node) string {
	var b strings.Builder
	write(&b, n)
	return b.String()
}

func precedence(n Node) int {
	switch n := n.(type) {
	case *Conditional:
		return precTernary
	case *BinaryOp:
		return binaryPrecedence[n.Op]
	case *UnaryOp:
		return precUnary
	default:
		return precPostfix
	}
}

func writeOperand(b *strings.Builder, n Node, minPrec int) {
	if precedence(n) < minPrec {
		b.WriteByte('(')
		write(b, n)
		b.WriteByte(')')
		return
	}
	write(b, n)
}

func writeArgs(b *strings.Builder, args []Node) {
	b.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		write(b, a)
	}
	b.WriteByte(')')
}

func write(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Literal:
		writeLiteral(b, n)
	case *VarRef:
		b.WriteString(n.Name)
	case *Property:
		writeOperand(b, n.Target, precPostfix)
		b.WriteByte('.')
		b.WriteString(n.Name)
	case *Index:
		writeOperand(b, n.Target, precPostfix)
		b.WriteByte('[')
		write(b, n.Key)
		b.WriteByte(']')
	case *MethodCall:
		writeOperand(b, n.Target, precPostfix)
		b.WriteByte('.')
		b.WriteString(n.Name)
		writeArgs(b, n.Args)
	case *StaticField:
		b.WriteString("T(" + n.Type.Name + ").")
		b.WriteString(n.Name)
	case *StaticMethodCall:
		b.WriteString("T(" + n.Type.Name + ").")
		b.WriteString(n.Name)
		writeArgs(b, n.Args)
	case *FunctionCall:
		b.WriteString(n.Function.Name)
		writeArgs(b, n.Args)
	case *UnaryOp:
		b.WriteString(n.Op.String())
		writeOperand(b, n.Operand, precUnary)
	case *BinaryOp:
		prec := binaryPrecedence[n.Op]
		writeOperand(b, n.Left, prec)
		b.WriteString(" " + n.Op.String() + " ")
		writeOperand(b, n.Right, prec+1)
	case *Conditional:
		writeOperand(b, n.Cond, precOr)
		b.WriteString(" ? ")
		write(b, n.Then)
		b.WriteString(" : ")
		write(b, n.Else)
	case *CompositeTemplate:
		for _, s := range n.Segments {
			if s.IsLiteral() {
				b.WriteString(strings.ReplaceAll(s.Text, "$", `\$`))
				continue
			}
			b.WriteString("${")
			write(b, s.Expr)
			b.WriteByte('}')
		}
	}
}

var quoteReplacer = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func writeLiteral(b *strings.Builder, n *Literal) {
	switch v := n.Value.(type) {
	case nil:
		b.WriteString("null")
	case string:
		b.WriteString("'" + quoteReplacer.Replace(v) + "'")
	case convert.Char:
		b.WriteString("'" + quoteReplacer.Replace(v.String()) + "'")
	default:
		if n.Text != "" {
			b.WriteString(n.Text)
			return
		}
		b.WriteString(convert.ToString(v))
	}
}
