// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package lang

import (
	"fmt"
)

// An Expr is an expression over machine state appearing in branch conditions, branch targets and assumptions.
// Expressions are immutable; Evaluate returns a new, simplified expression.
type Expr interface {
	fmt.Stringer

	// Evaluate simplifies the expression in ctx: bound variables are substituted and constant sub-expressions are
	// folded. The result is a Number whenever the expression is constant in ctx.
	Evaluate(ctx *Context) Expr

	isExpr()
}

// BoolWidth is the bit width of boolean expressions.
const BoolWidth = 1

// A Number is a constant of some bit width. Booleans are numbers of width BoolWidth.
type Number struct {
	Value uint64
	Width int
}

var (
	// True is the boolean constant true
	True = Number{Value: 1, Width: BoolWidth}

	// False is the boolean constant false
	False = Number{Value: 0, Width: BoolWidth}
)

// Bool returns the boolean constant for b.
func Bool(b bool) Number {
	if b {
		return True
	}
	return False
}

// NumberOf returns the 64-bit constant holding the address a.
func NumberOf(a Address) Number {
	return Number{Value: uint64(a), Width: 64}
}

// IsTrue returns true if n is the boolean true.
func (n Number) IsTrue() bool { return n.Width == BoolWidth && n.Value != 0 }

// IsFalse returns true if n is the boolean false.
func (n Number) IsFalse() bool { return n.Width == BoolWidth && n.Value == 0 }

// Address returns the number interpreted as an absolute address.
func (n Number) Address() Address { return Address(n.Value) }

func (n Number) String() string {
	if n.Width == BoolWidth {
		if n.Value != 0 {
			return "true"
		}
		return "false"
	}
	return fmt.Sprintf("0x%x", n.Value)
}

// Evaluate returns n.
func (n Number) Evaluate(*Context) Expr { return n }

func (Number) isExpr() {}

// A Variable is a named piece of machine state: a register, a flag or a memory cell described by name.
type Variable struct {
	Name  string
	Width int
}

func (v Variable) String() string { return v.Name }

// Evaluate substitutes v by its binding in ctx if there is one.
func (v Variable) Evaluate(ctx *Context) Expr {
	if n, ok := ctx.Lookup(v.Name); ok {
		return n
	}
	return v
}

func (Variable) isExpr() {}

// Equal is the boolean expression Left = Right.
type Equal struct {
	Left  Expr
	Right Expr
}

// NewEqual returns the expression l = r.
func NewEqual(l, r Expr) Equal {
	return Equal{Left: l, Right: r}
}

func (e Equal) String() string { return fmt.Sprintf("(%s = %s)", e.Left, e.Right) }

// Evaluate folds the equality when both sides are constants or when both sides are syntactically identical.
func (e Equal) Evaluate(ctx *Context) Expr {
	l := e.Left.Evaluate(ctx)
	r := e.Right.Evaluate(ctx)
	ln, lok := l.(Number)
	rn, rok := r.(Number)
	if lok && rok {
		return Bool(ln.Value == rn.Value)
	}
	if l.String() == r.String() {
		return True
	}
	// (b = true) is b, for boolean b
	if rok && rn.Width == BoolWidth && rn.IsTrue() && isBoolean(l) {
		return l
	}
	return Equal{Left: l, Right: r}
}

func (Equal) isExpr() {}

// And is the boolean conjunction Left ∧ Right.
type And struct {
	Left  Expr
	Right Expr
}

// NewAnd returns the expression l ∧ r.
func NewAnd(l, r Expr) And {
	return And{Left: l, Right: r}
}

func (a And) String() string { return fmt.Sprintf("(%s & %s)", a.Left, a.Right) }

// Evaluate folds the conjunction: false absorbs, true is the neutral element.
func (a And) Evaluate(ctx *Context) Expr {
	l := a.Left.Evaluate(ctx)
	r := a.Right.Evaluate(ctx)
	if ln, ok := l.(Number); ok {
		if ln.IsFalse() {
			return False
		}
		if ln.IsTrue() {
			return r
		}
	}
	if rn, ok := r.(Number); ok {
		if rn.IsFalse() {
			return False
		}
		if rn.IsTrue() {
			return l
		}
	}
	return And{Left: l, Right: r}
}

func (And) isExpr() {}

func isBoolean(e Expr) bool {
	switch e := e.(type) {
	case Number:
		return e.Width == BoolWidth
	case Variable:
		return e.Width == BoolWidth
	case Equal, And:
		return true
	default:
		return false
	}
}

// A Context binds variable names to constants for evaluation. The zero value and nil are both empty contexts.
type Context struct {
	bindings map[string]Number
}

// NewContext returns an empty evaluation context.
func NewContext() *Context {
	return &Context{bindings: map[string]Number{}}
}

// Bind binds the variable name to n and returns the context.
func (c *Context) Bind(name string, n Number) *Context {
	if c.bindings == nil {
		c.bindings = map[string]Number{}
	}
	c.bindings[name] = n
	return c
}

// Lookup returns the constant bound to name, if any.
func (c *Context) Lookup(name string) (Number, bool) {
	if c == nil || c.bindings == nil {
		return Number{}, false
	}
	n, ok := c.bindings[name]
	return n, ok
}
