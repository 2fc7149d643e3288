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

	fn "github.com/awslabs/ar-cfa-tools/internal/funcutil"
)

// A Statement is the instruction resident at a label. The variants loaded from a program are *Ordinary, *Branch
// and *Halt; *Assume and *UnknownProcedureCall are derived by the resolver and only appear on CFA edges.
type Statement interface {
	fmt.Stringer

	// Label returns the location of the statement
	Label() Label

	isStatement()
}

// An Ordinary statement is any non-branching instruction; it has a single static successor.
type Ordinary struct {
	At   Label
	Next Label
	Text string
}

func (s *Ordinary) Label() Label   { return s.At }
func (s *Ordinary) String() string { return fmt.Sprintf("%s: %s", s.At, s.Text) }
func (*Ordinary) isStatement()     {}

// BranchType is the sub-kind of a branch statement.
type BranchType int

const (
	// BranchJump is a plain (conditional or unconditional) jump
	BranchJump BranchType = iota
	// BranchCall is a procedure call
	BranchCall
	// BranchReturn is a procedure return
	BranchReturn
)

func (t BranchType) String() string {
	switch t {
	case BranchJump:
		return "jump"
	case BranchCall:
		return "call"
	case BranchReturn:
		return "return"
	default:
		return fmt.Sprintf("BranchType(%d)", int(t))
	}
}

// A Branch transfers control to the value of Target when Condition holds, and to the fallthrough label otherwise.
// Unconditional branches have the condition True.
type Branch struct {
	At        Label
	Condition Expr
	Target    Expr
	Type      BranchType
	Text      string

	// Fallthrough is the static successor when the condition is false, and the return site of a call.
	// It may be none, e.g. at the end of a code section.
	Fallthrough fn.Optional[Label]
}

// NewBranch returns a branch at label at with fallthrough label next.
func NewBranch(at Label, next Label, t BranchType, cond Expr, target Expr) *Branch {
	return &Branch{
		At:          at,
		Condition:   cond,
		Target:      target,
		Type:        t,
		Fallthrough: fn.Some(next),
	}
}

func (s *Branch) Label() Label { return s.At }

// NextLabel returns the fallthrough label of the branch, or none if it does not have one.
func (s *Branch) NextLabel() fn.Optional[Label] {
	if s.Fallthrough == nil {
		return fn.None[Label]()
	}
	return s.Fallthrough
}

func (s *Branch) String() string {
	if s.Text != "" {
		return fmt.Sprintf("%s: %s", s.At, s.Text)
	}
	return fmt.Sprintf("%s: if %s %s %s", s.At, s.Condition, s.Type, s.Target)
}

func (*Branch) isStatement() {}

// A Halt statement ends execution; it has no successors.
type Halt struct {
	At   Label
	Text string
}

func (s *Halt) Label() Label { return s.At }
func (s *Halt) String() string {
	if s.Text == "" {
		return fmt.Sprintf("%s: halt", s.At)
	}
	return fmt.Sprintf("%s: %s", s.At, s.Text)
}
func (*Halt) isStatement() {}

// An Assume statement is a branch refined by the predicate under which control flows from At to Next.
type Assume struct {
	At        Label
	Next      Label
	Predicate Expr

	// Origin is the branch the assumption was derived from
	Origin *Branch
}

// NewAssume returns the refinement of branch origin towards next under predicate. The predicate is evaluated in ctx
// before being attached.
func NewAssume(origin *Branch, next Label, predicate Expr, ctx *Context) *Assume {
	return &Assume{
		At:        origin.At,
		Next:      next,
		Predicate: predicate.Evaluate(ctx),
		Origin:    origin,
	}
}

func (s *Assume) Label() Label   { return s.At }
func (s *Assume) String() string { return fmt.Sprintf("%s: assume %s", s.At, s.Predicate) }
func (*Assume) isStatement()     {}

// An UnknownProcedureCall stands for a call whose callee is not modeled; control resumes at Next.
type UnknownProcedureCall struct {
	At   Label
	Next Label
	Call *Branch
}

func (s *UnknownProcedureCall) Label() Label { return s.At }
func (s *UnknownProcedureCall) String() string {
	return fmt.Sprintf("%s: call %s (unknown procedure)", s.At, s.Call.Target)
}
func (*UnknownProcedureCall) isStatement() {}
