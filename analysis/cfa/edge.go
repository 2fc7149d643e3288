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

// Package cfa contains the control flow automaton built by the analysis: edges annotated with the statement
// (usually an assumption) that guards them, their kind, and the process-wide edge store.
package cfa

import (
	"fmt"

	"github.com/awslabs/ar-cfa-tools/analysis/lang"
)

// Kind classifies an edge. The kinds form the two-element lattice May ⊑ Must.
type Kind int

const (
	// May edges are consistent with the abstract semantics
	May Kind = iota
	// Must edges are taken by some concrete execution witnessed by an under-approximation
	Must
)

func (k Kind) String() string {
	switch k {
	case May:
		return "MAY"
	case Must:
		return "MUST"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// LessOrEqual is the lattice order.
func (k Kind) LessOrEqual(o Kind) bool {
	return k == May || o == Must
}

// Join returns the least upper bound of the two kinds.
func Join(a Kind, b Kind) Kind {
	if a == Must || b == Must {
		return Must
	}
	return May
}

// An Edge of the control flow automaton. Edges are identified by (Source, Target); the statement is the one of the
// first computation that proposed the edge.
type Edge struct {
	Source lang.Label
	Target lang.Label
	Stmt   lang.Statement
	Kind   Kind
}

// NewEdge returns an edge from source to target labeled by stmt.
func NewEdge(source lang.Label, target lang.Label, stmt lang.Statement, kind Kind) Edge {
	return Edge{Source: source, Target: target, Stmt: stmt, Kind: kind}
}

func (e Edge) String() string {
	if e.Stmt == nil {
		return fmt.Sprintf("%s -> %s [%s]", e.Source, e.Target, e.Kind)
	}
	return fmt.Sprintf("%s -> %s [%s] %s", e.Source, e.Target, e.Kind, e.Stmt)
}
