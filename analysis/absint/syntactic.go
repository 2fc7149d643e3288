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

package absint

import (
	"github.com/awslabs/ar-cfa-tools/analysis/cfa"
	"github.com/awslabs/ar-cfa-tools/analysis/lang"
	fn "github.com/awslabs/ar-cfa-tools/internal/funcutil"
)

// SyntacticComponent is the name of the only component of the syntactic domain.
const SyntacticComponent = "syntactic"

// Syntactic is the coarsest useful domain: it tracks no machine state. Conditions and targets are concretized by
// constant folding alone; a condition that does not fold can take both values, a target that does not fold is
// unknown. It lets the resolver recover every direct branch of a program and flag every indirect one.
type Syntactic struct{}

// Initial returns the state of the syntactic domain at l.
func (Syntactic) Initial(l lang.Label) State {
	return &CompositeState{
		Loc:        l,
		Parts:      []Component{Flag{Label: SyntacticComponent}},
		Concretize: SyntacticPairs,
	}
}

// Post returns the state at the target of the edge.
func (d Syntactic) Post(_ State, edge cfa.Edge) (State, error) {
	return d.Initial(edge.Target), nil
}

// LessOrEqual holds for any two states at the same location: the domain has a single non-bottom element.
func (Syntactic) LessOrEqual(a State, b State) bool {
	return a.IsBottom() || a.Location() == b.Location()
}

// Join returns b, unless it is bottom.
func (Syntactic) Join(a State, b State) State {
	if b.IsBottom() {
		return a
	}
	return b
}

// SyntacticPairs concretizes a branch by constant folding its condition and target.
func SyntacticPairs(condition lang.Expr, target lang.Expr) []Pair {
	ctx := lang.NewContext()
	var conditions []bool
	if c, ok := condition.Evaluate(ctx).(lang.Number); ok {
		conditions = []bool{c.Value != 0}
	} else {
		conditions = []bool{false, true}
	}

	t := fn.None[lang.Address]()
	if n, ok := target.Evaluate(ctx).(lang.Number); ok {
		t = fn.Some(n.Address())
	}

	pairs := make([]Pair, 0, len(conditions))
	for _, c := range conditions {
		if c {
			pairs = append(pairs, Pair{Condition: true, Target: t})
		} else {
			pairs = append(pairs, FalsePair())
		}
	}
	return pairs
}
