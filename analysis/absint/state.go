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

// Package absint defines the contract between abstract states produced by the analysis and the control flow
// resolver, together with reference implementations of that contract.
//
// An abstract state represents the set of concrete configurations possibly reachable at a label. The resolver only
// needs a few capabilities of a state, each declared by an interface:
//   - [State]: the location and whether the state is bottom,
//   - [Composite]: the decomposition into named components, some of which may be under-approximations (witnesses),
//   - [Concretizer]: the case-split of a (condition, target) pair of expressions into concrete values.
package absint

import (
	"github.com/awslabs/ar-cfa-tools/analysis/lang"
	fn "github.com/awslabs/ar-cfa-tools/internal/funcutil"
)

// A State is an abstract state at a program location.
type State interface {
	// Location returns the label the state is attached to
	Location() lang.Label

	// IsBottom returns true if the state represents no reachable configuration
	IsBottom() bool
}

// A Component is one of the named sub-states of a composite state.
type Component interface {
	Name() string
	IsBottom() bool
}

// An UnderApproximation is a component certifying configurations that are known to be reachable. A non-bottom
// under-approximation at a label is a witness that some concrete execution reaches that label.
type UnderApproximation interface {
	Component
	UnderApproximates()
}

// A Composite state exposes its ordered list of components.
type Composite interface {
	State
	Components() []Component
}

// A Pair is one concrete (condition, target) combination of a branch. The condition is always a boolean; the target
// is none when the domain cannot pin a concrete address.
type Pair struct {
	Condition bool
	Target    fn.Optional[lang.Address]
}

// TargetOf returns the target of the pair. A pair built without a target has an unknown target.
func (p Pair) TargetOf() fn.Optional[lang.Address] {
	if p.Target == nil {
		return fn.None[lang.Address]()
	}
	return p.Target
}

// FalsePair is the pair of a branch that is not taken.
func FalsePair() Pair {
	return Pair{Condition: false, Target: fn.None[lang.Address]()}
}

// TakenPair is the pair of a branch taken to target.
func TakenPair(target lang.Address) Pair {
	return Pair{Condition: true, Target: fn.Some(target)}
}

// UnknownTargetPair is the pair of a branch taken to a target the domain cannot concretize.
func UnknownTargetPair() Pair {
	return Pair{Condition: true, Target: fn.None[lang.Address]()}
}

// A Concretizer case-splits abstract values into concrete ones.
type Concretizer interface {
	// ConcretizePairs returns all the (condition value, target value) pairs consistent with the state restricted to
	// the two expressions.
	ConcretizePairs(condition lang.Expr, target lang.Expr) []Pair
}

// DualComposite is the shape of state the control flow resolver works with: a composite of over-approximations and
// (optional) under-approximations that can be concretized.
type DualComposite interface {
	Composite
	Concretizer
}

// HasWitness returns true if some component of the state is a non-bottom under-approximation.
func HasWitness(s Composite) bool {
	for _, c := range s.Components() {
		if u, ok := c.(UnderApproximation); ok && !u.IsBottom() {
			return true
		}
	}
	return false
}
