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
	"fmt"
	"strings"

	"github.com/awslabs/ar-cfa-tools/analysis/lang"
	fn "github.com/awslabs/ar-cfa-tools/internal/funcutil"
)

// CompositeState is a plain DualComposite: a location, a list of components and a concretization function.
type CompositeState struct {
	Loc   lang.Label
	Parts []Component

	// Concretize implements ConcretizePairs. If nil, the state concretizes to no pair.
	Concretize func(condition lang.Expr, target lang.Expr) []Pair
}

// Location returns the label of the state
func (s *CompositeState) Location() lang.Label { return s.Loc }

// Components returns the components of the state, in order
func (s *CompositeState) Components() []Component { return s.Parts }

// IsBottom returns true if any over-approximating component is bottom. A bottom under-approximation only means there
// is no witness, not that the location is unreachable.
func (s *CompositeState) IsBottom() bool {
	for _, c := range s.Parts {
		if _, under := c.(UnderApproximation); under {
			continue
		}
		if c.IsBottom() {
			return true
		}
	}
	return false
}

// ConcretizePairs returns the pairs computed by the concretization function. Bottom states have no pair.
func (s *CompositeState) ConcretizePairs(condition lang.Expr, target lang.Expr) []Pair {
	if s.Concretize == nil || s.IsBottom() {
		return nil
	}
	return s.Concretize(condition, target)
}

func (s *CompositeState) String() string {
	names := fn.Map(s.Parts, func(c Component) string {
		if c.IsBottom() {
			return c.Name() + "=⊥"
		}
		return c.Name()
	})
	return fmt.Sprintf("%s[%s]", s.Loc, strings.Join(names, ", "))
}

// Flag is an over-approximating component that only records whether it is bottom.
type Flag struct {
	Label  string
	Bottom bool
}

func (f Flag) Name() string   { return f.Label }
func (f Flag) IsBottom() bool { return f.Bottom }

// Witness is an under-approximating component holding the concrete paths known to reach the location. It is bottom
// when there is no such path.
type Witness struct {
	Paths [][]lang.Address
}

func (w Witness) Name() string       { return "witness" }
func (w Witness) IsBottom() bool     { return len(w.Paths) == 0 }
func (w Witness) UnderApproximates() {}

// Pairs returns a concretization function that ignores the expressions and always returns pairs.
func Pairs(pairs ...Pair) func(lang.Expr, lang.Expr) []Pair {
	return func(lang.Expr, lang.Expr) []Pair {
		return pairs
	}
}
