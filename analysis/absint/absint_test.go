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
	"testing"

	"github.com/awslabs/ar-cfa-tools/analysis/cfa"
	"github.com/awslabs/ar-cfa-tools/analysis/lang"
	fn "github.com/awslabs/ar-cfa-tools/internal/funcutil"
)

func TestCompositeBottom(t *testing.T) {
	l := lang.NewLabel(0x1000)
	noWitness := &CompositeState{Loc: l, Parts: []Component{Flag{Label: "vs"}, Witness{}}}
	if noWitness.IsBottom() {
		t.Errorf("a bottom witness does not make the state bottom")
	}
	if HasWitness(noWitness) {
		t.Errorf("an empty witness is not a witness")
	}

	witnessed := &CompositeState{Loc: l, Parts: []Component{
		Flag{Label: "vs"},
		Witness{Paths: [][]lang.Address{{0x1000}}},
	}}
	if !HasWitness(witnessed) {
		t.Errorf("expected a witness")
	}

	bottom := &CompositeState{Loc: l, Parts: []Component{Flag{Label: "vs", Bottom: true}}, Concretize: Pairs(FalsePair())}
	if !bottom.IsBottom() {
		t.Errorf("a bottom over-approximation makes the state bottom")
	}
	if len(bottom.ConcretizePairs(lang.True, lang.NumberOf(0))) != 0 {
		t.Errorf("bottom states concretize to nothing")
	}
}

func pairString(p Pair) string {
	if !p.Condition {
		return "false"
	}
	return "true:" + fn.MapOption(p.TargetOf(), lang.Address.String).ValueOr("?")
}

func TestPairTargetOf(t *testing.T) {
	if (Pair{Condition: true}).TargetOf().IsSome() {
		t.Errorf("a pair without target should have an unknown target")
	}
	if got := TakenPair(0x401000).TargetOf(); !got.IsSome() || got.Value() != 0x401000 {
		t.Errorf("expected target 0x401000, got %v", got)
	}
}

func TestSyntacticPairs(t *testing.T) {
	zf := lang.Variable{Name: "ZF", Width: lang.BoolWidth}
	rax := lang.Variable{Name: "rax", Width: 64}
	for _, tc := range []struct {
		name      string
		condition lang.Expr
		target    lang.Expr
		expected  []string
	}{
		{"direct jump", lang.True, lang.NumberOf(0x401000), []string{"true:0x401000"}},
		{"conditional jump", zf, lang.NumberOf(0x401000), []string{"false", "true:0x401000"}},
		{"indirect jump", lang.True, rax, []string{"true:?"}},
		{"never taken", lang.False, rax, []string{"false"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			pairs := SyntacticPairs(tc.condition, tc.target)
			got := fn.Map(pairs, pairString)
			if len(got) != len(tc.expected) {
				t.Fatalf("expected %v, got %v", tc.expected, got)
			}
			for i := range got {
				if got[i] != tc.expected[i] {
					t.Errorf("expected %v, got %v", tc.expected, got)
				}
			}
		})
	}
}

func TestSyntacticDomain(t *testing.T) {
	d := Syntactic{}
	a := d.Initial(lang.NewLabel(0x10))
	if _, ok := a.(DualComposite); !ok {
		t.Fatalf("syntactic states should be dual composite states")
	}
	b, err := d.Post(a, cfa.NewEdge(lang.NewLabel(0x10), lang.NewLabel(0x20), nil, cfa.May))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Location() != lang.NewLabel(0x20) {
		t.Errorf("post state should be at the edge target, got %s", b.Location())
	}
	if !d.LessOrEqual(b, d.Initial(lang.NewLabel(0x20))) {
		t.Errorf("states at the same location are equal in the syntactic domain")
	}
	if d.Join(a, a) != a {
		t.Errorf("join of a state with itself should be the state")
	}
}
