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
	"testing"
)

func TestEvaluateConstantEquality(t *testing.T) {
	e := NewEqual(NumberOf(0x401000), NumberOf(0x401000))
	if got := e.Evaluate(NewContext()); got != True {
		t.Errorf("expected true, got %s", got)
	}
	e = NewEqual(NumberOf(0x401000), NumberOf(0xdead))
	if got := e.Evaluate(NewContext()); got != False {
		t.Errorf("expected false, got %s", got)
	}
}

func TestEvaluateBindsVariables(t *testing.T) {
	rax := Variable{Name: "rax", Width: 64}
	e := NewEqual(rax, NumberOf(0x10))
	if got := e.Evaluate(NewContext()); got.String() != "(rax = 0x10)" {
		t.Errorf("unbound variable should stay symbolic, got %s", got)
	}
	ctx := NewContext().Bind("rax", NumberOf(0x10))
	if got := e.Evaluate(ctx); got != True {
		t.Errorf("expected true with rax bound, got %s", got)
	}
}

func TestEvaluateConjunction(t *testing.T) {
	zf := Variable{Name: "ZF", Width: BoolWidth}
	rax := Variable{Name: "rax", Width: 64}

	// (true = true) & (rax = 0xdead) folds to (rax = 0xdead)
	e := NewAnd(NewEqual(True, True), NewEqual(rax, NumberOf(0xdead)))
	if got := e.Evaluate(nil).String(); got != "(rax = 0xdead)" {
		t.Errorf("unexpected folding: %s", got)
	}

	// (ZF = true) & (rax = 0xdead) folds to ZF & (rax = 0xdead)
	e = NewAnd(NewEqual(zf, True), NewEqual(rax, NumberOf(0xdead)))
	if got := e.Evaluate(nil).String(); got != "(ZF & (rax = 0xdead))" {
		t.Errorf("unexpected folding: %s", got)
	}

	// false absorbs
	e = NewAnd(NewEqual(zf, False), False)
	if got := e.Evaluate(nil); got != False {
		t.Errorf("expected false, got %s", got)
	}

	// (ZF = false) is kept as is
	if got := NewEqual(zf, False).Evaluate(nil).String(); got != "(ZF = false)" {
		t.Errorf("unexpected folding: %s", got)
	}
}

func TestSyntacticEquality(t *testing.T) {
	rax := Variable{Name: "rax", Width: 64}
	if got := NewEqual(rax, rax).Evaluate(nil); got != True {
		t.Errorf("x = x should fold to true, got %s", got)
	}
}
