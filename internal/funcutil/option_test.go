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


package funcutil

import "testing"

func TestFromOk(t *testing.T) {
	m := map[string]int{"a": 1}
	v, ok := m["a"]
	if x := FromOk(v, ok); !x.IsSome() || x.Value() != 1 {
		t.Errorf("expected some 1, got %v", x)
	}
	v, ok = m["b"]
	if x := FromOk(v, ok); !x.IsNone() {
		t.Errorf("expected none, got %v", x)
	}
}

func TestMapOption(t *testing.T) {
	double := func(x int) int { return 2 * x }
	if x := MapOption(Some(21), double); x.ValueOr(0) != 42 {
		t.Errorf("expected 42, got %v", x)
	}
	if x := MapOption(None[int](), double); x.ValueOr(-1) != -1 {
		t.Errorf("expected none, got %v", x)
	}
}

func TestMap(t *testing.T) {
	got := Map([]int{1, 2, 3}, func(x int) string { return string(rune('a' + x - 1)) })
	if len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Errorf("unexpected map result %v", got)
	}
}
