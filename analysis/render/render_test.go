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

package render

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/awslabs/ar-cfa-tools/analysis/cfa"
	"github.com/awslabs/ar-cfa-tools/analysis/lang"
	"github.com/awslabs/ar-cfa-tools/analysis/program"
)

func sample() (*program.Program, *cfa.EdgeStore) {
	p := program.New()
	nop := &lang.Ordinary{At: lang.NewLabel(0x10), Next: lang.NewLabel(0x11), Text: "nop"}
	jcc := lang.NewBranch(lang.NewLabel(0x11), lang.NewLabel(0x13), lang.BranchJump,
		lang.Variable{Name: "zf", Width: lang.BoolWidth}, lang.NumberOf(0x40))
	p.AddStatement(nop)
	p.AddStatement(jcc)

	s := cfa.NewEdgeStore()
	s.MergeNew(nop.At, []cfa.Edge{cfa.NewEdge(nop.At, nop.Next, nop, cfa.Must)})
	s.MergeNew(jcc.At, []cfa.Edge{
		cfa.NewEdge(jcc.At, lang.NewLabel(0x13),
			lang.NewAssume(jcc, lang.NewLabel(0x13), lang.NewEqual(jcc.Condition, lang.False), nil), cfa.May),
		cfa.NewEdge(jcc.At, lang.NewLabel(0x40),
			lang.NewAssume(jcc, lang.NewLabel(0x40), jcc.Condition, nil), cfa.May),
	})
	return p, s
}

func TestWriteGraphviz(t *testing.T) {
	p, s := sample()
	var buf bytes.Buffer
	if err := WriteGraphviz(p, s, []lang.Label{lang.NewLabel(0x11)}, &buf); err != nil {
		t.Fatalf("failed to write graph: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"digraph", "0x10: nop", "(zf = false)", "dashed", "solid", "red", "dotted"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestGraphvizToFile(t *testing.T) {
	p, s := sample()
	filename := filepath.Join(t.TempDir(), "cfa.dot")
	if err := GraphvizToFile(p, s, nil, filename); err != nil {
		t.Fatalf("failed to write graph: %v", err)
	}
	b, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("failed to read graph: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(string(b)), "digraph") {
		t.Errorf("expected a digraph, got:\n%s", string(b))
	}
	if strings.Contains(string(b), "red") {
		t.Errorf("no unresolved branch, nothing should be red")
	}
}
