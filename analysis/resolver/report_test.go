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

package resolver

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/awslabs/ar-cfa-tools/analysis/lang"
)

func TestReportSoundness(t *testing.T) {
	r := NewAnalysisReport()
	if !r.Sound() {
		t.Fatalf("a new report should be sound")
	}
	if r.Summary() != "analysis is sound" {
		t.Errorf("unexpected summary %q", r.Summary())
	}
	r.MarkUnsound()
	r.MarkUnsound()
	if r.Sound() {
		t.Errorf("report should stay unsound")
	}
	r.Reset()
	if !r.Sound() || len(r.UnresolvedBranches()) != 0 {
		t.Errorf("reset should restore a sound, empty report")
	}
}

func TestReportUnresolvedConcurrent(t *testing.T) {
	r := NewAnalysisReport()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.MarkUnsound()
			r.AddUnresolvedBranch(lang.NewLabel(lang.Address(0x100 + i%4)))
		}(i)
	}
	wg.Wait()

	got := r.UnresolvedBranches()
	if len(got) != 4 {
		t.Fatalf("expected 4 distinct unresolved branches, got %v", got)
	}
	for i, l := range got {
		if l.Addr != lang.Address(0x100+i) {
			t.Errorf("unresolved branches should be sorted, got %v", got)
		}
	}
	if r.AddUnresolvedBranch(lang.NewLabel(0x100)) {
		t.Errorf("label 0x100 was already recorded")
	}
	if r.Summary() != "analysis is UNSOUND (4 unresolved branches)" {
		t.Errorf("unexpected summary %q", r.Summary())
	}
}

func TestWriteUnresolved(t *testing.T) {
	r := NewAnalysisReport()
	r.AddUnresolvedBranch(lang.Label{Addr: 0x20, Context: "ctx"})
	r.AddUnresolvedBranch(lang.NewLabel(0x10))

	filename := filepath.Join(t.TempDir(), "unresolved.out")
	if err := r.WriteUnresolved(filename); err != nil {
		t.Fatalf("failed to write report: %v", err)
	}
	b, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("failed to read report: %v", err)
	}
	if string(b) != "0x10\n0x20@ctx\n" {
		t.Errorf("unexpected report contents %q", string(b))
	}
}
