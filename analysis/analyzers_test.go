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

package analysis

import (
	"context"
	_ "embed"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/awslabs/ar-cfa-tools/analysis/config"
	"github.com/awslabs/ar-cfa-tools/analysis/lang"
	"github.com/google/go-cmp/cmp"
)

//go:embed testdata/bin/loop.hex
var loopHex string

func loopCode(t *testing.T) []byte {
	t.Helper()
	b, err := hex.DecodeString(strings.Join(strings.Fields(loopHex), ""))
	if err != nil {
		t.Fatalf("bad test data: %v", err)
	}
	return b
}

func quietLogger() *config.LogGroup {
	return config.NewLogGroupWithLevel(config.ErrLevel, &strings.Builder{})
}

func TestRunCFA(t *testing.T) {
	cfg := config.NewDefault()
	prog, err := LoadProgramBytes(loopCode(t), LoadProgramOptions{Raw: true, Base: 0x1000, Mode: 64}, cfg)
	if err != nil {
		t.Fatalf("failed to load program: %v", err)
	}
	res, err := RunCFA(context.Background(), prog, cfg, quietLogger(), RunCFAParams{})
	if err != nil {
		t.Fatalf("control flow recovery failed: %v", err)
	}
	if !res.Fixpoint.Converged {
		t.Errorf("expected the fixpoint to converge")
	}

	got := map[string]string{}
	for _, e := range res.Store.All() {
		got[fmt.Sprintf("%s->%s", e.Source, e.Target)] = e.Kind.String()
	}
	want := map[string]string{
		"0x1000->0x1002": "MAY",
		"0x1002->0x1004": "MAY",
		"0x1002->0x1008": "MAY",
		"0x1008->0x1000": "MAY",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected edges (-want +got):\n%s", diff)
	}

	stats := ComputeStatistics(prog.Entry(), res.Store, res.Report, true)
	wantStats := CFAStatistics{
		NumberOfNodes:      4,
		NumberOfEdges:      4,
		NumberOfMustEdges:  0,
		NumberOfMayEdges:   4,
		NumberOfReachable:  4,
		NumberOfLoops:      1,
		NumberOfCycles:     1,
		NumberOfUnresolved: 1,
		Sound:              false,
	}
	if diff := cmp.Diff(wantStats, stats); diff != "" {
		t.Errorf("unexpected statistics (-want +got):\n%s", diff)
	}
	if !strings.Contains(stats.String(), "Number of elementary cycles: 1") {
		t.Errorf("unexpected statistics output:\n%s", stats)
	}
}

func TestRunCFAWritesUnresolvedReport(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	contents := fmt.Sprintf("options:\n  reports-dir: %s\n  report-unresolved: true\n", filepath.Join(dir, "reports"))
	if err := os.WriteFile(configFile, []byte(contents), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	prog, err := LoadProgramBytes(loopCode(t), LoadProgramOptions{Raw: true, Base: 0x1000}, cfg)
	if err != nil {
		t.Fatalf("failed to load program: %v", err)
	}
	if _, err := RunCFA(context.Background(), prog, cfg, quietLogger(), RunCFAParams{}); err != nil {
		t.Fatalf("control flow recovery failed: %v", err)
	}
	b, err := os.ReadFile(cfg.UnresolvedReportFile())
	if err != nil {
		t.Fatalf("failed to read report: %v", err)
	}
	if string(b) != "0x1004\n" {
		t.Errorf("expected 0x1004 to be reported, got %q", string(b))
	}
}

func TestStatisticsWithoutCycles(t *testing.T) {
	prog, err := LoadProgramBytes(loopCode(t), LoadProgramOptions{Raw: true, Base: 0x1000}, nil)
	if err != nil {
		t.Fatalf("failed to load program: %v", err)
	}
	res, err := RunCFA(context.Background(), prog, nil, quietLogger(), RunCFAParams{})
	if err != nil {
		t.Fatalf("control flow recovery failed: %v", err)
	}
	stats := ComputeStatistics(lang.NewLabel(0x4242), res.Store, nil, false)
	if stats.NumberOfCycles != -1 || stats.NumberOfReachable != 0 {
		t.Errorf("unexpected statistics %+v", stats)
	}
	if strings.Contains(stats.String(), "elementary cycles") {
		t.Errorf("cycles were not computed and should not be printed")
	}
}

func TestLoadProgramErrors(t *testing.T) {
	if _, err := LoadProgram(filepath.Join(t.TempDir(), "missing.bin"), LoadProgramOptions{}, nil); err == nil {
		t.Errorf("expected an error for a missing file")
	}
	if _, err := LoadProgramBytes([]byte("not an elf"), LoadProgramOptions{}, nil); err == nil {
		t.Errorf("expected an error for a file that is not ELF")
	}
}
