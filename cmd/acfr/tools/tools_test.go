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

package tools

import (
	"strings"
	"testing"

	"github.com/awslabs/ar-cfa-tools/analysis/config"
)

func validateHint(t *testing.T, errorMsg string, containedHint string) {
	hint := HintForErrorMessage(errorMsg)
	if !strings.Contains(hint, containedHint) {
		t.Fatalf("incorrect hint %q; check and update error message if necessary", hint)
	}
}

func TestHintForNotELF(t *testing.T) {
	errorMsg := "error: could not load program: failed to parse ELF file: bad magic number"
	validateHint(t, errorMsg, "use -raw")
}

func TestHintForMachine(t *testing.T) {
	errorMsg := "error: could not load program: unsupported ELF machine: EM_AARCH64"
	validateHint(t, errorMsg, "x86")
}

func TestHintForFailedLoadProgram(t *testing.T) {
	errorMsg := "error: could not load program: open bin: no such file or directory"
	validateHint(t, errorMsg, "last argument")
}

func TestHintForConfig(t *testing.T) {
	errorMsg := "failed to load config file c.yaml: unknown procedure abstraction \"lazy\""
	validateHint(t, errorMsg, "precise, heuristic or optimistic")
}

func TestNewCommonFlags(t *testing.T) {
	flags, err := NewCommonFlags("resolve", []string{"-raw", "-base", "0x401000", "-mode", "32", "code.bin"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	opts := flags.LoadOptions()
	if !opts.Raw || opts.Base != 0x401000 || opts.Mode != 32 {
		t.Errorf("unexpected load options %+v", opts)
	}
	if bin, err := flags.Binary(); err != nil || bin != "code.bin" {
		t.Errorf("expected binary code.bin, got %q (%v)", bin, err)
	}

	if _, err := NewCommonFlags("resolve", []string{"-base", "zz", "code.bin"}, ""); err == nil {
		t.Errorf("invalid base address should be rejected")
	}
	flags, _ = NewCommonFlags("resolve", []string{"a", "b"}, "")
	if _, err := flags.Binary(); err == nil {
		t.Errorf("two binaries should be rejected")
	}
}

func TestLoadConfigDefault(t *testing.T) {
	cfg, err := LoadConfig("", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LogLevel != int(config.DebugLevel) || cfg.ProcedureAbstraction != config.PreciseProcedures {
		t.Errorf("unexpected default config %+v", cfg.Options)
	}
	if _, err := LoadConfig("does-not-exist.yaml", false); err == nil {
		t.Errorf("missing config file should be an error")
	}
}
