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
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	code := filepath.Join(dir, "code.bin")
	// je 0x4; jmp rax; hlt
	if err := os.WriteFile(code, []byte{0x74, 0x02, 0xff, 0xe0, 0xf4}, 0600); err != nil {
		t.Fatalf("failed to write code: %v", err)
	}

	flags, err := NewFlags([]string{"-raw", code})
	if err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}
	var buf bytes.Buffer
	if err := Run(flags, &buf); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(buf.String(), "digraph") || !strings.Contains(buf.String(), "red") {
		t.Errorf("expected a graph with the unresolved jump highlighted:\n%s", buf.String())
	}

	out := filepath.Join(dir, "cfa.dot")
	flags, err = NewFlags([]string{"-raw", "-out", out, code})
	if err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}
	if err := Run(flags, &bytes.Buffer{}); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("expected %s to be written: %v", out, err)
	}
}
