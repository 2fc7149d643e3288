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

package formatutil

import (
	"testing"
)

type kind string

func (k kind) String() string { return string(k) }

func TestColors(t *testing.T) {
	defer func(old bool) { Enabled = old }(Enabled)

	Enabled = false
	if Red("x", 1) != "x1" {
		t.Errorf("colors disabled should print plain text, got %q", Red("x", 1))
	}
	if Soundness(true) != "SOUND" || Soundness(false) != "UNSOUND" {
		t.Errorf("unexpected verdicts %q %q", Soundness(true), Soundness(false))
	}

	Enabled = true
	if got := Red("x"); got != "\033[1;31mx\033[0m" {
		t.Errorf("unexpected red text %q", got)
	}
	if got := EdgeKind(kind("MUST")); got != "\033[1mMUST\033[0m" {
		t.Errorf("MUST should be bold, got %q", got)
	}
	if got := EdgeKind(kind("MAY")); got != "\033[2mMAY\033[0m" {
		t.Errorf("MAY should be faint, got %q", got)
	}
}

func TestSanitize(t *testing.T) {
	if got := Sanitize("a\033[1mb\n"); got != `a\x1b[1mb\n` {
		t.Errorf("unexpected sanitized string %q", got)
	}
}
