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

import "regexp"

// Captures errors happening before any analysis starts (program could not load)
var regexCouldNotLoad = regexp.MustCompile("could not load program")

// Captures the error of an input that is not an ELF file
var notELF = regexp.MustCompile("failed to parse ELF file")

// Captures an ELF file for another architecture
var unsupportedMachine = regexp.MustCompile("unsupported ELF machine")

// Captures an invalid procedure abstraction in the config
var unknownAbstraction = regexp.MustCompile("unknown procedure abstraction")

// HintForErrorMessage looks for specific error message and returns some other message that might help the user
// resolve the problem.
func HintForErrorMessage(errMsg string) string {
	if regexCouldNotLoad.MatchString(errMsg) {
		if notELF.MatchString(errMsg) {
			return "use -raw (with -base and -mode) to analyze raw machine code"
		}
		if unsupportedMachine.MatchString(errMsg) {
			return "only x86 and x86-64 binaries can be decoded"
		}
		return "make sure the path to the binary is the last argument, after all the flags"
	}
	if unknownAbstraction.MatchString(errMsg) {
		return "procedure-abstraction must be one of precise, heuristic or optimistic"
	}
	return ""
}
