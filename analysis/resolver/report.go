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
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/awslabs/ar-cfa-tools/analysis/lang"
)

// AnalysisReport records whether the analysis run is still sound, and the labels of the branches whose target could
// not be resolved. It is owned by the driver for the duration of a run and shared by all resolvers of that run.
// All methods are safe for concurrent use.
type AnalysisReport struct {
	unsound atomic.Bool

	mu         sync.Mutex
	unresolved map[lang.Label]bool
}

// NewAnalysisReport returns a report for a run that is sound so far.
func NewAnalysisReport() *AnalysisReport {
	return &AnalysisReport{unresolved: map[lang.Label]bool{}}
}

// Sound returns false if any part of the analysis had to approximate unsoundly.
func (r *AnalysisReport) Sound() bool {
	return !r.unsound.Load()
}

// MarkUnsound flips the report to unsound. A report never becomes sound again, except through Reset.
func (r *AnalysisReport) MarkUnsound() {
	r.unsound.Store(true)
}

// AddUnresolvedBranch records the label of a branch with an unresolved target. It returns true if the label was not
// already recorded.
func (r *AnalysisReport) AddUnresolvedBranch(l lang.Label) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.unresolved == nil {
		r.unresolved = map[lang.Label]bool{}
	}
	if r.unresolved[l] {
		return false
	}
	r.unresolved[l] = true
	return true
}

// UnresolvedBranches returns the labels of the unresolved branches, in label order.
func (r *AnalysisReport) UnresolvedBranches() []lang.Label {
	r.mu.Lock()
	labels := make([]lang.Label, 0, len(r.unresolved))
	for l := range r.unresolved {
		labels = append(labels, l)
	}
	r.mu.Unlock()
	sort.Slice(labels, func(i, j int) bool { return labels[i].Less(labels[j]) })
	return labels
}

// Reset makes the report sound again and forgets all unresolved branches. It must only be called at the start of a
// run.
func (r *AnalysisReport) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unsound.Store(false)
	r.unresolved = map[lang.Label]bool{}
}

// Summary returns a one-line description of the report.
func (r *AnalysisReport) Summary() string {
	n := len(r.UnresolvedBranches())
	if r.Sound() {
		return "analysis is sound"
	}
	return fmt.Sprintf("analysis is UNSOUND (%d unresolved branches)", n)
}

// WriteUnresolved writes the labels of the unresolved branches to filename, one per line.
func (r *AnalysisReport) WriteUnresolved(filename string) error {
	var sb strings.Builder
	for _, l := range r.UnresolvedBranches() {
		sb.WriteString(l.String())
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(filename, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("could not write unresolved branches: %w", err)
	}
	return nil
}
