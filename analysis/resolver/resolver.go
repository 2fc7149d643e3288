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

// Package resolver derives the control flow edges leaving a program location from the abstract state at that
// location. Branch targets are case-split through the concretization of the state; edges are classified as MUST when
// an under-approximation witnesses the location, and merged into the shared edge store of the run.
//
// Targets that cannot be resolved do not stop the analysis: they are recorded in the [AnalysisReport], which then
// reports the run as unsound.
package resolver

import (
	"fmt"

	"github.com/awslabs/ar-cfa-tools/analysis/absint"
	"github.com/awslabs/ar-cfa-tools/analysis/cfa"
	"github.com/awslabs/ar-cfa-tools/analysis/config"
	"github.com/awslabs/ar-cfa-tools/analysis/lang"
	"github.com/awslabs/ar-cfa-tools/analysis/program"
	fn "github.com/awslabs/ar-cfa-tools/internal/funcutil"
)

// Program is the statement repository the resolver reads from.
type Program interface {
	// Statement returns the statement at l
	Statement(l lang.Label) (lang.Statement, bool)

	// HarnessContains returns true if a is an instrumented call stub
	HarnessContains(a lang.Address) bool

	// HarnessFallthrough returns the address at which the stub at a resumes
	HarnessFallthrough(a lang.Address) lang.Address

	// ModuleContaining returns the module of the image containing a
	ModuleContaining(a lang.Address) fn.Optional[program.Module]

	// Modules returns the modules of the image
	Modules() []program.Module

	// IsInstructionStart returns true if a decoded instruction starts at a
	IsInstructionStart(a lang.Address) bool
}

var _ Program = (*program.Program)(nil)

// A Strategy computes the outgoing edges of abstract states.
type Strategy interface {
	// Resolve returns the edges leaving the location of state
	Resolve(state absint.State) ([]cfa.Edge, error)

	// ResolveGoto returns the edges of a single branch statement, for strategies that resolve jumps in isolation
	ResolveGoto(state absint.State, stmt *lang.Branch) ([]cfa.Edge, error)
}

var _ Strategy = (*Resolver)(nil)

// Resolver is the indirect control flow resolver. It is stateless between calls: all the state it mutates is in the
// edge store and the report, which are shared by all the resolvers of a run. A resolver may be called concurrently
// on states at different locations.
type Resolver struct {
	prog   Program
	store  *cfa.EdgeStore
	report *AnalysisReport
	config *config.Config
	logger *config.LogGroup
}

// New returns a resolver for prog, merging into store and recording approximations in report. A nil store, report,
// config or logger is replaced by a fresh default one.
func New(prog Program, store *cfa.EdgeStore, report *AnalysisReport, cfg *config.Config,
	logger *config.LogGroup) *Resolver {
	if store == nil {
		store = cfa.NewEdgeStore()
	}
	if report == nil {
		report = NewAnalysisReport()
	}
	if cfg == nil {
		cfg = config.NewDefault()
	}
	if logger == nil {
		logger = config.NewLogGroup(cfg)
	}
	return &Resolver{
		prog:   prog,
		store:  store,
		report: report,
		config: cfg,
		logger: logger,
	}
}

// Store returns the edge store the resolver merges into.
func (r *Resolver) Store() *cfa.EdgeStore { return r.store }

// Report returns the soundness report of the resolver.
func (r *Resolver) Report() *AnalysisReport { return r.report }

// Resolve computes the edges leaving the location of state, merges them into the edge store and returns them, with
// the kinds they have in the store after the merge. There is one edge per distinct target.
//
// Resolve returns an error wrapping ErrInvariantViolation if the state is not a [absint.DualComposite] or if there is
// no statement at its location.
func (r *Resolver) Resolve(state absint.State) ([]cfa.Edge, error) {
	edges, _, err := r.ResolveWithChanges(state)
	return edges, err
}

// ResolveWithChanges is Resolve, also returning whether the edge store changed.
func (r *Resolver) ResolveWithChanges(state absint.State) ([]cfa.Edge, bool, error) {
	if state == nil {
		return nil, false, fmt.Errorf("%w: nil state", ErrInvariantViolation)
	}
	dual, ok := state.(absint.DualComposite)
	if !ok {
		return nil, false, fmt.Errorf("%w: state at %s has type %T, which is not a composite with concretization",
			ErrInvariantViolation, state.Location(), state)
	}
	source := dual.Location()
	stmt, ok := r.prog.Statement(source)
	if !ok {
		return nil, false, fmt.Errorf("%w: no statement at %s", ErrInvariantViolation, source)
	}

	t := &transformers{resolver: r, state: dual, source: source}
	if err := lang.StmtSwitch(t, stmt); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrInvariantViolation, err)
	}

	merged, changed := r.store.MergeNew(source, t.edges)
	for _, e := range merged {
		r.logger.Tracef("Resolved edge %s\n", e)
	}
	return merged, changed, nil
}

// ResolveGoto is not implemented by this resolver: branches are only resolved as part of Resolve.
func (r *Resolver) ResolveGoto(state absint.State, stmt *lang.Branch) ([]cfa.Edge, error) {
	return nil, fmt.Errorf("%w: ResolveGoto", ErrNotSupported)
}
