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
	"github.com/awslabs/ar-cfa-tools/analysis/absint"
	"github.com/awslabs/ar-cfa-tools/analysis/cfa"
	"github.com/awslabs/ar-cfa-tools/analysis/lang"
	fn "github.com/awslabs/ar-cfa-tools/internal/funcutil"
)

// transformers computes the candidate edges of one statement. It implements lang.StmtOp.
type transformers struct {
	resolver *Resolver
	state    absint.DualComposite
	source   lang.Label
	edges    []cfa.Edge
}

func (t *transformers) emit(target lang.Label, stmt lang.Statement, kind cfa.Kind) {
	t.edges = append(t.edges, cfa.NewEdge(t.source, target, stmt, kind))
}

// DoOrdinary emits the edge to the static successor. It is a MUST edge if the state has a witness.
func (t *transformers) DoOrdinary(s *lang.Ordinary) {
	kind := cfa.May
	if absint.HasWitness(t.state) {
		kind = cfa.Must
	}
	t.emit(s.Next, s, kind)
}

// DoHalt emits nothing.
func (t *transformers) DoHalt(*lang.Halt) {}

// DoBranch case-splits the branch, unless calls and returns are abstracted optimistically.
func (t *transformers) DoBranch(s *lang.Branch) {
	if t.resolver.config.IsOptimistic() {
		switch s.Type {
		case lang.BranchCall:
			t.optimisticCall(s)
			return
		case lang.BranchReturn:
			t.resolver.logger.Debugf("Return at %s is a dead end in optimistic mode\n", s.At)
			t.resolver.report.MarkUnsound()
			return
		}
	}
	t.caseSplit(s)
}

// optimisticCall steps over the call to its return site, without modeling the callee.
func (t *transformers) optimisticCall(s *lang.Branch) {
	r := t.resolver
	r.report.MarkUnsound()

	next := s.NextLabel()
	if r.prog.HarnessContains(s.At.Addr) {
		next = fn.Some(s.At.WithAddress(r.prog.HarnessFallthrough(s.At.Addr)))
	}
	if next.IsNone() {
		r.logger.Debugf("Call at %s has no return site\n", s.At)
		return
	}
	t.emit(next.Value(), &lang.UnknownProcedureCall{At: s.At, Next: next.Value(), Call: s}, cfa.May)
}

// caseSplit emits one MAY edge per concrete (condition, target) pair of the branch.
func (t *transformers) caseSplit(s *lang.Branch) {
	r := t.resolver
	ctx := lang.NewContext()
	for _, pair := range t.state.ConcretizePairs(s.Condition, s.Target) {
		if !pair.Condition {
			next := s.NextLabel()
			if next.IsNone() {
				r.logger.Debugf("Branch at %s has no fallthrough, not-taken case dropped\n", s.At)
				continue
			}
			t.checkPlausible(s, next.Value().Addr)
			assume := lang.NewAssume(s, next.Value(), lang.NewEqual(s.Condition, lang.False), ctx)
			t.emit(next.Value(), assume, cfa.May)
			continue
		}

		resolved := pair.TargetOf()
		if resolved.IsNone() {
			r.logger.Debugf("Could not resolve target of %s\n", s)
			r.report.MarkUnsound()
			r.report.AddUnresolvedBranch(s.At)
			continue
		}

		addr := resolved.Value()
		t.checkPlausible(s, addr)
		if len(r.prog.Modules()) > 0 {
			if r.prog.ModuleContaining(addr).IsNone() {
				r.logger.Debugf("Target %s of %s is outside of all modules\n", addr, s.At)
			} else if !r.prog.IsInstructionStart(addr) {
				r.logger.Warnf("Target %s of %s is not the start of a decoded instruction\n", addr, s.At)
			}
		}
		target := s.At.WithAddress(addr)
		predicate := lang.NewAnd(
			lang.NewEqual(s.Condition, lang.True),
			lang.NewEqual(s.Target, lang.NumberOf(addr)))
		t.emit(target, lang.NewAssume(s, target, predicate, ctx), cfa.May)
	}
}

// checkPlausible warns when the successor of s lies in the first bytes of the address space.
func (t *transformers) checkPlausible(s *lang.Branch, addr lang.Address) {
	if uint64(addr) < t.resolver.config.AddressSanityThreshold {
		t.resolver.logger.Warnf("Control flow from %s reaches address %s!\n", s.At, addr)
	}
}
