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

// Package fixpoint implements a round-based worklist driver computing the control flow automaton of a program.
// Each round resolves the outgoing edges of all the labels whose state changed in the previous round, and
// propagates the states along the edges with the transfer functions of an abstract domain.
package fixpoint

import (
	"context"
	"fmt"
	"sort"

	"github.com/awslabs/ar-cfa-tools/analysis/absint"
	"github.com/awslabs/ar-cfa-tools/analysis/cfa"
	"github.com/awslabs/ar-cfa-tools/analysis/config"
	"github.com/awslabs/ar-cfa-tools/analysis/lang"
	"golang.org/x/sync/errgroup"
)

// A Domain provides the transfer function, order and join of the abstract states.
type Domain interface {
	// Post returns the state after following edge from state
	Post(state absint.State, edge cfa.Edge) (absint.State, error)

	// LessOrEqual is the order of the domain
	LessOrEqual(a absint.State, b absint.State) bool

	// Join returns an upper bound of a and b
	Join(a absint.State, b absint.State) absint.State
}

// A Resolver computes the outgoing edges of a state and merges them in the edge store of the run.
type Resolver interface {
	ResolveWithChanges(state absint.State) ([]cfa.Edge, bool, error)
}

// Program tells the driver which labels hold a statement.
type Program interface {
	Statement(l lang.Label) (lang.Statement, bool)
}

// Result is the outcome of a run.
type Result struct {
	// Rounds is the number of rounds executed
	Rounds int

	// Converged is false if the run stopped because of the iteration limit
	Converged bool

	// States maps every reached label to its state
	States map[lang.Label]absint.State

	// Missing are the edge targets that have no statement, in label order
	Missing []lang.Label

	// Changes counts the resolutions that inserted or upgraded an edge of the store
	Changes int
}

// Driver runs the fixpoint computation.
type Driver struct {
	prog     Program
	resolver Resolver
	domain   Domain
	config   *config.Config
	logger   *config.LogGroup
}

// NewDriver returns a driver resolving the states of domain on prog with resolver.
func NewDriver(prog Program, resolver Resolver, domain Domain, cfg *config.Config, logger *config.LogGroup) *Driver {
	if cfg == nil {
		cfg = config.NewDefault()
	}
	if logger == nil {
		logger = config.NewLogGroup(cfg)
	}
	return &Driver{
		prog:     prog,
		resolver: resolver,
		domain:   domain,
		config:   cfg,
		logger:   logger,
	}
}

// Run computes the fixpoint from the initial state. It stops when no state changes anymore, when the iteration limit
// of the configuration is reached, or when ctx is done. The first resolution error aborts the run; the partial result
// is returned with the error.
func (d *Driver) Run(ctx context.Context, initial absint.State) (*Result, error) {
	res := &Result{States: map[lang.Label]absint.State{}}
	missing := map[lang.Label]bool{}
	defer func() {
		for l := range missing {
			res.Missing = append(res.Missing, l)
		}
		sortLabels(res.Missing)
	}()

	if initial.IsBottom() {
		res.Converged = true
		return res, nil
	}
	res.States[initial.Location()] = initial
	worklist := []lang.Label{initial.Location()}

	for len(worklist) > 0 {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if d.config.ExceedsMaxIterations(res.Rounds) {
			d.logger.Warnf("Stopping after %d rounds, %d labels left to resolve\n", res.Rounds, len(worklist))
			return res, nil
		}

		sources := make([]absint.State, len(worklist))
		for i, l := range worklist {
			sources[i] = res.States[l]
		}
		outgoing, changes, err := d.resolveAll(ctx, sources)
		res.Rounds++
		res.Changes += changes
		if err != nil {
			return res, err
		}

		next := map[lang.Label]bool{}
		for i, edges := range outgoing {
			source := sources[i]
			for _, e := range edges {
				if _, ok := d.prog.Statement(e.Target); !ok {
					missing[e.Target] = true
					continue
				}
				post, err := d.domain.Post(source, e)
				if err != nil {
					return res, fmt.Errorf("transfer along %s: %w", e, err)
				}
				if post == nil || post.IsBottom() {
					continue
				}
				if old, ok := res.States[e.Target]; ok {
					if d.domain.LessOrEqual(post, old) {
						continue
					}
					post = d.domain.Join(old, post)
				}
				res.States[e.Target] = post
				next[e.Target] = true
			}
		}
		d.logger.Debugf("Round %d: resolved %d labels, %d changed the CFA, %d labels to visit\n",
			res.Rounds, len(worklist), changes, len(next))

		worklist = worklist[:0]
		for l := range next {
			worklist = append(worklist, l)
		}
		sortLabels(worklist)
	}

	res.Converged = true
	d.logger.Infof("Fixpoint reached after %d rounds, %d labels\n", res.Rounds, len(res.States))
	return res, nil
}

// resolveAll resolves the states in parallel, with at most Workers resolutions at a time. The states are at
// distinct labels, so no label is resolved twice concurrently.
func (d *Driver) resolveAll(ctx context.Context, states []absint.State) ([][]cfa.Edge, int, error) {
	outgoing := make([][]cfa.Edge, len(states))
	changed := make([]bool, len(states))

	workers := d.config.Workers
	if workers <= 0 {
		workers = config.DefaultWorkers
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, s := range states {
		i, s := i, s
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			edges, c, err := d.resolver.ResolveWithChanges(s)
			if err != nil {
				return fmt.Errorf("resolving %s: %w", s.Location(), err)
			}
			outgoing[i] = edges
			changed[i] = c
			return nil
		})
	}
	err := g.Wait()

	changes := 0
	for _, c := range changed {
		if c {
			changes++
		}
	}
	return outgoing, changes, err
}

func sortLabels(labels []lang.Label) {
	sort.Slice(labels, func(i, j int) bool { return labels[i].Less(labels[j]) })
}
