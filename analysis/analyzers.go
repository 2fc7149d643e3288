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

// Package analysis contains helper functions for running the control flow recovery of a binary: loading, running
// the fixpoint with the resolver, and computing statistics of the result.
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/awslabs/ar-cfa-tools/analysis/absint"
	"github.com/awslabs/ar-cfa-tools/analysis/cfa"
	"github.com/awslabs/ar-cfa-tools/analysis/config"
	"github.com/awslabs/ar-cfa-tools/analysis/fixpoint"
	"github.com/awslabs/ar-cfa-tools/analysis/program"
	"github.com/awslabs/ar-cfa-tools/analysis/resolver"
)

// RunCFAParams represents the arguments for RunCFA.
type RunCFAParams struct {
	// Domain is the abstract domain of the states. If nil, the syntactic domain is used.
	Domain fixpoint.Domain

	// Initial is the state at which the analysis starts. If nil, the initial state of the syntactic domain at the
	// entry of the program is used.
	Initial absint.State
}

// CFAResult is the outcome of RunCFA.
type CFAResult struct {
	Program  *program.Program
	Store    *cfa.EdgeStore
	Report   *resolver.AnalysisReport
	Fixpoint *fixpoint.Result
	Duration time.Duration
}

// RunCFA recovers the control flow automaton of prog. If the configuration requests it, the unresolved branches
// are written to the report file of the configuration.
func RunCFA(ctx context.Context, prog *program.Program, cfg *config.Config, logger *config.LogGroup,
	args RunCFAParams) (*CFAResult, error) {
	if cfg == nil {
		cfg = config.NewDefault()
	}
	if logger == nil {
		logger = config.NewLogGroup(cfg)
	}
	domain := args.Domain
	initial := args.Initial
	if domain == nil {
		domain = absint.Syntactic{}
	}
	if initial == nil {
		initial = absint.Syntactic{}.Initial(prog.Entry())
	}

	logger.Infof("Starting control flow recovery from %s (%d statements)...\n", initial.Location(), prog.Len())
	start := time.Now()

	report := resolver.NewAnalysisReport()
	store := cfa.NewEdgeStore()
	r := resolver.New(prog, store, report, cfg, logger)
	res, err := fixpoint.NewDriver(prog, r, domain, cfg, logger).Run(ctx, initial)
	result := &CFAResult{
		Program:  prog,
		Store:    store,
		Report:   report,
		Fixpoint: res,
		Duration: time.Since(start),
	}
	if err != nil {
		return result, fmt.Errorf("control flow recovery failed: %w", err)
	}
	logger.Infof("Control flow recovery done (%.2f s): %d edges, %s.\n",
		result.Duration.Seconds(), store.Len(), report.Summary())

	if cfg.ReportUnresolved && cfg.UnresolvedReportFile() != "" {
		if err := report.WriteUnresolved(cfg.UnresolvedReportFile()); err != nil {
			logger.Errorf("Could not write unresolved branches report: %v\n", err)
		} else {
			logger.Infof("Saving unresolved branches in %s\n", cfg.UnresolvedReportFile())
		}
	}
	return result, nil
}
