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

// Package resolve implements the front-end of the control flow recovery: it decodes a binary, resolves its control
// flow from the entry point and prints the recovered edges with the soundness report.
package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/awslabs/ar-cfa-tools/analysis"
	"github.com/awslabs/ar-cfa-tools/analysis/config"
	"github.com/awslabs/ar-cfa-tools/analysis/lang"
	"github.com/awslabs/ar-cfa-tools/cmd/acfr/tools"
	"github.com/awslabs/ar-cfa-tools/internal/formatutil"
	"github.com/awslabs/ar-cfa-tools/internal/funcutil"
)

// Usage is the usage of the resolve sub-command.
const Usage = `Recover the control flow of a binary.

Usage:
  acfr resolve [options] <binary>

Use the -help flag to display the options.

Examples:
% acfr resolve -config config.yaml ./a.out
% acfr resolve -raw -base 0x401000 -json code.bin
`

// Flags represents the flags for the resolve sub-tool.
type Flags struct {
	tools.CommonFlags
	outputJSON bool
	cycles     bool
}

// NewFlags returns parsed flags for resolve.
func NewFlags(args []string) (Flags, error) {
	flags := tools.NewUnparsedCommonFlags("resolve")
	outputJSON := flags.FlagSet.Bool("json", false, "output results as JSON")
	cycles := flags.FlagSet.Bool("cycles", false, "count the elementary cycles of the recovered control flow")
	tools.SetUsage(flags.FlagSet, Usage)
	common, err := flags.Parse("resolve", args)
	if err != nil {
		return Flags{}, err
	}
	return Flags{
		CommonFlags: common,
		outputJSON:  *outputJSON,
		cycles:      *cycles,
	}, nil
}

// Output is the JSON output of the resolve sub-command.
type Output struct {
	Sound      bool                   `json:"sound"`
	Unresolved []string               `json:"unresolved"`
	Edges      []EdgeOutput           `json:"edges"`
	Missing    []string               `json:"missing"`
	Statistics analysis.CFAStatistics `json:"statistics"`
}

// EdgeOutput is an edge of the JSON output.
type EdgeOutput struct {
	Source    string `json:"source"`
	Target    string `json:"target"`
	Kind      string `json:"kind"`
	Statement string `json:"statement"`
}

// Run runs the control flow recovery with flags and prints the results to w.
func Run(flags Flags, w io.Writer) error {
	binary, err := flags.Binary()
	if err != nil {
		return err
	}
	cfg, err := tools.LoadConfig(flags.ConfigPath, flags.Verbose)
	if err != nil {
		return err
	}
	logger := config.NewLogGroup(cfg)

	fmt.Fprintf(os.Stderr, formatutil.Faint("Decoding %s")+"\n", binary)
	prog, err := analysis.LoadProgram(binary, flags.LoadOptions(), cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, formatutil.Faint("Resolving control flow")+"\n")
	res, err := analysis.RunCFA(context.Background(), prog, cfg, logger, analysis.RunCFAParams{})
	if err != nil {
		return err
	}
	stats := analysis.ComputeStatistics(prog.Entry(), res.Store, res.Report, flags.cycles)

	if flags.outputJSON {
		out := Output{
			Sound:      res.Report.Sound(),
			Unresolved: funcutil.Map(res.Report.UnresolvedBranches(), lang.Label.String),
			Missing:    funcutil.Map(res.Fixpoint.Missing, lang.Label.String),
			Statistics: stats,
		}
		for _, e := range res.Store.All() {
			stmt := ""
			if e.Stmt != nil {
				stmt = e.Stmt.String()
			}
			out.Edges = append(out.Edges, EdgeOutput{
				Source:    e.Source.String(),
				Target:    e.Target.String(),
				Kind:      e.Kind.String(),
				Statement: stmt,
			})
		}
		buf, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("could not marshal results: %w", err)
		}
		fmt.Fprintln(w, string(buf))
		return nil
	}

	for _, src := range res.Store.Sources() {
		stmt, _ := prog.Statement(src)
		fmt.Fprintf(w, "%s\n", formatutil.Bold(formatutil.Sanitize(stmt.String())))
		for _, e := range res.Store.Edges(src) {
			fmt.Fprintf(w, "  -> %-12s %s\n", e.Target, formatutil.EdgeKind(e.Kind))
		}
	}
	fmt.Fprintf(w, "\n%s", stats)
	for _, l := range res.Report.UnresolvedBranches() {
		stmt, _ := prog.Statement(l)
		fmt.Fprintf(w, "%s %s\n", formatutil.Yellow("Unresolved:"), formatutil.Sanitize(stmt.String()))
	}
	for _, l := range res.Fixpoint.Missing {
		fmt.Fprintf(w, "%s %s\n", formatutil.Yellow("No instruction at:"), l)
	}
	fmt.Fprintf(w, "Result: %s\n", formatutil.Soundness(res.Report.Sound()))
	return nil
}
