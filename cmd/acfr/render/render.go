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

// Package render implements the front-end rendering the recovered control flow of a binary in the GraphViz format.
package render

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/awslabs/ar-cfa-tools/analysis"
	"github.com/awslabs/ar-cfa-tools/analysis/config"
	cfarender "github.com/awslabs/ar-cfa-tools/analysis/render"
	"github.com/awslabs/ar-cfa-tools/cmd/acfr/tools"
	"github.com/awslabs/ar-cfa-tools/internal/formatutil"
)

// Usage is the usage of the render sub-command.
const Usage = `Render the recovered control flow of a binary in the GraphViz format.

Usage:
  acfr render [options] <binary>

Examples:
Write the control flow of an ELF binary to cfa.dot
  % acfr render -out cfa.dot ./a.out
Print the control flow of raw machine code
  % acfr render -raw -base 0x401000 code.bin
`

// Flags represents the parsed render sub-command flags.
type Flags struct {
	tools.CommonFlags
	out string
}

// NewFlags returns the parsed render sub-command flags from args.
func NewFlags(args []string) (Flags, error) {
	flags := tools.NewUnparsedCommonFlags("render")
	out := flags.FlagSet.String("out", "", "output file for the dot graph (standard output if not specified)")
	tools.SetUsage(flags.FlagSet, Usage)
	common, err := flags.Parse("render", args)
	if err != nil {
		return Flags{}, err
	}
	return Flags{CommonFlags: common, out: *out}, nil
}

// Run runs the render tool with flags. The graph is written to w if no output file is specified.
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

	prog, err := analysis.LoadProgram(binary, flags.LoadOptions(), cfg)
	if err != nil {
		return err
	}
	res, err := analysis.RunCFA(context.Background(), prog, cfg, logger, analysis.RunCFAParams{})
	if err != nil {
		return err
	}

	unresolved := res.Report.UnresolvedBranches()
	if flags.out == "" {
		return cfarender.WriteGraphviz(prog, res.Store, unresolved, w)
	}
	fmt.Fprintf(os.Stderr, formatutil.Faint("Writing control flow graph to %s")+"\n", flags.out)
	if err := cfarender.GraphvizToFile(prog, res.Store, unresolved, flags.out); err != nil {
		return fmt.Errorf("could not render control flow: %w", err)
	}
	return nil
}
