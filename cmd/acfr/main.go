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


package main

import (
	"fmt"
	"io"
	"os"

	"github.com/awslabs/ar-cfa-tools/analysis"
	"github.com/awslabs/ar-cfa-tools/cmd/acfr/render"
	"github.com/awslabs/ar-cfa-tools/cmd/acfr/resolve"
	"github.com/awslabs/ar-cfa-tools/cmd/acfr/tools"
)

const usage = `acfr: Abstract Control Flow Recovery
Usage:
  acfr [tool] [options] <binary>
Tools:
  - resolve: recovers the control flow of a binary and reports whether the result is sound
  - render: renders the recovered control flow in the GraphViz format
Examples:
  Recover the control flow of an ELF binary: acfr resolve --config=config.yaml ./a.out
  Render raw machine code: acfr render -raw -base 0x401000 -out cfa.dot code.bin`

// subcommands maps each tool name to the function parsing its arguments and running it
var subcommands = map[string]func(args []string, w io.Writer) error{
	"resolve": func(args []string, w io.Writer) error {
		flags, err := resolve.NewFlags(args)
		if err != nil {
			return err
		}
		return resolve.Run(flags, w)
	},
	"render": func(args []string, w io.Writer) error {
		flags, err := render.NewFlags(args)
		if err != nil {
			return err
		}
		return render.Run(flags, w)
	},
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "error: expected subcommand\n%s\n", usage)
		os.Exit(2)
	}

	switch name := os.Args[1]; name {
	case "-help", "--help":
		fmt.Println(usage)
	case "-version", "--version":
		fmt.Println(analysis.Version)
	default:
		run, ok := subcommands[name]
		if !ok {
			fmt.Fprintf(os.Stderr, "error: unexpected command: %v\nusage:\n%s\n", name, usage)
			os.Exit(2)
		}
		if err := run(os.Args[2:], os.Stdout); err != nil {
			errExit(err)
		}
	}
}

func errExit(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	if hint := tools.HintForErrorMessage(err.Error()); hint != "" {
		fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
	}
	os.Exit(2)
}
