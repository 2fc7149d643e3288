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

// Package tools contains utility types and functions for the acfr tool frontends.
package tools

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/awslabs/ar-cfa-tools/analysis"
	"github.com/awslabs/ar-cfa-tools/analysis/config"
	"github.com/awslabs/ar-cfa-tools/analysis/lang"
)

// UnparsedCommonFlags represents an unparsed CLI sub-command flags.
type UnparsedCommonFlags struct {
	FlagSet    *flag.FlagSet
	ConfigPath *string
	Verbose    *bool
	Raw        *bool
	Base       *string
	Mode       *int
}

// NewUnparsedCommonFlags returns an unparsed flag set with a given name.
// This is useful for creating sub-commands that have the flags -config,
// -verbose, -raw, -base and -mode but need other flags in addition.
func NewUnparsedCommonFlags(name string) UnparsedCommonFlags {
	cmd := flag.NewFlagSet(name, flag.ExitOnError)
	configPath := cmd.String("config", "", "config file path for analysis")
	verbose := cmd.Bool("verbose", false, "verbose printing on standard output")
	raw := cmd.Bool("raw", false, "the input is raw machine code instead of an ELF binary")
	base := cmd.String("base", "0x0", "address at which raw machine code is loaded")
	mode := cmd.Int("mode", 64, "processor mode of raw machine code (16, 32 or 64)")
	return UnparsedCommonFlags{
		FlagSet:    cmd,
		ConfigPath: configPath,
		Verbose:    verbose,
		Raw:        raw,
		Base:       base,
		Mode:       mode,
	}
}

// Parse parses args and returns the common flags.
func (f UnparsedCommonFlags) Parse(name string, args []string) (CommonFlags, error) {
	if err := f.FlagSet.Parse(args); err != nil {
		return CommonFlags{}, fmt.Errorf("failed to parse command %s with args %v: %v", name, args, err)
	}
	base, err := strconv.ParseUint(*f.Base, 0, 64)
	if err != nil {
		return CommonFlags{}, fmt.Errorf("invalid base address %q: %v", *f.Base, err)
	}
	return CommonFlags{
		FlagSet:    f.FlagSet,
		ConfigPath: *f.ConfigPath,
		Verbose:    *f.Verbose,
		Raw:        *f.Raw,
		Base:       lang.Address(base),
		Mode:       *f.Mode,
	}, nil
}

// CommonFlags represents a parsed CLI sub-command flags.
// E.g., for the command `acfr resolve ...`, "resolve" is the sub-command.
type CommonFlags struct {
	FlagSet    *flag.FlagSet
	ConfigPath string
	Verbose    bool
	Raw        bool
	Base       lang.Address
	Mode       int
}

// NewCommonFlags returns a parsed flag set with a given name.
// Returns an error if args are invalid.
// Prints cmdUsage along with flag docs as the --help message.
func NewCommonFlags(name string, args []string, cmdUsage string) (CommonFlags, error) {
	flags := NewUnparsedCommonFlags(name)
	SetUsage(flags.FlagSet, cmdUsage)
	return flags.Parse(name, args)
}

// LoadOptions returns the options for loading the binary given on the command line.
func (f CommonFlags) LoadOptions() analysis.LoadProgramOptions {
	return analysis.LoadProgramOptions{Raw: f.Raw, Base: f.Base, Mode: f.Mode}
}

// Binary returns the path of the binary to analyze, the only positional argument.
func (f CommonFlags) Binary() (string, error) {
	if f.FlagSet.NArg() != 1 {
		return "", fmt.Errorf("expected exactly one binary to analyze, got %d arguments", f.FlagSet.NArg())
	}
	return f.FlagSet.Arg(0), nil
}

// SetUsage sets cmd's usage (for --help flag) to output the string cmdUsage
// followed by each flag's documentation.
func SetUsage(cmd *flag.FlagSet, cmdUsage string) {
	cmd.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s\n", cmdUsage)
		fmt.Fprintf(os.Stderr, "Options:\n")
		cmd.VisitAll(func(f *flag.Flag) {
			fmt.Fprintf(os.Stderr, "  %s: %s (default: %q)\n", f.Name, f.Usage, f.DefValue)
		})
	}
}

// LoadConfig loads the config file from configPath. If configPath is empty, the default configuration is returned.
// The verbose flag raises the log level to debug.
func LoadConfig(configPath string, verbose bool) (*config.Config, error) {
	cfg := config.NewDefault()
	if configPath != "" {
		config.SetGlobalConfig(configPath)
		var err error
		cfg, err = config.LoadGlobal()
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %v", configPath, err)
		}
	}
	if verbose && cfg.LogLevel < int(config.DebugLevel) {
		cfg.LogLevel = int(config.DebugLevel)
	}
	return cfg, nil
}
