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

package config

import (
	"fmt"
	"os"
	"path"
	"strconv"

	"gopkg.in/yaml.v3"
)

var (
	// The global config file
	configFile string
)

// SetGlobalConfig sets the global config filename
func SetGlobalConfig(filename string) {
	configFile = filename
}

// LoadGlobal loads the config file that has been set by SetGlobalConfig
func LoadGlobal() (*Config, error) {
	return Load(configFile)
}

// ProcedureAbstraction selects how call and return instructions are modeled by the control flow resolver.
type ProcedureAbstraction string

const (
	// PreciseProcedures case-splits calls and returns like any other indirect branch
	PreciseProcedures ProcedureAbstraction = "precise"
	// HeuristicProcedures is accepted for compatibility; the resolver treats it like PreciseProcedures
	HeuristicProcedures ProcedureAbstraction = "heuristic"
	// OptimisticProcedures steps over calls and turns returns into dead ends. This is unsound.
	OptimisticProcedures ProcedureAbstraction = "optimistic"
)

// Valid returns true if p is one of the known procedure abstraction modes.
func (p ProcedureAbstraction) Valid() bool {
	switch p {
	case PreciseProcedures, HeuristicProcedures, OptimisticProcedures:
		return true
	default:
		return false
	}
}

// Address is an address in a config file. It can be written as an integer or as a string in any base accepted by
// strconv.ParseUint with base 0 (e.g. "0x401000").
type Address uint64

// UnmarshalYAML implements yaml.Unmarshaler
func (a *Address) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: address must be a scalar", value.Line)
	}
	x, err := strconv.ParseUint(value.Value, 0, 64)
	if err != nil {
		return fmt.Errorf("line %d: invalid address %q: %w", value.Line, value.Value, err)
	}
	*a = Address(x)
	return nil
}

// MarshalYAML implements yaml.Marshaler. Addresses are written in hexadecimal.
func (a Address) MarshalYAML() (interface{}, error) {
	return fmt.Sprintf("0x%x", uint64(a)), nil
}

// HarnessEntry registers an instrumented call stub: calls at Stub resume at Fallthrough when procedures are
// abstracted optimistically.
type HarnessEntry struct {
	Stub        Address `yaml:"stub"`
	Fallthrough Address `yaml:"fallthrough"`
}

// ModuleSpec declares a module (a loaded image or section) as the address range [Start, End).
type ModuleSpec struct {
	Name  string  `yaml:"name"`
	Start Address `yaml:"start"`
	End   Address `yaml:"end"`
}

// Config contains the options of the control flow reconstruction and the description of the analyzed image that
// cannot be recovered from the binary itself (harness stubs, additional modules).
// If some field is not defined in the config file, it will be empty/zero in the struct.
// private fields are not populated from a yaml file, but computed after initialization
type Config struct {
	Options `yaml:"options"`

	sourceFile string

	// unresolvedReportFile is a file name in ReportsDir when ReportUnresolved is true
	unresolvedReportFile string

	// Harness lists the instrumented call stubs
	Harness []HarnessEntry `yaml:"harness"`

	// Modules lists address ranges considered part of the program, in addition to the ones found by the loader
	Modules []ModuleSpec `yaml:"modules"`
}

// Options are the scalar settings of the analysis.
type Options struct {
	// ReportsDir is the directory where all the reports will be stored. If the yaml config file this config struct has
	// been loaded does not specify a ReportsDir but sets any Report* option to true, then ReportsDir will be created
	// in the folder of the config file.
	ReportsDir string `yaml:"reports-dir"`

	// ReportUnresolved specifies whether the labels of unresolved branches should be written to a file
	// unresolved-*.out in the reports directory
	ReportUnresolved bool `yaml:"report-unresolved"`

	// ProcedureAbstraction selects the handling of calls and returns. Default is precise.
	ProcedureAbstraction ProcedureAbstraction `yaml:"procedure-abstraction"`

	// AddressSanityThreshold is the address below which a resolved branch target is reported as implausible.
	// Targets are never dropped because of it.
	AddressSanityThreshold uint64 `yaml:"address-sanity-threshold"`

	// MaxIterations bounds the number of rounds of the fixpoint driver. If MaxIterations <= 0, it is ignored.
	MaxIterations int `yaml:"max-iterations"`

	// Workers is the number of labels the fixpoint driver resolves in parallel in each round.
	Workers int `yaml:"workers"`

	// Loglevel controls the verbosity of the tool
	LogLevel int `yaml:"log-level"`
}

// NewDefault returns an empty default config.
func NewDefault() *Config {
	return &Config{
		sourceFile:           "",
		unresolvedReportFile: "",
		Harness:              nil,
		Modules:              nil,
		Options: Options{
			ReportsDir:             "",
			ReportUnresolved:       false,
			ProcedureAbstraction:   PreciseProcedures,
			AddressSanityThreshold: DefaultAddressSanityThreshold,
			MaxIterations:          DefaultMaxIterations,
			Workers:                DefaultWorkers,
			LogLevel:               int(InfoLevel),
		},
	}
}

// Load reads a configuration from a file
func Load(filename string) (*Config, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	cfg, err := Parse(b)
	if err != nil {
		return nil, err
	}
	cfg.sourceFile = filename

	if cfg.ReportUnresolved {
		if err := setReportsDir(cfg, filename); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Parse reads a configuration from the contents of a yaml file. Unset options get their default value.
func Parse(b []byte) (*Config, error) {
	cfg := NewDefault()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config file: %w", err)
	}

	// If logLevel has not been specified (i.e. it is 0) set the default to Info
	if cfg.LogLevel == 0 {
		cfg.LogLevel = int(InfoLevel)
	}
	if cfg.ProcedureAbstraction == "" {
		cfg.ProcedureAbstraction = PreciseProcedures
	}
	if !cfg.ProcedureAbstraction.Valid() {
		return nil, fmt.Errorf("unknown procedure abstraction %q (expected %s, %s or %s)",
			cfg.ProcedureAbstraction, PreciseProcedures, HeuristicProcedures, OptimisticProcedures)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	for _, m := range cfg.Modules {
		if m.End <= m.Start {
			return nil, fmt.Errorf("module %q has an empty address range [0x%x, 0x%x)", m.Name, m.Start, m.End)
		}
	}
	return cfg, nil
}

func setReportsDir(c *Config, filename string) error {
	if c.ReportsDir == "" {
		tmpdir, err := os.MkdirTemp(path.Dir(filename), "*-report")
		if err != nil {
			return fmt.Errorf("could not create temp dir for reports")
		}
		c.ReportsDir = tmpdir
	} else {
		err := os.Mkdir(c.ReportsDir, 0750)
		if err != nil {
			if !os.IsExist(err) {
				return fmt.Errorf("could not create directory %s", c.ReportsDir)
			}
		}
	}
	reportFile, err := os.CreateTemp(c.ReportsDir, "unresolved-*.out")
	if err != nil {
		return fmt.Errorf("could not create report file for unresolved branches")
	}
	c.unresolvedReportFile = reportFile.Name()
	reportFile.Close() // the file will be reopened as needed
	return nil
}

// UnresolvedReportFile returns the file name that will contain the list of unresolved branches
func (c Config) UnresolvedReportFile() string {
	return c.unresolvedReportFile
}

// RelPath returns filename path relative to the config source file
func (c Config) RelPath(filename string) string {
	return path.Join(path.Dir(c.sourceFile), filename)
}

// Verbose returns true is the configuration verbosity setting is larger than Info (i.e. Debug or Trace)
func (c Config) Verbose() bool {
	return c.LogLevel >= int(DebugLevel)
}

// IsOptimistic returns true if calls and returns are abstracted optimistically.
func (c Config) IsOptimistic() bool {
	return c.ProcedureAbstraction == OptimisticProcedures
}

// ExceedsMaxIterations returns true if the round number i exceeds the iteration limit of the configuration.
// (if the configuration setting is <= 0, then this returns false)
func (c Config) ExceedsMaxIterations(i int) bool {
	if c.MaxIterations <= 0 {
		return false
	}
	return i >= c.MaxIterations
}
