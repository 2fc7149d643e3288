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

package analysis

import (
	"bytes"
	"fmt"
	"os"

	"github.com/awslabs/ar-cfa-tools/analysis/config"
	"github.com/awslabs/ar-cfa-tools/analysis/lang"
	"github.com/awslabs/ar-cfa-tools/analysis/program"
)

// LoadProgramOptions combines the options for loading a binary.
type LoadProgramOptions struct {
	// Raw indicates the file holds raw machine code instead of an ELF binary
	Raw bool

	// Base is the address at which raw code is mapped
	Base lang.Address

	// Mode is the processor mode of raw code: 16, 32 or 64
	Mode int
}

// LoadProgram loads the program in filename and registers the harness and modules of the configuration.
func LoadProgram(filename string, options LoadProgramOptions, cfg *config.Config) (*program.Program, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not load program: %w", err)
	}
	return LoadProgramBytes(b, options, cfg)
}

// LoadProgramBytes is LoadProgram on the contents of a file.
func LoadProgramBytes(b []byte, options LoadProgramOptions, cfg *config.Config) (*program.Program, error) {
	var p *program.Program
	var err error
	if options.Raw {
		mode := options.Mode
		if mode == 0 {
			mode = 64
		}
		p, err = program.LoadCode(b, options.Base, mode)
	} else {
		p, err = program.LoadELF(bytes.NewReader(b))
	}
	if err != nil {
		return nil, fmt.Errorf("could not load program: %w", err)
	}
	if cfg != nil {
		p.ApplyConfig(cfg)
	}
	return p, nil
}
