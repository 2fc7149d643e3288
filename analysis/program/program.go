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

// Package program is the statement repository of a loaded binary: statements by label, the harness of
// instrumented call stubs and the modules making up the image.
package program

import (
	"fmt"
	"sort"

	"github.com/awslabs/ar-cfa-tools/analysis/config"
	"github.com/awslabs/ar-cfa-tools/analysis/lang"
	fn "github.com/awslabs/ar-cfa-tools/internal/funcutil"
	"golang.org/x/tools/container/intsets"
)

// A Module is a named address range [Start, End) of the image.
type Module struct {
	Name  string
	Start lang.Address
	End   lang.Address
}

// Contains returns true if a is in the module.
func (m Module) Contains(a lang.Address) bool {
	return m.Start <= a && a < m.End
}

func (m Module) String() string {
	return fmt.Sprintf("%s[%s, %s)", m.Name, m.Start, m.End)
}

// Program holds the statements of the analyzed image. Statements are indexed by address: the label context is
// ignored when looking up a statement.
type Program struct {
	statements map[lang.Address]lang.Statement

	// starts is the set of addresses at which an instruction starts
	starts intsets.Sparse

	harness map[lang.Address]lang.Address
	modules []Module
	entry   lang.Label
}

// New returns an empty program.
func New() *Program {
	return &Program{
		statements: map[lang.Address]lang.Statement{},
		harness:    map[lang.Address]lang.Address{},
	}
}

// AddStatement adds the statement at its label's address, replacing any previous one.
func (p *Program) AddStatement(s lang.Statement) {
	a := s.Label().Addr
	p.statements[a] = s
	p.starts.Insert(int(a))
}

// Statement returns the statement at the address of label l.
func (p *Program) Statement(l lang.Label) (lang.Statement, bool) {
	s, ok := p.statements[l.Addr]
	return s, ok
}

// IsInstructionStart returns true if an instruction starts at a.
func (p *Program) IsInstructionStart(a lang.Address) bool {
	return p.starts.Has(int(a))
}

// Statements returns all the statements, ordered by address.
func (p *Program) Statements() []lang.Statement {
	var keys []int
	keys = p.starts.AppendTo(keys)
	addrs := fn.Map(keys, func(k int) lang.Address { return lang.Address(k) })
	// keys of addresses above the signed range are negative and come first
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	stmts := make([]lang.Statement, 0, len(addrs))
	for _, a := range addrs {
		stmts = append(stmts, p.statements[a])
	}
	return stmts
}

// Len returns the number of statements.
func (p *Program) Len() int {
	return len(p.statements)
}

// SetEntry sets the entry label of the program.
func (p *Program) SetEntry(l lang.Label) {
	p.entry = l
}

// Entry returns the entry label of the program.
func (p *Program) Entry() lang.Label {
	return p.entry
}

// RegisterHarness registers the instrumented call stub at stub, resuming at resume.
func (p *Program) RegisterHarness(stub lang.Address, resume lang.Address) {
	p.harness[stub] = resume
}

// HarnessContains returns true if a is an instrumented call stub.
func (p *Program) HarnessContains(a lang.Address) bool {
	_, ok := p.harness[a]
	return ok
}

// HarnessFallthrough returns the address at which the harness stub at a resumes. It returns a itself if a is not a
// stub.
func (p *Program) HarnessFallthrough(a lang.Address) lang.Address {
	if ft, ok := p.harness[a]; ok {
		return ft
	}
	return a
}

// AddModule adds a module to the image.
func (p *Program) AddModule(m Module) {
	p.modules = append(p.modules, m)
	sort.Slice(p.modules, func(i, j int) bool { return p.modules[i].Start < p.modules[j].Start })
}

// Modules returns the modules of the image ordered by start address.
func (p *Program) Modules() []Module {
	return p.modules
}

// ModuleContaining returns the module containing a, if any.
func (p *Program) ModuleContaining(a lang.Address) fn.Optional[Module] {
	for _, m := range p.modules {
		if m.Start > a {
			break
		}
		if m.Contains(a) {
			return fn.Some(m)
		}
	}
	return fn.None[Module]()
}

// ApplyConfig registers the harness entries and the modules declared in the configuration.
func (p *Program) ApplyConfig(cfg *config.Config) {
	for _, h := range cfg.Harness {
		p.RegisterHarness(lang.Address(h.Stub), lang.Address(h.Fallthrough))
	}
	for _, m := range cfg.Modules {
		p.AddModule(Module{Name: m.Name, Start: lang.Address(m.Start), End: lang.Address(m.End)})
	}
}
