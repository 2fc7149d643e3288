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

package program

import (
	"debug/elf"
	"fmt"
	"io"
	"strings"

	"github.com/awslabs/ar-cfa-tools/analysis/lang"
	fn "github.com/awslabs/ar-cfa-tools/internal/funcutil"
	"golang.org/x/arch/x86/x86asm"
)

// conditionalJumps are the x86 jumps that are taken depending on a flag or a counter.
var conditionalJumps = map[x86asm.Op]bool{
	x86asm.JA: true, x86asm.JAE: true, x86asm.JB: true, x86asm.JBE: true, x86asm.JCXZ: true, x86asm.JE: true,
	x86asm.JECXZ: true, x86asm.JG: true, x86asm.JGE: true, x86asm.JL: true, x86asm.JLE: true, x86asm.JNE: true,
	x86asm.JNO: true, x86asm.JNP: true, x86asm.JNS: true, x86asm.JO: true, x86asm.JP: true, x86asm.JRCXZ: true,
	x86asm.JS: true, x86asm.LOOP: true, x86asm.LOOPE: true, x86asm.LOOPNE: true,
}

// LoadCode decodes raw x86 machine code mapped at base. mode is the processor mode: 16, 32 or 64.
// The entry of the program is base.
func LoadCode(code []byte, base lang.Address, mode int) (*Program, error) {
	if mode != 16 && mode != 32 && mode != 64 {
		return nil, fmt.Errorf("unsupported processor mode: %d", mode)
	}
	p := New()
	decode(p, code, base, mode)
	if p.Len() == 0 {
		return nil, fmt.Errorf("no instruction could be decoded")
	}
	p.AddModule(Module{Name: "code", Start: base, End: base + lang.Address(len(code))})
	p.SetEntry(lang.NewLabel(base))
	return p, nil
}

// LoadELF parses an ELF binary from the given reader and decodes all its executable sections. Each section becomes a
// module. The entry of the program is the ELF entry point.
func LoadELF(r io.ReaderAt) (*Program, error) {
	f, err := elf.NewFile(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ELF file: %w", err)
	}
	defer f.Close()

	var mode int
	switch f.Machine {
	case elf.EM_X86_64:
		mode = 64
	case elf.EM_386:
		mode = 32
	default:
		return nil, fmt.Errorf("unsupported ELF machine: %s", f.Machine)
	}

	p := New()
	for _, sec := range f.Sections {
		if sec.Type != elf.SHT_PROGBITS || sec.Flags&elf.SHF_EXECINSTR == 0 {
			continue
		}
		code, err := sec.Data()
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to read %s section: %w", sec.Name, err)
		}
		decode(p, code, lang.Address(sec.Addr), mode)
		p.AddModule(Module{Name: sec.Name, Start: lang.Address(sec.Addr), End: lang.Address(sec.Addr + sec.Size)})
	}
	if p.Len() == 0 {
		return nil, fmt.Errorf("no executable section found")
	}
	p.SetEntry(lang.NewLabel(lang.Address(f.Entry)))
	return p, nil
}

// decode performs a linear sweep over code, adding one statement per decoded instruction. Bytes that cannot be
// decoded are skipped.
func decode(p *Program, code []byte, base lang.Address, mode int) {
	end := base + lang.Address(len(code))
	offset := 0
	for offset < len(code) {
		at := base + lang.Address(offset)
		// ENDBR64 (f3 0f 1e fa) and ENDBR32 (f3 0f 1e fb) are not recognised by x86asm
		if offset+4 <= len(code) &&
			code[offset] == 0xf3 && code[offset+1] == 0x0f &&
			code[offset+2] == 0x1e && (code[offset+3] == 0xfa || code[offset+3] == 0xfb) {
			p.AddStatement(&lang.Ordinary{At: lang.NewLabel(at), Next: lang.NewLabel(at + 4), Text: "endbr"})
			offset += 4
			continue
		}

		inst, err := x86asm.Decode(code[offset:], mode)
		if err != nil {
			offset++
			continue
		}
		next := at + lang.Address(inst.Len)
		p.AddStatement(statementOf(inst, at, next, end, mode))
		offset += inst.Len
	}
}

func statementOf(inst x86asm.Inst, at lang.Address, next lang.Address, end lang.Address, mode int) lang.Statement {
	here := lang.NewLabel(at)
	text := x86asm.IntelSyntax(inst, uint64(at), nil)
	fallthroughLabel := fn.FromOk(lang.NewLabel(next), next < end)
	branch := func(t lang.BranchType, cond lang.Expr, target lang.Expr) *lang.Branch {
		return &lang.Branch{
			At:          here,
			Condition:   cond,
			Target:      target,
			Type:        t,
			Text:        text,
			Fallthrough: fallthroughLabel,
		}
	}

	switch inst.Op {
	case x86asm.HLT, x86asm.UD1, x86asm.UD2:
		return &lang.Halt{At: here, Text: text}
	case x86asm.RET, x86asm.LRET, x86asm.IRET, x86asm.IRETD, x86asm.IRETQ:
		return branch(lang.BranchReturn, lang.True, stackTop(mode))
	case x86asm.CALL, x86asm.LCALL:
		return branch(lang.BranchCall, lang.True, targetOf(inst, next, mode))
	case x86asm.JMP, x86asm.LJMP:
		return branch(lang.BranchJump, lang.True, targetOf(inst, next, mode))
	}
	if conditionalJumps[inst.Op] {
		cond := lang.Variable{Name: "cond." + strings.ToLower(inst.Op.String()), Width: lang.BoolWidth}
		return branch(lang.BranchJump, cond, targetOf(inst, next, mode))
	}
	return &lang.Ordinary{At: here, Next: lang.NewLabel(next), Text: text}
}

// targetOf returns the target expression of a branch instruction. Direct targets are numbers; everything else is a
// variable named after the operand.
func targetOf(inst x86asm.Inst, next lang.Address, mode int) lang.Expr {
	switch arg := inst.Args[0].(type) {
	case x86asm.Rel:
		return lang.NumberOf(lang.Address(int64(next) + int64(arg)))
	case x86asm.Imm:
		return lang.NumberOf(lang.Address(arg))
	case x86asm.Mem:
		if arg.Base == x86asm.RIP && arg.Index == 0 {
			// the target is loaded from a computable memory cell (PLT/GOT entries)
			return lang.Variable{Name: fmt.Sprintf("[%s]", next+lang.Address(arg.Disp)), Width: mode}
		}
		return lang.Variable{Name: strings.ToLower(arg.String()), Width: mode}
	case nil:
		return lang.Variable{Name: "?", Width: mode}
	default:
		return lang.Variable{Name: strings.ToLower(arg.String()), Width: mode}
	}
}

func stackTop(mode int) lang.Expr {
	switch mode {
	case 16:
		return lang.Variable{Name: "[sp]", Width: mode}
	case 32:
		return lang.Variable{Name: "[esp]", Width: mode}
	default:
		return lang.Variable{Name: "[rsp]", Width: mode}
	}
}
