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

// Package lang defines the program model consumed by the control flow resolver: labels, expressions and the
// statement variants, with a visitor interface for exhaustive dispatch over statements.
package lang

import (
	"fmt"
)

// A StmtOp must implement methods for ALL the statement variants that can be loaded from a program.
type StmtOp interface {
	DoOrdinary(*Ordinary)
	DoBranch(*Branch)
	DoHalt(*Halt)
}

// StmtSwitch maps the statement variants to the methods of the visitor. Derived statements (assumptions and unknown
// procedure calls) never reside at a label and are rejected with an error.
func StmtSwitch(visitor StmtOp, stmt Statement) error {
	switch stmt := stmt.(type) {
	case *Ordinary:
		visitor.DoOrdinary(stmt)
	case *Branch:
		visitor.DoBranch(stmt)
	case *Halt:
		visitor.DoHalt(stmt)
	case nil:
		return fmt.Errorf("nil statement")
	default:
		return fmt.Errorf("statement %s of type %T cannot be dispatched", stmt, stmt)
	}
	return nil
}

// Successors returns the static successors of a statement, ignoring the dynamic target of branches.
func Successors(stmt Statement) []Label {
	switch stmt := stmt.(type) {
	case *Ordinary:
		return []Label{stmt.Next}
	case *Branch:
		if next := stmt.NextLabel(); next.IsSome() {
			return []Label{next.Value()}
		}
	case *Assume:
		return []Label{stmt.Next}
	case *UnknownProcedureCall:
		return []Label{stmt.Next}
	}
	return nil
}
