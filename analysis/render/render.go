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

// Package render writes the control flow automaton recovered by the analysis in the GraphViz format.
// MUST edges are solid, MAY edges are dashed, branches with an unresolved target are highlighted in red and edge
// targets without a statement are drawn dotted.
package render

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/awslabs/ar-cfa-tools/analysis/cfa"
	"github.com/awslabs/ar-cfa-tools/analysis/lang"
	"github.com/emicklei/dot"
)

// Program gives the statements displayed in the nodes.
type Program interface {
	Statement(l lang.Label) (lang.Statement, bool)
}

// Graph builds the dot graph of the edges in store. Nodes are labeled by the statement at their label when prog has
// one. unresolved are the labels of the branches whose target could not be resolved.
func Graph(prog Program, store *cfa.EdgeStore, unresolved []lang.Label) *dot.Graph {
	g := dot.NewGraph(dot.Directed)
	g.Attr("rankdir", "TB")
	nodes := map[lang.Label]dot.Node{}
	node := func(l lang.Label) dot.Node {
		if n, ok := nodes[l]; ok {
			return n
		}
		n := g.Node(l.String()).Box()
		if stmt, ok := prog.Statement(l); ok {
			n = n.Label(stmt.String())
		} else {
			n = n.Attr("style", "dotted")
		}
		nodes[l] = n
		return n
	}

	for _, e := range store.All() {
		edge := g.Edge(node(e.Source), node(e.Target))
		if label := edgeLabel(e); label != "" {
			edge = edge.Label(label)
		}
		if e.Kind == cfa.Must {
			edge.Solid()
		} else {
			edge.Dashed()
		}
	}
	for _, l := range unresolved {
		node(l).Attr("color", "red").Attr("fontcolor", "red")
	}
	return g
}

func edgeLabel(e cfa.Edge) string {
	switch s := e.Stmt.(type) {
	case *lang.Assume:
		if n, ok := s.Predicate.(lang.Number); ok && n.IsTrue() {
			return ""
		}
		return s.Predicate.String()
	case *lang.UnknownProcedureCall:
		return fmt.Sprintf("call %s", s.Call.Target)
	default:
		return ""
	}
}

// WriteGraphviz writes the graphviz representation of the CFA to w.
func WriteGraphviz(prog Program, store *cfa.EdgeStore, unresolved []lang.Label, w io.Writer) error {
	if _, err := io.WriteString(w, Graph(prog, store, unresolved).String()); err != nil {
		return fmt.Errorf("error while writing graph: %w", err)
	}
	return nil
}

// GraphvizToFile writes the graphviz representation of the CFA to filename.
func GraphvizToFile(prog Program, store *cfa.EdgeStore, unresolved []lang.Label, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	defer w.Flush()

	return WriteGraphviz(prog, store, unresolved, w)
}
