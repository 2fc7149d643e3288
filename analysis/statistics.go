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
	"fmt"
	"strings"

	"github.com/awslabs/ar-cfa-tools/analysis/cfa"
	"github.com/awslabs/ar-cfa-tools/analysis/lang"
	"github.com/awslabs/ar-cfa-tools/analysis/resolver"
	"github.com/awslabs/ar-cfa-tools/internal/graphutil"
	"github.com/yourbasic/graph"
	gonum "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/traverse"
)

// CFAStatistics are general statistics about a recovered control flow automaton.
type CFAStatistics struct {
	NumberOfNodes     int
	NumberOfEdges     int
	NumberOfMustEdges int
	NumberOfMayEdges  int

	// NumberOfReachable is the number of labels reachable from the entry
	NumberOfReachable int

	// NumberOfLoops is the number of strongly connected components that contain a cycle
	NumberOfLoops int

	// NumberOfCycles is the number of elementary cycles, -1 when they have not been computed
	NumberOfCycles int

	NumberOfUnresolved int
	Sound              bool
}

// ComputeStatistics returns the statistics of the automaton in store, explored from entry. Enumerating the
// elementary cycles can take exponential time; it is only done if withCycles is true.
func ComputeStatistics(entry lang.Label, store *cfa.EdgeStore, report *resolver.AnalysisReport,
	withCycles bool) CFAStatistics {
	cg := graphutil.NewCFAGraph(store)
	stats := CFAStatistics{
		NumberOfNodes:  cg.Order(),
		NumberOfCycles: -1,
	}
	for _, e := range store.All() {
		stats.NumberOfEdges++
		if e.Kind == cfa.Must {
			stats.NumberOfMustEdges++
		} else {
			stats.NumberOfMayEdges++
		}
	}

	if id, ok := cg.IDs[entry]; ok {
		bf := traverse.BreadthFirst{Visit: func(gonum.Node) { stats.NumberOfReachable++ }}
		bf.Walk(cg, cg.Node(id), nil)
	}

	for _, component := range graph.StrongComponents(cg) {
		v := int64(component[0])
		if len(component) > 1 || cg.HasEdgeFromTo(v, v) {
			stats.NumberOfLoops++
		}
	}
	if withCycles {
		stats.NumberOfCycles = len(graphutil.FindAllElementaryCycles(cg))
	}

	if report != nil {
		stats.NumberOfUnresolved = len(report.UnresolvedBranches())
		stats.Sound = report.Sound()
	}
	return stats
}

func (s CFAStatistics) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Number of labels: %d\n", s.NumberOfNodes)
	fmt.Fprintf(&b, "Number of edges: %d (%d MUST, %d MAY)\n", s.NumberOfEdges, s.NumberOfMustEdges,
		s.NumberOfMayEdges)
	fmt.Fprintf(&b, "Number of labels reachable from entry: %d\n", s.NumberOfReachable)
	fmt.Fprintf(&b, "Number of loops: %d\n", s.NumberOfLoops)
	if s.NumberOfCycles >= 0 {
		fmt.Fprintf(&b, "Number of elementary cycles: %d\n", s.NumberOfCycles)
	}
	fmt.Fprintf(&b, "Number of unresolved branches: %d\n", s.NumberOfUnresolved)
	fmt.Fprintf(&b, "Sound: %t\n", s.Sound)
	return b.String()
}
