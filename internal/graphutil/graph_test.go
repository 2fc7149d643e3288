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

package graphutil_test

import (
	"testing"

	"github.com/awslabs/ar-cfa-tools/analysis/lang"
	"github.com/awslabs/ar-cfa-tools/internal/graphutil"
	"github.com/yourbasic/graph"
	gonum "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/traverse"
)

func labelsOf(nodes gonum.Nodes) []lang.Label {
	var labels []lang.Label
	for nodes.Next() {
		labels = append(labels, nodes.Node().(graphutil.CNode).Label)
	}
	return labels
}

func TestCFAGraphNodes(t *testing.T) {
	cg := graphutil.NewCFAGraph(loadStore(t, loopsCFA))
	if cg.Order() != 6 {
		t.Fatalf("expected 6 nodes, got %d", cg.Order())
	}
	nodes := cg.Nodes()
	if nodes.Len() != 6 {
		t.Errorf("expected 6 nodes in the iterator, got %d", nodes.Len())
	}
	all := labelsOf(nodes)
	if len(all) != 6 || all[0] != lang.NewLabel(0x1) || all[5] != lang.NewLabel(0x6) {
		t.Errorf("nodes should be iterated in label order from the first one, got %v", all)
	}
	nodes.Reset()
	if len(labelsOf(nodes)) != 6 {
		t.Errorf("reset iterator should visit all nodes again")
	}

	id3 := cg.IDs[lang.NewLabel(0x3)]
	if to := labelsOf(cg.To(id3)); len(to) != 2 || to[0] != lang.NewLabel(0x2) || to[1] != lang.NewLabel(0x5) {
		t.Errorf("expected predecessors 0x2 and 0x5 of 0x3, got %v", to)
	}
	if from := labelsOf(cg.From(id3)); len(from) != 2 || from[0] != lang.NewLabel(0x1) || from[1] != lang.NewLabel(0x4) {
		t.Errorf("expected successors 0x1 and 0x4 of 0x3, got %v", from)
	}
	id1 := cg.IDs[lang.NewLabel(0x1)]
	if !cg.HasEdgeFromTo(id3, id1) || cg.HasEdgeFromTo(id1, id3) || !cg.HasEdgeBetween(id1, id3) {
		t.Errorf("unexpected edge relation between 0x1 and 0x3")
	}
	if cg.Edge(id1, id3) != nil {
		t.Errorf("there is no edge 0x1 -> 0x3")
	}
	if e := cg.Edge(id3, id1); e == nil || e.From().ID() != id3 || e.ReversedEdge().From().ID() != id1 {
		t.Errorf("unexpected edge 0x3 -> 0x1: %v", e)
	}
	if cg.Node(99) != nil {
		t.Errorf("node 99 should not exist")
	}
}

func TestCFAGraphReachability(t *testing.T) {
	cg := graphutil.NewCFAGraph(loadStore(t, loopsCFA))
	reached := func(from lang.Address) int {
		n := 0
		bf := traverse.BreadthFirst{Visit: func(gonum.Node) { n++ }}
		bf.Walk(cg, cg.Node(cg.IDs[lang.NewLabel(from)]), nil)
		return n
	}
	if n := reached(0x6); n != 6 {
		t.Errorf("all nodes are reachable from 0x6, got %d", n)
	}
	if n := reached(0x1); n != 5 {
		t.Errorf("expected 5 nodes reachable from 0x1, got %d", n)
	}
}

func TestCFAGraphComponents(t *testing.T) {
	cg := graphutil.NewCFAGraph(loadStore(t, loopsCFA))
	big := 0
	for _, c := range graph.StrongComponents(cg) {
		if len(c) > 1 {
			big++
			if len(c) != 5 {
				t.Errorf("expected the component of 0x1..0x5, got %v", c)
			}
		}
	}
	if big != 1 {
		t.Errorf("expected one non-trivial component, got %d", big)
	}

	sub := graphutil.Subgraph(cg, []int64{cg.IDs[lang.NewLabel(0x4)], cg.IDs[lang.NewLabel(0x5)]})
	if sub.Order() != cg.Order() {
		t.Errorf("subgraph should keep the ids of the original graph")
	}
	if sub.Node(cg.IDs[lang.NewLabel(0x1)]) != nil {
		t.Errorf("0x1 is not in the subgraph")
	}
	if from := labelsOf(sub.From(cg.IDs[lang.NewLabel(0x5)])); len(from) != 0 {
		t.Errorf("edge 0x5 -> 0x3 should be removed from the subgraph, got %v", from)
	}
}
