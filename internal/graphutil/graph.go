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

// Package graphutil adapts the control flow automaton to existing graph libraries, and implements the graph
// algorithms those libraries do not offer.
package graphutil

import (
	"sort"

	"github.com/awslabs/ar-cfa-tools/analysis/cfa"
	"github.com/awslabs/ar-cfa-tools/analysis/lang"
	"gonum.org/v1/gonum/graph"
)

// CFAGraph is an abstraction over the edges of a control flow automaton to work with existing graph libraries. It
// implements the methods to satisfy yourbasic's graph.Iterator and Gonum's graph.Directed.
//
// Node ids are dense: the labels of the automaton, in label order, have ids 0 to Order()-1.
type CFAGraph struct {
	// Labels maps node ids to labels
	Labels []lang.Label

	// IDs maps labels to node ids
	IDs map[lang.Label]int64

	// Keys are the node ids of the graph, in increasing order
	Keys []int64

	// Edges is an adjacency matrix: Edges[x][y] means there is a directed edge between Labels[x] and Labels[y]
	Edges map[int64]map[int64]bool

	// reverse[y][x] iff Edges[x][y]
	reverse map[int64]map[int64]bool
}

// NewCFAGraph returns the graph of all the edges of store. Kinds are ignored.
func NewCFAGraph(store *cfa.EdgeStore) CFAGraph {
	edges := store.All()
	ids := map[lang.Label]int64{}
	var labels []lang.Label
	for _, e := range edges {
		for _, l := range []lang.Label{e.Source, e.Target} {
			if _, ok := ids[l]; !ok {
				ids[l] = 0
				labels = append(labels, l)
			}
		}
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i].Less(labels[j]) })

	keys := make([]int64, len(labels))
	adj := make(map[int64]map[int64]bool, len(labels))
	reverse := make(map[int64]map[int64]bool, len(labels))
	for i, l := range labels {
		ids[l] = int64(i)
		keys[i] = int64(i)
		adj[int64(i)] = map[int64]bool{}
		reverse[int64(i)] = map[int64]bool{}
	}
	for _, e := range edges {
		x, y := ids[e.Source], ids[e.Target]
		adj[x][y] = true
		reverse[y][x] = true
	}

	return CFAGraph{
		Labels:  labels,
		IDs:     ids,
		Keys:    keys,
		Edges:   adj,
		reverse: reverse,
	}
}

// Subgraph returns a new graph that is the original graph with only the nodes in include. Only the edges that have
// both the origin and destination nodes in the include nodes are kept in the resulting graph.
// The subgraph's order and labels are the same as in origin, meaning that node indices will stay consistent
// across subgraphs.
func Subgraph(original CFAGraph, include []int64) CFAGraph {
	in := make(map[int64]bool, len(include))
	keys := make([]int64, len(include))
	for j, i := range include {
		keys[j] = i
		in[i] = true
	}

	edges := make(map[int64]map[int64]bool, len(include))
	reverse := make(map[int64]map[int64]bool, len(include))
	for _, i := range include {
		edges[i] = map[int64]bool{}
		if reverse[i] == nil {
			reverse[i] = map[int64]bool{}
		}
		for e := range original.Edges[i] {
			if in[e] {
				edges[i][e] = true
				if reverse[e] == nil {
					reverse[e] = map[int64]bool{}
				}
				reverse[e][i] = true
			}
		}
	}

	return CFAGraph{
		Labels:  original.Labels,
		IDs:     original.IDs,
		Keys:    keys,
		Edges:   edges,
		reverse: reverse,
	}
}

// Order implements the order of the graph.Iterator interface for the CFAGraph
func (c CFAGraph) Order() int {
	return len(c.Labels)
}

// Visit implements the graph.Iterator interface for the CFAGraph. Successors are visited in increasing id order.
func (c CFAGraph) Visit(v int, do func(w int, c int64) (skip bool)) (aborted bool) {
	for _, w := range sortedIDs(c.Edges[int64(v)]) {
		if do(int(w), 1) {
			return true
		}
	}
	return false
}

// Label returns the label of the node with id, and false if there is none.
func (c CFAGraph) Label(id int64) (lang.Label, bool) {
	if id < 0 || id >= int64(len(c.Labels)) {
		return lang.Label{}, false
	}
	return c.Labels[id], true
}

// *************** Graph interface implementation **********************

// Node implements the Graph interface. It returns nil if the node is not in the graph.
func (c CFAGraph) Node(id int64) graph.Node {
	if _, ok := c.Edges[id]; !ok {
		return nil
	}
	return CNode{id: id, Label: c.Labels[id]}
}

// Nodes returns the set of nodes in the graph
func (c CFAGraph) Nodes() graph.Nodes {
	return c.nodeSet(c.Keys)
}

// From returns the set of nodes reachable from the id
func (c CFAGraph) From(id int64) graph.Nodes {
	return c.nodeSet(sortedIDs(c.Edges[id]))
}

// To returns the set of nodes that have an edge to id
func (c CFAGraph) To(id int64) graph.Nodes {
	return c.nodeSet(sortedIDs(c.reverse[id]))
}

// HasEdgeBetween returns a boolean indicating whether an edge exists between the two node identifiers
func (c CFAGraph) HasEdgeBetween(xid, yid int64) bool {
	return c.Edges[xid][yid] || c.Edges[yid][xid]
}

// HasEdgeFromTo returns whether there is a directed edge from uid to vid
func (c CFAGraph) HasEdgeFromTo(uid, vid int64) bool {
	return c.Edges[uid][vid]
}

// Edge returns the edge between the two identifiers (nil if none exists)
func (c CFAGraph) Edge(uid, vid int64) graph.Edge {
	if c.Edges[uid][vid] {
		return CEdge{from: CNode{id: uid, Label: c.Labels[uid]}, to: CNode{id: vid, Label: c.Labels[vid]}}
	}
	return nil
}

func (c CFAGraph) nodeSet(ids []int64) *NodeSet {
	nodes := make([]CNode, len(ids))
	for i, id := range ids {
		nodes[i] = CNode{id: id, Label: c.Labels[id]}
	}
	return &NodeSet{nodes: nodes, cur: -1}
}

func sortedIDs(set map[int64]bool) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// *************** Nodes implementation **********************

// CNode is a label of the automaton that implements the graph.Node interface
type CNode struct {
	id    int64
	Label lang.Label
}

// ID returns the id of the node
func (n CNode) ID() int64 {
	return n.id
}

func (n CNode) String() string {
	return n.Label.String()
}

// NodeSet implements the graph.Nodes interface, an iterator over a set of nodes
type NodeSet struct {
	nodes []CNode

	// cur is the current index of the iterator, -1 before the first call to Next
	cur int
}

// Next moves the current node to the next, and returns true if such a node exists. Otherwise, returns false
// and the current node has not changed.
func (ns *NodeSet) Next() bool {
	if ns.cur < len(ns.nodes)-1 {
		ns.cur++
		return true
	}
	return false
}

// Len returns the number of nodes remaining in the iterator
func (ns *NodeSet) Len() int {
	return len(ns.nodes) - ns.cur - 1
}

// Reset resets the iterator before its first node
func (ns *NodeSet) Reset() {
	ns.cur = -1
}

// Node return the current node in the set, nil if Next has not been called
func (ns *NodeSet) Node() graph.Node {
	if ns.cur < 0 || ns.cur >= len(ns.nodes) {
		return nil
	}
	return ns.nodes[ns.cur]
}

// *************** Edge implementation **********************

// CEdge implements the graph.Edge interface
type CEdge struct {
	from CNode
	to   CNode
}

// From returns the origin of the edge
func (e CEdge) From() graph.Node {
	return e.from
}

// To returns the destination of the edge
func (e CEdge) To() graph.Node {
	return e.to
}

// ReversedEdge returns a new value representing the reversed edge
func (e CEdge) ReversedEdge() graph.Edge {
	return CEdge{from: e.to, to: e.from}
}

var _ graph.Directed = CFAGraph{}
