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

package cfa

import (
	"sort"
	"sync"

	"github.com/awslabs/ar-cfa-tools/analysis/lang"
)

// EdgeStore maps source labels to their known outgoing edges. It only grows: edges are never removed and kinds are
// only upgraded.
//
// The store is partitioned by source label. Merges for the same source are serialized by the lock of its partition,
// merges for different sources can run in parallel.
type EdgeStore struct {
	mu         sync.RWMutex
	partitions map[lang.Label]*partition
}

// partition holds the outgoing edges of one source label.
// invariant: at most one edge per target label
type partition struct {
	mu       sync.Mutex
	byTarget map[lang.Label]*Edge
	targets  []lang.Label // in insertion order
}

// NewEdgeStore returns an empty edge store.
func NewEdgeStore() *EdgeStore {
	return &EdgeStore{partitions: map[lang.Label]*partition{}}
}

func (s *EdgeStore) get(source lang.Label) *partition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.partitions[source]
}

func (s *EdgeStore) getOrCreate(source lang.Label) *partition {
	if p := s.get(source); p != nil {
		return p
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.partitions[source]; ok {
		return p
	}
	p := &partition{byTarget: map[lang.Label]*Edge{}}
	s.partitions[source] = p
	return p
}

// MergeNew merges candidate edges leaving source into the store.
//
// A candidate whose target has no stored edge is inserted. When a stored edge with the same target exists and the
// kinds differ, both are unified to the join of the two kinds: the stored edge is upgraded in place, and the returned
// copy of the candidate carries the upgraded kind. Candidates may contain several edges to the same target, they
// are merged pairwise. The returned slice holds one edge per distinct target, in candidate order, each with the kind
// stored after the merge.
//
// changed is true if an edge was inserted or upgraded. Merging the same candidates again changes nothing.
func (s *EdgeStore) MergeNew(source lang.Label, candidates []Edge) (merged []Edge, changed bool) {
	if len(candidates) == 0 {
		return nil, false
	}
	p := s.getOrCreate(source)
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, e := range candidates {
		existing, found := p.byTarget[e.Target]
		if !found {
			stored := e
			stored.Source = source
			p.byTarget[e.Target] = &stored
			p.targets = append(p.targets, e.Target)
			changed = true
			continue
		}
		if existing.Kind != e.Kind && existing.Kind.LessOrEqual(e.Kind) {
			existing.Kind = e.Kind
			changed = true
		}
		// otherwise the candidate is the weaker one and is upgraded below
	}

	seen := make(map[lang.Label]bool, len(candidates))
	merged = make([]Edge, 0, len(candidates))
	for _, e := range candidates {
		if seen[e.Target] {
			continue
		}
		seen[e.Target] = true
		e.Source = source
		e.Kind = p.byTarget[e.Target].Kind
		merged = append(merged, e)
	}
	return merged, changed
}

// Edges returns copies of the edges leaving source, ordered by target.
func (s *EdgeStore) Edges(source lang.Label) []Edge {
	p := s.get(source)
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	edges := make([]Edge, 0, len(p.targets))
	for _, t := range p.targets {
		edges = append(edges, *p.byTarget[t])
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].Target.Less(edges[j].Target) })
	return edges
}

// Lookup returns a copy of the edge from source to target, if it is in the store.
func (s *EdgeStore) Lookup(source lang.Label, target lang.Label) (Edge, bool) {
	p := s.get(source)
	if p == nil {
		return Edge{}, false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if e, ok := p.byTarget[target]; ok {
		return *e, true
	}
	return Edge{}, false
}

// Sources returns the labels that have outgoing edges, in label order.
func (s *EdgeStore) Sources() []lang.Label {
	s.mu.RLock()
	sources := make([]lang.Label, 0, len(s.partitions))
	for l := range s.partitions {
		sources = append(sources, l)
	}
	s.mu.RUnlock()
	sort.Slice(sources, func(i, j int) bool { return sources[i].Less(sources[j]) })
	return sources
}

// All returns copies of all the edges in the store, ordered by source and then target.
func (s *EdgeStore) All() []Edge {
	var edges []Edge
	for _, src := range s.Sources() {
		edges = append(edges, s.Edges(src)...)
	}
	return edges
}

// Len returns the number of edges in the store.
func (s *EdgeStore) Len() int {
	n := 0
	for _, src := range s.Sources() {
		p := s.get(src)
		p.mu.Lock()
		n += len(p.targets)
		p.mu.Unlock()
	}
	return n
}

// Snapshot returns copies of the edges of the store grouped by source label.
func (s *EdgeStore) Snapshot() map[lang.Label][]Edge {
	snapshot := map[lang.Label][]Edge{}
	for _, src := range s.Sources() {
		snapshot[src] = s.Edges(src)
	}
	return snapshot
}
