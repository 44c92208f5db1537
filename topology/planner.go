// Copyright 2024 The fabtree Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package topology

import (
	"log/slog"
	"sync"

	"github.com/bits-and-blooms/bitset"
	"github.com/pkg/errors"

	"github.com/clusterfab/fabtree/common/metric"
	"github.com/clusterfab/fabtree/hostlist"
)

// Plan is the result of fanout planning: ordered groups of node names, one
// per communication branch, plus the estimated depth of the resulting
// communication tree.
type Plan struct {
	Groups [][]string
	Depth  int
}

type PlannerOptions struct {
	// FlatRouting skips topology-aware planning entirely.
	FlatRouting bool

	// Authoritative marks the planner as running inside the control plane
	// that owns the topology. There an empty hierarchy is a consistency
	// violation, not something to recover from.
	Authoritative bool

	// Rebuild supplies a hierarchy when planning is requested before one
	// was built. Only consulted in non-authoritative mode.
	Rebuild func() (*Hierarchy, error)
}

// Planner computes topology-aligned fanout plans. It only reads the
// hierarchy; the one mutex serializes the lazy rebuild path so concurrent
// callers cannot race to rebuild.
type Planner struct {
	mu        sync.Mutex
	hierarchy *Hierarchy
	options   PlannerOptions

	plansTotal metric.Counter
	flatTotal  metric.Counter
	planDepth  metric.Histogram
	planGroups metric.Histogram
}

func NewPlanner(h *Hierarchy, options PlannerOptions) *Planner {
	return &Planner{
		hierarchy: h,
		options:   options,
		plansTotal: metric.NewCounter("fabtree_planner_plans_total",
			"Number of fanout plans computed", "1", nil),
		flatTotal: metric.NewCounter("fabtree_planner_flat_fallbacks_total",
			"Plans delegated to the flat width splitter", "1", nil),
		planDepth: metric.NewCountHistogram("fabtree_planner_plan_depth",
			"Estimated communication tree depth per plan", nil),
		planGroups: metric.NewCountHistogram("fabtree_planner_plan_groups",
			"Number of groups per plan", nil),
	}
}

// Reset installs the hierarchy of a new configuration epoch, or clears the
// planner when h is nil.
func (p *Planner) Reset(h *Hierarchy) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hierarchy = h
}

// Plan partitions the target nodes into groups aligned to switch subtree
// boundaries and estimates the depth of a width-ary communication tree
// reaching all of them.
func (p *Planner) Plan(targets []string, width int) (*Plan, error) {
	p.plansTotal.Inc()
	if p.options.FlatRouting {
		return p.flat(targets, width), nil
	}

	h, err := p.ensureHierarchy()
	if err != nil {
		return nil, err
	}

	cat := h.Catalog()
	nodes := bitset.New(uint(cat.Count()))
	for _, name := range targets {
		node := cat.Get(name)
		if node == nil {
			return nil, errors.Wrap(ErrUnknownNode, name)
		}
		nodes.Set(uint(node.Index))
	}

	// Per-leaf forward tree depth; every overlapping leaf becomes active.
	// The plan depth starts as the worst leaf depth.
	active := bitset.New(uint(h.SwitchCount()))
	depth := 0
	for j, sw := range h.Switches() {
		if !sw.IsLeaf() {
			continue
		}
		overlap := int(sw.NodeBitmap.IntersectionCardinality(nodes))
		if overlap == 0 {
			continue
		}
		if d := FanoutDepth(overlap, width); d > depth {
			depth = d
		}
		active.Set(uint(j))
	}
	activeCount := int(active.Count())

	// Collapse actives level by level: a switch with more than one active
	// descendant replaces them all. The uppermost level where a collapse
	// happened tells how many extra fanout levels the merges cost.
	upper := 0
	for level := 1; level <= h.MaxLevel(); level++ {
		if activeCount < 2 {
			break
		}
		for j, sw := range h.Switches() {
			if activeCount < 2 {
				break
			}
			if sw.Level != level {
				continue
			}
			firstChild := -1
			childCnt := 0
			for _, d := range sw.Descendants {
				if !active.Test(uint(d)) {
					continue
				}
				childCnt++
				if childCnt > 1 {
					active.Clear(uint(d))
				} else {
					firstChild = d
				}
			}
			if childCnt > 1 {
				if level > upper {
					upper = level
				}
				active.Clear(uint(firstChild))
				active.Set(uint(j))
				activeCount -= childCnt - 1
			}
		}
	}
	depth += upper

	// All targets under a single leaf: the flat splitter is strictly
	// better, and its depth is the one callers get.
	if first, ok := active.NextSet(0); ok && activeCount == 1 {
		sw := h.At(int(first))
		if sw.IsLeaf() && sw.NodeBitmap.IsSuperSet(nodes) {
			return p.flat(targets, width), nil
		}
	}

	var groups [][]string
	remaining := nodes.Clone()
	msgCount := int(nodes.Count())
	for j, ok := active.NextSet(0); ok && msgCount > 0; j, ok = active.NextSet(j + 1) {
		msgCount -= h.subtreeGroups(int(j), remaining, &groups)
	}

	// Targets under no known switch still need to be reached: one
	// singleton group each.
	if remaining.Any() {
		slog.Debug(
			"No switch found containing some target nodes",
			slog.String("nodes", hostlist.Compress(h.NodeNames(remaining))),
		)
		for i, ok := remaining.NextSet(0); ok; i, ok = remaining.NextSet(i + 1) {
			if node := cat.At(int(i)); node != nil {
				groups = append(groups, []string{node.Name})
			}
		}
	}

	p.planDepth.Record(depth)
	p.planGroups.Record(len(groups))
	return &Plan{Groups: groups, Depth: depth}, nil
}

// subtreeGroups emits one group per immediate child of parent whose subtree
// holds remaining targets, removing them from remaining. Returns the number
// of nodes assigned.
func (h *Hierarchy) subtreeGroups(parent int, remaining *bitset.BitSet, groups *[][]string) int {
	assigned := 0
	total := int(remaining.Count())
	for _, k := range h.switches[parent].Children {
		fwd := h.switches[k].NodeBitmap.Intersection(remaining)
		cnt := int(fwd.Count())
		if cnt == 0 {
			continue
		}
		*groups = append(*groups, h.NodeNames(fwd))
		remaining.InPlaceDifference(fwd)
		slog.Debug(
			"Planned subtree group",
			slog.String("switch", h.switches[k].Name),
			slog.String("nodes", hostlist.Compress(h.NodeNames(fwd))),
		)
		assigned += cnt
		if assigned == total {
			break
		}
	}
	return assigned
}

func (p *Planner) flat(targets []string, width int) *Plan {
	p.flatTotal.Inc()
	groups, depth := SplitWidth(targets, width)
	p.planDepth.Record(depth)
	p.planGroups.Record(len(groups))
	return &Plan{Groups: groups, Depth: depth}
}

// ensureHierarchy returns the planner's hierarchy, rebuilding it first when
// planning was requested before any topology existed. At most one caller
// performs the rebuild; the rest block here until it is done.
func (p *Planner) ensureHierarchy() (*Hierarchy, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.hierarchy != nil && p.hierarchy.SwitchCount() > 0 {
		return p.hierarchy, nil
	}
	if p.options.Authoritative {
		return nil, errors.Wrap(ErrEmptyTopology,
			"planning in the authoritative control plane requires a built topology")
	}
	if p.options.Rebuild == nil {
		return nil, ErrEmptyTopology
	}

	slog.Info("Topology not built yet, rebuilding before planning")
	h, err := p.options.Rebuild()
	if err != nil {
		return nil, errors.Wrap(err, "failed to rebuild topology")
	}
	if h == nil || h.SwitchCount() == 0 {
		return nil, ErrEmptyTopology
	}
	p.hierarchy = h
	return h, nil
}
