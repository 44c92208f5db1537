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
	"github.com/bits-and-blooms/bitset"
	"github.com/pkg/errors"

	"github.com/clusterfab/fabtree/catalog"
	"github.com/clusterfab/fabtree/hostlist"
)

// Hierarchy is the ordered switch table for one configuration epoch. It has
// no internal locking: the control plane serializes mutations, and readers
// (planning, address resolution) borrow it read-only.
//
// All name lookups are linear scans. Switch counts are small relative to
// node counts, so a secondary index is not worth carrying.
type Hierarchy struct {
	cat      *catalog.Catalog
	switches []*Switch
	maxLevel int

	// blockHook, when set, runs after any switch's membership changes so
	// derived block configuration can be recomputed.
	blockHook func(*Switch)
}

// NewHierarchy returns an empty hierarchy over the given node catalog.
func NewHierarchy(cat *catalog.Catalog) *Hierarchy {
	return &Hierarchy{cat: cat}
}

func (h *Hierarchy) Catalog() *catalog.Catalog {
	return h.cat
}

func (h *Hierarchy) SwitchCount() int {
	return len(h.switches)
}

// MaxLevel is the height of the tree: the highest switch level present.
func (h *Hierarchy) MaxLevel() int {
	return h.maxLevel
}

// At returns the switch at the given table index, or nil if out of range.
func (h *Hierarchy) At(index int) *Switch {
	if index < 0 || index >= len(h.switches) {
		return nil
	}
	return h.switches[index]
}

// Switches returns the underlying table. Callers must not mutate it.
func (h *Hierarchy) Switches() []*Switch {
	return h.switches
}

// SwitchIndex returns the table index of the named switch, or -1.
func (h *Hierarchy) SwitchIndex(name string) int {
	for i, sw := range h.switches {
		if sw.Name == name {
			return i
		}
	}
	return -1
}

// NodeBitmap returns the member-node bitmap of the named switch, or nil if
// the switch is unknown. The bitmap is shared, not copied.
func (h *Hierarchy) NodeBitmap(name string) *bitset.BitSet {
	if i := h.SwitchIndex(name); i >= 0 {
		return h.switches[i].NodeBitmap
	}
	return nil
}

// OverlapsSwitch reports whether any node in mask sits under the named switch.
func (h *Hierarchy) OverlapsSwitch(name string, mask *bitset.BitSet) bool {
	b := h.NodeBitmap(name)
	return b != nil && b.IntersectionCardinality(mask) > 0
}

// WithinSwitch reports whether every node in mask sits under the named switch.
func (h *Hierarchy) WithinSwitch(name string, mask *bitset.BitSet) bool {
	b := h.NodeBitmap(name)
	return b != nil && b.IsSuperSet(mask)
}

// OnBlockConfigUpdate installs the hook invoked after an ancestor's
// membership changes.
func (h *Hierarchy) OnBlockConfigUpdate(hook func(*Switch)) {
	h.blockHook = hook
}

// AddSwitch is the switch creation primitive: it appends a new leaf switch
// under the given parent index (NoParent for a new root) and returns its
// table index. Ancestor levels and descendant links are updated so the
// level-monotonicity invariant keeps holding.
func (h *Hierarchy) AddSwitch(name string, parent int) (int, error) {
	if h.SwitchIndex(name) >= 0 {
		return -1, errors.Wrap(ErrDuplicateSwitch, name)
	}
	if parent != NoParent && h.At(parent) == nil {
		return -1, errors.Wrapf(ErrUnresolvedSwitch, "parent index %d for switch %s", parent, name)
	}

	sw := &Switch{
		Index:      len(h.switches),
		Name:       name,
		Level:      0,
		Parent:     parent,
		NodeBitmap: bitset.New(uint(h.cat.Count())),
	}
	h.switches = append(h.switches, sw)

	if parent != NoParent {
		p := h.switches[parent]
		p.Children = append(p.Children, sw.Index)
		h.refreshSwitches(p)

		// A leaf gaining a child stops being a leaf. Push levels up the
		// chain until strict monotonicity holds again.
		child := sw
		for anc := parent; anc != NoParent; {
			a := h.switches[anc]
			a.Descendants = append(a.Descendants, sw.Index)
			if a.Level <= child.Level {
				a.Level = child.Level + 1
			}
			if a.Level > h.maxLevel {
				h.maxLevel = a.Level
			}
			child = a
			anc = a.Parent
		}
	}
	return sw.Index, nil
}

// ExpandToWholeSwitches grows mask to full leaf-switch boundaries: any leaf
// overlapping the mask contributes all of its member nodes.
func (h *Hierarchy) ExpandToWholeSwitches(mask *bitset.BitSet) {
	for _, sw := range h.switches {
		if !sw.IsLeaf() {
			continue
		}
		if sw.NodeBitmap.IntersectionCardinality(mask) > 0 {
			mask.InPlaceUnion(sw.NodeBitmap)
		}
	}
}

// NodeNames renders the node names for the set bits of b, in index order.
func (h *Hierarchy) NodeNames(b *bitset.BitSet) []string {
	var names []string
	for i, ok := b.NextSet(0); ok; i, ok = b.NextSet(i + 1) {
		if n := h.cat.At(int(i)); n != nil {
			names = append(names, n.Name)
		}
	}
	return names
}

// refreshNodes recomputes the cached Nodes string after a bitmap change.
func (h *Hierarchy) refreshNodes(sw *Switch) {
	sw.Nodes = hostlist.Compress(h.NodeNames(sw.NodeBitmap))
}

func (h *Hierarchy) refreshSwitches(sw *Switch) {
	names := make([]string, len(sw.Children))
	for i, c := range sw.Children {
		names[i] = h.switches[c].Name
	}
	sw.Switches = hostlist.Compress(names)
}
