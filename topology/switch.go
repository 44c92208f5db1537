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

// Package topology models the physical switch hierarchy of a compute
// cluster and computes topology-aware fanout plans over it.
package topology

import (
	"github.com/bits-and-blooms/bitset"
)

// NoParent marks a root switch.
const NoParent = -1

// Switch is one record of the switch hierarchy table.
type Switch struct {
	// Index is the switch's stable position in the table and its identity.
	Index int

	Name  string
	Level int

	// Parent is the index of the ancestor switch, or NoParent at a root.
	Parent int

	// Children holds the indices of the immediate child switches, in
	// configuration order. Empty for leaf switches.
	Children []int

	// Descendants is the transitive closure of Children, so "any
	// descendant is active" checks do not re-walk the tree.
	Descendants []int

	// NodeBitmap is the set of node indices reachable under this switch.
	// For interior switches it is the union of the children's bitmaps.
	NodeBitmap *bitset.BitSet

	// Nodes and Switches are cached compressed renderings of NodeBitmap
	// and Children. They are refreshed before any mutating operation
	// returns.
	Nodes    string
	Switches string

	// LinkSpeed is informational only.
	LinkSpeed uint32
}

// IsLeaf reports whether the switch connects directly to compute nodes.
func (s *Switch) IsLeaf() bool {
	return s.Level == 0
}
