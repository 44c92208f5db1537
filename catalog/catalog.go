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

// Package catalog holds the node record table for the cluster. The control
// plane owns and mutates it; the topology core only consumes node identity
// and indices and writes back node ranks.
package catalog

import (
	"github.com/pkg/errors"
)

var ErrDuplicateNode = errors.New("catalog: duplicate node name")

// Node is one compute node record. Index is the node's stable ordinal in
// the table and doubles as its bit position in topology bitmaps.
type Node struct {
	Index int
	Name  string

	// Rank is a placement hint assigned by ranking passes. Zero means
	// unranked.
	Rank int
}

// Catalog is the ordered node table plus a name index.
type Catalog struct {
	nodes  []*Node
	byName map[string]*Node
}

func New() *Catalog {
	return &Catalog{
		byName: make(map[string]*Node),
	}
}

// NewFromNames builds a catalog with one node per name, indexed in order.
func NewFromNames(names []string) (*Catalog, error) {
	c := New()
	for _, name := range names {
		if _, err := c.Add(name); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add appends a node record and returns it.
func (c *Catalog) Add(name string) (*Node, error) {
	if _, ok := c.byName[name]; ok {
		return nil, errors.Wrap(ErrDuplicateNode, name)
	}
	node := &Node{Index: len(c.nodes), Name: name}
	c.nodes = append(c.nodes, node)
	c.byName[name] = node
	return node, nil
}

// Get returns the node with the given name, or nil.
func (c *Catalog) Get(name string) *Node {
	return c.byName[name]
}

// At returns the node at the given index, or nil if out of range.
func (c *Catalog) At(index int) *Node {
	if index < 0 || index >= len(c.nodes) {
		return nil
	}
	return c.nodes[index]
}

// Count returns the number of node records.
func (c *Catalog) Count() int {
	return len(c.nodes)
}

// Names returns node names in table order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.nodes))
	for i, n := range c.nodes {
		names[i] = n.Name
	}
	return names
}
