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
	"strings"

	"github.com/pkg/errors"

	"github.com/clusterfab/fabtree/catalog"
)

// AssignNodeToUnit places a node under the leaf switch named by the unit
// path, creating missing switches along the path, or detaches the node from
// the topology entirely when unit is empty.
//
// The unit path lists switch names from leaf to ancestor, colon delimited,
// e.g. "leaf3:spine1:core0". The outermost switch must already exist; every
// unknown inner name is created under its neighbor toward the root. The
// resolved target must be a leaf switch.
//
// On error the hierarchy is left unchanged. After success the union and
// leaf-exclusivity invariants hold, and every touched switch's cached
// strings and block configuration are refreshed.
func (h *Hierarchy) AssignNodeToUnit(node *catalog.Node, unit string) error {
	target := NoParent
	if toks := splitUnit(unit); len(toks) > 0 {
		var err error
		if target, err = h.resolveUnit(toks); err != nil {
			return err
		}
	}

	// One pass over the leaf switches. A leaf needs work only when the
	// node's current membership disagrees with it being the target.
	// Ancestors shared between an add chain and a remove chain are
	// visited once: the add marks them, the remove stops there.
	touched := make([]bool, len(h.switches))
	for i, leaf := range h.switches {
		if !leaf.IsLeaf() {
			continue
		}
		inSwitch := leaf.NodeBitmap.Test(uint(node.Index))
		isTarget := i == target
		if inSwitch == isTarget {
			continue
		}

		for s := i; s != NoParent; s = h.switches[s].Parent {
			if touched[s] {
				break
			}
			sw := h.switches[s]
			if isTarget {
				slog.Debug(
					"Adding node to switch",
					slog.String("node", node.Name),
					slog.String("switch", sw.Name),
				)
				sw.NodeBitmap.Set(uint(node.Index))
				touched[s] = true
			} else {
				slog.Debug(
					"Removing node from switch",
					slog.String("node", node.Name),
					slog.String("switch", sw.Name),
				)
				sw.NodeBitmap.Clear(uint(node.Index))
			}
			h.refreshNodes(sw)
			if h.blockHook != nil {
				h.blockHook(sw)
			}
		}
	}
	return nil
}

func splitUnit(unit string) []string {
	var toks []string
	for _, tok := range strings.Split(unit, ":") {
		if tok != "" {
			toks = append(toks, tok)
		}
	}
	return toks
}

// resolveUnit resolves the leaf-first unit path to a leaf switch index,
// creating unknown switches. Failures are detected before any switch is
// created so the table never ends up half updated.
func (h *Hierarchy) resolveUnit(toks []string) (int, error) {
	outer := toks[len(toks)-1]
	if h.SwitchIndex(outer) < 0 {
		return -1, errors.Wrapf(ErrUnresolvedSwitch, "don't know where to add switch %s", outer)
	}
	if ix := h.SwitchIndex(toks[0]); ix >= 0 && !h.switches[ix].IsLeaf() {
		return -1, errors.Wrap(ErrNotLeafSwitch, toks[0])
	}

	parent := NoParent
	for i := len(toks) - 1; i >= 0; i-- {
		ix := h.SwitchIndex(toks[i])
		if ix < 0 {
			var err error
			if ix, err = h.AddSwitch(toks[i], parent); err != nil {
				return -1, err
			}
		}
		parent = ix
	}
	return parent, nil
}
