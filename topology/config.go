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

	"github.com/bits-and-blooms/bitset"
	"github.com/emirpasic/gods/sets/linkedhashset"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/clusterfab/fabtree/catalog"
	"github.com/clusterfab/fabtree/hostlist"
)

// SwitchConfig is one switch entry of the topology configuration. Leaf
// switches carry Nodes, interior switches carry Switches; exactly one of
// the two must be present.
type SwitchConfig struct {
	Name      string `json:"name" yaml:"name" mapstructure:"name"`
	Nodes     string `json:"nodes,omitempty" yaml:"nodes,omitempty" mapstructure:"nodes"`
	Switches  string `json:"switches,omitempty" yaml:"switches,omitempty" mapstructure:"switches"`
	LinkSpeed uint32 `json:"linkSpeed,omitempty" yaml:"linkSpeed,omitempty" mapstructure:"linkSpeed"`
}

// Config is the topology configuration for one epoch.
type Config struct {
	Switches []SwitchConfig `json:"switches" yaml:"switches" mapstructure:"switches"`

	// Nodes optionally lists the full cluster node set. When empty, the
	// node set is derived from the leaf switch entries in order.
	Nodes string `json:"nodes,omitempty" yaml:"nodes,omitempty" mapstructure:"nodes"`

	// RankBySwitch enables leaf-switch based node ranking.
	RankBySwitch bool `json:"rankBySwitch,omitempty" yaml:"rankBySwitch,omitempty" mapstructure:"rankBySwitch"`

	// FlatRouting disables topology-aware fanout planning; all plans fall
	// back to the flat width-based splitter.
	FlatRouting bool `json:"flatRouting,omitempty" yaml:"flatRouting,omitempty" mapstructure:"flatRouting"`
}

// NodeNames returns the ordered, de-duplicated cluster node names declared
// by the configuration.
func (c Config) NodeNames() ([]string, error) {
	if c.Nodes != "" {
		return hostlist.Expand(c.Nodes)
	}
	seen := linkedhashset.New()
	for _, sc := range c.Switches {
		if sc.Nodes == "" {
			continue
		}
		names, err := hostlist.Expand(sc.Nodes)
		if err != nil {
			return nil, errors.Wrapf(err, "switch %s", sc.Name)
		}
		for _, n := range names {
			seen.Add(n)
		}
	}
	out := make([]string, 0, seen.Size())
	for _, v := range seen.Values() {
		out = append(out, v.(string))
	}
	return out, nil
}

// Build validates the configuration and populates a hierarchy over the
// given catalog. On any validation failure no hierarchy is returned; all
// problems found are reported together.
func Build(cfg Config, cat *catalog.Catalog) (*Hierarchy, error) {
	h := NewHierarchy(cat)
	if len(cfg.Switches) == 0 {
		return h, nil
	}

	var err error

	for _, sc := range cfg.Switches {
		if h.SwitchIndex(sc.Name) >= 0 {
			err = multierr.Append(err, errors.Wrap(ErrDuplicateSwitch, sc.Name))
			continue
		}
		if sc.Nodes != "" && sc.Switches != "" {
			err = multierr.Append(err,
				errors.Errorf("topology: switch %s declares both nodes and switches", sc.Name))
		}
		if sc.Nodes == "" && sc.Switches == "" {
			err = multierr.Append(err,
				errors.Errorf("topology: switch %s declares neither nodes nor switches", sc.Name))
		}
		h.switches = append(h.switches, &Switch{
			Index:      len(h.switches),
			Name:       sc.Name,
			Parent:     NoParent,
			NodeBitmap: bitsetForCatalog(cat),
			LinkSpeed:  sc.LinkSpeed,
		})
	}
	if err != nil {
		return nil, err
	}

	// Link parent/child edges.
	children := make([][]int, len(h.switches))
	for i, sc := range cfg.Switches {
		if sc.Switches == "" {
			continue
		}
		names, herr := hostlist.Expand(sc.Switches)
		if herr != nil {
			err = multierr.Append(err, errors.Wrapf(herr, "switch %s", sc.Name))
			continue
		}
		seen := linkedhashset.New()
		for _, name := range names {
			if seen.Contains(name) {
				continue
			}
			seen.Add(name)
			ci := h.SwitchIndex(name)
			if ci < 0 {
				err = multierr.Append(err,
					errors.Wrapf(ErrUnresolvedSwitch, "child %s of switch %s", name, sc.Name))
				continue
			}
			if h.switches[ci].Parent != NoParent {
				err = multierr.Append(err,
					errors.Errorf("topology: switch %s claimed by multiple parents", name))
				continue
			}
			h.switches[ci].Parent = i
			children[i] = append(children[i], ci)
		}
	}
	if err != nil {
		return nil, err
	}
	for i, sw := range h.switches {
		sw.Children = children[i]
	}

	// Compute levels bottom-up, catching cycles.
	levels := make([]int, len(h.switches))
	state := make([]int, len(h.switches)) // 0 unvisited, 1 visiting, 2 done
	var computeLevel func(i int) (int, error)
	computeLevel = func(i int) (int, error) {
		switch state[i] {
		case 1:
			return 0, errors.Errorf("topology: cycle involving switch %s", h.switches[i].Name)
		case 2:
			return levels[i], nil
		}
		state[i] = 1
		level := 0
		for _, c := range h.switches[i].Children {
			cl, cerr := computeLevel(c)
			if cerr != nil {
				return 0, cerr
			}
			if cl+1 > level {
				level = cl + 1
			}
		}
		state[i] = 2
		levels[i] = level
		return level, nil
	}
	for i := range h.switches {
		if _, cerr := computeLevel(i); cerr != nil {
			return nil, cerr
		}
	}
	for i, sw := range h.switches {
		sw.Level = levels[i]
		if levels[i] > h.maxLevel {
			h.maxLevel = levels[i]
		}
	}

	// Leaf membership bitmaps.
	owner := make(map[string]string) // node name -> owning leaf
	for i, sc := range cfg.Switches {
		sw := h.switches[i]
		if !sw.IsLeaf() || sc.Nodes == "" {
			continue
		}
		names, herr := hostlist.Expand(sc.Nodes)
		if herr != nil {
			err = multierr.Append(err, errors.Wrapf(herr, "switch %s", sc.Name))
			continue
		}
		for _, name := range names {
			node := cat.Get(name)
			if node == nil {
				slog.Warn(
					"Ignoring node not present in the catalog",
					slog.String("node", name),
					slog.String("switch", sw.Name),
				)
				continue
			}
			if prev, claimed := owner[name]; claimed {
				err = multierr.Append(err,
					errors.Errorf("topology: node %s in leaf switches %s and %s", name, prev, sw.Name))
				continue
			}
			owner[name] = sw.Name
			sw.NodeBitmap.Set(uint(node.Index))
		}
	}
	if err != nil {
		return nil, err
	}

	// Descendant closure and interior bitmaps, deepest levels first so a
	// parent always unions fully-populated children.
	for level := 1; level <= h.maxLevel; level++ {
		for _, sw := range h.switches {
			if sw.Level != level {
				continue
			}
			for _, c := range sw.Children {
				child := h.switches[c]
				sw.Descendants = append(sw.Descendants, c)
				sw.Descendants = append(sw.Descendants, child.Descendants...)
				sw.NodeBitmap.InPlaceUnion(child.NodeBitmap)
			}
		}
	}

	for _, sw := range h.switches {
		h.refreshNodes(sw)
		h.refreshSwitches(sw)
	}

	slog.Debug(
		"Built switch hierarchy",
		slog.Int("switches", len(h.switches)),
		slog.Int("levels", h.maxLevel),
		slog.Int("nodes", cat.Count()),
	)
	return h, nil
}

func bitsetForCatalog(cat *catalog.Catalog) *bitset.BitSet {
	return bitset.New(uint(cat.Count()))
}
