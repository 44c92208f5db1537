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
	"github.com/clusterfab/fabtree/hostlist"
)

// NodeAddr derives the dotted hierarchical address of a node and the
// matching pattern, walking switch levels from the root down:
//
//	address: s8.s4.s0.n1
//	pattern: switch.switch.switch.node
func (h *Hierarchy) NodeAddr(nodeName string) (addr string, pattern string, err error) {
	if h.SwitchCount() == 0 {
		return nodeName, "node", nil
	}

	node := h.cat.Get(nodeName)
	if node == nil {
		return "", "", errors.Wrap(ErrUnknownNode, nodeName)
	}

	var addrSb, patternSb strings.Builder
	for level := h.maxLevel; level >= 0; level-- {
		var names []string
		for _, sw := range h.switches {
			if sw.Level != level {
				continue
			}
			if sw.NodeBitmap.Test(uint(node.Index)) {
				names = append(names, sw.Name)
			}
		}
		addrSb.WriteString(hostlist.Compress(names))
		addrSb.WriteByte('.')
		patternSb.WriteString("switch.")
	}
	addrSb.WriteString(nodeName)
	patternSb.WriteString("node")
	return addrSb.String(), patternSb.String(), nil
}

// GenerateNodeRanking assigns one rank per leaf switch to every node under
// it, walking leaves in table order starting at rank 1. A temporary
// hierarchy is built from the configuration just to find the leaves and is
// discarded again. Reports whether ranks were assigned.
func GenerateNodeRanking(cfg Config, cat *catalog.Catalog) bool {
	if !cfg.RankBySwitch {
		return false
	}

	h, err := Build(cfg, cat)
	if err != nil {
		slog.Warn(
			"Skipping node ranking, topology failed to build",
			slog.Any("error", err),
		)
		return false
	}
	if h.SwitchCount() == 0 {
		return false
	}

	// Default rank is 0, so start at 1.
	rank := 1
	for _, sw := range h.switches {
		if !sw.IsLeaf() {
			continue
		}
		for i, ok := sw.NodeBitmap.NextSet(0); ok; i, ok = sw.NodeBitmap.NextSet(i + 1) {
			node := cat.At(int(i))
			if node == nil {
				continue
			}
			node.Rank = rank
			slog.Debug(
				"Assigned node rank",
				slog.String("node", node.Name),
				slog.Int("rank", rank),
			)
		}
		rank++
	}
	return true
}
