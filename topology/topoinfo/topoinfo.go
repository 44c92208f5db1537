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

// Package topoinfo provides point-in-time snapshots of a switch hierarchy
// for transfer, persistence and diagnostics.
package topoinfo

import (
	"github.com/clusterfab/fabtree/topology"
)

// Record is the portable form of one switch.
type Record struct {
	Level     uint16 `json:"level" yaml:"level"`
	LinkSpeed uint32 `json:"linkSpeed" yaml:"linkSpeed"`
	Name      string `json:"name" yaml:"name"`
	Nodes     string `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	Switches  string `json:"switches,omitempty" yaml:"switches,omitempty"`
}

// TopoInfo is a detached snapshot of the switch table. It shares nothing
// with the live hierarchy.
type TopoInfo struct {
	Records []Record `json:"switches" yaml:"switches"`
}

// Snapshot captures the hierarchy's switch table.
func Snapshot(h *topology.Hierarchy) *TopoInfo {
	t := &TopoInfo{
		Records: make([]Record, 0, h.SwitchCount()),
	}
	for _, sw := range h.Switches() {
		t.Records = append(t.Records, Record{
			Level:     uint16(sw.Level),
			LinkSpeed: sw.LinkSpeed,
			Name:      sw.Name,
			Nodes:     sw.Nodes,
			Switches:  sw.Switches,
		})
	}
	return t
}

// RecordCount returns the number of switch records in the snapshot.
func (t *TopoInfo) RecordCount() int {
	return len(t.Records)
}
