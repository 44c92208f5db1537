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

package topoinfo

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/clusterfab/fabtree/common/collection"
	"github.com/clusterfab/fabtree/hostlist"
)

// RenderOptions filters and shapes the human-readable switch table output.
type RenderOptions struct {
	// SwitchName restricts output to the switch with this name.
	SwitchName string

	// Nodes restricts output to switches whose node list intersects this
	// host list.
	Nodes string

	// MaxLineLen truncates each rendered line. Zero means unlimited.
	MaxLineLen int
}

// Render writes one line per matching switch record:
//
//	SwitchName=<name> Level=<level> LinkSpeed=<speed>[ Nodes=<list>][ Switches=<list>]
func (t *TopoInfo) Render(w io.Writer, opts RenderOptions) error {
	if opts.SwitchName == "" && opts.Nodes == "" {
		if len(t.Records) == 0 {
			slog.Error("No topology information available")
			return nil
		}
		for i := range t.Records {
			if err := renderRecord(w, &t.Records[i], opts.MaxLineLen); err != nil {
				return err
			}
		}
		return nil
	}

	var wanted collection.Set[string]
	if opts.Nodes != "" {
		names, err := hostlist.Expand(opts.Nodes)
		if err != nil {
			return err
		}
		wanted = collection.NewSetFrom(names)
	}

	matches := 0
	for i := range t.Records {
		r := &t.Records[i]
		if opts.SwitchName != "" && r.Name != opts.SwitchName {
			continue
		}
		if wanted != nil {
			if r.Nodes == "" {
				continue
			}
			names, err := hostlist.Expand(r.Nodes)
			if err != nil {
				return err
			}
			if !wanted.Overlaps(collection.NewSetFrom(names)) {
				continue
			}
		}
		matches++
		if err := renderRecord(w, r, opts.MaxLineLen); err != nil {
			return err
		}
	}

	if matches == 0 {
		slog.Error(
			"Topology information contains no matching switch",
			slog.String("switch", opts.SwitchName),
			slog.String("nodes", opts.Nodes),
		)
	}
	return nil
}

func renderRecord(w io.Writer, r *Record, maxLineLen int) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "SwitchName=%s Level=%d LinkSpeed=%d", r.Name, r.Level, r.LinkSpeed)
	if r.Nodes != "" {
		fmt.Fprintf(&sb, " Nodes=%s", r.Nodes)
	}
	if r.Switches != "" {
		fmt.Fprintf(&sb, " Switches=%s", r.Switches)
	}

	line := sb.String()
	if maxLineLen > 0 && len(line) > maxLineLen {
		line = line[:maxLineLen]
	}
	_, err := fmt.Fprintln(w, line)
	return err
}
