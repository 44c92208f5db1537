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
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderToString(t *testing.T, info *TopoInfo, opts RenderOptions) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, info.Render(&buf, opts))
	return buf.String()
}

func TestRenderAllRecords(t *testing.T) {
	out := renderToString(t, testSnapshot(), RenderOptions{})

	assert.Equal(t, strings.Join([]string{
		"SwitchName=s0 Level=0 LinkSpeed=100 Nodes=n[1-3]",
		"SwitchName=s1 Level=0 LinkSpeed=100 Nodes=n[4-6]",
		"SwitchName=s4 Level=1 LinkSpeed=40 Nodes=n[1-6] Switches=s[0-1]",
	}, "\n")+"\n", out)
}

func TestRenderFilterBySwitchName(t *testing.T) {
	out := renderToString(t, testSnapshot(), RenderOptions{SwitchName: "s1"})
	assert.Equal(t, "SwitchName=s1 Level=0 LinkSpeed=100 Nodes=n[4-6]\n", out)
}

func TestRenderFilterByNodes(t *testing.T) {
	out := renderToString(t, testSnapshot(), RenderOptions{Nodes: "n5"})

	// n5 sits under s1 and its parent s4.
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "SwitchName=s1")
	assert.Contains(t, lines[1], "SwitchName=s4")
}

func TestRenderFilterNoMatch(t *testing.T) {
	out := renderToString(t, testSnapshot(), RenderOptions{SwitchName: "ghost"})
	assert.Empty(t, out)
}

func TestRenderTruncatesLines(t *testing.T) {
	out := renderToString(t, testSnapshot(), RenderOptions{
		SwitchName: "s0",
		MaxLineLen: 16,
	})
	assert.Equal(t, "SwitchName=s0 Le\n", out)
}

func TestRenderBadNodesFilter(t *testing.T) {
	var buf bytes.Buffer
	err := testSnapshot().Render(&buf, RenderOptions{Nodes: "n[1-"})
	assert.Error(t, err)
}

func TestRenderEmptySnapshot(t *testing.T) {
	out := renderToString(t, &TopoInfo{}, RenderOptions{})
	assert.Empty(t, out)
}
