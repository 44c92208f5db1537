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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignIdempotent(t *testing.T) {
	cat, h := buildTest(t)
	n1 := cat.Get("n1")

	before := make([]string, h.SwitchCount())
	for i, sw := range h.Switches() {
		before[i] = sw.Nodes
	}

	require.NoError(t, h.AssignNodeToUnit(n1, "s0:s4:s8"))

	for i, sw := range h.Switches() {
		assert.Equal(t, before[i], sw.Nodes, "switch %s changed", sw.Name)
	}
	assertUnionInvariant(t, h)
	assertExclusivity(t, h)
}

func TestAssignReassignsAcrossLeaves(t *testing.T) {
	cat, h := buildTest(t)
	n1 := cat.Get("n1")

	// n1 moves from s0 to s1. Both share s4 and s8.
	require.NoError(t, h.AssignNodeToUnit(n1, "s1:s4:s8"))

	assert.False(t, h.NodeBitmap("s0").Test(uint(n1.Index)))
	assert.True(t, h.NodeBitmap("s1").Test(uint(n1.Index)))
	assert.True(t, h.NodeBitmap("s4").Test(uint(n1.Index)))
	assert.True(t, h.NodeBitmap("s8").Test(uint(n1.Index)))

	assert.Equal(t, "n[2-3]", h.At(h.SwitchIndex("s0")).Nodes)
	assert.Equal(t, "n[1,4-6]", h.At(h.SwitchIndex("s1")).Nodes)
	assert.Equal(t, "n[1-6]", h.At(h.SwitchIndex("s4")).Nodes)

	assertUnionInvariant(t, h)
	assertExclusivity(t, h)
}

func TestAssignAcrossSpines(t *testing.T) {
	cat, h := buildTest(t)
	n1 := cat.Get("n1")

	// n1 moves to a leaf under the other spine: s4 loses it, s5 gains it,
	// the shared core keeps it.
	require.NoError(t, h.AssignNodeToUnit(n1, "s2:s5:s8"))

	assert.False(t, h.NodeBitmap("s0").Test(uint(n1.Index)))
	assert.False(t, h.NodeBitmap("s4").Test(uint(n1.Index)))
	assert.True(t, h.NodeBitmap("s2").Test(uint(n1.Index)))
	assert.True(t, h.NodeBitmap("s5").Test(uint(n1.Index)))
	assert.True(t, h.NodeBitmap("s8").Test(uint(n1.Index)))

	assertUnionInvariant(t, h)
	assertExclusivity(t, h)
}

func TestAssignEmptyUnitDetachesNode(t *testing.T) {
	cat, h := buildTest(t)
	n1 := cat.Get("n1")

	require.NoError(t, h.AssignNodeToUnit(n1, ""))

	for _, sw := range h.Switches() {
		assert.False(t, sw.NodeBitmap.Test(uint(n1.Index)), "still in %s", sw.Name)
	}
	assert.Equal(t, "n[2-3]", h.At(h.SwitchIndex("s0")).Nodes)
	assertUnionInvariant(t, h)
}

func TestAssignCreatesMissingLeaf(t *testing.T) {
	cat, h := buildTest(t)
	n1 := cat.Get("n1")

	require.NoError(t, h.AssignNodeToUnit(n1, "s9:s4:s8"))

	s9 := h.SwitchIndex("s9")
	require.GreaterOrEqual(t, s9, 0)
	assert.Equal(t, 0, h.At(s9).Level)
	assert.Equal(t, h.SwitchIndex("s4"), h.At(s9).Parent)
	assert.True(t, h.At(s9).NodeBitmap.Test(uint(n1.Index)))
	assert.False(t, h.NodeBitmap("s0").Test(uint(n1.Index)))

	assertUnionInvariant(t, h)
	assertExclusivity(t, h)
}

func TestAssignUnresolvedSwitch(t *testing.T) {
	cat, h := buildTest(t)
	n1 := cat.Get("n1")

	err := h.AssignNodeToUnit(n1, "ghost0:ghost1")
	assert.ErrorIs(t, err, ErrUnresolvedSwitch)

	// Nothing changed.
	assert.Equal(t, 7, h.SwitchCount())
	assert.True(t, h.NodeBitmap("s0").Test(uint(n1.Index)))
}

func TestAssignNonLeafTarget(t *testing.T) {
	cat, h := buildTest(t)
	n1 := cat.Get("n1")

	err := h.AssignNodeToUnit(n1, "s4:s8")
	assert.ErrorIs(t, err, ErrNotLeafSwitch)
	assert.True(t, h.NodeBitmap("s0").Test(uint(n1.Index)))
}

func TestAssignInvokesBlockHook(t *testing.T) {
	cat, h := buildTest(t)
	n1 := cat.Get("n1")

	var updated []string
	h.OnBlockConfigUpdate(func(sw *Switch) {
		updated = append(updated, sw.Name)
	})

	require.NoError(t, h.AssignNodeToUnit(n1, "s1:s4:s8"))

	// Both affected chains fired the hook; the shared ancestors fired on
	// the add chain.
	assert.Contains(t, updated, "s0")
	assert.Contains(t, updated, "s1")
	assert.Contains(t, updated, "s4")
	assert.Contains(t, updated, "s8")
}

func TestAssignExclusivityOverManyMoves(t *testing.T) {
	cat, h := buildTest(t)
	n5 := cat.Get("n5")

	for _, unit := range []string{"s2:s5:s8", "s0:s4:s8", "s2:s5:s8", "s3:s5:s8"} {
		require.NoError(t, h.AssignNodeToUnit(n5, unit))
		assertUnionInvariant(t, h)
		assertExclusivity(t, h)
	}
	assert.True(t, h.NodeBitmap("s3").Test(uint(n5.Index)))
}
