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
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFanoutDepth(t *testing.T) {
	for _, tc := range []struct {
		n, width, depth int
	}{
		{0, 16, 0},
		{1, 16, 1},
		{1, 2, 1},
		{2, 2, 2},
		{3, 2, 2},
		{4, 2, 3},
		{7, 2, 3},
		{8, 2, 4},
		{16, 16, 2},
		{100, 16, 3},
		{1000, 16, 4},
	} {
		assert.Equal(t, tc.depth, FanoutDepth(tc.n, tc.width),
			"n=%d width=%d", tc.n, tc.width)
	}
}

func TestFanoutDepthClampsWidth(t *testing.T) {
	assert.Equal(t, FanoutDepth(10, 2), FanoutDepth(10, 0))
	assert.Equal(t, FanoutDepth(10, 2), FanoutDepth(10, 1))
}

func TestSplitWidthEmpty(t *testing.T) {
	groups, depth := SplitWidth(nil, 16)
	assert.Nil(t, groups)
	assert.Equal(t, 0, depth)
}

func TestSplitWidthFewerNodesThanWidth(t *testing.T) {
	groups, _ := SplitWidth([]string{"a", "b", "c"}, 16)
	assert.Equal(t, [][]string{{"a"}, {"b"}, {"c"}}, groups)
}

func TestSplitWidthBalanced(t *testing.T) {
	names := make([]string, 10)
	for i := range names {
		names[i] = fmt.Sprintf("n%d", i)
	}
	groups, depth := SplitWidth(names, 3)

	// Sizes differ by at most one, larger groups first, order preserved.
	assert.Equal(t, 3, len(groups))
	assert.Equal(t, []string{"n0", "n1", "n2", "n3"}, groups[0])
	assert.Equal(t, []string{"n4", "n5", "n6"}, groups[1])
	assert.Equal(t, []string{"n7", "n8", "n9"}, groups[2])
	assert.Equal(t, FanoutDepth(10, 3), depth)
}
