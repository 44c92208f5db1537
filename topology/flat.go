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
	"math"
)

// FanoutDepth returns the minimum depth of a width-ary forward tree
// covering n nodes. Width values below 2 are treated as 2.
func FanoutDepth(n, width int) int {
	if n <= 0 {
		return 0
	}
	k := float64(max(width, 2))
	return int(math.Ceil(math.Log(float64(n)*(k-1)+1) / math.Log(k)))
}

// SplitWidth partitions the node names into at most width contiguous
// groups of near-equal size, ignoring any topology information. It is the
// fallback when topology-aware routing is disabled or adds nothing.
func SplitWidth(names []string, width int) ([][]string, int) {
	n := len(names)
	if n == 0 {
		return nil, 0
	}
	w := max(width, 2)
	count := min(n, w)

	groups := make([][]string, 0, count)
	portion := n / count
	extra := n % count
	next := 0
	for i := 0; i < count; i++ {
		size := portion
		if i < extra {
			size++
		}
		groups = append(groups, names[next:next+size])
		next += size
	}
	return groups, FanoutDepth(n, w)
}
