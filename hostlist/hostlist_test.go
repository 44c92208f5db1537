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

package hostlist

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestExpandPlainNames(t *testing.T) {
	names, err := Expand("alpha,beta,gamma")
	assert.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, names)
}

func TestExpandRanges(t *testing.T) {
	names, err := Expand("n[1-3],n7,gpu[2,5-6]")
	assert.NoError(t, err)
	assert.Equal(t, []string{"n1", "n2", "n3", "n7", "gpu2", "gpu5", "gpu6"}, names)
}

func TestExpandZeroPadding(t *testing.T) {
	names, err := Expand("node[08-11]")
	assert.NoError(t, err)
	assert.Equal(t, []string{"node08", "node09", "node10", "node11"}, names)
}

func TestExpandMalformed(t *testing.T) {
	for _, list := range []string{"n[1-", "n]3", "n[a-b]", "n[5-2]"} {
		_, err := Expand(list)
		assert.True(t, errors.Is(err, ErrMalformed), "expected error for %q", list)
	}
}

func TestCompressFoldsConsecutive(t *testing.T) {
	assert.Equal(t, "n[1-3,7]", Compress([]string{"n1", "n2", "n3", "n7"}))
}

func TestCompressMixed(t *testing.T) {
	out := Compress([]string{"login", "n1", "n2", "gpu5"})
	assert.Equal(t, "login,n[1-2],gpu5", out)
}

func TestCompressKeepsPadding(t *testing.T) {
	assert.Equal(t, "node[08-10]", Compress([]string{"node08", "node09", "node10"}))
}

func TestCompressFoldsAcrossDigitBoundaries(t *testing.T) {
	var names []string
	for i := 1; i <= 12; i++ {
		names = append(names, fmt.Sprintf("n%d", i))
	}
	assert.Equal(t, "n[1-12]", Compress(names))

	// A padded run absorbs a suffix of the same digit count.
	assert.Equal(t, "n[09-10]", Compress([]string{"n09", "n10"}))

	// An unpadded run does not absorb a padded suffix.
	assert.Equal(t, "n8,n09", Compress([]string{"n8", "n09"}))
}

func TestCompressExpandRoundTrip(t *testing.T) {
	orig := []string{"rack1n1", "rack1n2", "rack1n3", "login", "gpu09", "gpu10"}
	names, err := Expand(Compress(orig))
	assert.NoError(t, err)
	assert.Equal(t, orig, names)
}

func TestExpandEmpty(t *testing.T) {
	names, err := Expand("")
	assert.NoError(t, err)
	assert.Empty(t, names)
}
