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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() *TopoInfo {
	return &TopoInfo{Records: []Record{
		{Level: 0, LinkSpeed: 100, Name: "s0", Nodes: "n[1-3]"},
		{Level: 0, LinkSpeed: 100, Name: "s1", Nodes: "n[4-6]"},
		{Level: 1, LinkSpeed: 40, Name: "s4", Nodes: "n[1-6]", Switches: "s[0-1]"},
	}}
}

func TestCodecRoundTrip(t *testing.T) {
	orig := testSnapshot()

	decoded, err := Decode(orig.Encode())
	require.NoError(t, err)
	assert.Equal(t, orig.Records, decoded.Records)
}

func TestCodecRoundTripEmpty(t *testing.T) {
	decoded, err := Decode((&TopoInfo{}).Encode())
	require.NoError(t, err)
	assert.Empty(t, decoded.Records)
}

func TestDecodeTruncated(t *testing.T) {
	buf := testSnapshot().Encode()

	// Any proper prefix that cuts inside a record must fail cleanly.
	for _, n := range []int{0, 3, 4, 5, 9, 10, 14, len(buf) / 2, len(buf) - 1} {
		_, err := Decode(buf[:n])
		assert.ErrorIs(t, err, ErrTruncated, "prefix length %d", n)
	}
}

func TestDecodeStringLengthBeyondBuffer(t *testing.T) {
	buf := []byte{
		0, 0, 0, 1, // one record
		0, 0, // level
		0, 0, 0, 0, // link speed
		0, 0, 1, 0, // name length 256, but nothing follows
	}
	_, err := Decode(buf)
	assert.ErrorIs(t, err, ErrTruncated)
}
