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

package catalog

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestAddAssignsIndices(t *testing.T) {
	c := New()
	a, err := c.Add("n1")
	assert.NoError(t, err)
	b, err := c.Add("n2")
	assert.NoError(t, err)

	assert.Equal(t, 0, a.Index)
	assert.Equal(t, 1, b.Index)
	assert.Equal(t, 2, c.Count())
	assert.Same(t, a, c.Get("n1"))
	assert.Same(t, b, c.At(1))
}

func TestAddDuplicate(t *testing.T) {
	c := New()
	_, err := c.Add("n1")
	assert.NoError(t, err)
	_, err = c.Add("n1")
	assert.True(t, errors.Is(err, ErrDuplicateNode))
}

func TestLookupMisses(t *testing.T) {
	c, err := NewFromNames([]string{"n1"})
	assert.NoError(t, err)
	assert.Nil(t, c.Get("nope"))
	assert.Nil(t, c.At(-1))
	assert.Nil(t, c.At(1))
}

func TestNames(t *testing.T) {
	c, err := NewFromNames([]string{"n1", "n2", "n3"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"n1", "n2", "n3"}, c.Names())
}
