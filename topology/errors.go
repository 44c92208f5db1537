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
	"github.com/pkg/errors"
)

var (
	ErrUnresolvedSwitch = errors.New("topology: unresolved switch")
	ErrNotLeafSwitch    = errors.New("topology: not a leaf switch")
	ErrUnknownNode      = errors.New("topology: unknown node")
	ErrEmptyTopology    = errors.New("topology: no switches configured")
	ErrDuplicateSwitch  = errors.New("topology: duplicate switch name")
)
