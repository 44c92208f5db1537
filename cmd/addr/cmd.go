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

package addr

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clusterfab/fabtree/cmd/bootstrap"
	"github.com/clusterfab/fabtree/cmd/flag"
)

var (
	configFile string

	Cmd = &cobra.Command{
		Use:   "addr <node>...",
		Short: "Resolve the hierarchical address of nodes",
		Long:  `Print the dotted switch-path address and the matching pattern for each node.`,
		Args:  cobra.MinimumNArgs(1),
		RunE:  exec,
	}
)

func init() {
	flag.ConfigFile(Cmd, &configFile)
}

func exec(_ *cobra.Command, args []string) error {
	_, _, h, err := bootstrap.Load(configFile)
	if err != nil {
		return err
	}

	for _, name := range args {
		address, pattern, err := h.NodeAddr(name)
		if err != nil {
			return err
		}
		fmt.Printf("%s address=%s pattern=%s\n", name, address, pattern)
	}
	return nil
}
