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

package rank

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clusterfab/fabtree/cmd/bootstrap"
	"github.com/clusterfab/fabtree/cmd/flag"
	"github.com/clusterfab/fabtree/topology"
)

var (
	configFile string
	force      bool

	Cmd = &cobra.Command{
		Use:   "rank",
		Short: "Assign and print leaf-switch node ranks",
		Long: `Assign one rank per leaf switch to every node under it and print
the result. Requires rankBySwitch in the topology config, or --force.`,
		RunE: exec,
	}
)

func init() {
	flag.ConfigFile(Cmd, &configFile)
	Cmd.Flags().BoolVar(&force, "force", false, "Rank even when rankBySwitch is not configured")
}

func exec(*cobra.Command, []string) error {
	cfg, cat, _, err := bootstrap.Load(configFile)
	if err != nil {
		return err
	}

	if force {
		cfg.RankBySwitch = true
	}
	if !topology.GenerateNodeRanking(cfg, cat) {
		fmt.Println("no ranks assigned")
		return nil
	}

	for _, name := range cat.Names() {
		fmt.Printf("%s rank=%d\n", name, cat.Get(name).Rank)
	}
	return nil
}
