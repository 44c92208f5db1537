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

package plan

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clusterfab/fabtree/cmd/bootstrap"
	"github.com/clusterfab/fabtree/cmd/flag"
	"github.com/clusterfab/fabtree/hostlist"
	"github.com/clusterfab/fabtree/topology"
)

var (
	configFile string
	width      int
	flatOnly   bool

	Cmd = &cobra.Command{
		Use:   "plan <targets>",
		Short: "Compute a fanout plan for a set of target nodes",
		Long: `Partition the target nodes (a host list, e.g. "n[1-16]") into
topology-aligned groups and estimate the communication tree depth.`,
		Args: cobra.ExactArgs(1),
		RunE: exec,
	}
)

func init() {
	flag.ConfigFile(Cmd, &configFile)
	flag.FanoutWidth(Cmd, &width)
	Cmd.Flags().BoolVar(&flatOnly, "flat", false, "Ignore the topology and split by width only")
}

func exec(_ *cobra.Command, args []string) error {
	cfg, _, h, err := bootstrap.Load(configFile)
	if err != nil {
		return err
	}

	targets, err := hostlist.Expand(args[0])
	if err != nil {
		return err
	}

	planner := topology.NewPlanner(h, topology.PlannerOptions{
		FlatRouting: flatOnly || cfg.FlatRouting,
	})
	p, err := planner.Plan(targets, width)
	if err != nil {
		return err
	}

	for i, group := range p.Groups {
		fmt.Printf("group[%d]: %s\n", i, hostlist.Compress(group))
	}
	fmt.Printf("depth: %d\n", p.Depth)
	return nil
}
