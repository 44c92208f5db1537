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

package show

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/clusterfab/fabtree/cmd/bootstrap"
	"github.com/clusterfab/fabtree/cmd/flag"
	"github.com/clusterfab/fabtree/topology/topoinfo"
)

var (
	configFile string
	switchName string
	nodesList  string
	lineLen    int
	asYaml     bool

	Cmd = &cobra.Command{
		Use:   "show",
		Short: "Print the switch topology",
		Long:  `Print one line per switch of the configured topology, optionally filtered by switch name or node list.`,
		RunE:  exec,
	}
)

func init() {
	flag.ConfigFile(Cmd, &configFile)
	Cmd.Flags().StringVarP(&switchName, "switch", "s", "", "Only show the switch with this name")
	Cmd.Flags().StringVarP(&nodesList, "nodes", "n", "", "Only show switches whose nodes intersect this host list")
	Cmd.Flags().IntVar(&lineLen, "line-len", 0, "Truncate output lines to this length")
	Cmd.Flags().BoolVar(&asYaml, "yaml", false, "Dump the switch table as YAML")
}

func exec(*cobra.Command, []string) error {
	_, _, h, err := bootstrap.Load(configFile)
	if err != nil {
		return err
	}

	info := topoinfo.Snapshot(h)
	if asYaml {
		out, err := yaml.Marshal(info)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	}

	return info.Render(os.Stdout, topoinfo.RenderOptions{
		SwitchName: switchName,
		Nodes:      nodesList,
		MaxLineLen: lineLen,
	})
}
