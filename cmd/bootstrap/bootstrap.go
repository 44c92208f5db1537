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

// Package bootstrap wires a topology configuration file into a node
// catalog and a built hierarchy for the CLI commands.
package bootstrap

import (
	"github.com/spf13/viper"

	"github.com/clusterfab/fabtree/catalog"
	"github.com/clusterfab/fabtree/topology"
)

// Load reads the topology config, derives the node catalog from it and
// builds the hierarchy.
func Load(configFile string) (topology.Config, *catalog.Catalog, *topology.Hierarchy, error) {
	v := viper.New()
	topology.SetConfigPath(v, configFile)
	return LoadFrom(v)
}

// LoadFrom is Load over an existing viper instance, so callers can keep
// the instance around for config watching.
func LoadFrom(v *viper.Viper) (topology.Config, *catalog.Catalog, *topology.Hierarchy, error) {
	cfg, err := topology.LoadConfig(v)
	if err != nil {
		return cfg, nil, nil, err
	}

	names, err := cfg.NodeNames()
	if err != nil {
		return cfg, nil, nil, err
	}
	cat, err := catalog.NewFromNames(names)
	if err != nil {
		return cfg, nil, nil, err
	}

	h, err := topology.Build(cfg, cat)
	if err != nil {
		return cfg, nil, nil, err
	}
	return cfg, cat, h, nil
}
