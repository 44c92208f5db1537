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
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// SetConfigPath points v at the topology configuration file and arms the
// file watcher, so callers can subscribe to change notifications through
// v.OnConfigChange.
func SetConfigPath(v *viper.Viper, configFile string) {
	v.SetConfigType("yaml")
	if configFile == "" {
		v.SetConfigName("topology")
		v.AddConfigPath("/etc/fabtree")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(configFile)
	}
	v.WatchConfig()
}

// LoadConfig reads and decodes the topology configuration from v.
func LoadConfig(v *viper.Viper) (Config, error) {
	cfg := Config{}

	if err := v.ReadInConfig(); err != nil {
		return cfg, errors.Wrap(err, "failed to read topology config")
	}

	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(), // default hook
		mapstructure.StringToSliceHookFunc(","),     // default hook
	))); err != nil {
		return cfg, errors.Wrap(err, "failed to load topology config")
	}

	return cfg, nil
}
