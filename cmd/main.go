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

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/clusterfab/fabtree/cmd/addr"
	"github.com/clusterfab/fabtree/cmd/plan"
	"github.com/clusterfab/fabtree/cmd/rank"
	"github.com/clusterfab/fabtree/cmd/show"
	"github.com/clusterfab/fabtree/cmd/watch"
	"github.com/clusterfab/fabtree/common/logging"
)

var (
	logLevelStr string

	rootCmd = &cobra.Command{
		Use:   "fabtree",
		Short: "Cluster switch topology inspection and fanout planning",
		Long: `Tools for modeling the physical switch hierarchy of a compute
cluster and computing topology-aware fanout plans over it.`,
		PersistentPreRunE: configureLogLevel,
	}
)

func configureLogLevel(_ *cobra.Command, _ []string) error {
	logLevel, err := logging.ParseLogLevel(logLevelStr)
	if err != nil {
		return err
	}
	logging.LogLevel = logLevel
	logging.ConfigureLogger()
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&logLevelStr, "log-level", "l",
		logging.DefaultLogLevel.String(), "Set logging level [debug|info|warn|error]")
	rootCmd.PersistentFlags().BoolVarP(&logging.LogJSON, "log-json", "j", false,
		"Print logs in JSON format")

	rootCmd.AddCommand(addr.Cmd)
	rootCmd.AddCommand(plan.Cmd)
	rootCmd.AddCommand(rank.Cmd)
	rootCmd.AddCommand(show.Cmd)
	rootCmd.AddCommand(watch.Cmd)
}

func main() {
	if _, err := maxprocs.Set(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
