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

package watch

import (
	"io"
	"log/slog"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/clusterfab/fabtree/cmd/bootstrap"
	"github.com/clusterfab/fabtree/cmd/flag"
	"github.com/clusterfab/fabtree/common/process"
	"github.com/clusterfab/fabtree/topology"
	"github.com/clusterfab/fabtree/topology/topoinfo"
)

var (
	configFile string

	Cmd = &cobra.Command{
		Use:   "watch",
		Short: "Watch the topology config and reprint it on change",
		Long:  `Render the switch table, then re-read the config and render again every time the file changes.`,
		Run:   exec,
	}
)

func init() {
	flag.ConfigFile(Cmd, &configFile)
	Cmd.Flags().BoolVar(&process.PprofEnable, "profile", false, "Enable pprof profiler")
	Cmd.Flags().StringVar(&process.PprofBindAddress, "profile-bind-address", process.PprofBindAddress, "Bind address for pprof")
}

func exec(*cobra.Command, []string) {
	process.RunProcess(newWatcher)
}

// watcher re-renders the switch table whenever the config file changes.
type watcher struct {
	changes chan fsnotify.Event
	closed  chan struct{}
}

func newWatcher() (io.Closer, error) {
	v := viper.New()
	topology.SetConfigPath(v, configFile)

	render := func() error {
		_, _, h, err := bootstrap.LoadFrom(v)
		if err != nil {
			return err
		}
		return topoinfo.Snapshot(h).Render(os.Stdout, topoinfo.RenderOptions{})
	}

	if err := render(); err != nil {
		return nil, err
	}

	w := &watcher{
		changes: make(chan fsnotify.Event, 1),
		closed:  make(chan struct{}),
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		select {
		case w.changes <- e:
		case <-w.closed:
		}
	})

	go func() {
		for {
			select {
			case e := <-w.changes:
				slog.Info(
					"Topology config changed",
					slog.String("file", e.Name),
					slog.String("op", e.Op.String()),
				)
				if err := render(); err != nil {
					slog.Error(
						"Failed to rebuild topology",
						slog.Any("error", err),
					)
				}
			case <-w.closed:
				return
			}
		}
	}()
	return w, nil
}

func (w *watcher) Close() error {
	close(w.closed)
	return nil
}
