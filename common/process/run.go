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

// Package process runs long-lived commands until an interrupt or
// termination signal arrives, with an optional pprof server.
package process

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	runtimepprof "runtime/pprof"
	"syscall"
)

var (
	PprofEnable      bool
	PprofBindAddress = "localhost:6060"
)

// RunProcess starts the process and blocks until a shutdown signal, then
// closes the process and exits.
func RunProcess(start func() (io.Closer, error)) {
	profiler := RunProfiling()
	proc, err := start()
	if err != nil {
		slog.Error(
			"Failed to start the process",
			slog.Any("error", err),
		)
		os.Exit(1)
	}

	WaitUntilSignal(proc, profiler)
}

// WaitUntilSignal blocks until SIGINT or SIGTERM, closes the closers in
// order and exits the process.
func WaitUntilSignal(closers ...io.Closer) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	sig := <-c
	slog.Info(
		"Received signal, exiting",
		slog.String("signal", sig.String()),
	)

	code := 0
	for _, closer := range closers {
		if err := closer.Close(); err != nil {
			slog.Error(
				"Failed when shutting down",
				slog.Any("error", err),
			)
			code = 1
		}
	}
	if code == 0 {
		slog.Info("Shutdown completed")
	}
	os.Exit(code)
}

// RunProfiling serves pprof on PprofBindAddress when enabled. The returned
// closer stops the server; with profiling disabled it is a no-op.
func RunProfiling() io.Closer {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	s := &http.Server{
		Addr:    PprofBindAddress,
		Handler: mux,
	}

	if !PprofEnable {
		return s
	}

	slog.Info("Starting pprof server", slog.String("address", s.Addr))
	slog.Info("  use `go tool pprof http://" + s.Addr + "/debug/pprof/profile` for cpu profiles")
	slog.Info("  use `go tool pprof http://" + s.Addr + "/debug/pprof/heap` for heap profiles")

	go runtimepprof.Do(context.Background(),
		runtimepprof.Labels("fabtree", "pprof"),
		func(_ context.Context) {
			if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error(
					"Unable to start debug profiling server",
					slog.Any("error", err),
					slog.String("component", "pprof"),
				)
				os.Exit(1)
			}
		})

	return s
}
