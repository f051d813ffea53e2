/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/carverauto/qubell-status/pkg/config"
	"github.com/carverauto/qubell-status/pkg/lifecycle"
	"github.com/carverauto/qubell-status/pkg/logger"
	"github.com/carverauto/qubell-status/pkg/status"
	"github.com/carverauto/qubell-status/pkg/tui"
	"github.com/carverauto/qubell-status/pkg/version"
	"github.com/carverauto/qubell-status/pkg/watchmouse"
)

func main() {
	code, err := run()
	if err != nil {
		log.Fatalf("Fatal error: %v", err)
	}

	os.Exit(code)
}

func run() (int, error) {
	configPath := flag.String("config", "", "Path to status config file (JSON or YAML)")
	once := flag.Bool("once", false, "Refresh once, print the result and exit")
	jsonOut := flag.Bool("json", false, "Print the one-shot result as JSON (implies -once)")
	showVersion := flag.Bool("version", false, "Print version and exit")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.GetFullVersion())

		return 0, nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Step 1: Load config
	cfg := status.DefaultConfig()
	if err := config.NewConfig(nil).LoadAndValidate(ctx, *configPath, cfg); err != nil {
		return 1, fmt.Errorf("failed to load config: %w", err)
	}

	interactive := !*once && !*jsonOut && term.IsTerminal(int(os.Stdout.Fd()))
	if !interactive {
		cfg.UseConsoleLogging()
	}

	// Step 2: Create logger from loaded config
	logConfig := *cfg.Logging
	if *debug {
		logConfig.Debug = true
	}

	statusLogger, err := lifecycle.CreateComponentLogger(ctx, "status", &logConfig)
	if err != nil {
		return 1, fmt.Errorf("failed to initialize logger: %w", err)
	}

	defer func() {
		if shutdownErr := lifecycle.ShutdownLogger(); shutdownErr != nil {
			log.Printf("Failed to shutdown logger: %v", shutdownErr)
		}
	}()

	if err := lifecycle.InitializeTelemetry(ctx, &logConfig, statusLogger); err != nil {
		return 1, err
	}

	// Step 3: Create the status client
	client, err := watchmouse.NewClient(cfg.ClientOptions(statusLogger))
	if err != nil {
		return 1, fmt.Errorf("failed to create status client: %w", err)
	}

	statusLogger.Info().
		Str("endpoint", client.Endpoint()).
		Str("service", client.ServiceName()).
		Str("version", version.GetFullVersion()).
		Msg("Starting status")

	if !interactive {
		return runOnce(ctx, client, *jsonOut, os.Stdout, statusLogger)
	}

	// Step 4: Run the interactive screen
	m := tui.NewModel(tui.Options{
		ServiceName:     client.ServiceName(),
		Endpoint:        client.Endpoint(),
		NotifyDuration:  time.Duration(cfg.NotifyDuration),
		RefreshInterval: time.Duration(cfg.RefreshInterval),
		Logger:          statusLogger,
	})

	refresher := status.NewRefresher(ctx, client, m.Dispatcher(), m, statusLogger)
	m.Attach(refresher)

	if err := tui.Run(ctx, m); err != nil {
		return 1, err
	}

	refresher.Wait()

	return 0, nil
}

func runOnce(ctx context.Context, client status.Fetcher, jsonOut bool, out io.Writer, log logger.Logger) (int, error) {
	var view status.View = tui.NewConsoleView(out)
	if jsonOut {
		view = silentView{}
	}

	result := status.RunOnce(ctx, client, view, log)

	if jsonOut {
		if err := tui.WriteJSON(out, result); err != nil {
			return 1, fmt.Errorf("failed to write result: %w", err)
		}
	}

	if !result.OK() {
		return 1, nil
	}

	return 0, nil
}

// silentView discards screen updates when the result is printed as JSON.
type silentView struct{}

func (silentView) ShowLabel(status.Label) {}
func (silentView) Notify(string)          {}
