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

package logger_test

import (
	"context"
	"errors"

	"github.com/carverauto/qubell-status/pkg/logger"
)

func ExampleInit() {
	config := &logger.Config{
		Level:  "debug",
		Output: "stderr",
	}

	if err := logger.Init(context.Background(), config); err != nil {
		panic(err)
	}

	defer func() { _ = logger.Shutdown() }()

	logger.Info().Str("component", "example").Msg("Logger initialized successfully")
}

func ExampleWithComponent() {
	refreshLogger := logger.WithComponent("refresher")

	refreshLogger.Info().
		Str("cycle_id", "2b1f6c1e-9a53-4a52-9d0e-7d3c1f2a8e11").
		Int("percentage", 99).
		Msg("Availability fetched")
}

func ExampleSetDebug() {
	logger.SetDebug(true)
	logger.Debug().Msg("This debug message will be visible")

	logger.SetDebug(false)
	logger.Debug().Msg("This debug message will be hidden")
	logger.Info().Msg("This info message will still be visible")
}

func Example_otelWithoutCollector() {
	// Export stays off unless both enabled and an endpoint are set.
	config := logger.DefaultConfig()
	config.OTel.Enabled = true
	config.OTel.Endpoint = ""

	err := logger.Init(context.Background(), config)
	if errors.Is(err, logger.ErrOTelEndpointRequired) {
		logger.Warn().Msg("OTel endpoint missing, logging locally only")
	}
}
