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

package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/carverauto/qubell-status/pkg/logger"
)

// InitializeTelemetry starts trace and metric export using the same OTLP settings
// as log export. It does nothing when export is disabled. ShutdownLogger flushes
// and stops both pipelines.
func InitializeTelemetry(ctx context.Context, config *logger.Config, log logger.Logger) error {
	if config == nil || !config.OTel.Enabled || config.OTel.Endpoint == "" {
		return nil
	}

	otelConfig := config.OTel

	if _, err := logger.InitializeTracing(ctx, logger.TracingConfig{
		ServiceName: otelConfig.ServiceName,
		Logger:      log,
		OTel:        &otelConfig,
	}); err != nil && !errors.Is(err, logger.ErrOTelTracingDisabled) {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	if _, err := logger.InitializeMetrics(ctx, logger.MetricsConfig{
		ServiceName: otelConfig.ServiceName,
		OTel:        &otelConfig,
	}); err != nil && !errors.Is(err, logger.ErrOTelMetricsDisabled) {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}

	log.Info().Str("endpoint", otelConfig.Endpoint).Msg("OpenTelemetry export enabled")

	return nil
}
