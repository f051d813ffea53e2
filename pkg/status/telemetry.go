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

package status

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/carverauto/qubell-status/pkg/logger"
	"github.com/carverauto/qubell-status/pkg/watchmouse"
)

const instrumentationName = "github.com/carverauto/qubell-status/pkg/status"

var (
	outcomeKey = attribute.Key("outcome")
	serviceKey = attribute.Key("service")
	cycleKey   = attribute.Key("cycle_id")
)

// telemetry holds the refresh instruments. Everything reports through the
// global OTel providers, which are no-ops unless export is configured.
type telemetry struct {
	tracer   trace.Tracer
	requests metric.Int64Counter
	results  metric.Int64Counter
	stale    metric.Int64Counter
	latency  metric.Float64Histogram
}

func newTelemetry(log logger.Logger) *telemetry {
	meter := otel.Meter(instrumentationName)
	fallback := noop.NewMeterProvider().Meter(instrumentationName)

	t := &telemetry{tracer: otel.Tracer(instrumentationName)}

	var err error

	if t.requests, err = meter.Int64Counter("status.refresh.requests",
		metric.WithDescription("Refresh requests, including ones joining an in-flight fetch")); err != nil {
		log.Warn().Err(err).Msg("Failed to create refresh request counter")

		t.requests, _ = fallback.Int64Counter("status.refresh.requests")
	}

	if t.results, err = meter.Int64Counter("status.refresh.results",
		metric.WithDescription("Completed fetches by outcome")); err != nil {
		log.Warn().Err(err).Msg("Failed to create refresh result counter")

		t.results, _ = fallback.Int64Counter("status.refresh.results")
	}

	if t.stale, err = meter.Int64Counter("status.refresh.stale",
		metric.WithDescription("Results dropped because a newer refresh was requested")); err != nil {
		log.Warn().Err(err).Msg("Failed to create stale result counter")

		t.stale, _ = fallback.Int64Counter("status.refresh.stale")
	}

	if t.latency, err = meter.Float64Histogram("status.fetch.duration",
		metric.WithDescription("Duration of availability fetches"),
		metric.WithUnit("s")); err != nil {
		log.Warn().Err(err).Msg("Failed to create fetch duration histogram")

		t.latency, _ = fallback.Float64Histogram("status.fetch.duration")
	}

	return t
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}

	return watchmouse.KindOf(err).String()
}

func (t *telemetry) recordFetch(ctx context.Context, service string, latency time.Duration, err error) {
	attrs := metric.WithAttributes(serviceKey.String(service), outcomeKey.String(outcome(err)))

	t.results.Add(ctx, 1, attrs)
	t.latency.Record(ctx, latency.Seconds(), attrs)
}
