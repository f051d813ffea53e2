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

package logger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.31.0"
)

func TestInitializeTracing_Disabled(t *testing.T) {
	tests := []struct {
		name   string
		config *OTelConfig
	}{
		{name: "no config"},
		{name: "not enabled", config: &OTelConfig{Endpoint: "localhost:4317"}},
		{name: "no endpoint", config: &OTelConfig{Enabled: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tp, err := InitializeTracing(context.Background(), TracingConfig{OTel: tt.config})
			require.ErrorIs(t, err, ErrOTelTracingDisabled)
			assert.Nil(t, tp)
		})
	}
}

func TestInitializeTracing_SetsGlobalProvider(t *testing.T) {
	previous := otel.GetTracerProvider()

	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	cfg := &OTelConfig{Enabled: true, Endpoint: "localhost:4317", Insecure: true}

	tp, err := InitializeTracing(context.Background(), TracingConfig{OTel: cfg, Logger: NewTestLogger()})
	require.NoError(t, err)
	require.NotNil(t, tp)

	again, err := InitializeTracing(context.Background(), TracingConfig{OTel: cfg})
	require.NoError(t, err)
	assert.Same(t, tp, again)
	assert.Equal(t, tp, otel.GetTracerProvider())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, shutdownTracerProvider(ctx))
	require.NoError(t, shutdownTracerProvider(ctx))
}

func TestInitializeMetrics_Disabled(t *testing.T) {
	mp, err := InitializeMetrics(context.Background(), MetricsConfig{})
	require.ErrorIs(t, err, ErrOTelMetricsDisabled)
	assert.Nil(t, mp)

	mp, err = InitializeMetrics(context.Background(), MetricsConfig{OTel: &OTelConfig{Enabled: true}})
	require.ErrorIs(t, err, ErrOTelMetricsDisabled)
	assert.Nil(t, mp)

	require.NoError(t, shutdownMeterProvider(context.Background()))
}

func TestServiceResource(t *testing.T) {
	res, err := serviceResource(context.Background(), "")
	require.NoError(t, err)

	name, ok := res.Set().Value(semconv.ServiceNameKey)
	require.True(t, ok)
	assert.Equal(t, "qubell-status", name.AsString())

	res, err = serviceResource(context.Background(), "status-screen")
	require.NoError(t, err)

	name, _ = res.Set().Value(semconv.ServiceNameKey)
	assert.Equal(t, "status-screen", name.AsString())
}
