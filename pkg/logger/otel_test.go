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
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	log "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"github.com/carverauto/qubell-status/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingExporter struct {
	mu      sync.Mutex
	records []sdklog.Record
}

func (e *recordingExporter) Export(_ context.Context, records []sdklog.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, r := range records {
		e.records = append(e.records, r.Clone())
	}

	return nil
}

func (*recordingExporter) Shutdown(context.Context) error   { return nil }
func (*recordingExporter) ForceFlush(context.Context) error { return nil }

func TestOTelConfig(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_LOGS_TIMEOUT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_LOGS_HEADERS", "x-api-key = secret, bad")

	config := DefaultOTelConfig()

	assert.Equal(t, "qubell-status", config.ServiceName)
	assert.Equal(t, models.Duration(5*time.Second), config.BatchTimeout)
	assert.Equal(t, map[string]string{"x-api-key": "secret"}, config.Headers)
}

func TestOTelWriter_Disabled(t *testing.T) {
	writer, err := NewOTELWriter(context.Background(), OTelConfig{Enabled: false})
	require.ErrorIs(t, err, ErrOTelLoggingDisabled)
	assert.Nil(t, writer)
}

func TestOTelWriter_NoEndpoint(t *testing.T) {
	writer, err := NewOTELWriter(context.Background(), OTelConfig{Enabled: true})
	require.ErrorIs(t, err, ErrOTelEndpointRequired)
	assert.Nil(t, writer)
}

func TestInitWithOTelEnabledButNoEndpoint(t *testing.T) {
	err := Init(context.Background(), &Config{
		Output: "stdout",
		OTel:   OTelConfig{Enabled: true},
	})
	require.ErrorIs(t, err, ErrOTelEndpointRequired)
}

func TestOTelWriter_Write(t *testing.T) {
	exporter := &recordingExporter{}
	provider := sdklog.NewLoggerProvider(sdklog.WithProcessor(sdklog.NewSimpleProcessor(exporter)))

	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	w := newOTelWriter(context.Background(), provider)

	line := `{"level":"warn","component":"refresher","time":"2025-01-02T03:04:05Z",` +
		`"message":"refresh failed","error_kind":"fetch","latency_ms":12}`
	n, err := w.Write([]byte(line))
	require.NoError(t, err)
	assert.Equal(t, len(line), n)

	n, err = w.Write([]byte("not json"))
	require.NoError(t, err)
	assert.Equal(t, len("not json"), n)

	exporter.mu.Lock()
	defer exporter.mu.Unlock()

	require.Len(t, exporter.records, 1)

	record := exporter.records[0]
	assert.Equal(t, "refresh failed", record.Body().AsString())
	assert.Equal(t, log.SeverityWarn, record.Severity())
	assert.Equal(t, "refresher", record.InstrumentationScope().Name)
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), record.Timestamp().UTC())

	attrs := map[string]string{}
	record.WalkAttributes(func(kv log.KeyValue) bool {
		attrs[kv.Key] = kv.Value.AsString()
		return true
	})

	assert.Equal(t, "fetch", attrs["error_kind"])
	assert.Equal(t, "12", attrs["latency_ms"])
	assert.NotContains(t, attrs, "message")
	assert.NotContains(t, attrs, "component")
}

func TestTruncateString(t *testing.T) {
	short, truncated := truncateString("abc", 10)
	assert.Equal(t, "abc", short)
	assert.False(t, truncated)

	long, truncated := truncateString(strings.Repeat("x", 20), 10)
	assert.Equal(t, "xxxxxxx...", long)
	assert.True(t, truncated)
}

func TestMapZerologLevelToOTEL(t *testing.T) {
	tests := []struct {
		zerologLevel string
		expected     log.Severity
	}{
		{"trace", log.SeverityTrace},
		{"debug", log.SeverityDebug},
		{"info", log.SeverityInfo},
		{"warn", log.SeverityWarn},
		{"warning", log.SeverityWarn},
		{"error", log.SeverityError},
		{"fatal", log.SeverityFatal},
		{"panic", log.SeverityFatal},
		{"unknown", log.SeverityInfo},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, mapZerologLevelToOTEL(test.zerologLevel), test.zerologLevel)
	}
}

func TestMultiWriter(t *testing.T) {
	var a, b strings.Builder

	mw := NewMultiWriter(&a, &b)
	n, err := mw.Write([]byte("line"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "line", a.String())
	assert.Equal(t, "line", b.String())
}

func TestOTelConfig_JSONUnmarshaling(t *testing.T) {
	configJSON := `{
		"enabled": true,
		"endpoint": "localhost:4317",
		"service_name": "test-service",
		"batch_timeout": "10s",
		"insecure": true,
		"headers": {
			"x-api-key": "test-key"
		}
	}`

	var config OTelConfig

	require.NoError(t, json.Unmarshal([]byte(configJSON), &config))

	assert.True(t, config.Enabled)
	assert.Equal(t, "localhost:4317", config.Endpoint)
	assert.Equal(t, "test-service", config.ServiceName)
	assert.Equal(t, models.Duration(10*time.Second), config.BatchTimeout)
	assert.True(t, config.Insecure)
	assert.Equal(t, "test-key", config.Headers["x-api-key"])
}
