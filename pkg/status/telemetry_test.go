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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/qubell-status/pkg/logger"
	"github.com/carverauto/qubell-status/pkg/watchmouse"
)

func installTestProviders(t *testing.T) (*sdkmetric.ManualReader, *tracetest.SpanRecorder) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	recorder := tracetest.NewSpanRecorder()

	previousMeter, previousTracer := otel.GetMeterProvider(), otel.GetTracerProvider()

	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))

	t.Cleanup(func() {
		otel.SetMeterProvider(previousMeter)
		otel.SetTracerProvider(previousTracer)
	})

	return reader, recorder
}

// counterTotals sums int64 counters by metric name and outcome attribute.
func counterTotals(rm metricdata.ResourceMetrics) map[string]map[string]int64 {
	totals := make(map[string]map[string]int64)

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}

			if totals[m.Name] == nil {
				totals[m.Name] = make(map[string]int64)
			}

			for _, dp := range sum.DataPoints {
				value, _ := dp.Attributes.Value(outcomeKey)
				totals[m.Name][value.AsString()] += dp.Value
			}
		}
	}

	return totals
}

func histogramCount(rm metricdata.ResourceMetrics, name string) uint64 {
	var count uint64

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			hist, ok := m.Data.(metricdata.Histogram[float64])
			if !ok || m.Name != name {
				continue
			}

			for _, dp := range hist.DataPoints {
				count += dp.Count
			}
		}
	}

	return count
}

func TestRefresher_Telemetry(t *testing.T) {
	reader, recorder := installTestProviders(t)

	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	view := &recordingView{}
	dispatcher := &queueDispatcher{}

	notFound := &watchmouse.Error{Kind: watchmouse.KindNotFound, Message: `Can not find status for "Express agent"`}

	gomock.InOrder(
		fetcher.EXPECT().FetchAvailability(gomock.Any()).Return(100, nil),
		fetcher.EXPECT().FetchAvailability(gomock.Any()).Return(-1, notFound),
	)

	r := NewRefresher(context.Background(), fetcher, dispatcher, view, logger.NewTestLogger())
	defer r.Close()

	r.Refresh()
	r.Wait()
	r.Refresh()
	r.Wait()

	require.Equal(t, 2, dispatcher.drain())

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	totals := counterTotals(rm)
	assert.Equal(t, int64(2), totals["status.refresh.requests"][""])
	assert.Equal(t, int64(1), totals["status.refresh.stale"][""])
	assert.Equal(t, map[string]int64{"ok": 1, "not_found": 1}, totals["status.refresh.results"])
	assert.Equal(t, uint64(2), histogramCount(rm, "status.fetch.duration"))

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "status.refresh", spans[0].Name())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, notFound.Error(), spans[1].Status().Description)

	last, ok := r.Last()
	require.True(t, ok)
	assert.Equal(t, notFound, last.Err)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", outcome(nil))
	assert.Equal(t, "fetch", outcome(&watchmouse.Error{Kind: watchmouse.KindFetch}))
	assert.Equal(t, "parse", outcome(&watchmouse.Error{Kind: watchmouse.KindParse}))
	assert.Equal(t, "none", outcome(assert.AnError))
}
