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

// Package status orchestrates the refresh cycle of the availability screen:
// show "updating", fetch off the UI goroutine, then render the outcome back on
// the UI goroutine.
package status

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/carverauto/qubell-status/pkg/logger"
	"github.com/carverauto/qubell-status/pkg/models"
	"github.com/carverauto/qubell-status/pkg/watchmouse"
)

const flightKey = "availability"

// Refresher runs fetch-parse-render cycles. At most one fetch is in flight;
// refreshes requested meanwhile join it. Only the most recently requested
// refresh renders, so an older completion can never overwrite a newer one.
//
// Refresh and Close are meant to be called from the goroutine that owns the view.
type Refresher struct {
	fetcher    Fetcher
	dispatcher Dispatcher
	view       View
	logger     logger.Logger
	telemetry  *telemetry
	service    string

	ctx    context.Context
	cancel context.CancelFunc
	group  singleflight.Group
	wg     sync.WaitGroup

	generation atomic.Uint64
	closed     atomic.Bool

	mu      sync.Mutex
	last    models.AvailabilityResult
	hasLast bool
}

// NewRefresher wires a Refresher. Cancelling ctx has the same effect as Close.
func NewRefresher(ctx context.Context, fetcher Fetcher, dispatcher Dispatcher, view View, log logger.Logger) *Refresher {
	if log == nil {
		log = logger.NewTestLogger()
	}

	service := watchmouse.DefaultServiceName
	if named, ok := fetcher.(interface{ ServiceName() string }); ok {
		service = named.ServiceName()
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Refresher{
		fetcher:    fetcher,
		dispatcher: dispatcher,
		view:       view,
		logger:     log,
		telemetry:  newTelemetry(log),
		service:    service,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Refresh shows the updating label immediately and starts (or joins) a fetch.
// The outcome is rendered later through the Dispatcher.
func (r *Refresher) Refresh() {
	if r.closed.Load() || r.ctx.Err() != nil {
		return
	}

	gen := r.generation.Add(1)

	r.telemetry.requests.Add(r.ctx, 1, metric.WithAttributes(serviceKey.String(r.service)))

	r.view.ShowLabel(UpdatingLabel())

	ch := r.group.DoChan(flightKey, func() (interface{}, error) {
		return r.fetch(), nil
	})

	r.logger.Debug().Uint64("generation", gen).Msg("Refresh requested")

	r.wg.Add(1)

	go r.await(gen, ch)
}

func (r *Refresher) await(gen uint64, ch <-chan singleflight.Result) {
	defer r.wg.Done()

	var res singleflight.Result

	select {
	case res = <-ch:
	case <-r.ctx.Done():
		return
	}

	result, _ := res.Val.(models.AvailabilityResult)

	r.dispatcher.Dispatch(func() {
		r.render(gen, result, res.Shared)
	})
}

func (r *Refresher) fetch() models.AvailabilityResult {
	cycleID := uuid.NewString()

	ctx, span := r.telemetry.tracer.Start(watchmouse.WithRequestID(r.ctx, cycleID), "status.refresh",
		trace.WithAttributes(cycleKey.String(cycleID), serviceKey.String(r.service)),
	)
	defer span.End()

	start := time.Now()

	percentage, err := r.fetcher.FetchAvailability(ctx)
	latency := time.Since(start)

	if err != nil {
		percentage = models.FailedAvailability

		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	span.SetAttributes(outcomeKey.String(outcome(err)))
	r.telemetry.recordFetch(ctx, r.service, latency, err)

	result := models.AvailabilityResult{
		CycleID:    cycleID,
		Service:    r.service,
		Percentage: percentage,
		Err:        err,
		FetchedAt:  start,
		Latency:    models.Duration(latency),
	}

	if err != nil {
		r.logger.Warn().
			Err(err).
			Str("cycle_id", cycleID).
			Str("error_kind", watchmouse.KindOf(err).String()).
			Dur("latency", latency).
			Msg("Availability fetch failed")
	} else {
		r.logger.Info().
			Str("cycle_id", cycleID).
			Int("percentage", percentage).
			Dur("latency", latency).
			Msg("Availability fetched")
	}

	return result
}

// render runs on the view's goroutine.
func (r *Refresher) render(gen uint64, result models.AvailabilityResult, shared bool) {
	if r.closed.Load() {
		return
	}

	if latest := r.generation.Load(); gen != latest {
		r.telemetry.stale.Add(r.ctx, 1, metric.WithAttributes(serviceKey.String(r.service)))

		r.logger.Debug().
			Uint64("generation", gen).
			Uint64("latest", latest).
			Str("cycle_id", result.CycleID).
			Msg("Dropping stale refresh result")

		return
	}

	r.mu.Lock()
	r.last = result
	r.hasLast = true
	r.mu.Unlock()

	label := RenderResult(result)

	if result.Err != nil {
		r.view.Notify(result.Err.Error())
	}

	r.view.ShowLabel(label)

	r.logger.Debug().
		Uint64("generation", gen).
		Str("cycle_id", result.CycleID).
		Str("state", label.State.String()).
		Bool("shared", shared).
		Msg("Rendered availability")
}

// Last returns the most recently rendered result.
func (r *Refresher) Last() (models.AvailabilityResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.last, r.hasLast
}

// Wait blocks until every started refresh has handed its result to the
// Dispatcher or given up because the Refresher was closed.
func (r *Refresher) Wait() {
	r.wg.Wait()
}

// Close cancels any in-flight fetch and suppresses all pending renders.
// Refresh is a no-op afterwards.
func (r *Refresher) Close() {
	if r.closed.Swap(true) {
		return
	}

	r.cancel()
	r.logger.Debug().Msg("Refresher closed")
}
