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
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/qubell-status/pkg/logger"
	"github.com/carverauto/qubell-status/pkg/models"
	"github.com/carverauto/qubell-status/pkg/watchmouse"
)

// queueDispatcher holds dispatched functions until the test drains them,
// like a UI loop that has not come around yet.
type queueDispatcher struct {
	mu  sync.Mutex
	fns []func()
}

func (q *queueDispatcher) Dispatch(fn func()) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.fns = append(q.fns, fn)
}

func (q *queueDispatcher) drain() int {
	q.mu.Lock()
	fns := q.fns
	q.fns = nil
	q.mu.Unlock()

	for _, fn := range fns {
		fn()
	}

	return len(fns)
}

type namedFetcher struct {
	name       string
	percentage int

	mu        sync.Mutex
	requestID string
}

func (f *namedFetcher) ServiceName() string { return f.name }

func (f *namedFetcher) FetchAvailability(ctx context.Context) (int, error) {
	id, _ := watchmouse.RequestIDFromContext(ctx)

	f.mu.Lock()
	f.requestID = id
	f.mu.Unlock()

	return f.percentage, nil
}

type recordingView struct {
	mu       sync.Mutex
	labels   []Label
	messages []string
}

func (v *recordingView) ShowLabel(label Label) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.labels = append(v.labels, label)
}

func (v *recordingView) Notify(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.messages = append(v.messages, message)
}

func TestRefresher_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	view := NewMockView(ctrl)

	fetcher.EXPECT().FetchAvailability(gomock.Any()).Return(100, nil)
	gomock.InOrder(
		view.EXPECT().ShowLabel(UpdatingLabel()),
		view.EXPECT().ShowLabel(Label{Text: "100%", State: StateOK}),
	)

	r := NewRefresher(context.Background(), fetcher, InlineDispatcher(), view, logger.NewTestLogger())
	defer r.Close()

	r.Refresh()
	r.Wait()

	last, ok := r.Last()
	require.True(t, ok)
	assert.Equal(t, 100, last.Percentage)
	assert.Equal(t, watchmouse.DefaultServiceName, last.Service)
	assert.NoError(t, last.Err)
	assert.True(t, last.OK())
}

func TestRefresher_FailureNotifiesAndShowsFailed(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	view := NewMockView(ctrl)

	fetchErr := errors.New("Failed to download status info: connection refused")

	fetcher.EXPECT().FetchAvailability(gomock.Any()).Return(0, fetchErr)
	gomock.InOrder(
		view.EXPECT().ShowLabel(UpdatingLabel()),
		view.EXPECT().Notify("Failed to download status info: connection refused"),
		view.EXPECT().ShowLabel(Label{Text: FailedText, State: StateFailed}),
	)

	r := NewRefresher(context.Background(), fetcher, InlineDispatcher(), view, nil)
	defer r.Close()

	r.Refresh()
	r.Wait()

	last, ok := r.Last()
	require.True(t, ok)
	assert.Equal(t, models.FailedAvailability, last.Percentage)
	assert.Equal(t, fetchErr, last.Err)
	assert.False(t, last.OK())
}

func TestRefresher_SequentialRefreshesAreIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	view := NewMockView(ctrl)

	fetcher.EXPECT().FetchAvailability(gomock.Any()).Return(97, nil).Times(2)
	gomock.InOrder(
		view.EXPECT().ShowLabel(UpdatingLabel()),
		view.EXPECT().ShowLabel(Label{Text: "97%", State: StateWarning}),
		view.EXPECT().ShowLabel(UpdatingLabel()),
		view.EXPECT().ShowLabel(Label{Text: "97%", State: StateWarning}),
	)

	r := NewRefresher(context.Background(), fetcher, InlineDispatcher(), view, logger.NewTestLogger())
	defer r.Close()

	r.Refresh()
	r.Wait()
	r.Refresh()
	r.Wait()
}

func TestRefresher_CoalescesConcurrentRefreshes(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	view := NewMockView(ctrl)
	dispatcher := &queueDispatcher{}

	release := make(chan struct{})

	fetcher.EXPECT().FetchAvailability(gomock.Any()).DoAndReturn(func(context.Context) (int, error) {
		<-release
		return 95, nil
	}).Times(1)

	view.EXPECT().ShowLabel(UpdatingLabel()).Times(3)
	view.EXPECT().ShowLabel(Label{Text: "95%", State: StateWarning}).Times(1)

	r := NewRefresher(context.Background(), fetcher, dispatcher, view, logger.NewTestLogger())
	defer r.Close()

	r.Refresh()
	r.Refresh()
	r.Refresh()

	close(release)
	r.Wait()

	// Every caller got the shared result, only the newest one renders it.
	assert.Equal(t, 3, dispatcher.drain())
}

func TestRefresher_DropsStaleResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	view := NewMockView(ctrl)
	dispatcher := &queueDispatcher{}

	gomock.InOrder(
		fetcher.EXPECT().FetchAvailability(gomock.Any()).Return(100, nil),
		fetcher.EXPECT().FetchAvailability(gomock.Any()).Return(50, nil),
	)

	view.EXPECT().ShowLabel(UpdatingLabel()).Times(2)
	view.EXPECT().ShowLabel(Label{Text: "50%", State: StateError}).Times(1)

	r := NewRefresher(context.Background(), fetcher, dispatcher, view, logger.NewTestLogger())
	defer r.Close()

	// The first result is still queued when the second refresh starts.
	r.Refresh()
	r.Wait()
	r.Refresh()
	r.Wait()

	assert.Equal(t, 2, dispatcher.drain())

	last, ok := r.Last()
	require.True(t, ok)
	assert.Equal(t, 50, last.Percentage)
}

func TestRefresher_CloseSuppressesRender(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	view := NewMockView(ctrl)
	dispatcher := &queueDispatcher{}

	started := make(chan struct{})

	fetcher.EXPECT().FetchAvailability(gomock.Any()).DoAndReturn(func(ctx context.Context) (int, error) {
		close(started)
		<-ctx.Done()

		return 0, ctx.Err()
	})

	view.EXPECT().ShowLabel(UpdatingLabel()).Times(1)

	r := NewRefresher(context.Background(), fetcher, dispatcher, view, logger.NewTestLogger())

	r.Refresh()
	<-started

	r.Close()
	r.Refresh()
	r.Wait()

	dispatcher.drain()

	_, ok := r.Last()
	assert.False(t, ok)
}

func TestRefresher_CancelledContextIsNoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	view := NewMockView(ctrl)
	dispatcher := NewMockDispatcher(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRefresher(ctx, fetcher, dispatcher, view, logger.NewTestLogger())
	r.Refresh()
	r.Wait()
}

func TestRefresher_UsesFetcherServiceNameAndCycleID(t *testing.T) {
	fetcher := &namedFetcher{name: "Backend", percentage: 92}
	view := &recordingView{}

	r := NewRefresher(context.Background(), fetcher, InlineDispatcher(), view, logger.NewTestLogger())
	defer r.Close()

	r.Refresh()
	r.Wait()

	last, ok := r.Last()
	require.True(t, ok)
	assert.Equal(t, "Backend", last.Service)
	assert.Equal(t, 92, last.Percentage)

	_, err := uuid.Parse(last.CycleID)
	require.NoError(t, err)

	fetcher.mu.Lock()
	assert.Equal(t, last.CycleID, fetcher.requestID)
	fetcher.mu.Unlock()

	view.mu.Lock()
	defer view.mu.Unlock()

	assert.Equal(t, []Label{UpdatingLabel(), {Text: "92%", State: StateWarning}}, view.labels)
	assert.Empty(t, view.messages)
}
