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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/qubell-status/pkg/models"
)

func TestRunOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	view := &recordingView{}

	fetcher.EXPECT().FetchAvailability(gomock.Any()).Return(99, nil)

	result := RunOnce(context.Background(), fetcher, view, nil)

	assert.Equal(t, 99, result.Percentage)
	assert.True(t, result.OK())
	assert.Equal(t, []Label{UpdatingLabel(), {Text: "99%", State: StateWarning}}, view.labels)
}

func TestRunOnce_Failure(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	view := &recordingView{}

	fetcher.EXPECT().FetchAvailability(gomock.Any()).Return(0, errors.New(`Can not find status for "Express agent"`))

	result := RunOnce(context.Background(), fetcher, view, nil)

	assert.False(t, result.OK())
	assert.Equal(t, models.FailedAvailability, result.Percentage)
	assert.Equal(t, []string{`Can not find status for "Express agent"`}, view.messages)
}

func TestRunOnce_CancelledContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	view := NewMockView(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := RunOnce(ctx, fetcher, view, nil)

	require.Error(t, result.Err)
	assert.ErrorIs(t, result.Err, context.Canceled)
	assert.Equal(t, models.FailedAvailability, result.Percentage)
}
