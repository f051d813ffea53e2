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

	"github.com/carverauto/qubell-status/pkg/logger"
	"github.com/carverauto/qubell-status/pkg/models"
)

var errRefreshAborted = errors.New("refresh aborted")

// RunOnce performs a single refresh cycle against view and returns its outcome.
func RunOnce(ctx context.Context, fetcher Fetcher, view View, log logger.Logger) models.AvailabilityResult {
	r := NewRefresher(ctx, fetcher, InlineDispatcher(), view, log)
	defer r.Close()

	r.Refresh()
	r.Wait()

	if result, ok := r.Last(); ok {
		return result
	}

	err := context.Cause(ctx)
	if err == nil {
		err = errRefreshAborted
	}

	return models.AvailabilityResult{Percentage: models.FailedAvailability, Err: err}
}
