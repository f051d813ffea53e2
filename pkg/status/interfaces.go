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

//go:generate mockgen -destination=mock_status.go -package=status github.com/carverauto/qubell-status/pkg/status Fetcher,Dispatcher,View

package status

import "context"

// Fetcher obtains the current availability percentage.
type Fetcher interface {
	FetchAvailability(ctx context.Context) (int, error)
}

// Dispatcher runs fn on the goroutine that owns the view.
type Dispatcher interface {
	Dispatch(fn func())
}

// View is the screen the Refresher drives. It is only ever called from
// functions passed to the Dispatcher, or from the caller of Refresh.
type View interface {
	ShowLabel(label Label)
	Notify(message string)
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(fn func())

func (f DispatcherFunc) Dispatch(fn func()) {
	f(fn)
}

// InlineDispatcher runs dispatched functions immediately on the calling
// goroutine. It suits views that do their own locking.
func InlineDispatcher() Dispatcher {
	return DispatcherFunc(func(fn func()) { fn() })
}
